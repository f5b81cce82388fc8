// Package validate holds the scalar validators of the configuration compiler
// and the ValidationError type every user-facing failure is reported with.
//
// A validator is a pure function from a raw cty.Value to a Go value. It never
// mutates its input and never panics on bad input: it returns an *Error that
// the schema layer later anchors to a field path.
package validate
