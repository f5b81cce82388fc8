// Package schema describes and validates the configuration tree of the
// hdmi_cec component.
//
// A schema is a Node: an ordered, closed table of Fields. Each field is
// required or optional (optionally with a default), and validates its raw
// value with a validate.Func, a nested Node, a list of nested Nodes, or a
// list of registered actions. Validation turns a raw cty tree into a
// Config that remembers, per field, both the validated value and whether
// the user wrote it. Lowering depends on that distinction: a defaulted
// field is readable but never emitted.
//
// The component has five schema generations. Each one is built from the
// previous one with Extend or Insert, so field validators are defined once.
package schema
