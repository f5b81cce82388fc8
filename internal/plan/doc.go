// Package plan is the output of lowering: an arena of object identifiers
// and the ordered construct and setter instructions that build a device
// configuration at startup. A Program refuses any instruction that refers
// to an object that does not exist yet; such a request is a bug in the
// lowering code and panics with a *ContractViolation.
//
// Programs are rendered as annotated text or as a JSON document, and JSON
// documents can be checked against the published plan schema.
package plan
