// Package lower turns a validated hdmi_cec configuration into a plan.
//
// The emitted order is fixed: the component object first, with no
// dependencies; then one setter per field the user wrote, in field table
// order; then every on_message entry in declaration order. Defaults never
// produce setters. A pin is constructed immediately before the setter that
// passes it to the component.
package lower
