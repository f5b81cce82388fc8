package config

import (
	"reflect"

	"github.com/hashicorp/hcl/v2"
	"github.com/zclconf/go-cty/cty"
)

// ComponentKey is the top-level key (YAML) or block type (HCL) that holds
// the HDMI-CEC component configuration.
const ComponentKey = "hdmi_cec"

// Document is one loaded configuration source.
type Document struct {
	// Filename is the path the document was loaded from.
	Filename string
	// Component is the raw tree found under ComponentKey.
	Component cty.Value
}

// Lambda is an expression whose value is only known once the generated
// object graph runs, e.g. `source` inside an on_message automation.
type Lambda struct {
	// Expr is the parsed expression.
	Expr hcl.Expression
	// Source is the expression text as the user wrote it.
	Source string
}

// LambdaType is the cty capsule type carrying a *Lambda through a raw tree.
var LambdaType = cty.Capsule("lambda", reflect.TypeOf(Lambda{}))

// LambdaVal wraps l into a raw tree value.
func LambdaVal(l *Lambda) cty.Value {
	return cty.CapsuleVal(LambdaType, l)
}

// AsLambda unwraps a raw tree value produced by LambdaVal.
func AsLambda(v cty.Value) (*Lambda, bool) {
	if v.IsNull() || !v.IsKnown() || !v.Type().Equals(LambdaType) {
		return nil, false
	}
	l, ok := v.EncapsulatedValue().(*Lambda)
	return l, ok
}
