package templatable

import (
	"errors"

	"github.com/zclconf/go-cty/cty"

	"github.com/specialistvlad/cecplan/internal/config"
	"github.com/specialistvlad/cecplan/internal/nodeid"
	"github.com/specialistvlad/cecplan/internal/validate"
)

// State is the tag of a Value.
type State int

const (
	StateAbsent State = iota
	StateLiteral
	StateDeferred
)

func (s State) String() string {
	switch s {
	case StateLiteral:
		return "literal"
	case StateDeferred:
		return "deferred"
	default:
		return "absent"
	}
}

// Value is a validated templatable field.
type Value struct {
	state   State
	literal any
	lambda  *config.Lambda
	check   validate.Func
	path    *nodeid.Address
}

// Absent returns the value of a field that was not configured.
func Absent() Value {
	return Value{}
}

// Literal returns a compile-time value that already passed validation.
func Literal(v any) Value {
	return Value{state: StateLiteral, literal: v}
}

// Deferred returns a lambda whose result is validated by check when it runs.
func Deferred(l *config.Lambda, check validate.Func, path *nodeid.Address) Value {
	return Value{state: StateDeferred, lambda: l, check: check, path: path}
}

// Parse validates a raw field value found at path. Lambdas become deferred
// values; everything else is validated with check right away.
func Parse(raw cty.Value, check validate.Func, path *nodeid.Address) (Value, error) {
	if l, ok := config.AsLambda(raw); ok {
		return Deferred(l, check, path), nil
	}
	v, err := check(raw)
	if err != nil {
		var vErr *validate.Error
		if errors.As(err, &vErr) {
			return Value{}, vErr.At(path)
		}
		return Value{}, validate.Invalid("%v", err).At(path)
	}
	return Value{state: StateLiteral, literal: v, check: check, path: path}, nil
}

func (v Value) State() State          { return v.state }
func (v Value) IsAbsent() bool        { return v.state == StateAbsent }
func (v Value) IsDeferred() bool      { return v.state == StateDeferred }
func (v Value) Path() *nodeid.Address { return v.path }

// LiteralValue returns the validated literal; ok is false for other states.
func (v Value) LiteralValue() (any, bool) {
	return v.literal, v.state == StateLiteral
}

// Lambda returns the deferred expression; ok is false for other states.
func (v Value) Lambda() (*config.Lambda, bool) {
	return v.lambda, v.state == StateDeferred
}

// Raw converts the value back into its raw configuration form.
func (v Value) Raw() cty.Value {
	switch v.state {
	case StateDeferred:
		return config.LambdaVal(v.lambda)
	case StateLiteral:
		return rawOf(v.literal)
	}
	return cty.NullVal(cty.DynamicPseudoType)
}

func rawOf(v any) cty.Value {
	switch x := v.(type) {
	case int:
		return cty.NumberIntVal(int64(x))
	case bool:
		return cty.BoolVal(x)
	case string:
		return cty.StringVal(x)
	case []byte:
		if len(x) == 0 {
			return cty.EmptyTupleVal
		}
		elems := make([]cty.Value, len(x))
		for i, b := range x {
			elems[i] = cty.NumberIntVal(int64(b))
		}
		return cty.TupleVal(elems)
	}
	return cty.NullVal(cty.DynamicPseudoType)
}
