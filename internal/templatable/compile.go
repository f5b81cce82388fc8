package templatable

import (
	"fmt"
	"strings"

	"github.com/specialistvlad/cecplan/internal/plan"
	"github.com/specialistvlad/cecplan/internal/validate"
)

// Lower converts v into the value of a setter. emit is false when v is
// absent: absent fields produce no setter at all.
//
// A literal becomes a plain value of type returns. A deferred value becomes
// a plan.Lambda over args; every variable it reads must be one of args and
// every function it calls must be in Functions().
func Lower(v Value, args []plan.Arg, returns plan.Type) (out plan.Value, emit bool, err error) {
	switch v.state {
	case StateAbsent:
		return nil, false, nil
	case StateLiteral:
		return literal(v, returns), true, nil
	}

	l := v.lambda
	vars, funcs := References(l.Expr)
	slots := make(map[string]bool, len(args))
	names := make([]string, len(args))
	for i, a := range args {
		slots[a.Name] = true
		names[i] = a.Name
	}
	for _, name := range vars {
		if !slots[name] {
			if len(args) == 0 {
				return nil, false, validate.Invalid("lambda refers to %q but no variables are available here", name).At(v.path)
			}
			return nil, false, validate.Invalid("lambda refers to unknown variable %q, available: %s", name, strings.Join(names, ", ")).At(v.path)
		}
	}
	lib := Functions()
	for _, name := range funcs {
		if _, ok := lib[name]; !ok {
			return nil, false, validate.Invalid("lambda calls unknown function %q", name).At(v.path)
		}
	}

	return plan.Lambda{
		Source:  l.Source,
		Args:    append([]plan.Arg(nil), args...),
		Returns: returns,
		Expr:    l.Expr,
		Check:   v.check,
	}, true, nil
}

func literal(v Value, returns plan.Type) plan.Value {
	mismatch := func() {
		panic(&plan.ContractViolation{
			Op:     "lower",
			Target: v.path.String(),
			Reason: fmt.Sprintf("literal %T cannot be lowered as %s", v.literal, returns),
		})
	}
	switch returns {
	case plan.TypeUint8, plan.TypeUint16:
		n, ok := v.literal.(int)
		if !ok {
			mismatch()
		}
		return plan.Int{T: returns, V: n}
	case plan.TypeBool:
		b, ok := v.literal.(bool)
		if !ok {
			mismatch()
		}
		return plan.Bool(b)
	case plan.TypeString:
		s, ok := v.literal.(string)
		if !ok {
			mismatch()
		}
		return plan.String(s)
	case plan.TypeBytes:
		b, ok := v.literal.([]byte)
		if !ok {
			mismatch()
		}
		return plan.Bytes(b)
	}
	mismatch()
	return nil
}
