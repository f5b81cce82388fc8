package templatable

import (
	"fmt"

	"github.com/hashicorp/hcl/v2"
	"github.com/zclconf/go-cty/cty"

	"github.com/specialistvlad/cecplan/internal/plan"
)

// EvalError is a failure of a deferred value at runtime: the expression
// could not be evaluated, or its result did not pass the field validator.
type EvalError struct {
	Source string
	Err    error
}

func (e *EvalError) Error() string {
	return fmt.Sprintf("lambda %q: %v", e.Source, e.Err)
}

func (e *EvalError) Unwrap() error { return e.Err }

// Evaluate runs a lowered lambda against the slot values of one invocation
// and validates the result the same way a literal would have been. Slots
// the lambda does not declare are ignored.
func Evaluate(l plan.Lambda, slots map[string]cty.Value) (any, error) {
	vars := make(map[string]cty.Value, len(l.Args))
	for _, a := range l.Args {
		v, ok := slots[a.Name]
		if !ok {
			return nil, &EvalError{Source: l.Source, Err: fmt.Errorf("slot %q has no value", a.Name)}
		}
		vars[a.Name] = v
	}

	ctx := &hcl.EvalContext{
		Variables: vars,
		Functions: Functions(),
	}
	val, diags := l.Expr.Value(ctx)
	if diags.HasErrors() {
		return nil, &EvalError{Source: l.Source, Err: diags}
	}
	if l.Check == nil {
		return val, nil
	}
	out, err := l.Check(val)
	if err != nil {
		return nil, &EvalError{Source: l.Source, Err: err}
	}
	return out, nil
}
