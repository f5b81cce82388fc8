package registry

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/specialistvlad/cecplan/internal/cec"
	"github.com/specialistvlad/cecplan/internal/ctxlog"
	"github.com/specialistvlad/cecplan/internal/plan"
	"github.com/specialistvlad/cecplan/internal/schema"
	"github.com/specialistvlad/cecplan/internal/validate"
)

// BuildActionChain lowers the action list of a trigger. It constructs an
// Automation bound to the trigger, lowers every action in order and hands
// them to the automation. An empty list lowers to nothing.
func (r *Registry) BuildActionChain(ctx context.Context, p *plan.Program, trigger plan.Identifier, args []plan.Arg, actions []schema.Action) error {
	if len(actions) == 0 {
		return nil
	}
	logger := ctxlog.FromContext(ctx)
	logger.Debug("Lowering action chain.", zap.String("trigger", trigger.Name), zap.Int("actions", len(actions)))

	automation := p.MustAllocate(cec.KindAutomation)
	p.Construct(automation, []plan.Identifier{trigger})

	env := &Env{Program: p, Args: args}
	var errs validate.Errors
	ids := make(plan.Refs, 0, len(actions))
	for _, a := range actions {
		def, ok := r.definitions[a.Name]
		if !ok {
			// Validation resolves names through the same registry.
			panic(&plan.ContractViolation{Op: "lower", Target: a.Config.Path().String(), Reason: fmt.Sprintf("action %q is not registered", a.Name)})
		}
		id, err := def.Compile(ctx, env, a.Config)
		if err != nil {
			errs = errs.Append(err)
			continue
		}
		ids = append(ids, id)
	}
	if err := errs.Err(); err != nil {
		return err
	}

	p.Set(automation, "add_actions", ids)
	return nil
}

// Chain returns the actions lowered for trigger, in order, or nil when the
// trigger has no automation.
func Chain(p *plan.Program, trigger plan.Identifier) []plan.Identifier {
	for _, automation := range p.OfKind(cec.KindAutomation) {
		ctor, ok := p.Constructor(automation)
		if !ok || len(ctor.Deps) == 0 || ctor.Deps[0] != trigger {
			continue
		}
		v, _ := p.Setter(automation, "add_actions")
		if refs, ok := v.(plan.Refs); ok {
			return append([]plan.Identifier(nil), refs...)
		}
	}
	return nil
}
