package actions

import (
	"context"

	"go.uber.org/zap"

	"github.com/specialistvlad/cecplan/internal/cec"
	"github.com/specialistvlad/cecplan/internal/ctxlog"
	"github.com/specialistvlad/cecplan/internal/plan"
	"github.com/specialistvlad/cecplan/internal/registry"
	"github.com/specialistvlad/cecplan/internal/schema"
	"github.com/specialistvlad/cecplan/internal/templatable"
	"github.com/specialistvlad/cecplan/internal/validate"
)

// Send is the hdmi_cec.send action: transmit one frame through a component.
type Send struct{}

// Register implements registry.Module.
func (Send) Register(r *registry.Registry) {
	r.Register(&registry.Definition{
		Name:    schema.SendActionName,
		Kind:    cec.KindSendAction,
		Schema:  schema.SendAction(),
		Compile: compileSend,
	})
}

// sendSetters lists the templatable fields in emission order. An absent
// source is left to the runtime, which uses the parent's own address.
var sendSetters = []struct {
	name    string
	returns plan.Type
}{
	{"source", plan.TypeUint8},
	{"destination", plan.TypeUint8},
	{"data", plan.TypeBytes},
}

func compileSend(ctx context.Context, env *registry.Env, cfg *schema.Config) (plan.Identifier, error) {
	parent, err := resolveParent(env.Program, cfg)
	if err != nil {
		return plan.Identifier{}, err
	}

	// Lower every field before emitting anything so a bad lambda leaves no
	// half-built action behind.
	var errs validate.Errors
	values := make([]plan.Value, len(sendSetters))
	for i, s := range sendSetters {
		v, emit, err := templatable.Lower(cfg.Templatable(s.name), env.Args, s.returns)
		if err != nil {
			errs = errs.Append(err)
			continue
		}
		if emit {
			values[i] = v
		}
	}
	if err := errs.Err(); err != nil {
		return plan.Identifier{}, err
	}

	id := env.Program.MustAllocate(cec.KindSendAction)
	env.Program.Construct(id, []plan.Identifier{parent})
	for i, s := range sendSetters {
		if values[i] != nil {
			env.Program.Set(id, s.name, values[i])
		}
	}
	ctxlog.FromContext(ctx).Debug("Lowered send action.", zap.String("id", id.Name), zap.String("parent", parent.Name))
	return id, nil
}

// resolveParent finds the component an action sends through: the one named
// by `parent`, or the only one configured.
func resolveParent(p *plan.Program, cfg *schema.Config) (plan.Identifier, error) {
	if name, ok := cfg.String("parent"); ok {
		id, found := p.Lookup(name)
		if !found {
			return plan.Identifier{}, validate.Invalid("couldn't find ID %q", name).At(cfg.FieldPath("parent"))
		}
		if id.Kind != cec.KindDevice {
			return plan.Identifier{}, validate.Invalid("ID %q is a %s, not a hdmi_cec component", name, id.Kind).At(cfg.FieldPath("parent"))
		}
		return id, nil
	}

	devices := p.OfKind(cec.KindDevice)
	switch len(devices) {
	case 1:
		return devices[0], nil
	case 0:
		return plan.Identifier{}, validate.Invalid("no hdmi_cec component is configured").At(cfg.Path())
	default:
		return plan.Identifier{}, validate.Invalid("parent is required when more than one hdmi_cec component is configured").At(cfg.FieldPath("parent"))
	}
}
