package trigger

import (
	"context"
	"errors"

	"go.uber.org/zap"

	"github.com/specialistvlad/cecplan/internal/cec"
	"github.com/specialistvlad/cecplan/internal/ctxlog"
	"github.com/specialistvlad/cecplan/internal/plan"
	"github.com/specialistvlad/cecplan/internal/schema"
	"github.com/specialistvlad/cecplan/internal/validate"
)

// Slots are the values a trigger passes to its actions.
var Slots = []plan.Arg{
	{Name: "source", Type: plan.TypeUint8},
	{Name: "destination", Type: plan.TypeUint8},
	{Name: "data", Type: plan.TypeBytes},
}

// ActionBuilder lowers the action list of a trigger.
type ActionBuilder interface {
	BuildActionChain(ctx context.Context, p *plan.Program, trigger plan.Identifier, args []plan.Arg, actions []schema.Action) error
}

// axes lists the filter fields in emission order.
var axes = []struct {
	name string
	typ  plan.Type
}{
	{"source", plan.TypeUint8},
	{"destination", plan.TypeUint8},
	{"opcode", plan.TypeUint8},
	{"data", plan.TypeBytes},
}

// Compile lowers one on_message entry bound to device: the trigger object,
// one setter per configured filter axis, then its action chain.
func Compile(ctx context.Context, p *plan.Program, device plan.Identifier, cfg *schema.Config, actions ActionBuilder) (plan.Identifier, error) {
	logger := ctxlog.FromContext(ctx)
	logger.Debug("Lowering trigger.", zap.String("path", cfg.Path().String()))

	name, _ := cfg.String("trigger_id")
	id, err := p.Allocate(cec.KindTrigger, name)
	if err != nil {
		if errors.Is(err, plan.ErrDuplicateID) {
			return plan.Identifier{}, validate.Invalid("%v", err).At(cfg.FieldPath("trigger_id"))
		}
		return plan.Identifier{}, err
	}
	p.Construct(id, []plan.Identifier{device})

	for _, axis := range axes {
		if !cfg.Has(axis.name) {
			continue
		}
		switch axis.typ {
		case plan.TypeBytes:
			b, _ := cfg.Bytes(axis.name)
			p.Set(id, axis.name, plan.Bytes(b))
		default:
			n, _ := cfg.Int(axis.name)
			p.Set(id, axis.name, plan.Uint8(n))
		}
	}

	if err := actions.BuildActionChain(ctx, p, id, Slots, cfg.Actions("then")); err != nil {
		return plan.Identifier{}, err
	}
	return id, nil
}
