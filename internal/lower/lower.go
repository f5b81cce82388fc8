package lower

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/specialistvlad/cecplan/internal/cec"
	"github.com/specialistvlad/cecplan/internal/ctxlog"
	"github.com/specialistvlad/cecplan/internal/plan"
	"github.com/specialistvlad/cecplan/internal/schema"
	"github.com/specialistvlad/cecplan/internal/trigger"
	"github.com/specialistvlad/cecplan/internal/validate"
)

// Compiler lowers validated configurations. Its collaborators are
// replaceable so tests can observe or fake them.
type Compiler struct {
	Pins    PinResolver
	Actions trigger.ActionBuilder
}

// New returns a compiler that resolves pins to GPIO pins and lowers action
// lists through actions.
func New(actions trigger.ActionBuilder) *Compiler {
	return &Compiler{Pins: GPIOPins{}, Actions: actions}
}

// fieldRule lowers one written device field.
type fieldRule func(ctx context.Context, c *Compiler, p *plan.Program, dev plan.Identifier, cfg *schema.Config, name string) error

var deviceRules = map[string]fieldRule{
	"id":               declaration,
	"pin":              lowerPin,
	"address":          setUint8,
	"physical_address": setUint16,
	"promiscuous_mode": setBool,
	"monitor_mode":     setBool,
	"log_pings":        setBool,
	"osd_name":         lowerOSDName,
	"on_message":       declaration, // lowered after every device setter
}

// Lower emits the plan of cfg, which must have been validated against the
// schema of the given generation.
//
// Problems only visible while lowering, such as a duplicate trigger_id or a
// lambda reading an unknown variable, are returned as validation errors.
// Breaking the construction contract panics with *plan.ContractViolation.
func (c *Compiler) Lower(ctx context.Context, cfg *schema.Config, generation int) (*plan.Program, error) {
	logger := ctxlog.FromContext(ctx)
	logger.Debug("Lowering configuration.", zap.Int("generation", generation))

	p := plan.NewProgram(generation)
	p.Reserve(userIDs(cfg)...)
	name, _ := cfg.String("id")
	dev, err := p.Allocate(cec.KindDevice, name)
	if err != nil {
		return nil, err
	}
	p.Construct(dev, nil)

	var errs validate.Errors
	for _, f := range cfg.Node().Fields() {
		if !cfg.Has(f.Name) {
			continue
		}
		rule, ok := deviceRules[f.Name]
		if !ok {
			panic(&plan.ContractViolation{Op: "lower", Target: cfg.FieldPath(f.Name).String(), Reason: "field has no lowering rule"})
		}
		errs = errs.Append(rule(ctx, c, p, dev, cfg, f.Name))
	}

	for _, block := range cfg.Blocks("on_message") {
		if _, err := trigger.Compile(ctx, p, dev, block, c.Actions); err != nil {
			errs = errs.Append(err)
		}
	}

	if len(errs) > 0 {
		for i, e := range errs {
			stamped := *e
			stamped.Generation = generation
			errs[i] = &stamped
		}
		return nil, errs
	}

	if err := p.Verify(); err != nil {
		var cv *plan.ContractViolation
		if errors.As(err, &cv) {
			panic(cv)
		}
		panic(err)
	}

	logger.Debug("Lowered configuration.",
		zap.Int("objects", len(p.Objects())),
		zap.Int("instructions", len(p.Instructions())))
	return p, nil
}

// userIDs lists every name the configuration chooses itself, so that no
// generated identifier can take one before its owner is lowered.
func userIDs(cfg *schema.Config) []string {
	var names []string
	if name, ok := cfg.String("id"); ok {
		names = append(names, name)
	}
	for _, block := range cfg.Blocks("on_message") {
		if name, ok := block.String("trigger_id"); ok {
			names = append(names, name)
		}
	}
	return names
}

func declaration(context.Context, *Compiler, *plan.Program, plan.Identifier, *schema.Config, string) error {
	return nil
}

func lowerPin(ctx context.Context, c *Compiler, p *plan.Program, dev plan.Identifier, cfg *schema.Config, name string) error {
	pinCfg, ok := cfg.Object(name)
	if !ok {
		return fmt.Errorf("pin field %q holds no mapping", name)
	}
	pin, err := c.Pins.ResolvePin(ctx, p, schema.PinOf(pinCfg))
	if err != nil {
		return err
	}
	p.Set(dev, name, plan.Ref{ID: pin})
	return nil
}

func setUint8(_ context.Context, _ *Compiler, p *plan.Program, dev plan.Identifier, cfg *schema.Config, name string) error {
	n, _ := cfg.Int(name)
	p.Set(dev, name, plan.Uint8(n))
	return nil
}

func setUint16(_ context.Context, _ *Compiler, p *plan.Program, dev plan.Identifier, cfg *schema.Config, name string) error {
	n, _ := cfg.Int(name)
	p.Set(dev, name, plan.Uint16(n))
	return nil
}

func setBool(_ context.Context, _ *Compiler, p *plan.Program, dev plan.Identifier, cfg *schema.Config, name string) error {
	b, _ := cfg.Bool(name)
	p.Set(dev, name, plan.Bool(b))
	return nil
}

// lowerOSDName sends the name as bytes; characters without an ASCII form
// are dropped.
func lowerOSDName(_ context.Context, _ *Compiler, p *plan.Program, dev plan.Identifier, cfg *schema.Config, name string) error {
	s, _ := cfg.String(name)
	p.Set(dev, "osd_name_bytes", plan.Bytes(validate.EncodeASCII(s)))
	return nil
}
