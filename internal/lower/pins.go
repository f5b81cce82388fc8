package lower

import (
	"context"

	"github.com/specialistvlad/cecplan/internal/cec"
	"github.com/specialistvlad/cecplan/internal/plan"
	"github.com/specialistvlad/cecplan/internal/schema"
)

// PinResolver constructs the object for a pin and returns its identifier.
type PinResolver interface {
	ResolvePin(ctx context.Context, p *plan.Program, pin schema.Pin) (plan.Identifier, error)
}

// GPIOPins resolves every pin to an InternalGPIOPin.
type GPIOPins struct{}

// ResolvePin implements PinResolver.
func (GPIOPins) ResolvePin(_ context.Context, p *plan.Program, pin schema.Pin) (plan.Identifier, error) {
	id := p.MustAllocate(cec.KindGPIOPin)
	p.Construct(id, nil, plan.Uint8(pin.Number), plan.Bool(pin.Inverted), plan.String(pin.Mode))
	return id, nil
}
