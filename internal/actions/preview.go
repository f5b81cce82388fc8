package actions

import (
	"errors"
	"fmt"

	"github.com/zclconf/go-cty/cty"

	"github.com/specialistvlad/cecplan/internal/cec"
	"github.com/specialistvlad/cecplan/internal/plan"
	"github.com/specialistvlad/cecplan/internal/templatable"
	"github.com/specialistvlad/cecplan/internal/trigger"
)

// PreviewSend returns the frame the send action id transmits when its
// trigger fires for msg. Lambdas are evaluated against the trigger's slots;
// an unset source falls back to the parent's logical address.
func PreviewSend(p *plan.Program, id plan.Identifier, msg cec.Message) (cec.Message, error) {
	if id.Kind != cec.KindSendAction {
		return cec.Message{}, fmt.Errorf("%s is a %s, not a send action", id.Name, id.Kind)
	}
	ctor, ok := p.Constructor(id)
	if !ok || len(ctor.Deps) == 0 {
		return cec.Message{}, fmt.Errorf("%s has no parent component", id.Name)
	}
	parent := ctor.Deps[0]
	slots := trigger.SlotValues(msg)

	var out cec.Message
	source, ok := p.Setter(id, "source")
	if !ok {
		source, ok = p.Setter(parent, "address")
		if !ok {
			return cec.Message{}, fmt.Errorf("%s has no source and %s has no address", id.Name, parent.Name)
		}
	}
	src, err := evalInt(source, slots)
	if err != nil {
		return cec.Message{}, fmt.Errorf("source: %w", err)
	}
	out.Source = uint8(src)

	destination, _ := p.Setter(id, "destination")
	dst, err := evalInt(destination, slots)
	if err != nil {
		return cec.Message{}, fmt.Errorf("destination: %w", err)
	}
	out.Destination = uint8(dst)

	data, _ := p.Setter(id, "data")
	if out.Data, err = evalBytes(data, slots); err != nil {
		return cec.Message{}, fmt.Errorf("data: %w", err)
	}
	return out, nil
}

func eval(v plan.Value, slots map[string]cty.Value) (any, error) {
	switch x := v.(type) {
	case nil:
		return nil, errors.New("not set")
	case plan.Int:
		return x.V, nil
	case plan.Bytes:
		return []byte(x), nil
	case plan.Lambda:
		return templatable.Evaluate(x, slots)
	}
	return nil, fmt.Errorf("unexpected %s value", v.Type())
}

func evalInt(v plan.Value, slots map[string]cty.Value) (int, error) {
	out, err := eval(v, slots)
	if err != nil {
		return 0, err
	}
	n, ok := out.(int)
	if !ok {
		return 0, fmt.Errorf("expected an integer, got %T", out)
	}
	return n, nil
}

func evalBytes(v plan.Value, slots map[string]cty.Value) ([]byte, error) {
	out, err := eval(v, slots)
	if err != nil {
		return nil, err
	}
	b, ok := out.([]byte)
	if !ok {
		return nil, fmt.Errorf("expected bytes, got %T", out)
	}
	return b, nil
}
