package schema

import (
	"strconv"
	"strings"

	"github.com/zclconf/go-cty/cty"

	"github.com/specialistvlad/cecplan/internal/validate"
)

// MaxGPIO is the highest GPIO number a pin may use.
const MaxGPIO = 48

// Pin is the validated form of a pin field.
type Pin struct {
	Number   int
	Inverted bool
	Mode     string
}

// PinNode is the mapping form of a pin.
var PinNode = NewNode("pin",
	Required("number", validate.IntRange(0, MaxGPIO)).Describe("GPIO number"),
	Optional("inverted", validate.Boolean(), false).Describe("invert the logic level"),
	Optional("mode", validate.OneOf("output", "output_open_drain"), "output").Describe("pin mode"),
)

// PinOf reads a validated pin mapping.
func PinOf(c *Config) Pin {
	n, _ := c.Int("number")
	inv, _ := c.Bool("inverted")
	mode, _ := c.String("mode")
	return Pin{Number: n, Inverted: inv, Mode: mode}
}

// pinShorthand accepts `4`, `"4"` and `"GPIO4"`.
func pinShorthand(raw cty.Value) (cty.Value, error) {
	if raw.IsNull() {
		return cty.NilVal, validate.Invalid("expected a pin number or mapping, got null")
	}
	ty := raw.Type()
	if ty.Equals(cty.Number) {
		return cty.ObjectVal(map[string]cty.Value{"number": raw}), nil
	}
	if ty.Equals(cty.String) {
		s := strings.TrimSpace(raw.AsString())
		digits := s
		if len(s) > 4 && strings.EqualFold(s[:4], "gpio") {
			digits = s[4:]
		}
		n, err := strconv.Atoi(digits)
		if err != nil {
			return cty.NilVal, validate.Invalid("invalid pin %q, expected a number or GPIOn", s)
		}
		return cty.ObjectVal(map[string]cty.Value{"number": cty.NumberIntVal(int64(n))}), nil
	}
	return cty.NilVal, validate.Invalid("expected a pin number or mapping, got %s", friendly(ty))
}
