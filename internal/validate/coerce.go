package validate

import (
	"math/big"
	"strconv"
	"strings"

	"github.com/zclconf/go-cty/cty"
)

// toInt coerces a raw value to an integer. Numbers must be whole; strings may
// be decimal or hex-style ("0x36") literals.
func toInt(v cty.Value) (int64, *Error) {
	if v.IsNull() {
		return 0, Invalid("expected an integer, got null")
	}
	if !v.IsKnown() {
		return 0, Invalid("expected an integer, got a value that is not known yet")
	}
	v, _ = v.Unmark()

	switch ty := v.Type(); {
	case ty.Equals(cty.Number):
		bf := v.AsBigFloat()
		if !bf.IsInt() {
			return 0, Invalid("expected an integer, got %s", bf.Text('g', -1))
		}
		n, acc := bf.Int64()
		if acc != big.Exact {
			return 0, Invalid("integer %s is out of range", bf.Text('f', 0))
		}
		return n, nil
	case ty.Equals(cty.String):
		return parseIntLiteral(v.AsString())
	default:
		return 0, Invalid("expected an integer, got %s", ty.FriendlyName())
	}
}

func parseIntLiteral(raw string) (int64, *Error) {
	s := strings.TrimSpace(raw)
	base := 10
	digits := s
	neg := false
	if strings.HasPrefix(digits, "-") {
		neg = true
		digits = digits[1:]
	}
	if strings.HasPrefix(digits, "0x") || strings.HasPrefix(digits, "0X") {
		base = 16
		digits = digits[2:]
	}
	if digits == "" || strings.ContainsAny(digits[:1], "+-") {
		return 0, Invalid("expected an integer, got %q", raw)
	}
	n, err := strconv.ParseInt(digits, base, 64)
	if err != nil {
		return 0, Invalid("expected an integer, got %q", raw)
	}
	if neg {
		n = -n
	}
	return n, nil
}
