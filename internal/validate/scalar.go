package validate

import (
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/zclconf/go-cty/cty"
)

// Func validates a raw configuration value and returns its validated Go form.
type Func func(v cty.Value) (any, error)

const (
	// MaxOSDNameLength is the longest OSD name a CEC "Set OSD Name" frame can carry.
	MaxOSDNameLength = 14

	minPrintable = 0x20
	maxPrintable = 0x7E // exclusive
)

var identifierRegex = regexp.MustCompile(`^[a-zA-Z_][a-zA-Z0-9_]*$`)

// IntRange accepts integers in [min, max] after numeric coercion. The
// validated value is an int.
func IntRange(min, max int) Func {
	return func(v cty.Value) (any, error) {
		n, err := toInt(v)
		if err != nil {
			return nil, err
		}
		if n < int64(min) {
			return nil, Invalid("value must be at least %d, got %d", min, n)
		}
		if n > int64(max) {
			return nil, Invalid("value must be at most %d, got %d", max, n)
		}
		return int(n), nil
	}
}

// Address accepts a 4-bit CEC logical address.
func Address() Func { return IntRange(0, 15) }

// Uint8 accepts an 8-bit unsigned integer, numeric or hex-style.
func Uint8() Func { return IntRange(0, 0xFF) }

// Uint16 accepts a 16-bit unsigned integer, e.g. a CEC physical address.
func Uint16() Func { return IntRange(0, 0xFFFF) }

// Boolean accepts a bool, or one of the usual truthy/falsy words.
func Boolean() Func {
	return func(v cty.Value) (any, error) {
		if v.IsNull() {
			return nil, Invalid("expected a boolean, got null")
		}
		switch ty := v.Type(); {
		case ty.Equals(cty.Bool):
			return v.True(), nil
		case ty.Equals(cty.String):
			switch strings.ToLower(strings.TrimSpace(v.AsString())) {
			case "true", "yes", "on", "enable":
				return true, nil
			case "false", "no", "off", "disable":
				return false, nil
			}
			return nil, Invalid("expected a boolean, got %q", v.AsString())
		default:
			return nil, Invalid("expected a boolean, got %s", v.Type().FriendlyName())
		}
	}
}

// ByteArray accepts an ordered sequence of 8-bit unsigned integers. The
// validated value is a []byte of the same length and order; an empty
// sequence is allowed.
func ByteArray() Func {
	return func(v cty.Value) (any, error) {
		if v.IsNull() || !(v.Type().IsTupleType() || v.Type().IsListType()) {
			return nil, Invalid("data must be a list of bytes")
		}
		if !v.IsKnown() {
			return nil, Invalid("expected a list of bytes, got a value that is not known yet")
		}
		v, _ = v.Unmark()
		out := make([]byte, 0, v.LengthInt())
		i := 0
		for it := v.ElementIterator(); it.Next(); i++ {
			_, elem := it.Element()
			n, err := toInt(elem)
			if err != nil {
				return nil, InvalidItem(i, "%s", err.Message)
			}
			if n < 0 || n > 0xFF {
				return nil, InvalidItem(i, "byte value must be in range 0..255, got %d", n)
			}
			out = append(out, byte(n))
		}
		return out, nil
	}
}

// OSDName accepts the on-screen display name a device announces: 1 to 14
// characters of printable ASCII, excluding '~'. The validated value is the
// unchanged string; use EncodeASCII to obtain the bytes that go on the wire.
func OSDName() Func {
	return func(v cty.Value) (any, error) {
		if v.IsNull() || !v.Type().Equals(cty.String) {
			return nil, Invalid("Must be a string")
		}
		s := v.AsString()
		n := utf8.RuneCountInString(s)
		if n < 1 {
			return nil, Invalid("Must be a non-empty string")
		}
		if n > MaxOSDNameLength {
			return nil, Invalid("Must not be more than %d-characters long", MaxOSDNameLength)
		}
		for _, r := range s {
			if r < minPrintable || r >= maxPrintable {
				return nil, Invalid("character '%c' (%d) is outside of the supported character range (0x20..0x7e)", r, r)
			}
		}
		return s, nil
	}
}

// EncodeASCII converts s to its ASCII bytes, silently dropping every
// character that has no ASCII representation.
func EncodeASCII(s string) []byte {
	out := make([]byte, 0, len(s))
	for _, r := range s {
		if r < utf8.RuneSelf {
			out = append(out, byte(r))
		}
	}
	return out
}

// Identifier accepts a name usable as an object identifier in the
// generated graph.
func Identifier() Func {
	return func(v cty.Value) (any, error) {
		if v.IsNull() || !v.Type().Equals(cty.String) {
			return nil, Invalid("ID must be a string")
		}
		s := v.AsString()
		if !identifierRegex.MatchString(s) {
			return nil, Invalid("ID %q must start with a letter or underscore and contain only letters, digits and underscores", s)
		}
		return s, nil
	}
}

// OneOf accepts one of the given lowercase strings, compared case-insensitively.
func OneOf(options ...string) Func {
	return func(v cty.Value) (any, error) {
		if v.IsNull() || !v.Type().Equals(cty.String) {
			return nil, Invalid("expected one of %s", strings.Join(options, ", "))
		}
		s := strings.ToLower(strings.TrimSpace(v.AsString()))
		for _, opt := range options {
			if s == opt {
				return s, nil
			}
		}
		return nil, Invalid("unknown value %q, expected one of %s", v.AsString(), strings.Join(options, ", "))
	}
}
