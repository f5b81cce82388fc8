package plan

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/hashicorp/hcl/v2"

	"github.com/specialistvlad/cecplan/internal/validate"
)

// Value is an argument of a construct instruction or the value of a setter.
type Value interface {
	Type() Type
	String() string
	isValue()
}

// Int is a sized unsigned integer.
type Int struct {
	T Type
	V int
}

// Uint8 returns an 8-bit integer value.
func Uint8(v int) Int { return Int{T: TypeUint8, V: v} }

// Uint16 returns a 16-bit integer value.
func Uint16(v int) Int { return Int{T: TypeUint16, V: v} }

func (v Int) Type() Type     { return v.T }
func (v Int) String() string { return strconv.Itoa(v.V) }
func (Int) isValue()         {}

// Bool is a boolean literal.
type Bool bool

func (Bool) Type() Type       { return TypeBool }
func (v Bool) String() string { return strconv.FormatBool(bool(v)) }
func (Bool) isValue()         {}

// String is a string literal.
type String string

func (String) Type() Type       { return TypeString }
func (v String) String() string { return strconv.Quote(string(v)) }
func (String) isValue()         {}

// Bytes is a byte vector literal.
type Bytes []byte

func (Bytes) Type() Type { return TypeBytes }
func (v Bytes) String() string {
	parts := make([]string, len(v))
	for i, b := range v {
		parts[i] = fmt.Sprintf("0x%02X", b)
	}
	return "[" + strings.Join(parts, ", ") + "]"
}
func (Bytes) isValue() {}

// Ref passes an already constructed object.
type Ref struct {
	ID Identifier
}

func (Ref) Type() Type       { return TypeRef }
func (v Ref) String() string { return v.ID.Name }
func (Ref) isValue()         {}

// Refs passes a list of already constructed objects.
type Refs []Identifier

func (Refs) Type() Type { return TypeRefs }
func (v Refs) String() string {
	parts := make([]string, len(v))
	for i, id := range v {
		parts[i] = id.Name
	}
	return "[" + strings.Join(parts, ", ") + "]"
}
func (Refs) isValue() {}

// Lambda is a deferred value: an expression evaluated against Args every
// time the generated object needs it.
type Lambda struct {
	Source  string
	Args    []Arg
	Returns Type

	// Expr is the parsed expression.
	Expr hcl.Expression
	// Check validates the evaluated result.
	Check validate.Func
}

func (Lambda) Type() Type { return TypeLambda }
func (v Lambda) String() string {
	args := make([]string, len(v.Args))
	for i, a := range v.Args {
		args[i] = a.String()
	}
	return fmt.Sprintf("lambda(%s) %s { %s }", strings.Join(args, ", "), v.Returns, v.Source)
}
func (Lambda) isValue() {}

// refsOf returns the identifiers a value points at.
func refsOf(v Value) []Identifier {
	switch x := v.(type) {
	case Ref:
		return []Identifier{x.ID}
	case Refs:
		return x
	}
	return nil
}
