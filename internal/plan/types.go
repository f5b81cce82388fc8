package plan

import (
	"fmt"
	"strings"
)

// Kind names the class of a constructed object, e.g. "hdmi_cec::HDMICEC".
type Kind string

// Prefix returns the lowercase class name used for generated identifiers.
func (k Kind) Prefix() string {
	s := string(k)
	if i := strings.LastIndex(s, "::"); i >= 0 {
		s = s[i+2:]
	}
	return strings.ToLower(s)
}

// Identifier is a symbolic handle for one object of the generated graph.
type Identifier struct {
	// Seq is the allocation order, starting at zero.
	Seq  int
	Name string
	Kind Kind
}

func (id Identifier) String() string {
	return id.Name
}

// Type is the declared type of a value or lambda result.
type Type string

const (
	TypeUint8  Type = "uint8"
	TypeUint16 Type = "uint16"
	TypeBool   Type = "bool"
	TypeString Type = "string"
	TypeBytes  Type = "bytes"
	TypeRef    Type = "ref"
	TypeRefs   Type = "refs"
	TypeLambda Type = "lambda"
)

// Arg is a named, typed slot available to a lambda when it is evaluated.
type Arg struct {
	Name string
	Type Type
}

func (a Arg) String() string {
	return fmt.Sprintf("%s %s", a.Name, a.Type)
}
