package schema

import (
	"github.com/zclconf/go-cty/cty"

	"github.com/specialistvlad/cecplan/internal/validate"
)

// Kind selects how a Field validates its raw value.
type Kind int

const (
	// KindScalar fields are validated by Check.
	KindScalar Kind = iota
	// KindObject fields hold one nested mapping validated against Object.
	KindObject
	// KindBlocks fields hold one or more mappings, each validated against Object.
	KindBlocks
	// KindActions fields hold a list of actions looked up in Actions.
	KindActions
)

func (k Kind) String() string {
	switch k {
	case KindObject:
		return "object"
	case KindBlocks:
		return "blocks"
	case KindActions:
		return "actions"
	default:
		return "scalar"
	}
}

// Shorthand rewrites a non-mapping value of an object field into its
// mapping form, e.g. `pin: 4` into `pin: {number: 4}`.
type Shorthand func(raw cty.Value) (cty.Value, error)

// Field is one entry of a field table.
type Field struct {
	Name     string
	Kind     Kind
	Required bool
	// Default is the validated value an absent optional field reads as.
	// Nil means the field has no default.
	Default any
	// Check validates scalar values.
	Check validate.Func
	// Templatable scalar fields also accept a lambda, validated by Check
	// once it is evaluated.
	Templatable bool
	// Object is the schema of each nested mapping.
	Object    *Node
	Shorthand Shorthand
	// Actions resolves action names for KindActions fields.
	Actions ActionSchemas
	// Doc is a one-line description for the schema command.
	Doc string
}

// Required declares a scalar field that must be present.
func Required(name string, check validate.Func) *Field {
	return &Field{Name: name, Kind: KindScalar, Required: true, Check: check}
}

// Optional declares a scalar field. def may be nil for no default.
func Optional(name string, check validate.Func, def any) *Field {
	return &Field{Name: name, Kind: KindScalar, Check: check, Default: def}
}

// Object declares a nested mapping field.
func Object(name string, node *Node, required bool) *Field {
	return &Field{Name: name, Kind: KindObject, Required: required, Object: node}
}

// Blocks declares an optional field holding one mapping or a list of them.
func Blocks(name string, node *Node) *Field {
	return &Field{Name: name, Kind: KindBlocks, Object: node}
}

// Actions declares an optional list of actions resolved through reg.
func Actions(name string, reg ActionSchemas) *Field {
	return &Field{Name: name, Kind: KindActions, Actions: reg}
}

// Templated marks a scalar field as accepting lambdas.
func (f *Field) Templated() *Field {
	f.Templatable = true
	return f
}

// WithShorthand sets the shorthand of an object field.
func (f *Field) WithShorthand(s Shorthand) *Field {
	f.Shorthand = s
	return f
}

// Describe sets the field's documentation line.
func (f *Field) Describe(doc string) *Field {
	f.Doc = doc
	return f
}

// AsOptional returns a copy of f that may be omitted.
func (f *Field) AsOptional() *Field {
	out := *f
	out.Required = false
	return &out
}
