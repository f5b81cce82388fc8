package schema

import (
	"github.com/zclconf/go-cty/cty"

	"github.com/specialistvlad/cecplan/internal/nodeid"
	"github.com/specialistvlad/cecplan/internal/templatable"
)

// Config is a validated mapping. Values are the validated Go forms:
// int, bool, string, []byte, templatable.Value, *Config, []*Config or
// []Action.
type Config struct {
	node    *Node
	path    *nodeid.Address
	values  map[string]any
	present map[string]bool
}

func newConfig(n *Node, path *nodeid.Address) *Config {
	return &Config{
		node:    n,
		path:    path,
		values:  make(map[string]any),
		present: make(map[string]bool),
	}
}

// Action is one validated entry of an action list.
type Action struct {
	Name   string
	Config *Config
}

// Node is the table the mapping was validated against.
func (c *Config) Node() *Node { return c.node }

// Path locates the mapping in the configuration tree.
func (c *Config) Path() *nodeid.Address { return c.path }

// FieldPath locates one field of the mapping.
func (c *Config) FieldPath(name string) *nodeid.Address { return c.path.Field(name) }

// Has reports whether the user wrote the field. Defaults do not count.
func (c *Config) Has(name string) bool { return c.present[name] }

// Value returns the validated or default value of a field.
func (c *Config) Value(name string) (any, bool) {
	v, ok := c.values[name]
	return v, ok
}

// Int returns an integer field.
func (c *Config) Int(name string) (int, bool) {
	v, ok := c.values[name].(int)
	return v, ok
}

// Bool returns a boolean field.
func (c *Config) Bool(name string) (bool, bool) {
	v, ok := c.values[name].(bool)
	return v, ok
}

// String returns a string field.
func (c *Config) String(name string) (string, bool) {
	v, ok := c.values[name].(string)
	return v, ok
}

// Bytes returns a byte array field.
func (c *Config) Bytes(name string) ([]byte, bool) {
	v, ok := c.values[name].([]byte)
	return v, ok
}

// Object returns a nested mapping field.
func (c *Config) Object(name string) (*Config, bool) {
	v, ok := c.values[name].(*Config)
	return v, ok
}

// Blocks returns the entries of a repeated block field in declaration order.
func (c *Config) Blocks(name string) []*Config {
	v, _ := c.values[name].([]*Config)
	return v
}

// Actions returns the entries of an action list field in declaration order.
func (c *Config) Actions(name string) []Action {
	v, _ := c.values[name].([]Action)
	return v
}

// Templatable returns a templatable field, Absent when it was not written.
func (c *Config) Templatable(name string) templatable.Value {
	v, ok := c.values[name].(templatable.Value)
	if !ok {
		return templatable.Absent()
	}
	return v
}

// Raw rebuilds the raw tree of the fields the user wrote. Validating the
// result against the same Node yields an equivalent Config.
func (c *Config) Raw() cty.Value {
	attrs := make(map[string]cty.Value)
	for _, f := range c.node.fields {
		if !c.present[f.Name] {
			continue
		}
		attrs[f.Name] = rawOf(c.values[f.Name])
	}
	return cty.ObjectVal(attrs)
}

// RawField rebuilds the raw value of one field the user wrote.
func (c *Config) RawField(name string) (cty.Value, bool) {
	if !c.present[name] {
		return cty.NilVal, false
	}
	return rawOf(c.values[name]), true
}

func rawOf(v any) cty.Value {
	switch x := v.(type) {
	case *Config:
		return x.Raw()
	case []*Config:
		if len(x) == 0 {
			return cty.EmptyTupleVal
		}
		items := make([]cty.Value, len(x))
		for i, c := range x {
			items[i] = c.Raw()
		}
		return cty.TupleVal(items)
	case []Action:
		if len(x) == 0 {
			return cty.EmptyTupleVal
		}
		items := make([]cty.Value, len(x))
		for i, a := range x {
			items[i] = cty.ObjectVal(map[string]cty.Value{a.Name: a.Config.Raw()})
		}
		return cty.TupleVal(items)
	case templatable.Value:
		return x.Raw()
	}
	return templatable.Literal(v).Raw()
}
