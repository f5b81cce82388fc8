package schema

import (
	"fmt"

	"github.com/specialistvlad/cecplan/internal/nodeid"
)

// Node is an ordered, closed field table. Field order is validation order
// and, for the device table, the order in which setters are emitted.
type Node struct {
	Name   string
	fields []*Field
	index  map[string]int
}

// NewNode creates a field table. Duplicate field names are a programming
// error and panic.
func NewNode(name string, fields ...*Field) *Node {
	n := &Node{Name: name, index: make(map[string]int, len(fields))}
	for _, f := range fields {
		n.add(f)
	}
	return n
}

func (n *Node) add(f *Field) {
	if _, exists := n.index[f.Name]; exists {
		panic(fmt.Sprintf("schema: field %q is declared twice in %q", f.Name, n.Name))
	}
	n.index[f.Name] = len(n.fields)
	n.fields = append(n.fields, f)
}

// Fields returns the table in order.
func (n *Node) Fields() []*Field {
	return append([]*Field(nil), n.fields...)
}

// Field returns the field with the given name.
func (n *Node) Field(name string) (*Field, bool) {
	i, ok := n.index[name]
	if !ok {
		return nil, false
	}
	return n.fields[i], true
}

// Names returns the field names in order.
func (n *Node) Names() []string {
	out := make([]string, len(n.fields))
	for i, f := range n.fields {
		out[i] = f.Name
	}
	return out
}

// Extend returns a new table holding n's fields followed by fields.
func (n *Node) Extend(fields ...*Field) *Node {
	return NewNode(n.Name, append(n.Fields(), fields...)...)
}

// Insert returns a new table with fields placed right after the field
// named after.
func (n *Node) Insert(after string, fields ...*Field) *Node {
	i, ok := n.index[after]
	if !ok {
		panic(fmt.Sprintf("schema: cannot insert after unknown field %q in %q", after, n.Name))
	}
	out := make([]*Field, 0, len(n.fields)+len(fields))
	out = append(out, n.fields[:i+1]...)
	out = append(out, fields...)
	out = append(out, n.fields[i+1:]...)
	return NewNode(n.Name, out...)
}

// Replace returns a new table where the field with f's name is swapped for f
// in place.
func (n *Node) Replace(f *Field) *Node {
	i, ok := n.index[f.Name]
	if !ok {
		panic(fmt.Sprintf("schema: cannot replace unknown field %q in %q", f.Name, n.Name))
	}
	out := n.Fields()
	out[i] = f
	return NewNode(n.Name, out...)
}

// Lookup resolves a path of field names, descending into nested tables.
// Indices in the path are ignored.
func (n *Node) Lookup(path *nodeid.Address) (*Field, error) {
	if path == nil || len(path.Path) == 0 {
		return nil, fmt.Errorf("empty field path")
	}
	cur := n
	var f *Field
	for i, seg := range path.Path {
		if cur == nil {
			return nil, fmt.Errorf("field %q has no nested fields", path.Path[i-1].Name)
		}
		var ok bool
		f, ok = cur.Field(seg.Name)
		if !ok {
			return nil, fmt.Errorf("unknown field %q in %s", seg.Name, cur.Name)
		}
		cur = f.Object
	}
	return f, nil
}
