package plan

import (
	"encoding/json"
	"fmt"
	"io"
)

// DocumentVersion is the version of the JSON plan format.
const DocumentVersion = 1

// Document is the JSON form of a Program.
type Document struct {
	Version      int              `json:"version"`
	Generation   int              `json:"generation"`
	Objects      []ObjectDoc      `json:"objects"`
	Instructions []InstructionDoc `json:"instructions"`
}

// ObjectDoc describes one allocated identifier.
type ObjectDoc struct {
	ID   string `json:"id"`
	Kind string `json:"kind"`
}

// InstructionDoc is the JSON form of an Instruction.
type InstructionDoc struct {
	Op     string     `json:"op"`
	Target string     `json:"target"`
	Deps   []string   `json:"deps,omitempty"`
	Args   []ValueDoc `json:"args,omitempty"`
	Setter string     `json:"setter,omitempty"`
	Value  *ValueDoc  `json:"value,omitempty"`
}

// ValueDoc is the JSON form of a Value.
type ValueDoc struct {
	Type    string   `json:"type"`
	Value   any      `json:"value,omitempty"`
	Args    []ArgDoc `json:"args,omitempty"`
	Returns string   `json:"returns,omitempty"`
}

// ArgDoc is the JSON form of a lambda Arg.
type ArgDoc struct {
	Name string `json:"name"`
	Type string `json:"type"`
}

// Document converts p to its JSON form.
func (p *Program) Document() *Document {
	doc := &Document{
		Version:      DocumentVersion,
		Generation:   p.generation,
		Objects:      make([]ObjectDoc, len(p.objects)),
		Instructions: make([]InstructionDoc, len(p.instructions)),
	}
	for i, id := range p.objects {
		doc.Objects[i] = ObjectDoc{ID: id.Name, Kind: string(id.Kind)}
	}
	for i, in := range p.instructions {
		d := InstructionDoc{Op: in.Op.String(), Target: in.Target.Name, Setter: in.Setter}
		for _, dep := range in.Deps {
			d.Deps = append(d.Deps, dep.Name)
		}
		for _, a := range in.Args {
			d.Args = append(d.Args, valueDoc(a))
		}
		if in.Value != nil {
			v := valueDoc(in.Value)
			d.Value = &v
		}
		doc.Instructions[i] = d
	}
	return doc
}

func valueDoc(v Value) ValueDoc {
	d := ValueDoc{Type: string(v.Type())}
	switch x := v.(type) {
	case Int:
		d.Value = x.V
	case Bool:
		d.Value = bool(x)
	case String:
		d.Value = string(x)
	case Bytes:
		// Plain numbers rather than the base64 encoding/json uses for []byte.
		ints := make([]int, len(x))
		for i, b := range x {
			ints[i] = int(b)
		}
		d.Value = ints
	case Ref:
		d.Value = x.ID.Name
	case Refs:
		names := make([]string, len(x))
		for i, id := range x {
			names[i] = id.Name
		}
		d.Value = names
	case Lambda:
		d.Value = x.Source
		d.Returns = string(x.Returns)
		d.Args = make([]ArgDoc, len(x.Args))
		for i, a := range x.Args {
			d.Args[i] = ArgDoc{Name: a.Name, Type: string(a.Type)}
		}
	default:
		panic(fmt.Sprintf("plan: unsupported value type %T", v))
	}
	return d
}

// WriteJSON writes the JSON document of p.
func WriteJSON(w io.Writer, p *Program) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(p.Document()); err != nil {
		return fmt.Errorf("failed to encode plan: %w", err)
	}
	return nil
}
