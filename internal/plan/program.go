package plan

import (
	"errors"
	"fmt"

	"github.com/specialistvlad/cecplan/internal/dag"
)

// ErrDuplicateID is returned by Allocate when a user-chosen name is taken.
var ErrDuplicateID = errors.New("duplicate identifier")

// Program is an identifier arena plus the instructions that build the
// objects it holds. The zero value is not usable; call NewProgram.
type Program struct {
	generation   int
	objects      []Identifier
	byName       map[string]int
	reserved     map[string]struct{}
	constructed  []bool
	instructions []Instruction
	graph        *dag.Graph
}

// NewProgram returns an empty program lowered from the given schema
// generation.
func NewProgram(generation int) *Program {
	return &Program{
		generation: generation,
		byName:     make(map[string]int),
		reserved:   make(map[string]struct{}),
		graph:      dag.New(),
	}
}

// Generation is the schema generation the program was lowered from.
func (p *Program) Generation() int {
	return p.generation
}

// Allocate reserves an identifier of the given kind. An empty name asks for
// a generated one; a user-chosen name that is already taken fails with
// ErrDuplicateID.
func (p *Program) Allocate(kind Kind, name string) (Identifier, error) {
	if name == "" {
		name = fmt.Sprintf("%s_%d", kind.Prefix(), len(p.objects))
		for p.taken(name) || p.isReserved(name) {
			name += "_"
		}
	} else if p.taken(name) {
		return Identifier{}, fmt.Errorf("%w: %q is already used by a %s", ErrDuplicateID, name, p.objects[p.byName[name]].Kind)
	}

	id := Identifier{Seq: len(p.objects), Name: name, Kind: kind}
	p.objects = append(p.objects, id)
	p.constructed = append(p.constructed, false)
	p.byName[name] = id.Seq
	return id, nil
}

// Reserve keeps user-chosen names away from generated ones. Reserved names
// can still be allocated once by passing them to Allocate.
func (p *Program) Reserve(names ...string) {
	for _, name := range names {
		if name != "" {
			p.reserved[name] = struct{}{}
		}
	}
}

func (p *Program) isReserved(name string) bool {
	_, ok := p.reserved[name]
	return ok
}

// MustAllocate is Allocate for generated names, which cannot collide.
func (p *Program) MustAllocate(kind Kind) Identifier {
	id, err := p.Allocate(kind, "")
	if err != nil {
		panic(err)
	}
	return id
}

func (p *Program) taken(name string) bool {
	_, ok := p.byName[name]
	return ok
}

// Construct appends the instruction that builds id from deps and literal
// args. id must be allocated and not yet built; every dependency, and every
// object an argument refers to, must already be built.
func (p *Program) Construct(id Identifier, deps []Identifier, args ...Value) {
	const op = "construct"
	if !p.owns(id) {
		violate(op, id, "identifier was never allocated")
	}
	if p.constructed[id.Seq] {
		violate(op, id, "object is already constructed")
	}
	for _, d := range deps {
		p.requireBuilt(op, id, d)
	}
	for _, a := range args {
		for _, r := range refsOf(a) {
			p.requireBuilt(op, id, r)
		}
	}

	p.graph.AddNode(id.Name)
	for _, d := range deps {
		p.link(op, d, id)
	}
	for _, a := range args {
		for _, r := range refsOf(a) {
			p.link(op, r, id)
		}
	}

	p.constructed[id.Seq] = true
	p.instructions = append(p.instructions, Instruction{
		Op:     OpConstruct,
		Target: id,
		Deps:   append([]Identifier(nil), deps...),
		Args:   append([]Value(nil), args...),
	})
}

// Set appends a setter instruction on an already constructed object.
func (p *Program) Set(id Identifier, setter string, v Value) {
	const op = "set"
	if !p.owns(id) || !p.constructed[id.Seq] {
		violate(op, id, "setter %q targets an object that is not constructed", setter)
	}
	if v == nil {
		violate(op, id, "setter %q has no value", setter)
	}
	for _, r := range refsOf(v) {
		p.requireBuilt(op, id, r)
		p.link(op, r, id)
	}
	p.instructions = append(p.instructions, Instruction{
		Op:     OpSet,
		Target: id,
		Setter: setter,
		Value:  v,
	})
}

func (p *Program) owns(id Identifier) bool {
	return id.Seq >= 0 && id.Seq < len(p.objects) && p.objects[id.Seq] == id
}

func (p *Program) requireBuilt(op string, target, dep Identifier) {
	if !p.owns(dep) {
		violate(op, target, "dependency %q was never allocated", dep.Name)
	}
	if !p.constructed[dep.Seq] {
		violate(op, target, "dependency %q is not constructed yet", dep.Name)
	}
}

func (p *Program) link(op string, from, to Identifier) {
	if err := p.graph.AddEdge(from.Name, to.Name); err != nil {
		violate(op, to, "%v", err)
	}
}

// IsConstructed reports whether id has been built.
func (p *Program) IsConstructed(id Identifier) bool {
	return p.owns(id) && p.constructed[id.Seq]
}

// Lookup returns the identifier allocated under name.
func (p *Program) Lookup(name string) (Identifier, bool) {
	i, ok := p.byName[name]
	if !ok {
		return Identifier{}, false
	}
	return p.objects[i], true
}

// OfKind returns the identifiers of the given kind in allocation order.
func (p *Program) OfKind(kind Kind) []Identifier {
	var out []Identifier
	for _, id := range p.objects {
		if id.Kind == kind {
			out = append(out, id)
		}
	}
	return out
}

// Objects returns every allocated identifier in allocation order.
func (p *Program) Objects() []Identifier {
	return append([]Identifier(nil), p.objects...)
}

// Instructions returns the program in emission order.
func (p *Program) Instructions() []Instruction {
	return append([]Instruction(nil), p.instructions...)
}

// Setters returns the set instructions that target id, in order.
func (p *Program) Setters(id Identifier) []Instruction {
	var out []Instruction
	for _, in := range p.instructions {
		if in.Op == OpSet && in.Target == id {
			out = append(out, in)
		}
	}
	return out
}

// Constructor returns the construct instruction of id.
func (p *Program) Constructor(id Identifier) (Instruction, bool) {
	for _, in := range p.instructions {
		if in.Op == OpConstruct && in.Target == id {
			return in, true
		}
	}
	return Instruction{}, false
}

// Setter returns the value id's setter was last called with.
func (p *Program) Setter(id Identifier, setter string) (Value, bool) {
	var out Value
	for _, in := range p.instructions {
		if in.Op == OpSet && in.Target == id && in.Setter == setter {
			out = in.Value
		}
	}
	return out, out != nil
}

// Verify checks the finished program: every allocated object is built and
// the dependency graph is acyclic.
func (p *Program) Verify() error {
	for i, id := range p.objects {
		if !p.constructed[i] {
			return &ContractViolation{Op: "verify", Target: id.Name, Reason: "object is allocated but never constructed"}
		}
	}
	if err := p.graph.DetectCycles(); err != nil {
		return &ContractViolation{Op: "verify", Reason: err.Error()}
	}
	return nil
}

// BuildOrder returns the object names ordered so that every object comes
// after the objects it depends on.
func (p *Program) BuildOrder() ([]string, error) {
	return p.graph.TopologicalOrder()
}
