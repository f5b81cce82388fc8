package plan

import (
	"fmt"
	"strings"
)

// Op is the instruction kind.
type Op int

const (
	OpConstruct Op = iota
	OpSet
)

func (o Op) String() string {
	switch o {
	case OpConstruct:
		return "construct"
	case OpSet:
		return "set"
	}
	return fmt.Sprintf("Op(%d)", int(o))
}

// Instruction is one step of a program.
type Instruction struct {
	Op     Op
	Target Identifier

	// Deps are the objects a construct instruction is built from.
	Deps []Identifier
	// Args are literal constructor arguments.
	Args []Value

	// Setter names the configured property of a set instruction.
	Setter string
	Value  Value
}

func (in Instruction) String() string {
	switch in.Op {
	case OpConstruct:
		parts := make([]string, 0, len(in.Deps)+len(in.Args))
		for _, d := range in.Deps {
			parts = append(parts, d.Name)
		}
		for _, a := range in.Args {
			parts = append(parts, a.String())
		}
		return fmt.Sprintf("construct %s = %s(%s)", in.Target.Name, in.Target.Kind, strings.Join(parts, ", "))
	default:
		return fmt.Sprintf("set %s.%s(%s)", in.Target.Name, in.Setter, in.Value)
	}
}
