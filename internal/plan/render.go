package plan

import (
	"fmt"
	"io"
)

// Annotator returns a trailing comment for an instruction, or "".
type Annotator func(in Instruction) string

// WriteText renders p one instruction per line.
func WriteText(w io.Writer, p *Program, annotate Annotator) error {
	if _, err := fmt.Fprintf(w, "# generation %d, %d objects, %d instructions\n",
		p.generation, len(p.objects), len(p.instructions)); err != nil {
		return err
	}
	for _, in := range p.instructions {
		line := in.String()
		if annotate != nil {
			if note := annotate(in); note != "" {
				line += "  # " + note
			}
		}
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}
	return nil
}
