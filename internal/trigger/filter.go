package trigger

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/zclconf/go-cty/cty"

	"github.com/specialistvlad/cecplan/internal/cec"
	"github.com/specialistvlad/cecplan/internal/plan"
	"github.com/specialistvlad/cecplan/internal/schema"
)

// Filter is the match predicate of one trigger. Nil axes match anything.
type Filter struct {
	Source      *uint8
	Destination *uint8
	Opcode      *uint8
	Data        []byte
	// HasData distinguishes an empty data filter, which only matches a
	// message without data, from no data filter at all.
	HasData bool
}

// Matches reports whether msg satisfies every configured axis.
func (f Filter) Matches(msg cec.Message) bool {
	if f.Source != nil && *f.Source != msg.Source {
		return false
	}
	if f.Destination != nil && *f.Destination != msg.Destination {
		return false
	}
	if f.Opcode != nil {
		op, ok := msg.Opcode()
		if !ok || op != *f.Opcode {
			return false
		}
	}
	if f.HasData && !bytes.Equal(f.Data, msg.Data) {
		return false
	}
	return true
}

func (f Filter) String() string {
	var parts []string
	if f.Source != nil {
		parts = append(parts, fmt.Sprintf("source=%d", *f.Source))
	}
	if f.Destination != nil {
		parts = append(parts, fmt.Sprintf("destination=%d", *f.Destination))
	}
	if f.Opcode != nil {
		parts = append(parts, "opcode="+cec.DescribeOpcode(*f.Opcode))
	}
	if f.HasData {
		parts = append(parts, "data="+plan.Bytes(f.Data).String())
	}
	if len(parts) == 0 {
		return "any message"
	}
	return strings.Join(parts, " ")
}

// FilterOf reads the filter of a validated on_message entry.
func FilterOf(cfg *schema.Config) Filter {
	var f Filter
	axis := func(name string) *uint8 {
		if !cfg.Has(name) {
			return nil
		}
		n, _ := cfg.Int(name)
		b := uint8(n)
		return &b
	}
	f.Source = axis("source")
	f.Destination = axis("destination")
	f.Opcode = axis("opcode")
	if cfg.Has("data") {
		f.Data, _ = cfg.Bytes("data")
		f.HasData = true
	}
	return f
}

// Bound is a lowered trigger and the filter its setters configure.
type Bound struct {
	ID     plan.Identifier
	Filter Filter
}

// FromProgram recovers the triggers of a lowered program, in construction
// order, from their setters.
func FromProgram(p *plan.Program) []Bound {
	var out []Bound
	for _, id := range p.OfKind(cec.KindTrigger) {
		b := Bound{ID: id}
		for _, in := range p.Setters(id) {
			switch v := in.Value.(type) {
			case plan.Int:
				n := uint8(v.V)
				switch in.Setter {
				case "source":
					b.Filter.Source = &n
				case "destination":
					b.Filter.Destination = &n
				case "opcode":
					b.Filter.Opcode = &n
				}
			case plan.Bytes:
				if in.Setter == "data" {
					b.Filter.Data = []byte(v)
					b.Filter.HasData = true
				}
			}
		}
		out = append(out, b)
	}
	return out
}

// Match returns the triggers of p that msg fires, in construction order.
func Match(p *plan.Program, msg cec.Message) []Bound {
	var out []Bound
	for _, b := range FromProgram(p) {
		if b.Filter.Matches(msg) {
			out = append(out, b)
		}
	}
	return out
}

// SlotValues returns the slot values a trigger passes for msg.
func SlotValues(msg cec.Message) map[string]cty.Value {
	data := cty.ListValEmpty(cty.Number)
	if len(msg.Data) > 0 {
		elems := make([]cty.Value, len(msg.Data))
		for i, b := range msg.Data {
			elems[i] = cty.NumberIntVal(int64(b))
		}
		data = cty.ListVal(elems)
	}
	return map[string]cty.Value{
		"source":      cty.NumberIntVal(int64(msg.Source)),
		"destination": cty.NumberIntVal(int64(msg.Destination)),
		"data":        data,
	}
}
