package app

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/specialistvlad/cecplan/internal/hcl"
	"github.com/specialistvlad/cecplan/internal/nodeid"
	"github.com/specialistvlad/cecplan/internal/plan"
	"github.com/specialistvlad/cecplan/internal/schema"
)

// WriteSchema prints the field table of the configured generation. A field
// path such as `on_message` or `pin.number` narrows it to one field and its
// nested fields; an action name prints that action's table.
func (a *App) WriteSchema(fieldPath string) error {
	s := a.Schema()
	node := s.Root

	if fieldPath != "" {
		if action, ok := a.registry.ActionSchema(fieldPath); ok {
			node = action
		} else {
			addr, err := nodeid.Parse(strings.TrimPrefix(fieldPath, node.Name+"."))
			if err != nil {
				return err
			}
			f, err := node.Lookup(addr)
			if err != nil {
				return fmt.Errorf("schema generation %d: %w", s.Generation, err)
			}
			fmt.Fprintf(a.outW, "%s (%s)", fieldPath, f.Kind)
			if f.Doc != "" {
				fmt.Fprintf(a.outW, ": %s", f.Doc)
			}
			fmt.Fprintln(a.outW)
			if f.Kind == schema.KindActions {
				fmt.Fprintf(a.outW, "actions: %s\n", strings.Join(f.Actions.ActionNames(), ", "))
			}
			if f.Object == nil {
				return nil
			}
			node = f.Object
		}
	}

	fmt.Fprintf(a.outW, "# %s, schema generation %d\n", node.Name, s.Generation)
	return writeTable(a.outW, node)
}

func writeTable(w io.Writer, node *schema.Node) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "FIELD\tKIND\tREQUIRED\tDEFAULT\tTEMPLATABLE\tDESCRIPTION")
	for _, f := range node.Fields() {
		def := "-"
		if f.Default != nil {
			def = fmt.Sprintf("%#v", f.Default)
		}
		fmt.Fprintf(tw, "%s\t%s\t%t\t%s\t%t\t%s\n", f.Name, f.Kind, f.Required, def, f.Templatable, f.Doc)
	}
	return tw.Flush()
}

// Convert writes every validated configuration back as HCL.
func (a *App) Convert(results []*Result) error {
	for _, res := range results {
		if _, err := a.outW.Write(hcl.Encode(res.Config)); err != nil {
			return err
		}
	}
	return nil
}

// VerifyPlan checks an emitted JSON plan.
func (a *App) VerifyPlan(data []byte) error {
	if err := plan.VerifyDocument(data); err != nil {
		return err
	}
	fmt.Fprintln(a.outW, "plan is valid")
	return nil
}
