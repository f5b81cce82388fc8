package app

import (
	"fmt"
	"io"

	ctyjson "github.com/zclconf/go-cty/cty/json"

	"github.com/specialistvlad/cecplan/internal/cec"
	"github.com/specialistvlad/cecplan/internal/plan"
	"github.com/specialistvlad/cecplan/internal/schema"
)

// WritePlans writes the plan of every compiled result in the configured
// output format. With more than one text plan each is headed by its file.
func (a *App) WritePlans(results []*Result) error {
	for i, res := range results {
		if res.Program == nil {
			return fmt.Errorf("%s was validated but not compiled", res.Filename)
		}
		switch a.config.Output {
		case OutputJSON:
			if err := plan.WriteJSON(a.outW, res.Program); err != nil {
				return err
			}
		default:
			if len(results) > 1 {
				if i > 0 {
					fmt.Fprintln(a.outW)
				}
				fmt.Fprintf(a.outW, "# file %s\n", res.Filename)
			}
			if err := plan.WriteText(a.outW, res.Program, cec.Annotate); err != nil {
				return err
			}
		}
	}
	return nil
}

// WriteSummary lists the fields each validated file wrote, one
// `path = value` line each. Lambdas are shown as !lambda with their source.
func (a *App) WriteSummary(results []*Result) error {
	for _, res := range results {
		fmt.Fprintf(a.outW, "%s: valid (schema generation %d)\n", res.Filename, a.config.Generation)
		if err := writeFields(a.outW, res.Config); err != nil {
			return err
		}
	}
	return nil
}

func writeFields(w io.Writer, cfg *schema.Config) error {
	for _, f := range cfg.Node().Fields() {
		if !cfg.Has(f.Name) {
			continue
		}
		switch f.Kind {
		case schema.KindObject:
			sub, _ := cfg.Object(f.Name)
			if err := writeFields(w, sub); err != nil {
				return err
			}
		case schema.KindBlocks:
			for _, sub := range cfg.Blocks(f.Name) {
				if err := writeFields(w, sub); err != nil {
					return err
				}
			}
		case schema.KindActions:
			for _, action := range cfg.Actions(f.Name) {
				if err := writeFields(w, action.Config); err != nil {
					return err
				}
			}
		default:
			path := cfg.FieldPath(f.Name)
			if l, ok := cfg.Templatable(f.Name).Lambda(); ok {
				fmt.Fprintf(w, "  %s = !lambda %s\n", path, l.Source)
				continue
			}
			raw, _ := cfg.RawField(f.Name)
			out, err := ctyjson.Marshal(raw, raw.Type())
			if err != nil {
				return fmt.Errorf("%s: %w", path, err)
			}
			fmt.Fprintf(w, "  %s = %s\n", path, out)
		}
	}
	return nil
}
