package registry

import (
	"fmt"
	"strings"
)

// ValidateRegistry checks that every definition is complete and that its
// schema is registered under its own name.
func (r *Registry) ValidateRegistry() error {
	var errs []string
	for _, name := range r.ActionNames() {
		def := r.definitions[name]
		switch {
		case def.Schema == nil:
			errs = append(errs, fmt.Sprintf("action '%s': no schema", name))
		case def.Schema.Name != name:
			errs = append(errs, fmt.Sprintf("action '%s': schema is named '%s'", name, def.Schema.Name))
		}
		if def.Compile == nil {
			errs = append(errs, fmt.Sprintf("action '%s': no compiler", name))
		}
		if def.Kind == "" {
			errs = append(errs, fmt.Sprintf("action '%s': no object kind", name))
		}
	}
	if len(errs) > 0 {
		return fmt.Errorf("registry validation failed:\n- %s", strings.Join(errs, "\n- "))
	}
	return nil
}
