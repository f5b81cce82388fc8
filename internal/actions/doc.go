// Package actions holds the action modules of the hdmi_cec component.
package actions

import "github.com/specialistvlad/cecplan/internal/registry"

// All returns every action module, in registration order.
func All() []registry.Module {
	return []registry.Module{Send{}}
}
