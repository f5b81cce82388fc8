package schema

import (
	"context"
	"fmt"

	"github.com/zclconf/go-cty/cty"

	"github.com/specialistvlad/cecplan/internal/config"
	"github.com/specialistvlad/cecplan/internal/ctxlog"
	"github.com/specialistvlad/cecplan/internal/nodeid"
	"github.com/specialistvlad/cecplan/internal/validate"
)

const (
	// FirstGeneration only knows the pin.
	FirstGeneration = 1
	// LatestGeneration adds message triggers and the send action.
	LatestGeneration = 5
)

// Schema is one generation of the component's field table.
type Schema struct {
	Generation int
	Root       *Node
	// Workers bounds concurrent validation of sibling blocks; zero means
	// no bound.
	Workers int
}

// Validate checks raw against the schema and returns the validated
// configuration. All failures are reported together, in field table order,
// each stamped with the schema generation.
func (s *Schema) Validate(ctx context.Context, raw cty.Value) (*Config, error) {
	logger := ctxlog.FromContext(ctx)
	logger.Debug("Validating configuration.")

	w := &walker{workers: s.Workers}
	cfg, errs := w.object(ctx, s.Root, raw, nodeid.New(config.ComponentKey))
	if len(errs) > 0 {
		for i, e := range errs {
			stamped := *e
			stamped.Generation = s.Generation
			errs[i] = &stamped
		}
		logger.Debug("Configuration is invalid.")
		return nil, errs
	}
	logger.Debug("Configuration is valid.")
	return cfg, nil
}

// WithWorkers returns a copy of s that validates at most n sibling blocks
// at a time.
func (s *Schema) WithWorkers(n int) *Schema {
	out := *s
	out.Workers = n
	return &out
}

// Set holds every generation.
type Set struct {
	generations []*Schema
}

// NewSet builds all generations. Action lists in on_message entries are
// resolved through actions.
func NewSet(actions ActionSchemas) *Set {
	g1 := NewNode(config.ComponentKey,
		Optional("id", validate.Identifier(), nil).Describe("identifier of the component"),
		Object("pin", PinNode, true).WithShorthand(pinShorthand).Describe("GPIO the CEC line is attached to"),
	)

	g2 := g1.
		Replace(Object("pin", PinNode, false).WithShorthand(pinShorthand).Describe("GPIO the CEC line is attached to")).
		Extend(Required("address", validate.Address()).Describe("logical address, 0 to 15"))

	g3 := g2.Extend(
		Optional("promiscuous_mode", validate.Boolean(), false).Describe("receive frames addressed to any device"),
	)

	g4 := g3.
		Insert("address",
			Required("physical_address", validate.Uint16()).Describe("physical address, e.g. 0x1000 for 1.0.0.0"),
		).
		Extend(
			Optional("monitor_mode", validate.Boolean(), false).Describe("listen only, never acknowledge"),
			Optional("osd_name", validate.OSDName(), "esphome").Describe("name announced in Set OSD Name"),
			Optional("log_pings", validate.Boolean(), false).Describe("log polling messages"),
		)

	g5 := g4.Extend(
		Blocks("on_message", MessageTriggerNode(actions)).Describe("automations run when a matching message arrives"),
	)

	return &Set{generations: []*Schema{
		{Generation: 1, Root: g1},
		{Generation: 2, Root: g2},
		{Generation: 3, Root: g3},
		{Generation: 4, Root: g4},
		{Generation: 5, Root: g5},
	}}
}

// MessageTriggerNode is the schema of one on_message entry. Absent filter
// fields match any message.
func MessageTriggerNode(actions ActionSchemas) *Node {
	return NewNode("on_message",
		Optional("trigger_id", validate.Identifier(), nil).Describe("identifier of the trigger"),
		Optional("source", validate.Address(), nil).Describe("match the sender's logical address"),
		Optional("destination", validate.Address(), nil).Describe("match the receiver's logical address"),
		Optional("opcode", validate.Uint8(), nil).Describe("match the first data byte"),
		Optional("data", validate.ByteArray(), nil).Describe("match the whole payload, opcode included"),
		Actions("then", actions).Describe("actions to run"),
	)
}

// Generation returns schema generation n.
func (s *Set) Generation(n int) (*Schema, error) {
	if n < FirstGeneration || n > len(s.generations) {
		return nil, fmt.Errorf("unknown schema generation %d, expected %d to %d", n, FirstGeneration, len(s.generations))
	}
	return s.generations[n-1], nil
}

// Latest returns the newest generation.
func (s *Set) Latest() *Schema {
	return s.generations[len(s.generations)-1]
}
