package registry

import (
	"context"
	"fmt"
	"sort"

	"go.uber.org/zap"

	"github.com/specialistvlad/cecplan/internal/ctxlog"
	"github.com/specialistvlad/cecplan/internal/plan"
	"github.com/specialistvlad/cecplan/internal/schema"
)

// Module is the interface that every action module implements to be registered.
type Module interface {
	Register(r *Registry)
}

// Env is what an action compiler sees of the program it is lowered into.
type Env struct {
	Program *plan.Program
	// Args are the slots the enclosing trigger passes to its actions.
	Args []plan.Arg
}

// Compiler lowers one validated action and returns the constructed object.
type Compiler func(ctx context.Context, env *Env, cfg *schema.Config) (plan.Identifier, error)

// Definition describes one action.
type Definition struct {
	Name    string
	Kind    plan.Kind
	Schema  *schema.Node
	Compile Compiler
}

// Registry holds the registered actions of one application instance.
type Registry struct {
	definitions map[string]*Definition
}

// New creates an empty registry and registers the given modules.
func New(ctx context.Context, modules ...Module) *Registry {
	r := &Registry{definitions: make(map[string]*Definition)}
	for _, m := range modules {
		m.Register(r)
	}
	ctxlog.FromContext(ctx).Debug("Action registry ready.", zap.Strings("actions", r.ActionNames()))
	return r
}

// Register adds an action definition.
func (r *Registry) Register(def *Definition) {
	if _, exists := r.definitions[def.Name]; exists {
		panic(fmt.Sprintf("action with name '%s' already registered", def.Name))
	}
	r.definitions[def.Name] = def
}

// Lookup returns the definition registered under name.
func (r *Registry) Lookup(name string) (*Definition, bool) {
	def, ok := r.definitions[name]
	return def, ok
}

// ActionSchema implements schema.ActionSchemas.
func (r *Registry) ActionSchema(name string) (*schema.Node, bool) {
	def, ok := r.definitions[name]
	if !ok {
		return nil, false
	}
	return def.Schema, true
}

// ActionNames implements schema.ActionSchemas.
func (r *Registry) ActionNames() []string {
	names := make([]string, 0, len(r.definitions))
	for name := range r.definitions {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
