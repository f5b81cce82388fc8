package registry

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zclconf/go-cty/cty"

	"github.com/specialistvlad/cecplan/internal/cec"
	"github.com/specialistvlad/cecplan/internal/plan"
	"github.com/specialistvlad/cecplan/internal/schema"
	"github.com/specialistvlad/cecplan/internal/validate"
)

const noopKind plan.Kind = "test::Noop"

// noopModule registers an action that constructs one object per use and
// fails when its `fail` field is true.
type noopModule struct{}

func (noopModule) Register(r *Registry) {
	r.Register(&Definition{
		Name:   "test.noop",
		Kind:   noopKind,
		Schema: schema.NewNode("test.noop", schema.Optional("fail", validate.Boolean(), false)),
		Compile: func(_ context.Context, env *Env, cfg *schema.Config) (plan.Identifier, error) {
			if fail, _ := cfg.Bool("fail"); fail {
				return plan.Identifier{}, validate.Invalid("asked to fail").At(cfg.FieldPath("fail"))
			}
			id := env.Program.MustAllocate(noopKind)
			env.Program.Construct(id, nil)
			return id, nil
		},
	})
}

func validActions(t *testing.T, r *Registry, fail ...bool) []schema.Action {
	t.Helper()
	node, ok := r.ActionSchema("test.noop")
	require.True(t, ok)
	s := &schema.Schema{Generation: 1, Root: schema.NewNode("hdmi_cec", schema.Actions("then", r))}

	items := make([]cty.Value, len(fail))
	for i, f := range fail {
		items[i] = cty.ObjectVal(map[string]cty.Value{node.Name: cty.ObjectVal(map[string]cty.Value{"fail": cty.BoolVal(f)})})
	}
	cfg, err := s.Validate(context.Background(), cty.ObjectVal(map[string]cty.Value{"then": cty.TupleVal(items)}))
	require.NoError(t, err)
	return cfg.Actions("then")
}

func TestRegister(t *testing.T) {
	r := New(context.Background(), noopModule{})
	assert.Equal(t, []string{"test.noop"}, r.ActionNames())

	def, ok := r.Lookup("test.noop")
	require.True(t, ok)
	assert.Equal(t, noopKind, def.Kind)

	_, ok = r.ActionSchema("missing")
	assert.False(t, ok)

	assert.PanicsWithValue(t, "action with name 'test.noop' already registered", func() {
		noopModule{}.Register(r)
	})
	assert.NoError(t, r.ValidateRegistry())
}

func TestValidateRegistry(t *testing.T) {
	r := New(context.Background())
	r.Register(&Definition{Name: "a.b", Schema: schema.NewNode("other")})
	r.Register(&Definition{Name: "c.d"})

	err := r.ValidateRegistry()
	require.Error(t, err)
	assert.Equal(t, `registry validation failed:
- action 'a.b': schema is named 'other'
- action 'a.b': no compiler
- action 'a.b': no object kind
- action 'c.d': no schema
- action 'c.d': no compiler
- action 'c.d': no object kind`, err.Error())
}

func TestBuildActionChain(t *testing.T) {
	ctx := context.Background()
	r := New(ctx, noopModule{})

	newProgram := func() (*plan.Program, plan.Identifier) {
		p := plan.NewProgram(5)
		trig := p.MustAllocate(cec.KindTrigger)
		p.Construct(trig, nil)
		return p, trig
	}

	t.Run("empty list lowers to nothing", func(t *testing.T) {
		p, trig := newProgram()
		require.NoError(t, r.BuildActionChain(ctx, p, trig, nil, nil))
		assert.Len(t, p.Instructions(), 1)
		assert.Nil(t, Chain(p, trig))
	})

	t.Run("automation collects actions in order", func(t *testing.T) {
		p, trig := newProgram()
		require.NoError(t, r.BuildActionChain(ctx, p, trig, nil, validActions(t, r, false, false)))

		var lines []string
		for _, in := range p.Instructions() {
			lines = append(lines, in.String())
		}
		assert.Equal(t, []string{
			"construct messagetrigger_0 = hdmi_cec::MessageTrigger()",
			"construct automation_1 = Automation(messagetrigger_0)",
			"construct noop_2 = test::Noop()",
			"construct noop_3 = test::Noop()",
			"set automation_1.add_actions([noop_2, noop_3])",
		}, lines)
		require.NoError(t, p.Verify())

		var chain []string
		for _, id := range Chain(p, trig) {
			chain = append(chain, id.Name)
		}
		assert.Equal(t, []string{"noop_2", "noop_3"}, chain)
	})

	t.Run("action errors are collected", func(t *testing.T) {
		p, trig := newProgram()
		err := r.BuildActionChain(ctx, p, trig, nil, validActions(t, r, true, false, true))
		require.Error(t, err)
		assert.Equal(t, `2 validation errors:
- hdmi_cec.then[0].test.noop.fail: asked to fail
- hdmi_cec.then[2].test.noop.fail: asked to fail`, err.Error())
	})
}
