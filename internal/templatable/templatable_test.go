package templatable

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zclconf/go-cty/cty"

	"github.com/specialistvlad/cecplan/internal/config"
	"github.com/specialistvlad/cecplan/internal/nodeid"
	"github.com/specialistvlad/cecplan/internal/plan"
	"github.com/specialistvlad/cecplan/internal/testutil"
	"github.com/specialistvlad/cecplan/internal/validate"
)

var triggerArgs = []plan.Arg{
	{Name: "source", Type: plan.TypeUint8},
	{Name: "destination", Type: plan.TypeUint8},
	{Name: "data", Type: plan.TypeBytes},
}

func TestParse(t *testing.T) {
	path := nodeid.New("hdmi_cec", "send", "destination")

	t.Run("literal", func(t *testing.T) {
		v, err := Parse(cty.NumberIntVal(4), validate.Address(), path)
		require.NoError(t, err)
		assert.Equal(t, StateLiteral, v.State())
		lit, ok := v.LiteralValue()
		require.True(t, ok)
		assert.Equal(t, 4, lit)
		assert.Equal(t, cty.NumberIntVal(4), v.Raw())
	})

	t.Run("invalid literal is anchored to the field", func(t *testing.T) {
		_, err := Parse(cty.NumberIntVal(16), validate.Address(), path)
		require.Error(t, err)
		assert.True(t, errors.Is(err, validate.ErrInvalid))
		assert.EqualError(t, err, "hdmi_cec.send.destination: value must be at most 15, got 16")
	})

	t.Run("lambda is deferred without validation", func(t *testing.T) {
		l := testutil.Lambda(t, "source")
		v, err := Parse(config.LambdaVal(l), validate.Address(), path)
		require.NoError(t, err)
		assert.True(t, v.IsDeferred())
		got, ok := v.Lambda()
		require.True(t, ok)
		assert.Same(t, l, got)
		assert.True(t, v.Path().Equal(path))
	})

	t.Run("absent", func(t *testing.T) {
		v := Absent()
		assert.True(t, v.IsAbsent())
		assert.Equal(t, "absent", v.State().String())
		assert.True(t, v.Raw().IsNull())
	})
}

func TestLower(t *testing.T) {
	path := nodeid.New("hdmi_cec", "on_message").Index(0).Field("data")

	t.Run("absent emits nothing", func(t *testing.T) {
		out, emit, err := Lower(Absent(), triggerArgs, plan.TypeUint8)
		require.NoError(t, err)
		assert.False(t, emit)
		assert.Nil(t, out)
	})

	t.Run("literal keeps its value", func(t *testing.T) {
		out, emit, err := Lower(Literal([]byte{0x36}), triggerArgs, plan.TypeBytes)
		require.NoError(t, err)
		assert.True(t, emit)
		assert.Equal(t, plan.Bytes{0x36}, out)

		out, _, err = Lower(Literal(0), nil, plan.TypeUint8)
		require.NoError(t, err)
		assert.Equal(t, plan.Uint8(0), out, "zero literal is still emitted")
	})

	t.Run("deferred becomes a typed lambda", func(t *testing.T) {
		v := Deferred(testutil.Lambda(t, "concat([71], ascii(\"TV\"))"), validate.ByteArray(), path)
		out, emit, err := Lower(v, triggerArgs, plan.TypeBytes)
		require.NoError(t, err)
		require.True(t, emit)
		l, ok := out.(plan.Lambda)
		require.True(t, ok)
		assert.Equal(t, plan.TypeBytes, l.Returns)
		assert.Equal(t, triggerArgs, l.Args)
		assert.Equal(t, `concat([71], ascii("TV"))`, l.Source)
	})

	t.Run("unknown variable", func(t *testing.T) {
		v := Deferred(testutil.Lambda(t, "src + 1"), validate.Address(), path)
		_, _, err := Lower(v, triggerArgs, plan.TypeUint8)
		assert.EqualError(t, err, `hdmi_cec.on_message[0].data: lambda refers to unknown variable "src", available: source, destination, data`)
	})

	t.Run("variable outside of a trigger", func(t *testing.T) {
		v := Deferred(testutil.Lambda(t, "source"), validate.Address(), path)
		_, _, err := Lower(v, nil, plan.TypeUint8)
		assert.ErrorContains(t, err, "no variables are available here")
	})

	t.Run("unknown function", func(t *testing.T) {
		v := Deferred(testutil.Lambda(t, "upper(\"a\")"), validate.Address(), path)
		_, _, err := Lower(v, triggerArgs, plan.TypeUint8)
		assert.ErrorContains(t, err, `lambda calls unknown function "upper"`)
	})

	t.Run("literal of the wrong type is a contract violation", func(t *testing.T) {
		assert.Panics(t, func() {
			_, _, _ = Lower(Literal("x"), nil, plan.TypeUint8)
		})
	})
}

func TestReferences(t *testing.T) {
	vars, funcs := References(testutil.Lambda(t, `max(source, length(concat(data, [destination])))`).Expr)
	assert.Equal(t, []string{"data", "destination", "source"}, vars)
	assert.Equal(t, []string{"concat", "length", "max"}, funcs)

	_, funcs = References(testutil.Lambda(t, `source > 3 ? [for b in data : min(b, 1)] : slice(data, 0, length(data))`).Expr)
	assert.Equal(t, []string{"length", "min", "slice"}, funcs)

	_, funcs = References(testutil.Lambda(t, `"${ascii(source)}"`).Expr)
	assert.Equal(t, []string{"ascii"}, funcs)

	vars, funcs = References(nil)
	assert.Nil(t, vars)
	assert.Nil(t, funcs)
}

func TestEvaluate(t *testing.T) {
	slots := map[string]cty.Value{
		"source":      cty.NumberIntVal(4),
		"destination": cty.NumberIntVal(0),
		"data":        cty.ListVal([]cty.Value{cty.NumberIntVal(0x46)}),
	}
	lower := func(t *testing.T, src string, check validate.Func, ret plan.Type) plan.Lambda {
		t.Helper()
		out, _, err := Lower(Deferred(testutil.Lambda(t, src), check, nil), triggerArgs, ret)
		require.NoError(t, err)
		return out.(plan.Lambda)
	}

	t.Run("reply to sender", func(t *testing.T) {
		got, err := Evaluate(lower(t, "source", validate.Address(), plan.TypeUint8), slots)
		require.NoError(t, err)
		assert.Equal(t, 4, got)
	})

	t.Run("payload built from helpers", func(t *testing.T) {
		got, err := Evaluate(lower(t, `concat([71], ascii("TV"))`, validate.ByteArray(), plan.TypeBytes), slots)
		require.NoError(t, err)
		assert.Equal(t, []byte{0x47, 'T', 'V'}, got)
	})

	t.Run("result is range checked", func(t *testing.T) {
		_, err := Evaluate(lower(t, "source + 12", validate.Address(), plan.TypeUint8), slots)
		require.Error(t, err)
		var evalErr *EvalError
		require.True(t, errors.As(err, &evalErr))
		assert.Equal(t, "source + 12", evalErr.Source)
		assert.True(t, errors.Is(err, validate.ErrInvalid))
		assert.ErrorContains(t, err, "value must be at most 15, got 16")
	})

	t.Run("evaluation failure", func(t *testing.T) {
		_, err := Evaluate(lower(t, "element(data, 3) + source", validate.Uint8(), plan.TypeUint8), map[string]cty.Value{
			"source":      cty.NumberIntVal(1),
			"destination": cty.NumberIntVal(0),
			"data":        cty.ListValEmpty(cty.Number),
		})
		assert.Error(t, err)
	})

	t.Run("missing slot", func(t *testing.T) {
		_, err := Evaluate(lower(t, "source", validate.Address(), plan.TypeUint8), map[string]cty.Value{})
		assert.ErrorContains(t, err, `slot "source" has no value`)
	})
}
