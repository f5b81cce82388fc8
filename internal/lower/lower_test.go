package lower

import (
	"context"
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zclconf/go-cty/cty"

	"github.com/specialistvlad/cecplan/internal/actions"
	"github.com/specialistvlad/cecplan/internal/cec"
	"github.com/specialistvlad/cecplan/internal/plan"
	"github.com/specialistvlad/cecplan/internal/registry"
	"github.com/specialistvlad/cecplan/internal/schema"
	"github.com/specialistvlad/cecplan/internal/testutil"
	"github.com/specialistvlad/cecplan/internal/validate"
)

type fixture struct {
	reg *registry.Registry
	set *schema.Set
}

func newFixture() *fixture {
	reg := registry.New(context.Background(), actions.All()...)
	return &fixture{reg: reg, set: schema.NewSet(reg)}
}

// compile validates raw against generation gen and lowers it.
func (f *fixture) compile(t *testing.T, gen int, raw cty.Value) (*plan.Program, error) {
	t.Helper()
	s, err := f.set.Generation(gen)
	require.NoError(t, err)
	cfg, err := s.Validate(context.Background(), raw)
	require.NoError(t, err)
	return New(f.reg).Lower(context.Background(), cfg, gen)
}

func lines(p *plan.Program) []string {
	var out []string
	for _, in := range p.Instructions() {
		out = append(out, in.String())
	}
	return out
}

func obj(m map[string]cty.Value) cty.Value { return cty.ObjectVal(m) }
func num(n int64) cty.Value                { return cty.NumberIntVal(n) }

func TestLowerEndToEnd(t *testing.T) {
	raw := obj(map[string]cty.Value{
		"address":          num(3),
		"physical_address": num(4096),
		"osd_name":         cty.StringVal("TV"),
		"on_message": cty.TupleVal([]cty.Value{
			obj(map[string]cty.Value{"destination": num(0), "opcode": num(0x36)}),
		}),
	})

	p, err := newFixture().compile(t, schema.LatestGeneration, raw)
	require.NoError(t, err)

	want := []string{
		"construct hdmicec_0 = hdmi_cec::HDMICEC()",
		"set hdmicec_0.address(3)",
		"set hdmicec_0.physical_address(4096)",
		"set hdmicec_0.osd_name_bytes([0x54, 0x56])",
		"construct messagetrigger_1 = hdmi_cec::MessageTrigger(hdmicec_0)",
		"set messagetrigger_1.destination(0)",
		"set messagetrigger_1.opcode(54)",
	}
	if diff := cmp.Diff(want, lines(p)); diff != "" {
		t.Errorf("plan mismatch (-want +got):\n%s", diff)
	}

	dev := p.Instructions()[0]
	assert.Empty(t, dev.Deps, "the component has no dependencies")
	trig := p.Instructions()[4]
	assert.Equal(t, []plan.Identifier{dev.Target}, trig.Deps)
	assert.Equal(t, plan.TypeUint16, p.Instructions()[2].Value.Type())
}

func TestLowerIsDeterministic(t *testing.T) {
	raw := obj(map[string]cty.Value{
		"pin":              cty.StringVal("GPIO4"),
		"address":          num(4),
		"physical_address": num(0x2000),
		"log_pings":        cty.True,
		"on_message": cty.TupleVal([]cty.Value{
			obj(map[string]cty.Value{"opcode": num(0x46)}),
			obj(map[string]cty.Value{"source": num(0), "data": cty.TupleVal([]cty.Value{num(0x36)})}),
			obj(map[string]cty.Value{"destination": num(4)}),
		}),
	})

	f := newFixture()
	first, err := f.compile(t, schema.LatestGeneration, raw)
	require.NoError(t, err)
	for i := 0; i < 5; i++ {
		again, err := f.compile(t, schema.LatestGeneration, raw)
		require.NoError(t, err)
		assert.Equal(t, lines(first), lines(again))
	}
}

func TestLowerEmitsWrittenFieldsOnly(t *testing.T) {
	f := newFixture()

	defaults, err := f.compile(t, 4, obj(map[string]cty.Value{
		"address":          num(1),
		"physical_address": num(0),
	}))
	require.NoError(t, err)

	explicit, err := f.compile(t, 4, obj(map[string]cty.Value{
		"address":          num(1),
		"physical_address": num(0),
		"promiscuous_mode": cty.False,
		"monitor_mode":     cty.False,
		"osd_name":         cty.StringVal("esphome"),
		"log_pings":        cty.False,
	}))
	require.NoError(t, err)

	assert.Equal(t, []string{
		"construct hdmicec_0 = hdmi_cec::HDMICEC()",
		"set hdmicec_0.address(1)",
		"set hdmicec_0.physical_address(0)",
	}, lines(defaults))

	assert.Equal(t, []string{
		"construct hdmicec_0 = hdmi_cec::HDMICEC()",
		"set hdmicec_0.address(1)",
		"set hdmicec_0.physical_address(0)",
		"set hdmicec_0.promiscuous_mode(false)",
		"set hdmicec_0.monitor_mode(false)",
		"set hdmicec_0.osd_name_bytes([0x65, 0x73, 0x70, 0x68, 0x6F, 0x6D, 0x65])",
		"set hdmicec_0.log_pings(false)",
	}, lines(explicit), "values equal to the defaults are still emitted when written")
}

func TestLowerPin(t *testing.T) {
	p, err := newFixture().compile(t, 1, obj(map[string]cty.Value{
		"id":  cty.StringVal("cec"),
		"pin": obj(map[string]cty.Value{"number": num(4), "inverted": cty.True}),
	}))
	require.NoError(t, err)

	assert.Equal(t, []string{
		"construct cec = hdmi_cec::HDMICEC()",
		`construct internalgpiopin_1 = InternalGPIOPin(4, true, "output")`,
		"set cec.pin(internalgpiopin_1)",
	}, lines(p))
	assert.Equal(t, 1, p.Generation())
}

type recordingPins struct {
	seen []schema.Pin
}

func (r *recordingPins) ResolvePin(ctx context.Context, p *plan.Program, pin schema.Pin) (plan.Identifier, error) {
	r.seen = append(r.seen, pin)
	return GPIOPins{}.ResolvePin(ctx, p, pin)
}

// lazyPins allocates but never constructs, which breaks the contract.
type lazyPins struct{}

func (lazyPins) ResolvePin(_ context.Context, p *plan.Program, _ schema.Pin) (plan.Identifier, error) {
	return p.MustAllocate(cec.KindGPIOPin), nil
}

func TestLowerPinResolver(t *testing.T) {
	f := newFixture()
	s, err := f.set.Generation(2)
	require.NoError(t, err)
	cfg, err := s.Validate(context.Background(), obj(map[string]cty.Value{"pin": num(17), "address": num(0)}))
	require.NoError(t, err)

	t.Run("collaborator receives the validated pin", func(t *testing.T) {
		pins := &recordingPins{}
		c := &Compiler{Pins: pins, Actions: f.reg}
		_, err := c.Lower(context.Background(), cfg, 2)
		require.NoError(t, err)
		assert.Equal(t, []schema.Pin{{Number: 17, Mode: "output"}}, pins.seen)
	})

	t.Run("referencing an unconstructed pin is fatal", func(t *testing.T) {
		c := &Compiler{Pins: lazyPins{}, Actions: f.reg}
		defer func() {
			r := recover()
			require.NotNil(t, r)
			cv, ok := r.(*plan.ContractViolation)
			require.True(t, ok, "got %T", r)
			assert.Contains(t, cv.Reason, `dependency "internalgpiopin_1" is not constructed yet`)
		}()
		_, _ = c.Lower(context.Background(), cfg, 2)
	})
}

func TestLowerSendAction(t *testing.T) {
	raw := obj(map[string]cty.Value{
		"id":               cty.StringVal("tv_cec"),
		"address":          num(4),
		"physical_address": num(0x1000),
		"on_message": cty.TupleVal([]cty.Value{
			obj(map[string]cty.Value{
				"trigger_id": cty.StringVal("on_give_osd_name"),
				"opcode":     num(0x46),
				"then": cty.TupleVal([]cty.Value{
					obj(map[string]cty.Value{schema.SendActionName: obj(map[string]cty.Value{
						"destination": testutil.LambdaVal(t, "source"),
						"data":        cty.TupleVal([]cty.Value{num(0x47), num(0x54), num(0x56)}),
					})}),
					obj(map[string]cty.Value{schema.SendActionName: obj(map[string]cty.Value{
						"parent":      cty.StringVal("tv_cec"),
						"source":      num(4),
						"destination": num(cec.AddressBroadcast),
						"data":        cty.TupleVal([]cty.Value{num(0x84), num(0x10), num(0x00), num(0x04)}),
					})}),
				}),
			}),
		}),
	})

	p, err := newFixture().compile(t, schema.LatestGeneration, raw)
	require.NoError(t, err)

	want := []string{
		"construct tv_cec = hdmi_cec::HDMICEC()",
		"set tv_cec.address(4)",
		"set tv_cec.physical_address(4096)",
		"construct on_give_osd_name = hdmi_cec::MessageTrigger(tv_cec)",
		"set on_give_osd_name.opcode(70)",
		"construct automation_2 = Automation(on_give_osd_name)",
		"construct sendaction_3 = hdmi_cec::SendAction(tv_cec)",
		"set sendaction_3.destination(lambda(source uint8, destination uint8, data bytes) uint8 { source })",
		"set sendaction_3.data([0x47, 0x54, 0x56])",
		"construct sendaction_4 = hdmi_cec::SendAction(tv_cec)",
		"set sendaction_4.source(4)",
		"set sendaction_4.destination(15)",
		"set sendaction_4.data([0x84, 0x10, 0x00, 0x04])",
		"set automation_2.add_actions([sendaction_3, sendaction_4])",
	}
	if diff := cmp.Diff(want, lines(p)); diff != "" {
		t.Errorf("plan mismatch (-want +got):\n%s", diff)
	}
}

func TestLowerErrors(t *testing.T) {
	send := func(body map[string]cty.Value) cty.Value {
		return cty.TupleVal([]cty.Value{obj(map[string]cty.Value{schema.SendActionName: obj(body)})})
	}

	testCases := []struct {
		name string
		raw  cty.Value
		want []string
	}{
		{
			name: "duplicate trigger ids",
			raw: obj(map[string]cty.Value{
				"address":          num(1),
				"physical_address": num(0),
				"on_message": cty.TupleVal([]cty.Value{
					obj(map[string]cty.Value{"trigger_id": cty.StringVal("t")}),
					obj(map[string]cty.Value{"trigger_id": cty.StringVal("t")}),
				}),
			}),
			want: []string{`hdmi_cec.on_message[1].trigger_id: duplicate identifier: "t" is already used by a hdmi_cec::MessageTrigger`},
		},
		{
			name: "lambda reads an unknown slot",
			raw: obj(map[string]cty.Value{
				"address":          num(1),
				"physical_address": num(0),
				"on_message": obj(map[string]cty.Value{
					"then": send(map[string]cty.Value{
						"destination": testutil.LambdaVal(t, "sender"),
						"data":        testutil.LambdaVal(t, "bogus(data)"),
					}),
				}),
			}),
			want: []string{
				`hdmi_cec.on_message[0].then[0].hdmi_cec.send.destination: lambda refers to unknown variable "sender", available: source, destination, data`,
				`hdmi_cec.on_message[0].then[0].hdmi_cec.send.data: lambda calls unknown function "bogus"`,
			},
		},
		{
			name: "parent must name a component",
			raw: obj(map[string]cty.Value{
				"address":          num(1),
				"physical_address": num(0),
				"on_message": obj(map[string]cty.Value{
					"trigger_id": cty.StringVal("trig"),
					"then": send(map[string]cty.Value{
						"parent":      cty.StringVal("trig"),
						"destination": num(0),
						"data":        cty.EmptyTupleVal,
					}),
				}),
			}),
			want: []string{`hdmi_cec.on_message[0].then[0].hdmi_cec.send.parent: ID "trig" is a hdmi_cec::MessageTrigger, not a hdmi_cec component`},
		},
		{
			name: "parent must exist",
			raw: obj(map[string]cty.Value{
				"address":          num(1),
				"physical_address": num(0),
				"on_message": obj(map[string]cty.Value{
					"then": send(map[string]cty.Value{
						"parent":      cty.StringVal("nope"),
						"destination": num(0),
						"data":        cty.EmptyTupleVal,
					}),
				}),
			}),
			want: []string{`hdmi_cec.on_message[0].then[0].hdmi_cec.send.parent: couldn't find ID "nope"`},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := newFixture().compile(t, schema.LatestGeneration, tc.raw)
			require.Error(t, err)
			require.True(t, errors.Is(err, validate.ErrInvalid))

			var errs validate.Errors
			require.True(t, errors.As(err, &errs))
			got := make([]string, len(errs))
			for i, e := range errs {
				got[i] = e.Error()
				assert.Equal(t, schema.LatestGeneration, e.Generation)
			}
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestLowerKeepsUserIDsFromGeneratedNames(t *testing.T) {
	raw := obj(map[string]cty.Value{
		"address":          num(1),
		"physical_address": num(0),
		"on_message": cty.TupleVal([]cty.Value{
			obj(map[string]cty.Value{"opcode": num(1)}),
			obj(map[string]cty.Value{"trigger_id": cty.StringVal("messagetrigger_1"), "opcode": num(2)}),
		}),
	})

	p, err := newFixture().compile(t, schema.LatestGeneration, raw)
	require.NoError(t, err)

	triggers := p.OfKind(cec.KindTrigger)
	require.Len(t, triggers, 2)
	assert.Equal(t, "messagetrigger_1_", triggers[0].Name)
	assert.Equal(t, "messagetrigger_1", triggers[1].Name)
}
