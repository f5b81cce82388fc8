package cec

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/specialistvlad/cecplan/internal/plan"
)

func TestParseFrame(t *testing.T) {
	testCases := []struct {
		name    string
		input   string
		want    Message
		wantErr string
	}{
		{
			name:  "standby broadcast",
			input: "4F:36",
			want:  Message{Source: 4, Destination: 0xF, Data: []byte{0x36}},
		},
		{
			name:  "polling message",
			input: "40",
			want:  Message{Source: 4, Destination: 0},
		},
		{
			name:  "lowercase with prefix",
			input: "0x04:0x82:10:00",
			want:  Message{Source: 0, Destination: 4, Data: []byte{0x82, 0x10, 0x00}},
		},
		{name: "empty", input: " ", wantErr: "empty frame"},
		{name: "bad byte", input: "4F:zz", wantErr: `frame byte 1 ("zz")`},
		{name: "byte too wide", input: "4F:100", wantErr: "not a hex byte"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := ParseFrame(tc.input)
			if tc.wantErr != "" {
				assert.ErrorContains(t, err, tc.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestMessage(t *testing.T) {
	msg := Message{Source: 4, Destination: 0xF, Data: []byte{0x36}}
	op, ok := msg.Opcode()
	assert.True(t, ok)
	assert.Equal(t, OpStandby, op)
	assert.True(t, msg.IsBroadcast())
	assert.Equal(t, "4F:36", msg.String())

	_, ok = Message{Source: 1, Destination: 1}.Opcode()
	assert.False(t, ok)
}

func TestDescribeOpcode(t *testing.T) {
	assert.Equal(t, "0x36 (Standby)", DescribeOpcode(0x36))
	assert.Equal(t, "0x3E", DescribeOpcode(0x3E))

	name, ok := OpcodeName(OpGiveOSDName)
	assert.True(t, ok)
	assert.Equal(t, "Give OSD Name", name)
}

func TestAnnotate(t *testing.T) {
	id := plan.Identifier{Seq: 1, Name: "cec", Kind: KindDevice}
	set := func(setter string, v plan.Value) plan.Instruction {
		return plan.Instruction{Op: plan.OpSet, Target: id, Setter: setter, Value: v}
	}

	testCases := []struct {
		name string
		in   plan.Instruction
		want string
	}{
		{"logical address", set("address", plan.Uint8(4)), "Playback Device 1"},
		{"broadcast destination", set("destination", plan.Uint8(15)), "Broadcast"},
		{"physical address", set("physical_address", plan.Uint16(0x1200)), "1.2.0.0"},
		{"opcode", set("opcode", plan.Uint8(0x36)), "Standby"},
		{"unknown opcode", set("opcode", plan.Uint8(0x01)), ""},
		{"data opcode", set("data", plan.Bytes{0x47, 0x54}), "Set OSD Name"},
		{"empty data", set("data", plan.Bytes{}), ""},
		{"other setter", set("monitor_mode", plan.Bool(true)), ""},
		{"construct", plan.Instruction{Op: plan.OpConstruct, Target: id}, ""},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, Annotate(tc.in))
		})
	}
}
