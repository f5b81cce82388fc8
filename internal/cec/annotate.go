package cec

import (
	"fmt"

	"github.com/specialistvlad/cecplan/internal/plan"
)

var addressNames = [...]string{
	"TV",
	"Recording Device 1",
	"Recording Device 2",
	"Tuner 1",
	"Playback Device 1",
	"Audio System",
	"Tuner 2",
	"Tuner 3",
	"Playback Device 2",
	"Recording Device 3",
	"Tuner 4",
	"Playback Device 3",
	"Reserved",
	"Reserved",
	"Specific Use",
	"Broadcast",
}

// AddressName names a logical address.
func AddressName(addr uint8) string {
	if int(addr) >= len(addressNames) {
		return fmt.Sprintf("invalid address %d", addr)
	}
	return addressNames[addr]
}

// FormatPhysicalAddress renders a physical address in dotted form,
// 0x1000 as 1.0.0.0.
func FormatPhysicalAddress(pa uint16) string {
	return fmt.Sprintf("%d.%d.%d.%d", pa>>12, (pa>>8)&0xF, (pa>>4)&0xF, pa&0xF)
}

// Annotate is a plan.Annotator naming the CEC meaning of literal setter
// values.
func Annotate(in plan.Instruction) string {
	if in.Op != plan.OpSet {
		return ""
	}
	switch v := in.Value.(type) {
	case plan.Int:
		switch in.Setter {
		case "address", "source", "destination":
			return AddressName(uint8(v.V))
		case "physical_address":
			return FormatPhysicalAddress(uint16(v.V))
		case "opcode":
			if name, ok := OpcodeName(uint8(v.V)); ok {
				return name
			}
		}
	case plan.Bytes:
		if in.Setter == "data" && len(v) > 0 {
			if name, ok := OpcodeName(v[0]); ok {
				return name
			}
		}
	}
	return ""
}
