package cec

import "github.com/specialistvlad/cecplan/internal/plan"

// Object kinds constructed by a lowered plan.
const (
	KindDevice     plan.Kind = "hdmi_cec::HDMICEC"
	KindTrigger    plan.Kind = "hdmi_cec::MessageTrigger"
	KindSendAction plan.Kind = "hdmi_cec::SendAction"
	KindAutomation plan.Kind = "Automation"
	KindGPIOPin    plan.Kind = "InternalGPIOPin"
)

// Logical addresses with a fixed meaning on the bus.
const (
	AddressTV        = 0x0
	AddressBroadcast = 0xF
	MaxAddress       = 0xF
)
