package cec

import (
	"fmt"
	"strconv"
	"strings"
)

// Message is a CEC frame as the bus delivers it. Data holds the opcode
// followed by its operands; a polling message has no data.
type Message struct {
	Source      uint8
	Destination uint8
	Data        []byte
}

// Opcode returns the first data byte. ok is false for polling messages.
func (m Message) Opcode() (op uint8, ok bool) {
	if len(m.Data) == 0 {
		return 0, false
	}
	return m.Data[0], true
}

// IsBroadcast reports whether the frame is addressed to every device.
func (m Message) IsBroadcast() bool {
	return m.Destination == AddressBroadcast
}

// String renders the frame the way ParseFrame reads it.
func (m Message) String() string {
	parts := make([]string, 0, len(m.Data)+1)
	parts = append(parts, fmt.Sprintf("%X%X", m.Source, m.Destination))
	for _, b := range m.Data {
		parts = append(parts, fmt.Sprintf("%02X", b))
	}
	return strings.Join(parts, ":")
}

// ParseFrame parses a colon separated hex frame such as "4F:82:10:00". The
// first byte carries the source in its high nibble and the destination in
// its low nibble.
func ParseFrame(s string) (Message, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return Message{}, fmt.Errorf("empty frame")
	}
	fields := strings.Split(s, ":")
	raw := make([]byte, len(fields))
	for i, f := range fields {
		b, err := strconv.ParseUint(strings.TrimPrefix(strings.ToLower(f), "0x"), 16, 8)
		if err != nil {
			return Message{}, fmt.Errorf("frame byte %d (%q) is not a hex byte", i, f)
		}
		raw[i] = byte(b)
	}
	msg := Message{
		Source:      raw[0] >> 4,
		Destination: raw[0] & 0x0F,
	}
	if len(raw) > 1 {
		msg.Data = raw[1:]
	}
	return msg, nil
}
