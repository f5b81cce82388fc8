// Package cec holds the HDMI-CEC vocabulary the compiler talks about: the
// kinds of objects a plan constructs, logical addresses, opcode names and
// the frame layout used when matching messages against trigger filters.
package cec
