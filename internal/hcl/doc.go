// Package hcl loads hdmi_cec configurations written in HCL and writes
// validated configurations back as HCL.
//
//	hdmi_cec {
//	  address          = 4
//	  physical_address = "0x1000"
//
//	  on_message {
//	    opcode = "0x46"
//	    action "hdmi_cec.send" {
//	      destination = source
//	      data        = concat([71], ascii("TV"))
//	    }
//	  }
//	}
//
// An attribute that reads a variable is kept as a lambda and evaluated when
// the trigger fires; every other attribute is evaluated while loading.
// Nested blocks become mappings; a block type used more than once becomes
// a list. Labelled `action` blocks form the `then` list of their parent.
package hcl
