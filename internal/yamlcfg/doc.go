// Package yamlcfg loads ESPHome-style YAML documents:
//
//	hdmi_cec:
//	  address: 4
//	  physical_address: 0x1000
//	  on_message:
//	    - opcode: 0x46
//	      then:
//	        - hdmi_cec.send:
//	            destination: !lambda source
//	            data: [0x47, 0x54, 0x56]
//
// Values tagged !lambda are HCL expressions evaluated when the trigger
// fires. A C-style `return x;` body is accepted and reduced to `x`. Other
// top-level keys belong to other components and are ignored.
package yamlcfg
