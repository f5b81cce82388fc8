package schema

import "github.com/specialistvlad/cecplan/internal/validate"

// ActionSchemas resolves the schema of an action by name.
type ActionSchemas interface {
	ActionSchema(name string) (*Node, bool)
	// ActionNames lists the known actions, sorted.
	ActionNames() []string
}

// SendActionName is the name of the action that transmits a CEC frame.
const SendActionName = "hdmi_cec.send"

// SendAction is the schema of the hdmi_cec.send action. Every field except
// parent accepts a lambda.
func SendAction() *Node {
	return NewNode(SendActionName,
		Optional("parent", validate.Identifier(), nil).
			Describe("id of the hdmi_cec component that sends; defaults to the only one"),
		Optional("source", validate.Address(), nil).Templated().
			Describe("logical source address; defaults to the component's address"),
		Required("destination", validate.Address()).Templated().
			Describe("logical destination address, 15 broadcasts"),
		Required("data", validate.ByteArray()).Templated().
			Describe("opcode followed by its operands"),
	)
}
