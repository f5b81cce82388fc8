package plan

import "fmt"

// ContractViolation reports lowering code that broke the construction
// contract of a Program. It is raised with panic.
type ContractViolation struct {
	Op     string
	Target string
	Reason string
}

func (e *ContractViolation) Error() string {
	if e.Target == "" {
		return fmt.Sprintf("contract violation in %s: %s", e.Op, e.Reason)
	}
	return fmt.Sprintf("contract violation in %s %s: %s", e.Op, e.Target, e.Reason)
}

func violate(op string, target Identifier, format string, args ...any) {
	panic(&ContractViolation{Op: op, Target: target.Name, Reason: fmt.Sprintf(format, args...)})
}
