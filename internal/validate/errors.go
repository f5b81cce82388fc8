package validate

import (
	"errors"
	"fmt"
	"strings"

	"github.com/specialistvlad/cecplan/internal/nodeid"
)

// ErrInvalid matches every validation failure via errors.Is.
var ErrInvalid = errors.New("invalid configuration")

// Error is a validation failure of a single field.
type Error struct {
	// Path locates the offending field, e.g. hdmi_cec.on_message[0].data.
	Path *nodeid.Address
	// Message is the human-readable cause.
	Message string
	// Generation is the schema generation the field was validated against.
	// Zero when the failure is not tied to a generation.
	Generation int

	// item is the index of the failing element inside a sequence value, or -1.
	item int
}

// Invalid creates a validation error without a path.
func Invalid(format string, args ...any) *Error {
	return &Error{Message: fmt.Sprintf(format, args...), item: -1}
}

// InvalidItem creates a validation error for the i-th element of a sequence.
// The index is folded into the path once the error is anchored with At.
func InvalidItem(i int, format string, args ...any) *Error {
	return &Error{Message: fmt.Sprintf(format, args...), item: i}
}

// At returns a copy of the error anchored to path.
func (e *Error) At(path *nodeid.Address) *Error {
	out := *e
	out.Path = path
	if e.item >= 0 && path != nil && len(path.Path) > 0 {
		out.Path = path.Index(e.item)
	}
	out.item = -1
	return &out
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Path == nil || len(e.Path.Path) == 0 {
		return e.Message
	}
	return fmt.Sprintf("%s: %s", e.Path, e.Message)
}

// Is reports whether target is ErrInvalid.
func (e *Error) Is(target error) bool {
	return target == ErrInvalid
}

// Errors is a collection of validation failures, in validation order.
type Errors []*Error

// Error implements the error interface.
func (errs Errors) Error() string {
	switch len(errs) {
	case 0:
		return "no validation errors"
	case 1:
		return errs[0].Error()
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "%d validation errors", len(errs))
	if gen := errs[0].Generation; gen > 0 {
		fmt.Fprintf(&sb, " (schema generation %d)", gen)
	}
	sb.WriteString(":")
	for _, e := range errs {
		sb.WriteString("\n- ")
		sb.WriteString(e.Error())
	}
	return sb.String()
}

// Unwrap exposes the individual errors to errors.Is and errors.As.
func (errs Errors) Unwrap() []error {
	out := make([]error, len(errs))
	for i, e := range errs {
		out[i] = e
	}
	return out
}

// Err returns nil for an empty collection and the collection otherwise, so
// callers never return a typed nil.
func (errs Errors) Err() error {
	if len(errs) == 0 {
		return nil
	}
	return errs
}

// Append adds err to the collection, flattening nested collections. Errors
// that are not validation failures are wrapped so no cause is lost.
func (errs Errors) Append(err error) Errors {
	if err == nil {
		return errs
	}
	var many Errors
	if errors.As(err, &many) {
		return append(errs, many...)
	}
	var one *Error
	if errors.As(err, &one) {
		return append(errs, one)
	}
	return append(errs, Invalid("%v", err))
}
