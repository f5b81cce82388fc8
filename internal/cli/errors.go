package cli

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"

	"github.com/specialistvlad/cecplan/internal/app"
	"github.com/specialistvlad/cecplan/internal/validate"
)

// Exit codes.
const (
	ExitFailure = 1
	ExitUsage   = 2
)

// ExitError is a custom error type that includes a specific exit code.
type ExitError struct {
	Code    int
	Message string
}

// Error implements the error interface for ExitError.
func (e *ExitError) Error() string {
	return e.Message
}

func usageError(format string, args ...any) *ExitError {
	return &ExitError{Code: ExitUsage, Message: fmt.Sprintf(format, args...)}
}

// diagnostic is one reportable failure.
type diagnostic struct {
	file       string
	path       string
	message    string
	generation int
}

// diagnostics flattens err into its individual failures, keeping the file
// each came from.
func diagnostics(err error, file string) []diagnostic {
	switch e := err.(type) {
	case *app.FileError:
		return diagnostics(e.Err, e.Filename)
	case validate.Errors:
		var out []diagnostic
		for _, one := range e {
			out = append(out, diagnostics(one, file)...)
		}
		return out
	case *validate.Error:
		d := diagnostic{file: file, message: e.Message, generation: e.Generation}
		if e.Path != nil {
			d.path = e.Path.String()
		}
		return []diagnostic{d}
	case interface{ Unwrap() []error }:
		var out []diagnostic
		for _, inner := range e.Unwrap() {
			out = append(out, diagnostics(inner, file)...)
		}
		return out
	}
	return []diagnostic{{file: file, message: err.Error()}}
}

// writeDiagnostics prints every failure in err on its own line and
// returns the number printed.
func writeDiagnostics(w io.Writer, err error) int {
	label := color.New(color.FgRed, color.Bold).SprintFunc()
	where := color.New(color.Bold).SprintFunc()
	faint := color.New(color.Faint).SprintFunc()

	diags := diagnostics(err, "")
	for _, d := range diags {
		line := label("error:") + " "
		if d.file != "" {
			line += where(d.file) + ": "
		}
		if d.path != "" {
			line += where(d.path) + ": "
		}
		line += d.message
		if d.generation > 0 {
			line += " " + faint(fmt.Sprintf("(schema generation %d)", d.generation))
		}
		fmt.Fprintln(w, line)
	}
	return len(diags)
}

// exitError reports err on w and converts it into an ExitError.
func exitError(w io.Writer, err error) error {
	var exitErr *ExitError
	if strings.HasPrefix(err.Error(), "unknown command") {
		exitErr = usageError("%v", err)
	}
	if exitErr != nil || errors.As(err, &exitErr) {
		fmt.Fprintln(w, color.New(color.FgRed, color.Bold).Sprint("error:"), exitErr.Message)
		return exitErr
	}
	n := writeDiagnostics(w, err)
	msg := "command failed"
	if errors.Is(err, validate.ErrInvalid) {
		msg = fmt.Sprintf("configuration is invalid (%d problems)", n)
		if n == 1 {
			msg = "configuration is invalid (1 problem)"
		}
	}
	return &ExitError{Code: ExitFailure, Message: msg}
}
