package main

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/specialistvlad/cecplan/internal/cli"
)

// main is the entrypoint for the cecplan application.
func main() {
	// The real main function handles errors and exit codes.
	if err := run(os.Stdout, os.Stderr, os.Args[1:]); err != nil {
		var exitErr *cli.ExitError
		if errors.As(err, &exitErr) {
			os.Exit(exitErr.Code)
		}
		fmt.Fprintln(os.Stderr, err)
		os.Exit(cli.ExitFailure)
	}
}

// run encapsulates the main application logic for easier testing and error
// handling. Diagnostics have already been written to errW when it returns.
func run(outW, errW io.Writer, args []string) (err error) {
	// A contract violation while lowering panics; report it as a failure
	// instead of a crash.
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("internal compiler error: %v", r)
		}
	}()

	return cli.Execute(args, outW, errW)
}
