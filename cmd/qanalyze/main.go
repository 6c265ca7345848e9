package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/noperator/qanalyze/pkg/analyzer"
)

// exitCodeError carries a process exit status out of the root command.
type exitCodeError struct {
	code int
}

func (e *exitCodeError) Error() string {
	return fmt.Sprintf("analyzer exited with status %d", e.code)
}

func main() {
	err := rootCmd.Execute()
	if err == nil {
		return
	}

	var exitErr *exitCodeError
	if errors.As(err, &exitErr) {
		os.Exit(exitErr.code)
	}

	// Runner failures were already reported on the console.
	var aerr *analyzer.Error
	if errors.As(err, &aerr) {
		os.Exit(exitCode(aerr.Kind))
	}

	fmt.Fprintf(os.Stderr, "Error: %v\n", err)
	os.Exit(1)
}

// strictExitCode maps the analyzer's status onto a valid process exit code.
// A process killed by a signal reports -1.
func strictExitCode(code int) int {
	if code < 1 || code > 255 {
		return 1
	}
	return code
}

func exitCode(kind analyzer.ErrorKind) int {
	switch kind {
	case analyzer.KindInvalidTarget:
		return 2
	case analyzer.KindAnalyzerNotFound:
		return 127
	default:
		return 1
	}
}
