// Package shared provides constants and types used across CLI subpackages.
package shared

import (
	"errors"
	"fmt"
)

// Exit codes for the clog CLI.
// These codes let scripts and CI jobs tell failure kinds apart.
const (
	// ExitSuccess indicates successful command execution
	ExitSuccess = 0

	// ExitFailure indicates a runtime failure (I/O, history walk)
	ExitFailure = 1

	// ExitInvalidArguments indicates invalid command arguments
	ExitInvalidArguments = 3

	// ExitMissingDependency indicates the working directory is not inside a repository
	ExitMissingDependency = 4

	// ExitConfigError indicates an unreadable or invalid configuration
	ExitConfigError = 6

	// ExitVersionError indicates the release version could not be computed
	ExitVersionError = 7
)

// Command group IDs for help output.
const (
	GroupGenerate      = "generate"
	GroupInspect       = "inspect"
	GroupConfiguration = "configuration"
	GroupInternal      = "internal"
)

// ExitError carries a process exit code through cobra's error return.
type ExitError struct {
	Code int
}

func (e *ExitError) Error() string {
	return fmt.Sprintf("exit code %d", e.Code)
}

// NewExitError returns an error that makes the process exit with code.
func NewExitError(code int) error {
	return &ExitError{Code: code}
}

// ExitCode maps err to a process exit code: nil is success, an ExitError anywhere
// in the chain gives its code, anything else is a generic failure.
func ExitCode(err error) int {
	if err == nil {
		return ExitSuccess
	}
	var exitErr *ExitError
	if errors.As(err, &exitErr) {
		return exitErr.Code
	}
	return ExitFailure
}
