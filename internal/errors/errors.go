// Package errors provides structured error handling for the clog CLI.
// It includes categorized errors with actionable remediation guidance.
package errors

import (
	"errors"
	"fmt"
)

// ErrorCategory represents the type of error that occurred.
type ErrorCategory int

const (
	// Argument errors are caused by invalid or conflicting flags.
	Argument ErrorCategory = iota
	// Configuration errors are caused by unreadable or invalid configuration.
	Configuration
	// Prerequisite errors occur when the working directory is not a repository.
	Prerequisite
	// Version errors occur when the release version cannot be computed.
	Version
	// Runtime errors cover history reading and changelog file access.
	Runtime
)

var categoryNames = map[ErrorCategory]string{
	Argument:      "Argument Error",
	Configuration: "Configuration Error",
	Prerequisite:  "Prerequisite Error",
	Version:       "Version Error",
	Runtime:       "Runtime Error",
}

// String returns a human-readable name for the error category.
func (c ErrorCategory) String() string {
	if name, ok := categoryNames[c]; ok {
		return name
	}
	return "Error"
}

// CLIError is a structured error with category and remediation guidance.
type CLIError struct {
	Category ErrorCategory
	Message  string
	// Remediation lists the steps printed under "To fix this:".
	Remediation []string
	// Usage is the correct command syntax, shown for argument errors.
	Usage string
	Err   error
}

func (e *CLIError) Error() string {
	return e.Message
}

func (e *CLIError) Unwrap() error {
	return e.Err
}

// New creates a CLIError without an underlying cause.
func New(category ErrorCategory, message string, remediation ...string) *CLIError {
	return &CLIError{Category: category, Message: message, Remediation: remediation}
}

// NewArgumentError creates a new argument error with the given message and remediation steps.
func NewArgumentError(message string, remediation ...string) *CLIError {
	return New(Argument, message, remediation...)
}

// NewArgumentErrorWithUsage creates an argument error that includes correct usage syntax.
func NewArgumentErrorWithUsage(message, usage string, remediation ...string) *CLIError {
	cliErr := New(Argument, message, remediation...)
	cliErr.Usage = usage
	return cliErr
}

// Wrap wraps err in a CLIError, keeping its message. A nil err gives nil.
func Wrap(err error, category ErrorCategory, remediation ...string) *CLIError {
	if err == nil {
		return nil
	}
	cliErr := New(category, err.Error(), remediation...)
	cliErr.Err = err
	return cliErr
}

// WrapWithMessage wraps err in a CLIError whose message is "message: err".
func WrapWithMessage(err error, category ErrorCategory, message string, remediation ...string) *CLIError {
	if err == nil {
		return nil
	}
	cliErr := New(category, fmt.Sprintf("%s: %v", message, err), remediation...)
	cliErr.Err = err
	return cliErr
}

// AsCLIError returns the first CLIError in err's chain, or nil.
func AsCLIError(err error) *CLIError {
	var cliErr *CLIError
	if errors.As(err, &cliErr) {
		return cliErr
	}
	return nil
}
