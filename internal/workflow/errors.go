package workflow

import "fmt"

// FileError reports a failure reading the prior changelog or writing the new one.
type FileError struct {
	Op   string // "read" or "write"
	Path string // The file involved
	Err  error  // Underlying error
}

// Error returns a human-readable error message with the file path
func (e *FileError) Error() string {
	return fmt.Sprintf("%s %s: %v", e.Op, e.Path, e.Err)
}

// Unwrap returns the underlying error for errors.Is/As compatibility
func (e *FileError) Unwrap() error {
	return e.Err
}

// ConfigError reports configuration that is well-formed but unusable, such as an
// unknown link style or an alias claimed by two sections.
type ConfigError struct {
	Err error
}

func (e *ConfigError) Error() string {
	return e.Err.Error()
}

func (e *ConfigError) Unwrap() error {
	return e.Err
}
