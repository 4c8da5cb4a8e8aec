package config

import (
	"errors"
	"fmt"
	"os"
	"reflect"
	"regexp"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

// ValidationError represents a configuration validation error with context
type ValidationError struct {
	FilePath string
	Line     int
	Column   int
	Message  string
	Field    string
	Err      error // underlying cause, if any
}

func (e *ValidationError) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("%s:%d:%d: %s", e.FilePath, e.Line, e.Column, e.Message)
	}
	if e.Field != "" {
		return fmt.Sprintf("%s: field '%s': %s", e.FilePath, e.Field, e.Message)
	}
	return fmt.Sprintf("%s: %s", e.FilePath, e.Message)
}

func (e *ValidationError) Unwrap() error {
	return e.Err
}

// structValidator reports fields by their koanf key so messages match the file.
var structValidator = func() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("koanf"), ",")
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}()

var yamlLinePattern = regexp.MustCompile(`^yaml: line (\d+):\s*`)

// ValidateYAMLSyntax parses a YAML config file before koanf does, so syntax errors carry
// the file and line. A missing or blank file is accepted.
func ValidateYAMLSyntax(filePath string) error {
	data, err := os.ReadFile(filePath)
	if errors.Is(err, os.ErrNotExist) {
		return nil
	}
	if err != nil {
		return &ValidationError{FilePath: filePath, Message: err.Error(), Err: err}
	}
	if strings.TrimSpace(string(data)) == "" {
		return nil
	}

	var node yaml.Node
	err = yaml.Unmarshal(data, &node)
	if err == nil {
		return nil
	}

	var typeErr *yaml.TypeError
	if errors.As(err, &typeErr) {
		return &ValidationError{FilePath: filePath, Message: strings.Join(typeErr.Errors, "; "), Err: err}
	}

	verr := &ValidationError{FilePath: filePath, Message: err.Error(), Err: err}
	if m := yamlLinePattern.FindStringSubmatch(err.Error()); m != nil {
		verr.Line, _ = strconv.Atoi(m[1])
		verr.Column = 1
		verr.Message = strings.TrimPrefix(err.Error(), m[0])
	}
	return verr
}

// ValidateConfigValues checks struct constraints, the link style name and the range
// options of a merged configuration.
func ValidateConfigValues(cfg *Configuration, filePath string) error {
	if err := structValidator.Struct(cfg); err != nil {
		var fieldErrs validator.ValidationErrors
		if errors.As(err, &fieldErrs) && len(fieldErrs) > 0 {
			return &ValidationError{
				FilePath: filePath,
				Field:    fieldErrs[0].Field(),
				Message:  describeFieldError(fieldErrs[0]),
			}
		}
		return &ValidationError{FilePath: filePath, Message: err.Error(), Err: err}
	}

	// Custom styles are registered before the name is checked.
	if _, err := cfg.LinkStyle(); err != nil {
		return &ValidationError{FilePath: filePath, Field: "link-style", Message: err.Error(), Err: err}
	}

	if cfg.Clog.From != "" && cfg.Clog.FromLatestTag {
		return &ValidationError{FilePath: filePath, Field: "from", Message: "cannot be combined with from-latest-tag"}
	}
	return nil
}

func describeFieldError(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "min":
		return "must be at least " + fe.Param()
	case "max":
		return "must be at most " + fe.Param()
	case "oneof":
		return "must be one of: " + strings.ReplaceAll(fe.Param(), " ", ", ")
	case "url":
		return "must be a valid URL"
	}
	return "failed validation: " + fe.Tag()
}
