package errors

import (
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
)

// palette colours the parts of a formatted error. The plain palette leaves text as is.
type palette struct {
	label, category, message, usage, fix, bullet func(a ...interface{}) string
}

var (
	colored = palette{
		label:    color.New(color.FgRed, color.Bold).SprintFunc(),
		category: color.New(color.FgYellow).SprintFunc(),
		message:  color.New(color.FgRed).SprintFunc(),
		usage:    color.New(color.FgCyan).SprintFunc(),
		fix:      color.New(color.FgGreen, color.Bold).SprintFunc(),
		bullet:   color.New(color.FgGreen).SprintFunc(),
	}
	plain = palette{
		label: fmt.Sprint, category: fmt.Sprint, message: fmt.Sprint,
		usage: fmt.Sprint, fix: fmt.Sprint, bullet: fmt.Sprint,
	}
)

// FormatError formats a CLIError for the terminal. fatih/color drops the escape codes
// when stderr is not a terminal or NO_COLOR is set.
func FormatError(err *CLIError) string {
	return format(err, colored)
}

// FormatErrorPlain formats a CLIError without colors.
func FormatErrorPlain(err *CLIError) string {
	return format(err, plain)
}

// FprintError prints a formatted CLIError to w.
func FprintError(w io.Writer, err *CLIError) {
	fmt.Fprint(w, FormatError(err))
}

func format(err *CLIError, p palette) string {
	if err == nil {
		return ""
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "%s [%s]: %s\n", p.label("Error"), p.category(err.Category.String()), p.message(err.Message))

	if err.Usage != "" {
		fmt.Fprintf(&sb, "\n%s %s\n", p.usage("Usage:"), p.usage(err.Usage))
	}

	if len(err.Remediation) > 0 {
		fmt.Fprintf(&sb, "\n%s\n", p.fix("To fix this:"))
		for _, step := range err.Remediation {
			fmt.Fprintf(&sb, "  %s %s\n", p.bullet("•"), step)
		}
	}
	return sb.String()
}
