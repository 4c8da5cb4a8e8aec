// Package progress provides terminal capability detection and a spinner for
// long-running steps such as reading repository history.
package progress

// TerminalCapabilities describes what the output terminal supports.
type TerminalCapabilities struct {
	IsTTY           bool
	SupportsColor   bool
	SupportsUnicode bool
	Width           int
}

// ProgressSymbols holds the symbols used to report step outcomes.
type ProgressSymbols struct {
	Checkmark  string
	Failure    string
	SpinnerSet int // index into spinner.CharSets
}
