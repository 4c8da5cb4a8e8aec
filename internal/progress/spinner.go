package progress

import (
	"fmt"
	"io"
	"time"

	"github.com/briandowns/spinner"
)

// Spinner shows activity for one step and reports its outcome. On terminals
// without TTY support it prints the outcome line only.
type Spinner struct {
	w       io.Writer
	caps    TerminalCapabilities
	symbols ProgressSymbols
	spin    *spinner.Spinner
	message string
}

// NewSpinner returns a spinner writing to w according to caps.
func NewSpinner(w io.Writer, caps TerminalCapabilities) *Spinner {
	return &Spinner{w: w, caps: caps, symbols: SelectSymbols(caps)}
}

// Start begins spinning with message.
func (s *Spinner) Start(message string) {
	s.message = message
	if !s.caps.IsTTY {
		return
	}

	s.spin = spinner.New(spinner.CharSets[s.symbols.SpinnerSet], 100*time.Millisecond, spinner.WithWriter(s.w))
	s.spin.Suffix = " " + message
	if !s.caps.SupportsColor {
		s.spin.Color("reset")
	}
	s.spin.Start()
}

// Success stops the spinner and prints a success line with detail.
func (s *Spinner) Success(detail string) {
	s.finish(s.symbols.Checkmark, detail)
}

// Fail stops the spinner and prints a failure line.
func (s *Spinner) Fail(err error) {
	s.finish(s.symbols.Failure, err.Error())
}

func (s *Spinner) finish(symbol, detail string) {
	if s.spin != nil {
		s.spin.Stop()
		s.spin = nil
	}
	if detail != "" {
		fmt.Fprintf(s.w, "%s %s (%s)\n", symbol, s.message, detail)
		return
	}
	fmt.Fprintf(s.w, "%s %s\n", symbol, s.message)
}
