package changelog

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/fatih/color"
	"golang.org/x/term"
)

// SectionStyle defines the color and icon for a changelog section.
type SectionStyle struct {
	Color *color.Color
	Icon  string
}

// sectionStyles maps built-in sections to their terminal styling.
var sectionStyles = map[string]SectionStyle{
	SectionBreaking: {Color: color.New(color.FgRed, color.Bold), Icon: "!"},
	SectionFeatures: {Color: color.New(color.FgGreen), Icon: "✓"},
	SectionBugFixes: {Color: color.New(color.FgYellow), Icon: "⚡"},
}

// defaultSectionStyle styles user-defined sections.
var defaultSectionStyle = SectionStyle{Color: color.New(color.FgBlue), Icon: "~"}

// FormatOptions controls the terminal output formatting.
type FormatOptions struct {
	Plain    bool // Disable colors and icons
	MaxWidth int  // Maximum line width (0 = auto-detect)
}

// FormatTerminal writes the aggregated sections with terminal styling. Entries show
// the short hash instead of links.
func FormatTerminal(cl *Changelog, w io.Writer, opts FormatOptions) error {
	if cl.IsEmpty() {
		_, err := fmt.Fprintln(w, "No changelog entries found.")
		return err
	}

	width := resolveWidth(opts.MaxWidth)

	for i, s := range cl.Sections {
		if i > 0 {
			if _, err := fmt.Fprintln(w); err != nil {
				return err
			}
		}
		if err := writeSectionPreview(s, w, opts, width); err != nil {
			return fmt.Errorf("formatting section %s: %w", s.Name, err)
		}
	}
	return nil
}

func styleFor(section string) SectionStyle {
	if style, ok := sectionStyles[section]; ok {
		return style
	}
	return defaultSectionStyle
}

// writeSectionPreview writes one section header followed by its entries.
func writeSectionPreview(s Section, w io.Writer, opts FormatOptions, width int) error {
	style := styleFor(s.Name)

	if opts.Plain {
		if _, err := fmt.Fprintf(w, "### %s (%d)\n", s.Name, s.Count()); err != nil {
			return err
		}
	} else {
		colored := style.Color.SprintFunc()
		if _, err := fmt.Fprintf(w, "%s %s (%d)\n", colored(style.Icon), colored(s.Name), s.Count()); err != nil {
			return err
		}
	}

	for _, comp := range s.Components {
		for _, c := range comp.Commits {
			if err := writePreviewEntry(comp.Name, c, style, w, opts, width); err != nil {
				return err
			}
		}
	}
	return nil
}

// writePreviewEntry writes a single entry with optional wrapping.
func writePreviewEntry(component string, c Commit, style SectionStyle, w io.Writer, opts FormatOptions, width int) error {
	prefix := "  - "
	text := c.Subject
	if component != "" {
		text = component + ": " + text
	}

	if opts.Plain {
		_, err := fmt.Fprintf(w, "%s%s %s\n", prefix, c.ShortHash(), text)
		return err
	}

	dim := color.New(color.Faint).SprintFunc()
	hash := c.ShortHash()
	wrapped := wrapText(text, width-len(prefix)-len(hash)-1, strings.Repeat(" ", len(prefix)+len(hash)+1))

	colored := style.Color.SprintFunc()
	_, err := fmt.Fprintf(w, "%s%s %s\n", prefix, dim(hash), colored(wrapped))
	return err
}

// resolveWidth determines the terminal width to use.
func resolveWidth(maxWidth int) int {
	if maxWidth > 0 {
		return maxWidth
	}
	if w, _, err := term.GetSize(int(os.Stdout.Fd())); err == nil && w > 0 {
		return w
	}
	return 80
}

// wrapText wraps text to fit within maxWidth, using indent for continuation lines.
func wrapText(text string, maxWidth int, indent string) string {
	if maxWidth <= 0 || len(text) <= maxWidth {
		return text
	}

	var lines []string
	remaining := text

	for len(remaining) > maxWidth {
		breakPoint := maxWidth
		for i := maxWidth - 1; i > 0; i-- {
			if remaining[i] == ' ' {
				breakPoint = i
				break
			}
		}

		lines = append(lines, remaining[:breakPoint])
		remaining = strings.TrimLeft(remaining[breakPoint:], " ")
	}

	if len(remaining) > 0 {
		lines = append(lines, remaining)
	}

	return strings.Join(lines, "\n"+indent)
}
