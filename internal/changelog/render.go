package changelog

import (
	"fmt"
	"io"
	"strings"
	"time"
)

// RenderConfig carries the release metadata consumed by the document writer.
type RenderConfig struct {
	Version    string
	Subtitle   string
	Date       time.Time
	Patch      bool // patch releases get a lower-level heading
	Repository string
	LinkStyle  LinkStyle
	From       string
	To         string
}

// Render returns the generated block for cl followed verbatim by prior. Running it
// again with its own output as prior keeps that output intact as the suffix.
func Render(cfg RenderConfig, cl *Changelog, prior string) string {
	var b strings.Builder
	// strings.Builder writes cannot fail.
	_ = WriteMarkdown(&b, cfg, cl)
	b.WriteString(prior)
	return b.String()
}

// WriteMarkdown writes the header and every section of cl as markdown.
func WriteMarkdown(w io.Writer, cfg RenderConfig, cl *Changelog) error {
	if err := writeHeader(w, cfg); err != nil {
		return fmt.Errorf("rendering header: %w", err)
	}

	if cl == nil {
		return nil
	}

	for _, s := range cl.Sections {
		if err := writeSection(w, cfg, s); err != nil {
			return fmt.Errorf("rendering section %s: %w", s.Name, err)
		}
	}
	return nil
}

// writeHeader writes the version anchor and heading.
func writeHeader(w io.Writer, cfg RenderConfig) error {
	level := "##"
	if cfg.Patch {
		level = "###"
	}

	title := cfg.Version
	if link := cfg.LinkStyle.CompareURL(cfg.Repository, cfg.From, cfg.To); link != "" {
		title = fmt.Sprintf("[%s](%s)", cfg.Version, link)
	}
	if cfg.Subtitle != "" {
		title += " " + cfg.Subtitle
	}

	date := "XXXX-XX-XX"
	if !cfg.Date.IsZero() {
		date = cfg.Date.Format("2006-01-02")
	}

	_, err := fmt.Fprintf(w, "<a name=\"%s\"></a>\n%s %s (%s)\n\n", cfg.Version, level, title, date)
	return err
}

// writeSection writes one section with its component groups.
func writeSection(w io.Writer, cfg RenderConfig, s Section) error {
	if s.Count() == 0 {
		return nil
	}

	if _, err := fmt.Fprintf(w, "\n#### %s\n\n", s.Name); err != nil {
		return err
	}

	for _, comp := range s.Components {
		prefix := "*"
		switch {
		case comp.Name != "" && len(comp.Commits) > 1:
			if _, err := fmt.Fprintf(w, "* **%s:**\n", comp.Name); err != nil {
				return err
			}
			prefix = "  *"
		case comp.Name != "":
			prefix = fmt.Sprintf("* **%s:**", comp.Name)
		}

		for _, c := range comp.Commits {
			if _, err := fmt.Fprintf(w, "%s %s\n", prefix, formatEntry(cfg, c)); err != nil {
				return err
			}
		}
	}
	return nil
}

// formatEntry renders "subject (commit, closes #1, #2)".
func formatEntry(cfg RenderConfig, c Commit) string {
	var b strings.Builder
	b.WriteString(c.Subject)
	b.WriteString(" (")
	b.WriteString(commitLink(cfg, c))

	if issues := dedupe(c.Closes); len(issues) > 0 {
		links := make([]string, len(issues))
		for i, issue := range issues {
			links[i] = issueLink(cfg, issue)
		}
		b.WriteString(", closes ")
		b.WriteString(strings.Join(links, ", "))
	}

	b.WriteString(")")
	return b.String()
}

func commitLink(cfg RenderConfig, c Commit) string {
	url := cfg.LinkStyle.CommitURL(cfg.Repository, c.Hash)
	if url == "" {
		return c.ShortHash()
	}
	return fmt.Sprintf("[%s](%s)", c.ShortHash(), url)
}

func issueLink(cfg RenderConfig, issue string) string {
	url := cfg.LinkStyle.IssueURL(cfg.Repository, issue)
	if url == "" {
		return "#" + issue
	}
	return fmt.Sprintf("[#%s](%s)", issue, url)
}

// dedupe drops repeated values, keeping first-seen order.
func dedupe(values []string) []string {
	seen := make(map[string]bool, len(values))
	out := make([]string, 0, len(values))
	for _, v := range values {
		if seen[v] {
			continue
		}
		seen[v] = true
		out = append(out, v)
	}
	return out
}
