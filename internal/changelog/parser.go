package changelog

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	"golang.org/x/sync/errgroup"
)

// LogSentinel terminates every commit record in a raw log.
const LogSentinel = "==END=="

// LogFormat is the git pretty format producing records ParseLog understands:
// hash line, subject line, body lines, sentinel line.
const LogFormat = "%H%n%s%n%b%n" + LogSentinel

var (
	subjectPattern  = regexp.MustCompile(`^([^\s():!]+)(?:\(([^)]*)\))?(!)?:(.*)$`)
	closesPattern   = regexp.MustCompile(`(?:Closes|Fixes|Resolves)\s+(?:#\d+(?:,\s*)?)+`)
	issuePattern    = regexp.MustCompile(`#(\d+)`)
	breakingPattern = regexp.MustCompile(`^\s*BREAKING(?:[ -]CHANGES?)?\b:?\s*(.*)$`)
)

// ParseCommit turns one raw commit block into a Commit. It never fails: a subject that
// is not "type(component): text" yields an Unknown commit whose subject is the whole line.
func ParseCommit(block string, table *SectionTable) Commit {
	lines := strings.Split(block, "\n")

	commit := Commit{
		Hash: strings.TrimSpace(lines[0]),
		Type: SectionUnknown,
	}

	var subjectLine string
	if len(lines) > 1 {
		subjectLine = strings.TrimRight(lines[1], "\r")
	}

	bang := false
	if m := subjectPattern.FindStringSubmatch(subjectLine); m != nil {
		commit.Type = table.Resolve(m[1])
		commit.Component = strings.TrimSpace(m[2])
		commit.Subject = strings.TrimSpace(m[4])
		bang = m[3] == "!"
	} else {
		commit.Subject = strings.TrimSpace(subjectLine)
	}

	if len(lines) > 2 {
		commit.Closes, commit.Breaking = scanBody(lines[2:], commit.Subject)
	}

	if bang && len(commit.Breaking) == 0 {
		commit.Breaking = []string{commit.Subject}
	}

	return commit
}

// scanBody collects closed issue numbers and breaking-change notes, one line at a time.
func scanBody(lines []string, subject string) (closes, breaking []string) {
	for _, line := range lines {
		line = strings.TrimRight(line, "\r")

		for _, ref := range closesPattern.FindAllString(line, -1) {
			for _, m := range issuePattern.FindAllStringSubmatch(ref, -1) {
				closes = append(closes, m[1])
			}
		}

		if m := breakingPattern.FindStringSubmatch(line); m != nil {
			note := strings.TrimSpace(m[1])
			if note == "" {
				note = subject
			}
			breaking = append(breaking, note)
		}
	}
	return closes, breaking
}

// SplitLog splits a raw log into commit blocks on sentinel lines. Blank blocks are
// skipped; a trailing block without a sentinel is kept.
func SplitLog(raw string) []string {
	var (
		blocks  []string
		current []string
	)

	flush := func() {
		block := strings.Join(current, "\n")
		if strings.TrimSpace(block) != "" {
			blocks = append(blocks, block)
		}
		current = current[:0]
	}

	for _, line := range strings.Split(raw, "\n") {
		if strings.TrimRight(line, "\r") == LogSentinel {
			flush()
			continue
		}
		current = append(current, line)
	}
	flush()

	return blocks
}

// ParseLog parses every record of a raw log, preserving log order.
func ParseLog(raw string, table *SectionTable) []Commit {
	blocks := SplitLog(raw)
	commits := make([]Commit, len(blocks))
	for i, block := range blocks {
		commits[i] = ParseCommit(block, table)
	}
	return commits
}

// ParseLogConcurrent is ParseLog spread over up to workers goroutines. The result keeps
// log order regardless of completion order.
func ParseLogConcurrent(ctx context.Context, raw string, table *SectionTable, workers int) ([]Commit, error) {
	if workers <= 1 {
		return ParseLog(raw, table), nil
	}

	blocks := SplitLog(raw)
	commits := make([]Commit, len(blocks))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)

	for i, block := range blocks {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return fmt.Errorf("parsing commit %d: %w", i, err)
			}
			commits[i] = ParseCommit(block, table)
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return commits, nil
}
