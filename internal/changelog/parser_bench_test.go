package changelog

import (
	"context"
	"fmt"
	"strings"
	"testing"
)

// generateLargeLog creates a raw log with the given number of commit records,
// cycling through section aliases, components and issue references.
func generateLargeLog(commitCount int) string {
	aliases := []string{"feat", "fix", "ft", "fx", "chore", "docs"}
	components := []string{"", "api", "core", "cli", "ui"}

	var b strings.Builder
	for i := commitCount; i >= 1; i-- {
		fmt.Fprintf(&b, "%040x\n", i)

		alias := aliases[i%len(aliases)]
		if comp := components[i%len(components)]; comp != "" {
			fmt.Fprintf(&b, "%s(%s): change number %d with some description text\n", alias, comp, i)
		} else {
			fmt.Fprintf(&b, "%s: change number %d with some description text\n", alias, i)
		}

		b.WriteString("\nLonger body explaining the change in more detail.\n")
		if i%3 == 0 {
			fmt.Fprintf(&b, "Closes #%d, #%d\n", i, i+1)
		}
		if i%50 == 0 {
			b.WriteString("BREAKING CHANGE: behaviour changed\n")
		}
		b.WriteString(LogSentinel + "\n")
	}
	return b.String()
}

func BenchmarkParseLog_1000Commits(b *testing.B) {
	raw := generateLargeLog(1000)
	table := DefaultSectionTable()

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if got := ParseLog(raw, table); len(got) != 1000 {
			b.Fatalf("parsed %d commits, want 1000", len(got))
		}
	}
}

func BenchmarkParseLogConcurrent_1000Commits(b *testing.B) {
	raw := generateLargeLog(1000)
	table := DefaultSectionTable()
	ctx := context.Background()

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		got, err := ParseLogConcurrent(ctx, raw, table, 8)
		if err != nil {
			b.Fatalf("unexpected error: %v", err)
		}
		if len(got) != 1000 {
			b.Fatalf("parsed %d commits, want 1000", len(got))
		}
	}
}

func BenchmarkAggregateAndRender_1000Commits(b *testing.B) {
	table := DefaultSectionTable()
	commits := ParseLog(generateLargeLog(1000), table)
	style, err := DefaultLinkStyles().Lookup(LinkStyleGitHub)
	if err != nil {
		b.Fatalf("lookup: %v", err)
	}
	cfg := RenderConfig{Version: "v1.0.0", Repository: "https://github.com/o/r", LinkStyle: style}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		cl := Aggregate(commits, table, BreakingBoth)
		_ = Render(cfg, cl, "")
	}
}

func TestGenerateLargeLog_ParsesEveryRecord(t *testing.T) {
	t.Parallel()

	commits := ParseLog(generateLargeLog(120), DefaultSectionTable())
	if len(commits) != 120 {
		t.Fatalf("parsed %d commits, want 120", len(commits))
	}

	breaking := 0
	for _, c := range commits {
		if c.IsBreaking() {
			breaking++
		}
	}
	if breaking != 2 {
		t.Errorf("found %d breaking commits, want 2", breaking)
	}
}
