package changelog

import (
	"context"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// rawLog joins records the way `git log --format=LogFormat` prints them.
func rawLog(records ...string) string {
	var b strings.Builder
	for _, r := range records {
		b.WriteString(r)
		b.WriteString("\n" + LogSentinel + "\n")
	}
	return b.String()
}

func TestParseCommit(t *testing.T) {
	t.Parallel()

	table := DefaultSectionTable()

	tests := map[string]struct {
		block string
		want  Commit
	}{
		"type with component": {
			block: "0123456789abcdef\nfeat(api): add login\n",
			want: Commit{
				Hash:      "0123456789abcdef",
				Type:      SectionFeatures,
				Component: "api",
				Subject:   "add login",
			},
		},
		"component whitespace is trimmed": {
			block: "abc\nfix( core ): null check",
			want: Commit{
				Hash:      "abc",
				Type:      SectionBugFixes,
				Component: "core",
				Subject:   "null check",
			},
		},
		"short alias": {
			block: "abc\nft: shiny",
			want:  Commit{Hash: "abc", Type: SectionFeatures, Subject: "shiny"},
		},
		"unregistered alias falls back to unknown": {
			block: "abc\nchore: update deps",
			want:  Commit{Hash: "abc", Type: SectionUnknown, Subject: "update deps"},
		},
		"alias lookup is case-sensitive": {
			block: "abc\nFeat: shouting",
			want:  Commit{Hash: "abc", Type: SectionUnknown, Subject: "shouting"},
		},
		"non-conventional subject keeps whole line": {
			block: "abc\nMerge branch 'main' into dev",
			want:  Commit{Hash: "abc", Type: SectionUnknown, Subject: "Merge branch 'main' into dev"},
		},
		"missing hash line": {
			block: "\nfeat: no hash",
			want:  Commit{Hash: "", Type: SectionFeatures, Subject: "no hash"},
		},
		"hash only": {
			block: "abc",
			want:  Commit{Hash: "abc", Type: SectionUnknown},
		},
		"closes list in body": {
			block: "abc\nfix: crash\n\nCloses #12, #34\n",
			want: Commit{
				Hash:    "abc",
				Type:    SectionBugFixes,
				Subject: "crash",
				Closes:  []string{"12", "34"},
			},
		},
		"issues collected across lines in first-seen order": {
			block: "abc\nfix: crash\nFixes #1\nsome text\nResolves #2,#3\nCloses #1",
			want: Commit{
				Hash:    "abc",
				Type:    SectionBugFixes,
				Subject: "crash",
				Closes:  []string{"1", "2", "3", "1"},
			},
		},
		"keyword needs whitespace before issue": {
			block: "abc\nfix: crash\nCloses#12",
			want:  Commit{Hash: "abc", Type: SectionBugFixes, Subject: "crash"},
		},
		"breaking change note": {
			block: "abc\nfeat(config): new format\n\nBREAKING CHANGE: old keys are rejected\n",
			want: Commit{
				Hash:      "abc",
				Type:      SectionFeatures,
				Component: "config",
				Subject:   "new format",
				Breaking:  []string{"old keys are rejected"},
			},
		},
		"bare breaking marker uses subject": {
			block: "abc\nfix: drop flag\nBREAKING",
			want: Commit{
				Hash:     "abc",
				Type:     SectionBugFixes,
				Subject:  "drop flag",
				Breaking: []string{"drop flag"},
			},
		},
		"bang marker": {
			block: "abc\nfeat(api)!: remove v1 endpoints",
			want: Commit{
				Hash:      "abc",
				Type:      SectionFeatures,
				Component: "api",
				Subject:   "remove v1 endpoints",
				Breaking:  []string{"remove v1 endpoints"},
			},
		},
		"word starting with BREAKING is not a marker": {
			block: "abc\nfix: typo\nBREAKINGLY obvious",
			want:  Commit{Hash: "abc", Type: SectionBugFixes, Subject: "typo"},
		},
		"carriage returns are stripped": {
			block: "abc\r\nfeat: windows\r\nCloses #9\r",
			want: Commit{
				Hash:    "abc",
				Type:    SectionFeatures,
				Subject: "windows",
				Closes:  []string{"9"},
			},
		},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, ParseCommit(tt.block, table))
		})
	}
}

func TestParseCommit_CustomSection(t *testing.T) {
	t.Parallel()

	table, err := NewSectionTable(map[string][]string{"Performance": {"perf"}})
	require.NoError(t, err)

	got := ParseCommit("abc\nperf(db): faster queries", table)
	assert.Equal(t, "Performance", got.Type)
	assert.Equal(t, "db", got.Component)
	assert.Equal(t, "faster queries", got.Subject)
}

func TestSplitLog(t *testing.T) {
	t.Parallel()

	tests := map[string]struct {
		raw  string
		want []string
	}{
		"empty": {
			raw:  "",
			want: nil,
		},
		"two records": {
			raw:  "h1\nfeat: a\n\n==END==\nh2\nfix: b\nbody\n==END==\n",
			want: []string{"h1\nfeat: a\n", "h2\nfix: b\nbody"},
		},
		"trailing record without sentinel": {
			raw:  "h1\nfeat: a\n==END==\nh2\nfix: b",
			want: []string{"h1\nfeat: a", "h2\nfix: b"},
		},
		"blank records skipped": {
			raw:  "\n==END==\n\n\n==END==\nh1\nfeat: a\n==END==\n",
			want: []string{"h1\nfeat: a"},
		},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, SplitLog(tt.raw))
		})
	}
}

func TestParseLog(t *testing.T) {
	t.Parallel()

	raw := rawLog(
		"h3\nfeat: add login\n",
		"h2\nfix: null check\n\nCloses #12, #34\n",
		"h1\nchore: update deps\n",
	)

	commits := ParseLog(raw, DefaultSectionTable())
	require.Len(t, commits, 3)

	assert.Equal(t, "h3", commits[0].Hash)
	assert.Equal(t, SectionFeatures, commits[0].Type)
	assert.Equal(t, "h2", commits[1].Hash)
	assert.Equal(t, []string{"12", "34"}, commits[1].Closes)
	assert.Equal(t, SectionUnknown, commits[2].Type)
}

func TestParseLogConcurrent_KeepsOrder(t *testing.T) {
	t.Parallel()

	records := make([]string, 200)
	for i := range records {
		records[i] = fmt.Sprintf("%040d\nfeat(c%d): change %d\nCloses #%d", i, i%7, i, i)
	}
	raw := rawLog(records...)
	table := DefaultSectionTable()

	want := ParseLog(raw, table)

	for _, workers := range []int{0, 1, 4, 32} {
		t.Run(fmt.Sprintf("workers=%d", workers), func(t *testing.T) {
			got, err := ParseLogConcurrent(context.Background(), raw, table, workers)
			require.NoError(t, err)
			assert.Equal(t, want, got)
		})
	}
}

func TestParseLogConcurrent_Cancelled(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := ParseLogConcurrent(ctx, rawLog("h1\nfeat: a", "h2\nfix: b"), DefaultSectionTable(), 2)
	require.Error(t, err)
	assert.ErrorIs(t, err, context.Canceled)
}
