package changelog

import (
	"bytes"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var releaseDate = time.Date(2026, 10, 16, 12, 0, 0, 0, time.UTC)

func githubStyle(t *testing.T) LinkStyle {
	t.Helper()
	style, err := DefaultLinkStyles().Lookup(LinkStyleGitHub)
	require.NoError(t, err)
	return style
}

func sampleChangelog() *Changelog {
	return &Changelog{Sections: []Section{
		{
			Name: SectionFeatures,
			Components: []Component{
				{Commits: []Commit{{Hash: "0123456789abcdef", Subject: "add login", Closes: []string{"12", "12", "34"}}}},
				{Name: "api", Commits: []Commit{
					{Hash: "aaaaaaaaaaaaaaaa", Subject: "pagination"},
					{Hash: "bbbbbbbbbbbbbbbb", Subject: "filters"},
				}},
			},
		},
		{
			Name: SectionBugFixes,
			Components: []Component{
				{Name: "core", Commits: []Commit{{Hash: "cccccccccccccccc", Subject: "null check"}}},
			},
		},
	}}
}

func TestRender_WithoutRepository(t *testing.T) {
	t.Parallel()

	cfg := RenderConfig{
		Version:   "v1.2.0",
		Date:      releaseDate,
		LinkStyle: githubStyle(t),
	}

	want := `<a name="v1.2.0"></a>
## v1.2.0 (2026-10-16)


#### Features

* add login (01234567, closes #12, #34)
* **api:**
  * pagination (aaaaaaaa)
  * filters (bbbbbbbb)

#### Bug Fixes

* **core:** null check (cccccccc)
`
	assert.Equal(t, want, Render(cfg, sampleChangelog(), ""))
}

func TestRender_GitHubLinks(t *testing.T) {
	t.Parallel()

	cfg := RenderConfig{
		Version:    "v1.2.0",
		Subtitle:   "Crazy Release Title",
		Date:       releaseDate,
		Repository: "https://github.com/owner/repo",
		LinkStyle:  githubStyle(t),
		From:       "v1.1.0",
		To:         "HEAD",
	}

	out := Render(cfg, sampleChangelog(), "")

	for _, expected := range []string{
		`<a name="v1.2.0"></a>`,
		"## [v1.2.0](https://github.com/owner/repo/compare/v1.1.0...HEAD) Crazy Release Title (2026-10-16)",
		"* add login ([01234567](https://github.com/owner/repo/commit/0123456789abcdef), closes " +
			"[#12](https://github.com/owner/repo/issues/12), [#34](https://github.com/owner/repo/issues/34))",
		"  * pagination ([aaaaaaaa](https://github.com/owner/repo/commit/aaaaaaaaaaaaaaaa))",
		"* **core:** null check ([cccccccc](https://github.com/owner/repo/commit/cccccccccccccccc))",
	} {
		assert.Contains(t, out, expected)
	}
}

func TestRender_HeaderVariants(t *testing.T) {
	t.Parallel()

	tests := map[string]struct {
		cfg      RenderConfig
		contains string
	}{
		"patch release uses lower heading": {
			cfg:      RenderConfig{Version: "1.0.1", Patch: true, Date: releaseDate},
			contains: "<a name=\"1.0.1\"></a>\n### 1.0.1 (2026-10-16)\n",
		},
		"missing date": {
			cfg:      RenderConfig{Version: "1.0.0"},
			contains: "## 1.0.0 (XXXX-XX-XX)",
		},
		"no compare link without from": {
			cfg: RenderConfig{
				Version:    "1.0.0",
				Date:       releaseDate,
				Repository: "https://github.com/owner/repo",
				To:         "HEAD",
			},
			contains: "## 1.0.0 (2026-10-16)",
		},
		"subtitle without link": {
			cfg:      RenderConfig{Version: "1.0.0", Subtitle: "Tada", Date: releaseDate},
			contains: "## 1.0.0 Tada (2026-10-16)",
		},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			t.Parallel()
			assert.Contains(t, Render(tt.cfg, nil, ""), tt.contains)
		})
	}
}

func TestRender_StashHasNoIssueLinks(t *testing.T) {
	t.Parallel()

	style, err := DefaultLinkStyles().Lookup(LinkStyleStash)
	require.NoError(t, err)

	cfg := RenderConfig{Version: "1.0.0", Date: releaseDate, Repository: "https://stash.example.com/repo", LinkStyle: style}
	out := Render(cfg, sampleChangelog(), "")

	assert.Contains(t, out, "[01234567](https://stash.example.com/repo/commits/0123456789abcdef), closes #12, #34)")
}

func TestRender_EmptySectionsSkipped(t *testing.T) {
	t.Parallel()

	cl := &Changelog{Sections: []Section{{Name: "Docs"}}}
	out := Render(RenderConfig{Version: "1.0.0", Date: releaseDate}, cl, "")
	assert.NotContains(t, out, "#### Docs")
}

func TestRender_PrependsToPriorContent(t *testing.T) {
	t.Parallel()

	cfg := RenderConfig{Version: "v1.0.0", Date: releaseDate, LinkStyle: githubStyle(t)}
	first := Render(cfg, sampleChangelog(), "")

	cfg.Version = "v1.1.0"
	second := Render(cfg, sampleChangelog(), first)

	assert.True(t, strings.HasSuffix(second, first), "prior content must be kept verbatim as suffix")
	assert.True(t, strings.HasPrefix(second, `<a name="v1.1.0"></a>`))
	assert.Equal(t, len(first)*2, len(second))
}

func TestRender_IsDeterministic(t *testing.T) {
	t.Parallel()

	cfg := RenderConfig{Version: "v1.0.0", Date: releaseDate, Repository: "https://github.com/o/r", LinkStyle: githubStyle(t)}
	first := Render(cfg, sampleChangelog(), "old")
	for i := 0; i < 10; i++ {
		assert.Equal(t, first, Render(cfg, sampleChangelog(), "old"))
	}
}

type failingWriter struct{}

func (failingWriter) Write([]byte) (int, error) { return 0, errors.New("disk full") }

func TestWriteMarkdown_PropagatesWriteErrors(t *testing.T) {
	t.Parallel()

	err := WriteMarkdown(failingWriter{}, RenderConfig{Version: "1.0.0"}, sampleChangelog())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "rendering header")
}

func TestWriteMarkdown_MatchesRender(t *testing.T) {
	t.Parallel()

	cfg := RenderConfig{Version: "1.0.0", Date: releaseDate}
	var buf bytes.Buffer
	require.NoError(t, WriteMarkdown(&buf, cfg, sampleChangelog()))
	assert.Equal(t, Render(cfg, sampleChangelog(), ""), buf.String())
}
