package changelog

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testRepo = "https://example.com/owner/repo"

func TestLinkStyles_BuiltinTemplates(t *testing.T) {
	t.Parallel()

	tests := map[string]struct {
		style       string
		wantCommit  string
		wantIssue   string
		wantCompare string
	}{
		"github": {
			style:       LinkStyleGitHub,
			wantCommit:  testRepo + "/commit/abc123",
			wantIssue:   testRepo + "/issues/42",
			wantCompare: testRepo + "/compare/v1.0.0...v1.1.0",
		},
		"gitlab": {
			style:       LinkStyleGitLab,
			wantCommit:  testRepo + "/commit/abc123",
			wantIssue:   testRepo + "/issues/42",
			wantCompare: testRepo + "/compare/v1.0.0...v1.1.0",
		},
		"stash": {
			style:       LinkStyleStash,
			wantCommit:  testRepo + "/commits/abc123",
			wantIssue:   "",
			wantCompare: testRepo + "/compare/commits?targetBranch=v1.0.0&sourceBranch=v1.1.0",
		},
		"cgit": {
			style:       LinkStyleCgit,
			wantCommit:  testRepo + "/commit/?id=abc123",
			wantIssue:   "",
			wantCompare: testRepo + "/diff/?id=v1.1.0&id2=v1.0.0",
		},
	}

	styles := DefaultLinkStyles()
	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			style, err := styles.Lookup(tt.style)
			require.NoError(t, err)
			assert.Equal(t, tt.wantCommit, style.CommitURL(testRepo, "abc123"))
			assert.Equal(t, tt.wantIssue, style.IssueURL(testRepo, "42"))
			assert.Equal(t, tt.wantCompare, style.CompareURL(testRepo, "v1.0.0", "v1.1.0"))
		})
	}
}

func TestLinkStyle_NoRepository(t *testing.T) {
	t.Parallel()

	style, err := DefaultLinkStyles().Lookup(LinkStyleGitHub)
	require.NoError(t, err)

	assert.Empty(t, style.CommitURL("", "abc"))
	assert.Empty(t, style.IssueURL("", "1"))
	assert.Empty(t, style.CompareURL("", "a", "b"))
	assert.Empty(t, style.CompareURL(testRepo, "", "b"))
}

func TestLinkStyle_TrailingSlash(t *testing.T) {
	t.Parallel()

	style, err := DefaultLinkStyles().Lookup("GitHub")
	require.NoError(t, err)
	assert.Equal(t, testRepo+"/commit/abc", style.CommitURL(testRepo+"/", "abc"))
}

func TestLinkStyles_Register(t *testing.T) {
	t.Parallel()

	styles := DefaultLinkStyles()
	before := make(map[string]string)
	for _, name := range styles.Names() {
		s, _ := styles.Lookup(name)
		before[name] = s.CommitURL(testRepo, "abc") + s.IssueURL(testRepo, "1") + s.CompareURL(testRepo, "a", "b")
	}

	err := styles.Register(LinkStyle{
		Name:    "Gitea",
		Commit:  "{repo}/commit/{hash}",
		Issue:   "{repo}/issues/{issue}",
		Compare: "{repo}/compare/{from}...{to}",
	})
	require.NoError(t, err)

	gitea, err := styles.Lookup("gitea")
	require.NoError(t, err)
	assert.Equal(t, testRepo+"/issues/7", gitea.IssueURL(testRepo, "7"))

	for name, want := range before {
		s, _ := styles.Lookup(name)
		got := s.CommitURL(testRepo, "abc") + s.IssueURL(testRepo, "1") + s.CompareURL(testRepo, "a", "b")
		assert.Equal(t, want, got, "style %s changed after registering another", name)
	}

	assert.Equal(t, []string{"cgit", "gitea", "github", "gitlab", "stash"}, styles.Names())
}

func TestLinkStyles_RegisterErrors(t *testing.T) {
	t.Parallel()

	tests := map[string]LinkStyle{
		"empty name":        {Name: " ", Commit: "{repo}/c/{hash}"},
		"builtin redefined": {Name: "github", Commit: "{repo}/c/{hash}"},
		"no commit":         {Name: "x"},
		"commit sans hash":  {Name: "x", Commit: "{repo}/commit"},
	}

	for name, style := range tests {
		t.Run(name, func(t *testing.T) {
			t.Parallel()
			assert.Error(t, DefaultLinkStyles().Register(style))
		})
	}
}

func TestLinkStyles_LookupUnknown(t *testing.T) {
	t.Parallel()

	_, err := DefaultLinkStyles().Lookup("bitbucket")
	require.Error(t, err)

	var unknown *UnknownLinkStyleError
	require.ErrorAs(t, err, &unknown)
	assert.Equal(t, "bitbucket", unknown.Name)
	assert.Contains(t, err.Error(), "github")
}
