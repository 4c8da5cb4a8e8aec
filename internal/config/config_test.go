package config

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ariel-frischer/clog/internal/changelog"
)

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoad_Defaults(t *testing.T) {
	t.Parallel()

	cfg, err := LoadWithOptions(LoadOptions{Dir: t.TempDir(), SkipUserConfig: true})
	require.NoError(t, err)

	assert.Equal(t, "github", cfg.Clog.LinkStyle)
	assert.Equal(t, "changelog.md", cfg.Clog.Outfile)
	assert.Equal(t, "changelog.md", cfg.InputFile())
	assert.Equal(t, "HEAD", cfg.Clog.To)
	assert.Equal(t, "both", cfg.Clog.BreakingPolicy)
	assert.Equal(t, 1, cfg.Clog.Jobs)
	assert.Empty(t, cfg.Files)
	assert.Empty(t, cfg.SectionOverlay())
}

func TestLoad_ProjectFormats(t *testing.T) {
	t.Parallel()

	tests := map[string]struct {
		name    string
		content string
	}{
		"toml": {
			name: ".clog.toml",
			content: `[clog]
repository = "https://github.com/owner/repo"
subtitle = "Crazy Release Title"
jobs = 4

[sections]
Performance = ["perf"]
"Bug Fixes" = ["bug"]
`,
		},
		"yaml": {
			name: ".clog.yaml",
			content: `clog:
  repository: https://github.com/owner/repo
  subtitle: Crazy Release Title
  jobs: 4
sections:
  Performance: [perf]
  Bug Fixes: [bug]
`,
		},
		"json": {
			name: ".clog.json",
			content: `{"clog": {"repository": "https://github.com/owner/repo", "subtitle": "Crazy Release Title", "jobs": 4},
 "sections": {"Performance": ["perf"], "Bug Fixes": ["bug"]}}`,
		},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			dir := t.TempDir()
			path := writeFile(t, dir, tt.name, tt.content)

			cfg, err := LoadWithOptions(LoadOptions{Dir: dir, SkipUserConfig: true})
			require.NoError(t, err)

			assert.Equal(t, "https://github.com/owner/repo", cfg.Clog.Repository)
			assert.Equal(t, "Crazy Release Title", cfg.Clog.Subtitle)
			assert.Equal(t, 4, cfg.Clog.Jobs)
			assert.Equal(t, "changelog.md", cfg.Clog.Outfile, "unset keys keep defaults")
			assert.Equal(t, map[string][]string{
				"Performance":             {"perf"},
				changelog.SectionBugFixes: {"bug"},
			}, cfg.SectionOverlay())
			assert.Equal(t, []LoadedFile{{Path: path, Source: SourceProject}}, cfg.Files)

			table, err := cfg.SectionTable()
			require.NoError(t, err)
			assert.Equal(t, changelog.SectionBugFixes, table.Resolve("bug"))
			assert.Equal(t, "Performance", table.Resolve("perf"))
		})
	}
}

func TestLoad_ShadowedProjectFileWarns(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	writeFile(t, dir, ".clog.toml", "[clog]\nsubtitle = \"toml\"\n")
	writeFile(t, dir, ".clog.yml", "clog:\n  subtitle: yaml\n")

	var warnings bytes.Buffer
	cfg, err := LoadWithOptions(LoadOptions{Dir: dir, SkipUserConfig: true, WarningWriter: &warnings})
	require.NoError(t, err)

	assert.Equal(t, "toml", cfg.Clog.Subtitle)
	assert.Contains(t, warnings.String(), "multiple project config files")
	assert.Contains(t, warnings.String(), ".clog.yml")
}

func TestLoad_ExplicitConfigPath(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	writeFile(t, dir, ".clog.toml", "[clog]\nsubtitle = \"discovered\"\n")
	custom := writeFile(t, t.TempDir(), "release.yaml", "clog:\n  subtitle: explicit\n")

	cfg, err := LoadWithOptions(LoadOptions{Dir: dir, ConfigPath: custom, SkipUserConfig: true})
	require.NoError(t, err)
	assert.Equal(t, "explicit", cfg.Clog.Subtitle)

	_, err = LoadWithOptions(LoadOptions{Dir: dir, ConfigPath: filepath.Join(dir, "missing.toml"), SkipUserConfig: true})
	require.Error(t, err)
	assert.True(t, IsValidationError(err))
	assert.ErrorIs(t, err, ErrConfigNotFound)
	assert.Contains(t, err.Error(), "config file not found")
}

func TestLoad_Overrides(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	writeFile(t, dir, ".clog.toml", "[clog]\nsubtitle = \"file\"\noutfile = \"CHANGES.md\"\n")

	cfg, err := LoadWithOptions(LoadOptions{
		Dir:            dir,
		SkipUserConfig: true,
		Overrides: map[string]any{
			"clog.subtitle":        "flag",
			"clog.from-latest-tag": true,
		},
	})
	require.NoError(t, err)

	assert.Equal(t, "flag", cfg.Clog.Subtitle)
	assert.True(t, cfg.Clog.FromLatestTag)
	assert.Equal(t, "CHANGES.md", cfg.Clog.Outfile)

	_, err = LoadWithOptions(LoadOptions{Dir: dir, SkipUserConfig: true, Overrides: map[string]any{"clog.nope": 1}})
	var unknown UnknownKeyError
	require.ErrorAs(t, err, &unknown)
	assert.Equal(t, "clog.nope", unknown.Key)
}

func TestLoad_CustomLinkStyle(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	writeFile(t, dir, ".clog.toml", `[clog]
repository = "https://git.example.com/owner/repo"
link-style = "Gitea"

[link-styles.gitea]
commit = "{repo}/commit/{hash}"
issue = "{repo}/issues/{issue}"
`)

	cfg, err := LoadWithOptions(LoadOptions{Dir: dir, SkipUserConfig: true})
	require.NoError(t, err)
	assert.Equal(t, "gitea", cfg.Clog.LinkStyle)

	style, err := cfg.LinkStyle()
	require.NoError(t, err)
	assert.Equal(t, "https://git.example.com/owner/repo/issues/3", style.IssueURL(cfg.Clog.Repository, "3"))
	assert.Empty(t, style.CompareURL(cfg.Clog.Repository, "a", "b"))
}

func TestLoad_InvalidConfig(t *testing.T) {
	t.Parallel()

	tests := map[string]struct {
		name      string
		content   string
		wantField string
	}{
		"unknown link style": {
			name:      ".clog.toml",
			content:   "[clog]\nlink-style = \"bitbucket\"\n",
			wantField: "link-style",
		},
		"bad breaking policy": {
			name:      ".clog.toml",
			content:   "[clog]\nbreaking-policy = \"sometimes\"\n",
			wantField: "breaking-policy",
		},
		"jobs out of range": {
			name:      ".clog.toml",
			content:   "[clog]\njobs = 0\n",
			wantField: "jobs",
		},
		"repository not a url": {
			name:      ".clog.toml",
			content:   "[clog]\nrepository = \"not a url\"\n",
			wantField: "repository",
		},
		"from with from-latest-tag": {
			name:      ".clog.toml",
			content:   "[clog]\nfrom = \"v1.0.0\"\nfrom-latest-tag = true\n",
			wantField: "from",
		},
		"link style without commit template": {
			name:      ".clog.toml",
			content:   "[link-styles.gitea]\nissue = \"{repo}/issues/{issue}\"\n",
			wantField: "commit",
		},
		"redefined builtin link style": {
			name:      ".clog.toml",
			content:   "[link-styles.github]\ncommit = \"{repo}/c/{hash}\"\n",
			wantField: "link-style",
		},
		"yaml syntax": {
			name:    ".clog.yaml",
			content: "clog:\n  subtitle: [unclosed\n",
		},
		"toml syntax": {
			name:    ".clog.toml",
			content: "[clog\nsubtitle = 1\n",
		},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			dir := t.TempDir()
			writeFile(t, dir, tt.name, tt.content)

			_, err := LoadWithOptions(LoadOptions{Dir: dir, SkipUserConfig: true})
			require.Error(t, err)

			var validationErr *ValidationError
			require.ErrorAs(t, err, &validationErr)
			if tt.wantField != "" {
				assert.Equal(t, tt.wantField, validationErr.Field)
			}
		})
	}
}

func TestLoad_EnvironmentLayers(t *testing.T) {
	userDir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", userDir)
	require.NoError(t, os.MkdirAll(filepath.Join(userDir, "clog"), 0o755))
	writeFile(t, filepath.Join(userDir, "clog"), "config.toml", "[clog]\nsubtitle = \"user\"\nrepository = \"https://user.example.com/r\"\noutfile = \"USER.md\"\n")

	dir := t.TempDir()
	writeFile(t, dir, ".clog.toml", "[clog]\nsubtitle = \"project\"\n")
	writeFile(t, dir, ".env", "CLOG_SUBTITLE=dotenv\nCLOG_LINK_STYLE=gitlab\nCLOG_JOBS=3\n")

	t.Setenv("CLOG_SUBTITLE", "environment")
	t.Setenv("CLOG_LOG_LEVEL", "debug")

	cfg, err := LoadWithOptions(LoadOptions{Dir: dir})
	require.NoError(t, err)

	assert.Equal(t, "environment", cfg.Clog.Subtitle, "real environment beats .env and files")
	assert.Equal(t, "gitlab", cfg.Clog.LinkStyle, ".env beats defaults")
	assert.Equal(t, 3, cfg.Clog.Jobs)
	assert.Equal(t, "USER.md", cfg.Clog.Outfile, "user file beats defaults")
	assert.Equal(t, "https://user.example.com/r", cfg.Clog.Repository)
	require.Len(t, cfg.Files, 2)
	assert.Equal(t, SourceUser, cfg.Files[0].Source)
	assert.Equal(t, SourceProject, cfg.Files[1].Source)
}

func TestLoad_InvalidEnvironmentValue(t *testing.T) {
	t.Setenv("CLOG_JOBS", "many")

	_, err := LoadWithOptions(LoadOptions{Dir: t.TempDir(), SkipUserConfig: true})
	require.Error(t, err)

	var validationErr *ValidationError
	require.ErrorAs(t, err, &validationErr)
	assert.Equal(t, "CLOG_JOBS", validationErr.Field)
	assert.Equal(t, "environment", validationErr.FilePath)
}

func TestEnvTransform(t *testing.T) {
	t.Parallel()

	tests := map[string]string{
		"CLOG_LINK_STYLE":      "clog.link-style",
		"CLOG_FROM_LATEST_TAG": "clog.from-latest-tag",
		"CLOG_REPOSITORY":      "clog.repository",
		"CLOG_LOG_LEVEL":       "",
		"HOME":                 "",
	}

	for input, want := range tests {
		t.Run(input, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, want, envTransform(input))
		})
	}
}
