package config

// GetDefaultConfigTemplate returns a fully commented project config template
// that helps users understand all available options.
func GetDefaultConfigTemplate() string {
	return `# clog configuration
# See 'clog config keys' for all options and their environment variables.

[clog]
repository = ""                # e.g. https://github.com/owner/repo (enables links)
link-style = "github"          # github | gitlab | stash | cgit | any [link-styles] entry
subtitle = ""                  # Release subtitle printed after the version
outfile = "changelog.md"       # Where the changelog is written
infile = ""                    # Prior content source (defaults to outfile)
from-latest-tag = false        # Start the range at the latest tag
from = ""                      # Start the range at this ref (exclusive)
to = "HEAD"                    # End the range at this ref
breaking-policy = "both"       # both | separate
jobs = 1                       # Parallel commit parsers

# Extra sections, or extra aliases for the default ones.
[sections]
# Performance = ["perf"]
# "Bug Fixes" = ["bug"]

# Extra link styles. Placeholders: {repo} {hash} {issue} {from} {to}
# [link-styles.gitea]
# commit = "{repo}/commit/{hash}"
# issue = "{repo}/issues/{issue}"
# compare = "{repo}/compare/{from}...{to}"
`
}

// GetDefaults returns the default configuration values keyed by dotted path.
func GetDefaults() map[string]interface{} {
	defaults := make(map[string]interface{}, len(keys))
	for _, key := range keys {
		defaults[key.Path] = key.Default
	}
	return defaults
}
