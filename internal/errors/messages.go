package errors

import (
	"fmt"
	"strings"
)

// Common error messages for the clog CLI.
// These templates ensure consistent, actionable error messages.

// InvalidVersionTag creates an error for a latest tag that is not a semantic version.
func InvalidVersionTag(tag string, err error) *CLIError {
	return WrapWithMessage(err, Version,
		fmt.Sprintf("cannot bump version from tag %q", strings.TrimSpace(tag)),
		"Ensure the tag format follows Semantic Versioning such as N.N.N",
		"Or set the version manually with --setversion <version>",
	)
}

// NoTagsFound creates an error when a bump or --from-latest-tag needs a tag.
func NoTagsFound(err error) *CLIError {
	return WrapWithMessage(err, Version,
		"no tag to start from",
		"Create a release tag first: git tag v0.1.0",
		"Or set the version manually with --setversion <version>",
		"Or give the range start explicitly with --from <ref>",
	)
}

// ConfigFileNotFound creates an error for a missing --config file.
func ConfigFileNotFound(path string) *CLIError {
	return New(Configuration,
		fmt.Sprintf("config file not found: %s", path),
		"Run 'clog config init' to create a default .clog.toml",
		"Or check the path passed to --config",
	)
}

// ConfigParseError creates an error for an invalid config file or value.
func ConfigParseError(err error) *CLIError {
	return WrapWithMessage(err, Configuration,
		"invalid configuration",
		"Check the reported file and field for typos",
		"List valid keys with: clog config keys",
		"Inspect the merged result with: clog config show",
	)
}

// UnknownLinkStyle creates an error for a link style that is not registered.
func UnknownLinkStyle(name string, available []string) *CLIError {
	return New(Configuration,
		fmt.Sprintf("unknown link style: %s", name),
		"Available styles: "+strings.Join(available, ", "),
		"Define it under [link-styles."+name+"] in .clog.toml",
	)
}

// DuplicateSectionAlias creates an error for an alias claimed by two sections.
func DuplicateSectionAlias(err error) *CLIError {
	return WrapWithMessage(err, Configuration,
		"invalid section table",
		"Each alias may select only one section",
		"Show the effective table with: clog sections",
	)
}

// InvalidFlagCombination creates an error for incompatible flag combinations.
func InvalidFlagCombination(flags string, reason string) *CLIError {
	return NewArgumentError(
		fmt.Sprintf("invalid flag combination: %s", flags),
		reason,
		"Use 'clog <command> --help' to see valid options",
	)
}

// FileNotReadable creates an error when prior changelog content cannot be read.
func FileNotReadable(path string, err error) *CLIError {
	return WrapWithMessage(err, Runtime,
		fmt.Sprintf("cannot read file: %s", path),
		"Check file permissions: ls -la "+path,
		"Or point --infile at another file",
	)
}

// FileNotWritable creates an error when a file cannot be written.
func FileNotWritable(path string, err error) *CLIError {
	return WrapWithMessage(err, Runtime,
		fmt.Sprintf("cannot write to file: %s", path),
		"Check file permissions: ls -la "+path,
		"Ensure parent directory exists and is writable",
	)
}

// GitNotRepository creates an error when not in a git repository.
func GitNotRepository(err error) *CLIError {
	cliErr := New(Prerequisite,
		"not a git repository",
		"Initialize with: git init",
		"Or navigate to an existing repository",
	)
	cliErr.Err = err
	return cliErr
}
