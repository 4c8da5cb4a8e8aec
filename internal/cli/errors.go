package cli

import (
	"errors"
	"io"

	"github.com/ariel-frischer/clog/internal/changelog"
	"github.com/ariel-frischer/clog/internal/cli/shared"
	"github.com/ariel-frischer/clog/internal/config"
	clierrors "github.com/ariel-frischer/clog/internal/errors"
	"github.com/ariel-frischer/clog/internal/git"
	"github.com/ariel-frischer/clog/internal/version"
	"github.com/ariel-frischer/clog/internal/workflow"
)

// reportError prints err with remediation to w and returns the matching exit error.
func reportError(w io.Writer, err error) error {
	if err == nil {
		return nil
	}

	var exitErr *shared.ExitError
	if errors.As(err, &exitErr) {
		return err
	}

	cliErr, code := classify(err)
	clierrors.FprintError(w, cliErr)
	return shared.NewExitError(code)
}

// classify maps a failure to a categorized CLI error and its exit code.
func classify(err error) (*clierrors.CLIError, int) {
	var (
		cliErr     *clierrors.CLIError
		invalidTag *version.InvalidTagError
		unknown    *changelog.UnknownLinkStyleError
		duplicate  *changelog.DuplicateAliasError
		section    *changelog.SectionError
		cfgErr     *workflow.ConfigError
		fileErr    *workflow.FileError
	)

	switch {
	case errors.As(err, &cliErr):
		return cliErr, exitCodeFor(cliErr.Category)
	case errors.Is(err, git.ErrNotRepository):
		return clierrors.GitNotRepository(err), shared.ExitMissingDependency
	case errors.As(err, &invalidTag):
		return clierrors.InvalidVersionTag(invalidTag.Tag, err), shared.ExitVersionError
	case errors.Is(err, git.ErrNoTags):
		return clierrors.NoTagsFound(err), shared.ExitVersionError
	case errors.Is(err, version.ErrConflictingOptions):
		cliErr := clierrors.InvalidFlagCombination("--setversion with --major, --minor or --patch", err.Error())
		cliErr.Err = err
		return cliErr, shared.ExitInvalidArguments
	case errors.As(err, &unknown):
		cliErr := clierrors.UnknownLinkStyle(unknown.Name, unknown.Available)
		cliErr.Err = err
		return cliErr, shared.ExitConfigError
	case errors.As(err, &duplicate), errors.As(err, &section):
		return clierrors.DuplicateSectionAlias(err), shared.ExitConfigError
	case errors.As(err, &cfgErr), config.IsValidationError(err):
		return clierrors.ConfigParseError(err), shared.ExitConfigError
	case errors.As(err, &fileErr):
		if fileErr.Op == "read" {
			return clierrors.FileNotReadable(fileErr.Path, err), shared.ExitFailure
		}
		return clierrors.FileNotWritable(fileErr.Path, err), shared.ExitFailure
	default:
		return clierrors.Wrap(err, clierrors.Runtime), shared.ExitFailure
	}
}

func exitCodeFor(category clierrors.ErrorCategory) int {
	switch category {
	case clierrors.Argument:
		return shared.ExitInvalidArguments
	case clierrors.Configuration:
		return shared.ExitConfigError
	case clierrors.Prerequisite:
		return shared.ExitMissingDependency
	case clierrors.Version:
		return shared.ExitVersionError
	default:
		return shared.ExitFailure
	}
}
