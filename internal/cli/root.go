// Package cli wires clog's cobra commands.
package cli

import (
	"context"
	"io"
	"os"
	"os/signal"

	"github.com/spf13/cobra"

	clicfg "github.com/ariel-frischer/clog/internal/cli/config"
	"github.com/ariel-frischer/clog/internal/cli/shared"
	"github.com/ariel-frischer/clog/internal/cli/util"
	clierrors "github.com/ariel-frischer/clog/internal/errors"
	"github.com/ariel-frischer/clog/internal/git"
	"github.com/ariel-frischer/clog/internal/logger"
)

var (
	configPath string
	verbose    bool
)

var rootCmd = &cobra.Command{
	Use:   "clog",
	Short: "A conventional changelog for the rest of us",
	Long: `clog generates a markdown changelog from conventional commit messages.

Commits whose subject looks like "type(component): text" are grouped into
sections by type ("feat" and "ft" select Features, "fix" and "fx" select
Bug Fixes) and by component. Commits with a BREAKING CHANGE note are also
listed under Breaking. The new release block is prepended to the existing
changelog, so history is never rewritten.`,
	Example: `  # Changelog since the latest tag, bumping the minor version
  clog -F -m -r https://github.com/owner/repo

  # Explicit version and range, written to another file
  clog --setversion 2.0.0 -f v1.9.0 -t HEAD -o CHANGES.md

  # Print the block without touching any file
  clog -F -p --dry-run`,
	Args:          cobra.NoArgs,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		setupLogging(cmd.ErrOrStderr())
	},
	RunE: runGenerate,
}

func init() {
	rootCmd.AddGroup(
		&cobra.Group{ID: shared.GroupGenerate, Title: "Generate:"},
		&cobra.Group{ID: shared.GroupInspect, Title: "Inspect:"},
		&cobra.Group{ID: shared.GroupConfiguration, Title: "Configuration:"},
		&cobra.Group{ID: shared.GroupInternal, Title: "Other:"},
	)
	rootCmd.SetHelpCommandGroupID(shared.GroupInternal)
	rootCmd.SetCompletionCommandGroupID(shared.GroupInternal)

	rootCmd.PersistentFlags().StringVarP(&configPath, shared.ConfigFlagName, "c", "", "Config file to use (default: .clog.toml in the working directory)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable debug logging")
	rootCmd.SetFlagErrorFunc(flagError)

	addGenerateFlags(rootCmd)

	clicfg.Register(rootCmd)
	util.Register(rootCmd)
}

// setupLogging configures the process logger and hooks git debug output into it.
func setupLogging(w io.Writer) {
	logger.Init(logger.Options{Output: w, Verbose: verbose})
	git.SetDebugLogger(logger.Debugf)
}

// flagError turns flag parsing failures into argument errors.
func flagError(cmd *cobra.Command, err error) error {
	return clierrors.NewArgumentErrorWithUsage(err.Error(), cmd.UseLine(),
		"Run '"+cmd.CommandPath()+" --help' to see valid flags")
}

// Execute runs the root command. Failures are reported on stderr and returned as a
// shared.ExitError carrying the process exit code.
func Execute() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	err := rootCmd.ExecuteContext(ctx)
	return reportError(rootCmd.ErrOrStderr(), err)
}
