// Package util provides utility commands such as version.
package util

import (
	"fmt"
	"io"
	"runtime"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/ariel-frischer/clog/internal/build"
	"github.com/ariel-frischer/clog/internal/cli/shared"
)

// SourceURL is the project source URL
const SourceURL = "https://github.com/ariel-frischer/clog"

var versionPlain bool

// VersionCmd prints build information.
var VersionCmd = &cobra.Command{
	Use:     "version",
	Aliases: []string{"v"},
	Short:   "Display version information (v)",
	Long:    "Display version, commit, build date, and Go version information for clog",
	Example: `  # Show version info
  clog version

  # Plain output (for scripts)
  clog version --plain`,
	Args: cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		if versionPlain {
			printPlainVersion(cmd.OutOrStdout())
			return
		}
		printPrettyVersion(cmd.OutOrStdout())
	},
}

func init() {
	VersionCmd.Flags().BoolVar(&versionPlain, "plain", false, "Plain output without formatting")
}

// Register adds the utility commands to root.
func Register(root *cobra.Command) {
	VersionCmd.GroupID = shared.GroupInternal
	root.AddCommand(VersionCmd)
}

// printPlainVersion prints a simple version output for scripting
func printPlainVersion(w io.Writer) {
	fmt.Fprintf(w, "clog %s\n", build.Version)
	fmt.Fprintf(w, "commit: %s\n", build.Commit)
	fmt.Fprintf(w, "built: %s\n", build.BuildDate)
	fmt.Fprintf(w, "go: %s\n", runtime.Version())
	fmt.Fprintf(w, "platform: %s/%s\n", runtime.GOOS, runtime.GOARCH)
}

// printPrettyVersion prints labelled, coloured build information
func printPrettyVersion(w io.Writer) {
	cyan := color.New(color.FgCyan, color.Bold).SprintFunc()
	dim := color.New(color.Faint).SprintFunc()
	white := color.New(color.FgWhite, color.Bold).SprintFunc()
	yellow := color.New(color.FgYellow).SprintFunc()

	fmt.Fprintf(w, "%s %s\n", cyan("clog"), dim("a conventional changelog for the rest of us"))
	fmt.Fprintln(w)

	info := []struct {
		label string
		value string
	}{
		{"Version", build.Version},
		{"Commit", truncateCommit(build.Commit)},
		{"Built", build.BuildDate},
		{"Go", runtime.Version()},
		{"Platform", fmt.Sprintf("%s/%s", runtime.GOOS, runtime.GOARCH)},
	}
	for _, item := range info {
		fmt.Fprintf(w, "  %s  %s\n", yellow(fmt.Sprintf("%9s", item.label)), white(item.value))
	}

	fmt.Fprintln(w)
	if build.IsDevBuild() {
		fmt.Fprintln(w, dim("development build"))
	}
	fmt.Fprintln(w, dim(SourceURL))
}

// truncateCommit shortens commit hash if it's too long
func truncateCommit(commit string) string {
	if len(commit) > 8 {
		return commit[:8]
	}
	return commit
}
