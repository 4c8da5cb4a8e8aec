package cli

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/ariel-frischer/clog/internal/changelog"
	"github.com/ariel-frischer/clog/internal/cli/shared"
)

var (
	previewPlain    bool
	previewMarkdown bool
)

var previewCmd = &cobra.Command{
	Use:   "preview",
	Short: "Show the next release's entries without writing anything",
	Long: `Show the entries the next release would contain, grouped by section.

Takes the same range, version and link flags as clog itself. Nothing is
written; use --markdown to print exactly the block clog would prepend.`,
	Example: `  # Entries since the latest tag
  clog preview -F

  # The markdown block for a minor release
  clog preview -F -m --markdown`,
	Args: cobra.NoArgs,
	RunE: runPreview,
}

func init() {
	previewCmd.GroupID = shared.GroupGenerate
	addReleaseFlags(previewCmd)
	previewCmd.Flags().BoolVar(&previewPlain, "plain", false, "Plain text output (no colors/icons)")
	previewCmd.Flags().BoolVar(&previewMarkdown, "markdown", false, "Print the markdown block instead of the summary")
	rootCmd.AddCommand(previewCmd)
}

func runPreview(cmd *cobra.Command, _ []string) error {
	opts, err := releaseOptions(cmd)
	if err != nil {
		return err
	}

	gen, err := newGenerator(cmd)
	if err != nil {
		return err
	}

	result, err := gen.Preview(cmd.Context(), opts)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if previewMarkdown {
		fmt.Fprint(out, result.Markdown)
		return nil
	}

	title := fmt.Sprintf("Release %s", result.Version)
	if !previewPlain {
		title = color.New(color.Bold).Sprint(title)
	}
	fmt.Fprintf(out, "%s (%d commits, %d entries)\n\n", title, result.Commits, result.Changelog.Count())

	if err := changelog.FormatTerminal(result.Changelog, out, changelog.FormatOptions{Plain: previewPlain}); err != nil {
		return fmt.Errorf("formatting preview: %w", err)
	}
	return nil
}
