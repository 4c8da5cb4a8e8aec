package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ariel-frischer/clog/internal/cli/shared"
	"github.com/ariel-frischer/clog/internal/workflow"
)

var linkStylesCmd = &cobra.Command{
	Use:   "link-styles",
	Short: "List available link styles",
	Long: `List the built-in link styles and those defined under [link-styles] in the
configuration, with their URL templates. The configured style is marked.`,
	Args: cobra.NoArgs,
	RunE: runLinkStyles,
}

func init() {
	linkStylesCmd.GroupID = shared.GroupInspect
	rootCmd.AddCommand(linkStylesCmd)
}

func runLinkStyles(cmd *cobra.Command, _ []string) error {
	cfg, err := shared.LoadConfig(cmd, nil)
	if err != nil {
		return err
	}

	styles, err := cfg.LinkStyleRegistry()
	if err != nil {
		return &workflow.ConfigError{Err: err}
	}

	out := cmd.OutOrStdout()
	for _, name := range styles.Names() {
		style, err := styles.Lookup(name)
		if err != nil {
			return err
		}

		marker := " "
		if name == cfg.Clog.LinkStyle {
			marker = "*"
		}
		fmt.Fprintf(out, "%s %s\n", marker, name)
		fmt.Fprintf(out, "    commit:  %s\n", orNone(style.Commit))
		fmt.Fprintf(out, "    issue:   %s\n", orNone(style.Issue))
		fmt.Fprintf(out, "    compare: %s\n", orNone(style.Compare))
	}
	return nil
}

func orNone(template string) string {
	if template == "" {
		return "(none)"
	}
	return template
}
