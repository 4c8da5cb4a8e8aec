package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/ariel-frischer/clog/internal/changelog"
	"github.com/ariel-frischer/clog/internal/cli/shared"
	"github.com/ariel-frischer/clog/internal/workflow"
)

var sectionsGrep bool

var sectionsCmd = &cobra.Command{
	Use:   "sections",
	Short: "List sections and the aliases that select them",
	Long: `List the effective section table: the built-in sections extended by the
[sections] table of the configuration, in the order they are rendered.`,
	Example: `  clog sections
  clog sections --grep`,
	Args: cobra.NoArgs,
	RunE: runSections,
}

func init() {
	sectionsCmd.GroupID = shared.GroupInspect
	sectionsCmd.Flags().BoolVar(&sectionsGrep, "grep", false, "Print the commit filter pattern instead")
	rootCmd.AddCommand(sectionsCmd)
}

func runSections(cmd *cobra.Command, _ []string) error {
	cfg, err := shared.LoadConfig(cmd, nil)
	if err != nil {
		return err
	}

	table, err := cfg.SectionTable()
	if err != nil {
		return &workflow.ConfigError{Err: err}
	}

	out := cmd.OutOrStdout()
	if sectionsGrep {
		fmt.Fprintln(out, table.GrepPattern())
		return nil
	}

	for _, name := range table.EmitOrder() {
		if name == changelog.SectionBreaking {
			fmt.Fprintf(out, "%-16s %s\n", name, "(BREAKING CHANGE notes and type!: subjects)")
			continue
		}
		fmt.Fprintf(out, "%-16s %s\n", name, strings.Join(table.Aliases(name), ", "))
	}
	return nil
}
