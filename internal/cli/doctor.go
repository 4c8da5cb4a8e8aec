package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ariel-frischer/clog/internal/cli/shared"
	"github.com/ariel-frischer/clog/internal/health"
)

var doctorCmd = &cobra.Command{
	Use:   "doctor",
	Short: "Check that a changelog can be generated here",
	Long: `Check the repository, configuration, sections, link style, latest tag and
output location, printing one line per check. Exits 1 when any check fails.`,
	Aliases: []string{"doc"},
	Args:    cobra.NoArgs,
	RunE:    runDoctor,
}

func init() {
	doctorCmd.GroupID = shared.GroupInspect
	rootCmd.AddCommand(doctorCmd)
}

func runDoctor(cmd *cobra.Command, _ []string) error {
	configPath, _ := cmd.Flags().GetString(shared.ConfigFlagName)

	report := health.RunHealthChecks(cmd.Context(), health.Options{ConfigPath: configPath})
	fmt.Fprint(cmd.OutOrStdout(), health.FormatReport(report))

	if !report.Passed {
		return shared.NewExitError(shared.ExitFailure)
	}
	return nil
}
