package shared

import (
	"errors"

	"github.com/spf13/cobra"

	"github.com/ariel-frischer/clog/internal/config"
	clierrors "github.com/ariel-frischer/clog/internal/errors"
)

// ConfigFlagName is the persistent flag selecting an explicit config file.
const ConfigFlagName = "config"

// LoadConfig loads configuration for cmd, honouring the inherited --config flag and
// applying overrides last. Failures come back as configuration CLIErrors.
func LoadConfig(cmd *cobra.Command, overrides map[string]any) (*config.Configuration, error) {
	configPath, _ := cmd.Flags().GetString(ConfigFlagName)

	cfg, err := config.LoadWithOptions(config.LoadOptions{
		ConfigPath:    configPath,
		Overrides:     overrides,
		WarningWriter: cmd.ErrOrStderr(),
	})
	if errors.Is(err, config.ErrConfigNotFound) {
		cliErr := clierrors.ConfigFileNotFound(configPath)
		cliErr.Err = err
		return nil, cliErr
	}
	if err != nil {
		return nil, clierrors.ConfigParseError(err)
	}
	return cfg, nil
}
