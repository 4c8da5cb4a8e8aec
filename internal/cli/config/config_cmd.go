// Package config provides the `clog config` commands: show, keys and init.
package config

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"text/tabwriter"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/ariel-frischer/clog/internal/cli/shared"
	"github.com/ariel-frischer/clog/internal/config"
	clierrors "github.com/ariel-frischer/clog/internal/errors"
)

var (
	cGreen = color.New(color.FgGreen).SprintFunc()
	cDim   = color.New(color.Faint).SprintFunc()
	cBold  = color.New(color.Bold).SprintFunc()
)

// ConfigCmd is the parent of the configuration subcommands.
var ConfigCmd = &cobra.Command{
	Use:   "config",
	Short: "Inspect and initialize clog configuration",
	Long: `Inspect and initialize clog configuration.

Configuration is loaded with the following priority (highest to lowest):
  1. Command-line flags
  2. Environment variables (CLOG_*)
  3. .env file in the working directory
  4. Project config (.clog.toml, .clog.yaml, .clog.yml or .clog.json)
  5. User config (~/.config/clog/config.toml)
  6. Built-in defaults`,
	Example: `  # Show the merged configuration
  clog config show

  # List every key with its environment variable
  clog config keys

  # Create .clog.toml in the current directory
  clog config init`,
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show the merged configuration",
	Long:  "Show the configuration after every layer has been applied, and the files it came from.",
	Args:  cobra.NoArgs,
	RunE:  runConfigShow,
}

var configKeysCmd = &cobra.Command{
	Use:   "keys",
	Short: "List configuration keys",
	Args:  cobra.NoArgs,
	RunE:  runConfigKeys,
}

var configInitCmd = &cobra.Command{
	Use:   "init [path]",
	Short: "Create a commented config file",
	Long: `Create a commented .clog.toml with every option at its default value.

By default the file is created in the current directory. Give a path to create
it elsewhere, or --user to create the user-level config instead. An existing
file is left unchanged unless --force is given.`,
	Example: `  clog config init
  clog config init ~/projects/app
  clog config init --user --force`,
	Args: cobra.MaximumNArgs(1),
	RunE: runConfigInit,
}

// Register adds the config command tree to root.
func Register(root *cobra.Command) {
	ConfigCmd.GroupID = shared.GroupConfiguration
	root.AddCommand(ConfigCmd)
}

func init() {
	configShowCmd.Flags().Bool("json", false, "Output in JSON format")
	configInitCmd.Flags().Bool("user", false, "Create the user-level config instead of a project file")
	configInitCmd.Flags().BoolP("force", "f", false, "Overwrite an existing file")

	ConfigCmd.AddCommand(configShowCmd, configKeysCmd, configInitCmd)
}

func runConfigShow(cmd *cobra.Command, _ []string) error {
	cfg, err := shared.LoadConfig(cmd, nil)
	if err != nil {
		return err
	}

	asJSON, _ := cmd.Flags().GetBool("json")
	return writeConfig(cmd.OutOrStdout(), cfg, asJSON)
}

// writeConfig prints the loaded files followed by the merged tree.
func writeConfig(out io.Writer, cfg *config.Configuration, asJSON bool) error {
	fmt.Fprintln(out, cBold("Configuration Sources"))
	if len(cfg.Files) == 0 {
		fmt.Fprintln(out, cDim("  (built-in defaults only)"))
	}
	for _, f := range cfg.Files {
		fmt.Fprintf(out, "  %-8s %s\n", f.Source, f.Path)
	}
	fmt.Fprintln(out)

	if asJSON {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		if err := enc.Encode(cfg); err != nil {
			return fmt.Errorf("encoding configuration as JSON: %w", err)
		}
		return nil
	}

	enc := yaml.NewEncoder(out)
	enc.SetIndent(2)
	if err := enc.Encode(cfg); err != nil {
		return fmt.Errorf("encoding configuration as YAML: %w", err)
	}
	return enc.Close()
}

func runConfigKeys(cmd *cobra.Command, _ []string) error {
	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "KEY\tTYPE\tDEFAULT\tENV\tDESCRIPTION")
	for _, key := range config.Keys() {
		fmt.Fprintf(w, "%s\t%s\t%v\t%s\t%s\n", key.Path, key.TypeLabel(), key.Default, key.EnvVar(), key.Description)
	}
	return w.Flush()
}

func runConfigInit(cmd *cobra.Command, args []string) error {
	user, _ := cmd.Flags().GetBool("user")
	force, _ := cmd.Flags().GetBool("force")

	if user && len(args) > 0 {
		return clierrors.InvalidFlagCombination("--user with a path", "The user config location is fixed")
	}

	path, err := initTarget(args, user)
	if err != nil {
		return err
	}

	if _, err := os.Stat(path); err == nil && !force {
		fmt.Fprintf(cmd.OutOrStdout(), "%s already exists %s\n", path, cDim("(use --force to overwrite)"))
		return nil
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return clierrors.FileNotWritable(path, err)
	}
	if err := os.WriteFile(path, []byte(config.GetDefaultConfigTemplate()), 0o644); err != nil {
		return clierrors.FileNotWritable(path, err)
	}

	fmt.Fprintf(cmd.OutOrStdout(), "%s Created %s\n", cGreen("✓"), path)
	return nil
}

// initTarget returns the file config init writes.
func initTarget(args []string, user bool) (string, error) {
	if user {
		path, err := config.UserConfigPath()
		if err != nil {
			return "", fmt.Errorf("locating user config directory: %w", err)
		}
		return path, nil
	}

	var raw string
	if len(args) > 0 {
		raw = args[0]
	}
	dir, err := ResolvePath(raw)
	if err != nil {
		return "", err
	}
	return config.ProjectConfigPath(dir), nil
}
