// Package config loads clog's layered configuration: built-in defaults, the user
// file, the project file, a .env file, CLOG_* environment variables and flag overrides,
// each layer overriding the previous one.
package config

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
	"github.com/knadh/koanf/parsers/json"
	"github.com/knadh/koanf/parsers/toml/v2"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"

	"github.com/ariel-frischer/clog/internal/changelog"
)

// EnvPrefix prefixes every environment variable read by clog.
const EnvPrefix = "CLOG_"

// ErrConfigNotFound is returned when an explicitly requested config file does not exist.
var ErrConfigNotFound = errors.New("config file not found")

// ConfigSource identifies the layer a setting came from.
type ConfigSource string

const (
	SourceDefault  ConfigSource = "default"
	SourceUser     ConfigSource = "user"
	SourceProject  ConfigSource = "project"
	SourceDotEnv   ConfigSource = "dotenv"
	SourceEnv      ConfigSource = "env"
	SourceOverride ConfigSource = "flags"
)

// Configuration is the fully merged configuration.
type Configuration struct {
	Clog Options `koanf:"clog" yaml:"clog" json:"clog"`

	// Sections maps a section title to the aliases that select it. Default sections
	// listed here have their aliases extended.
	Sections map[string][]string `koanf:"sections" yaml:"sections,omitempty" json:"sections,omitempty"`

	// LinkStyles defines extra link styles by name.
	LinkStyles map[string]LinkStyleConfig `koanf:"link-styles" yaml:"link-styles,omitempty" json:"link-styles,omitempty" validate:"dive"`

	// Files lists the configuration files that were loaded, lowest priority first.
	Files []LoadedFile `koanf:"-" yaml:"-" json:"-"`
}

// Options holds the [clog] table.
type Options struct {
	Repository     string `koanf:"repository" yaml:"repository" json:"repository" validate:"omitempty,url"`
	LinkStyle      string `koanf:"link-style" yaml:"link-style" json:"link-style" validate:"required"`
	Subtitle       string `koanf:"subtitle" yaml:"subtitle" json:"subtitle"`
	Outfile        string `koanf:"outfile" yaml:"outfile" json:"outfile" validate:"required"`
	Infile         string `koanf:"infile" yaml:"infile" json:"infile"`
	FromLatestTag  bool   `koanf:"from-latest-tag" yaml:"from-latest-tag" json:"from-latest-tag"`
	From           string `koanf:"from" yaml:"from" json:"from"`
	To             string `koanf:"to" yaml:"to" json:"to" validate:"required"`
	BreakingPolicy string `koanf:"breaking-policy" yaml:"breaking-policy" json:"breaking-policy" validate:"oneof=both separate"`
	Jobs           int    `koanf:"jobs" yaml:"jobs" json:"jobs" validate:"min=1,max=64"`
}

// LinkStyleConfig holds the URL templates of a user-defined link style.
type LinkStyleConfig struct {
	Commit  string `koanf:"commit" yaml:"commit" json:"commit" validate:"required"`
	Issue   string `koanf:"issue" yaml:"issue,omitempty" json:"issue,omitempty"`
	Compare string `koanf:"compare" yaml:"compare,omitempty" json:"compare,omitempty"`
}

// LoadedFile records one configuration file merged into the result.
type LoadedFile struct {
	Path   string
	Source ConfigSource
}

// LoadOptions configures how configuration is loaded.
type LoadOptions struct {
	// Dir is searched for the project file and .env. Empty means the working directory.
	Dir string

	// ConfigPath is an explicit project file that must exist. It replaces discovery in Dir.
	ConfigPath string

	// Overrides are dotted keys (e.g. "clog.subtitle") applied last, typically from flags.
	Overrides map[string]any

	// SkipUserConfig ignores the user-level file.
	SkipUserConfig bool

	// WarningWriter is where to write warnings (defaults to os.Stderr if nil).
	WarningWriter io.Writer

	// SkipWarnings suppresses warnings.
	SkipWarnings bool
}

// Load reads the configuration using the project directory dir.
func Load(dir string) (*Configuration, error) {
	return LoadWithOptions(LoadOptions{Dir: dir})
}

// LoadWithOptions reads every layer and returns the validated result.
func LoadWithOptions(opts LoadOptions) (*Configuration, error) {
	k := koanf.New(".")
	warningWriter := getWarningWriter(opts.WarningWriter)
	var files []LoadedFile

	if err := loadDefaults(k); err != nil {
		return nil, err
	}

	if !opts.SkipUserConfig {
		loaded, err := loadUserConfig(k)
		if err != nil {
			return nil, err
		}
		files = append(files, loaded...)
	}

	dir, err := resolveDir(opts.Dir)
	if err != nil {
		return nil, err
	}

	loaded, err := loadProjectConfig(k, dir, opts.ConfigPath, warningWriter, opts.SkipWarnings)
	if err != nil {
		return nil, err
	}
	files = append(files, loaded...)

	if err := loadDotEnv(k, filepath.Join(dir, ".env")); err != nil {
		return nil, err
	}

	if err := loadEnvironmentConfig(k); err != nil {
		return nil, err
	}

	if err := loadOverrides(k, opts.Overrides); err != nil {
		return nil, err
	}

	cfg, err := finalizeConfig(k)
	if err != nil {
		return nil, err
	}
	cfg.Files = files
	return cfg, nil
}

func getWarningWriter(w io.Writer) io.Writer {
	if w == nil {
		return os.Stderr
	}
	return w
}

func resolveDir(dir string) (string, error) {
	if dir != "" {
		return dir, nil
	}
	wd, err := os.Getwd()
	if err != nil {
		return "", fmt.Errorf("getting current directory: %w", err)
	}
	return wd, nil
}

func loadDefaults(k *koanf.Koanf) error {
	for key, value := range GetDefaults() {
		if err := k.Set(key, value); err != nil {
			return fmt.Errorf("loading default %s: %w", key, err)
		}
	}
	return nil
}

func loadUserConfig(k *koanf.Koanf) ([]LoadedFile, error) {
	dir, err := UserConfigDir()
	if err != nil {
		// No home or XDG directory: nothing to load.
		return nil, nil
	}

	path, _ := findConfigFile(dir, UserConfigNames)
	if path == "" {
		return nil, nil
	}
	if err := loadFile(k, path, SourceUser); err != nil {
		return nil, fmt.Errorf("loading user config: %w", err)
	}
	return []LoadedFile{{Path: path, Source: SourceUser}}, nil
}

func loadProjectConfig(k *koanf.Koanf, dir, customPath string, warningWriter io.Writer, skipWarnings bool) ([]LoadedFile, error) {
	path := customPath
	if path == "" {
		var others []string
		path, others = findConfigFile(dir, ProjectConfigNames)
		if path == "" {
			return nil, nil
		}
		warnShadowed(warningWriter, path, others, skipWarnings)
	} else if !fileExists(path) {
		return nil, &ValidationError{FilePath: path, Message: "config file not found", Err: ErrConfigNotFound}
	}

	if err := loadFile(k, path, SourceProject); err != nil {
		return nil, fmt.Errorf("loading project config: %w", err)
	}
	return []LoadedFile{{Path: path, Source: SourceProject}}, nil
}

func warnShadowed(w io.Writer, used string, others []string, skipWarnings bool) {
	if skipWarnings || len(others) == 0 {
		return
	}
	fmt.Fprintf(w, "Warning: multiple project config files found, using %s\n", used)
	fmt.Fprintf(w, "  Ignored: %s\n\n", strings.Join(others, ", "))
}

// loadFile merges one configuration file, choosing the parser by extension.
func loadFile(k *koanf.Koanf, path string, source ConfigSource) error {
	var parser koanf.Parser
	switch strings.ToLower(filepath.Ext(path)) {
	case ".toml":
		parser = toml.Parser()
	case ".yaml", ".yml":
		if err := ValidateYAMLSyntax(path); err != nil {
			return fmt.Errorf("validating YAML syntax for %s config: %w", source, err)
		}
		parser = yaml.Parser()
	case ".json":
		parser = json.Parser()
	default:
		return &ValidationError{FilePath: path, Message: "unsupported config format (use .toml, .yaml, .yml or .json)"}
	}

	if err := k.Load(file.Provider(path), parser); err != nil {
		return &ValidationError{FilePath: path, Message: err.Error()}
	}
	return nil
}

// loadDotEnv merges CLOG_* entries of a .env file. Variables already present in the
// process environment win, so the file is applied below the environment layer.
func loadDotEnv(k *koanf.Koanf, path string) error {
	if !fileExists(path) {
		return nil
	}

	values, err := godotenv.Read(path)
	if err != nil {
		return &ValidationError{FilePath: path, Message: err.Error()}
	}

	for name, value := range values {
		if _, set := os.LookupEnv(name); set {
			continue
		}
		key := envTransform(name)
		if key == "" {
			continue
		}
		if _, err := ParseValue(key, value); err != nil {
			return &ValidationError{FilePath: path, Field: name, Message: err.Error()}
		}
		if err := k.Set(key, value); err != nil {
			return fmt.Errorf("loading %s: %w", path, err)
		}
	}
	return nil
}

func loadEnvironmentConfig(k *koanf.Koanf) error {
	for _, kv := range os.Environ() {
		name, value, _ := strings.Cut(kv, "=")
		key := envTransform(name)
		if key == "" {
			continue
		}
		if _, err := ParseValue(key, value); err != nil {
			return &ValidationError{FilePath: "environment", Field: name, Message: err.Error()}
		}
	}

	if err := k.Load(env.Provider(EnvPrefix, ".", envTransform), nil); err != nil {
		return fmt.Errorf("failed to load environment config: %w", err)
	}
	return nil
}

func loadOverrides(k *koanf.Koanf, overrides map[string]any) error {
	for key, value := range overrides {
		if _, err := LookupKey(key); err != nil {
			return err
		}
		if err := k.Set(key, value); err != nil {
			return fmt.Errorf("applying override %s: %w", key, err)
		}
	}
	return nil
}

func finalizeConfig(k *koanf.Koanf) (*Configuration, error) {
	var cfg Configuration
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	cfg.Clog.LinkStyle = strings.ToLower(strings.TrimSpace(cfg.Clog.LinkStyle))

	if err := ValidateConfigValues(&cfg, "config"); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return &cfg, nil
}

// envTransform maps CLOG_LINK_STYLE to clog.link-style. Variables that do not name a
// known key (such as CLOG_LOG_LEVEL) map to "" and are skipped.
func envTransform(s string) string {
	if !strings.HasPrefix(s, EnvPrefix) {
		return ""
	}
	name := strings.ToLower(strings.TrimPrefix(s, EnvPrefix))
	key := "clog." + strings.ReplaceAll(name, "_", "-")
	if _, err := LookupKey(key); err != nil {
		return ""
	}
	return key
}

func fileExists(path string) bool {
	if path == "" {
		return false
	}
	_, err := os.Stat(path)
	return err == nil
}

// InputFile returns the file holding prior changelog content.
func (c *Configuration) InputFile() string {
	if c.Clog.Infile != "" {
		return c.Clog.Infile
	}
	return c.Clog.Outfile
}

// SectionOverlay returns the user section table to extend the defaults with.
func (c *Configuration) SectionOverlay() map[string][]string {
	overlay := make(map[string][]string, len(c.Sections))
	for name, aliases := range c.Sections {
		overlay[name] = append([]string(nil), aliases...)
	}
	return overlay
}

// SectionTable builds the alias table from the defaults and SectionOverlay.
func (c *Configuration) SectionTable() (*changelog.SectionTable, error) {
	return changelog.NewSectionTable(c.SectionOverlay())
}

// LinkStyleRegistry returns the built-in link styles plus every configured style.
func (c *Configuration) LinkStyleRegistry() (changelog.LinkStyles, error) {
	styles := changelog.DefaultLinkStyles()
	for name, ls := range c.LinkStyles {
		err := styles.Register(changelog.LinkStyle{
			Name:    name,
			Commit:  ls.Commit,
			Issue:   ls.Issue,
			Compare: ls.Compare,
		})
		if err != nil {
			return nil, fmt.Errorf("link style %q: %w", name, err)
		}
	}
	return styles, nil
}

// LinkStyle resolves the configured link-style name.
func (c *Configuration) LinkStyle() (changelog.LinkStyle, error) {
	styles, err := c.LinkStyleRegistry()
	if err != nil {
		return changelog.LinkStyle{}, err
	}
	return styles.Lookup(c.Clog.LinkStyle)
}

// BreakingPolicy parses the configured breaking-policy.
func (c *Configuration) BreakingPolicy() (changelog.BreakingPolicy, error) {
	return changelog.ParseBreakingPolicy(c.Clog.BreakingPolicy)
}

// IsValidationError reports whether err carries a *ValidationError.
func IsValidationError(err error) bool {
	var v *ValidationError
	return errors.As(err, &v)
}
