package config

import (
	"os"
	"path/filepath"
)

// ProjectConfigNames are the project config files, in lookup order.
var ProjectConfigNames = []string{".clog.toml", ".clog.yaml", ".clog.yml", ".clog.json"}

// UserConfigNames are the user config files, in lookup order.
var UserConfigNames = []string{"config.toml", "config.yaml", "config.yml", "config.json"}

// UserConfigDir returns the path to the user-level config directory.
// This follows the XDG Base Directory Specification:
// - Linux: ~/.config/clog
// - macOS: ~/Library/Application Support/clog
// - Windows: %APPDATA%\clog
//
// If XDG_CONFIG_HOME is set, it will be respected on Linux.
func UserConfigDir() (string, error) {
	configDir, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(configDir, "clog"), nil
}

// UserConfigPath returns the preferred user-level config file path.
func UserConfigPath() (string, error) {
	dir, err := UserConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, UserConfigNames[0]), nil
}

// ProjectConfigPath returns the preferred project config file path in dir.
func ProjectConfigPath(dir string) string {
	return filepath.Join(dir, ProjectConfigNames[0])
}

// FindProjectConfig returns the first project config file present in dir, or "".
func FindProjectConfig(dir string) string {
	path, _ := findConfigFile(dir, ProjectConfigNames)
	return path
}

// findConfigFile returns the first of names present in dir and any later ones
// that are shadowed by it.
func findConfigFile(dir string, names []string) (found string, shadowed []string) {
	for _, name := range names {
		path := filepath.Join(dir, name)
		if !fileExists(path) {
			continue
		}
		if found == "" {
			found = path
			continue
		}
		shadowed = append(shadowed, path)
	}
	return found, shadowed
}
