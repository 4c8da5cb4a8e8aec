package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// ResolvePath turns the directory argument of 'config init' into an absolute path.
// Empty means the working directory; a leading "~/" is the home directory.
func ResolvePath(raw string) (string, error) {
	if raw == "~" || strings.HasPrefix(raw, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("getting home directory: %w", err)
		}
		raw = filepath.Join(home, strings.TrimPrefix(raw[1:], "/"))
	}

	abs, err := filepath.Abs(raw)
	if err != nil {
		return "", fmt.Errorf("resolving %q: %w", raw, err)
	}
	return abs, nil
}
