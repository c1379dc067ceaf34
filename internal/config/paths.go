package config

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
)

// Dir is where webtee looks for config.toml: "webtee" under
// os.UserConfigDir, or under the home directory when no config base is
// known (e.g. XDG_CONFIG_HOME and HOME both unset on Linux).
func Dir() (string, error) {
	base, err := os.UserConfigDir()
	if err != nil || strings.TrimSpace(base) == "" {
		if home, herr := os.UserHomeDir(); herr == nil {
			base = home
		} else {
			return "", errors.New("cannot determine config directory")
		}
	}
	return filepath.Join(base, "webtee"), nil
}

// Path is the default config file read by Load and written by
// `webtee config --init`.
func Path() (string, error) {
	dir, err := Dir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.toml"), nil
}
