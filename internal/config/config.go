package config

import (
	"bytes"
	"errors"
	"fmt"
	"io/fs"
	"strings"

	"github.com/BurntSushi/toml"

	"webtee/internal/stream"
)

// Config holds the settings read from config.toml. Command-line flags take
// precedence over every field.
type Config struct {
	Addr          string `toml:"addr"`
	Open          bool   `toml:"open"`
	WaitForViewer bool   `toml:"wait_for_viewer"`
	HistoryBytes  int    `toml:"history_bytes"`
	LogLevel      string `toml:"log_level"`
	// Mode is the default page mode for attach/render: "incremental" or "html".
	Mode string `toml:"mode"`
}

// Default returns the built-in settings.
func Default() Config {
	return Config{
		Addr:          "127.0.0.1:8788",
		Open:          false,
		WaitForViewer: true,
		HistoryBytes:  1 << 20,
		LogLevel:      "info",
		Mode:          "incremental",
	}
}

// Load reads config.toml from the default location. A missing file yields
// the defaults without error.
func Load() (Config, error) {
	p, err := Path()
	if err != nil {
		return Default(), err
	}
	cfg, err := LoadFile(p)
	if errors.Is(err, fs.ErrNotExist) {
		return Default(), nil
	}
	return cfg, err
}

// LoadFile reads a TOML config file over the defaults. Keys absent from the
// file keep their default values; the file itself must exist.
func LoadFile(path string) (Config, error) {
	cfg := Default()
	meta, err := toml.DecodeFile(path, &cfg)
	if err != nil {
		return Default(), fmt.Errorf("read %s: %w", path, err)
	}
	if und := meta.Undecoded(); len(und) > 0 {
		keys := make([]string, len(und))
		for i, k := range und {
			keys[i] = k.String()
		}
		return cfg, fmt.Errorf("read %s: unknown keys: %s", path, strings.Join(keys, ", "))
	}
	return cfg, cfg.Validate()
}

// Validate checks field values.
func (c Config) Validate() error {
	if strings.TrimSpace(c.Addr) == "" {
		return errors.New("addr must not be empty")
	}
	if c.HistoryBytes < 0 {
		return errors.New("history_bytes must not be negative")
	}
	if _, err := stream.ParseMode(c.Mode); err != nil {
		return err
	}
	return nil
}

// Encode renders c as TOML.
func (c Config) Encode() (string, error) {
	var buf bytes.Buffer
	if err := toml.NewEncoder(&buf).Encode(c); err != nil {
		return "", err
	}
	return buf.String(), nil
}
