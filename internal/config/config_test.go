package config

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"testing"

	tu "webtee/internal/testutil"
)

func TestLoad_DefaultWhenMissing(t *testing.T) {
	tmp := t.TempDir()
	defer tu.WithEnv(t, "XDG_CONFIG_HOME", tmp)()
	defer tu.WithEnv(t, "HOME", tmp)() // fallback

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load error: %v", err)
	}
	if cfg != Default() {
		t.Fatalf("expected defaults, got %+v", cfg)
	}
}

func TestLoadFile_Overrides(t *testing.T) {
	p := filepath.Join(t.TempDir(), "config.toml")
	body := "addr = \"0.0.0.0:9000\"\nwait_for_viewer = false\nhistory_bytes = 42\n"
	if err := os.WriteFile(p, []byte(body), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	cfg, err := LoadFile(p)
	if err != nil {
		t.Fatalf("LoadFile error: %v", err)
	}
	if cfg.Addr != "0.0.0.0:9000" || cfg.WaitForViewer || cfg.HistoryBytes != 42 {
		t.Fatalf("overrides not applied: %+v", cfg)
	}
	// untouched keys keep defaults
	if cfg.LogLevel != "info" || cfg.Mode != "incremental" {
		t.Fatalf("defaults lost: %+v", cfg)
	}
}

func TestLoadFile_Rejects(t *testing.T) {
	cases := map[string]string{
		"unknown key": "colour = \"red\"\n",
		"bad mode":    "mode = \"pdf\"\n",
		"negative":    "history_bytes = -1\n",
		"syntax":      "addr = \n",
	}
	for name, body := range cases {
		p := filepath.Join(t.TempDir(), "config.toml")
		if err := os.WriteFile(p, []byte(body), 0o644); err != nil {
			t.Fatalf("write: %v", err)
		}
		if _, err := LoadFile(p); err == nil {
			t.Fatalf("%s: expected error", name)
		}
	}
}

func TestEncode_RoundTrip(t *testing.T) {
	out, err := Default().Encode()
	if err != nil {
		t.Fatalf("Encode error: %v", err)
	}
	if !strings.Contains(out, "addr = \"127.0.0.1:8788\"") {
		t.Fatalf("unexpected encoding:\n%s", out)
	}
}

func TestLoadFile_MissingExplicitPathFails(t *testing.T) {
	p := filepath.Join(t.TempDir(), "nope.toml")
	if _, err := LoadFile(p); !errors.Is(err, fs.ErrNotExist) {
		t.Fatalf("expected not-exist error, got %v", err)
	}
}

func TestPath_UnderUserConfigDir(t *testing.T) {
	tmp := t.TempDir()
	defer tu.WithEnv(t, "XDG_CONFIG_HOME", tmp)()
	p, err := Path()
	if err != nil {
		t.Fatalf("Path error: %v", err)
	}
	if want := filepath.Join(tmp, "webtee", "config.toml"); p != want {
		t.Fatalf("Path = %q, want %q", p, want)
	}
}
