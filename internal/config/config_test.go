package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestDefaultValidates(t *testing.T) {
	cfg := Default()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("default config should validate: %v", err)
	}
}

func TestLoadMissingDefaultPathUsesDefaults(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.MusicBrainz.SearchLimit != defaultSearchLimit {
		t.Fatalf("expected default search limit, got %d", cfg.MusicBrainz.SearchLimit)
	}
}

func TestLoadExplicitMissingPathFails(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "nope.toml")); err == nil {
		t.Fatal("expected error for missing explicit config path")
	}
}

func TestLoadOverlaysFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.toml")
	content := `
[paths]
output_dir = "` + dir + `/out"

[musicbrainz]
search_limit = 5
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.MusicBrainz.SearchLimit != 5 {
		t.Fatalf("expected overridden search limit 5, got %d", cfg.MusicBrainz.SearchLimit)
	}
	if cfg.Paths.OutputDir != dir+"/out" {
		t.Fatalf("unexpected output dir %q", cfg.Paths.OutputDir)
	}
	// Untouched sections keep defaults.
	if cfg.Ripping.Device != defaultDevice {
		t.Fatalf("expected default device, got %q", cfg.Ripping.Device)
	}
}

func TestValidateRejectsBadValues(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(*Config)
	}{
		{"empty output dir", func(c *Config) { c.Paths.OutputDir = "" }},
		{"empty user agent", func(c *Config) { c.MusicBrainz.UserAgent = " " }},
		{"zero search limit", func(c *Config) { c.MusicBrainz.SearchLimit = 0 }},
		{"oversized search limit", func(c *Config) { c.MusicBrainz.SearchLimit = 500 }},
		{"bad log format", func(c *Config) { c.Logging.Format = "xml" }},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			cfg := Default()
			tc.mutate(&cfg)
			if err := cfg.Validate(); err == nil {
				t.Fatal("expected validation error")
			}
		})
	}
}

func TestExpandPath(t *testing.T) {
	home, err := os.UserHomeDir()
	if err != nil {
		t.Skip("no home directory")
	}
	got, err := ExpandPath("~/music")
	if err != nil {
		t.Fatalf("ExpandPath: %v", err)
	}
	if got != filepath.Join(home, "music") {
		t.Fatalf("unexpected expansion %q", got)
	}
	got, err = ExpandPath("/abs/path")
	if err != nil || got != "/abs/path" {
		t.Fatalf("absolute path should pass through, got %q err %v", got, err)
	}
}

func TestWriteSampleRefusesOverwrite(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	written, err := WriteSample(path)
	if err != nil {
		t.Fatalf("WriteSample: %v", err)
	}
	data, err := os.ReadFile(written)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(data), "[musicbrainz]") {
		t.Fatal("sample config missing musicbrainz section")
	}
	if _, err := WriteSample(path); err == nil {
		t.Fatal("expected overwrite refusal")
	}
}
