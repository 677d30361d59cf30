package config

import (
	_ "embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"
)

//go:embed sample_config.toml
var sampleConfig string

// Paths contains directory configuration.
type Paths struct {
	OutputDir  string `toml:"output_dir"`
	StagingDir string `toml:"staging_dir"`
	LogDir     string `toml:"log_dir"`
}

// MusicBrainz contains configuration for the release catalog client.
type MusicBrainz struct {
	BaseURL        string `toml:"base_url"`
	UserAgent      string `toml:"user_agent"`
	SearchLimit    int    `toml:"search_limit"`
	RequestTimeout int    `toml:"request_timeout"`
	MaxRetries     int    `toml:"max_retries"`
	// QuotaFloor is the remaining-request threshold below which the client
	// blocks until the reported reset time.
	QuotaFloor int `toml:"quota_floor"`
}

// Ripping contains capture collaborator configuration.
type Ripping struct {
	Device       string `toml:"device"`
	RipTimeout   int    `toml:"rip_timeout"`
	FlacBinary   string `toml:"flac_binary"`
	ParanoiaBin  string `toml:"cdparanoia_binary"`
	EjectOnDone  bool   `toml:"eject_on_done"`
	WaitForMedia bool   `toml:"wait_for_media"`
}

// Logging contains log output configuration.
type Logging struct {
	Level  string `toml:"level"`
	Format string `toml:"format"`
}

// Config is the root configuration document.
type Config struct {
	Paths       Paths       `toml:"paths"`
	MusicBrainz MusicBrainz `toml:"musicbrainz"`
	Ripping     Ripping     `toml:"ripping"`
	Logging     Logging     `toml:"logging"`
}

// DefaultConfigPath returns the expected location of the config file.
func DefaultConfigPath() string {
	return "~/.config/platter/config.toml"
}

// Load reads the config file at path (or the default location when empty),
// layering it over Default() and normalizing the result.
func Load(path string) (*Config, error) {
	resolved := strings.TrimSpace(path)
	if resolved == "" {
		resolved = DefaultConfigPath()
	}
	resolved, err := ExpandPath(resolved)
	if err != nil {
		return nil, err
	}

	cfg := Default()
	data, err := os.ReadFile(resolved)
	switch {
	case errors.Is(err, fs.ErrNotExist):
		// Missing file means defaults; an explicit path that does not
		// exist is still an error for the caller to surface.
		if strings.TrimSpace(path) != "" {
			return nil, fmt.Errorf("config file not found: %s", resolved)
		}
	case err != nil:
		return nil, fmt.Errorf("read config: %w", err)
	default:
		if err := toml.Unmarshal(data, &cfg); err != nil {
			return nil, fmt.Errorf("parse config: %w", err)
		}
	}

	if err := cfg.normalize(); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// WriteSample writes the embedded sample config to path, refusing to
// overwrite an existing file.
func WriteSample(path string) (string, error) {
	resolved, err := ExpandPath(path)
	if err != nil {
		return "", err
	}
	if _, err := os.Stat(resolved); err == nil {
		return "", fmt.Errorf("config already exists: %s", resolved)
	}
	if err := os.MkdirAll(filepath.Dir(resolved), 0o755); err != nil {
		return "", fmt.Errorf("ensure config directory: %w", err)
	}
	if err := os.WriteFile(resolved, []byte(sampleConfig), 0o644); err != nil {
		return "", fmt.Errorf("write sample config: %w", err)
	}
	return resolved, nil
}

// EnsureDirectories creates the configured output, staging, and log
// directories if they do not exist.
func (c *Config) EnsureDirectories() error {
	for _, dir := range []string{c.Paths.OutputDir, c.Paths.StagingDir, c.Paths.LogDir} {
		if dir == "" {
			continue
		}
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("ensure directory %s: %w", dir, err)
		}
	}
	return nil
}

// ExpandPath resolves a leading tilde against the current user's home.
func ExpandPath(path string) (string, error) {
	trimmed := strings.TrimSpace(path)
	if trimmed == "" {
		return "", nil
	}
	if trimmed == "~" || strings.HasPrefix(trimmed, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home directory: %w", err)
		}
		if trimmed == "~" {
			return home, nil
		}
		return filepath.Join(home, trimmed[2:]), nil
	}
	return trimmed, nil
}

func (c *Config) normalize() error {
	var err error
	if c.Paths.OutputDir, err = ExpandPath(c.Paths.OutputDir); err != nil {
		return err
	}
	if c.Paths.StagingDir, err = ExpandPath(c.Paths.StagingDir); err != nil {
		return err
	}
	if c.Paths.LogDir, err = ExpandPath(c.Paths.LogDir); err != nil {
		return err
	}
	c.MusicBrainz.BaseURL = strings.TrimRight(strings.TrimSpace(c.MusicBrainz.BaseURL), "/")
	c.MusicBrainz.UserAgent = strings.TrimSpace(c.MusicBrainz.UserAgent)
	return nil
}
