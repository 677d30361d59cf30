package config

import (
	"fmt"
	"strings"
)

// Validate checks the configuration for values the pipeline cannot run with.
func (c *Config) Validate() error {
	if strings.TrimSpace(c.Paths.OutputDir) == "" {
		return fmt.Errorf("paths.output_dir must be set")
	}
	if strings.TrimSpace(c.MusicBrainz.BaseURL) == "" {
		return fmt.Errorf("musicbrainz.base_url must be set")
	}
	if strings.TrimSpace(c.MusicBrainz.UserAgent) == "" {
		return fmt.Errorf("musicbrainz.user_agent must be set")
	}
	if c.MusicBrainz.SearchLimit <= 0 || c.MusicBrainz.SearchLimit > 100 {
		return fmt.Errorf("musicbrainz.search_limit must be between 1 and 100")
	}
	if c.MusicBrainz.MaxRetries < 1 {
		return fmt.Errorf("musicbrainz.max_retries must be at least 1")
	}
	if c.Ripping.RipTimeout <= 0 {
		return fmt.Errorf("ripping.rip_timeout must be positive")
	}
	switch strings.ToLower(strings.TrimSpace(c.Logging.Format)) {
	case "", "console", "json":
	default:
		return fmt.Errorf("logging.format must be console or json")
	}
	return nil
}
