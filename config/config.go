package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

// Config holds the dashboard settings. The service base URL is resolved once
// at load time and handed to the transport client at construction; nothing
// reads it ambiently afterwards.
type Config struct {
	APIURL             string `yaml:"api_url"`
	StatusIntervalMS   int    `yaml:"status_interval_ms"`
	SessionsIntervalMS int    `yaml:"sessions_interval_ms"`
	SessionsLimit      int    `yaml:"sessions_limit"`
	ClipsDir           string `yaml:"clips_dir"`
}

// Default returns the built-in settings.
func Default() *Config {
	return &Config{
		APIURL:             "http://localhost:8000/api",
		StatusIntervalMS:   2500,
		SessionsIntervalMS: 15000,
		SessionsLimit:      50,
	}
}

// Load reads the config file at path, or the default location when path is
// empty. A missing file is not an error; defaults apply. Environment
// variables VODWATCH_API_URL and VODWATCH_CLIPS_DIR override the file.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path == "" {
		path = defaultPath()
	}
	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case os.IsNotExist(err):
			// defaults
		case err != nil:
			return nil, fmt.Errorf("failed to read config: %w", err)
		default:
			if err := yaml.Unmarshal(data, cfg); err != nil {
				return nil, fmt.Errorf("failed to parse config %s: %w", path, err)
			}
		}
	}

	if v := os.Getenv("VODWATCH_API_URL"); v != "" {
		cfg.APIURL = v
	}
	if v := os.Getenv("VODWATCH_CLIPS_DIR"); v != "" {
		cfg.ClipsDir = v
	}

	if cfg.StatusIntervalMS <= 0 {
		cfg.StatusIntervalMS = 2500
	}
	if cfg.SessionsIntervalMS <= 0 {
		cfg.SessionsIntervalMS = 15000
	}
	if cfg.SessionsLimit <= 0 {
		cfg.SessionsLimit = 50
	}
	return cfg, nil
}

// StatusInterval is the status polling cadence.
func (c *Config) StatusInterval() time.Duration {
	return time.Duration(c.StatusIntervalMS) * time.Millisecond
}

// SessionsInterval is the session listing cadence.
func (c *Config) SessionsInterval() time.Duration {
	return time.Duration(c.SessionsIntervalMS) * time.Millisecond
}

func defaultPath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return ""
	}
	return filepath.Join(dir, "vodwatch", "config.yaml")
}
