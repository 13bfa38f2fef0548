// Package cli carries the configuration and logging shared by the workshop
// commands.
package cli

import (
	"errors"
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

const (
	defaultDBPath        = "alsami.db"
	defaultAPIBaseURL    = "http://localhost:9000"
	defaultBatchLimit    = 100
	defaultPollInterval  = 30 * time.Second
	defaultProbeInterval = 10 * time.Second
)

// Duration is a time.Duration that unmarshals from YAML strings like "30s".
type Duration time.Duration

// UnmarshalYAML implements yaml.Unmarshaler.
func (d *Duration) UnmarshalYAML(node *yaml.Node) error {
	var raw string
	if err := node.Decode(&raw); err != nil {
		return err
	}
	parsed, err := time.ParseDuration(raw)
	if err != nil {
		return fmt.Errorf("parse duration %q: %w", raw, err)
	}
	*d = Duration(parsed)

	return nil
}

// Std returns the value as a time.Duration.
func (d Duration) Std() time.Duration {
	return time.Duration(d)
}

// Config is the shared command configuration, loadable from a YAML file and
// overridable per flag.
type Config struct {
	// DBPath is the local SQLite database file.
	DBPath string `yaml:"db"`
	// APIBaseURL is the central server base URL.
	APIBaseURL string `yaml:"api"`
	// BatchLimit caps entries per sync batch.
	BatchLimit int `yaml:"batch_limit"`
	// PollInterval is the sync engine's periodic pass interval.
	PollInterval Duration `yaml:"poll_interval"`
	// ProbeInterval is the connectivity monitor's ping interval.
	ProbeInterval Duration `yaml:"probe_interval"`
}

func (c Config) withDefaults() Config {
	if c.DBPath == "" {
		c.DBPath = defaultDBPath
	}
	if c.APIBaseURL == "" {
		c.APIBaseURL = defaultAPIBaseURL
	}
	if c.BatchLimit <= 0 {
		c.BatchLimit = defaultBatchLimit
	}
	if c.PollInterval <= 0 {
		c.PollInterval = Duration(defaultPollInterval)
	}
	if c.ProbeInterval <= 0 {
		c.ProbeInterval = Duration(defaultProbeInterval)
	}

	return c
}

// Load reads the YAML config at path. An empty path or a missing file yields
// the defaults; a present but malformed file is an error.
func Load(path string) (Config, error) {
	var cfg Config
	if path == "" {
		return cfg.withDefaults(), nil
	}

	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return cfg.withDefaults(), nil
	}
	if err != nil {
		return Config{}, fmt.Errorf("read config %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("parse config %s: %w", path, err)
	}

	return cfg.withDefaults(), nil
}
