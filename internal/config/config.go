// Package config loads the quotedb configuration file.
package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Defaults applied when a field is absent from the config file.
const (
	DefaultDatabasePath = "quotedb.db"
	DefaultHTTPTimeout  = 30 * time.Second
	DefaultBucketCount  = 8
)

// Duration wraps time.Duration so YAML values like "10s" parse naturally.
type Duration time.Duration

// UnmarshalYAML implements yaml.Unmarshaler using time.ParseDuration.
func (d *Duration) UnmarshalYAML(value *yaml.Node) error {
	var raw string
	if err := value.Decode(&raw); err != nil {
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

// Config holds the runtime configuration for the CLI and the cache core.
type Config struct {
	// DatasetURL is the remote dataset endpoint (JSON array, optionally
	// gzip-compressed). Required for refresh and for loads with an empty
	// local store.
	DatasetURL string `yaml:"datasetUrl"`

	// VersionURL optionally serves the dataset's current freshness
	// fingerprint as plain text. When empty, version checks are skipped
	// and a non-empty persisted copy is always trusted.
	VersionURL string `yaml:"versionUrl,omitempty"`

	// DatabasePath is the SQLite file backing the persistent record store.
	DatabasePath string `yaml:"databasePath,omitempty"`

	// HTTPTimeout bounds each dataset/version request.
	HTTPTimeout Duration `yaml:"httpTimeout,omitempty"`

	// BucketCount is the number of equal-width buckets used for price
	// distribution summaries.
	BucketCount int `yaml:"bucketCount,omitempty"`
}

// Default returns a Config with every default applied and no endpoints.
func Default() Config {
	return Config{
		DatabasePath: DefaultDatabasePath,
		HTTPTimeout:  Duration(DefaultHTTPTimeout),
		BucketCount:  DefaultBucketCount,
	}
}

// Load reads and validates a YAML config file, filling unset fields with
// defaults. An empty path returns Default() unchanged.
func Load(path string) (Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("read config %s: %w", path, err)
	}

	if err := yaml.Unmarshal(raw, &cfg); err != nil {
		return cfg, fmt.Errorf("parse config %s: %w", path, err)
	}

	cfg.applyDefaults()
	if err := cfg.validate(); err != nil {
		return cfg, fmt.Errorf("config %s: %w", path, err)
	}

	return cfg, nil
}

func (c *Config) applyDefaults() {
	if c.DatabasePath == "" {
		c.DatabasePath = DefaultDatabasePath
	}
	if c.HTTPTimeout <= 0 {
		c.HTTPTimeout = Duration(DefaultHTTPTimeout)
	}
	if c.BucketCount <= 0 {
		c.BucketCount = DefaultBucketCount
	}
}

func (c Config) validate() error {
	if c.BucketCount < 1 {
		return fmt.Errorf("bucketCount must be positive, got %d", c.BucketCount)
	}
	return nil
}
