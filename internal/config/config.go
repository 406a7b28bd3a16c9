// Package config loads and validates the engine configuration. Defaults are
// applied first, then the YAML file overlays them; validation runs last so a
// partially written file cannot smuggle in an inconsistent threshold set.
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/NicXVII/analisiPortafoglio/internal/confidence"
	"github.com/NicXVII/analisiPortafoglio/internal/gates"
)

// GatesConfig groups the per-gate threshold sections.
type GatesConfig struct {
	Integrity  gates.IntegrityConfig  `yaml:"integrity"`
	Intent     gates.IntentConfig     `yaml:"intent"`
	Structural gates.StructuralConfig `yaml:"structural"`
	Benchmark  gates.BenchmarkConfig  `yaml:"benchmark"`
}

// AuditConfig selects where override records are kept. When PostgresDSN is
// set the database store is used, otherwise the JSONL file.
type AuditConfig struct {
	FilePath    string `yaml:"file_path"`
	PostgresDSN string `yaml:"postgres_dsn"`
}

// ProviderConfig tunes the metrics provider decorators.
type ProviderConfig struct {
	RatePerSecond float64 `yaml:"rate_per_second"`
	Burst         int     `yaml:"burst"`
}

// ServerConfig holds the read-only HTTP surface settings.
type ServerConfig struct {
	ListenAddr string `yaml:"listen_addr"`
}

// Config is the full engine configuration.
type Config struct {
	Confidence confidence.Config `yaml:"confidence"`
	Gates      GatesConfig       `yaml:"gates"`
	Audit      AuditConfig       `yaml:"audit"`
	Provider   ProviderConfig    `yaml:"provider"`
	Server     ServerConfig      `yaml:"server"`
}

// Default returns the production configuration.
func Default() Config {
	return Config{
		Confidence: confidence.DefaultConfig(),
		Gates: GatesConfig{
			Integrity:  gates.DefaultIntegrityConfig(),
			Intent:     gates.DefaultIntentConfig(),
			Structural: gates.DefaultStructuralConfig(),
			Benchmark:  gates.DefaultBenchmarkConfig(),
		},
		Audit: AuditConfig{
			FilePath: "overrides.jsonl",
		},
		Provider: ProviderConfig{
			RatePerSecond: 10,
			Burst:         5,
		},
		Server: ServerConfig{
			ListenAddr: ":8090",
		},
	}
}

// Load reads the YAML file at path over the defaults and validates the
// result. An empty path returns validated defaults.
func Load(path string) (Config, error) {
	cfg := Default()
	if path != "" {
		raw, err := os.ReadFile(path)
		if err != nil {
			return Config{}, fmt.Errorf("reading config %s: %w", path, err)
		}
		if err := yaml.Unmarshal(raw, &cfg); err != nil {
			return Config{}, fmt.Errorf("parsing config %s: %w", path, err)
		}
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, fmt.Errorf("config %s: %w", path, err)
	}
	return cfg, nil
}

// Validate checks every section.
func (c Config) Validate() error {
	if err := c.Confidence.Validate(); err != nil {
		return fmt.Errorf("confidence: %w", err)
	}
	if err := c.Gates.Integrity.Validate(); err != nil {
		return fmt.Errorf("gates.integrity: %w", err)
	}
	if err := c.Gates.Intent.Validate(); err != nil {
		return fmt.Errorf("gates.intent: %w", err)
	}
	if err := c.Gates.Benchmark.Validate(); err != nil {
		return fmt.Errorf("gates.benchmark: %w", err)
	}
	if c.Provider.RatePerSecond <= 0 || c.Provider.Burst <= 0 {
		return fmt.Errorf("provider: rate %.1f/s burst %d must be positive",
			c.Provider.RatePerSecond, c.Provider.Burst)
	}
	return nil
}
