// Package config provides configuration types, defaults and validation for firechicken.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/zjrosen/firechicken/internal/log"
	"github.com/zjrosen/firechicken/internal/opml"
	"github.com/zjrosen/firechicken/internal/tracing"
)

// DefaultConfigPath is where `firechicken init` writes the config and the
// first place it is looked up.
const DefaultConfigPath = ".firechicken/config.yaml"

// Config holds all configuration options for firechicken.
type Config struct {
	Ring          string        `mapstructure:"ring"`           // Ring file (.toml, .yaml, .json)
	OutDir        string        `mapstructure:"out_dir"`        // Output directory for generated artifacts
	RedirectsFile string        `mapstructure:"redirects_file"` // Redirect table filename inside OutDir
	FeedsFile     string        `mapstructure:"feeds_file"`     // OPML filename inside OutDir
	Feeds         FeedsConfig   `mapstructure:"feeds"`
	Tracing       TracingConfig `mapstructure:"tracing"`
}

// FeedsConfig holds feed list options.
type FeedsConfig struct {
	Title string `mapstructure:"title"` // OPML head title
}

// TracingConfig holds distributed tracing configuration for generation runs.
type TracingConfig struct {
	// Enabled controls whether tracing is active.
	// Default: false
	Enabled bool `mapstructure:"enabled"`

	// Exporter selects the trace export backend.
	// Options: "none", "file", "stdout", "otlp"
	// Default: "file"
	Exporter string `mapstructure:"exporter"`

	// FilePath is the output file for "file" exporter.
	// Default: ~/.config/firechicken/traces/traces.jsonl
	FilePath string `mapstructure:"file_path"`

	// OTLPEndpoint is the collector endpoint for "otlp" exporter.
	// Default: "localhost:4317"
	OTLPEndpoint string `mapstructure:"otlp_endpoint"`

	// SampleRate controls trace sampling (0.0 to 1.0).
	// Default: 1.0
	SampleRate float64 `mapstructure:"sample_rate"`
}

// TracingProviderConfig converts the tracing section to a tracing.Config.
func (c Config) TracingProviderConfig() tracing.Config {
	cfg := tracing.DefaultConfig()
	cfg.Enabled = c.Tracing.Enabled
	if c.Tracing.Exporter != "" {
		cfg.Exporter = c.Tracing.Exporter
	}
	cfg.FilePath = c.Tracing.FilePath
	if cfg.FilePath == "" && cfg.Exporter == tracing.ExporterFile {
		cfg.FilePath = DefaultTracesFilePath()
	}
	if c.Tracing.OTLPEndpoint != "" {
		cfg.OTLPEndpoint = c.Tracing.OTLPEndpoint
	}
	if c.Tracing.SampleRate > 0 {
		cfg.SampleRate = c.Tracing.SampleRate
	}
	return cfg
}

// DefaultTracesFilePath returns the default trace file location.
func DefaultTracesFilePath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(".firechicken", "traces", "traces.jsonl")
	}
	return filepath.Join(home, ".config", "firechicken", "traces", "traces.jsonl")
}

// Defaults returns a Config with sensible default values.
func Defaults() Config {
	return Config{
		Ring:          "firechicken.toml",
		OutDir:        "dist",
		RedirectsFile: "_redirects",
		FeedsFile:     "feeds.opml",
		Feeds: FeedsConfig{
			Title: opml.DefaultTitle,
		},
		Tracing: TracingConfig{
			Enabled:      false,
			Exporter:     tracing.ExporterFile,
			FilePath:     "", // Derived from home dir at runtime
			OTLPEndpoint: "localhost:4317",
			SampleRate:   1.0,
		},
	}
}

// Validate checks the configuration for errors.
func Validate(cfg Config) error {
	if cfg.Ring == "" {
		return fmt.Errorf("ring: path is required")
	}
	if cfg.OutDir == "" {
		return fmt.Errorf("out_dir: path is required")
	}
	if err := validateFileName("redirects_file", cfg.RedirectsFile); err != nil {
		return err
	}
	if err := validateFileName("feeds_file", cfg.FeedsFile); err != nil {
		return err
	}
	if cfg.RedirectsFile == cfg.FeedsFile {
		return fmt.Errorf("redirects_file and feeds_file must differ, both are %q", cfg.FeedsFile)
	}
	return ValidateTracing(cfg.Tracing)
}

func validateFileName(key, name string) error {
	if name == "" {
		return fmt.Errorf("%s: file name is required", key)
	}
	if strings.ContainsAny(name, `/\`) || name == "." || name == ".." {
		return fmt.Errorf("%s: %q must be a plain file name", key, name)
	}
	return nil
}

// ValidateTracing checks the tracing section.
func ValidateTracing(tracingCfg TracingConfig) error {
	switch tracingCfg.Exporter {
	case "", tracing.ExporterNone, tracing.ExporterFile, tracing.ExporterStdout, tracing.ExporterOTLP:
	default:
		return fmt.Errorf("tracing.exporter: must be one of none, file, stdout, otlp (got %q)", tracingCfg.Exporter)
	}
	if tracingCfg.SampleRate < 0 || tracingCfg.SampleRate > 1 {
		return fmt.Errorf("tracing.sample_rate: must be between 0.0 and 1.0 (got %v)", tracingCfg.SampleRate)
	}
	return nil
}

// DefaultConfigTemplate returns the default config as a YAML string with comments.
func DefaultConfigTemplate() string {
	return `# firechicken configuration

# Ring file listing the members (.toml, .yaml/.yml or .json/.jsonc)
ring: firechicken.toml

# Generated artifacts are written here
out_dir: dist
redirects_file: _redirects   # "<path> <target> 302" per line
feeds_file: feeds.opml       # OPML list of every valid member's feeds

feeds:
  title: "` + opml.DefaultTitle + `"

# Trace generation runs with OpenTelemetry
tracing:
  enabled: false
  exporter: file             # none, file, stdout or otlp
  # file_path: ~/.config/firechicken/traces/traces.jsonl
  # otlp_endpoint: localhost:4317
  sample_rate: 1.0
`
}

// WriteDefaultConfig writes the default config template to configPath,
// creating parent directories. Existing files are never overwritten.
func WriteDefaultConfig(configPath string) error {
	log.Debug(log.CatConfig, "Writing default config", "path", configPath)

	if _, err := os.Stat(configPath); err == nil {
		return fmt.Errorf("config file %s already exists", configPath)
	}

	dir := filepath.Dir(configPath)
	if err := os.MkdirAll(dir, 0o750); err != nil {
		log.ErrorErr(log.CatConfig, "Failed to create config directory", err, "dir", dir)
		return fmt.Errorf("creating config directory: %w", err)
	}

	if err := os.WriteFile(configPath, []byte(DefaultConfigTemplate()), 0o600); err != nil {
		log.ErrorErr(log.CatConfig, "Failed to write config file", err, "path", configPath)
		return fmt.Errorf("writing config file: %w", err)
	}

	log.Info(log.CatConfig, "Created default config", "path", configPath)
	return nil
}
