// Package config loads the property-builder configuration file and applies
// PROPBUILD_* environment overrides.
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"

	"property-builder/builder"
	"property-builder/internal/common"
	"property-builder/internal/loader"
)

const (
	defaultFormat        = "yaml"
	defaultDebounceMs    = 300
	defaultListen        = ":8080"
	defaultMaxBodyBytes  = 1 << 20
	defaultLogLevel      = "info"
	defaultMinSuggestion = 0.5
)

type Config struct {
	Output struct {
		// Format is yaml, json or toml.
		Format string `yaml:"format"`
		// File is the output path; empty means stdout.
		File string `yaml:"file"`
	} `yaml:"output"`

	// Set holds key=value overrides applied after the input files.
	Set []string `yaml:"set"`

	Watch struct {
		Enabled    bool `yaml:"enabled"`
		DebounceMs int  `yaml:"debounce_ms"`
	} `yaml:"watch"`

	Server struct {
		Listen       string `yaml:"listen"`
		MaxBodyBytes int64  `yaml:"max_body_bytes"`
	} `yaml:"server"`

	Builder struct {
		// MaxSuggestions caps "did you mean" hints; 0 disables them.
		MaxSuggestions *int    `yaml:"max_suggestions"`
		MinScore       float64 `yaml:"suggestion_min_score"`
	} `yaml:"builder"`

	Logging struct {
		Level       string `yaml:"level"`
		Development bool   `yaml:"development"`
	} `yaml:"logging"`
}

// Load reads the configuration at path. An empty path yields the defaults.
// Environment overrides are applied in both cases.
func Load(path string) (*Config, error) {
	var cfg Config

	if path != "" {
		b, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read config %s: %w", path, err)
		}

		if err := yaml.Unmarshal(b, &cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config %s: %w", path, err)
		}
	}

	applyDefaults(&cfg)
	applyEnvOverrides(&cfg)

	if err := validate(&cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// Default returns the configuration used when no file is given, without
// environment overrides.
func Default() *Config {
	var cfg Config
	applyDefaults(&cfg)

	return &cfg
}

// BuilderConfig returns the builder settings.
func (c *Config) BuilderConfig() builder.Config {
	bc := builder.DefaultConfig()
	if c.Builder.MaxSuggestions != nil {
		bc.MaxSuggestions = *c.Builder.MaxSuggestions
	}

	if c.Builder.MinScore > 0 {
		bc.SuggestionMinScore = c.Builder.MinScore
	}

	return bc
}

// OutputFormat returns the parsed output format.
func (c *Config) OutputFormat() loader.Format {
	f, err := loader.ParseFormat(c.Output.Format)
	if err != nil {
		return loader.FormatYAML
	}

	return f
}

func applyDefaults(cfg *Config) {
	if strings.TrimSpace(cfg.Output.Format) == "" {
		cfg.Output.Format = defaultFormat
	}
	if cfg.Watch.DebounceMs <= 0 {
		cfg.Watch.DebounceMs = defaultDebounceMs
	}
	if strings.TrimSpace(cfg.Server.Listen) == "" {
		cfg.Server.Listen = defaultListen
	}
	if cfg.Server.MaxBodyBytes == 0 {
		cfg.Server.MaxBodyBytes = defaultMaxBodyBytes
	}
	if cfg.Builder.MinScore == 0 {
		cfg.Builder.MinScore = defaultMinSuggestion
	}
	if cfg.Logging.Level == "" {
		cfg.Logging.Level = defaultLogLevel
	}
}

func applyEnvOverrides(cfg *Config) {
	if v := strings.TrimSpace(os.Getenv("PROPBUILD_FORMAT")); v != "" {
		cfg.Output.Format = v
	}
	if v := strings.TrimSpace(os.Getenv("PROPBUILD_OUTPUT")); v != "" {
		cfg.Output.File = v
	}
	cfg.Watch.Enabled = envBool("PROPBUILD_WATCH", cfg.Watch.Enabled)
	if n, ok := envInt("PROPBUILD_WATCH_DEBOUNCE_MS"); ok {
		cfg.Watch.DebounceMs = n
	}
	if v := strings.TrimSpace(os.Getenv("PROPBUILD_LISTEN")); v != "" {
		cfg.Server.Listen = v
	}
	if n, ok := envInt("PROPBUILD_MAX_BODY_BYTES"); ok {
		cfg.Server.MaxBodyBytes = int64(n)
	}
	if v := strings.TrimSpace(os.Getenv("PROPBUILD_LOG_LEVEL")); v != "" {
		cfg.Logging.Level = v
	}
	cfg.Logging.Development = envBool("PROPBUILD_LOG_DEVELOPMENT", cfg.Logging.Development)
}

func validate(cfg *Config) error {
	if _, err := loader.ParseFormat(cfg.Output.Format); err != nil {
		return fmt.Errorf("output.format: %w", err)
	}
	if cfg.Watch.DebounceMs <= 0 {
		return errors.New("watch.debounce_ms must be > 0")
	}
	if cfg.Server.MaxBodyBytes <= 0 {
		return errors.New("server.max_body_bytes must be > 0")
	}
	if cfg.Builder.MaxSuggestions != nil && *cfg.Builder.MaxSuggestions < 0 {
		return errors.New("builder.max_suggestions must be >= 0")
	}
	if !common.IsInRange(0, cfg.Builder.MinScore, 1) {
		return errors.New("builder.suggestion_min_score must be between 0 and 1")
	}
	for _, s := range cfg.Set {
		if _, _, err := loader.ParseAssignment(s); err != nil {
			return fmt.Errorf("set: %w", err)
		}
	}
	switch strings.ToLower(cfg.Logging.Level) {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("logging.level must be one of debug, info, warn, error (got %q)", cfg.Logging.Level)
	}

	return nil
}

func envInt(name string) (int, bool) {
	v := strings.TrimSpace(os.Getenv(name))
	if v == "" {
		return 0, false
	}

	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, false
	}

	return n, true
}

func envBool(name string, def bool) bool {
	v := strings.TrimSpace(os.Getenv(name))
	if v == "" {
		return def
	}

	b, err := strconv.ParseBool(v)
	if err != nil {
		return def
	}

	return b
}
