// Package config loads layered configuration: built-in defaults, then an
// optional YAML file, then MINDPRINT_ environment variables.
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"

	"mindprint/internal/rerank"
	"mindprint/internal/retrieval"
	"mindprint/internal/selector"
)

const envPrefix = "MINDPRINT_"

// #region types
// Config is the full runtime configuration. Immutable after Load.
type Config struct {
	Server    ServerConfig     `koanf:"server"`
	Database  DatabaseConfig   `koanf:"database"`
	Catalog   CatalogConfig    `koanf:"catalog"`
	Profiles  ProfilesConfig   `koanf:"profiles"`
	Logging   LoggingConfig    `koanf:"logging"`
	Selector  selector.Config  `koanf:"selector"`
	Retrieval retrieval.Config `koanf:"retrieval"`
	Weights   rerank.Weights   `koanf:"weights"`
}

// ServerConfig holds the HTTP listener settings.
type ServerConfig struct {
	Addr            string        `koanf:"addr"`
	ReadTimeout     time.Duration `koanf:"read_timeout"`
	WriteTimeout    time.Duration `koanf:"write_timeout"`
	ShutdownTimeout time.Duration `koanf:"shutdown_timeout"`
}

// DatabaseConfig holds the SQLite path for sessions and the audit trail.
type DatabaseConfig struct {
	Path string `koanf:"path"`
}

// CatalogConfig points at the question catalog file.
type CatalogConfig struct {
	Path string `koanf:"path"`
}

// ProfilesConfig points at the candidate profile file.
type ProfilesConfig struct {
	Path string `koanf:"path"`
}

// LoggingConfig mirrors logging.Config without the writer.
type LoggingConfig struct {
	Level  string `koanf:"level"`
	Format string `koanf:"format"`
}

// #endregion types

// #region defaults
// Default returns the built-in configuration.
func Default() Config {
	return Config{
		Server: ServerConfig{
			Addr:            ":8080",
			ReadTimeout:     10 * time.Second,
			WriteTimeout:    30 * time.Second,
			ShutdownTimeout: 15 * time.Second,
		},
		Database:  DatabaseConfig{Path: "mindprint.db"},
		Catalog:   CatalogConfig{Path: "questions.yaml"},
		Profiles:  ProfilesConfig{Path: "phones.json"},
		Logging:   LoggingConfig{Level: "info", Format: "json"},
		Selector:  selector.DefaultConfig(),
		Retrieval: retrieval.DefaultConfig(),
		Weights:   rerank.DefaultWeights(),
	}
}

// #endregion defaults

// #region load
// Load builds the configuration from defaults, an optional YAML file, and
// environment variables, in rising precedence. An empty path skips the file
// layer.
func Load(path string) (Config, error) {
	k := koanf.New(".")

	if err := k.Load(structs.Provider(Default(), "koanf"), nil); err != nil {
		return Config{}, fmt.Errorf("load defaults: %w", err)
	}

	if path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return Config{}, fmt.Errorf("load config file %s: %w", path, err)
		}
	}

	// MINDPRINT_SERVER_ADDR -> server.addr; only the first underscore becomes
	// a dot, so underscore-bearing leaf keys like max_questions survive.
	envProvider := env.Provider(envPrefix, ".", func(s string) string {
		return strings.Replace(strings.ToLower(strings.TrimPrefix(s, envPrefix)), "_", ".", 1)
	})
	if err := k.Load(envProvider, nil); err != nil {
		return Config{}, fmt.Errorf("load env: %w", err)
	}

	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return Config{}, fmt.Errorf("unmarshal config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, fmt.Errorf("validate config: %w", err)
	}
	return cfg, nil
}

// #endregion load

// #region validate
// Validate rejects configurations that would misbehave at runtime.
func (c Config) Validate() error {
	if c.Server.Addr == "" {
		return fmt.Errorf("server.addr must not be empty")
	}
	if c.Database.Path == "" {
		return fmt.Errorf("database.path must not be empty")
	}
	if c.Selector.MaxQuestions <= 0 {
		return fmt.Errorf("selector.max_questions must be positive, got %d", c.Selector.MaxQuestions)
	}
	if c.Selector.SoftMinQuestions > c.Selector.MaxQuestions {
		return fmt.Errorf("selector.soft_min_questions %d exceeds max_questions %d",
			c.Selector.SoftMinQuestions, c.Selector.MaxQuestions)
	}
	if c.Selector.ConfidenceTarget <= 0 || c.Selector.ConfidenceTarget > 1 {
		return fmt.Errorf("selector.confidence_target %f out of (0, 1]", c.Selector.ConfidenceTarget)
	}
	if c.Selector.ChoiceTemperature <= 0 {
		return fmt.Errorf("selector.choice_temperature must be positive, got %f", c.Selector.ChoiceTemperature)
	}
	if c.Retrieval.TopK <= 0 {
		return fmt.Errorf("retrieval.top_k must be positive, got %d", c.Retrieval.TopK)
	}
	if err := c.Weights.Validate(); err != nil {
		return fmt.Errorf("weights: %w", err)
	}
	return nil
}

// #endregion validate
