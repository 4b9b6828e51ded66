// Package config provides configuration loading for the nyrakai tools.
package config

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/nyrakai/nyrakai"
)

// ProjectConfigFile is looked up in the working directory when no explicit
// config path is given.
const ProjectConfigFile = "nyrakai.yaml"

// Environment variables that override file settings.
const (
	EnvDataDir    = "NYRAKAI_DATA_DIR"
	EnvDictionary = "NYRAKAI_DICTIONARY"
	EnvAddr       = "NYRAKAI_ADDR"
	EnvLogLevel   = "NYRAKAI_LOG_LEVEL"
)

// Config represents the complete tool configuration
type Config struct {
	Rules      RulesConfig      `yaml:"rules"`
	Dictionary DictionaryConfig `yaml:"dictionary"`
	Server     ServerConfig     `yaml:"server"`
	Audit      AuditConfig      `yaml:"audit"`
	Log        LogConfig        `yaml:"log"`
}

// RulesConfig selects the rule tables and engine options
type RulesConfig struct {
	// DataDir holds phonemes.ny, clusters.ny, morphemes.ny and domains.ny
	// (empty = embedded tables)
	DataDir string `yaml:"data_dir"`
	// Normalize folds ASCII romanizations before validating
	Normalize bool `yaml:"normalize"`
	// ValidateCompositions validates every composed word
	ValidateCompositions bool `yaml:"validate_compositions"`
}

// DictionaryConfig locates the dictionary files
type DictionaryConfig struct {
	// Paths are doublestar glob patterns, e.g. "dict/**/*.json"
	Paths []string `yaml:"paths"`
}

// ServerConfig configures the HTTP API
type ServerConfig struct {
	Addr           string   `yaml:"addr"`
	AllowedOrigins []string `yaml:"allowed_origins"`
	// CacheSize is the number of validation verdicts kept in memory
	CacheSize int `yaml:"cache_size"`
}

// AuditConfig configures the dictionary audit
type AuditConfig struct {
	// Workers bounds the validation fan-out (0 = one per CPU)
	Workers int `yaml:"workers"`
	// SimilarDistance reports word pairs closer than this edit distance
	SimilarDistance int `yaml:"similar_distance"`
}

// LogConfig configures logging
type LogConfig struct {
	// Level is one of debug, info, warn, error
	Level string `yaml:"level"`
}

// DefaultConfig returns a Config with sensible defaults
func DefaultConfig() *Config {
	return &Config{
		Rules: RulesConfig{
			DataDir: "", // Embedded
		},
		Dictionary: DictionaryConfig{
			Paths: []string{"dictionary.json"},
		},
		Server: ServerConfig{
			Addr:           ":8080",
			AllowedOrigins: []string{"*"},
			CacheSize:      4096,
		},
		Audit: AuditConfig{
			Workers:         0,
			SimilarDistance: 2,
		},
		Log: LogConfig{
			Level: "info",
		},
	}
}

// Validate checks that the configuration is valid
func (c *Config) Validate() error {
	if c.Server.Addr == "" {
		return fmt.Errorf("server.addr is required")
	}
	if c.Server.CacheSize < 1 {
		return fmt.Errorf("server.cache_size must be positive")
	}
	if c.Audit.Workers < 0 {
		return fmt.Errorf("audit.workers must not be negative")
	}
	if c.Audit.SimilarDistance < 1 {
		return fmt.Errorf("audit.similar_distance must be at least 1")
	}
	if _, err := ParseLevel(c.Log.Level); err != nil {
		return err
	}
	return nil
}

// LoadFromFile loads configuration from a YAML file on top of the defaults
func LoadFromFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	config := DefaultConfig()
	if err := yaml.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	return config, nil
}

// Load builds the configuration with layered precedence:
// 1. Default config
// 2. The file at path, or nyrakai.yaml in the working directory
// 3. .env in the working directory
// 4. Environment variables
func Load(path string) (*Config, error) {
	config := DefaultConfig()

	if path == "" {
		if _, err := os.Stat(ProjectConfigFile); err == nil {
			path = ProjectConfigFile
		}
	}
	if path != "" {
		fileConfig, err := LoadFromFile(path)
		if err != nil {
			return nil, err
		}
		config = fileConfig
	}

	_ = godotenv.Load()
	config.ApplyEnv()

	if err := config.Validate(); err != nil {
		return nil, err
	}
	return config, nil
}

// ApplyEnv overrides settings from NYRAKAI_* environment variables.
func (c *Config) ApplyEnv() {
	if v := strings.TrimSpace(os.Getenv(EnvDataDir)); v != "" {
		c.Rules.DataDir = v
	}
	if v := strings.TrimSpace(os.Getenv(EnvDictionary)); v != "" {
		var paths []string
		for _, p := range strings.Split(v, ",") {
			if p = strings.TrimSpace(p); p != "" {
				paths = append(paths, p)
			}
		}
		c.Dictionary.Paths = paths
	}
	if v := strings.TrimSpace(os.Getenv(EnvAddr)); v != "" {
		if !strings.Contains(v, ":") {
			v = ":" + v
		}
		c.Server.Addr = v
	}
	if v := strings.TrimSpace(os.Getenv(EnvLogLevel)); v != "" {
		c.Log.Level = v
	}
}

// Engine returns the rule engine selected by Rules.DataDir.
func (c *Config) Engine() (*nyrakai.Engine, error) {
	if c.Rules.DataDir == "" {
		return nyrakai.Default()
	}
	e, err := nyrakai.New(c.Rules.DataDir)
	if err != nil {
		return nil, fmt.Errorf("load rules from %s: %w", c.Rules.DataDir, err)
	}
	return e, nil
}

// ParseLevel maps a level name to a slog.Level.
func ParseLevel(name string) (slog.Level, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "debug":
		return slog.LevelDebug, nil
	case "", "info":
		return slog.LevelInfo, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	}
	return slog.LevelInfo, fmt.Errorf("log.level must be debug, info, warn or error, got %q", name)
}

// NewLogger returns a text logger writing to w at the configured level.
func (c *Config) NewLogger(w io.Writer) *slog.Logger {
	level, _ := ParseLevel(c.Log.Level)
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
}
