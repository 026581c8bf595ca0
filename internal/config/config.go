// Package config provides configuration loading for the apply wizard.
package config

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// EnvConfigPath names the environment variable holding a config file path.
const EnvConfigPath = "APPLY_WIZARD_CONFIG"

// Snapshot backends.
const (
	BackendMemory = "memory"
	BackendRedis  = "redis"
)

// Config is the complete service configuration.
type Config struct {
	// DataDir holds the SQLite databases.
	DataDir   string          `yaml:"data_dir"`
	Log       LogConfig       `yaml:"log"`
	Snapshots SnapshotsConfig `yaml:"snapshots"`
	Metrics   MetricsConfig   `yaml:"metrics"`
	// Seed is an optional reference data file loaded at startup.
	Seed string `yaml:"seed"`
}

// LogConfig configures structured logging.
type LogConfig struct {
	// Level is one of debug, info, warn, error.
	Level string `yaml:"level"`
	// Format is text or json.
	Format string `yaml:"format"`
}

// SnapshotsConfig configures where failed-save snapshots are kept.
type SnapshotsConfig struct {
	Backend string        `yaml:"backend"`
	TTL     time.Duration `yaml:"ttl"`
	Redis   RedisConfig   `yaml:"redis"`
}

// RedisConfig configures the Redis snapshot backend.
type RedisConfig struct {
	Addr     string `yaml:"addr"`
	Password string `yaml:"password"`
	DB       int    `yaml:"db"`
}

// MetricsConfig configures the Prometheus endpoint.
type MetricsConfig struct {
	// Addr is the listen address; empty disables the endpoint.
	Addr string `yaml:"addr"`
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() *Config {
	home, _ := os.UserHomeDir()
	return &Config{
		DataDir: filepath.Join(home, ".apply-wizard"),
		Log: LogConfig{
			Level:  "info",
			Format: "text",
		},
		Snapshots: SnapshotsConfig{
			Backend: BackendMemory,
			TTL:     10 * time.Minute,
			Redis:   RedisConfig{Addr: "localhost:6379"},
		},
	}
}

// Validate checks that the configuration is usable.
func (c *Config) Validate() error {
	if c.DataDir == "" {
		return fmt.Errorf("data_dir is required")
	}
	if _, err := ParseLevel(c.Log.Level); err != nil {
		return err
	}
	if c.Log.Format != "text" && c.Log.Format != "json" {
		return fmt.Errorf("log.format must be text or json, got %q", c.Log.Format)
	}
	switch c.Snapshots.Backend {
	case BackendMemory:
	case BackendRedis:
		if c.Snapshots.Redis.Addr == "" {
			return fmt.Errorf("snapshots.redis.addr is required for the redis backend")
		}
	default:
		return fmt.Errorf("snapshots.backend must be %s or %s, got %q", BackendMemory, BackendRedis, c.Snapshots.Backend)
	}
	if c.Snapshots.TTL <= 0 {
		return fmt.Errorf("snapshots.ttl must be positive")
	}
	return nil
}

// LoadFromFile loads configuration from a YAML file on top of the defaults.
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

// Merge merges another config into this one (other takes precedence for
// non-zero values).
func (c *Config) Merge(other *Config) {
	if other == nil {
		return
	}
	if other.DataDir != "" {
		c.DataDir = other.DataDir
	}
	if other.Log.Level != "" {
		c.Log.Level = other.Log.Level
	}
	if other.Log.Format != "" {
		c.Log.Format = other.Log.Format
	}
	if other.Snapshots.Backend != "" {
		c.Snapshots.Backend = other.Snapshots.Backend
	}
	if other.Snapshots.TTL != 0 {
		c.Snapshots.TTL = other.Snapshots.TTL
	}
	if other.Snapshots.Redis.Addr != "" {
		c.Snapshots.Redis.Addr = other.Snapshots.Redis.Addr
	}
	if other.Snapshots.Redis.Password != "" {
		c.Snapshots.Redis.Password = other.Snapshots.Redis.Password
	}
	if other.Snapshots.Redis.DB != 0 {
		c.Snapshots.Redis.DB = other.Snapshots.Redis.DB
	}
	if other.Metrics.Addr != "" {
		c.Metrics.Addr = other.Metrics.Addr
	}
	if other.Seed != "" {
		c.Seed = other.Seed
	}
}

// Load returns the defaults overlaid with the file at path, or with the
// file named by APPLY_WIZARD_CONFIG when path is empty, then validates.
func Load(path string) (*Config, error) {
	if path == "" {
		path = os.Getenv(EnvConfigPath)
	}
	cfg := DefaultConfig()
	if path != "" {
		fileCfg, err := LoadFromFile(path)
		if err != nil {
			return nil, err
		}
		cfg = fileCfg
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

// ParseLevel maps a level name to a slog level.
func ParseLevel(s string) (slog.Level, error) {
	switch strings.ToLower(s) {
	case "debug":
		return slog.LevelDebug, nil
	case "info", "":
		return slog.LevelInfo, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	}
	return 0, fmt.Errorf("log.level must be debug, info, warn or error, got %q", s)
}

// Logger builds a logger writing to w. Stdout is the MCP transport, so
// callers pass stderr.
func (l LogConfig) Logger(w io.Writer) *slog.Logger {
	level, err := ParseLevel(l.Level)
	if err != nil {
		level = slog.LevelInfo
	}
	opts := &slog.HandlerOptions{Level: level}
	if l.Format == "json" {
		return slog.New(slog.NewJSONHandler(w, opts))
	}
	return slog.New(slog.NewTextHandler(w, opts))
}
