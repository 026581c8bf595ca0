package config

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(body), 0o600); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestDefaultConfig_IsValid(t *testing.T) {
	cfg := DefaultConfig()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("default config invalid: %v", err)
	}
	if cfg.Snapshots.Backend != BackendMemory {
		t.Errorf("Backend = %s, want memory", cfg.Snapshots.Backend)
	}
}

func TestLoadFromFile_OverlaysDefaults(t *testing.T) {
	path := writeConfig(t, `
data_dir: /tmp/wizard
snapshots:
  backend: redis
  ttl: 30s
  redis:
    addr: redis:6379
`)
	cfg, err := LoadFromFile(path)
	if err != nil {
		t.Fatalf("LoadFromFile: %v", err)
	}
	if cfg.DataDir != "/tmp/wizard" {
		t.Errorf("DataDir = %s", cfg.DataDir)
	}
	if cfg.Snapshots.TTL != 30*time.Second {
		t.Errorf("TTL = %s, want 30s", cfg.Snapshots.TTL)
	}
	if cfg.Log.Level != "info" {
		t.Errorf("Log.Level = %s, want default info", cfg.Log.Level)
	}
}

func TestLoadFromFile_Errors(t *testing.T) {
	if _, err := LoadFromFile(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Error("expected error for missing file")
	}
	if _, err := LoadFromFile(writeConfig(t, "data_dir: [")); err == nil {
		t.Error("expected error for bad yaml")
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
		want   string
	}{
		{"no data dir", func(c *Config) { c.DataDir = "" }, "data_dir"},
		{"bad level", func(c *Config) { c.Log.Level = "loud" }, "log.level"},
		{"bad format", func(c *Config) { c.Log.Format = "xml" }, "log.format"},
		{"bad backend", func(c *Config) { c.Snapshots.Backend = "disk" }, "snapshots.backend"},
		{"redis without addr", func(c *Config) {
			c.Snapshots.Backend = BackendRedis
			c.Snapshots.Redis.Addr = ""
		}, "snapshots.redis.addr"},
		{"zero ttl", func(c *Config) { c.Snapshots.TTL = 0 }, "snapshots.ttl"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(cfg)
			err := cfg.Validate()
			if err == nil || !strings.Contains(err.Error(), tt.want) {
				t.Errorf("Validate() = %v, want error mentioning %s", err, tt.want)
			}
		})
	}
}

func TestMerge(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Merge(&Config{Metrics: MetricsConfig{Addr: ":9090"}, Log: LogConfig{Level: "debug"}})
	if cfg.Metrics.Addr != ":9090" {
		t.Errorf("Metrics.Addr = %s", cfg.Metrics.Addr)
	}
	if cfg.Log.Level != "debug" {
		t.Errorf("Log.Level = %s", cfg.Log.Level)
	}
	if cfg.Log.Format != "text" {
		t.Errorf("zero values must not override, got format %q", cfg.Log.Format)
	}
	cfg.Merge(nil)
}

func TestLoad_UsesEnvironment(t *testing.T) {
	path := writeConfig(t, "log:\n  level: debug\n")
	t.Setenv(EnvConfigPath, path)

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Log.Level != "debug" {
		t.Errorf("Log.Level = %s, want debug", cfg.Log.Level)
	}

	t.Setenv(EnvConfigPath, writeConfig(t, "snapshots:\n  backend: disk\n"))
	if _, err := Load(""); err == nil {
		t.Error("expected validation error")
	}
}

func TestLogConfig_Logger(t *testing.T) {
	var buf bytes.Buffer
	logger := LogConfig{Level: "warn", Format: "json"}.Logger(&buf)
	logger.Info("hidden")
	logger.Warn("shown")
	out := buf.String()
	if strings.Contains(out, "hidden") || !strings.Contains(out, `"msg":"shown"`) {
		t.Errorf("unexpected log output: %s", out)
	}
}
