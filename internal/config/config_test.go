package config

import (
	"bytes"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/vango-dev/props/internal/errors"
)

func TestNew(t *testing.T) {
	cfg := New()

	if cfg.Log.Level != DefaultLogLevel {
		t.Errorf("Log.Level = %q, want %q", cfg.Log.Level, DefaultLogLevel)
	}
	if cfg.Log.Format != DefaultLogFormat {
		t.Errorf("Log.Format = %q, want %q", cfg.Log.Format, DefaultLogFormat)
	}
	if cfg.Binding.MaxDepth != DefaultMaxDepth {
		t.Errorf("Binding.MaxDepth = %d, want %d", cfg.Binding.MaxDepth, DefaultMaxDepth)
	}
	if cfg.Metrics.Addr != DefaultMetricsAddr {
		t.Errorf("Metrics.Addr = %q, want %q", cfg.Metrics.Addr, DefaultMetricsAddr)
	}
	if cfg.Tracing.Enabled {
		t.Error("Tracing.Enabled should default to false")
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("default config should validate, got %v", err)
	}
}

func TestLoad(t *testing.T) {
	tmpDir := t.TempDir()

	// Test loading non-existent config
	_, err := Load(tmpDir)
	if err == nil {
		t.Fatal("Expected error for missing config")
	}
	if code := errors.CodeOf(err); code != "C001" {
		t.Errorf("expected C001, got %q", code)
	}

	configJSON := `{
  "log": {
    "level": "DEBUG",
    "format": "json"
  },
  "binding": {
    "maxDepth": 4
  },
  "tracing": {
    "enabled": true
  }
}
`
	if err := os.WriteFile(filepath.Join(tmpDir, ConfigFileName), []byte(configJSON), 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(tmpDir)
	if err != nil {
		t.Fatalf("Load error: %v", err)
	}

	if cfg.Log.Level != "debug" {
		t.Errorf("Log.Level = %q, want %q", cfg.Log.Level, "debug")
	}
	if cfg.Log.Format != "json" {
		t.Errorf("Log.Format = %q, want %q", cfg.Log.Format, "json")
	}
	if cfg.Binding.MaxDepth != 4 {
		t.Errorf("Binding.MaxDepth = %d, want 4", cfg.Binding.MaxDepth)
	}
	if !cfg.Tracing.Enabled {
		t.Error("Tracing.Enabled should be true")
	}
	// Missing sections are filled from defaults
	if cfg.Metrics.Namespace != DefaultNamespace {
		t.Errorf("Metrics.Namespace = %q, want %q", cfg.Metrics.Namespace, DefaultNamespace)
	}
	if cfg.Tracing.TracerName != DefaultTracerName {
		t.Errorf("Tracing.TracerName = %q, want %q", cfg.Tracing.TracerName, DefaultTracerName)
	}
	if cfg.Dir() != tmpDir {
		t.Errorf("Dir() = %q, want %q", cfg.Dir(), tmpDir)
	}
}

func TestLoadInvalidJSON(t *testing.T) {
	tmpDir := t.TempDir()
	if err := os.WriteFile(filepath.Join(tmpDir, ConfigFileName), []byte("{not json"), 0644); err != nil {
		t.Fatal(err)
	}

	_, err := Load(tmpDir)
	if code := errors.CodeOf(err); code != "C002" {
		t.Errorf("expected C002, got %q (%v)", code, err)
	}
}

func TestLoadOrDefault(t *testing.T) {
	cfg, err := LoadOrDefault(t.TempDir())
	if err != nil {
		t.Fatalf("LoadOrDefault error: %v", err)
	}
	if cfg.Path() != "" {
		t.Errorf("expected no path for default config, got %q", cfg.Path())
	}
	if cfg.Binding.MaxDepth != DefaultMaxDepth {
		t.Errorf("Binding.MaxDepth = %d, want %d", cfg.Binding.MaxDepth, DefaultMaxDepth)
	}
}

func TestSaveRoundTrip(t *testing.T) {
	tmpDir := t.TempDir()
	path := filepath.Join(tmpDir, ConfigFileName)

	cfg := New()
	if err := cfg.Save(); err == nil {
		t.Error("expected Save without a path to fail")
	}

	cfg.Metrics.Addr = ":9100"
	if err := cfg.SaveTo(path); err != nil {
		t.Fatalf("SaveTo error: %v", err)
	}
	if cfg.Path() != path {
		t.Errorf("Path() = %q, want %q", cfg.Path(), path)
	}

	loaded, err := LoadFile(path)
	if err != nil {
		t.Fatalf("LoadFile error: %v", err)
	}
	if loaded.Metrics.Addr != ":9100" {
		t.Errorf("Metrics.Addr = %q, want %q", loaded.Metrics.Addr, ":9100")
	}
	if !Exists(tmpDir) {
		t.Error("Exists should report the saved file")
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		modify func(*Config)
		detail string
	}{
		{"bad level", func(c *Config) { c.Log.Level = "loud" }, "log.level"},
		{"bad format", func(c *Config) { c.Log.Format = "xml" }, "log.format"},
		{"zero depth", func(c *Config) { c.Binding.MaxDepth = 0 }, "binding.maxDepth"},
		{"bad namespace", func(c *Config) { c.Metrics.Namespace = "my-app" }, "metrics.namespace"},
		{"bad subsystem", func(c *Config) { c.Metrics.Subsystem = "form.v2" }, "metrics.subsystem"},
		{"bad addr", func(c *Config) { c.Metrics.Addr = "9090" }, "metrics.addr"},
		{"empty tracer", func(c *Config) {
			c.Tracing.Enabled = true
			c.Tracing.TracerName = ""
		}, "tracing.tracerName"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := New()
			tt.modify(cfg)
			err := cfg.Validate()
			if err == nil {
				t.Fatal("expected validation error")
			}
			if code := errors.CodeOf(err); code != "C003" {
				t.Errorf("expected C003, got %q", code)
			}
			if !strings.Contains(err.Error(), tt.detail) {
				t.Errorf("expected error to mention %q, got %q", tt.detail, err.Error())
			}
		})
	}
}

func TestLogger(t *testing.T) {
	cfg := New()
	cfg.Log.Level = "warn"
	cfg.Log.Format = "json"

	if cfg.LogLevel() != slog.LevelWarn {
		t.Errorf("LogLevel() = %v, want %v", cfg.LogLevel(), slog.LevelWarn)
	}

	var buf bytes.Buffer
	logger := cfg.Logger(&buf)
	logger.Info("hidden")
	logger.Warn("shown", "k", "v")

	out := buf.String()
	if strings.Contains(out, "hidden") {
		t.Errorf("info record should be filtered, got %q", out)
	}
	if !strings.Contains(out, `"msg":"shown"`) {
		t.Errorf("expected JSON record, got %q", out)
	}
}
