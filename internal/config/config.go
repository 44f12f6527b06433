package config

import (
	"encoding/json"
	"io"
	"log/slog"
	"net"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/vango-dev/props/internal/errors"
)

const (
	// ConfigFileName is the name of the configuration file.
	ConfigFileName = "props.json"

	// DefaultLogLevel is the default slog level name.
	DefaultLogLevel = "info"

	// DefaultLogFormat is the default log handler.
	DefaultLogFormat = "text"

	// DefaultMaxDepth is the default propagation depth bound of bindings.
	DefaultMaxDepth = 16

	// DefaultNamespace is the default Prometheus namespace.
	DefaultNamespace = "props"

	// DefaultMetricsAddr is the default listen address of `props serve`.
	DefaultMetricsAddr = "localhost:9090"

	// DefaultTracerName is the default OpenTelemetry tracer name.
	DefaultTracerName = "props"
)

// Config represents the complete props.json configuration.
type Config struct {
	// Log contains logging configuration.
	Log LogConfig `json:"log,omitempty"`

	// Binding contains binding defaults.
	Binding BindingConfig `json:"binding,omitempty"`

	// Metrics contains Prometheus configuration.
	Metrics MetricsConfig `json:"metrics,omitempty"`

	// Tracing contains OpenTelemetry configuration.
	Tracing TracingConfig `json:"tracing,omitempty"`

	// configPath stores the path where the config was loaded from.
	configPath string
}

// LogConfig contains logging settings.
type LogConfig struct {
	// Level is one of debug, info, warn, error.
	Level string `json:"level,omitempty"`

	// Format is text or json.
	Format string `json:"format,omitempty"`
}

// BindingConfig contains binding settings.
type BindingConfig struct {
	// MaxDepth bounds nested recomputes of a single binding.
	MaxDepth int `json:"maxDepth,omitempty"`
}

// MetricsConfig contains Prometheus settings.
type MetricsConfig struct {
	// Namespace prefixes every metric name.
	Namespace string `json:"namespace,omitempty"`

	// Subsystem is inserted between namespace and metric name when set.
	Subsystem string `json:"subsystem,omitempty"`

	// Addr is the host:port `props serve` listens on.
	Addr string `json:"addr,omitempty"`
}

// TracingConfig contains OpenTelemetry settings.
type TracingConfig struct {
	// Enabled turns on span creation for binding propagation.
	Enabled bool `json:"enabled,omitempty"`

	// TracerName is the instrumentation scope name.
	TracerName string `json:"tracerName,omitempty"`
}

// New creates a new Config with default values.
func New() *Config {
	return &Config{
		Log: LogConfig{
			Level:  DefaultLogLevel,
			Format: DefaultLogFormat,
		},
		Binding: BindingConfig{
			MaxDepth: DefaultMaxDepth,
		},
		Metrics: MetricsConfig{
			Namespace: DefaultNamespace,
			Addr:      DefaultMetricsAddr,
		},
		Tracing: TracingConfig{
			TracerName: DefaultTracerName,
		},
	}
}

// Load reads configuration from the specified directory.
// It looks for props.json in the directory.
func Load(dir string) (*Config, error) {
	return LoadFile(filepath.Join(dir, ConfigFileName))
}

// LoadOrDefault is Load, except that a missing props.json yields New().
func LoadOrDefault(dir string) (*Config, error) {
	if !Exists(dir) {
		return New(), nil
	}
	return Load(dir)
}

// LoadFile reads configuration from the specified file path.
func LoadFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.New("C001").
				WithDetail("No " + ConfigFileName + " found in " + filepath.Dir(path)).
				WithSuggestion("Run 'props config init' or create " + ConfigFileName + " manually")
		}
		return nil, errors.New("C001").Wrap(err)
	}

	cfg := New()
	if err := json.Unmarshal(data, cfg); err != nil {
		return nil, errors.New("C002").
			WithDetail("Failed to parse " + path + ": " + err.Error()).
			WithSuggestion("Check that " + ConfigFileName + " is valid JSON")
	}

	cfg.configPath = path
	cfg.applyDefaults()

	return cfg, nil
}

// Save writes the configuration to the file it was loaded from.
func (c *Config) Save() error {
	if c.configPath == "" {
		return errors.Newf(errors.CategoryConfig, "no config path set")
	}
	return c.SaveTo(c.configPath)
}

// SaveTo writes the configuration to the specified path.
func (c *Config) SaveTo(path string) error {
	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return errors.New("C002").Wrap(err)
	}

	// Add newline at end of file
	data = append(data, '\n')

	if err := os.WriteFile(path, data, 0644); err != nil {
		return errors.New("C001").Wrap(err)
	}

	c.configPath = path
	return nil
}

// Path returns the path where the config was loaded from.
func (c *Config) Path() string {
	return c.configPath
}

// Dir returns the directory containing the config file.
func (c *Config) Dir() string {
	if c.configPath == "" {
		return ""
	}
	return filepath.Dir(c.configPath)
}

// applyDefaults fills in default values for empty fields.
func (c *Config) applyDefaults() {
	if c.Log.Level == "" {
		c.Log.Level = DefaultLogLevel
	}
	if c.Log.Format == "" {
		c.Log.Format = DefaultLogFormat
	}
	c.Log.Level = strings.ToLower(c.Log.Level)
	c.Log.Format = strings.ToLower(c.Log.Format)

	if c.Binding.MaxDepth == 0 {
		c.Binding.MaxDepth = DefaultMaxDepth
	}

	if c.Metrics.Namespace == "" {
		c.Metrics.Namespace = DefaultNamespace
	}
	if c.Metrics.Addr == "" {
		c.Metrics.Addr = DefaultMetricsAddr
	}

	if c.Tracing.TracerName == "" {
		c.Tracing.TracerName = DefaultTracerName
	}
}

var metricNameRE = regexp.MustCompile(`^[a-zA-Z_][a-zA-Z0-9_]*$`)

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	if _, ok := levels[strings.ToLower(c.Log.Level)]; !ok {
		return errors.New("C003").
			WithDetail("log.level must be one of debug, info, warn, error, got " + c.Log.Level)
	}
	switch strings.ToLower(c.Log.Format) {
	case "text", "json":
	default:
		return errors.New("C003").
			WithDetail("log.format must be text or json, got " + c.Log.Format)
	}
	if c.Binding.MaxDepth < 1 {
		return errors.New("C003").
			WithDetailf("binding.maxDepth must be at least 1, got %d", c.Binding.MaxDepth)
	}
	if !metricNameRE.MatchString(c.Metrics.Namespace) {
		return errors.New("C003").
			WithDetail("metrics.namespace is not a valid Prometheus name: " + c.Metrics.Namespace)
	}
	if c.Metrics.Subsystem != "" && !metricNameRE.MatchString(c.Metrics.Subsystem) {
		return errors.New("C003").
			WithDetail("metrics.subsystem is not a valid Prometheus name: " + c.Metrics.Subsystem)
	}
	if _, _, err := net.SplitHostPort(c.Metrics.Addr); err != nil {
		return errors.New("C003").
			WithDetail("metrics.addr must be host:port, got " + c.Metrics.Addr).
			Wrap(err)
	}
	if c.Tracing.Enabled && c.Tracing.TracerName == "" {
		return errors.New("C003").
			WithDetail("tracing.tracerName must not be empty when tracing is enabled")
	}
	return nil
}

var levels = map[string]slog.Level{
	"debug": slog.LevelDebug,
	"info":  slog.LevelInfo,
	"warn":  slog.LevelWarn,
	"error": slog.LevelError,
}

// LogLevel returns the configured level, or slog.LevelInfo if unknown.
func (c *Config) LogLevel() slog.Level {
	if l, ok := levels[strings.ToLower(c.Log.Level)]; ok {
		return l
	}
	return slog.LevelInfo
}

// Logger builds a logger writing to w with the configured format and level.
func (c *Config) Logger(w io.Writer) *slog.Logger {
	opts := &slog.HandlerOptions{Level: c.LogLevel()}
	if strings.EqualFold(c.Log.Format, "json") {
		return slog.New(slog.NewJSONHandler(w, opts))
	}
	return slog.New(slog.NewTextHandler(w, opts))
}

// Exists checks if a config file exists in the given directory.
func Exists(dir string) bool {
	path := filepath.Join(dir, ConfigFileName)
	_, err := os.Stat(path)
	return err == nil
}
