package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/goccy/go-yaml"
	"github.com/kelseyhightower/envconfig"
	"github.com/pelletier/go-toml/v2"
)

// DefaultFIFOPath is the channel path producer and reader agree on when
// nothing else is configured.
const DefaultFIFOPath = "/tmp/pipetrace_fifo"

// ErrUnsupportedFormat is returned for config files that are neither YAML nor TOML.
var ErrUnsupportedFormat = errors.New("unsupported config file format")

// Config holds all pipetrace configuration.
type Config struct {
	// File names an optional YAML or TOML file applied over the environment.
	File string `envconfig:"PIPETRACE_CONFIG" yaml:"-" toml:"-"`

	Channel ChannelConfig `yaml:"channel" toml:"channel"`
	Publish PublishConfig `yaml:"publish" toml:"publish"`
	Reader  ReaderConfig  `yaml:"reader" toml:"reader"`
	Trace   TraceConfig   `yaml:"trace" toml:"trace"`
	Logging LogConfig     `yaml:"logging" toml:"logging"`
	Metrics MetricsConfig `yaml:"metrics" toml:"metrics"`
}

// ChannelConfig holds the FIFO location and permissions.
type ChannelConfig struct {
	Path string `envconfig:"PIPETRACE_FIFO" default:"/tmp/pipetrace_fifo" yaml:"path" toml:"path"`
	Mode uint32 `envconfig:"PIPETRACE_FIFO_MODE" default:"0600" yaml:"mode" toml:"mode"`
}

// PublishConfig bounds how long a publish may stall the traced program.
type PublishConfig struct {
	OpenTimeout   time.Duration `envconfig:"PIPETRACE_OPEN_TIMEOUT" default:"1s" yaml:"open_timeout" toml:"open_timeout"`
	WriteTimeout  time.Duration `envconfig:"PIPETRACE_WRITE_TIMEOUT" default:"1s" yaml:"write_timeout" toml:"write_timeout"`
	ProbeInterval time.Duration `envconfig:"PIPETRACE_PROBE_INTERVAL" default:"2s" yaml:"probe_interval" toml:"probe_interval"`
	MaxFailures   uint32        `envconfig:"PIPETRACE_MAX_FAILURES" default:"1" yaml:"max_failures" toml:"max_failures"`
}

// ReaderConfig holds stream reader settings.
type ReaderConfig struct {
	ReopenDelay time.Duration `envconfig:"PIPETRACE_REOPEN_DELAY" default:"100ms" yaml:"reopen_delay" toml:"reopen_delay"`
	Color       string        `envconfig:"PIPETRACE_COLOR" default:"auto" yaml:"color" toml:"color"`
}

// TraceConfig holds call tracer settings.
type TraceConfig struct {
	// Include holds glob patterns over function names. Empty traces everything.
	Include []string `envconfig:"PIPETRACE_INCLUDE" yaml:"include" toml:"include"`
}

// LogConfig holds logging configuration.
type LogConfig struct {
	Level       string   `envconfig:"PIPETRACE_LOG_LEVEL" default:"info" yaml:"level" toml:"level"`
	Development bool     `envconfig:"PIPETRACE_LOG_DEV" default:"true" yaml:"development" toml:"development"`
	OutputPaths []string `envconfig:"PIPETRACE_LOG_OUTPUT" default:"stderr" yaml:"output_paths" toml:"output_paths"`
}

// MetricsConfig holds the optional Prometheus endpoint.
type MetricsConfig struct {
	Addr string `envconfig:"PIPETRACE_METRICS_ADDR" yaml:"addr" toml:"addr"`
}

// Load loads configuration from environment variables, then applies the
// file named by PIPETRACE_CONFIG if set.
func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	if cfg.File != "" {
		if err := cfg.ApplyFile(cfg.File); err != nil {
			return nil, err
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// LoadOrDefault loads configuration from environment or returns default.
func LoadOrDefault() *Config {
	cfg, err := Load()
	if err != nil {
		return Default()
	}
	return cfg
}

// Default returns default configuration.
func Default() *Config {
	return &Config{
		Channel: ChannelConfig{
			Path: DefaultFIFOPath,
			Mode: 0o600,
		},
		Publish: PublishConfig{
			OpenTimeout:   time.Second,
			WriteTimeout:  time.Second,
			ProbeInterval: 2 * time.Second,
			MaxFailures:   1,
		},
		Reader: ReaderConfig{
			ReopenDelay: 100 * time.Millisecond,
			Color:       "auto",
		},
		Logging: LogConfig{
			Level:       "info",
			Development: true,
			OutputPaths: []string{"stderr"},
		},
	}
}

// ApplyFile decodes a YAML or TOML file over the current values. Keys absent
// from the file keep their current value.
func (c *Config) ApplyFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read config file: %w", err)
	}

	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		err = yaml.Unmarshal(data, c)
	case ".toml":
		err = toml.Unmarshal(data, c)
	default:
		return fmt.Errorf("%w: %s", ErrUnsupportedFormat, path)
	}
	if err != nil {
		return fmt.Errorf("failed to parse config file %s: %w", path, err)
	}
	return nil
}

// Validate checks values that would otherwise fail late.
func (c *Config) Validate() error {
	if c.Channel.Path == "" {
		return errors.New("channel path must not be empty")
	}
	if c.Channel.Mode == 0 || c.Channel.Mode > 0o777 {
		return fmt.Errorf("invalid channel mode %#o", c.Channel.Mode)
	}
	if c.Publish.OpenTimeout < 0 || c.Publish.WriteTimeout < 0 || c.Reader.ReopenDelay < 0 {
		return errors.New("timeouts must not be negative")
	}
	switch c.Reader.Color {
	case "auto", "always", "never":
	default:
		return fmt.Errorf("invalid color mode %q", c.Reader.Color)
	}
	return nil
}

// FileMode returns the channel permissions as an os.FileMode.
func (c ChannelConfig) FileMode() os.FileMode {
	return os.FileMode(c.Mode) & os.ModePerm
}
