package config

import (
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/bytedance/sonic"
	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"

	"github.com/vango-dev/weave/internal/errors"
)

const (
	// ConfigFileName is the name of the configuration file.
	ConfigFileName = "weave.json"

	// EnvFileName is the dotenv file read next to the configuration file.
	EnvFileName = ".env"

	// DefaultAddr is the default listen address.
	DefaultAddr = ":3000"

	// DefaultPartialPrefix is the default mount path of the partial dispatcher.
	DefaultPartialPrefix = "/_partials"

	// DefaultLang is the default document language.
	DefaultLang = "en"

	// DefaultClientScript is the default partial-swapping client.
	DefaultClientScript = "https://unpkg.com/htmx.org@1.9.12"

	// DefaultRenderTimeout bounds one page render.
	DefaultRenderTimeout = 10 * time.Second

	// DefaultMetricsPath is where Prometheus metrics are exposed.
	DefaultMetricsPath = "/metrics"
)

// Config represents the complete weave.json configuration. Every field can
// be overridden by an environment variable.
type Config struct {
	// Addr is the HTTP listen address.
	Addr string `json:"addr,omitempty" env:"WEAVE_ADDR"`

	// PartialPrefix is the path the partial dispatcher is mounted on.
	PartialPrefix string `json:"partialPrefix,omitempty" env:"WEAVE_PARTIAL_PREFIX"`

	// Lang is the default document language.
	Lang string `json:"lang,omitempty" env:"WEAVE_LANG"`

	// ClientScript is the URL of the client script injected into pages.
	ClientScript string `json:"clientScript,omitempty" env:"WEAVE_CLIENT_SCRIPT"`

	// RenderTimeout bounds one page render or partial dispatch ("10s").
	RenderTimeout Duration `json:"renderTimeout,omitempty" env:"WEAVE_RENDER_TIMEOUT"`

	// MaxConcurrency bounds concurrently running async components per
	// render pass. Zero means unbounded.
	MaxConcurrency int `json:"maxConcurrency,omitempty" env:"WEAVE_MAX_CONCURRENCY"`

	// MetricsPath is where Prometheus metrics are served. "-" disables them.
	MetricsPath string `json:"metricsPath,omitempty" env:"WEAVE_METRICS_PATH"`

	// Tracing enables OpenTelemetry spans for renders and requests.
	Tracing bool `json:"tracing,omitempty" env:"WEAVE_TRACING"`

	// Log contains logging configuration.
	Log LogConfig `json:"log,omitempty" envPrefix:"WEAVE_LOG_"`

	// configPath stores the path where the config was loaded from.
	configPath string
}

// LogConfig contains logging configuration.
type LogConfig struct {
	// Level is one of debug, info, warn, error.
	Level string `json:"level,omitempty" env:"LEVEL"`

	// Format is text or json.
	Format string `json:"format,omitempty" env:"FORMAT"`
}

// Duration is a time.Duration written as a string such as "10s".
type Duration time.Duration

// UnmarshalText implements encoding.TextUnmarshaler.
func (d *Duration) UnmarshalText(b []byte) error {
	v, err := time.ParseDuration(string(b))
	if err != nil {
		return err
	}
	*d = Duration(v)
	return nil
}

// MarshalText implements encoding.TextMarshaler.
func (d Duration) MarshalText() ([]byte, error) {
	return []byte(time.Duration(d).String()), nil
}

// Std returns the value as a time.Duration.
func (d Duration) Std() time.Duration {
	return time.Duration(d)
}

// New creates a new Config with default values.
func New() *Config {
	cfg := &Config{}
	cfg.applyDefaults()
	return cfg
}

// Load reads configuration for the project in dir.
//
// Sources, later ones winning: defaults, weave.json, .env in dir,
// then the process environment. A missing weave.json or .env is not an
// error. The result is validated.
func Load(dir string) (*Config, error) {
	cfg := &Config{}

	path := filepath.Join(dir, ConfigFileName)
	if err := cfg.readFile(path); err != nil {
		return nil, err
	}

	// godotenv never overrides variables already set in the environment
	envPath := filepath.Join(dir, EnvFileName)
	if _, err := os.Stat(envPath); err == nil {
		if err := godotenv.Load(envPath); err != nil {
			return nil, errors.New(errors.CodeConfigRead).
				WithDetail(envPath).
				Wrap(err)
		}
	}

	if err := env.Parse(cfg); err != nil {
		return nil, errors.New(errors.CodeConfigInvalid).
			WithDetail("environment").
			Wrap(err)
	}

	cfg.applyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// LoadFile reads configuration from the specified file path only.
func LoadFile(path string) (*Config, error) {
	cfg := &Config{}
	if _, err := os.Stat(path); err != nil {
		return nil, errors.New(errors.CodeConfigRead).
			WithDetail("No " + ConfigFileName + " found at " + path).
			Wrap(err)
	}
	if err := cfg.readFile(path); err != nil {
		return nil, err
	}
	cfg.applyDefaults()
	return cfg, nil
}

func (c *Config) readFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return errors.New(errors.CodeConfigRead).Wrap(err)
	}
	if err := sonic.ConfigStd.Unmarshal(data, c); err != nil {
		return errors.New(errors.CodeConfigRead).
			WithDetail("Failed to parse " + path).
			Wrap(err)
	}
	c.configPath = path
	return nil
}

// JSON returns the configuration as indented JSON.
func (c *Config) JSON() ([]byte, error) {
	data, err := sonic.ConfigStd.MarshalIndent(c, "", "  ")
	if err != nil {
		return nil, errors.New(errors.CodeConfigInvalid).Wrap(err)
	}
	return append(data, '\n'), nil
}

// Path returns the path where the config was loaded from, or "" when no
// file was read.
func (c *Config) Path() string {
	return c.configPath
}

// applyDefaults fills in default values for unset fields.
func (c *Config) applyDefaults() {
	if c.Addr == "" {
		c.Addr = DefaultAddr
	}
	if c.PartialPrefix == "" {
		c.PartialPrefix = DefaultPartialPrefix
	}
	if c.Lang == "" {
		c.Lang = DefaultLang
	}
	if c.ClientScript == "" {
		c.ClientScript = DefaultClientScript
	}
	if c.RenderTimeout == 0 {
		c.RenderTimeout = Duration(DefaultRenderTimeout)
	}
	if c.MetricsPath == "" {
		c.MetricsPath = DefaultMetricsPath
	}
	if c.Log.Level == "" {
		c.Log.Level = "info"
	}
	if c.Log.Format == "" {
		c.Log.Format = "text"
	}
}

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	invalid := func(detail string) error {
		return errors.New(errors.CodeConfigInvalid).WithDetail(detail)
	}

	if !strings.HasPrefix(c.PartialPrefix, "/") {
		return invalid("partialPrefix must start with '/'")
	}
	if c.MetricsPath != "-" && !strings.HasPrefix(c.MetricsPath, "/") {
		return invalid("metricsPath must start with '/' or be '-'")
	}
	if c.RenderTimeout < 0 {
		return invalid("renderTimeout must not be negative")
	}
	if c.MaxConcurrency < 0 {
		return invalid("maxConcurrency must not be negative")
	}
	if _, ok := logLevels[strings.ToLower(c.Log.Level)]; !ok {
		return invalid("log.level must be one of debug, info, warn, error")
	}
	switch c.Log.Format {
	case "text", "json":
	default:
		return invalid("log.format must be text or json")
	}
	return nil
}

// MetricsEnabled reports whether the metrics endpoint is served.
func (c *Config) MetricsEnabled() bool {
	return c.MetricsPath != "-"
}

var logLevels = map[string]slog.Level{
	"debug": slog.LevelDebug,
	"info":  slog.LevelInfo,
	"warn":  slog.LevelWarn,
	"error": slog.LevelError,
}

// Logger builds the process logger described by the log section.
func (c *Config) Logger(w io.Writer) *slog.Logger {
	opts := &slog.HandlerOptions{Level: logLevels[strings.ToLower(c.Log.Level)]}
	if c.Log.Format == "json" {
		return slog.New(slog.NewJSONHandler(w, opts))
	}
	return slog.New(slog.NewTextHandler(w, opts))
}

// Exists reports whether dir contains a configuration file.
func Exists(dir string) bool {
	_, err := os.Stat(filepath.Join(dir, ConfigFileName))
	return err == nil
}
