package config

import (
	"encoding/json"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/fzzzy/mumulib/internal/errors"
)

const (
	// ConfigFileName is the name of the configuration file.
	ConfigFileName = "mumu.json"

	// DefaultPort is the default server port.
	DefaultPort = 3000

	// DefaultHost is the default server host.
	DefaultHost = "localhost"

	// DefaultTemplate is the default template file.
	DefaultTemplate = "index.html"

	// DefaultFrameInterval is the default frame tick.
	DefaultFrameInterval = "16ms"

	// DefaultNamespace is the default metrics namespace.
	DefaultNamespace = "mumulib"
)

// Config represents the complete mumu.json configuration.
type Config struct {
	// Template configures where markup comes from.
	Template TemplateConfig `json:"template"`

	// Server contains HTTP server configuration.
	Server ServerConfig `json:"server"`

	// FrameInterval is the frame tick for coalesced notifications (e.g. "16ms").
	FrameInterval string `json:"frameInterval,omitempty"`

	// Log contains logging configuration.
	Log LogConfig `json:"log"`

	// Metrics contains Prometheus configuration.
	Metrics MetricsConfig `json:"metrics"`

	// Watch contains template file watching configuration.
	Watch WatchConfig `json:"watch"`

	// State is the initial application state.
	State map[string]any `json:"state,omitempty"`

	// configPath stores the path where the config was loaded from.
	configPath string
}

// TemplateConfig configures template sources.
type TemplateConfig struct {
	// File is the HTML page served as the live document.
	File string `json:"file,omitempty"`

	// URL is an alternate pattern source (http, https, file or s3).
	URL string `json:"url,omitempty"`
}

// ServerConfig contains HTTP server settings.
type ServerConfig struct {
	// Host is the host to bind to.
	Host string `json:"host,omitempty"`

	// Port is the port to listen on.
	Port int `json:"port,omitempty"`

	// Title is the page title.
	Title string `json:"title,omitempty"`
}

// LogConfig contains logging settings.
type LogConfig struct {
	// Level is one of debug, info, warn, error.
	Level string `json:"level,omitempty"`

	// Format is text or json.
	Format string `json:"format,omitempty"`
}

// MetricsConfig contains Prometheus settings.
type MetricsConfig struct {
	// Enabled exposes /metrics.
	Enabled bool `json:"enabled,omitempty"`

	// Namespace is the metrics namespace.
	Namespace string `json:"namespace,omitempty"`
}

// WatchConfig contains template watching settings.
type WatchConfig struct {
	// Enabled reloads the document when the template file changes.
	Enabled bool `json:"enabled,omitempty"`

	// Debounce is the quiet period before reloading (e.g. "100ms").
	Debounce string `json:"debounce,omitempty"`
}

// New creates a new Config with default values.
func New() *Config {
	return &Config{
		Template: TemplateConfig{
			File: DefaultTemplate,
		},
		Server: ServerConfig{
			Host: DefaultHost,
			Port: DefaultPort,
		},
		FrameInterval: DefaultFrameInterval,
		Log: LogConfig{
			Level:  "info",
			Format: "text",
		},
		Metrics: MetricsConfig{
			Enabled:   true,
			Namespace: DefaultNamespace,
		},
		Watch: WatchConfig{
			Debounce: "100ms",
		},
	}
}

// Load reads configuration from the specified directory.
// It looks for mumu.json in the directory.
func Load(dir string) (*Config, error) {
	return LoadFile(filepath.Join(dir, ConfigFileName))
}

// LoadFile reads configuration from the specified file path.
func LoadFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.New("M040").
				WithDetail("No mumu.json found in " + filepath.Dir(path))
		}
		return nil, errors.New("M041").Wrap(err)
	}

	cfg := New()
	if err := json.Unmarshal(data, cfg); err != nil {
		return nil, errors.New("M041").
			WithDetail("Failed to parse mumu.json: " + err.Error())
	}

	cfg.configPath = path
	cfg.applyDefaults()

	return cfg, nil
}

// SaveTo writes the configuration to the specified path.
func (c *Config) SaveTo(path string) error {
	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return errors.New("M041").Wrap(err)
	}
	data = append(data, '\n')

	if err := os.WriteFile(path, data, 0644); err != nil {
		return errors.New("M041").Wrap(err)
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
	if c.Template.File == "" && c.Template.URL == "" {
		c.Template.File = DefaultTemplate
	}
	if c.Server.Host == "" {
		c.Server.Host = DefaultHost
	}
	if c.Server.Port == 0 {
		c.Server.Port = DefaultPort
	}
	if c.FrameInterval == "" {
		c.FrameInterval = DefaultFrameInterval
	}
	if c.Log.Level == "" {
		c.Log.Level = "info"
	}
	if c.Log.Format == "" {
		c.Log.Format = "text"
	}
	if c.Metrics.Namespace == "" {
		c.Metrics.Namespace = DefaultNamespace
	}
	if c.Watch.Debounce == "" {
		c.Watch.Debounce = "100ms"
	}
}

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	if c.Server.Port < 0 || c.Server.Port > 65535 {
		return errors.New("M041").
			WithDetail("Port must be between 0 and 65535")
	}
	if c.Template.File == "" && c.Template.URL == "" {
		return errors.New("M041").
			WithDetail("Either template.file or template.url is required")
	}
	if d, err := time.ParseDuration(c.FrameInterval); err != nil || d <= 0 {
		return errors.New("M041").
			WithDetailf("frameInterval %q is not a positive duration", c.FrameInterval)
	}
	if _, err := time.ParseDuration(c.Watch.Debounce); err != nil {
		return errors.New("M041").
			WithDetailf("watch.debounce %q is not a duration", c.Watch.Debounce)
	}
	if _, err := parseLevel(c.Log.Level); err != nil {
		return errors.New("M041").WithDetail(err.Error())
	}
	if f := c.Log.Format; f != "text" && f != "json" {
		return errors.New("M041").
			WithDetailf("log.format %q must be text or json", f)
	}
	return nil
}

// Address returns the host:port the server listens on.
func (c *Config) Address() string {
	return c.Server.Host + ":" + strconv.Itoa(c.Server.Port)
}

// TemplatePath returns the template file path, resolved against the config
// directory. It is "" when no file is configured.
func (c *Config) TemplatePath() string {
	if c.Template.File == "" || filepath.IsAbs(c.Template.File) {
		return c.Template.File
	}
	return filepath.Join(c.Dir(), c.Template.File)
}

// Frame returns the frame interval. Call Validate first.
func (c *Config) Frame() time.Duration {
	d, _ := time.ParseDuration(c.FrameInterval)
	return d
}

// WatchDebounce returns the watch debounce. Call Validate first.
func (c *Config) WatchDebounce() time.Duration {
	d, _ := time.ParseDuration(c.Watch.Debounce)
	return d
}

// Logger builds the slog logger described by the log section.
func (c *Config) Logger(w io.Writer) *slog.Logger {
	level, _ := parseLevel(c.Log.Level)
	opts := &slog.HandlerOptions{Level: level}
	if c.Log.Format == "json" {
		return slog.New(slog.NewJSONHandler(w, opts))
	}
	return slog.New(slog.NewTextHandler(w, opts))
}

func parseLevel(s string) (slog.Level, error) {
	var level slog.Level
	err := level.UnmarshalText([]byte(strings.ToUpper(s)))
	return level, err
}
