package server

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/fzzzy/mumulib/internal/errors"
	"github.com/fzzzy/mumulib/pkg/metrics"
	"github.com/prometheus/client_golang/prometheus"
)

// ClientScriptPath is where the thin client is served.
const ClientScriptPath = "/_mumu/client.js"

// Config holds server configuration.
type Config struct {
	// Address is the listen address. Default: ":3000".
	Address string

	// Title is the page title.
	Title string

	// Lang is the html lang attribute. Default: "en".
	Lang string

	// HTTP timeouts

	// ReadHeaderTimeout bounds reading request headers.
	// Default: 5 seconds.
	ReadHeaderTimeout time.Duration

	// IdleTimeout is the keep-alive timeout for HTTP connections.
	// Default: 120 seconds.
	IdleTimeout time.Duration

	// ShutdownTimeout bounds graceful shutdown.
	// Default: 10 seconds.
	ShutdownTimeout time.Duration

	// WebSocket settings

	// ReadBufferSize and WriteBufferSize size the upgrader's buffers.
	// Default: 1024 each.
	ReadBufferSize  int
	WriteBufferSize int

	// MaxMessageSize is the largest client message accepted.
	// Default: 64KB.
	MaxMessageSize int64

	// SendBuffer is the number of outgoing messages queued per connection.
	// A connection that falls further behind is closed. Default: 64.
	SendBuffer int

	// WriteTimeout bounds a single WebSocket write.
	// Default: 10 seconds.
	WriteTimeout time.Duration

	// HeartbeatInterval is the time between pings.
	// Default: 30 seconds.
	HeartbeatInterval time.Duration

	// PongTimeout is how long to wait for any client message or pong.
	// Default: 60 seconds.
	PongTimeout time.Duration

	// CheckOrigin validates the Origin header of upgrade requests.
	// Default: same-origin check of gorilla/websocket.
	CheckOrigin func(r *http.Request) bool

	// Gatherer is exposed at /metrics. Nil disables the endpoint.
	Gatherer prometheus.Gatherer

	// Metrics records connection metrics. Default: metrics.Default().
	Metrics *metrics.Recorder

	// Logger is the server logger.
	Logger *slog.Logger
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		Address:           ":3000",
		Lang:              "en",
		ReadHeaderTimeout: 5 * time.Second,
		IdleTimeout:       120 * time.Second,
		ShutdownTimeout:   10 * time.Second,
		ReadBufferSize:    1024,
		WriteBufferSize:   1024,
		MaxMessageSize:    64 * 1024, // 64KB
		SendBuffer:        64,
		WriteTimeout:      10 * time.Second,
		HeartbeatInterval: 30 * time.Second,
		PongTimeout:       60 * time.Second,
		Gatherer:          prometheus.DefaultGatherer,
	}
}

// Clone returns a copy of the Config.
func (c *Config) Clone() *Config {
	if c == nil {
		return nil
	}
	clone := *c
	return &clone
}

// applyDefaults fills zero values from DefaultConfig.
func (c *Config) applyDefaults() {
	d := DefaultConfig()
	if c.Address == "" {
		c.Address = d.Address
	}
	if c.Lang == "" {
		c.Lang = d.Lang
	}
	if c.ReadHeaderTimeout == 0 {
		c.ReadHeaderTimeout = d.ReadHeaderTimeout
	}
	if c.IdleTimeout == 0 {
		c.IdleTimeout = d.IdleTimeout
	}
	if c.ShutdownTimeout == 0 {
		c.ShutdownTimeout = d.ShutdownTimeout
	}
	if c.ReadBufferSize == 0 {
		c.ReadBufferSize = d.ReadBufferSize
	}
	if c.WriteBufferSize == 0 {
		c.WriteBufferSize = d.WriteBufferSize
	}
	if c.MaxMessageSize == 0 {
		c.MaxMessageSize = d.MaxMessageSize
	}
	if c.SendBuffer == 0 {
		c.SendBuffer = d.SendBuffer
	}
	if c.WriteTimeout == 0 {
		c.WriteTimeout = d.WriteTimeout
	}
	if c.HeartbeatInterval == 0 {
		c.HeartbeatInterval = d.HeartbeatInterval
	}
	if c.PongTimeout == 0 {
		c.PongTimeout = d.PongTimeout
	}
}

// ValidateConfig checks the configuration for values that cannot work.
func (c *Config) ValidateConfig() error {
	if c.PongTimeout <= c.HeartbeatInterval {
		return errors.New("M041").
			WithDetailf("pong timeout %v must exceed heartbeat interval %v", c.PongTimeout, c.HeartbeatInterval)
	}
	if c.SendBuffer < 1 {
		return errors.New("M041").WithDetail("send buffer must be at least 1")
	}
	return nil
}
