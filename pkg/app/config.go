package app

import (
	"io/fs"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
)

// Config holds the application bootstrap configuration.
type Config struct {
	// Address is the listen address. Default: ":8080".
	Address string

	// BasePath is the URL prefix stripped from request paths when the
	// application is served from a subdirectory. Default: "".
	BasePath string

	// Debug enables verbose error pages and debug logging.
	Debug bool

	// ReadTimeout is the maximum duration for reading a request.
	// Default: 10 seconds.
	ReadTimeout time.Duration

	// WriteTimeout is the maximum duration before timing out a write.
	// Default: 30 seconds.
	WriteTimeout time.Duration

	// IdleTimeout is the keep-alive idle timeout. Default: 2 minutes.
	IdleTimeout time.Duration

	// ShutdownTimeout bounds graceful shutdown. Default: 15 seconds.
	ShutdownTimeout time.Duration

	// MetricsPath serves Prometheus metrics on the same listener.
	// Default: "/metrics". Empty disables the endpoint.
	MetricsPath string

	// MetricsRegistry receives the app's metrics. Default: the global
	// Prometheus registry. Tests pass their own to avoid collisions.
	MetricsRegistry *prometheus.Registry

	// EnableTracing starts an OpenTelemetry span per dispatch.
	EnableTracing bool

	// StaticFS serves static assets when non-nil. Requests under
	// StaticPrefix that resolve to a file in StaticFS bypass the
	// router.
	StaticFS fs.FS

	// StaticPrefix is the URL prefix for static assets.
	// Default: "/static/".
	StaticPrefix string
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		Address:         ":8080",
		ReadTimeout:     10 * time.Second,
		WriteTimeout:    30 * time.Second,
		IdleTimeout:     2 * time.Minute,
		ShutdownTimeout: 15 * time.Second,
		MetricsPath:     "/metrics",
		StaticPrefix:    "/static/",
	}
}

// ConfigFromEnv builds a Config from VOLT_* environment variables,
// loading a .env file first when one exists. Unset variables keep their
// defaults.
//
//	VOLT_ADDR          listen address
//	VOLT_BASE_PATH     subdirectory prefix
//	VOLT_DEBUG         "true" enables debug mode
//	VOLT_METRICS_PATH  metrics endpoint ("off" disables)
//	VOLT_TRACING       "true" enables tracing
func ConfigFromEnv() *Config {
	_ = godotenv.Load()

	cfg := DefaultConfig()
	if v := os.Getenv("VOLT_ADDR"); v != "" {
		cfg.Address = v
	}
	if v := os.Getenv("VOLT_BASE_PATH"); v != "" {
		cfg.BasePath = v
	}
	if v := os.Getenv("VOLT_DEBUG"); v != "" {
		cfg.Debug, _ = strconv.ParseBool(v)
	}
	if v := os.Getenv("VOLT_METRICS_PATH"); v != "" {
		if v == "off" {
			cfg.MetricsPath = ""
		} else {
			cfg.MetricsPath = v
		}
	}
	if v := os.Getenv("VOLT_TRACING"); v != "" {
		cfg.EnableTracing, _ = strconv.ParseBool(v)
	}
	return cfg
}

func (c *Config) fillDefaults() {
	defaults := DefaultConfig()
	if c.Address == "" {
		c.Address = defaults.Address
	}
	if c.ReadTimeout == 0 {
		c.ReadTimeout = defaults.ReadTimeout
	}
	if c.WriteTimeout == 0 {
		c.WriteTimeout = defaults.WriteTimeout
	}
	if c.IdleTimeout == 0 {
		c.IdleTimeout = defaults.IdleTimeout
	}
	if c.ShutdownTimeout == 0 {
		c.ShutdownTimeout = defaults.ShutdownTimeout
	}
	if c.StaticPrefix == "" {
		c.StaticPrefix = defaults.StaticPrefix
	}
}
