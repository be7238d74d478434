package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

const (
	EnvServerHost              = "FACTURAS_SERVER_HOST"
	EnvServerPort              = "FACTURAS_SERVER_PORT"
	EnvServerReadTimeout       = "FACTURAS_SERVER_READ_TIMEOUT"
	EnvServerReadHeaderTimeout = "FACTURAS_SERVER_READ_HEADER_TIMEOUT"
	EnvServerWriteTimeout      = "FACTURAS_SERVER_WRITE_TIMEOUT"
	EnvServerIdleTimeout       = "FACTURAS_SERVER_IDLE_TIMEOUT"
	EnvServerRequestTimeout    = "FACTURAS_SERVER_REQUEST_TIMEOUT"
)

// ServerConfig holds HTTP listener parameters. RequestTimeout bounds the
// context of each API request, covering the download and both extractor
// calls, and must leave room inside WriteTimeout to write the response.
type ServerConfig struct {
	Host              string `toml:"host"`
	Port              int    `toml:"port"`
	ReadTimeout       string `toml:"read_timeout"`
	ReadHeaderTimeout string `toml:"read_header_timeout"`
	WriteTimeout      string `toml:"write_timeout"`
	IdleTimeout       string `toml:"idle_timeout"`
	RequestTimeout    string `toml:"request_timeout"`
}

// Addr returns the host:port listen address.
func (c *ServerConfig) Addr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// ReadTimeoutDuration and its siblings return the parsed timeouts. Finalize
// guarantees they parse.
func (c *ServerConfig) ReadTimeoutDuration() time.Duration { return duration(c.ReadTimeout) }
func (c *ServerConfig) ReadHeaderTimeoutDuration() time.Duration { return duration(c.ReadHeaderTimeout) }
func (c *ServerConfig) WriteTimeoutDuration() time.Duration { return duration(c.WriteTimeout) }
func (c *ServerConfig) IdleTimeoutDuration() time.Duration { return duration(c.IdleTimeout) }
func (c *ServerConfig) RequestTimeoutDuration() time.Duration { return duration(c.RequestTimeout) }

// Finalize applies defaults, environment variable overrides, and validation.
func (c *ServerConfig) Finalize() error {
	c.loadDefaults()
	c.loadEnv()
	return c.validate()
}

// Merge overwrites non-zero fields from overlay.
func (c *ServerConfig) Merge(overlay *ServerConfig) {
	if overlay.Host != "" {
		c.Host = overlay.Host
	}
	if overlay.Port != 0 {
		c.Port = overlay.Port
	}
	for _, f := range c.durations() {
		if v := *f.overlay(overlay); v != "" {
			*f.value = v
		}
	}
}

type durationField struct {
	name    string
	env     string
	def     string
	value   *string
	overlay func(*ServerConfig) *string
}

func (c *ServerConfig) durations() []durationField {
	return []durationField{
		{"read_timeout", EnvServerReadTimeout, "1m", &c.ReadTimeout, func(o *ServerConfig) *string { return &o.ReadTimeout }},
		{"read_header_timeout", EnvServerReadHeaderTimeout, "10s", &c.ReadHeaderTimeout, func(o *ServerConfig) *string { return &o.ReadHeaderTimeout }},
		{"write_timeout", EnvServerWriteTimeout, "5m", &c.WriteTimeout, func(o *ServerConfig) *string { return &o.WriteTimeout }},
		{"idle_timeout", EnvServerIdleTimeout, "2m", &c.IdleTimeout, func(o *ServerConfig) *string { return &o.IdleTimeout }},
		{"request_timeout", EnvServerRequestTimeout, "4m", &c.RequestTimeout, func(o *ServerConfig) *string { return &o.RequestTimeout }},
	}
}

func (c *ServerConfig) loadDefaults() {
	if c.Host == "" {
		c.Host = "0.0.0.0"
	}
	if c.Port == 0 {
		c.Port = 8080
	}
	for _, f := range c.durations() {
		if *f.value == "" {
			*f.value = f.def
		}
	}
}

func (c *ServerConfig) loadEnv() {
	if v := os.Getenv(EnvServerHost); v != "" {
		c.Host = v
	}
	if v := os.Getenv(EnvServerPort); v != "" {
		if port, err := strconv.Atoi(v); err == nil {
			c.Port = port
		}
	}
	for _, f := range c.durations() {
		if v := os.Getenv(f.env); v != "" {
			*f.value = v
		}
	}
}

func (c *ServerConfig) validate() error {
	if c.Port < 1 || c.Port > 65535 {
		return fmt.Errorf("invalid port: %d", c.Port)
	}
	for _, f := range c.durations() {
		d, err := time.ParseDuration(*f.value)
		if err != nil {
			return fmt.Errorf("invalid %s: %w", f.name, err)
		}
		if d < 0 {
			return fmt.Errorf("invalid %s: must not be negative", f.name)
		}
	}

	write, request := c.WriteTimeoutDuration(), c.RequestTimeoutDuration()
	if write > 0 && request >= write {
		return fmt.Errorf("invalid request_timeout: %s must be shorter than write_timeout %s", c.RequestTimeout, c.WriteTimeout)
	}
	return nil
}

func duration(s string) time.Duration {
	d, _ := time.ParseDuration(s)
	return d
}
