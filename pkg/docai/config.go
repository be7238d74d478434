package docai

import (
	"fmt"
	"os"
	"time"
)

// DefaultScope is the OAuth scope requested for Document AI calls.
const DefaultScope = "https://www.googleapis.com/auth/cloud-platform"

// Config holds primary extractor connection parameters.
type Config struct {
	Endpoint     string `toml:"endpoint"`
	APIKey       string `toml:"api_key"`
	Scope        string `toml:"scope"`
	QuotaProject string `toml:"quota_project"`
	Timeout      string `toml:"timeout"`
}

// Env maps config fields to environment variable names for override injection.
type Env struct {
	Endpoint     string
	APIKey       string
	Scope        string
	QuotaProject string
	Timeout      string
}

// TimeoutDuration returns Timeout as a time.Duration.
func (c *Config) TimeoutDuration() time.Duration {
	d, _ := time.ParseDuration(c.Timeout)
	return d
}

// Finalize applies defaults, environment variable overrides, and validation.
// A missing endpoint is reported by Extract rather than here.
func (c *Config) Finalize(env *Env) error {
	c.loadDefaults()
	if env != nil {
		c.loadEnv(env)
	}
	return c.validate()
}

// Merge overwrites non-zero fields from overlay.
func (c *Config) Merge(overlay *Config) {
	if overlay.Endpoint != "" {
		c.Endpoint = overlay.Endpoint
	}
	if overlay.APIKey != "" {
		c.APIKey = overlay.APIKey
	}
	if overlay.Scope != "" {
		c.Scope = overlay.Scope
	}
	if overlay.QuotaProject != "" {
		c.QuotaProject = overlay.QuotaProject
	}
	if overlay.Timeout != "" {
		c.Timeout = overlay.Timeout
	}
}

func (c *Config) loadDefaults() {
	if c.Scope == "" {
		c.Scope = DefaultScope
	}
	if c.Timeout == "" {
		c.Timeout = "2m"
	}
}

func (c *Config) loadEnv(env *Env) {
	if env.Endpoint != "" {
		if v := os.Getenv(env.Endpoint); v != "" {
			c.Endpoint = v
		}
	}
	if env.APIKey != "" {
		if v := os.Getenv(env.APIKey); v != "" {
			c.APIKey = v
		}
	}
	if env.Scope != "" {
		if v := os.Getenv(env.Scope); v != "" {
			c.Scope = v
		}
	}
	if env.QuotaProject != "" {
		if v := os.Getenv(env.QuotaProject); v != "" {
			c.QuotaProject = v
		}
	}
	if env.Timeout != "" {
		if v := os.Getenv(env.Timeout); v != "" {
			c.Timeout = v
		}
	}
}

func (c *Config) validate() error {
	if _, err := time.ParseDuration(c.Timeout); err != nil {
		return fmt.Errorf("invalid timeout: %w", err)
	}
	return nil
}
