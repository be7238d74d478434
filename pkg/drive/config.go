package drive

import (
	"fmt"
	"net/url"
	"os"
	"strings"
)

// Config holds Drive API parameters.
type Config struct {
	BaseURL string `toml:"base_url"`
	Scope   string `toml:"scope"`
}

// Env maps config fields to environment variable names for override injection.
type Env struct {
	BaseURL string
	Scope   string
}

// Finalize applies defaults, environment variable overrides, and validation.
func (c *Config) Finalize(env *Env) error {
	c.loadDefaults()
	if env != nil {
		c.loadEnv(env)
	}
	return c.validate()
}

// Merge overwrites non-zero fields from overlay.
func (c *Config) Merge(overlay *Config) {
	if overlay.BaseURL != "" {
		c.BaseURL = overlay.BaseURL
	}
	if overlay.Scope != "" {
		c.Scope = overlay.Scope
	}
}

func (c *Config) loadDefaults() {
	if c.BaseURL == "" {
		c.BaseURL = DefaultBaseURL
	}
	if c.Scope == "" {
		c.Scope = DefaultScope
	}
}

func (c *Config) loadEnv(env *Env) {
	if env.BaseURL != "" {
		if v := os.Getenv(env.BaseURL); v != "" {
			c.BaseURL = v
		}
	}
	if env.Scope != "" {
		if v := os.Getenv(env.Scope); v != "" {
			c.Scope = v
		}
	}
}

func (c *Config) validate() error {
	c.BaseURL = strings.TrimRight(c.BaseURL, "/")
	u, err := url.Parse(c.BaseURL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf("invalid base_url %q: must be an absolute http(s) URL", c.BaseURL)
	}
	return nil
}
