package storage

import (
	"fmt"
	"os"
	"slices"
	"strconv"

	"github.com/JaimeStill/facturas/pkg/formatting"
)

// Supported storage providers.
const (
	ProviderSupabase = "supabase"
	ProviderAzure    = "azure"
	ProviderS3       = "s3"
)

var providers = []string{ProviderSupabase, ProviderAzure, ProviderS3}

// Config holds object storage connection parameters. Only the fields of the
// selected provider are read.
type Config struct {
	Provider        string `toml:"provider"`
	MaxDownloadSize string `toml:"max_download_size"`

	// supabase
	URL            string `toml:"url"`
	ServiceRoleKey string `toml:"service_role_key"`

	// azure
	ConnectionString string `toml:"connection_string"`
	AccountURL       string `toml:"account_url"`

	// s3
	Endpoint  string `toml:"endpoint"`
	AccessKey string `toml:"access_key"`
	SecretKey string `toml:"secret_key"`
	Region    string `toml:"region"`
	UseSSL    *bool  `toml:"use_ssl"`
}

// Env maps config fields to environment variable names for override injection.
type Env struct {
	Provider         string
	MaxDownloadSize  string
	URL              string
	ServiceRoleKey   string
	ConnectionString string
	AccountURL       string
	Endpoint         string
	AccessKey        string
	SecretKey        string
	Region           string
	UseSSL           string
}

// Finalize applies defaults, environment variable overrides, and validation.
// Credentials are not validated here; a provider missing them reports
// ErrNotConfigured on Download.
func (c *Config) Finalize(env *Env) error {
	c.loadDefaults()
	if env != nil {
		c.loadEnv(env)
	}
	return c.validate()
}

// Merge overwrites non-zero fields from overlay.
func (c *Config) Merge(overlay *Config) {
	if overlay.Provider != "" {
		c.Provider = overlay.Provider
	}
	if overlay.MaxDownloadSize != "" {
		c.MaxDownloadSize = overlay.MaxDownloadSize
	}
	if overlay.URL != "" {
		c.URL = overlay.URL
	}
	if overlay.ServiceRoleKey != "" {
		c.ServiceRoleKey = overlay.ServiceRoleKey
	}
	if overlay.ConnectionString != "" {
		c.ConnectionString = overlay.ConnectionString
	}
	if overlay.AccountURL != "" {
		c.AccountURL = overlay.AccountURL
	}
	if overlay.Endpoint != "" {
		c.Endpoint = overlay.Endpoint
	}
	if overlay.AccessKey != "" {
		c.AccessKey = overlay.AccessKey
	}
	if overlay.SecretKey != "" {
		c.SecretKey = overlay.SecretKey
	}
	if overlay.Region != "" {
		c.Region = overlay.Region
	}
	if overlay.UseSSL != nil {
		c.UseSSL = overlay.UseSSL
	}
}

// MaxDownloadSizeBytes returns MaxDownloadSize in bytes.
func (c *Config) MaxDownloadSizeBytes() int64 {
	size, err := formatting.ParseBytes(c.MaxDownloadSize)
	if err != nil {
		return 25 * 1024 * 1024
	}
	return size
}

// SSL reports whether the s3 provider uses TLS. Defaults to true.
func (c *Config) SSL() bool {
	return c.UseSSL == nil || *c.UseSSL
}

func (c *Config) loadDefaults() {
	if c.Provider == "" {
		c.Provider = ProviderSupabase
	}
	if c.MaxDownloadSize == "" {
		c.MaxDownloadSize = "25MB"
	}
}

func (c *Config) loadEnv(env *Env) {
	set := func(name string, target *string) {
		if name == "" {
			return
		}
		if v := os.Getenv(name); v != "" {
			*target = v
		}
	}

	set(env.Provider, &c.Provider)
	set(env.MaxDownloadSize, &c.MaxDownloadSize)
	set(env.URL, &c.URL)
	set(env.ServiceRoleKey, &c.ServiceRoleKey)
	set(env.ConnectionString, &c.ConnectionString)
	set(env.AccountURL, &c.AccountURL)
	set(env.Endpoint, &c.Endpoint)
	set(env.AccessKey, &c.AccessKey)
	set(env.SecretKey, &c.SecretKey)
	set(env.Region, &c.Region)

	if env.UseSSL != "" {
		if v := os.Getenv(env.UseSSL); v != "" {
			if b, err := strconv.ParseBool(v); err == nil {
				c.UseSSL = &b
			}
		}
	}
}

func (c *Config) validate() error {
	if !slices.Contains(providers, c.Provider) {
		return fmt.Errorf("unknown provider %q", c.Provider)
	}
	if _, err := formatting.ParseBytes(c.MaxDownloadSize); err != nil {
		return fmt.Errorf("invalid max_download_size: %w", err)
	}
	return nil
}
