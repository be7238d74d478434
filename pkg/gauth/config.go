package gauth

import (
	"os"
	"strings"
)

// DefaultTokenURL is the Google OAuth 2.0 token endpoint used as the JWT audience.
const DefaultTokenURL = "https://oauth2.googleapis.com/token"

// Config holds Google service-account credentials.
type Config struct {
	ProjectID   string `toml:"project_id"`
	ClientEmail string `toml:"client_email"`
	PrivateKey  string `toml:"private_key"`
	TokenURL    string `toml:"token_url"`
}

// Env maps config fields to environment variable names for override injection.
type Env struct {
	ProjectID   string
	ClientEmail string
	PrivateKey  string
	TokenURL    string
}

// Finalize applies defaults and environment variable overrides.
// Credentials are not required here; they are checked when a token is requested.
func (c *Config) Finalize(env *Env) error {
	c.loadDefaults()
	if env != nil {
		c.loadEnv(env)
	}
	return nil
}

// Merge overwrites non-zero fields from overlay.
func (c *Config) Merge(overlay *Config) {
	if overlay.ProjectID != "" {
		c.ProjectID = overlay.ProjectID
	}
	if overlay.ClientEmail != "" {
		c.ClientEmail = overlay.ClientEmail
	}
	if overlay.PrivateKey != "" {
		c.PrivateKey = overlay.PrivateKey
	}
	if overlay.TokenURL != "" {
		c.TokenURL = overlay.TokenURL
	}
}

// PrivateKeyPEM returns the private key with escaped newlines expanded,
// which is how keys usually arrive through environment variables.
func (c *Config) PrivateKeyPEM() []byte {
	return []byte(strings.ReplaceAll(c.PrivateKey, `\n`, "\n"))
}

func (c *Config) missing() []string {
	var names []string
	if c.ProjectID == "" {
		names = append(names, "project_id")
	}
	if c.ClientEmail == "" {
		names = append(names, "client_email")
	}
	if c.PrivateKey == "" {
		names = append(names, "private_key")
	}
	return names
}

func (c *Config) loadDefaults() {
	if c.TokenURL == "" {
		c.TokenURL = DefaultTokenURL
	}
}

func (c *Config) loadEnv(env *Env) {
	if env.ProjectID != "" {
		if v := os.Getenv(env.ProjectID); v != "" {
			c.ProjectID = v
		}
	}
	if env.ClientEmail != "" {
		if v := os.Getenv(env.ClientEmail); v != "" {
			c.ClientEmail = v
		}
	}
	if env.PrivateKey != "" {
		if v := os.Getenv(env.PrivateKey); v != "" {
			c.PrivateKey = v
		}
	}
	if env.TokenURL != "" {
		if v := os.Getenv(env.TokenURL); v != "" {
			c.TokenURL = v
		}
	}
}
