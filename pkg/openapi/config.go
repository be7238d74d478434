package openapi

import "os"

// Config is the document metadata.
type Config struct {
	Title       string `toml:"title"`
	Description string `toml:"description"`
}

// ConfigEnv names the environment variables that override each field.
type ConfigEnv struct {
	Title       string
	Description string
}

// Finalize applies defaults, then env overrides when env is non-nil.
func (c *Config) Finalize(env *ConfigEnv) error {
	if c.Title == "" {
		c.Title = "Facturas API"
	}
	if c.Description == "" {
		c.Description = "Invoice extraction with quality scoring and LLM fallback."
	}

	if env == nil {
		return nil
	}
	for name, dst := range map[string]*string{env.Title: &c.Title, env.Description: &c.Description} {
		if v := os.Getenv(name); name != "" && v != "" {
			*dst = v
		}
	}
	return nil
}

func (c *Config) Merge(overlay *Config) {
	if overlay.Title != "" {
		c.Title = overlay.Title
	}
	if overlay.Description != "" {
		c.Description = overlay.Description
	}
}
