package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/JaimeStill/facturas/pkg/formatting"
	"github.com/JaimeStill/facturas/pkg/middleware"
	"github.com/JaimeStill/facturas/pkg/openapi"
)

const (
	EnvAPIBasePath    = "FACTURAS_API_BASE_PATH"
	EnvAPIMaxBodySize = "FACTURAS_API_MAX_BODY_SIZE"
	EnvServiceSecret  = "FACTURAS_SERVICE_SECRET"
)

var corsEnv = &middleware.CORSEnv{
	Enabled:          "FACTURAS_CORS_ENABLED",
	Origins:          "FACTURAS_CORS_ORIGINS",
	AllowedMethods:   "FACTURAS_CORS_ALLOWED_METHODS",
	AllowedHeaders:   "FACTURAS_CORS_ALLOWED_HEADERS",
	AllowCredentials: "FACTURAS_CORS_ALLOW_CREDENTIALS",
	MaxAge:           "FACTURAS_CORS_MAX_AGE",
}

var openAPIEnv = &openapi.ConfigEnv{
	Title:       "FACTURAS_OPENAPI_TITLE",
	Description: "FACTURAS_OPENAPI_DESCRIPTION",
}

// APIConfig holds API routing, request limits, the service secret, CORS,
// and OpenAPI metadata.
type APIConfig struct {
	BasePath      string                `toml:"base_path"`
	MaxBodySize   string                `toml:"max_body_size"`
	ServiceSecret string                `toml:"service_secret"`
	CORS          middleware.CORSConfig `toml:"cors"`
	OpenAPI       openapi.Config        `toml:"openapi"`
}

// MaxBodySizeBytes returns MaxBodySize in bytes.
func (c *APIConfig) MaxBodySizeBytes() int64 {
	size, err := formatting.ParseBytes(c.MaxBodySize)
	if err != nil {
		return 1024 * 1024
	}
	return size
}

// Finalize applies defaults, environment variable overrides, and validation
// for the API config and its nested CORS config. An empty service secret is
// allowed here and rejected per request.
func (c *APIConfig) Finalize() error {
	c.loadDefaults()
	c.loadEnv()

	if err := c.validate(); err != nil {
		return err
	}
	if err := c.CORS.Finalize(corsEnv); err != nil {
		return fmt.Errorf("cors: %w", err)
	}
	if err := c.OpenAPI.Finalize(openAPIEnv); err != nil {
		return fmt.Errorf("openapi: %w", err)
	}
	return nil
}

// Merge overwrites non-zero fields from overlay across nested configs.
func (c *APIConfig) Merge(overlay *APIConfig) {
	if overlay.BasePath != "" {
		c.BasePath = overlay.BasePath
	}
	if overlay.MaxBodySize != "" {
		c.MaxBodySize = overlay.MaxBodySize
	}
	if overlay.ServiceSecret != "" {
		c.ServiceSecret = overlay.ServiceSecret
	}

	c.CORS.Merge(&overlay.CORS)
	c.OpenAPI.Merge(&overlay.OpenAPI)
}

func (c *APIConfig) loadDefaults() {
	if c.BasePath == "" {
		c.BasePath = "/api"
	}
	if c.MaxBodySize == "" {
		c.MaxBodySize = "1MB"
	}
}

func (c *APIConfig) loadEnv() {
	if v := os.Getenv(EnvAPIBasePath); v != "" {
		c.BasePath = v
	}
	if v := os.Getenv(EnvAPIMaxBodySize); v != "" {
		c.MaxBodySize = v
	}
	if v := os.Getenv(EnvServiceSecret); v != "" {
		c.ServiceSecret = v
	}
}

func (c *APIConfig) validate() error {
	if !strings.HasPrefix(c.BasePath, "/") {
		return fmt.Errorf("invalid base_path %q: must start with /", c.BasePath)
	}
	c.BasePath = strings.TrimRight(c.BasePath, "/")
	if c.BasePath == "" || strings.Count(c.BasePath, "/") != 1 {
		return fmt.Errorf("invalid base_path %q: must be a single-level path such as /api", c.BasePath)
	}
	if _, err := formatting.ParseBytes(c.MaxBodySize); err != nil {
		return fmt.Errorf("invalid max_body_size: %w", err)
	}
	return nil
}
