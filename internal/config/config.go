package config

import (
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/pelletier/go-toml/v2"

	"github.com/JaimeStill/facturas/pkg/docai"
	"github.com/JaimeStill/facturas/pkg/drive"
	"github.com/JaimeStill/facturas/pkg/gauth"
	"github.com/JaimeStill/facturas/pkg/openai"
	"github.com/JaimeStill/facturas/pkg/storage"
)

const (
	BaseConfigFile       = "config.toml"
	OverlayConfigPattern = "config.%s.toml"

	EnvFacturasEnv             = "FACTURAS_ENV"
	EnvFacturasShutdownTimeout = "FACTURAS_SHUTDOWN_TIMEOUT"
	EnvFacturasVersion         = "FACTURAS_VERSION"
	EnvFacturasLogLevel        = "FACTURAS_LOG_LEVEL"
	EnvFacturasLogFormat       = "FACTURAS_LOG_FORMAT"
)

// Log record encodings.
const (
	LogFormatText = "text"
	LogFormatJSON = "json"
)

var storageEnv = &storage.Env{
	Provider:         "FACTURAS_STORAGE_PROVIDER",
	MaxDownloadSize:  "FACTURAS_STORAGE_MAX_DOWNLOAD_SIZE",
	URL:              "FACTURAS_STORAGE_URL",
	ServiceRoleKey:   "FACTURAS_STORAGE_SERVICE_ROLE_KEY",
	ConnectionString: "FACTURAS_STORAGE_CONNECTION_STRING",
	AccountURL:       "FACTURAS_STORAGE_ACCOUNT_URL",
	Endpoint:         "FACTURAS_STORAGE_ENDPOINT",
	AccessKey:        "FACTURAS_STORAGE_ACCESS_KEY",
	SecretKey:        "FACTURAS_STORAGE_SECRET_KEY",
	Region:           "FACTURAS_STORAGE_REGION",
	UseSSL:           "FACTURAS_STORAGE_USE_SSL",
}

var googleEnv = &gauth.Env{
	ProjectID:   "FACTURAS_GOOGLE_PROJECT_ID",
	ClientEmail: "FACTURAS_GOOGLE_CLIENT_EMAIL",
	PrivateKey:  "FACTURAS_GOOGLE_PRIVATE_KEY",
	TokenURL:    "FACTURAS_GOOGLE_TOKEN_URL",
}

var driveEnv = &drive.Env{
	BaseURL: "FACTURAS_DRIVE_BASE_URL",
	Scope:   "FACTURAS_DRIVE_SCOPE",
}

var docaiEnv = &docai.Env{
	Endpoint:     "FACTURAS_DOCAI_ENDPOINT",
	APIKey:       "FACTURAS_DOCAI_API_KEY",
	Scope:        "FACTURAS_DOCAI_SCOPE",
	QuotaProject: "FACTURAS_DOCAI_QUOTA_PROJECT",
	Timeout:      "FACTURAS_DOCAI_TIMEOUT",
}

var fallbackEnv = &openai.Env{
	APIKey:  "FACTURAS_OPENAI_API_KEY",
	BaseURL: "FACTURAS_OPENAI_BASE_URL",
	Model:   "FACTURAS_OPENAI_MODEL",
	Timeout: "FACTURAS_OPENAI_TIMEOUT",
}

// Config is the root configuration for the facturas service.
type Config struct {
	Server          ServerConfig   `toml:"server"`
	API             APIConfig      `toml:"api"`
	Storage         storage.Config `toml:"storage"`
	Google          gauth.Config   `toml:"google"`
	Drive           drive.Config   `toml:"drive"`
	DocAI           docai.Config   `toml:"docai"`
	Fallback        openai.Config  `toml:"fallback"`
	LogLevel        string         `toml:"log_level"`
	LogFormat       string         `toml:"log_format"`
	ShutdownTimeout string         `toml:"shutdown_timeout"`
	Version         string         `toml:"version"`
}

// Env returns the FACTURAS_ENV value, defaulting to "local".
func (c *Config) Env() string {
	if env := os.Getenv(EnvFacturasEnv); env != "" {
		return env
	}
	return "local"
}

// ShutdownTimeoutDuration returns ShutdownTimeout as a time.Duration.
func (c *Config) ShutdownTimeoutDuration() time.Duration {
	d, _ := time.ParseDuration(c.ShutdownTimeout)
	return d
}

// Level returns LogLevel as a slog.Level.
func (c *Config) Level() slog.Level {
	var level slog.Level
	if err := level.UnmarshalText([]byte(c.LogLevel)); err != nil {
		return slog.LevelInfo
	}
	return level
}

// Load reads the base config (if present), applies any environment overlay,
// and finalizes all values. If no config.toml exists, defaults and environment
// variables provide all configuration.
func Load() (*Config, error) {
	cfg := &Config{}

	if _, err := os.Stat(BaseConfigFile); err == nil {
		loaded, err := load(BaseConfigFile)
		if err != nil {
			return nil, err
		}
		cfg = loaded
	}

	if path := overlayPath(); path != "" {
		overlay, err := load(path)
		if err != nil {
			return nil, fmt.Errorf("load overlay %s: %w", path, err)
		}
		cfg.Merge(overlay)
	}

	if err := cfg.Finalize(); err != nil {
		return nil, fmt.Errorf("finalize config: %w", err)
	}

	return cfg, nil
}

// Merge overwrites non-zero fields from overlay across all sub-configs.
func (c *Config) Merge(overlay *Config) {
	if overlay.LogLevel != "" {
		c.LogLevel = overlay.LogLevel
	}
	if overlay.LogFormat != "" {
		c.LogFormat = overlay.LogFormat
	}
	if overlay.ShutdownTimeout != "" {
		c.ShutdownTimeout = overlay.ShutdownTimeout
	}
	if overlay.Version != "" {
		c.Version = overlay.Version
	}
	c.Server.Merge(&overlay.Server)
	c.API.Merge(&overlay.API)
	c.Storage.Merge(&overlay.Storage)
	c.Google.Merge(&overlay.Google)
	c.Drive.Merge(&overlay.Drive)
	c.DocAI.Merge(&overlay.DocAI)
	c.Fallback.Merge(&overlay.Fallback)
}

// Finalize applies defaults, environment overrides, and validation to the
// root config and every section. Credentials are not required here; their
// absence surfaces when a request needs them.
func (c *Config) Finalize() error {
	c.loadDefaults()
	c.loadEnv()

	if err := c.validate(); err != nil {
		return err
	}
	if err := c.Server.Finalize(); err != nil {
		return fmt.Errorf("server: %w", err)
	}
	if err := c.API.Finalize(); err != nil {
		return fmt.Errorf("api: %w", err)
	}
	if err := c.Storage.Finalize(storageEnv); err != nil {
		return fmt.Errorf("storage: %w", err)
	}
	if err := c.Google.Finalize(googleEnv); err != nil {
		return fmt.Errorf("google: %w", err)
	}
	if err := c.Drive.Finalize(driveEnv); err != nil {
		return fmt.Errorf("drive: %w", err)
	}
	if c.DocAI.QuotaProject == "" {
		c.DocAI.QuotaProject = c.Google.ProjectID
	}
	if err := c.DocAI.Finalize(docaiEnv); err != nil {
		return fmt.Errorf("docai: %w", err)
	}
	if err := c.Fallback.Finalize(fallbackEnv); err != nil {
		return fmt.Errorf("fallback: %w", err)
	}
	return nil
}

func (c *Config) loadDefaults() {
	if c.LogLevel == "" {
		c.LogLevel = "info"
	}
	if c.LogFormat == "" {
		c.LogFormat = LogFormatText
	}
	if c.ShutdownTimeout == "" {
		c.ShutdownTimeout = "30s"
	}
	if c.Version == "" {
		c.Version = "0.1.0"
	}
}

func (c *Config) loadEnv() {
	if v := os.Getenv(EnvFacturasLogLevel); v != "" {
		c.LogLevel = v
	}
	if v := os.Getenv(EnvFacturasLogFormat); v != "" {
		c.LogFormat = v
	}
	if v := os.Getenv(EnvFacturasShutdownTimeout); v != "" {
		c.ShutdownTimeout = v
	}
	if v := os.Getenv(EnvFacturasVersion); v != "" {
		c.Version = v
	}
}

func (c *Config) validate() error {
	if _, err := time.ParseDuration(c.ShutdownTimeout); err != nil {
		return fmt.Errorf("invalid shutdown_timeout: %w", err)
	}
	var level slog.Level
	if err := level.UnmarshalText([]byte(c.LogLevel)); err != nil {
		return fmt.Errorf("invalid log_level %q: must be debug, info, warn, or error", c.LogLevel)
	}
	if c.LogFormat != LogFormatText && c.LogFormat != LogFormatJSON {
		return fmt.Errorf("invalid log_format %q: must be text or json", c.LogFormat)
	}
	return nil
}

func load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}

	var cfg Config
	if err := toml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}

	return &cfg, nil
}

func overlayPath() string {
	if env := os.Getenv(EnvFacturasEnv); env != "" {
		path := fmt.Sprintf(OverlayConfigPattern, env)
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}
	return ""
}
