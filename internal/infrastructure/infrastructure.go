// Package infrastructure builds the process-wide systems the API module
// shares: logging, the lifecycle coordinator, object storage and Google
// service account tokens.
package infrastructure

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/JaimeStill/facturas/internal/config"
	"github.com/JaimeStill/facturas/pkg/gauth"
	"github.com/JaimeStill/facturas/pkg/lifecycle"
	"github.com/JaimeStill/facturas/pkg/storage"
)

type Infrastructure struct {
	Lifecycle *lifecycle.Coordinator
	Logger    *slog.Logger
	Storage   storage.System
	Tokens    *gauth.TokenSource
}

// New wires every system without starting any of them. Logs go to stderr.
func New(cfg *config.Config) (*Infrastructure, error) {
	logger := NewLogger(cfg, os.Stderr)

	store, err := storage.New(&cfg.Storage, logger)
	if err != nil {
		return nil, fmt.Errorf("storage %s: %w", cfg.Storage.Provider, err)
	}

	return &Infrastructure{
		Lifecycle: lifecycle.New(),
		Logger:    logger,
		Storage:   store,
		Tokens:    gauth.New(&cfg.Google, logger),
	}, nil
}

// NewLogger returns a logger at the configured level, writing text or JSON
// records to w. Every record carries the service version.
func NewLogger(cfg *config.Config, w io.Writer) *slog.Logger {
	opts := &slog.HandlerOptions{Level: cfg.Level()}

	var h slog.Handler = slog.NewTextHandler(w, opts)
	if cfg.LogFormat == config.LogFormatJSON {
		h = slog.NewJSONHandler(w, opts)
	}
	return slog.New(h).With("version", cfg.Version)
}

// Start hands the storage system to the lifecycle coordinator.
func (i *Infrastructure) Start() error {
	if err := i.Storage.Start(i.Lifecycle); err != nil {
		return fmt.Errorf("start storage: %w", err)
	}
	return nil
}
