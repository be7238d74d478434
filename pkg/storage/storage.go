// Package storage downloads invoice objects from Supabase Storage, Azure Blob
// Storage, or an S3-compatible object store.
package storage

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/JaimeStill/facturas/pkg/lifecycle"
)

// Object is a downloaded object stream. The caller must close Body.
type Object struct {
	Body          io.ReadCloser
	ContentType   string
	ContentLength int64
}

// System downloads objects and participates in lifecycle coordination.
type System interface {
	// Start registers a startup hook that reports provider readiness.
	Start(lc *lifecycle.Coordinator) error
	// Download returns a stream for the object at key within bucket.
	// Returns ErrNotFound if the object does not exist.
	Download(ctx context.Context, bucket, key string) (*Object, error)
}

// New creates the storage system for cfg.Provider. A provider whose
// credentials are absent yields a system that fails every Download with
// ErrNotConfigured, so the service can start and report the problem per request.
func New(cfg *Config, logger *slog.Logger) (System, error) {
	logger = logger.With("system", "storage", "provider", cfg.Provider)

	switch cfg.Provider {
	case ProviderAzure:
		return newAzure(cfg, logger)
	case ProviderS3:
		return newS3(cfg, logger)
	default:
		return newSupabase(cfg, logger), nil
	}
}

type unconfigured struct {
	err    error
	logger *slog.Logger
}

func notConfigured(logger *slog.Logger, fields ...string) *unconfigured {
	return &unconfigured{
		err:    fmt.Errorf("%w: storage %s", ErrNotConfigured, strings.Join(fields, ", ")),
		logger: logger,
	}
}

func (u *unconfigured) Start(lc *lifecycle.Coordinator) error {
	u.logger.Warn("storage not configured", "error", u.err)
	return nil
}

func (u *unconfigured) Download(ctx context.Context, bucket, key string) (*Object, error) {
	return nil, u.err
}

func validateKey(bucket, key string) error {
	if bucket == "" || key == "" {
		return ErrEmptyKey
	}
	if key == bucket || strings.Contains(key, "..") {
		return ErrInvalidKey
	}
	return nil
}
