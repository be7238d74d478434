// Package drive downloads file content from Google Drive.
package drive

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/JaimeStill/facturas/pkg/gauth"
)

// Defaults for the Drive v3 API.
const (
	DefaultBaseURL = "https://www.googleapis.com/drive/v3"
	DefaultScope   = "https://www.googleapis.com/auth/drive.readonly"
)

var (
	// ErrEmptyFileID indicates an empty Drive file id.
	ErrEmptyFileID = errors.New("drive file id must not be empty")
	// ErrDownloadFailed indicates Drive did not return file content.
	ErrDownloadFailed = errors.New("drive download failed")
)

// Client downloads Drive files with a service-account token.
type Client struct {
	cfg    Config
	tokens gauth.TokenProvider
	client *http.Client
	logger *slog.Logger
}

// New creates a Client.
func New(cfg *Config, tokens gauth.TokenProvider, logger *slog.Logger) *Client {
	c := &Client{
		cfg:    *cfg,
		tokens: tokens,
		client: &http.Client{Timeout: 2 * time.Minute},
		logger: logger.With("system", "drive"),
	}
	if c.cfg.BaseURL == "" {
		c.cfg.BaseURL = DefaultBaseURL
	}
	if c.cfg.Scope == "" {
		c.cfg.Scope = DefaultScope
	}
	return c
}

// Download returns the content of the Drive file. When limit is positive at
// most limit+1 bytes are read, so callers can detect oversized files.
func (c *Client) Download(ctx context.Context, fileID string, limit int64) ([]byte, error) {
	if strings.TrimSpace(fileID) == "" {
		return nil, ErrEmptyFileID
	}

	token, err := c.tokens.AccessToken(ctx, c.cfg.Scope)
	if err != nil {
		return nil, fmt.Errorf("drive access token: %w", err)
	}

	endpoint := fmt.Sprintf("%s/files/%s?alt=media&supportsAllDrives=true", c.cfg.BaseURL, url.PathEscape(fileID))
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("build drive request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+token)

	start := time.Now()
	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrDownloadFailed, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return nil, fmt.Errorf("%w: file %s: status %d: %s", ErrDownloadFailed, fileID, resp.StatusCode, string(body))
	}

	var reader io.Reader = resp.Body
	if limit > 0 {
		reader = io.LimitReader(resp.Body, limit+1)
	}
	data, err := io.ReadAll(reader)
	if err != nil {
		return nil, fmt.Errorf("%w: read file %s: %w", ErrDownloadFailed, fileID, err)
	}
	if len(data) == 0 {
		return nil, fmt.Errorf("%w: file %s has no content", ErrDownloadFailed, fileID)
	}

	c.logger.InfoContext(ctx, "drive file downloaded",
		"file_id", fileID,
		"bytes", len(data),
		"elapsed_ms", time.Since(start).Milliseconds(),
	)
	return data, nil
}
