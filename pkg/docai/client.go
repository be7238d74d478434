// Package docai calls the primary invoice extractor. The endpoint is either a
// generic HTTP service that accepts a raw PDF and answers with JSON, or the
// Google Document AI process endpoint, whose entities are mapped onto flat
// invoice keys.
package docai

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"mime"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/JaimeStill/facturas/pkg/gauth"
)

var (
	// ErrNotConfigured indicates the extractor endpoint is not set.
	ErrNotConfigured = errors.New("missing configuration")
	// ErrRequestFailed indicates the extractor answered with an unusable response.
	ErrRequestFailed = errors.New("docai request failed")
)

const pdfMimeType = "application/pdf"

// Client sends PDFs to the primary extractor.
type Client struct {
	cfg    Config
	tokens gauth.TokenProvider
	client *http.Client
	logger *slog.Logger
}

// Option customizes a Client.
type Option func(*Client)

// WithHTTPClient replaces the client used for extractor calls.
func WithHTTPClient(client *http.Client) Option {
	return func(c *Client) { c.client = client }
}

// New creates a Client. tokens is only used for Document AI endpoints.
func New(cfg *Config, tokens gauth.TokenProvider, logger *slog.Logger, opts ...Option) *Client {
	timeout := cfg.TimeoutDuration()
	if timeout <= 0 {
		timeout = 2 * time.Minute
	}
	c := &Client{
		cfg:    *cfg,
		tokens: tokens,
		client: &http.Client{Timeout: timeout},
		logger: logger.With("system", "docai"),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// IsCloudEndpoint reports whether endpoint targets the Google Document AI API,
// including regional hosts such as us-documentai.googleapis.com.
func IsCloudEndpoint(endpoint string) bool {
	u, err := url.Parse(endpoint)
	if err != nil {
		return false
	}
	host := strings.ToLower(u.Hostname())
	return host == "documentai.googleapis.com" || strings.HasSuffix(host, "-documentai.googleapis.com")
}

// Extract sends pdf to the configured endpoint and returns the provider payload.
func (c *Client) Extract(ctx context.Context, pdf []byte) (map[string]any, error) {
	if c.cfg.Endpoint == "" {
		return nil, fmt.Errorf("%w: docai endpoint", ErrNotConfigured)
	}

	if IsCloudEndpoint(c.cfg.Endpoint) {
		return c.extractCloud(ctx, pdf)
	}
	return c.extractGeneric(ctx, pdf)
}

func (c *Client) extractGeneric(ctx context.Context, pdf []byte) (map[string]any, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.cfg.Endpoint, bytes.NewReader(pdf))
	if err != nil {
		return nil, fmt.Errorf("build docai request: %w", err)
	}
	req.Header.Set("Content-Type", pdfMimeType)
	req.Header.Set("Accept", "application/json")
	if c.cfg.APIKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.cfg.APIKey)
	}

	body, err := c.do(ctx, req, "generic")
	if err != nil {
		return nil, err
	}

	var payload map[string]any
	if err := json.Unmarshal(body, &payload); err != nil {
		return nil, fmt.Errorf("%w: decode response: %w", ErrRequestFailed, err)
	}
	return payload, nil
}

func (c *Client) extractCloud(ctx context.Context, pdf []byte) (map[string]any, error) {
	if c.tokens == nil {
		return nil, fmt.Errorf("%w: docai token provider", ErrNotConfigured)
	}
	token, err := c.tokens.AccessToken(ctx, c.cfg.Scope)
	if err != nil {
		return nil, fmt.Errorf("docai access token: %w", err)
	}

	envelope := map[string]any{
		"rawDocument": map[string]string{
			"content":  base64.StdEncoding.EncodeToString(pdf),
			"mimeType": pdfMimeType,
		},
	}
	data, err := json.Marshal(envelope)
	if err != nil {
		return nil, fmt.Errorf("encode docai request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.cfg.Endpoint, bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("build docai request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+token)
	if c.cfg.QuotaProject != "" {
		req.Header.Set("x-goog-user-project", c.cfg.QuotaProject)
	}

	body, err := c.do(ctx, req, "cloud")
	if err != nil {
		return nil, err
	}

	var resp ProcessResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("%w: decode response: %w", ErrRequestFailed, err)
	}

	var raw map[string]any
	if err := json.Unmarshal(body, &raw); err != nil {
		return nil, fmt.Errorf("%w: decode response: %w", ErrRequestFailed, err)
	}

	return MapEntities(resp.Document.Entities, raw), nil
}

func (c *Client) do(ctx context.Context, req *http.Request, mode string) ([]byte, error) {
	callID := uuid.NewString()
	req.Header.Set("X-Request-Id", callID)

	start := time.Now()
	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrRequestFailed, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: read response: %w", ErrRequestFailed, err)
	}

	c.logger.InfoContext(ctx, "docai response",
		"mode", mode,
		"call_id", callID,
		"status", resp.StatusCode,
		"bytes", len(body),
		"elapsed_ms", time.Since(start).Milliseconds(),
	)

	if resp.StatusCode/100 != 2 {
		return nil, fmt.Errorf("%w: status %d: %s", ErrRequestFailed, resp.StatusCode, string(body))
	}
	if !isJSON(resp.Header.Get("Content-Type")) {
		return nil, fmt.Errorf("%w: status %d: unexpected content type %q: %s",
			ErrRequestFailed, resp.StatusCode, resp.Header.Get("Content-Type"), string(body))
	}
	return body, nil
}

func isJSON(contentType string) bool {
	mt, _, err := mime.ParseMediaType(contentType)
	if err != nil {
		return false
	}
	return mt == "application/json" || strings.HasSuffix(mt, "+json")
}
