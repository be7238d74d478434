// Package openai sends documents to the OpenAI Responses API and reads a
// schema-constrained JSON object back.
package openai

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"
)

var (
	// ErrNotConfigured indicates the API key is not set.
	ErrNotConfigured = errors.New("missing configuration")
	// ErrRequestFailed indicates the API rejected the request.
	ErrRequestFailed = errors.New("openai request failed")
)

// ResponseRequest describes a single file-plus-instruction request with a
// strict JSON schema for the output.
type ResponseRequest struct {
	Instruction string
	Filename    string
	Data        []byte
	MimeType    string
	SchemaName  string
	Schema      map[string]any
}

// Response pairs the decoded API payload with the JSON object found in it.
type Response struct {
	Raw    map[string]any
	Parsed map[string]any
}

// Client calls the Responses API.
type Client struct {
	cfg    Config
	client *http.Client
	logger *slog.Logger
}

// Option customizes a Client.
type Option func(*Client)

// WithHTTPClient replaces the client used for API calls.
func WithHTTPClient(client *http.Client) Option {
	return func(c *Client) { c.client = client }
}

// New creates a Client.
func New(cfg *Config, logger *slog.Logger, opts ...Option) *Client {
	timeout := cfg.TimeoutDuration()
	if timeout <= 0 {
		timeout = 3 * time.Minute
	}
	c := &Client{
		cfg:    *cfg,
		client: &http.Client{Timeout: timeout},
		logger: logger.With("system", "openai"),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Model returns the configured model name.
func (c *Client) Model() string {
	return c.cfg.Model
}

// Respond sends r and returns the decoded response with its JSON object.
func (c *Client) Respond(ctx context.Context, r ResponseRequest) (*Response, error) {
	if c.cfg.APIKey == "" {
		return nil, fmt.Errorf("%w: openai api_key", ErrNotConfigured)
	}

	mimeType := r.MimeType
	if mimeType == "" {
		mimeType = "application/pdf"
	}

	body := map[string]any{
		"model": c.cfg.Model,
		"input": []any{
			map[string]any{
				"role": "user",
				"content": []any{
					map[string]any{"type": "input_text", "text": r.Instruction},
					map[string]any{
						"type":      "input_file",
						"filename":  r.Filename,
						"file_data": fmt.Sprintf("data:%s;base64,%s", mimeType, base64.StdEncoding.EncodeToString(r.Data)),
					},
				},
			},
		},
		"text": map[string]any{
			"format": map[string]any{
				"type":   "json_schema",
				"name":   r.SchemaName,
				"strict": true,
				"schema": r.Schema,
			},
		},
	}

	data, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("encode openai request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.cfg.BaseURL+"/responses", bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("build openai request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.cfg.APIKey)

	start := time.Now()
	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrRequestFailed, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: read response: %w", ErrRequestFailed, err)
	}

	c.logger.InfoContext(ctx, "openai response",
		"model", c.cfg.Model,
		"status", resp.StatusCode,
		"bytes", len(raw),
		"elapsed_ms", time.Since(start).Milliseconds(),
	)

	if resp.StatusCode/100 != 2 {
		return nil, fmt.Errorf("%w: status %d: %s", ErrRequestFailed, resp.StatusCode, string(raw))
	}

	var decoded map[string]any
	if err := json.Unmarshal(raw, &decoded); err != nil {
		return nil, fmt.Errorf("%w: decode response: %w", ErrRequestFailed, err)
	}

	parsed, err := ParseJSONFromResponse(decoded)
	if err != nil {
		return nil, err
	}
	return &Response{Raw: decoded, Parsed: parsed}, nil
}
