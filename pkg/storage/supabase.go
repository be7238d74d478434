package storage

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/JaimeStill/facturas/pkg/lifecycle"
)

type supabase struct {
	baseURL string
	key     string
	client  *http.Client
	logger  *slog.Logger
}

func newSupabase(cfg *Config, logger *slog.Logger) System {
	var missing []string
	if cfg.URL == "" {
		missing = append(missing, "url")
	}
	if cfg.ServiceRoleKey == "" {
		missing = append(missing, "service_role_key")
	}
	if len(missing) > 0 {
		return notConfigured(logger, missing...)
	}

	return &supabase{
		baseURL: strings.TrimRight(cfg.URL, "/"),
		key:     cfg.ServiceRoleKey,
		client:  &http.Client{Timeout: 60 * time.Second},
		logger:  logger,
	}
}

func (s *supabase) Start(lc *lifecycle.Coordinator) error {
	s.logger.Info("storage ready", "url", s.baseURL)
	return nil
}

func (s *supabase) Download(ctx context.Context, bucket, key string) (*Object, error) {
	if err := validateKey(bucket, key); err != nil {
		return nil, err
	}

	endpoint := fmt.Sprintf("%s/storage/v1/object/%s/%s", s.baseURL, url.PathEscape(bucket), escapePath(key))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("build download request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+s.key)
	req.Header.Set("apikey", s.key)

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("download object %s/%s: %w", bucket, key, err)
	}

	if resp.StatusCode/100 != 2 {
		defer resp.Body.Close()
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		if resp.StatusCode == http.StatusNotFound || strings.Contains(string(body), "not_found") {
			return nil, fmt.Errorf("%w: %s/%s", ErrNotFound, bucket, key)
		}
		return nil, fmt.Errorf("download object %s/%s: status %d: %s", bucket, key, resp.StatusCode, string(body))
	}

	return &Object{
		Body:          resp.Body,
		ContentType:   resp.Header.Get("Content-Type"),
		ContentLength: resp.ContentLength,
	}, nil
}

func escapePath(key string) string {
	segments := strings.Split(key, "/")
	for i, s := range segments {
		segments[i] = url.PathEscape(s)
	}
	return strings.Join(segments, "/")
}
