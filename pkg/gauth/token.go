// Package gauth exchanges Google service-account credentials for OAuth access tokens.
// Tokens are cached per scope until shortly before they expire.
package gauth

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/sync/singleflight"
)

var (
	// ErrNotConfigured indicates missing service-account credentials.
	ErrNotConfigured = errors.New("missing configuration")
	// ErrExchangeFailed indicates the token endpoint rejected the assertion
	// or returned an unusable response.
	ErrExchangeFailed = errors.New("token exchange failed")
)

const (
	jwtBearerGrant    = "urn:ietf:params:oauth:grant-type:jwt-bearer"
	assertionLifetime = time.Hour
	expiryLeeway      = 60 * time.Second
)

// TokenProvider returns an OAuth access token for a scope.
type TokenProvider interface {
	AccessToken(ctx context.Context, scope string) (string, error)
}

// Option customizes a TokenSource.
type Option func(*TokenSource)

// WithCache replaces the default in-memory cache.
func WithCache(cache Cache) Option {
	return func(s *TokenSource) { s.cache = cache }
}

// WithClock replaces time.Now.
func WithClock(now func() time.Time) Option {
	return func(s *TokenSource) { s.now = now }
}

// WithHTTPClient replaces the client used for the token exchange.
func WithHTTPClient(client *http.Client) Option {
	return func(s *TokenSource) { s.client = client }
}

// TokenSource signs JWT assertions with a service-account key and exchanges
// them for access tokens through the JWT-bearer grant.
type TokenSource struct {
	cfg    Config
	cache  Cache
	client *http.Client
	now    func() time.Time
	group  singleflight.Group
	logger *slog.Logger
}

// New creates a TokenSource. Missing credentials are reported by AccessToken.
func New(cfg *Config, logger *slog.Logger, opts ...Option) *TokenSource {
	s := &TokenSource{
		cfg:    *cfg,
		cache:  NewMemoryCache(),
		client: &http.Client{Timeout: 30 * time.Second},
		now:    time.Now,
		logger: logger.With("system", "gauth"),
	}
	if s.cfg.TokenURL == "" {
		s.cfg.TokenURL = DefaultTokenURL
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// ProjectID returns the configured Google Cloud project.
func (s *TokenSource) ProjectID() string {
	return s.cfg.ProjectID
}

// AccessToken returns a cached token for scope, exchanging a new one when the
// cached token is absent or within a minute of expiry. Concurrent callers for
// the same scope share a single exchange. The shared exchange is detached from
// any one caller's cancellation; each caller stops waiting when its own ctx ends.
func (s *TokenSource) AccessToken(ctx context.Context, scope string) (string, error) {
	if token, ok := s.cached(scope); ok {
		return token, nil
	}

	ch := s.group.DoChan(scope, func() (any, error) {
		if token, ok := s.cached(scope); ok {
			return token, nil
		}

		flight := context.WithoutCancel(ctx)
		token, err := s.exchange(flight, scope)
		if err != nil {
			return "", err
		}

		s.cache.Set(scope, token)
		s.logger.InfoContext(flight, "access token issued", "scope", scope, "expires_at", token.ExpiresAt)
		return token.AccessToken, nil
	})

	select {
	case res := <-ch:
		if res.Err != nil {
			return "", res.Err
		}
		return res.Val.(string), nil
	case <-ctx.Done():
		return "", ctx.Err()
	}
}

func (s *TokenSource) cached(scope string) (string, bool) {
	token, ok := s.cache.Get(scope)
	if !ok || token.AccessToken == "" {
		return "", false
	}
	if !s.now().Before(token.ExpiresAt.Add(-expiryLeeway)) {
		return "", false
	}
	return token.AccessToken, true
}

func (s *TokenSource) exchange(ctx context.Context, scope string) (Token, error) {
	if missing := s.cfg.missing(); len(missing) > 0 {
		return Token{}, fmt.Errorf("%w: google service account %s", ErrNotConfigured, strings.Join(missing, ", "))
	}

	assertion, err := s.sign(scope)
	if err != nil {
		return Token{}, err
	}

	form := url.Values{
		"grant_type": {jwtBearerGrant},
		"assertion":  {assertion},
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.cfg.TokenURL, strings.NewReader(form.Encode()))
	if err != nil {
		return Token{}, fmt.Errorf("build token request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := s.client.Do(req)
	if err != nil {
		return Token{}, fmt.Errorf("%w: %w", ErrExchangeFailed, err)
	}
	defer resp.Body.Close()

	body, _ := io.ReadAll(resp.Body)

	if resp.StatusCode/100 != 2 {
		return Token{}, fmt.Errorf("%w: status %d: %s", ErrExchangeFailed, resp.StatusCode, string(body))
	}

	var payload struct {
		AccessToken string `json:"access_token"`
		ExpiresIn   int64  `json:"expires_in"`
	}
	if err := json.Unmarshal(body, &payload); err != nil {
		return Token{}, fmt.Errorf("%w: decode response: %w", ErrExchangeFailed, err)
	}
	if payload.AccessToken == "" || payload.ExpiresIn <= 0 {
		return Token{}, fmt.Errorf("%w: response missing access_token or expires_in", ErrExchangeFailed)
	}

	return Token{
		AccessToken: payload.AccessToken,
		ExpiresAt:   s.now().Add(time.Duration(payload.ExpiresIn) * time.Second),
	}, nil
}

func (s *TokenSource) sign(scope string) (string, error) {
	key, err := jwt.ParseRSAPrivateKeyFromPEM(s.cfg.PrivateKeyPEM())
	if err != nil {
		return "", fmt.Errorf("parse service account key: %w", err)
	}

	now := s.now()
	claims := jwt.MapClaims{
		"iss":   s.cfg.ClientEmail,
		"scope": scope,
		"aud":   s.cfg.TokenURL,
		"iat":   now.Unix(),
		"exp":   now.Add(assertionLifetime).Unix(),
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodRS256, claims).SignedString(key)
	if err != nil {
		return "", fmt.Errorf("sign assertion: %w", err)
	}
	return signed, nil
}
