package drive_test

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/JaimeStill/facturas/pkg/drive"
	"github.com/JaimeStill/facturas/pkg/gauth"
)

type mockTokens struct {
	accessToken func(ctx context.Context, scope string) (string, error)
}

func (m *mockTokens) AccessToken(ctx context.Context, scope string) (string, error) {
	return m.accessToken(ctx, scope)
}

func staticToken(token string) *mockTokens {
	return &mockTokens{accessToken: func(context.Context, string) (string, error) { return token, nil }}
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestDownload(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/files/1AbC" {
			t.Errorf("path = %q", r.URL.Path)
		}
		if r.URL.Query().Get("alt") != "media" || r.URL.Query().Get("supportsAllDrives") != "true" {
			t.Errorf("query = %q", r.URL.RawQuery)
		}
		if got := r.Header.Get("Authorization"); got != "Bearer ya29.drive" {
			t.Errorf("authorization = %q", got)
		}
		fmt.Fprint(w, "%PDF-1.5")
	}))
	defer server.Close()

	var gotScope string
	tokens := &mockTokens{accessToken: func(_ context.Context, scope string) (string, error) {
		gotScope = scope
		return "ya29.drive", nil
	}}

	cfg := &drive.Config{BaseURL: server.URL + "/"}
	if err := cfg.Finalize(nil); err != nil {
		t.Fatalf("Finalize() error = %v", err)
	}

	data, err := drive.New(cfg, tokens, discardLogger()).Download(context.Background(), "1AbC", 0)
	if err != nil {
		t.Fatalf("Download() error = %v", err)
	}
	if string(data) != "%PDF-1.5" {
		t.Errorf("data = %q", data)
	}
	if gotScope != drive.DefaultScope {
		t.Errorf("scope = %q, want %q", gotScope, drive.DefaultScope)
	}
}

func TestDownloadLimit(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, strings.Repeat("x", 100))
	}))
	defer server.Close()

	c := drive.New(&drive.Config{BaseURL: server.URL}, staticToken("t"), discardLogger())

	data, err := c.Download(context.Background(), "big", 10)
	if err != nil {
		t.Fatalf("Download() error = %v", err)
	}
	if len(data) != 11 {
		t.Errorf("len = %d, want limit+1", len(data))
	}
}

func TestDownloadFailures(t *testing.T) {
	tests := []struct {
		name    string
		handler http.HandlerFunc
		want    string
	}{
		{
			name: "not found",
			handler: func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusNotFound)
				fmt.Fprint(w, `{"error":{"message":"File not found"}}`)
			},
			want: "404",
		},
		{
			name: "partial content is not ok",
			handler: func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusPartialContent)
				fmt.Fprint(w, "%PDF")
			},
			want: "206",
		},
		{
			name:    "empty body",
			handler: func(w http.ResponseWriter, r *http.Request) {},
			want:    "no content",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(tt.handler)
			defer server.Close()

			c := drive.New(&drive.Config{BaseURL: server.URL}, staticToken("t"), discardLogger())

			_, err := c.Download(context.Background(), "f1", 0)
			if !errors.Is(err, drive.ErrDownloadFailed) {
				t.Fatalf("error = %v, want ErrDownloadFailed", err)
			}
			if !strings.Contains(err.Error(), tt.want) {
				t.Errorf("error %q should contain %q", err.Error(), tt.want)
			}
		})
	}
}

func TestDownloadTokenFailure(t *testing.T) {
	tokens := &mockTokens{accessToken: func(context.Context, string) (string, error) {
		return "", fmt.Errorf("%w: google service account client_email", gauth.ErrNotConfigured)
	}}

	c := drive.New(&drive.Config{}, tokens, discardLogger())

	_, err := c.Download(context.Background(), "f1", 0)
	if !errors.Is(err, gauth.ErrNotConfigured) {
		t.Errorf("error = %v, want gauth.ErrNotConfigured in chain", err)
	}
}

func TestDownloadEmptyFileID(t *testing.T) {
	c := drive.New(&drive.Config{}, staticToken("t"), discardLogger())

	if _, err := c.Download(context.Background(), " ", 0); !errors.Is(err, drive.ErrEmptyFileID) {
		t.Errorf("error = %v, want ErrEmptyFileID", err)
	}
}
