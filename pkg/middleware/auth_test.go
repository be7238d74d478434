package middleware_test

import (
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/JaimeStill/facturas/pkg/handlers"
	"github.com/JaimeStill/facturas/pkg/middleware"
)

func TestBearerAuth(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	tests := []struct {
		name       string
		secret     string
		header     string
		wantStatus int
		wantCode   string
	}{
		{name: "valid token", secret: "s3cret", header: "Bearer s3cret", wantStatus: http.StatusOK},
		{name: "lowercase scheme", secret: "s3cret", header: "bearer s3cret", wantStatus: http.StatusOK},
		{name: "missing header", secret: "s3cret", wantStatus: http.StatusUnauthorized, wantCode: "unauthorized"},
		{name: "wrong token", secret: "s3cret", header: "Bearer nope", wantStatus: http.StatusUnauthorized, wantCode: "unauthorized"},
		{name: "wrong scheme", secret: "s3cret", header: "Basic s3cret", wantStatus: http.StatusUnauthorized, wantCode: "unauthorized"},
		{name: "empty token", secret: "s3cret", header: "Bearer ", wantStatus: http.StatusUnauthorized, wantCode: "unauthorized"},
		{name: "secret not configured", header: "Bearer anything", wantStatus: http.StatusInternalServerError, wantCode: "service_misconfigured"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var called bool
			handler := middleware.BearerAuth(tt.secret, logger)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				called = true
				w.WriteHeader(http.StatusOK)
			}))

			rec := httptest.NewRecorder()
			req := httptest.NewRequest("POST", "/api/extractions", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			handler.ServeHTTP(rec, req)

			if rec.Code != tt.wantStatus {
				t.Fatalf("status: got %d, want %d", rec.Code, tt.wantStatus)
			}
			if tt.wantCode == "" {
				if !called {
					t.Error("handler should have been called")
				}
				return
			}

			if called {
				t.Error("handler should not be called")
			}
			var body handlers.Failure
			if err := json.NewDecoder(rec.Body).Decode(&body); err != nil {
				t.Fatalf("decode body: %v", err)
			}
			if body.Success || body.Error.Code != tt.wantCode {
				t.Errorf("body: got %+v, want code %s", body, tt.wantCode)
			}
		})
	}
}

func TestRequestID(t *testing.T) {
	tests := []struct {
		name     string
		incoming string
		keep     bool
	}{
		{name: "generated", incoming: ""},
		{name: "valid incoming reused", incoming: "0b6a1d0e-6c39-4d4c-9f0e-3f3c2b8a9d11", keep: true},
		{name: "invalid incoming replaced", incoming: "not-a-uuid"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var seen string
			handler := middleware.RequestID()(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				seen = middleware.RequestIDFrom(r.Context())
			}))

			rec := httptest.NewRecorder()
			req := httptest.NewRequest("GET", "/", nil)
			if tt.incoming != "" {
				req.Header.Set(middleware.RequestIDHeader, tt.incoming)
			}
			handler.ServeHTTP(rec, req)

			if seen == "" {
				t.Fatal("request id not stored in context")
			}
			if got := rec.Header().Get(middleware.RequestIDHeader); got != seen {
				t.Errorf("response header %q does not match context %q", got, seen)
			}
			if tt.keep && seen != tt.incoming {
				t.Errorf("request id: got %s, want %s", seen, tt.incoming)
			}
			if !tt.keep && seen == tt.incoming {
				t.Errorf("request id should have been regenerated")
			}
		})
	}
}
