package handlers_test

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/JaimeStill/facturas/pkg/handlers"
)

func TestRespondJSON(t *testing.T) {
	tests := []struct {
		name       string
		status     int
		data       any
		wantStatus int
	}{
		{
			name:       "200 with map",
			status:     http.StatusOK,
			data:       map[string]string{"key": "value"},
			wantStatus: http.StatusOK,
		},
		{
			name:       "201 with struct",
			status:     http.StatusCreated,
			data:       struct{ ID int }{ID: 42},
			wantStatus: http.StatusCreated,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			handlers.RespondJSON(rec, tt.status, tt.data)

			res := rec.Result()
			defer res.Body.Close()

			if res.StatusCode != tt.wantStatus {
				t.Errorf("status: got %d, want %d", res.StatusCode, tt.wantStatus)
			}
			if ct := res.Header.Get("Content-Type"); ct != "application/json" {
				t.Errorf("content-type: got %s", ct)
			}

			body, _ := io.ReadAll(res.Body)
			var parsed map[string]any
			if err := json.Unmarshal(body, &parsed); err != nil {
				t.Fatalf("unmarshal failed: %v", err)
			}
		})
	}
}

func TestRespondError(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	tests := []struct {
		name    string
		status  int
		code    string
		err     error
		wantMsg string
	}{
		{
			name:    "client error",
			status:  http.StatusBadRequest,
			code:    "invalid_request",
			err:     errors.New("document_id must be a UUID"),
			wantMsg: "document_id must be a UUID",
		},
		{
			name:    "nil error uses status text",
			status:  http.StatusUnauthorized,
			code:    "unauthorized",
			wantMsg: "Unauthorized",
		},
		{
			name:    "server error",
			status:  http.StatusBadGateway,
			code:    "extraction_failed",
			err:     errors.New("docai request failed: status 503"),
			wantMsg: "docai request failed: status 503",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			handlers.RespondError(rec, logger, tt.status, tt.code, tt.err)

			res := rec.Result()
			defer res.Body.Close()

			if res.StatusCode != tt.status {
				t.Errorf("status: got %d, want %d", res.StatusCode, tt.status)
			}
			if ct := res.Header.Get("Content-Type"); ct != "application/json" {
				t.Errorf("content-type: got %s", ct)
			}

			var parsed handlers.Failure
			if err := json.NewDecoder(res.Body).Decode(&parsed); err != nil {
				t.Fatalf("unmarshal failed: %v", err)
			}
			if parsed.Success {
				t.Error("success should be false")
			}
			if parsed.Error.Code != tt.code {
				t.Errorf("code: got %s, want %s", parsed.Error.Code, tt.code)
			}
			if parsed.Error.Message != tt.wantMsg {
				t.Errorf("message: got %s, want %s", parsed.Error.Message, tt.wantMsg)
			}
		})
	}
}
