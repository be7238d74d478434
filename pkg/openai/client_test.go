package openai_test

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/JaimeStill/facturas/pkg/openai"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func sampleRequest() openai.ResponseRequest {
	return openai.ResponseRequest{
		Instruction: "Extract this invoice.",
		Filename:    "invoice.pdf",
		Data:        []byte("%PDF"),
		SchemaName:  "invoice",
		Schema:      map[string]any{"type": "object"},
	}
}

func TestRespond(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v1/responses" {
			t.Errorf("path = %q", r.URL.Path)
		}
		if got := r.Header.Get("Authorization"); got != "Bearer sk-test" {
			t.Errorf("authorization = %q", got)
		}

		var body struct {
			Model string `json:"model"`
			Input []struct {
				Role    string           `json:"role"`
				Content []map[string]any `json:"content"`
			} `json:"input"`
			Text struct {
				Format map[string]any `json:"format"`
			} `json:"text"`
		}
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			t.Errorf("decode body: %v", err)
			return
		}

		if body.Model != "gpt-test" {
			t.Errorf("model = %q", body.Model)
		}
		if len(body.Input) != 1 || len(body.Input[0].Content) != 2 {
			t.Errorf("unexpected input shape: %+v", body.Input)
			return
		}
		text := body.Input[0].Content[0]
		if text["type"] != "input_text" || text["text"] != "Extract this invoice." {
			t.Errorf("text part = %v", text)
		}
		file := body.Input[0].Content[1]
		if file["type"] != "input_file" || file["file_data"] != "data:application/pdf;base64,JVBERg==" {
			t.Errorf("file part = %v", file)
		}
		format := body.Text.Format
		if format["type"] != "json_schema" || format["strict"] != true || format["name"] != "invoice" {
			t.Errorf("format = %v", format)
		}

		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, `{"output":[{"type":"message","content":[{"type":"output_text","text":"{\"invoice_number\":\"X-9\"}"}]}]}`)
	}))
	defer server.Close()

	cfg := &openai.Config{APIKey: "sk-test", BaseURL: server.URL + "/v1/", Model: "gpt-test"}
	if err := cfg.Finalize(nil); err != nil {
		t.Fatalf("Finalize() error = %v", err)
	}

	got, err := openai.New(cfg, discardLogger()).Respond(context.Background(), sampleRequest())
	if err != nil {
		t.Fatalf("Respond() error = %v", err)
	}
	if got.Parsed["invoice_number"] != "X-9" {
		t.Errorf("invoice_number = %v", got.Parsed["invoice_number"])
	}
	if _, ok := got.Raw["output"]; !ok {
		t.Error("raw response not returned")
	}
}

func TestRespondNon2xx(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
		fmt.Fprint(w, `{"error":{"message":"rate limited"}}`)
	}))
	defer server.Close()

	c := openai.New(&openai.Config{APIKey: "sk", BaseURL: server.URL}, discardLogger())

	_, err := c.Respond(context.Background(), sampleRequest())
	if !errors.Is(err, openai.ErrRequestFailed) {
		t.Fatalf("error = %v, want ErrRequestFailed", err)
	}
	if !strings.Contains(err.Error(), "429") || !strings.Contains(err.Error(), "rate limited") {
		t.Errorf("error %q should include status and body", err.Error())
	}
}

func TestRespondNoJSON(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"output_text":"no invoice here"}`)
	}))
	defer server.Close()

	c := openai.New(&openai.Config{APIKey: "sk", BaseURL: server.URL}, discardLogger())

	_, err := c.Respond(context.Background(), sampleRequest())
	if !errors.Is(err, openai.ErrNoJSON) {
		t.Errorf("error = %v, want ErrNoJSON", err)
	}
}

func TestRespondMissingAPIKey(t *testing.T) {
	c := openai.New(&openai.Config{BaseURL: "http://127.0.0.1:1"}, discardLogger())

	_, err := c.Respond(context.Background(), sampleRequest())
	if !errors.Is(err, openai.ErrNotConfigured) {
		t.Fatalf("error = %v, want ErrNotConfigured", err)
	}
	if !strings.HasPrefix(err.Error(), "missing configuration") {
		t.Errorf("error %q should start with missing configuration", err.Error())
	}
}

func TestFinalizeAPIKeyFallback(t *testing.T) {
	t.Setenv(openai.EnvAPIKeyFallback, "sk-fallback")

	cfg := openai.Config{}
	if err := cfg.Finalize(&openai.Env{APIKey: "TEST_UNSET_OPENAI_KEY"}); err != nil {
		t.Fatalf("Finalize() error = %v", err)
	}
	if cfg.APIKey != "sk-fallback" {
		t.Errorf("api key = %q, want fallback", cfg.APIKey)
	}
	if cfg.Model != "gpt-4.1-mini" || cfg.BaseURL != "https://api.openai.com/v1" {
		t.Errorf("defaults not applied: %+v", cfg)
	}

	t.Setenv("TEST_OPENAI_KEY", "sk-service")
	cfg = openai.Config{}
	if err := cfg.Finalize(&openai.Env{APIKey: "TEST_OPENAI_KEY"}); err != nil {
		t.Fatalf("Finalize() error = %v", err)
	}
	if cfg.APIKey != "sk-service" {
		t.Errorf("api key = %q, want service-specific key", cfg.APIKey)
	}
}
