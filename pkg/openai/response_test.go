package openai_test

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/JaimeStill/facturas/pkg/openai"
)

func TestParseJSONFromResponse(t *testing.T) {
	tests := []struct {
		name string
		resp string
		want string
	}{
		{
			name: "output_parsed object",
			resp: `{"output_parsed":{"invoice_number":"P-1"},"output_text":"{\"invoice_number\":\"ignored\"}"}`,
			want: "P-1",
		},
		{
			name: "output_text string",
			resp: `{"output_text":"{\"invoice_number\":\"T-1\"}"}`,
			want: "T-1",
		},
		{
			name: "output_text fenced",
			resp: "{\"output_text\":\"```json\\n{\\\"invoice_number\\\":\\\"F-1\\\"}\\n```\"}",
			want: "F-1",
		},
		{
			name: "output_text with prose",
			resp: `{"output_text":"Here you go: {\"invoice_number\":\"S-1\"} hope it helps"}`,
			want: "S-1",
		},
		{
			name: "output_text array concatenated",
			resp: `{"output_text":["{\"invoice_", "number\":\"A-1\"}"]}`,
			want: "A-1",
		},
		{
			name: "output content text",
			resp: `{"output":[
				{"type":"reasoning","summary":[]},
				{"type":"message","content":[{"type":"output_text","text":"{\"invoice_number\":\"C-1\"}"}]}
			]}`,
			want: "C-1",
		},
		{
			name: "output content parsed",
			resp: `{"output":[{"type":"message","content":[{"type":"output_text","text":"","parsed":{"invoice_number":"CP-1"}}]}]}`,
			want: "CP-1",
		},
		{
			name: "unparseable output_text falls through to content",
			resp: `{"output_text":"I cannot read this file","output":[{"content":[{"text":"{\"invoice_number\":\"N-1\"}"}]}]}`,
			want: "N-1",
		},
		{
			name: "later content part",
			resp: `{"output":[{"content":[{"text":"thinking..."},{"text":"{\"invoice_number\":\"L-1\"}"}]}]}`,
			want: "L-1",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var resp map[string]any
			if err := json.Unmarshal([]byte(tt.resp), &resp); err != nil {
				t.Fatalf("decode fixture: %v", err)
			}

			got, err := openai.ParseJSONFromResponse(resp)
			if err != nil {
				t.Fatalf("ParseJSONFromResponse() error = %v", err)
			}
			if got["invoice_number"] != tt.want {
				t.Errorf("invoice_number = %v, want %s", got["invoice_number"], tt.want)
			}
		})
	}
}

func TestParseJSONFromResponseNoJSON(t *testing.T) {
	tests := []struct {
		name string
		resp string
	}{
		{name: "empty", resp: `{}`},
		{name: "refusal text", resp: `{"output_text":"Sorry, I can't help with that."}`},
		{name: "array json", resp: `{"output_text":"[1,2,3]"}`},
		{name: "null output_parsed", resp: `{"output_parsed":null,"output":[]}`},
		{name: "content without text", resp: `{"output":[{"content":[{"type":"refusal","refusal":"no"}]}]}`},
		{name: "malformed output entries", resp: `{"output":["x",{"content":"y"}]}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var resp map[string]any
			if err := json.Unmarshal([]byte(tt.resp), &resp); err != nil {
				t.Fatalf("decode fixture: %v", err)
			}

			_, err := openai.ParseJSONFromResponse(resp)
			if !errors.Is(err, openai.ErrNoJSON) {
				t.Errorf("error = %v, want ErrNoJSON", err)
			}
		})
	}
}
