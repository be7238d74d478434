package extraction_test

import (
	"encoding/json"
	"testing"

	"github.com/shopspring/decimal"

	"github.com/JaimeStill/facturas/internal/extraction"
)

func TestNumberishAmount(t *testing.T) {
	tests := []struct {
		name string
		n    extraction.Numberish
		want string
		ok   bool
	}{
		{"comma decimal", extraction.Text("1.234,56"), "1234.56", true},
		{"dot decimal", extraction.Text("1,234.56"), "1234.56", true},
		{"plain", extraction.Text("1234.56"), "1234.56", true},
		{"lone comma", extraction.Text("1234,56"), "1234.56", true},
		{"number", extraction.Number(1234.56), "1234.56", true},
		{"zero", extraction.Number(0), "0", true},
		{"blank", extraction.Text("   "), "0", false},
		{"absent", extraction.Numberish{}, "0", false},
		{"garbage", extraction.Text("abc"), "0", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := tt.n.Amount()
			if ok != tt.ok {
				t.Fatalf("Amount() ok = %v, want %v", ok, tt.ok)
			}
			if ok && !got.Equal(decimal.RequireFromString(tt.want)) {
				t.Errorf("Amount() = %s, want %s", got, tt.want)
			}
		})
	}
}

func TestNumberishIsPresent(t *testing.T) {
	tests := []struct {
		name string
		n    extraction.Numberish
		want bool
	}{
		{"zero number", extraction.Number(0), true},
		{"text", extraction.Text("12"), true},
		{"whitespace", extraction.Text(" \t"), false},
		{"empty", extraction.Text(""), false},
		{"absent", extraction.Numberish{}, false},
		{"unsupported type", extraction.NumberishOf(true), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.n.IsPresent(); got != tt.want {
				t.Errorf("IsPresent() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestNumberishJSON(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{"number", `12.5`},
		{"text keeps original format", `"1.234,56"`},
		{"null", `null`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var n extraction.Numberish
			if err := json.Unmarshal([]byte(tt.input), &n); err != nil {
				t.Fatalf("Unmarshal() error = %v", err)
			}
			out, err := json.Marshal(n)
			if err != nil {
				t.Fatalf("Marshal() error = %v", err)
			}
			if string(out) != tt.input {
				t.Errorf("Marshal() = %s, want %s", out, tt.input)
			}
		})
	}
}

func TestNumberishOf(t *testing.T) {
	if got := extraction.NumberishOf(float64(3)); !got.IsNumber() || got.String() != "3" {
		t.Errorf("NumberishOf(3) = %q number=%v", got.String(), got.IsNumber())
	}
	if got := extraction.NumberishOf("$ 10"); got.IsNumber() || got.String() != "$ 10" {
		t.Errorf("NumberishOf(\"$ 10\") = %q number=%v", got.String(), got.IsNumber())
	}
	if got := extraction.NumberishOf(nil); got.IsPresent() {
		t.Error("NumberishOf(nil) should be absent")
	}
}
