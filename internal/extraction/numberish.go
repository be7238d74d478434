package extraction

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/JaimeStill/facturas/pkg/formatting"
)

// Numberish is an amount kept as the provider wrote it: a JSON number, a
// string such as "1.234,56", or absent. It marshals back to the same form.
type Numberish struct {
	raw    string
	number bool
	set    bool
}

// Text returns a Numberish holding s verbatim.
func Text(s string) Numberish {
	return Numberish{raw: s, set: true}
}

// Number returns a Numberish holding a JSON number.
func Number(f float64) Numberish {
	return Numberish{raw: strconv.FormatFloat(f, 'f', -1, 64), number: true, set: true}
}

// NumberishOf converts a decoded JSON value. Values other than strings and
// numbers yield an absent Numberish.
func NumberishOf(v any) Numberish {
	switch t := v.(type) {
	case string:
		return Text(t)
	case float64:
		return Number(t)
	case json.Number:
		return Numberish{raw: t.String(), number: true, set: true}
	case int:
		return Numberish{raw: strconv.Itoa(t), number: true, set: true}
	case int64:
		return Numberish{raw: strconv.FormatInt(t, 10), number: true, set: true}
	}
	return Numberish{}
}

// IsPresent reports whether the value is a number, including zero, or a
// string with non-space content.
func (n Numberish) IsPresent() bool {
	if !n.set {
		return false
	}
	return n.number || strings.TrimSpace(n.raw) != ""
}

// IsNumber reports whether the value was a JSON number.
func (n Numberish) IsNumber() bool {
	return n.number
}

// String returns the original representation, or "" when absent.
func (n Numberish) String() string {
	return n.raw
}

// Amount parses the value as a finite decimal.
func (n Numberish) Amount() (decimal.Decimal, bool) {
	if !n.IsPresent() {
		return decimal.Zero, false
	}
	if n.number {
		d, err := decimal.NewFromString(n.raw)
		return d, err == nil
	}
	d, err := formatting.ParseAmount(n.raw)
	return d, err == nil
}

func (n Numberish) MarshalJSON() ([]byte, error) {
	switch {
	case !n.set:
		return []byte("null"), nil
	case n.number:
		return []byte(n.raw), nil
	default:
		return json.Marshal(n.raw)
	}
}

func (n *Numberish) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	switch {
	case bytes.Equal(data, []byte("null")):
		*n = Numberish{}
		return nil
	case len(data) > 0 && data[0] == '"':
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*n = Text(s)
		return nil
	default:
		var num json.Number
		if err := json.Unmarshal(data, &num); err != nil {
			return fmt.Errorf("numberish: %w", err)
		}
		*n = Numberish{raw: num.String(), number: true, set: true}
		return nil
	}
}
