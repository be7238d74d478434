package formatting

import (
	"errors"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// ErrInvalidAmount is returned when a value cannot be read as a finite number.
var ErrInvalidAmount = errors.New("invalid amount")

// ParseAmount reads a human-formatted monetary amount such as "1.234,56",
// "1,234.56", "$ 1234.56" or "1234,56".
//
// Everything except digits, comma, dot and minus is discarded. When both a
// comma and a dot remain, the rightmost of the two is the decimal separator and
// the other is stripped as a thousands separator. A lone comma is treated as the
// decimal separator.
func ParseAmount(s string) (decimal.Decimal, error) {
	var b strings.Builder
	for _, r := range s {
		if (r >= '0' && r <= '9') || r == ',' || r == '.' || r == '-' {
			b.WriteRune(r)
		}
	}

	cleaned := b.String()
	if cleaned == "" {
		return decimal.Zero, fmt.Errorf("%w: %q", ErrInvalidAmount, s)
	}

	comma := strings.LastIndex(cleaned, ",")
	dot := strings.LastIndex(cleaned, ".")

	switch {
	case comma >= 0 && dot >= 0:
		if comma > dot {
			cleaned = strings.ReplaceAll(cleaned, ".", "")
			cleaned = strings.ReplaceAll(cleaned, ",", ".")
		} else {
			cleaned = strings.ReplaceAll(cleaned, ",", "")
		}
	case comma >= 0:
		cleaned = strings.ReplaceAll(cleaned, ",", ".")
	}

	d, err := decimal.NewFromString(cleaned)
	if err != nil {
		return decimal.Zero, fmt.Errorf("%w: %q", ErrInvalidAmount, s)
	}
	return d, nil
}

// FormatMoney renders a units/nanos money pair with two decimals.
func FormatMoney(units int64, nanos int32) string {
	return decimal.New(units, 0).
		Add(decimal.New(int64(nanos), -9)).
		StringFixed(2)
}
