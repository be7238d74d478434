// Package formatting provides human-readable formatting and parsing utilities
// for byte sizes, locale-formatted money amounts, and JSON embedded in text.
package formatting

import (
	"fmt"
	"math"
	"slices"
	"strconv"
	"strings"
	"unicode"
)

// Binary units, each 1024 times the previous. EB is the largest that fits
// an int64.
var units = []string{"B", "KB", "MB", "GB", "TB", "PB", "EB"}

// FormatBytes renders n in the largest unit that keeps the value at or
// above 1, with precision decimals. Plain bytes are always whole.
func FormatBytes(n int64, precision int) string {
	size, exp := float64(n), 0
	for math.Abs(size) >= 1024 && exp < len(units)-1 {
		size /= 1024
		exp++
	}
	if exp == 0 {
		return strconv.FormatInt(n, 10) + " B"
	}
	return strconv.FormatFloat(size, 'f', max(precision, 0), 64) + " " + units[exp]
}

// ParseBytes reads sizes such as "10MB", "1.5 kb" or "4096". Units are
// binary and case-insensitive; a bare number is bytes.
func ParseBytes(s string) (int64, error) {
	s = strings.TrimSpace(s)
	num := strings.TrimRightFunc(s, unicode.IsLetter)
	unit := strings.ToUpper(s[len(num):])
	num = strings.TrimSpace(num)

	if num == "" {
		return 0, fmt.Errorf("invalid byte size %q: missing number", s)
	}
	value, err := strconv.ParseFloat(num, 64)
	if err != nil || value < 0 {
		return 0, fmt.Errorf("invalid byte size %q", s)
	}

	exp := 0
	if unit != "" {
		if exp = slices.Index(units, unit); exp < 0 {
			return 0, fmt.Errorf("invalid byte size %q: unknown unit %s", s, unit)
		}
	}
	return int64(value * math.Pow(1024, float64(exp))), nil
}
