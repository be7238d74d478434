package extraction

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// firstPresent returns the value at the first dot path that holds a
// present value: neither missing, nil, nor the empty string.
func firstPresent(obj map[string]any, paths ...string) (any, bool) {
	for _, path := range paths {
		v, ok := valueAt(obj, path)
		if !ok || v == nil {
			continue
		}
		if s, isString := v.(string); isString && s == "" {
			continue
		}
		return v, true
	}
	return nil, false
}

func valueAt(obj map[string]any, path string) (any, bool) {
	var cur any = obj
	for part := range strings.SplitSeq(path, ".") {
		m, ok := cur.(map[string]any)
		if !ok {
			return nil, false
		}
		if cur, ok = m[part]; !ok {
			return nil, false
		}
	}
	return cur, true
}

func stringAt(obj map[string]any, paths ...string) string {
	v, ok := firstPresent(obj, paths...)
	if !ok {
		return ""
	}
	return toString(v)
}

func numberishAt(obj map[string]any, paths ...string) Numberish {
	v, ok := firstPresent(obj, paths...)
	if !ok {
		return Numberish{}
	}
	return NumberishOf(v)
}

func floatAt(obj map[string]any, paths ...string) (float64, bool) {
	v, ok := firstPresent(obj, paths...)
	if !ok {
		return 0, false
	}
	switch t := v.(type) {
	case float64:
		return t, true
	case json.Number:
		f, err := t.Float64()
		return f, err == nil
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(t), 64)
		return f, err == nil
	}
	return 0, false
}

func linesAt(obj map[string]any, paths ...string) []map[string]any {
	v, ok := firstPresent(obj, paths...)
	if !ok {
		return nil
	}
	items, ok := v.([]any)
	if !ok {
		return nil
	}
	lines := make([]map[string]any, 0, len(items))
	for _, item := range items {
		if m, ok := item.(map[string]any); ok {
			lines = append(lines, m)
		}
	}
	return lines
}

func toString(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return t
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(t)
	default:
		return fmt.Sprint(t)
	}
}
