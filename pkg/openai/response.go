package openai

import (
	"errors"
	"strings"

	"github.com/JaimeStill/facturas/pkg/formatting"
)

// ErrNoJSON indicates no JSON object could be located in a response.
var ErrNoJSON = errors.New("no JSON object in response")

// ParseJSONFromResponse locates the model's JSON object in a Responses API
// payload. It checks, in order: output_parsed, output_text (a string or a list
// of strings), and the text of each output[].content[] part. Text is parsed
// directly, from a code fence, or from its outermost {...} span.
func ParseJSONFromResponse(resp map[string]any) (map[string]any, error) {
	if parsed, ok := resp["output_parsed"].(map[string]any); ok {
		return parsed, nil
	}

	switch v := resp["output_text"].(type) {
	case string:
		if obj, ok := parseObject(v); ok {
			return obj, nil
		}
	case []any:
		var b strings.Builder
		for _, part := range v {
			if s, ok := part.(string); ok {
				b.WriteString(s)
			}
		}
		if obj, ok := parseObject(b.String()); ok {
			return obj, nil
		}
	}

	output, _ := resp["output"].([]any)
	for _, item := range output {
		msg, ok := item.(map[string]any)
		if !ok {
			continue
		}
		content, _ := msg["content"].([]any)
		for _, c := range content {
			part, ok := c.(map[string]any)
			if !ok {
				continue
			}
			if parsed, ok := part["parsed"].(map[string]any); ok {
				return parsed, nil
			}
			if text, ok := part["text"].(string); ok {
				if obj, ok := parseObject(text); ok {
					return obj, nil
				}
			}
		}
	}

	return nil, ErrNoJSON
}

func parseObject(text string) (map[string]any, bool) {
	if strings.TrimSpace(text) == "" {
		return nil, false
	}
	obj, err := formatting.Parse[map[string]any](text)
	if err != nil || obj == nil {
		return nil, false
	}
	return obj, true
}
