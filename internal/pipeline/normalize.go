package pipeline

import (
	"encoding/json"
	"strings"
)

// ParseStructuredResponse recovers a JSON object from a provider's raw text
// output. It first tries a direct parse, then scans for the first balanced
// brace substring (providers like to wrap JSON in prose). Returns nil when no
// object can be recovered; it never returns an error.
func ParseStructuredResponse(raw string) map[string]any {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return nil
	}

	var direct map[string]any
	if err := json.Unmarshal([]byte(trimmed), &direct); err == nil {
		return direct
	}

	candidate := firstJSONObject(trimmed)
	if candidate == "" {
		return nil
	}

	var embedded map[string]any
	if err := json.Unmarshal([]byte(candidate), &embedded); err != nil {
		return nil
	}
	return embedded
}

// firstJSONObject returns the first balanced {...} substring using a
// brace-depth scan. String literals and escapes are respected so braces
// inside values do not confuse the depth counter.
func firstJSONObject(s string) string {
	depth := 0
	start := -1
	inString := false
	escaped := false

	for i := 0; i < len(s); i++ {
		c := s[i]

		if escaped {
			escaped = false
			continue
		}

		switch c {
		case '\\':
			if inString {
				escaped = true
			}
		case '"':
			inString = !inString
		case '{':
			if !inString {
				if depth == 0 {
					start = i
				}
				depth++
			}
		case '}':
			if !inString && depth > 0 {
				depth--
				if depth == 0 && start >= 0 {
					return s[start : i+1]
				}
			}
		}
	}

	return ""
}

// NormalizePostOutput maps a parsed provider object onto a PostOutput,
// applying field-level defaults so all four core fields are always present.
func NormalizePostOutput(parsed map[string]any) PostOutput {
	return PostOutput{
		MainContent:  StringField(parsed, "mainContent"),
		Caption:      StringField(parsed, "caption"),
		Hashtags:     StringSliceField(parsed, "hashtags"),
		VisualPrompt: StringField(parsed, "visualPrompt"),
	}
}

// StringField returns the string at key, or "" when absent or mistyped.
func StringField(m map[string]any, key string) string {
	if m == nil {
		return ""
	}
	if v, ok := m[key].(string); ok {
		return v
	}
	return ""
}

// StringSliceField returns the string slice at key, or an empty slice.
func StringSliceField(m map[string]any, key string) []string {
	result := []string{}
	if m == nil {
		return result
	}
	raw, ok := m[key].([]any)
	if !ok {
		return result
	}
	for _, item := range raw {
		if s, ok := item.(string); ok && s != "" {
			result = append(result, s)
		}
	}
	return result
}

// NumberField returns the number at key, or def when absent or mistyped.
// JSON numbers decode as float64.
func NumberField(m map[string]any, key string, def float64) float64 {
	if m == nil {
		return def
	}
	if v, ok := m[key].(float64); ok {
		return v
	}
	return def
}
