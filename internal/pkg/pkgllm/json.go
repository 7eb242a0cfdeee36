package pkgllm

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

// ErrNoJSON is returned when a reply holds no parseable JSON value.
var ErrNoJSON = errors.New("llm: no valid JSON found in response")

// ExtractJSON returns the first balanced JSON object or array found in a
// reply, tolerating markdown fences and surrounding prose.
func ExtractJSON(reply string) (string, error) {
	cleaned := stripFence(reply)

	for i := 0; i < len(cleaned); i++ {
		var closer byte
		switch cleaned[i] {
		case '{':
			closer = '}'
		case '[':
			closer = ']'
		default:
			continue
		}

		if candidate, ok := balanced(cleaned[i:], cleaned[i], closer); ok && json.Valid([]byte(candidate)) {
			return candidate, nil
		}
	}

	if trimmed := strings.TrimSpace(cleaned); json.Valid([]byte(trimmed)) {
		return trimmed, nil
	}

	return "", ErrNoJSON
}

// ParseJSON extracts JSON from reply and decodes it into T.
func ParseJSON[T any](reply string) (T, error) {
	var out T

	raw, err := ExtractJSON(reply)
	if err != nil {
		return out, err
	}

	if err := json.Unmarshal([]byte(raw), &out); err != nil {
		return out, fmt.Errorf("decode json reply: %w", err)
	}

	return out, nil
}

// stripFence returns the body of the first ``` fence (```json or bare) when present.
func stripFence(s string) string {
	start := strings.Index(s, "```")
	if start == -1 {
		return s
	}

	body := s[start+3:]
	if nl := strings.IndexByte(body, '\n'); nl != -1 && !strings.ContainsAny(body[:nl], "{[") {
		body = body[nl+1:]
	}
	if end := strings.Index(body, "```"); end != -1 {
		body = body[:end]
	}

	return body
}

// balanced returns the prefix of s that closes the bracket opened at s[0].
func balanced(s string, opener, closer byte) (string, bool) {
	depth := 0
	inString := false
	escaped := false

	for i := 0; i < len(s); i++ {
		c := s[i]

		switch {
		case escaped:
			escaped = false
		case inString && c == '\\':
			escaped = true
		case c == '"':
			inString = !inString
		case inString:
		case c == opener:
			depth++
		case c == closer:
			depth--
			if depth == 0 {
				return s[:i+1], true
			}
		}
	}

	return "", false
}
