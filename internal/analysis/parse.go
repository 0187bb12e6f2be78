package analysis

import (
	"encoding/json"
	"errors"
	"regexp"
	"strings"
)

var (
	ErrEmptyResponse = errors.New("empty model response")

	fencedJSON = regexp.MustCompile("(?s)```json\\s*(.*?)```")
)

// Parsed is the outcome of interpreting a model response. When Fallback is
// true, Value holds the stage default and Err explains why parsing failed.
type Parsed[T any] struct {
	Value    T
	Fallback bool
	Err      error
}

func parsedValue[T any](v T) Parsed[T] {
	return Parsed[T]{Value: v}
}

func parsedFallback[T any](v T, err error) Parsed[T] {
	return Parsed[T]{Value: v, Fallback: true, Err: err}
}

// ExtractJSON pulls the JSON payload out of free text: a ```json fenced block
// if present, else the first balanced top-level object, else the whole text.
func ExtractJSON(text string) string {
	if m := fencedJSON.FindStringSubmatch(text); m != nil {
		return strings.TrimSpace(m[1])
	}
	if obj, ok := firstObject(text); ok {
		return obj
	}
	return strings.TrimSpace(text)
}

// firstObject returns the span from the first '{' to its matching '}'.
// Braces inside string literals do not count.
func firstObject(text string) (string, bool) {
	start := strings.IndexByte(text, '{')
	if start < 0 {
		return "", false
	}
	depth := 0
	inString, escaped := false, false
	for i := start; i < len(text); i++ {
		c := text[i]
		if inString {
			switch {
			case escaped:
				escaped = false
			case c == '\\':
				escaped = true
			case c == '"':
				inString = false
			}
			continue
		}
		switch c {
		case '"':
			inString = true
		case '{':
			depth++
		case '}':
			depth--
			if depth == 0 {
				return text[start : i+1], true
			}
		}
	}
	return "", false
}

// decodeResponse extracts and unmarshals a model response into T.
func decodeResponse[T any](text string) (T, error) {
	var out T
	if strings.TrimSpace(text) == "" {
		return out, ErrEmptyResponse
	}
	if err := json.Unmarshal([]byte(ExtractJSON(text)), &out); err != nil {
		return out, err
	}
	return out, nil
}
