package llm

import (
	"encoding/json"
	"strings"
)

// ExtractJSON returns the substring from the first '{' to the last '}' in the
// input. This is a pragmatic approach to handle model outputs that wrap JSON
// in text or markdown.
func ExtractJSON(s string) string {
	first := strings.Index(s, "{")
	last := strings.LastIndex(s, "}")
	if first == -1 || last == -1 || last < first {
		return ""
	}
	return s[first : last+1]
}

// ParseStructured extracts a JSON object from arbitrary model output and
// unmarshals it into T. Any failure (no JSON found, malformed JSON) returns
// the provided fallback unchanged; this function never errors. Callers that
// need to distinguish failure should compare against the fallback or use
// ParseStructuredErr.
func ParseStructured[T any](raw string, fallback T) T {
	v, err := ParseStructuredErr[T](raw)
	if err != nil {
		return fallback
	}
	return v
}

// ParseStructuredErr is the error-reporting variant of ParseStructured.
func ParseStructuredErr[T any](raw string) (T, error) {
	var v T
	j := ExtractJSON(raw)
	if j == "" {
		return v, errNoJSON
	}
	if err := json.Unmarshal([]byte(j), &v); err != nil {
		return v, err
	}
	return v, nil
}

var errNoJSON = jsonError("no JSON object found in response")

type jsonError string

func (e jsonError) Error() string { return string(e) }
