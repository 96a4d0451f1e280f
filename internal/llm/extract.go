package llm

import (
	"encoding/json"
	"regexp"
	"strings"
)

var fencePattern = regexp.MustCompile("(?s)```(?:[a-zA-Z]+)?\\s*(.*?)```")

// ExtractJSON recovers the JSON object in a model answer. It tries, in order:
// the whole answer, the body of the first markdown code fence, and the
// substring from the first '{' to the last '}'. The first that parses wins.
func ExtractJSON(raw string) (map[string]any, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, ErrNoResponse
	}
	for _, candidate := range candidates(raw) {
		var out map[string]any
		if err := json.Unmarshal([]byte(candidate), &out); err == nil && out != nil {
			return out, nil
		}
	}
	return nil, ErrNoJSON
}

// ParseJSON accepts only an answer that is itself a JSON object.
func ParseJSON(raw string) (map[string]any, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, ErrNoResponse
	}
	var out map[string]any
	if err := json.Unmarshal([]byte(raw), &out); err != nil || out == nil {
		return nil, ErrBadJSON
	}
	return out, nil
}

func candidates(raw string) []string {
	out := []string{raw}
	if m := fencePattern.FindStringSubmatch(raw); m != nil {
		out = append(out, strings.TrimSpace(m[1]))
	}
	start, end := strings.Index(raw, "{"), strings.LastIndex(raw, "}")
	if start >= 0 && end > start {
		out = append(out, raw[start:end+1])
	}
	return out
}
