package assistant

import (
	"encoding/json"
	"errors"
	"strings"
)

var errNoJSON = errors.New("reply contains no JSON value")

// decodeReply parses the JSON value embedded in a model reply. Models are
// asked for bare JSON but some wrap it in prose or code fences.
func decodeReply(text string, v any) error {
	raw := extractJSON(text)
	if raw == "" {
		return errNoJSON
	}
	return json.Unmarshal([]byte(raw), v)
}

func extractJSON(text string) string {
	s := strings.TrimSpace(text)
	start := strings.IndexAny(s, "[{")
	if start < 0 {
		return ""
	}
	closing := byte('}')
	if s[start] == '[' {
		closing = ']'
	}
	end := strings.LastIndexByte(s, closing)
	if end < start {
		return ""
	}
	return s[start : end+1]
}
