package model

import (
	"strings"

	"github.com/tidwall/gjson"
)

// ExtractJSON returns the first valid JSON object embedded in a completion.
// Models often wrap JSON replies in prose or Markdown code fences.
func ExtractJSON(text string) (string, bool) {
	text = strings.TrimSpace(text)
	if gjson.Valid(text) && strings.HasPrefix(text, "{") {
		return text, true
	}
	for start := strings.IndexByte(text, '{'); start >= 0; {
		end := strings.LastIndexByte(text, '}')
		for end > start {
			candidate := text[start : end+1]
			if gjson.Valid(candidate) {
				return candidate, true
			}
			end = strings.LastIndexByte(text[:end], '}')
		}
		next := strings.IndexByte(text[start+1:], '{')
		if next < 0 {
			break
		}
		start += next + 1
	}
	return "", false
}
