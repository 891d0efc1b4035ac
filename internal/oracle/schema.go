package oracle

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/tidwall/gjson"
)

// decodeStructured parses model output into out and runs its validation.
// Models occasionally wrap the JSON document in prose or code fences even
// when a schema was requested, so a raw parse failure falls back to
// extracting the outermost object.
func decodeStructured(content string, out any) error {
	payload := content
	if !gjson.Valid(payload) {
		extracted, ok := extractJSONObject(content)
		if !ok {
			return fmt.Errorf("structured output is not valid JSON")
		}
		payload = extracted
	}

	if err := json.Unmarshal([]byte(payload), out); err != nil {
		return fmt.Errorf("decoding structured output: %w", err)
	}
	if v, ok := out.(Validator); ok {
		if err := v.Validate(); err != nil {
			return fmt.Errorf("invalid structured output: %w", err)
		}
	}
	return nil
}

// extractJSONObject returns the outermost {...} span of text, if that span
// is valid JSON.
func extractJSONObject(text string) (string, bool) {
	start := strings.Index(text, "{")
	end := strings.LastIndex(text, "}")
	if start < 0 || end <= start {
		return "", false
	}
	candidate := text[start : end+1]
	if !gjson.Valid(candidate) {
		return "", false
	}
	return candidate, true
}
