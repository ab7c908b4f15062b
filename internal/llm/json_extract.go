package llm

import (
	"encoding/json"
	"regexp"
	"strings"

	"github.com/dylangamachefl/foundation-sprint/internal/types"
)

// ErrNoJSONFound indicates no decodable JSON object was present in a
// completion.
const ErrNoJSONFound types.ErrorCode = "LLM_NO_JSON_FOUND"

// fencePattern matches markdown code fences with an optional language tag.
// Captures: (1) optional language, (2) content.
var fencePattern = regexp.MustCompile("(?s)```(\\w*)\\s*\\n(.+?)\\n```")

// ExtractJSON extracts a JSON object from a model response that may be
// wrapped in prose or markdown. Priority:
//  1. JSON inside ```json ... ``` or untagged ``` ... ``` fences
//  2. The first balanced {...} span in the raw text
//
// Returns the extracted JSON string, or an error when no decodable object
// is present.
func ExtractJSON(response string) (string, error) {
	if jsonStr, found := extractFromFence(response); found {
		return jsonStr, nil
	}

	if jsonStr, found := extractBalancedObject(response); found {
		return jsonStr, nil
	}

	return "", types.NewError(ErrNoJSONFound, "no valid JSON object found in response")
}

// ExtractStructured decodes the first JSON object found in a model response.
// It never fails: when no object is present or decoding fails, it degrades
// to a fallback of shape {"response": <text>, "reasoning": <why>} so callers
// always receive a usable map.
func ExtractStructured(response string) map[string]any {
	jsonStr, err := ExtractJSON(response)
	if err != nil {
		return fallbackObject(response, "could not parse structured response")
	}

	var decoded map[string]any
	if err := json.Unmarshal([]byte(jsonStr), &decoded); err != nil {
		return fallbackObject(response, "JSON parsing failed: "+err.Error())
	}

	return decoded
}

func fallbackObject(response, reason string) map[string]any {
	return map[string]any{
		"response":  response,
		"reasoning": reason,
	}
}

// extractFromFence scans markdown code fences for a decodable JSON object.
// Fences tagged with a language other than "json" are skipped.
func extractFromFence(response string) (string, bool) {
	for _, match := range fencePattern.FindAllStringSubmatch(response, -1) {
		if len(match) < 3 {
			continue
		}

		lang := strings.ToLower(match[1])
		if lang != "" && lang != "json" {
			continue
		}

		content := strings.TrimSpace(match[2])
		if !strings.HasPrefix(content, "{") {
			continue
		}

		if isValidJSON(content) {
			return content, true
		}
	}

	return "", false
}

// extractBalancedObject finds the first balanced {...} span in the text.
// Braces inside JSON strings do not count toward nesting depth.
func extractBalancedObject(response string) (string, bool) {
	start := strings.IndexByte(response, '{')
	if start < 0 {
		return "", false
	}

	span := balancedSpan(response[start:])
	if span != "" && isValidJSON(span) {
		return span, true
	}

	return "", false
}

// balancedSpan returns the prefix of s that forms a balanced brace span, or
// "" when the braces never close. s must start with '{'.
func balancedSpan(s string) string {
	depth := 0
	inString := false
	escaped := false

	for i := 0; i < len(s); i++ {
		c := s[i]

		if escaped {
			escaped = false
			continue
		}

		switch {
		case c == '\\' && inString:
			escaped = true
		case c == '"':
			inString = !inString
		case inString:
			// string content, ignore braces
		case c == '{':
			depth++
		case c == '}':
			depth--
			if depth == 0 {
				return s[:i+1]
			}
		}
	}

	return ""
}

// isValidJSON checks if a string is valid JSON.
func isValidJSON(s string) bool {
	var js json.RawMessage
	return json.Unmarshal([]byte(s), &js) == nil
}
