// Package json provides JSON extraction utilities for parsing LLM responses.
//
// Vision models often wrap the requested JSON object in commentary or
// markdown fences. This package salvages the object from such responses.
package json

import (
	"encoding/json"
	"fmt"
	"regexp"
)

// objectPattern is greedy: it spans from the first '{' to the last '}'.
// Output holding several separate objects yields one invalid span.
var objectPattern = regexp.MustCompile(`(?s)\{.*\}`)

// extractJSON returns the JSON object portion of a response string.
// 1. The full response, when it is a JSON object
// 2. The first greedy brace-delimited match, when that is a JSON object
func extractJSON(response string) (string, error) {
	var test map[string]json.RawMessage
	if err := json.Unmarshal([]byte(response), &test); err == nil {
		return response, nil
	}

	if match := objectPattern.FindString(response); match != "" {
		if err := json.Unmarshal([]byte(match), &test); err == nil {
			return match, nil
		}
	}

	preview := response
	if len(preview) > 100 {
		preview = preview[:100] + "..."
	}
	return "", fmt.Errorf("failed to extract valid JSON from response: %q", preview)
}

// ExtractJSONFromResponse extracts and parses a JSON object from an LLM
// response into T.
func ExtractJSONFromResponse[T any](response string) (T, error) {
	var result T
	jsonStr, err := extractJSON(response)
	if err != nil {
		return result, err
	}
	if err := json.Unmarshal([]byte(jsonStr), &result); err != nil {
		return result, fmt.Errorf("failed to unmarshal JSON: %w", err)
	}
	return result, nil
}

// ExtractJSON extracts the JSON object portion from a response string.
func ExtractJSON(response string) (string, error) {
	return extractJSON(response)
}
