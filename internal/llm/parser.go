package llm

import (
	"encoding/json"
	"fmt"
	"strings"
)

// StripFences removes markdown code fences that models sometimes wrap
// around JSON output despite being told not to.
func StripFences(content string) string {
	content = strings.TrimSpace(content)

	if strings.HasPrefix(content, "```json") {
		content = strings.TrimPrefix(content, "```json")
	} else if strings.HasPrefix(content, "```") {
		content = strings.TrimPrefix(content, "```")
	}
	content = strings.TrimSuffix(strings.TrimSpace(content), "```")

	return strings.TrimSpace(content)
}

// decodeExtraction parses raw model output into an ExtractionResponse.
func decodeExtraction(content string) (ExtractionResponse, error) {
	content = StripFences(content)

	var resp ExtractionResponse
	if err := json.Unmarshal([]byte(content), &resp); err != nil {
		return ExtractionResponse{}, fmt.Errorf("failed to parse JSON response: %w", err)
	}

	return resp, nil
}

// DecodeStringArray parses model output expected to be a JSON array of
// strings, tolerating markdown fences.
func DecodeStringArray(content string) ([]string, error) {
	content = StripFences(content)

	var items []string
	if err := json.Unmarshal([]byte(content), &items); err != nil {
		return nil, fmt.Errorf("failed to parse JSON array: %w", err)
	}

	return items, nil
}
