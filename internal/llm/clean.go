package llm

import (
	"fmt"
	"strings"

	"invoicr/internal/domain"
)

// CleanResponse strips markdown code fences from a model reply and, when the
// remainder is not already a bare JSON object, extracts the outermost {...}
// span. Returns ErrMalformedOutput when no object span can be found.
func CleanResponse(content string) (string, error) {
	cleaned := strings.TrimSpace(content)

	if strings.HasPrefix(cleaned, "```json") {
		cleaned = cleaned[len("```json"):]
	} else if strings.HasPrefix(cleaned, "```") {
		cleaned = cleaned[len("```"):]
	}
	cleaned = strings.TrimSuffix(strings.TrimSpace(cleaned), "```")
	cleaned = strings.TrimSpace(cleaned)

	if strings.HasPrefix(cleaned, "{") {
		return cleaned, nil
	}

	start := strings.Index(cleaned, "{")
	end := strings.LastIndex(cleaned, "}")
	if start == -1 || end == -1 || end < start {
		return "", fmt.Errorf("%w: no JSON object found in response", domain.ErrMalformedOutput)
	}
	return cleaned[start : end+1], nil
}
