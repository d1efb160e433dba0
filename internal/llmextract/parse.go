// parse.go implements tolerant JSON parsing of LLM responses, grounded
// on leofalp-aigo/core/parse/parse.go's ParseStringAs: try a direct
// json.Unmarshal first, then repair with kaptinlin/jsonrepair and retry.
// Code-fence stripping is specific to this domain (the teacher's source
// never saw fenced responses).
package llmextract

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/kaptinlin/jsonrepair"
)

type rawLLMItem struct {
	Number         string `json:"number"`
	Type           string `json:"type"`
	Classification string `json:"classification"`
}

// parseChunkResponse parses text as a JSON list of {number, type,
// classification} objects per spec.md section 4.7 step 5, tolerating
// surrounding whitespace, code-fence wrappers, and minor JSON errors via
// jsonrepair.
func parseChunkResponse(text string) ([]rawLLMItem, error) {
	cleaned := stripCodeFence(strings.TrimSpace(text))

	var items []rawLLMItem
	if err := json.Unmarshal([]byte(cleaned), &items); err == nil {
		return items, nil
	}

	repaired, repairErr := jsonrepair.JSONRepair(cleaned)
	if repairErr != nil {
		return nil, fmt.Errorf("parse LLM response: unmarshal and repair both failed: %w", repairErr)
	}
	if err := json.Unmarshal([]byte(repaired), &items); err != nil {
		return nil, fmt.Errorf("parse LLM response after repair: %w", err)
	}
	return items, nil
}

func stripCodeFence(s string) string {
	if !strings.HasPrefix(s, "```") {
		return s
	}
	s = strings.TrimPrefix(s, "```")
	if idx := strings.Index(s, "\n"); idx >= 0 {
		firstLine := strings.TrimSpace(s[:idx])
		if firstLine == "json" || firstLine == "" {
			s = s[idx+1:]
		}
	}
	s = strings.TrimSuffix(strings.TrimSpace(s), "```")
	return strings.TrimSpace(s)
}
