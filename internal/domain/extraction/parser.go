package extraction

import (
	"encoding/json"
	"fmt"
	"strings"
)

type modelResponse struct {
	Transactions []ExtractedTransaction `json:"transactions"`
}

// parseModelResponse repairs and parses the model's textual output. Models
// sometimes ignore the no-fences instruction, so a leading/trailing Markdown
// code fence is stripped before parsing. A response without a "transactions"
// array is a failure, not an empty result.
func parseModelResponse(raw string) ([]ExtractedTransaction, error) {
	clean := stripFences(raw)

	var resp modelResponse
	if err := json.Unmarshal([]byte(clean), &resp); err != nil {
		return nil, fmt.Errorf("%w: invalid model JSON: %v", ErrExtraction, err)
	}
	if resp.Transactions == nil {
		return nil, fmt.Errorf("%w: model response missing transactions array", ErrExtraction)
	}
	return resp.Transactions, nil
}

func stripFences(raw string) string {
	s := strings.TrimSpace(raw)

	if strings.HasPrefix(s, "```") {
		if idx := strings.Index(s, "\n"); idx != -1 {
			s = s[idx+1:]
		}
		s = strings.TrimSpace(s)
	}
	if idx := strings.LastIndex(s, "```"); idx != -1 {
		s = s[:idx]
	}

	return strings.TrimSpace(s)
}
