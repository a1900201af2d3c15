package compact

import "strings"

// EstimateTokens gives a rough token count for budget enforcement.
// Exact tokenization is not required: the summary cap is a safety margin,
// not a contract with any particular model.
func EstimateTokens(text string) int {
	if text == "" {
		return 0
	}
	words := len(strings.Fields(text))
	// Roughly 1.33 tokens per English word.
	tokens := int(float64(words) * 1.33)
	if tokens < 1 {
		tokens = 1
	}
	return tokens
}
