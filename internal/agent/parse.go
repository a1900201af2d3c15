package agent

import (
	"encoding/json"
	"fmt"
	"regexp"
	"strings"
)

var (
	codeBlockRe  = regexp.MustCompile("(?s)^```(?:json)?\\s*(.*?)\\s*```$")
	jsonObjectRe = regexp.MustCompile(`(?s)\{.*\}`)
)

// ParseResponse decodes a model reply into a Response, tolerating markdown
// code fences and surrounding prose. On failure it returns a safe fallback
// response with no actions alongside the decode error, so callers can log
// the miss but still continue the loop.
func ParseResponse(raw string) (*Response, error) {
	text := stripCodeBlock(raw)

	var resp Response
	if err := json.Unmarshal([]byte(text), &resp); err == nil {
		return &resp, nil
	}

	if candidate := jsonObjectRe.FindString(text); candidate != "" {
		if err := json.Unmarshal([]byte(candidate), &resp); err == nil {
			return &resp, nil
		}
	}

	return fallbackResponse(), fmt.Errorf("unparsable model output: %s", snippet(raw, 200))
}

func fallbackResponse() *Response {
	return &Response{
		CurrentState: CurrentState{
			PageSummary:            "Failed to parse model output.",
			EvaluationPreviousGoal: "Unknown",
			NextGoal:               "Try different approach",
		},
		Actions: []Action{},
		IsDone:  false,
	}
}

func stripCodeBlock(s string) string {
	s = strings.TrimSpace(s)
	if m := codeBlockRe.FindStringSubmatch(s); len(m) > 1 {
		return m[1]
	}
	return s
}

func snippet(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
