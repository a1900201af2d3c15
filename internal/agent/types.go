package agent

// Action kinds the executor understands.
const (
	ActionClick  = "click"
	ActionInput  = "input"
	ActionScroll = "scroll"
	ActionURL    = "url"
)

// Action is one step the agent wants performed. ElementID carries the short
// identifier from the page summary; XPathRef is the legacy name for the same
// reference, still accepted from older prompts. XPath and Selector are filled
// in by Resolve.
type Action struct {
	Type      string `json:"type"`
	ElementID string `json:"element_id,omitempty"`
	XPathRef  string `json:"xpath_ref,omitempty"`
	XPath     string `json:"xpath,omitempty"`
	Selector  string `json:"selector,omitempty"`
	Text      string `json:"text,omitempty"`
	Amount    int    `json:"amount,omitempty"`
	URL       string `json:"url,omitempty"`
}

// CurrentState is the agent's own reading of the page.
type CurrentState struct {
	PageSummary            string `json:"page_summary"`
	EvaluationPreviousGoal string `json:"evaluation_previous_goal"`
	NextGoal               string `json:"next_goal"`
}

// Response is the full structured reply from the model.
type Response struct {
	CurrentState CurrentState `json:"current_state"`
	Actions      []Action     `json:"actions"`
	IsDone       bool         `json:"is_done"`
}

// HistoryEntry is one prior step fed back into prompt assembly.
type HistoryEntry struct {
	URL     string   `json:"url"`
	Actions []Action `json:"actions"`
}
