package agent

import "strings"

var validActionTypes = map[string]bool{
	ActionClick:  true,
	ActionInput:  true,
	ActionScroll: true,
	ActionURL:    true,
}

// ValidateAction checks an action for basic sanity, normalizing the type in
// place. Returns false for unknown types or actions missing their payload.
func ValidateAction(a *Action) bool {
	if a == nil {
		return false
	}
	a.Type = strings.ToLower(strings.TrimSpace(a.Type))
	if !validActionTypes[a.Type] {
		return false
	}
	switch a.Type {
	case ActionURL:
		if strings.TrimSpace(a.URL) == "" {
			return false
		}
	case ActionInput:
		if a.ElementID == "" && a.XPathRef == "" {
			return false
		}
	case ActionClick:
		if a.ElementID == "" && a.XPathRef == "" {
			return false
		}
	}
	return true
}

// ValidateResponse drops invalid actions, keeping the rest of the response
// intact. A model reply with zero usable actions is still a valid response;
// the caller decides what to do with it.
func ValidateResponse(resp *Response) *Response {
	if resp == nil {
		return nil
	}
	valid := resp.Actions[:0]
	for i := range resp.Actions {
		if ValidateAction(&resp.Actions[i]) {
			valid = append(valid, resp.Actions[i])
		}
	}
	resp.Actions = valid
	return resp
}
