package agent

// Resolve attaches concrete locators to every action carrying a short
// identifier, via either the element_id field or the legacy xpath_ref field.
// Identifiers absent from both maps leave the locator fields unset; that is
// the execution layer's problem, not a resolution failure. The maps are never
// mutated and resolving the same response again is a no-op.
func Resolve(resp *Response, xpathMap, selectorMap map[string]string) *Response {
	if resp == nil {
		return nil
	}
	for i := range resp.Actions {
		action := &resp.Actions[i]
		ref := action.ElementID
		if ref == "" {
			ref = action.XPathRef
		}
		if ref == "" {
			continue
		}
		if xpath, ok := xpathMap[ref]; ok {
			action.XPath = xpath
		}
		if selector, ok := selectorMap[ref]; ok {
			action.Selector = selector
		}
	}
	return resp
}
