package agent

import (
	"reflect"
	"testing"
)

func TestResolve_AttachesLocators(t *testing.T) {
	resp := &Response{Actions: []Action{
		{Type: "click", ElementID: "E1"},
		{Type: "input", XPathRef: "E2", Text: "hi"},
	}}
	xpaths := map[string]string{"E1": "/html/body/button", "E2": "/html/body/input"}
	selectors := map[string]string{"E1": "#go", "E2": "input[name='q']"}

	Resolve(resp, xpaths, selectors)

	if resp.Actions[0].XPath != "/html/body/button" || resp.Actions[0].Selector != "#go" {
		t.Errorf("element_id action not resolved: %+v", resp.Actions[0])
	}
	if resp.Actions[1].XPath != "/html/body/input" || resp.Actions[1].Selector != "input[name='q']" {
		t.Errorf("xpath_ref action not resolved: %+v", resp.Actions[1])
	}
}

func TestResolve_UnknownReferenceLeftUnset(t *testing.T) {
	resp := &Response{Actions: []Action{{Type: "click", ElementID: "E99"}}}

	Resolve(resp, map[string]string{"E1": "/x"}, map[string]string{"E1": "#x"})

	if resp.Actions[0].XPath != "" || resp.Actions[0].Selector != "" {
		t.Errorf("unknown reference should leave locators empty: %+v", resp.Actions[0])
	}
}

func TestResolve_SkipsActionsWithoutReference(t *testing.T) {
	resp := &Response{Actions: []Action{{Type: "url", URL: "https://example.com"}}}

	Resolve(resp, map[string]string{}, map[string]string{})

	if resp.Actions[0].XPath != "" || resp.Actions[0].Selector != "" {
		t.Errorf("url action should be untouched: %+v", resp.Actions[0])
	}
}

func TestResolve_Idempotent(t *testing.T) {
	resp := &Response{Actions: []Action{{Type: "click", ElementID: "E1"}}}
	xpaths := map[string]string{"E1": "/a"}
	selectors := map[string]string{"E1": "#a"}

	Resolve(resp, xpaths, selectors)
	first := make([]Action, len(resp.Actions))
	copy(first, resp.Actions)

	Resolve(resp, xpaths, selectors)
	if !reflect.DeepEqual(first, resp.Actions) {
		t.Errorf("second resolve changed actions: %+v vs %+v", first, resp.Actions)
	}

	if len(xpaths) != 1 || len(selectors) != 1 {
		t.Error("locator maps must not be mutated")
	}
}

func TestResolve_Nil(t *testing.T) {
	if Resolve(nil, nil, nil) != nil {
		t.Error("nil response should pass through")
	}
}
