package compact

import (
	"testing"

	"github.com/navigator-ai/navcore/internal/dom"
)

// buildGraph wires elements under a body root, in the given order.
func buildGraph(nodes map[string]*dom.ElementNode, order []string) *dom.Graph {
	g := dom.NewGraph()
	for _, id := range order {
		g.Add(id, nodes[id])
	}
	return g
}

func selectors(t *testing.T, g *dom.Graph) map[string]string {
	t.Helper()
	return New(DefaultConfig()).Compact(g).SelectorMap
}

func TestSelector_DataTestID(t *testing.T) {
	g := buildGraph(map[string]*dom.ElementNode{
		"0": {TagName: "body", XPath: "/body", Children: []string{"1"}, IsVisible: true},
		"1": {TagName: "button", XPath: "/body/button", Attributes: map[string]string{"data-testid": "submit"},
			Children: []string{}, IsVisible: true, IsInteractive: true},
	}, []string{"0", "1"})

	if got := selectors(t, g)["E1"]; got != "[data-testid='submit']" {
		t.Errorf("selector = %q", got)
	}
}

func TestSelector_IDBeatsEverything(t *testing.T) {
	g := buildGraph(map[string]*dom.ElementNode{
		"0": {TagName: "body", XPath: "/body", Children: []string{"1"}, IsVisible: true},
		"1": {TagName: "button", XPath: "/body/button",
			Attributes: map[string]string{"id": "save", "data-testid": "x", "class": "primary"},
			Children:   []string{}, IsVisible: true, IsInteractive: true},
	}, []string{"0", "1"})

	if got := selectors(t, g)["E1"]; got != "#save" {
		t.Errorf("selector = %q", got)
	}
}

func TestSelector_InputTypeAndName(t *testing.T) {
	g := buildGraph(map[string]*dom.ElementNode{
		"0": {TagName: "body", XPath: "/body", Children: []string{"1"}, IsVisible: true},
		"1": {TagName: "input", XPath: "/body/input",
			Attributes: map[string]string{"type": "email", "name": "user"},
			Children:   []string{}, IsVisible: true},
	}, []string{"0", "1"})

	if got := selectors(t, g)["E1"]; got != "input[type='email'][name='user']" {
		t.Errorf("selector = %q", got)
	}
}

func TestSelector_AnchorHref(t *testing.T) {
	longHref := "/very/long/path/that/goes/on/and/on/forever/and/ever/more"
	g := buildGraph(map[string]*dom.ElementNode{
		"0": {TagName: "body", XPath: "/body", Children: []string{"1", "2", "3"}, IsVisible: true},
		"1": {TagName: "a", XPath: "/body/a[1]", Attributes: map[string]string{"href": "/about"},
			Children: []string{}, IsVisible: true, IsInteractive: true},
		"2": {TagName: "a", XPath: "/body/a[2]", Attributes: map[string]string{"href": longHref, "class": "nav-link"},
			Children: []string{}, IsVisible: true, IsInteractive: true},
		"3": {TagName: "a", XPath: "/body/a[3]", Attributes: map[string]string{"href": "javascript:void(0)", "class": "nav-link"},
			Children: []string{}, IsVisible: true, IsInteractive: true},
	}, []string{"0", "1", "2", "3"})

	sel := selectors(t, g)
	if sel["E1"] != "a[href='/about']" {
		t.Errorf("short href selector = %q", sel["E1"])
	}
	if sel["E2"] != "a.nav-link" {
		t.Errorf("long href should fall back to class, got %q", sel["E2"])
	}
	if sel["E3"] != "a.nav-link" {
		t.Errorf("javascript href should fall back to class, got %q", sel["E3"])
	}
}

func TestSelector_ClassSkipsShortAndJSPrefixed(t *testing.T) {
	g := buildGraph(map[string]*dom.ElementNode{
		"0": {TagName: "body", XPath: "/body", Children: []string{"1"}, IsVisible: true},
		"1": {TagName: "button", XPath: "/body/button",
			Attributes: map[string]string{"class": "js-go btn primary"},
			Children:   []string{}, IsVisible: true, IsInteractive: true},
	}, []string{"0", "1"})

	if got := selectors(t, g)["E1"]; got != "button.primary" {
		t.Errorf("selector = %q", got)
	}
}

func TestSelector_ParentID(t *testing.T) {
	g := buildGraph(map[string]*dom.ElementNode{
		"0": {TagName: "body", XPath: "/body", Children: []string{"1"}, IsVisible: true},
		"1": {TagName: "div", XPath: "/body/div", Attributes: map[string]string{"id": "menu"},
			Children: []string{"2"}, IsVisible: true},
		"2": {TagName: "span", XPath: "/body/div/span", Attributes: map[string]string{"role": "button"},
			Children: []string{}, IsVisible: true, IsInteractive: true},
	}, []string{"0", "1", "2"})

	if got := selectors(t, g)["E1"]; got != "#menu > span" {
		t.Errorf("selector = %q", got)
	}
}

func TestSelector_NthOfTypeDisambiguatesSiblings(t *testing.T) {
	g := buildGraph(map[string]*dom.ElementNode{
		"0": {TagName: "body", XPath: "/body", Children: []string{"1"}, IsVisible: true},
		"1": {TagName: "div", XPath: "/body/div", Children: []string{"2", "3"}, IsVisible: true},
		"2": {TagName: "a", XPath: "/body/div/a[1]", Children: []string{}, IsVisible: true, IsInteractive: true},
		"3": {TagName: "a", XPath: "/body/div/a[2]", Children: []string{}, IsVisible: true, IsInteractive: true},
	}, []string{"0", "1", "2", "3"})

	sel := selectors(t, g)
	if sel["E1"] != "div > a:nth-of-type(1)" {
		t.Errorf("first sibling selector = %q", sel["E1"])
	}
	if sel["E2"] != "div > a:nth-of-type(2)" {
		t.Errorf("second sibling selector = %q", sel["E2"])
	}
}

func TestSelector_DuplicateHrefsGetPositionalSelectors(t *testing.T) {
	g := buildGraph(map[string]*dom.ElementNode{
		"0": {TagName: "body", XPath: "/body", Children: []string{"1"}, IsVisible: true},
		"1": {TagName: "div", XPath: "/body/div", Children: []string{"2", "3"}, IsVisible: true},
		"2": {TagName: "a", XPath: "/body/div/a[1]", Attributes: map[string]string{"href": "/x"},
			Children: []string{}, IsVisible: true, IsInteractive: true},
		"3": {TagName: "a", XPath: "/body/div/a[2]", Attributes: map[string]string{"href": "/x"},
			Children: []string{}, IsVisible: true, IsInteractive: true},
	}, []string{"0", "1", "2", "3"})

	sel := selectors(t, g)
	if sel["E1"] != "div > a:nth-of-type(1)" || sel["E2"] != "div > a:nth-of-type(2)" {
		t.Errorf("duplicate hrefs must disambiguate by position, got %v", sel)
	}
}

func TestSelector_BareTagFallback(t *testing.T) {
	g := buildGraph(map[string]*dom.ElementNode{
		"0": {TagName: "button", XPath: "/button", Children: []string{}, IsVisible: true, IsInteractive: true},
	}, []string{"0"})

	if got := selectors(t, g)["E1"]; got != "button" {
		t.Errorf("selector = %q", got)
	}
}
