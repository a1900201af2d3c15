package compact

import (
	"strconv"
	"strings"
	"testing"

	"github.com/navigator-ai/navcore/internal/dom"
)

// wideGraph builds a body with n identical interactive buttons.
func wideGraph(n int) *dom.Graph {
	g := dom.NewGraph()
	children := make([]string, 0, n)
	for i := 1; i <= n; i++ {
		children = append(children, strconv.Itoa(i))
	}
	g.Add("0", &dom.ElementNode{TagName: "body", XPath: "/body", Children: children, IsVisible: true})
	for i := 1; i <= n; i++ {
		g.Add(strconv.Itoa(i), &dom.ElementNode{
			TagName:       "button",
			XPath:         "/body/button[" + strconv.Itoa(i) + "]",
			Children:      []string{},
			IsVisible:     true,
			IsInteractive: true,
		})
	}
	return g
}

func TestPrune_CollapsesSiblingRuns(t *testing.T) {
	cfg := DefaultConfig()
	cfg.MaxElements = 6

	g := wideGraph(8)
	res := New(cfg).Compact(g)

	// Six survivors collapse to first/middle/last plus a synthetic count
	// element.
	if !strings.Contains(res.Summary, "6 similar button elements") {
		t.Errorf("summary missing sibling collapse marker: %q", res.Summary)
	}
	if got := len(res.SelectorMap); got != 4 {
		t.Errorf("expected 4 registered elements (3 representatives + summary), got %d: %v", got, res.SelectorMap)
	}

	// Input graph must not be touched.
	if g.Len() != 9 {
		t.Errorf("input graph mutated, len = %d", g.Len())
	}
	if body := g.Element("0"); len(body.Children) != 8 {
		t.Errorf("input body children mutated: %v", body.Children)
	}
}

func TestPrune_NotTriggeredUnderLimit(t *testing.T) {
	cfg := DefaultConfig()
	cfg.MaxElements = 10

	res := New(cfg).Compact(wideGraph(4))
	if got := len(res.XPathMap); got != 4 {
		t.Errorf("expected all 4 buttons registered, got %d", got)
	}
	if strings.Contains(res.Summary, "similar") {
		t.Errorf("no collapse expected: %q", res.Summary)
	}
}

func TestPrune_KeepsAncestorChain(t *testing.T) {
	g := dom.NewGraph()
	g.Add("0", &dom.ElementNode{TagName: "body", XPath: "/body", Children: []string{"1"}, IsVisible: true})
	g.Add("1", &dom.ElementNode{TagName: "div", XPath: "/body/div", Children: []string{"2", "3", "4"}, IsVisible: true})
	for _, id := range []string{"2", "3", "4"} {
		g.Add(id, &dom.ElementNode{
			TagName:       "button",
			XPath:         "/body/div/button[" + id + "]",
			Children:      []string{},
			IsVisible:     true,
			IsInteractive: true,
		})
	}

	pruned := prune(g, 1)

	if pruned.Element("0") == nil || pruned.Element("1") == nil {
		t.Error("ancestors of the kept button must survive pruning")
	}
	if pruned.Element("2") == nil {
		t.Error("highest-ranked button should survive")
	}
	if pruned.Element("3") != nil || pruned.Element("4") != nil {
		t.Error("excess buttons should be pruned")
	}
}

func TestScoreNodes_InvisibleScoresBelowZero(t *testing.T) {
	g := dom.NewGraph()
	g.Add("0", &dom.ElementNode{TagName: "div", XPath: "/div", Children: []string{}, IsVisible: false})
	g.Add("1", &dom.ElementNode{TagName: "button", XPath: "/button", Children: []string{}, IsVisible: true, IsInteractive: true})

	scores := scoreNodes(g)
	if scores["0"] >= 0 {
		t.Errorf("invisible div score = %f, want negative", scores["0"])
	}
	if scores["1"] <= scores["0"] {
		t.Errorf("visible button should outscore invisible div: %f vs %f", scores["1"], scores["0"])
	}
}

func TestScoreNodes_KeywordTextBoost(t *testing.T) {
	g := dom.NewGraph()
	g.Add("0", &dom.TextNode{Type: "TEXT_NODE", Text: "Login to your account", IsVisible: true})
	g.Add("1", &dom.TextNode{Type: "TEXT_NODE", Text: "Plain filler sentence here", IsVisible: true})

	scores := scoreNodes(g)
	if scores["0"] <= scores["1"] {
		t.Errorf("keyword text should outscore plain text: %f vs %f", scores["0"], scores["1"])
	}
}
