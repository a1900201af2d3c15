package dom

import (
	"encoding/json"
	"testing"
)

func TestGraph_UnmarshalOrdersKeysNumerically(t *testing.T) {
	payload := `{
		"10": {"tagName": "span", "xpath": "/body/span", "isVisible": true},
		"2": {"tagName": "div", "xpath": "/body/div", "children": [10], "isVisible": true},
		"1": {"tagName": "body", "xpath": "/body", "children": ["2"], "isVisible": true}
	}`

	var g Graph
	if err := json.Unmarshal([]byte(payload), &g); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}

	ids := g.IDs()
	want := []string{"1", "2", "10"}
	if len(ids) != len(want) {
		t.Fatalf("got %d ids, want %d", len(ids), len(want))
	}
	for i := range want {
		if ids[i] != want[i] {
			t.Errorf("ids[%d] = %q, want %q", i, ids[i], want[i])
		}
	}

	// Numeric child references are normalized to strings.
	div := g.Element("2")
	if div == nil || len(div.Children) != 1 || div.Children[0] != "10" {
		t.Errorf("div children = %+v, want [10]", div)
	}
}

func TestGraph_UnmarshalTextNodeDiscriminator(t *testing.T) {
	payload := `{
		"0": {"tagName": "p", "children": [1], "isVisible": true},
		"1": {"type": "TEXT_NODE", "text": "hello", "isVisible": true}
	}`

	var g Graph
	if err := json.Unmarshal([]byte(payload), &g); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	n, ok := g.Get("1")
	if !ok {
		t.Fatal("node 1 missing")
	}
	tn, isText := n.(*TextNode)
	if !isText || tn.Text != "hello" {
		t.Fatalf("expected text node hello, got %+v", n)
	}
}

func TestGraph_RootPrefersBody(t *testing.T) {
	g := NewGraph()
	g.Add("0", &ElementNode{TagName: "html", Children: []string{"1"}})
	g.Add("1", &ElementNode{TagName: "body", Children: []string{}})

	root, ok := g.Root()
	if !ok || root != "1" {
		t.Errorf("Root() = %q, %v; want body node 1", root, ok)
	}
}

func TestGraph_RootFallsBackToUnreferenced(t *testing.T) {
	g := NewGraph()
	g.Add("5", &ElementNode{TagName: "div", Children: []string{"6"}})
	g.Add("6", &ElementNode{TagName: "span", Children: []string{}})

	root, ok := g.Root()
	if !ok || root != "5" {
		t.Errorf("Root() = %q, %v; want unreferenced node 5", root, ok)
	}
}

func TestGraph_RootEmpty(t *testing.T) {
	g := NewGraph()
	if _, ok := g.Root(); ok {
		t.Error("empty graph should have no root")
	}
}
