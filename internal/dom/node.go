package dom

import (
	"encoding/json"
	"fmt"
	"sort"
	"strconv"
)

// Node is a parsed DOM entity: either an *ElementNode or a *TextNode.
type Node interface {
	Visible() bool
	node()
}

// ElementNode is an element with attributes, locator and child references.
type ElementNode struct {
	TagName       string            `json:"tagName"`
	Attributes    map[string]string `json:"attributes"`
	XPath         string            `json:"xpath"`
	Children      []string          `json:"children"`
	IsInteractive bool              `json:"isInteractive"`
	IsVisible     bool              `json:"isVisible"`
	IsTopElement  bool              `json:"isTopElement"`
}

func (e *ElementNode) Visible() bool { return e.IsVisible }
func (e *ElementNode) node()         {}

// Attr returns the named attribute, or "" when absent.
func (e *ElementNode) Attr(name string) string {
	if e.Attributes == nil {
		return ""
	}
	return e.Attributes[name]
}

// TextNode is a trimmed text fragment.
type TextNode struct {
	Type      string `json:"type"`
	Text      string `json:"text"`
	IsVisible bool   `json:"isVisible"`
}

func (t *TextNode) Visible() bool { return t.IsVisible }
func (t *TextNode) node()         {}

// textNodeType is the wire discriminator for text nodes.
const textNodeType = "TEXT_NODE"

// Graph is an ID-addressed node map with deterministic iteration order:
// insertion order when built by Parse, ascending numeric key order when
// decoded from a JSON payload. It is built once per request and treated
// as immutable afterwards.
type Graph struct {
	nodes map[string]Node
	order []string
}

func NewGraph() *Graph {
	return &Graph{nodes: make(map[string]Node)}
}

// Add inserts a node. Re-adding an existing ID replaces the node without
// duplicating its position.
func (g *Graph) Add(id string, n Node) {
	if _, ok := g.nodes[id]; !ok {
		g.order = append(g.order, id)
	}
	g.nodes[id] = n
}

func (g *Graph) Get(id string) (Node, bool) {
	n, ok := g.nodes[id]
	return n, ok
}

// Element returns the node as an element, or nil for text nodes and
// missing IDs.
func (g *Graph) Element(id string) *ElementNode {
	if e, ok := g.nodes[id].(*ElementNode); ok {
		return e
	}
	return nil
}

func (g *Graph) Len() int { return len(g.nodes) }

// IDs returns node IDs in graph order. The caller must not mutate it.
func (g *Graph) IDs() []string { return g.order }

// Root finds the structural root: the first body element, else the first
// html element, else the first node not referenced as a child, else the
// first node in graph order. Returns false only for an empty graph.
func (g *Graph) Root() (string, bool) {
	for _, id := range g.order {
		if e := g.Element(id); e != nil && e.TagName == "body" {
			return id, true
		}
	}
	for _, id := range g.order {
		if e := g.Element(id); e != nil && e.TagName == "html" {
			return id, true
		}
	}
	referenced := make(map[string]bool)
	for _, id := range g.order {
		if e := g.Element(id); e != nil {
			for _, child := range e.Children {
				if _, ok := g.nodes[child]; ok {
					referenced[child] = true
				}
			}
		}
	}
	for _, id := range g.order {
		if !referenced[id] {
			return id, true
		}
	}
	if len(g.order) > 0 {
		return g.order[0], true
	}
	return "", false
}

// MarshalJSON renders the graph as an id -> node object.
func (g *Graph) MarshalJSON() ([]byte, error) {
	out := make(map[string]Node, len(g.nodes))
	for id, n := range g.nodes {
		out[id] = n
	}
	return json.Marshal(out)
}

// nodeID accepts either a JSON number or string, normalizing the
// browser-extension payload where child references are integers.
type nodeID string

func (c *nodeID) UnmarshalJSON(b []byte) error {
	if len(b) > 0 && b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*c = nodeID(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(b, &n); err != nil {
		return err
	}
	*c = nodeID(n.String())
	return nil
}

type nodePayload struct {
	Type          string            `json:"type"`
	Text          string            `json:"text"`
	TagName       string            `json:"tagName"`
	Attributes    map[string]string `json:"attributes"`
	XPath         string            `json:"xpath"`
	Children      []nodeID          `json:"children"`
	IsInteractive bool              `json:"isInteractive"`
	IsVisible     bool              `json:"isVisible"`
	IsTopElement  bool              `json:"isTopElement"`
}

// UnmarshalJSON decodes an element-tree payload. Node kind is decided by
// the TEXT_NODE discriminator; keys are ordered numerically so iteration
// matches the producer's parse order.
func (g *Graph) UnmarshalJSON(data []byte) error {
	var raw map[string]nodePayload
	if err := json.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("decode element tree: %w", err)
	}

	g.nodes = make(map[string]Node, len(raw))
	g.order = g.order[:0]

	keys := make([]string, 0, len(raw))
	for id := range raw {
		keys = append(keys, id)
	}
	sort.Slice(keys, func(i, j int) bool {
		a, aerr := strconv.Atoi(keys[i])
		b, berr := strconv.Atoi(keys[j])
		if aerr == nil && berr == nil {
			return a < b
		}
		if aerr == nil {
			return true
		}
		if berr == nil {
			return false
		}
		return keys[i] < keys[j]
	})

	for _, id := range keys {
		p := raw[id]
		if p.Type == textNodeType {
			g.Add(id, &TextNode{Type: textNodeType, Text: p.Text, IsVisible: p.IsVisible})
			continue
		}
		children := make([]string, 0, len(p.Children))
		for _, c := range p.Children {
			children = append(children, string(c))
		}
		attrs := p.Attributes
		if attrs == nil {
			attrs = map[string]string{}
		}
		g.Add(id, &ElementNode{
			TagName:       p.TagName,
			Attributes:    attrs,
			XPath:         p.XPath,
			Children:      children,
			IsInteractive: p.IsInteractive,
			IsVisible:     p.IsVisible,
			IsTopElement:  p.IsTopElement,
		})
	}
	return nil
}
