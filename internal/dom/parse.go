package dom

import (
	"strconv"
	"strings"

	"golang.org/x/net/html"
)

// Parse builds a Graph from raw HTML. It never fails: malformed markup
// degrades per node, and input without a usable body yields an empty graph
// rather than an error.
func Parse(src string) *Graph {
	g := NewGraph()

	doc, err := html.Parse(strings.NewReader(src))
	if err != nil {
		return g
	}
	body := findBody(doc)
	if body == nil {
		return g
	}

	p := &treeParser{graph: g}
	p.walk(body, true)
	return g
}

type treeParser struct {
	graph *Graph
	next  int
}

// walk materializes a markup node and its subtree, returning the assigned ID.
// Skipped nodes still consume an ID so numbering stays aligned with document
// order; callers only link children that were actually materialized.
func (p *treeParser) walk(n *html.Node, parentVisible bool) (string, bool) {
	id := strconv.Itoa(p.next)
	p.next++

	switch n.Type {
	case html.TextNode:
		text := strings.TrimSpace(n.Data)
		if text == "" {
			return "", false
		}
		p.graph.Add(id, &TextNode{
			Type:      textNodeType,
			Text:      text,
			IsVisible: IsTextVisible(text, parentVisible),
		})
		return id, true

	case html.ElementNode:
		tag := strings.ToLower(n.Data)
		if !AcceptedTag(tag) {
			return "", false
		}

		attrs := make(map[string]string, len(n.Attr))
		for _, a := range n.Attr {
			attrs[a.Key] = a.Val
		}

		visible := IsVisible(tag, attrs)
		elem := &ElementNode{
			TagName:       tag,
			Attributes:    attrs,
			XPath:         xpathFor(n),
			Children:      []string{},
			IsInteractive: IsInteractive(tag, attrs, parentTagOf(n)),
			IsVisible:     visible,
			IsTopElement:  IsTopElement(tag, attrs),
		}
		p.graph.Add(id, elem)

		for c := n.FirstChild; c != nil; c = c.NextSibling {
			if childID, ok := p.walk(c, visible); ok {
				elem.Children = append(elem.Children, childID)
			}
		}
		return id, true
	}

	return "", false
}

// xpathFor computes an absolute path by walking ancestors, adding a 1-based
// [n] index only when more than one sibling shares the tag.
func xpathFor(n *html.Node) string {
	var parts []string
	for cur := n; cur != nil && cur.Type == html.ElementNode; cur = cur.Parent {
		part := strings.ToLower(cur.Data)
		if cur.Parent != nil {
			sameTag := 0
			position := 0
			for sib := cur.Parent.FirstChild; sib != nil; sib = sib.NextSibling {
				if sib.Type == html.ElementNode && strings.ToLower(sib.Data) == part {
					sameTag++
					if sib == cur {
						position = sameTag
					}
				}
			}
			if sameTag > 1 {
				part += "[" + strconv.Itoa(position) + "]"
			}
		}
		parts = append(parts, part)
	}
	if len(parts) == 0 {
		// Fallback for detached nodes.
		return "/" + strings.ToLower(n.Data)
	}
	for i, j := 0, len(parts)-1; i < j; i, j = i+1, j-1 {
		parts[i], parts[j] = parts[j], parts[i]
	}
	return "/" + strings.Join(parts, "/")
}

func parentTagOf(n *html.Node) string {
	if n.Parent != nil && n.Parent.Type == html.ElementNode {
		return strings.ToLower(n.Parent.Data)
	}
	return ""
}

func findBody(n *html.Node) *html.Node {
	if n.Type == html.ElementNode && n.Data == "body" {
		return n
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if b := findBody(c); b != nil {
			return b
		}
	}
	return nil
}
