package compact

import (
	"fmt"
	"regexp"
	"sort"
	"strconv"
	"strings"

	"github.com/navigator-ai/navcore/internal/dom"
)

// Pruning trims oversized pages before registration: score every node, keep
// the top scorers plus their ancestor chains, and collapse long runs of
// repeated siblings into representatives plus a synthetic count node.

var (
	textKeywordRe = regexp.MustCompile(`(?i)(login|sign|submit|continue|next|search|add|buy|cart|checkout|price)`)
	attrKeywordRe = regexp.MustCompile(`(?i)(submit|login|register|search|menu|nav|button|btn|checkout|cart)`)
)

var identifyingAttributes = []string{"id", "name", "value", "href", "placeholder", "aria-label"}

var scoredRoles = map[string]bool{
	"button": true, "link": true, "checkbox": true, "radio": true,
	"tab": true, "menuitem": true, "combobox": true, "searchbox": true,
}

// siblingGroupLimit is the run length past which repeated siblings collapse.
const siblingGroupLimit = 5

func prune(g *dom.Graph, maxElements int) *dom.Graph {
	scores := scoreNodes(g)
	kept := selectTop(g, scores, maxElements)
	sub := subgraph(g, kept)
	return dedupeSiblings(sub)
}

// scoreNodes ranks nodes by interactivity, visibility, tag value, attribute
// hints and subtree size. Invisible elements score below zero and are
// excluded by selection.
func scoreNodes(g *dom.Graph) map[string]float64 {
	scores := make(map[string]float64, g.Len())
	for _, id := range g.IDs() {
		n, ok := g.Get(id)
		if !ok {
			continue
		}

		if text, isText := n.(*dom.TextNode); isText {
			t := strings.TrimSpace(text.Text)
			if !text.IsVisible || len(t) <= 3 {
				continue
			}
			score := float64(len(t)) / 50
			if score > 1 {
				score = 1
			}
			if textKeywordRe.MatchString(t) {
				score += 0.5
			}
			scores[id] = score
			continue
		}

		elem := n.(*dom.ElementNode)
		score := 0.1
		if elem.IsInteractive {
			score += 1.5
		}
		if elem.IsVisible {
			score += 1.0
		} else {
			score -= 2.0
		}
		if elem.IsTopElement {
			score += 0.5
		}

		switch elem.TagName {
		case "input", "button", "a", "select", "textarea":
			score += 0.8
		case "h1", "h2", "h3", "nav", "header":
			score += 0.5
		case "form", "fieldset", "label":
			score += 0.3
		}

		for _, attr := range identifyingAttributes {
			if elem.Attr(attr) != "" {
				score += 0.2
			}
		}
		for _, v := range elem.Attributes {
			if attrKeywordRe.MatchString(v) {
				score += 0.3
				break
			}
		}
		if scoredRoles[elem.Attr("role")] {
			score += 0.4
		}

		if n := len(elem.Children); n > 0 {
			factor := float64(n) / 10
			if factor > 1 {
				factor = 1
			}
			score += factor * 0.3
		}

		scores[id] = score
	}
	return scores
}

// selectTop keeps the highest-scoring nodes (ties broken by graph order) and
// their full ancestor chains so the retained elements stay attached.
func selectTop(g *dom.Graph, scores map[string]float64, max int) map[string]bool {
	ids := make([]string, 0, len(scores))
	for _, id := range g.IDs() {
		if scores[id] > 0 {
			ids = append(ids, id)
		}
	}
	sort.SliceStable(ids, func(i, j int) bool {
		return scores[ids[i]] > scores[ids[j]]
	})
	if len(ids) > max {
		ids = ids[:max]
	}

	kept := make(map[string]bool, len(ids))
	for _, id := range ids {
		kept[id] = true
	}

	parents := buildParentIndex(g)
	for _, id := range ids {
		for cur, ok := parents[id]; ok && !kept[cur]; cur, ok = parents[cur] {
			kept[cur] = true
		}
	}
	return kept
}

// subgraph clones the kept nodes in graph order, rewriting child lists so no
// dangling references remain. The input graph is left untouched.
func subgraph(g *dom.Graph, kept map[string]bool) *dom.Graph {
	out := dom.NewGraph()
	for _, id := range g.IDs() {
		if !kept[id] {
			continue
		}
		n, _ := g.Get(id)
		switch node := n.(type) {
		case *dom.TextNode:
			copied := *node
			out.Add(id, &copied)
		case *dom.ElementNode:
			copied := *node
			copied.Children = make([]string, 0, len(node.Children))
			for _, child := range node.Children {
				if kept[child] {
					copied.Children = append(copied.Children, child)
				}
			}
			out.Add(id, &copied)
		}
	}
	return out
}

// dedupeSiblings collapses groups of more than siblingGroupLimit same-tag
// elements under one parent into first/middle/last plus a synthetic node
// summarizing the count.
func dedupeSiblings(g *dom.Graph) *dom.Graph {
	groups := make(map[string][]string)
	var groupKeys []string
	for _, id := range g.IDs() {
		elem := g.Element(id)
		if elem == nil {
			continue
		}
		parentPath := elem.XPath
		if i := strings.LastIndex(parentPath, "/"); i >= 0 {
			parentPath = parentPath[:i]
		}
		key := parentPath + ":" + elem.TagName
		if _, seen := groups[key]; !seen {
			groupKeys = append(groupKeys, key)
		}
		groups[key] = append(groups[key], id)
	}

	removed := make(map[string]bool)
	type summaryNode struct {
		id   string
		node *dom.ElementNode
	}
	var summaries []summaryNode

	for _, key := range groupKeys {
		ids := groups[key]
		if len(ids) <= siblingGroupLimit {
			continue
		}

		keep := map[string]bool{ids[0]: true, ids[len(ids)/2]: true, ids[len(ids)-1]: true}
		interactive := false
		for _, id := range ids {
			if elem := g.Element(id); elem != nil && elem.IsInteractive {
				interactive = true
			}
			if !keep[id] {
				removed[id] = true
			}
		}

		sep := strings.LastIndex(key, ":")
		parentPath, tag := key[:sep], key[sep+1:]
		summaries = append(summaries, summaryNode{
			id: "summary_" + strconv.Itoa(len(summaries)+1),
			node: &dom.ElementNode{
				TagName: "summary",
				XPath:   parentPath + "/[summary]",
				Attributes: map[string]string{
					"summary": fmt.Sprintf("%d similar %s elements", len(ids), tag),
				},
				Children:      []string{},
				IsInteractive: interactive,
				IsVisible:     true,
			},
		})
	}

	if len(removed) == 0 {
		return g
	}

	out := dom.NewGraph()
	for _, id := range g.IDs() {
		if removed[id] {
			continue
		}
		n, _ := g.Get(id)
		switch node := n.(type) {
		case *dom.TextNode:
			copied := *node
			out.Add(id, &copied)
		case *dom.ElementNode:
			copied := *node
			copied.Children = make([]string, 0, len(node.Children))
			for _, child := range node.Children {
				if !removed[child] {
					copied.Children = append(copied.Children, child)
				}
			}
			out.Add(id, &copied)
		}
	}
	for _, s := range summaries {
		out.Add(s.id, s.node)
	}
	return out
}
