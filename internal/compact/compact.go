package compact

import (
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/navigator-ai/navcore/internal/dom"
)

// Config parameterizes the compaction engine. All knobs have working
// defaults; zero values are normalized by New.
type Config struct {
	MaxTextLength    int // cap on extracted text per element and per bullet
	MaxDepth         int // depth bound for owned-text collection
	MinTextLength    int // minimum trimmed length for standalone text
	MaxElements      int // candidate cap before pruning kicks in
	MaxSummaryTokens int // overall summary budget; 0 disables

	IncludeAttributes []string // allow-list rendered for regular elements
	FormAttributes    []string // key=value attributes rendered for form controls
}

// DefaultConfig returns the canonical knobs.
func DefaultConfig() Config {
	return Config{
		MaxTextLength:    500,
		MaxDepth:         10,
		MinTextLength:    15,
		MaxElements:      150,
		MaxSummaryTokens: 4000,
		IncludeAttributes: []string{
			"id", "name", "type", "value", "placeholder", "href",
			"aria-label", "aria-placeholder", "role", "title", "summary",
		},
		FormAttributes: []string{
			"placeholder", "aria-label", "aria-placeholder", "title",
			"name", "role", "type",
		},
	}
}

// Result is the compacted page: a token-bounded summary plus the locator
// maps keyed by short identifier (E1, E2, ...).
type Result struct {
	Summary     string            `json:"summary"`
	XPathMap    map[string]string `json:"xpath_map"`
	SelectorMap map[string]string `json:"selector_map"`
}

// Sentinel summaries for degenerate inputs. Callers branch on the empty
// maps, not on these strings.
const (
	SummaryEmptyGraph = "No elements found on page"
	SummaryNoRoot     = "Could not determine root element"
	SummaryNoElements = "No interactive elements found on page"
)

// formControlTags are registered even without an interactive classification.
var formControlTags = map[string]bool{
	"input": true, "select": true, "textarea": true, "button": true, "a": true,
}

// Compactor reduces a DOM graph to an agent-readable summary. It holds only
// configuration; every Compact call builds its own registries, so a single
// Compactor is safe for concurrent use.
type Compactor struct {
	cfg Config
}

func New(cfg Config) *Compactor {
	def := DefaultConfig()
	if cfg.MaxTextLength <= 0 {
		cfg.MaxTextLength = def.MaxTextLength
	}
	if cfg.MaxDepth <= 0 {
		cfg.MaxDepth = def.MaxDepth
	}
	if cfg.MinTextLength <= 0 {
		cfg.MinTextLength = def.MinTextLength
	}
	if cfg.MaxElements <= 0 {
		cfg.MaxElements = def.MaxElements
	}
	if len(cfg.IncludeAttributes) == 0 {
		cfg.IncludeAttributes = def.IncludeAttributes
	}
	if len(cfg.FormAttributes) == 0 {
		cfg.FormAttributes = def.FormAttributes
	}
	return &Compactor{cfg: cfg}
}

// Compact produces the summary and locator maps for one graph. The graph is
// not mutated; re-running on the same graph yields identical identifier
// assignments.
func (c *Compactor) Compact(g *dom.Graph) Result {
	if g == nil || g.Len() == 0 {
		return Result{Summary: SummaryEmptyGraph, XPathMap: map[string]string{}, SelectorMap: map[string]string{}}
	}

	if countCandidates(g) > c.cfg.MaxElements {
		g = prune(g, c.cfg.MaxElements)
	}

	r := &run{
		cfg:        c.cfg,
		graph:      g,
		parents:    buildParentIndex(g),
		registered: make(map[string]string),
		xpath:      make(map[string]string),
		selector:   make(map[string]string),
	}
	return r.compact()
}

// run holds the per-invocation state: parent index, registry and maps.
// Nothing here survives across calls.
type run struct {
	cfg   Config
	graph *dom.Graph

	parents    map[string]string
	registered map[string]string // graph ID -> short identifier
	order      []string          // registered graph IDs in discovery order
	xpath      map[string]string
	selector   map[string]string
}

func (r *run) compact() Result {
	r.register()

	if _, ok := r.graph.Root(); !ok {
		return Result{Summary: SummaryNoRoot, XPathMap: map[string]string{}, SelectorMap: map[string]string{}}
	}

	var lines []string
	for _, id := range r.order {
		if line := r.formatElement(id); line != "" {
			lines = append(lines, line)
		}
	}

	bullets := r.standaloneText()
	if len(bullets) > 0 {
		if len(lines) > 0 {
			lines = append(lines, "")
		}
		lines = append(lines, "# Additional Page Text")
		lines = append(lines, bullets...)
	}

	if len(lines) == 0 {
		return Result{Summary: SummaryNoElements, XPathMap: map[string]string{}, SelectorMap: map[string]string{}}
	}

	lines = r.enforceTokenBudget(lines, len(bullets))
	return Result{Summary: strings.Join(lines, "\n"), XPathMap: r.xpath, SelectorMap: r.selector}
}

// register assigns short identifiers to visible interactive elements and
// form controls, in graph order, and records their locators.
func (r *run) register() {
	next := 1
	for _, id := range r.graph.IDs() {
		elem := r.graph.Element(id)
		if elem == nil || !elem.IsVisible {
			continue
		}
		if !elem.IsInteractive && !formControlTags[elem.TagName] {
			continue
		}

		label := "E" + strconv.Itoa(next)
		next++
		r.registered[id] = label
		r.order = append(r.order, id)

		if elem.XPath != "" {
			r.xpath[label] = elem.XPath
		}
		if sel := r.selectorFor(id, elem); sel != "" {
			r.selector[label] = sel
		}
	}
}

// formatElement renders one registered element as a single summary line,
// e.g. [E3]<button submit-form>Sign in/>.
func (r *run) formatElement(id string) string {
	elem := r.graph.Element(id)
	label := r.registered[id]
	if elem == nil || label == "" {
		return ""
	}

	text := r.ownedText(id)
	isForm := elem.TagName == "input" || elem.TagName == "textarea" || elem.TagName == "select"

	var attrValues []string
	if isForm {
		for _, key := range r.cfg.FormAttributes {
			if v := elem.Attr(key); v != "" {
				attrValues = append(attrValues, key+"="+v)
			}
		}
		if v := elem.Attr("value"); v != "" {
			attrValues = append(attrValues, "value='"+v+"'")
		}
	} else {
		for _, key := range r.cfg.IncludeAttributes {
			v := elem.Attr(key)
			if v == "" || v == elem.TagName {
				continue
			}
			if text != "" && strings.Contains(text, v) {
				continue
			}
			attrValues = append(attrValues, v)
		}
	}
	attrsStr := strings.Join(attrValues, " ")

	// Textless form controls borrow their hint attribute as a label.
	if isForm && text == "" {
		for _, key := range []string{"placeholder", "aria-label", "title"} {
			if v := elem.Attr(key); v != "" {
				text = "[" + v + "]"
				break
			}
		}
	}

	var b strings.Builder
	b.WriteString("[")
	b.WriteString(label)
	b.WriteString("]<")
	b.WriteString(elem.TagName)
	b.WriteString(" ")
	b.WriteString(attrsStr)
	if text != "" {
		if attrsStr != "" {
			b.WriteString(">")
		}
		b.WriteString(text)
	}
	b.WriteString("/>")
	return b.String()
}

// ownedText collects visible text from an element and its subtree, stopping
// at other registered elements so each one owns only the text up to the next
// interactive boundary.
func (r *run) ownedText(rootID string) string {
	var parts []string
	visited := make(map[string]bool)

	var collect func(id string, depth int)
	collect = func(id string, depth int) {
		if depth > r.cfg.MaxDepth || visited[id] {
			return
		}
		visited[id] = true

		n, ok := r.graph.Get(id)
		if !ok {
			return
		}
		if id != rootID {
			if _, taken := r.registered[id]; taken {
				return
			}
		}

		switch node := n.(type) {
		case *dom.TextNode:
			if node.IsVisible {
				if t := strings.TrimSpace(node.Text); t != "" {
					parts = append(parts, t)
				}
			}
		case *dom.ElementNode:
			for _, child := range node.Children {
				collect(child, depth+1)
			}
		}
	}
	collect(rootID, 0)

	return truncate(strings.TrimSpace(strings.Join(parts, " ")), r.cfg.MaxTextLength)
}

// standaloneText returns bullets for visible text nodes that no registered
// element owns and that clear the minimum length.
func (r *run) standaloneText() []string {
	var bullets []string
	for _, id := range r.graph.IDs() {
		n, ok := r.graph.Get(id)
		if !ok {
			continue
		}
		text, isText := n.(*dom.TextNode)
		if !isText || !text.IsVisible {
			continue
		}
		if r.hasRegisteredAncestor(id) {
			continue
		}
		t := strings.TrimSpace(text.Text)
		runes := []rune(t)
		if len(runes) < r.cfg.MinTextLength {
			continue
		}
		// Bullets keep MaxTextLength characters before the ellipsis.
		if r.cfg.MaxTextLength > 0 && len(runes) > r.cfg.MaxTextLength {
			t = string(runes[:r.cfg.MaxTextLength]) + "..."
		}
		bullets = append(bullets, "- "+t)
	}
	return bullets
}

func (r *run) hasRegisteredAncestor(id string) bool {
	for cur, ok := r.parents[id]; ok; cur, ok = r.parents[cur] {
		if _, taken := r.registered[cur]; taken {
			return true
		}
	}
	return false
}

// enforceTokenBudget drops trailing standalone-text bullets until the summary
// fits MaxSummaryTokens. Identifier lines are never dropped.
func (r *run) enforceTokenBudget(lines []string, bulletCount int) []string {
	if r.cfg.MaxSummaryTokens <= 0 {
		return lines
	}
	for bulletCount > 0 && EstimateTokens(strings.Join(lines, "\n")) > r.cfg.MaxSummaryTokens {
		lines = lines[:len(lines)-1]
		bulletCount--
	}
	if bulletCount == 0 && len(lines) > 0 && lines[len(lines)-1] == "# Additional Page Text" {
		lines = lines[:len(lines)-1]
		if len(lines) > 0 && lines[len(lines)-1] == "" {
			lines = lines[:len(lines)-1]
		}
	}
	return lines
}

// buildParentIndex maps each child to its parent, skipping references to
// nodes absent from the graph.
func buildParentIndex(g *dom.Graph) map[string]string {
	parents := make(map[string]string)
	for _, id := range g.IDs() {
		elem := g.Element(id)
		if elem == nil {
			continue
		}
		for _, child := range elem.Children {
			if _, ok := g.Get(child); ok {
				parents[child] = id
			}
		}
	}
	return parents
}

// countCandidates counts the elements registration would pick up, used to
// decide whether pruning is worthwhile.
func countCandidates(g *dom.Graph) int {
	count := 0
	for _, id := range g.IDs() {
		elem := g.Element(id)
		if elem == nil || !elem.IsVisible {
			continue
		}
		if elem.IsInteractive || formControlTags[elem.TagName] {
			count++
		}
	}
	return count
}

// truncate caps s at max runes, replacing the tail with an ellipsis.
func truncate(s string, max int) string {
	if max <= 3 || utf8.RuneCountInString(s) <= max {
		return s
	}
	runes := []rune(s)
	return string(runes[:max-3]) + "..."
}
