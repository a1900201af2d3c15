package compact

import (
	"strconv"
	"strings"

	"github.com/navigator-ai/navcore/internal/dom"
)

// dataAttributes are content-addressed test hooks, the most stable selector
// source after a real id.
var dataAttributes = []string{"data-testid", "data-cy", "data-test", "data-qa"}

// selectorFor synthesizes a CSS selector, preferring identity attributes
// over structural position: #id, data-* hooks, type/name for inputs, short
// hrefs for links, a specific class, then parent-scoped positions, and
// finally the bare tag.
func (r *run) selectorFor(id string, elem *dom.ElementNode) string {
	tag := elem.TagName
	if tag == "" {
		return ""
	}

	if v := elem.Attr("id"); v != "" {
		return "#" + v
	}

	for _, attr := range dataAttributes {
		if v := elem.Attr(attr); v != "" {
			return "[" + attr + "='" + v + "']"
		}
	}

	if tag == "input" {
		sel := tag
		if v := elem.Attr("type"); v != "" {
			sel += "[type='" + v + "']"
		}
		if v := elem.Attr("name"); v != "" {
			sel += "[name='" + v + "']"
		}
		if sel != tag {
			return sel
		}
	}

	if tag == "a" {
		href := elem.Attr("href")
		if href != "" && len(href) < 50 && !strings.HasPrefix(href, "javascript:") && !r.hrefSharedBySibling(id, href) {
			return "a[href='" + href + "']"
		}
	}

	for _, class := range strings.Fields(elem.Attr("class")) {
		if len(class) > 3 && !strings.HasPrefix(class, "js-") {
			return tag + "." + class
		}
	}

	if parentID, ok := r.parents[id]; ok {
		if parent := r.graph.Element(parentID); parent != nil {
			if v := parent.Attr("id"); v != "" {
				return "#" + v + " > " + tag
			}
			sameTag := 0
			position := 0
			for _, childID := range parent.Children {
				child := r.graph.Element(childID)
				if child != nil && child.TagName == tag {
					sameTag++
					if childID == id {
						position = sameTag
					}
				}
			}
			if position > 0 {
				return parent.TagName + " > " + tag + ":nth-of-type(" + strconv.Itoa(position) + ")"
			}
		}
	}

	return tag
}

// hrefSharedBySibling reports whether another anchor under the same parent
// carries the same href. Such links need positional selectors to stay
// distinguishable.
func (r *run) hrefSharedBySibling(id, href string) bool {
	parentID, ok := r.parents[id]
	if !ok {
		return false
	}
	parent := r.graph.Element(parentID)
	if parent == nil {
		return false
	}
	for _, childID := range parent.Children {
		if childID == id {
			continue
		}
		if child := r.graph.Element(childID); child != nil && child.TagName == "a" && child.Attr("href") == href {
			return true
		}
	}
	return false
}
