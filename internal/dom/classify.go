package dom

import "strings"

// Classification predicates estimate interactivity and visibility from tags
// and attributes alone; there is no layout engine behind them. Each predicate
// degrades to a conservative default on unexpected input instead of failing.

var interactiveTags = map[string]bool{
	"a": true, "button": true, "details": true, "embed": true,
	"input": true, "label": true, "menu": true, "menuitem": true,
	"object": true, "select": true, "textarea": true, "summary": true,
}

var interactiveRoles = map[string]bool{
	"button": true, "menu": true, "menuitem": true, "link": true,
	"checkbox": true, "radio": true, "slider": true, "tab": true,
	"tabpanel": true, "textbox": true, "combobox": true, "grid": true,
	"listbox": true, "option": true, "progressbar": true, "scrollbar": true,
	"searchbox": true, "switch": true, "tree": true, "treeitem": true,
	"spinbutton": true, "tooltip": true, "a-button-inner": true,
	"a-dropdown-button": true, "click": true, "menuitemcheckbox": true,
	"menuitemradio": true, "a-button-text": true, "button-text": true,
	"button-icon": true, "button-icon-only": true, "button-text-icon-only": true,
	"dropdown": true,
}

var hiddenClassTokens = []string{"hidden", "invisible", "displaynone", "nodisplay"}

// skippedTags are subtrees that never contribute actionable elements or
// readable text; the parser does not descend into them.
var skippedTags = map[string]bool{
	"script": true, "style": true, "meta": true, "link": true,
	"iframe": true, "svg": true, "canvas": true, "video": true, "audio": true,
}

// AcceptedTag reports whether the parser should materialize this element.
func AcceptedTag(tag string) bool {
	if tag == "" {
		return false
	}
	return !skippedTags[strings.ToLower(tag)]
}

// IsVisible estimates element visibility from the style attribute, hidden
// markers and common hide-me class names. Defaults to true.
func IsVisible(tag string, attrs map[string]string) bool {
	if tag == "" {
		return false
	}
	style := strings.ToLower(attrValue(attrs, "style"))
	if strings.Contains(style, "display:none") || strings.Contains(style, "visibility:hidden") {
		return false
	}
	if _, hidden := attrs["hidden"]; hidden {
		return false
	}
	if attrValue(attrs, "aria-hidden") == "true" {
		return false
	}
	for _, class := range strings.Fields(attrValue(attrs, "class")) {
		class = strings.ToLower(class)
		for _, marker := range hiddenClassTokens {
			if strings.Contains(class, marker) {
				return false
			}
		}
	}
	return true
}

// IsTextVisible reports whether a text node should be surfaced: non-empty
// after trimming and inside a visible element.
func IsTextVisible(text string, parentVisible bool) bool {
	if strings.TrimSpace(text) == "" {
		return false
	}
	return parentVisible
}

// IsTopElement reports whether the element is likely on top of the stacking
// order. body/html and negative z-index elements are not; everything else
// defaults to true.
func IsTopElement(tag string, attrs map[string]string) bool {
	if tag == "" {
		return false
	}
	tag = strings.ToLower(tag)
	if tag == "body" || tag == "html" {
		return false
	}
	style := strings.ToLower(attrValue(attrs, "style"))
	if strings.Contains(style, "z-index:-") || strings.Contains(style, "z-index: -") {
		return false
	}
	return true
}

// IsInteractive classifies an element as actionable from its tag, roles,
// tabindex and handler-style attributes. body is never interactive, and
// direct children of body cannot qualify through the handler heuristics
// alone; that path produces false positives on page-level scripts.
func IsInteractive(tag string, attrs map[string]string, parentTag string) bool {
	if tag == "" {
		return false
	}
	tag = strings.ToLower(tag)
	if tag == "body" {
		return false
	}
	parentTag = strings.ToLower(parentTag)

	hasRole := interactiveTags[tag] ||
		interactiveRoles[attrValue(attrs, "role")] ||
		interactiveRoles[attrValue(attrs, "aria-role")] ||
		hasActiveTabindex(attrs, parentTag) ||
		attrValue(attrs, "data-action") == "a-dropdown-select" ||
		attrValue(attrs, "data-action") == "a-dropdown-button" ||
		hasClassToken(attrs, "address-input__container__input")
	if hasRole {
		return true
	}

	if parentTag == "body" {
		return false
	}

	_, onclick := attrs["onclick"]
	_, ngClick := attrs["ng-click"]
	_, atClick := attrs["@click"]
	_, vOnClick := attrs["v-on:click"]
	hasClickHandler := onclick || ngClick || atClick || vOnClick

	_, expanded := attrs["aria-expanded"]
	_, pressed := attrs["aria-pressed"]
	_, selected := attrs["aria-selected"]
	_, checked := attrs["aria-checked"]
	hasAriaState := expanded || pressed || selected || checked

	return hasClickHandler || hasAriaState || attrValue(attrs, "draggable") == "true"
}

func hasActiveTabindex(attrs map[string]string, parentTag string) bool {
	tabindex, ok := attrs["tabindex"]
	return ok && tabindex != "-1" && parentTag != "body"
}

func hasClassToken(attrs map[string]string, token string) bool {
	for _, class := range strings.Fields(attrValue(attrs, "class")) {
		if class == token {
			return true
		}
	}
	return false
}

func attrValue(attrs map[string]string, name string) string {
	if attrs == nil {
		return ""
	}
	return attrs[name]
}
