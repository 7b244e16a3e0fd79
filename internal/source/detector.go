package source

import (
	"strings"

	"golang.org/x/net/html"
)

/*
Responsibilities

- Map a link node to the structural region it was found in
- Honor nearest-ancestor-wins: the closest enclosing signal decides,
  regardless of what outer ancestors look like

Detect is a pure function over the parsed tree. It never mutates nodes
and holds no state, so it is safe to call from concurrent extractions.
*/

// Detect walks the ancestors of linkNode from the inside out and returns
// the region of the first ancestor carrying a structural signal. Semantic
// tags are checked before class/id keywords on each ancestor. When the
// walk exits the tree without a match, links inside <body> fall back to
// RegionContent and detached nodes report RegionUnknown.
func Detect(linkNode *html.Node) Region {
	if linkNode == nil {
		return RegionUnknown
	}

	inBody := false
	for ancestor := linkNode.Parent; ancestor != nil; ancestor = ancestor.Parent {
		if ancestor.Type != html.ElementNode {
			continue
		}

		if ancestor.Data == "body" {
			inBody = true
			continue
		}

		if region, ok := matchAncestor(ancestor); ok {
			return region
		}
	}

	if inBody {
		return RegionContent
	}
	return RegionUnknown
}

// matchAncestor evaluates the priority table against a single element.
func matchAncestor(n *html.Node) (Region, bool) {
	if region, ok := semanticTags[n.Data]; ok {
		return region, true
	}

	signal := classAndID(n)
	if signal == "" {
		return "", false
	}

	for _, rule := range keywordRules {
		for _, keyword := range rule.keywords {
			if strings.Contains(signal, keyword) {
				return rule.region, true
			}
		}
	}

	return "", false
}

// classAndID joins the element's class and id attribute values, lowercased,
// into one searchable string.
func classAndID(n *html.Node) string {
	var parts []string
	for _, attr := range n.Attr {
		if attr.Key == "class" || attr.Key == "id" {
			parts = append(parts, strings.ToLower(attr.Val))
		}
	}
	return strings.Join(parts, " ")
}
