package extractor

import (
	"net/url"

	"linkscout/internal/source"
	"linkscout/internal/urlnorm"
)

// Link is one discovered hyperlink with its full classification.
// Links are immutable after creation; the scheduler accumulates them into
// the crawl result set. Field names mirror the JSON shape handed to
// external formatters.
type Link struct {
	RawHref     string             `json:"original_href"`
	ResolvedURL url.URL            `json:"-"`
	URL         string             `json:"url"`
	Text        string             `json:"text"`
	Domain      string             `json:"domain"`
	IsInternal  bool               `json:"is_internal"`
	IsSubdomain bool               `json:"is_subdomain"`
	Type        urlnorm.LinkType   `json:"link_type"`
	Region      source.Region      `json:"source"`
	FoundOnPage string             `json:"found_on_page"`
	DuplicateOf string             `json:"duplicate_of,omitempty"`
	Validation  *ValidationStatus  `json:"validation,omitempty"`
}

// ValidationStatus annotates a link after an optional reachability check.
// Validation never removes links; it only attaches this record.
type ValidationStatus struct {
	StatusCode int  `json:"status_code"`
	Reachable  bool `json:"reachable"`
}

// CommentType distinguishes the syntax a comment was written in.
type CommentType string

const (
	CommentTypeHTML     CommentType = "html"
	CommentTypeJSSingle CommentType = "javascript_single"
	CommentTypeJSMulti  CommentType = "javascript_multi"
)

// Comment is one comment found in page markup or inline scripts.
// Comments are a parallel extraction feed, independent of link ordering.
type Comment struct {
	Type     CommentType `json:"type"`
	Content  string      `json:"content"`
	Location string      `json:"location"`
}

// CommentFilter narrows the comment feed. Type accepts the comment type
// values plus the aggregate "javascript"; empty means all types.
type CommentFilter struct {
	Type      string
	MinLength int
}

// FieldRule is one rule of the structured-extraction mode: a CSS selector
// plus the attribute to read ("text" for visible text). All collects every
// match instead of the first.
type FieldRule struct {
	Selector  string `json:"selector"`
	Attribute string `json:"attribute"`
	All       bool   `json:"all"`
}

// refAttr names the reference attribute carried by each extractable
// element. Anchors and areas link pages; the rest embed resources.
var refAttr = map[string]string{
	"a":      "href",
	"area":   "href",
	"img":    "src",
	"script": "src",
	"iframe": "src",
	"source": "src",
	"embed":  "src",
}
