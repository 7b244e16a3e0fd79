package extractor

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"golang.org/x/net/html"

	"linkscout/internal/metadata"
	"linkscout/internal/source"
	"linkscout/internal/urlnorm"
	"linkscout/pkg/failure"
)

/*
Responsibilities

- Walk one parsed page in document order
- Resolve every reference attribute into an absolute, canonical URL
- Attach classification (domain relationship, link type, source region)
- Capture visible anchor text

Extraction Semantics

- Output order is stable: it matches DOM traversal order within a page
- Fragment-only self references are skipped
- Non-crawlable schemes (javascript:, mailto:, tel:, data:) are still
  recorded as links, tagged LinkTypeOther, and never entered into the
  crawl frontier
- Unresolvable hrefs are dropped and reported to the metadata sink

The extractor never fetches anything; it only reads the tree it is given.
*/

type LinkExtractor struct {
	metadataSink metadata.MetadataSink
	classifier   urlnorm.Classifier
}

func NewLinkExtractor(
	metadataSink metadata.MetadataSink,
	classifier urlnorm.Classifier,
) LinkExtractor {
	return LinkExtractor{
		metadataSink: metadataSink,
		classifier:   classifier,
	}
}

// Extract returns every link discovered in doc, in document order.
// pageURL is the final URL of the fetched page (after redirects); it
// anchors relative resolution unless the document carries a <base href>.
func (e *LinkExtractor) Extract(doc *html.Node, pageURL url.URL) ([]Link, failure.ClassifiedError) {
	if doc == nil {
		extractionErr := &ExtractionError{Message: "document tree is nil", Cause: ErrCauseNilDocument}
		e.recordError(extractionErr, pageURL)
		return nil, extractionErr
	}

	base := effectiveBase(doc, pageURL)

	var links []Link
	var walk func(n *html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode {
			if attrName, ok := refAttr[n.Data]; ok {
				if raw, found := attrValue(n, attrName); found {
					if link, ok := e.buildLink(n, raw, base, pageURL); ok {
						links = append(links, link)
					}
				}
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(doc)

	return links, nil
}

// buildLink resolves and classifies one reference. The bool result is
// false when the reference should not be recorded at all.
func (e *LinkExtractor) buildLink(n *html.Node, raw string, base, pageURL url.URL) (Link, bool) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" || strings.HasPrefix(trimmed, "#") {
		// fragment-only self reference, not a link to anywhere
		return Link{}, false
	}

	resolved, err := urlnorm.Normalize(trimmed, base)
	if err != nil {
		e.metadataSink.RecordError(
			time.Now(),
			"extractor",
			"LinkExtractor.Extract",
			metadata.CauseContentInvalid,
			err.Error(),
			[]metadata.Attribute{
				metadata.NewAttr(metadata.AttrURL, pageURL.String()),
				metadata.NewAttr(metadata.AttrField, fmt.Sprintf("href: %s", trimmed)),
			},
		)
		return Link{}, false
	}

	if !urlnorm.IsCrawlableScheme(resolved) {
		// recorded, classified other, never dereferenced
		return Link{
			RawHref:     trimmed,
			ResolvedURL: resolved,
			URL:         resolved.String(),
			Text:        visibleText(n),
			Type:        urlnorm.LinkTypeOther,
			Region:      source.Detect(n),
			FoundOnPage: pageURL.String(),
		}, true
	}

	class := e.classifier.Classify(resolved)

	return Link{
		RawHref:     trimmed,
		ResolvedURL: resolved,
		URL:         resolved.String(),
		Text:        visibleText(n),
		Domain:      resolved.Hostname(),
		IsInternal:  class.IsInternal,
		IsSubdomain: class.IsSubdomain,
		Type:        urlnorm.TypeOf(resolved),
		Region:      source.Detect(n),
		FoundOnPage: pageURL.String(),
	}, true
}

// Followable reports whether the given link may enter the crawl frontier:
// crawlable scheme, permitted domain class, and a page-like target
// (file downloads are collected but not fetched).
func (e *LinkExtractor) Followable(link Link) bool {
	if !urlnorm.IsCrawlableScheme(link.ResolvedURL) {
		return false
	}
	if urlnorm.HasFileExtension(link.ResolvedURL) {
		return false
	}
	return e.classifier.Followable(urlnorm.DomainClass{
		IsInternal:  link.IsInternal,
		IsSubdomain: link.IsSubdomain,
	})
}

func (e *LinkExtractor) recordError(err *ExtractionError, pageURL url.URL) {
	e.metadataSink.RecordError(
		time.Now(),
		"extractor",
		"LinkExtractor.Extract",
		mapExtractionErrorToMetadataCause(err),
		err.Error(),
		[]metadata.Attribute{
			metadata.NewAttr(metadata.AttrURL, pageURL.String()),
		},
	)
}

// effectiveBase returns the document's <base href> resolved against the
// page URL, or the page URL itself when absent or unparseable.
func effectiveBase(doc *html.Node, pageURL url.URL) url.URL {
	baseNode := findFirst(doc, "base")
	if baseNode == nil {
		return pageURL
	}
	raw, ok := attrValue(baseNode, "href")
	if !ok {
		return pageURL
	}
	parsed, err := url.Parse(strings.TrimSpace(raw))
	if err != nil {
		return pageURL
	}
	return *pageURL.ResolveReference(parsed)
}

// findFirst returns the first element with the given tag in document order.
func findFirst(n *html.Node, tag string) *html.Node {
	if n.Type == html.ElementNode && n.Data == tag {
		return n
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if found := findFirst(c, tag); found != nil {
			return found
		}
	}
	return nil
}

func attrValue(n *html.Node, name string) (string, bool) {
	for _, attr := range n.Attr {
		if attr.Key == name {
			return attr.Val, true
		}
	}
	return "", false
}

// visibleText collects the node's text content with whitespace trimmed
// and runs of whitespace collapsed to single spaces.
func visibleText(n *html.Node) string {
	var builder strings.Builder
	var walk func(node *html.Node)
	walk = func(node *html.Node) {
		if node.Type == html.TextNode {
			builder.WriteString(node.Data)
			builder.WriteString(" ")
		}
		for c := node.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(n)
	return strings.Join(strings.Fields(builder.String()), " ")
}
