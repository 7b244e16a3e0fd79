package urlnorm

import (
	"net/url"
	"path"
	"strings"

	"linkscout/pkg/failure"
	"linkscout/pkg/urlutil"
)

/*
Responsibilities

- Resolve raw href values against the page's effective base URL
- Produce the canonical absolute form used everywhere downstream
- Classify link targets by extension and scheme

Normalization never consults crawl state; it is a pure function over
(raw href, base URL).
*/

// Normalize resolves rawHref against base and returns the canonical
// absolute URL: scheme and host lowercased, default ports and fragments
// stripped, query preserved.
//
// The base must be the page's effective base: the document's <base href>
// when present, otherwise the page URL itself. Non-crawlable schemes
// (javascript:, mailto:, tel:, data:) resolve to themselves untouched so
// callers can still record them.
func Normalize(rawHref string, base url.URL) (url.URL, failure.ClassifiedError) {
	trimmed := strings.TrimSpace(rawHref)
	if trimmed == "" {
		return url.URL{}, &InvalidURLError{Raw: rawHref, Reason: "empty href"}
	}

	parsed, err := url.Parse(trimmed)
	if err != nil {
		return url.URL{}, &InvalidURLError{Raw: rawHref, Reason: err.Error()}
	}

	if !IsCrawlableScheme(*parsed) && parsed.IsAbs() {
		return *parsed, nil
	}

	resolved := base.ResolveReference(parsed)
	if resolved.Scheme == "" || resolved.Host == "" {
		return url.URL{}, &InvalidURLError{Raw: rawHref, Reason: "not resolvable to an absolute url"}
	}

	return urlutil.Canonicalize(*resolved), nil
}

// IsCrawlableScheme reports whether u may be dereferenced as a page.
// Only http and https enter the frontier; scheme-less (relative) references
// are crawlable because they inherit the base scheme.
func IsCrawlableScheme(u url.URL) bool {
	if u.Scheme == "" {
		return true
	}
	scheme := strings.ToLower(u.Scheme)
	if _, blocked := nonCrawlableSchemes[scheme]; blocked {
		return false
	}
	return scheme == "http" || scheme == "https"
}

// TypeOf classifies a resolved URL by its path extension.
// Extension-table lookup takes priority over the api heuristic; for
// extension-less paths, an "api" path segment substring or a non-empty
// query marks the target as an API endpoint, otherwise it is a page.
func TypeOf(u url.URL) LinkType {
	if !IsCrawlableScheme(u) {
		return LinkTypeOther
	}

	lowerPath := strings.ToLower(u.Path)
	ext := path.Ext(lowerPath)

	if linkType, ok := extensionTable[ext]; ok {
		return linkType
	}

	if strings.Contains(lowerPath, "api") || u.RawQuery != "" {
		return LinkTypeAPI
	}

	if ext == "" {
		return LinkTypePage
	}

	return LinkTypeOther
}

// HasFileExtension reports whether the URL path ends in an extension.
// The scheduler uses this to keep file downloads out of the frontier:
// only extension-less targets are fetched as pages.
func HasFileExtension(u url.URL) bool {
	return path.Ext(u.Path) != ""
}
