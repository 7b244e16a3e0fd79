package scheduler

import (
	"linkscout/internal/extractor"
	"linkscout/internal/urlnorm"
)

// CrawlState is the scheduler's coarse lifecycle phase. It exists for
// observability; nothing branches on it.
type CrawlState string

const (
	StateIdle       CrawlState = "idle"
	StateFetching   CrawlState = "fetching"
	StateExtracting CrawlState = "extracting"
	StateEnqueuing  CrawlState = "enqueuing"
	StateDone       CrawlState = "done"
	StateFailed     CrawlState = "failed"
)

// PageResult is the per-page record of one completed fetch.
type PageResult struct {
	URL         string `json:"url"`
	Depth       int    `json:"depth"`
	Title       string `json:"title"`
	ContentHash string `json:"content_hash"`
	LinkCount   int    `json:"link_count"`
	// Rendered reports that the body came from a headless browser session
	Rendered bool `json:"rendered,omitempty"`
}

// PageError records a page that could not be processed. Page errors are
// part of the result, not a crash.
type PageError struct {
	URL    string `json:"url"`
	Reason string `json:"reason"`
}

// CrawlResult is everything a finished (or aborted) crawl produced.
// Links are in discovery order: page completion order first, document
// order within a page.
type CrawlResult struct {
	StartURL     string           `json:"start_url"`
	State        CrawlState       `json:"state"`
	PagesCrawled int              `json:"pages_crawled"`
	Links        []extractor.Link `json:"links"`
	Pages        []PageResult     `json:"pages"`
	Errors       []PageError      `json:"errors"`
	// RenderDegraded reports that JS rendering was requested but at least
	// one page fell back to the plain HTTP body
	RenderDegraded bool `json:"render_degraded,omitempty"`
}

// CrawlInfo is a derived summary of a CrawlResult.
type CrawlInfo struct {
	StartURL     string `json:"start_url"`
	PagesCrawled int    `json:"pages_crawled"`
	MaxDepth     int    `json:"max_depth"`
	TotalLinks   int    `json:"total_links"`
	FilesFound   int    `json:"files_found"`
}

// Info derives the summary view. FilesFound counts links whose type is
// a concrete file category rather than a page.
func (r CrawlResult) Info() CrawlInfo {
	maxDepth := 0
	for _, page := range r.Pages {
		if page.Depth > maxDepth {
			maxDepth = page.Depth
		}
	}

	filesFound := 0
	for _, link := range r.Links {
		switch link.Type {
		case urlnorm.LinkTypePage, urlnorm.LinkTypeAPI, urlnorm.LinkTypeOther:
		default:
			filesFound++
		}
	}

	return CrawlInfo{
		StartURL:     r.StartURL,
		PagesCrawled: r.PagesCrawled,
		MaxDepth:     maxDepth,
		TotalLinks:   len(r.Links),
		FilesFound:   filesFound,
	}
}
