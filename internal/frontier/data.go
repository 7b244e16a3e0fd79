package frontier

import (
	"net/url"
)

// Crawl state & ordering

// Entry is one admitted URL waiting to be fetched, together with the
// depth it was discovered at. Depth 0 is the seed page.
type Entry struct {
	targetURL url.URL
	depth     int
}

func NewEntry(targetUrl url.URL, depth int) Entry {
	return Entry{
		targetURL: targetUrl,
		depth:     depth,
	}
}

func (e *Entry) URL() url.URL {
	return e.targetURL
}

func (e *Entry) Depth() int {
	return e.depth
}
