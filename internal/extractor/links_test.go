package extractor

import (
	"net/url"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/net/html"

	"linkscout/internal/metadata"
	"linkscout/internal/source"
	"linkscout/internal/urlnorm"
)

func mustParse(t *testing.T, markup string) *html.Node {
	t.Helper()
	doc, err := html.Parse(strings.NewReader(markup))
	require.NoError(t, err)
	return doc
}

func mustURL(t *testing.T, raw string) url.URL {
	t.Helper()
	parsed, err := url.Parse(raw)
	require.NoError(t, err)
	return *parsed
}

func newTestExtractor(t *testing.T) LinkExtractor {
	t.Helper()
	seed := mustURL(t, "https://example.com/")
	return NewLinkExtractor(&metadata.NoopSink{}, urlnorm.NewClassifier(seed, false))
}

func TestExtractPreservesDocumentOrder(t *testing.T) {
	// GIVEN a page with links scattered across regions
	extractor := newTestExtractor(t)
	doc := mustParse(t, `<html><body>
		<nav><a href="/first">First</a></nav>
		<main><a href="/second">Second</a></main>
		<footer><a href="/third">Third</a></footer>
	</body></html>`)

	// WHEN extracting
	links, err := extractor.Extract(doc, mustURL(t, "https://example.com/page"))
	require.Nil(t, err)

	// THEN links come back in DOM traversal order
	require.Len(t, links, 3)
	assert.Equal(t, "https://example.com/first", links[0].URL)
	assert.Equal(t, "https://example.com/second", links[1].URL)
	assert.Equal(t, "https://example.com/third", links[2].URL)
}

func TestExtractClassifiesLinks(t *testing.T) {
	extractor := newTestExtractor(t)
	doc := mustParse(t, `<html><body><main>
		<a href="/docs/intro">Intro</a>
		<a href="https://blog.example.com/post">Blog</a>
		<a href="https://other.org/page">Other</a>
		<img src="/assets/logo.png" alt="logo">
		<a href="/files/report.pdf">Report</a>
	</main></body></html>`)

	links, err := extractor.Extract(doc, mustURL(t, "https://example.com/docs"))
	require.Nil(t, err)
	require.Len(t, links, 5)

	intro := links[0]
	assert.Equal(t, "/docs/intro", intro.RawHref)
	assert.True(t, intro.IsInternal)
	assert.False(t, intro.IsSubdomain)
	assert.Equal(t, urlnorm.LinkTypePage, intro.Type)
	assert.Equal(t, source.RegionMainContent, intro.Region)
	assert.Equal(t, "Intro", intro.Text)
	assert.Equal(t, "https://example.com/docs", intro.FoundOnPage)

	blog := links[1]
	assert.False(t, blog.IsInternal)
	assert.True(t, blog.IsSubdomain)
	assert.Equal(t, "blog.example.com", blog.Domain)

	other := links[2]
	assert.False(t, other.IsInternal)
	assert.False(t, other.IsSubdomain)

	logo := links[3]
	assert.Equal(t, urlnorm.LinkTypeImage, logo.Type)

	report := links[4]
	assert.Equal(t, urlnorm.LinkTypeDocument, report.Type)
}

func TestExtractSkipsFragmentOnlyReferences(t *testing.T) {
	extractor := newTestExtractor(t)
	doc := mustParse(t, `<html><body>
		<a href="#section">Jump</a>
		<a href="">Empty</a>
		<a href="/real">Real</a>
	</body></html>`)

	links, err := extractor.Extract(doc, mustURL(t, "https://example.com/"))
	require.Nil(t, err)

	require.Len(t, links, 1)
	assert.Equal(t, "https://example.com/real", links[0].URL)
}

func TestExtractRecordsNonCrawlableSchemes(t *testing.T) {
	// mailto links are part of the result set but never followed
	extractor := newTestExtractor(t)
	doc := mustParse(t, `<html><body>
		<a href="mailto:team@example.com">Mail us</a>
		<a href="javascript:void(0)">Click</a>
	</body></html>`)

	links, err := extractor.Extract(doc, mustURL(t, "https://example.com/"))
	require.Nil(t, err)
	require.Len(t, links, 2)

	for _, link := range links {
		assert.Equal(t, urlnorm.LinkTypeOther, link.Type)
		assert.False(t, extractor.Followable(link))
		assert.Empty(t, link.Domain)
	}
	assert.Equal(t, "mailto:team@example.com", links[0].URL)
}

func TestExtractHonorsBaseHref(t *testing.T) {
	// GIVEN a document carrying its own <base href>
	extractor := newTestExtractor(t)
	doc := mustParse(t, `<html><head><base href="https://example.com/docs/"></head><body>
		<a href="guide">Guide</a>
	</body></html>`)

	// WHEN the page URL points elsewhere
	links, err := extractor.Extract(doc, mustURL(t, "https://example.com/other"))
	require.Nil(t, err)

	// THEN relative links resolve against the base element
	require.Len(t, links, 1)
	assert.Equal(t, "https://example.com/docs/guide", links[0].URL)
}

func TestExtractNilDocumentFails(t *testing.T) {
	extractor := newTestExtractor(t)

	links, err := extractor.Extract(nil, mustURL(t, "https://example.com/"))

	require.NotNil(t, err)
	assert.Nil(t, links)
	var extractionErr *ExtractionError
	require.ErrorAs(t, err, &extractionErr)
	assert.Equal(t, ErrCauseNilDocument, extractionErr.Cause)
}

func TestFollowable(t *testing.T) {
	extractor := newTestExtractor(t)
	doc := mustParse(t, `<html><body>
		<a href="/page">Internal page</a>
		<a href="/report.pdf">Internal file</a>
		<a href="https://other.org/">External</a>
		<a href="https://blog.example.com/">Subdomain</a>
	</body></html>`)

	links, err := extractor.Extract(doc, mustURL(t, "https://example.com/"))
	require.Nil(t, err)
	require.Len(t, links, 4)

	assert.True(t, extractor.Followable(links[0]), "internal pages enter the frontier")
	assert.False(t, extractor.Followable(links[1]), "file downloads are collected, not fetched")
	assert.False(t, extractor.Followable(links[2]), "external hosts stay out of the frontier")
	assert.False(t, extractor.Followable(links[3]), "subdomains need opt-in")
}

func TestFollowableWithSubdomainsEnabled(t *testing.T) {
	seed := mustURL(t, "https://example.com/")
	extractor := NewLinkExtractor(&metadata.NoopSink{}, urlnorm.NewClassifier(seed, true))
	doc := mustParse(t, `<html><body><a href="https://blog.example.com/">Blog</a></body></html>`)

	links, err := extractor.Extract(doc, seed)
	require.Nil(t, err)
	require.Len(t, links, 1)

	assert.True(t, links[0].IsInternal)
	assert.True(t, extractor.Followable(links[0]))
}

func TestExtractCollapsesAnchorWhitespace(t *testing.T) {
	extractor := newTestExtractor(t)
	doc := mustParse(t, "<html><body><a href=\"/x\">  spread\n\t over   lines </a></body></html>")

	links, err := extractor.Extract(doc, mustURL(t, "https://example.com/"))
	require.Nil(t, err)

	require.Len(t, links, 1)
	assert.Equal(t, "spread over lines", links[0].Text)
}
