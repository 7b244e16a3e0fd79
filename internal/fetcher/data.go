package fetcher

import (
	"net/url"
	"time"
)

// HTTP boundary

type FetchParam struct {
	fetchUrl  url.URL
	headers   map[string]string
	userAgent string
	timeout   time.Duration
	renderJS  bool
}

func NewFetchParam(
	fetchUrl url.URL,
	headers map[string]string,
	userAgent string,
	timeout time.Duration,
	renderJS bool,
) FetchParam {
	return FetchParam{
		fetchUrl:  fetchUrl,
		headers:   headers,
		userAgent: userAgent,
		timeout:   timeout,
		renderJS:  renderJS,
	}
}

func (p *FetchParam) URL() url.URL {
	return p.fetchUrl
}

func (p *FetchParam) Timeout() time.Duration {
	return p.timeout
}

func (p *FetchParam) RenderJS() bool {
	return p.renderJS
}

type FetchResult struct {
	url            url.URL
	body           []byte
	meta           ResponseMeta
	rendered       bool
	renderFallback bool
}

// URL is the final URL after any redirects; link resolution anchors here.
func (f *FetchResult) URL() url.URL {
	return f.url
}

func (f *FetchResult) Body() []byte {
	return f.body
}

func (f *FetchResult) Code() int {
	return f.meta.statusCode
}

func (f *FetchResult) SizeByte() uint64 {
	return f.meta.transferredSizeByte
}

func (f *FetchResult) Headers() map[string]string {
	return f.meta.responseHeaders
}

// Rendered reports whether the body came from a headless browser session.
func (f *FetchResult) Rendered() bool {
	return f.rendered
}

// RenderFallback reports that JS rendering was requested but unavailable,
// so the body is the plain HTTP response instead.
func (f *FetchResult) RenderFallback() bool {
	return f.renderFallback
}

type ResponseMeta struct {
	statusCode          int
	transferredSizeByte uint64
	responseHeaders     map[string]string
}

// NewFetchResultForTest creates a FetchResult for testing purposes.
// This allows test packages to construct FetchResult values without
// accessing unexported fields directly.
func NewFetchResultForTest(
	url url.URL,
	body []byte,
	statusCode int,
	responseHeaders map[string]string,
) FetchResult {
	return FetchResult{
		url:  url,
		body: body,
		meta: ResponseMeta{
			statusCode:          statusCode,
			transferredSizeByte: uint64(len(body)),
			responseHeaders:     responseHeaders,
		},
	}
}

// NewRenderedFetchResultForTest creates a FetchResult with the rendering
// flags set, for tests exercising the render and fallback paths.
func NewRenderedFetchResultForTest(
	url url.URL,
	body []byte,
	rendered bool,
	renderFallback bool,
) FetchResult {
	result := NewFetchResultForTest(url, body, 200, map[string]string{
		"Content-Type": "text/html; charset=utf-8",
	})
	result.rendered = rendered
	result.renderFallback = renderFallback
	return result
}
