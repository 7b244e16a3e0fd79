package scheduler_test

import (
	"context"
	"net/url"
	"sync"
	"testing"

	"linkscout/internal/fetcher"
	"linkscout/pkg/failure"
	"linkscout/pkg/retry"
)

// pageStub is one scripted response of the fetcher mock
type pageStub struct {
	body           string
	status         int
	err            failure.ClassifiedError
	rendered       bool
	renderFallback bool
}

// scriptedFetcher is a test double for fetcher.Fetcher and
// fetcher.Prober. Responses are keyed by the exact request URL; an
// unscripted URL fails the test. Fetch order is recorded for BFS
// assertions.
type scriptedFetcher struct {
	t     *testing.T
	mu    sync.Mutex
	pages map[string]pageStub

	fetchedUrls   []string
	fetchedDepths []int
	probedUrls    []string
}

func newScriptedFetcher(t *testing.T) *scriptedFetcher {
	t.Helper()
	return &scriptedFetcher{
		t:     t,
		pages: make(map[string]pageStub),
	}
}

func (s *scriptedFetcher) addPage(rawUrl, body string) {
	s.pages[rawUrl] = pageStub{body: body, status: 200}
}

func (s *scriptedFetcher) addFailure(rawUrl string, err failure.ClassifiedError) {
	s.pages[rawUrl] = pageStub{err: err}
}

func (s *scriptedFetcher) addRenderedPage(rawUrl, body string) {
	s.pages[rawUrl] = pageStub{body: body, status: 200, rendered: true}
}

func (s *scriptedFetcher) addRenderFallbackPage(rawUrl, body string) {
	s.pages[rawUrl] = pageStub{body: body, status: 200, renderFallback: true}
}

func (s *scriptedFetcher) Fetch(
	ctx context.Context,
	crawlDepth int,
	fetchParam fetcher.FetchParam,
	retryParam retry.RetryParam,
) (fetcher.FetchResult, failure.ClassifiedError) {
	fetchUrl := fetchParam.URL()
	target := fetchUrl.String()

	s.mu.Lock()
	s.fetchedUrls = append(s.fetchedUrls, target)
	s.fetchedDepths = append(s.fetchedDepths, crawlDepth)
	stub, scripted := s.pages[target]
	s.mu.Unlock()

	if !scripted {
		s.t.Errorf("unscripted fetch of %s", target)
		return fetcher.FetchResult{}, &mockClassifiedError{
			msg:      "unscripted URL: " + target,
			severity: failure.SeverityRecoverable,
		}
	}
	if stub.err != nil {
		return fetcher.FetchResult{}, stub.err
	}

	if stub.rendered || stub.renderFallback {
		return fetcher.NewRenderedFetchResultForTest(
			fetchUrl,
			[]byte(stub.body),
			stub.rendered,
			stub.renderFallback,
		), nil
	}

	return fetcher.NewFetchResultForTest(
		fetchUrl,
		[]byte(stub.body),
		stub.status,
		map[string]string{"Content-Type": "text/html"},
	), nil
}

func (s *scriptedFetcher) Probe(ctx context.Context, probeUrl url.URL) (int, failure.ClassifiedError) {
	target := probeUrl.String()

	s.mu.Lock()
	s.probedUrls = append(s.probedUrls, target)
	stub, scripted := s.pages[target]
	s.mu.Unlock()

	if !scripted {
		return 404, nil
	}
	if stub.err != nil {
		return 0, stub.err
	}
	return stub.status, nil
}

// fetchOrder returns the recorded fetch sequence
func (s *scriptedFetcher) fetchOrder() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	order := make([]string, len(s.fetchedUrls))
	copy(order, s.fetchedUrls)
	return order
}

// depthOf returns the crawl depth the URL was fetched at, or -1
func (s *scriptedFetcher) depthOf(rawUrl string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, fetched := range s.fetchedUrls {
		if fetched == rawUrl {
			return s.fetchedDepths[i]
		}
	}
	return -1
}
