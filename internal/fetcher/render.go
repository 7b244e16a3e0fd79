package fetcher

import (
	"context"
	"fmt"
	"net/url"
	"os/exec"
	"strings"
	"sync"
	"time"

	"github.com/chromedp/chromedp"

	"linkscout/internal/metadata"
	"linkscout/pkg/failure"
	"linkscout/pkg/retry"
)

/*
Responsibilities

- Drive a headless Chrome session for pages that need JavaScript
- Export the final DOM after the document settles
- Fall back to the plain HTTP fetch when no browser is available

Render Semantics

- A fetch with RenderJS disabled bypasses the browser entirely
- Browser unavailability is a degradation, not a failure: the plain
  HTTP body is returned with the RenderFallback flag set
- Render failures against a reachable page fall back the same way
*/

const defaultRenderTimeout = 60 * time.Second

// RenderFetcher layers headless-browser rendering over an HtmlFetcher.
type RenderFetcher struct {
	metadataSink metadata.MetadataSink
	htmlFetcher  HtmlFetcher

	capabilityOnce sync.Once
	browserFound   bool
}

func NewRenderFetcher(metadataSink metadata.MetadataSink) *RenderFetcher {
	return &RenderFetcher{
		metadataSink: metadataSink,
		htmlFetcher:  NewHtmlFetcher(metadataSink),
	}
}

func (r *RenderFetcher) Fetch(
	ctx context.Context,
	crawlDepth int,
	fetchParam FetchParam,
	retryParam retry.RetryParam,
) (FetchResult, failure.ClassifiedError) {
	if !fetchParam.renderJS {
		return r.htmlFetcher.Fetch(ctx, crawlDepth, fetchParam, retryParam)
	}

	if !r.renderCapable() {
		return r.fallback(ctx, crawlDepth, fetchParam, retryParam, "no Chrome or Chromium executable found")
	}

	result, renderErr := r.render(ctx, fetchParam)
	if renderErr != nil {
		return r.fallback(ctx, crawlDepth, fetchParam, retryParam, renderErr.Error())
	}

	r.metadataSink.RecordFetch(
		fetchParam.fetchUrl.String(),
		result.Code(),
		0,
		"text/html",
		crawlDepth,
	)

	return result, nil
}

func (r *RenderFetcher) Probe(ctx context.Context, probeUrl url.URL) (int, failure.ClassifiedError) {
	return r.htmlFetcher.Probe(ctx, probeUrl)
}

// fallback degrades to the plain HTTP fetch and flags the result so
// callers can surface the missed rendering as a warning.
func (r *RenderFetcher) fallback(
	ctx context.Context,
	crawlDepth int,
	fetchParam FetchParam,
	retryParam retry.RetryParam,
	reason string,
) (FetchResult, failure.ClassifiedError) {
	r.metadataSink.RecordError(
		time.Now(),
		"fetcher",
		"RenderFetcher.Fetch",
		metadata.CauseUnknown,
		fmt.Sprintf("JS rendering unavailable, using plain HTTP: %s", reason),
		[]metadata.Attribute{
			metadata.NewAttr(metadata.AttrURL, fetchParam.fetchUrl.String()),
		},
	)

	result, err := r.htmlFetcher.Fetch(ctx, crawlDepth, fetchParam, retryParam)
	if err != nil {
		return FetchResult{}, err
	}
	result.renderFallback = true
	return result, nil
}

func (r *RenderFetcher) render(parentCtx context.Context, fetchParam FetchParam) (FetchResult, *FetchError) {
	timeout := fetchParam.timeout
	if timeout <= 0 {
		timeout = defaultRenderTimeout
	}
	ctx, cancel := context.WithTimeout(parentCtx, timeout)
	defer cancel()

	execOpts := []chromedp.ExecAllocatorOption{
		chromedp.Flag("headless", true),
		chromedp.Flag("disable-gpu", true),
		chromedp.Flag("disable-dev-shm-usage", true),
		chromedp.Flag("no-sandbox", true),
	}
	if ua := strings.TrimSpace(fetchParam.userAgent); ua != "" {
		execOpts = append(execOpts, chromedp.UserAgent(ua))
	}

	allocCtx, allocCancel := chromedp.NewExecAllocator(ctx, execOpts...)
	defer allocCancel()

	chromeCtx, chromeCancel := chromedp.NewContext(allocCtx)
	defer chromeCancel()

	var renderedHTML string
	var finalLocation string
	actions := []chromedp.Action{
		chromedp.Navigate(fetchParam.fetchUrl.String()),
		waitForDocumentReady(),
		chromedp.Sleep(250 * time.Millisecond),
		chromedp.OuterHTML("html", &renderedHTML, chromedp.ByQuery),
		chromedp.Location(&finalLocation),
	}

	if err := chromedp.Run(chromeCtx, actions...); err != nil {
		return FetchResult{}, &FetchError{
			Message:   fmt.Sprintf("chromedp run: %v", err),
			Retryable: false,
			Cause:     ErrCauseRenderFailure,
		}
	}

	finalUrl := fetchParam.fetchUrl
	if finalLocation != "" {
		if parsed, err := url.Parse(finalLocation); err == nil {
			finalUrl = *parsed
		}
	}

	body := []byte(renderedHTML)
	return FetchResult{
		url:  finalUrl,
		body: body,
		meta: ResponseMeta{
			statusCode:          200,
			transferredSizeByte: uint64(len(body)),
			responseHeaders:     map[string]string{"Content-Type": "text/html; charset=utf-8"},
		},
		rendered: true,
	}, nil
}

// renderCapable reports whether a Chrome-family browser is on PATH.
// Checked once per process.
func (r *RenderFetcher) renderCapable() bool {
	r.capabilityOnce.Do(func() {
		for _, name := range []string{"google-chrome", "chromium", "chromium-browser", "headless-shell"} {
			if _, err := exec.LookPath(name); err == nil {
				r.browserFound = true
				return
			}
		}
	})
	return r.browserFound
}

func waitForDocumentReady() chromedp.Action {
	return chromedp.ActionFunc(func(ctx context.Context) error {
		ticker := time.NewTicker(100 * time.Millisecond)
		defer ticker.Stop()
		for {
			var readyState string
			if err := chromedp.Evaluate(`document.readyState`, &readyState).Do(ctx); err != nil {
				return err
			}
			if readyState == "complete" {
				return nil
			}
			select {
			case <-ticker.C:
			case <-ctx.Done():
				return ctx.Err()
			}
		}
	})
}
