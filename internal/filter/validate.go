package filter

import (
	"context"

	"golang.org/x/sync/errgroup"

	"linkscout/internal/extractor"
	"linkscout/internal/fetcher"
	"linkscout/internal/urlnorm"
	"linkscout/pkg/urlutil"
)

/*
Validation Semantics

- Each unique resolved URL is probed once, even when it appears as
  several links
- Validation annotates; it never removes a link and never fails the
  caller
- Non-crawlable schemes are not probed and stay unannotated
- An unreachable probe (transport error) yields status 0, Reachable
  false
*/

// Validate probes every unique crawlable link target and annotates each
// link with the outcome. Probes run concurrently, bounded by
// concurrency. The input slice is returned with annotations applied.
func Validate(
	ctx context.Context,
	links []extractor.Link,
	prober fetcher.Prober,
	concurrency int,
) []extractor.Link {
	if concurrency <= 0 {
		concurrency = 1
	}

	// probe each unique target once
	targets := make(map[string][]int)
	for i, link := range links {
		if !urlnorm.IsCrawlableScheme(link.ResolvedURL) {
			continue
		}
		key := urlutil.CanonicalKey(link.ResolvedURL)
		targets[key] = append(targets[key], i)
	}

	group, groupCtx := errgroup.WithContext(ctx)
	group.SetLimit(concurrency)

	statuses := make(map[string]*extractor.ValidationStatus, len(targets))
	results := make(chan struct {
		key    string
		status extractor.ValidationStatus
	}, len(targets))

	for key, indexes := range targets {
		key, first := key, indexes[0]
		group.Go(func() error {
			if groupCtx.Err() != nil {
				return nil
			}
			statusCode, err := prober.Probe(groupCtx, links[first].ResolvedURL)
			status := extractor.ValidationStatus{
				StatusCode: statusCode,
				Reachable:  err == nil && statusCode >= 200 && statusCode < 400,
			}
			results <- struct {
				key    string
				status extractor.ValidationStatus
			}{key, status}
			return nil
		})
	}
	group.Wait()
	close(results)

	for result := range results {
		status := result.status
		statuses[result.key] = &status
	}

	for key, indexes := range targets {
		status, probed := statuses[key]
		if !probed {
			continue
		}
		for _, i := range indexes {
			statusCopy := *status
			links[i].Validation = &statusCopy
		}
	}

	return links
}
