package fetcher

import (
	"context"
	"net/url"

	"linkscout/pkg/failure"
	"linkscout/pkg/retry"
)

type Fetcher interface {
	Fetch(
		ctx context.Context,
		crawlDepth int,
		fetchParam FetchParam,
		retryParam retry.RetryParam,
	) (FetchResult, failure.ClassifiedError)
}

// Prober answers lightweight reachability checks for link validation.
// It never downloads bodies.
type Prober interface {
	Probe(ctx context.Context, probeUrl url.URL) (int, failure.ClassifiedError)
}
