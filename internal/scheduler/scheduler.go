package scheduler

import (
	"bytes"
	"context"
	"os"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"golang.org/x/net/html"
	"golang.org/x/sync/errgroup"

	"linkscout/internal/config"
	"linkscout/internal/extractor"
	"linkscout/internal/fetcher"
	"linkscout/internal/filter"
	"linkscout/internal/frontier"
	"linkscout/internal/metadata"
	"linkscout/internal/urlnorm"
	"linkscout/pkg/failure"
	"linkscout/pkg/hashutil"
	"linkscout/pkg/limiter"
	"linkscout/pkg/retry"
	"linkscout/pkg/timeutil"
	"linkscout/pkg/urlutil"
)

/*
 Scheduler is the sole control-plane authority of the crawl.

 Determinism and admission guarantees:
 - Scheduler is the ONLY component allowed to decide whether a URL
   may enter the crawl frontier.
 - All semantic admission checks (scope, depth, limits, followability)
   MUST be completed before submitting a URL to the frontier.
 - No other component may enqueue, reject, or reorder URLs.
 - Pipeline stages may detect and classify failure, but must never decide
   retry, continuation, or abortion.

 BFS under concurrency:
 - The crawl advances one depth level at a time. Every page at depth d
   is fetched (by a bounded worker pool) before any page at depth d+1.
 - Within a level, completion order is nondeterministic, but links are
   aggregated in admission order so the result stays reproducible for
   a single worker.

 Failure policy:
 - A failed seed fetch fails the whole crawl.
 - A failed child fetch is recorded in CrawlResult.Errors; siblings
   and deeper levels proceed.

 Metadata emission is observational only and MUST NOT influence
 scheduling, retries, or crawl termination.
*/

type Scheduler struct {
	metadataSink   metadata.MetadataSink
	crawlFinalizer metadata.CrawlFinalizer
	pageFetcher    fetcher.Fetcher
	prober         fetcher.Prober
	frontier       *frontier.Frontier
	rateLimiter    limiter.RateLimiter
	cfg            config.Config

	stateMu sync.Mutex
	state   CrawlState

	pagesFetched atomic.Int64
}

func NewScheduler(cfg config.Config) *Scheduler {
	recorder := metadata.NewRecorder(os.Stderr)
	renderFetcher := fetcher.NewRenderFetcher(&recorder)
	return newScheduler(cfg, &recorder, &recorder, renderFetcher, renderFetcher)
}

// NewSchedulerWithDeps creates a Scheduler with injected dependencies for
// testing. This constructor allows tests to provide mock implementations
// of the metadata interfaces and the fetcher boundary.
func NewSchedulerWithDeps(
	cfg config.Config,
	crawlFinalizer metadata.CrawlFinalizer,
	metadataSink metadata.MetadataSink,
	pageFetcher fetcher.Fetcher,
	prober fetcher.Prober,
) *Scheduler {
	return newScheduler(cfg, crawlFinalizer, metadataSink, pageFetcher, prober)
}

func newScheduler(
	cfg config.Config,
	crawlFinalizer metadata.CrawlFinalizer,
	metadataSink metadata.MetadataSink,
	pageFetcher fetcher.Fetcher,
	prober fetcher.Prober,
) *Scheduler {
	rateLimiter := limiter.NewConcurrentRateLimiter()
	rateLimiter.SetBaseDelay(cfg.BaseDelay())
	rateLimiter.SetJitter(cfg.Jitter())
	rateLimiter.SetRandomSeed(cfg.RandomSeed())

	return &Scheduler{
		metadataSink:   metadataSink,
		crawlFinalizer: crawlFinalizer,
		pageFetcher:    pageFetcher,
		prober:         prober,
		frontier:       frontier.NewFrontier(),
		rateLimiter:    rateLimiter,
		cfg:            cfg,
		state:          StateIdle,
	}
}

func (s *Scheduler) State() CrawlState {
	s.stateMu.Lock()
	defer s.stateMu.Unlock()
	return s.state
}

func (s *Scheduler) setState(state CrawlState) {
	s.stateMu.Lock()
	s.state = state
	s.stateMu.Unlock()
}

// pageOutcome carries one worker's output back to the aggregation step.
type pageOutcome struct {
	entry frontier.Entry
	page  PageResult
	links []extractor.Link
	err   failure.ClassifiedError
	// skipped entries (budget exhausted, cancelled) produce no page
	// and no error
	skipped bool
	// renderFallback marks a page served by plain HTTP because JS
	// rendering was requested but unavailable
	renderFallback bool
}

// Run executes the crawl to completion, cancellation, or fatal failure.
// The returned CrawlResult is valid in all three cases; on cancellation
// it holds everything processed so far.
func (s *Scheduler) Run(ctx context.Context) (CrawlResult, error) {
	crawlStartTime := time.Now()

	seedUrl := urlutil.Canonicalize(s.cfg.SeedURL())
	result := CrawlResult{
		StartURL: seedUrl.String(),
		State:    StateIdle,
	}

	// Ensure final stats are recorded even if the crawl aborts
	defer func() {
		s.crawlFinalizer.RecordFinalCrawlStats(
			result.PagesCrawled,
			len(result.Links),
			len(result.Errors),
			time.Since(crawlStartTime),
		)
	}()

	classifier := urlnorm.NewClassifier(seedUrl, s.cfg.IncludeSubdomains())
	linkExtractor := extractor.NewLinkExtractor(s.metadataSink, classifier)

	retryParam := s.retryParam()

	s.frontier.Admit(frontier.NewEntry(seedUrl, 0))

	// linkIndex maps canonical link keys to the first recorded URL so
	// repeat discoveries can be dropped or annotated
	linkIndex := make(map[string]string)

	for depth := 0; ctx.Err() == nil; depth++ {
		level := s.frontier.DequeueLevel(depth)
		if len(level) == 0 {
			break
		}

		s.setState(StateFetching)
		outcomes := s.fetchLevel(ctx, level, linkExtractor, retryParam)

		s.setState(StateExtracting)
		for _, outcome := range outcomes {
			if outcome.skipped {
				continue
			}

			if outcome.err != nil {
				if outcome.entry.Depth() == 0 || failure.IsFatal(outcome.err) {
					// a failed seed or a fatal classification ends the
					// session; everything else is recorded per page
					result.State = StateFailed
					s.setState(StateFailed)
					return result, outcome.err
				}
				failedUrl := outcome.entry.URL()
				result.Errors = append(result.Errors, PageError{
					URL:    failedUrl.String(),
					Reason: outcome.err.Error(),
				})
				continue
			}

			result.PagesCrawled++
			result.Pages = append(result.Pages, outcome.page)
			if outcome.renderFallback {
				result.RenderDegraded = true
			}

			s.setState(StateEnqueuing)
			for _, link := range outcome.links {
				key := urlutil.CanonicalKey(link.ResolvedURL)
				if firstUrl, seen := linkIndex[key]; seen {
					if s.cfg.AllowDuplicates() {
						link.DuplicateOf = firstUrl
						result.Links = append(result.Links, link)
					}
				} else {
					linkIndex[key] = link.URL
					result.Links = append(result.Links, link)
				}

				if depth+1 <= s.cfg.MaxDepth() && linkExtractor.Followable(link) {
					s.frontier.Admit(frontier.NewEntry(link.ResolvedURL, depth+1))
				}
			}
			s.setState(StateExtracting)
		}
	}

	if ctx.Err() == nil && s.cfg.ValidateLinks() {
		result.Links = filter.Validate(ctx, result.Links, s.prober, s.cfg.Concurrency())
	}

	result.State = StateDone
	s.setState(StateDone)
	return result, nil
}

// fetchLevel fetches every entry of one depth level with bounded
// concurrency. The returned outcomes are in entry (admission) order
// regardless of completion order.
func (s *Scheduler) fetchLevel(
	ctx context.Context,
	level []frontier.Entry,
	linkExtractor extractor.LinkExtractor,
	retryParam retry.RetryParam,
) []pageOutcome {
	outcomes := make([]pageOutcome, len(level))

	group, groupCtx := errgroup.WithContext(ctx)
	group.SetLimit(s.cfg.Concurrency())

	for i, entry := range level {
		i, entry := i, entry
		group.Go(func() error {
			outcomes[i] = s.processEntry(groupCtx, entry, linkExtractor, retryParam)
			// worker errors stay in the outcome; returning them would
			// cancel siblings
			return nil
		})
	}
	group.Wait()

	return outcomes
}

func (s *Scheduler) processEntry(
	ctx context.Context,
	entry frontier.Entry,
	linkExtractor extractor.LinkExtractor,
	retryParam retry.RetryParam,
) pageOutcome {
	outcome := pageOutcome{entry: entry}

	if ctx.Err() != nil {
		outcome.skipped = true
		return outcome
	}

	// check-then-fetch against the page budget; losers put their slot back
	if s.pagesFetched.Add(1) > int64(s.cfg.MaxPages()) {
		s.pagesFetched.Add(-1)
		outcome.skipped = true
		return outcome
	}

	entryUrl := entry.URL()
	host := entryUrl.Hostname()

	if !s.waitForHost(ctx, host) {
		s.pagesFetched.Add(-1)
		outcome.skipped = true
		return outcome
	}

	fetchParam := fetcher.NewFetchParam(
		entryUrl,
		s.cfg.Headers(),
		s.cfg.UserAgent(),
		s.cfg.Timeout(),
		s.cfg.RenderJS(),
	)

	s.rateLimiter.MarkLastFetchAsNow(host)
	fetchResult, fetchErr := s.pageFetcher.Fetch(ctx, entry.Depth(), fetchParam, retryParam)
	if fetchErr != nil {
		s.rateLimiter.Backoff(host)
		outcome.err = fetchErr
		return outcome
	}
	s.rateLimiter.ResetBackoff(host)

	doc, parseErr := html.Parse(bytes.NewReader(fetchResult.Body()))
	if parseErr != nil {
		outcome.err = &extractor.ExtractionError{
			Message: parseErr.Error(),
			Cause:   extractor.ErrCauseNotHTML,
		}
		return outcome
	}

	finalUrl := fetchResult.URL()
	links, extractErr := linkExtractor.Extract(doc, finalUrl)
	if extractErr != nil {
		outcome.err = extractErr
		return outcome
	}

	contentHash, hashErr := hashutil.HashBytes(fetchResult.Body(), hashutil.HashAlgoBLAKE3)
	if hashErr != nil {
		contentHash = ""
	}

	outcome.page = PageResult{
		URL:         finalUrl.String(),
		Depth:       entry.Depth(),
		Title:       pageTitle(doc),
		ContentHash: contentHash,
		LinkCount:   len(links),
		Rendered:    fetchResult.Rendered(),
	}
	outcome.links = links
	outcome.renderFallback = fetchResult.RenderFallback()

	return outcome
}

// waitForHost blocks for the politeness delay owed to the host. Returns
// false when the context was cancelled while waiting.
func (s *Scheduler) waitForHost(ctx context.Context, host string) bool {
	delay := s.rateLimiter.ResolveDelay(host)
	if delay <= 0 {
		return true
	}

	timer := time.NewTimer(delay)
	defer timer.Stop()
	select {
	case <-timer.C:
		return true
	case <-ctx.Done():
		return false
	}
}

func (s *Scheduler) retryParam() retry.RetryParam {
	if s.cfg.MaxAttempt() <= 1 {
		return retry.SingleAttempt()
	}
	return retry.NewRetryParam(
		s.cfg.Jitter(),
		s.cfg.RandomSeed(),
		s.cfg.MaxAttempt(),
		timeutil.NewBackoffParam(
			s.cfg.BackoffInitialDuration(),
			s.cfg.BackoffMultiplier(),
			s.cfg.BackoffMaxDuration(),
		),
	)
}

func pageTitle(doc *html.Node) string {
	var title string
	var walk func(n *html.Node) bool
	walk = func(n *html.Node) bool {
		if n.Type == html.ElementNode && n.Data == "title" {
			var builder strings.Builder
			for c := n.FirstChild; c != nil; c = c.NextSibling {
				if c.Type == html.TextNode {
					builder.WriteString(c.Data)
				}
			}
			title = strings.TrimSpace(builder.String())
			return true
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			if walk(c) {
				return true
			}
		}
		return false
	}
	walk(doc)
	return title
}
