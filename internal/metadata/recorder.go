package metadata

import (
	"io"
	"log/slog"
	"time"
)

/*
Recorder captures structured crawl events.

Metadata Collected
- Fetch timestamps, HTTP status codes, durations
- Content hashes
- Crawl depth
- Per-stage failures with canonical causes

Determinism guarantees:
  - Metadata does not affect control flow
  - Errors do not reorder the frontier
  - Output is stable given identical inputs

Metadata is write-only. No component may read metadata to influence crawl
decisions.

Ordering guarantees:
  - Events are recorded synchronously in the order they are received by a
    single worker.
  - No global ordering across workers is guaranteed.
*/
type Recorder struct {
	logger *slog.Logger
}

// NewRecorder builds a recorder that emits structured events to w.
func NewRecorder(w io.Writer) Recorder {
	return Recorder{
		logger: slog.New(slog.NewJSONHandler(w, nil)),
	}
}

// NewRecorderWithLogger wires an externally configured slog.Logger,
// letting the caller pick handler and level.
func NewRecorderWithLogger(logger *slog.Logger) Recorder {
	return Recorder{logger: logger}
}

func (r *Recorder) RecordError(
	observedAt time.Time,
	packageName string,
	action string,
	cause ErrorCause,
	errorString string,
	attrs []Attribute,
) {
	args := []any{
		slog.Time("observed_at", observedAt),
		slog.String("package", packageName),
		slog.String("action", action),
		slog.String("cause", cause.String()),
		slog.String("error", errorString),
	}
	for _, attr := range attrs {
		args = append(args, slog.String(string(attr.key), attr.val))
	}
	r.logger.Error("crawl stage error", args...)
}

func (r *Recorder) RecordFetch(
	fetchUrl string,
	httpStatus int,
	duration time.Duration,
	contentType string,
	crawlDepth int,
) {
	r.logger.Info("page fetched",
		slog.String("url", fetchUrl),
		slog.Int("status", httpStatus),
		slog.Duration("duration", duration),
		slog.String("content_type", contentType),
		slog.Int("depth", crawlDepth),
	)
}

/*
RecordFinalCrawlStats records a terminal, derived summary of a completed crawl.

Contract:
  - MUST be called exactly once per crawl execution.
  - MUST be called only after crawl termination
    (frontier exhausted, limits hit, or scheduler abort).
  - The provided stats MUST be derived from scheduler state,
    not accumulated incrementally via the recorder.
*/
func (r *Recorder) RecordFinalCrawlStats(
	totalPages int,
	totalLinks int,
	totalErrors int,
	duration time.Duration,
) {
	stats := crawlStats{
		totalPages: totalPages,
		totalLinks: totalLinks,
		totalError: totalErrors,
		durationMs: duration.Milliseconds(),
	}

	r.logger.Info("crawl finished",
		slog.Int("pages_crawled", stats.totalPages),
		slog.Int("total_links", stats.totalLinks),
		slog.Int("total_errors", stats.totalError),
		slog.Int64("duration_ms", stats.durationMs),
	)
}

type MetadataSink interface {
	RecordError(
		observedAt time.Time,
		packageName string,
		action string,
		cause ErrorCause,
		details string,
		attrs []Attribute,
	)

	RecordFetch(
		fetchUrl string,
		httpStatus int,
		duration time.Duration,
		contentType string,
		crawlDepth int,
	)
}

type CrawlFinalizer interface {
	RecordFinalCrawlStats(
		totalPages int,
		totalLinks int,
		totalErrors int,
		duration time.Duration,
	)
}

// NoopSink implements MetadataSink and CrawlFinalizer but does nothing.
// Callers (and tests) decide whether to inject Recorder or NoopSink;
// the purpose is to keep metadata orthogonal to crawl behavior.
type NoopSink struct{}

func (n *NoopSink) RecordError(
	observedAt time.Time,
	packageName string,
	action string,
	cause ErrorCause,
	errorString string,
	attrs []Attribute,
) {
}

func (n *NoopSink) RecordFetch(
	fetchUrl string,
	httpStatus int,
	duration time.Duration,
	contentType string,
	crawlDepth int,
) {
}

func (n *NoopSink) RecordFinalCrawlStats(
	totalPages int,
	totalLinks int,
	totalErrors int,
	duration time.Duration,
) {
}
