package metadata

import "time"

// FetchEvent captures the observable outcome of a single page fetch.
type FetchEvent struct {
	fetchUrl    string
	httpStatus  int
	duration    time.Duration
	contentType string
	crawlDepth  int
}

// crawlStats is a terminal, derived summary of a completed crawl.
// It is computed by the scheduler after crawl termination, recorded exactly
// once, and must not influence scheduling, retries, or crawl termination.
type crawlStats struct {
	totalPages int
	totalLinks int
	totalError int
	durationMs int64
}

/*
ErrorCause is a closed, canonical classification used exclusively for
observability (logging, metrics, reporting).

Rules:
  - ErrorCause is for observability only.
  - It must never be used to derive retry, continuation, or abort decisions.
  - Pipeline packages MAY map their local errors to ErrorCause,
    but MUST NOT invent new meanings.

If a failure does not clearly match a defined cause, CauseUnknown MUST be used.
*/
type ErrorCause int

const (
	// CauseUnknown is the safe fallback for unclassified failures.
	CauseUnknown ErrorCause = iota
	// CauseNetworkFailure covers transport errors, timeouts, DNS failures.
	CauseNetworkFailure
	// CausePolicyDisallow covers refusals by the remote host (403, 429).
	CausePolicyDisallow
	// CauseContentInvalid covers malformed HTML, bad URLs, invalid config.
	CauseContentInvalid
	// CauseInvariantViolation covers internal bugs surfacing at runtime.
	CauseInvariantViolation
)

func (c ErrorCause) String() string {
	switch c {
	case CauseNetworkFailure:
		return "network_failure"
	case CausePolicyDisallow:
		return "policy_disallow"
	case CauseContentInvalid:
		return "content_invalid"
	case CauseInvariantViolation:
		return "invariant_violation"
	default:
		return "unknown"
	}
}

type Attribute struct {
	key AttributeKey
	val string
}

func NewAttr(key AttributeKey, val string) Attribute {
	return Attribute{key: key, val: val}
}

type AttributeKey string

const (
	AttrURL     AttributeKey = "url"
	AttrHost    AttributeKey = "host"
	AttrDepth   AttributeKey = "depth"
	AttrField   AttributeKey = "field"
	AttrMessage AttributeKey = "message"
	AttrRegion  AttributeKey = "region"
)
