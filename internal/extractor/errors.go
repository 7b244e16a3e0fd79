package extractor

import (
	"fmt"

	"linkscout/internal/metadata"
	"linkscout/pkg/failure"
)

type ExtractionErrorCause string

const (
	ErrCauseNotHTML     ExtractionErrorCause = "unparseable HTML"
	ErrCauseNilDocument ExtractionErrorCause = "nil document"
)

type ExtractionError struct {
	Message string
	Cause   ExtractionErrorCause
}

func (e *ExtractionError) Error() string {
	return fmt.Sprintf("extractor error: %s", e.Message)
}

// Extraction failures are always page-scoped; the crawl moves on.
func (e *ExtractionError) Severity() failure.Severity {
	return failure.SeverityRecoverable
}

// mapExtractionErrorToMetadataCause maps extractor-local error semantics
// to the canonical metadata.ErrorCause table. Observational only.
func mapExtractionErrorToMetadataCause(err *ExtractionError) metadata.ErrorCause {
	switch err.Cause {
	case ErrCauseNotHTML:
		return metadata.CauseContentInvalid
	case ErrCauseNilDocument:
		return metadata.CauseInvariantViolation
	default:
		return metadata.CauseUnknown
	}
}
