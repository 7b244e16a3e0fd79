package urlnorm

import (
	"fmt"

	"linkscout/pkg/failure"
)

// InvalidURLError marks an href that cannot be resolved into an absolute
// URL. It is always recoverable: the offending link is dropped or tagged,
// never fatal to the crawl.
type InvalidURLError struct {
	Raw    string
	Reason string
}

func (e *InvalidURLError) Error() string {
	return fmt.Sprintf("invalid url %q: %s", e.Raw, e.Reason)
}

func (e *InvalidURLError) Severity() failure.Severity {
	return failure.SeverityRecoverable
}
