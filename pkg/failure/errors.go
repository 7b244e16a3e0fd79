package failure

// Severity partitions errors by their effect on scheduler control flow.
// Recoverable errors are recorded against the page that produced them and
// the crawl continues; a fatal error terminates the whole crawl session.
type Severity int

const (
	SeverityFatal Severity = iota
	SeverityRecoverable
)

// ClassifiedError is the error contract every pipeline stage returns.
// The scheduler derives continue-vs-abort decisions from Severity alone;
// stage-local error causes exist only for observability.
type ClassifiedError interface {
	error
	Severity() Severity
}

// IsFatal reports whether err should abort the crawl session.
// A nil error is never fatal.
func IsFatal(err ClassifiedError) bool {
	return err != nil && err.Severity() == SeverityFatal
}
