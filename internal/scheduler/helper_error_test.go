package scheduler_test

import (
	"linkscout/pkg/failure"
)

// mockClassifiedError is a minimal ClassifiedError for scheduler tests
type mockClassifiedError struct {
	msg      string
	severity failure.Severity
}

func (e *mockClassifiedError) Error() string {
	return e.msg
}

func (e *mockClassifiedError) Severity() failure.Severity {
	return e.severity
}
