package scheduler_test

import (
	"sync"
	"testing"
	"time"

	"linkscout/internal/metadata"
)

// mockMetadataSink is a concurrency-safe test double for metadata.MetadataSink
type mockMetadataSink struct {
	mu          sync.Mutex
	fetchCount  int
	errorCauses []metadata.ErrorCause
}

func (m *mockMetadataSink) RecordFetch(
	fetchUrl string,
	httpStatus int,
	duration time.Duration,
	contentType string,
	crawlDepth int,
) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.fetchCount++
}

func (m *mockMetadataSink) RecordError(
	observedAt time.Time,
	packageName string,
	action string,
	cause metadata.ErrorCause,
	details string,
	attrs []metadata.Attribute,
) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.errorCauses = append(m.errorCauses, cause)
}

// mockFinalizer is a test double that captures final crawl statistics
type mockFinalizer struct {
	mu            sync.Mutex
	recordedStats []capturedStats
}

type capturedStats struct {
	totalPages  int
	totalLinks  int
	totalErrors int
	duration    time.Duration
}

func newMockFinalizer(t *testing.T) *mockFinalizer {
	t.Helper()
	return &mockFinalizer{}
}

func (m *mockFinalizer) RecordFinalCrawlStats(
	totalPages int,
	totalLinks int,
	totalErrors int,
	duration time.Duration,
) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.recordedStats = append(m.recordedStats, capturedStats{
		totalPages:  totalPages,
		totalLinks:  totalLinks,
		totalErrors: totalErrors,
		duration:    duration,
	})
}

func (m *mockFinalizer) stats(t *testing.T) capturedStats {
	t.Helper()
	m.mu.Lock()
	defer m.mu.Unlock()
	if len(m.recordedStats) != 1 {
		t.Fatalf("expected final stats recorded exactly once, got %d", len(m.recordedStats))
	}
	return m.recordedStats[0]
}
