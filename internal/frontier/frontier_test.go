package frontier_test

import (
	"fmt"
	"net/url"
	"sync"
	"testing"

	"linkscout/internal/frontier"
)

// Helper to must-parse URLs in tests
func mustURL(t *testing.T, raw string) url.URL {
	u, err := url.Parse(raw)
	if err != nil {
		t.Fatalf("invalid url %q: %v", raw, err)
	}
	return *u
}

func TestFrontier_EnforceBFS(t *testing.T) {
	/*
		Graph:
		    A (0)
		   / \
		  B   C (1)
		  |
		  D (2)

		Discovery order:
		- A discovers B, C
		- B discovers D
	*/
	f := frontier.NewFrontier()

	A := mustURL(t, "https://example.com/a")
	B := mustURL(t, "https://example.com/b")
	C := mustURL(t, "https://example.com/c")
	D := mustURL(t, "https://example.com/d")

	if !f.Admit(frontier.NewEntry(A, 0)) {
		t.Fatal("expected seed A to be admitted")
	}

	entry, ok := f.Dequeue()
	if !ok || entry.URL() != A {
		t.Fatalf("expected A first, got %v", entry.URL())
	}

	// A discovers B and C
	f.Admit(frontier.NewEntry(B, 1))
	f.Admit(frontier.NewEntry(C, 1))

	entry, _ = f.Dequeue()
	if entry.URL() != B {
		t.Errorf("expected B before C, got %v", entry.URL())
	}

	// B discovers D; C is still pending and must come out before D
	f.Admit(frontier.NewEntry(D, 2))

	entry, _ = f.Dequeue()
	if entry.URL() != C {
		t.Errorf("expected C before D, got %v", entry.URL())
	}
	if entry.Depth() != 1 {
		t.Errorf("expected C at depth 1, got %d", entry.Depth())
	}

	entry, _ = f.Dequeue()
	if entry.URL() != D || entry.Depth() != 2 {
		t.Errorf("expected D at depth 2 last, got %v depth %d", entry.URL(), entry.Depth())
	}

	if _, ok := f.Dequeue(); ok {
		t.Error("expected empty frontier after draining")
	}
}

func TestFrontier_DeduplicatesOnAdmission(t *testing.T) {
	f := frontier.NewFrontier()

	page := mustURL(t, "https://example.com/page")

	if !f.Admit(frontier.NewEntry(page, 0)) {
		t.Fatal("first admission must succeed")
	}
	if f.Admit(frontier.NewEntry(page, 1)) {
		t.Error("second admission of the same URL must be rejected")
	}
	if f.PendingCount() != 1 {
		t.Errorf("expected 1 pending entry, got %d", f.PendingCount())
	}
}

func TestFrontier_SeenReflectsAdmissionWithoutAdmitting(t *testing.T) {
	f := frontier.NewFrontier()

	admitted := frontier.NewEntry(mustURL(t, "https://example.com/a"), 0)
	unknown := frontier.NewEntry(mustURL(t, "https://example.com/b"), 0)

	if f.Seen(admitted) {
		t.Error("expected Seen false before admission")
	}
	if !f.Admit(admitted) {
		t.Fatal("expected admission to succeed")
	}
	if !f.Seen(admitted) {
		t.Error("expected Seen true after admission")
	}

	// Seen is a pure query; it must not mark the URL as visited
	if f.Seen(unknown) {
		t.Error("expected Seen false for a never-admitted URL")
	}
	if !f.Admit(unknown) {
		t.Error("expected admission to succeed after a Seen query")
	}
}

func TestFrontier_DeduplicatesCanonicalVariants(t *testing.T) {
	// trailing slash, host case, default port and fragment variants
	// all collapse into one visited slot
	f := frontier.NewFrontier()

	variants := []string{
		"https://example.com/docs",
		"https://example.com/docs/",
		"https://EXAMPLE.COM/docs",
		"https://example.com:443/docs",
		"https://example.com/docs#section",
	}

	admitted := 0
	for _, raw := range variants {
		if f.Admit(frontier.NewEntry(mustURL(t, raw), 1)) {
			admitted++
		}
	}

	if admitted != 1 {
		t.Errorf("expected exactly 1 variant admitted, got %d", admitted)
	}
	if f.VisitedCount() != 1 {
		t.Errorf("expected 1 visited key, got %d", f.VisitedCount())
	}
}

func TestFrontier_QueryStringsAreDistinct(t *testing.T) {
	f := frontier.NewFrontier()

	if !f.Admit(frontier.NewEntry(mustURL(t, "https://example.com/search?q=go"), 1)) {
		t.Fatal("first query URL must be admitted")
	}
	if !f.Admit(frontier.NewEntry(mustURL(t, "https://example.com/search?q=rust"), 1)) {
		t.Error("different query string must count as a different page")
	}
}

func TestFrontier_DequeueLevel(t *testing.T) {
	f := frontier.NewFrontier()

	f.Admit(frontier.NewEntry(mustURL(t, "https://example.com/a"), 1))
	f.Admit(frontier.NewEntry(mustURL(t, "https://example.com/b"), 1))
	f.Admit(frontier.NewEntry(mustURL(t, "https://example.com/c"), 2))

	level := f.DequeueLevel(1)

	if len(level) != 2 {
		t.Fatalf("expected 2 entries at depth 1, got %d", len(level))
	}
	if level[0].URL().Path != "/a" || level[1].URL().Path != "/b" {
		t.Errorf("depth-1 entries out of order: %v", level)
	}
	if f.PendingCount() != 1 {
		t.Errorf("expected depth-2 entry still pending, got %d pending", f.PendingCount())
	}
}

func TestFrontier_ConcurrentAdmissionAdmitsOnce(t *testing.T) {
	// GIVEN many workers racing to admit the same URL
	f := frontier.NewFrontier()
	target := mustURL(t, "https://example.com/contested")

	const workers = 32
	results := make(chan bool, workers)
	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			results <- f.Admit(frontier.NewEntry(target, 1))
		}()
	}
	wg.Wait()
	close(results)

	// THEN exactly one admission wins
	wins := 0
	for won := range results {
		if won {
			wins++
		}
	}
	if wins != 1 {
		t.Errorf("expected exactly 1 winning admission, got %d", wins)
	}
	if f.PendingCount() != 1 {
		t.Errorf("expected 1 pending entry, got %d", f.PendingCount())
	}
}

func TestFrontier_ConcurrentDistinctAdmissions(t *testing.T) {
	f := frontier.NewFrontier()

	const workers = 16
	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			u := mustURL(t, fmt.Sprintf("https://example.com/page-%d", n))
			f.Admit(frontier.NewEntry(u, 1))
		}(i)
	}
	wg.Wait()

	if f.PendingCount() != workers {
		t.Errorf("expected %d pending entries, got %d", workers, f.PendingCount())
	}
	if f.VisitedCount() != workers {
		t.Errorf("expected %d visited keys, got %d", workers, f.VisitedCount())
	}
}
