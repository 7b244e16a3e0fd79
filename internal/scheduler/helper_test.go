package scheduler_test

import (
	"fmt"
	"net/url"
	"strings"
	"testing"
	"time"

	"linkscout/internal/config"
	"linkscout/internal/scheduler"
)

// createSchedulerForTest wires a scheduler with all collaborators mocked
func createSchedulerForTest(
	t *testing.T,
	cfg config.Config,
	finalizer *mockFinalizer,
	sink *mockMetadataSink,
	scripted *scriptedFetcher,
) *scheduler.Scheduler {
	t.Helper()
	return scheduler.NewSchedulerWithDeps(cfg, finalizer, sink, scripted, scripted)
}

// testConfig builds a crawl config with politeness delays zeroed so
// tests run fast
func testConfig(t *testing.T, seedRaw string) *config.Config {
	t.Helper()
	seedUrl, err := url.Parse(seedRaw)
	if err != nil {
		t.Fatalf("invalid seed url %q: %v", seedRaw, err)
	}
	return config.WithDefault(*seedUrl).
		WithBaseDelay(0).
		WithJitter(0).
		WithTimeout(time.Second)
}

// htmlWithLinks builds a minimal page whose body links to the given hrefs
func htmlWithLinks(title string, hrefs ...string) string {
	var anchors strings.Builder
	for i, href := range hrefs {
		anchors.WriteString(fmt.Sprintf(`<a href="%s">link %d</a>`, href, i))
	}
	return fmt.Sprintf(
		`<!DOCTYPE html><html><head><title>%s</title></head><body><main>%s</main></body></html>`,
		title, anchors.String(),
	)
}
