package cmd_test

import (
	"errors"
	"net/url"
	"os"
	"path/filepath"
	"testing"
	"time"

	cmd "linkscout/internal/cli"
	"linkscout/internal/config"
)

// defaultTestURL returns the seed URL used across these tests
func defaultTestURL() string {
	return "https://example.com"
}

// TestInitConfigNoFlags tests that InitConfigWithError returns a Config with
// default values when only a seed URL is provided
func TestInitConfigNoFlags(t *testing.T) {
	cmd.ResetFlags()

	cfg, err := cmd.InitConfigWithError(defaultTestURL())
	if err != nil {
		t.Errorf("Unexpected error: %v", err)
	}

	baseURL := url.URL{Scheme: "https", Host: "base.org"}
	defaultCfg, err := config.WithDefault(baseURL).Build()
	if err != nil {
		t.Errorf("should not have any error, got %v", err)
	}

	// Non-overridden values match the defaults
	if cfg.MaxDepth() != defaultCfg.MaxDepth() {
		t.Errorf("Expected MaxDepth %d, got %d", defaultCfg.MaxDepth(), cfg.MaxDepth())
	}
	if cfg.MaxPages() != defaultCfg.MaxPages() {
		t.Errorf("Expected MaxPages %d, got %d", defaultCfg.MaxPages(), cfg.MaxPages())
	}
	if cfg.Concurrency() != defaultCfg.Concurrency() {
		t.Errorf("Expected Concurrency %d, got %d", defaultCfg.Concurrency(), cfg.Concurrency())
	}
	if cfg.IncludeSubdomains() != defaultCfg.IncludeSubdomains() {
		t.Errorf("Expected IncludeSubdomains %t, got %t", defaultCfg.IncludeSubdomains(), cfg.IncludeSubdomains())
	}
	if cfg.RenderJS() != defaultCfg.RenderJS() {
		t.Errorf("Expected RenderJS %t, got %t", defaultCfg.RenderJS(), cfg.RenderJS())
	}

	// The seed URL is correctly set
	seedUrl := cfg.SeedURL()
	if seedUrl.String() != defaultTestURL() {
		t.Errorf("Expected SeedURL %s, got %s", defaultTestURL(), seedUrl.String())
	}
}

// TestInitConfigWithInvalidSeedUrl tests that InitConfigWithError rejects
// seed URLs the crawler cannot fetch
func TestInitConfigWithInvalidSeedUrl(t *testing.T) {
	tests := []struct {
		name    string
		seedURL string
	}{
		{"Empty seed URL", ""},
		{"Relative seed URL", "/docs/start"},
		{"Non-HTTP scheme", "ftp://example.com/archive"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cmd.ResetFlags()

			_, err := cmd.InitConfigWithError(tt.seedURL)
			if err == nil {
				t.Fatalf("Expected error for seed URL %q, got nil", tt.seedURL)
			}
			if !errors.Is(err, config.ErrInvalidConfig) {
				t.Errorf("Expected ErrInvalidConfig, got: %v", err)
			}
		})
	}
}

// TestInitConfigWithMaxDepth tests that the maxDepth flag is properly applied
func TestInitConfigWithMaxDepth(t *testing.T) {
	tests := []struct {
		name     string
		maxDepth int
	}{
		{"Zero maxDepth fetches only the seed", 0},
		{"Positive maxDepth", 10},
		{"Negative maxDepth", -1},
		{"Large maxDepth", 1000},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cmd.ResetFlags()
			cmd.SetMaxDepthForTest(tt.maxDepth)

			cfg, err := cmd.InitConfigWithError(defaultTestURL())
			if err != nil {
				t.Errorf("Unexpected error: %v", err)
			}

			// An explicit 0 is honored; only a negative value (the unset
			// sentinel) falls back to the default
			expectedDepth := tt.maxDepth
			if tt.maxDepth < 0 {
				baseURL := url.URL{Scheme: "https", Host: "base.org"}
				build, err := config.WithDefault(baseURL).Build()
				if err != nil {
					t.Errorf("should not have any error, got %v", err)
				}
				expectedDepth = build.MaxDepth()
			}

			if cfg.MaxDepth() != expectedDepth {
				t.Errorf("Expected MaxDepth %d, got %d", expectedDepth, cfg.MaxDepth())
			}
		})
	}
}

// TestInitConfigWithConcurrency tests that the concurrency flag is properly applied
func TestInitConfigWithConcurrency(t *testing.T) {
	tests := []struct {
		name        string
		concurrency int
	}{
		{"Zero concurrency", 0},
		{"Positive concurrency", 5},
		{"Negative concurrency", -1},
		{"Large concurrency", 100},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cmd.ResetFlags()
			cmd.SetConcurrencyForTest(tt.concurrency)

			cfg, err := cmd.InitConfigWithError(defaultTestURL())
			if err != nil {
				t.Errorf("Unexpected error: %v", err)
			}

			expectedConcurrency := tt.concurrency
			if tt.concurrency <= 0 {
				baseURL := url.URL{Scheme: "https", Host: "base.org"}
				build, err := config.WithDefault(baseURL).Build()
				if err != nil {
					t.Errorf("should not have any error, got %v", err)
				}
				expectedConcurrency = build.Concurrency()
			}

			if cfg.Concurrency() != expectedConcurrency {
				t.Errorf("Expected Concurrency %d, got %d", expectedConcurrency, cfg.Concurrency())
			}
		})
	}
}

// TestInitConfigWithBooleanFlags tests that the boolean crawl flags carry
// through to the config as-is
func TestInitConfigWithBooleanFlags(t *testing.T) {
	cmd.ResetFlags()
	cmd.SetIncludeSubdomainsForTest(true)
	cmd.SetAllowDuplicatesForTest(true)
	cmd.SetRenderJSForTest(true)
	cmd.SetValidateLinksForTest(true)

	cfg, err := cmd.InitConfigWithError(defaultTestURL())
	if err != nil {
		t.Errorf("Unexpected error: %v", err)
	}

	if !cfg.IncludeSubdomains() {
		t.Errorf("Expected IncludeSubdomains true, got false")
	}
	if !cfg.AllowDuplicates() {
		t.Errorf("Expected AllowDuplicates true, got false")
	}
	if !cfg.RenderJS() {
		t.Errorf("Expected RenderJS true, got false")
	}
	if !cfg.ValidateLinks() {
		t.Errorf("Expected ValidateLinks true, got false")
	}
}

// TestInitConfigWithPoliteness tests that delay-related flags are properly applied
func TestInitConfigWithPoliteness(t *testing.T) {
	cmd.ResetFlags()
	cmd.SetBaseDelayForTest(2 * time.Second)
	cmd.SetJitterForTest(250 * time.Millisecond)
	cmd.SetRandomSeedForTest(424242)
	cmd.SetTimeoutForTest(5 * time.Second)
	cmd.SetMaxAttemptForTest(3)

	cfg, err := cmd.InitConfigWithError(defaultTestURL())
	if err != nil {
		t.Errorf("Unexpected error: %v", err)
	}

	if cfg.BaseDelay() != 2*time.Second {
		t.Errorf("Expected BaseDelay 2s, got %v", cfg.BaseDelay())
	}
	if cfg.Jitter() != 250*time.Millisecond {
		t.Errorf("Expected Jitter 250ms, got %v", cfg.Jitter())
	}
	if cfg.RandomSeed() != 424242 {
		t.Errorf("Expected RandomSeed 424242, got %d", cfg.RandomSeed())
	}
	if cfg.Timeout() != 5*time.Second {
		t.Errorf("Expected Timeout 5s, got %v", cfg.Timeout())
	}
	if cfg.MaxAttempt() != 3 {
		t.Errorf("Expected MaxAttempt 3, got %d", cfg.MaxAttempt())
	}
}

// TestInitConfigWithHeaders tests that repeated --header flags are parsed
// into the request header map
func TestInitConfigWithHeaders(t *testing.T) {
	cmd.ResetFlags()
	cmd.SetHeadersForTest([]string{
		"Authorization: Bearer token-123",
		"X-Request-Source:crawler",
	})

	cfg, err := cmd.InitConfigWithError(defaultTestURL())
	if err != nil {
		t.Errorf("Unexpected error: %v", err)
	}

	headers := cfg.Headers()
	if headers["Authorization"] != "Bearer token-123" {
		t.Errorf("Expected Authorization header, got %q", headers["Authorization"])
	}
	if headers["X-Request-Source"] != "crawler" {
		t.Errorf("Expected X-Request-Source header, got %q", headers["X-Request-Source"])
	}
}

// TestInitConfigWithMalformedHeader tests that a header without a colon is rejected
func TestInitConfigWithMalformedHeader(t *testing.T) {
	cmd.ResetFlags()
	cmd.SetHeadersForTest([]string{"NotAHeader"})

	_, err := cmd.InitConfigWithError(defaultTestURL())
	if err == nil {
		t.Fatal("Expected error for malformed header, got nil")
	}
	if !errors.Is(err, config.ErrInvalidConfig) {
		t.Errorf("Expected ErrInvalidConfig, got: %v", err)
	}
}

// TestInitConfigWithPartialConfigFile tests loading config from a partial config file
func TestInitConfigWithPartialConfigFile(t *testing.T) {
	cmd.ResetFlags()

	tmpDir := t.TempDir()
	configFile := filepath.Join(tmpDir, "config.json")

	configContent := `{
		"seedUrl": "https://test-docs.com/docs",
		"maxDepth": 4,
		"maxPages": 75,
		"concurrency": 5,
		"includeSubdomains": true,
		"userAgent": "test-agent",
		"randomSeed": 123456789
	}`

	err := os.WriteFile(configFile, []byte(configContent), 0644)
	if err != nil {
		t.Fatalf("Failed to create test config file: %v", err)
	}

	cmd.SetConfigFileForTest(configFile)

	cfg, err := cmd.InitConfigWithError(defaultTestURL())
	if err != nil {
		t.Errorf("Unexpected error: %v", err)
	}

	if cfg.MaxDepth() != 4 {
		t.Errorf("Expected MaxDepth 4, got %d", cfg.MaxDepth())
	}
	if cfg.MaxPages() != 75 {
		t.Errorf("Expected MaxPages 75, got %d", cfg.MaxPages())
	}
	if cfg.Concurrency() != 5 {
		t.Errorf("Expected Concurrency 5, got %d", cfg.Concurrency())
	}
	if !cfg.IncludeSubdomains() {
		t.Errorf("Expected IncludeSubdomains true, got false")
	}
	if cfg.UserAgent() != "test-agent" {
		t.Errorf("Expected UserAgent 'test-agent', got %s", cfg.UserAgent())
	}
	if cfg.RandomSeed() != 123456789 {
		t.Errorf("Expected RandomSeed 123456789, got %d", cfg.RandomSeed())
	}
	// When using a config file, its seed URL is used
	seedUrl := cfg.SeedURL()
	if seedUrl.String() != "https://test-docs.com/docs" {
		t.Errorf("Expected SeedURL from config file, got %s", seedUrl.String())
	}

	// Fields absent from the file keep their defaults
	baseURL := url.URL{Scheme: "https", Host: "base.org"}
	defaultCfg, err := config.WithDefault(baseURL).Build()
	if err != nil {
		t.Errorf("should not have any error, got %v", err)
	}
	if cfg.BaseDelay() != defaultCfg.BaseDelay() {
		t.Errorf("Expected BaseDelay to use default, got %v", cfg.BaseDelay())
	}
	if cfg.Jitter() != defaultCfg.Jitter() {
		t.Errorf("Expected Jitter to use default, got %v", cfg.Jitter())
	}
	if cfg.Timeout() != defaultCfg.Timeout() {
		t.Errorf("Expected Timeout to use default, got %v", cfg.Timeout())
	}
}

// TestInitConfigWithConfigFileNoSeedUrl tests that a config file without a
// seed URL fails validation
func TestInitConfigWithConfigFileNoSeedUrl(t *testing.T) {
	cmd.ResetFlags()

	tmpDir := t.TempDir()
	configFile := filepath.Join(tmpDir, "config.json")

	configContent := `{
		"maxDepth": 4,
		"concurrency": 5
	}`

	err := os.WriteFile(configFile, []byte(configContent), 0644)
	if err != nil {
		t.Fatalf("Failed to create test config file: %v", err)
	}

	cmd.SetConfigFileForTest(configFile)

	_, err = cmd.InitConfigWithError(defaultTestURL())
	if err == nil {
		t.Fatal("Expected error for config file without seed URL, got nil")
	}
	if !errors.Is(err, config.ErrInvalidConfig) {
		t.Errorf("expected ErrInvalidConfig error, got: %v", err)
	}
}

// TestInitConfigWithNonExistentFile tests behavior when the config file doesn't exist
func TestInitConfigWithNonExistentFile(t *testing.T) {
	cmd.ResetFlags()

	cmd.SetConfigFileForTest("/path/that/does/not/exist/config.json")

	_, err := cmd.InitConfigWithError(defaultTestURL())
	if err == nil {
		t.Fatal("Expected error for non-existent config file, got none")
	}
	if !errors.Is(err, config.ErrFileDoesNotExist) {
		t.Errorf("expected ErrFileDoesNotExist error, got: %v", err)
	}
}

// TestInitConfigWithMalformedConfigFile tests behavior when the config file
// is not valid JSON
func TestInitConfigWithMalformedConfigFile(t *testing.T) {
	cmd.ResetFlags()

	tmpDir := t.TempDir()
	configFile := filepath.Join(tmpDir, "config.json")

	err := os.WriteFile(configFile, []byte(`{"seedUrl": `), 0644)
	if err != nil {
		t.Fatalf("Failed to create test config file: %v", err)
	}

	cmd.SetConfigFileForTest(configFile)

	_, err = cmd.InitConfigWithError(defaultTestURL())
	if err == nil {
		t.Fatal("Expected error for malformed config file, got none")
	}
	if !errors.Is(err, config.ErrConfigParsingFail) {
		t.Errorf("expected ErrConfigParsingFail error, got: %v", err)
	}
}
