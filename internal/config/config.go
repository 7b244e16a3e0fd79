package config

import (
	"encoding/json"
	"fmt"
	"net/url"
	"os"
	"time"
)

type Config struct {
	//===============
	//  Crawl scope
	//===============
	// Page the crawl starts from. Depth 0.
	seedURL url.URL
	// Whether subdomains of the seed's registrable domain count as
	// internal and may be crawled
	includeSubdomains bool

	//===============
	// Limits
	//===============
	// Maximum number of hyperlink hops from the seed URL.
	// Zero means only the seed page itself is fetched.
	maxDepth int
	// Maximum number of total pages allowed to be fetched
	maxPages int

	//===============
	// Politeness
	//===============
	// Maximum number of crawl worker goroutines processing URLs concurrently;
	// it does not control OS threads or CPU parallelism.
	concurrency int
	// Minimum, fixed waiting time enforced between two HTTP requests to the same host.
	baseDelay time.Duration
	// Randomized variation added on top of the base delay.
	jitter time.Duration
	// Controls the random number generator
	randomSeed int64
	// maximum attempt during retry
	maxAttempt int
	// initial delay for backoff
	backoffInitialDuration time.Duration
	// multiplier during exponential backoff
	backoffMultiplier float64
	// capped maximum delay for backoff to stop exponential multiplication
	backoffMaxDuration time.Duration

	//===============
	// Fetch
	//===============
	// Maximum time of a single fetch request
	timeout time.Duration
	// User agent that will be used in the request header. In raw string
	userAgent string
	// Extra headers applied to every request, on top of the defaults
	headers map[string]string
	// Whether pages are rendered in a headless browser before extraction
	renderJS bool

	//===============
	// Extraction
	//===============
	// Whether repeat discoveries of a URL stay in the link list
	// (annotated) instead of being dropped
	allowDuplicates bool
	// Whether discovered links are probed for reachability after the crawl
	validateLinks bool
}

type configDTO struct {
	SeedURL           string            `json:"seedUrl"`
	IncludeSubdomains bool              `json:"includeSubdomains,omitempty"`
	MaxDepth          *int              `json:"maxDepth,omitempty"`
	MaxPages          int               `json:"maxPages,omitempty"`
	Concurrency       int               `json:"concurrency,omitempty"`
	BaseDelay         time.Duration     `json:"baseDelay,omitempty"`
	Jitter            time.Duration     `json:"jitter,omitempty"`
	RandomSeed        int64             `json:"randomSeed,omitempty"`
	MaxAttempt        int               `json:"maxAttempt,omitempty"`
	BackoffInitial    time.Duration     `json:"backoffInitialDuration,omitempty"`
	BackoffMultiplier float64           `json:"backoffMultiplier,omitempty"`
	BackoffMax        time.Duration     `json:"backoffMaxDuration,omitempty"`
	Timeout           time.Duration     `json:"timeout,omitempty"`
	UserAgent         string            `json:"userAgent,omitempty"`
	Headers           map[string]string `json:"headers,omitempty"`
	RenderJS          bool              `json:"renderJs,omitempty"`
	AllowDuplicates   bool              `json:"allowDuplicates,omitempty"`
	ValidateLinks     bool              `json:"validateLinks,omitempty"`
}

func newConfigFromDTO(dto configDTO) (Config, error) {
	seedUrl, err := url.Parse(dto.SeedURL)
	if err != nil {
		return Config{}, fmt.Errorf("%w: seedUrl is not a valid URL: %s", ErrInvalidConfig, err.Error())
	}

	cfg := WithDefault(*seedUrl)

	// Booleans are taken as-is; other fields only override when set
	cfg.includeSubdomains = dto.IncludeSubdomains
	cfg.renderJS = dto.RenderJS
	cfg.allowDuplicates = dto.AllowDuplicates
	cfg.validateLinks = dto.ValidateLinks

	// maxDepth 0 is a valid setting (seed page only), so absence is
	// distinguished from zero via the pointer
	if dto.MaxDepth != nil {
		cfg.maxDepth = *dto.MaxDepth
	}
	if dto.MaxPages != 0 {
		cfg.maxPages = dto.MaxPages
	}
	if dto.Concurrency != 0 {
		cfg.concurrency = dto.Concurrency
	}
	if dto.BaseDelay != 0 {
		cfg.baseDelay = dto.BaseDelay
	}
	if dto.Jitter != 0 {
		cfg.jitter = dto.Jitter
	}
	if dto.RandomSeed != 0 {
		cfg.randomSeed = dto.RandomSeed
	}
	if dto.MaxAttempt != 0 {
		cfg.maxAttempt = dto.MaxAttempt
	}
	if dto.BackoffInitial != 0 {
		cfg.backoffInitialDuration = dto.BackoffInitial
	}
	if dto.BackoffMultiplier != 0 {
		cfg.backoffMultiplier = dto.BackoffMultiplier
	}
	if dto.BackoffMax != 0 {
		cfg.backoffMaxDuration = dto.BackoffMax
	}
	if dto.Timeout != 0 {
		cfg.timeout = dto.Timeout
	}
	if dto.UserAgent != "" {
		cfg.userAgent = dto.UserAgent
	}
	if len(dto.Headers) > 0 {
		cfg.headers = dto.Headers
	}

	return cfg.Build()
}

func WithConfigFile(path string) (Config, error) {
	_, err := os.Stat(path)
	if err != nil {
		return Config{}, fmt.Errorf("%w: %s", ErrFileDoesNotExist, err.Error())
	}
	configContent, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("%w: %s", ErrReadConfigFail, err.Error())
	}

	cfgDTO := configDTO{}
	err = json.Unmarshal(configContent, &cfgDTO)
	if err != nil {
		return Config{}, fmt.Errorf("%w: %s", ErrConfigParsingFail, err.Error())
	}

	return newConfigFromDTO(cfgDTO)
}

// WithDefault creates a new Config with the provided seed URL and
// conservative default values for all other fields.
func WithDefault(seedUrl url.URL) *Config {
	defaultConfig := Config{
		seedURL:                seedUrl,
		includeSubdomains:      false,
		maxDepth:               2,
		maxPages:               50,
		concurrency:            3,
		baseDelay:              time.Second,
		jitter:                 time.Millisecond * 500,
		randomSeed:             time.Now().UnixNano(),
		maxAttempt:             1,
		backoffInitialDuration: 100 * time.Millisecond,
		backoffMultiplier:      2.0,
		backoffMaxDuration:     10 * time.Second,
		timeout:                time.Second * 30,
		userAgent:              "linkscout/1.0",
		headers:                map[string]string{},
		renderJS:               false,
		allowDuplicates:        false,
		validateLinks:          false,
	}
	return &defaultConfig
}

func (c *Config) WithSeedUrl(seedUrl url.URL) *Config {
	c.seedURL = seedUrl
	return c
}

func (c *Config) WithIncludeSubdomains(include bool) *Config {
	c.includeSubdomains = include
	return c
}

func (c *Config) WithMaxDepth(depth int) *Config {
	c.maxDepth = depth
	return c
}

func (c *Config) WithMaxPages(pages int) *Config {
	c.maxPages = pages
	return c
}

func (c *Config) WithConcurrency(concurrency int) *Config {
	c.concurrency = concurrency
	return c
}

func (c *Config) WithBaseDelay(delay time.Duration) *Config {
	c.baseDelay = delay
	return c
}

func (c *Config) WithJitter(jitter time.Duration) *Config {
	c.jitter = jitter
	return c
}

func (c *Config) WithRandomSeed(seed int64) *Config {
	c.randomSeed = seed
	return c
}

func (c *Config) WithMaxAttempt(attempts int) *Config {
	c.maxAttempt = attempts
	return c
}

func (c *Config) WithBackoffInitialDuration(duration time.Duration) *Config {
	c.backoffInitialDuration = duration
	return c
}

func (c *Config) WithBackoffMultiplier(multiplier float64) *Config {
	c.backoffMultiplier = multiplier
	return c
}

func (c *Config) WithBackoffMaxDuration(duration time.Duration) *Config {
	c.backoffMaxDuration = duration
	return c
}

func (c *Config) WithTimeout(timeout time.Duration) *Config {
	c.timeout = timeout
	return c
}

func (c *Config) WithUserAgent(agent string) *Config {
	c.userAgent = agent
	return c
}

func (c *Config) WithHeaders(headers map[string]string) *Config {
	c.headers = headers
	return c
}

func (c *Config) WithRenderJS(render bool) *Config {
	c.renderJS = render
	return c
}

func (c *Config) WithAllowDuplicates(allow bool) *Config {
	c.allowDuplicates = allow
	return c
}

func (c *Config) WithValidateLinks(validate bool) *Config {
	c.validateLinks = validate
	return c
}

func (c *Config) Build() (Config, error) {
	if c.seedURL.Scheme == "" || c.seedURL.Host == "" {
		return Config{}, &ConfigError{Message: "seed URL must be absolute with scheme and host"}
	}
	if c.seedURL.Scheme != "http" && c.seedURL.Scheme != "https" {
		return Config{}, &ConfigError{Message: fmt.Sprintf("seed URL scheme %q is not crawlable", c.seedURL.Scheme)}
	}
	if c.maxDepth < 0 {
		return Config{}, &ConfigError{Message: "maxDepth cannot be negative"}
	}
	if c.maxPages <= 0 {
		return Config{}, &ConfigError{Message: "maxPages must be positive"}
	}
	if c.concurrency <= 0 {
		return Config{}, &ConfigError{Message: "concurrency must be positive"}
	}
	if c.maxAttempt <= 0 {
		return Config{}, &ConfigError{Message: "maxAttempt must be positive"}
	}

	return *c, nil
}

func (c Config) SeedURL() url.URL {
	return c.seedURL
}

func (c Config) IncludeSubdomains() bool {
	return c.includeSubdomains
}

func (c Config) MaxDepth() int {
	return c.maxDepth
}

func (c Config) MaxPages() int {
	return c.maxPages
}

func (c Config) Concurrency() int {
	return c.concurrency
}

func (c Config) BaseDelay() time.Duration {
	return c.baseDelay
}

func (c Config) Jitter() time.Duration {
	return c.jitter
}

func (c Config) RandomSeed() int64 {
	return c.randomSeed
}

func (c Config) MaxAttempt() int {
	return c.maxAttempt
}

func (c Config) BackoffInitialDuration() time.Duration {
	return c.backoffInitialDuration
}

func (c Config) BackoffMultiplier() float64 {
	return c.backoffMultiplier
}

func (c Config) BackoffMaxDuration() time.Duration {
	return c.backoffMaxDuration
}

func (c Config) Timeout() time.Duration {
	return c.timeout
}

func (c Config) UserAgent() string {
	return c.userAgent
}

func (c Config) Headers() map[string]string {
	headers := make(map[string]string, len(c.headers))
	for k, v := range c.headers {
		headers[k] = v
	}
	return headers
}

func (c Config) RenderJS() bool {
	return c.renderJS
}

func (c Config) AllowDuplicates() bool {
	return c.allowDuplicates
}

func (c Config) ValidateLinks() bool {
	return c.validateLinks
}
