package cmd

import (
	"context"
	"fmt"
	"net/url"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"linkscout/internal/config"
	"linkscout/internal/filter"
	"linkscout/internal/scheduler"
)

var (
	cfgFile           string
	seedURL           string
	maxDepth          int
	maxPages          int
	concurrency       int
	includeSubdomains bool
	allowDuplicates   bool
	renderJS          bool
	validateLinks     bool
	userAgent         string
	timeout           time.Duration
	baseDelay         time.Duration
	jitter            time.Duration
	randomSeed        int64
	maxAttempt        int
	headers           []string
	filterTypes       []string
	filterScope       string
)

// parseHeaders converts repeated "Name: Value" flags into a header map
func parseHeaders(raw []string) (map[string]string, error) {
	parsed := make(map[string]string, len(raw))
	for _, header := range raw {
		name, value, found := strings.Cut(header, ":")
		if !found {
			return nil, fmt.Errorf("malformed header %q, expected \"Name: Value\"", header)
		}
		parsed[strings.TrimSpace(name)] = strings.TrimSpace(value)
	}
	return parsed, nil
}

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "linkscout",
	Short: "A website crawler and link-extraction engine.",
	Long: `linkscout crawls a website breadth-first from a seed URL and extracts
every hyperlink it finds, classified by target type (page, image, document,
media, archive, code, api), domain relationship (internal, subdomain,
external), and the page region the link was discovered in (navigation,
header, footer, sidebar, breadcrumb, main content).

The crawl is polite by default: bounded concurrency, per-host delays, and
conservative depth and page limits.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		if seedURL == "" && len(args) > 0 {
			seedURL = args[0]
		}
		if seedURL == "" && cfgFile == "" {
			fmt.Fprintf(os.Stderr, "Error: a seed URL is required, either as an argument or via --config-file.\n")
			cmd.Usage()
			os.Exit(1)
		}

		cfg, err := InitConfigWithError(seedURL)
		if err != nil {
			return err
		}

		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		s := scheduler.NewScheduler(cfg)
		result, err := s.Run(ctx)
		if err != nil {
			return fmt.Errorf("crawl failed: %w", err)
		}

		printSummary(result)
		return nil
	},
	Args:          cobra.MaximumNArgs(1),
	SilenceUsage:  true,
	SilenceErrors: false,
}

func printSummary(result scheduler.CrawlResult) {
	links := result.Links
	if len(filterTypes) > 0 {
		links = filter.Apply(links, filter.ByTypeNames(filterTypes...))
	}
	if filterScope != "" {
		links = filter.Apply(links, filter.ByDomainScope(filter.DomainScope(filterScope)))
	}

	info := result.Info()
	fmt.Printf("Crawl of %s finished: %s\n", info.StartURL, result.State)
	if result.RenderDegraded {
		fmt.Println("Warning: JS rendering unavailable, some pages used the plain HTTP response")
	}
	fmt.Printf("Pages crawled: %d (max depth reached: %d)\n", info.PagesCrawled, info.MaxDepth)
	fmt.Printf("Links found: %d (%d file links)\n", info.TotalLinks, info.FilesFound)
	if len(result.Errors) > 0 {
		fmt.Printf("Page errors: %d\n", len(result.Errors))
		for _, pageErr := range result.Errors {
			fmt.Printf("  %s: %s\n", pageErr.URL, pageErr.Reason)
		}
	}

	for _, link := range links {
		scope := "external"
		if link.IsInternal {
			scope = "internal"
		} else if link.IsSubdomain {
			scope = "subdomain"
		}
		line := fmt.Sprintf("%s  [%s, %s, %s]", link.URL, link.Type, scope, link.Region)
		if link.Validation != nil {
			line += fmt.Sprintf("  status=%d reachable=%t", link.Validation.StatusCode, link.Validation.Reachable)
		}
		fmt.Println(line)
	}
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config-file", "", "config file path (e.g., /home/myuser/config.json)")
	rootCmd.PersistentFlags().StringVar(&seedURL, "url", "", "seed URL to start crawling from")
	rootCmd.PersistentFlags().IntVar(&maxDepth, "max-depth", -1, "maximum link depth from the seed URL (0 fetches only the seed page)")
	rootCmd.PersistentFlags().IntVar(&maxPages, "max-pages", 0, "maximum number of pages to fetch")
	rootCmd.PersistentFlags().IntVar(&concurrency, "concurrency", 0, "number of concurrent fetch workers")
	rootCmd.PersistentFlags().BoolVar(&includeSubdomains, "include-subdomains", false, "treat subdomains of the seed domain as internal")
	rootCmd.PersistentFlags().BoolVar(&allowDuplicates, "allow-duplicates", false, "keep repeat link discoveries, annotated with their first occurrence")
	rootCmd.PersistentFlags().BoolVar(&renderJS, "render-js", false, "render pages in a headless browser before extraction")
	rootCmd.PersistentFlags().BoolVar(&validateLinks, "validate", false, "probe discovered links for reachability after the crawl")
	rootCmd.PersistentFlags().StringVar(&userAgent, "user-agent", "", "user agent string for HTTP requests")
	rootCmd.PersistentFlags().DurationVar(&timeout, "timeout", 0, "timeout for a single HTTP request")
	rootCmd.PersistentFlags().DurationVar(&baseDelay, "base-delay", 0, "base delay between HTTP requests to the same host")
	rootCmd.PersistentFlags().DurationVar(&jitter, "jitter", 0, "random jitter added to base delay")
	rootCmd.PersistentFlags().Int64Var(&randomSeed, "random-seed", 0, "seed for random number generation (0 for current time)")
	rootCmd.PersistentFlags().IntVar(&maxAttempt, "max-attempt", 0, "number of fetch attempts per page before giving up")
	rootCmd.PersistentFlags().StringArrayVar(&headers, "header", []string{}, "extra request header as \"Name: Value\" (can be repeated)")
	rootCmd.PersistentFlags().StringArrayVar(&filterTypes, "type", []string{}, "only print links of these types or groups (page, image, media, files, ...)")
	rootCmd.PersistentFlags().StringVar(&filterScope, "scope", "", "only print links in this domain scope (internal, subdomain, external)")
}

// ResetFlags restores all flag variables to their defaults. Test helper.
func ResetFlags() {
	cfgFile = ""
	seedURL = ""
	maxDepth = -1
	maxPages = 0
	concurrency = 0
	includeSubdomains = false
	allowDuplicates = false
	renderJS = false
	validateLinks = false
	userAgent = ""
	timeout = 0
	baseDelay = 0
	jitter = 0
	randomSeed = 0
	maxAttempt = 0
	headers = nil
	filterTypes = nil
	filterScope = ""
}

// The Set*ForTest functions let tests drive InitConfigWithError without
// going through cobra flag parsing.

func SetConfigFileForTest(path string) {
	cfgFile = path
}

func SetMaxDepthForTest(depth int) {
	maxDepth = depth
}

func SetMaxPagesForTest(pages int) {
	maxPages = pages
}

func SetConcurrencyForTest(conc int) {
	concurrency = conc
}

func SetIncludeSubdomainsForTest(include bool) {
	includeSubdomains = include
}

func SetAllowDuplicatesForTest(allow bool) {
	allowDuplicates = allow
}

func SetRenderJSForTest(render bool) {
	renderJS = render
}

func SetValidateLinksForTest(validate bool) {
	validateLinks = validate
}

func SetUserAgentForTest(agent string) {
	userAgent = agent
}

func SetTimeoutForTest(t time.Duration) {
	timeout = t
}

func SetBaseDelayForTest(delay time.Duration) {
	baseDelay = delay
}

func SetJitterForTest(j time.Duration) {
	jitter = j
}

func SetRandomSeedForTest(seed int64) {
	randomSeed = seed
}

func SetMaxAttemptForTest(attempts int) {
	maxAttempt = attempts
}

func SetHeadersForTest(rawHeaders []string) {
	headers = rawHeaders
}

// InitConfigWithError builds the crawl config from the config file when
// given, otherwise from CLI flags layered over defaults.
func InitConfigWithError(seedRaw string) (config.Config, error) {
	if cfgFile != "" {
		cfg, err := config.WithConfigFile(cfgFile)
		if err != nil {
			return cfg, fmt.Errorf("error initializing config from file: %w", err)
		}
		return cfg, nil
	}

	parsedSeed, err := url.Parse(seedRaw)
	if err != nil {
		return config.Config{}, fmt.Errorf("%w: seed URL %q: %s", config.ErrInvalidConfig, seedRaw, err.Error())
	}

	configBuilder := config.WithDefault(*parsedSeed).
		WithIncludeSubdomains(includeSubdomains).
		WithAllowDuplicates(allowDuplicates).
		WithRenderJS(renderJS).
		WithValidateLinks(validateLinks)

	// Override defaults only where a flag was actually set. Depth 0 is a
	// valid setting (seed page only), so its unset sentinel is -1.
	if maxDepth >= 0 {
		configBuilder = configBuilder.WithMaxDepth(maxDepth)
	}
	if maxPages > 0 {
		configBuilder = configBuilder.WithMaxPages(maxPages)
	}
	if concurrency > 0 {
		configBuilder = configBuilder.WithConcurrency(concurrency)
	}
	if userAgent != "" {
		configBuilder = configBuilder.WithUserAgent(userAgent)
	}
	if timeout > 0 {
		configBuilder = configBuilder.WithTimeout(timeout)
	}
	if baseDelay > 0 {
		configBuilder = configBuilder.WithBaseDelay(baseDelay)
	}
	if jitter > 0 {
		configBuilder = configBuilder.WithJitter(jitter)
	}
	if randomSeed != 0 {
		configBuilder = configBuilder.WithRandomSeed(randomSeed)
	}
	if maxAttempt > 0 {
		configBuilder = configBuilder.WithMaxAttempt(maxAttempt)
	}
	if len(headers) > 0 {
		parsedHeaders, err := parseHeaders(headers)
		if err != nil {
			return config.Config{}, fmt.Errorf("%w: %s", config.ErrInvalidConfig, err.Error())
		}
		configBuilder = configBuilder.WithHeaders(parsedHeaders)
	}

	return configBuilder.Build()
}
