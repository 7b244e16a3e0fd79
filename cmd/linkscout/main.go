// Package main provides the entry point for the linkscout CLI.
//
// linkscout crawls a website breadth-first from a seed URL and reports every
// hyperlink it finds, classified by type, domain relationship, and the page
// region it was discovered in.
//
// Usage:
//
//	linkscout https://example.com --max-depth 2
//	linkscout --config-file crawl.json
//
// See --help for all available options.
package main

import (
	cmd "linkscout/internal/cli"
)

func main() {
	cmd.Execute()
}
