package config

import (
	"errors"
	"fmt"

	"linkscout/pkg/failure"
)

var ErrFileDoesNotExist = errors.New("config file does not exist")
var ErrReadConfigFail = errors.New("failed to read config file")
var ErrConfigParsingFail = errors.New("failed to parse config file")
var ErrInvalidConfig = errors.New("invalid config")

// ConfigError wraps a validation failure. Config problems always abort
// the crawl before any fetching starts.
type ConfigError struct {
	Message string
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("config error: %s", e.Message)
}

func (e *ConfigError) Severity() failure.Severity {
	return failure.SeverityFatal
}

// Unwrap lets callers match any validation failure against the
// ErrInvalidConfig sentinel with errors.Is.
func (e *ConfigError) Unwrap() error {
	return ErrInvalidConfig
}
