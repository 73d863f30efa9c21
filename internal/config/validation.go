// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package config

import (
	"fmt"
	"strings"

	"github.com/borngreat26/DSC106-ClusterFunks2/pkg/types"
)

// ValidationError represents a configuration validation error.
type ValidationError struct {
	Field   string
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// ValidationErrors is a collection of validation errors.
type ValidationErrors []ValidationError

func (e ValidationErrors) Error() string {
	if len(e) == 0 {
		return ""
	}
	var msgs []string
	for _, err := range e {
		msgs = append(msgs, err.Error())
	}
	return fmt.Sprintf("validation failed:\n  - %s", strings.Join(msgs, "\n  - "))
}

// Validate checks the configuration for required fields and valid values.
// All problems are collected and returned together.
func Validate(cfg types.PipelineConfig) error {
	var errs ValidationErrors
	add := func(field, msg string) {
		errs = append(errs, ValidationError{Field: field, Message: msg})
	}

	if len(cfg.Records) == 0 {
		add("records", "at least one record must be listed")
	}
	seen := make(map[string]bool, len(cfg.Records))
	for _, r := range cfg.Records {
		switch {
		case strings.TrimSpace(r) == "":
			add("records", "record identifiers must not be empty")
		case seen[r]:
			add("records", fmt.Sprintf("duplicate record %q", r))
		}
		seen[r] = true
	}

	if cfg.DataDir == "" {
		add("data_dir", "is required")
	}
	if cfg.Annotator == "" {
		add("annotator", "is required")
	}

	if cfg.Fetch.Timeout < 0 {
		add("fetch.timeout", "must not be negative")
	}
	if cfg.Fetch.MaxRetries < 0 {
		add("fetch.max_retries", "must not be negative")
	}
	if cfg.Fetch.DownloadDelay < 0 {
		add("fetch.download_delay", "must not be negative")
	}
	if cfg.Fetch.BaseURL == "" {
		add("fetch.base_url", "is required")
	}

	if cfg.Filter.MinFrequency < 0 || cfg.Filter.MinFrequency > 1 {
		add("filter.min_frequency", fmt.Sprintf("must be within [0, 1], got %g", cfg.Filter.MinFrequency))
	}

	if cfg.Output.CSVPath == "" {
		add("output.csv_path", "is required")
	}

	if cfg.Plot.Bins <= 0 {
		add("plot.bins", "must be positive")
	}
	if cfg.Plot.Width <= 0 || cfg.Plot.Height <= 0 {
		add("plot.width/height", "must be positive")
	}

	if cfg.Ectopy.Symbol == "" {
		add("ectopy.symbol", "is required")
	}
	if cfg.Ectopy.RunLength < 2 {
		add("ectopy.run_length", "must be at least 2")
	}

	switch cfg.Logging.Format {
	case "", "text", "json":
	default:
		add("logging.format", fmt.Sprintf("unknown format %q (want text or json)", cfg.Logging.Format))
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}
