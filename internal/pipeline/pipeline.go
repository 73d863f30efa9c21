// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package pipeline runs the preprocessing stages in order: fetch records,
// derive and aggregate intervals, drop rare codes, and persist the table.
package pipeline

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"sort"
	"time"

	"go.yaml.in/yaml/v3"

	"github.com/borngreat26/DSC106-ClusterFunks2/internal/fetch"
	"github.com/borngreat26/DSC106-ClusterFunks2/internal/logger"
	"github.com/borngreat26/DSC106-ClusterFunks2/internal/rarity"
	"github.com/borngreat26/DSC106-ClusterFunks2/internal/rr"
	"github.com/borngreat26/DSC106-ClusterFunks2/internal/table"
	"github.com/borngreat26/DSC106-ClusterFunks2/pkg/types"
)

// Run executes one preprocessing run. Progress text goes to w. Stages run
// sequentially and the first error aborts the run; nothing is persisted
// unless every record was fetched and parsed.
func Run(ctx context.Context, cfg types.PipelineConfig, client *http.Client, w io.Writer, log *logger.Logger) (types.RunSummary, error) {
	if w == nil {
		w = io.Discard
	}
	if log == nil {
		log = logger.NewNop()
	}
	start := time.Now()

	fetcher := fetch.New(client, cfg, w, log)
	if _, err := fetcher.FetchAll(ctx, cfg.Records); err != nil {
		return types.RunSummary{}, fmt.Errorf("fetching records: %w", err)
	}

	rows, err := rr.NewExtractor(cfg, log).ExtractAll(ctx, cfg.Records)
	if err != nil {
		return types.RunSummary{}, fmt.Errorf("extracting intervals: %w", err)
	}

	records := rr.RecordIDs(rows)
	sort.Strings(records)
	fmt.Fprintf(w, "Pulled records: %v\n", records)
	fmt.Fprintf(w, "Unique beat types: %v\n", sortedCodes(rows))

	kept, result := rarity.Filter(rows, cfg.Filter.MinFrequency)
	fmt.Fprintf(w, "Kept codes (share >= %g): %v\n", result.Threshold, result.Kept)
	if len(result.Dropped) > 0 {
		fmt.Fprintf(w, "Dropped codes: %v\n", result.Dropped)
	}
	fmt.Fprintf(w, "Rows before filter: %d, after: %d\n", result.RowsBefore, result.RowsAfter)

	if err := table.WriteFile(cfg.Output.CSVPath, kept); err != nil {
		return types.RunSummary{}, fmt.Errorf("writing %s: %w", cfg.Output.CSVPath, err)
	}
	fmt.Fprintf(w, "Saved %s with %d rows\n", cfg.Output.CSVPath, len(kept))

	summary := types.RunSummary{
		Records: append([]string(nil), cfg.Records...),
		Filter:  result,
		CSVPath: cfg.Output.CSVPath,
	}
	if cfg.Output.SummaryPath != "" {
		if err := WriteSummary(cfg.Output.SummaryPath, summary); err != nil {
			return summary, err
		}
	}

	log.WithStage("preprocess").Infow("preprocess complete",
		"records", len(cfg.Records), "rows", len(kept), "elapsed", time.Since(start))
	return summary, nil
}

// WriteSummary writes s as YAML to path.
func WriteSummary(path string, s types.RunSummary) error {
	data, err := yaml.Marshal(&s)
	if err != nil {
		return fmt.Errorf("marshaling run summary: %w", err)
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("creating directory %s: %w", dir, err)
		}
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}
	return nil
}

// ReadSummary loads a run summary written by WriteSummary.
func ReadSummary(path string) (types.RunSummary, error) {
	var s types.RunSummary
	data, err := os.ReadFile(path)
	if err != nil {
		return s, fmt.Errorf("reading %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, &s); err != nil {
		return s, fmt.Errorf("parsing %s: %w", path, err)
	}
	return s, nil
}

func sortedCodes(rows []types.Interval) []string {
	counts := rarity.Counts(rows)
	codes := make([]string, 0, len(counts))
	for c := range counts {
		codes = append(codes, c)
	}
	sort.Strings(codes)
	return codes
}
