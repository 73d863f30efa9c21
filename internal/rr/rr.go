// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package rr derives RR-interval tables from annotated records.
package rr

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/borngreat26/DSC106-ClusterFunks2/internal/logger"
	"github.com/borngreat26/DSC106-ClusterFunks2/internal/wfdb"
	"github.com/borngreat26/DSC106-ClusterFunks2/pkg/types"
)

// Intervals converts annotation sample indices to interval rows. Sample i
// is at samples[i]/fs seconds; row i-1 holds the distance from beat i-1 to
// beat i in milliseconds and the symbol of beat i. Fewer than two samples
// yield no rows.
func Intervals(recordID string, samples []int64, symbols []string, fs float64) ([]types.Interval, error) {
	if len(samples) != len(symbols) {
		return nil, fmt.Errorf("record %s: %d samples but %d symbols", recordID, len(samples), len(symbols))
	}
	if fs <= 0 {
		return nil, fmt.Errorf("record %s: sampling frequency must be positive, got %g", recordID, fs)
	}
	if len(samples) < 2 {
		return nil, nil
	}

	rows := make([]types.Interval, 0, len(samples)-1)
	prev := float64(samples[0]) / fs
	for i := 1; i < len(samples); i++ {
		t := float64(samples[i]) / fs
		rows = append(rows, types.Interval{
			TimeSec:    t,
			RRms:       (t - prev) * 1000.0,
			Annotation: symbols[i],
			RecordID:   recordID,
		})
		prev = t
	}
	return rows, nil
}

// Extractor reads records from a local WFDB directory.
type Extractor struct {
	DataDir   string
	Annotator string
	Log       *logger.Logger
}

// NewExtractor returns an Extractor for cfg's data directory and annotator.
func NewExtractor(cfg types.PipelineConfig, log *logger.Logger) *Extractor {
	if log == nil {
		log = logger.NewNop()
	}
	return &Extractor{DataDir: cfg.DataDir, Annotator: cfg.Annotator, Log: log.WithStage("extract")}
}

// Extract returns the interval rows of one record. Every annotation is used
// as-is, so an interval is attributed to whatever annotation ends it.
func (e *Extractor) Extract(recordID string) ([]types.Interval, error) {
	base := filepath.Join(e.DataDir, recordID)

	hdr, err := wfdb.ReadHeaderFile(base + ".hea")
	if err != nil {
		return nil, fmt.Errorf("record %s: %w", recordID, err)
	}
	for _, name := range hdr.SignalFiles() {
		if _, err := os.Stat(filepath.Join(e.DataDir, name)); err != nil {
			return nil, fmt.Errorf("record %s: waveform file: %w", recordID, err)
		}
	}

	af, err := wfdb.ReadAnnotationFile(base + "." + e.Annotator)
	if err != nil {
		return nil, fmt.Errorf("record %s: %w", recordID, err)
	}

	fs := hdr.SamplingFrequency
	if af.TimeResolution > 0 {
		fs = af.TimeResolution
	}

	samples := make([]int64, len(af.Annotations))
	symbols := make([]string, len(af.Annotations))
	for i, a := range af.Annotations {
		samples[i] = a.Sample
		symbols[i] = a.Symbol
	}

	rows, err := Intervals(recordID, samples, symbols, fs)
	if err != nil {
		return nil, err
	}
	e.Log.WithRecord(recordID).Debugw("extracted intervals",
		"fs", fs, "annotations", len(samples), "rows", len(rows))
	return rows, nil
}

// ExtractAll extracts every record in order and concatenates the results.
// The first failing record aborts the run.
func (e *Extractor) ExtractAll(ctx context.Context, records []string) ([]types.Interval, error) {
	perRecord := make([][]types.Interval, 0, len(records))
	for _, id := range records {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		rows, err := e.Extract(id)
		if err != nil {
			return nil, err
		}
		perRecord = append(perRecord, rows)
	}
	return Aggregate(perRecord), nil
}

// Aggregate concatenates per-record tables in input order without
// re-sorting. The result has exactly the sum of the input row counts.
func Aggregate(tables [][]types.Interval) []types.Interval {
	total := 0
	for _, t := range tables {
		total += len(t)
	}
	out := make([]types.Interval, 0, total)
	for _, t := range tables {
		out = append(out, t...)
	}
	return out
}

// RecordIDs returns the distinct record ids of rows in first-seen order.
func RecordIDs(rows []types.Interval) []string {
	seen := make(map[string]bool)
	var ids []string
	for _, r := range rows {
		if !seen[r.RecordID] {
			seen[r.RecordID] = true
			ids = append(ids, r.RecordID)
		}
	}
	return ids
}
