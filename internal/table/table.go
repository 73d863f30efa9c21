// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package table persists interval tables as CSV with a fixed column schema.
package table

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"

	"github.com/borngreat26/DSC106-ClusterFunks2/pkg/types"
)

// Columns is the fixed header of the persisted table.
var Columns = []string{"time_sec", "rr_ms", "annotation", "record_id"}

// ErrHeader is returned when a file does not start with Columns.
var ErrHeader = errors.New("unexpected table header")

// Write serializes rows as CSV. Floats use the shortest decimal form that
// parses back to the same value.
func Write(w io.Writer, rows []types.Interval) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(Columns); err != nil {
		return err
	}
	rec := make([]string, len(Columns))
	for _, r := range rows {
		rec[0] = formatFloat(r.TimeSec)
		rec[1] = formatFloat(r.RRms)
		rec[2] = r.Annotation
		rec[3] = r.RecordID
		if err := cw.Write(rec); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// WriteFile writes rows to path through a temporary file in the same
// directory, renamed into place on success.
func WriteFile(path string, rows []types.Interval) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating directory %s: %w", dir, err)
	}

	tmp, err := os.CreateTemp(dir, ".table-*.tmp")
	if err != nil {
		return fmt.Errorf("creating temp file: %w", err)
	}
	tmpPath := tmp.Name()

	writeErr := Write(tmp, rows)
	closeErr := tmp.Close()
	if writeErr != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("writing %s: %w", path, writeErr)
	}
	if closeErr != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("closing temp file: %w", closeErr)
	}
	if err := os.Rename(tmpPath, path); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("renaming temp file: %w", err)
	}
	return nil
}

// Read parses a table written by Write. Errors name the offending line.
func Read(r io.Reader) ([]types.Interval, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = len(Columns)
	cr.ReuseRecord = true

	header, err := cr.Read()
	if err == io.EOF {
		return nil, fmt.Errorf("%w: empty input", ErrHeader)
	}
	if err != nil {
		return nil, fmt.Errorf("reading header: %w", err)
	}
	for i, col := range Columns {
		if header[i] != col {
			return nil, fmt.Errorf("%w: column %d is %q, want %q", ErrHeader, i+1, header[i], col)
		}
	}

	var rows []types.Interval
	for line := 2; ; line++ {
		rec, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("reading line %d: %w", line, err)
		}
		t, err := strconv.ParseFloat(rec[0], 64)
		if err != nil {
			return nil, fmt.Errorf("line %d: time_sec: %w", line, err)
		}
		rr, err := strconv.ParseFloat(rec[1], 64)
		if err != nil {
			return nil, fmt.Errorf("line %d: rr_ms: %w", line, err)
		}
		rows = append(rows, types.Interval{
			TimeSec:    t,
			RRms:       rr,
			Annotation: rec[2],
			RecordID:   rec[3],
		})
	}
	return rows, nil
}

// ReadFile reads the table at path.
func ReadFile(path string) ([]types.Interval, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening table: %w", err)
	}
	defer f.Close()

	rows, err := Read(f)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	return rows, nil
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
