// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

// Interval is one row of the unified RR-interval table. It describes the
// interval that ends at a beat: the beat's time, the distance to the beat
// before it, and the beat's annotation code.
type Interval struct {
	// TimeSec is the time of the later beat, in seconds from recording start.
	TimeSec float64 `json:"time_sec" yaml:"time_sec"`

	// RRms is the distance to the preceding beat in milliseconds.
	RRms float64 `json:"rr_ms" yaml:"rr_ms"`

	// Annotation is the single-character code of the later beat (e.g. "N", "V").
	Annotation string `json:"annotation" yaml:"annotation"`

	// RecordID identifies the source recording (e.g. "100").
	RecordID string `json:"record_id" yaml:"record_id"`
}

// FilterResult reports what the rarity filter kept and dropped.
type FilterResult struct {
	// Threshold is the minimum share of total rows a code needed to be kept.
	Threshold float64 `json:"threshold" yaml:"threshold"`

	// Kept lists the retained annotation codes, sorted.
	Kept []string `json:"kept" yaml:"kept"`

	// Dropped lists the removed annotation codes, sorted.
	Dropped []string `json:"dropped" yaml:"dropped"`

	// RowsBefore is the row count of the input table.
	RowsBefore int `json:"rows_before" yaml:"rows_before"`

	// RowsAfter is the row count of the filtered table.
	RowsAfter int `json:"rows_after" yaml:"rows_after"`
}

// RunSummary is written next to the CSV after a pipeline run.
type RunSummary struct {
	Records  []string     `json:"records" yaml:"records"`
	Filter   FilterResult `json:"filter" yaml:"filter"`
	CSVPath  string       `json:"csv_path" yaml:"csv_path"`
	Database string       `json:"database" yaml:"database"`
}
