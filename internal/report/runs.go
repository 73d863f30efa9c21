// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package report

import "github.com/borngreat26/DSC106-ClusterFunks2/pkg/types"

// Run is a maximal sequence of consecutive rows in one record that share
// an annotation code.
type Run struct {
	RecordID string  `json:"record_id"`
	Start    float64 `json:"start_sec"`
	End      float64 `json:"end_sec"`
	Length   int     `json:"length"`
}

// Runs finds maximal runs of at least minLength consecutive rows annotated
// symbol. Runs never span a record boundary.
func Runs(rows []types.Interval, symbol string, minLength int) []Run {
	var runs []Run
	start := -1
	flush := func(end int) {
		if start >= 0 && end-start >= minLength {
			runs = append(runs, Run{
				RecordID: rows[start].RecordID,
				Start:    rows[start].TimeSec,
				End:      rows[end-1].TimeSec,
				Length:   end - start,
			})
		}
		start = -1
	}

	for i, r := range rows {
		if start >= 0 && r.RecordID != rows[start].RecordID {
			flush(i)
		}
		if r.Annotation == symbol {
			if start < 0 {
				start = i
			}
			continue
		}
		flush(i)
	}
	flush(len(rows))
	return runs
}
