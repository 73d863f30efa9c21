// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package rarity drops rows whose annotation code is too rare to analyse.
package rarity

import (
	"sort"

	"github.com/borngreat26/DSC106-ClusterFunks2/pkg/types"
)

// Counts returns the number of rows per annotation code.
func Counts(rows []types.Interval) map[string]int {
	counts := make(map[string]int)
	for _, r := range rows {
		counts[r.Annotation]++
	}
	return counts
}

// Filter keeps the rows whose annotation code makes up at least threshold
// of all rows, preserving row order. Filtering the result again with the
// same threshold returns it unchanged.
func Filter(rows []types.Interval, threshold float64) ([]types.Interval, types.FilterResult) {
	res := types.FilterResult{
		Threshold:  threshold,
		RowsBefore: len(rows),
		Kept:       []string{},
		Dropped:    []string{},
	}
	if len(rows) == 0 {
		return []types.Interval{}, res
	}

	total := float64(len(rows))
	keep := make(map[string]bool)
	for code, n := range Counts(rows) {
		if float64(n)/total >= threshold {
			keep[code] = true
			res.Kept = append(res.Kept, code)
		} else {
			res.Dropped = append(res.Dropped, code)
		}
	}
	sort.Strings(res.Kept)
	sort.Strings(res.Dropped)

	out := make([]types.Interval, 0, len(rows))
	for _, r := range rows {
		if keep[r.Annotation] {
			out = append(out, r)
		}
	}
	res.RowsAfter = len(out)
	return out, res
}
