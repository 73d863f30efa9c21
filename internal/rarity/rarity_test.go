// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package rarity

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/borngreat26/DSC106-ClusterFunks2/pkg/types"
)

// table builds rows with the given code counts, interleaved so that order
// preservation is observable.
func table(counts map[string]int, order []string) []types.Interval {
	var rows []types.Interval
	remaining := make(map[string]int, len(counts))
	for k, v := range counts {
		remaining[k] = v
	}
	i := 0
	for {
		added := false
		for _, code := range order {
			if remaining[code] == 0 {
				continue
			}
			remaining[code]--
			rows = append(rows, types.Interval{TimeSec: float64(i), RRms: 800, Annotation: code, RecordID: "100"})
			i++
			added = true
		}
		if !added {
			return rows
		}
	}
}

func TestFilter_ThresholdExample(t *testing.T) {
	rows := table(map[string]int{"N": 9970, "V": 20, "A": 9, "X": 1}, []string{"N", "V", "A", "X"})
	require.Len(t, rows, 10000)

	out, res := Filter(rows, 0.001)

	assert.Equal(t, []string{"N", "V"}, res.Kept)
	assert.Equal(t, []string{"A", "X"}, res.Dropped)
	assert.Equal(t, 10000, res.RowsBefore)
	assert.Equal(t, 9990, res.RowsAfter)
	assert.Len(t, out, 9990)
	assert.Equal(t, 0.001, res.Threshold)
}

func TestFilter_PreservesOrder(t *testing.T) {
	rows := table(map[string]int{"N": 8, "V": 3, "A": 1}, []string{"N", "V", "A"})
	out, _ := Filter(rows, 0.2)

	var want []types.Interval
	for _, r := range rows {
		if r.Annotation != "A" {
			want = append(want, r)
		}
	}
	assert.Equal(t, want, out)
}

func TestFilter_Idempotent(t *testing.T) {
	rows := table(map[string]int{"N": 900, "V": 60, "A": 30, "~": 6, "|": 4}, []string{"N", "V", "A", "~", "|"})
	for _, th := range []float64{0, 0.001, 0.005, 0.05, 0.5, 1} {
		once, _ := Filter(rows, th)
		twice, res := Filter(once, th)
		assert.Equal(t, once, twice, "threshold %g", th)
		assert.Empty(t, res.Dropped, "threshold %g", th)
	}
}

func TestFilter_ZeroThresholdKeepsAll(t *testing.T) {
	rows := table(map[string]int{"N": 999, "X": 1}, []string{"N", "X"})
	out, res := Filter(rows, 0)
	assert.Equal(t, rows, out)
	assert.Equal(t, []string{"N", "X"}, res.Kept)
	assert.Empty(t, res.Dropped)
}

func TestFilter_SingleCode(t *testing.T) {
	rows := table(map[string]int{"N": 5}, []string{"N"})

	out, res := Filter(rows, 1)
	assert.Len(t, out, 5)
	assert.Equal(t, []string{"N"}, res.Kept)

	out, res = Filter(rows, 0.5)
	assert.Len(t, out, 5)
	assert.Equal(t, 5, res.RowsAfter)
}

func TestFilter_ExactBoundaryIsKept(t *testing.T) {
	rows := table(map[string]int{"N": 999, "V": 1}, []string{"N", "V"})
	_, res := Filter(rows, 0.001)
	assert.Equal(t, []string{"N", "V"}, res.Kept)
}

func TestFilter_Empty(t *testing.T) {
	out, res := Filter(nil, 0.001)
	assert.Empty(t, out)
	assert.Equal(t, 0, res.RowsBefore)
	assert.Equal(t, 0, res.RowsAfter)
	assert.Empty(t, res.Kept)
}

func TestCounts(t *testing.T) {
	rows := table(map[string]int{"N": 3, "V": 2}, []string{"N", "V"})
	assert.Equal(t, map[string]int{"N": 3, "V": 2}, Counts(rows))
}
