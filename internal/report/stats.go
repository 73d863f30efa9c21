// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package report

import (
	"math"
	"sort"

	"gonum.org/v1/gonum/stat"

	"github.com/borngreat26/DSC106-ClusterFunks2/pkg/types"
)

// AllCodes labels the summary computed over every row.
const AllCodes = "all"

// Summary holds descriptive statistics of rr_ms for one code.
type Summary struct {
	Code   string  `json:"code"`
	Count  int     `json:"count"`
	Mean   float64 `json:"mean"`
	Std    float64 `json:"std"`
	Min    float64 `json:"min"`
	P25    float64 `json:"p25"`
	Median float64 `json:"median"`
	P75    float64 `json:"p75"`
	Max    float64 `json:"max"`
}

// Describe returns one Summary per code, most frequent first, followed by
// a summary over all rows. The standard deviation is the sample standard
// deviation and is NaN for fewer than two values.
func Describe(rows []types.Interval) []Summary {
	byCode := make(map[string][]float64)
	all := make([]float64, 0, len(rows))
	for _, r := range rows {
		byCode[r.Annotation] = append(byCode[r.Annotation], r.RRms)
		all = append(all, r.RRms)
	}

	out := make([]Summary, 0, len(byCode)+1)
	for _, c := range Frequencies(rows) {
		out = append(out, summarize(c.Code, byCode[c.Code]))
	}
	return append(out, summarize(AllCodes, all))
}

func summarize(code string, x []float64) Summary {
	s := Summary{Code: code, Count: len(x)}
	if len(x) == 0 {
		nan := math.NaN()
		s.Mean, s.Std, s.Min, s.P25, s.Median, s.P75, s.Max = nan, nan, nan, nan, nan, nan, nan
		return s
	}

	sorted := append([]float64(nil), x...)
	sort.Float64s(sorted)

	s.Mean = stat.Mean(sorted, nil)
	if len(sorted) > 1 {
		s.Std = stat.StdDev(sorted, nil)
	} else {
		s.Std = math.NaN()
	}
	s.Min = sorted[0]
	s.Max = sorted[len(sorted)-1]
	s.P25 = stat.Quantile(0.25, stat.Empirical, sorted, nil)
	s.Median = stat.Quantile(0.5, stat.Empirical, sorted, nil)
	s.P75 = stat.Quantile(0.75, stat.Empirical, sorted, nil)
	return s
}
