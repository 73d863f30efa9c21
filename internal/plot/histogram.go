// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package plot renders RR interval histograms and the per-record time
// series as PNG files.
package plot

import (
	"gonum.org/v1/gonum/floats"
)

// Bin is one equal-width histogram bin covering [Lo, Hi).
// The last bin is closed and also holds Hi.
type Bin struct {
	Lo    float64
	Hi    float64
	Count int
}

// Histogram splits values into n equal-width bins spanning [min, max].
// The maximum value falls into the last bin. When every value is equal the
// bins span [v-0.5, v+0.5]. An empty input or n < 1 yields no bins.
func Histogram(values []float64, n int) []Bin {
	if len(values) == 0 || n < 1 {
		return nil
	}
	lo, hi := floats.Min(values), floats.Max(values)
	if lo == hi {
		lo, hi = lo-0.5, hi+0.5
	}

	edges := floats.Span(make([]float64, n+1), lo, hi)
	bins := make([]Bin, n)
	for i := range bins {
		bins[i] = Bin{Lo: edges[i], Hi: edges[i+1]}
	}

	width := (hi - lo) / float64(n)
	for _, v := range values {
		i := int((v - lo) / width)
		if i >= n {
			i = n - 1
		}
		if i < 0 {
			i = 0
		}
		bins[i].Count++
	}
	return bins
}

// maxCount returns the largest bin count.
func maxCount(bins []Bin) int {
	m := 0
	for _, b := range bins {
		if b.Count > m {
			m = b.Count
		}
	}
	return m
}

// steps converts bins into the outline of a bar histogram.
func steps(bins []Bin) (xs, ys []float64) {
	if len(bins) == 0 {
		return nil, nil
	}
	xs = append(xs, bins[0].Lo)
	ys = append(ys, 0)
	for _, b := range bins {
		c := float64(b.Count)
		xs = append(xs, b.Lo, b.Hi)
		ys = append(ys, c, c)
	}
	xs = append(xs, bins[len(bins)-1].Hi)
	ys = append(ys, 0)
	return xs, ys
}
