// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package report summarizes a persisted interval table: code frequencies,
// normalized shares, per-code RR statistics, and runs of ectopic beats.
package report

import (
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/gookit/color"
	"github.com/mattn/go-runewidth"

	"github.com/borngreat26/DSC106-ClusterFunks2/internal/rarity"
	"github.com/borngreat26/DSC106-ClusterFunks2/pkg/types"
)

// CodeCount is the number and percentage of rows carrying one code.
type CodeCount struct {
	Code    string  `json:"code"`
	Count   int     `json:"count"`
	Percent float64 `json:"percent"`
}

// Frequencies returns per-code counts, most frequent first. Ties are
// ordered by code.
func Frequencies(rows []types.Interval) []CodeCount {
	total := len(rows)
	counts := rarity.Counts(rows)
	out := make([]CodeCount, 0, len(counts))
	for code, n := range counts {
		out = append(out, CodeCount{Code: code, Count: n, Percent: percent(n, total)})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Count != out[j].Count {
			return out[i].Count > out[j].Count
		}
		return out[i].Code < out[j].Code
	})
	return out
}

// Shares returns per-code fractions of the total, ordered by code.
func Shares(rows []types.Interval) []CodeCount {
	out := Frequencies(rows)
	for i := range out {
		out[i].Percent /= 100
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Code < out[j].Code })
	return out
}

func percent(n, total int) float64 {
	if total == 0 {
		return 0
	}
	return float64(n) / float64(total) * 100
}

// Printer writes reports as plain text, optionally coloured.
type Printer struct {
	W     io.Writer
	Color bool
}

// Counts writes the frequency report: a total line, then one line per
// code as 'code': count (pct%).
func (p Printer) Counts(rows []types.Interval) {
	fmt.Fprintf(p.W, "Total beats: %d\n\n", len(rows))
	for _, c := range Frequencies(rows) {
		fmt.Fprintf(p.W, "%s: %d (%.2f%%)\n", p.paint(color.Cyan, "'"+c.Code+"'"), c.Count, c.Percent)
	}
}

// Shares writes the normalized share of each code ordered by code, then
// the list of codes present.
func (p Printer) Shares(rows []types.Interval) {
	shares := Shares(rows)
	table := make([][]string, 0, len(shares))
	codes := make([]string, 0, len(shares))
	for _, s := range shares {
		table = append(table, []string{s.Code, fmt.Sprintf("%.6f", s.Percent)})
		codes = append(codes, s.Code)
	}
	p.table([]string{"annotation", "proportion"}, table, []bool{false, true})
	fmt.Fprintf(p.W, "Unique codes after filter: [%s]\n", strings.Join(codes, " "))
}

// Stats writes the descriptive statistics table.
func (p Printer) Stats(rows []types.Interval) {
	summaries := Describe(rows)
	table := make([][]string, 0, len(summaries))
	for _, s := range summaries {
		table = append(table, []string{
			s.Code,
			fmt.Sprintf("%d", s.Count),
			fmt.Sprintf("%.1f", s.Mean),
			fmt.Sprintf("%.1f", s.Std),
			fmt.Sprintf("%.1f", s.Min),
			fmt.Sprintf("%.1f", s.P25),
			fmt.Sprintf("%.1f", s.Median),
			fmt.Sprintf("%.1f", s.P75),
			fmt.Sprintf("%.1f", s.Max),
		})
	}
	p.table(
		[]string{"annotation", "count", "mean", "std", "min", "25%", "50%", "75%", "max"},
		table,
		[]bool{false, true, true, true, true, true, true, true, true},
	)
}

// Runs writes one line per ectopic run.
func (p Printer) Runs(runs []Run, symbol string, minLength int) {
	if len(runs) == 0 {
		fmt.Fprintf(p.W, "No runs of %d or more consecutive %q beats.\n", minLength, symbol)
		return
	}
	table := make([][]string, 0, len(runs))
	for _, r := range runs {
		table = append(table, []string{
			r.RecordID,
			fmt.Sprintf("%.3f", r.Start),
			fmt.Sprintf("%.3f", r.End),
			fmt.Sprintf("%d", r.Length),
		})
	}
	p.table([]string{"record", "start_sec", "end_sec", "beats"}, table, []bool{false, true, true, true})
	fmt.Fprintf(p.W, "%s\n", p.paint(color.Red, fmt.Sprintf("%d run(s) of %q beats", len(runs), symbol)))
}

// table writes an aligned table. rightAlign marks numeric columns.
func (p Printer) table(headers []string, rows [][]string, rightAlign []bool) {
	widths := make([]int, len(headers))
	for i, h := range headers {
		widths[i] = runewidth.StringWidth(h)
	}
	for _, row := range rows {
		for i, cell := range row {
			if w := runewidth.StringWidth(cell); w > widths[i] {
				widths[i] = w
			}
		}
	}

	line := func(cells []string, style color.Color) {
		parts := make([]string, len(cells))
		for i, cell := range cells {
			if rightAlign[i] {
				parts[i] = runewidth.FillLeft(cell, widths[i])
			} else {
				parts[i] = runewidth.FillRight(cell, widths[i])
			}
		}
		text := strings.TrimRight(strings.Join(parts, "  "), " ")
		fmt.Fprintln(p.W, p.paint(style, text))
	}

	line(headers, color.Bold)
	total := 0
	for _, w := range widths {
		total += w
	}
	fmt.Fprintln(p.W, strings.Repeat("-", total+2*(len(widths)-1)))
	for _, row := range rows {
		line(row, 0)
	}
}

func (p Printer) paint(c color.Color, s string) string {
	if !p.Color || c == 0 {
		return s
	}
	return c.Sprint(s)
}
