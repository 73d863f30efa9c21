// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package plot

import (
	"bytes"
	"fmt"
	"image"
	"image/draw"
	"image/png"
	"io"
	"os"
	"path/filepath"

	"github.com/elliotchance/orderedmap/v2"
	"github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"
	"gonum.org/v1/gonum/floats"

	"github.com/borngreat26/DSC106-ClusterFunks2/internal/logger"
	"github.com/borngreat26/DSC106-ClusterFunks2/pkg/types"
)

// Output file names.
const (
	OverallFile    = "hist_rr_intervals.png"
	ByTypeFile     = "hist_rr_by_type_subplots.png"
	TimeSeriesFile = "rr_timeseries.png"
)

var barColor = drawing.ColorFromHex("1f77b4")

// Plotter renders charts from an interval table into Dir.
type Plotter struct {
	Dir     string
	Bins    int
	Symbols []string
	Width   int
	Height  int

	w   io.Writer
	log *logger.Logger
}

// New returns a Plotter configured from cfg. One "wrote: <path>" line is
// written to w per file.
func New(cfg types.PipelineConfig, w io.Writer, log *logger.Logger) *Plotter {
	if w == nil {
		w = io.Discard
	}
	if log == nil {
		log = logger.NewNop()
	}
	return &Plotter{
		Dir:     cfg.Output.PlotDir,
		Bins:    cfg.Plot.Bins,
		Symbols: cfg.Plot.TypeSymbols,
		Width:   cfg.Plot.Width,
		Height:  cfg.Plot.Height,
		w:       w,
		log:     log.WithStage("plot"),
	}
}

// All renders the overall histogram, the per-type histograms and the time
// series, returning the written paths.
func (p *Plotter) All(rows []types.Interval) ([]string, error) {
	var paths []string
	for _, render := range []func([]types.Interval) (string, error){p.Overall, p.ByType, p.TimeSeries} {
		path, err := render(rows)
		if err != nil {
			return paths, err
		}
		paths = append(paths, path)
	}
	return paths, nil
}

// Overall renders the histogram of every rr_ms value.
func (p *Plotter) Overall(rows []types.Interval) (string, error) {
	graph := p.histogramChart("Distribution of RR Intervals", rrValues(rows, ""))
	return p.save(OverallFile, func(w io.Writer) error {
		return graph.Render(chart.PNG, w)
	})
}

// ByType renders one histogram per configured symbol, stacked vertically
// in a single image.
func (p *Plotter) ByType(rows []types.Interval) (string, error) {
	panels := make([]image.Image, 0, len(p.Symbols))
	for _, sym := range p.Symbols {
		values := rrValues(rows, sym)
		title := fmt.Sprintf("RR Intervals for %s Beats (n=%d)", sym, len(values))
		graph := p.histogramChart(title, values)

		var buf bytes.Buffer
		if err := graph.Render(chart.PNG, &buf); err != nil {
			return "", fmt.Errorf("rendering %s histogram: %w", sym, err)
		}
		img, err := png.Decode(&buf)
		if err != nil {
			return "", fmt.Errorf("decoding %s histogram: %w", sym, err)
		}
		panels = append(panels, img)
	}

	return p.save(ByTypeFile, func(w io.Writer) error {
		return png.Encode(w, stack(panels, p.Width, p.Height))
	})
}

// TimeSeries renders rr_ms against time_sec with one line per record, in
// first-seen record order.
func (p *Plotter) TimeSeries(rows []types.Interval) (string, error) {
	byRecord := orderedmap.NewOrderedMap[string, *chart.ContinuousSeries]()
	for _, r := range rows {
		s, ok := byRecord.Get(r.RecordID)
		if !ok {
			s = &chart.ContinuousSeries{Name: r.RecordID}
			byRecord.Set(r.RecordID, s)
		}
		s.XValues = append(s.XValues, r.TimeSec)
		s.YValues = append(s.YValues, r.RRms)
	}

	series := make([]chart.Series, 0, byRecord.Len())
	for el := byRecord.Front(); el != nil; el = el.Next() {
		series = append(series, *el.Value)
	}

	xr := &chart.ContinuousRange{Min: 0, Max: 1}
	yr := &chart.ContinuousRange{Min: 0, Max: 1}
	if len(rows) > 0 {
		xs, ys := make([]float64, len(rows)), make([]float64, len(rows))
		for i, r := range rows {
			xs[i], ys[i] = r.TimeSec, r.RRms
		}
		xr = padRange(floats.Min(xs), floats.Max(xs))
		yr = padRange(floats.Min(ys), floats.Max(ys))
	}
	if len(series) == 0 {
		series = append(series, placeholder(xr))
	}

	graph := chart.Chart{
		Title:  "RR Interval Time Series",
		Width:  p.Width,
		Height: p.Height,
		Background: chart.Style{
			Padding: chart.Box{Top: 40, Left: 20, Right: 20, Bottom: 20},
		},
		XAxis:  chart.XAxis{Name: "Time (s)", Range: xr},
		YAxis:  chart.YAxis{Name: "RR interval (ms)", Range: yr},
		Series: series,
	}
	if byRecord.Len() > 0 {
		graph.Elements = []chart.Renderable{chart.Legend(&graph)}
	}

	p.log.Debugw("rendering time series", "records", byRecord.Len(), "rows", len(rows))
	return p.save(TimeSeriesFile, func(w io.Writer) error {
		return graph.Render(chart.PNG, w)
	})
}

func (p *Plotter) histogramChart(title string, values []float64) chart.Chart {
	bins := Histogram(values, p.Bins)

	xr := &chart.ContinuousRange{Min: 0, Max: 1}
	var s chart.Series
	if len(bins) > 0 {
		xr = &chart.ContinuousRange{Min: bins[0].Lo, Max: bins[len(bins)-1].Hi}
		xs, ys := steps(bins)
		s = chart.ContinuousSeries{
			Style: chart.Style{
				StrokeColor: barColor,
				StrokeWidth: 1,
				FillColor:   barColor.WithAlpha(160),
			},
			XValues: xs,
			YValues: ys,
		}
	} else {
		s = placeholder(xr)
	}

	top := float64(maxCount(bins))
	if top < 1 {
		top = 1
	}

	return chart.Chart{
		Title:  title,
		Width:  p.Width,
		Height: p.Height,
		Background: chart.Style{
			Padding: chart.Box{Top: 40, Left: 20, Right: 20, Bottom: 20},
		},
		XAxis:  chart.XAxis{Name: "RR interval (ms)", Range: xr},
		YAxis:  chart.YAxis{Name: "Count", Range: &chart.ContinuousRange{Min: 0, Max: top * 1.05}},
		Series: []chart.Series{s},
	}
}

// save writes one file under p.Dir through a temp file and rename.
func (p *Plotter) save(name string, render func(io.Writer) error) (string, error) {
	if p.Dir != "" {
		if err := os.MkdirAll(p.Dir, 0o755); err != nil {
			return "", fmt.Errorf("creating plot directory: %w", err)
		}
	}
	path := filepath.Join(p.Dir, name)

	tmp, err := os.CreateTemp(filepath.Dir(path), ".plot-*.tmp")
	if err != nil {
		return "", fmt.Errorf("creating %s: %w", name, err)
	}
	tmpPath := tmp.Name()

	if err := render(tmp); err != nil {
		tmp.Close()
		os.Remove(tmpPath)
		return "", fmt.Errorf("rendering %s: %w", name, err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpPath)
		return "", fmt.Errorf("writing %s: %w", name, err)
	}
	if err := os.Rename(tmpPath, path); err != nil {
		os.Remove(tmpPath)
		return "", fmt.Errorf("writing %s: %w", name, err)
	}

	fmt.Fprintf(p.w, "wrote: %s\n", path)
	return path, nil
}

// rrValues returns rr_ms of rows with the given code, or of all rows when
// code is empty.
func rrValues(rows []types.Interval, code string) []float64 {
	out := make([]float64, 0, len(rows))
	for _, r := range rows {
		if code == "" || r.Annotation == code {
			out = append(out, r.RRms)
		}
	}
	return out
}

// stack draws panels top to bottom on a white canvas of width x height*n.
func stack(panels []image.Image, width, height int) image.Image {
	n := len(panels)
	if n == 0 {
		n = 1
	}
	canvas := image.NewRGBA(image.Rect(0, 0, width, height*n))
	draw.Draw(canvas, canvas.Bounds(), image.White, image.Point{}, draw.Src)
	for i, img := range panels {
		r := image.Rect(0, i*height, width, (i+1)*height)
		draw.Draw(canvas, r, img, img.Bounds().Min, draw.Over)
	}
	return canvas
}

// padRange returns [lo, hi], widened by one unit when lo == hi.
func padRange(lo, hi float64) *chart.ContinuousRange {
	if lo == hi {
		return &chart.ContinuousRange{Min: lo - 1, Max: hi + 1}
	}
	return &chart.ContinuousRange{Min: lo, Max: hi}
}

// placeholder is a flat series at zero, drawn when there is no data.
func placeholder(xr *chart.ContinuousRange) chart.ContinuousSeries {
	return chart.ContinuousSeries{
		XValues: []float64{xr.Min, xr.Max},
		YValues: []float64{0, 0},
	}
}
