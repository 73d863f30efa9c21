package types

import "time"

// HTTPConfig holds shared HTTP settings used by stages that make network requests.
type HTTPConfig struct {
	// Timeout is the HTTP request timeout.
	Timeout time.Duration `json:"timeout" yaml:"timeout" mapstructure:"timeout"`

	// UserAgent is the User-Agent header sent with HTTP requests
	// (e.g. "rr-pipeline/0.1").
	UserAgent string `json:"user_agent" yaml:"user_agent" mapstructure:"user_agent"`

	// MaxRetries is the number of retries on HTTP 429. Zero disables retries.
	MaxRetries int `json:"max_retries" yaml:"max_retries" mapstructure:"max_retries"`
}

// FetchConfig holds settings for the record fetch stage.
type FetchConfig struct {
	HTTPConfig `yaml:",inline" mapstructure:",squash"`

	// BaseURL is the root of the PhysioNet file tree.
	BaseURL string `json:"base_url" yaml:"base_url" mapstructure:"base_url"`

	// Database is the PhysioNet database slug (e.g. "mitdb").
	Database string `json:"database" yaml:"database" mapstructure:"database"`

	// Version is the database version directory (e.g. "1.0.0").
	Version string `json:"version" yaml:"version" mapstructure:"version"`

	// DownloadDelay is the delay between consecutive downloads.
	DownloadDelay time.Duration `json:"download_delay" yaml:"download_delay" mapstructure:"download_delay"`
}

// FilterConfig holds settings for the rarity filter.
type FilterConfig struct {
	// MinFrequency is the minimum share of total rows (0..1) an annotation
	// code needs to be kept.
	MinFrequency float64 `json:"min_frequency" yaml:"min_frequency" mapstructure:"min_frequency"`
}

// OutputConfig names the files the pipeline writes.
type OutputConfig struct {
	// CSVPath is the persisted interval table.
	CSVPath string `json:"csv_path" yaml:"csv_path" mapstructure:"csv_path"`

	// SummaryPath is the YAML run summary.
	SummaryPath string `json:"summary_path" yaml:"summary_path" mapstructure:"summary_path"`

	// DatabasePath is the SQLite export target.
	DatabasePath string `json:"database_path" yaml:"database_path" mapstructure:"database_path"`

	// PlotDir is the directory the PNG files are written to.
	PlotDir string `json:"plot_dir" yaml:"plot_dir" mapstructure:"plot_dir"`
}

// PlotConfig holds histogram and chart settings.
type PlotConfig struct {
	// Bins is the number of equal-width histogram bins.
	Bins int `json:"bins" yaml:"bins" mapstructure:"bins"`

	// TypeSymbols is the subset of annotation codes given their own histogram.
	TypeSymbols []string `json:"type_symbols" yaml:"type_symbols" mapstructure:"type_symbols"`

	// Width and Height are the pixel size of a single chart.
	Width  int `json:"width" yaml:"width" mapstructure:"width"`
	Height int `json:"height" yaml:"height" mapstructure:"height"`
}

// EctopyConfig controls detection of consecutive ectopic beats.
type EctopyConfig struct {
	// Symbol is the annotation code whose runs are reported.
	Symbol string `json:"symbol" yaml:"symbol" mapstructure:"symbol"`

	// RunLength is the minimum number of consecutive rows that form a run.
	RunLength int `json:"run_length" yaml:"run_length" mapstructure:"run_length"`
}

// LoggingConfig holds logger settings.
type LoggingConfig struct {
	Level  string `json:"level" yaml:"level" mapstructure:"level"`    // debug, info, warn, error
	Format string `json:"format" yaml:"format" mapstructure:"format"` // json or text
	Output string `json:"output" yaml:"output" mapstructure:"output"` // stdout, stderr, or file path
}

// PipelineConfig groups all stage configurations for the pipeline.
// It is built once at start and passed by value into each stage.
type PipelineConfig struct {
	// Records is the fixed, ordered list of record identifiers.
	Records []string `json:"records" yaml:"records" mapstructure:"records"`

	// DataDir holds one header, waveform and annotation file per record.
	DataDir string `json:"data_dir" yaml:"data_dir" mapstructure:"data_dir"`

	// Annotator is the annotation file extension (e.g. "atr").
	Annotator string `json:"annotator" yaml:"annotator" mapstructure:"annotator"`

	Fetch   FetchConfig   `json:"fetch" yaml:"fetch" mapstructure:"fetch"`
	Filter  FilterConfig  `json:"filter" yaml:"filter" mapstructure:"filter"`
	Output  OutputConfig  `json:"output" yaml:"output" mapstructure:"output"`
	Plot    PlotConfig    `json:"plot" yaml:"plot" mapstructure:"plot"`
	Ectopy  EctopyConfig  `json:"ectopy" yaml:"ectopy" mapstructure:"ectopy"`
	Logging LoggingConfig `json:"logging" yaml:"logging" mapstructure:"logging"`
}

// DefaultRecords are the MIT-BIH records 100-109 and 111-115.
var DefaultRecords = []string{
	"100", "101", "102", "103", "104",
	"105", "106", "107", "108", "109",
	"111", "112", "113", "114", "115",
}

// DefaultConfig returns the pipeline's built-in configuration.
func DefaultConfig() PipelineConfig {
	return PipelineConfig{
		Records:   append([]string(nil), DefaultRecords...),
		DataDir:   "mitdb",
		Annotator: "atr",
		Fetch: FetchConfig{
			HTTPConfig: HTTPConfig{
				Timeout:   60 * time.Second,
				UserAgent: "rr-pipeline/0.1",
			},
			BaseURL:  "https://physionet.org/files",
			Database: "mitdb",
			Version:  "1.0.0",
		},
		Filter: FilterConfig{
			MinFrequency: 0.001,
		},
		Output: OutputConfig{
			CSVPath:      "rr_intervals.csv",
			SummaryPath:  "rr_summary.yaml",
			DatabasePath: "rr_intervals.db",
			PlotDir:      ".",
		},
		Plot: PlotConfig{
			Bins:        50,
			TypeSymbols: []string{"N", "A", "V"},
			Width:       800,
			Height:      400,
		},
		Ectopy: EctopyConfig{
			Symbol:    "V",
			RunLength: 3,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "text",
			Output: "stderr",
		},
	}
}
