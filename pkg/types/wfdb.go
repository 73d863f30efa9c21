// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

// Header holds the fields of a WFDB record header (.hea) that the
// pipeline uses.
type Header struct {
	// Record is the record name from the record line (e.g. "100").
	Record string `json:"record" yaml:"record"`

	// Segments is the segment count for multi-segment records, 0 otherwise.
	Segments int `json:"segments,omitempty" yaml:"segments,omitempty"`

	// NumSignals is the number of signals declared on the record line.
	NumSignals int `json:"num_signals" yaml:"num_signals"`

	// SamplingFrequency is samples per second per signal.
	SamplingFrequency float64 `json:"sampling_frequency" yaml:"sampling_frequency"`

	// CounterFrequency is the counter frequency, or 0 when absent.
	CounterFrequency float64 `json:"counter_frequency,omitempty" yaml:"counter_frequency,omitempty"`

	// NumSamples is the number of samples per signal, or 0 when absent.
	NumSamples int64 `json:"num_samples" yaml:"num_samples"`

	// Signals holds one entry per signal line.
	Signals []Signal `json:"signals" yaml:"signals"`

	// Comments holds the '#' lines that follow the signal lines.
	Comments []string `json:"comments,omitempty" yaml:"comments,omitempty"`
}

// SignalFiles returns the distinct signal file names in declaration order.
func (h Header) SignalFiles() []string {
	seen := make(map[string]bool)
	var files []string
	for _, s := range h.Signals {
		if s.FileName == "" || s.FileName == "-" || seen[s.FileName] {
			continue
		}
		seen[s.FileName] = true
		files = append(files, s.FileName)
	}
	return files
}

// Signal describes one signal line of a header.
type Signal struct {
	FileName      string  `json:"file_name" yaml:"file_name"`
	Format        int     `json:"format" yaml:"format"`
	Gain          float64 `json:"gain" yaml:"gain"`
	Baseline      int     `json:"baseline" yaml:"baseline"`
	Units         string  `json:"units,omitempty" yaml:"units,omitempty"`
	ADCResolution int     `json:"adc_resolution" yaml:"adc_resolution"`
	ADCZero       int     `json:"adc_zero" yaml:"adc_zero"`
	InitialValue  int     `json:"initial_value" yaml:"initial_value"`
	Checksum      int     `json:"checksum" yaml:"checksum"`
	BlockSize     int     `json:"block_size" yaml:"block_size"`
	Description   string  `json:"description,omitempty" yaml:"description,omitempty"`
}

// Annotation is one decoded entry of a WFDB annotation file.
type Annotation struct {
	// Sample is the annotation time as a sample index from record start.
	Sample int64 `json:"sample" yaml:"sample"`

	// Code is the WFDB label code (1 = NORMAL, 5 = PVC, ...).
	Code int `json:"code" yaml:"code"`

	// Symbol is the printable mnemonic for Code (e.g. "N", "V", "+").
	Symbol string `json:"symbol" yaml:"symbol"`

	Subtype int    `json:"subtype,omitempty" yaml:"subtype,omitempty"`
	Channel int    `json:"channel,omitempty" yaml:"channel,omitempty"`
	Num     int    `json:"num,omitempty" yaml:"num,omitempty"`
	Aux     string `json:"aux,omitempty" yaml:"aux,omitempty"`
}
