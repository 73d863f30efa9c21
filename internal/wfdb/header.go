// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package wfdb reads the parts of the WFDB record format the pipeline
// needs: record headers (.hea) and MIT-format annotation files.
package wfdb

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/borngreat26/DSC106-ClusterFunks2/pkg/types"
)

// DefaultFrequency is the sampling frequency assumed when a header omits it.
const DefaultFrequency = 250.0

// ReadHeaderFile parses the header file at path.
func ReadHeaderFile(path string) (types.Header, error) {
	f, err := os.Open(path)
	if err != nil {
		return types.Header{}, fmt.Errorf("opening header: %w", err)
	}
	defer f.Close()

	h, err := ReadHeader(f)
	if err != nil {
		return types.Header{}, fmt.Errorf("parsing header %s: %w", path, err)
	}
	return h, nil
}

// ReadHeader parses a single-segment or multi-segment record header.
// Comment lines before the record line are skipped; comment lines after
// it are collected into Header.Comments.
func ReadHeader(r io.Reader) (types.Header, error) {
	var h types.Header
	sc := bufio.NewScanner(r)
	sawRecord := false
	lineNo := 0

	for sc.Scan() {
		lineNo++
		line := strings.TrimSpace(sc.Text())
		if line == "" {
			continue
		}
		if strings.HasPrefix(line, "#") {
			if sawRecord {
				h.Comments = append(h.Comments, strings.TrimSpace(strings.TrimPrefix(line, "#")))
			}
			continue
		}

		if !sawRecord {
			if err := parseRecordLine(line, &h); err != nil {
				return types.Header{}, fmt.Errorf("line %d: %w", lineNo, err)
			}
			sawRecord = true
			continue
		}

		// Segment lines of a multi-segment header are not signal lines.
		if h.Segments > 0 || len(h.Signals) >= h.NumSignals {
			continue
		}
		sig, err := parseSignalLine(line)
		if err != nil {
			return types.Header{}, fmt.Errorf("line %d: %w", lineNo, err)
		}
		h.Signals = append(h.Signals, sig)
	}
	if err := sc.Err(); err != nil {
		return types.Header{}, err
	}
	if !sawRecord {
		return types.Header{}, fmt.Errorf("missing record line")
	}
	if h.Segments == 0 && len(h.Signals) < h.NumSignals {
		return types.Header{}, fmt.Errorf("header declares %d signals, found %d", h.NumSignals, len(h.Signals))
	}
	return h, nil
}

// parseRecordLine parses
//
//	name[/segments] nsig [fs[/counter[(base)]] [nsamp [time [date]]]]
func parseRecordLine(line string, h *types.Header) error {
	fields := strings.Fields(line)
	if len(fields) < 2 {
		return fmt.Errorf("record line %q: want at least name and signal count", line)
	}

	name, segs, hasSegs := strings.Cut(fields[0], "/")
	h.Record = name
	if hasSegs {
		n, err := strconv.Atoi(segs)
		if err != nil || n < 1 {
			return fmt.Errorf("invalid segment count %q", segs)
		}
		h.Segments = n
	}

	nsig, err := strconv.Atoi(fields[1])
	if err != nil || nsig < 0 {
		return fmt.Errorf("invalid signal count %q", fields[1])
	}
	h.NumSignals = nsig

	h.SamplingFrequency = DefaultFrequency
	if len(fields) > 2 {
		fs, counter, err := parseFrequency(fields[2])
		if err != nil {
			return err
		}
		h.SamplingFrequency = fs
		h.CounterFrequency = counter
	}

	if len(fields) > 3 {
		n, err := strconv.ParseInt(fields[3], 10, 64)
		if err != nil || n < 0 {
			return fmt.Errorf("invalid sample count %q", fields[3])
		}
		h.NumSamples = n
	}
	return nil
}

// parseFrequency parses "fs", "fs/counter" or "fs/counter(base)".
func parseFrequency(field string) (fs, counter float64, err error) {
	fsText, counterText, hasCounter := strings.Cut(field, "/")
	fs, err = strconv.ParseFloat(fsText, 64)
	if err != nil || fs <= 0 {
		return 0, 0, fmt.Errorf("invalid sampling frequency %q", field)
	}
	if hasCounter {
		if i := strings.IndexByte(counterText, '('); i >= 0 {
			counterText = counterText[:i]
		}
		counter, err = strconv.ParseFloat(counterText, 64)
		if err != nil {
			return 0, 0, fmt.Errorf("invalid counter frequency %q", field)
		}
	}
	return fs, counter, nil
}

// parseSignalLine parses
//
//	file format[xspf][:skew][+offset] [gain[(baseline)][/units] [res [zero [init [checksum [block [desc...]]]]]]]
func parseSignalLine(line string) (types.Signal, error) {
	fields := strings.Fields(line)
	if len(fields) < 2 {
		return types.Signal{}, fmt.Errorf("signal line %q: want at least file name and format", line)
	}
	sig := types.Signal{FileName: fields[0]}

	format := fields[1]
	if i := strings.IndexAny(format, "x:+"); i >= 0 {
		format = format[:i]
	}
	f, err := strconv.Atoi(format)
	if err != nil {
		return types.Signal{}, fmt.Errorf("invalid signal format %q", fields[1])
	}
	sig.Format = f

	hasBaseline := false
	if len(fields) > 2 {
		if hasBaseline, err = parseGain(fields[2], &sig); err != nil {
			return types.Signal{}, err
		}
	}

	ints := []*int{&sig.ADCResolution, &sig.ADCZero, &sig.InitialValue, &sig.Checksum, &sig.BlockSize}
	rest := len(fields)
	for i, dst := range ints {
		idx := 3 + i
		if idx >= len(fields) {
			break
		}
		n, convErr := strconv.Atoi(fields[idx])
		if convErr != nil {
			// Trailing numeric fields were omitted; the description starts here.
			rest = idx
			break
		}
		*dst = n
		rest = idx + 1
	}
	if rest < len(fields) {
		sig.Description = strings.Join(fields[rest:], " ")
	}
	if !hasBaseline {
		sig.Baseline = sig.ADCZero
	}
	return sig, nil
}

// parseGain parses "gain[(baseline)][/units]" and reports whether a
// baseline was given.
func parseGain(field string, sig *types.Signal) (bool, error) {
	gainText, units, _ := strings.Cut(field, "/")
	sig.Units = units

	hasBaseline := false
	if i := strings.IndexByte(gainText, '('); i >= 0 {
		end := strings.IndexByte(gainText, ')')
		if end < i {
			return false, fmt.Errorf("invalid gain %q", field)
		}
		b, err := strconv.Atoi(gainText[i+1 : end])
		if err != nil {
			return false, fmt.Errorf("invalid baseline in %q", field)
		}
		sig.Baseline = b
		hasBaseline = true
		gainText = gainText[:i]
	}

	g, err := strconv.ParseFloat(gainText, 64)
	if err != nil {
		return false, fmt.Errorf("invalid gain %q", field)
	}
	sig.Gain = g
	return hasBaseline, nil
}
