// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/borngreat26/DSC106-ClusterFunks2/internal/plot"
	"github.com/borngreat26/DSC106-ClusterFunks2/internal/table"
	"github.com/borngreat26/DSC106-ClusterFunks2/pkg/types"
)

// resetFlags restores every flag to its default so consecutive Execute
// calls do not see values from earlier tests.
func resetFlags(cmd *cobra.Command) {
	reset := func(f *pflag.Flag) {
		if sv, ok := f.Value.(pflag.SliceValue); ok {
			sv.Replace(nil)
		} else {
			f.Value.Set(f.DefValue)
		}
		f.Changed = false
	}
	cmd.Flags().VisitAll(reset)
	cmd.PersistentFlags().VisitAll(reset)
	for _, c := range cmd.Commands() {
		resetFlags(c)
	}
}

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	resetFlags(rootCmd)
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetArgs(append(args, "--no-color"))
	err := rootCmd.Execute()
	return out.String(), err
}

func writeTable(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "rr_intervals.csv")
	rows := []types.Interval{
		{TimeSec: 0.8, RRms: 800, Annotation: "N", RecordID: "100"},
		{TimeSec: 1.6, RRms: 800, Annotation: "N", RecordID: "100"},
		{TimeSec: 2.1, RRms: 500, Annotation: "V", RecordID: "100"},
		{TimeSec: 2.6, RRms: 500, Annotation: "V", RecordID: "100"},
		{TimeSec: 3.1, RRms: 500, Annotation: "V", RecordID: "100"},
		{TimeSec: 4.0, RRms: 900, Annotation: "N", RecordID: "100"},
		{TimeSec: 0.7, RRms: 700, Annotation: "A", RecordID: "101"},
		{TimeSec: 1.5, RRms: 800, Annotation: "N", RecordID: "101"},
	}
	require.NoError(t, table.WriteFile(path, rows))
	return path
}

func TestVersion(t *testing.T) {
	out, err := execute(t, "version")
	require.NoError(t, err)
	assert.Equal(t, "rr-pipeline dev\n", out)
}

func TestCounts(t *testing.T) {
	csv := writeTable(t)
	out, err := execute(t, "counts", "--csv", csv)
	require.NoError(t, err)
	assert.Contains(t, out, "Total beats: 8\n")
	assert.Contains(t, out, "'N': 4 (50.00%)\n'V': 3 (37.50%)\n'A': 1 (12.50%)\n")
}

func TestShares(t *testing.T) {
	csv := writeTable(t)
	out, err := execute(t, "shares", "--csv", csv)
	require.NoError(t, err)
	assert.Contains(t, out, "Unique codes after filter: [A N V]")
}

func TestStats(t *testing.T) {
	csv := writeTable(t)
	out, err := execute(t, "stats", "--csv", csv)
	require.NoError(t, err)
	assert.Contains(t, out, "annotation")
	assert.Contains(t, out, "all")
}

func TestEctopy(t *testing.T) {
	csv := writeTable(t)

	out, err := execute(t, "ectopy", "--csv", csv)
	require.NoError(t, err)
	assert.Contains(t, out, "1 run(s) of \"V\" beats")

	out, err = execute(t, "ectopy", "--csv", csv, "--run-length", "4")
	require.NoError(t, err)
	assert.Contains(t, out, "No runs of 4 or more")
}

func TestMissingTable(t *testing.T) {
	_, err := execute(t, "counts", "--csv", filepath.Join(t.TempDir(), "absent.csv"))
	assert.Error(t, err)
}

func TestStoreExportAndQuery(t *testing.T) {
	csv := writeTable(t)
	db := filepath.Join(t.TempDir(), "rr.db")

	out, err := execute(t, "store", "export", "--csv", csv, "--db", db)
	require.NoError(t, err)
	assert.Contains(t, out, "Exported 8 rows to "+db)

	out, err = execute(t, "store", "query", "--db", db, "--record", "100", "--annotation", "V", "--format", "json")
	require.NoError(t, err)
	var rows []types.Interval
	require.NoError(t, json.Unmarshal([]byte(out), &rows))
	require.Len(t, rows, 3)
	assert.Equal(t, 2.1, rows[0].TimeSec)

	out, err = execute(t, "store", "query", "--db", db, "--records-only")
	require.NoError(t, err)
	assert.Equal(t, "100\n101\n", out)

	_, err = execute(t, "store", "query", "--db", db, "--from", "3", "--to", "1")
	assert.Error(t, err)
}

func TestPlot(t *testing.T) {
	csv := writeTable(t)
	dir := t.TempDir()

	_, err := execute(t, "plot", "--csv", csv, "--plot-dir", dir, "--width", "300", "--height", "200")
	require.NoError(t, err)
	for _, name := range []string{plot.OverallFile, plot.ByTypeFile, plot.TimeSeriesFile} {
		assert.FileExists(t, filepath.Join(dir, name))
	}
}

func TestInvalidConfigFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.yaml")
	require.NoError(t, os.WriteFile(path, []byte("filter:\n  min_frequency: 2\n"), 0o644))

	_, err := execute(t, "counts", "--config", path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "filter.min_frequency")
}
