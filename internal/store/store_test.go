// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package store

import (
	"bytes"
	"context"
	"encoding/json"
	"path/filepath"
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.yaml.in/yaml/v3"

	"github.com/borngreat26/DSC106-ClusterFunks2/pkg/types"
)

func testStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(filepath.Join(t.TempDir(), "db", "rr.db"))
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

// fixture rows are deliberately out of (record, time) order.
var fixture = []types.Interval{
	{TimeSec: 1.0, RRms: 800, Annotation: "N", RecordID: "101"},
	{TimeSec: 1.8, RRms: 800, Annotation: "V", RecordID: "101"},
	{TimeSec: 2.5, RRms: 700, Annotation: "N", RecordID: "100"},
	{TimeSec: 0.8, RRms: 800, Annotation: "N", RecordID: "100"},
	{TimeSec: 1.6, RRms: 800, Annotation: "A", RecordID: "100"},
	{TimeSec: 3.1, RRms: 600, Annotation: "V", RecordID: "100"},
}

func TestReplaceAndQueryAll(t *testing.T) {
	s := testStore(t)
	ctx := context.Background()

	n, err := s.Replace(ctx, fixture)
	require.NoError(t, err)
	assert.Equal(t, len(fixture), n)

	got, err := s.Query(ctx, Query{})
	require.NoError(t, err)
	require.Len(t, got, len(fixture))

	var order []string
	for _, r := range got {
		order = append(order, r.RecordID+"@"+formatTime(r.TimeSec))
	}
	assert.Equal(t, []string{"100@0.8", "100@1.6", "100@2.5", "100@3.1", "101@1.0", "101@1.8"}, order)
	assert.Equal(t, types.Interval{TimeSec: 0.8, RRms: 800, Annotation: "N", RecordID: "100"}, got[0])
}

func formatTime(v float64) string {
	return strconv.FormatFloat(v, 'f', 1, 64)
}

func TestReplaceDiscardsPreviousRows(t *testing.T) {
	s := testStore(t)
	ctx := context.Background()

	_, err := s.Replace(ctx, fixture)
	require.NoError(t, err)
	_, err = s.Replace(ctx, fixture[:2])
	require.NoError(t, err)

	got, err := s.Query(ctx, Query{})
	require.NoError(t, err)
	assert.Len(t, got, 2)
}

func TestQueryFilters(t *testing.T) {
	s := testStore(t)
	ctx := context.Background()
	_, err := s.Replace(ctx, fixture)
	require.NoError(t, err)

	tests := []struct {
		name  string
		query Query
		want  int
	}{
		{"record", Query{RecordID: "101"}, 2},
		{"single code", Query{Annotations: []string{"V"}}, 2},
		{"several codes", Query{Annotations: []string{"A", "V"}}, 3},
		{"record and code", Query{RecordID: "100", Annotations: []string{"N"}}, 2},
		{"from", Query{From: 1.6}, 4},
		{"to", Query{To: 1.0}, 2},
		{"window", Query{From: 1.0, To: 2.5}, 4},
		{"limit", Query{Limit: 3}, 3},
		{"no match", Query{RecordID: "999"}, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := s.Query(ctx, tt.query)
			require.NoError(t, err)
			assert.Len(t, got, tt.want)
		})
	}
}

func TestQueryEmptyStoreReturnsEmptySlice(t *testing.T) {
	s := testStore(t)
	got, err := s.Query(context.Background(), Query{})
	require.NoError(t, err)
	assert.NotNil(t, got)
	assert.Empty(t, got)
}

func TestRecordsAndCounts(t *testing.T) {
	s := testStore(t)
	ctx := context.Background()
	_, err := s.Replace(ctx, fixture)
	require.NoError(t, err)

	ids, err := s.Records(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"100", "101"}, ids)

	counts, err := s.Counts(ctx)
	require.NoError(t, err)
	assert.Equal(t, []CodeCount{{"N", 3}, {"V", 2}, {"A", 1}}, counts)
}

func TestReopenKeepsRows(t *testing.T) {
	path := filepath.Join(t.TempDir(), "rr.db")
	ctx := context.Background()

	s, err := Open(path)
	require.NoError(t, err)
	_, err = s.Replace(ctx, fixture)
	require.NoError(t, err)
	require.NoError(t, s.Close())

	s, err = Open(path)
	require.NoError(t, err)
	defer s.Close()
	assert.Equal(t, path, s.Path())

	got, err := s.Query(ctx, Query{})
	require.NoError(t, err)
	assert.Len(t, got, len(fixture))
}

func TestReplaceCancelledContext(t *testing.T) {
	s := testStore(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := s.Replace(ctx, fixture)
	assert.Error(t, err)
}

func TestEncode(t *testing.T) {
	rows := fixture[:2]

	var buf bytes.Buffer
	require.NoError(t, Encode(&buf, rows, FormatCSV))
	assert.Equal(t, "time_sec,rr_ms,annotation,record_id\n1,800,N,101\n1.8,800,V,101\n", buf.String())

	buf.Reset()
	require.NoError(t, Encode(&buf, rows, FormatJSON))
	var fromJSON []types.Interval
	require.NoError(t, json.Unmarshal(buf.Bytes(), &fromJSON))
	assert.Equal(t, rows, fromJSON)

	buf.Reset()
	require.NoError(t, Encode(&buf, rows, FormatYAML))
	var fromYAML []types.Interval
	require.NoError(t, yaml.Unmarshal(buf.Bytes(), &fromYAML))
	assert.Equal(t, rows, fromYAML)

	assert.Error(t, Encode(&buf, rows, "xml"))
}
