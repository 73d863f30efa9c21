// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package fetch

import (
	"bytes"
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/borngreat26/DSC106-ClusterFunks2/internal/httputil"
	"github.com/borngreat26/DSC106-ClusterFunks2/pkg/types"
)

func init() {
	httputil.RetryBaseDelay = time.Millisecond
}

const fakeDat = "\x00\x01\x02"

func header(id string) string {
	return fmt.Sprintf("%s 2 360 650000\n%s.dat 212 200 11 1024 995 -22131 0 MLII\n%s.dat 212 200 11 1024 1011 20052 0 V5\n", id, id, id)
}

// physioNet is a fake PhysioNet file tree that records every request path.
type physioNet struct {
	mu       sync.Mutex
	requests []string
	missing  map[string]bool
	agents   []string
}

func (p *physioNet) handler(w http.ResponseWriter, r *http.Request) {
	p.mu.Lock()
	p.requests = append(p.requests, r.URL.Path)
	p.agents = append(p.agents, r.UserAgent())
	p.mu.Unlock()

	name, ok := strings.CutPrefix(r.URL.Path, "/files/mitdb/1.0.0/")
	if !ok || p.missing[name] {
		http.NotFound(w, r)
		return
	}
	id, ext, _ := strings.Cut(name, ".")
	switch ext {
	case "hea":
		fmt.Fprint(w, header(id))
	case "dat":
		fmt.Fprint(w, fakeDat)
	case "atr":
		w.Write([]byte{0x12, 0x70, 0x00, 0x00})
	default:
		http.NotFound(w, r)
	}
}

func (p *physioNet) paths() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]string(nil), p.requests...)
}

func newServer(t *testing.T) (*physioNet, *httptest.Server) {
	t.Helper()
	p := &physioNet{missing: map[string]bool{}}
	ts := httptest.NewServer(http.HandlerFunc(p.handler))
	t.Cleanup(ts.Close)
	return p, ts
}

func testConfig(t *testing.T, baseURL string) types.PipelineConfig {
	t.Helper()
	cfg := types.DefaultConfig()
	cfg.DataDir = filepath.Join(t.TempDir(), "mitdb")
	cfg.Fetch.BaseURL = baseURL + "/files"
	cfg.Fetch.UserAgent = "rr-pipeline-test/0.1"
	cfg.Fetch.Timeout = 10 * time.Second
	return cfg
}

func TestFetchAll_DownloadsRecordFiles(t *testing.T) {
	p, ts := newServer(t)
	cfg := testConfig(t, ts.URL)
	var buf bytes.Buffer

	res, err := New(ts.Client(), cfg, &buf, nil).FetchAll(context.Background(), []string{"100", "101"})
	require.NoError(t, err)

	assert.Equal(t, 6, res.Downloaded)
	assert.Equal(t, 0, res.Skipped)
	require.Len(t, res.Headers, 2)
	assert.Equal(t, 360.0, res.Headers[0].SamplingFrequency)

	assert.Equal(t, []string{
		"/files/mitdb/1.0.0/100.hea",
		"/files/mitdb/1.0.0/100.dat",
		"/files/mitdb/1.0.0/100.atr",
		"/files/mitdb/1.0.0/101.hea",
		"/files/mitdb/1.0.0/101.dat",
		"/files/mitdb/1.0.0/101.atr",
	}, p.paths())
	for _, ua := range p.agents {
		assert.Equal(t, "rr-pipeline-test/0.1", ua)
	}

	data, err := os.ReadFile(filepath.Join(cfg.DataDir, "100.dat"))
	require.NoError(t, err)
	assert.Equal(t, fakeDat, string(data))
	assert.Contains(t, buf.String(), "downloading: 100.hea")
	assert.Contains(t, buf.String(), "Fetch summary: 6 downloaded, 0 skipped (total: 6 files, 2 records)")
}

func TestFetchAll_Idempotent(t *testing.T) {
	p, ts := newServer(t)
	cfg := testConfig(t, ts.URL)
	f := New(ts.Client(), cfg, nil, nil)

	_, err := f.FetchAll(context.Background(), []string{"100"})
	require.NoError(t, err)
	first := len(p.paths())

	var buf bytes.Buffer
	res, err := New(ts.Client(), cfg, &buf, nil).FetchAll(context.Background(), []string{"100"})
	require.NoError(t, err)

	assert.Equal(t, 0, res.Downloaded)
	assert.Equal(t, 3, res.Skipped)
	assert.Equal(t, first, len(p.paths()), "second run must not hit the network")
	assert.Contains(t, buf.String(), "skipped: 100.atr (already exists)")
}

func TestFetchAll_CompletesPartialRecord(t *testing.T) {
	p, ts := newServer(t)
	cfg := testConfig(t, ts.URL)
	require.NoError(t, os.MkdirAll(cfg.DataDir, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(cfg.DataDir, "100.hea"), []byte(header("100")), 0o644))

	res, err := New(ts.Client(), cfg, nil, nil).FetchAll(context.Background(), []string{"100"})
	require.NoError(t, err)
	assert.Equal(t, 2, res.Downloaded)
	assert.Equal(t, 1, res.Skipped)
	assert.Equal(t, []string{"/files/mitdb/1.0.0/100.dat", "/files/mitdb/1.0.0/100.atr"}, p.paths())
}

func TestFetchAll_FailFast(t *testing.T) {
	p, ts := newServer(t)
	p.missing["101.atr"] = true
	cfg := testConfig(t, ts.URL)
	var buf bytes.Buffer

	res, err := New(ts.Client(), cfg, &buf, nil).FetchAll(context.Background(), []string{"100", "101", "102"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "fetching record 101")
	assert.Contains(t, err.Error(), "HTTP 404")

	assert.Equal(t, 5, res.Downloaded)
	for _, path := range p.paths() {
		assert.NotContains(t, path, "102", "records after a failure must not be fetched")
	}
	assert.Contains(t, buf.String(), "failed:  101")

	// The failed file does not exist, not even partially.
	_, statErr := os.Stat(filepath.Join(cfg.DataDir, "101.atr"))
	assert.True(t, os.IsNotExist(statErr))
	entries, err := os.ReadDir(cfg.DataDir)
	require.NoError(t, err)
	for _, e := range entries {
		assert.False(t, strings.HasPrefix(e.Name(), ".fetch-"), "temp file %s left behind", e.Name())
	}
}

func TestFetchAll_NoRetryByDefault(t *testing.T) {
	var calls atomic.Int32
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusTooManyRequests)
	}))
	defer ts.Close()

	cfg := testConfig(t, ts.URL)
	_, err := New(ts.Client(), cfg, nil, nil).FetchAll(context.Background(), []string{"100"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "HTTP 429")
	assert.Equal(t, int32(1), calls.Load())
}

func TestFetchAll_RetriesWhenConfigured(t *testing.T) {
	p := &physioNet{missing: map[string]bool{}}
	var limited atomic.Int32
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if limited.Add(1) <= 2 {
			w.WriteHeader(http.StatusTooManyRequests)
			return
		}
		p.handler(w, r)
	}))
	defer ts.Close()

	cfg := testConfig(t, ts.URL)
	cfg.Fetch.MaxRetries = 3
	res, err := New(ts.Client(), cfg, nil, nil).FetchAll(context.Background(), []string{"100"})
	require.NoError(t, err)
	assert.Equal(t, 3, res.Downloaded)
}

func TestFetchRecord_RejectsPathInHeader(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, "100 1 360\n../evil.dat 212\n")
	}))
	defer ts.Close()

	cfg := testConfig(t, ts.URL)
	require.NoError(t, os.MkdirAll(cfg.DataDir, 0o755))
	_, _, _, err := New(ts.Client(), cfg, nil, nil).FetchRecord(context.Background(), "100")
	assert.ErrorContains(t, err, "refusing file name")
}

func TestFetchAll_MalformedHeader(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, "not a header\n")
	}))
	defer ts.Close()

	cfg := testConfig(t, ts.URL)
	_, err := New(ts.Client(), cfg, nil, nil).FetchAll(context.Background(), []string{"100"})
	assert.Error(t, err)
}

func TestFetchAll_ContextCancelledDuringDelay(t *testing.T) {
	_, ts := newServer(t)
	cfg := testConfig(t, ts.URL)
	cfg.Fetch.DownloadDelay = time.Hour

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	res, err := New(ts.Client(), cfg, nil, nil).FetchAll(ctx, []string{"100"})
	assert.ErrorIs(t, err, context.DeadlineExceeded)
	assert.Equal(t, 1, res.Downloaded)
}

func TestFileURL(t *testing.T) {
	cfg := types.DefaultConfig()
	got, err := New(nil, cfg, nil, nil).FileURL("100.atr")
	require.NoError(t, err)
	assert.Equal(t, "https://physionet.org/files/mitdb/1.0.0/100.atr", got)
}
