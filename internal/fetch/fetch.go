// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package fetch downloads WFDB record files from PhysioNet into a local
// directory, skipping files that are already present.
package fetch

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"time"

	"github.com/borngreat26/DSC106-ClusterFunks2/internal/httputil"
	"github.com/borngreat26/DSC106-ClusterFunks2/internal/logger"
	"github.com/borngreat26/DSC106-ClusterFunks2/internal/wfdb"
	"github.com/borngreat26/DSC106-ClusterFunks2/pkg/types"
)

// Result holds the outcome of a fetch run, counted per file.
type Result struct {
	Downloaded int
	Skipped    int
	Headers    []types.Header
}

// Total returns the number of files examined.
func (r Result) Total() int {
	return r.Downloaded + r.Skipped
}

// Fetcher ensures record files exist under a data directory.
type Fetcher struct {
	client    *httputil.Client
	cfg       types.FetchConfig
	dataDir   string
	annotator string
	w         io.Writer
	log       *logger.Logger

	downloads int
}

// New returns a Fetcher that writes per-file status lines to w.
func New(client *http.Client, cfg types.PipelineConfig, w io.Writer, log *logger.Logger) *Fetcher {
	if w == nil {
		w = io.Discard
	}
	if log == nil {
		log = logger.NewNop()
	}
	log = log.WithStage("fetch")
	return &Fetcher{
		client:    httputil.New(cfg.Fetch.HTTPConfig, client, log),
		cfg:       cfg.Fetch,
		dataDir:   cfg.DataDir,
		annotator: cfg.Annotator,
		w:         w,
		log:       log,
	}
}

// FetchAll fetches records in order. It stops at the first failure and
// returns the counts gathered so far together with the error.
func (f *Fetcher) FetchAll(ctx context.Context, records []string) (Result, error) {
	var result Result
	if err := os.MkdirAll(f.dataDir, 0o755); err != nil {
		return result, fmt.Errorf("creating directory %s: %w", f.dataDir, err)
	}

	for _, id := range records {
		if err := ctx.Err(); err != nil {
			return result, err
		}
		hdr, downloaded, skipped, err := f.FetchRecord(ctx, id)
		result.Downloaded += downloaded
		result.Skipped += skipped
		if err != nil {
			fmt.Fprintf(f.w, "failed:  %s (%v)\n", id, err)
			return result, fmt.Errorf("fetching record %s: %w", id, err)
		}
		result.Headers = append(result.Headers, hdr)
	}

	fmt.Fprintf(f.w, "\nFetch summary: %d downloaded, %d skipped (total: %d files, %d records)\n",
		result.Downloaded, result.Skipped, result.Total(), len(records))
	return result, nil
}

// FetchRecord ensures the header, every signal file the header names, and
// the annotation file of one record exist locally.
func (f *Fetcher) FetchRecord(ctx context.Context, id string) (hdr types.Header, downloaded, skipped int, err error) {
	count := func(wasSkipped bool) {
		if wasSkipped {
			skipped++
		} else {
			downloaded++
		}
	}

	heaName := id + ".hea"
	s, err := f.ensureFile(ctx, heaName)
	if err != nil {
		return hdr, downloaded, skipped, err
	}
	count(s)

	hdr, err = wfdb.ReadHeaderFile(filepath.Join(f.dataDir, heaName))
	if err != nil {
		return hdr, downloaded, skipped, err
	}

	files := append(hdr.SignalFiles(), id+"."+f.annotator)
	for _, name := range files {
		if filepath.Base(name) != name || name == ".." {
			return hdr, downloaded, skipped, fmt.Errorf("refusing file name %q from header", name)
		}
		s, err := f.ensureFile(ctx, name)
		if err != nil {
			return hdr, downloaded, skipped, err
		}
		count(s)
	}
	return hdr, downloaded, skipped, nil
}

// ensureFile downloads name unless it already exists. The skipped return
// value reports whether the download was skipped.
func (f *Fetcher) ensureFile(ctx context.Context, name string) (bool, error) {
	dest := filepath.Join(f.dataDir, name)
	if _, err := os.Stat(dest); err == nil {
		fmt.Fprintf(f.w, "skipped: %s (already exists)\n", name)
		return true, nil
	}

	if f.downloads > 0 && f.cfg.DownloadDelay > 0 {
		select {
		case <-ctx.Done():
			return false, ctx.Err()
		case <-time.After(f.cfg.DownloadDelay):
		}
	}

	src, err := f.FileURL(name)
	if err != nil {
		return false, err
	}
	fmt.Fprintf(f.w, "downloading: %s\n", name)

	start := time.Now()
	n, err := f.downloadFile(ctx, src, dest)
	if err != nil {
		return false, fmt.Errorf("downloading %s: %w", name, err)
	}
	f.downloads++
	f.log.Debugw("downloaded", "file", name, "bytes", n, "elapsed", time.Since(start))
	return false, nil
}

// FileURL returns the remote location of a database file.
func (f *Fetcher) FileURL(name string) (string, error) {
	return url.JoinPath(f.cfg.BaseURL, f.cfg.Database, f.cfg.Version, name)
}

// downloadFile fetches src to destPath using a temporary file so that an
// interrupted download never looks like a present file.
func (f *Fetcher) downloadFile(ctx context.Context, src, destPath string) (int64, error) {
	resp, err := f.client.Get(ctx, src)
	if err != nil {
		return 0, err
	}
	defer resp.Body.Close()

	tmpFile, err := os.CreateTemp(filepath.Dir(destPath), ".fetch-*.tmp")
	if err != nil {
		return 0, fmt.Errorf("creating temp file: %w", err)
	}
	tmpPath := tmpFile.Name()

	n, copyErr := io.Copy(tmpFile, resp.Body)
	closeErr := tmpFile.Close()
	if copyErr != nil {
		os.Remove(tmpPath)
		return 0, fmt.Errorf("writing download: %w", copyErr)
	}
	if closeErr != nil {
		os.Remove(tmpPath)
		return 0, fmt.Errorf("closing temp file: %w", closeErr)
	}

	if err := os.Rename(tmpPath, destPath); err != nil {
		os.Remove(tmpPath)
		return 0, fmt.Errorf("renaming temp file: %w", err)
	}
	return n, nil
}
