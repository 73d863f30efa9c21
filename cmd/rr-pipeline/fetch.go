// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"net/http"

	"github.com/spf13/cobra"

	"github.com/borngreat26/DSC106-ClusterFunks2/internal/fetch"
)

var fetchCmd = &cobra.Command{
	Use:   "fetch",
	Short: "Download record files from PhysioNet",
	Long: `Fetch downloads the header, waveform and annotation files of every
configured record into the data directory. Files already present are
skipped. The first failing record aborts the command.`,
	RunE: runFetch,
}

func init() {
	addHTTPFlags(fetchCmd)
	rootCmd.AddCommand(fetchCmd)
}

// addHTTPFlags registers the flags shared by commands that download.
func addHTTPFlags(cmd *cobra.Command) {
	cmd.Flags().Duration("timeout", 0, "HTTP request timeout (default 60s)")
	cmd.Flags().Duration("delay", 0, "delay between consecutive downloads")
	cmd.Flags().Int("retries", 0, "retries on HTTP 429 (default 0)")
	cmd.Flags().String("base-url", "", "PhysioNet files root (default https://physionet.org/files)")
}

func runFetch(cmd *cobra.Command, args []string) error {
	client := &http.Client{Timeout: cfg.Fetch.Timeout}
	f := fetch.New(client, cfg, cmd.OutOrStdout(), log)
	_, err := f.FetchAll(cmd.Context(), cfg.Records)
	return err
}
