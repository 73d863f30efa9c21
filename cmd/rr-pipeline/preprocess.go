// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"
	"net/http"

	"github.com/spf13/cobra"

	"github.com/borngreat26/DSC106-ClusterFunks2/internal/pipeline"
	"github.com/borngreat26/DSC106-ClusterFunks2/internal/store"
	"github.com/borngreat26/DSC106-ClusterFunks2/internal/table"
)

var preprocessCmd = &cobra.Command{
	Use:   "preprocess",
	Short: "Fetch records, derive RR intervals and save the table",
	Long: `Preprocess runs the full pipeline: fetch every configured record,
derive RR intervals from its reference annotations, concatenate the
per-record tables, drop annotation codes rarer than the threshold, and
save the table as CSV together with a YAML run summary.

With --export-db the saved table is also loaded into the SQLite store.`,
	RunE: runPreprocess,
}

func init() {
	addHTTPFlags(preprocessCmd)
	preprocessCmd.Flags().Float64("threshold", 0, "minimum share of rows a code needs to be kept (default 0.001)")
	preprocessCmd.Flags().String("summary", "", "run summary path (default rr_summary.yaml)")
	preprocessCmd.Flags().String("db", "", "SQLite database path (default rr_intervals.db)")
	preprocessCmd.Flags().Bool("export-db", false, "also load the table into the SQLite store")

	rootCmd.AddCommand(preprocessCmd)
}

func runPreprocess(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	out := cmd.OutOrStdout()
	client := &http.Client{Timeout: cfg.Fetch.Timeout}

	summary, err := pipeline.Run(ctx, cfg, client, out, log)
	if err != nil {
		return err
	}

	exportDB, _ := cmd.Flags().GetBool("export-db")
	if !exportDB {
		return nil
	}

	rows, err := table.ReadFile(cfg.Output.CSVPath)
	if err != nil {
		return err
	}
	s, err := store.Open(cfg.Output.DatabasePath)
	if err != nil {
		return err
	}
	defer s.Close()

	n, err := s.Replace(ctx, rows)
	if err != nil {
		return err
	}
	fmt.Fprintf(out, "Exported %d rows to %s\n", n, s.Path())

	summary.Database = s.Path()
	if cfg.Output.SummaryPath != "" {
		return pipeline.WriteSummary(cfg.Output.SummaryPath, summary)
	}
	return nil
}
