// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/borngreat26/DSC106-ClusterFunks2/internal/store"
	"github.com/borngreat26/DSC106-ClusterFunks2/internal/table"
)

var storeCmd = &cobra.Command{
	Use:   "store",
	Short: "Load the interval table into SQLite and query it",
	Long: `Store keeps a copy of the interval table in a SQLite database so it can
be filtered by record, annotation code and time window. Use export to load
the table and query to read it back.`,
}

// --- export subcommand ---

var storeExportCmd = &cobra.Command{
	Use:   "export",
	Short: "Replace the database contents with the interval table",
	RunE: func(cmd *cobra.Command, args []string) error {
		rows, err := table.ReadFile(cfg.Output.CSVPath)
		if err != nil {
			return err
		}

		s, err := store.Open(cfg.Output.DatabasePath)
		if err != nil {
			return err
		}
		defer s.Close()

		n, err := s.Replace(cmd.Context(), rows)
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Exported %d rows to %s\n", n, s.Path())
		return nil
	},
}

// --- query subcommand ---

var storeQueryCmd = &cobra.Command{
	Use:   "query",
	Short: "Query stored intervals by record, code and time window",
	Long: `Query prints stored rows ordered by record and time. Filters combine
with AND; --annotation may be repeated to match any of several codes.

With --records-only or --counts it prints the distinct record ids or the
per-code row counts instead.`,
	RunE: runStoreQuery,
}

func runStoreQuery(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	out := cmd.OutOrStdout()

	s, err := store.Open(cfg.Output.DatabasePath)
	if err != nil {
		return err
	}
	defer s.Close()

	if recordsOnly, _ := cmd.Flags().GetBool("records-only"); recordsOnly {
		ids, err := s.Records(ctx)
		if err != nil {
			return err
		}
		for _, id := range ids {
			fmt.Fprintln(out, id)
		}
		return nil
	}

	if counts, _ := cmd.Flags().GetBool("counts"); counts {
		cc, err := s.Counts(ctx)
		if err != nil {
			return err
		}
		for _, c := range cc {
			fmt.Fprintf(out, "%s\t%d\n", c.Code, c.Count)
		}
		return nil
	}

	var q store.Query
	q.RecordID, _ = cmd.Flags().GetString("record")
	q.Annotations, _ = cmd.Flags().GetStringSlice("annotation")
	q.From, _ = cmd.Flags().GetFloat64("from")
	q.To, _ = cmd.Flags().GetFloat64("to")
	q.Limit, _ = cmd.Flags().GetInt("limit")
	if q.To > 0 && q.From > q.To {
		return fmt.Errorf("--from (%g) is after --to (%g)", q.From, q.To)
	}

	rows, err := s.Query(ctx, q)
	if err != nil {
		return err
	}
	format, _ := cmd.Flags().GetString("format")
	return store.Encode(out, rows, format)
}

func init() {
	for _, c := range []*cobra.Command{storeExportCmd, storeQueryCmd} {
		c.Flags().String("db", "", "SQLite database path (default rr_intervals.db)")
	}

	storeQueryCmd.Flags().String("record", "", "only rows from this record")
	storeQueryCmd.Flags().StringSlice("annotation", nil, "only rows with these codes")
	storeQueryCmd.Flags().Float64("from", 0, "earliest time_sec (inclusive)")
	storeQueryCmd.Flags().Float64("to", 0, "latest time_sec (inclusive, 0 for no limit)")
	storeQueryCmd.Flags().Int("limit", 0, "maximum rows (0 for all)")
	storeQueryCmd.Flags().String("format", store.FormatCSV, "output format: csv, json or yaml")
	storeQueryCmd.Flags().Bool("records-only", false, "list distinct record ids")
	storeQueryCmd.Flags().Bool("counts", false, "list row counts per code")

	storeCmd.AddCommand(storeExportCmd, storeQueryCmd)
	rootCmd.AddCommand(storeCmd)
}
