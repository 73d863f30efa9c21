// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"github.com/spf13/cobra"

	"github.com/borngreat26/DSC106-ClusterFunks2/internal/report"
	"github.com/borngreat26/DSC106-ClusterFunks2/internal/table"
)

var countsCmd = &cobra.Command{
	Use:   "counts",
	Short: "Print the frequency of each annotation code",
	Long: `Counts reads the interval table and prints the total row count, then
one line per annotation code with its count and percentage, most frequent
first.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		rows, err := table.ReadFile(cfg.Output.CSVPath)
		if err != nil {
			return err
		}
		printer(cmd).Counts(rows)
		return nil
	},
}

var sharesCmd = &cobra.Command{
	Use:   "shares",
	Short: "Print the normalized share of each annotation code",
	RunE: func(cmd *cobra.Command, args []string) error {
		rows, err := table.ReadFile(cfg.Output.CSVPath)
		if err != nil {
			return err
		}
		printer(cmd).Shares(rows)
		return nil
	},
}

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Print RR interval statistics per annotation code",
	Long: `Stats prints count, mean, standard deviation, minimum, quartiles and
maximum of rr_ms for every annotation code and for the whole table.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		rows, err := table.ReadFile(cfg.Output.CSVPath)
		if err != nil {
			return err
		}
		printer(cmd).Stats(rows)
		return nil
	},
}

var ectopyCmd = &cobra.Command{
	Use:   "ectopy",
	Short: "List runs of consecutive ectopic beats",
	Long: `Ectopy finds runs of at least --run-length consecutive rows carrying
--symbol within one record (by default three or more ventricular beats)
and prints the record, start and end time, and length of each run.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		rows, err := table.ReadFile(cfg.Output.CSVPath)
		if err != nil {
			return err
		}
		runs := report.Runs(rows, cfg.Ectopy.Symbol, cfg.Ectopy.RunLength)
		log.Debugw("ectopy", "rows", len(rows), "runs", len(runs))
		printer(cmd).Runs(runs, cfg.Ectopy.Symbol, cfg.Ectopy.RunLength)
		return nil
	},
}

func init() {
	ectopyCmd.Flags().String("symbol", "", "annotation code to search for (default V)")
	ectopyCmd.Flags().Int("run-length", 0, "minimum run length (default 3)")

	rootCmd.AddCommand(countsCmd, sharesCmd, statsCmd, ectopyCmd)
}
