// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"github.com/spf13/cobra"

	"github.com/borngreat26/DSC106-ClusterFunks2/internal/plot"
	"github.com/borngreat26/DSC106-ClusterFunks2/internal/table"
)

var plotCmd = &cobra.Command{
	Use:   "plot",
	Short: "Render histograms and the RR time series as PNG",
	Long: `Plot reads the interval table and writes three images into the plot
directory: hist_rr_intervals.png (all intervals), hist_rr_by_type_subplots.png
(one histogram per selected code, stacked) and rr_timeseries.png (one line
per record).`,
	RunE: func(cmd *cobra.Command, args []string) error {
		rows, err := table.ReadFile(cfg.Output.CSVPath)
		if err != nil {
			return err
		}
		_, err = plot.New(cfg, cmd.OutOrStdout(), log).All(rows)
		return err
	},
}

func init() {
	plotCmd.Flags().String("plot-dir", "", "output directory for images (default .)")
	plotCmd.Flags().Int("bins", 0, "histogram bins (default 50)")
	plotCmd.Flags().StringSlice("types", nil, "codes given their own histogram (default N,A,V)")
	plotCmd.Flags().Int("width", 0, "chart width in pixels (default 800)")
	plotCmd.Flags().Int("height", 0, "chart height in pixels (default 400)")

	rootCmd.AddCommand(plotCmd)
}
