// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package main is the entry point for the rr-pipeline CLI.
package main

import (
	"context"
	"os"
	"os/signal"

	"github.com/gookit/color"
	"github.com/spf13/cobra"

	"github.com/borngreat26/DSC106-ClusterFunks2/internal/config"
	"github.com/borngreat26/DSC106-ClusterFunks2/internal/logger"
	"github.com/borngreat26/DSC106-ClusterFunks2/internal/report"
	"github.com/borngreat26/DSC106-ClusterFunks2/pkg/types"
)

// version is set at build time via ldflags.
var version = "dev"

var (
	// cfg is the configuration for the running command, loaded once in
	// PersistentPreRunE.
	cfg types.PipelineConfig

	log = logger.NewNop()
)

// flagKeys maps command-line flags to configuration keys. A flag overrides
// the file and environment only when it is set.
var flagKeys = map[string]string{
	"records":    "records",
	"data-dir":   "data_dir",
	"csv":        "output.csv_path",
	"log-level":  "logging.level",
	"log-format": "logging.format",
	"timeout":    "fetch.timeout",
	"delay":      "fetch.download_delay",
	"retries":    "fetch.max_retries",
	"base-url":   "fetch.base_url",
	"threshold":  "filter.min_frequency",
	"summary":    "output.summary_path",
	"db":         "output.database_path",
	"plot-dir":   "output.plot_dir",
	"bins":       "plot.bins",
	"types":      "plot.type_symbols",
	"width":      "plot.width",
	"height":     "plot.height",
	"symbol":     "ectopy.symbol",
	"run-length": "ectopy.run_length",
}

// rootCmd is the base command for the rr-pipeline CLI.
var rootCmd = &cobra.Command{
	Use:   "rr-pipeline",
	Short: "Build and explore RR-interval tables from MIT-BIH arrhythmia records",
	Long: `rr-pipeline downloads MIT-BIH Arrhythmia Database records from PhysioNet,
derives beat-to-beat (RR) intervals from their reference annotations, and
persists one unified table as CSV.

preprocess runs the whole pipeline. The report commands (counts, shares,
stats, ectopy), plot and store read the persisted table.`,
	SilenceUsage:      true,
	PersistentPreRunE: loadConfig,
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		_ = log.Sync()
	},
}

func init() {
	pf := rootCmd.PersistentFlags()
	pf.String("config", "", "config file (default: ./rr-pipeline.yaml or ~/.config/rr-pipeline/rr-pipeline.yaml)")
	pf.StringSlice("records", nil, "record identifiers (default: 100-109, 111-115)")
	pf.String("data-dir", "", "directory holding record files (default mitdb)")
	pf.String("csv", "", "interval table path (default rr_intervals.csv)")
	pf.String("log-level", "", "log level: debug, info, warn, error")
	pf.String("log-format", "", "log format: text or json")
	pf.Bool("no-color", false, "disable coloured report output")
}

func loadConfig(cmd *cobra.Command, args []string) error {
	cfgFile, _ := cmd.Flags().GetString("config")
	v := config.New(cfgFile)

	for name, key := range flagKeys {
		if f := cmd.Flags().Lookup(name); f != nil {
			if err := v.BindPFlag(key, f); err != nil {
				return err
			}
		}
	}

	loaded, err := config.Load(v)
	if err != nil {
		return err
	}
	cfg = loaded
	log = logger.New(cfg.Logging)

	if used := v.ConfigFileUsed(); used != "" {
		log.Debugw("using config file", "path", used)
	}
	return nil
}

// printer returns a report printer writing to the command's output.
func printer(cmd *cobra.Command) report.Printer {
	noColor, _ := cmd.Flags().GetBool("no-color")
	return report.Printer{
		W:     cmd.OutOrStdout(),
		Color: !noColor && color.SupportColor(),
	}
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	err := rootCmd.ExecuteContext(ctx)
	stop()
	if err != nil {
		os.Exit(1)
	}
}
