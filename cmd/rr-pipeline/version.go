package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version of rr-pipeline",
	// Skip config loading so version works with a broken config file.
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error { return nil },
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintf(cmd.OutOrStdout(), "rr-pipeline %s\n", version)
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
