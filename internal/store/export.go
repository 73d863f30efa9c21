// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package store

import (
	"encoding/json"
	"fmt"
	"io"

	"go.yaml.in/yaml/v3"

	"github.com/borngreat26/DSC106-ClusterFunks2/internal/table"
	"github.com/borngreat26/DSC106-ClusterFunks2/pkg/types"
)

// Output formats accepted by Encode.
const (
	FormatCSV  = "csv"
	FormatJSON = "json"
	FormatYAML = "yaml"
)

// Encode writes query results to w as CSV, JSON or YAML.
func Encode(w io.Writer, rows []types.Interval, format string) error {
	switch format {
	case FormatCSV, "":
		return table.Write(w, rows)
	case FormatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		if err := enc.Encode(rows); err != nil {
			return fmt.Errorf("marshaling JSON: %w", err)
		}
		return nil
	case FormatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(rows); err != nil {
			return fmt.Errorf("marshaling YAML: %w", err)
		}
		return enc.Close()
	default:
		return fmt.Errorf("unknown format %q (want csv, json or yaml)", format)
	}
}
