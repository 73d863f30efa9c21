// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package config loads the pipeline configuration from defaults, an optional
// YAML file, environment variables, and flags bound through viper.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"

	"github.com/borngreat26/DSC106-ClusterFunks2/pkg/types"
)

const (
	// ConfigName is the base name of the optional config file.
	ConfigName = "rr-pipeline"

	// EnvPrefix prefixes environment overrides, e.g. RR_PIPELINE_DATA_DIR.
	EnvPrefix = "RR_PIPELINE"
)

// New returns a viper instance that searches ./rr-pipeline.yaml and
// ~/.config/rr-pipeline/config.yaml, or reads cfgFile when it is set.
func New(cfgFile string) *viper.Viper {
	v := viper.New()
	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
	} else {
		v.SetConfigName(ConfigName)
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		if home, err := os.UserHomeDir(); err == nil {
			v.AddConfigPath(filepath.Join(home, ".config", ConfigName))
		}
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	return v
}

// Load reads the config file (if one is found) and unmarshals it over
// types.DefaultConfig. A missing file is not an error unless it was named
// explicitly. The result is validated before it is returned.
func Load(v *viper.Viper) (types.PipelineConfig, error) {
	cfg := types.DefaultConfig()
	registerDefaults(v, cfg)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return cfg, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	if err := v.Unmarshal(&cfg); err != nil {
		return cfg, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := Validate(cfg); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// registerDefaults makes every key known to viper so that AutomaticEnv
// overrides apply during Unmarshal even when no file sets the key.
func registerDefaults(v *viper.Viper, cfg types.PipelineConfig) {
	v.SetDefault("records", cfg.Records)
	v.SetDefault("data_dir", cfg.DataDir)
	v.SetDefault("annotator", cfg.Annotator)

	v.SetDefault("fetch.timeout", cfg.Fetch.Timeout)
	v.SetDefault("fetch.user_agent", cfg.Fetch.UserAgent)
	v.SetDefault("fetch.max_retries", cfg.Fetch.MaxRetries)
	v.SetDefault("fetch.base_url", cfg.Fetch.BaseURL)
	v.SetDefault("fetch.database", cfg.Fetch.Database)
	v.SetDefault("fetch.version", cfg.Fetch.Version)
	v.SetDefault("fetch.download_delay", cfg.Fetch.DownloadDelay)

	v.SetDefault("filter.min_frequency", cfg.Filter.MinFrequency)

	v.SetDefault("output.csv_path", cfg.Output.CSVPath)
	v.SetDefault("output.summary_path", cfg.Output.SummaryPath)
	v.SetDefault("output.database_path", cfg.Output.DatabasePath)
	v.SetDefault("output.plot_dir", cfg.Output.PlotDir)

	v.SetDefault("plot.bins", cfg.Plot.Bins)
	v.SetDefault("plot.type_symbols", cfg.Plot.TypeSymbols)
	v.SetDefault("plot.width", cfg.Plot.Width)
	v.SetDefault("plot.height", cfg.Plot.Height)

	v.SetDefault("ectopy.symbol", cfg.Ectopy.Symbol)
	v.SetDefault("ectopy.run_length", cfg.Ectopy.RunLength)

	v.SetDefault("logging.level", cfg.Logging.Level)
	v.SetDefault("logging.format", cfg.Logging.Format)
	v.SetDefault("logging.output", cfg.Logging.Output)
}
