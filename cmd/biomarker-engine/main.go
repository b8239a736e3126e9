// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package main is the entry point for the biomarker-engine CLI.
// Implements: prd001-extraction, prd002-verification, prd003-profiles,
//             prd004-dataset, prd005-reporting (CLI surface).
// See docs/ARCHITECTURE § Pipeline Interface, § Project Structure.
package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/duraxell/biomarker-engine/internal/profile"
)

// version is set at build time via ldflags.
var version = "dev"

// rootCmd is the base command for the biomarker-engine CLI.
var rootCmd = &cobra.Command{
	Use:   "biomarker-engine",
	Short: "Extract and verify clinical biomarkers from FHIR bundles",
	Long: `biomarker-engine turns per-patient FHIR bundles (Synthea-style JSON) into
flat biomarker datasets for oncology research cohorts. Extraction is driven
by per-cancer-type profiles: controlled codes, keyword synonyms, and
categorization rules.

Each pipeline stage is a subcommand: extract builds the structured CSV,
verify checks required-marker coverage against a completeness gate,
profiles shows the configured rules, and dataset inspects recorded
extraction runs.`,
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().String("config", "", "config file (default: ./biomarker-engine.yaml or ~/.config/biomarker-engine/config.yaml)")
}

func initConfig() {
	cfgFile, _ := rootCmd.PersistentFlags().GetString("config")
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("biomarker-engine")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")

		home, err := os.UserHomeDir()
		if err == nil {
			viper.AddConfigPath(filepath.Join(home, ".config", "biomarker-engine"))
		}
	}

	viper.SetEnvPrefix("BIOMARKER_ENGINE")
	viper.AutomaticEnv()

	viper.SetDefault("cancer_type", "breast")
	viper.SetDefault("data_dir", "data")
	viper.SetDefault("threshold", 95.0)
	viper.SetDefault("workers", 1)

	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}
}

// loadProfiles builds the profile registry, applying the YAML overlay
// from --profiles (or the profiles config key) when given.
func loadProfiles(cmd *cobra.Command) (*profile.Registry, error) {
	reg := profile.NewRegistry()

	overlay, _ := cmd.Flags().GetString("profiles")
	if overlay == "" {
		overlay = viper.GetString("profiles")
	}
	if overlay != "" {
		if err := reg.LoadFile(overlay); err != nil {
			return nil, err
		}
	}
	return reg, nil
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
