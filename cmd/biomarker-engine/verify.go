package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.yaml.in/yaml/v3"

	"github.com/duraxell/biomarker-engine/internal/report"
	"github.com/duraxell/biomarker-engine/internal/verify"
	"github.com/duraxell/biomarker-engine/pkg/types"
)

var verifyCmd = &cobra.Command{
	Use:   "verify [data-dir]",
	Short: "Check required biomarker coverage across a bundle cohort",
	Long: `Verify scans every bundle under <data-dir>/fhir/ and checks which of the
profile's required biomarkers are present, by controlled code or keyword
synonym. The command fails when any marker's coverage falls below the
threshold or any patient is missing a required marker.`,
	RunE: runVerify,
}

func init() {
	verifyCmd.Flags().String("cancer-type", "", "cancer type profile: breast or lung")
	verifyCmd.Flags().Float64("threshold", 0, "minimum per-marker coverage percent (default 95)")
	verifyCmd.Flags().String("profiles", "", "YAML profile overlay file")
	verifyCmd.Flags().String("out", "", "write the coverage report to a YAML file")
	verifyCmd.Flags().Bool("json", false, "output the report as JSON")
	verifyCmd.Flags().Int("workers", 0, "parallel bundle workers (default 1)")

	rootCmd.AddCommand(verifyCmd)
}

func runVerify(cmd *cobra.Command, args []string) error {
	dataDir := viper.GetString("data_dir")
	if len(args) > 0 {
		dataDir = args[0]
	}
	cancerType, _ := cmd.Flags().GetString("cancer-type")
	if cancerType == "" {
		cancerType = viper.GetString("cancer_type")
	}
	threshold, _ := cmd.Flags().GetFloat64("threshold")
	if threshold == 0 {
		threshold = viper.GetFloat64("threshold")
	}
	workers, _ := cmd.Flags().GetInt("workers")
	if workers == 0 {
		workers = viper.GetInt("workers")
	}

	reg, err := loadProfiles(cmd)
	if err != nil {
		return err
	}
	prof, err := reg.Lookup(types.CancerType(cancerType))
	if err != nil {
		return err
	}

	cfg := types.VerifyConfig{
		DataDir:    dataDir,
		CancerType: prof.CancerType,
		Threshold:  threshold,
		Workers:    workers,
	}

	// Keep stdout clean for the JSON document; progress goes to stderr.
	jsonOutput, _ := cmd.Flags().GetBool("json")
	progress := io.Writer(os.Stdout)
	if jsonOutput {
		progress = os.Stderr
	}

	rep, err := verify.VerifyAll(context.Background(), prof, cfg, progress)
	if err != nil {
		return err
	}

	if jsonOutput {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		if err := enc.Encode(rep); err != nil {
			return err
		}
	} else {
		report.CoverageReport(os.Stdout, rep, threshold)
	}

	if outPath, _ := cmd.Flags().GetString("out"); outPath != "" {
		data, err := yaml.Marshal(rep)
		if err != nil {
			return fmt.Errorf("encoding report: %w", err)
		}
		if err := os.WriteFile(outPath, data, 0o644); err != nil {
			return fmt.Errorf("writing report %s: %w", outPath, err)
		}
		if !jsonOutput {
			fmt.Printf("wrote report to %s\n", outPath)
		}
	}

	if !rep.Passes(threshold) {
		return fmt.Errorf("coverage gate failed: %d marker(s) below %.1f%%, %d patient(s) incomplete",
			len(rep.BelowThreshold(threshold)), threshold, len(rep.Incomplete))
	}
	return nil
}
