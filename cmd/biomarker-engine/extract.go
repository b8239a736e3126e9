package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/duraxell/biomarker-engine/internal/dataset"
	"github.com/duraxell/biomarker-engine/internal/extract"
	"github.com/duraxell/biomarker-engine/internal/report"
	"github.com/duraxell/biomarker-engine/pkg/types"
)

var extractCmd = &cobra.Command{
	Use:   "extract [data-dir]",
	Short: "Extract biomarker records from FHIR bundles into a CSV dataset",
	Long: `Extract loads every bundle under <data-dir>/fhir/, applies the cancer-type
profile, and writes one flat biomarker record per patient to a structured
CSV. Bundles that fail to parse are reported and skipped; the batch
continues. With --db, the run and its records are also saved to a SQLite
run store for later comparison.`,
	RunE: runExtract,
}

func init() {
	extractCmd.Flags().String("cancer-type", "", "cancer type profile: breast or lung")
	extractCmd.Flags().String("out", "", "output CSV path (default <data-dir>/duraxell_dataset_<type>_structured.csv)")
	extractCmd.Flags().String("db", "", "optional SQLite run store path")
	extractCmd.Flags().String("profiles", "", "YAML profile overlay file")
	extractCmd.Flags().Int("workers", 0, "parallel bundle workers (default 1)")

	rootCmd.AddCommand(extractCmd)
}

func runExtract(cmd *cobra.Command, args []string) error {
	dataDir := viper.GetString("data_dir")
	if len(args) > 0 {
		dataDir = args[0]
	}
	cancerType, _ := cmd.Flags().GetString("cancer-type")
	if cancerType == "" {
		cancerType = viper.GetString("cancer_type")
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

	outPath, _ := cmd.Flags().GetString("out")
	if outPath == "" {
		outPath = filepath.Join(dataDir, dataset.FileName(prof.CancerType))
	}
	dbPath, _ := cmd.Flags().GetString("db")
	profilesFile, _ := cmd.Flags().GetString("profiles")

	cfg := types.ExtractConfig{
		DataDir:      dataDir,
		CancerType:   prof.CancerType,
		OutFile:      outPath,
		DBPath:       dbPath,
		ProfilesFile: profilesFile,
		Workers:      workers,
	}

	started := time.Now()
	records, summary, err := extract.ExtractAll(context.Background(), prof, cfg, os.Stdout)
	if err != nil {
		return err
	}

	if err := dataset.WriteCSV(cfg.OutFile, prof.Columns, records); err != nil {
		return err
	}
	fmt.Printf("\nwrote %d record(s) to %s\n", len(records), cfg.OutFile)

	if cfg.DBPath != "" {
		store, err := dataset.NewStore(cfg.DBPath)
		if err != nil {
			return err
		}
		defer store.Close()

		run := dataset.NewRun(prof.CancerType, started, summary.Extracted, summary.Failed)
		if err := store.SaveRun(context.Background(), run, records); err != nil {
			return err
		}
		fmt.Printf("recorded run %s in %s\n", run.ID, cfg.DBPath)
	}

	report.ExtractionSummary(os.Stdout, prof, records, summary.Failed)
	return nil
}
