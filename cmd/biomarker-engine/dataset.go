// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/duraxell/biomarker-engine/internal/dataset"
)

var datasetCmd = &cobra.Command{
	Use:   "dataset",
	Short: "Inspect recorded extraction runs (runs, stats)",
	Long: `Dataset inspects the SQLite run store written by extract --db. Use
subcommands to list recorded runs or to show field completeness for one
run.`,
}

// --- runs subcommand ---

var datasetRunsCmd = &cobra.Command{
	Use:   "runs",
	Short: "List recorded extraction runs, newest first",
	RunE:  runDatasetRuns,
}

func runDatasetRuns(cmd *cobra.Command, args []string) error {
	store, err := openStore(cmd)
	if err != nil {
		return err
	}
	defer store.Close()

	runs, err := store.Runs(context.Background())
	if err != nil {
		return err
	}

	jsonOutput, _ := cmd.Flags().GetBool("json")
	if jsonOutput {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(runs)
	}

	if len(runs) == 0 {
		fmt.Println("No runs recorded.")
		return nil
	}

	fmt.Fprintf(os.Stdout, "%-36s  %-8s  %-20s  %8s  %6s\n",
		"Run", "Type", "Started", "Patients", "Failed")
	fmt.Fprintln(os.Stdout, strings.Repeat("-", 86))
	for _, run := range runs {
		fmt.Fprintf(os.Stdout, "%-36s  %-8s  %-20s  %8d  %6d\n",
			run.ID, run.CancerType, run.StartedAt.Format(time.RFC3339),
			run.Patients, run.Failed)
	}
	fmt.Fprintf(os.Stdout, "\n%d run(s)\n", len(runs))
	return nil
}

// --- stats subcommand ---

var datasetStatsCmd = &cobra.Command{
	Use:   "stats [run-id]",
	Short: "Show field completeness for a run (default: latest)",
	RunE:  runDatasetStats,
}

func runDatasetStats(cmd *cobra.Command, args []string) error {
	store, err := openStore(cmd)
	if err != nil {
		return err
	}
	defer store.Close()

	run, err := store.LatestRun(context.Background())
	if err != nil {
		return err
	}
	if len(args) > 0 {
		runs, err := store.Runs(context.Background())
		if err != nil {
			return err
		}
		found := false
		for _, r := range runs {
			if r.ID == args[0] {
				run, found = r, true
				break
			}
		}
		if !found {
			return fmt.Errorf("run %s not found", args[0])
		}
	}

	counts, err := store.FieldCounts(context.Background(), run.ID)
	if err != nil {
		return err
	}

	fmt.Fprintf(os.Stdout, "run %s: %s, %d patient(s), %d failed\n\n",
		run.ID, run.CancerType, run.Patients, run.Failed)
	fmt.Fprintf(os.Stdout, "%-22s  %7s  %8s\n", "Field", "Count", "Percent")
	fmt.Fprintln(os.Stdout, strings.Repeat("-", 42))
	for _, fc := range counts {
		percent := 0.0
		if run.Patients > 0 {
			percent = float64(fc.Count) / float64(run.Patients) * 100
		}
		fmt.Fprintf(os.Stdout, "%-22s  %7d  %7.1f%%\n", fc.Field, fc.Count, percent)
	}
	return nil
}

// --- shared helpers ---

func openStore(cmd *cobra.Command) (*dataset.Store, error) {
	dbPath, _ := cmd.Flags().GetString("db")
	if dbPath == "" {
		dbPath = viper.GetString("db")
	}
	if dbPath == "" {
		return nil, fmt.Errorf("run store required: provide --db (as given to extract --db)")
	}
	return dataset.NewStore(dbPath)
}

func init() {
	// Shared flag on the parent command, inherited by subcommands.
	datasetCmd.PersistentFlags().String("db", "", "SQLite run store path")

	datasetRunsCmd.Flags().Bool("json", false, "output runs as JSON")

	datasetCmd.AddCommand(datasetRunsCmd)
	datasetCmd.AddCommand(datasetStatsCmd)

	rootCmd.AddCommand(datasetCmd)
}
