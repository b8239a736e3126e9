package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/duraxell/biomarker-engine/pkg/types"
)

var profilesCmd = &cobra.Command{
	Use:   "profiles [cancer-type]",
	Short: "List configured biomarker profiles",
	Long: `Profiles lists the configured cancer types and their rule counts. With a
cancer type argument it prints the full capture table: controlled codes,
keyword synonyms, output columns, and the required marker set.`,
	RunE: runProfiles,
}

func init() {
	profilesCmd.Flags().String("profiles", "", "YAML profile overlay file")

	rootCmd.AddCommand(profilesCmd)
}

func runProfiles(cmd *cobra.Command, args []string) error {
	reg, err := loadProfiles(cmd)
	if err != nil {
		return err
	}

	if len(args) == 0 {
		fmt.Fprintf(os.Stdout, "%-12s  %8s  %8s  %7s\n", "Type", "Captures", "Required", "Columns")
		fmt.Fprintln(os.Stdout, strings.Repeat("-", 43))
		for _, ct := range reg.Types() {
			prof, err := reg.Lookup(ct)
			if err != nil {
				return err
			}
			fmt.Fprintf(os.Stdout, "%-12s  %8d  %8d  %7d\n",
				ct, len(prof.Captures), len(prof.Required), len(prof.Columns))
		}
		return nil
	}

	prof, err := reg.Lookup(types.CancerType(args[0]))
	if err != nil {
		return err
	}

	fmt.Fprintf(os.Stdout, "%s: %d captures, %d required markers, %d columns\n\n",
		prof.CancerType, len(prof.Captures), len(prof.Required), len(prof.Columns))

	fmt.Fprintf(os.Stdout, "%-20s  %-18s  %-34s  %s\n", "Capture", "Codes", "Keywords", "Columns")
	fmt.Fprintln(os.Stdout, strings.Repeat("-", 100))
	for _, cpt := range prof.Captures {
		keywords := strings.Join(cpt.Keywords, ", ")
		if len(keywords) > 34 {
			keywords = keywords[:31] + "..."
		}
		columns := cpt.Column
		if cpt.StatusColumn != "" {
			columns += " + " + cpt.StatusColumn
		}
		fmt.Fprintf(os.Stdout, "%-20s  %-18s  %-34s  %s\n",
			cpt.Name, strings.Join(cpt.Codes, ","), keywords, columns)
	}

	fmt.Fprintf(os.Stdout, "\nrequired markers: %s\n", strings.Join(prof.RequiredNames(), ", "))
	fmt.Fprintf(os.Stdout, "column order: %s\n", strings.Join(prof.Columns, ", "))
	return nil
}
