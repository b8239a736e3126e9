// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package report renders extraction and coverage results for the
// console.
// Implements: prd005-reporting (R1-R3);
//
//	docs/ARCHITECTURE § Reporting.
package report

import (
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/duraxell/biomarker-engine/internal/profile"
	"github.com/duraxell/biomarker-engine/internal/verify"
	"github.com/duraxell/biomarker-engine/pkg/types"
)

const (
	// markOK and markWarn are the completeness bands for table flags.
	markOK   = 95
	markWarn = 80

	previewRows = 3
	missingRows = 5
)

func mark(percent float64) string {
	switch {
	case percent >= markOK:
		return "OK"
	case percent >= markWarn:
		return "WARN"
	default:
		return "LOW"
	}
}

func trunc(s string, n int) string {
	if len(s) > n {
		return s[:n-3] + "..."
	}
	return s
}

type fieldStat struct {
	column  string
	count   int
	percent float64
}

// fieldStats counts non-absent fields per column, excluding patient_id.
// Sorted by count descending; ties keep profile column order.
func fieldStats(columns []string, records []types.PatientRecord) []fieldStat {
	stats := make([]fieldStat, 0, len(columns))
	for _, col := range columns {
		if col == profile.ColPatientID {
			continue
		}
		n := 0
		for _, rec := range records {
			if rec.Record.Has(col) {
				n++
			}
		}
		stats = append(stats, fieldStat{
			column:  col,
			count:   n,
			percent: float64(n) / float64(len(records)) * 100,
		})
	}
	sort.SliceStable(stats, func(i, j int) bool { return stats[i].count > stats[j].count })
	return stats
}

// ExtractionSummary writes the batch counters, a field completeness
// table, and a preview of the first extracted records (R1.1-R1.3).
func ExtractionSummary(w io.Writer, prof *profile.Profile, records []types.PatientRecord, failed int) {
	total := len(records) + failed
	fmt.Fprintf(w, "\nprocessed %d bundles: %d extracted, %d failed\n", total, len(records), failed)
	if len(records) == 0 {
		return
	}

	fmt.Fprintf(w, "\n%-22s  %7s  %8s\n", "Field", "Count", "Percent")
	fmt.Fprintln(w, strings.Repeat("-", 46))
	for _, fs := range fieldStats(prof.Columns, records) {
		fmt.Fprintf(w, "%-22s  %7d  %7.1f%%  %s\n", fs.column, fs.count, fs.percent, mark(fs.percent))
	}

	preview := records
	if len(preview) > previewRows {
		preview = preview[:previewRows]
	}
	fmt.Fprintf(w, "\nfirst %d record(s):\n", len(preview))
	writeRow(w, prof.PreviewColumns)
	fmt.Fprintln(w, strings.Repeat("-", 16*len(prof.PreviewColumns)))
	for _, rec := range preview {
		cells := make([]string, len(prof.PreviewColumns))
		for i, col := range prof.PreviewColumns {
			cells[i] = rec.Record.Text(col)
		}
		writeRow(w, cells)
	}
}

func writeRow(w io.Writer, cells []string) {
	for i, cell := range cells {
		if i < len(cells)-1 {
			fmt.Fprintf(w, "%-16s", trunc(cell, 14))
		} else {
			fmt.Fprint(w, trunc(cell, 14))
		}
	}
	fmt.Fprintln(w)
}

// CoverageReport writes per-marker coverage, the patients with missing
// markers, and the gate verdict (R2.1-R2.4).
func CoverageReport(w io.Writer, rep *verify.Report, threshold float64) {
	fmt.Fprintf(w, "\ncoverage for %s: %d patient(s), %d failed\n\n", rep.CancerType, rep.Patients, rep.Failed)

	fmt.Fprintf(w, "%-18s  %7s  %8s\n", "Marker", "Found", "Percent")
	fmt.Fprintln(w, strings.Repeat("-", 42))
	for _, m := range rep.Markers {
		fmt.Fprintf(w, "%-18s  %7d  %7.1f%%  %s\n", m.Marker, m.Found, m.Percent, mark(m.Percent))
	}

	if len(rep.Incomplete) > 0 {
		shown := rep.Incomplete
		more := 0
		if len(shown) > missingRows {
			more = len(shown) - missingRows
			shown = shown[:missingRows]
		}
		fmt.Fprintf(w, "\npatient(s) with missing markers:\n")
		for _, cov := range shown {
			fmt.Fprintf(w, "  %-22s  missing %s\n", trunc(cov.Patient, 20), strings.Join(cov.Missing, ", "))
		}
		if more > 0 {
			fmt.Fprintf(w, "  ... and %d more\n", more)
		}
	}

	if rep.Passes(threshold) {
		fmt.Fprintf(w, "\nPASS: all markers at or above %.1f%% coverage\n", threshold)
	} else {
		fmt.Fprintf(w, "\nFAIL: %d marker(s) below %.1f%%, %d patient(s) incomplete\n",
			len(rep.BelowThreshold(threshold)), threshold, len(rep.Incomplete))
	}
}
