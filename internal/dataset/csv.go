// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package dataset writes extracted biomarker records to their output
// sinks: a structured CSV and an optional SQLite run store.
// Implements: prd004-dataset (R1-R4);
//
//	docs/ARCHITECTURE § Dataset.
package dataset

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"os"

	"github.com/duraxell/biomarker-engine/pkg/types"
)

// FileName returns the conventional dataset file name for a cancer type.
func FileName(ct types.CancerType) string {
	return fmt.Sprintf("duraxell_dataset_%s_structured.csv", ct)
}

// WriteCSV writes one row per patient record under a header row in the
// profile's column order. Absent fields become empty cells; numeric
// fields render without trailing zeros.
func WriteCSV(path string, columns []string, records []types.PatientRecord) error {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)

	if err := w.Write(columns); err != nil {
		return fmt.Errorf("writing dataset header: %w", err)
	}
	row := make([]string, len(columns))
	for _, rec := range records {
		for i, col := range columns {
			row[i] = rec.Record.Text(col)
		}
		if err := w.Write(row); err != nil {
			return fmt.Errorf("writing dataset row for %s: %w", rec.Patient, err)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return fmt.Errorf("encoding dataset: %w", err)
	}

	if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
		return fmt.Errorf("writing dataset file %s: %w", path, err)
	}
	return nil
}
