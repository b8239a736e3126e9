// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package extract

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/duraxell/biomarker-engine/internal/fhir"
	"github.com/duraxell/biomarker-engine/internal/profile"
	"github.com/duraxell/biomarker-engine/internal/worker"
	"github.com/duraxell/biomarker-engine/pkg/types"
)

// BatchSummary holds counts from a batch extraction run (R6.4).
type BatchSummary struct {
	Extracted int
	Failed    int
}

// Total returns the number of bundles processed.
func (s BatchSummary) Total() int {
	return s.Extracted + s.Failed
}

// HasFailures reports whether any bundles failed (R6.5).
func (s BatchSummary) HasFailures() bool {
	return s.Failed > 0
}

// ExtractAll loads every bundle under cfg.DataDir and extracts one record
// per patient, in bundle file order. Per-bundle failures are written to w
// and counted, never fatal; a missing data directory or an empty bundle
// set aborts before any work starts. Workers above one process bundles
// concurrently with byte-identical output. Per prd001-extraction R6.1-R6.3.
func ExtractAll(ctx context.Context, prof *profile.Profile, cfg types.ExtractConfig, w io.Writer) ([]types.PatientRecord, BatchSummary, error) {
	paths, err := fhir.ListBundles(cfg.DataDir)
	if err != nil {
		return nil, BatchSummary{}, err
	}

	// One timestamp for the whole batch keeps derived ages consistent
	// across bundles and worker counts.
	now := time.Now()

	type outcome struct {
		label string
		rec   types.Record
		err   error
	}
	outcomes, err := worker.Map(ctx, cfg.Workers, paths, func(path string) outcome {
		label := fhir.PatientLabel(path)
		b, err := fhir.LoadBundle(path)
		if err != nil {
			return outcome{label: label, err: err}
		}
		return outcome{label: label, rec: ExtractBundle(b, prof, now)}
	})
	if err != nil {
		return nil, BatchSummary{}, err
	}

	var summary BatchSummary
	results := make([]types.PatientRecord, 0, len(outcomes))
	for _, o := range outcomes {
		if o.err != nil {
			fmt.Fprintf(w, "failed  %s: %v\n", o.label, o.err)
			summary.Failed++
			continue
		}
		fmt.Fprintf(w, "extracted %s (%d fields)\n", o.label, len(o.rec))
		summary.Extracted++
		results = append(results, types.PatientRecord{Patient: o.label, Record: o.rec})
	}
	return results, summary, nil
}
