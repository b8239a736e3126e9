// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package verify

import (
	"context"
	"fmt"
	"io"

	"github.com/duraxell/biomarker-engine/internal/fhir"
	"github.com/duraxell/biomarker-engine/internal/profile"
	"github.com/duraxell/biomarker-engine/internal/worker"
	"github.com/duraxell/biomarker-engine/pkg/types"
)

type outcome struct {
	label string
	cov   Coverage
	err   error
}

// VerifyAll checks required-marker coverage for every bundle under the
// data directory and aggregates the outcomes into a report. Bundles that
// fail to load are counted and written to w as warnings; they never
// abort the run.
func VerifyAll(ctx context.Context, prof *profile.Profile, cfg types.VerifyConfig, w io.Writer) (*Report, error) {
	paths, err := fhir.ListBundles(cfg.DataDir)
	if err != nil {
		return nil, err
	}

	outcomes, err := worker.Map(ctx, cfg.Workers, paths, func(path string) outcome {
		label := fhir.PatientLabel(path)
		b, err := fhir.LoadBundle(path)
		if err != nil {
			return outcome{label: label, err: err}
		}
		return outcome{label: label, cov: VerifyBundle(b, prof, label)}
	})
	if err != nil {
		return nil, err
	}

	var covs []Coverage
	failed := 0
	total := len(prof.Required)
	for _, o := range outcomes {
		if o.err != nil {
			failed++
			fmt.Fprintf(w, "failed  %s: %v\n", o.label, o.err)
			continue
		}
		covs = append(covs, o.cov)
		fmt.Fprintf(w, "verified %s (%d/%d markers)\n", o.label, len(o.cov.Found), total)
	}
	return Aggregate(prof, covs, failed), nil
}
