// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package verify

import (
	"sort"

	"github.com/duraxell/biomarker-engine/internal/profile"
	"github.com/duraxell/biomarker-engine/pkg/types"
)

// MarkerStats aggregates one required marker across the cohort.
type MarkerStats struct {
	Marker  string  `json:"marker" yaml:"marker"`
	Found   int     `json:"found" yaml:"found"`
	Percent float64 `json:"percent" yaml:"percent"`
}

// Report is the dataset-level coverage report. Incomplete lists every
// patient with at least one missing marker, sorted by patient label.
type Report struct {
	CancerType types.CancerType `json:"cancer_type" yaml:"cancer_type"`
	Patients   int              `json:"patients" yaml:"patients"`
	Failed     int              `json:"failed" yaml:"failed"`
	Markers    []MarkerStats    `json:"markers" yaml:"markers"`
	Incomplete []Coverage       `json:"incomplete,omitempty" yaml:"incomplete,omitempty"`
}

// Aggregate folds per-patient coverage into a report. The fold is
// commutative: totals depend only on the set of coverages, never on the
// order bundles finished in.
func Aggregate(prof *profile.Profile, covs []Coverage, failed int) *Report {
	rep := &Report{
		CancerType: prof.CancerType,
		Patients:   len(covs),
		Failed:     failed,
	}

	counts := make(map[string]int, len(prof.Required))
	for _, m := range prof.Required {
		counts[m.Name] = 0
	}
	for _, cov := range covs {
		for _, name := range cov.Found {
			counts[name]++
		}
		if !cov.Complete() {
			rep.Incomplete = append(rep.Incomplete, cov)
		}
	}

	rep.Markers = make([]MarkerStats, 0, len(counts))
	for name, n := range counts {
		stat := MarkerStats{Marker: name, Found: n}
		if rep.Patients > 0 {
			stat.Percent = float64(n) / float64(rep.Patients) * 100
		}
		rep.Markers = append(rep.Markers, stat)
	}
	sort.Slice(rep.Markers, func(i, j int) bool {
		return rep.Markers[i].Marker < rep.Markers[j].Marker
	})
	sort.Slice(rep.Incomplete, func(i, j int) bool {
		return rep.Incomplete[i].Patient < rep.Incomplete[j].Patient
	})
	return rep
}

// BelowThreshold returns the markers whose coverage percentage is under
// the threshold, in name order.
func (r *Report) BelowThreshold(threshold float64) []MarkerStats {
	var out []MarkerStats
	for _, m := range r.Markers {
		if m.Percent < threshold {
			out = append(out, m)
		}
	}
	return out
}

// Passes reports whether the dataset clears the coverage gate: every
// marker at or above the threshold and no incomplete patients.
func (r *Report) Passes(threshold float64) bool {
	return len(r.Incomplete) == 0 && len(r.BelowThreshold(threshold)) == 0
}
