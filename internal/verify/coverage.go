// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package verify checks that required biomarkers are present in patient
// bundles. Coverage is concept presence only; observation values are
// never read.
// Implements: prd002-verification (R1-R4);
//
//	docs/ARCHITECTURE § Verification.
package verify

import (
	"sort"

	"github.com/duraxell/biomarker-engine/internal/fhir"
	"github.com/duraxell/biomarker-engine/internal/profile"
)

// Coverage is one patient's verification outcome. Found and Missing
// partition the profile's required markers and are sorted by name.
type Coverage struct {
	Patient string   `json:"patient" yaml:"patient"`
	Found   []string `json:"found" yaml:"found"`
	Missing []string `json:"missing,omitempty" yaml:"missing,omitempty"`
}

// Complete reports whether every required marker was found.
func (c Coverage) Complete() bool { return len(c.Missing) == 0 }

// VerifyBundle scans the bundle's observations and records which of the
// profile's required markers appear at least once. A marker found in
// several observations still counts once. Per R2.3 a controlled-code
// match alone or a keyword match alone is enough.
func VerifyBundle(b *fhir.Bundle, prof *profile.Profile, patient string) Coverage {
	var codes []*fhir.CodeableConcept
	for i := range b.Entry {
		e := &b.Entry[i]
		if e.ResourceType() != fhir.TypeObservation {
			continue
		}
		o, err := e.AsObservation()
		if err != nil || o.Code == nil {
			continue
		}
		codes = append(codes, o.Code)
	}

	cov := Coverage{Patient: patient}
	for i := range prof.Required {
		marker := &prof.Required[i]
		if matchesAny(marker, codes) {
			cov.Found = append(cov.Found, marker.Name)
		} else {
			cov.Missing = append(cov.Missing, marker.Name)
		}
	}
	sort.Strings(cov.Found)
	sort.Strings(cov.Missing)
	return cov
}

func matchesAny(marker *profile.Biomarker, codes []*fhir.CodeableConcept) bool {
	for _, c := range codes {
		if marker.Matches(c) {
			return true
		}
	}
	return false
}
