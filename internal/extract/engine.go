// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package extract turns per-patient FHIR bundles into flat biomarker
// records driven by a cancer-type profile. One pass over the bundle in
// document order; later resources overwrite earlier ones, so the last
// match wins for every column.
// Implements: prd001-extraction (R1-R4, R6);
//
//	docs/ARCHITECTURE § Extraction.
package extract

import (
	"strconv"
	"strings"
	"time"

	"github.com/duraxell/biomarker-engine/internal/fhir"
	"github.com/duraxell/biomarker-engine/internal/profile"
	"github.com/duraxell/biomarker-engine/pkg/types"
)

// ExtractBundle extracts one patient's biomarker record. Resources the
// profile does not recognize contribute nothing; entries that fail to
// decode are skipped. The record never aborts, a sparse bundle just yields
// a sparse row. Per prd001-extraction R1.1-R1.3.
func ExtractBundle(b *fhir.Bundle, prof *profile.Profile, now time.Time) types.Record {
	rec := make(types.Record)
	for i := range b.Entry {
		entry := &b.Entry[i]
		switch entry.ResourceType() {
		case fhir.TypePatient:
			p, err := entry.AsPatient()
			if err != nil {
				continue
			}
			applyPatient(rec, p, now)
		case fhir.TypeCondition:
			c, err := entry.AsCondition()
			if err != nil {
				continue
			}
			applyCondition(rec, c, &prof.Diagnosis)
		case fhir.TypeObservation:
			o, err := entry.AsObservation()
			if err != nil {
				continue
			}
			applyObservation(rec, o, prof)
		}
	}
	deriveTNMComplete(rec)
	return rec
}

// applyPatient captures identity and demographics. Age failures are
// swallowed; the column just stays as it was. Per prd001-extraction R3.1.
func applyPatient(rec types.Record, p *fhir.Patient, now time.Time) {
	setOrClear(rec, profile.ColPatientID, p.ID)
	setOrClear(rec, profile.ColGender, p.Gender)
	if age, ok := ageAt(p.BirthDate, now); ok {
		rec.Set(profile.ColAge, types.NumberValue(float64(age)))
	}
}

// ageAt computes age in whole years from the birth year alone, matching
// the cohort generator's convention. ok is false for missing or
// unparsable dates.
func ageAt(birthDate string, now time.Time) (int, bool) {
	year, _, _ := strings.Cut(birthDate, "-")
	y, err := strconv.Atoi(year)
	if err != nil || y <= 0 {
		return 0, false
	}
	return now.Year() - y, true
}

// applyCondition captures the cohort diagnosis. A coding matches when its
// display contains a site keyword together with the word "cancer"; the
// onset timestamp becomes the diagnosis date and the same display text is
// classified into a histology label. Per prd001-extraction R3.2.
func applyCondition(rec types.Record, c *fhir.Condition, d *profile.Diagnosis) {
	if len(d.SiteKeywords) == 0 || c.Code == nil {
		return
	}
	for _, coding := range c.Code.Coding {
		if !siteMatch(coding.Display, d.SiteKeywords) {
			continue
		}
		setOrClear(rec, d.DateColumn, c.OnsetDateTime)
		if d.HistologyColumn == "" {
			continue
		}
		if label, ok := profile.SelectLabel(d.Histologies, coding.Display, ""); ok {
			rec.Set(d.HistologyColumn, types.TextValue(label))
		}
	}
}

func siteMatch(display string, sites []string) bool {
	display = strings.ToLower(display)
	if !strings.Contains(display, "cancer") {
		return false
	}
	for _, site := range sites {
		if strings.Contains(display, strings.ToLower(site)) {
			return true
		}
	}
	return false
}

// applyObservation tries the profile's captures in declared order; the
// first match consumes the observation. Per prd001-extraction R3.3, R4.2.
func applyObservation(rec types.Record, o *fhir.Observation, prof *profile.Profile) {
	for i := range prof.Captures {
		cpt := &prof.Captures[i]
		if !cpt.Matches(o.Code) {
			continue
		}
		applyCapture(rec, cpt, o)
		return
	}
}

func applyCapture(rec types.Record, cpt *profile.Capture, o *fhir.Observation) {
	if len(cpt.Labels) > 0 {
		if label, ok := profile.SelectLabel(cpt.Labels, o.Code.PrimaryDisplay(), o.Code.Label()); ok {
			rec.Set(cpt.Column, types.TextValue(label))
		}
		return
	}

	value, ok := fhir.ResolveValue(o)
	if !ok {
		// A matched capture without a value clears both columns; a later
		// empty result must not leave a stale status behind.
		rec.Clear(cpt.Column)
		if cpt.StatusColumn != "" {
			rec.Clear(cpt.StatusColumn)
		}
		return
	}

	rec.Set(cpt.Column, value)
	if cpt.Categorize == nil {
		return
	}
	f, ok := value.Float()
	if !ok {
		// Unparsable numerics keep the raw value; the category stays
		// absent. Per prd001-extraction R4.3.
		rec.Clear(cpt.StatusColumn)
		return
	}
	rec.Set(cpt.StatusColumn, types.TextValue(cpt.Categorize.Apply(f)))
}

// deriveTNMComplete writes the combined staging column when and only when
// all three TNM components are present. Per prd001-extraction R4.4.
func deriveTNMComplete(rec types.Record) {
	if !rec.Has(profile.ColTNMT) || !rec.Has(profile.ColTNMN) || !rec.Has(profile.ColTNMM) {
		rec.Clear(profile.ColTNMComplete)
		return
	}
	joined := strings.Join([]string{
		rec.Text(profile.ColTNMT),
		rec.Text(profile.ColTNMN),
		rec.Text(profile.ColTNMM),
	}, ", ")
	rec.Set(profile.ColTNMComplete, types.TextValue(joined))
}

// setOrClear writes a text value, or clears the column when the source
// field is empty. Later resources legitimately overwrite earlier ones.
func setOrClear(rec types.Record, col, s string) {
	if s == "" {
		rec.Clear(col)
		return
	}
	rec.Set(col, types.TextValue(s))
}
