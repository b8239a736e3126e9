// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package profile defines the declarative rule tables that drive biomarker
// extraction and coverage verification. A profile is pure data: recognizable
// biomarkers (controlled codes plus keyword fallbacks), the dataset columns
// they fill, ordinal categorizers, and the required-coverage list. Adding a
// cancer type means adding profile data, never new branching logic.
// Implements: prd003-profiles (R1.1-R1.6, R2.1-R2.4);
//
//	docs/ARCHITECTURE § Profiles.
package profile

import (
	"fmt"
	"strings"

	"github.com/duraxell/biomarker-engine/internal/fhir"
	"github.com/duraxell/biomarker-engine/pkg/types"
)

// Columns every profile shares. The engine writes demographics and the
// derived TNM summary to these well-known names.
const (
	ColPatientID   = "patient_id"
	ColAge         = "age"
	ColGender      = "gender"
	ColTNMT        = "tnm_t"
	ColTNMN        = "tnm_n"
	ColTNMM        = "tnm_m"
	ColTNMComplete = "tnm_complete"
)

// Biomarker names one recognizable clinical concept: the controlled codes
// that identify it exactly and the keywords that identify it loosely.
// Per prd003-profiles R1.2.
type Biomarker struct {
	// Name identifies the biomarker in reports (e.g. "ER", "TNM_T").
	Name string `yaml:"name"`

	// Codes are controlled vocabulary codes matched exactly, case
	// sensitively, against every coding of a concept.
	Codes []string `yaml:"codes,omitempty"`

	// Keywords are matched case-insensitively as substrings of the first
	// coding's display text and of the concept's free-text label.
	Keywords []string `yaml:"keywords,omitempty"`
}

// Matches reports whether the coded concept denotes this biomarker.
// Controlled codes are tried first; keywords remain a fallback even when
// codes exist but none matched. Empty rule sets match nothing. Extraction
// and verification both flow through this one matcher.
// Per prd003-profiles R2.1-R2.3.
func (b *Biomarker) Matches(c *fhir.CodeableConcept) bool {
	if c == nil {
		return false
	}
	for _, coding := range c.Coding {
		for _, code := range b.Codes {
			if code != "" && coding.Code == code {
				return true
			}
		}
	}
	if len(b.Keywords) == 0 {
		return false
	}
	display := strings.ToLower(c.PrimaryDisplay())
	label := strings.ToLower(c.Text)
	for _, kw := range b.Keywords {
		kw = strings.ToLower(kw)
		if kw == "" {
			continue
		}
		if strings.Contains(display, kw) || strings.Contains(label, kw) {
			return true
		}
	}
	return false
}

// LabelRule maps a substring of a concept's text onto a fixed output label.
type LabelRule struct {
	// Match is the case-insensitive substring to look for.
	Match string `yaml:"match"`

	// Value is the label written when Match is found.
	Value string `yaml:"value"`
}

// SelectLabel returns the value of the first rule whose substring occurs in
// display or label, compared lowercase. ok is false when no rule matches.
func SelectLabel(rules []LabelRule, display, label string) (string, bool) {
	display = strings.ToLower(display)
	label = strings.ToLower(label)
	for _, rule := range rules {
		m := strings.ToLower(rule.Match)
		if m == "" {
			continue
		}
		if strings.Contains(display, m) || strings.Contains(label, m) {
			return rule.Value, true
		}
	}
	return "", false
}

// Capture binds one recognizable biomarker to the dataset columns it fills.
// Per prd003-profiles R1.3.
type Capture struct {
	Biomarker `yaml:",inline"`

	// Column receives the resolved observation value.
	Column string `yaml:"column"`

	// StatusColumn, when set, receives the categorized form of a numeric
	// value alongside the raw value kept in Column.
	StatusColumn string `yaml:"status_column,omitempty"`

	// Categorize maps the numeric value onto the ordinal label written to
	// StatusColumn.
	Categorize *Categorizer `yaml:"categorize,omitempty"`

	// Labels, when set, replace the resolved value: the first rule matching
	// the observation's display or label text supplies the value written to
	// Column. A matched capture with no matching rule writes nothing.
	Labels []LabelRule `yaml:"labels,omitempty"`
}

// Diagnosis describes how a profile recognizes the cohort's cancer
// condition and classifies its histology. Per prd003-profiles R1.4.
type Diagnosis struct {
	// SiteKeywords mark the diagnosis: a condition coding whose display
	// contains one of these together with the word "cancer" is captured.
	SiteKeywords []string `yaml:"site_keywords,omitempty"`

	// DateColumn receives the condition's onset timestamp.
	DateColumn string `yaml:"date_column,omitempty"`

	// Histologies classify the matched display into a histology label.
	Histologies []LabelRule `yaml:"histologies,omitempty"`

	// HistologyColumn receives the selected histology label.
	HistologyColumn string `yaml:"histology_column,omitempty"`
}

// Profile drives extraction and verification for one cancer type. Profiles
// are immutable once registered; the engine only reads them, so a single
// profile is safe to share across workers. Per prd003-profiles R1.1-R1.6.
type Profile struct {
	// CancerType names the cohort this profile serves.
	CancerType types.CancerType `yaml:"cancer_type"`

	// Diagnosis recognizes the cohort's cancer condition.
	Diagnosis Diagnosis `yaml:"diagnosis"`

	// Captures are tried in declared order against every observation; the
	// first match consumes it.
	Captures []Capture `yaml:"captures"`

	// Required lists the biomarkers every patient is expected to document.
	Required []Biomarker `yaml:"required"`

	// Columns fixes the dataset column order.
	Columns []string `yaml:"columns"`

	// PreviewColumns are shown for sample rows in the extraction summary.
	PreviewColumns []string `yaml:"preview_columns,omitempty"`
}

// RequiredNames returns the required biomarker names in declared order.
func (p *Profile) RequiredNames() []string {
	names := make([]string, len(p.Required))
	for i, b := range p.Required {
		names[i] = b.Name
	}
	return names
}

// Validate checks the profile's declarative consistency. Overlay files go
// through this before registration; the built-ins are covered by tests.
func (p *Profile) Validate() error {
	if p.CancerType == "" {
		return fmt.Errorf("profile has no cancer type")
	}
	if len(p.Captures) == 0 {
		return fmt.Errorf("profile defines no captures")
	}
	if len(p.Required) == 0 {
		return fmt.Errorf("profile defines no required biomarkers")
	}
	if len(p.Columns) == 0 {
		return fmt.Errorf("profile defines no columns")
	}

	cols := make(map[string]bool, len(p.Columns))
	for _, c := range p.Columns {
		if c == "" {
			return fmt.Errorf("profile has an empty column name")
		}
		if cols[c] {
			return fmt.Errorf("duplicate column %q", c)
		}
		cols[c] = true
	}
	for _, c := range []string{ColPatientID, ColAge, ColGender} {
		if !cols[c] {
			return fmt.Errorf("profile is missing the %s column", c)
		}
	}

	for i := range p.Captures {
		cpt := &p.Captures[i]
		if cpt.Name == "" {
			return fmt.Errorf("capture %d has no name", i)
		}
		if len(cpt.Codes) == 0 && len(cpt.Keywords) == 0 {
			return fmt.Errorf("capture %s matches nothing", cpt.Name)
		}
		if cpt.Column == "" {
			return fmt.Errorf("capture %s has no column", cpt.Name)
		}
		if !cols[cpt.Column] {
			return fmt.Errorf("capture %s writes unknown column %q", cpt.Name, cpt.Column)
		}
		if (cpt.StatusColumn == "") != (cpt.Categorize == nil) {
			return fmt.Errorf("capture %s must set status column and categorizer together", cpt.Name)
		}
		if cpt.StatusColumn != "" && !cols[cpt.StatusColumn] {
			return fmt.Errorf("capture %s writes unknown status column %q", cpt.Name, cpt.StatusColumn)
		}
		if cpt.Categorize != nil {
			if err := cpt.Categorize.validate(); err != nil {
				return fmt.Errorf("capture %s: %w", cpt.Name, err)
			}
		}
	}

	for i := range p.Required {
		req := &p.Required[i]
		if req.Name == "" {
			return fmt.Errorf("required biomarker %d has no name", i)
		}
		if len(req.Codes) == 0 && len(req.Keywords) == 0 {
			return fmt.Errorf("required biomarker %s matches nothing", req.Name)
		}
	}

	if len(p.Diagnosis.SiteKeywords) > 0 {
		if p.Diagnosis.DateColumn == "" {
			return fmt.Errorf("diagnosis has site keywords but no date column")
		}
		if !cols[p.Diagnosis.DateColumn] {
			return fmt.Errorf("diagnosis writes unknown column %q", p.Diagnosis.DateColumn)
		}
	}
	if len(p.Diagnosis.Histologies) > 0 {
		if p.Diagnosis.HistologyColumn == "" {
			return fmt.Errorf("diagnosis has histology rules but no histology column")
		}
		if !cols[p.Diagnosis.HistologyColumn] {
			return fmt.Errorf("diagnosis writes unknown histology column %q", p.Diagnosis.HistologyColumn)
		}
	}

	for _, c := range p.PreviewColumns {
		if !cols[c] {
			return fmt.Errorf("preview column %q is not a profile column", c)
		}
	}
	return nil
}
