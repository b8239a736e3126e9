// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package profile

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/duraxell/biomarker-engine/internal/fhir"
)

func concept(codings []fhir.Coding, text string) *fhir.CodeableConcept {
	return &fhir.CodeableConcept{Coding: codings, Text: text}
}

func TestBiomarkerMatches(t *testing.T) {
	er := Biomarker{Name: "ER", Codes: []string{"16112-5"}, Keywords: []string{"estrogen receptor"}}

	tests := []struct {
		name    string
		concept *fhir.CodeableConcept
		want    bool
	}{
		{
			"controlled code on first coding",
			concept([]fhir.Coding{{Code: "16112-5", Display: "unrelated display"}}, ""),
			true,
		},
		{
			"controlled code on a later coding",
			concept([]fhir.Coding{{Code: "0000-0"}, {Code: "16112-5"}}, ""),
			true,
		},
		{
			"keyword fallback on display",
			concept([]fhir.Coding{{Code: "99999-9", Display: "Estrogen Receptor Ag [Presence]"}}, ""),
			true,
		},
		{
			"keyword fallback on free-text label",
			concept(nil, "Estrogen receptor status, qualitative"),
			true,
		},
		{
			"keyword is case insensitive",
			concept([]fhir.Coding{{Display: "ESTROGEN RECEPTOR"}}, ""),
			true,
		},
		{
			"keywords only scan the first coding display",
			concept([]fhir.Coding{{Display: "unrelated"}, {Display: "estrogen receptor"}}, ""),
			false,
		},
		{
			"no match",
			concept([]fhir.Coding{{Code: "718-7", Display: "Hemoglobin"}}, "CBC panel"),
			false,
		},
		{
			"nil concept",
			nil,
			false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, er.Matches(tt.concept))
		})
	}
}

func TestBiomarkerCodeIsCaseSensitive(t *testing.T) {
	m := Biomarker{Name: "X", Codes: []string{"AbC-1"}}

	assert.True(t, m.Matches(concept([]fhir.Coding{{Code: "AbC-1"}}, "")))
	assert.False(t, m.Matches(concept([]fhir.Coding{{Code: "abc-1"}}, "")))
}

func TestBiomarkerEmptyRulesMatchNothing(t *testing.T) {
	empty := Biomarker{Name: "X"}

	c := concept([]fhir.Coding{{Code: "16112-5", Display: "estrogen receptor"}}, "estrogen receptor")
	assert.False(t, empty.Matches(c))
}

func TestSelectLabel(t *testing.T) {
	rules := []LabelRule{
		{Match: "ductal", Value: "Invasive Ductal Carcinoma"},
		{Match: "lobular", Value: "Invasive Lobular Carcinoma"},
	}

	tests := []struct {
		name    string
		display string
		label   string
		want    string
		wantOK  bool
	}{
		{"display hit", "Invasive DUCTAL carcinoma of breast (disorder)", "", "Invasive Ductal Carcinoma", true},
		{"label hit", "tissue diagnosis", "lobular pattern", "Invasive Lobular Carcinoma", true},
		{"first rule wins", "ductal and lobular features", "", "Invasive Ductal Carcinoma", true},
		{"no hit", "medullary carcinoma", "", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := SelectLabel(rules, tt.display, tt.label)
			assert.Equal(t, tt.wantOK, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestValidateRejectsBrokenProfiles(t *testing.T) {
	base := func() *Profile {
		return &Profile{
			CancerType: "test",
			Captures: []Capture{
				{Biomarker: Biomarker{Name: "A", Codes: []string{"1-1"}}, Column: "a"},
			},
			Required: []Biomarker{{Name: "A", Codes: []string{"1-1"}}},
			Columns:  []string{ColPatientID, ColAge, ColGender, "a"},
		}
	}

	tests := []struct {
		name    string
		mutate  func(*Profile)
		wantErr string
	}{
		{"valid base", func(p *Profile) {}, ""},
		{"no captures", func(p *Profile) { p.Captures = nil }, "no captures"},
		{"no required", func(p *Profile) { p.Required = nil }, "no required"},
		{"duplicate column", func(p *Profile) { p.Columns = append(p.Columns, "a") }, "duplicate column"},
		{"missing patient_id", func(p *Profile) { p.Columns = []string{ColAge, ColGender, "a"} }, "missing the patient_id"},
		{"capture without rules", func(p *Profile) { p.Captures[0].Codes = nil }, "matches nothing"},
		{"capture with unknown column", func(p *Profile) { p.Captures[0].Column = "ghost" }, "unknown column"},
		{
			"status column without categorizer",
			func(p *Profile) { p.Captures[0].StatusColumn = "a" },
			"status column and categorizer together",
		},
		{
			"unknown preview column",
			func(p *Profile) { p.PreviewColumns = []string{"ghost"} },
			"preview column",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := base()
			tt.mutate(p)
			err := p.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			assert.ErrorContains(t, err, tt.wantErr)
		})
	}
}
