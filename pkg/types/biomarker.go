// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package types defines shared data structures for the biomarker-engine pipeline.
// Implements: prd001-extraction (Value, Record, R1.2, R2.1-R2.4);
//
//	prd002-verification (VerifyConfig, R5.1-R5.3);
//	prd003-profiles (CancerType, R1.1).
//
// See docs/ARCHITECTURE.md § Pipeline Interface, § Data Structures.
package types

import (
	"strconv"
	"strings"
)

// CancerType selects the biomarker profile applied to a cohort. The set of
// supported types is defined by the profile registry, not by this type;
// adding a cancer type means adding profile data, never new branching logic.
// Per prd003-profiles R1.1.
type CancerType string

const (
	CancerBreast CancerType = "breast"
	CancerLung   CancerType = "lung"
)

// ValueKind discriminates the scalar forms a resolved observation value can take.
// Per prd001-extraction R2.1.
type ValueKind string

const (
	ValueNumber ValueKind = "number"
	ValueText   ValueKind = "text"
)

// Value is a single resolved clinical scalar: either a numeric quantity or a
// piece of text (a coded display or a free-text note). An absent value is
// represented by omission from the Record, never by a zero Value.
// Per prd001-extraction R2.1-R2.4.
type Value struct {
	// Kind selects between Num and Text.
	Kind ValueKind `json:"kind" yaml:"kind"`

	// Num holds the numeric payload when Kind is ValueNumber.
	Num float64 `json:"num,omitempty" yaml:"num,omitempty"`

	// Text holds the textual payload when Kind is ValueText.
	Text string `json:"text,omitempty" yaml:"text,omitempty"`
}

// NumberValue wraps a float as a Value.
func NumberValue(f float64) Value { return Value{Kind: ValueNumber, Num: f} }

// TextValue wraps a string as a Value.
func TextValue(s string) Value { return Value{Kind: ValueText, Text: s} }

// String renders the value for dataset output. Numbers drop trailing zeros,
// so a whole-number quantity round-trips as "15" rather than "15.000000".
func (v Value) String() string {
	if v.Kind == ValueNumber {
		return strconv.FormatFloat(v.Num, 'f', -1, 64)
	}
	return v.Text
}

// Float returns the numeric form of the value. Textual values are parsed;
// non-numeric text reports ok=false.
func (v Value) Float() (float64, bool) {
	if v.Kind == ValueNumber {
		return v.Num, true
	}
	f, err := strconv.ParseFloat(strings.TrimSpace(v.Text), 64)
	if err != nil {
		return 0, false
	}
	return f, true
}

// Record is one patient's flat biomarker row, keyed by output column name.
// Absent fields have no entry; writers render them as empty cells.
// Per prd001-extraction R1.2, R4.1.
type Record map[string]Value

// Set stores v under column col.
func (r Record) Set(col string, v Value) { r[col] = v }

// Clear removes col from the record.
func (r Record) Clear(col string) { delete(r, col) }

// Has reports whether col is present.
func (r Record) Has(col string) bool {
	_, ok := r[col]
	return ok
}

// Text renders col for output. Absent columns render as the empty string.
func (r Record) Text(col string) string {
	v, ok := r[col]
	if !ok {
		return ""
	}
	return v.String()
}

// PatientRecord pairs a patient label with the record extracted from their
// bundle. The label is the bundle file stem, which is stable even when the
// bundle carries no Patient resource id.
type PatientRecord struct {
	Patient string `json:"patient" yaml:"patient"`
	Record  Record `json:"record" yaml:"record"`
}
