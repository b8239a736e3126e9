// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package fhir provides a tolerant, read-only view of the FHIR-like patient
// bundles produced by cohort generators. Only the resource types and fields
// the engine consumes are modeled; everything else passes through undecoded.
// Missing or oddly shaped fields never fail a bundle, they resolve to zero
// values.
// Implements: prd001-extraction (R2.1-R2.4, R5.1);
//
//	docs/ARCHITECTURE § Bundle Model.
package fhir

import "encoding/json"

// Resource type discriminants handled by the engine. Entries with any other
// resourceType are ignored.
const (
	TypePatient     = "Patient"
	TypeCondition   = "Condition"
	TypeObservation = "Observation"
)

// Bundle is one patient's document bundle: an ordered list of resources.
type Bundle struct {
	ResourceType string  `json:"resourceType,omitempty"`
	Type         string  `json:"type,omitempty"`
	Entry        []Entry `json:"entry,omitempty"`
}

// Entry wraps a single resource. The payload stays raw until a typed view
// is requested, so unknown resource types cost nothing to carry.
type Entry struct {
	FullURL  string          `json:"fullUrl,omitempty"`
	Resource json.RawMessage `json:"resource,omitempty"`
}

// Patient carries the demographic fields the engine reads.
type Patient struct {
	ID        string `json:"id,omitempty"`
	Gender    string `json:"gender,omitempty"`
	BirthDate string `json:"birthDate,omitempty"`
}

// Condition carries a diagnosis: its coded concept and onset timestamp.
type Condition struct {
	Code          *CodeableConcept `json:"code,omitempty"`
	OnsetDateTime string           `json:"onsetDateTime,omitempty"`
}

// Observation carries a clinical measurement. Exactly one of the Value
// fields is set in well-formed data; ResolveValue handles the rest.
type Observation struct {
	Code                 *CodeableConcept `json:"code,omitempty"`
	ValueQuantity        *Quantity        `json:"valueQuantity,omitempty"`
	ValueCodeableConcept *CodeableConcept `json:"valueCodeableConcept,omitempty"`
	ValueString          *string          `json:"valueString,omitempty"`
}

// CodeableConcept is an ordered list of codings plus an optional free-text
// label. Every field is optional.
type CodeableConcept struct {
	Coding []Coding `json:"coding,omitempty"`
	Text   string   `json:"text,omitempty"`
}

// Coding is one (system, code, display) triple.
type Coding struct {
	System  string `json:"system,omitempty"`
	Code    string `json:"code,omitempty"`
	Display string `json:"display,omitempty"`
}

// Quantity is a numeric measurement. Value is a pointer so that a quantity
// written without a number reads as absent rather than zero.
type Quantity struct {
	Value *float64 `json:"value,omitempty"`
	Unit  string   `json:"unit,omitempty"`
}

// ResourceType returns the resourceType discriminant of the wrapped
// resource, or "" when the entry carries none.
func (e *Entry) ResourceType() string {
	if len(e.Resource) == 0 {
		return ""
	}
	var probe struct {
		ResourceType string `json:"resourceType"`
	}
	if err := json.Unmarshal(e.Resource, &probe); err != nil {
		return ""
	}
	return probe.ResourceType
}

// AsPatient decodes the entry's resource as a Patient.
func (e *Entry) AsPatient() (*Patient, error) {
	var p Patient
	if err := json.Unmarshal(e.Resource, &p); err != nil {
		return nil, err
	}
	return &p, nil
}

// AsCondition decodes the entry's resource as a Condition.
func (e *Entry) AsCondition() (*Condition, error) {
	var c Condition
	if err := json.Unmarshal(e.Resource, &c); err != nil {
		return nil, err
	}
	return &c, nil
}

// AsObservation decodes the entry's resource as an Observation.
func (e *Entry) AsObservation() (*Observation, error) {
	var o Observation
	if err := json.Unmarshal(e.Resource, &o); err != nil {
		return nil, err
	}
	return &o, nil
}

// PrimaryDisplay returns the display of the first coding, or "" when the
// concept is nil or has no codings. Keyword matching and coded-value
// resolution both read only this first display.
func (c *CodeableConcept) PrimaryDisplay() string {
	if c == nil || len(c.Coding) == 0 {
		return ""
	}
	return c.Coding[0].Display
}

// Label returns the concept's free-text label, or "" for a nil concept.
func (c *CodeableConcept) Label() string {
	if c == nil {
		return ""
	}
	return c.Text
}
