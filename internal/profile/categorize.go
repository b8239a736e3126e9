// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package profile

import "fmt"

// CategorizerKind selects the shape of a categorization rule.
// Per prd003-profiles R1.5.
type CategorizerKind string

const (
	// KindThreshold labels values strictly greater than Cutoff with the
	// Positive label and everything else with the Negative label.
	KindThreshold CategorizerKind = "threshold"

	// KindBands labels a value with the first band whose Min it reaches.
	// Bands are declared highest first; values below every band take the
	// Fallback label.
	KindBands CategorizerKind = "bands"
)

// Categorizer maps a numeric biomarker value onto an ordinal clinical
// label. Categorizers are declarative so overlay profiles can define them
// in YAML with the same expressiveness as the built-ins.
type Categorizer struct {
	Kind CategorizerKind `yaml:"kind"`

	// Cutoff, Positive and Negative drive the threshold kind.
	Cutoff   float64 `yaml:"cutoff,omitempty"`
	Positive string  `yaml:"positive,omitempty"`
	Negative string  `yaml:"negative,omitempty"`

	// Bands and Fallback drive the bands kind.
	Bands    []Band `yaml:"bands,omitempty"`
	Fallback string `yaml:"fallback,omitempty"`
}

// Band is one ordinal bin: any value at or above Min takes Label.
type Band struct {
	Min   float64 `yaml:"min"`
	Label string  `yaml:"label"`
}

// Apply returns the ordinal label for v.
func (c *Categorizer) Apply(v float64) string {
	switch c.Kind {
	case KindThreshold:
		if v > c.Cutoff {
			return c.Positive
		}
		return c.Negative
	case KindBands:
		for _, b := range c.Bands {
			if v >= b.Min {
				return b.Label
			}
		}
		return c.Fallback
	}
	return ""
}

func (c *Categorizer) validate() error {
	switch c.Kind {
	case KindThreshold:
		if c.Positive == "" || c.Negative == "" {
			return fmt.Errorf("threshold categorizer needs positive and negative labels")
		}
	case KindBands:
		if len(c.Bands) == 0 {
			return fmt.Errorf("bands categorizer needs at least one band")
		}
		if c.Fallback == "" {
			return fmt.Errorf("bands categorizer needs a fallback label")
		}
		for i := 1; i < len(c.Bands); i++ {
			if c.Bands[i].Min >= c.Bands[i-1].Min {
				return fmt.Errorf("bands must be declared highest first")
			}
		}
	default:
		return fmt.Errorf("unknown categorizer kind %q", c.Kind)
	}
	return nil
}
