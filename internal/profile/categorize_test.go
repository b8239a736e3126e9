// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package profile

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func captureByName(t *testing.T, p *Profile, name string) *Capture {
	t.Helper()
	for i := range p.Captures {
		if p.Captures[i].Name == name {
			return &p.Captures[i]
		}
	}
	t.Fatalf("capture %s not found in %s profile", name, p.CancerType)
	return nil
}

func TestReceptorStatusBoundaries(t *testing.T) {
	er := captureByName(t, breastProfile(), "ER")
	require.NotNil(t, er.Categorize)

	tests := []struct {
		value float64
		want  string
	}{
		{15, "Positive"},
		{10.5, "Positive"},
		{100, "Positive"},
		{10, "Negative"},
		{5, "Negative"},
		{0, "Negative"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, er.Categorize.Apply(tt.value), "er %v", tt.value)
	}

	pr := captureByName(t, breastProfile(), "PR")
	require.NotNil(t, pr.Categorize)
	assert.Equal(t, "Positive", pr.Categorize.Apply(11))
	assert.Equal(t, "Negative", pr.Categorize.Apply(10))
}

func TestPDL1Boundaries(t *testing.T) {
	c := captureByName(t, lungProfile(), "PDL1").Categorize
	require.NotNil(t, c)

	tests := []struct {
		value float64
		want  string
	}{
		{100, "High (≥50%)"},
		{50, "High (≥50%)"},
		{49.999, "Low (1-49%)"},
		{1, "Low (1-49%)"},
		{0.999, "Negative (<1%)"},
		{0, "Negative (<1%)"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, c.Apply(tt.value), "pd-l1 %v", tt.value)
	}
}

func TestFEV1Boundaries(t *testing.T) {
	c := captureByName(t, lungProfile(), "FEV1").Categorize
	require.NotNil(t, c)

	tests := []struct {
		value float64
		want  string
	}{
		{110, "Normal"},
		{80, "Normal"},
		{79.9, "Mild obstruction"},
		{60, "Mild obstruction"},
		{59.9, "Moderate obstruction"},
		{40, "Moderate obstruction"},
		{39.9, "Severe obstruction"},
		{0, "Severe obstruction"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, c.Apply(tt.value), "fev1 %v", tt.value)
	}
}

func TestDLCOBoundaries(t *testing.T) {
	c := captureByName(t, lungProfile(), "DLCO").Categorize
	require.NotNil(t, c)

	tests := []struct {
		value float64
		want  string
	}{
		{75, "Normal"},
		{74.9, "Mild reduction"},
		{60, "Mild reduction"},
		{59.9, "Moderate reduction"},
		{40, "Moderate reduction"},
		{39.9, "Severe reduction"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, c.Apply(tt.value), "dlco %v", tt.value)
	}
}

func TestCategorizerValidate(t *testing.T) {
	tests := []struct {
		name    string
		c       Categorizer
		wantErr string
	}{
		{
			"valid threshold",
			Categorizer{Kind: KindThreshold, Cutoff: 10, Positive: "Positive", Negative: "Negative"},
			"",
		},
		{
			"threshold without labels",
			Categorizer{Kind: KindThreshold, Cutoff: 10},
			"positive and negative",
		},
		{
			"valid bands",
			Categorizer{Kind: KindBands, Bands: []Band{{Min: 50, Label: "hi"}, {Min: 1, Label: "lo"}}, Fallback: "none"},
			"",
		},
		{
			"bands without fallback",
			Categorizer{Kind: KindBands, Bands: []Band{{Min: 50, Label: "hi"}}},
			"fallback",
		},
		{
			"bands out of order",
			Categorizer{Kind: KindBands, Bands: []Band{{Min: 1, Label: "lo"}, {Min: 50, Label: "hi"}}, Fallback: "none"},
			"highest first",
		},
		{
			"unknown kind",
			Categorizer{Kind: "quartiles"},
			"unknown categorizer kind",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.c.validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			assert.ErrorContains(t, err, tt.wantErr)
		})
	}
}
