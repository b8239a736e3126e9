// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package fhir

import "github.com/duraxell/biomarker-engine/pkg/types"

// ResolveValue extracts the scalar carried by an observation. Resolution
// order: numeric quantity value, then the display of the coded value's
// first coding, then the plain string form. The first form that yields a
// value wins; units are ignored. ok is false when the observation carries
// no usable value. Per prd001-extraction R2.1-R2.4.
func ResolveValue(o *Observation) (types.Value, bool) {
	if o == nil {
		return types.Value{}, false
	}
	if o.ValueQuantity != nil && o.ValueQuantity.Value != nil {
		return types.NumberValue(*o.ValueQuantity.Value), true
	}
	if d := o.ValueCodeableConcept.PrimaryDisplay(); d != "" {
		return types.TextValue(d), true
	}
	if o.ValueString != nil && *o.ValueString != "" {
		return types.TextValue(*o.ValueString), true
	}
	return types.Value{}, false
}
