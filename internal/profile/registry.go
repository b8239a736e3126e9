// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package profile

import (
	"fmt"
	"sort"
	"strings"

	"github.com/duraxell/biomarker-engine/pkg/types"
)

// Registry holds the biomarker profiles available to a run, keyed by
// cancer type. A registry is built once at startup and read-only afterward.
type Registry struct {
	profiles map[types.CancerType]*Profile
}

// NewRegistry returns a registry seeded with the built-in profiles.
func NewRegistry() *Registry {
	r := &Registry{profiles: make(map[types.CancerType]*Profile)}
	r.add(breastProfile())
	r.add(lungProfile())
	return r
}

func (r *Registry) add(p *Profile) {
	r.profiles[p.CancerType] = p
}

// Lookup returns the profile for ct. Unknown cancer types are an error
// naming the supported set; callers reject them before any bundle is read.
func (r *Registry) Lookup(ct types.CancerType) (*Profile, error) {
	p, ok := r.profiles[ct]
	if !ok {
		names := make([]string, 0, len(r.profiles))
		for t := range r.profiles {
			names = append(names, string(t))
		}
		sort.Strings(names)
		return nil, fmt.Errorf("unsupported cancer type %q (supported: %s)", ct, strings.Join(names, ", "))
	}
	return p, nil
}

// Types returns the registered cancer types, sorted.
func (r *Registry) Types() []types.CancerType {
	out := make([]types.CancerType, 0, len(r.profiles))
	for t := range r.profiles {
		out = append(out, t)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}
