// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package profile

import (
	"fmt"
	"os"
	"sort"

	"go.yaml.in/yaml/v3"

	"github.com/duraxell/biomarker-engine/pkg/types"
)

// File is the on-disk shape of a profile overlay: a map of cancer type
// name to profile definition. Overlay profiles use the same declarative
// structs as the built-ins, so anything the engine can do, a YAML file can
// configure. Per prd003-profiles R2.4.
type File struct {
	CancerTypes map[string]*Profile `yaml:"cancer_types"`
}

// ReadFile parses a profile overlay file.
func ReadFile(path string) (*File, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading profiles file: %w", err)
	}
	var f File
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parsing profiles file %s: %w", path, err)
	}
	if len(f.CancerTypes) == 0 {
		return nil, fmt.Errorf("profiles file %s defines no cancer types", path)
	}
	return &f, nil
}

// LoadFile merges the profiles defined in a YAML overlay into the
// registry. Overlay profiles replace built-ins of the same cancer type
// wholesale; partial merges would make rule provenance ambiguous.
func (r *Registry) LoadFile(path string) error {
	f, err := ReadFile(path)
	if err != nil {
		return err
	}

	names := make([]string, 0, len(f.CancerTypes))
	for name := range f.CancerTypes {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		p := f.CancerTypes[name]
		if p == nil {
			return fmt.Errorf("profile %s is empty", name)
		}
		p.CancerType = types.CancerType(name)
		if err := p.Validate(); err != nil {
			return fmt.Errorf("profile %s: %w", name, err)
		}
		r.add(p)
	}
	return nil
}
