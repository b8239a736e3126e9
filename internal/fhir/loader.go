// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package fhir

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// bundleDir is the subdirectory of a cohort data directory that holds the
// per-patient bundle files.
const bundleDir = "fhir"

// ListBundles returns the sorted paths of the bundle files under
// dataDir/fhir. A missing directory and a directory with no bundle files
// are distinct errors; both abort a batch before any bundle is read.
func ListBundles(dataDir string) ([]string, error) {
	dir := filepath.Join(dataDir, bundleDir)
	info, err := os.Stat(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("no %s/ directory under %s", bundleDir, dataDir)
		}
		return nil, fmt.Errorf("reading %s: %w", dir, err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("%s is not a directory", dir)
	}

	paths, err := filepath.Glob(filepath.Join(dir, "*.json"))
	if err != nil {
		return nil, fmt.Errorf("listing %s: %w", dir, err)
	}
	if len(paths) == 0 {
		return nil, fmt.Errorf("no bundle files in %s", dir)
	}
	sort.Strings(paths)
	return paths, nil
}

// LoadBundle reads and decodes one patient bundle file. Unreadable files,
// invalid JSON, and payloads that declare a non-Bundle resourceType all
// fail; the batch layer treats these as per-patient warnings.
func LoadBundle(path string) (*Bundle, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading bundle: %w", err)
	}
	var b Bundle
	if err := json.Unmarshal(data, &b); err != nil {
		return nil, fmt.Errorf("decoding bundle: %w", err)
	}
	if b.ResourceType != "" && b.ResourceType != "Bundle" {
		return nil, fmt.Errorf("not a bundle (resourceType %q)", b.ResourceType)
	}
	return &b, nil
}

// PatientLabel derives a patient label from a bundle's file name. Cohort
// generators name bundle files after the patient, so the stem doubles as
// an identifier in coverage reports.
func PatientLabel(path string) string {
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}
