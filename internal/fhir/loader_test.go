package fhir

import (
	"os"
	"path/filepath"
	"testing"
)

const minimalBundle = `{
  "resourceType": "Bundle",
  "type": "collection",
  "entry": [
    {"resource": {"resourceType": "Patient", "id": "p1", "gender": "female", "birthDate": "1970-03-10"}}
  ]
}`

// writeBundles lays out a cohort directory with the given fhir/ files.
func writeBundles(t *testing.T, files map[string]string) string {
	t.Helper()
	dataDir := t.TempDir()
	dir := filepath.Join(dataDir, bundleDir)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatal(err)
	}
	for name, content := range files {
		if err := os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644); err != nil {
			t.Fatal(err)
		}
	}
	return dataDir
}

func TestListBundles(t *testing.T) {
	dataDir := writeBundles(t, map[string]string{
		"zoe_b.json":  minimalBundle,
		"adam_a.json": minimalBundle,
		"notes.txt":   "not a bundle",
		"mid_m.json":  minimalBundle,
	})

	paths, err := ListBundles(dataDir)
	if err != nil {
		t.Fatalf("ListBundles: %v", err)
	}
	want := []string{"adam_a.json", "mid_m.json", "zoe_b.json"}
	if len(paths) != len(want) {
		t.Fatalf("got %d paths, want %d: %v", len(paths), len(want), paths)
	}
	for i, p := range paths {
		if filepath.Base(p) != want[i] {
			t.Errorf("paths[%d] = %s, want %s", i, filepath.Base(p), want[i])
		}
	}
}

func TestListBundlesMissingDir(t *testing.T) {
	_, err := ListBundles(filepath.Join(t.TempDir(), "nope"))
	if err == nil {
		t.Fatal("expected error for missing fhir/ directory")
	}
}

func TestListBundlesEmpty(t *testing.T) {
	dataDir := writeBundles(t, map[string]string{"readme.md": "no bundles here"})
	_, err := ListBundles(dataDir)
	if err == nil {
		t.Fatal("expected error for directory with no bundle files")
	}
}

func TestLoadBundle(t *testing.T) {
	dataDir := writeBundles(t, map[string]string{"p1.json": minimalBundle})

	b, err := LoadBundle(filepath.Join(dataDir, bundleDir, "p1.json"))
	if err != nil {
		t.Fatalf("LoadBundle: %v", err)
	}
	if len(b.Entry) != 1 {
		t.Fatalf("entries = %d, want 1", len(b.Entry))
	}
	if got := b.Entry[0].ResourceType(); got != TypePatient {
		t.Errorf("entry type = %q, want Patient", got)
	}
}

func TestLoadBundleErrors(t *testing.T) {
	dataDir := writeBundles(t, map[string]string{
		"broken.json":  `{"entry": [`,
		"patient.json": `{"resourceType": "Patient", "id": "p1"}`,
	})

	tests := []struct {
		name string
		file string
	}{
		{"invalid json", "broken.json"},
		{"not a bundle", "patient.json"},
		{"missing file", "absent.json"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := LoadBundle(filepath.Join(dataDir, bundleDir, tt.file))
			if err == nil {
				t.Error("expected error")
			}
		})
	}
}

func TestPatientLabel(t *testing.T) {
	tests := []struct {
		path string
		want string
	}{
		{"/data/fhir/Maria123_Gonzalez.json", "Maria123_Gonzalez"},
		{"plain.json", "plain"},
		{"no_extension", "no_extension"},
	}

	for _, tt := range tests {
		if got := PatientLabel(tt.path); got != tt.want {
			t.Errorf("PatientLabel(%q) = %q, want %q", tt.path, got, tt.want)
		}
	}
}
