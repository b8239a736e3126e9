// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package verify

import (
	"context"
	"encoding/json"
	"io"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"

	"github.com/duraxell/biomarker-engine/internal/fhir"
	"github.com/duraxell/biomarker-engine/internal/profile"
	"github.com/duraxell/biomarker-engine/pkg/types"
)

// --- fixture helpers ---

func testProfile() *profile.Profile {
	return &profile.Profile{
		CancerType: "testct",
		Required: []profile.Biomarker{
			{Name: "GAMMA", Codes: []string{"3333-3"}, Keywords: []string{"gamma"}},
			{Name: "ALPHA", Codes: []string{"1111-1"}, Keywords: []string{"alpha marker"}},
			{Name: "BETA", Codes: []string{"2222-2"}, Keywords: []string{"beta panel"}},
		},
	}
}

func obsBundle(t *testing.T, observations ...map[string]any) *fhir.Bundle {
	t.Helper()
	b := &fhir.Bundle{ResourceType: "Bundle", Type: "collection"}
	for _, o := range observations {
		data, err := json.Marshal(o)
		if err != nil {
			t.Fatal(err)
		}
		b.Entry = append(b.Entry, fhir.Entry{Resource: data})
	}
	return b
}

func obs(code, display string) map[string]any {
	return map[string]any{
		"resourceType": "Observation",
		"code": map[string]any{
			"coding": []any{map[string]any{"system": "http://loinc.org", "code": code, "display": display}},
		},
	}
}

// --- per-bundle coverage ---

func TestVerifyBundleCodeAlone(t *testing.T) {
	// The code matches ALPHA but the display matches none of its keywords.
	b := obsBundle(t, obs("1111-1", "completely unrelated text"))

	cov := VerifyBundle(b, testProfile(), "p1")

	if !reflect.DeepEqual(cov.Found, []string{"ALPHA"}) {
		t.Errorf("Found = %v, want [ALPHA]", cov.Found)
	}
	if !reflect.DeepEqual(cov.Missing, []string{"BETA", "GAMMA"}) {
		t.Errorf("Missing = %v, want [BETA GAMMA]", cov.Missing)
	}
	if cov.Complete() {
		t.Error("coverage reported complete with missing markers")
	}
}

func TestVerifyBundleKeywordAlone(t *testing.T) {
	// No controlled code matches; the display keyword carries the match.
	b := obsBundle(t, obs("9999-9", "Serum beta panel review"))

	cov := VerifyBundle(b, testProfile(), "p1")

	if !reflect.DeepEqual(cov.Found, []string{"BETA"}) {
		t.Errorf("Found = %v, want [BETA]", cov.Found)
	}
}

func TestVerifyBundleFoundOnce(t *testing.T) {
	b := obsBundle(t,
		obs("1111-1", "alpha marker, first draw"),
		obs("1111-1", "alpha marker, repeat draw"),
	)

	cov := VerifyBundle(b, testProfile(), "p1")

	if !reflect.DeepEqual(cov.Found, []string{"ALPHA"}) {
		t.Errorf("Found = %v, want [ALPHA] exactly once", cov.Found)
	}
}

func TestVerifyBundleIgnoresOtherResources(t *testing.T) {
	b := obsBundle(t)
	patient, _ := json.Marshal(map[string]any{"resourceType": "Patient", "id": "p1"})
	condition, _ := json.Marshal(map[string]any{
		"resourceType": "Condition",
		"code":         map[string]any{"coding": []any{map[string]any{"code": "1111-1", "display": "alpha marker"}}},
	})
	b.Entry = append(b.Entry, fhir.Entry{Resource: patient}, fhir.Entry{Resource: condition})

	cov := VerifyBundle(b, testProfile(), "p1")

	if len(cov.Found) != 0 {
		t.Errorf("Found = %v, want empty; conditions must not count", cov.Found)
	}
	if !reflect.DeepEqual(cov.Missing, []string{"ALPHA", "BETA", "GAMMA"}) {
		t.Errorf("Missing = %v, want all three sorted", cov.Missing)
	}
}

func TestVerifyBundleBreastAcceptance(t *testing.T) {
	prof, err := profile.NewRegistry().Lookup(types.CancerBreast)
	if err != nil {
		t.Fatal(err)
	}
	b := obsBundle(t, obs("16112-5", "Estrogen receptor Ag [Presence] in Tissue"))

	cov := VerifyBundle(b, prof, "p1")

	if !reflect.DeepEqual(cov.Found, []string{"ER"}) {
		t.Errorf("Found = %v, want [ER]", cov.Found)
	}
	wantMissing := []string{"Clinical_Stage", "HER2", "Ki67", "PR", "TNM_M", "TNM_N", "TNM_T"}
	if !reflect.DeepEqual(cov.Missing, wantMissing) {
		t.Errorf("Missing = %v, want %v", cov.Missing, wantMissing)
	}
}

// --- aggregation and gate ---

func TestAggregate(t *testing.T) {
	prof := testProfile()
	covs := []Coverage{
		{Patient: "a", Found: []string{"ALPHA", "BETA", "GAMMA"}},
		{Patient: "b", Found: []string{"ALPHA", "GAMMA"}, Missing: []string{"BETA"}},
		{Patient: "c", Found: []string{"ALPHA", "BETA", "GAMMA"}},
	}

	rep := Aggregate(prof, covs, 1)

	if rep.Patients != 3 || rep.Failed != 1 {
		t.Errorf("patients = %d, failed = %d; want 3, 1", rep.Patients, rep.Failed)
	}
	want := []MarkerStats{
		{Marker: "ALPHA", Found: 3, Percent: 100},
		{Marker: "BETA", Found: 2, Percent: float64(2) / 3 * 100},
		{Marker: "GAMMA", Found: 3, Percent: 100},
	}
	if !reflect.DeepEqual(rep.Markers, want) {
		t.Errorf("Markers = %v, want %v", rep.Markers, want)
	}
	if len(rep.Incomplete) != 1 || rep.Incomplete[0].Patient != "b" {
		t.Errorf("Incomplete = %v, want patient b only", rep.Incomplete)
	}
}

func TestAggregateOrderIndependent(t *testing.T) {
	prof := testProfile()
	covs := []Coverage{
		{Patient: "a", Found: []string{"ALPHA"}, Missing: []string{"BETA", "GAMMA"}},
		{Patient: "b", Found: []string{"BETA"}, Missing: []string{"ALPHA", "GAMMA"}},
		{Patient: "c", Found: []string{"ALPHA", "BETA", "GAMMA"}},
	}
	reversed := []Coverage{covs[2], covs[1], covs[0]}

	if !reflect.DeepEqual(Aggregate(prof, covs, 0), Aggregate(prof, reversed, 0)) {
		t.Error("aggregate depends on coverage order")
	}
}

func TestAggregateNoPatients(t *testing.T) {
	rep := Aggregate(testProfile(), nil, 2)

	if rep.Patients != 0 || rep.Failed != 2 {
		t.Errorf("patients = %d, failed = %d; want 0, 2", rep.Patients, rep.Failed)
	}
	for _, m := range rep.Markers {
		if m.Percent != 0 {
			t.Errorf("%s percent = %v, want 0 with no patients", m.Marker, m.Percent)
		}
	}
}

func TestReportGate(t *testing.T) {
	complete := &Report{
		Patients: 20,
		Markers: []MarkerStats{
			{Marker: "ALPHA", Found: 20, Percent: 100},
			{Marker: "BETA", Found: 19, Percent: 95},
		},
	}
	if !complete.Passes(95) {
		t.Error("report at exactly the threshold must pass")
	}
	if complete.Passes(95.1) {
		t.Error("report below the threshold must fail")
	}
	if got := complete.BelowThreshold(95.1); len(got) != 1 || got[0].Marker != "BETA" {
		t.Errorf("BelowThreshold = %v, want [BETA]", got)
	}

	incomplete := &Report{
		Patients:   20,
		Markers:    []MarkerStats{{Marker: "ALPHA", Found: 20, Percent: 100}},
		Incomplete: []Coverage{{Patient: "b", Missing: []string{"BETA"}}},
	}
	if incomplete.Passes(0) {
		t.Error("report with incomplete patients must fail at any threshold")
	}
}

// --- batch ---

func TestVerifyAll(t *testing.T) {
	prof, err := profile.NewRegistry().Lookup(types.CancerBreast)
	if err != nil {
		t.Fatal(err)
	}

	dataDir := t.TempDir()
	dir := filepath.Join(dataDir, "fhir")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatal(err)
	}
	alice, err := json.Marshal(obsBundle(t, obs("16112-5", "Estrogen receptor")))
	if err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, "alice.json"), alice, 0o644); err != nil {
		t.Fatal(err)
	}
	bob, err := json.Marshal(obsBundle(t))
	if err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, "bob.json"), bob, 0o644); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, "broken.json"), []byte(`{"entry": [`), 0o644); err != nil {
		t.Fatal(err)
	}

	var out strings.Builder
	rep, err := VerifyAll(context.Background(), prof,
		types.VerifyConfig{DataDir: dataDir, CancerType: types.CancerBreast}, &out)
	if err != nil {
		t.Fatalf("VerifyAll: %v", err)
	}

	if rep.Patients != 2 || rep.Failed != 1 {
		t.Errorf("patients = %d, failed = %d; want 2, 1", rep.Patients, rep.Failed)
	}
	if len(rep.Markers) != 8 {
		t.Fatalf("markers = %d, want 8", len(rep.Markers))
	}
	for _, m := range rep.Markers {
		wantFound := 0
		if m.Marker == "ER" {
			wantFound = 1
		}
		if m.Found != wantFound {
			t.Errorf("%s found = %d, want %d", m.Marker, m.Found, wantFound)
		}
	}
	if len(rep.Incomplete) != 2 {
		t.Errorf("incomplete = %d, want 2", len(rep.Incomplete))
	}
	if rep.Passes(95) {
		t.Error("sparse cohort must not pass the gate")
	}
	if !strings.Contains(out.String(), "verified alice (1/8 markers)") {
		t.Errorf("output missing verified line:\n%s", out.String())
	}
	if !strings.Contains(out.String(), "failed  broken") {
		t.Errorf("output missing failure line:\n%s", out.String())
	}
}

func TestVerifyAllDeterministic(t *testing.T) {
	prof, err := profile.NewRegistry().Lookup(types.CancerBreast)
	if err != nil {
		t.Fatal(err)
	}

	dataDir := t.TempDir()
	dir := filepath.Join(dataDir, "fhir")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatal(err)
	}
	for _, name := range []string{"a.json", "b.json", "c.json", "d.json"} {
		data, err := json.Marshal(obsBundle(t, obs("16112-5", "Estrogen receptor")))
		if err != nil {
			t.Fatal(err)
		}
		if err := os.WriteFile(filepath.Join(dir, name), data, 0o644); err != nil {
			t.Fatal(err)
		}
	}

	run := func(workers int) *Report {
		rep, err := VerifyAll(context.Background(), prof,
			types.VerifyConfig{DataDir: dataDir, Workers: workers}, io.Discard)
		if err != nil {
			t.Fatalf("VerifyAll(workers=%d): %v", workers, err)
		}
		return rep
	}

	if !reflect.DeepEqual(run(1), run(4)) {
		t.Error("parallel report differs from sequential")
	}
}
