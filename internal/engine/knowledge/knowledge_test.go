package knowledge

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/crimson-sun/leafcheck/internal/model"
)

var plantVillageLabels = []string{
	"Tomato_Bacterial_spot",
	"Tomato_Early_blight",
	"Tomato_Late_blight",
	"Tomato_Leaf_Mold",
	"Tomato_Septoria_leaf_spot",
	"Tomato_Spider_mites_Two_spotted_spider_mite",
	"Tomato_Target_Spot",
	"Tomato_Tomato_YellowLeaf_Curl_Virus",
	"Tomato_Tomato_mosaic_virus",
	"Tomato_healthy",
}

func mustDefault(t *testing.T) *Base {
	t.Helper()
	b, err := Default()
	if err != nil {
		t.Fatalf("Default() error: %v", err)
	}
	return b
}

func TestDefaultCoversLabelSet(t *testing.T) {
	b := mustDefault(t)

	if diff := cmp.Diff(plantVillageLabels, b.Labels()); diff != "" {
		t.Errorf("Labels() mismatch (-want +got):\n%s", diff)
	}
	if missing := b.Missing(plantVillageLabels); len(missing) != 0 {
		t.Errorf("labels without a record: %v", missing)
	}
}

func TestDefaultIDsUnique(t *testing.T) {
	b := mustDefault(t)

	seen := make(map[string]string)
	for _, label := range plantVillageLabels {
		r := b.Lookup(label)
		if prev, ok := seen[r.ID]; ok {
			t.Errorf("id %q shared by %s and %s", r.ID, prev, label)
		}
		seen[r.ID] = label
	}
}

func TestDefaultRecordsComplete(t *testing.T) {
	b := mustDefault(t)

	for _, label := range b.Labels() {
		r, err := b.Get(label)
		if err != nil {
			t.Fatalf("Get(%q): %v", label, err)
		}
		if r.Name == "" || r.ArabicName == "" {
			t.Errorf("%s: missing names", r.Label)
		}
		if len(r.Symptoms) == 0 {
			t.Errorf("%s: no symptoms", r.Label)
		}
		if len(r.Treatment.Immediate) == 0 || len(r.Treatment.Biological) == 0 || len(r.Treatment.Preventive) == 0 {
			t.Errorf("%s: incomplete treatment plan: %+v", r.Label, r.Treatment)
		}
		if r.Transmission == "" {
			t.Errorf("%s: no transmission", r.Label)
		}
	}
}

func TestHealthyRecord(t *testing.T) {
	b := mustDefault(t)

	r := b.Lookup("Tomato_healthy")
	if r.RiskLevel != model.RiskNone {
		t.Errorf("RiskLevel = %q, want none", r.RiskLevel)
	}
	if r.Severity != model.SeverityNone {
		t.Errorf("Severity = %q, want none", r.Severity)
	}
	if diff := cmp.Diff([]string{"لا توجد أعراض مرضية"}, r.Symptoms); diff != "" {
		t.Errorf("Symptoms mismatch (-want +got):\n%s", diff)
	}
}

func TestLookupUnknownFallsBackToDefault(t *testing.T) {
	b := mustDefault(t)

	got := b.Lookup("nonexistent-label")
	if diff := cmp.Diff(b.Default(), got); diff != "" {
		t.Errorf("Lookup(unknown) mismatch (-want +got):\n%s", diff)
	}
	if got.Label != "Tomato_healthy" {
		t.Errorf("fallback label = %q, want Tomato_healthy", got.Label)
	}
}

func TestGetIsStrict(t *testing.T) {
	b := mustDefault(t)

	if _, err := b.Get("nonexistent-label"); !errors.Is(err, model.ErrUnknownLabel) {
		t.Fatalf("Get(unknown) error = %v, want ErrUnknownLabel", err)
	}

	r, err := b.Get("Tomato_Late_blight")
	if err != nil {
		t.Fatalf("Get() error: %v", err)
	}
	if r.ID != "LB-003" || r.Severity != model.SeverityHigh || r.Category != model.CategoryFungal {
		t.Errorf("unexpected record: %+v", r)
	}
}

func TestGetIsCaseSensitive(t *testing.T) {
	b := mustDefault(t)
	if _, err := b.Get("tomato_healthy"); err == nil {
		t.Error("expected exact-match lookup to reject different casing")
	}
}

func TestLookupReturnsCopies(t *testing.T) {
	b := mustDefault(t)

	r := b.Lookup("Tomato_Early_blight")
	r.Symptoms[0] = "tampered"
	r.Treatment.Immediate[0] = "tampered"

	again := b.Lookup("Tomato_Early_blight")
	if again.Symptoms[0] == "tampered" || again.Treatment.Immediate[0] == "tampered" {
		t.Error("mutating a returned record leaked into the table")
	}
}

func TestPreventionTipsPreserved(t *testing.T) {
	b := mustDefault(t)
	r, _ := b.Get("Tomato_Bacterial_spot")
	if r.PreventionTips == "" {
		t.Error("expected prevention tips for bacterial spot")
	}
}

func TestNewValidation(t *testing.T) {
	ok := model.DiseaseRecord{
		Label: "A", ID: "A-1",
		Category: model.CategoryHealthy, Severity: model.SeverityNone, RiskLevel: model.RiskNone,
	}

	tests := []struct {
		name    string
		records []model.DiseaseRecord
		def     string
		wantErr string
	}{
		{"missing default", []model.DiseaseRecord{ok}, "B", "default label"},
		{"empty label", []model.DiseaseRecord{{ID: "x"}}, "A", "no label"},
		{"duplicate label", []model.DiseaseRecord{ok, ok}, "A", "duplicate label"},
		{"duplicate id", []model.DiseaseRecord{ok, withLabel(ok, "B")}, "A", "shared by"},
		{"bad category", []model.DiseaseRecord{withCategory(ok, "mystery")}, "A", "unknown category"},
		{"bad severity", []model.DiseaseRecord{withSeverity(ok, "extreme")}, "A", "unknown severity"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := New(tt.records, tt.def)
			if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
				t.Fatalf("New() error = %v, want containing %q", err, tt.wantErr)
			}
		})
	}
}

func TestLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "table.yaml")
	data := `
default: Pepper_healthy
diseases:
  - label: Pepper_healthy
    id: P-000
    name: healthy pepper
    arabic_name: فلفل سليم
    category: healthy
    severity: none
    symptoms: [none]
    transmission: none
    risk_level: none
`
	if err := os.WriteFile(path, []byte(data), 0o644); err != nil {
		t.Fatal(err)
	}

	b, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if got := b.Lookup("anything").ID; got != "P-000" {
		t.Errorf("fallback id = %q, want P-000", got)
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "nope.yaml")); err == nil {
		t.Error("expected error for missing file")
	}
}

func withLabel(r model.DiseaseRecord, l string) model.DiseaseRecord {
	r.Label = l
	return r
}

func withCategory(r model.DiseaseRecord, c model.Category) model.DiseaseRecord {
	r.Category = c
	return r
}

func withSeverity(r model.DiseaseRecord, s model.Severity) model.DiseaseRecord {
	r.Severity = s
	return r
}
