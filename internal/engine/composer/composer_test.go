package composer

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"github.com/crimson-sun/leafcheck/internal/model"
)

func testRecord() model.DiseaseRecord {
	return model.DiseaseRecord{
		Label:      "Tomato_Early_blight",
		ID:         "EB-002",
		Name:       "اللفحة المبكرة",
		ArabicName: "اللفحة المبكرة",
		Category:   model.CategoryFungal,
		Severity:   model.SeverityMedium,
		Symptoms:   []string{"بقع بنية دائرية", "اصفرار الأوراق السفلية"},
		Treatment: model.Treatment{
			Immediate:  []string{"إزالة الأوراق المصابة"},
			Biological: []string{"Bacillus subtilis"},
			Preventive: []string{"تدوير المحاصيل"},
		},
		Transmission: "الرياح والماء",
		RiskLevel:    model.RiskMedium,
	}
}

func testResult() model.PredictionResult {
	return model.PredictionResult{
		ID:         "0b4f5f0e-4f3a-4c43-9a57-8f0b3c9a1d2e",
		Label:      "Tomato_Early_blight",
		Confidence: 93.27,
		Timestamp:  time.Date(2026, 3, 1, 10, 30, 0, 0, time.UTC),
	}
}

func TestCompose(t *testing.T) {
	stage := "flowering"
	meta := model.RequestMetadata{GrowthStage: &stage, ImageSize: 48213}

	got := Compose(testResult(), testRecord(), meta)

	want := model.Diagnosis{
		Success:      true,
		PredictionID: "0b4f5f0e-4f3a-4c43-9a57-8f0b3c9a1d2e",
		Timestamp:    time.Date(2026, 3, 1, 10, 30, 0, 0, time.UTC),
		Disease: model.DiseaseInfo{
			Class:         "Tomato_Early_blight",
			Name:          "اللفحة المبكرة",
			ArabicName:    "اللفحة المبكرة",
			Category:      model.CategoryFungal,
			CategoryLabel: "فطري",
			Severity:      model.SeverityMedium,
			SeverityLabel: "متوسط",
			Confidence:    93.27,
		},
		Symptoms:     []string{"بقع بنية دائرية", "اصفرار الأوراق السفلية"},
		Treatment:    testRecord().Treatment,
		Transmission: "الرياح والماء",
		RiskLevel:    model.RiskMedium,
		AdditionalInfo: model.RequestMetadata{
			GrowthStage: &stage,
			ImageSize:   48213,
		},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("Compose() mismatch (-want +got):\n%s", diff)
	}
}

func TestComposeDeterministic(t *testing.T) {
	a := Compose(testResult(), testRecord(), model.RequestMetadata{})
	b := Compose(testResult(), testRecord(), model.RequestMetadata{})
	if diff := cmp.Diff(a, b); diff != "" {
		t.Errorf("Compose() not deterministic:\n%s", diff)
	}
}

func TestComposeDoesNotAliasRecord(t *testing.T) {
	rec := testRecord()
	d := Compose(testResult(), rec, model.RequestMetadata{})

	d.Symptoms[0] = "changed"
	d.Treatment.Immediate[0] = "changed"
	if rec.Symptoms[0] == "changed" || rec.Treatment.Immediate[0] == "changed" {
		t.Error("diagnosis shares slices with the record")
	}
}

func TestComposeDoesNotAliasMetadata(t *testing.T) {
	stage := "seedling"
	meta := model.RequestMetadata{GrowthStage: &stage}
	d := Compose(testResult(), testRecord(), meta)

	*d.AdditionalInfo.GrowthStage = "changed"
	if stage != "seedling" {
		t.Error("diagnosis shares metadata pointers with the request")
	}
}

func TestComposeEmptyListsEncodeAsArrays(t *testing.T) {
	rec := testRecord()
	rec.Symptoms = nil
	rec.Treatment = model.Treatment{}

	raw, err := json.Marshal(Compose(testResult(), rec, model.RequestMetadata{}))
	if err != nil {
		t.Fatal(err)
	}
	var out struct {
		Symptoms  []string       `json:"symptoms"`
		Treatment map[string]any `json:"treatment"`
		Info      map[string]any `json:"additional_info"`
	}
	if err := json.Unmarshal(raw, &out); err != nil {
		t.Fatal(err)
	}
	if out.Symptoms == nil {
		t.Error("symptoms encoded as null")
	}
	for _, tier := range []string{"immediate", "biological", "prevention"} {
		if _, ok := out.Treatment[tier].([]any); !ok {
			t.Errorf("treatment.%s = %v, want array", tier, out.Treatment[tier])
		}
	}
	if v, ok := out.Info["growth_stage"]; !ok || v != nil {
		t.Errorf("growth_stage = %v, want explicit null", v)
	}
}
