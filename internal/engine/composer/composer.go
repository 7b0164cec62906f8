// Package composer merges a prediction with its knowledge-base record into
// the response returned to callers.
package composer

import "github.com/crimson-sun/leafcheck/internal/model"

// Compose builds the diagnosis for one prediction. It is pure: the output
// depends only on its arguments, and no slice in the result aliases rec.
func Compose(result model.PredictionResult, rec model.DiseaseRecord, meta model.RequestMetadata) model.Diagnosis {
	rec = rec.Clone()
	return model.Diagnosis{
		Success:      true,
		PredictionID: result.ID,
		Timestamp:    result.Timestamp,
		Disease: model.DiseaseInfo{
			Class:         rec.Label,
			Name:          rec.Name,
			ArabicName:    rec.ArabicName,
			Category:      rec.Category,
			CategoryLabel: rec.Category.Label(),
			Severity:      rec.Severity,
			SeverityLabel: rec.Severity.Label(),
			Confidence:    result.Confidence,
		},
		Symptoms:     nonNil(rec.Symptoms),
		Treatment:    treatment(rec.Treatment),
		Transmission: rec.Transmission,
		RiskLevel:    rec.RiskLevel,
		AdditionalInfo: model.RequestMetadata{
			GrowthStage:     copyString(meta.GrowthStage),
			CultivationType: copyString(meta.CultivationType),
			ImageSize:       meta.ImageSize,
		},
	}
}

func treatment(t model.Treatment) model.Treatment {
	return model.Treatment{
		Immediate:  nonNil(t.Immediate),
		Biological: nonNil(t.Biological),
		Preventive: nonNil(t.Preventive),
	}
}

// nonNil keeps empty lists encoding as [] rather than null.
func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}

func copyString(s *string) *string {
	if s == nil {
		return nil
	}
	v := *s
	return &v
}
