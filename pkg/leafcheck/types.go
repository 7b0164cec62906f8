package leafcheck

import "github.com/crimson-sun/leafcheck/internal/model"

// Diagnosis is the full result for one leaf image.
type Diagnosis = model.Diagnosis

// Disease is a knowledge-base entry.
type Disease = model.DiseaseRecord

// DiseaseSummary is the short catalog form of a Disease.
type DiseaseSummary = model.DiseaseSummary

// Metadata is caller context echoed back in a Diagnosis.
type Metadata = model.RequestMetadata

// Failure kinds. Match them with errors.Is.
var (
	ErrInvalidImage     = model.ErrInvalidImage
	ErrModelUnavailable = model.ErrModelUnavailable
	ErrInference        = model.ErrInference
	ErrUnknownLabel     = model.ErrUnknownLabel
)

// TextResult is the verdict for one text message.
type TextResult struct {
	Label      string   `json:"result"`               // "spam" or "ham"
	Confidence *float64 `json:"confidence,omitempty"` // nil when the model has no probability output
}

// FileResult pairs an input path with its diagnosis or error.
type FileResult struct {
	Path      string
	Diagnosis Diagnosis
	Err       error
}
