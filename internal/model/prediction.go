package model

import "time"

// Input is a normalized model input. It is owned by the pipeline invocation
// that created it and discarded once a classifier has consumed it.
type Input struct {
	Pixels []float32 // flat NHWC tensor, image inputs only
	Shape  []int64   // [1, height, width, channels]
	Text   string    // normalized text, text inputs only
}

// Prediction is the raw output of a classifier.
type Prediction struct {
	Label      string
	Confidence *float64 // percentage in [0,100]; nil when the model has no probability output
}

// PredictionResult is a prediction stamped with its request identity.
type PredictionResult struct {
	ID         string
	Label      string
	Confidence float64
	Timestamp  time.Time
}

// RequestMetadata carries caller-supplied context echoed back in a diagnosis.
type RequestMetadata struct {
	GrowthStage     *string `json:"growth_stage"`
	CultivationType *string `json:"cultivation_type"`
	ImageSize       int     `json:"image_size"`
}

// DiseaseInfo is the disease summary block of a diagnosis.
type DiseaseInfo struct {
	Class         string   `json:"class"`
	Name          string   `json:"name"`
	ArabicName    string   `json:"arabic_name"`
	Category      Category `json:"type"`
	CategoryLabel string   `json:"type_label"`
	Severity      Severity `json:"severity"`
	SeverityLabel string   `json:"severity_label"`
	Confidence    float64  `json:"confidence"`
}

// Diagnosis is the composed response for one image prediction.
type Diagnosis struct {
	Success        bool            `json:"success"`
	PredictionID   string          `json:"prediction_id"`
	Timestamp      time.Time       `json:"timestamp"`
	Disease        DiseaseInfo     `json:"disease"`
	Symptoms       []string        `json:"symptoms"`
	Treatment      Treatment       `json:"treatment"`
	Transmission   string          `json:"transmission"`
	RiskLevel      RiskLevel       `json:"risk_level"`
	AdditionalInfo RequestMetadata `json:"additional_info"`
}

// TextVerdict is the result of classifying one text message.
type TextVerdict struct {
	Label      string
	Confidence *float64
	Normalized string
}
