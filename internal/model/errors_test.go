package model

import (
	"errors"
	"fmt"
	"testing"
)

func TestErrorCode(t *testing.T) {
	tests := []struct {
		err  error
		want string
	}{
		{nil, ""},
		{ErrInvalidImage, "INVALID_IMAGE"},
		{fmt.Errorf("%w: png: invalid format", ErrInvalidImage), "INVALID_IMAGE"},
		{fmt.Errorf("%w: no such file", ErrModelUnavailable), "MODEL_UNAVAILABLE"},
		{fmt.Errorf("classifier: %w", ErrInference), "INFERENCE_ERROR"},
		{ErrUnknownLabel, "NOT_FOUND"},
		{ErrInvalidRequest, "INVALID_REQUEST"},
		{errors.New("boom"), "INTERNAL_ERROR"},
	}
	for _, tt := range tests {
		if got := ErrorCode(tt.err); got != tt.want {
			t.Errorf("ErrorCode(%v) = %q, want %q", tt.err, got, tt.want)
		}
	}
}

func TestSeverityValid(t *testing.T) {
	for _, s := range []Severity{SeverityNone, SeverityLow, SeverityMedium, SeverityHigh} {
		if !s.Valid() || s.Label() == "" {
			t.Errorf("%s should be valid with a label", s)
		}
	}
	if Severity("extreme").Valid() {
		t.Error("unknown severity should be invalid")
	}
}

func TestRecordCloneDoesNotAlias(t *testing.T) {
	r := DiseaseRecord{
		Symptoms:  []string{"a"},
		Treatment: Treatment{Immediate: []string{"x"}},
	}
	c := r.Clone()
	c.Symptoms[0] = "changed"
	c.Treatment.Immediate[0] = "changed"
	if r.Symptoms[0] != "a" || r.Treatment.Immediate[0] != "x" {
		t.Error("Clone shares backing arrays with the original")
	}
}
