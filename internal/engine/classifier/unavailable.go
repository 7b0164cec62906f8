package classifier

import (
	"context"
	"fmt"

	"github.com/crimson-sun/leafcheck/internal/model"
)

// Unavailable stands in for a model whose artifact failed to load. Every
// Predict fails with model.ErrModelUnavailable; the load is never retried.
type Unavailable struct {
	labels []string
	cause  error
}

// NewUnavailable records the load failure cause for a model that would have
// served labels.
func NewUnavailable(labels []string, cause error) *Unavailable {
	return &Unavailable{labels: copyLabels(labels), cause: cause}
}

func (u *Unavailable) Predict(context.Context, model.Input) (model.Prediction, error) {
	return model.Prediction{}, fmt.Errorf("%w: %v", model.ErrModelUnavailable, u.cause)
}

func (u *Unavailable) Labels() []string { return copyLabels(u.labels) }
func (u *Unavailable) Loaded() bool     { return false }
func (u *Unavailable) Close() error     { return nil }
