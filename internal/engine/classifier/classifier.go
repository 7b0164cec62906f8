package classifier

import (
	"context"
	"fmt"
	"math"

	"github.com/crimson-sun/leafcheck/internal/model"
)

// Classifier is the uniform contract over every model variant: one
// normalized input in, one label (plus optional confidence) out.
// Implementations are safe for concurrent use once constructed.
type Classifier interface {
	Predict(ctx context.Context, in model.Input) (model.Prediction, error)
	Labels() []string
	Loaded() bool
	Close() error
}

// Percent converts a probability to a percentage rounded to two decimals and
// clamped to [0,100].
func Percent(p float32) float64 {
	v := math.Round(float64(p)*100*100) / 100
	switch {
	case v < 0:
		return 0
	case v > 100:
		return 100
	}
	return v
}

// argmax returns the index and value of the largest score. Ties resolve to
// the lowest index, i.e. the first class in label order.
func argmax(scores []float32) (int, float32, error) {
	if len(scores) == 0 {
		return 0, 0, fmt.Errorf("empty score vector")
	}
	best := 0
	for i, s := range scores {
		if math.IsNaN(float64(s)) || math.IsInf(float64(s), 0) {
			return 0, 0, fmt.Errorf("score %d is not finite: %v", i, s)
		}
		if s > scores[best] {
			best = i
		}
	}
	return best, scores[best], nil
}

// guard runs fn and converts a panic inside the forward pass into an error.
func guard[T any](fn func() (T, error)) (out T, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("panic during inference: %v", r)
		}
	}()
	return fn()
}

func inferenceError(format string, args ...any) error {
	return fmt.Errorf("%w: %s", model.ErrInference, fmt.Sprintf(format, args...))
}

func copyLabels(labels []string) []string {
	out := make([]string, len(labels))
	copy(out, labels)
	return out
}
