package classifier

import (
	"context"
	"fmt"

	ort "github.com/yalue/onnxruntime_go"

	"github.com/crimson-sun/leafcheck/internal/model"
)

// ScoreFunc runs a dense softmax model over a batched NHWC tensor and returns
// one probability per class, in label order.
type ScoreFunc func(pixels []float32, shape []int64) ([]float32, error)

// Image is the adapter for multi-class image classifiers.
type Image struct {
	labels []string
	score  ScoreFunc
	close  func() error
}

// NewImage builds an image adapter over an arbitrary scoring function.
func NewImage(labels []string, score ScoreFunc) *Image {
	return &Image{labels: copyLabels(labels), score: score}
}

// LoadImage loads an ONNX image classifier. The model must take a
// [batch, size, size, 3] float tensor and return [batch, len(labels)] class
// probabilities.
func LoadImage(modelPath, libPath string, size int, labels []string) (*Image, error) {
	if len(labels) == 0 {
		return nil, fmt.Errorf("classifier: no labels configured")
	}
	sess, err := newONNXSession(modelPath, libPath)
	if err != nil {
		return nil, fmt.Errorf("classifier: %w", err)
	}

	dims := sess.inputDims
	if len(dims) != 4 || !dimMatches(dims[1], size) || !dimMatches(dims[2], size) || !dimMatches(dims[3], 3) {
		sess.close()
		return nil, fmt.Errorf("classifier: model input %v does not accept [1 %d %d 3]", dims, size, size)
	}
	out := sess.outputs[0]
	if out.DataType != ort.TensorElementDataTypeFloat {
		sess.close()
		return nil, fmt.Errorf("classifier: output %q is not float32", out.Name)
	}
	if n := len(out.Dimensions); n > 0 && !dimMatches(out.Dimensions[n-1], len(labels)) {
		sess.close()
		return nil, fmt.Errorf("classifier: model has %d classes, %d labels configured",
			out.Dimensions[n-1], len(labels))
	}

	score := func(pixels []float32, shape []int64) ([]float32, error) {
		outs, err := sess.run(pixels, shape)
		if err != nil {
			return nil, err
		}
		defer destroyAll(outs)
		return tensorData[float32](outs[0])
	}

	img := NewImage(labels, score)
	img.close = sess.close
	return img, nil
}

// Predict returns the most probable class and its probability as a
// percentage. Equal maxima resolve to the class listed first.
func (c *Image) Predict(ctx context.Context, in model.Input) (model.Prediction, error) {
	if err := ctx.Err(); err != nil {
		return model.Prediction{}, inferenceError("%v", err)
	}
	if len(in.Pixels) == 0 || len(in.Shape) != 4 {
		return model.Prediction{}, inferenceError("expected a batched image tensor, got shape %v", in.Shape)
	}
	want := int64(1)
	for _, d := range in.Shape {
		want *= d
	}
	if want != int64(len(in.Pixels)) {
		return model.Prediction{}, inferenceError("tensor has %d values, shape %v needs %d", len(in.Pixels), in.Shape, want)
	}

	probs, err := guard(func() ([]float32, error) { return c.score(in.Pixels, in.Shape) })
	if err != nil {
		return model.Prediction{}, inferenceError("%v", err)
	}
	if len(probs) != len(c.labels) {
		return model.Prediction{}, inferenceError("model returned %d scores for %d labels", len(probs), len(c.labels))
	}

	idx, p, err := argmax(probs)
	if err != nil {
		return model.Prediction{}, inferenceError("%v", err)
	}
	conf := Percent(p)
	return model.Prediction{Label: c.labels[idx], Confidence: &conf}, nil
}

// Labels returns the class labels in model output order.
func (c *Image) Labels() []string { return copyLabels(c.labels) }

func (c *Image) Loaded() bool { return true }

// Close releases the underlying session, if any.
func (c *Image) Close() error {
	if c.close != nil {
		return c.close()
	}
	return nil
}
