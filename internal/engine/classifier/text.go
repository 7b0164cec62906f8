package classifier

import (
	"context"
	"fmt"

	ort "github.com/yalue/onnxruntime_go"

	"github.com/crimson-sun/leafcheck/internal/model"
)

// DecideFunc runs a single-label pipeline classifier over a feature vector.
// It returns the winning class index and, when the model exposes them, the
// per-class probabilities (nil otherwise).
type DecideFunc func(features []float32) (class int64, probs []float32, err error)

// Text is the adapter for text pipeline classifiers: vectorizer followed by
// a single-label model.
type Text struct {
	vec    *Vectorizer
	labels []string
	decide DecideFunc
	close  func() error
}

// NewText builds a text adapter over an arbitrary decision function.
func NewText(vec *Vectorizer, labels []string, decide DecideFunc) *Text {
	return &Text{vec: vec, labels: copyLabels(labels), decide: decide}
}

// LoadText loads a text classifier exported to ONNX with a float feature
// input of width vec.Size(), an int64 label output, and optionally a float
// probabilities output.
func LoadText(modelPath, vocabPath, libPath string, labels []string) (*Text, error) {
	if len(labels) == 0 {
		return nil, fmt.Errorf("classifier: no text labels configured")
	}
	vec, err := LoadVectorizer(vocabPath)
	if err != nil {
		return nil, fmt.Errorf("classifier: %w", err)
	}
	sess, err := newONNXSession(modelPath, libPath)
	if err != nil {
		return nil, fmt.Errorf("classifier: %w", err)
	}

	dims := sess.inputDims
	if len(dims) != 2 || !dimMatches(dims[1], vec.Size()) {
		sess.close()
		return nil, fmt.Errorf("classifier: model input %v does not accept [1 %d]", dims, vec.Size())
	}
	labelOut := sess.outputIndex(ort.TensorElementDataTypeInt64)
	if labelOut < 0 {
		sess.close()
		return nil, fmt.Errorf("classifier: model has no int64 label output")
	}
	probOut := sess.outputIndex(ort.TensorElementDataTypeFloat)
	width := int64(vec.Size())

	decide := func(features []float32) (int64, []float32, error) {
		outs, err := sess.run(features, []int64{1, width})
		if err != nil {
			return 0, nil, err
		}
		defer destroyAll(outs)

		classes, err := tensorData[int64](outs[labelOut])
		if err != nil {
			return 0, nil, err
		}
		if len(classes) == 0 {
			return 0, nil, fmt.Errorf("empty label output")
		}
		if probOut < 0 {
			return classes[0], nil, nil
		}
		probs, err := tensorData[float32](outs[probOut])
		if err != nil {
			return 0, nil, err
		}
		return classes[0], probs, nil
	}

	t := NewText(vec, labels, decide)
	t.close = sess.close
	return t, nil
}

// Predict classifies in.Text. Confidence is set only when the model reports
// class probabilities.
func (c *Text) Predict(ctx context.Context, in model.Input) (model.Prediction, error) {
	if err := ctx.Err(); err != nil {
		return model.Prediction{}, inferenceError("%v", err)
	}
	features := c.vec.Transform(in.Text)

	type decision struct {
		class int64
		probs []float32
	}
	d, err := guard(func() (decision, error) {
		class, probs, err := c.decide(features)
		return decision{class, probs}, err
	})
	if err != nil {
		return model.Prediction{}, inferenceError("%v", err)
	}
	if d.class < 0 || d.class >= int64(len(c.labels)) {
		return model.Prediction{}, inferenceError("class index %d outside %d labels", d.class, len(c.labels))
	}

	pred := model.Prediction{Label: c.labels[d.class]}
	if len(d.probs) == len(c.labels) {
		conf := Percent(d.probs[d.class])
		pred.Confidence = &conf
	}
	return pred, nil
}

// Labels returns the class labels indexed by model class id.
func (c *Text) Labels() []string { return copyLabels(c.labels) }

func (c *Text) Loaded() bool { return true }

// Close releases the underlying session, if any.
func (c *Text) Close() error {
	if c.close != nil {
		return c.close()
	}
	return nil
}
