package engine

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/crimson-sun/leafcheck/internal/engine/classifier"
	"github.com/crimson-sun/leafcheck/internal/engine/composer"
	"github.com/crimson-sun/leafcheck/internal/engine/knowledge"
	"github.com/crimson-sun/leafcheck/internal/engine/normalizer"
	"github.com/crimson-sun/leafcheck/internal/model"
)

// Model names reported to a Recorder.
const (
	ModelImage = "image"
	ModelText  = "text"
)

// Recorder receives pipeline observations. *metrics.Metrics satisfies it.
type Recorder interface {
	ObserveInference(model, outcome string, d time.Duration)
	KnowledgeFallback(label string)
}

type nopRecorder struct{}

func (nopRecorder) ObserveInference(string, string, time.Duration) {}
func (nopRecorder) KnowledgeFallback(string)                       {}

// Engine orchestrates the normalize → predict → lookup → compose pipeline.
// It holds no mutable state after construction and is safe for concurrent use.
type Engine struct {
	images    classifier.Classifier
	texts     classifier.Classifier
	knowledge *knowledge.Base
	imageNorm *normalizer.ImageNormalizer

	newID    func() string
	now      func() time.Time
	logger   *zap.Logger
	recorder Recorder
}

// Option configures an Engine.
type Option func(*Engine)

// WithImageSize sets the square input resolution of the image model.
func WithImageSize(size int) Option {
	return func(e *Engine) { e.imageNorm = normalizer.NewImage(size) }
}

// WithIDFunc replaces the prediction id generator.
func WithIDFunc(fn func() string) Option {
	return func(e *Engine) { e.newID = fn }
}

// WithClock replaces the timestamp source.
func WithClock(fn func() time.Time) Option {
	return func(e *Engine) { e.now = fn }
}

// WithLogger sets the logger used for pipeline diagnostics.
func WithLogger(l *zap.Logger) Option {
	return func(e *Engine) { e.logger = l }
}

// WithRecorder sets the sink for pipeline metrics.
func WithRecorder(r Recorder) Option {
	return func(e *Engine) { e.recorder = r }
}

// New creates an Engine. A nil text classifier is treated as not loaded.
func New(images, texts classifier.Classifier, kb *knowledge.Base, opts ...Option) *Engine {
	if texts == nil {
		texts = classifier.NewUnavailable([]string{"ham", "spam"}, fmt.Errorf("no text model configured"))
	}
	e := &Engine{
		images:    images,
		texts:     texts,
		knowledge: kb,
		imageNorm: normalizer.NewImage(normalizer.DefaultImageSize),
		newID:     uuid.NewString,
		now:       time.Now,
		logger:    zap.NewNop(),
		recorder:  nopRecorder{},
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Diagnose runs one image through the pipeline. meta.ImageSize is set to the
// length of raw.
func (e *Engine) Diagnose(ctx context.Context, raw []byte, meta model.RequestMetadata) (d model.Diagnosis, err error) {
	start := time.Now()
	defer func() { e.recorder.ObserveInference(ModelImage, outcome(err), time.Since(start)) }()

	if !e.images.Loaded() {
		return model.Diagnosis{}, fmt.Errorf("%w: image classifier", model.ErrModelUnavailable)
	}

	input, err := e.imageNorm.Normalize(raw)
	if err != nil {
		return model.Diagnosis{}, err
	}
	pred, err := e.images.Predict(ctx, input)
	if err != nil {
		return model.Diagnosis{}, err
	}

	var conf float64
	if pred.Confidence != nil {
		conf = *pred.Confidence
	}
	result := model.PredictionResult{
		ID:         e.newID(),
		Label:      pred.Label,
		Confidence: conf,
		Timestamp:  e.now(),
	}

	if !e.knowledge.Has(pred.Label) {
		e.recorder.KnowledgeFallback(pred.Label)
		e.logger.Warn("no knowledge record for predicted label, using default",
			zap.String("label", pred.Label),
			zap.String("default", e.knowledge.Default().Label),
			zap.String("prediction_id", result.ID),
		)
	}
	rec := e.knowledge.Lookup(pred.Label)

	meta.ImageSize = len(raw)
	return composer.Compose(result, rec, meta), nil
}

// ClassifyText runs one message through the text pipeline. The returned
// label is lower-cased.
func (e *Engine) ClassifyText(ctx context.Context, message string) (v model.TextVerdict, err error) {
	start := time.Now()
	defer func() { e.recorder.ObserveInference(ModelText, outcome(err), time.Since(start)) }()

	if !e.texts.Loaded() {
		return model.TextVerdict{}, fmt.Errorf("%w: text classifier", model.ErrModelUnavailable)
	}

	normalized := normalizer.Text(message)
	pred, err := e.texts.Predict(ctx, model.Input{Text: normalized})
	if err != nil {
		return model.TextVerdict{}, err
	}
	return model.TextVerdict{
		Label:      strings.ToLower(pred.Label),
		Confidence: pred.Confidence,
		Normalized: normalized,
	}, nil
}

// Catalog summarizes every label the image classifier can emit, in label
// order. Labels without a record are summarized from the default record.
func (e *Engine) Catalog() []model.DiseaseSummary {
	labels := e.images.Labels()
	out := make([]model.DiseaseSummary, 0, len(labels))
	for _, label := range labels {
		rec := e.knowledge.Lookup(label)
		out = append(out, model.DiseaseSummary{
			Class:      label,
			Name:       rec.Name,
			ArabicName: rec.ArabicName,
			Category:   rec.Category,
			Severity:   rec.Severity,
		})
	}
	return out
}

// Disease returns the record for label, or an error wrapping
// model.ErrUnknownLabel.
func (e *Engine) Disease(label string) (model.DiseaseRecord, error) {
	return e.knowledge.Get(label)
}

// Status describes which models are loaded.
type Status struct {
	ImageLoaded bool
	TextLoaded  bool
	Labels      []string // empty when the image model is not loaded
}

// Status reports model availability.
func (e *Engine) Status() Status {
	s := Status{
		ImageLoaded: e.images.Loaded(),
		TextLoaded:  e.texts.Loaded(),
		Labels:      []string{},
	}
	if s.ImageLoaded {
		s.Labels = e.images.Labels()
	}
	return s
}

// MissingKnowledge returns image labels that have no knowledge record.
func (e *Engine) MissingKnowledge() []string {
	return e.knowledge.Missing(e.images.Labels())
}

// Close releases both classifiers.
func (e *Engine) Close() error {
	errImg := e.images.Close()
	errTxt := e.texts.Close()
	if errImg != nil {
		return errImg
	}
	return errTxt
}

func outcome(err error) string {
	if err == nil {
		return "ok"
	}
	return strings.ToLower(model.ErrorCode(err))
}
