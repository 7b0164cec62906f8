package leafcheck

import (
	"path/filepath"

	"go.uber.org/zap"
)

type options struct {
	modelDir      string
	modelPath     string
	textModelPath string
	textVocabPath string
	runtimeLib    string
	labels        []string
	textLabels    []string
	inputSize     int
	knowledgeFile string
	parallelism   int
	logger        *zap.Logger
}

// Option configures a Checker.
type Option func(*options)

// WithModelDir sets the directory containing model files.
// Expects: tomato_model.onnx and optionally spam_model.onnx with spam_vocab.tsv.
func WithModelDir(dir string) Option {
	return func(o *options) {
		o.modelDir = dir
	}
}

// WithModelPath sets an explicit path for the image model.
func WithModelPath(path string) Option {
	return func(o *options) {
		o.modelPath = path
	}
}

// WithTextModel sets explicit paths for the spam model and its vocabulary.
func WithTextModel(model, vocab string) Option {
	return func(o *options) {
		o.textModelPath = model
		o.textVocabPath = vocab
	}
}

// WithRuntimeLibrary sets the ONNX Runtime shared library path. Default: the
// platform library next to the image model.
func WithRuntimeLibrary(path string) Option {
	return func(o *options) {
		o.runtimeLib = path
	}
}

// WithLabels sets the image model's class labels in output order.
func WithLabels(labels ...string) Option {
	return func(o *options) {
		o.labels = labels
	}
}

// WithTextLabels sets the spam model's class labels. Default: ham, spam.
func WithTextLabels(labels ...string) Option {
	return func(o *options) {
		o.textLabels = labels
	}
}

// WithInputSize sets the square input resolution of the image model. Default: 224.
func WithInputSize(n int) Option {
	return func(o *options) {
		o.inputSize = n
	}
}

// WithKnowledgeFile replaces the built-in disease table with a YAML file.
func WithKnowledgeFile(path string) Option {
	return func(o *options) {
		o.knowledgeFile = path
	}
}

// WithParallelism caps concurrent inferences in DiagnoseFiles. Default: 4.
func WithParallelism(n int) Option {
	return func(o *options) {
		o.parallelism = n
	}
}

// WithLogger sets the logger. Default: no logging.
func WithLogger(l *zap.Logger) Option {
	return func(o *options) {
		o.logger = l
	}
}

func defaultOptions() options {
	return options{
		inputSize:   224,
		parallelism: 4,
		textLabels:  []string{"ham", "spam"},
		logger:      zap.NewNop(),
	}
}

// resolvePaths determines model file paths from the configured options.
// Explicit paths take precedence over modelDir.
func resolvePaths(o options) (image, text, vocab string) {
	dir := o.modelDir
	if dir == "" {
		dir = "models"
	}
	image, text, vocab = o.modelPath, o.textModelPath, o.textVocabPath
	if image == "" {
		image = filepath.Join(dir, "tomato_model.onnx")
	}
	if text == "" {
		text = filepath.Join(dir, "spam_model.onnx")
	}
	if vocab == "" {
		vocab = filepath.Join(dir, "spam_vocab.tsv")
	}
	return image, text, vocab
}
