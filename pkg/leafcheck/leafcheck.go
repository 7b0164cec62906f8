package leafcheck

import (
	"context"
	"fmt"
	"os"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/crimson-sun/leafcheck/internal/config"
	"github.com/crimson-sun/leafcheck/internal/engine"
	"github.com/crimson-sun/leafcheck/internal/engine/classifier"
	"github.com/crimson-sun/leafcheck/internal/engine/knowledge"
)

// Checker runs the diagnosis and spam pipelines. Safe for concurrent use.
type Checker struct {
	engine      *engine.Engine
	parallelism int
}

// New creates a Checker, loading the disease table and model files. The
// image model is required; the spam model is loaded only when its file
// exists. This is an expensive operation. Create once, reuse across requests.
func New(opts ...Option) (*Checker, error) {
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	labels := o.labels
	if len(labels) == 0 {
		labels = config.DefaultLabels
	}

	kb, err := knowledge.Load(o.knowledgeFile)
	if err != nil {
		return nil, fmt.Errorf("leafcheck: %w", err)
	}

	imagePath, textPath, vocabPath := resolvePaths(o)
	images, err := classifier.LoadImage(imagePath, o.runtimeLib, o.inputSize, labels)
	if err != nil {
		return nil, fmt.Errorf("leafcheck: %w", err)
	}

	var texts classifier.Classifier
	if _, statErr := os.Stat(textPath); statErr == nil {
		t, err := classifier.LoadText(textPath, vocabPath, o.runtimeLib, o.textLabels)
		if err != nil {
			images.Close()
			return nil, fmt.Errorf("leafcheck: %w", err)
		}
		texts = t
	} else {
		texts = classifier.NewUnavailable(o.textLabels, statErr)
	}

	eng := engine.New(images, texts, kb,
		engine.WithImageSize(o.inputSize),
		engine.WithLogger(o.logger),
	)
	if missing := eng.MissingKnowledge(); len(missing) > 0 {
		o.logger.Warn("labels without knowledge record", zap.Strings("labels", missing))
	}
	return newChecker(eng, o.parallelism), nil
}

func newChecker(eng *engine.Engine, parallelism int) *Checker {
	if parallelism < 1 {
		parallelism = 1
	}
	return &Checker{engine: eng, parallelism: parallelism}
}

// Diagnose classifies one encoded image (JPEG, PNG, GIF, BMP, TIFF or WebP).
func (c *Checker) Diagnose(ctx context.Context, image []byte, meta Metadata) (Diagnosis, error) {
	return c.engine.Diagnose(ctx, image, meta)
}

// DiagnoseFile reads and classifies one image file.
func (c *Checker) DiagnoseFile(ctx context.Context, path string) (Diagnosis, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return Diagnosis{}, fmt.Errorf("leafcheck: %w", err)
	}
	return c.Diagnose(ctx, raw, Metadata{})
}

// DiagnoseFiles classifies files concurrently, at most WithParallelism at a
// time. Per-file failures are reported in FileResult.Err; the returned error
// is non-nil only when ctx is canceled. Results are in input order.
func (c *Checker) DiagnoseFiles(ctx context.Context, paths []string) ([]FileResult, error) {
	results := make([]FileResult, len(paths))
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(c.parallelism)

	for i, path := range paths {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			d, err := c.DiagnoseFile(ctx, path)
			results[i] = FileResult{Path: path, Diagnosis: d, Err: err}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return results, err
	}
	return results, nil
}

// ClassifyText labels one message as spam or ham.
func (c *Checker) ClassifyText(ctx context.Context, message string) (TextResult, error) {
	v, err := c.engine.ClassifyText(ctx, message)
	if err != nil {
		return TextResult{}, err
	}
	return TextResult{Label: v.Label, Confidence: v.Confidence}, nil
}

// Diseases lists every class the image model can emit.
func (c *Checker) Diseases() []DiseaseSummary {
	return c.engine.Catalog()
}

// Disease returns the knowledge entry for label. Unknown labels yield an
// error matching ErrUnknownLabel.
func (c *Checker) Disease(label string) (Disease, error) {
	return c.engine.Disease(label)
}

// TextAvailable reports whether a spam model is loaded.
func (c *Checker) TextAvailable() bool {
	return c.engine.Status().TextLoaded
}

// Close releases model resources.
// Must be called when the Checker is no longer needed.
func (c *Checker) Close() error {
	return c.engine.Close()
}
