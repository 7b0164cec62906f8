package main

import (
	"go.uber.org/zap"

	"github.com/crimson-sun/leafcheck/internal/config"
	"github.com/crimson-sun/leafcheck/internal/engine"
	"github.com/crimson-sun/leafcheck/internal/engine/classifier"
	"github.com/crimson-sun/leafcheck/internal/engine/knowledge"
)

// buildEngine loads the knowledge table and both models. A model that fails
// to load is replaced by a classifier that reports it unavailable on every
// call; only a bad knowledge table is fatal.
func buildEngine(cfg config.Config, log *zap.Logger, opts ...engine.Option) (*engine.Engine, error) {
	kb, err := knowledge.Load(cfg.KnowledgePath)
	if err != nil {
		return nil, err
	}

	var images classifier.Classifier
	images, err = classifier.LoadImage(cfg.Model.Path, cfg.Model.RuntimeLib, cfg.Model.InputSize, cfg.Model.Labels)
	if err != nil {
		log.Error("image model failed to load, predictions will be rejected",
			zap.String("path", cfg.Model.Path), zap.Error(err))
		images = classifier.NewUnavailable(cfg.Model.Labels, err)
	} else {
		log.Info("image model loaded",
			zap.String("path", cfg.Model.Path), zap.Int("classes", len(cfg.Model.Labels)))
	}

	var texts classifier.Classifier
	texts, err = classifier.LoadText(cfg.Model.TextPath, cfg.Model.TextVocabPath, cfg.Model.RuntimeLib, cfg.Model.TextLabels)
	if err != nil {
		log.Warn("text model failed to load, spam detection disabled",
			zap.String("path", cfg.Model.TextPath), zap.Error(err))
		texts = classifier.NewUnavailable(cfg.Model.TextLabels, err)
	} else {
		log.Info("text model loaded", zap.String("path", cfg.Model.TextPath))
	}

	opts = append([]engine.Option{
		engine.WithImageSize(cfg.Model.InputSize),
		engine.WithLogger(log),
	}, opts...)
	eng := engine.New(images, texts, kb, opts...)
	if missing := eng.MissingKnowledge(); len(missing) > 0 {
		log.Warn("labels without knowledge record will use the default record",
			zap.Strings("labels", missing), zap.String("default", kb.Default().Label))
	}
	return eng, nil
}
