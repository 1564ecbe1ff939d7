package app

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/Skufu/PredictNCure/internal/info"
	"github.com/Skufu/PredictNCure/internal/model"
	"github.com/Skufu/PredictNCure/internal/predict"
)

// Resources are the read-only objects shared by every request.
type Resources struct {
	Engine  *predict.Engine
	Catalog *info.Catalog
}

type Options struct {
	ModelPath string
	VocabPath string
	InfoFiles info.Sources
	Policy    predict.Policy
	Logger    *slog.Logger
}

// Load builds the engine and info catalog. A vocabulary file that does not
// line up with the model's features aborts the load.
func Load(ctx context.Context, opts Options) (*Resources, error) {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}

	m, err := model.Load(opts.ModelPath)
	if err != nil {
		return nil, err
	}

	if opts.VocabPath != "" {
		vocab, err := model.LoadVocabulary(opts.VocabPath)
		if err != nil {
			return nil, err
		}
		if m, err = m.WithVocabulary(vocab); err != nil {
			return nil, fmt.Errorf("%s: %w", opts.VocabPath, err)
		}
	}

	engine, err := predict.NewEngine(m.Vocabulary, m.Classifier, m.Decoder, opts.Policy, predict.WithLogger(logger))
	if err != nil {
		return nil, fmt.Errorf("build engine: %w", err)
	}

	catalog, err := info.LoadCatalog(ctx, opts.InfoFiles, logger)
	if err != nil {
		return nil, err
	}

	logger.Info("resources loaded",
		"symptoms", m.Classifier.NumFeatures(),
		"diseases", m.Decoder.Len(),
		"strict", opts.Policy.Strict)
	return &Resources{Engine: engine, Catalog: catalog}, nil
}
