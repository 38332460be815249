package main

import (
	"fmt"
	"strings"

	"github.com/pbaille/wastesort/internal/catalog"
	"github.com/pbaille/wastesort/internal/classifier"
	"github.com/pbaille/wastesort/internal/config"
	"github.com/pbaille/wastesort/internal/pipeline"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

func newLogger(lc config.LoggingConfig) (*zap.Logger, error) {
	zc := zap.NewProductionConfig()

	level, err := zap.ParseAtomicLevel(lc.Level)
	if err != nil {
		return nil, err
	}
	zc.Level = level

	switch lc.Format {
	case "json":
	case "console":
		zc.Encoding = "console"
		zc.EncoderConfig = zap.NewDevelopmentEncoderConfig()
		zc.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	default:
		return nil, fmt.Errorf("invalid log format: %s", lc.Format)
	}

	// Console output is for people; drop the sampling and stack noise
	zc.Sampling = nil
	zc.DisableStacktrace = true

	return zc.Build()
}

func loadCatalog() (*catalog.Catalog, error) {
	if cfg.Catalog.File == "" {
		return catalog.Default(), nil
	}
	cat, err := catalog.Load(cfg.Catalog.File)
	if err != nil {
		return nil, err
	}
	logger.Debug("loaded catalog", zap.String("file", cfg.Catalog.File), zap.Int("categories", len(cat.IDs())))
	return cat, nil
}

// newPipeline wires the configured catalog and classifier backend
func newPipeline(metrics *pipeline.Metrics) (*pipeline.Pipeline, error) {
	cat, err := loadCatalog()
	if err != nil {
		return nil, err
	}

	clf, err := classifier.FromConfig(cfg.Classifier, cat.IDs())
	if err != nil {
		return nil, fmt.Errorf("create classifier: %w", err)
	}

	logger.Debug("classifier ready", zap.String("backend", cfg.Classifier.Backend))

	return pipeline.New(cat, clf,
		pipeline.WithTimeout(cfg.Classifier.Timeout),
		pipeline.WithLogger(logger),
		pipeline.WithMetrics(metrics),
	)
}

func truncate(s string, max int) string {
	s = strings.ReplaceAll(s, "\n", " ")
	if len(s) <= max {
		return s
	}
	return s[:max-3] + "..."
}
