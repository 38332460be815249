// Package pipeline turns an image into a display-ready detection result.
//
// Detection runs in two ordered stages. Classify asks a classifier.Classifier
// for a candidate; it may block and honours the caller's deadline and
// cancellation. Resolve enriches the candidate with catalog data and fails
// closed with catalog.ErrUnknownCategory when the classifier emitted an id
// outside the catalog.
//
// A Pipeline holds no per-request state and never retries; retries belong to
// the caller (see classifier.IsRetryable).
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/pbaille/wastesort/internal/catalog"
	"github.com/pbaille/wastesort/internal/classifier"
	"github.com/pbaille/wastesort/internal/domain"
	"github.com/pbaille/wastesort/internal/upload"
	"go.uber.org/zap"
)

// Stage names a step of a detection
type Stage string

const (
	StageIdle        Stage = "idle"
	StageClassifying Stage = "classifying"
	StageResolving   Stage = "resolving"
	StageDone        Stage = "done"
	StageFailed      Stage = "failed"
)

// Pipeline is safe for concurrent use; the catalog it reads is immutable.
type Pipeline struct {
	catalog    *catalog.Catalog
	classifier classifier.Classifier
	timeout    time.Duration
	logger     *zap.Logger
	metrics    *Metrics
}

// Option configures a Pipeline
type Option func(*Pipeline)

// WithTimeout sets the classification timeout used when a call passes none
func WithTimeout(d time.Duration) Option {
	return func(p *Pipeline) { p.timeout = d }
}

// WithLogger sets the logger
func WithLogger(l *zap.Logger) Option {
	return func(p *Pipeline) {
		if l != nil {
			p.logger = l
		}
	}
}

// WithMetrics records detections and failures on m
func WithMetrics(m *Metrics) Option {
	return func(p *Pipeline) { p.metrics = m }
}

// New wires a classifier to a catalog. When the classifier lists the
// categories it can emit, every one of them must exist in the catalog.
func New(cat *catalog.Catalog, clf classifier.Classifier, opts ...Option) (*Pipeline, error) {
	if cat == nil {
		return nil, errors.New("pipeline needs a catalog")
	}
	if clf == nil {
		return nil, errors.New("pipeline needs a classifier")
	}

	if lister, ok := clf.(classifier.CategoryLister); ok {
		for _, id := range lister.Categories() {
			if !cat.Has(id) {
				return nil, fmt.Errorf("%w: classifier emits %s: %w", classifier.ErrInvalidTable, id, catalog.ErrUnknownCategory)
			}
		}
	}

	p := &Pipeline{
		catalog:    cat,
		classifier: clf,
		logger:     zap.NewNop(),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p, nil
}

// Catalog returns the catalog results are resolved against
func (p *Pipeline) Catalog() *catalog.Catalog {
	return p.catalog
}

// Classify runs the classification stage. timeout bounds the call when
// positive; zero falls back to the pipeline default. Failures are reported as
// classifier.ErrTimeout, classifier.ErrCancelled or
// classifier.ErrClassificationFailed.
func (p *Pipeline) Classify(ctx context.Context, img upload.Image, timeout time.Duration) (domain.Candidate, error) {
	if timeout <= 0 {
		timeout = p.timeout
	}
	if timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}

	start := time.Now()
	c, err := p.classifier.Classify(ctx, img)
	p.metrics.observeClassify(time.Since(start))
	if err != nil {
		return domain.Candidate{}, classifyError(err)
	}

	if c.Confidence < 0 || c.Confidence > 100 {
		return domain.Candidate{}, fmt.Errorf("%w: confidence %d out of range", classifier.ErrClassificationFailed, c.Confidence)
	}

	return c, nil
}

func classifyError(err error) error {
	switch {
	case errors.Is(err, classifier.ErrTimeout),
		errors.Is(err, classifier.ErrCancelled),
		errors.Is(err, classifier.ErrClassificationFailed):
		return err
	case errors.Is(err, context.DeadlineExceeded):
		return fmt.Errorf("%w: %v", classifier.ErrTimeout, err)
	case errors.Is(err, context.Canceled):
		return fmt.Errorf("%w: %v", classifier.ErrCancelled, err)
	default:
		return fmt.Errorf("%w: %v", classifier.ErrClassificationFailed, err)
	}
}

// Resolve merges a candidate with its catalog record. It is a pure function
// of its inputs and the catalog.
func (p *Pipeline) Resolve(c domain.Candidate, imageRef string) (domain.Result, error) {
	cat, err := p.catalog.Lookup(c.WasteType)
	if err != nil {
		return domain.Result{}, fmt.Errorf("resolve %q: %w", c.ItemName, err)
	}

	return domain.Result{
		ItemName:             c.ItemName,
		Confidence:           c.Confidence,
		WasteType:            c.WasteType,
		Category:             cat.Name,
		Image:                imageRef,
		Color:                cat.Color,
		Icon:                 cat.Icon,
		IsRecyclable:         cat.IsRecyclable,
		DisposalBin:          cat.DisposalBin,
		DisposalInstructions: cat.DisposalInstructions,
		EnvironmentalTip:     cat.EnvironmentalTip,
		Warnings:             cat.Warnings,
		CO2Impact:            cat.CO2Impact,
		EnergyImpact:         cat.EnergyImpact,
		WaterImpact:          cat.WaterImpact,
		PreparationTime:      cat.PreparationTime,
		CollectionSchedule:   cat.CollectionSchedule,
	}, nil
}

// Detect classifies img with the default timeout and resolves the candidate
func (p *Pipeline) Detect(ctx context.Context, img upload.Image) (domain.Result, error) {
	log := p.logger.With(zap.String("image", img.Ref))
	log.Debug("detection stage", zap.String("stage", string(StageClassifying)))

	c, err := p.Classify(ctx, img, 0)
	if err != nil {
		p.fail(log, StageClassifying, err)
		return domain.Result{}, err
	}

	log.Debug("detection stage",
		zap.String("stage", string(StageResolving)),
		zap.String("category", c.WasteType),
		zap.Int("confidence", c.Confidence),
		zap.String("item", c.ItemName))

	res, err := p.Resolve(c, img.Ref)
	if err != nil {
		p.fail(log, StageResolving, err)
		return domain.Result{}, err
	}

	p.metrics.observeDetection(res.WasteType)
	log.Debug("detection stage", zap.String("stage", string(StageDone)), zap.String("category", res.WasteType))
	return res, nil
}

func (p *Pipeline) fail(log *zap.Logger, from Stage, err error) {
	p.metrics.observeFailure(failureReason(err))

	// Unknown categories are a contract breach between classifier and catalog
	if errors.Is(err, catalog.ErrUnknownCategory) {
		log.Error("classifier emitted unknown category", zap.String("stage", string(from)), zap.Error(err))
		return
	}
	log.Warn("detection failed",
		zap.String("stage", string(StageFailed)),
		zap.String("from", string(from)),
		zap.Error(err))
}

func failureReason(err error) string {
	switch {
	case errors.Is(err, catalog.ErrUnknownCategory):
		return "unknown_category"
	case errors.Is(err, classifier.ErrTimeout):
		return "timeout"
	case errors.Is(err, classifier.ErrCancelled):
		return "cancelled"
	default:
		return "classification_failed"
	}
}
