package pipeline

import (
	"context"

	"github.com/pbaille/wastesort/internal/domain"
	"github.com/pbaille/wastesort/internal/upload"
	"golang.org/x/sync/errgroup"
)

// DetectFunc detects a single image
type DetectFunc func(ctx context.Context, img upload.Image) (domain.Result, error)

// Outcome is the result of one image in a batch
type Outcome struct {
	Image  string
	Result domain.Result
	Err    error
}

// Batch runs detect over imgs with at most concurrency calls in flight.
// Images are independent: a failure is recorded in its Outcome and does not
// stop the others. Outcomes keep the order of imgs. done, when non-nil, is
// called after each image finishes.
func Batch(ctx context.Context, imgs []upload.Image, concurrency int, detect DetectFunc, done func()) []Outcome {
	if concurrency <= 0 {
		concurrency = 1
	}

	out := make([]Outcome, len(imgs))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(concurrency)

	for i, img := range imgs {
		g.Go(func() error {
			res, err := detect(gctx, img)
			out[i] = Outcome{Image: img.Ref, Result: res, Err: err}
			if done != nil {
				done()
			}
			return nil
		})
	}

	// Workers never return errors; failures live in the outcomes
	_ = g.Wait()
	return out
}
