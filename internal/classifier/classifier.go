// Package classifier turns an image into a waste-category candidate.
//
// Backends:
//   - Simulated: weighted random draw over a candidate table
//   - Remote: HTTP inference endpoint that accepts a multipart image upload
//   - Anthropic: vision model prompted to answer with one of the category ids
//
// Every backend satisfies Classifier, so the resolution stage and the data
// model do not change when the backend does.
package classifier

import (
	"context"
	"errors"

	"github.com/pbaille/wastesort/internal/domain"
	"github.com/pbaille/wastesort/internal/upload"
)

var (
	// ErrClassificationFailed means the backend could not produce a candidate.
	// Callers may retry.
	ErrClassificationFailed = errors.New("classification failed")
	// ErrTimeout means classification exceeded the caller's deadline
	ErrTimeout = errors.New("classification timed out")
	// ErrCancelled means the caller cancelled a pending classification
	ErrCancelled = errors.New("classification cancelled")
	// ErrInvalidTable is a configuration error in the candidate table
	ErrInvalidTable = errors.New("invalid candidate table")
)

// Classifier produces a candidate for an image.
type Classifier interface {
	Classify(ctx context.Context, img upload.Image) (domain.Candidate, error)
}

// CategoryLister is implemented by classifiers that know up front which
// category ids they can emit.
type CategoryLister interface {
	Categories() []string
}

// IsRetryable reports whether a caller may retry after err
func IsRetryable(err error) bool {
	return errors.Is(err, ErrClassificationFailed) ||
		errors.Is(err, ErrTimeout) ||
		errors.Is(err, ErrCancelled)
}
