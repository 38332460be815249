package classifier

import (
	"context"
	"math/rand/v2"
	"slices"
	"sync"
	"time"

	"github.com/pbaille/wastesort/internal/domain"
	"github.com/pbaille/wastesort/internal/upload"
)

// Confidence bounds reported by the simulated classifier, inclusive
const (
	MinSimulatedConfidence = 85
	MaxSimulatedConfidence = 98
)

// Simulated stands in for a trained model: it ignores pixel content and
// draws a weighted random candidate from its table.
type Simulated struct {
	table   Table
	total   float64
	latency time.Duration

	mu  sync.Mutex
	rng *rand.Rand
}

// SimulatedOptions tunes a Simulated classifier
type SimulatedOptions struct {
	// Latency is how long Classify waits before answering, standing in for
	// inference time. The wait honours context cancellation.
	Latency time.Duration
	// Seed makes draws reproducible. Zero means a random seed.
	Seed uint64
}

// NewSimulated creates a simulated classifier over table
func NewSimulated(table Table, opts SimulatedOptions) (*Simulated, error) {
	if err := table.Validate(); err != nil {
		return nil, err
	}

	seed := opts.Seed
	if seed == 0 {
		seed = rand.Uint64()
	}

	return &Simulated{
		table:   slices.Clone(table),
		total:   float64(table.TotalWeight()),
		latency: opts.Latency,
		rng:     rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15)),
	}, nil
}

// Classify draws a candidate. The image payload is not inspected.
func (s *Simulated) Classify(ctx context.Context, _ upload.Image) (domain.Candidate, error) {
	if s.latency > 0 {
		timer := time.NewTimer(s.latency)
		defer timer.Stop()

		select {
		case <-ctx.Done():
			return domain.Candidate{}, ctx.Err()
		case <-timer.C:
		}
	} else if err := ctx.Err(); err != nil {
		return domain.Candidate{}, err
	}

	s.mu.Lock()
	r := s.rng.Float64() * s.total
	item := s.rng.Float64()
	confidence := MinSimulatedConfidence + s.rng.IntN(MaxSimulatedConfidence-MinSimulatedConfidence+1)
	s.mu.Unlock()

	e := s.table[s.table.Select(r)]

	return domain.Candidate{
		WasteType:  e.Category,
		Confidence: confidence,
		ItemName:   e.Items[int(item*float64(len(e.Items)))],
	}, nil
}

// Categories returns every category the table can produce
func (s *Simulated) Categories() []string {
	return s.table.Categories()
}
