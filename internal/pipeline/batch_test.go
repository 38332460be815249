package pipeline

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"
	"testing"
	"time"

	"github.com/pbaille/wastesort/internal/domain"
	"github.com/pbaille/wastesort/internal/upload"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBatchKeepsOrderAndIsolatesFailures(t *testing.T) {
	imgs := make([]upload.Image, 6)
	for i := range imgs {
		imgs[i] = upload.Image{Ref: fmt.Sprintf("img://%d", i)}
	}

	detect := func(_ context.Context, img upload.Image) (domain.Result, error) {
		if img.Ref == "img://3" {
			return domain.Result{}, errors.New("bad image")
		}
		return domain.Result{Image: img.Ref}, nil
	}

	var done atomic.Int32
	out := Batch(context.Background(), imgs, 3, detect, func() { done.Add(1) })

	require.Len(t, out, len(imgs))
	assert.Equal(t, int32(len(imgs)), done.Load())
	for i, o := range out {
		assert.Equal(t, imgs[i].Ref, o.Image)
		if i == 3 {
			assert.Error(t, o.Err)
			continue
		}
		assert.NoError(t, o.Err)
		assert.Equal(t, imgs[i].Ref, o.Result.Image)
	}
}

func TestBatchRespectsConcurrency(t *testing.T) {
	var inFlight, peak atomic.Int32

	detect := func(_ context.Context, img upload.Image) (domain.Result, error) {
		n := inFlight.Add(1)
		for {
			p := peak.Load()
			if n <= p || peak.CompareAndSwap(p, n) {
				break
			}
		}
		time.Sleep(5 * time.Millisecond)
		inFlight.Add(-1)
		return domain.Result{}, nil
	}

	Batch(context.Background(), make([]upload.Image, 20), 2, detect, nil)
	assert.LessOrEqual(t, peak.Load(), int32(2))
}

func TestBatchWithPipeline(t *testing.T) {
	p := newSimulatedPipeline(t, 5)
	imgs := []upload.Image{{Ref: "img://a"}, {Ref: "img://b"}, {Ref: "img://c"}}

	out := Batch(context.Background(), imgs, 0, p.Detect, nil)
	for _, o := range out {
		require.NoError(t, o.Err)
		assert.True(t, p.Catalog().Has(o.Result.WasteType))
		assert.Equal(t, o.Image, o.Result.Image)
	}
}
