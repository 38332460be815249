package store

import (
	"testing"
	"time"

	"github.com/pbaille/wastesort/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := New()
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })

	clock := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	s.now = func() time.Time {
		clock = clock.Add(time.Minute)
		return clock
	}
	return s
}

func result(wasteType string, confidence int, recyclable bool, co2, energy, water float64) domain.Result {
	return domain.Result{
		ItemName:             wasteType + " item",
		WasteType:            wasteType,
		Confidence:           confidence,
		IsRecyclable:         recyclable,
		DisposalInstructions: []string{"step one", "step two"},
		CO2Impact:            co2,
		EnergyImpact:         energy,
		WaterImpact:          water,
	}
}

func TestRecordAndGet(t *testing.T) {
	s := newTestStore(t)

	res := result("GLASS", 91, true, 0.8, 2.8, 15)
	d, err := s.Record(res)
	require.NoError(t, err)
	assert.Len(t, d.ID, 36)

	got, err := s.GetDetection(d.ID)
	require.NoError(t, err)
	assert.Equal(t, res, got.Result)
	assert.True(t, d.DetectedAt.Equal(got.DetectedAt))

	byPrefix, err := s.GetDetection(d.ID[:8])
	require.NoError(t, err)
	assert.Equal(t, d.ID, byPrefix.ID)

	_, err = s.GetDetection("ffffffff-0000")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestGetDetectionIgnoresWildcards(t *testing.T) {
	s := newTestStore(t)
	_, err := s.Record(result("PAPER", 90, true, 0.9, 2.5, 18))
	require.NoError(t, err)

	_, err = s.GetDetection("%")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestListDetectionsNewestFirst(t *testing.T) {
	s := newTestStore(t)

	for _, wt := range []string{"PAPER", "METAL", "SHOES"} {
		_, err := s.Record(result(wt, 90, true, 1, 1, 1))
		require.NoError(t, err)
	}

	list, err := s.ListDetections(2, 0)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "SHOES", list[0].Result.WasteType)
	assert.Equal(t, "METAL", list[1].Result.WasteType)

	rest, err := s.ListDetections(10, 2)
	require.NoError(t, err)
	require.Len(t, rest, 1)
	assert.Equal(t, "PAPER", rest[0].Result.WasteType)
}

func TestStats(t *testing.T) {
	s := newTestStore(t)

	empty, err := s.Stats()
	require.NoError(t, err)
	assert.Equal(t, domain.Stats{}, empty)

	for _, r := range []domain.Result{
		result("GLASS", 91, true, 0.8, 2.8, 15),
		result("PLASTIC", 88, true, 1.0, 3.0, 22),
		result("PLASTIC", 97, true, 1.0, 3.0, 22),
		result("MIXED", 70, false, 0, 0, 0),
	} {
		_, err := s.Record(r)
		require.NoError(t, err)
	}

	st, err := s.Stats()
	require.NoError(t, err)
	assert.Equal(t, 4, st.ItemsDetected)
	assert.Equal(t, 3, st.Recyclable)
	assert.Equal(t, 75, st.RecyclingRate)
	assert.InDelta(t, 2.8, st.CO2Saved, 1e-9)
	assert.InDelta(t, 8.8, st.EnergySaved, 1e-9)
	assert.InDelta(t, 59, st.WaterSaved, 1e-9)
}

func TestCategoryBreakdown(t *testing.T) {
	s := newTestStore(t)

	for _, wt := range []string{"PLASTIC", "GLASS", "PLASTIC", "BATTERY", "PLASTIC", "GLASS"} {
		_, err := s.Record(result(wt, 90, true, 1, 1, 1))
		require.NoError(t, err)
	}

	counts, err := s.CategoryBreakdown()
	require.NoError(t, err)
	assert.Equal(t, []domain.CategoryCount{
		{WasteType: "PLASTIC", Count: 3},
		{WasteType: "GLASS", Count: 2},
		{WasteType: "BATTERY", Count: 1},
	}, counts)
}

func TestConfidenceHistogram(t *testing.T) {
	s := newTestStore(t)

	for _, c := range []int{98, 90, 89, 85, 72, 61, 12} {
		_, err := s.Record(result("PAPER", c, true, 1, 1, 1))
		require.NoError(t, err)
	}

	hist, err := s.ConfidenceHistogram()
	require.NoError(t, err)
	assert.Equal(t, []domain.ConfidenceBucket{
		{Range: "90-100%", Count: 2},
		{Range: "80-89%", Count: 2},
		{Range: "70-79%", Count: 1},
		{Range: "60-69%", Count: 1},
		{Range: "<60%", Count: 1},
	}, hist)
}
