// Package store keeps the detections of the running session. The database
// lives in memory and is discarded on Close.
package store

import (
	"database/sql"
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3"
	"github.com/pbaille/wastesort/internal/domain"
)

//go:embed schema.sql
var schema string

// ErrNotFound is returned when no detection matches an id
var ErrNotFound = errors.New("detection not found")

// Store handles ledger operations
type Store struct {
	db  *sql.DB
	now func() time.Time
}

// New opens an empty in-memory ledger
func New() (*Store, error) {
	db, err := sql.Open("sqlite3", ":memory:")
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	// Every connection to :memory: is a separate database
	db.SetMaxOpenConns(1)

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("init schema: %w", err)
	}

	return &Store{db: db, now: time.Now}, nil
}

// Close discards the ledger
func (s *Store) Close() error {
	return s.db.Close()
}

// Record stores a resolved result and returns the ledger entry
func (s *Store) Record(res domain.Result) (*domain.Detection, error) {
	payload, err := json.Marshal(res)
	if err != nil {
		return nil, fmt.Errorf("marshal result: %w", err)
	}

	id := uuid.New().String()
	now := s.now().UTC()

	_, err = s.db.Exec(`
		INSERT INTO detections
			(id, waste_type, item_name, confidence, is_recyclable, co2_impact, energy_impact, water_impact, result, detected_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		id, res.WasteType, res.ItemName, res.Confidence, res.IsRecyclable,
		res.CO2Impact, res.EnergyImpact, res.WaterImpact, string(payload), now,
	)
	if err != nil {
		return nil, fmt.Errorf("insert detection: %w", err)
	}

	return &domain.Detection{ID: id, Result: res, DetectedAt: now}, nil
}

// GetDetection retrieves a detection by id or unique id prefix
func (s *Store) GetDetection(idOrPrefix string) (*domain.Detection, error) {
	rows, err := s.db.Query(
		"SELECT id, result, detected_at FROM detections WHERE id LIKE ? ESCAPE '\\' LIMIT 2",
		escapeLike(idOrPrefix)+"%",
	)
	if err != nil {
		return nil, fmt.Errorf("get detection: %w", err)
	}
	defer rows.Close()

	found, err := scanDetections(rows)
	if err != nil {
		return nil, err
	}

	switch len(found) {
	case 0:
		return nil, fmt.Errorf("%w: %s", ErrNotFound, idOrPrefix)
	case 1:
		return &found[0], nil
	default:
		return nil, fmt.Errorf("ambiguous detection id prefix: %s", idOrPrefix)
	}
}

// ListDetections returns recent detections with pagination
func (s *Store) ListDetections(limit, offset int) ([]domain.Detection, error) {
	rows, err := s.db.Query(
		"SELECT id, result, detected_at FROM detections ORDER BY detected_at DESC, rowid DESC LIMIT ? OFFSET ?",
		limit, offset,
	)
	if err != nil {
		return nil, fmt.Errorf("list detections: %w", err)
	}
	defer rows.Close()

	return scanDetections(rows)
}

// Stats summarizes every recorded detection
func (s *Store) Stats() (domain.Stats, error) {
	var st domain.Stats
	err := s.db.QueryRow(`
		SELECT COUNT(*),
		       COALESCE(SUM(is_recyclable), 0),
		       COALESCE(SUM(co2_impact), 0),
		       COALESCE(SUM(energy_impact), 0),
		       COALESCE(SUM(water_impact), 0)
		FROM detections`,
	).Scan(&st.ItemsDetected, &st.Recyclable, &st.CO2Saved, &st.EnergySaved, &st.WaterSaved)
	if err != nil {
		return domain.Stats{}, fmt.Errorf("compute stats: %w", err)
	}

	if st.ItemsDetected > 0 {
		st.RecyclingRate = int(math.Round(float64(st.Recyclable) * 100 / float64(st.ItemsDetected)))
	}
	st.CO2Saved = round2(st.CO2Saved)
	st.EnergySaved = round2(st.EnergySaved)
	st.WaterSaved = round2(st.WaterSaved)

	return st, nil
}

// CategoryBreakdown counts detections per waste type, most frequent first
func (s *Store) CategoryBreakdown() ([]domain.CategoryCount, error) {
	rows, err := s.db.Query(
		"SELECT waste_type, COUNT(*) AS n FROM detections GROUP BY waste_type ORDER BY n DESC, waste_type",
	)
	if err != nil {
		return nil, fmt.Errorf("category breakdown: %w", err)
	}
	defer rows.Close()

	var counts []domain.CategoryCount
	for rows.Next() {
		var c domain.CategoryCount
		if err := rows.Scan(&c.WasteType, &c.Count); err != nil {
			return nil, fmt.Errorf("scan category count: %w", err)
		}
		counts = append(counts, c)
	}

	return counts, rows.Err()
}

// Confidence ranges reported by ConfidenceHistogram, highest first
var confidenceRanges = []struct {
	label    string
	min, max int
}{
	{"90-100%", 90, 100},
	{"80-89%", 80, 89},
	{"70-79%", 70, 79},
	{"60-69%", 60, 69},
	{"<60%", 0, 59},
}

// ConfidenceHistogram counts detections per confidence range. Every range is
// present, empty ones with a zero count.
func (s *Store) ConfidenceHistogram() ([]domain.ConfidenceBucket, error) {
	buckets := make([]domain.ConfidenceBucket, len(confidenceRanges))

	for i, r := range confidenceRanges {
		buckets[i].Range = r.label
		err := s.db.QueryRow(
			"SELECT COUNT(*) FROM detections WHERE confidence BETWEEN ? AND ?",
			r.min, r.max,
		).Scan(&buckets[i].Count)
		if err != nil {
			return nil, fmt.Errorf("confidence histogram: %w", err)
		}
	}

	return buckets, nil
}

func scanDetections(rows *sql.Rows) ([]domain.Detection, error) {
	var out []domain.Detection
	for rows.Next() {
		var (
			d       domain.Detection
			payload string
		)
		if err := rows.Scan(&d.ID, &payload, &d.DetectedAt); err != nil {
			return nil, fmt.Errorf("scan detection: %w", err)
		}
		if err := json.Unmarshal([]byte(payload), &d.Result); err != nil {
			return nil, fmt.Errorf("decode detection %s: %w", d.ID, err)
		}
		out = append(out, d)
	}
	return out, rows.Err()
}

func escapeLike(s string) string {
	out := make([]rune, 0, len(s))
	for _, r := range s {
		if r == '%' || r == '_' || r == '\\' {
			out = append(out, '\\')
		}
		out = append(out, r)
	}
	return string(out)
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
