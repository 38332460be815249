package classifier

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultTable(t *testing.T) {
	table := DefaultTable()

	require.NoError(t, table.Validate())
	assert.Equal(t, 100, table.TotalWeight())
	assert.Equal(t, []string{
		"PLASTIC", "CARDBOARD", "PAPER", "GLASS", "METAL", "ORGANIC", "BATTERY", "CLOTHES", "SHOES",
	}, table.Categories())
}

func TestSelect(t *testing.T) {
	table := DefaultTable()

	tests := []struct {
		r    float64
		want string
	}{
		{0, "PLASTIC"},
		{29.999, "PLASTIC"},
		{30, "PLASTIC"}, // boundary goes to the earlier entry
		{30.001, "CARDBOARD"},
		{50, "CARDBOARD"},
		{64.5, "PAPER"},
		{75, "GLASS"},
		{85, "METAL"},
		{92.5, "ORGANIC"},
		{95.5, "BATTERY"},
		{97.5, "CLOTHES"},
		{99.999, "SHOES"},
		{150, "PLASTIC"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, table[table.Select(tt.r)].Category, "r=%v", tt.r)
	}
}

func TestValidateTable(t *testing.T) {
	tests := []struct {
		name  string
		table Table
	}{
		{"empty", Table{}},
		{"no category", Table{{Weight: 1, Items: []string{"x"}}}},
		{"zero weight", Table{{Category: "A", Weight: 0, Items: []string{"x"}}}},
		{"negative weight", Table{{Category: "A", Weight: -2, Items: []string{"x"}}}},
		{"no items", Table{{Category: "A", Weight: 1}}},
		{"duplicate", Table{
			{Category: "A", Weight: 1, Items: []string{"x"}},
			{Category: "A", Weight: 1, Items: []string{"y"}},
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.ErrorIs(t, tt.table.Validate(), ErrInvalidTable)
		})
	}
}

func TestLoadTable(t *testing.T) {
	dir := t.TempDir()

	good := filepath.Join(dir, "good.yaml")
	require.NoError(t, os.WriteFile(good, []byte(`
candidates:
  - category: GLASS
    weight: 3
    items: [Glass Jar]
  - category: METAL
    weight: 1
    items: [Tin Can, Foil]
`), 0o644))

	table, err := LoadTable(good)
	require.NoError(t, err)
	assert.Equal(t, Table{
		{Category: "GLASS", Weight: 3, Items: []string{"Glass Jar"}},
		{Category: "METAL", Weight: 1, Items: []string{"Tin Can", "Foil"}},
	}, table)

	empty := filepath.Join(dir, "empty.yaml")
	require.NoError(t, os.WriteFile(empty, []byte("candidates: []\n"), 0o644))
	_, err = LoadTable(empty)
	assert.ErrorIs(t, err, ErrInvalidTable)

	_, err = LoadTable(filepath.Join(dir, "missing.yaml"))
	assert.Error(t, err)
}
