package classifier

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Entry is one row of a candidate table
type Entry struct {
	Category string   `yaml:"category"`
	Weight   int      `yaml:"weight"`
	Items    []string `yaml:"items"`
}

// Table is an ordered list of weighted candidates. Order matters: it decides
// which entry wins on a boundary draw.
type Table []Entry

// DefaultTable returns the reference candidate table
func DefaultTable() Table {
	return Table{
		{Category: "PLASTIC", Weight: 30, Items: []string{"Plastic Bottle", "Plastic Container", "Plastic Bag", "Plastic Packaging"}},
		{Category: "CARDBOARD", Weight: 20, Items: []string{"Cardboard Box", "Pizza Box", "Shipping Box", "Cardboard Packaging"}},
		{Category: "PAPER", Weight: 15, Items: []string{"Paper Document", "Newspaper", "Magazine", "Paper Bag"}},
		{Category: "GLASS", Weight: 10, Items: []string{"Glass Bottle", "Glass Jar", "Glass Container"}},
		{Category: "METAL", Weight: 10, Items: []string{"Aluminum Can", "Tin Can", "Metal Container", "Foil"}},
		{Category: "ORGANIC", Weight: 8, Items: []string{"Food Waste", "Fruit Peels", "Vegetable Scraps", "Compostable Material"}},
		{Category: "BATTERY", Weight: 3, Items: []string{"AA Battery", "AAA Battery", "Lithium Battery", "Phone Battery"}},
		{Category: "CLOTHES", Weight: 2, Items: []string{"T-Shirt", "Jeans", "Fabric", "Textile"}},
		{Category: "SHOES", Weight: 2, Items: []string{"Sneakers", "Boots", "Sandals", "Footwear"}},
	}
}

type tableFile struct {
	Candidates Table `yaml:"candidates"`
}

// LoadTable reads a candidate table from a YAML file with a top-level
// "candidates" list and validates it.
func LoadTable(path string) (Table, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read table: %w", err)
	}

	var f tableFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parse table: %w", err)
	}

	if err := f.Candidates.Validate(); err != nil {
		return nil, err
	}
	return f.Candidates, nil
}

// Validate rejects tables the sampler cannot draw from
func (t Table) Validate() error {
	if len(t) == 0 {
		return fmt.Errorf("%w: no entries", ErrInvalidTable)
	}

	seen := make(map[string]bool, len(t))
	for i, e := range t {
		switch {
		case e.Category == "":
			return fmt.Errorf("%w: entry %d has no category", ErrInvalidTable, i)
		case seen[e.Category]:
			return fmt.Errorf("%w: duplicate category %s", ErrInvalidTable, e.Category)
		case e.Weight <= 0:
			return fmt.Errorf("%w: %s has non-positive weight %d", ErrInvalidTable, e.Category, e.Weight)
		case len(e.Items) == 0:
			return fmt.Errorf("%w: %s has no items", ErrInvalidTable, e.Category)
		}
		seen[e.Category] = true
	}
	return nil
}

// TotalWeight is the sum of all entry weights
func (t Table) TotalWeight() int {
	total := 0
	for _, e := range t {
		total += e.Weight
	}
	return total
}

// Select maps a draw r in [0, TotalWeight) to an entry index. Weights are
// subtracted in table order and the first entry whose remainder reaches
// zero or below wins. Draws at or beyond the total fall back to the first
// entry.
func (t Table) Select(r float64) int {
	for i, e := range t {
		r -= float64(e.Weight)
		if r <= 0 {
			return i
		}
	}
	return 0
}

// Categories returns the category ids in table order
func (t Table) Categories() []string {
	ids := make([]string, len(t))
	for i, e := range t {
		ids[i] = e.Category
	}
	return ids
}
