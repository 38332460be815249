// Package catalog holds the read-only registry of waste categories.
package catalog

import (
	"errors"
	"fmt"
	"os"
	"slices"

	"github.com/pbaille/wastesort/internal/domain"
	"gopkg.in/yaml.v3"
)

// Defaults returned by the tolerant accessors for ids outside the catalog.
const (
	DefaultColor   = "#64748B"
	DefaultLightBg = "#F1F5F9"
	DefaultIcon    = "📦"
)

// ErrUnknownCategory is returned when an id is not part of the catalog
var ErrUnknownCategory = errors.New("unknown category")

// ErrInvalidCatalog is returned when catalog records fail validation
var ErrInvalidCatalog = errors.New("invalid catalog")

// Catalog maps category ids to their records. It is never mutated after New
// returns, so concurrent reads need no locking.
type Catalog struct {
	order   []string
	records map[string]domain.Category
}

// New builds a catalog from records, keeping their order
func New(records []domain.Category) (*Catalog, error) {
	if len(records) == 0 {
		return nil, fmt.Errorf("%w: no categories", ErrInvalidCatalog)
	}

	c := &Catalog{
		order:   make([]string, 0, len(records)),
		records: make(map[string]domain.Category, len(records)),
	}

	for _, r := range records {
		if r.ID == "" {
			return nil, fmt.Errorf("%w: category without id", ErrInvalidCatalog)
		}
		if _, dup := c.records[r.ID]; dup {
			return nil, fmt.Errorf("%w: duplicate category %s", ErrInvalidCatalog, r.ID)
		}
		if r.CO2Impact < 0 || r.EnergyImpact < 0 || r.WaterImpact < 0 {
			return nil, fmt.Errorf("%w: negative impact for %s", ErrInvalidCatalog, r.ID)
		}
		c.order = append(c.order, r.ID)
		c.records[r.ID] = clone(r)
	}

	return c, nil
}

// Default returns the built-in catalog
func Default() *Catalog {
	c, err := New(builtin)
	if err != nil {
		panic(fmt.Sprintf("built-in catalog: %v", err))
	}
	return c
}

type catalogFile struct {
	Categories []domain.Category `yaml:"categories"`
}

// Load reads a catalog from a YAML file with a top-level "categories" list
func Load(path string) (*Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read catalog: %w", err)
	}

	var f catalogFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parse catalog: %w", err)
	}

	return New(f.Categories)
}

// Lookup returns the record for id or ErrUnknownCategory
func (c *Catalog) Lookup(id string) (domain.Category, error) {
	r, ok := c.records[id]
	if !ok {
		return domain.Category{}, fmt.Errorf("%w: %s", ErrUnknownCategory, id)
	}
	return clone(r), nil
}

// Has reports whether id is part of the catalog
func (c *Catalog) Has(id string) bool {
	_, ok := c.records[id]
	return ok
}

// ColorOf returns the display color for id, or DefaultColor
func (c *Catalog) ColorOf(id string) string {
	if r, ok := c.records[id]; ok && r.Color != "" {
		return r.Color
	}
	return DefaultColor
}

// LightBgOf returns the light background color for id, or DefaultLightBg
func (c *Catalog) LightBgOf(id string) string {
	if r, ok := c.records[id]; ok && r.LightBg != "" {
		return r.LightBg
	}
	return DefaultLightBg
}

// IconOf returns the icon for id, or DefaultIcon
func (c *Catalog) IconOf(id string) string {
	if r, ok := c.records[id]; ok && r.Icon != "" {
		return r.Icon
	}
	return DefaultIcon
}

// IDs returns category ids in declaration order
func (c *Catalog) IDs() []string {
	return slices.Clone(c.order)
}

// All returns every record in declaration order
func (c *Catalog) All() []domain.Category {
	out := make([]domain.Category, 0, len(c.order))
	for _, id := range c.order {
		out = append(out, clone(c.records[id]))
	}
	return out
}

func clone(r domain.Category) domain.Category {
	r.DisposalInstructions = slices.Clone(r.DisposalInstructions)
	r.Warnings = slices.Clone(r.Warnings)
	return r
}
