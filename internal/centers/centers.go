// Package centers lists drop-off locations and the waste they accept.
package centers

import (
	"slices"
	"sort"

	"github.com/pbaille/wastesort/internal/catalog"
	"github.com/pbaille/wastesort/internal/domain"
)

// AllTypes marks a center that accepts every category
const AllTypes = "All Types"

// acceptedLabels maps the labels centers advertise to category ids.
// Labels without a category (e.g. "Electronics") are shown but never matched.
var acceptedLabels = map[string]string{
	"Plastic":   catalog.Plastic,
	"Glass":     catalog.Glass,
	"Paper":     catalog.Paper,
	"Metal":     catalog.Metal,
	"Cardboard": catalog.Cardboard,
	"Batteries": catalog.Battery,
	"Clothes":   catalog.Clothes,
	"Textiles":  catalog.Clothes,
	"Shoes":     catalog.Shoes,
	"Organic":   catalog.Organic,
}

var builtin = []domain.Center{
	{
		Name:          "Green Recycling Center",
		DistanceKm:    2.3,
		Address:       "123 Eco Street, Green District",
		Phone:         "+1 234-567-8900",
		Hours:         "Mon-Sat: 8:00 AM - 6:00 PM",
		AcceptedTypes: []string{"Plastic", "Glass", "Paper", "Metal"},
		IsOpen:        true,
	},
	{
		Name:          "EcoHub Collection Point",
		DistanceKm:    4.7,
		Address:       "456 Sustainability Ave, Eco City",
		Phone:         "+1 234-567-8901",
		Hours:         "Daily: 7:00 AM - 8:00 PM",
		AcceptedTypes: []string{"Plastic", "Electronics", "Batteries"},
		IsOpen:        true,
	},
	{
		Name:          "City Waste Management",
		DistanceKm:    6.1,
		Address:       "789 Municipal Road, Downtown",
		Phone:         "+1 234-567-8902",
		Hours:         "Mon-Fri: 9:00 AM - 5:00 PM",
		AcceptedTypes: []string{AllTypes},
		IsOpen:        false,
	},
	{
		Name:          "Community Recycling Hub",
		DistanceKm:    8.5,
		Address:       "321 Community Lane, Suburb",
		Phone:         "+1 234-567-8903",
		Hours:         "Tue-Sun: 10:00 AM - 7:00 PM",
		AcceptedTypes: []string{"Paper", "Cardboard", "Metal"},
		IsOpen:        true,
	},
}

// Directory is a read-only set of centers
type Directory struct {
	centers []domain.Center
}

// Filter narrows a search. Zero values match everything.
type Filter struct {
	Category string
	OpenOnly bool
}

// New builds a directory over list
func New(list []domain.Center) *Directory {
	d := &Directory{centers: make([]domain.Center, len(list))}
	for i, c := range list {
		c.AcceptedTypes = slices.Clone(c.AcceptedTypes)
		d.centers[i] = c
	}
	return d
}

// Default returns the built-in directory
func Default() *Directory {
	return New(builtin)
}

// Find returns matching centers, nearest first
func (d *Directory) Find(f Filter) []domain.Center {
	var out []domain.Center
	for _, c := range d.centers {
		if f.OpenOnly && !c.IsOpen {
			continue
		}
		if f.Category != "" && !Accepts(c, f.Category) {
			continue
		}
		c.AcceptedTypes = slices.Clone(c.AcceptedTypes)
		out = append(out, c)
	}

	sort.SliceStable(out, func(i, j int) bool {
		return out[i].DistanceKm < out[j].DistanceKm
	})
	return out
}

// Accepts reports whether c takes waste of category id
func Accepts(c domain.Center, id string) bool {
	for _, label := range c.AcceptedTypes {
		if label == AllTypes {
			return true
		}
		if mapped, ok := acceptedLabels[label]; ok && mapped == id {
			return true
		}
	}
	return false
}
