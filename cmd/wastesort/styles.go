package main

import (
	"github.com/charmbracelet/lipgloss"
	"github.com/pbaille/wastesort/internal/catalog"
)

var (
	headerStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("86"))
	mutedStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	warningStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#DC2626"))
	successStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#16A34A"))
)

// badge renders a category label in the category's own colors
func badge(cat *catalog.Catalog, id, label string) string {
	return lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color(cat.ColorOf(id))).
		Background(lipgloss.Color(cat.LightBgOf(id))).
		Padding(0, 1).
		Render(label)
}
