package styles

import (
	"github.com/charmbracelet/lipgloss"
	"github.com/kanbaru/walletbridge/internal/domain"
)

// Catppuccin Macchiato palette
var (
	// Base colors
	Base     = lipgloss.Color("#24273a")
	Mantle   = lipgloss.Color("#1e2030")
	Surface0 = lipgloss.Color("#363a4f")
	Surface1 = lipgloss.Color("#494d64")
	Overlay0 = lipgloss.Color("#6e738d")
	Subtext0 = lipgloss.Color("#a5adcb")
	Text     = lipgloss.Color("#cad3f5")

	// Accent colors
	Red      = lipgloss.Color("#ed8796")
	Peach    = lipgloss.Color("#f5a97f")
	Yellow   = lipgloss.Color("#eed49f")
	Green    = lipgloss.Color("#a6da95")
	Teal     = lipgloss.Color("#8bd5ca")
	Sapphire = lipgloss.Color("#7dc4e4")
	Blue     = lipgloss.Color("#8aadf4")
	Lavender = lipgloss.Color("#b7bdf8")
)

// StatusColors maps a phase status to its display color
var StatusColors = map[domain.Status]lipgloss.Color{
	domain.StatusWaiting:    Overlay0,
	domain.StatusInProgress: Yellow,
	domain.StatusSuccess:    Green,
	domain.StatusFail:       Red,
	domain.StatusCancelled:  Peach,
}
