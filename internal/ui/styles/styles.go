// Package styles holds the lipgloss styles shared by the walletbridge views.
package styles

import (
	"github.com/charmbracelet/lipgloss"
	"github.com/kanbaru/walletbridge/internal/domain"
)

// Styles holds all the UI styles
type Styles struct {
	// Frame
	App   lipgloss.Style
	Title lipgloss.Style

	// Connect checklist
	Checklist   lipgloss.Style
	PhaseRow    lipgloss.Style
	PhaseActive lipgloss.Style
	PhaseLabel  lipgloss.Style
	Account     lipgloss.Style
	Banner      lipgloss.Style

	// Timeline table
	Timeline       lipgloss.Style
	TimelineHeader lipgloss.Style
	TimelineCell   lipgloss.Style
	TimelineEmpty  lipgloss.Style

	// Status bar
	StatusBar  lipgloss.Style
	StatusMode lipgloss.Style
	StatusHint lipgloss.Style

	// Toasts
	ToastInfo    lipgloss.Style
	ToastSuccess lipgloss.Style
	ToastError   lipgloss.Style
}

// New creates a new Styles instance with Catppuccin Macchiato theme
func New() *Styles {
	return &Styles{
		App: lipgloss.NewStyle().
			Padding(1, 2),

		Title: lipgloss.NewStyle().
			Foreground(Lavender).
			Bold(true).
			MarginBottom(1),

		Checklist: lipgloss.NewStyle().
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(Surface1).
			Padding(0, 1),

		PhaseRow: lipgloss.NewStyle().
			Foreground(Subtext0),

		PhaseActive: lipgloss.NewStyle().
			Foreground(Text).
			Bold(true),

		PhaseLabel: lipgloss.NewStyle().
			PaddingLeft(1),

		Account: lipgloss.NewStyle().
			Foreground(Teal).
			Bold(true),

		Banner: lipgloss.NewStyle().
			Foreground(Sapphire).
			MarginBottom(1),

		Timeline: lipgloss.NewStyle().
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(Surface1).
			Padding(0, 1),

		TimelineHeader: lipgloss.NewStyle().
			Foreground(Blue).
			Bold(true),

		TimelineCell: lipgloss.NewStyle().
			Foreground(Text),

		TimelineEmpty: lipgloss.NewStyle().
			Foreground(Overlay0),

		StatusBar: lipgloss.NewStyle().
			Background(Mantle).
			Foreground(Subtext0),

		StatusMode: lipgloss.NewStyle().
			Background(Blue).
			Foreground(Base).
			Bold(true).
			Padding(0, 1),

		StatusHint: lipgloss.NewStyle().
			Foreground(Overlay0),

		ToastInfo: lipgloss.NewStyle().
			Background(Surface0).
			Foreground(Text).
			Padding(0, 1),

		ToastSuccess: lipgloss.NewStyle().
			Background(Green).
			Foreground(Base).
			Padding(0, 1),

		ToastError: lipgloss.NewStyle().
			Background(Red).
			Foreground(Base).
			Padding(0, 1),
	}
}

// ForStatus returns the row style for a phase status
func (s *Styles) ForStatus(status domain.Status) lipgloss.Style {
	color, ok := StatusColors[status]
	if !ok {
		color = Overlay0
	}
	return lipgloss.NewStyle().Foreground(color)
}
