// Package statusbar renders the bottom status bar of the TUI.
package statusbar

import (
	"github.com/charmbracelet/lipgloss"
	"github.com/kanbaru/walletbridge/internal/types"
	"github.com/kanbaru/walletbridge/internal/ui/styles"
)

// StatusBar represents the status bar at the bottom of the TUI
type StatusBar struct {
	view   types.View
	width  int
	styles *styles.Styles
}

// New creates a new StatusBar for the given view and width
func New(view types.View, width int, styles *styles.Styles) StatusBar {
	return StatusBar{
		view:   view,
		width:  width,
		styles: styles,
	}
}

// Render renders the status bar as a string
func (sb StatusBar) Render() string {
	viewBadge := sb.styles.StatusMode.Render(" " + sb.view.String() + " ")

	hints := GetHints(sb.view)
	if hints == "" {
		return sb.styles.StatusBar.Width(sb.width).Render(viewBadge)
	}

	separator := sb.styles.StatusHint.Render(" │ ")
	content := lipgloss.JoinHorizontal(lipgloss.Left,
		viewBadge, separator, sb.styles.StatusHint.Render(hints))
	return sb.styles.StatusBar.Width(sb.width).Render(content)
}
