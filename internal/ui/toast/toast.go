// Package toast renders transient notifications.
package toast

import (
	"github.com/charmbracelet/lipgloss"
	"github.com/kanbaru/walletbridge/internal/types"
	"github.com/kanbaru/walletbridge/internal/ui/styles"
)

// Renderer handles rendering of toast notifications
type Renderer struct {
	styles *styles.Styles
}

// New creates a new Renderer with the given styles
func New(styles *styles.Styles) *Renderer {
	return &Renderer{styles: styles}
}

// Render renders a stack of toasts aligned to the right.
// Returns empty string if there is nothing to display.
func (r *Renderer) Render(toasts []types.Toast, width int) string {
	if len(toasts) == 0 {
		return ""
	}

	toastWidth := width / 3
	if toastWidth > 44 {
		toastWidth = 44
	}

	var rendered []string
	for _, t := range toasts {
		rendered = append(rendered, r.styleForLevel(t.Level).Width(toastWidth).Render(t.Message))
	}
	return lipgloss.JoinVertical(lipgloss.Right, rendered...)
}

func (r *Renderer) styleForLevel(level types.ToastLevel) lipgloss.Style {
	switch level {
	case types.ToastSuccess:
		return r.styles.ToastSuccess
	case types.ToastError:
		return r.styles.ToastError
	default:
		return r.styles.ToastInfo
	}
}
