// Package timeline renders the per-phase, per-status timestamp table.
package timeline

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/kanbaru/walletbridge/internal/connection"
	"github.com/kanbaru/walletbridge/internal/domain"
	"github.com/kanbaru/walletbridge/internal/ui/styles"
)

const cellWidth = 12
const labelWidth = 16

// Render renders the timeline as a table: one row per phase, one column per
// status, each cell holding the time the pair was last entered.
func Render(tl *connection.Timeline, timeFormat string, s *styles.Styles) string {
	var lines []string

	header := pad("", labelWidth)
	for _, status := range domain.Statuses {
		header += s.TimelineHeader.Render(pad(status.String(), cellWidth))
	}
	lines = append(lines, header)

	for _, phase := range domain.PhaseOrder {
		line := s.TimelineHeader.Render(pad(phase.String(), labelWidth))
		for _, status := range domain.Statuses {
			at := tl.At(phase, status)
			if at == nil {
				line += s.TimelineEmpty.Render(pad("-", cellWidth))
				continue
			}
			line += s.TimelineCell.Render(pad(at.Format(timeFormat), cellWidth))
		}
		lines = append(lines, line)
	}

	title := s.TimelineHeader.Render("Connection timeline")
	body := lipgloss.JoinVertical(lipgloss.Left, lines...)
	return s.Timeline.Render(lipgloss.JoinVertical(lipgloss.Left, title, "", body))
}

func pad(v string, width int) string {
	if len(v) >= width {
		return v[:width-1] + " "
	}
	return fmt.Sprintf("%s%s", v, strings.Repeat(" ", width-len(v)))
}
