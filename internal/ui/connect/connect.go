// Package connect renders the wallet-connection phase checklist.
package connect

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/kanbaru/walletbridge/internal/domain"
	"github.com/kanbaru/walletbridge/internal/ui/styles"
)

// Row is one checklist line: a phase with its current status.
type Row struct {
	Phase     domain.Phase
	Status    domain.Status
	Timestamp *time.Time
}

// Render renders the connection checklist.
//
// The in-progress phase shows the spinner frame instead of its status icon;
// the current phase is highlighted. When account is non-empty it is shown
// under the checklist in truncated form.
func Render(
	rows []Row,
	current domain.Phase,
	firstTime bool,
	account string,
	spinnerFrame string,
	timeFormat string,
	s *styles.Styles,
) string {
	var lines []string

	banner := "Welcome back, reconnecting your wallet"
	if firstTime {
		banner = "Connecting your wallet for the first time"
	}
	lines = append(lines, s.Banner.Render(banner))

	for _, row := range rows {
		icon := row.Status.Icon()
		if row.Status == domain.StatusInProgress && spinnerFrame != "" {
			icon = spinnerFrame
		}
		icon = s.ForStatus(row.Status).Render(icon)

		label := row.Phase.Label()
		labelStyle := s.PhaseRow
		if row.Phase == current {
			labelStyle = s.PhaseActive
		}

		line := icon + s.PhaseLabel.Inherit(labelStyle).Render(label)
		if row.Timestamp != nil && row.Status.Terminal() {
			line += s.TimelineEmpty.Render("  " + row.Timestamp.Format(timeFormat))
		}
		lines = append(lines, line)
	}

	if account != "" {
		lines = append(lines, "")
		lines = append(lines, s.PhaseRow.Render("Account ")+s.Account.Render(TruncateAddress(account)))
	}

	return s.Checklist.Render(lipgloss.JoinVertical(lipgloss.Left, lines...))
}

// TruncateAddress shortens a 0x address to its first and last four hex chars.
func TruncateAddress(addr string) string {
	const keep = 4
	trimmed := strings.TrimSpace(addr)
	if len(trimmed) <= 2+2*keep {
		return trimmed
	}
	return fmt.Sprintf("%s…%s", trimmed[:2+keep], trimmed[len(trimmed)-keep:])
}
