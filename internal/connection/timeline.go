// Package connection contains the wallet-connection flow core: the phase
// state machine and the timeline store that records when each phase entered
// each status.
package connection

import (
	"time"

	"github.com/kanbaru/walletbridge/internal/domain"
)

// Timeline records, per (phase, status) pair, the moment the pair was last
// entered. It is a passive recorder driven by the Machine; it holds no
// transition logic of its own.
//
// Unlike the Machine's per-phase timestamp (one slot per phase, overwritten on
// every change), the Timeline keeps one slot per (phase, status) pair, so the
// history of a whole run stays visible after later transitions.
type Timeline struct {
	entries map[domain.Phase]map[domain.Status]*time.Time
}

// NewTimeline creates a Timeline with every (phase, status) entry empty.
func NewTimeline() *Timeline {
	t := &Timeline{}
	t.Reset()
	return t
}

// SetTimestamp writes at into the (phase, status) slot. Repeated calls simply
// overwrite the previous value.
func (t *Timeline) SetTimestamp(phase domain.Phase, status domain.Status, at time.Time) {
	t.entries[phase][status] = &at
}

// MarkNow writes the current time into the (phase, status) slot.
func (t *Timeline) MarkNow(phase domain.Phase, status domain.Status) {
	t.SetTimestamp(phase, status, time.Now())
}

// At returns the recorded timestamp for the (phase, status) pair, or nil if
// the pair has not been entered since the last reset.
func (t *Timeline) At(phase domain.Phase, status domain.Status) *time.Time {
	return t.entries[phase][status]
}

// Reset clears every (phase, status) entry.
func (t *Timeline) Reset() {
	entries := make(map[domain.Phase]map[domain.Status]*time.Time, len(domain.PhaseOrder))
	for _, phase := range domain.PhaseOrder {
		row := make(map[domain.Status]*time.Time, len(domain.Statuses))
		for _, status := range domain.Statuses {
			row[status] = nil
		}
		entries[phase] = row
	}
	t.entries = entries
}
