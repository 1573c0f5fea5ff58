package connection

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/kanbaru/walletbridge/internal/domain"
)

// PersistedState is the subset of the connection state that survives between
// sessions. Phase statuses and timestamps are always rebuilt fresh at startup
// and never restored.
type PersistedState struct {
	SessionID                string
	FirstTimeConnection      bool
	LastSuccessfulConnection *time.Time
}

// Store persists the two continuity fields between runs. Load must never fail
// hard on missing or malformed data; it returns defaults instead.
type Store interface {
	Load() (PersistedState, error)
	Save(PersistedState) error
}

// PhaseInfo is a read-only snapshot of the current phase.
type PhaseInfo struct {
	Phase     domain.Phase
	Status    domain.Status
	Timestamp *time.Time
}

// Config contains tunables for the connection machine.
type Config struct {
	// StaleAfter is how long a previous successful connection stays fresh.
	// Past it the user is treated as a first-time connection again.
	StaleAfter time.Duration
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() Config {
	return Config{
		StaleAfter: 15 * time.Minute,
	}
}

// Machine owns the connection flow state: the current phase pointer, the
// per-phase status and last-change timestamp, the first-connection flag and
// the last-successful-connection timestamp.
//
// Every status change is mirrored into the injected Timeline, and the two
// continuity fields are written through to the injected Store after every
// mutation.
//
// Operations are synchronous and never fail. The Machine is not safe for
// concurrent use; callers must serialize operations, which the Bubble Tea
// update loop already does.
type Machine struct {
	cfg      Config
	timeline *Timeline
	store    Store
	logger   *slog.Logger

	sessionID                string
	firstTimeConnection      bool
	lastSuccessfulConnection *time.Time
	currentPhase             domain.Phase
	statuses                 map[domain.Phase]domain.Status
	timestamps               map[domain.Phase]*time.Time

	// now is overridable in tests
	now func() time.Time
}

// NewMachine creates a Machine with all phases waiting, restoring the
// continuity fields from store. A stale or absent last successful connection
// forces the first-connection flag back on.
func NewMachine(cfg Config, timeline *Timeline, store Store, logger *slog.Logger) *Machine {
	if logger == nil {
		logger = slog.Default()
	}

	m := &Machine{
		cfg:       cfg,
		timeline:  timeline,
		store:     store,
		logger:    logger,
		sessionID: uuid.NewString(),
		now:       time.Now,
	}
	m.resetPhases()

	persisted := PersistedState{FirstTimeConnection: true}
	if store != nil {
		loaded, err := store.Load()
		if err != nil {
			logger.Warn("failed to load connection storage, using defaults", "error", err)
		} else {
			persisted = loaded
		}
	}
	m.firstTimeConnection = persisted.FirstTimeConnection
	m.lastSuccessfulConnection = persisted.LastSuccessfulConnection

	if m.stale() {
		m.firstTimeConnection = true
	}

	m.logger.Info("connection session started",
		"session_id", m.sessionID,
		"first_time", m.firstTimeConnection,
	)
	m.persist()
	return m
}

// stale reports whether the last successful connection is too old to count.
// A missing timestamp counts as infinitely old.
func (m *Machine) stale() bool {
	if m.lastSuccessfulConnection == nil {
		return true
	}
	return m.now().Sub(*m.lastSuccessfulConnection) > m.cfg.StaleAfter
}

// FirstStart begins a fresh run for a first-time connection: all phases reset
// to waiting, the first phase enters inProgress, and the first-connection flag
// is cleared.
func (m *Machine) FirstStart() {
	m.resetPhases()
	m.firstTimeConnection = false
	m.enterPhase(domain.FirstPhase(), m.now())
	m.persist()
}

// Restart begins a fresh run without touching the first-connection flag.
func (m *Machine) Restart() {
	m.resetPhases()
	m.enterPhase(domain.FirstPhase(), m.now())
	m.persist()
}

// GoOn marks the current phase as succeeded and advances to the next phase.
// When the last phase succeeds the flow is complete and the last successful
// connection timestamp is set; the current phase pointer stays put.
func (m *Machine) GoOn() {
	now := m.now()
	m.setStatus(m.currentPhase, domain.StatusSuccess, now)

	next, ok := domain.NextPhase(m.currentPhase)
	if !ok {
		m.lastSuccessfulConnection = &now
		m.logger.Info("connection established", "session_id", m.sessionID)
		m.persist()
		return
	}
	m.enterPhase(next, now)
	m.persist()
}

// GoFail marks the current phase as failed. The phase pointer does not move;
// the flow halts in place until Restart or Cancel.
func (m *Machine) GoFail() {
	m.setStatus(m.currentPhase, domain.StatusFail, m.now())
	m.logger.Info("phase failed", "session_id", m.sessionID, "phase", m.currentPhase)
	m.persist()
}

// Cancel marks the current phase as cancelled. The phase pointer does not move.
func (m *Machine) Cancel() {
	m.setStatus(m.currentPhase, domain.StatusCancelled, m.now())
	m.persist()
}

// SetPhaseStatus overrides the status of an arbitrary phase.
//
// For any status except waiting the phase timestamp is refreshed and mirrored
// into the timeline. Resetting a phase to waiting keeps its existing timestamp
// and leaves the timeline untouched, so history is not erased for a phase
// being put back to pending.
//
// Phase and status are closed enumerations; an out-of-range value is a
// programmer error and panics.
func (m *Machine) SetPhaseStatus(phase domain.Phase, status domain.Status) {
	if !phase.Valid() {
		panic(fmt.Sprintf("connection: unknown phase %q", phase))
	}
	if !status.Valid() {
		panic(fmt.Sprintf("connection: unknown status %q", status))
	}

	if status == domain.StatusWaiting {
		m.statuses[phase] = status
		m.persist()
		return
	}
	m.setStatus(phase, status, m.now())
	m.persist()
}

// ResetStatuses returns every phase to waiting with no timestamp, moves the
// phase pointer back to the first phase and clears the timeline. The
// continuity fields are not touched.
func (m *Machine) ResetStatuses() {
	m.resetPhases()
	m.persist()
}

// FullReset performs ResetStatuses and additionally forgets the continuity
// fields, as if the user had never connected.
func (m *Machine) FullReset() {
	m.resetPhases()
	m.firstTimeConnection = true
	m.lastSuccessfulConnection = nil
	m.persist()
}

// PhaseInfo returns a snapshot of the current phase. No side effects.
func (m *Machine) PhaseInfo() PhaseInfo {
	return PhaseInfo{
		Phase:     m.currentPhase,
		Status:    m.statuses[m.currentPhase],
		Timestamp: m.timestamps[m.currentPhase],
	}
}

// InProgress reports whether any phase is currently in progress.
func (m *Machine) InProgress() bool {
	for _, status := range m.statuses {
		if status == domain.StatusInProgress {
			return true
		}
	}
	return false
}

// Status returns the status of the given phase.
func (m *Machine) Status(phase domain.Phase) domain.Status {
	return m.statuses[phase]
}

// Timestamp returns the last status-change time of the given phase, or nil.
func (m *Machine) Timestamp(phase domain.Phase) *time.Time {
	return m.timestamps[phase]
}

// FirstTimeConnection reports whether this session counts as a first-time
// connection.
func (m *Machine) FirstTimeConnection() bool {
	return m.firstTimeConnection
}

// LastSuccessfulConnection returns when the flow last completed, or nil.
func (m *Machine) LastSuccessfulConnection() *time.Time {
	return m.lastSuccessfulConnection
}

// SessionID returns the identifier of this connection session.
func (m *Machine) SessionID() string {
	return m.sessionID
}

// Timeline returns the timeline collaborator for read-only display.
func (m *Machine) Timeline() *Timeline {
	return m.timeline
}

// enterPhase moves the phase pointer to phase and marks it in progress.
func (m *Machine) enterPhase(phase domain.Phase, at time.Time) {
	m.currentPhase = phase
	m.setStatus(phase, domain.StatusInProgress, at)
}

// setStatus records a status change and mirrors it into the timeline.
func (m *Machine) setStatus(phase domain.Phase, status domain.Status, at time.Time) {
	m.statuses[phase] = status
	m.timestamps[phase] = &at
	if m.timeline != nil {
		m.timeline.SetTimestamp(phase, status, at)
	}
}

// resetPhases rebuilds the per-phase state and clears the timeline.
func (m *Machine) resetPhases() {
	m.currentPhase = domain.FirstPhase()
	m.statuses = make(map[domain.Phase]domain.Status, len(domain.PhaseOrder))
	m.timestamps = make(map[domain.Phase]*time.Time, len(domain.PhaseOrder))
	for _, phase := range domain.PhaseOrder {
		m.statuses[phase] = domain.StatusWaiting
		m.timestamps[phase] = nil
	}
	if m.timeline != nil {
		m.timeline.Reset()
	}
}

// persist writes the continuity fields through to storage. Storage problems
// are logged, never surfaced to callers.
func (m *Machine) persist() {
	if m.store == nil {
		return
	}
	err := m.store.Save(PersistedState{
		SessionID:                m.sessionID,
		FirstTimeConnection:      m.firstTimeConnection,
		LastSuccessfulConnection: m.lastSuccessfulConnection,
	})
	if err != nil {
		m.logger.Warn("failed to save connection storage", "error", err)
	}
}
