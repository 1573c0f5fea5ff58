package connection

import (
	"errors"
	"testing"
	"time"

	"github.com/kanbaru/walletbridge/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeStore implements Store in memory and counts writes.
type fakeStore struct {
	persisted PersistedState
	loadErr   error
	saves     int
}

func (s *fakeStore) Load() (PersistedState, error) {
	if s.loadErr != nil {
		return PersistedState{FirstTimeConnection: true}, s.loadErr
	}
	return s.persisted, nil
}

func (s *fakeStore) Save(ps PersistedState) error {
	s.persisted = ps
	s.saves++
	return nil
}

func newTestMachine(t *testing.T) (*Machine, *Timeline) {
	t.Helper()
	tl := NewTimeline()
	m := NewMachine(DefaultConfig(), tl, nil, nil)
	return m, tl
}

func TestNewMachineStartsFresh(t *testing.T) {
	m, _ := newTestMachine(t)

	assert.Equal(t, domain.FirstPhase(), m.PhaseInfo().Phase)
	assert.True(t, m.FirstTimeConnection())
	assert.Nil(t, m.LastSuccessfulConnection())
	assert.NotEmpty(t, m.SessionID())
	for _, phase := range domain.PhaseOrder {
		assert.Equal(t, domain.StatusWaiting, m.Status(phase))
		assert.Nil(t, m.Timestamp(phase))
	}
}

func TestFirstStartEntersFirstPhase(t *testing.T) {
	m, tl := newTestMachine(t)

	m.FirstStart()

	info := m.PhaseInfo()
	assert.Equal(t, domain.FirstPhase(), info.Phase)
	assert.Equal(t, domain.StatusInProgress, info.Status)
	require.NotNil(t, info.Timestamp)
	assert.False(t, m.FirstTimeConnection())

	mirrored := tl.At(domain.FirstPhase(), domain.StatusInProgress)
	require.NotNil(t, mirrored)
	assert.True(t, mirrored.Equal(*info.Timestamp))
}

func TestFirstStartResetsResidualState(t *testing.T) {
	m, tl := newTestMachine(t)

	// Leave a previous, non-completed run behind
	m.FirstStart()
	m.GoOn()
	m.GoFail()

	m.FirstStart()

	assert.Equal(t, domain.StatusInProgress, m.Status(domain.PhaseInstalled))
	for _, phase := range domain.PhaseOrder[1:] {
		assert.Equal(t, domain.StatusWaiting, m.Status(phase), "residual status on %s", phase)
		assert.Nil(t, m.Timestamp(phase))
	}
	assert.Nil(t, tl.At(domain.PhaseUnlocked, domain.StatusFail), "timeline should be cleared")
}

func TestRestartKeepsFirstTimeFlag(t *testing.T) {
	m, tl := newTestMachine(t)

	m.Restart()

	assert.True(t, m.FirstTimeConnection(), "restart must not clear the first-connection flag")
	assert.Equal(t, domain.StatusInProgress, m.Status(domain.FirstPhase()))
	assert.NotNil(t, tl.At(domain.FirstPhase(), domain.StatusInProgress))
}

func TestRestartClearsTimeline(t *testing.T) {
	m, tl := newTestMachine(t)

	m.FirstStart()
	m.GoOn()
	require.NotNil(t, tl.At(domain.PhaseInstalled, domain.StatusSuccess))

	m.Restart()

	assert.Nil(t, tl.At(domain.PhaseInstalled, domain.StatusSuccess))
	assert.NotNil(t, tl.At(domain.FirstPhase(), domain.StatusInProgress))
}

// Order invariant: goOn visits the phases in exactly the fixed order.
func TestGoOnVisitsPhasesInOrder(t *testing.T) {
	m, _ := newTestMachine(t)
	m.FirstStart()

	var visited []domain.Phase
	visited = append(visited, m.PhaseInfo().Phase)
	for i := 0; i < len(domain.PhaseOrder)-1; i++ {
		m.GoOn()
		visited = append(visited, m.PhaseInfo().Phase)
	}

	assert.Equal(t, domain.PhaseOrder, visited)
}

// At most one phase is in progress at every observable point.
func TestAtMostOneInProgress(t *testing.T) {
	m, _ := newTestMachine(t)

	countInProgress := func() int {
		n := 0
		for _, phase := range domain.PhaseOrder {
			if m.Status(phase) == domain.StatusInProgress {
				n++
			}
		}
		return n
	}

	m.FirstStart()
	assert.Equal(t, 1, countInProgress())
	for i := 0; i < len(domain.PhaseOrder); i++ {
		m.GoOn()
		assert.LessOrEqual(t, countInProgress(), 1)
	}
}

// Terminal success propagation: only the last phase's success sets the
// last-successful-connection timestamp.
func TestGoOnTerminalSuccess(t *testing.T) {
	m, _ := newTestMachine(t)
	m.FirstStart()

	for i := 0; i < len(domain.PhaseOrder)-1; i++ {
		m.GoOn()
		assert.Nil(t, m.LastSuccessfulConnection(), "non-last phase must not set last success")
	}

	last := m.PhaseInfo().Phase
	m.GoOn()

	assert.Equal(t, last, m.PhaseInfo().Phase, "phase pointer stays on the last phase")
	assert.Equal(t, domain.StatusSuccess, m.Status(last))
	require.NotNil(t, m.LastSuccessfulConnection())
}

func TestGoFailHaltsInPlace(t *testing.T) {
	m, _ := newTestMachine(t)
	m.FirstStart()
	m.GoOn()

	before := m.PhaseInfo().Phase
	m.GoFail()

	info := m.PhaseInfo()
	assert.Equal(t, before, info.Phase)
	assert.Equal(t, domain.StatusFail, info.Status)
	assert.Nil(t, m.LastSuccessfulConnection())
}

func TestCancelMarksCurrentPhase(t *testing.T) {
	m, tl := newTestMachine(t)
	m.FirstStart()

	m.Cancel()

	info := m.PhaseInfo()
	assert.Equal(t, domain.FirstPhase(), info.Phase)
	assert.Equal(t, domain.StatusCancelled, info.Status)
	assert.NotNil(t, tl.At(domain.FirstPhase(), domain.StatusCancelled))
}

// Timeline mirrors transitions: after firstStart; goOn the success cell of
// phase 1 matches the machine timestamp taken at the moment of the call, and
// phase 2 has an inProgress cell.
func TestTimelineMirrorsTransitions(t *testing.T) {
	m, tl := newTestMachine(t)

	m.FirstStart()
	m.GoOn()

	p1, p2 := domain.PhaseOrder[0], domain.PhaseOrder[1]

	success := tl.At(p1, domain.StatusSuccess)
	require.NotNil(t, success)
	require.NotNil(t, m.Timestamp(p1))
	assert.True(t, success.Equal(*m.Timestamp(p1)))

	assert.NotNil(t, tl.At(p2, domain.StatusInProgress))
}

// setPhaseStatus(waiting) keeps the existing timestamp and does not touch the
// timeline.
func TestSetPhaseStatusWaitingPreservesTimestamp(t *testing.T) {
	m, tl := newTestMachine(t)
	m.FirstStart()
	m.GoFail()

	p := domain.FirstPhase()
	before := m.Timestamp(p)
	require.NotNil(t, before)
	failAt := tl.At(p, domain.StatusFail)
	require.NotNil(t, failAt)

	m.SetPhaseStatus(p, domain.StatusWaiting)

	assert.Equal(t, domain.StatusWaiting, m.Status(p))
	require.NotNil(t, m.Timestamp(p))
	assert.True(t, m.Timestamp(p).Equal(*before))
	assert.True(t, tl.At(p, domain.StatusFail).Equal(*failAt), "timeline row must be untouched")
	assert.Nil(t, tl.At(p, domain.StatusWaiting))
}

func TestSetPhaseStatusNonWaitingStampsAndMirrors(t *testing.T) {
	m, tl := newTestMachine(t)

	m.SetPhaseStatus(domain.PhaseCorrectNetwork, domain.StatusSuccess)

	assert.Equal(t, domain.StatusSuccess, m.Status(domain.PhaseCorrectNetwork))
	require.NotNil(t, m.Timestamp(domain.PhaseCorrectNetwork))
	assert.NotNil(t, tl.At(domain.PhaseCorrectNetwork, domain.StatusSuccess))
}

func TestSetPhaseStatusPanicsOnUnknownInput(t *testing.T) {
	m, _ := newTestMachine(t)

	assert.Panics(t, func() { m.SetPhaseStatus(domain.Phase("bogus"), domain.StatusSuccess) })
	assert.Panics(t, func() { m.SetPhaseStatus(domain.PhaseInstalled, domain.Status("bogus")) })
}

func TestResetStatusesKeepsContinuityFields(t *testing.T) {
	m, tl := newTestMachine(t)
	m.FirstStart()
	for range domain.PhaseOrder {
		m.GoOn()
	}
	require.NotNil(t, m.LastSuccessfulConnection())

	m.ResetStatuses()

	assert.Equal(t, domain.FirstPhase(), m.PhaseInfo().Phase)
	for _, phase := range domain.PhaseOrder {
		assert.Equal(t, domain.StatusWaiting, m.Status(phase))
		assert.Nil(t, m.Timestamp(phase))
	}
	assert.False(t, m.FirstTimeConnection(), "resetStatuses must not touch the flag")
	assert.NotNil(t, m.LastSuccessfulConnection(), "resetStatuses must not clear last success")
	assert.Nil(t, tl.At(domain.LastPhase(), domain.StatusSuccess))
}

// Reset completeness: fullReset clears everything, including all 20
// (phase, status) timeline cells.
func TestFullResetCompleteness(t *testing.T) {
	m, tl := newTestMachine(t)
	m.FirstStart()
	for range domain.PhaseOrder {
		m.GoOn()
	}

	m.FullReset()

	assert.True(t, m.FirstTimeConnection())
	assert.Nil(t, m.LastSuccessfulConnection())
	for _, phase := range domain.PhaseOrder {
		assert.Equal(t, domain.StatusWaiting, m.Status(phase))
		assert.Nil(t, m.Timestamp(phase))
		for _, status := range domain.Statuses {
			assert.Nil(t, tl.At(phase, status), "timeline %s/%s", phase, status)
		}
	}
}

func TestInProgressQuery(t *testing.T) {
	m, _ := newTestMachine(t)
	assert.False(t, m.InProgress())

	m.FirstStart()
	assert.True(t, m.InProgress())

	m.GoFail()
	assert.False(t, m.InProgress())
}

// Staleness forces reconnection: a restored last success older than the
// timeout forces the first-connection flag back on.
func TestStaleConnectionForcesFirstTime(t *testing.T) {
	old := time.Now().Add(-time.Hour)
	store := &fakeStore{persisted: PersistedState{
		FirstTimeConnection:      false,
		LastSuccessfulConnection: &old,
	}}

	m := NewMachine(Config{StaleAfter: 15 * time.Minute}, NewTimeline(), store, nil)

	assert.True(t, m.FirstTimeConnection())
}

func TestFreshConnectionKeepsRestoredFlag(t *testing.T) {
	recent := time.Now().Add(-time.Minute)
	store := &fakeStore{persisted: PersistedState{
		FirstTimeConnection:      false,
		LastSuccessfulConnection: &recent,
	}}

	m := NewMachine(Config{StaleAfter: 15 * time.Minute}, NewTimeline(), store, nil)

	assert.False(t, m.FirstTimeConnection())
	require.NotNil(t, m.LastSuccessfulConnection())
}

func TestMissingLastSuccessTreatedAsStale(t *testing.T) {
	store := &fakeStore{persisted: PersistedState{FirstTimeConnection: false}}

	m := NewMachine(DefaultConfig(), NewTimeline(), store, nil)

	assert.True(t, m.FirstTimeConnection())
}

func TestLoadErrorFallsBackToDefaults(t *testing.T) {
	store := &fakeStore{loadErr: errors.New("disk gone")}

	m := NewMachine(DefaultConfig(), NewTimeline(), store, nil)

	assert.True(t, m.FirstTimeConnection())
	assert.Nil(t, m.LastSuccessfulConnection())
}

func TestWriteThroughPersistence(t *testing.T) {
	store := &fakeStore{persisted: PersistedState{FirstTimeConnection: true}}
	m := NewMachine(DefaultConfig(), NewTimeline(), store, nil)

	before := store.saves
	m.FirstStart()
	assert.Greater(t, store.saves, before, "firstStart must write through")
	assert.False(t, store.persisted.FirstTimeConnection)

	for range domain.PhaseOrder {
		m.GoOn()
	}
	require.NotNil(t, store.persisted.LastSuccessfulConnection)
	assert.Equal(t, m.SessionID(), store.persisted.SessionID)

	m.FullReset()
	assert.True(t, store.persisted.FirstTimeConnection)
	assert.Nil(t, store.persisted.LastSuccessfulConnection)
}
