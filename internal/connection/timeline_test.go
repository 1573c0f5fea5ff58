package connection

import (
	"testing"
	"time"

	"github.com/kanbaru/walletbridge/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewTimelineEmpty(t *testing.T) {
	tl := NewTimeline()

	for _, phase := range domain.PhaseOrder {
		for _, status := range domain.Statuses {
			assert.Nil(t, tl.At(phase, status), "%s/%s should start empty", phase, status)
		}
	}
}

func TestTimelineSetTimestamp(t *testing.T) {
	tl := NewTimeline()
	at := time.Date(2026, 3, 1, 12, 30, 0, 0, time.UTC)

	tl.SetTimestamp(domain.PhaseUnlocked, domain.StatusSuccess, at)

	got := tl.At(domain.PhaseUnlocked, domain.StatusSuccess)
	require.NotNil(t, got)
	assert.True(t, got.Equal(at))

	// Other cells stay untouched
	assert.Nil(t, tl.At(domain.PhaseUnlocked, domain.StatusFail))
	assert.Nil(t, tl.At(domain.PhaseInstalled, domain.StatusSuccess))
}

func TestTimelineOverwrite(t *testing.T) {
	tl := NewTimeline()
	first := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	second := first.Add(time.Minute)

	tl.SetTimestamp(domain.PhaseInstalled, domain.StatusInProgress, first)
	tl.SetTimestamp(domain.PhaseInstalled, domain.StatusInProgress, second)

	got := tl.At(domain.PhaseInstalled, domain.StatusInProgress)
	require.NotNil(t, got)
	assert.True(t, got.Equal(second))
}

func TestTimelineMarkNow(t *testing.T) {
	tl := NewTimeline()
	before := time.Now()

	tl.MarkNow(domain.PhaseInstalled, domain.StatusInProgress)

	got := tl.At(domain.PhaseInstalled, domain.StatusInProgress)
	require.NotNil(t, got)
	assert.False(t, got.Before(before))
}

func TestTimelineReset(t *testing.T) {
	tl := NewTimeline()
	for _, phase := range domain.PhaseOrder {
		for _, status := range domain.Statuses {
			tl.MarkNow(phase, status)
		}
	}

	tl.Reset()

	for _, phase := range domain.PhaseOrder {
		for _, status := range domain.Statuses {
			assert.Nil(t, tl.At(phase, status), "%s/%s should be cleared", phase, status)
		}
	}
}
