package domain

// Status is the lifecycle state of a single phase.
//
// waiting -> inProgress -> {success | fail | cancelled}
//
// Only inProgress transitions onward; success, fail and cancelled are terminal
// for a given visit of the phase.
type Status string

const (
	StatusWaiting    Status = "waiting"
	StatusInProgress Status = "inProgress"
	StatusSuccess    Status = "success"
	StatusFail       Status = "fail"
	StatusCancelled  Status = "cancelled"
)

// Statuses lists every status in display order.
var Statuses = []Status{
	StatusWaiting,
	StatusInProgress,
	StatusSuccess,
	StatusFail,
	StatusCancelled,
}

// Valid reports whether s is one of the five known statuses.
func (s Status) Valid() bool {
	for _, candidate := range Statuses {
		if candidate == s {
			return true
		}
	}
	return false
}

// Terminal reports whether s ends a phase visit.
func (s Status) Terminal() bool {
	return s == StatusSuccess || s == StatusFail || s == StatusCancelled
}

// Icon returns a unicode icon for the status.
func (s Status) Icon() string {
	switch s {
	case StatusWaiting:
		return "○"
	case StatusInProgress:
		return "◐"
	case StatusSuccess:
		return "✓"
	case StatusFail:
		return "✗"
	case StatusCancelled:
		return "⊘"
	default:
		return "?"
	}
}

// String returns the display string.
func (s Status) String() string {
	return string(s)
}
