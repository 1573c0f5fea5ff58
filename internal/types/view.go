// Package types contains shared types used across the application.
package types

// View represents the active screen of the TUI
type View int

const (
	ViewConnect View = iota
	ViewTimeline
)

// String returns the string representation of the view
func (v View) String() string {
	switch v {
	case ViewConnect:
		return "CONNECT"
	case ViewTimeline:
		return "TIMELINE"
	default:
		return "UNKNOWN"
	}
}
