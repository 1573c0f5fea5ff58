package statusbar

import "github.com/kanbaru/walletbridge/internal/types"

// GetHints returns the keybinding hints for the given view
func GetHints(view types.View) string {
	switch view {
	case types.ViewConnect:
		return "Enter: connect  r: retry  c: cancel  t: timeline  R: full reset  q: quit"
	case types.ViewTimeline:
		return "t/Esc: back  q: quit"
	default:
		return ""
	}
}
