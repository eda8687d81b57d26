package components

import (
	"github.com/charmbracelet/lipgloss"
)

var (
	statusBarStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("241")).
			Padding(0, 1)

	statusBarErrorStyle = statusBarStyle.
				Foreground(lipgloss.Color("196"))
)

// StatusBar shows the latest status message, or key hints when there is
// none
type StatusBar struct {
	width   int
	hints   string
	message string
	isError bool
}

// NewStatusBar creates a status bar showing hints by default
func NewStatusBar(hints string) *StatusBar {
	return &StatusBar{hints: hints}
}

// SetWidth sets the width of the status bar
func (sb *StatusBar) SetWidth(width int) {
	sb.width = width
}

// SetMessage replaces the status message. An empty message shows the hints.
func (sb *StatusBar) SetMessage(message string, isError bool) {
	sb.message = message
	sb.isError = isError
}

// Message returns the current status message
func (sb *StatusBar) Message() string {
	return sb.message
}

// View renders the status bar
func (sb *StatusBar) View() string {
	text, style := sb.hints, statusBarStyle
	if sb.message != "" {
		text = sb.message
		if sb.isError {
			style = statusBarErrorStyle
		}
	}
	if text == "" {
		return ""
	}

	// Truncate if too long
	if sb.width > 5 && len([]rune(text)) > sb.width-2 {
		text = string([]rune(text)[:sb.width-5]) + "..."
	}
	if sb.width > 0 {
		style = style.Width(sb.width)
	}
	return style.Render(text)
}
