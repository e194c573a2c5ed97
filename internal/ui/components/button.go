package components

import (
	"charm.land/lipgloss/v2"

	"github.com/abhisek/protoquiz/internal/quiz"
	"github.com/abhisek/protoquiz/internal/ui/theme"
)

// Button draws one quiz navigation control with its key shortcut.
type Button struct {
	Label string
	Key   string
	State quiz.Control
}

// NewButton creates a button for the given control state.
func NewButton(label, key string, state quiz.Control) Button {
	return Button{Label: label, Key: key, State: state}
}

// View renders the button. Hidden controls render as an empty string.
func (b Button) View() string {
	label := b.Label
	if b.Key != "" {
		label = "[" + b.Key + "] " + label
	}
	switch b.State {
	case quiz.ControlEnabled:
		return theme.ButtonActive.Render(label)
	case quiz.ControlDisabled:
		return theme.ButtonInactive.Foreground(theme.TextDim).Render(label)
	default:
		return ""
	}
}

// ButtonRow renders the visible buttons side by side.
func ButtonRow(buttons ...Button) string {
	parts := make([]string, 0, len(buttons))
	for _, b := range buttons {
		if v := b.View(); v != "" {
			if len(parts) > 0 {
				parts = append(parts, "  ")
			}
			parts = append(parts, v)
		}
	}
	return lipgloss.JoinHorizontal(lipgloss.Center, parts...)
}
