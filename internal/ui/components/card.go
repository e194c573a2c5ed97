package components

import (
	"charm.land/lipgloss/v2"

	"github.com/abhisek/protoquiz/internal/ui/theme"
)

// ContentWidth returns the inner width shared by every card on a screen so
// stacked boxes line up.
func ContentWidth(frameWidth int) int {
	w := frameWidth - 6
	if w > 76 {
		w = 76
	}
	if w < 20 {
		w = 20
	}
	return w
}

// Card wraps content in a rounded border at the given content width.
func Card(content string, cw int) string {
	return lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(theme.Border).
		Width(cw).
		Padding(0, 2).
		Render(content)
}

// FeedbackCard is a Card whose border color reflects correctness.
func FeedbackCard(content string, correct bool, cw int) string {
	border := theme.Error
	if correct {
		border = theme.Success
	}
	return lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(border).
		Width(cw).
		Padding(0, 2).
		Render(content)
}

// Center places s in the middle of a line of the given width.
func Center(s string, width int) string {
	return lipgloss.PlaceHorizontal(width, lipgloss.Center, s)
}
