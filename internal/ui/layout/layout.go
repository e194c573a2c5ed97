package layout

import (
	"fmt"
	"strings"

	"charm.land/lipgloss/v2"

	"github.com/abhisek/protoquiz/internal/ui/theme"
)

// Smallest terminal the quiz screens are laid out for.
const (
	MinWidth  = 72
	MinHeight = 20
)

// KeyHint is one key binding shown in the footer.
type KeyHint struct {
	Key         string
	Description string
}

func IsTooSmall(width, height int) bool {
	return width < MinWidth || height < MinHeight
}

// RenderMinSizeMessage replaces the whole frame while the terminal is
// below the minimum size.
func RenderMinSizeMessage(width, height int) string {
	msg := fmt.Sprintf("Terminal too small (%dx%d)\nprotoquiz needs at least %dx%d",
		width, height, MinWidth, MinHeight)
	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center, theme.Body.Render(msg))
}

// RenderHeader draws the app label on the left, the screen title centred
// and status on the right.
func RenderHeader(title, status string, width int) string {
	left := theme.Selected.Render(" protoquiz")
	right := lipgloss.NewStyle().Foreground(theme.Accent).Render(status + " ")
	mid := max(width-lipgloss.Width(left)-lipgloss.Width(right), 0)
	center := lipgloss.PlaceHorizontal(mid, lipgloss.Center, theme.Body.Render(title))
	return theme.Bar.Width(width).Render(left + center + right)
}

// RenderFooter draws the key hints separated by a dim bullet.
func RenderFooter(hints []KeyHint, width int) string {
	key := lipgloss.NewStyle().Foreground(theme.Text).Bold(true)
	parts := make([]string, len(hints))
	for i, h := range hints {
		parts[i] = key.Render(h.Key) + " " + lipgloss.NewStyle().Foreground(theme.TextDim).Render(h.Description)
	}
	sep := lipgloss.NewStyle().Foreground(theme.Border).Render("  •  ")
	return theme.Bar.Width(width).Render(" " + strings.Join(parts, sep))
}

// RenderFrame stacks header, content and footer, padding the content to
// fill whatever height the bars leave.
func RenderFrame(header, content, footer string, width, height int) string {
	h := max(height-lipgloss.Height(header)-lipgloss.Height(footer), 0)
	body := lipgloss.NewStyle().Width(width).Height(h).Render(content)
	return lipgloss.JoinVertical(lipgloss.Left, header, body, footer)
}
