// Package theme holds the lipgloss palette and shared styles. The colors
// follow a control-room HMI look: steel greys with amber and cyan signals.
package theme

import (
	"image/color"

	"charm.land/lipgloss/v2"

	"github.com/abhisek/protoquiz/internal/quiz"
)

var (
	Primary   = lipgloss.Color("#F59E0B") // amber
	Secondary = lipgloss.Color("#06B6D4") // cyan
	Accent    = lipgloss.Color("#EAB308") // yellow
	Success   = lipgloss.Color("#10B981")
	Error     = lipgloss.Color("#EF4444")
	Text      = lipgloss.Color("#E5E7EB")
	TextDim   = lipgloss.Color("#9CA3AF")
	BgCard    = lipgloss.Color("#1F2937")
	Border    = lipgloss.Color("#4B5563")
)

var (
	Title    = lipgloss.NewStyle().Bold(true).Foreground(Primary).Align(lipgloss.Center)
	Subtitle = lipgloss.NewStyle().Foreground(TextDim).Align(lipgloss.Center)
	Body     = lipgloss.NewStyle().Foreground(Text)
	Hint     = lipgloss.NewStyle().Foreground(TextDim).Italic(true)

	// Bar frames the header and the footer.
	Bar = lipgloss.NewStyle().
		Background(BgCard).
		Border(lipgloss.NormalBorder(), true, false).
		BorderForeground(Border)
)

// Option and answer states.
var (
	Selected   = lipgloss.NewStyle().Foreground(Primary).Bold(true)
	Unselected = lipgloss.NewStyle().Foreground(Text)
	Correct    = lipgloss.NewStyle().Foreground(Success).Bold(true)
	Incorrect  = lipgloss.NewStyle().Foreground(Error).Bold(true)
)

var (
	ProgressFilled = lipgloss.NewStyle().Background(Secondary)
	ProgressEmpty  = lipgloss.NewStyle().Background(Border)

	ButtonActive = lipgloss.NewStyle().
			Foreground(BgCard).
			Background(Primary).
			Bold(true).
			Padding(0, 1)
	ButtonInactive = lipgloss.NewStyle().
			Foreground(TextDim).
			Border(lipgloss.NormalBorder(), false, false, true, false).
			BorderForeground(Border).
			Padding(0, 1)
)

// TierColor is the signal color for a performance tier.
func TierColor(t quiz.Tier) color.Color {
	switch t {
	case quiz.TierTop, quiz.TierGood:
		return Success
	case quiz.TierMarginal:
		return Accent
	default:
		return Error
	}
}
