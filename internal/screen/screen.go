// Package screen defines what the router stacks. Besides Screen, a screen
// may implement any of the optional interfaces to customise the frame the
// app draws around it.
package screen

import (
	tea "charm.land/bubbletea/v2"

	"github.com/abhisek/protoquiz/internal/ui/layout"
)

type Screen interface {
	Init() tea.Cmd
	Update(msg tea.Msg) (Screen, tea.Cmd)
	// View draws the body only; the app adds header and footer.
	View(width, height int) string
	Title() string
}

// KeyHintProvider replaces the default footer hints.
type KeyHintProvider interface {
	KeyHints() []layout.KeyHint
}

// BackHandler screens receive esc themselves instead of being popped.
type BackHandler interface {
	HandlesBack() bool
}

// StatusProvider fills the right side of the header, e.g. "3/8".
type StatusProvider interface {
	Status() string
}
