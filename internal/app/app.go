// Package app wires the terminal UI: the root Bubble Tea model, the screen
// router and the frame around the active screen.
package app

import (
	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/protoquiz/internal/bank"
	"github.com/abhisek/protoquiz/internal/router"
	"github.com/abhisek/protoquiz/internal/screen"
	"github.com/abhisek/protoquiz/internal/screens/home"
	"github.com/abhisek/protoquiz/internal/screens/play"
	"github.com/abhisek/protoquiz/internal/ui/layout"
)

// AppModel is the root Bubble Tea model.
type AppModel struct {
	router *router.Router
	width  int
	height int
}

// newAppModel creates a new AppModel. When first is set the quiz screen
// opens straight on top of home.
func newAppModel(reg *bank.Registry, deps play.Deps, first screen.Screen) AppModel {
	r := router.New(home.New(reg, deps))
	if first != nil {
		r.Push(first)
	}
	return AppModel{router: r}
}

func (m AppModel) Init() tea.Cmd {
	return m.router.Active().Init()
}

func (m AppModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height

	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c":
			return m, tea.Quit
		case "esc":
			if bh, ok := m.router.Active().(screen.BackHandler); ok && bh.HandlesBack() {
				break
			}
			if m.router.Depth() > 1 {
				return m, func() tea.Msg { return router.PopScreenMsg{} }
			}
			return m, nil
		}
	}

	cmd := m.router.Update(msg)
	return m, cmd
}

func (m AppModel) View() tea.View {
	v := tea.NewView("")
	v.AltScreen = true
	if m.width == 0 || m.height == 0 {
		return v
	}
	v.SetContent(m.frame())
	return v
}

// frame renders the whole terminal: header, active screen and footer.
func (m AppModel) frame() string {
	if layout.IsTooSmall(m.width, m.height) {
		return layout.RenderMinSizeMessage(m.width, m.height)
	}

	active := m.router.Active()
	title, status := "", ""
	if active != nil {
		title = active.Title()
	}
	if sp, ok := active.(screen.StatusProvider); ok {
		status = sp.Status()
	}

	header := layout.RenderHeader(title, status, m.width)
	footer := layout.RenderFooter(m.hints(active), m.width)

	headerHeight := lipgloss.Height(header)
	footerHeight := lipgloss.Height(footer)
	contentHeight := max(m.height-headerHeight-footerHeight, 0)

	content := m.router.View(m.width, contentHeight)
	return layout.RenderFrame(header, content, footer, m.width, m.height)
}

func (m AppModel) hints(active screen.Screen) []layout.KeyHint {
	if kp, ok := active.(screen.KeyHintProvider); ok {
		return kp.KeyHints()
	}
	if m.router.Depth() > 1 {
		return []layout.KeyHint{
			{Key: "Esc", Description: "Back"},
			{Key: "Ctrl+C", Description: "Quit"},
		}
	}
	return []layout.KeyHint{
		{Key: "↑↓", Description: "Navigate"},
		{Key: "Enter", Description: "Select"},
		{Key: "Ctrl+C", Description: "Quit"},
	}
}

// Run starts the Bubble Tea program on the home screen. When bankID is not
// empty that bank's quiz is opened immediately.
func Run(reg *bank.Registry, deps play.Deps, bankID string) error {
	var first screen.Screen
	if bankID != "" {
		b, err := reg.Get(bankID)
		if err != nil {
			return err
		}
		q, err := play.NewQuiz(b, deps)
		if err != nil {
			return err
		}
		first = q
	}

	p := tea.NewProgram(newAppModel(reg, deps, first))
	if _, err := p.Run(); err != nil {
		deps.Log.Error().Err(err).Msg("tui exited")
		return err
	}
	return nil
}
