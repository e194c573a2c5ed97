// Package home is the landing screen: pick a bank, browse history or leave.
package home

import (
	"context"
	"fmt"
	"strings"

	tea "charm.land/bubbletea/v2"

	"github.com/abhisek/protoquiz/internal/bank"
	"github.com/abhisek/protoquiz/internal/quiz"
	"github.com/abhisek/protoquiz/internal/router"
	"github.com/abhisek/protoquiz/internal/screen"
	"github.com/abhisek/protoquiz/internal/screens/history"
	"github.com/abhisek/protoquiz/internal/screens/play"
	"github.com/abhisek/protoquiz/internal/store"
	"github.com/abhisek/protoquiz/internal/ui/components"
	"github.com/abhisek/protoquiz/internal/ui/layout"
	"github.com/abhisek/protoquiz/internal/ui/theme"
)

type statsLoadedMsg struct {
	Stats map[string]store.BankStat
	Err   error
}

// HomeScreen lists the available banks.
type HomeScreen struct {
	banks  *bank.Registry
	deps   play.Deps
	menu   components.Menu
	stats  map[string]store.BankStat
	errMsg string
}

var (
	_ screen.Screen          = (*HomeScreen)(nil)
	_ screen.KeyHintProvider = (*HomeScreen)(nil)
	_ screen.StatusProvider  = (*HomeScreen)(nil)
)

// New creates a HomeScreen over the banks in reg.
func New(reg *bank.Registry, deps play.Deps) *HomeScreen {
	h := &HomeScreen{banks: reg, deps: deps}
	h.menu = components.NewMenu(h.items())
	return h
}

// Init refreshes the per-bank stats. The router re-runs it whenever the
// user comes back home.
func (h *HomeScreen) Init() tea.Cmd {
	repo := h.deps.Repo
	if repo == nil {
		return nil
	}
	return func() tea.Msg {
		rows, err := repo.BankStats(context.Background())
		if err != nil {
			return statsLoadedMsg{Err: err}
		}
		stats := make(map[string]store.BankStat, len(rows))
		for _, r := range rows {
			stats[r.BankID] = r
		}
		return statsLoadedMsg{Stats: stats}
	}
}

func (h *HomeScreen) Title() string { return "Home" }

func (h *HomeScreen) Status() string {
	return fmt.Sprintf("%d banks", h.banks.Len())
}

func (h *HomeScreen) KeyHints() []layout.KeyHint {
	return []layout.KeyHint{
		{Key: "↑↓", Description: "Navigate"},
		{Key: "Enter", Description: "Select"},
		{Key: "Ctrl+C", Description: "Quit"},
	}
}

func (h *HomeScreen) items() []components.MenuItem {
	items := make([]components.MenuItem, 0, h.banks.Len()+2)
	for _, b := range h.banks.All() {
		items = append(items, components.MenuItem{
			Label:  b.Title,
			Hint:   h.hint(b),
			Action: h.start(b),
		})
	}
	items = append(items,
		components.MenuItem{
			Label:    "History",
			Disabled: h.deps.Repo == nil,
			Action: func() tea.Cmd {
				next := history.New(h.deps.Repo, h.banks)
				return func() tea.Msg { return router.PushScreenMsg{Screen: next} }
			},
		},
		components.MenuItem{Label: "Exit", Action: func() tea.Cmd { return tea.Quit }},
	)
	return items
}

func (h *HomeScreen) hint(b quiz.Bank) string {
	parts := []string{fmt.Sprintf("%d questions", b.Len())}
	if b.Description != "" {
		parts = append([]string{b.Description}, parts...)
	}
	if st, ok := h.stats[b.ID]; ok && st.Attempts > 0 {
		parts = append(parts, fmt.Sprintf("best %d%%", st.BestPercentage))
	}
	return strings.Join(parts, " · ")
}

func (h *HomeScreen) start(b quiz.Bank) func() tea.Cmd {
	return func() tea.Cmd {
		next, err := play.NewQuiz(b, h.deps)
		if err != nil {
			h.errMsg = err.Error()
			return nil
		}
		h.deps.Log.Debug().Str("bank", b.ID).Msg("quiz started")
		return func() tea.Msg { return router.PushScreenMsg{Screen: next} }
	}
}

func (h *HomeScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case statsLoadedMsg:
		if msg.Err != nil {
			h.deps.Log.Warn().Err(msg.Err).Msg("load bank stats")
			return h, nil
		}
		h.stats = msg.Stats
		selected := h.menu.Selected
		h.menu = components.NewMenu(h.items())
		h.menu.Selected = selected
		return h, nil
	}

	var cmd tea.Cmd
	h.menu, cmd = h.menu.Update(msg)
	return h, cmd
}

func (h *HomeScreen) View(width, height int) string {
	cw := components.ContentWidth(width)

	var b strings.Builder
	b.WriteString("\n")
	b.WriteString(components.Center(theme.Title.Render("protoquiz"), width))
	b.WriteString("\n")
	b.WriteString(components.Center(theme.Subtitle.Render("Industrial protocol quizzes"), width))
	b.WriteString("\n\n")
	b.WriteString(components.Center(components.Card(h.menu.View(), cw), width))
	if h.errMsg != "" {
		b.WriteString("\n")
		b.WriteString(components.Center(theme.Incorrect.Render(h.errMsg), width))
	}
	return b.String()
}
