package history

import (
	"context"
	"fmt"
	"image/color"
	"strings"
	"time"

	tea "charm.land/bubbletea/v2"

	"charm.land/lipgloss/v2"

	"github.com/abhisek/protoquiz/internal/bank"
	"github.com/abhisek/protoquiz/internal/quiz"
	"github.com/abhisek/protoquiz/internal/router"
	"github.com/abhisek/protoquiz/internal/screen"
	"github.com/abhisek/protoquiz/internal/store"
	"github.com/abhisek/protoquiz/internal/ui/components"
	"github.com/abhisek/protoquiz/internal/ui/layout"
	"github.com/abhisek/protoquiz/internal/ui/theme"
)

const pageSize = 50

type historyLoadedMsg struct {
	Attempts []store.AttemptRecord
	Err      error
}

type answersLoadedMsg struct {
	AttemptID string
	Answers   []store.AnswerData
	Err       error
}

// HistoryScreen displays past attempts, newest first.
type HistoryScreen struct {
	eventRepo store.EventRepo
	banks     *bank.Registry
	attempts  []store.AttemptRecord
	answers   map[string][]store.AnswerData
	selected  int
	expanded  map[int]bool
	loaded    bool
	errMsg    string
}

var _ screen.Screen = (*HistoryScreen)(nil)
var _ screen.KeyHintProvider = (*HistoryScreen)(nil)

// New creates a new HistoryScreen. banks is only used to show titles and may
// be nil.
func New(eventRepo store.EventRepo, banks *bank.Registry) *HistoryScreen {
	return &HistoryScreen{
		eventRepo: eventRepo,
		banks:     banks,
		answers:   make(map[string][]store.AnswerData),
		expanded:  make(map[int]bool),
	}
}

func (s *HistoryScreen) Init() tea.Cmd {
	repo := s.eventRepo
	return func() tea.Msg {
		attempts, err := repo.RecentAttempts(context.Background(), store.QueryOpts{Limit: pageSize})
		return historyLoadedMsg{Attempts: attempts, Err: err}
	}
}

func (s *HistoryScreen) Title() string {
	return "History"
}

func (s *HistoryScreen) KeyHints() []layout.KeyHint {
	return []layout.KeyHint{
		{Key: "Enter", Description: "Details"},
		{Key: "↑↓", Description: "Navigate"},
		{Key: "Esc", Description: "Back"},
	}
}

func (s *HistoryScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case historyLoadedMsg:
		if msg.Err != nil {
			s.errMsg = msg.Err.Error()
		} else {
			s.attempts = msg.Attempts
		}
		s.loaded = true
		return s, nil

	case answersLoadedMsg:
		if msg.Err != nil {
			s.errMsg = msg.Err.Error()
			return s, nil
		}
		s.answers[msg.AttemptID] = msg.Answers
		return s, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "esc":
			return s, func() tea.Msg { return router.PopScreenMsg{} }
		case "up", "k":
			if s.selected > 0 {
				s.selected--
			}
			return s, nil
		case "down", "j":
			if s.selected < len(s.attempts)-1 {
				s.selected++
			}
			return s, nil
		case "enter":
			if len(s.attempts) == 0 {
				return s, nil
			}
			s.expanded[s.selected] = !s.expanded[s.selected]
			return s, s.loadAnswers(s.attempts[s.selected].AttemptID)
		}
	}
	return s, nil
}

func (s *HistoryScreen) loadAnswers(id string) tea.Cmd {
	if _, ok := s.answers[id]; ok {
		return nil
	}
	repo := s.eventRepo
	return func() tea.Msg {
		answers, err := repo.AttemptAnswers(context.Background(), id)
		return answersLoadedMsg{AttemptID: id, Answers: answers, Err: err}
	}
}

func (s *HistoryScreen) bankTitle(id string) string {
	if s.banks != nil {
		if b, err := s.banks.Get(id); err == nil {
			return b.Title
		}
	}
	return id
}

func (s *HistoryScreen) View(width, height int) string {
	if s.errMsg != "" {
		return lipgloss.NewStyle().
			Width(width).Align(lipgloss.Center).Foreground(theme.Error).
			Render(fmt.Sprintf("\n\nError: %s", s.errMsg))
	}
	if !s.loaded {
		return lipgloss.NewStyle().
			Width(width).Align(lipgloss.Center).Foreground(theme.TextDim).
			Render("\n\n  Loading history...")
	}
	if len(s.attempts) == 0 {
		return lipgloss.NewStyle().
			Width(width).Align(lipgloss.Center).Foreground(theme.TextDim).Italic(true).
			Render("\n\n  No attempts yet. Take a quiz first!")
	}

	var b strings.Builder
	b.WriteString("\n")

	for i, a := range s.attempts {
		prefix := "  "
		if i == s.selected {
			prefix = "> "
		}
		dur := time.Duration(a.DurationMs) * time.Millisecond
		line := fmt.Sprintf("%s%s  %-20s %2d/%-2d %3d%%  %-12s %-8s %s",
			prefix, a.Timestamp.Local().Format("Jan 02 15:04"), s.bankTitle(a.BankID),
			a.Score, a.Total, a.Percentage, a.Tier, a.Host, dur.Round(time.Second))

		style := lipgloss.NewStyle().Foreground(storedTierColor(a.Tier))
		if i == s.selected {
			style = style.Foreground(theme.Primary).Bold(true)
		}
		b.WriteString(components.Center(style.Render(line), width))
		b.WriteString("\n")

		if s.expanded[i] {
			b.WriteString(s.renderAnswers(a.AttemptID, width))
		}
	}

	return b.String()
}

func (s *HistoryScreen) renderAnswers(id string, width int) string {
	answers, ok := s.answers[id]
	if !ok {
		return components.Center(theme.Hint.Render("    Loading answers..."), width) + "\n"
	}

	var b strings.Builder
	for _, ans := range answers {
		mark, style := "✓", theme.Correct
		if !ans.Correct {
			mark, style = "✗", theme.Incorrect
		}
		chosen := ans.ChosenText
		if ans.ChosenIndex < 0 {
			chosen = "-"
		}
		line := fmt.Sprintf("    %s Q%d  %s  →  %s", mark, ans.QuestionIndex+1, truncate(ans.QuestionText, 48), chosen)
		b.WriteString(components.Center(style.UnsetBold().Render(line), width))
		b.WriteString("\n")
	}
	return b.String()
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-1]) + "…"
}

// storedTierColor colors a row by the tier string saved with the attempt.
// Rows written with a tier this build does not know stay dim.
func storedTierColor(tier string) color.Color {
	t, err := quiz.ParseTier(tier)
	if err != nil {
		return theme.TextDim
	}
	return theme.TierColor(t)
}
