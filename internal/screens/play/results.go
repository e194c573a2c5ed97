package play

import (
	"context"
	"fmt"
	"strings"

	"charm.land/bubbles/v2/spinner"
	"charm.land/bubbles/v2/viewport"
	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/protoquiz/internal/quiz"
	"github.com/abhisek/protoquiz/internal/router"
	"github.com/abhisek/protoquiz/internal/screen"
	"github.com/abhisek/protoquiz/internal/tutor"
	"github.com/abhisek/protoquiz/internal/ui/components"
	"github.com/abhisek/protoquiz/internal/ui/layout"
	"github.com/abhisek/protoquiz/internal/ui/theme"
)

type explainedMsg struct {
	Number      int
	Explanation *tutor.Explanation
	Err         error
}

// ResultsScreen shows the graded attempt with a scrollable review.
type ResultsScreen struct {
	deps   Deps
	engine *quiz.Engine
	result quiz.Result
	saved  attemptRecordedMsg

	// missed holds the review numbers of wrong or skipped questions; cursor
	// indexes into it.
	missed []int
	cursor int

	asking       bool
	spinner      spinner.Model
	explanations map[int]*tutor.Explanation
	tutorErr     string

	viewport      viewport.Model
	width, height int
}

var (
	_ screen.Screen          = (*ResultsScreen)(nil)
	_ screen.KeyHintProvider = (*ResultsScreen)(nil)
	_ screen.BackHandler     = (*ResultsScreen)(nil)
	_ screen.StatusProvider  = (*ResultsScreen)(nil)
)

// NewResults builds the results screen for a submitted engine.
func NewResults(engine *quiz.Engine, res quiz.Result, deps Deps, saved attemptRecordedMsg) *ResultsScreen {
	s := &ResultsScreen{
		deps:         deps,
		engine:       engine,
		result:       res,
		saved:        saved,
		explanations: make(map[int]*tutor.Explanation),
		spinner: spinner.New(
			spinner.WithSpinner(spinner.MiniDot),
			spinner.WithStyle(lipgloss.NewStyle().Foreground(theme.Secondary)),
		),
		viewport: viewport.New(),
	}
	for _, item := range res.Review {
		if !item.Correct {
			s.missed = append(s.missed, item.Number)
		}
	}
	return s
}

func (s *ResultsScreen) Init() tea.Cmd { return nil }

func (s *ResultsScreen) Title() string { return "Results" }

func (s *ResultsScreen) HandlesBack() bool { return true }

func (s *ResultsScreen) Status() string {
	return fmt.Sprintf("%d/%d", s.result.Score, s.result.Total)
}

func (s *ResultsScreen) KeyHints() []layout.KeyHint {
	hints := []layout.KeyHint{
		{Key: "↑↓", Description: "Scroll"},
		{Key: "r", Description: "Retake"},
	}
	if len(s.missed) > 0 && s.deps.Tutor.Enabled() {
		hints = append(hints,
			layout.KeyHint{Key: "Tab", Description: "Next miss"},
			layout.KeyHint{Key: "e", Description: "Explain"})
	}
	return append(hints, layout.KeyHint{Key: "Esc", Description: "Home"})
}

// Highlighted returns the review number of the highlighted missed
// question, or 0 when every answer was correct.
func (s *ResultsScreen) Highlighted() int {
	if len(s.missed) == 0 {
		return 0
	}
	return s.missed[s.cursor]
}

func (s *ResultsScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case explainedMsg:
		s.asking = false
		if msg.Err != nil {
			s.tutorErr = msg.Err.Error()
		} else {
			s.tutorErr = ""
			s.explanations[msg.Number] = msg.Explanation
		}
		s.syncContent()
		return s, nil

	case spinner.TickMsg:
		if !s.asking {
			return s, nil
		}
		var cmd tea.Cmd
		s.spinner, cmd = s.spinner.Update(msg)
		s.syncContent()
		return s, cmd

	case tea.KeyMsg:
		switch msg.String() {
		case "esc":
			return s, func() tea.Msg { return router.PopToRootMsg{} }
		case "r":
			s.engine.Reset()
			next := resume(s.engine, s.deps)
			return s, func() tea.Msg { return router.ReplaceScreenMsg{Screen: next} }
		case "tab":
			if len(s.missed) > 0 {
				s.cursor = (s.cursor + 1) % len(s.missed)
				s.syncContent()
			}
			return s, nil
		case "shift+tab":
			if len(s.missed) > 0 {
				s.cursor = (s.cursor - 1 + len(s.missed)) % len(s.missed)
				s.syncContent()
			}
			return s, nil
		case "e":
			return s, s.explain()
		}
	}

	var cmd tea.Cmd
	s.viewport, cmd = s.viewport.Update(msg)
	return s, cmd
}

func (s *ResultsScreen) explain() tea.Cmd {
	n := s.Highlighted()
	switch {
	case s.asking || n == 0:
		return nil
	case !s.deps.Tutor.Enabled():
		s.tutorErr = "No LLM provider is configured."
		s.syncContent()
		return nil
	case s.explanations[n] != nil:
		return nil
	}

	s.asking = true
	s.tutorErr = ""
	s.syncContent()
	req := tutor.ForReview(s.engine.Bank(), s.result.Review[n-1])
	t, log := s.deps.Tutor, s.deps.Log
	return tea.Batch(s.spinner.Tick, func() tea.Msg {
		exp, err := t.Explain(context.Background(), req)
		if err != nil {
			log.Warn().Err(err).Int("question", n).Msg("tutor explain")
		}
		return explainedMsg{Number: n, Explanation: exp, Err: err}
	})
}

// syncContent re-renders the review into the viewport.
func (s *ResultsScreen) syncContent() {
	if s.width == 0 {
		return
	}
	s.viewport.SetContent(s.review(components.ContentWidth(s.width)))
}

func (s *ResultsScreen) resize(width, height int) {
	if width == s.width && height == s.height {
		return
	}
	s.width, s.height = width, height
	s.viewport.SetWidth(width)
	s.viewport.SetHeight(max(height-lipgloss.Height(s.summary(width))-1, 3))
	s.syncContent()
}

func (s *ResultsScreen) View(width, height int) string {
	s.resize(width, height)

	var b strings.Builder
	b.WriteString(s.summary(width))
	b.WriteString("\n")
	b.WriteString(s.viewport.View())
	return b.String()
}

func (s *ResultsScreen) summary(width int) string {
	res := s.result
	var b strings.Builder
	b.WriteString("\n")
	b.WriteString(components.Center(theme.Title.Render("Quiz Complete!"), width))
	b.WriteString("\n")
	b.WriteString(components.Center(theme.Body.Bold(true).
		Render(fmt.Sprintf("Score: %d/%d  (%d%%)", res.Score, res.Total, res.Percentage)), width))
	b.WriteString("\n")
	b.WriteString(components.Center(lipgloss.NewStyle().Foreground(theme.TierColor(res.Tier)).
		Render(res.Message), width))
	b.WriteString("\n")
	if s.saved.Err != nil {
		b.WriteString(components.Center(theme.Hint.Render("Could not save this attempt: "+s.saved.Err.Error()), width))
		b.WriteString("\n")
	}
	return b.String()
}

func (s *ResultsScreen) review(cw int) string {
	var b strings.Builder
	highlighted := s.Highlighted()

	for _, item := range s.result.Review {
		mark, style := "✓", theme.Correct
		if !item.Correct {
			mark, style = "✗", theme.Incorrect
		}
		prefix := "  "
		if item.Number == highlighted {
			prefix = "▸ "
		}

		var card strings.Builder
		card.WriteString(style.Render(fmt.Sprintf("%s%s Q%d. ", prefix, mark, item.Number)))
		card.WriteString(theme.Body.Render(item.Question))
		card.WriteString("\n")
		card.WriteString(theme.Body.Render("Your answer: " + item.ChosenText))
		if item.CorrectText != "" {
			card.WriteString("\n")
			card.WriteString(theme.Correct.Render("Correct answer: " + item.CorrectText))
		}
		if item.Explanation != "" {
			card.WriteString("\n")
			card.WriteString(lipgloss.NewStyle().Foreground(theme.TextDim).Render(item.Explanation))
		}

		if item.Number == highlighted {
			switch {
			case s.asking:
				card.WriteString("\n\n" + s.spinner.View() + " Asking the tutor...")
			case s.tutorErr != "":
				card.WriteString("\n\n" + theme.Incorrect.Render(s.tutorErr))
			}
		}
		if exp := s.explanations[item.Number]; exp != nil {
			card.WriteString("\n\n" + renderExplanation(exp))
		}

		b.WriteString(components.Center(components.Card(card.String(), cw), s.width))
		b.WriteString("\n")
	}
	return b.String()
}

func renderExplanation(exp *tutor.Explanation) string {
	var b strings.Builder
	b.WriteString(lipgloss.NewStyle().Foreground(theme.Secondary).Bold(true).Render("Tutor"))
	b.WriteString("\n")
	b.WriteString(theme.Body.Render(exp.Summary))
	for _, p := range exp.KeyPoints {
		b.WriteString("\n  • " + p)
	}
	if exp.Misconception != "" {
		b.WriteString("\n")
		b.WriteString(theme.Hint.Render(exp.Misconception))
	}
	return b.String()
}
