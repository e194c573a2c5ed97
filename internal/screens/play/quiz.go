package play

import (
	"errors"
	"fmt"
	"strings"
	"time"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/protoquiz/internal/quiz"
	"github.com/abhisek/protoquiz/internal/router"
	"github.com/abhisek/protoquiz/internal/screen"
	"github.com/abhisek/protoquiz/internal/ui/components"
	"github.com/abhisek/protoquiz/internal/ui/layout"
	"github.com/abhisek/protoquiz/internal/ui/theme"
)

// QuizScreen walks the user through one bank.
type QuizScreen struct {
	deps    Deps
	engine  *quiz.Engine
	choice  components.MultiChoice
	started time.Time

	// status is a one-line hint shown under the controls, cleared on the
	// next accepted action.
	status      string
	confirmQuit bool
	submitting  bool
}

var (
	_ screen.Screen          = (*QuizScreen)(nil)
	_ screen.KeyHintProvider = (*QuizScreen)(nil)
	_ screen.BackHandler     = (*QuizScreen)(nil)
	_ screen.StatusProvider  = (*QuizScreen)(nil)
)

// NewQuiz starts a fresh attempt on bank.
func NewQuiz(bank quiz.Bank, deps Deps) (*QuizScreen, error) {
	engine, err := quiz.New(bank)
	if err != nil {
		return nil, err
	}
	return resume(engine, deps), nil
}

// resume wraps an engine that is already in progress, e.g. after a retake.
func resume(engine *quiz.Engine, deps Deps) *QuizScreen {
	s := &QuizScreen{deps: deps, engine: engine, started: deps.now()}
	s.refresh()
	return s
}

func (s *QuizScreen) Init() tea.Cmd { return nil }

func (s *QuizScreen) Title() string { return s.engine.Bank().Title }

func (s *QuizScreen) HandlesBack() bool { return true }

func (s *QuizScreen) Status() string {
	q := s.choice.Question
	return fmt.Sprintf("%d/%d", q.Number, q.Total)
}

func (s *QuizScreen) KeyHints() []layout.KeyHint {
	if s.confirmQuit {
		return []layout.KeyHint{
			{Key: "y", Description: "Leave quiz"},
			{Key: "n", Description: "Keep going"},
		}
	}
	hints := []layout.KeyHint{
		{Key: "1-9", Description: "Answer"},
		{Key: "←/p", Description: "Previous"},
	}
	if s.choice.Question.Submit.Visible() {
		hints = append(hints, layout.KeyHint{Key: "s", Description: "Submit"})
	} else {
		hints = append(hints, layout.KeyHint{Key: "→/n", Description: "Next"})
	}
	return append(hints, layout.KeyHint{Key: "Esc", Description: "Quit"})
}

// refresh pulls a fresh view from the engine into the option list.
func (s *QuizScreen) refresh() {
	v := s.engine.View()
	if v.Question != nil {
		s.choice = s.choice.SetQuestion(*v.Question)
	}
}

func (s *QuizScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	if s.submitting {
		return s, nil
	}

	switch msg := msg.(type) {
	case components.OptionChosenMsg:
		return s, s.do(quiz.Action{Kind: quiz.ActionSelect, Option: msg.Index})

	case tea.KeyMsg:
		if s.confirmQuit {
			switch msg.String() {
			case "y", "enter":
				return s, func() tea.Msg { return router.PopScreenMsg{} }
			case "n", "esc":
				s.confirmQuit = false
			}
			return s, nil
		}

		key := msg.String()
		if idx, ok := optionKey(key); ok {
			return s, s.do(quiz.Action{Kind: quiz.ActionSelect, Option: idx})
		}

		switch key {
		case "esc":
			s.confirmQuit = true
			return s, nil
		case "left", "p":
			return s, s.do(quiz.Action{Kind: quiz.ActionPrevious})
		case "right", "n":
			return s, s.do(quiz.Action{Kind: quiz.ActionNext})
		case "s":
			return s, s.do(quiz.Action{Kind: quiz.ActionSubmit})
		case "enter":
			// Once the answer is locked, enter moves the quiz forward.
			q := s.choice.Question
			switch {
			case q.Locked && q.Submit.Enabled():
				return s, s.do(quiz.Action{Kind: quiz.ActionSubmit})
			case q.Locked && q.Next.Enabled():
				return s, s.do(quiz.Action{Kind: quiz.ActionNext})
			}
		}

		var cmd tea.Cmd
		s.choice, cmd = s.choice.Update(msg)
		return s, cmd
	}
	return s, nil
}

// optionKey maps 1-9 and a-d to an option index.
func optionKey(k string) (int, bool) {
	if len(k) != 1 {
		return 0, false
	}
	switch c := k[0]; {
	case c >= '1' && c <= '9':
		return int(c - '1'), true
	case c >= 'a' && c <= 'd':
		return int(c - 'a'), true
	}
	return 0, false
}

// do applies a to the engine. Rejections become a status hint.
func (s *QuizScreen) do(a quiz.Action) tea.Cmd {
	if a.Kind == quiz.ActionSubmit {
		return s.submit()
	}
	if err := s.engine.Apply(a); err != nil {
		s.status = hintFor(a, s.choice.Question, err)
		return nil
	}
	s.status = ""
	s.refresh()
	return nil
}

func (s *QuizScreen) submit() tea.Cmd {
	res, err := s.engine.Submit()
	if err != nil {
		s.status = hintFor(quiz.Action{Kind: quiz.ActionSubmit}, s.choice.Question, err)
		return nil
	}
	s.submitting = true
	s.status = ""

	deps, engine, started, finished := s.deps, s.engine, s.started, s.deps.now()
	return func() tea.Msg {
		rec := deps.record(res, started, finished)
		return router.ReplaceScreenMsg{Screen: NewResults(engine, res, deps, rec)}
	}
}

// hintFor turns an engine rejection into something a user can act on.
func hintFor(a quiz.Action, q quiz.QuestionView, err error) string {
	switch {
	case errors.Is(err, quiz.ErrInvalidOptionIndex):
		return fmt.Sprintf("There is no option %s.", components.OptionLabel(a.Option))
	case !errors.Is(err, quiz.ErrIllegalTransition):
		return err.Error()
	}

	switch a.Kind {
	case quiz.ActionSelect:
		return "Your answer to this question is locked."
	case quiz.ActionPrevious:
		return "This is the first question."
	case quiz.ActionNext:
		if !q.Next.Visible() {
			return "This is the last question. Press s to submit."
		}
		return "Answer this question before moving on."
	case quiz.ActionSubmit:
		if !q.Submit.Visible() {
			return "Submit is available on the last question."
		}
		return "Answer this question before submitting."
	}
	return err.Error()
}

func (s *QuizScreen) View(width, height int) string {
	q := s.choice.Question
	cw := components.ContentWidth(width)

	var b strings.Builder
	b.WriteString("\n")

	bar := components.NewProgressBar(q.ProgressLabel(), q.Progress, false, cw)
	b.WriteString(components.Center(bar.View(), width))
	b.WriteString("\n\n")

	b.WriteString(components.Center(components.Card(s.choice.View(cw-4), cw), width))
	b.WriteString("\n")

	if q.Answered {
		b.WriteString(components.Center(components.FeedbackCard(feedback(q, cw-4), q.Correct, cw), width))
		b.WriteString("\n")
	}

	row := components.ButtonRow(
		components.NewButton("Previous", "p", q.Previous),
		components.NewButton("Next", "n", q.Next),
		components.NewButton("Submit", "s", q.Submit),
	)
	b.WriteString(components.Center(row, width))
	b.WriteString("\n")

	switch {
	case s.confirmQuit:
		b.WriteString(components.Center(
			lipgloss.NewStyle().Foreground(theme.Accent).Bold(true).
				Render("Leave this quiz? Your answers will be lost. (y/n)"), width))
	case s.status != "":
		b.WriteString(components.Center(theme.Hint.Render(s.status), width))
	}

	return b.String()
}

func feedback(q quiz.QuestionView, width int) string {
	var b strings.Builder
	style := theme.Incorrect
	if q.Correct {
		style = theme.Correct
	}
	b.WriteString(style.Render(q.Feedback()))
	if q.CorrectText != "" {
		b.WriteString("\n")
		b.WriteString(theme.Body.Render("Correct answer: " + q.CorrectText))
	}
	if q.Explanation != "" {
		b.WriteString("\n\n")
		b.WriteString(lipgloss.NewStyle().Foreground(theme.TextDim).Width(width).Render(q.Explanation))
	}
	return b.String()
}
