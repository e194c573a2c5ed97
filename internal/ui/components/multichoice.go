package components

import (
	"fmt"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/protoquiz/internal/quiz"
	"github.com/abhisek/protoquiz/internal/ui/theme"
)

// OptionChosenMsg is emitted when the highlighted option is confirmed.
type OptionChosenMsg struct {
	Index int
}

// MultiChoice draws the options of a quiz question and tracks the keyboard
// highlight. Which option is actually selected belongs to the engine; the
// component only proposes choices through OptionChosenMsg.
type MultiChoice struct {
	Question quiz.QuestionView
	Cursor   int
}

// NewMultiChoice creates a component for q with the highlight on the
// recorded answer, or on the first option when there is none.
func NewMultiChoice(q quiz.QuestionView) MultiChoice {
	m := MultiChoice{}
	return m.SetQuestion(q)
}

// SetQuestion swaps in a fresh view. The highlight is kept when the same
// question is redrawn and reset when the question changes.
func (m MultiChoice) SetQuestion(q quiz.QuestionView) MultiChoice {
	if q.Number != m.Question.Number {
		m.Cursor = 0
	}
	if q.Answered {
		m.Cursor = q.Selected
	}
	if m.Cursor >= len(q.Options) {
		m.Cursor = 0
	}
	m.Question = q
	return m
}

// Update handles up/down navigation and enter.
func (m MultiChoice) Update(msg tea.Msg) (MultiChoice, tea.Cmd) {
	kmsg, ok := msg.(tea.KeyMsg)
	if !ok || m.Question.Locked {
		return m, nil
	}

	switch kmsg.String() {
	case "up", "k":
		if m.Cursor > 0 {
			m.Cursor--
		}
	case "down", "j":
		if m.Cursor < len(m.Question.Options)-1 {
			m.Cursor++
		}
	case "enter":
		idx := m.Cursor
		return m, func() tea.Msg { return OptionChosenMsg{Index: idx} }
	}
	return m, nil
}

// OptionLabel returns the letter used for option i: A, B, C...
func OptionLabel(i int) string {
	if i < 0 || i >= 26 {
		return "?"
	}
	return string(rune('A' + i))
}

// View renders the question text and its options, wrapped to width.
func (m MultiChoice) View(width int) string {
	q := m.Question
	var b strings.Builder

	b.WriteString(lipgloss.NewStyle().Foreground(theme.Text).Bold(true).Width(width).Render(q.Text))
	b.WriteString("\n\n")

	for _, opt := range q.Options {
		prefix := "  "
		if opt.Index == m.Cursor && !q.Locked {
			prefix = "▸ "
		}
		marker := " "
		if opt.Selected {
			marker = "●"
		}
		line := fmt.Sprintf("%s%s %s)  %s", prefix, marker, OptionLabel(opt.Index), opt.Text)

		style := theme.Unselected
		switch {
		case opt.Mark == quiz.MarkCorrect:
			style = theme.Correct
		case opt.Mark == quiz.MarkIncorrect:
			style = theme.Incorrect
		case q.Locked:
			style = lipgloss.NewStyle().Foreground(theme.TextDim)
		case opt.Index == m.Cursor:
			style = theme.Selected
		}
		b.WriteString(style.Width(width).Render(line))
		b.WriteString("\n")
	}
	return b.String()
}
