package components

import (
	"strings"
	"testing"

	tea "charm.land/bubbletea/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abhisek/protoquiz/internal/quiz"
)

func question(number int, answered bool, selected int) quiz.QuestionView {
	opts := []quiz.OptionView{{Index: 0, Text: "502"}, {Index: 1, Text: "80"}, {Index: 2, Text: "8080"}}
	if answered {
		opts[selected].Selected = true
	}
	return quiz.QuestionView{
		Number: number, Total: 3, Text: "Port?", Options: opts,
		Selected: selected, Answered: answered, Locked: answered,
	}
}

func TestMultiChoice_CursorBounds(t *testing.T) {
	m := NewMultiChoice(question(1, false, quiz.Unanswered))
	m, _ = m.Update(tea.KeyPressMsg{Code: tea.KeyUp})
	assert.Equal(t, 0, m.Cursor)

	for range 5 {
		m, _ = m.Update(tea.KeyPressMsg{Code: tea.KeyDown})
	}
	assert.Equal(t, 2, m.Cursor)

	_, cmd := m.Update(tea.KeyPressMsg{Code: tea.KeyEnter})
	require.NotNil(t, cmd)
	assert.Equal(t, OptionChosenMsg{Index: 2}, cmd())
}

func TestMultiChoice_LockedIgnoresKeys(t *testing.T) {
	m := NewMultiChoice(question(1, true, 1))
	assert.Equal(t, 1, m.Cursor)

	m, cmd := m.Update(tea.KeyPressMsg{Code: tea.KeyEnter})
	assert.Nil(t, cmd)
	assert.Equal(t, 1, m.Cursor)
	assert.Contains(t, m.View(60), "●")
}

func TestMultiChoice_SetQuestionResetsCursor(t *testing.T) {
	m := NewMultiChoice(question(1, false, quiz.Unanswered))
	m, _ = m.Update(tea.KeyPressMsg{Code: tea.KeyDown})

	m = m.SetQuestion(question(1, false, quiz.Unanswered))
	assert.Equal(t, 1, m.Cursor, "redraw of the same question keeps the cursor")

	m = m.SetQuestion(question(2, false, quiz.Unanswered))
	assert.Equal(t, 0, m.Cursor)
}

func TestOptionLabel(t *testing.T) {
	assert.Equal(t, "A", OptionLabel(0))
	assert.Equal(t, "D", OptionLabel(3))
	assert.Equal(t, "?", OptionLabel(-1))
}

func TestButton_Hidden(t *testing.T) {
	assert.Empty(t, NewButton("Next", "n", quiz.ControlHidden).View())
	assert.Contains(t, NewButton("Next", "n", quiz.ControlEnabled).View(), "[n] Next")

	row := ButtonRow(
		NewButton("Previous", "p", quiz.ControlDisabled),
		NewButton("Next", "n", quiz.ControlHidden),
		NewButton("Submit", "s", quiz.ControlEnabled),
	)
	assert.Contains(t, row, "Previous")
	assert.Contains(t, row, "Submit")
	assert.NotContains(t, row, "Next")
}

func TestMenu_SkipsDisabled(t *testing.T) {
	chosen := ""
	m := NewMenu([]MenuItem{
		{Label: "Off", Disabled: true},
		{Label: "TCP", Hint: "Modbus TCP", Action: func() tea.Cmd { chosen = "tcp"; return nil }},
		{Label: "RTU", Action: func() tea.Cmd { chosen = "rtu"; return nil }},
	})
	assert.Equal(t, 1, m.Selected)

	m, _ = m.Update(tea.KeyPressMsg{Code: tea.KeyUp})
	assert.Equal(t, 1, m.Selected)
	assert.True(t, strings.Contains(m.View(), "Modbus TCP"))

	m, _ = m.Update(tea.KeyPressMsg{Code: tea.KeyDown})
	m.Update(tea.KeyPressMsg{Code: tea.KeyEnter})
	assert.Equal(t, "rtu", chosen)
}

func TestProgressBar_Fill(t *testing.T) {
	p := NewProgressBar("", 0.5, true, 20)
	assert.Equal(t, 5, p.filled(10))
	assert.Contains(t, p.View(), "50%")

	p.Percent = 1.5
	assert.Equal(t, 10, p.filled(10))
}
