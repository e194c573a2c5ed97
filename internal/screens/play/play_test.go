package play

import (
	"context"
	"encoding/json"
	"fmt"
	"testing"
	"time"

	"charm.land/bubbles/v2/spinner"
	tea "charm.land/bubbletea/v2"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abhisek/protoquiz/internal/llm"
	"github.com/abhisek/protoquiz/internal/quiz"
	"github.com/abhisek/protoquiz/internal/router"
	"github.com/abhisek/protoquiz/internal/store"
	"github.com/abhisek/protoquiz/internal/tutor"
	"github.com/abhisek/protoquiz/internal/ui/components"
)

func keyPress(r rune) tea.KeyPressMsg {
	return tea.KeyPressMsg{Code: r, Text: string(r)}
}

func specialKey(code rune) tea.KeyPressMsg {
	return tea.KeyPressMsg{Code: code}
}

func testBank() quiz.Bank {
	return quiz.Bank{
		ID:    "unit",
		Title: "Unit Bank",
		Topic: "Modbus",
		Questions: []quiz.Question{
			{Text: "Default Modbus TCP port?", Options: []string{"80", "502", "8080"}, CorrectIndex: 1, Explanation: "IANA assigns 502."},
			{Text: "Function code 03 reads?", Options: []string{"Coils", "Holding registers"}, CorrectIndex: 1, Explanation: "FC03 reads holding registers."},
			{Text: "RTU frames end with?", Options: []string{"CRC-16", "LRC", "Nothing"}, CorrectIndex: 0, Explanation: "RTU uses CRC-16."},
		},
	}
}

func testRepo(t *testing.T) store.EventRepo {
	t.Helper()
	st, err := store.Open(fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name()))
	require.NoError(t, err)
	t.Cleanup(func() { st.Close() })
	return st.EventRepo()
}

func newQuiz(t *testing.T, deps Deps) *QuizScreen {
	t.Helper()
	s, err := NewQuiz(testBank(), deps)
	require.NoError(t, err)
	return s
}

func press(t *testing.T, s *QuizScreen, msgs ...tea.Msg) tea.Cmd {
	t.Helper()
	var cmd tea.Cmd
	for _, m := range msgs {
		_, cmd = s.Update(m)
	}
	return cmd
}

func TestQuizScreen_SelectLocksAnswer(t *testing.T) {
	s := newQuiz(t, Deps{})

	press(t, s, keyPress('2'))
	q := s.choice.Question
	assert.True(t, q.Answered)
	assert.True(t, q.Correct)
	assert.Equal(t, 1, q.Selected)
	assert.Empty(t, s.status)

	press(t, s, keyPress('a'))
	assert.Equal(t, 1, s.choice.Question.Selected)
	assert.Equal(t, "Your answer to this question is locked.", s.status)
}

func TestQuizScreen_RejectionsBecomeHints(t *testing.T) {
	s := newQuiz(t, Deps{})

	press(t, s, keyPress('n'))
	assert.Equal(t, "Answer this question before moving on.", s.status)

	press(t, s, specialKey(tea.KeyLeft))
	assert.Equal(t, "This is the first question.", s.status)

	press(t, s, keyPress('s'))
	assert.Equal(t, "Submit is available on the last question.", s.status)

	press(t, s, keyPress('9'))
	assert.Equal(t, "There is no option I.", s.status)
	assert.False(t, s.choice.Question.Answered)
}

func TestQuizScreen_CursorAndEnter(t *testing.T) {
	s := newQuiz(t, Deps{})

	cmd := press(t, s, specialKey(tea.KeyDown), specialKey(tea.KeyEnter))
	require.NotNil(t, cmd)
	msg := cmd()
	assert.Equal(t, components.OptionChosenMsg{Index: 1}, msg)

	press(t, s, msg)
	assert.True(t, s.choice.Question.Correct)

	// enter on a locked question advances.
	press(t, s, specialKey(tea.KeyEnter))
	assert.Equal(t, 2, s.choice.Question.Number)
	assert.False(t, s.choice.Question.Answered)
}

func TestQuizScreen_QuitConfirmation(t *testing.T) {
	s := newQuiz(t, Deps{})
	assert.True(t, s.HandlesBack())

	press(t, s, specialKey(tea.KeyEscape))
	assert.True(t, s.confirmQuit)
	assert.Contains(t, s.View(100, 30), "Leave this quiz?")

	press(t, s, keyPress('n'))
	assert.False(t, s.confirmQuit)

	press(t, s, specialKey(tea.KeyEscape))
	cmd := press(t, s, keyPress('y'))
	require.NotNil(t, cmd)
	assert.IsType(t, router.PopScreenMsg{}, cmd())
}

func TestQuizScreen_SubmitRecordsAndShowsResults(t *testing.T) {
	repo := testRepo(t)
	start := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	clock := start
	deps := Deps{Repo: repo, Log: zerolog.Nop(), Now: func() time.Time { return clock }}
	s := newQuiz(t, deps)

	press(t, s, keyPress('2'), keyPress('n'), keyPress('1'), keyPress('n'))
	assert.Equal(t, 3, s.choice.Question.Number)
	assert.Equal(t, "3/3", s.Status())

	press(t, s, keyPress('s'))
	assert.Equal(t, "Answer this question before submitting.", s.status)

	clock = start.Add(90 * time.Second)
	cmd := press(t, s, keyPress('1'), keyPress('s'))
	require.NotNil(t, cmd)

	msg, ok := cmd().(router.ReplaceScreenMsg)
	require.True(t, ok)
	results, ok := msg.Screen.(*ResultsScreen)
	require.True(t, ok)
	assert.Equal(t, 2, results.result.Score)
	assert.NotEmpty(t, results.saved.AttemptID)

	attempts, err := repo.RecentAttempts(context.Background(), store.QueryOpts{})
	require.NoError(t, err)
	require.Len(t, attempts, 1)
	assert.Equal(t, store.HostTUI, attempts[0].Host)
	assert.Equal(t, "unit", attempts[0].BankID)
	assert.Equal(t, int64(90000), attempts[0].DurationMs)

	// Input after submission is ignored.
	assert.Nil(t, press(t, s, keyPress('p')))
}

func TestQuizScreen_View(t *testing.T) {
	s := newQuiz(t, Deps{})
	view := s.View(100, 30)
	assert.Contains(t, view, "Question 1 of 3")
	assert.Contains(t, view, "Default Modbus TCP port?")
	assert.Contains(t, view, "B)  502")

	press(t, s, keyPress('1'))
	view = s.View(100, 30)
	assert.Contains(t, view, "Incorrect")
	assert.Contains(t, view, "Correct answer: 502")
	assert.Contains(t, view, "IANA assigns 502.")
}

func submitted(t *testing.T, deps Deps, answers ...int) *ResultsScreen {
	t.Helper()
	engine, err := quiz.New(testBank())
	require.NoError(t, err)
	for i, a := range answers {
		require.NoError(t, engine.Select(a))
		if i < len(answers)-1 {
			require.NoError(t, engine.Next())
		}
	}
	res, err := engine.Submit()
	require.NoError(t, err)
	return NewResults(engine, res, deps, attemptRecordedMsg{})
}

func TestResultsScreen_Summary(t *testing.T) {
	s := submitted(t, Deps{}, 1, 0, 0)
	view := s.View(100, 30)
	assert.Contains(t, view, "Quiz Complete!")
	assert.Contains(t, view, "Score: 2/3  (67%)")
	assert.Contains(t, view, "Correct answer: Holding registers")
	assert.Equal(t, 2, s.Highlighted())
}

func TestResultsScreen_Retake(t *testing.T) {
	s := submitted(t, Deps{}, 1, 1, 0)
	assert.Equal(t, 0, s.Highlighted())

	_, cmd := s.Update(keyPress('r'))
	require.NotNil(t, cmd)
	msg, ok := cmd().(router.ReplaceScreenMsg)
	require.True(t, ok)
	q, ok := msg.Screen.(*QuizScreen)
	require.True(t, ok)
	assert.Equal(t, 1, q.choice.Question.Number)
	assert.False(t, q.choice.Question.Answered)
	assert.Equal(t, quiz.PhaseInProgress, q.engine.Phase())
}

func TestResultsScreen_EscGoesHome(t *testing.T) {
	s := submitted(t, Deps{}, 1, 1, 0)
	_, cmd := s.Update(specialKey(tea.KeyEscape))
	require.NotNil(t, cmd)
	assert.IsType(t, router.PopToRootMsg{}, cmd())
}

func TestResultsScreen_ExplainWithoutTutor(t *testing.T) {
	s := submitted(t, Deps{}, 0, 0, 0)
	s.View(100, 30)

	_, cmd := s.Update(keyPress('e'))
	assert.Nil(t, cmd)
	assert.Equal(t, "No LLM provider is configured.", s.tutorErr)
}

func TestResultsScreen_Explain(t *testing.T) {
	mock := llm.NewMockProvider(llm.MockResponse{Content: json.RawMessage(`{
		"summary": "Holding registers are read with FC03.",
		"key_points": ["Coils use FC01"],
		"misconception": "Coils are single bits."
	}`)})
	s := submitted(t, Deps{Tutor: tutor.New(mock, tutor.Config{})}, 0, 0, 0)
	s.View(100, 40)

	// Move the highlight from Q1 to Q2.
	s.Update(specialKey(tea.KeyTab))
	require.Equal(t, 2, s.Highlighted())

	_, cmd := s.Update(keyPress('e'))
	require.NotNil(t, cmd)
	assert.True(t, s.asking)

	waiting := s.viewport.GetContent()
	assert.Contains(t, waiting, s.spinner.View()+" Asking the tutor...")

	batch, ok := cmd().(tea.BatchMsg)
	require.True(t, ok)
	var explained *explainedMsg
	var tick tea.Msg
	for _, c := range batch {
		switch m := c().(type) {
		case explainedMsg:
			explained = &m
		case spinner.TickMsg:
			tick = m
		}
	}
	require.NotNil(t, explained)
	require.NotNil(t, tick)

	// Each tick redraws the spinner frame inside the review.
	s.Update(tick)
	assert.NotEqual(t, waiting, s.viewport.GetContent())
	assert.Contains(t, s.viewport.GetContent(), s.spinner.View()+" Asking the tutor...")

	assert.Equal(t, 2, explained.Number)
	require.NoError(t, explained.Err)

	s.Update(*explained)
	assert.False(t, s.asking)
	assert.Contains(t, s.viewport.GetContent(), "Holding registers are read with FC03.")
	assert.Equal(t, 1, mock.CallCount())

	// A second request for the same question is served from memory.
	_, cmd = s.Update(keyPress('e'))
	assert.Nil(t, cmd)
}
