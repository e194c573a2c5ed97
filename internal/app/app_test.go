package app

import (
	"testing"

	tea "charm.land/bubbletea/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abhisek/protoquiz/internal/bank"
	"github.com/abhisek/protoquiz/internal/router"
	"github.com/abhisek/protoquiz/internal/screens/play"
)

func model(t *testing.T, withQuiz bool) AppModel {
	t.Helper()
	reg, err := bank.Builtin()
	require.NoError(t, err)

	var deps play.Deps
	if !withQuiz {
		return newAppModel(reg, deps, nil)
	}
	b, err := reg.Get("modbus-rtu")
	require.NoError(t, err)
	q, err := play.NewQuiz(b, deps)
	require.NoError(t, err)
	return newAppModel(reg, deps, q)
}

func TestAppModel_EscOnQuizAsksFirst(t *testing.T) {
	m := model(t, true)
	require.Equal(t, 2, m.router.Depth())

	_, cmd := m.Update(tea.KeyPressMsg{Code: tea.KeyEscape})
	assert.Nil(t, cmd, "quiz screen handles esc itself")
	assert.Equal(t, 2, m.router.Depth())

	_, cmd = m.Update(tea.KeyPressMsg{Code: 'y', Text: "y"})
	require.NotNil(t, cmd)
	m.Update(cmd())
	assert.Equal(t, 1, m.router.Depth())
}

func TestAppModel_EscAtRootIsNoop(t *testing.T) {
	m := model(t, false)
	_, cmd := m.Update(tea.KeyPressMsg{Code: tea.KeyEscape})
	assert.Nil(t, cmd)
}

func TestAppModel_CtrlCQuits(t *testing.T) {
	m := model(t, false)
	_, cmd := m.Update(tea.KeyPressMsg{Code: 'c', Mod: tea.ModCtrl})
	require.NotNil(t, cmd)
	assert.IsType(t, tea.QuitMsg{}, cmd())
}

func TestAppModel_View(t *testing.T) {
	m := model(t, true)

	updated, _ := m.Update(tea.WindowSizeMsg{Width: 60, Height: 20})
	assert.Contains(t, updated.(AppModel).frame(), "Terminal too small")

	updated, _ = m.Update(tea.WindowSizeMsg{Width: 100, Height: 40})
	content := updated.(AppModel).frame()
	assert.Contains(t, content, "protoquiz")
	assert.Contains(t, content, "Modbus RTU")
	assert.Contains(t, content, "1/")
	assert.Contains(t, content, "Next")
}

func TestAppModel_PopToRoot(t *testing.T) {
	m := model(t, true)
	m.Update(router.PopToRootMsg{})
	assert.Equal(t, 1, m.router.Depth())
}
