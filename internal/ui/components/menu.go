package components

import (
	"strings"

	tea "charm.land/bubbletea/v2"

	"github.com/abhisek/protoquiz/internal/ui/theme"
)

// MenuItem is one entry of a Menu. Disabled entries are drawn dimmed and
// skipped by the cursor.
type MenuItem struct {
	Label string
	// Hint is shown dimmed under the item while it is highlighted.
	Hint     string
	Action   func() tea.Cmd
	Disabled bool
}

// Menu is a vertical list with a cursor that stops at the first and last
// enabled entries.
type Menu struct {
	Items    []MenuItem
	Selected int
}

func NewMenu(items []MenuItem) Menu {
	m := Menu{Items: items, Selected: -1}
	m.move(1)
	if m.Selected < 0 {
		m.Selected = 0
	}
	return m
}

// move steps the cursor to the next enabled item in direction step.
func (m *Menu) move(step int) {
	for i := m.Selected + step; i >= 0 && i < len(m.Items); i += step {
		if !m.Items[i].Disabled {
			m.Selected = i
			return
		}
	}
}

func (m Menu) Update(msg tea.Msg) (Menu, tea.Cmd) {
	key, ok := msg.(tea.KeyPressMsg)
	if !ok {
		return m, nil
	}
	switch key.String() {
	case "up", "k":
		m.move(-1)
	case "down", "j":
		m.move(1)
	case "enter":
		if m.Selected < len(m.Items) {
			if it := m.Items[m.Selected]; !it.Disabled && it.Action != nil {
				return m, it.Action()
			}
		}
	}
	return m, nil
}

func (m Menu) View() string {
	lines := make([]string, 0, len(m.Items)+1)
	for i, it := range m.Items {
		switch {
		case it.Disabled:
			lines = append(lines, theme.Hint.Render("    "+it.Label))
		case i == m.Selected:
			lines = append(lines, theme.Selected.Render("  ▸ "+it.Label))
			if it.Hint != "" {
				lines = append(lines, theme.Hint.Render("      "+it.Hint))
			}
		default:
			lines = append(lines, theme.Unselected.Render("    "+it.Label))
		}
	}
	return strings.Join(lines, "\n") + "\n"
}
