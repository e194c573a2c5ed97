// Package router keeps the stack of TUI screens. Screens navigate by
// returning one of the *Msg commands below; the app model feeds every
// message through Router.Update.
package router

import (
	tea "charm.land/bubbletea/v2"

	"github.com/abhisek/protoquiz/internal/screen"
)

// PushScreenMsg opens Screen on top of the current one.
type PushScreenMsg struct {
	Screen screen.Screen
}

// PopScreenMsg closes the top screen. The root screen is never popped.
type PopScreenMsg struct{}

// ReplaceScreenMsg swaps the top screen, e.g. quiz for results, so that
// going back skips it.
type ReplaceScreenMsg struct {
	Screen screen.Screen
}

// PopToRootMsg closes everything above the root screen.
type PopToRootMsg struct{}

type Router struct {
	stack []screen.Screen
}

func New(root screen.Screen) *Router {
	return &Router{stack: []screen.Screen{root}}
}

// Push and Replace return the new screen's Init command.
func (r *Router) Push(s screen.Screen) tea.Cmd {
	r.stack = append(r.stack, s)
	return s.Init()
}

func (r *Router) Replace(s screen.Screen) tea.Cmd {
	r.stack[len(r.stack)-1] = s
	return s.Init()
}

func (r *Router) Pop() tea.Cmd {
	if len(r.stack) > 1 {
		r.stack = r.stack[:len(r.stack)-1]
	}
	return nil
}

// PopToRoot re-runs the root's Init so it can reload what it shows.
func (r *Router) PopToRoot() tea.Cmd {
	r.stack = r.stack[:1]
	return r.stack[0].Init()
}

func (r *Router) Active() screen.Screen { return r.stack[len(r.stack)-1] }

func (r *Router) Depth() int { return len(r.stack) }

// Update applies navigation messages and hands everything else to the
// active screen.
func (r *Router) Update(msg tea.Msg) tea.Cmd {
	switch msg := msg.(type) {
	case PushScreenMsg:
		return r.Push(msg.Screen)
	case PopScreenMsg:
		return r.Pop()
	case ReplaceScreenMsg:
		return r.Replace(msg.Screen)
	case PopToRootMsg:
		return r.PopToRoot()
	}
	top := len(r.stack) - 1
	var cmd tea.Cmd
	r.stack[top], cmd = r.stack[top].Update(msg)
	return cmd
}

func (r *Router) View(width, height int) string {
	return r.Active().View(width, height)
}
