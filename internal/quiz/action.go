package quiz

import "fmt"

// ActionKind names a discrete user action a host forwards to the engine.
type ActionKind string

const (
	ActionSelect   ActionKind = "select"
	ActionPrevious ActionKind = "previous"
	ActionNext     ActionKind = "next"
	ActionSubmit   ActionKind = "submit"
	ActionRetake   ActionKind = "retake"
)

// Action is one user input. Option is only read for ActionSelect.
type Action struct {
	Kind   ActionKind `json:"action"`
	Option int        `json:"option"`
}

// ParseActionKind validates a kind received from outside the process.
func ParseActionKind(s string) (ActionKind, error) {
	switch k := ActionKind(s); k {
	case ActionSelect, ActionPrevious, ActionNext, ActionSubmit, ActionRetake:
		return k, nil
	}
	return "", fmt.Errorf("unknown action %q", s)
}

// Apply dispatches a host action to the matching engine operation.
func (e *Engine) Apply(a Action) error {
	switch a.Kind {
	case ActionSelect:
		return e.Select(a.Option)
	case ActionPrevious:
		return e.Previous()
	case ActionNext:
		return e.Next()
	case ActionSubmit:
		_, err := e.Submit()
		return err
	case ActionRetake:
		e.Reset()
		return nil
	default:
		return fmt.Errorf("unknown action %q", a.Kind)
	}
}
