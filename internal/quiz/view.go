package quiz

import "fmt"

// Mark is the feedback state of one option.
type Mark int

const (
	MarkNone Mark = iota
	MarkCorrect
	MarkIncorrect
)

func (m Mark) String() string {
	switch m {
	case MarkCorrect:
		return "correct"
	case MarkIncorrect:
		return "incorrect"
	default:
		return "none"
	}
}

// MarshalText implements encoding.TextMarshaler.
func (m Mark) MarshalText() ([]byte, error) { return []byte(m.String()), nil }

// Control is the display state of a navigation control.
type Control int

const (
	ControlHidden Control = iota
	ControlDisabled
	ControlEnabled
)

func (c Control) String() string {
	switch c {
	case ControlEnabled:
		return "enabled"
	case ControlDisabled:
		return "disabled"
	default:
		return "hidden"
	}
}

// Enabled reports whether the control accepts input.
func (c Control) Enabled() bool { return c == ControlEnabled }

// Visible reports whether the control should be drawn at all.
func (c Control) Visible() bool { return c != ControlHidden }

// MarshalText implements encoding.TextMarshaler.
func (c Control) MarshalText() ([]byte, error) { return []byte(c.String()), nil }

// MarshalText implements encoding.TextMarshaler.
func (p Phase) MarshalText() ([]byte, error) { return []byte(p.String()), nil }

// MarshalText implements encoding.TextMarshaler.
func (t Tier) MarshalText() ([]byte, error) { return []byte(t.String()), nil }

// OptionView is one option as the host should draw it.
type OptionView struct {
	Index    int    `json:"index"`
	Text     string `json:"text"`
	Selected bool   `json:"selected"`
	Mark     Mark   `json:"mark"`
}

// QuestionView is the renderable state of the displayed question.
type QuestionView struct {
	Number   int          `json:"number"`
	Total    int          `json:"total"`
	Text     string       `json:"text"`
	Options  []OptionView `json:"options"`
	Selected int          `json:"selected"`
	Answered bool         `json:"answered"`
	Locked   bool         `json:"locked"`
	Correct  bool         `json:"correct"`

	// Explanation is empty until the question is answered. CorrectText is
	// only set for a wrong answer.
	Explanation string `json:"explanation,omitempty"`
	CorrectText string `json:"correct_text,omitempty"`

	Progress float64 `json:"progress"`
	Previous Control `json:"previous"`
	Next     Control `json:"next"`
	Submit   Control `json:"submit"`
}

// ProgressLabel returns "Question N of M".
func (q QuestionView) ProgressLabel() string {
	return fmt.Sprintf("Question %d of %d", q.Number, q.Total)
}

// Feedback returns the feedback heading, or "" while unanswered.
func (q QuestionView) Feedback() string {
	switch {
	case !q.Answered:
		return ""
	case q.Correct:
		return "Correct!"
	default:
		return "Incorrect"
	}
}

// View is the host-facing snapshot of the engine. Exactly one of Question
// and Result is set, depending on Phase.
type View struct {
	Phase     Phase         `json:"phase"`
	BankID    string        `json:"bank_id"`
	BankTitle string        `json:"bank_title"`
	Question  *QuestionView `json:"question,omitempty"`
	Result    *Result       `json:"result,omitempty"`
}

// View builds the current view model.
func (e *Engine) View() View {
	v := View{
		Phase:     e.Phase(),
		BankID:    e.bank.ID,
		BankTitle: e.bank.Title,
	}
	if e.completed {
		res := e.result.clone()
		v.Result = &res
		return v
	}
	qv := e.questionView()
	v.Question = &qv
	return v
}

func (e *Engine) questionView() QuestionView {
	q := e.bank.Questions[e.current]
	total := len(e.bank.Questions)
	selected := e.answers[e.current]
	answered := selected != Unanswered

	qv := QuestionView{
		Number:   e.current + 1,
		Total:    total,
		Text:     q.Text,
		Options:  make([]OptionView, len(q.Options)),
		Selected: selected,
		Answered: answered,
		Locked:   answered,
		Correct:  answered && selected == q.CorrectIndex,
		Progress: float64(e.current+1) / float64(total),
	}
	for i, text := range q.Options {
		ov := OptionView{Index: i, Text: text, Selected: i == selected}
		if answered {
			switch {
			case i == q.CorrectIndex:
				ov.Mark = MarkCorrect
			case i == selected:
				ov.Mark = MarkIncorrect
			}
		}
		qv.Options[i] = ov
	}
	if answered {
		qv.Explanation = q.Explanation
		if !qv.Correct {
			qv.CorrectText = q.CorrectText()
		}
	}

	qv.Previous = ControlDisabled
	if e.CanPrevious() {
		qv.Previous = ControlEnabled
	}
	if e.isLast() {
		qv.Next = ControlHidden
		qv.Submit = ControlDisabled
		if e.CanSubmit() {
			qv.Submit = ControlEnabled
		}
	} else {
		qv.Submit = ControlHidden
		qv.Next = ControlDisabled
		if e.CanNext() {
			qv.Next = ControlEnabled
		}
	}
	return qv
}
