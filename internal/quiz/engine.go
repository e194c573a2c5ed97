// Package quiz implements the quiz engine: a single-writer state machine that
// walks a question bank one question at a time, locks each question after
// its first answer, grades on submission and exposes a renderable view.
package quiz

import "fmt"

// Unanswered marks an empty answer slot.
const Unanswered = -1

// Phase is the engine's top-level state.
type Phase int

const (
	PhaseInProgress Phase = iota
	PhaseCompleted
)

func (p Phase) String() string {
	if p == PhaseCompleted {
		return "completed"
	}
	return "in_progress"
}

// Option configures an Engine.
type Option func(*Engine)

// WithObserver registers fn to receive the fresh view after every accepted
// operation. Rejected operations do not notify.
func WithObserver(fn func(View)) Option {
	return func(e *Engine) {
		if fn != nil {
			e.observers = append(e.observers, fn)
		}
	}
}

// Engine owns the state of one quiz attempt. It is not safe for concurrent
// use; hosts serving several users keep one engine per user and serialize
// access to it.
type Engine struct {
	bank      Bank
	current   int
	answers   []int
	completed bool
	result    *Result
	observers []func(View)
}

// New validates bank and returns an engine positioned on its first question.
// The engine keeps its own copy of the bank.
func New(bank Bank, opts ...Option) (*Engine, error) {
	if err := bank.Validate(); err != nil {
		return nil, err
	}
	e := &Engine{bank: bank.clone()}
	for _, opt := range opts {
		opt(e)
	}
	e.init()
	return e, nil
}

func (e *Engine) init() {
	e.current = 0
	e.answers = make([]int, len(e.bank.Questions))
	for i := range e.answers {
		e.answers[i] = Unanswered
	}
	e.completed = false
	e.result = nil
}

// Bank returns a copy of the bank the engine runs.
func (e *Engine) Bank() Bank { return e.bank.clone() }

// Phase reports whether the attempt is still running.
func (e *Engine) Phase() Phase {
	if e.completed {
		return PhaseCompleted
	}
	return PhaseInProgress
}

// Current returns the zero-based index of the displayed question.
func (e *Engine) Current() int { return e.current }

// Answer returns the recorded option for question i and whether the slot is
// filled.
func (e *Engine) Answer(i int) (int, bool) {
	if i < 0 || i >= len(e.answers) {
		return Unanswered, false
	}
	a := e.answers[i]
	return a, a != Unanswered
}

// Answers returns a copy of all answer slots.
func (e *Engine) Answers() []int {
	return append([]int(nil), e.answers...)
}

// Result returns the graded result once the attempt is completed.
func (e *Engine) Result() (Result, bool) {
	if e.result == nil {
		return Result{}, false
	}
	return e.result.clone(), true
}

func (e *Engine) isLast() bool { return e.current == len(e.bank.Questions)-1 }

func (e *Engine) currentAnswered() bool { return e.answers[e.current] != Unanswered }

// CanPrevious reports whether Previous would be accepted.
func (e *Engine) CanPrevious() bool { return !e.completed && e.current > 0 }

// CanNext reports whether Next would be accepted.
func (e *Engine) CanNext() bool {
	return !e.completed && !e.isLast() && e.currentAnswered()
}

// CanSubmit reports whether Submit would be accepted.
func (e *Engine) CanSubmit() bool {
	return !e.completed && e.isLast() && e.currentAnswered()
}

// Select records option as the answer to the current question. The first
// accepted selection locks the question; selecting the same option again is
// accepted and changes nothing, any other option is rejected.
func (e *Engine) Select(option int) error {
	if e.completed {
		return fmt.Errorf("%w: quiz already submitted", ErrIllegalTransition)
	}
	q := e.bank.Questions[e.current]
	if option < 0 || option >= len(q.Options) {
		return fmt.Errorf("%w: %d not in [0,%d)", ErrInvalidOptionIndex, option, len(q.Options))
	}
	if prev := e.answers[e.current]; prev != Unanswered && prev != option {
		return fmt.Errorf("%w: question %d is already answered", ErrIllegalTransition, e.current+1)
	}
	e.answers[e.current] = option
	e.notify()
	return nil
}

// Previous moves back one question.
func (e *Engine) Previous() error {
	if !e.CanPrevious() {
		if e.completed {
			return fmt.Errorf("%w: quiz already submitted", ErrIllegalTransition)
		}
		return fmt.Errorf("%w: already at the first question", ErrIllegalTransition)
	}
	e.current--
	e.notify()
	return nil
}

// Next moves forward one question. The current question must be answered.
func (e *Engine) Next() error {
	if !e.CanNext() {
		switch {
		case e.completed:
			return fmt.Errorf("%w: quiz already submitted", ErrIllegalTransition)
		case e.isLast():
			return fmt.Errorf("%w: already at the last question", ErrIllegalTransition)
		default:
			return fmt.Errorf("%w: question %d is unanswered", ErrIllegalTransition, e.current+1)
		}
	}
	e.current++
	e.notify()
	return nil
}

// Submit grades the attempt. It is only accepted on the last question once
// that question is answered.
func (e *Engine) Submit() (Result, error) {
	if !e.CanSubmit() {
		switch {
		case e.completed:
			return Result{}, fmt.Errorf("%w: quiz already submitted", ErrIllegalTransition)
		case !e.isLast():
			return Result{}, fmt.Errorf("%w: submit is only allowed on the last question", ErrIllegalTransition)
		default:
			return Result{}, fmt.Errorf("%w: question %d is unanswered", ErrIllegalTransition, e.current+1)
		}
	}
	res := Grade(e.bank, e.answers)
	e.completed = true
	e.result = &res
	e.notify()
	return res.clone(), nil
}

// Reset discards the attempt and starts over on the first question. It is
// accepted in every state.
func (e *Engine) Reset() {
	e.init()
	e.notify()
}

func (e *Engine) notify() {
	if len(e.observers) == 0 {
		return
	}
	v := e.View()
	for _, fn := range e.observers {
		fn(v)
	}
}
