package quiz

import (
	"fmt"
	"strings"
)

// Question is one multiple-choice item in a bank.
type Question struct {
	Text         string
	Options      []string
	CorrectIndex int
	Explanation  string
}

// CorrectText returns the literal text of the correct option.
func (q Question) CorrectText() string {
	return q.Options[q.CorrectIndex]
}

// Bank is a fixed, ordered set of questions on one topic.
type Bank struct {
	ID          string
	Title       string
	Topic       string
	Description string
	Questions   []Question
}

// Len returns the number of questions in the bank.
func (b Bank) Len() int { return len(b.Questions) }

// Validate checks the structural rules every bank must satisfy before an
// engine can run it.
func (b Bank) Validate() error {
	if strings.TrimSpace(b.ID) == "" {
		return fmt.Errorf("%w: missing id", ErrInvalidBank)
	}
	if len(b.Questions) == 0 {
		return fmt.Errorf("%w: bank %q has no questions", ErrInvalidBank, b.ID)
	}
	for i, q := range b.Questions {
		if strings.TrimSpace(q.Text) == "" {
			return fmt.Errorf("%w: question %d has no text", ErrInvalidBank, i+1)
		}
		if len(q.Options) < 2 {
			return fmt.Errorf("%w: question %d has %d options, need at least 2",
				ErrInvalidBank, i+1, len(q.Options))
		}
		if q.CorrectIndex < 0 || q.CorrectIndex >= len(q.Options) {
			return fmt.Errorf("%w: question %d correct index %d out of range [0,%d)",
				ErrInvalidBank, i+1, q.CorrectIndex, len(q.Options))
		}
		seen := make(map[string]bool, len(q.Options))
		for j, opt := range q.Options {
			key := strings.TrimSpace(opt)
			if key == "" {
				return fmt.Errorf("%w: question %d option %d is empty", ErrInvalidBank, i+1, j+1)
			}
			if seen[key] {
				return fmt.Errorf("%w: question %d repeats option %q", ErrInvalidBank, i+1, key)
			}
			seen[key] = true
		}
	}
	return nil
}

// clone returns a deep copy so engines never share option slices with the
// caller.
func (b Bank) clone() Bank {
	out := b
	out.Questions = make([]Question, len(b.Questions))
	for i, q := range b.Questions {
		q.Options = append([]string(nil), q.Options...)
		out.Questions[i] = q
	}
	return out
}
