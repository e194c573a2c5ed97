package quiz

import "errors"

var (
	// ErrInvalidOptionIndex is returned when a selection falls outside the
	// current question's options.
	ErrInvalidOptionIndex = errors.New("invalid option index")

	// ErrIllegalTransition is returned when a navigation, selection or
	// submission is attempted while its precondition does not hold.
	ErrIllegalTransition = errors.New("illegal transition")

	// ErrInvalidBank is returned by Bank.Validate.
	ErrInvalidBank = errors.New("invalid question bank")
)
