package quiz

import (
	"errors"
	"fmt"
)

// State is the phase of a practice session
type State int

const (
	NotStarted State = iota // No word set loaded yet
	InProgress              // Presenting words one at a time
	Complete                // Every word visited, record emitted
)

func (s State) String() string {
	switch s {
	case NotStarted:
		return "not-started"
	case InProgress:
		return "in-progress"
	case Complete:
		return "complete"
	default:
		return fmt.Sprintf("state(%d)", int(s))
	}
}

// Direction moves between adjacent words
type Direction int

const (
	Previous Direction = -1
	Next     Direction = 1
)

var (
	// ErrInvalidTransition is returned when an operation is not allowed in
	// the current state. It signals a caller bug.
	ErrInvalidTransition = errors.New("invalid session transition")
	ErrEmptyWordSet      = errors.New("word set has no words")
	ErrHintOutOfRange    = errors.New("hint letter index out of range")
	ErrNoAdjacentWord    = errors.New("no adjacent word in that direction")
)

func invalidTransition(op string, s State) error {
	return fmt.Errorf("%s while %s: %w", op, s, ErrInvalidTransition)
}
