package service

import (
	"errors"
	"fmt"
)

var (
	ErrWordSetNotFound = errors.New("word set not found")
	ErrInvalidWordSet  = errors.New("invalid word set")
	ErrNoAssignment    = errors.New("learner has no assignment")
	ErrInvalidSentence = errors.New("invalid sentence")
)

// PersistenceError reports a record that could not be written to the store.
// The session that produced it is unaffected.
type PersistenceError struct {
	RecordID string
	Err      error
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("failed to persist record %s: %v", e.RecordID, e.Err)
}

func (e *PersistenceError) Unwrap() error {
	return e.Err
}
