package models

import (
	"strings"
	"time"
)

// Display names used when a word set has no stored name.
const (
	DefaultWordSetName = "Basic Words"
	LegacyWordSetName  = "Legacy Set"
	UnknownWordSetName = "Unknown Set"
)

// DefaultWords is the built-in word list used when nothing else resolves
var DefaultWords = []string{"want", "went", "what", "should", "could"}

// WordSet represents a named, ordered list of words to practice
type WordSet struct {
	ID          string // Empty for the legacy list and the built-in default
	Name        string
	Description string
	Words       []string
	CreatedBy   string
	CreatedAt   time.Time
}

// Assignment links a learner to the word set they should practice.
// A learner has at most one assignment.
type Assignment struct {
	LearnerID  string
	WordSetID  string
	AssignedAt time.Time
	AssignedBy string
}

// LegacyWordList is the single-document word list that predates word sets
type LegacyWordList struct {
	Words       []string
	ActiveSetID string
}

// NormalizeWord trims and lowercases a word or an attempt
func NormalizeWord(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// NormalizeWords normalizes every word and drops the empty ones
func NormalizeWords(words []string) []string {
	out := make([]string, 0, len(words))
	for _, w := range words {
		if n := NormalizeWord(w); n != "" {
			out = append(out, n)
		}
	}
	return out
}

// DefaultWordSet returns a fresh copy of the built-in word set
func DefaultWordSet() WordSet {
	words := make([]string, len(DefaultWords))
	copy(words, DefaultWords)
	return WordSet{
		Name:        DefaultWordSetName,
		Description: "Default word set for spelling practice",
		Words:       words,
		CreatedBy:   "system",
	}
}
