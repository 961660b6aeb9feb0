package models

import "time"

// WordOutcome is what happened to one word during a practice session
type WordOutcome struct {
	Word        string
	Attempts    []string // Chronological, normalized
	HintUsed    bool
	HintLetters []int // Indexes of the letters revealed by hints
}

// FirstTryCorrect reports whether the first attempt matched the word,
// ignoring hints.
func (o WordOutcome) FirstTryCorrect() bool {
	return len(o.Attempts) > 0 && o.Attempts[0] == o.Word
}

// Scored reports whether the word counts as correct for scoring:
// right on the first try and no letter revealed.
func (o WordOutcome) Scored() bool {
	return o.FirstTryCorrect() && !o.HintUsed
}

// SessionRecord is the finished record of one completed practice session
type SessionRecord struct {
	ID          string
	LearnerID   string
	WordSetID   string
	WordSetName string
	Words       []WordOutcome
	StartedAt   time.Time
	CompletedAt time.Time
}

// SetName returns the word set name, falling back to UnknownWordSetName
func (r SessionRecord) SetName() string {
	if r.WordSetName == "" {
		return UnknownWordSetName
	}
	return r.WordSetName
}

// EnrichedRecord is a SessionRecord plus fields derived for analytics.
// The derived fields are recomputed on every enrichment pass.
type EnrichedRecord struct {
	SessionRecord
	TrialNumber      int
	TimeTakenSeconds int
	CorrectCount     int
	TotalWords       int
	ScoreValue       float64 // Fraction of scored words, 0.0-1.0
	ScoreDisplay     string
}
