package models

import "time"

// Sentence is a sentence a learner wrote using a target word
type Sentence struct {
	ID          string
	LearnerName string
	TargetWord  string
	Text        string
	WordSetID   string
	WordSetName string
	CreatedAt   time.Time
}
