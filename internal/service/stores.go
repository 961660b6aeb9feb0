package service

import (
	"context"

	"spellquiz/internal/models"
	"spellquiz/internal/wordset"
)

// WordSetStore is the word set side of the store
type WordSetStore interface {
	wordset.Store
	CreateWordSet(ctx context.Context, set models.WordSet) (models.WordSet, error)
	UpdateWordSet(ctx context.Context, set models.WordSet) error
	DeleteWordSet(ctx context.Context, id string) error
	ListWordSets(ctx context.Context) ([]models.WordSet, error)
	AssignWordSet(ctx context.Context, a models.Assignment) error
	ListAssignments(ctx context.Context) ([]models.Assignment, error)
	DeleteAssignment(ctx context.Context, learnerID string) error
	SaveLegacyWordList(ctx context.Context, list models.LegacyWordList) error
	DeleteAll(ctx context.Context) error
}

// ResultLister reads completed session records. An empty learner ID lists
// every record.
type ResultLister interface {
	ListResults(ctx context.Context, learnerID string) ([]models.SessionRecord, error)
}

// ResultStore holds completed session records
type ResultStore interface {
	ResultLister
	AppendResult(ctx context.Context, rec models.SessionRecord) (models.SessionRecord, error)
	DeleteResult(ctx context.Context, id string) error
	DeleteAllResults(ctx context.Context) (int64, error)
}

// SentenceStore holds learner sentences
type SentenceStore interface {
	AddSentence(ctx context.Context, s models.Sentence) (models.Sentence, error)
	UpdateSentence(ctx context.Context, id, targetWord, text string) error
	DeleteSentence(ctx context.Context, id string) error
	ListSentences(ctx context.Context) ([]models.Sentence, error)
	DeleteAllSentences(ctx context.Context) error
}
