package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"spellquiz/internal/models"
	"spellquiz/internal/sentences"
)

// SentenceService handles learner sentences
type SentenceService struct {
	store  SentenceStore
	logger *slog.Logger
}

// NewSentenceService creates a new sentence service
func NewSentenceService(store SentenceStore, logger *slog.Logger) *SentenceService {
	if logger == nil {
		logger = slog.Default()
	}
	return &SentenceService{store: store, logger: logger}
}

// AddSentence stores a sentence a learner wrote for a target word
func (s *SentenceService) AddSentence(ctx context.Context, in models.Sentence) (models.Sentence, error) {
	in.LearnerName = strings.TrimSpace(in.LearnerName)
	in.TargetWord = models.NormalizeWord(in.TargetWord)
	in.Text = strings.TrimSpace(in.Text)
	if in.LearnerName == "" || in.TargetWord == "" || in.Text == "" {
		return models.Sentence{}, fmt.Errorf("%w: learner, word and sentence are required", ErrInvalidSentence)
	}
	return s.store.AddSentence(ctx, in)
}

// UpdateSentence edits the target word and text of a sentence
func (s *SentenceService) UpdateSentence(ctx context.Context, id, targetWord, text string) error {
	targetWord = models.NormalizeWord(targetWord)
	text = strings.TrimSpace(text)
	if targetWord == "" || text == "" {
		return fmt.Errorf("%w: word and sentence are required", ErrInvalidSentence)
	}
	return s.store.UpdateSentence(ctx, id, targetWord, text)
}

// DeleteSentence removes a sentence
func (s *SentenceService) DeleteSentence(ctx context.Context, id string) error {
	return s.store.DeleteSentence(ctx, id)
}

// SentenceView is a filtered and sorted sentence list with its stats
type SentenceView struct {
	Sentences []models.Sentence
	Stats     sentences.Stats
}

// ListSentences returns the sentences matching c, ordered by key
func (s *SentenceService) ListSentences(ctx context.Context, c sentences.Criteria, key sentences.SortKey) (SentenceView, error) {
	all, err := s.store.ListSentences(ctx)
	if err != nil {
		return SentenceView{}, err
	}
	for i := range all {
		all[i] = sentences.Clean(all[i])
	}

	view := sentences.Sort(sentences.Filter(all, c), key)
	return SentenceView{Sentences: view, Stats: sentences.Summarize(view)}, nil
}
