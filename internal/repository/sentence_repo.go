package repository

import (
	"context"
	"fmt"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/google/uuid"

	"spellquiz/internal/database"
	"spellquiz/internal/models"
)

var sentenceColumns = []string{"id", "learner_name", "target_word", "sentence", "word_set_id", "word_set_name", "created_at"}

// SentenceRepository stores sentences learners wrote with their words
type SentenceRepository struct {
	db *database.DB
}

// NewSentenceRepository creates a new sentence repository
func NewSentenceRepository(db *database.DB) *SentenceRepository {
	return &SentenceRepository{db: db}
}

// AddSentence stores a sentence and returns it with its ID filled in
func (r *SentenceRepository) AddSentence(ctx context.Context, s models.Sentence) (models.Sentence, error) {
	if s.ID == "" {
		s.ID = uuid.NewString()
	}
	if s.CreatedAt.IsZero() {
		s.CreatedAt = time.Now().UTC()
	}

	_, err := database.Exec(ctx, r.db, r.db.Builder().
		Insert("sentences").
		Columns(sentenceColumns...).
		Values(s.ID, s.LearnerName, s.TargetWord, s.Text, s.WordSetID, s.WordSetName, s.CreatedAt))
	if err != nil {
		return models.Sentence{}, fmt.Errorf("failed to add sentence: %w", err)
	}
	return s, nil
}

// UpdateSentence changes the text and target word of a sentence
func (r *SentenceRepository) UpdateSentence(ctx context.Context, id, targetWord, text string) error {
	res, err := database.Exec(ctx, r.db, r.db.Builder().
		Update("sentences").
		Set("target_word", targetWord).
		Set("sentence", text).
		Where(sq.Eq{"id": id}))
	if err != nil {
		return fmt.Errorf("failed to update sentence %s: %w", id, err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return fmt.Errorf("sentence %s: %w", id, database.ErrNotFound)
	}
	return nil
}

// DeleteSentence removes one sentence
func (r *SentenceRepository) DeleteSentence(ctx context.Context, id string) error {
	res, err := database.Exec(ctx, r.db, r.db.Builder().Delete("sentences").Where(sq.Eq{"id": id}))
	if err != nil {
		return fmt.Errorf("failed to delete sentence %s: %w", id, err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return fmt.Errorf("sentence %s: %w", id, database.ErrNotFound)
	}
	return nil
}

// ListSentences returns every sentence, newest first
func (r *SentenceRepository) ListSentences(ctx context.Context) ([]models.Sentence, error) {
	rows, err := database.Query(ctx, r.db, r.db.Builder().
		Select(sentenceColumns...).
		From("sentences").
		OrderBy("created_at DESC", "id ASC"))
	if err != nil {
		return nil, fmt.Errorf("failed to list sentences: %w", err)
	}
	defer rows.Close()

	var out []models.Sentence
	for rows.Next() {
		var s models.Sentence
		if err := rows.Scan(&s.ID, &s.LearnerName, &s.TargetWord, &s.Text, &s.WordSetID, &s.WordSetName, &s.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan sentence: %w", err)
		}
		out = append(out, s)
	}
	return out, rows.Err()
}

// DeleteAllSentences removes every sentence
func (r *SentenceRepository) DeleteAllSentences(ctx context.Context) error {
	if _, err := database.Exec(ctx, r.db, r.db.Builder().Delete("sentences")); err != nil {
		return fmt.Errorf("failed to delete sentences: %w", err)
	}
	return nil
}
