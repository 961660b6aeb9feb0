package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/google/uuid"

	"spellquiz/internal/database"
	"spellquiz/internal/models"
)

// ResultRepository stores completed practice session records
type ResultRepository struct {
	db *database.DB
}

// NewResultRepository creates a new result repository
func NewResultRepository(db *database.DB) *ResultRepository {
	return &ResultRepository{db: db}
}

// AppendResult stores a record and returns it with its ID filled in
func (r *ResultRepository) AppendResult(ctx context.Context, rec models.SessionRecord) (models.SessionRecord, error) {
	if rec.ID == "" {
		rec.ID = uuid.NewString()
	}

	err := r.db.WithTx(ctx, func(tx *database.Tx) error {
		_, err := database.Exec(ctx, tx, tx.Builder().
			Insert("results").
			Columns("id", "learner_id", "word_set_id", "word_set_name", "started_at", "completed_at", "created_at").
			Values(rec.ID, rec.LearnerID, rec.WordSetID, rec.WordSetName,
				nullTime(rec.StartedAt), nullTime(rec.CompletedAt), time.Now().UTC()))
		if err != nil {
			return err
		}
		if len(rec.Words) == 0 {
			return nil
		}

		q := tx.Builder().
			Insert("result_words").
			Columns("result_id", "position", "word", "attempts", "hint", "hint_letters", "first_try_correct")
		for i, w := range rec.Words {
			attempts, err := jsonText(w.Attempts, []string{})
			if err != nil {
				return err
			}
			letters, err := jsonText(w.HintLetters, []int{})
			if err != nil {
				return err
			}
			q = q.Values(rec.ID, i, w.Word, attempts, w.HintUsed, letters, w.FirstTryCorrect())
		}
		_, err = database.Exec(ctx, tx, q)
		return err
	})
	if err != nil {
		return models.SessionRecord{}, fmt.Errorf("failed to append result: %w", err)
	}
	return rec, nil
}

// ListResults returns stored records in completion order. An empty
// learnerID returns every learner's records.
func (r *ResultRepository) ListResults(ctx context.Context, learnerID string) ([]models.SessionRecord, error) {
	q := r.db.Builder().
		Select("id", "learner_id", "word_set_id", "word_set_name", "started_at", "completed_at").
		From("results").
		OrderBy("completed_at ASC", "created_at ASC", "id ASC")
	if learnerID != "" {
		q = q.Where(sq.Eq{"learner_id": learnerID})
	}

	rows, err := database.Query(ctx, r.db, q)
	if err != nil {
		return nil, fmt.Errorf("failed to list results: %w", err)
	}
	defer rows.Close()

	var records []models.SessionRecord
	index := make(map[string]int)
	for rows.Next() {
		var rec models.SessionRecord
		var started, completed sql.NullTime
		if err := rows.Scan(&rec.ID, &rec.LearnerID, &rec.WordSetID, &rec.WordSetName, &started, &completed); err != nil {
			return nil, fmt.Errorf("failed to scan result: %w", err)
		}
		rec.StartedAt = started.Time
		rec.CompletedAt = completed.Time
		index[rec.ID] = len(records)
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if len(records) == 0 {
		return nil, nil
	}

	ids := make([]string, 0, len(records))
	for _, rec := range records {
		ids = append(ids, rec.ID)
	}
	if err := r.loadWords(ctx, ids, records, index); err != nil {
		return nil, err
	}
	return records, nil
}

func (r *ResultRepository) loadWords(ctx context.Context, ids []string, records []models.SessionRecord, index map[string]int) error {
	rows, err := database.Query(ctx, r.db, r.db.Builder().
		Select("result_id", "word", "attempts", "hint", "hint_letters").
		From("result_words").
		Where(sq.Eq{"result_id": ids}).
		OrderBy("result_id", "position"))
	if err != nil {
		return fmt.Errorf("failed to load result words: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var resultID, attempts, letters string
		var w models.WordOutcome
		if err := rows.Scan(&resultID, &w.Word, &attempts, &w.HintUsed, &letters); err != nil {
			return fmt.Errorf("failed to scan result word: %w", err)
		}
		if err := json.Unmarshal([]byte(attempts), &w.Attempts); err != nil {
			return fmt.Errorf("failed to decode attempts for %s: %w", resultID, err)
		}
		if err := json.Unmarshal([]byte(letters), &w.HintLetters); err != nil {
			return fmt.Errorf("failed to decode hint letters for %s: %w", resultID, err)
		}
		if len(w.HintLetters) == 0 {
			w.HintLetters = nil
		}
		if i, ok := index[resultID]; ok {
			records[i].Words = append(records[i].Words, w)
		}
	}
	return rows.Err()
}

// DeleteResult removes one record
func (r *ResultRepository) DeleteResult(ctx context.Context, id string) error {
	err := r.db.WithTx(ctx, func(tx *database.Tx) error {
		if _, err := database.Exec(ctx, tx, tx.Builder().
			Delete("result_words").
			Where(sq.Eq{"result_id": id})); err != nil {
			return err
		}
		res, err := database.Exec(ctx, tx, tx.Builder().Delete("results").Where(sq.Eq{"id": id}))
		if err != nil {
			return err
		}
		if n, err := res.RowsAffected(); err == nil && n == 0 {
			return database.ErrNotFound
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("failed to delete result %s: %w", id, err)
	}
	return nil
}

// DeleteAllResults removes every record and returns how many were removed
func (r *ResultRepository) DeleteAllResults(ctx context.Context) (int64, error) {
	var n int64
	err := r.db.WithTx(ctx, func(tx *database.Tx) error {
		if _, err := database.Exec(ctx, tx, tx.Builder().Delete("result_words")); err != nil {
			return err
		}
		res, err := database.Exec(ctx, tx, tx.Builder().Delete("results"))
		if err != nil {
			return err
		}
		n, err = res.RowsAffected()
		return err
	})
	if err != nil {
		return 0, fmt.Errorf("failed to delete results: %w", err)
	}
	return n, nil
}

func nullTime(t time.Time) sql.NullTime {
	if t.IsZero() {
		return sql.NullTime{}
	}
	return sql.NullTime{Time: t.UTC(), Valid: true}
}

// jsonText encodes v as JSON text, using empty when v is nil
func jsonText[T any](v []T, empty []T) (string, error) {
	if v == nil {
		v = empty
	}
	b, err := json.Marshal(v)
	if err != nil {
		return "", fmt.Errorf("failed to encode: %w", err)
	}
	return string(b), nil
}
