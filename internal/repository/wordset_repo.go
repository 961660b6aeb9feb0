package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/google/uuid"

	"spellquiz/internal/database"
	"spellquiz/internal/models"
)

var wordSetColumns = []string{"id", "name", "description", "created_by", "created_at"}

// WordSetRepository handles word sets, assignments and the legacy word list
type WordSetRepository struct {
	db *database.DB
}

// NewWordSetRepository creates a new word set repository
func NewWordSetRepository(db *database.DB) *WordSetRepository {
	return &WordSetRepository{db: db}
}

// CreateWordSet stores a new word set. An empty ID is filled with a UUID and
// a zero CreatedAt with the current time.
func (r *WordSetRepository) CreateWordSet(ctx context.Context, set models.WordSet) (models.WordSet, error) {
	if set.ID == "" {
		set.ID = uuid.NewString()
	}
	if set.CreatedAt.IsZero() {
		set.CreatedAt = time.Now().UTC()
	}

	err := r.db.WithTx(ctx, func(tx *database.Tx) error {
		_, err := database.Exec(ctx, tx, tx.Builder().
			Insert("word_sets").
			Columns(wordSetColumns...).
			Values(set.ID, set.Name, set.Description, set.CreatedBy, set.CreatedAt))
		if err != nil {
			return err
		}
		return insertWords(ctx, tx, set.ID, set.Words)
	})
	if err != nil {
		return models.WordSet{}, fmt.Errorf("failed to create word set: %w", err)
	}
	return set, nil
}

// UpdateWordSet replaces the name, description and words of a set
func (r *WordSetRepository) UpdateWordSet(ctx context.Context, set models.WordSet) error {
	err := r.db.WithTx(ctx, func(tx *database.Tx) error {
		res, err := database.Exec(ctx, tx, tx.Builder().
			Update("word_sets").
			Set("name", set.Name).
			Set("description", set.Description).
			Where(sq.Eq{"id": set.ID}))
		if err != nil {
			return err
		}
		if n, err := res.RowsAffected(); err == nil && n == 0 {
			return database.ErrNotFound
		}

		if _, err := database.Exec(ctx, tx, tx.Builder().
			Delete("word_set_words").
			Where(sq.Eq{"word_set_id": set.ID})); err != nil {
			return err
		}
		return insertWords(ctx, tx, set.ID, set.Words)
	})
	if err != nil {
		return fmt.Errorf("failed to update word set %s: %w", set.ID, err)
	}
	return nil
}

// DeleteWordSet removes a set together with its words and any assignment
// that references it
func (r *WordSetRepository) DeleteWordSet(ctx context.Context, id string) error {
	err := r.db.WithTx(ctx, func(tx *database.Tx) error {
		for _, table := range []string{"assignments", "word_set_words"} {
			if _, err := database.Exec(ctx, tx, tx.Builder().
				Delete(table).
				Where(sq.Eq{"word_set_id": id})); err != nil {
				return err
			}
		}
		res, err := database.Exec(ctx, tx, tx.Builder().Delete("word_sets").Where(sq.Eq{"id": id}))
		if err != nil {
			return err
		}
		if n, err := res.RowsAffected(); err == nil && n == 0 {
			return database.ErrNotFound
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("failed to delete word set %s: %w", id, err)
	}
	return nil
}

// GetWordSet retrieves a word set by ID
func (r *WordSetRepository) GetWordSet(ctx context.Context, id string) (models.WordSet, bool, error) {
	sets, err := r.listWordSets(ctx, sq.Eq{"id": id})
	if err != nil {
		return models.WordSet{}, false, err
	}
	if len(sets) == 0 {
		return models.WordSet{}, false, nil
	}
	return sets[0], true, nil
}

// FirstWordSet returns the oldest word set
func (r *WordSetRepository) FirstWordSet(ctx context.Context) (models.WordSet, bool, error) {
	row := database.QueryRow(ctx, r.db, r.db.Builder().
		Select("id").
		From("word_sets").
		OrderBy("created_at ASC", "id ASC").
		Limit(1))

	var id string
	if err := row.Scan(&id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.WordSet{}, false, nil
		}
		return models.WordSet{}, false, fmt.Errorf("failed to get first word set: %w", err)
	}
	return r.GetWordSet(ctx, id)
}

// ListWordSets returns every word set, oldest first
func (r *WordSetRepository) ListWordSets(ctx context.Context) ([]models.WordSet, error) {
	return r.listWordSets(ctx, nil)
}

func (r *WordSetRepository) listWordSets(ctx context.Context, where sq.Sqlizer) ([]models.WordSet, error) {
	q := r.db.Builder().
		Select(wordSetColumns...).
		From("word_sets").
		OrderBy("created_at ASC", "id ASC")
	if where != nil {
		q = q.Where(where)
	}

	rows, err := database.Query(ctx, r.db, q)
	if err != nil {
		return nil, fmt.Errorf("failed to list word sets: %w", err)
	}
	defer rows.Close()

	var sets []models.WordSet
	index := make(map[string]int)
	for rows.Next() {
		var s models.WordSet
		if err := rows.Scan(&s.ID, &s.Name, &s.Description, &s.CreatedBy, &s.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan word set: %w", err)
		}
		index[s.ID] = len(sets)
		sets = append(sets, s)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if len(sets) == 0 {
		return nil, nil
	}

	ids := make([]string, 0, len(sets))
	for _, s := range sets {
		ids = append(ids, s.ID)
	}
	wordRows, err := database.Query(ctx, r.db, r.db.Builder().
		Select("word_set_id", "word").
		From("word_set_words").
		Where(sq.Eq{"word_set_id": ids}).
		OrderBy("word_set_id", "position"))
	if err != nil {
		return nil, fmt.Errorf("failed to load words: %w", err)
	}
	defer wordRows.Close()

	for wordRows.Next() {
		var setID, word string
		if err := wordRows.Scan(&setID, &word); err != nil {
			return nil, fmt.Errorf("failed to scan word: %w", err)
		}
		if i, ok := index[setID]; ok {
			sets[i].Words = append(sets[i].Words, word)
		}
	}
	return sets, wordRows.Err()
}

func insertWords(ctx context.Context, tx *database.Tx, setID string, words []string) error {
	if len(words) == 0 {
		return nil
	}
	q := tx.Builder().Insert("word_set_words").Columns("word_set_id", "position", "word")
	for i, w := range words {
		q = q.Values(setID, i, w)
	}
	_, err := database.Exec(ctx, tx, q)
	return err
}

// GetAssignment retrieves a learner's assignment
func (r *WordSetRepository) GetAssignment(ctx context.Context, learnerID string) (models.Assignment, bool, error) {
	row := database.QueryRow(ctx, r.db, r.db.Builder().
		Select("learner_id", "word_set_id", "assigned_at", "assigned_by").
		From("assignments").
		Where(sq.Eq{"learner_id": learnerID}))

	var a models.Assignment
	if err := row.Scan(&a.LearnerID, &a.WordSetID, &a.AssignedAt, &a.AssignedBy); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.Assignment{}, false, nil
		}
		return models.Assignment{}, false, fmt.Errorf("failed to get assignment: %w", err)
	}
	return a, true, nil
}

// ListAssignments returns every assignment ordered by learner
func (r *WordSetRepository) ListAssignments(ctx context.Context) ([]models.Assignment, error) {
	rows, err := database.Query(ctx, r.db, r.db.Builder().
		Select("learner_id", "word_set_id", "assigned_at", "assigned_by").
		From("assignments").
		OrderBy("learner_id"))
	if err != nil {
		return nil, fmt.Errorf("failed to list assignments: %w", err)
	}
	defer rows.Close()

	var out []models.Assignment
	for rows.Next() {
		var a models.Assignment
		if err := rows.Scan(&a.LearnerID, &a.WordSetID, &a.AssignedAt, &a.AssignedBy); err != nil {
			return nil, fmt.Errorf("failed to scan assignment: %w", err)
		}
		out = append(out, a)
	}
	return out, rows.Err()
}

// AssignWordSet replaces the learner's assignment
func (r *WordSetRepository) AssignWordSet(ctx context.Context, a models.Assignment) error {
	if a.AssignedAt.IsZero() {
		a.AssignedAt = time.Now().UTC()
	}
	err := r.db.WithTx(ctx, func(tx *database.Tx) error {
		if _, err := database.Exec(ctx, tx, tx.Builder().
			Delete("assignments").
			Where(sq.Eq{"learner_id": a.LearnerID})); err != nil {
			return err
		}
		_, err := database.Exec(ctx, tx, tx.Builder().
			Insert("assignments").
			Columns("learner_id", "word_set_id", "assigned_at", "assigned_by").
			Values(a.LearnerID, a.WordSetID, a.AssignedAt, a.AssignedBy))
		return err
	})
	if err != nil {
		return fmt.Errorf("failed to assign word set to %s: %w", a.LearnerID, err)
	}
	return nil
}

// DeleteAssignment removes the learner's assignment
func (r *WordSetRepository) DeleteAssignment(ctx context.Context, learnerID string) error {
	res, err := database.Exec(ctx, r.db, r.db.Builder().
		Delete("assignments").
		Where(sq.Eq{"learner_id": learnerID}))
	if err != nil {
		return fmt.Errorf("failed to delete assignment for %s: %w", learnerID, err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return fmt.Errorf("failed to delete assignment for %s: %w", learnerID, database.ErrNotFound)
	}
	return nil
}

// GetLegacyWordList retrieves the single legacy word list document
func (r *WordSetRepository) GetLegacyWordList(ctx context.Context) (models.LegacyWordList, bool, error) {
	row := database.QueryRow(ctx, r.db, r.db.Builder().
		Select("words", "active_set_id").
		From("legacy_wordlist").
		Where(sq.Eq{"id": 1}))

	var raw string
	var list models.LegacyWordList
	if err := row.Scan(&raw, &list.ActiveSetID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.LegacyWordList{}, false, nil
		}
		return models.LegacyWordList{}, false, fmt.Errorf("failed to get legacy word list: %w", err)
	}
	if err := json.Unmarshal([]byte(raw), &list.Words); err != nil {
		return models.LegacyWordList{}, false, fmt.Errorf("failed to decode legacy word list: %w", err)
	}
	return list, true, nil
}

// SaveLegacyWordList overwrites the legacy word list document
func (r *WordSetRepository) SaveLegacyWordList(ctx context.Context, list models.LegacyWordList) error {
	words := list.Words
	if words == nil {
		words = []string{}
	}
	raw, err := json.Marshal(words)
	if err != nil {
		return fmt.Errorf("failed to encode legacy word list: %w", err)
	}

	err = r.db.WithTx(ctx, func(tx *database.Tx) error {
		if _, err := database.Exec(ctx, tx, tx.Builder().
			Delete("legacy_wordlist").
			Where(sq.Eq{"id": 1})); err != nil {
			return err
		}
		_, err := database.Exec(ctx, tx, tx.Builder().
			Insert("legacy_wordlist").
			Columns("id", "words", "active_set_id", "updated_at").
			Values(1, string(raw), list.ActiveSetID, time.Now().UTC()))
		return err
	})
	if err != nil {
		return fmt.Errorf("failed to save legacy word list: %w", err)
	}
	return nil
}

// DeleteAll removes every word set, assignment and the legacy list
func (r *WordSetRepository) DeleteAll(ctx context.Context) error {
	return r.db.WithTx(ctx, func(tx *database.Tx) error {
		for _, table := range []string{"assignments", "word_set_words", "word_sets", "legacy_wordlist"} {
			if _, err := database.Exec(ctx, tx, tx.Builder().Delete(table)); err != nil {
				return fmt.Errorf("failed to clear %s: %w", table, err)
			}
		}
		return nil
	})
}
