package service

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"time"

	"spellquiz/internal/models"
	"spellquiz/internal/sentences"
)

// BackupVersion is written into every export
const BackupVersion = "2.0"

// BackupData represents the complete store backup structure
type BackupData struct {
	Version        string               `json:"version"`
	ExportedAt     time.Time            `json:"exported_at"`
	DatabaseType   string               `json:"database_type"`
	WordSets       []WordSetBackup      `json:"word_sets"`
	Assignments    []AssignmentBackup   `json:"assignments"`
	LegacyWordList *LegacyBackup        `json:"legacy_wordlist,omitempty"`
	Results        []ResultBackup       `json:"results"`
	Sentences      []sentences.Document `json:"sentences"`
}

// WordSetBackup represents a word set for backup
type WordSetBackup struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	Words       []string  `json:"words"`
	CreatedBy   string    `json:"created_by"`
	CreatedAt   time.Time `json:"created_at"`
}

// AssignmentBackup represents a learner assignment for backup
type AssignmentBackup struct {
	LearnerID  string    `json:"learner_id"`
	WordSetID  string    `json:"word_set_id"`
	AssignedAt time.Time `json:"assigned_at"`
	AssignedBy string    `json:"assigned_by"`
}

// LegacyBackup represents the legacy word list for backup
type LegacyBackup struct {
	Words       []string `json:"words"`
	ActiveSetID string   `json:"active_set_id"`
}

// ResultBackup represents a session record for backup
type ResultBackup struct {
	ID          string             `json:"id"`
	LearnerID   string             `json:"learner_id"`
	WordSetID   string             `json:"word_set_id"`
	WordSetName string             `json:"word_set_name"`
	Words       []WordResultBackup `json:"words"`
	StartedAt   *time.Time         `json:"started_at"`
	CompletedAt *time.Time         `json:"completed_at"`
}

// WordResultBackup represents one word of a session record
type WordResultBackup struct {
	Word            string   `json:"word"`
	Attempts        []string `json:"attempts"`
	Hint            bool     `json:"hint"`
	HintLetters     []int    `json:"hint_letters,omitempty"`
	FirstTryCorrect bool     `json:"first_try_correct"`
}

// ImportStats counts what an import wrote
type ImportStats struct {
	WordSets    int
	Assignments int
	Results     int
	Sentences   int
}

// BackupService handles store backup and restore operations
type BackupService struct {
	wordSets     WordSetStore
	results      ResultStore
	sentences    SentenceStore
	databaseType string
	now          func() time.Time
	logger       *slog.Logger
}

// NewBackupService creates a new backup service
func NewBackupService(wordSets WordSetStore, results ResultStore, sentences SentenceStore, databaseType string, logger *slog.Logger) *BackupService {
	if logger == nil {
		logger = slog.Default()
	}
	return &BackupService{
		wordSets:     wordSets,
		results:      results,
		sentences:    sentences,
		databaseType: databaseType,
		now:          time.Now,
		logger:       logger,
	}
}

// Export writes a complete backup as indented JSON
func (s *BackupService) Export(ctx context.Context, w io.Writer) (*BackupData, error) {
	s.logger.InfoContext(ctx, "starting export")

	backup := &BackupData{
		Version:      BackupVersion,
		ExportedAt:   s.now().UTC(),
		DatabaseType: s.databaseType,
	}

	sets, err := s.wordSets.ListWordSets(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to export word sets: %w", err)
	}
	for _, set := range sets {
		backup.WordSets = append(backup.WordSets, WordSetBackup(set))
	}

	assignments, err := s.wordSets.ListAssignments(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to export assignments: %w", err)
	}
	for _, a := range assignments {
		backup.Assignments = append(backup.Assignments, AssignmentBackup(a))
	}

	legacy, ok, err := s.wordSets.GetLegacyWordList(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to export legacy word list: %w", err)
	}
	if ok {
		backup.LegacyWordList = &LegacyBackup{Words: legacy.Words, ActiveSetID: legacy.ActiveSetID}
	}

	records, err := s.results.ListResults(ctx, "")
	if err != nil {
		return nil, fmt.Errorf("failed to export results: %w", err)
	}
	for _, rec := range records {
		backup.Results = append(backup.Results, resultToBackup(rec))
	}

	stored, err := s.sentences.ListSentences(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to export sentences: %w", err)
	}
	for _, sen := range stored {
		backup.Sentences = append(backup.Sentences, sentenceToDocument(sen))
	}

	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(backup); err != nil {
		return nil, fmt.Errorf("failed to encode backup: %w", err)
	}

	s.logger.InfoContext(ctx, "export complete",
		"word_sets", len(backup.WordSets), "assignments", len(backup.Assignments),
		"results", len(backup.Results), "sentences", len(backup.Sentences))
	return backup, nil
}

// Import restores a backup. With clear set, existing data is deleted first.
func (s *BackupService) Import(ctx context.Context, r io.Reader, clear bool) (ImportStats, error) {
	var backup BackupData
	if err := json.NewDecoder(r).Decode(&backup); err != nil {
		return ImportStats{}, fmt.Errorf("failed to decode backup: %w", err)
	}
	s.logger.InfoContext(ctx, "starting import", "version", backup.Version, "exported_at", backup.ExportedAt)

	if clear {
		if err := s.Clear(ctx); err != nil {
			return ImportStats{}, err
		}
	}

	var stats ImportStats

	// Import in order of dependencies
	for _, ws := range backup.WordSets {
		if _, err := s.wordSets.CreateWordSet(ctx, models.WordSet(ws)); err != nil {
			return stats, fmt.Errorf("failed to import word set %s: %w", ws.ID, err)
		}
		stats.WordSets++
	}

	for _, a := range backup.Assignments {
		if err := s.wordSets.AssignWordSet(ctx, models.Assignment(a)); err != nil {
			return stats, fmt.Errorf("failed to import assignment for %s: %w", a.LearnerID, err)
		}
		stats.Assignments++
	}

	if backup.LegacyWordList != nil {
		if err := s.wordSets.SaveLegacyWordList(ctx, models.LegacyWordList{
			Words:       backup.LegacyWordList.Words,
			ActiveSetID: backup.LegacyWordList.ActiveSetID,
		}); err != nil {
			return stats, fmt.Errorf("failed to import legacy word list: %w", err)
		}
	}

	for _, rb := range backup.Results {
		if _, err := s.results.AppendResult(ctx, resultFromBackup(rb)); err != nil {
			return stats, fmt.Errorf("failed to import result %s: %w", rb.ID, err)
		}
		stats.Results++
	}

	now := s.now().UTC()
	for _, doc := range backup.Sentences {
		if _, err := s.sentences.AddSentence(ctx, sentences.Normalize("", doc, now)); err != nil {
			return stats, fmt.Errorf("failed to import sentence: %w", err)
		}
		stats.Sentences++
	}

	s.logger.InfoContext(ctx, "import complete",
		"word_sets", stats.WordSets, "assignments", stats.Assignments,
		"results", stats.Results, "sentences", stats.Sentences)
	return stats, nil
}

// Clear deletes every word set, assignment, result and sentence
func (s *BackupService) Clear(ctx context.Context) error {
	s.logger.WarnContext(ctx, "clearing existing data")
	if _, err := s.results.DeleteAllResults(ctx); err != nil {
		return fmt.Errorf("failed to clear results: %w", err)
	}
	if err := s.sentences.DeleteAllSentences(ctx); err != nil {
		return fmt.Errorf("failed to clear sentences: %w", err)
	}
	if err := s.wordSets.DeleteAll(ctx); err != nil {
		return fmt.Errorf("failed to clear word sets: %w", err)
	}
	return nil
}

func resultToBackup(rec models.SessionRecord) ResultBackup {
	rb := ResultBackup{
		ID:          rec.ID,
		LearnerID:   rec.LearnerID,
		WordSetID:   rec.WordSetID,
		WordSetName: rec.WordSetName,
		StartedAt:   timePtr(rec.StartedAt),
		CompletedAt: timePtr(rec.CompletedAt),
		Words:       make([]WordResultBackup, 0, len(rec.Words)),
	}
	for _, w := range rec.Words {
		rb.Words = append(rb.Words, WordResultBackup{
			Word:            w.Word,
			Attempts:        w.Attempts,
			Hint:            w.HintUsed,
			HintLetters:     w.HintLetters,
			FirstTryCorrect: w.FirstTryCorrect(),
		})
	}
	return rb
}

// resultFromBackup rebuilds a record. Attempts are normalized the same way a
// live session stores them; first_try_correct is derived, not trusted.
func resultFromBackup(rb ResultBackup) models.SessionRecord {
	rec := models.SessionRecord{
		ID:          rb.ID,
		LearnerID:   rb.LearnerID,
		WordSetID:   rb.WordSetID,
		WordSetName: rb.WordSetName,
	}
	if rb.StartedAt != nil {
		rec.StartedAt = *rb.StartedAt
	}
	if rb.CompletedAt != nil {
		rec.CompletedAt = *rb.CompletedAt
	}
	for _, w := range rb.Words {
		attempts := make([]string, 0, len(w.Attempts))
		for _, a := range w.Attempts {
			attempts = append(attempts, models.NormalizeWord(a))
		}
		rec.Words = append(rec.Words, models.WordOutcome{
			Word:        models.NormalizeWord(w.Word),
			Attempts:    attempts,
			HintUsed:    w.Hint,
			HintLetters: w.HintLetters,
		})
	}
	return rec
}

func sentenceToDocument(s models.Sentence) sentences.Document {
	return sentences.Document{
		"id":          s.ID,
		"learnerName": s.LearnerName,
		"targetWord":  s.TargetWord,
		"sentence":    s.Text,
		"wordSetId":   s.WordSetID,
		"wordSetName": s.WordSetName,
		"createdAt":   s.CreatedAt.UTC().Format(time.RFC3339Nano),
	}
}

func timePtr(t time.Time) *time.Time {
	if t.IsZero() {
		return nil
	}
	return &t
}
