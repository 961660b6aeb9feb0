package service

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/BurntSushi/toml"

	"spellquiz/internal/models"
)

// WordSetService handles word set administration and assignment
type WordSetService struct {
	store   WordSetStore
	results ResultLister
	logger  *slog.Logger
}

// NewWordSetService creates a new word set service. results is read to tell
// completed assignments from pending ones.
func NewWordSetService(store WordSetStore, results ResultLister, logger *slog.Logger) *WordSetService {
	if logger == nil {
		logger = slog.Default()
	}
	return &WordSetService{store: store, results: results, logger: logger}
}

// WordSetInput is the editable part of a word set
type WordSetInput struct {
	Name        string
	Description string
	Words       []string
}

func (in WordSetInput) normalize() (WordSetInput, error) {
	in.Name = strings.TrimSpace(in.Name)
	in.Description = strings.TrimSpace(in.Description)
	in.Words = models.NormalizeWords(in.Words)
	if in.Name == "" {
		return in, fmt.Errorf("%w: name is required", ErrInvalidWordSet)
	}
	if len(in.Words) == 0 {
		return in, fmt.Errorf("%w: at least one word is required", ErrInvalidWordSet)
	}
	return in, nil
}

// ParseWords splits newline separated text into words
func ParseWords(text string) []string {
	return models.NormalizeWords(strings.Split(text, "\n"))
}

// CreateWordSet validates and stores a new word set. Words are trimmed,
// lowercased and empty lines dropped.
func (s *WordSetService) CreateWordSet(ctx context.Context, in WordSetInput, createdBy string) (models.WordSet, error) {
	in, err := in.normalize()
	if err != nil {
		return models.WordSet{}, err
	}

	set, err := s.store.CreateWordSet(ctx, models.WordSet{
		Name:        in.Name,
		Description: in.Description,
		Words:       in.Words,
		CreatedBy:   createdBy,
	})
	if err != nil {
		return models.WordSet{}, err
	}

	s.logger.InfoContext(ctx, "word set created", "id", set.ID, "name", set.Name, "words", len(set.Words))
	return set, nil
}

// UpdateWordSet replaces the editable fields of a set
func (s *WordSetService) UpdateWordSet(ctx context.Context, id string, in WordSetInput) (models.WordSet, error) {
	in, err := in.normalize()
	if err != nil {
		return models.WordSet{}, err
	}

	set, err := s.getWordSet(ctx, id)
	if err != nil {
		return models.WordSet{}, err
	}
	set.Name = in.Name
	set.Description = in.Description
	set.Words = in.Words

	if err := s.store.UpdateWordSet(ctx, set); err != nil {
		return models.WordSet{}, err
	}
	return set, nil
}

// DeleteWordSet removes a set and every assignment that references it
func (s *WordSetService) DeleteWordSet(ctx context.Context, id string) error {
	if _, err := s.getWordSet(ctx, id); err != nil {
		return err
	}
	if err := s.store.DeleteWordSet(ctx, id); err != nil {
		return err
	}
	s.logger.InfoContext(ctx, "word set deleted", "id", id)
	return nil
}

// ListWordSets returns every set, oldest first
func (s *WordSetService) ListWordSets(ctx context.Context) ([]models.WordSet, error) {
	return s.store.ListWordSets(ctx)
}

// ListAssignments returns every learner assignment
func (s *WordSetService) ListAssignments(ctx context.Context) ([]models.Assignment, error) {
	return s.store.ListAssignments(ctx)
}

// AssignmentStatus is an assignment joined with its word set and progress
type AssignmentStatus struct {
	models.Assignment
	WordSetName string
	Completed   bool
	CompletedAt time.Time // Earliest qualifying completion
}

// AssignmentStatuses reports every assignment as completed or pending. An
// assignment is completed once the learner has a result for the assigned
// set that finished at or after the assignment was made. Learner names
// match ignoring case and surrounding space.
func (s *WordSetService) AssignmentStatuses(ctx context.Context) ([]AssignmentStatus, error) {
	assignments, err := s.store.ListAssignments(ctx)
	if err != nil {
		return nil, err
	}
	sets, err := s.store.ListWordSets(ctx)
	if err != nil {
		return nil, err
	}
	records, err := s.results.ListResults(ctx, "")
	if err != nil {
		return nil, err
	}

	names := make(map[string]string, len(sets))
	for _, set := range sets {
		names[set.ID] = set.Name
	}

	out := make([]AssignmentStatus, 0, len(assignments))
	for _, a := range assignments {
		st := AssignmentStatus{Assignment: a, WordSetName: models.UnknownWordSetName}
		if name, ok := names[a.WordSetID]; ok {
			st.WordSetName = name
		}
		learner := learnerKey(a.LearnerID)
		for _, rec := range records {
			if rec.WordSetID != a.WordSetID || learnerKey(rec.LearnerID) != learner {
				continue
			}
			if rec.CompletedAt.Before(a.AssignedAt) {
				continue
			}
			if !st.Completed || rec.CompletedAt.Before(st.CompletedAt) {
				st.Completed = true
				st.CompletedAt = rec.CompletedAt
			}
		}
		out = append(out, st)
	}
	return out, nil
}

func learnerKey(id string) string {
	return strings.ToLower(strings.TrimSpace(id))
}

// DeleteAssignment removes the learner's assignment. The legacy word list is
// left as it is.
func (s *WordSetService) DeleteAssignment(ctx context.Context, learnerID string) error {
	learnerID = strings.TrimSpace(learnerID)
	_, ok, err := s.store.GetAssignment(ctx, learnerID)
	if err != nil {
		return err
	}
	if !ok {
		return fmt.Errorf("%w: %s", ErrNoAssignment, learnerID)
	}
	if err := s.store.DeleteAssignment(ctx, learnerID); err != nil {
		return err
	}
	s.logger.InfoContext(ctx, "assignment removed", "learner", learnerID)
	return nil
}

// AssignToLearner replaces the learner's assignment and mirrors the set's
// words into the legacy word list
func (s *WordSetService) AssignToLearner(ctx context.Context, learnerID, setID, assignedBy string) error {
	_, err := s.AssignToLearners(ctx, []string{learnerID}, setID, assignedBy)
	return err
}

// AssignToLearners assigns one set to a group of learners and returns how
// many assignments were written
func (s *WordSetService) AssignToLearners(ctx context.Context, learnerIDs []string, setID, assignedBy string) (int, error) {
	set, err := s.getWordSet(ctx, setID)
	if err != nil {
		return 0, err
	}

	n := 0
	for _, learner := range learnerIDs {
		learner = strings.TrimSpace(learner)
		if learner == "" {
			continue
		}
		if err := s.store.AssignWordSet(ctx, models.Assignment{
			LearnerID:  learner,
			WordSetID:  set.ID,
			AssignedBy: assignedBy,
		}); err != nil {
			return n, err
		}
		n++
	}
	if n == 0 {
		return 0, fmt.Errorf("%w: no learners to assign", ErrInvalidWordSet)
	}

	if err := s.store.SaveLegacyWordList(ctx, models.LegacyWordList{Words: set.Words, ActiveSetID: set.ID}); err != nil {
		return n, err
	}

	s.logger.InfoContext(ctx, "word set assigned", "set", set.Name, "learners", n)
	return n, nil
}

// IsTestSet reports whether a set looks like leftover test data:
// at most three words, none longer than one letter
func IsTestSet(set models.WordSet) bool {
	if len(set.Words) > 3 {
		return false
	}
	for _, w := range set.Words {
		if utf8.RuneCountInString(w) > 1 {
			return false
		}
	}
	return true
}

// CleanupTestSets deletes test sets and their assignments, then makes sure a
// default set exists. It returns the deleted sets.
func (s *WordSetService) CleanupTestSets(ctx context.Context) ([]models.WordSet, error) {
	sets, err := s.store.ListWordSets(ctx)
	if err != nil {
		return nil, err
	}

	var removed []models.WordSet
	for _, set := range sets {
		if !IsTestSet(set) {
			continue
		}
		if err := s.store.DeleteWordSet(ctx, set.ID); err != nil {
			return removed, err
		}
		s.logger.InfoContext(ctx, "deleted test word set", "id", set.ID, "name", set.Name, "words", set.Words)
		removed = append(removed, set)
	}

	if _, _, err := s.EnsureDefaultWordSet(ctx); err != nil {
		return removed, err
	}
	return removed, nil
}

// EnsureDefaultWordSet creates the default set when no set exists. The
// words come from the legacy list when it has any, otherwise from the
// built-in default. It reports whether a set was created.
func (s *WordSetService) EnsureDefaultWordSet(ctx context.Context) (models.WordSet, bool, error) {
	first, ok, err := s.store.FirstWordSet(ctx)
	if err != nil {
		return models.WordSet{}, false, err
	}
	if ok {
		return first, false, nil
	}

	def := models.DefaultWordSet()
	legacy, ok, err := s.store.GetLegacyWordList(ctx)
	if err != nil {
		return models.WordSet{}, false, err
	}
	if words := models.NormalizeWords(legacy.Words); ok && len(words) > 0 {
		def.Words = words
	}

	set, err := s.store.CreateWordSet(ctx, def)
	if err != nil {
		return models.WordSet{}, false, err
	}
	if err := s.store.SaveLegacyWordList(ctx, models.LegacyWordList{Words: set.Words, ActiveSetID: set.ID}); err != nil {
		return set, true, err
	}

	s.logger.InfoContext(ctx, "default word set created", "id", set.ID, "words", len(set.Words))
	return set, true, nil
}

// ImportFile is the TOML layout accepted by ImportTOML
type ImportFile struct {
	WordSets []ImportWordSet `toml:"wordset"`
}

// ImportWordSet is one [[wordset]] table
type ImportWordSet struct {
	Name        string   `toml:"name"`
	Description string   `toml:"description"`
	Words       []string `toml:"words"`
	Assign      []string `toml:"assign"`
}

// ImportTOML creates the word sets described in r and applies any
// assignments they list. Sets are validated before anything is written.
func (s *WordSetService) ImportTOML(ctx context.Context, r io.Reader, createdBy string) ([]models.WordSet, error) {
	var file ImportFile
	meta, err := toml.NewDecoder(r).Decode(&file)
	if err != nil {
		return nil, fmt.Errorf("failed to decode word set file: %w", err)
	}
	for _, key := range meta.Undecoded() {
		s.logger.WarnContext(ctx, "ignoring unknown key in word set file", "key", key.String())
	}

	inputs := make([]WordSetInput, len(file.WordSets))
	for i, ws := range file.WordSets {
		in, err := WordSetInput{Name: ws.Name, Description: ws.Description, Words: ws.Words}.normalize()
		if err != nil {
			return nil, fmt.Errorf("word set %d (%q): %w", i+1, ws.Name, err)
		}
		inputs[i] = in
	}

	created := make([]models.WordSet, 0, len(inputs))
	for i, in := range inputs {
		set, err := s.CreateWordSet(ctx, in, createdBy)
		if err != nil {
			return created, err
		}
		created = append(created, set)

		if len(file.WordSets[i].Assign) > 0 {
			if _, err := s.AssignToLearners(ctx, file.WordSets[i].Assign, set.ID, createdBy); err != nil {
				return created, err
			}
		}
	}
	return created, nil
}

func (s *WordSetService) getWordSet(ctx context.Context, id string) (models.WordSet, error) {
	set, ok, err := s.store.GetWordSet(ctx, id)
	if err != nil {
		return models.WordSet{}, err
	}
	if !ok {
		return models.WordSet{}, fmt.Errorf("%w: %s", ErrWordSetNotFound, id)
	}
	return set, nil
}
