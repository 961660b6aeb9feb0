package service

import (
	"cmp"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"slices"
	"sync"
	"time"

	"spellquiz/internal/database"
	"spellquiz/internal/models"
)

var errStore = errors.New("store unavailable")

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// memWordSets is an in-memory WordSetStore
type memWordSets struct {
	mu          sync.Mutex
	sets        []models.WordSet
	assignments map[string]models.Assignment
	legacy      *models.LegacyWordList
	seq         int

	listErr error
}

func newMemWordSets(sets ...models.WordSet) *memWordSets {
	m := &memWordSets{assignments: make(map[string]models.Assignment)}
	for _, s := range sets {
		_, _ = m.CreateWordSet(context.Background(), s)
	}
	return m
}

func (m *memWordSets) CreateWordSet(_ context.Context, set models.WordSet) (models.WordSet, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.seq++
	if set.ID == "" {
		set.ID = fmt.Sprintf("set-%d", m.seq)
	}
	if set.CreatedAt.IsZero() {
		set.CreatedAt = time.Date(2024, 1, 1, 0, 0, m.seq, 0, time.UTC)
	}
	set.Words = slices.Clone(set.Words)
	m.sets = append(m.sets, set)
	return set, nil
}

func (m *memWordSets) UpdateWordSet(_ context.Context, set models.WordSet) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i := range m.sets {
		if m.sets[i].ID == set.ID {
			m.sets[i] = set
			return nil
		}
	}
	return database.ErrNotFound
}

func (m *memWordSets) DeleteWordSet(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	idx := slices.IndexFunc(m.sets, func(s models.WordSet) bool { return s.ID == id })
	if idx < 0 {
		return database.ErrNotFound
	}
	m.sets = slices.Delete(m.sets, idx, idx+1)
	for learner, a := range m.assignments {
		if a.WordSetID == id {
			delete(m.assignments, learner)
		}
	}
	return nil
}

func (m *memWordSets) GetWordSet(_ context.Context, id string) (models.WordSet, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, s := range m.sets {
		if s.ID == id {
			return s, true, nil
		}
	}
	return models.WordSet{}, false, nil
}

func (m *memWordSets) FirstWordSet(context.Context) (models.WordSet, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if len(m.sets) == 0 {
		return models.WordSet{}, false, nil
	}
	return m.sets[0], true, nil
}

func (m *memWordSets) ListWordSets(context.Context) ([]models.WordSet, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.listErr != nil {
		return nil, m.listErr
	}
	return slices.Clone(m.sets), nil
}

func (m *memWordSets) GetAssignment(_ context.Context, learnerID string) (models.Assignment, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	a, ok := m.assignments[learnerID]
	return a, ok, nil
}

func (m *memWordSets) AssignWordSet(_ context.Context, a models.Assignment) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.assignments[a.LearnerID] = a
	return nil
}

func (m *memWordSets) ListAssignments(context.Context) ([]models.Assignment, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]models.Assignment, 0, len(m.assignments))
	for _, a := range m.assignments {
		out = append(out, a)
	}
	slices.SortFunc(out, func(a, b models.Assignment) int {
		return cmp.Compare(a.LearnerID, b.LearnerID)
	})
	return out, nil
}

func (m *memWordSets) DeleteAssignment(_ context.Context, learnerID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.assignments[learnerID]; !ok {
		return errStore
	}
	delete(m.assignments, learnerID)
	return nil
}

func (m *memWordSets) GetLegacyWordList(context.Context) (models.LegacyWordList, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.legacy == nil {
		return models.LegacyWordList{}, false, nil
	}
	return *m.legacy, true, nil
}

func (m *memWordSets) SaveLegacyWordList(_ context.Context, list models.LegacyWordList) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	list.Words = slices.Clone(list.Words)
	m.legacy = &list
	return nil
}

func (m *memWordSets) DeleteAll(context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sets = nil
	m.assignments = make(map[string]models.Assignment)
	m.legacy = nil
	return nil
}

// memResults is an in-memory ResultStore
type memResults struct {
	mu      sync.Mutex
	records []models.SessionRecord

	appendErr error
	listErr   error
}

func (m *memResults) AppendResult(_ context.Context, rec models.SessionRecord) (models.SessionRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.appendErr != nil {
		return models.SessionRecord{}, m.appendErr
	}
	if rec.ID == "" {
		rec.ID = fmt.Sprintf("rec-%d", len(m.records)+1)
	}
	m.records = append(m.records, rec)
	return rec, nil
}

func (m *memResults) ListResults(_ context.Context, learnerID string) ([]models.SessionRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.listErr != nil {
		return nil, m.listErr
	}
	var out []models.SessionRecord
	for _, r := range m.records {
		if learnerID == "" || r.LearnerID == learnerID {
			out = append(out, r)
		}
	}
	return out, nil
}

func (m *memResults) DeleteResult(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	idx := slices.IndexFunc(m.records, func(r models.SessionRecord) bool { return r.ID == id })
	if idx < 0 {
		return database.ErrNotFound
	}
	m.records = slices.Delete(m.records, idx, idx+1)
	return nil
}

func (m *memResults) DeleteAllResults(context.Context) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	n := int64(len(m.records))
	m.records = nil
	return n, nil
}

func (m *memResults) all() []models.SessionRecord {
	m.mu.Lock()
	defer m.mu.Unlock()
	return slices.Clone(m.records)
}

// memSentences is an in-memory SentenceStore
type memSentences struct {
	mu        sync.Mutex
	sentences []models.Sentence
}

func (m *memSentences) AddSentence(_ context.Context, s models.Sentence) (models.Sentence, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if s.ID == "" {
		s.ID = fmt.Sprintf("sen-%d", len(m.sentences)+1)
	}
	m.sentences = append(m.sentences, s)
	return s, nil
}

func (m *memSentences) UpdateSentence(_ context.Context, id, targetWord, text string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i := range m.sentences {
		if m.sentences[i].ID == id {
			m.sentences[i].TargetWord = targetWord
			m.sentences[i].Text = text
			return nil
		}
	}
	return database.ErrNotFound
}

func (m *memSentences) DeleteSentence(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	idx := slices.IndexFunc(m.sentences, func(s models.Sentence) bool { return s.ID == id })
	if idx < 0 {
		return database.ErrNotFound
	}
	m.sentences = slices.Delete(m.sentences, idx, idx+1)
	return nil
}

func (m *memSentences) ListSentences(context.Context) ([]models.Sentence, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return slices.Clone(m.sentences), nil
}

func (m *memSentences) DeleteAllSentences(context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sentences = nil
	return nil
}

var (
	_ WordSetStore  = (*memWordSets)(nil)
	_ ResultStore   = (*memResults)(nil)
	_ SentenceStore = (*memSentences)(nil)
)
