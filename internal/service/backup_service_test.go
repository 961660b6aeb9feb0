package service

import (
	"bytes"
	"context"
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"spellquiz/internal/models"
	"spellquiz/internal/sentences"
)

type backupFixture struct {
	sets      *memWordSets
	results   *memResults
	sentences *memSentences
	svc       *BackupService
}

func newBackupFixture() *backupFixture {
	f := &backupFixture{
		sets:      newMemWordSets(),
		results:   &memResults{},
		sentences: &memSentences{},
	}
	f.svc = NewBackupService(f.sets, f.results, f.sentences, "sqlite", discardLogger())
	f.svc.now = func() time.Time { return time.Date(2024, 4, 1, 8, 0, 0, 0, time.UTC) }
	return f
}

func seedBackup(t *testing.T, f *backupFixture) {
	t.Helper()
	ctx := context.Background()
	created := time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC)

	set, err := f.sets.CreateWordSet(ctx, models.WordSet{ID: "ws-1", Name: "Set A", Words: []string{"want", "went"}, CreatedAt: created})
	require.NoError(t, err)
	require.NoError(t, f.sets.AssignWordSet(ctx, models.Assignment{LearnerID: "alice", WordSetID: set.ID, AssignedAt: created}))
	require.NoError(t, f.sets.SaveLegacyWordList(ctx, models.LegacyWordList{Words: set.Words, ActiveSetID: set.ID}))

	_, err = f.results.AppendResult(ctx, models.SessionRecord{
		ID:          "r-1",
		LearnerID:   "alice",
		WordSetID:   set.ID,
		WordSetName: set.Name,
		Words: []models.WordOutcome{
			{Word: "want", Attempts: []string{"wnat", "want"}},
			{Word: "went", Attempts: []string{"went"}, HintUsed: true, HintLetters: []int{0}},
		},
		StartedAt:   created,
		CompletedAt: created.Add(time.Minute),
	})
	require.NoError(t, err)

	_, err = f.sentences.AddSentence(ctx, models.Sentence{
		ID: "s-1", LearnerName: "Alice", TargetWord: "want", Text: "I want cake.",
		WordSetID: set.ID, WordSetName: set.Name, CreatedAt: created,
	})
	require.NoError(t, err)
}

func TestBackupExport(t *testing.T) {
	f := newBackupFixture()
	seedBackup(t, f)

	var buf bytes.Buffer
	data, err := f.svc.Export(context.Background(), &buf)
	require.NoError(t, err)

	assert.Equal(t, BackupVersion, data.Version)
	assert.Equal(t, "sqlite", data.DatabaseType)
	require.Len(t, data.WordSets, 1)
	require.Len(t, data.Assignments, 1)
	require.NotNil(t, data.LegacyWordList)
	require.Len(t, data.Results, 1)
	require.Len(t, data.Sentences, 1)

	var raw map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &raw))
	results := raw["results"].([]any)
	words := results[0].(map[string]any)["words"].([]any)
	first := words[0].(map[string]any)
	assert.Equal(t, false, first["first_try_correct"])
	assert.Equal(t, []any{"wnat", "want"}, first["attempts"])
	second := words[1].(map[string]any)
	assert.Equal(t, true, second["hint"])
	assert.Equal(t, true, second["first_try_correct"])
}

func TestBackupRoundTrip(t *testing.T) {
	src := newBackupFixture()
	seedBackup(t, src)
	var buf bytes.Buffer
	_, err := src.svc.Export(context.Background(), &buf)
	require.NoError(t, err)

	dst := newBackupFixture()
	stats, err := dst.svc.Import(context.Background(), &buf, false)
	require.NoError(t, err)
	assert.Equal(t, ImportStats{WordSets: 1, Assignments: 1, Results: 1, Sentences: 1}, stats)

	assert.Equal(t, src.sets.sets, dst.sets.sets)
	assert.Equal(t, src.results.all(), dst.results.all())

	got, err := dst.sentences.ListSentences(context.Background())
	require.NoError(t, err)
	want, err := src.sentences.ListSentences(context.Background())
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, want[0].ID, got[0].ID)
	assert.Equal(t, want[0].Text, got[0].Text)
	assert.True(t, want[0].CreatedAt.Equal(got[0].CreatedAt))

	legacy, ok, err := dst.sets.GetLegacyWordList(context.Background())
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "ws-1", legacy.ActiveSetID)
}

func TestBackupImportClear(t *testing.T) {
	f := newBackupFixture()
	seedBackup(t, f)

	stats, err := f.svc.Import(context.Background(), strings.NewReader(`{"version":"2.0"}`), true)
	require.NoError(t, err)
	assert.Equal(t, ImportStats{}, stats)

	assert.Empty(t, f.sets.sets)
	assert.Empty(t, f.results.all())
	got, err := f.sentences.ListSentences(context.Background())
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestBackupImportNormalizesOldSentences(t *testing.T) {
	f := newBackupFixture()
	doc := `{
		"version": "1.0",
		"sentences": [
			{"studentName": "Bob", "word": "went", "text": "I went out.", "timestamp": {"seconds": 1709283600}},
			{"user": "Carol"}
		],
		"results": [
			{"id": "r-9", "learner_id": "bob", "word_set_name": "Set B",
			 "words": [{"word": " Went ", "attempts": [" WENT "], "first_try_correct": false}]}
		]
	}`

	_, err := f.svc.Import(context.Background(), strings.NewReader(doc), false)
	require.NoError(t, err)

	got, err := f.sentences.ListSentences(context.Background())
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "Bob", got[0].LearnerName)
	assert.Equal(t, "went", got[0].TargetWord)
	assert.Equal(t, time.Unix(1709283600, 0).UTC(), got[0].CreatedAt)
	assert.Equal(t, sentences.UnknownWord, got[1].TargetWord)
	assert.Equal(t, f.svc.now().UTC(), got[1].CreatedAt)

	recs := f.results.all()
	require.Len(t, recs, 1)
	assert.Equal(t, "went", recs[0].Words[0].Word)
	assert.True(t, recs[0].Words[0].FirstTryCorrect(), "first try is derived from the attempts")
	assert.True(t, recs[0].CompletedAt.IsZero())
}

func TestBackupImportRejectsInvalidJSON(t *testing.T) {
	f := newBackupFixture()
	_, err := f.svc.Import(context.Background(), strings.NewReader("{"), true)
	assert.Error(t, err)

	// Nothing is cleared when the backup cannot be read
	seedBackup(t, f)
	_, err = f.svc.Import(context.Background(), strings.NewReader("nope"), true)
	assert.Error(t, err)
	assert.Len(t, f.sets.sets, 1)
}
