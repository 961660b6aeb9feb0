package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"spellquiz/internal/database"
	"spellquiz/internal/models"
	"spellquiz/internal/results"
)

func sessionAt(id, learner, set string, completed time.Time, words ...models.WordOutcome) models.SessionRecord {
	return models.SessionRecord{
		ID:          id,
		LearnerID:   learner,
		WordSetName: set,
		Words:       words,
		StartedAt:   completed.Add(-time.Minute),
		CompletedAt: completed,
	}
}

func right(word string) models.WordOutcome {
	return models.WordOutcome{Word: word, Attempts: []string{word}}
}

func wrong(word, first string) models.WordOutcome {
	return models.WordOutcome{Word: word, Attempts: []string{first, word}}
}

func newAnalytics(store *memResults, sets *memWordSets, now time.Time) *AnalyticsService {
	svc := NewAnalyticsService(store, sets, 30, discardLogger())
	svc.now = func() time.Time { return now }
	return svc
}

func TestAnalyticsLoadEnrichesEverything(t *testing.T) {
	day := time.Date(2024, 3, 10, 12, 0, 0, 0, time.UTC)
	store := &memResults{records: []models.SessionRecord{
		sessionAt("r2", "alice", "Set A", day.Add(time.Hour), right("want")),
		sessionAt("r1", "alice", "Set A", day, wrong("want", "wnat")),
	}}
	sets := newMemWordSets(models.WordSet{Name: "Set A", Words: []string{"want"}})

	snap, err := newAnalytics(store, sets, day).Load(context.Background())

	require.NoError(t, err)
	require.Len(t, snap.Records, 2)
	require.Len(t, snap.WordSets, 1)
	assert.Equal(t, 2, snap.Records[0].TrialNumber)
	assert.Equal(t, 1, snap.Records[1].TrialNumber)
	assert.Equal(t, "0 / 1", snap.Records[1].ScoreDisplay)
}

func TestAnalyticsLoadErrors(t *testing.T) {
	day := time.Date(2024, 3, 10, 12, 0, 0, 0, time.UTC)

	_, err := newAnalytics(&memResults{listErr: errStore}, newMemWordSets(), day).Load(context.Background())
	assert.ErrorIs(t, err, errStore)

	sets := newMemWordSets()
	sets.listErr = errStore
	_, err = newAnalytics(&memResults{}, sets, day).Load(context.Background())
	assert.ErrorIs(t, err, errStore)
}

func TestAnalyticsReport(t *testing.T) {
	day := time.Date(2024, 3, 10, 12, 0, 0, 0, time.UTC)
	store := &memResults{records: []models.SessionRecord{
		sessionAt("old", "alice", "Set A", day.AddDate(0, 0, -40), right("want")),
		sessionAt("a1", "alice", "Set A", day.AddDate(0, 0, -2), wrong("want", "wnat")),
		sessionAt("b1", "bob", "Set B", day.AddDate(0, 0, -1), right("went")),
		sessionAt("a2", "alice", "Set A", day, right("want")),
	}}
	sets := newMemWordSets(
		models.WordSet{Name: "Set A", Words: []string{"want"}},
		models.WordSet{Name: "Set B", Words: []string{"went", "what"}},
	)
	svc := newAnalytics(store, sets, day)

	t.Run("default query covers the configured range", func(t *testing.T) {
		q := svc.DefaultQuery()
		assert.Equal(t, results.SortDateLatest, q.Sort)

		rep, err := svc.Report(context.Background(), q)
		require.NoError(t, err)
		ids := recordIDs(rep.Records)
		assert.Equal(t, []string{"a2", "b1", "a1"}, ids)
		assert.Equal(t, 3, rep.Summary.Sessions)
		assert.Equal(t, []string{"alice", "bob"}, rep.Summary.Learners)
		assert.Equal(t, day, rep.GeneratedAt)
	})

	t.Run("trial numbers ignore the date filter", func(t *testing.T) {
		rep, err := svc.Report(context.Background(), ReportQuery{
			LearnerID: "ALICE",
			From:      day.AddDate(0, 0, -3),
			Sort:      results.SortDateOldest,
		})
		require.NoError(t, err)
		require.Len(t, rep.Records, 2)
		assert.Equal(t, 2, rep.Records[0].TrialNumber)
		assert.Equal(t, 3, rep.Records[1].TrialNumber)
	})

	t.Run("complete only", func(t *testing.T) {
		rep, err := svc.Report(context.Background(), ReportQuery{CompleteOnly: true, Sort: results.SortDateOldest})
		require.NoError(t, err)
		assert.Equal(t, []string{"old", "a1", "a2"}, recordIDs(rep.Records))
	})
}

func TestAnalyticsDeleteResults(t *testing.T) {
	day := time.Date(2024, 3, 10, 12, 0, 0, 0, time.UTC)
	store := &memResults{records: []models.SessionRecord{
		sessionAt("r1", "alice", "Set A", day, right("want")),
		sessionAt("r2", "bob", "Set A", day, right("want")),
	}}
	svc := newAnalytics(store, newMemWordSets(), day)

	require.NoError(t, svc.DeleteResult(context.Background(), "r1"))
	assert.ErrorIs(t, svc.DeleteResult(context.Background(), "r1"), database.ErrNotFound)

	n, err := svc.DeleteAllResults(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)
	assert.Empty(t, store.all())
}

func recordIDs(recs []models.EnrichedRecord) []string {
	ids := make([]string, len(recs))
	for i, r := range recs {
		ids[i] = r.ID
	}
	return ids
}
