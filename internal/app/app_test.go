package app

import (
	"context"
	"io"
	"log/slog"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"spellquiz/internal/config"
	"spellquiz/internal/models"
	"spellquiz/internal/service"
	"spellquiz/internal/wordset"
)

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	return &config.Config{
		Database:  config.DatabaseConfig{Type: config.DatabaseSQLite, Path: filepath.Join(t.TempDir(), "quiz.db")},
		Analytics: config.AnalyticsConfig{DefaultRangeDays: 30},
	}
}

func TestNewSeedsDefaultWordSet(t *testing.T) {
	ctx := context.Background()
	a, err := New(ctx, testConfig(t), slog.New(slog.NewTextHandler(io.Discard, nil)))
	require.NoError(t, err)
	t.Cleanup(func() { a.Close() })

	sets, err := a.WordSets.ListWordSets(ctx)
	require.NoError(t, err)
	require.Len(t, sets, 1)
	assert.Equal(t, models.DefaultWordSetName, sets[0].Name)
	assert.False(t, a.Email.IsEnabled())
}

func TestPracticeSessionEndToEnd(t *testing.T) {
	ctx := context.Background()
	a, err := New(ctx, testConfig(t), slog.New(slog.NewTextHandler(io.Discard, nil)))
	require.NoError(t, err)

	set, err := a.WordSets.CreateWordSet(ctx, service.WordSetInput{Name: "Week 1", Words: []string{"want", "went"}}, "teacher")
	require.NoError(t, err)
	require.NoError(t, a.WordSets.AssignToLearner(ctx, "alice", set.ID, "teacher"))

	sess, res, err := a.Practice.StartSession(ctx, "alice")
	require.NoError(t, err)
	assert.Equal(t, wordset.SourceAssignment, res.Source)

	for _, w := range sess.Order() {
		_, err := sess.CheckAnswer(w)
		require.NoError(t, err)
	}
	// Zero feedback delay advances on each correct answer
	_, done := sess.Record()
	require.True(t, done)

	require.NoError(t, <-sess.Saved())
	rep, err := a.Analytics.Report(ctx, a.Analytics.DefaultQuery())
	require.NoError(t, err)
	require.Len(t, rep.Records, 1)
	assert.Equal(t, "2 / 2", rep.Records[0].ScoreDisplay)
	assert.Equal(t, 1, rep.Records[0].TrialNumber)

	require.NoError(t, a.Close())
}
