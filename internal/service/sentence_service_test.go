package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"spellquiz/internal/models"
	"spellquiz/internal/sentences"
)

func TestAddSentence(t *testing.T) {
	store := &memSentences{}
	svc := NewSentenceService(store, discardLogger())

	s, err := svc.AddSentence(context.Background(), models.Sentence{
		LearnerName: " Alice ",
		TargetWord:  " Want ",
		Text:        "I want a dog. ",
	})
	require.NoError(t, err)
	assert.NotEmpty(t, s.ID)
	assert.Equal(t, "Alice", s.LearnerName)
	assert.Equal(t, "want", s.TargetWord)
	assert.Equal(t, "I want a dog.", s.Text)

	_, err = svc.AddSentence(context.Background(), models.Sentence{LearnerName: "Bob", TargetWord: "went"})
	assert.ErrorIs(t, err, ErrInvalidSentence)
}

func TestUpdateSentence(t *testing.T) {
	store := &memSentences{}
	svc := NewSentenceService(store, discardLogger())
	s, err := svc.AddSentence(context.Background(), models.Sentence{LearnerName: "Alice", TargetWord: "want", Text: "x"})
	require.NoError(t, err)

	require.NoError(t, svc.UpdateSentence(context.Background(), s.ID, "WENT", "I went home."))
	stored, err := store.ListSentences(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "went", stored[0].TargetWord)
	assert.Equal(t, "I went home.", stored[0].Text)

	assert.ErrorIs(t, svc.UpdateSentence(context.Background(), s.ID, "", "text"), ErrInvalidSentence)
	require.NoError(t, svc.DeleteSentence(context.Background(), s.ID))
}

func TestListSentences(t *testing.T) {
	day := time.Date(2024, 3, 10, 9, 0, 0, 0, time.UTC)
	store := &memSentences{sentences: []models.Sentence{
		{ID: "1", LearnerName: "Bob", TargetWord: "want", Text: "I want.", WordSetName: "Set A", CreatedAt: day},
		{ID: "2", LearnerName: "alice", TargetWord: "went", Text: "I went.", WordSetName: "Set A", CreatedAt: day.Add(time.Hour)},
		{ID: "3", LearnerName: "", TargetWord: "what", Text: "", CreatedAt: day.AddDate(0, 0, -5)},
	}}
	svc := NewSentenceService(store, discardLogger())

	view, err := svc.ListSentences(context.Background(), sentences.Criteria{}, sentences.SortLearnerAsc)
	require.NoError(t, err)
	require.Len(t, view.Sentences, 3)
	assert.Equal(t, "alice", view.Sentences[0].LearnerName)
	assert.Equal(t, "Bob", view.Sentences[1].LearnerName)
	assert.Equal(t, sentences.UnknownLearner, view.Sentences[2].LearnerName)
	assert.Equal(t, sentences.NoSentence, view.Sentences[2].Text)
	assert.Equal(t, 3, view.Stats.Total)

	view, err = svc.ListSentences(context.Background(), sentences.Criteria{WordSetName: "Set A"}, sentences.SortDateDesc)
	require.NoError(t, err)
	require.Len(t, view.Sentences, 2)
	assert.Equal(t, "2", view.Sentences[0].ID)
}
