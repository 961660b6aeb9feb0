// Package sentences cleans up, filters and orders learner sentences.
package sentences

import (
	"strings"
	"time"

	"spellquiz/internal/models"
)

// Fallback values for documents missing a field
const (
	UnknownLearner = "Unknown Student"
	UnknownWord    = "Unknown Word"
	NoSentence     = "No sentence"
)

// Document is a loosely typed sentence as found in imported backups.
// Older exports used different field names for the same value.
type Document map[string]any

var (
	learnerKeys = []string{"learnerName", "studentName", "student", "userName", "user"}
	wordKeys    = []string{"targetWord", "word", "target"}
	textKeys    = []string{"sentence", "text", "content"}
	setNameKeys = []string{"wordSetName", "wordSet", "setName"}
	setIDKeys   = []string{"wordSetId", "wordSetID", "setId"}
	dateKeys    = []string{"createdAt", "timestamp", "date"}
)

// Normalize converts a document into a Sentence, falling back to
// placeholder values for missing fields and to now for a missing date.
func Normalize(id string, doc Document, now time.Time) models.Sentence {
	s := models.Sentence{
		ID:          id,
		LearnerName: firstString(doc, learnerKeys, UnknownLearner),
		TargetWord:  firstString(doc, wordKeys, UnknownWord),
		Text:        firstString(doc, textKeys, NoSentence),
		WordSetName: firstString(doc, setNameKeys, models.UnknownWordSetName),
		WordSetID:   firstString(doc, setIDKeys, ""),
		CreatedAt:   now,
	}
	if id == "" {
		s.ID = firstString(doc, []string{"id"}, "")
	}
	for _, key := range dateKeys {
		if t, ok := parseTime(doc[key]); ok {
			s.CreatedAt = t
			break
		}
	}
	return s
}

// Clean fills empty fields of a stored sentence with the placeholders
func Clean(s models.Sentence) models.Sentence {
	s.LearnerName = orDefault(s.LearnerName, UnknownLearner)
	s.TargetWord = orDefault(s.TargetWord, UnknownWord)
	s.Text = orDefault(s.Text, NoSentence)
	s.WordSetName = orDefault(s.WordSetName, models.UnknownWordSetName)
	return s
}

func orDefault(v, def string) string {
	if strings.TrimSpace(v) == "" {
		return def
	}
	return v
}

func firstString(doc Document, keys []string, def string) string {
	for _, k := range keys {
		if v, ok := doc[k].(string); ok && strings.TrimSpace(v) != "" {
			return v
		}
	}
	return def
}

// parseTime accepts RFC 3339 strings, plain dates, epoch seconds and
// {"seconds": n} timestamp objects.
func parseTime(v any) (time.Time, bool) {
	switch t := v.(type) {
	case time.Time:
		return t, !t.IsZero()
	case string:
		for _, layout := range []string{time.RFC3339Nano, time.DateTime, time.DateOnly} {
			if parsed, err := time.Parse(layout, t); err == nil {
				return parsed, true
			}
		}
	case float64:
		if t > 0 {
			return time.Unix(int64(t), 0).UTC(), true
		}
	case map[string]any:
		if secs, ok := t["seconds"].(float64); ok && secs > 0 {
			return time.Unix(int64(secs), 0).UTC(), true
		}
	}
	return time.Time{}, false
}
