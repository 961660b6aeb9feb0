package results

import (
	"fmt"
	"strings"
	"time"

	"spellquiz/internal/models"
)

// DateLayout is the layout of the from/to dates accepted by ParseDate
const DateLayout = "2006-01-02"

// Criteria narrows a collection of enriched records. Zero-valued fields are
// not applied; a record must satisfy every field that is set.
type Criteria struct {
	From         time.Time // Inclusive, from the start of its day
	To           time.Time // Inclusive, to the end of its day
	WordSetName  string
	LearnerID    string // Case-insensitive, trimmed
	CompleteOnly bool   // Keep records that checked every word of their set

	// WordSets is consulted by CompleteOnly to find each record's set
	WordSets []models.WordSet
}

// IsZero reports whether no criterion is set
func (c Criteria) IsZero() bool {
	return c.From.IsZero() && c.To.IsZero() && c.WordSetName == "" &&
		strings.TrimSpace(c.LearnerID) == "" && !c.CompleteOnly
}

// Filter returns the records satisfying c, in their original order.
// The input slice is not modified.
func Filter(records []models.EnrichedRecord, c Criteria) []models.EnrichedRecord {
	if c.IsZero() {
		out := make([]models.EnrichedRecord, len(records))
		copy(out, records)
		return out
	}

	var from, to time.Time
	if !c.From.IsZero() {
		from = StartOfDay(c.From)
	}
	if !c.To.IsZero() {
		to = EndOfDay(c.To)
	}
	learner := strings.ToLower(strings.TrimSpace(c.LearnerID))

	var sets *setIndex
	if c.CompleteOnly {
		sets = newSetIndex(c.WordSets)
	}

	out := make([]models.EnrichedRecord, 0, len(records))
	for _, rec := range records {
		if !from.IsZero() && rec.CompletedAt.Before(from) {
			continue
		}
		if !to.IsZero() && rec.CompletedAt.After(to) {
			continue
		}
		if c.WordSetName != "" && rec.SetName() != c.WordSetName {
			continue
		}
		if learner != "" && strings.ToLower(strings.TrimSpace(rec.LearnerID)) != learner {
			continue
		}
		if sets != nil {
			set, ok := sets.lookup(rec.SessionRecord)
			if !ok || len(rec.Words) != len(set.Words) {
				continue
			}
		}
		out = append(out, rec)
	}
	return out
}

// StartOfDay returns midnight of t's day in t's location
func StartOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

// EndOfDay returns 23:59:59.999 of t's day in t's location
func EndOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 23, 59, 59, int(999*time.Millisecond), t.Location())
}

// ParseDate parses a YYYY-MM-DD date in loc. An empty string yields the zero
// time, which leaves the bound unset.
func ParseDate(s string, loc *time.Location) (time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, nil
	}
	if loc == nil {
		loc = time.Local
	}
	t, err := time.ParseInLocation(DateLayout, s, loc)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q: %w", s, err)
	}
	return t, nil
}

// DefaultRange returns the from/to dates covering the last days days up to now
func DefaultRange(now time.Time, days int) (from, to time.Time) {
	return StartOfDay(now.AddDate(0, 0, -days)), StartOfDay(now)
}

type setIndex struct {
	byID   map[string]models.WordSet
	byName map[string]models.WordSet
}

func newSetIndex(sets []models.WordSet) *setIndex {
	idx := &setIndex{
		byID:   make(map[string]models.WordSet, len(sets)),
		byName: make(map[string]models.WordSet, len(sets)),
	}
	for _, s := range sets {
		if s.ID != "" {
			idx.byID[s.ID] = s
		}
		if _, seen := idx.byName[s.Name]; !seen {
			idx.byName[s.Name] = s
		}
	}
	return idx
}

// lookup finds the record's word set by id, then by name
func (i *setIndex) lookup(rec models.SessionRecord) (models.WordSet, bool) {
	if rec.WordSetID != "" {
		if s, ok := i.byID[rec.WordSetID]; ok {
			return s, true
		}
	}
	if rec.WordSetName == "" {
		return models.WordSet{}, false
	}
	s, ok := i.byName[rec.WordSetName]
	return s, ok
}
