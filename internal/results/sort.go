package results

import (
	"cmp"
	"slices"
	"strings"

	"spellquiz/internal/models"
)

// SortKey selects the ordering applied by Sort
type SortKey string

const (
	SortDateLatest          SortKey = "date-latest"
	SortDateOldest          SortKey = "date-oldest"
	SortWordSetAlphabetical SortKey = "wordset-alphabetical"
	SortTimeLongest         SortKey = "time-longest"
	SortTimeShortest        SortKey = "time-shortest"
	SortScoreHighest        SortKey = "score-highest"
	SortScoreLowest         SortKey = "score-lowest"
	SortAll                 SortKey = "all"
)

type compareFunc func(a, b models.EnrichedRecord) int

var comparators = map[SortKey]compareFunc{
	SortDateLatest: func(a, b models.EnrichedRecord) int {
		return b.CompletedAt.Compare(a.CompletedAt)
	},
	SortDateOldest: func(a, b models.EnrichedRecord) int {
		return a.CompletedAt.Compare(b.CompletedAt)
	},
	SortWordSetAlphabetical: func(a, b models.EnrichedRecord) int {
		return strings.Compare(a.SetName(), b.SetName())
	},
	SortTimeLongest: func(a, b models.EnrichedRecord) int {
		return cmp.Compare(b.TimeTakenSeconds, a.TimeTakenSeconds)
	},
	SortTimeShortest: func(a, b models.EnrichedRecord) int {
		return cmp.Compare(a.TimeTakenSeconds, b.TimeTakenSeconds)
	},
	SortScoreHighest: func(a, b models.EnrichedRecord) int {
		return cmp.Compare(b.ScoreValue, a.ScoreValue)
	},
	SortScoreLowest: func(a, b models.EnrichedRecord) int {
		return cmp.Compare(a.ScoreValue, b.ScoreValue)
	},
	SortAll: func(a, b models.EnrichedRecord) int {
		if c := strings.Compare(a.SetName(), b.SetName()); c != 0 {
			return c
		}
		return cmp.Compare(a.TrialNumber, b.TrialNumber)
	},
}

// SortKeys lists the supported keys in display order
func SortKeys() []SortKey {
	return []SortKey{
		SortAll, SortDateLatest, SortDateOldest, SortWordSetAlphabetical,
		SortTimeLongest, SortTimeShortest, SortScoreHighest, SortScoreLowest,
	}
}

// ParseSortKey maps a string to a SortKey. Empty means SortAll.
func ParseSortKey(s string) (SortKey, bool) {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "" {
		return SortAll, true
	}
	key := SortKey(s)
	_, ok := comparators[key]
	return key, ok
}

// Sort returns a stably sorted copy of records. An unknown key preserves the
// input order.
func Sort(records []models.EnrichedRecord, key SortKey) []models.EnrichedRecord {
	out := make([]models.EnrichedRecord, len(records))
	copy(out, records)

	compare, ok := comparators[key]
	if !ok {
		return out
	}
	slices.SortStableFunc(out, compare)
	return out
}
