package sentences

import (
	"cmp"
	"slices"
	"strings"
	"time"

	"spellquiz/internal/models"
	"spellquiz/internal/results"
)

// Criteria narrows a sentence list. Zero fields match everything.
type Criteria struct {
	LearnerName string
	WordSetName string
	From        time.Time
	To          time.Time // Inclusive through the end of its day
}

// Filter returns the sentences matching every set criterion
func Filter(in []models.Sentence, c Criteria) []models.Sentence {
	out := make([]models.Sentence, 0, len(in))
	from := results.StartOfDay(c.From)
	to := results.EndOfDay(c.To)
	for _, s := range in {
		if c.LearnerName != "" && s.LearnerName != c.LearnerName {
			continue
		}
		if c.WordSetName != "" && s.WordSetName != c.WordSetName {
			continue
		}
		if !c.From.IsZero() && s.CreatedAt.Before(from) {
			continue
		}
		if !c.To.IsZero() && s.CreatedAt.After(to) {
			continue
		}
		out = append(out, s)
	}
	return out
}

// SortKey selects a sentence ordering
type SortKey string

const (
	SortDateAsc     SortKey = "date_asc"
	SortDateDesc    SortKey = "date_desc"
	SortLearnerAsc  SortKey = "student_asc"
	SortLearnerDesc SortKey = "student_desc"
	SortWordAsc     SortKey = "word_asc"
	SortWordDesc    SortKey = "word_desc"
	SortWordSetAsc  SortKey = "wordset_asc"
	SortWordSetDesc SortKey = "wordset_desc"
)

func byString(field func(models.Sentence) string) func(a, b models.Sentence) int {
	return func(a, b models.Sentence) int {
		return cmp.Compare(strings.ToLower(field(a)), strings.ToLower(field(b)))
	}
}

func reversed(f func(a, b models.Sentence) int) func(a, b models.Sentence) int {
	return func(a, b models.Sentence) int { return f(b, a) }
}

var (
	byDate    = func(a, b models.Sentence) int { return a.CreatedAt.Compare(b.CreatedAt) }
	byLearner = byString(func(s models.Sentence) string { return s.LearnerName })
	byWord    = byString(func(s models.Sentence) string { return s.TargetWord })
	byWordSet = byString(func(s models.Sentence) string { return s.WordSetName })
)

var comparators = map[SortKey]func(a, b models.Sentence) int{
	SortDateAsc:     byDate,
	SortDateDesc:    reversed(byDate),
	SortLearnerAsc:  byLearner,
	SortLearnerDesc: reversed(byLearner),
	SortWordAsc:     byWord,
	SortWordDesc:    reversed(byWord),
	SortWordSetAsc:  byWordSet,
	SortWordSetDesc: reversed(byWordSet),
}

// Sort returns a stably sorted copy. An unknown key sorts newest first.
func Sort(in []models.Sentence, key SortKey) []models.Sentence {
	out := slices.Clone(in)
	f, ok := comparators[key]
	if !ok {
		f = comparators[SortDateDesc]
	}
	slices.SortStableFunc(out, f)
	return out
}

// Stats summarizes a sentence list
type Stats struct {
	Total           int
	Learners        int
	Words           int
	MostActive      string // Learner with the most sentences
	MostUsedWordSet string
}

// Summarize computes Stats. Ties go to the alphabetically first name.
func Summarize(in []models.Sentence) Stats {
	learners := map[string]int{}
	words := map[string]struct{}{}
	sets := map[string]int{}
	for _, s := range in {
		learners[s.LearnerName]++
		words[s.TargetWord] = struct{}{}
		if s.WordSetName != "" && s.WordSetName != models.UnknownWordSetName {
			sets[s.WordSetName]++
		}
	}
	return Stats{
		Total:           len(in),
		Learners:        len(learners),
		Words:           len(words),
		MostActive:      top(learners),
		MostUsedWordSet: top(sets),
	}
}

func top(counts map[string]int) string {
	best, bestN := "", 0
	for name, n := range counts {
		if n > bestN || (n == bestN && name < best) {
			best, bestN = name, n
		}
	}
	return best
}
