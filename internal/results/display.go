package results

import (
	"fmt"
	"math"
	"slices"
	"strings"

	"spellquiz/internal/models"
)

// ScoreBand buckets a score for colour coding
type ScoreBand string

const (
	BandPerfect          ScoreBand = "perfect"
	BandGood             ScoreBand = "good"
	BandNeedsImprovement ScoreBand = "needs-improvement"
)

// ScorePercent converts a score fraction to a rounded percentage
func ScorePercent(score float64) int {
	return int(math.Round(score * 100))
}

// Band returns the score band of a record
func Band(rec models.EnrichedRecord) ScoreBand {
	switch pct := ScorePercent(rec.ScoreValue); {
	case pct >= 100:
		return BandPerfect
	case pct >= 50:
		return BandGood
	default:
		return BandNeedsImprovement
	}
}

// TimeDisplay formats a duration in seconds as "1m 5s" or "42s"
func TimeDisplay(seconds int) string {
	if seconds <= 0 {
		return NoScore
	}
	minutes, secs := seconds/60, seconds%60
	if minutes > 0 {
		return fmt.Sprintf("%dm %ds", minutes, secs)
	}
	return fmt.Sprintf("%ds", secs)
}

// OrdinalTry labels a trial number, e.g. "1st Try" or "12th Try"
func OrdinalTry(trial int) string {
	if trial < 1 {
		trial = 1
	}
	return ordinal(trial) + " Try"
}

func ordinal(n int) string {
	suffix := "th"
	switch n % 100 {
	case 11, 12, 13:
	default:
		switch n % 10 {
		case 1:
			suffix = "st"
		case 2:
			suffix = "nd"
		case 3:
			suffix = "rd"
		}
	}
	return fmt.Sprintf("%d%s", n, suffix)
}

// WordNote describes a word that needs more practice
type WordNote struct {
	Word         string
	FirstAttempt string // "no attempt" when the word was never checked
	Misspelled   bool
	HintUsed     bool
}

// String renders the note as "wnat → want | hint"
func (n WordNote) String() string {
	var parts []string
	if n.Misspelled {
		parts = append(parts, n.FirstAttempt+" → "+n.Word)
	}
	if n.HintUsed {
		parts = append(parts, "hint: "+n.Word)
	}
	return strings.Join(parts, " | ")
}

// LearningDetails lists the words that were wrong on the first try or
// needed a hint. An empty result means a perfect session.
func LearningDetails(rec models.SessionRecord) []WordNote {
	var notes []WordNote
	for _, w := range rec.Words {
		misspelled := !w.FirstTryCorrect()
		if !misspelled && !w.HintUsed {
			continue
		}
		first := "no attempt"
		if len(w.Attempts) > 0 {
			first = w.Attempts[0]
		}
		notes = append(notes, WordNote{
			Word:         w.Word,
			FirstAttempt: first,
			Misspelled:   misspelled,
			HintUsed:     w.HintUsed,
		})
	}
	return notes
}

// Summary aggregates a collection of enriched records
type Summary struct {
	Sessions       int
	Learners       []string
	WordSets       []string
	AverageScore   int // Mean of per-session percentages
	HintsUsed      int
	PerfectRecords int
}

// Summarize computes the summary statistics and distinct filter options
func Summarize(records []models.EnrichedRecord) Summary {
	s := Summary{Sessions: len(records)}
	learners := make(map[string]struct{})
	sets := make(map[string]struct{})
	total := 0

	for _, rec := range records {
		if rec.LearnerID != "" {
			learners[rec.LearnerID] = struct{}{}
		}
		if name := rec.SetName(); name != models.UnknownWordSetName {
			sets[name] = struct{}{}
		}
		total += ScorePercent(rec.ScoreValue)
		for _, w := range rec.Words {
			if w.HintUsed {
				s.HintsUsed++
			}
		}
		if rec.TotalWords > 0 && rec.CorrectCount == rec.TotalWords {
			s.PerfectRecords++
		}
	}

	if len(records) > 0 {
		s.AverageScore = int(math.Round(float64(total) / float64(len(records))))
	}
	s.Learners = sortedKeys(learners)
	s.WordSets = sortedKeys(sets)
	return s
}

func sortedKeys(m map[string]struct{}) []string {
	out := make([]string, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	slices.Sort(out)
	return out
}
