// Package results derives comparable fields from practice session records
// and narrows and orders them for the instructor view.
//
// Everything here is a pure function over read-only input, so callers can
// run enrichment, filtering and sorting concurrently on the same snapshot.
package results

import (
	"fmt"
	"math"
	"slices"

	"spellquiz/internal/models"
)

// NoScore is shown when a record has no words to score
const NoScore = "N/A"

// Enrich computes trial numbers, time taken and score for every record.
// The output has the same length and order as the input.
//
// Trial numbers count completed sessions per word-set name in ascending
// completion order, so they must be computed over the full known record set
// before any filtering.
func Enrich(records []models.SessionRecord) []models.EnrichedRecord {
	out := make([]models.EnrichedRecord, len(records))

	order := make([]int, len(records))
	for i := range order {
		order[i] = i
	}
	slices.SortStableFunc(order, func(a, b int) int {
		return records[a].CompletedAt.Compare(records[b].CompletedAt)
	})

	trials := make(map[string]int)
	for _, idx := range order {
		name := records[idx].SetName()
		trials[name]++
		out[idx].TrialNumber = trials[name]
	}

	for i, rec := range records {
		out[i].SessionRecord = rec
		out[i].TimeTakenSeconds = timeTakenSeconds(rec)
		out[i].CorrectCount, out[i].TotalWords = score(rec.Words)
		if out[i].TotalWords == 0 {
			out[i].ScoreValue = 0
			out[i].ScoreDisplay = NoScore
			continue
		}
		out[i].ScoreValue = float64(out[i].CorrectCount) / float64(out[i].TotalWords)
		out[i].ScoreDisplay = fmt.Sprintf("%d / %d", out[i].CorrectCount, out[i].TotalWords)
	}

	return out
}

func timeTakenSeconds(rec models.SessionRecord) int {
	if rec.StartedAt.IsZero() || rec.CompletedAt.IsZero() {
		return 0
	}
	secs := math.Round(rec.CompletedAt.Sub(rec.StartedAt).Seconds())
	if secs < 0 {
		return 0
	}
	return int(secs)
}

func score(words []models.WordOutcome) (correct, total int) {
	for _, w := range words {
		if w.Scored() {
			correct++
		}
	}
	return correct, len(words)
}
