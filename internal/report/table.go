// Package report renders enriched session records as plain text.
package report

import (
	"fmt"
	"io"
	"strings"

	"github.com/mattn/go-runewidth"

	"spellquiz/internal/models"
	"spellquiz/internal/results"
)

// PerfectDetails is shown when a record has no words needing practice
const PerfectDetails = "perfect"

// TimeLayout formats completion times in tables
const TimeLayout = "2006-01-02 15:04"

var headers = []string{"Learner", "Word Set", "Try", "Score", "Time", "Completed", "Learning Details"}

// Row is one rendered table line
type Row []string

// Rows converts records into table cells, one row per record
func Rows(records []models.EnrichedRecord) []Row {
	rows := make([]Row, 0, len(records))
	for _, rec := range records {
		completed := results.NoScore
		if !rec.CompletedAt.IsZero() {
			completed = rec.CompletedAt.Format(TimeLayout)
		}
		rows = append(rows, Row{
			rec.LearnerID,
			rec.SetName(),
			results.OrdinalTry(rec.TrialNumber),
			rec.ScoreDisplay,
			results.TimeDisplay(rec.TimeTakenSeconds),
			completed,
			Details(rec.SessionRecord),
		})
	}
	return rows
}

// Details joins the learning details of a record, or PerfectDetails
func Details(rec models.SessionRecord) string {
	notes := results.LearningDetails(rec)
	if len(notes) == 0 {
		return PerfectDetails
	}
	parts := make([]string, len(notes))
	for i, n := range notes {
		parts[i] = n.String()
	}
	return strings.Join(parts, "; ")
}

// Table writes records as an aligned text table. Column widths count
// display cells, so wide characters line up.
func Table(w io.Writer, records []models.EnrichedRecord) error {
	rows := Rows(records)

	widths := make([]int, len(headers))
	for i, h := range headers {
		widths[i] = runewidth.StringWidth(h)
	}
	for _, row := range rows {
		for i, cell := range row {
			widths[i] = max(widths[i], runewidth.StringWidth(cell))
		}
	}

	if err := writeRow(w, headers, widths); err != nil {
		return err
	}
	rule := make([]string, len(widths))
	for i, n := range widths {
		rule[i] = strings.Repeat("-", n)
	}
	if err := writeRow(w, rule, widths); err != nil {
		return err
	}
	for _, row := range rows {
		if err := writeRow(w, row, widths); err != nil {
			return err
		}
	}
	return nil
}

func writeRow(w io.Writer, cells []string, widths []int) error {
	var b strings.Builder
	for i, cell := range cells {
		if i > 0 {
			b.WriteString("  ")
		}
		// Last column is not padded
		if i == len(cells)-1 {
			b.WriteString(cell)
			continue
		}
		b.WriteString(runewidth.FillRight(cell, widths[i]))
	}
	_, err := fmt.Fprintln(w, strings.TrimRight(b.String(), " "))
	return err
}

// WriteSummary writes the summary statistics block
func WriteSummary(w io.Writer, s results.Summary) error {
	_, err := fmt.Fprintf(w,
		"Sessions: %d\nLearners: %d\nWord sets: %d\nAverage score: %d%%\nHints used: %d\nPerfect sessions: %d\n",
		s.Sessions, len(s.Learners), len(s.WordSets), s.AverageScore, s.HintsUsed, s.PerfectRecords)
	return err
}
