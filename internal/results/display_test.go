package results

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"spellquiz/internal/models"
)

func TestOrdinalTry(t *testing.T) {
	tests := map[int]string{
		0:   "1st Try",
		1:   "1st Try",
		2:   "2nd Try",
		3:   "3rd Try",
		4:   "4th Try",
		11:  "11th Try",
		12:  "12th Try",
		13:  "13th Try",
		21:  "21st Try",
		102: "102nd Try",
	}
	for trial, want := range tests {
		assert.Equal(t, want, OrdinalTry(trial), "trial %d", trial)
	}
}

func TestTimeDisplay(t *testing.T) {
	assert.Equal(t, "N/A", TimeDisplay(0))
	assert.Equal(t, "42s", TimeDisplay(42))
	assert.Equal(t, "1m 5s", TimeDisplay(65))
	assert.Equal(t, "10m 0s", TimeDisplay(600))
}

func TestBand(t *testing.T) {
	assert.Equal(t, BandPerfect, Band(models.EnrichedRecord{ScoreValue: 1}))
	assert.Equal(t, BandGood, Band(models.EnrichedRecord{ScoreValue: 0.5}))
	assert.Equal(t, BandNeedsImprovement, Band(models.EnrichedRecord{ScoreValue: 0.49}))
}

func TestLearningDetails(t *testing.T) {
	rec := models.SessionRecord{Words: []models.WordOutcome{
		outcome("want", false, "wnat", "want"),
		outcome("went", true, "went"),
		outcome("what", false, "what"),
		outcome("could", false),
	}}

	notes := LearningDetails(rec)

	require.Len(t, notes, 3)
	assert.Equal(t, "wnat → want", notes[0].String())
	assert.Equal(t, "hint: went", notes[1].String())
	assert.Equal(t, "no attempt → could", notes[2].String())
}

func TestLearningDetailsPerfect(t *testing.T) {
	rec := models.SessionRecord{Words: []models.WordOutcome{outcome("want", false, "want")}}
	assert.Empty(t, LearningDetails(rec))
}

func TestSummarize(t *testing.T) {
	records := Enrich([]models.SessionRecord{
		record("set1", base, outcome("want", false, "want"), outcome("went", true, "went")),
		{LearnerID: "robbie", WordSetName: "set2", Words: []models.WordOutcome{outcome("what", false, "what")}},
		{LearnerID: "robbie"},
	})

	s := Summarize(records)

	assert.Equal(t, 3, s.Sessions)
	assert.Equal(t, []string{"robbie", "tyler"}, s.Learners)
	assert.Equal(t, []string{"set1", "set2"}, s.WordSets)
	assert.Equal(t, 50, s.AverageScore) // (50 + 100 + 0) / 3
	assert.Equal(t, 1, s.HintsUsed)
	assert.Equal(t, 1, s.PerfectRecords)
}
