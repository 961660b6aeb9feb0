// Package quiz implements the per-attempt practice session state machine.
package quiz

import (
	"log/slog"
	"math/rand/v2"
	"slices"
	"sync"
	"time"

	"spellquiz/internal/models"
)

// DefaultFeedbackDelay is how long a correct answer stays on screen before
// the session moves to the next word
const DefaultFeedbackDelay = 1500 * time.Millisecond

// Options configures a Session
type Options struct {
	// FeedbackDelay postpones the advance after a correct answer.
	// Zero advances immediately.
	FeedbackDelay time.Duration

	Clock  Clock
	Rand   *rand.Rand // Nil uses the auto-seeded global source
	Logger *slog.Logger

	// OnComplete receives the record of a completed session exactly once.
	// It is called without the session lock held.
	OnComplete func(models.SessionRecord)
}

// Feedback is the result of checking one answer
type Feedback struct {
	Correct     bool
	Word        string // The correct spelling
	Attempt     int    // 1-based attempt number for this word
	WillAdvance bool   // An advance has been scheduled
	Completed   bool   // The answer finished the session
}

type wordState struct {
	attempts    []string
	hintUsed    bool
	hintLetters []int
	checked     bool
}

// Session drives one learner through one word set.
// All methods are safe to call from multiple goroutines; the scheduled
// feedback advance runs on the clock's goroutine.
type Session struct {
	mu sync.Mutex

	learnerID string
	opts      Options
	logger    *slog.Logger

	state     State
	set       models.WordSet
	order     []string
	words     []wordState
	index     int
	startedAt time.Time
	record    *models.SessionRecord

	pending    Timer
	generation uint64
}

// NewSession creates a session for a learner. Call Start to begin.
func NewSession(learnerID string, opts Options) *Session {
	if opts.Clock == nil {
		opts.Clock = SystemClock
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &Session{
		learnerID: learnerID,
		opts:      opts,
		logger:    logger.With("learner", learnerID),
	}
}

// Start shuffles the word set into a fresh order and presents the first word.
// It may be called in any state; a running session is discarded without
// emitting a record.
func (s *Session) Start(set models.WordSet) error {
	words := models.NormalizeWords(set.Words)
	if len(words) == 0 {
		return ErrEmptyWordSet
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.cancelPendingLocked()
	s.shuffle(words)

	s.set = set
	s.order = words
	s.words = make([]wordState, len(words))
	s.index = 0
	s.startedAt = s.opts.Clock.Now()
	s.record = nil
	s.state = InProgress

	s.logger.Debug("session started", "word_set", set.Name, "words", len(words))
	return nil
}

func (s *Session) shuffle(words []string) {
	swap := func(i, j int) { words[i], words[j] = words[j], words[i] }
	if s.opts.Rand != nil {
		s.opts.Rand.Shuffle(len(words), swap)
		return
	}
	rand.Shuffle(len(words), swap)
}

// CheckAnswer records an attempt for the current word. A correct answer
// schedules an advance after the feedback delay; an incorrect one leaves the
// learner on the same word. Any previously scheduled advance is cancelled.
func (s *Session) CheckAnswer(submitted string) (Feedback, error) {
	s.mu.Lock()

	if s.state != InProgress {
		state := s.state
		s.mu.Unlock()
		return Feedback{}, invalidTransition("check answer", state)
	}

	s.cancelPendingLocked()

	attempt := models.NormalizeWord(submitted)
	word := s.order[s.index]
	ws := &s.words[s.index]
	ws.checked = true
	ws.attempts = append(ws.attempts, attempt)

	fb := Feedback{
		Correct: attempt == word,
		Word:    word,
		Attempt: len(ws.attempts),
	}
	if !fb.Correct {
		s.mu.Unlock()
		return fb, nil
	}

	if s.opts.FeedbackDelay > 0 {
		gen := s.generation
		s.pending = s.opts.Clock.AfterFunc(s.opts.FeedbackDelay, func() {
			s.scheduledAdvance(gen)
		})
		fb.WillAdvance = true
		s.mu.Unlock()
		return fb, nil
	}

	rec := s.advanceLocked()
	fb.Completed = rec != nil
	s.mu.Unlock()

	s.emit(rec)
	return fb, nil
}

// UseHint reveals one letter of the current word and marks the word as
// hinted for the rest of the session.
func (s *Session) UseHint(letterIndex int) (rune, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state != InProgress {
		return 0, invalidTransition("use hint", s.state)
	}

	letters := []rune(s.order[s.index])
	if letterIndex < 0 || letterIndex >= len(letters) {
		return 0, ErrHintOutOfRange
	}

	ws := &s.words[s.index]
	ws.hintUsed = true
	if !slices.Contains(ws.hintLetters, letterIndex) {
		ws.hintLetters = append(ws.hintLetters, letterIndex)
	}
	return letters[letterIndex], nil
}

// Advance moves to the next word, or completes the session on the last one.
// The completed record is returned and also handed to OnComplete.
func (s *Session) Advance() (*models.SessionRecord, error) {
	s.mu.Lock()
	if s.state != InProgress {
		state := s.state
		s.mu.Unlock()
		return nil, invalidTransition("advance", state)
	}
	s.cancelPendingLocked()
	rec := s.advanceLocked()
	s.mu.Unlock()

	s.emit(rec)
	return rec, nil
}

// Navigate moves to an adjacent word without touching attempts or hints
func (s *Session) Navigate(dir Direction) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state != InProgress {
		return invalidTransition("navigate", s.state)
	}
	next := s.index + int(dir)
	if (dir != Previous && dir != Next) || next < 0 || next >= len(s.order) {
		return ErrNoAdjacentWord
	}

	s.cancelPendingLocked()
	s.index = next
	return nil
}

func (s *Session) scheduledAdvance(gen uint64) {
	s.mu.Lock()
	if gen != s.generation || s.state != InProgress {
		s.mu.Unlock()
		return
	}
	s.pending = nil
	rec := s.advanceLocked()
	s.mu.Unlock()

	s.emit(rec)
}

// advanceLocked returns the record when the session completes
func (s *Session) advanceLocked() *models.SessionRecord {
	if s.index < len(s.order)-1 {
		s.index++
		return nil
	}

	s.state = Complete
	rec := s.buildRecordLocked()
	s.record = &rec
	s.logger.Info("session complete", "word_set", rec.WordSetName, "checked", len(rec.Words))
	return &rec
}

func (s *Session) buildRecordLocked() models.SessionRecord {
	rec := models.SessionRecord{
		LearnerID:   s.learnerID,
		WordSetID:   s.set.ID,
		WordSetName: s.set.Name,
		StartedAt:   s.startedAt,
		CompletedAt: s.opts.Clock.Now(),
	}
	for i, word := range s.order {
		ws := s.words[i]
		if !ws.checked {
			continue
		}
		letters := slices.Clone(ws.hintLetters)
		slices.Sort(letters)
		rec.Words = append(rec.Words, models.WordOutcome{
			Word:        word,
			Attempts:    slices.Clone(ws.attempts),
			HintUsed:    ws.hintUsed,
			HintLetters: letters,
		})
	}
	return rec
}

// cancelPendingLocked invalidates any scheduled advance
func (s *Session) cancelPendingLocked() {
	s.generation++
	if s.pending != nil {
		s.pending.Stop()
		s.pending = nil
	}
}

func (s *Session) emit(rec *models.SessionRecord) {
	if rec == nil || s.opts.OnComplete == nil {
		return
	}
	s.opts.OnComplete(*rec)
}

// State returns the current phase
func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Current returns the word being presented with its index and the total
func (s *Session) Current() (word string, index, total int, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state != InProgress {
		return "", 0, 0, invalidTransition("current word", s.state)
	}
	return s.order[s.index], s.index, len(s.order), nil
}

// Order returns the shuffled presentation order
func (s *Session) Order() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return slices.Clone(s.order)
}

// Record returns the completed record, if the session is complete
func (s *Session) Record() (models.SessionRecord, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.record == nil {
		return models.SessionRecord{}, false
	}
	return *s.record, true
}

// LearnerID returns the learner this session belongs to
func (s *Session) LearnerID() string {
	return s.learnerID
}
