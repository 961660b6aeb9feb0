package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"spellquiz/internal/models"
	"spellquiz/internal/quiz"
	"spellquiz/internal/wordset"
)

// PracticeOptions configures the practice service
type PracticeOptions struct {
	FeedbackDelay time.Duration
	Clock         quiz.Clock
	Logger        *slog.Logger

	// OnPersistError receives failures of background result writes.
	// Nil only logs them.
	OnPersistError func(*PersistenceError)
}

// PracticeService starts practice sessions and persists their records
type PracticeService struct {
	provider *wordset.Provider
	results  ResultStore
	opts     PracticeOptions
	logger   *slog.Logger

	inflight sync.WaitGroup
}

// NewPracticeService creates a new practice service
func NewPracticeService(provider *wordset.Provider, results ResultStore, opts PracticeOptions) *PracticeService {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &PracticeService{
		provider: provider,
		results:  results,
		opts:     opts,
		logger:   logger,
	}
}

// Practice is a running session whose completed record is saved in the
// background
type Practice struct {
	*quiz.Session

	saved chan error
}

// Saved delivers the outcome of writing the completed record: nil, or a
// *PersistenceError. Nothing is delivered until the session completes. An
// outcome still unread when a restarted session completes again is kept
// and the newer one dropped.
func (p *Practice) Saved() <-chan error {
	return p.saved
}

// StartSession resolves the learner's word set and starts a session on it.
// The completed record is written in the background; receive from Saved to
// learn whether the write succeeded.
func (s *PracticeService) StartSession(ctx context.Context, learnerID string) (*Practice, wordset.Resolution, error) {
	res := s.provider.Resolve(ctx, learnerID)

	p := &Practice{saved: make(chan error, 1)}
	p.Session = quiz.NewSession(learnerID, quiz.Options{
		FeedbackDelay: s.opts.FeedbackDelay,
		Clock:         s.opts.Clock,
		Logger:        s.logger,
		OnComplete: func(rec models.SessionRecord) {
			s.persistAsync(rec, p.saved)
		},
	})
	if err := p.Start(res.WordSet()); err != nil {
		return nil, res, fmt.Errorf("failed to start session: %w", err)
	}

	s.logger.InfoContext(ctx, "practice session started",
		"learner", learnerID, "word_set", res.SetName, "source", res.Source, "words", len(res.Words))
	return p, res, nil
}

// SaveResult assigns the record an ID and writes it to the store
func (s *PracticeService) SaveResult(ctx context.Context, rec models.SessionRecord) (models.SessionRecord, error) {
	if rec.ID == "" {
		rec.ID = uuid.NewString()
	}
	saved, err := s.results.AppendResult(ctx, rec)
	if err != nil {
		return rec, &PersistenceError{RecordID: rec.ID, Err: err}
	}
	return saved, nil
}

func (s *PracticeService) persistAsync(rec models.SessionRecord, outcome chan<- error) {
	s.inflight.Add(1)
	go func() {
		defer s.inflight.Done()

		saved, err := s.SaveResult(context.Background(), rec)
		select {
		case outcome <- err:
		default:
		}
		if err != nil {
			s.logger.Error("failed to persist session record",
				"record", saved.ID, "learner", rec.LearnerID, "error", err)
			var perr *PersistenceError
			if s.opts.OnPersistError != nil && errors.As(err, &perr) {
				s.opts.OnPersistError(perr)
			}
			return
		}
		s.logger.Debug("session record persisted", "record", saved.ID, "learner", rec.LearnerID)
	}()
}

// Wait blocks until every background write has finished. A write is only
// tracked once its session has handed over the record, so callers that
// observe completion by polling State must receive from Practice.Saved
// instead.
func (s *PracticeService) Wait() {
	s.inflight.Wait()
}
