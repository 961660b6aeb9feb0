package service

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"golang.org/x/sync/errgroup"

	"spellquiz/internal/models"
	"spellquiz/internal/results"
)

// WordSetLister lists the word sets completeness is checked against
type WordSetLister interface {
	ListWordSets(ctx context.Context) ([]models.WordSet, error)
}

// AnalyticsService builds the instructor view of completed sessions
type AnalyticsService struct {
	results   ResultStore
	wordSets  WordSetLister
	rangeDays int
	now       func() time.Time
	logger    *slog.Logger
}

// NewAnalyticsService creates a new analytics service. rangeDays is the
// default reporting window used by DefaultQuery.
func NewAnalyticsService(results ResultStore, wordSets WordSetLister, rangeDays int, logger *slog.Logger) *AnalyticsService {
	if logger == nil {
		logger = slog.Default()
	}
	return &AnalyticsService{
		results:   results,
		wordSets:  wordSets,
		rangeDays: rangeDays,
		now:       time.Now,
		logger:    logger,
	}
}

// Snapshot is every known record, enriched, together with the word sets
type Snapshot struct {
	Records  []models.EnrichedRecord
	WordSets []models.WordSet
}

// Load reads records and word sets concurrently and enriches the records.
// Trial numbers are computed over everything loaded, before any filtering.
func (s *AnalyticsService) Load(ctx context.Context) (Snapshot, error) {
	var (
		records []models.SessionRecord
		sets    []models.WordSet
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		records, err = s.results.ListResults(gctx, "")
		if err != nil {
			return fmt.Errorf("list results: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		var err error
		sets, err = s.wordSets.ListWordSets(gctx)
		if err != nil {
			return fmt.Errorf("list word sets: %w", err)
		}
		return nil
	})
	if err := g.Wait(); err != nil {
		return Snapshot{}, err
	}

	return Snapshot{Records: results.Enrich(records), WordSets: sets}, nil
}

// ReportQuery selects and orders the records of a report
type ReportQuery struct {
	From         time.Time
	To           time.Time
	WordSetName  string
	LearnerID    string
	CompleteOnly bool
	Sort         results.SortKey
}

// DefaultQuery covers the configured number of days up to today
func (s *AnalyticsService) DefaultQuery() ReportQuery {
	from, to := results.DefaultRange(s.now(), s.rangeDays)
	return ReportQuery{From: from, To: to, Sort: results.SortDateLatest}
}

// Report is a filtered and sorted view with its summary
type Report struct {
	Query       ReportQuery
	Records     []models.EnrichedRecord
	Summary     results.Summary
	GeneratedAt time.Time
}

// Report loads every record and applies the query
func (s *AnalyticsService) Report(ctx context.Context, q ReportQuery) (Report, error) {
	snap, err := s.Load(ctx)
	if err != nil {
		return Report{}, err
	}

	filtered := results.Filter(snap.Records, results.Criteria{
		From:         q.From,
		To:           q.To,
		WordSetName:  q.WordSetName,
		LearnerID:    q.LearnerID,
		CompleteOnly: q.CompleteOnly,
		WordSets:     snap.WordSets,
	})
	sorted := results.Sort(filtered, q.Sort)

	s.logger.DebugContext(ctx, "report built", "loaded", len(snap.Records), "shown", len(sorted), "sort", q.Sort)
	return Report{
		Query:       q,
		Records:     sorted,
		Summary:     results.Summarize(sorted),
		GeneratedAt: s.now(),
	}, nil
}

// DeleteResult removes one stored record
func (s *AnalyticsService) DeleteResult(ctx context.Context, id string) error {
	if err := s.results.DeleteResult(ctx, id); err != nil {
		return err
	}
	s.logger.InfoContext(ctx, "result deleted", "id", id)
	return nil
}

// DeleteAllResults removes every stored record
func (s *AnalyticsService) DeleteAllResults(ctx context.Context) (int64, error) {
	n, err := s.results.DeleteAllResults(ctx)
	if err != nil {
		return 0, err
	}
	s.logger.InfoContext(ctx, "all results deleted", "count", n)
	return n, nil
}
