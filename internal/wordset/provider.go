// Package wordset resolves which word set a learner should practice.
package wordset

import (
	"context"
	"log/slog"
	"slices"

	"spellquiz/internal/models"
)

// Source names the strategy that produced a resolution
type Source string

const (
	SourceAssignment Source = "assignment"
	SourceFirstSet   Source = "first-set"
	SourceLegacy     Source = "legacy"
	SourceDefault    Source = "default"
)

// Resolution is the word set chosen for a learner
type Resolution struct {
	Words   []string
	SetID   string // Empty for the legacy list and the built-in default
	SetName string
	Source  Source
}

// WordSet converts the resolution into a set a quiz session can start
func (r Resolution) WordSet() models.WordSet {
	return models.WordSet{ID: r.SetID, Name: r.SetName, Words: slices.Clone(r.Words)}
}

// Store is the read side of the word set store used during resolution.
// Lookups return found=false with a nil error when nothing is stored.
type Store interface {
	GetAssignment(ctx context.Context, learnerID string) (models.Assignment, bool, error)
	GetWordSet(ctx context.Context, id string) (models.WordSet, bool, error)
	FirstWordSet(ctx context.Context) (models.WordSet, bool, error)
	GetLegacyWordList(ctx context.Context) (models.LegacyWordList, bool, error)
}

// Strategy is one step of the resolution chain. A nil resolution means
// the strategy has nothing for this learner.
type Strategy interface {
	Name() Source
	Resolve(ctx context.Context, learnerID string) (*Resolution, error)
}

// Provider tries its strategies in order and falls back to the built-in set
type Provider struct {
	strategies []Strategy
	logger     *slog.Logger
}

// NewProvider creates a provider with the standard chain:
// assignment, first stored set, legacy list.
func NewProvider(store Store, logger *slog.Logger) *Provider {
	return NewProviderWithStrategies(logger,
		AssignmentStrategy{Store: store},
		FirstSetStrategy{Store: store},
		LegacyStrategy{Store: store},
	)
}

// NewProviderWithStrategies creates a provider with a custom chain
func NewProviderWithStrategies(logger *slog.Logger, strategies ...Strategy) *Provider {
	if logger == nil {
		logger = slog.Default()
	}
	return &Provider{strategies: strategies, logger: logger}
}

// Resolve never fails. Strategy errors are logged and skipped, and the
// built-in default set is returned when nothing else matches.
func (p *Provider) Resolve(ctx context.Context, learnerID string) Resolution {
	for _, s := range p.strategies {
		res, err := s.Resolve(ctx, learnerID)
		if err != nil {
			p.logger.WarnContext(ctx, "word set resolution step failed",
				"strategy", s.Name(), "learner", learnerID, "error", err)
			continue
		}
		if res == nil || len(res.Words) == 0 {
			continue
		}
		p.logger.DebugContext(ctx, "word set resolved",
			"strategy", s.Name(), "learner", learnerID, "set", res.SetName)
		return *res
	}

	def := models.DefaultWordSet()
	return Resolution{Words: def.Words, SetName: def.Name, Source: SourceDefault}
}
