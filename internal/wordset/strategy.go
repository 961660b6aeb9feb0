package wordset

import (
	"context"
	"fmt"

	"spellquiz/internal/models"
)

// AssignmentStrategy resolves the set assigned to the learner
type AssignmentStrategy struct {
	Store Store
}

func (AssignmentStrategy) Name() Source { return SourceAssignment }

func (s AssignmentStrategy) Resolve(ctx context.Context, learnerID string) (*Resolution, error) {
	if learnerID == "" {
		return nil, nil
	}
	a, ok, err := s.Store.GetAssignment(ctx, learnerID)
	if err != nil {
		return nil, fmt.Errorf("failed to get assignment: %w", err)
	}
	if !ok || a.WordSetID == "" {
		return nil, nil
	}

	set, ok, err := s.Store.GetWordSet(ctx, a.WordSetID)
	if err != nil {
		return nil, fmt.Errorf("failed to get assigned word set %s: %w", a.WordSetID, err)
	}
	if !ok {
		return nil, nil
	}
	return fromSet(set, SourceAssignment), nil
}

// FirstSetStrategy resolves the oldest stored word set
type FirstSetStrategy struct {
	Store Store
}

func (FirstSetStrategy) Name() Source { return SourceFirstSet }

func (s FirstSetStrategy) Resolve(ctx context.Context, _ string) (*Resolution, error) {
	set, ok, err := s.Store.FirstWordSet(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get first word set: %w", err)
	}
	if !ok {
		return nil, nil
	}
	return fromSet(set, SourceFirstSet), nil
}

// LegacyStrategy resolves the single-document list that predates word sets
type LegacyStrategy struct {
	Store Store
}

func (LegacyStrategy) Name() Source { return SourceLegacy }

func (s LegacyStrategy) Resolve(ctx context.Context, _ string) (*Resolution, error) {
	list, ok, err := s.Store.GetLegacyWordList(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get legacy word list: %w", err)
	}
	if !ok {
		return nil, nil
	}
	return &Resolution{
		Words:   models.NormalizeWords(list.Words),
		SetName: models.LegacyWordSetName,
		Source:  SourceLegacy,
	}, nil
}

func fromSet(set models.WordSet, src Source) *Resolution {
	name := set.Name
	if name == "" {
		name = models.UnknownWordSetName
	}
	return &Resolution{
		Words:   models.NormalizeWords(set.Words),
		SetID:   set.ID,
		SetName: name,
		Source:  src,
	}
}
