package usecase

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/thehubfc/prediction-league/internal/domain/competition"
	"github.com/thehubfc/prediction-league/internal/platform/id"
)

type CompetitionService struct {
	competitionRepo competition.Repository
	ids             id.Generator
	now             func() time.Time
}

func NewCompetitionService(competitionRepo competition.Repository, ids id.Generator) *CompetitionService {
	return &CompetitionService{
		competitionRepo: competitionRepo,
		ids:             ids,
		now:             time.Now,
	}
}

func (s *CompetitionService) List(ctx context.Context) ([]competition.Competition, error) {
	ctx, span := startUsecaseSpan(ctx, "CompetitionService.List")
	defer span.End()

	items, err := s.competitionRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list competitions: %w", err)
	}

	return items, nil
}

// GetActive returns the competition new rounds belong to. Having none
// yet is a valid empty state, not an error.
func (s *CompetitionService) GetActive(ctx context.Context) (competition.Competition, bool, error) {
	ctx, span := startUsecaseSpan(ctx, "CompetitionService.GetActive")
	defer span.End()

	item, exists, err := s.competitionRepo.GetActive(ctx)
	if err != nil {
		return competition.Competition{}, false, fmt.Errorf("get active competition: %w", err)
	}

	return item, exists, nil
}

func (s *CompetitionService) Create(ctx context.Context, name string) (competition.Competition, error) {
	ctx, span := startUsecaseSpan(ctx, "CompetitionService.Create")
	defer span.End()

	name = strings.TrimSpace(name)
	if name == "" {
		return competition.Competition{}, fmt.Errorf("%w: competition name is required", ErrInvalidInput)
	}

	newID, err := s.ids.NewID()
	if err != nil {
		return competition.Competition{}, fmt.Errorf("generate competition id: %w", err)
	}

	item := competition.Competition{
		ID:        newID,
		Name:      name,
		CreatedAt: s.now().UTC(),
	}
	if err := item.Validate(); err != nil {
		return competition.Competition{}, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	if err := s.competitionRepo.Create(ctx, item); err != nil {
		return competition.Competition{}, fmt.Errorf("create competition: %w", err)
	}

	return item, nil
}

// Activate makes one competition active and deactivates the rest.
func (s *CompetitionService) Activate(ctx context.Context, competitionID string) error {
	ctx, span := startUsecaseSpan(ctx, "CompetitionService.Activate")
	defer span.End()

	competitionID = strings.TrimSpace(competitionID)
	if competitionID == "" {
		return fmt.Errorf("%w: competition id is required", ErrInvalidInput)
	}

	_, exists, err := s.competitionRepo.GetByID(ctx, competitionID)
	if err != nil {
		return fmt.Errorf("get competition: %w", err)
	}
	if !exists {
		return fmt.Errorf("%w: competition=%s", ErrNotFound, competitionID)
	}

	if err := s.competitionRepo.SetActive(ctx, competitionID); err != nil {
		return fmt.Errorf("activate competition: %w", err)
	}

	return nil
}
