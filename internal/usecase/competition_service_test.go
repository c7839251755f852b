package usecase

import (
	"errors"
	"testing"

	"github.com/thehubfc/prediction-league/internal/infrastructure/repository/memory"
	idgen "github.com/thehubfc/prediction-league/internal/platform/id"
)

func TestCompetitionService_CreateAndActivate(t *testing.T) {
	repo := memory.NewCompetitionRepository(memory.SeedCompetitions())
	svc := NewCompetitionService(repo, idgen.NewRandomGenerator())

	created, err := svc.Create(t.Context(), "  Eliteserien 2027 ")
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}
	if created.Name != "Eliteserien 2027" {
		t.Fatalf("name not trimmed: %q", created.Name)
	}
	if created.IsActive {
		t.Fatal("new competitions start inactive")
	}

	if err := svc.Activate(t.Context(), created.ID); err != nil {
		t.Fatalf("activate failed: %v", err)
	}

	active, exists, err := svc.GetActive(t.Context())
	if err != nil || !exists {
		t.Fatalf("get active failed: exists=%v err=%v", exists, err)
	}
	if active.ID != created.ID {
		t.Fatalf("expected %s active, got %s", created.ID, active.ID)
	}

	// The previously active competition must have been cleared.
	old, _, _ := repo.GetByID(t.Context(), memory.CompetitionIDEliteserien2026)
	if old.IsActive {
		t.Fatal("activating one competition must deactivate the rest")
	}
}

func TestCompetitionService_Activate_Unknown(t *testing.T) {
	repo := memory.NewCompetitionRepository(memory.SeedCompetitions())
	svc := NewCompetitionService(repo, idgen.NewRandomGenerator())

	err := svc.Activate(t.Context(), "missing")
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestCompetitionService_Create_RequiresName(t *testing.T) {
	repo := memory.NewCompetitionRepository(nil)
	svc := NewCompetitionService(repo, idgen.NewRandomGenerator())

	_, err := svc.Create(t.Context(), "   ")
	if !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}
}
