package competition

import "context"

// Repository describes competition persistence needs from use cases.
type Repository interface {
	List(ctx context.Context) ([]Competition, error)
	GetByID(ctx context.Context, competitionID string) (Competition, bool, error)
	// GetActive returns the competition currently flagged active.
	// A missing active competition is a valid empty state, not an error.
	GetActive(ctx context.Context) (Competition, bool, error)
	Create(ctx context.Context, item Competition) error
	// SetActive flags one competition active and clears the flag on all
	// others in the same statement, keeping the at-most-one invariant.
	SetActive(ctx context.Context, competitionID string) error
}
