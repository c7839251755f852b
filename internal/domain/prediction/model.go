package prediction

import (
	"fmt"
	"time"

	"github.com/thehubfc/prediction-league/internal/domain/match"
)

// Prediction is one player's pick for one match. A player has at most
// one prediction per match; saves overwrite in place.
type Prediction struct {
	UserID    string
	MatchID   string
	RoundID   string
	Pick      match.Result
	IsBanker  bool
	UpdatedAt time.Time
}

func (p Prediction) Validate() error {
	if p.UserID == "" {
		return fmt.Errorf("prediction user id is required")
	}
	if p.MatchID == "" {
		return fmt.Errorf("prediction match id is required")
	}
	if !p.Pick.Valid() {
		return fmt.Errorf("unknown prediction pick %q", p.Pick)
	}

	return nil
}
