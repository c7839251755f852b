package competition

import (
	"fmt"
	"time"
)

// Competition is one season of the league. Player-facing views always
// resolve against the single active competition.
type Competition struct {
	ID        string
	Name      string
	IsActive  bool
	CreatedAt time.Time
}

func (c Competition) Validate() error {
	if c.ID == "" {
		return fmt.Errorf("competition id is required")
	}
	if c.Name == "" {
		return fmt.Errorf("competition name is required")
	}

	return nil
}
