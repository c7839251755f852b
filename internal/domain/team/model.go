package team

import "fmt"

// Team is immutable reference data for a club.
type Team struct {
	ID    string
	Name  string
	Short string
}

func (t Team) Validate() error {
	if t.ID == "" {
		return fmt.Errorf("team id is required")
	}
	if t.Name == "" {
		return fmt.Errorf("team name is required")
	}
	if t.Short == "" {
		return fmt.Errorf("team short name is required")
	}

	return nil
}
