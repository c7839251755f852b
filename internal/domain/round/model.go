package round

import (
	"fmt"
	"time"
)

// Status is the admin-controlled lifecycle status of a round.
type Status string

const (
	// StatusScheduled means the admin is still authoring the round.
	// Players cannot see it.
	StatusScheduled Status = "scheduled"
	// StatusPublished means the round is visible to players. Whether
	// predictions are editable depends on the deadline, see StateAt.
	StatusPublished Status = "published"
	// StatusFinal means all results are in and points are settled.
	StatusFinal Status = "final"
)

// Type distinguishes regular rounds from standalone sets built around a
// single postponed match. Banker and match-of-the-week scoring only
// apply to regular rounds.
type Type string

const (
	TypeRegular    Type = "regular"
	TypeStandalone Type = "standalone"
)

// PlayerState is the state a player observes, derived from the status
// and the deadline.
type PlayerState string

const (
	// StateHidden: round not yet published.
	StateHidden PlayerState = "hidden"
	// StateOpen: published and before the deadline, predictions editable.
	StateOpen PlayerState = "open"
	// StateLocked: published and past the deadline, predictions read-only.
	StateLocked PlayerState = "locked"
	// StateFinal: results entered and points settled.
	StateFinal PlayerState = "final"
)

// Round is one set of matches played against a shared deadline.
type Round struct {
	ID            string
	CompetitionID string
	Number        int
	Type          Type
	Deadline      time.Time
	Status        Status
	CreatedAt     time.Time
}

func (r Round) Validate() error {
	if r.CompetitionID == "" {
		return fmt.Errorf("round competition id is required")
	}
	if r.Number <= 0 {
		return fmt.Errorf("round number must be greater than zero")
	}
	if r.Deadline.IsZero() {
		return fmt.Errorf("round deadline is required")
	}
	switch r.Type {
	case TypeRegular, TypeStandalone:
	default:
		return fmt.Errorf("unknown round type %q", r.Type)
	}

	return nil
}

// StateAt derives the player-facing state at the given instant.
func (r Round) StateAt(now time.Time) PlayerState {
	switch r.Status {
	case StatusFinal:
		return StateFinal
	case StatusPublished:
		if now.Before(r.Deadline) {
			return StateOpen
		}
		return StateLocked
	default:
		return StateHidden
	}
}

// IsOpenAt reports whether predictions are editable at the given instant.
func (r Round) IsOpenAt(now time.Time) bool {
	return r.StateAt(now) == StateOpen
}
