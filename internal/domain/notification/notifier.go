package notification

import (
	"context"
	"time"
)

// Kind selects the message template.
type Kind string

const (
	// KindRoundActive tells players a round opened for predictions.
	KindRoundActive Kind = "round_active"
	// KindRoundFinal tells players a round was settled.
	KindRoundFinal Kind = "round_final"
)

// Recipient is one player to notify.
type Recipient struct {
	UserID string
	Name   string
	Email  string
}

// RoundInfo is the template payload shared by both kinds.
type RoundInfo struct {
	RoundNumber     int
	CompetitionName string
	Deadline        time.Time
	// WinnerNames is only set for KindRoundFinal.
	WinnerNames []string
}

// Result reports a best-effort fanout. Failed delivery never fails the
// operation that triggered it.
type Result struct {
	Sent   int
	Failed int
}

// Notifier sends round lifecycle emails to players.
type Notifier interface {
	NotifyRound(ctx context.Context, kind Kind, info RoundInfo, recipients []Recipient) (Result, error)
}
