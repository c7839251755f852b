package match

import (
	"fmt"
	"time"
)

// Result is a match outcome: home win, draw, or away win.
// The empty string means no result has been entered yet.
type Result string

const (
	ResultNone Result = ""
	ResultHome Result = "H"
	ResultDraw Result = "U"
	ResultAway Result = "B"
)

func (r Result) Valid() bool {
	switch r {
	case ResultHome, ResultDraw, ResultAway:
		return true
	default:
		return false
	}
}

// Status tracks whether a match is still expected to be played as part
// of its round.
type Status string

const (
	StatusScheduled Status = "scheduled"
	StatusPostponed Status = "postponed"
)

// Match is one fixture inside a round. A postponed match keeps its row
// but is detached from the round and excluded from scoring until it is
// rescheduled into a standalone round.
type Match struct {
	ID             string
	RoundID        string
	HomeTeamID     string
	AwayTeamID     string
	KickoffAt      time.Time
	Status         Status
	IncludeInRound bool
	IsMatchOfWeek  bool
	Result         Result
	CreatedAt      time.Time
}

func (m Match) Validate() error {
	if m.HomeTeamID == "" || m.AwayTeamID == "" {
		return fmt.Errorf("match needs both teams")
	}
	if m.HomeTeamID == m.AwayTeamID {
		return fmt.Errorf("match teams must differ")
	}
	if m.Result != ResultNone && !m.Result.Valid() {
		return fmt.Errorf("unknown match result %q", m.Result)
	}

	return nil
}

// HasResult reports whether a final result has been entered.
func (m Match) HasResult() bool {
	return m.Result.Valid()
}

// Counted reports whether the match takes part in round scoring and in
// the completeness checks for finalization.
func (m Match) Counted() bool {
	return m.IncludeInRound && m.Status != StatusPostponed
}
