package scoring

import (
	"sort"

	"github.com/thehubfc/prediction-league/internal/domain/match"
	"github.com/thehubfc/prediction-league/internal/domain/prediction"
	"github.com/thehubfc/prediction-league/internal/domain/round"
)

// UserRoundStats is one player's settled outcome for one round.
type UserRoundStats struct {
	UserID        string
	RoundID       string
	Points        int
	Correct       int
	AwayCorrect   int
	// BankerNet is how many points the banker pick added or removed
	// compared to playing the same pick without a banker.
	BankerNet     int
	BankerCorrect int
	BankerWrong   int
	Predicted     int
}

// ScoreRound settles a round: for every player with at least one pick
// on a counted match it computes points and counters. Matches that are
// postponed, excluded, or still without a result contribute nothing.
// The result is sorted by user ID so output is deterministic.
func ScoreRound(r round.Round, matches []match.Match, preds []prediction.Prediction) []UserRoundStats {
	byMatch := make(map[string]match.Match, len(matches))
	for _, m := range matches {
		if m.Counted() && m.HasResult() {
			byMatch[m.ID] = m
		}
	}

	byUser := make(map[string]*UserRoundStats)
	for _, p := range preds {
		m, ok := byMatch[p.MatchID]
		if !ok {
			continue
		}
		stats := byUser[p.UserID]
		if stats == nil {
			stats = &UserRoundStats{UserID: p.UserID, RoundID: r.ID}
			byUser[p.UserID] = stats
		}

		correct := p.Pick == m.Result
		banker := p.IsBanker && r.Type == round.TypeRegular
		pts := Points(correct, banker, m.IsMatchOfWeek, r.Type)

		stats.Predicted++
		stats.Points += pts
		if correct {
			stats.Correct++
			if m.Result == match.ResultAway {
				stats.AwayCorrect++
			}
		}
		if banker {
			stats.BankerNet += pts - Points(correct, false, m.IsMatchOfWeek, r.Type)
			if correct {
				stats.BankerCorrect++
			} else {
				stats.BankerWrong++
			}
		}
	}

	out := make([]UserRoundStats, 0, len(byUser))
	for _, stats := range byUser {
		out = append(out, *stats)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].UserID < out[j].UserID })

	return out
}

// WinnerPolicy controls when a round produces winners at all.
type WinnerPolicy struct {
	// MinParticipants is the smallest number of players with picks a
	// round needs before anyone can win it.
	MinParticipants int
	// AllowZeroPointWinner lets a round be won on zero or negative
	// points. When false such rounds have no winner.
	AllowZeroPointWinner bool
}

// DefaultWinnerPolicy matches historical league behaviour.
var DefaultWinnerPolicy = WinnerPolicy{MinParticipants: 1, AllowZeroPointWinner: true}

// RoundWinners returns the user IDs sharing the highest score of the
// round. Ties all win. An empty slice means the round has no winner
// under the policy.
func RoundWinners(stats []UserRoundStats, policy WinnerPolicy) []string {
	if len(stats) == 0 || len(stats) < policy.MinParticipants {
		return nil
	}

	best := stats[0].Points
	for _, s := range stats[1:] {
		if s.Points > best {
			best = s.Points
		}
	}
	if best <= 0 && !policy.AllowZeroPointWinner {
		return nil
	}

	var winners []string
	for _, s := range stats {
		if s.Points == best {
			winners = append(winners, s.UserID)
		}
	}
	return winners
}
