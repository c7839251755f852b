package scoring

import "sort"

// LeaderboardEntry is one player's aggregated season line.
type LeaderboardEntry struct {
	UserID        string
	Name          string
	Rank          int
	TotalPoints   int
	RoundsPlayed  int
	AvgPerRound   float64
	RoundWins     int
	Correct       int
	AwayCorrect   int
	BankerNet     int
	BankerCorrect int
	BankerWrong   int
}

// Aggregate folds settled per-round stats into a ranked leaderboard.
// Round wins are decided per round under the policy; ties all count.
// Names come from the given lookup and may be empty for unknown users.
func Aggregate(statsByRound map[string][]UserRoundStats, names map[string]string, policy WinnerPolicy) []LeaderboardEntry {
	byUser := make(map[string]*LeaderboardEntry)
	entry := func(userID string) *LeaderboardEntry {
		e := byUser[userID]
		if e == nil {
			e = &LeaderboardEntry{UserID: userID, Name: names[userID]}
			byUser[userID] = e
		}
		return e
	}

	for _, stats := range statsByRound {
		for _, s := range stats {
			e := entry(s.UserID)
			e.TotalPoints += s.Points
			e.RoundsPlayed++
			e.Correct += s.Correct
			e.AwayCorrect += s.AwayCorrect
			e.BankerNet += s.BankerNet
			e.BankerCorrect += s.BankerCorrect
			e.BankerWrong += s.BankerWrong
		}
		for _, winner := range RoundWinners(stats, policy) {
			entry(winner).RoundWins++
		}
	}

	out := make([]LeaderboardEntry, 0, len(byUser))
	for _, e := range byUser {
		if e.RoundsPlayed > 0 {
			e.AvgPerRound = float64(e.TotalPoints) / float64(e.RoundsPlayed)
		}
		out = append(out, *e)
	}
	sort.SliceStable(out, func(i, j int) bool {
		a, b := out[i], out[j]
		if a.TotalPoints != b.TotalPoints {
			return a.TotalPoints > b.TotalPoints
		}
		if a.RoundWins != b.RoundWins {
			return a.RoundWins > b.RoundWins
		}
		return a.Name < b.Name
	})
	for i := range out {
		out[i].Rank = i + 1
	}

	return out
}
