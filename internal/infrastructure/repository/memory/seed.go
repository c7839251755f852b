package memory

import (
	"time"

	"github.com/thehubfc/prediction-league/internal/domain/competition"
	"github.com/thehubfc/prediction-league/internal/domain/match"
	"github.com/thehubfc/prediction-league/internal/domain/round"
	"github.com/thehubfc/prediction-league/internal/domain/team"
	"github.com/thehubfc/prediction-league/internal/domain/user"
)

const (
	CompetitionIDEliteserien2026 = "eliteserien-2026"
	CompetitionIDEliteserien2025 = "eliteserien-2025"
)

func SeedCompetitions() []competition.Competition {
	return []competition.Competition{
		{
			ID:        CompetitionIDEliteserien2026,
			Name:      "Eliteserien 2026",
			IsActive:  true,
			CreatedAt: time.Date(2026, 1, 10, 0, 0, 0, 0, time.UTC),
		},
		{
			ID:        CompetitionIDEliteserien2025,
			Name:      "Eliteserien 2025",
			IsActive:  false,
			CreatedAt: time.Date(2025, 1, 12, 0, 0, 0, 0, time.UTC),
		},
	}
}

func SeedTeams() []team.Team {
	return []team.Team{
		{ID: "no-rbk", Name: "Rosenborg", Short: "RBK"},
		{ID: "no-mfk", Name: "Molde", Short: "MFK"},
		{ID: "no-vif", Name: "Vålerenga", Short: "VIF"},
		{ID: "no-bgl", Name: "Bodø/Glimt", Short: "BGL"},
		{ID: "no-brn", Name: "Brann", Short: "BRN"},
		{ID: "no-lsk", Name: "Lillestrøm", Short: "LSK"},
		{ID: "no-vik", Name: "Viking", Short: "VIK"},
		{ID: "no-srp", Name: "Sarpsborg 08", Short: "S08"},
	}
}

func SeedUsers() []user.Player {
	return []user.Player{
		{ID: "user-admin", Name: "Kari Admin", Email: "kari@example.com", IsAdmin: true},
		{ID: "user-1", Name: "Ola Berg", Email: "ola@example.com"},
		{ID: "user-2", Name: "Nina Strand", Email: "nina@example.com"},
		{ID: "user-3", Name: "Per Haug", Email: "per@example.com"},
	}
}

func SeedRounds() []round.Round {
	return []round.Round{
		{
			ID:            "round-1",
			CompetitionID: CompetitionIDEliteserien2026,
			Number:        1,
			Type:          round.TypeRegular,
			Deadline:      time.Date(2026, 4, 6, 16, 0, 0, 0, time.UTC),
			Status:        round.StatusPublished,
			CreatedAt:     time.Date(2026, 3, 30, 9, 0, 0, 0, time.UTC),
		},
		{
			ID:            "round-2",
			CompetitionID: CompetitionIDEliteserien2026,
			Number:        2,
			Type:          round.TypeRegular,
			Deadline:      time.Date(2026, 4, 13, 16, 0, 0, 0, time.UTC),
			Status:        round.StatusScheduled,
			CreatedAt:     time.Date(2026, 4, 7, 9, 0, 0, 0, time.UTC),
		},
	}
}

func SeedMatches() []match.Match {
	return []match.Match{
		{
			ID:             "match-1",
			RoundID:        "round-1",
			HomeTeamID:     "no-rbk",
			AwayTeamID:     "no-mfk",
			KickoffAt:      time.Date(2026, 4, 6, 17, 0, 0, 0, time.UTC),
			Status:         match.StatusScheduled,
			IncludeInRound: true,
			IsMatchOfWeek:  true,
		},
		{
			ID:             "match-2",
			RoundID:        "round-1",
			HomeTeamID:     "no-vif",
			AwayTeamID:     "no-bgl",
			KickoffAt:      time.Date(2026, 4, 6, 17, 0, 0, 0, time.UTC),
			Status:         match.StatusScheduled,
			IncludeInRound: true,
		},
		{
			ID:             "match-3",
			RoundID:        "round-1",
			HomeTeamID:     "no-brn",
			AwayTeamID:     "no-lsk",
			KickoffAt:      time.Date(2026, 4, 6, 19, 0, 0, 0, time.UTC),
			Status:         match.StatusScheduled,
			IncludeInRound: true,
		},
		{
			ID:             "match-4",
			RoundID:        "round-2",
			HomeTeamID:     "no-vik",
			AwayTeamID:     "no-srp",
			KickoffAt:      time.Date(2026, 4, 13, 17, 0, 0, 0, time.UTC),
			Status:         match.StatusScheduled,
			IncludeInRound: true,
		},
	}
}
