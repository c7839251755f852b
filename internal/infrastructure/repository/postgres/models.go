package postgres

import (
	"database/sql"
	"time"
)

type teamTableModel struct {
	ID        int64      `db:"id"`
	PublicID  string     `db:"public_id"`
	Name      string     `db:"name"`
	ShortName string     `db:"short_name"`
	CreatedAt time.Time  `db:"created_at"`
	UpdatedAt time.Time  `db:"updated_at"`
	DeletedAt *time.Time `db:"deleted_at"`
}

type competitionTableModel struct {
	ID        int64      `db:"id"`
	PublicID  string     `db:"public_id"`
	Name      string     `db:"name"`
	IsActive  bool       `db:"is_active"`
	CreatedAt time.Time  `db:"created_at"`
	UpdatedAt time.Time  `db:"updated_at"`
	DeletedAt *time.Time `db:"deleted_at"`
}

type roundTableModel struct {
	ID                  int64      `db:"id"`
	PublicID            string     `db:"public_id"`
	CompetitionPublicID string     `db:"competition_public_id"`
	Number              int        `db:"number"`
	RoundType           string     `db:"round_type"`
	DeadlineAt          time.Time  `db:"deadline_at"`
	Status              string     `db:"status"`
	CreatedAt           time.Time  `db:"created_at"`
	UpdatedAt           time.Time  `db:"updated_at"`
	DeletedAt           *time.Time `db:"deleted_at"`
}

type matchTableModel struct {
	ID               int64          `db:"id"`
	PublicID         string         `db:"public_id"`
	RoundPublicID    sql.NullString `db:"round_public_id"`
	HomeTeamPublicID string         `db:"home_team_public_id"`
	AwayTeamPublicID string         `db:"away_team_public_id"`
	KickoffAt        time.Time      `db:"kickoff_at"`
	Status           string         `db:"status"`
	IncludeInRound   bool           `db:"include_in_round"`
	IsMatchOfWeek    bool           `db:"is_match_of_week"`
	Result           sql.NullString `db:"result"`
	CreatedAt        time.Time      `db:"created_at"`
	UpdatedAt        time.Time      `db:"updated_at"`
	DeletedAt        *time.Time     `db:"deleted_at"`
}

type predictionTableModel struct {
	ID            int64      `db:"id"`
	UserID        string     `db:"user_id"`
	MatchPublicID string     `db:"match_public_id"`
	RoundPublicID string     `db:"round_public_id"`
	Pick          string     `db:"pick"`
	IsBanker      bool       `db:"is_banker"`
	CreatedAt     time.Time  `db:"created_at"`
	UpdatedAt     time.Time  `db:"updated_at"`
	DeletedAt     *time.Time `db:"deleted_at"`
}

type userTableModel struct {
	ID        int64      `db:"id"`
	PublicID  string     `db:"public_id"`
	Name      string     `db:"name"`
	Email     string     `db:"email"`
	IsAdmin   bool       `db:"is_admin"`
	CreatedAt time.Time  `db:"created_at"`
	UpdatedAt time.Time  `db:"updated_at"`
	DeletedAt *time.Time `db:"deleted_at"`
}

type roundStatsTableModel struct {
	ID            int64      `db:"id"`
	RoundPublicID string     `db:"round_public_id"`
	UserID        string     `db:"user_id"`
	Points        int        `db:"points"`
	CorrectCount  int        `db:"correct_count"`
	AwayCorrect   int        `db:"away_correct"`
	BankerNet     int        `db:"banker_net"`
	BankerCorrect int        `db:"banker_correct"`
	BankerWrong   int        `db:"banker_wrong"`
	Predicted     int        `db:"predicted"`
	CreatedAt     time.Time  `db:"created_at"`
	UpdatedAt     time.Time  `db:"updated_at"`
	DeletedAt     *time.Time `db:"deleted_at"`
}

type teamInsertModel struct {
	PublicID  string `db:"public_id"`
	Name      string `db:"name"`
	ShortName string `db:"short_name"`
}

type competitionInsertModel struct {
	PublicID string `db:"public_id"`
	Name     string `db:"name"`
	IsActive bool   `db:"is_active"`
}

type roundInsertModel struct {
	PublicID            string    `db:"public_id"`
	CompetitionPublicID string    `db:"competition_public_id"`
	Number              int       `db:"number"`
	RoundType           string    `db:"round_type"`
	DeadlineAt          time.Time `db:"deadline_at"`
	Status              string    `db:"status"`
}

type matchInsertModel struct {
	PublicID         string         `db:"public_id"`
	RoundPublicID    sql.NullString `db:"round_public_id"`
	HomeTeamPublicID string         `db:"home_team_public_id"`
	AwayTeamPublicID string         `db:"away_team_public_id"`
	KickoffAt        time.Time      `db:"kickoff_at"`
	Status           string         `db:"status"`
	IncludeInRound   bool           `db:"include_in_round"`
	IsMatchOfWeek    bool           `db:"is_match_of_week"`
	Result           sql.NullString `db:"result"`
}

type predictionInsertModel struct {
	UserID        string `db:"user_id"`
	MatchPublicID string `db:"match_public_id"`
	RoundPublicID string `db:"round_public_id"`
	Pick          string `db:"pick"`
	IsBanker      bool   `db:"is_banker"`
}

type userInsertModel struct {
	PublicID string `db:"public_id"`
	Name     string `db:"name"`
	Email    string `db:"email"`
	IsAdmin  bool   `db:"is_admin"`
}

type roundStatsInsertModel struct {
	RoundPublicID string `db:"round_public_id"`
	UserID        string `db:"user_id"`
	Points        int    `db:"points"`
	CorrectCount  int    `db:"correct_count"`
	AwayCorrect   int    `db:"away_correct"`
	BankerNet     int    `db:"banker_net"`
	BankerCorrect int    `db:"banker_correct"`
	BankerWrong   int    `db:"banker_wrong"`
	Predicted     int    `db:"predicted"`
}
