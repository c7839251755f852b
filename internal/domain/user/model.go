package user

import "context"

// Principal is the authenticated caller resolved from a bearer token.
type Principal struct {
	UserID  string
	Email   string
	Name    string
	IsAdmin bool
}

// Player is a registered league member.
type Player struct {
	ID      string
	Name    string
	Email   string
	IsAdmin bool
}

// Repository exposes the player roster.
type Repository interface {
	ListPlayers(ctx context.Context) ([]Player, error)
	GetByID(ctx context.Context, userID string) (Player, bool, error)
}
