package usecase

import "errors"

var (
	ErrInvalidInput          = errors.New("invalid input")
	ErrNotFound              = errors.New("resource not found")
	ErrUnauthorized          = errors.New("unauthorized")
	ErrForbidden             = errors.New("forbidden")
	ErrRoundLocked           = errors.New("round is locked")
	ErrRoundHidden           = errors.New("round is not published")
	ErrDependencyUnavailable = errors.New("dependency unavailable")
)
