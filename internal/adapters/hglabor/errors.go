package hglabor

import "errors"

// Sentinel kinds for stats API errors.
var (
	ErrPlayerNotFound  = errors.New("player not found")
	ErrInvalidPlayerID = errors.New("invalid player id")
	ErrInvalidPage     = errors.New("invalid page")
	ErrHeroNotFound    = errors.New("hero not found")
)
