package mojang

import "errors"

// Sentinel kinds for profile lookups.
var (
	ErrProfileNotFound = errors.New("profile not found")
	ErrInvalidName     = errors.New("invalid player name")
)
