package leveling

import "errors"

// Sentinel kinds for level computation errors.
var (
	ErrInvalidExperienceValue = errors.New("invalid experience value")
	ErrInvalidLevelScale      = errors.New("invalid level scale")
)
