// Package model contains domain models passed between layers.
package model

import (
	"errors"
	"fmt"
	"strings"
)

// ErrUnknownStatistic is returned when a statistic name is not recognised.
var ErrUnknownStatistic = errors.New("unknown statistic")

// Statistic names a per-player counter that leaderboards can be sorted by.
type Statistic string

// Supported statistics. Values match the upstream API's sort keys.
const (
	StatKills             Statistic = "kills"
	StatDeaths            Statistic = "deaths"
	StatCurrentKillStreak Statistic = "currentKillStreak"
	StatHighestKillStreak Statistic = "highestKillStreak"
	StatBounty            Statistic = "bounty"
	StatXP                Statistic = "xp"
)

// Statistics lists every supported statistic in display order.
func Statistics() []Statistic {
	return []Statistic{
		StatKills,
		StatDeaths,
		StatCurrentKillStreak,
		StatHighestKillStreak,
		StatBounty,
		StatXP,
	}
}

// ParseStatistic resolves a statistic name case-insensitively.
// An empty name selects kills.
func ParseStatistic(name string) (Statistic, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return StatKills, nil
	}
	for _, s := range Statistics() {
		if strings.EqualFold(string(s), name) {
			return s, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownStatistic, name)
}

// AbilityStats holds the experience accumulated by a single ability.
type AbilityStats struct {
	ExperiencePoints int64 `json:"experiencePoints"`
}

// SkillAbilities maps ability name to its stats.
type SkillAbilities map[string]AbilityStats

// HeroSkills maps skill name to the abilities within it.
type HeroSkills map[string]SkillAbilities

// SkillTree maps hero name to that hero's skills.
type SkillTree map[string]HeroSkills

// StatRecord is a snapshot of a player's raw counters.
type StatRecord struct {
	PlayerID          string    `json:"playerId"`
	Name              string    `json:"name,omitempty"`
	Kills             int64     `json:"kills"`
	Deaths            int64     `json:"deaths"`
	CurrentKillStreak int64     `json:"currentKillStreak"`
	HighestKillStreak int64     `json:"highestKillStreak"`
	Bounty            int64     `json:"bounty"`
	XP                int64     `json:"xp"`
	Heroes            SkillTree `json:"heroes"`
}

// Value returns the counter for s, or 0 for an unknown statistic.
func (r *StatRecord) Value(s Statistic) float64 {
	switch s {
	case StatKills:
		return float64(r.Kills)
	case StatDeaths:
		return float64(r.Deaths)
	case StatCurrentKillStreak:
		return float64(r.CurrentKillStreak)
	case StatHighestKillStreak:
		return float64(r.HighestKillStreak)
	case StatBounty:
		return float64(r.Bounty)
	case StatXP:
		return float64(r.XP)
	}
	return 0
}

// HeroMetadata describes static properties of a hero or ability.
type HeroMetadata struct {
	Name       string  `json:"name"`
	LevelScale float64 `json:"levelScale"`
}

// DerivedLevel is a level computed from total experience. It is never stored.
type DerivedLevel struct {
	Level    int     `json:"level"`
	Progress float64 `json:"progress"`
}

// Profile is a resolved identity: a stable UUID plus its current display name.
type Profile struct {
	ID   string
	Name string
}

// ResolveJob asks the resolver to look up the display name for a player id.
type ResolveJob struct {
	JobID    string
	PlayerID string
}
