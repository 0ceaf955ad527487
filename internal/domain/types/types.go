// Package types contains the read shapes returned by the service and API.
package types

import "github.com/okian/herostats/internal/domain/model"

// AbilityView is one ability's experience and derived level.
type AbilityView struct {
	Skill      string  `json:"skill"`
	Ability    string  `json:"ability"`
	Experience int64   `json:"experience"`
	LevelScale float64 `json:"levelScale"`
	Level      int     `json:"level"`
	Progress   float64 `json:"progress"`
}

// HeroView is a hero's aggregated experience, level and abilities.
type HeroView struct {
	Hero       string        `json:"hero"`
	Experience int64         `json:"experience"`
	LevelScale float64       `json:"levelScale"`
	Level      int           `json:"level"`
	Progress   float64       `json:"progress"`
	Abilities  []AbilityView `json:"abilities"`
}

// StatView is one statistic with its podium rank in the comparison pool.
type StatView struct {
	Statistic model.Statistic `json:"statistic"`
	Value     float64         `json:"value"`
	Podium    int             `json:"podium"`
}

// PlayerView is the detail view for one player.
type PlayerView struct {
	PlayerID        string     `json:"playerId"`
	Name            string     `json:"name"`
	AvatarURL       string     `json:"avatarUrl"`
	TotalExperience int64      `json:"totalExperience"`
	TotalLevel      int        `json:"totalLevel"`
	Stats           []StatView `json:"stats"`
	Heroes          []HeroView `json:"heroes"`
	PoolSize        int        `json:"poolSize"`
}

// LeaderboardRow is one line of a leaderboard page.
type LeaderboardRow struct {
	Position   int             `json:"position"`
	PlayerID   string          `json:"playerId"`
	Name       string          `json:"name"`
	AvatarURL  string          `json:"avatarUrl"`
	Statistic  model.Statistic `json:"statistic"`
	Value      float64         `json:"value"`
	Podium     int             `json:"podium"`
	TotalLevel int             `json:"totalLevel"`
}

// RankView is a player's podium rank for one statistic.
type RankView struct {
	PlayerID  string          `json:"playerId"`
	Name      string          `json:"name"`
	Statistic model.Statistic `json:"statistic"`
	Value     float64         `json:"value"`
	Podium    int             `json:"podium"`
	PoolSize  int             `json:"poolSize"`
}
