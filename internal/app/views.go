package service

import (
	"context"
	"fmt"
	"maps"
	"net/url"
	"slices"

	"github.com/okian/herostats/internal/domain/leveling"
	"github.com/okian/herostats/internal/domain/model"
	"github.com/okian/herostats/internal/domain/types"
	"github.com/okian/herostats/pkg/metrics"
)

// Player builds the detail view for a player UUID or name.
func (s *Service) Player(ctx context.Context, identifier string) (types.PlayerView, error) {
	id, known, err := s.resolveID(ctx, identifier)
	if err != nil {
		return types.PlayerView{}, err
	}
	rec, err := s.fetchPlayer(ctx, id)
	if err != nil {
		return types.PlayerView{}, err
	}
	if rec.Name == "" {
		rec.Name = known
	}

	all := model.Statistics()
	s.refreshPool(ctx, all...)
	s.pool.Upsert(ctx, rec)

	view := types.PlayerView{
		PlayerID:        rec.PlayerID,
		Name:            s.resolveNow(ctx, &rec),
		AvatarURL:       s.AvatarURL(rec.PlayerID),
		TotalExperience: leveling.TotalExperience(rec.Heroes),
		Stats:           make([]types.StatView, 0, len(all)),
		PoolSize:        s.pool.Size(),
	}
	for _, stat := range all {
		value := rec.Value(stat)
		view.Stats = append(view.Stats, types.StatView{
			Statistic: stat,
			Value:     value,
			Podium:    leveling.PodiumRank(value, s.pool.ValuesFor(ctx, stat)),
		})
	}
	view.Heroes, view.TotalLevel = s.heroViews(ctx, rec.Heroes)

	metrics.RecordPlayerView()
	return view, nil
}

// Leaderboard returns one page of players sorted by stat. The page is merged
// into the rank pool and unknown names are queued for resolution.
func (s *Service) Leaderboard(ctx context.Context, stat model.Statistic, page int) ([]types.LeaderboardRow, error) {
	if page < 1 || page > s.maxPage {
		return nil, fmt.Errorf("%w: page must be between 1 and %d", ErrBadRequest, s.maxPage)
	}
	stats, err := s.provider()
	if err != nil {
		return nil, err
	}
	records, err := stats.TopPlayers(ctx, stat, page)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrUpstream, err)
	}
	metrics.RecordLeaderboardPage()

	s.pool.Merge(ctx, stat, records)
	pool := s.pool.ValuesFor(ctx, stat)

	// A page longer than configured means the upstream page size grew.
	offset := (page - 1) * max(s.pageSize, len(records))
	rows := make([]types.LeaderboardRow, 0, len(records))
	for i := range records {
		rec := &records[i]
		if rec.PlayerID == "" {
			continue
		}
		value := rec.Value(stat)
		_, total := s.heroViews(ctx, rec.Heroes)
		rows = append(rows, types.LeaderboardRow{
			Position:   offset + len(rows) + 1,
			PlayerID:   rec.PlayerID,
			Name:       s.displayName(ctx, rec),
			AvatarURL:  s.AvatarURL(rec.PlayerID),
			Statistic:  stat,
			Value:      value,
			Podium:     leveling.PodiumRank(value, pool),
			TotalLevel: total,
		})
	}
	return rows, nil
}

// Rank returns a player's podium rank for stat against the current pool.
func (s *Service) Rank(ctx context.Context, identifier string, stat model.Statistic) (types.RankView, error) {
	id, known, err := s.resolveID(ctx, identifier)
	if err != nil {
		return types.RankView{}, err
	}
	rec, err := s.fetchPlayer(ctx, id)
	if err != nil {
		return types.RankView{}, err
	}
	if rec.Name == "" {
		rec.Name = known
	}
	s.refreshPool(ctx, stat)
	s.pool.Upsert(ctx, rec)

	value := rec.Value(stat)
	return types.RankView{
		PlayerID:  rec.PlayerID,
		Name:      s.displayName(ctx, &rec),
		Statistic: stat,
		Value:     value,
		Podium:    leveling.PodiumRank(value, s.pool.ValuesFor(ctx, stat)),
		PoolSize:  s.pool.Size(),
	}, nil
}

// AvatarURL returns the head render for a player UUID or name.
func (s *Service) AvatarURL(idOrName string) string {
	return s.avatarBaseURL + "/avatar/" + url.PathEscape(idOrName)
}

// heroViews derives per-hero and per-ability levels in name order and
// returns them with the total level, the sum of hero levels.
func (s *Service) heroViews(ctx context.Context, tree model.SkillTree) ([]types.HeroView, int) {
	heroes := make([]types.HeroView, 0, len(tree))
	total := 0
	for _, hero := range slices.Sorted(maps.Keys(tree)) {
		skills := tree[hero]
		xp := leveling.HeroExperience(skills)
		scale := s.scales.Scale(ctx, hero)
		hv := types.HeroView{
			Hero:       hero,
			Experience: xp,
			LevelScale: scale,
			Level:      leveling.HeroLevel(xp, scale),
			Progress:   leveling.LevelProgress(xp, scale),
		}
		for _, skill := range slices.Sorted(maps.Keys(skills)) {
			abilities := skills[skill]
			for _, ability := range slices.Sorted(maps.Keys(abilities)) {
				axp := abilities[ability].ExperiencePoints
				ascale := s.scales.AbilityScale(ability)
				hv.Abilities = append(hv.Abilities, types.AbilityView{
					Skill:      skill,
					Ability:    ability,
					Experience: axp,
					LevelScale: ascale,
					Level:      leveling.HeroLevel(axp, ascale),
					Progress:   leveling.LevelProgress(axp, ascale),
				})
				metrics.RecordLevelComputation()
			}
		}
		metrics.RecordLevelComputation()
		total += hv.Level
		heroes = append(heroes, hv)
	}
	return heroes, total
}
