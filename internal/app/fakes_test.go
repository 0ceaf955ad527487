package service_test

import (
	"context"
	"sync"

	"github.com/okian/herostats/internal/adapters/hglabor"
	"github.com/okian/herostats/internal/adapters/mojang"
	"github.com/okian/herostats/internal/domain/model"
	"github.com/okian/herostats/pkg/logger"
)

func init() {
	if err := logger.Init(); err != nil {
		panic(err)
	}
}

const (
	steveID = "8667ba71-b85a-4004-af54-457a9734eed7"
	alexID  = "ec561538-f3fd-461d-aff5-086b22154bce"
	herobID = "f84c6a79-0a4e-45e0-879b-cd49ebd4c4e2"
)

type fakeStats struct {
	mu       sync.Mutex
	top      []model.StatRecord
	players  map[string]model.StatRecord
	topErr   error
	topCalls int
	pages    []int
}

func newFakeStats() *fakeStats {
	steve := model.StatRecord{
		PlayerID: steveID, Kills: 50, Deaths: 3, Bounty: 7, XP: 1215,
		Heroes: model.SkillTree{
			"aang": {"air": {"gust": {ExperiencePoints: 600}, "glide": {ExperiencePoints: 300}}},
			"katara": {"water": {"wave": {ExperiencePoints: 315}}},
		},
	}
	alex := model.StatRecord{PlayerID: alexID, Kills: 40, Deaths: 9, XP: 2520,
		Heroes: model.SkillTree{"toph": {"earth": {"quake": {ExperiencePoints: 2520}}}}}
	herob := model.StatRecord{PlayerID: herobID, Name: "Herobrine", Kills: 30, Deaths: 9}
	return &fakeStats{
		top: []model.StatRecord{steve, alex, herob},
		players: map[string]model.StatRecord{
			steveID: steve,
			alexID:  alex,
			herobID: herob,
		},
	}
}

func (f *fakeStats) TopPlayers(_ context.Context, _ model.Statistic, page int) ([]model.StatRecord, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.topCalls++
	f.pages = append(f.pages, page)
	if f.topErr != nil {
		return nil, f.topErr
	}
	return append([]model.StatRecord(nil), f.top...), nil
}

func (f *fakeStats) Player(_ context.Context, id string) (model.StatRecord, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	rec, ok := f.players[id]
	if !ok {
		return model.StatRecord{}, hglabor.ErrPlayerNotFound
	}
	return rec, nil
}

func (f *fakeStats) setKills(id string, kills int64) {
	f.mu.Lock()
	defer f.mu.Unlock()
	rec := f.players[id]
	rec.Kills = kills
	f.players[id] = rec
}

func (f *fakeStats) calls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.topCalls
}

type fakeResolver struct {
	mu    sync.Mutex
	names map[string]string
	err   error
}

func newFakeResolver() *fakeResolver {
	return &fakeResolver{names: map[string]string{steveID: "Steve", alexID: "Alex"}}
}

func (r *fakeResolver) ProfileName(_ context.Context, id string) (string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.err != nil {
		return "", r.err
	}
	name, ok := r.names[id]
	if !ok {
		return "", mojang.ErrProfileNotFound
	}
	return name, nil
}

func (r *fakeResolver) UUIDFor(_ context.Context, name string) (string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for id, n := range r.names {
		if n == name {
			return id, nil
		}
	}
	return "", mojang.ErrProfileNotFound
}

type countingSource struct {
	mu    sync.Mutex
	asked map[string]int
}

func (c *countingSource) HeroMetadata(_ context.Context, hero string) (model.HeroMetadata, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.asked == nil {
		c.asked = map[string]int{}
	}
	c.asked[hero]++
	return model.HeroMetadata{Name: hero, LevelScale: 315}, nil
}

func (c *countingSource) total() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	n := 0
	for _, v := range c.asked {
		n += v
	}
	return n
}
