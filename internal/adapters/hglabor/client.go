// Package hglabor reads player statistics from the HGLabor stats API.
package hglabor

import (
	"context"
	"fmt"
	"net/url"
	"strconv"

	"github.com/google/uuid"

	"github.com/okian/herostats/internal/adapters/upstream"
	"github.com/okian/herostats/internal/domain/model"
)

const (
	defaultBaseURL = "https://api.hglabor.de"
	serviceName    = "hglabor"
)

// Client fetches leaderboards, player records and hero metadata.
type Client struct {
	baseURL string
	http    *upstream.Client
}

// New returns a client for the public API unless WithBaseURL says otherwise.
func New(opts ...Option) *Client {
	c := &Client{baseURL: defaultBaseURL}
	for _, opt := range opts {
		opt(c)
	}
	if c.http == nil {
		c.http = upstream.New(serviceName)
	}
	return c
}

// TopPlayers returns one page of the leaderboard sorted by stat. Pages start at 1.
func (c *Client) TopPlayers(ctx context.Context, stat model.Statistic, page int) ([]model.StatRecord, error) {
	if page < 1 {
		return nil, fmt.Errorf("%w: %d", ErrInvalidPage, page)
	}
	q := url.Values{}
	q.Set("sort", string(stat))
	q.Set("page", strconv.Itoa(page))

	var records []model.StatRecord
	if err := c.http.GetJSON(ctx, c.baseURL+"/stats/ffa/top?"+q.Encode(), &records); err != nil {
		return nil, fmt.Errorf("top players by %s page %d: %w", stat, page, err)
	}
	return records, nil
}

// Player returns the record for a player UUID. Unknown players yield
// ErrPlayerNotFound, distinct from transport failures.
func (c *Client) Player(ctx context.Context, playerID string) (model.StatRecord, error) {
	id, err := uuid.Parse(playerID)
	if err != nil {
		return model.StatRecord{}, fmt.Errorf("%w: %q", ErrInvalidPlayerID, playerID)
	}

	var rec model.StatRecord
	if err := c.http.GetJSON(ctx, c.baseURL+"/stats/ffa/"+id.String(), &rec); err != nil {
		if upstream.IsNotFound(err) {
			return model.StatRecord{}, fmt.Errorf("%w: %s", ErrPlayerNotFound, id)
		}
		return model.StatRecord{}, fmt.Errorf("player %s: %w", id, err)
	}
	if rec.PlayerID == "" {
		rec.PlayerID = id.String()
	}
	return rec, nil
}

// HeroMetadata returns static hero properties such as its level scale.
func (c *Client) HeroMetadata(ctx context.Context, hero string) (model.HeroMetadata, error) {
	var meta model.HeroMetadata
	if err := c.http.GetJSON(ctx, c.baseURL+"/stats/ffa/heroes/"+url.PathEscape(hero), &meta); err != nil {
		if upstream.IsNotFound(err) {
			return model.HeroMetadata{}, fmt.Errorf("%w: %s", ErrHeroNotFound, hero)
		}
		return model.HeroMetadata{}, fmt.Errorf("hero %s: %w", hero, err)
	}
	if meta.Name == "" {
		meta.Name = hero
	}
	return meta, nil
}
