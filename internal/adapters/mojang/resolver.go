// Package mojang resolves player identities between UUIDs and display names.
//
// Each lookup asks the primary service first and, on any failure, the
// fallback service. Both must fail for the lookup to fail.
package mojang

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"regexp"
	"strings"

	"github.com/google/uuid"

	"github.com/okian/herostats/internal/adapters/upstream"
	"github.com/okian/herostats/internal/domain/model"
	"github.com/okian/herostats/pkg/logger"
	"github.com/okian/herostats/pkg/metrics"
)

const (
	defaultSessionURL  = "https://sessionserver.mojang.com"
	defaultLookupURL   = "https://api.mojang.com"
	defaultFallbackURL = "https://playerdb.co"
)

// Player names are 3 to 16 word characters.
var namePattern = regexp.MustCompile(`^\w{3,16}$`)

type profileResponse struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

type playerDBResponse struct {
	Success bool `json:"success"`
	Data    struct {
		Player struct {
			ID       string `json:"id"`
			Username string `json:"username"`
		} `json:"player"`
	} `json:"data"`
}

// Resolver looks up profiles with fallback-on-error.
type Resolver struct {
	sessionURL  string
	lookupURL   string
	fallbackURL string
	primary     *upstream.Client
	fallback    *upstream.Client
	logger      logger.Logger
}

// NewResolver returns a resolver for the public services.
func NewResolver(opts ...Option) *Resolver {
	r := &Resolver{
		sessionURL:  defaultSessionURL,
		lookupURL:   defaultLookupURL,
		fallbackURL: defaultFallbackURL,
		logger:      logger.Get().Named("resolver"),
	}
	for _, opt := range opts {
		opt(r)
	}
	if r.primary == nil {
		r.primary = upstream.New("mojang")
	}
	if r.fallback == nil {
		r.fallback = upstream.New("playerdb")
	}
	return r
}

// ProfileName returns the current display name for a player UUID.
func (r *Resolver) ProfileName(ctx context.Context, playerID string) (string, error) {
	id, err := uuid.Parse(playerID)
	if err != nil {
		return "", fmt.Errorf("profile name: %w: %q", ErrProfileNotFound, playerID)
	}
	// The session server wants the undashed form.
	compact := strings.ReplaceAll(id.String(), "-", "")

	p, err := r.resolve(ctx, "profile name",
		func(ctx context.Context) (model.Profile, error) {
			var resp profileResponse
			err := r.primary.GetJSON(ctx, r.sessionURL+"/session/minecraft/profile/"+compact, &resp)
			return model.Profile{ID: resp.ID, Name: resp.Name}, err
		},
		func(ctx context.Context) (model.Profile, error) {
			return r.playerDB(ctx, id.String())
		},
	)
	if err != nil {
		return "", err
	}
	return p.Name, nil
}

// UUIDFor returns the canonical dashed UUID for a player name.
func (r *Resolver) UUIDFor(ctx context.Context, name string) (string, error) {
	if !namePattern.MatchString(name) {
		return "", fmt.Errorf("%w: %q", ErrInvalidName, name)
	}

	p, err := r.resolve(ctx, "uuid",
		func(ctx context.Context) (model.Profile, error) {
			var resp profileResponse
			err := r.primary.GetJSON(ctx, r.lookupURL+"/users/profiles/minecraft/"+url.PathEscape(name), &resp)
			return model.Profile{ID: resp.ID, Name: resp.Name}, err
		},
		func(ctx context.Context) (model.Profile, error) {
			return r.playerDB(ctx, name)
		},
	)
	if err != nil {
		return "", err
	}
	id, err := uuid.Parse(p.ID)
	if err != nil {
		return "", fmt.Errorf("uuid for %s: %w: malformed id %q", name, upstream.ErrUnavailable, p.ID)
	}
	return id.String(), nil
}

func (r *Resolver) playerDB(ctx context.Context, key string) (model.Profile, error) {
	var resp playerDBResponse
	u := r.fallbackURL + "/api/player/minecraft/" + url.PathEscape(key)
	if err := r.fallback.GetJSON(ctx, u, &resp); err != nil {
		// playerdb reports unknown players as 400 with success=false.
		var se *upstream.StatusError
		if errors.As(err, &se) && se.Code == http.StatusBadRequest {
			return model.Profile{}, &upstream.StatusError{Service: se.Service, URL: u, Code: http.StatusNotFound, Body: se.Body}
		}
		return model.Profile{}, err
	}
	if !resp.Success || resp.Data.Player.ID == "" {
		return model.Profile{}, &upstream.StatusError{Service: r.fallback.Service(), URL: u, Code: http.StatusNotFound}
	}
	return model.Profile{ID: resp.Data.Player.ID, Name: resp.Data.Player.Username}, nil
}

type lookupFunc func(ctx context.Context) (model.Profile, error)

func (r *Resolver) resolve(ctx context.Context, what string, primary, fallback lookupFunc) (model.Profile, error) {
	p, perr := primary(ctx)
	if perr == nil && p.Name != "" {
		metrics.RecordNameResolution("primary", "ok")
		return p, nil
	}
	if perr == nil {
		perr = fmt.Errorf("%w: empty profile", upstream.ErrUnavailable)
	}
	metrics.RecordNameResolution("primary", outcome(perr))
	metrics.RecordErrorByComponent("resolver", "fallback")
	r.logger.Debug(ctx, "primary profile lookup failed, trying fallback",
		logger.String("lookup", what),
		logger.Error(perr),
	)

	p, ferr := fallback(ctx)
	if ferr == nil && p.Name != "" {
		metrics.RecordNameResolution("fallback", "ok")
		return p, nil
	}
	if ferr == nil {
		ferr = fmt.Errorf("%w: empty profile", upstream.ErrUnavailable)
	}
	metrics.RecordNameResolution("fallback", outcome(ferr))

	if upstream.IsNotFound(perr) && upstream.IsNotFound(ferr) {
		return model.Profile{}, fmt.Errorf("%s: %w", what, ErrProfileNotFound)
	}
	return model.Profile{}, fmt.Errorf("%s: %w", what, errors.Join(perr, ferr))
}

func outcome(err error) string {
	if upstream.IsNotFound(err) {
		return "not_found"
	}
	return "error"
}
