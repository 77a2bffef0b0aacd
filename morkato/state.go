package morkato

import (
	"context"
	"fmt"
	"sync"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/morkato/morkato-bot/api"
)

// State is the in-memory cache of guilds and the entities they own. It is
// the single owner of every entity; entities only hold back-references.
type State struct {
	http   *api.Client
	logger zerolog.Logger

	mu     sync.RWMutex
	guilds map[api.Snowflake]*Guild
}

// NewState creates an empty cache backed by client
func NewState(client *api.Client, logger zerolog.Logger) *State {
	return &State{
		http:   client,
		logger: logger.With().Str("component", "state").Logger(),
		guilds: make(map[api.Snowflake]*Guild),
	}
}

// HTTP returns the client used by every entity operation
func (s *State) HTTP() *api.Client {
	return s.http
}

// GetCachedGuild returns a cached guild or nil
func (s *State) GetCachedGuild(id api.Snowflake) *Guild {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.guilds[id]
}

// Guilds returns every cached guild ordered by id
func (s *State) Guilds() []*Guild {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return sortedByID(s.guilds)
}

// FetchGuild returns the cached guild or loads it, together with its arts,
// attacks, abilities and families. Users are loaded lazily.
func (s *State) FetchGuild(ctx context.Context, id api.Snowflake) (*Guild, error) {
	if guild := s.GetCachedGuild(id); guild != nil {
		return guild, nil
	}

	var (
		payload   *api.GuildPayload
		arts      []api.ArtPayload
		abilities []api.AbilityPayload
		families  []api.FamilyPayload
	)

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(4)
	g.Go(func() (err error) {
		payload, err = s.http.FetchGuild(gctx, id)
		return err
	})
	g.Go(func() (err error) {
		arts, err = s.http.FetchArts(gctx, id)
		return err
	})
	g.Go(func() (err error) {
		abilities, err = s.http.FetchAbilities(gctx, id)
		return err
	})
	g.Go(func() (err error) {
		families, err = s.http.FetchFamilies(gctx, id)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("failed to load guild %s: %w", id, err)
	}
	if payload.ID != id {
		return nil, fmt.Errorf("failed to load guild %s: backend returned guild %s", id, payload.ID)
	}

	guild := newGuild(s, *payload)
	for _, p := range arts {
		art := newArt(s, guild, p)
		guild.arts[art.id] = art
		for _, ap := range p.Attacks {
			attack := newAttack(s, guild, art, ap)
			art.attacks[attack.id] = attack
			guild.attacks[attack.id] = attack
		}
	}
	for _, p := range abilities {
		guild.abilities[p.ID] = newAbility(s, guild, p)
	}
	for _, p := range families {
		guild.families[p.ID] = newFamily(s, guild, p)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	// a concurrent load may have finished first; keep the instance others already hold
	if existing, ok := s.guilds[id]; ok {
		return existing, nil
	}
	s.guilds[id] = guild

	s.logger.Debug().
		Stringer("guild", id).
		Int("arts", len(guild.arts)).
		Int("attacks", len(guild.attacks)).
		Int("abilities", len(guild.abilities)).
		Int("families", len(guild.families)).
		Msg("Loaded guild")
	return guild, nil
}

// Forget drops a guild from the cache; the next FetchGuild rebuilds it
func (s *State) Forget(id api.Snowflake) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.guilds, id)
}

// Close drops every cached guild and closes the client session
func (s *State) Close() {
	s.mu.Lock()
	s.guilds = make(map[api.Snowflake]*Guild)
	s.mu.Unlock()
	s.http.Close()
}

// bannerURL resolves a stored banner. cdn:// references are mapped onto the
// CDN host, anything else is returned as is.
func (s *State) bannerURL(banner *string) (string, error) {
	if banner == nil || *banner == "" {
		return "", nil
	}
	if !api.IsCDNReference(*banner) {
		return *banner, nil
	}
	return s.http.ResolveCDN(*banner)
}
