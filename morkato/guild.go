package morkato

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/morkato/morkato-bot/api"
)

// Guild owns the arts, attacks, abilities, families and users of a server.
// mu guards every collection, including the attack set of each art, so an
// attack is always inserted into and removed from both places at once.
type Guild struct {
	state *State
	id    api.Snowflake

	mu        sync.RWMutex
	payload   api.GuildPayload
	arts      map[api.Snowflake]*Art
	attacks   map[api.Snowflake]*Attack
	abilities map[api.Snowflake]*Ability
	families  map[api.Snowflake]*Family
	users     map[api.Snowflake]*User
}

func newGuild(state *State, payload api.GuildPayload) *Guild {
	return &Guild{
		state:     state,
		id:        payload.ID,
		payload:   payload,
		arts:      make(map[api.Snowflake]*Art),
		attacks:   make(map[api.Snowflake]*Attack),
		abilities: make(map[api.Snowflake]*Ability),
		families:  make(map[api.Snowflake]*Family),
		users:     make(map[api.Snowflake]*User),
	}
}

func (g *Guild) ID() api.Snowflake {
	return g.id
}

// Payload returns a copy of the guild settings
func (g *Guild) Payload() api.GuildPayload {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return g.payload
}

func (g *Guild) CreatedAt() time.Time {
	return SnowflakeTime(g.id)
}

// Arts returns the cached arts ordered by id
func (g *Guild) Arts() []*Art {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return sortedByID(g.arts)
}

// Attacks returns every cached attack of the guild ordered by id
func (g *Guild) Attacks() []*Attack {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return sortedByID(g.attacks)
}

func (g *Guild) Abilities() []*Ability {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return sortedByID(g.abilities)
}

func (g *Guild) Families() []*Family {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return sortedByID(g.families)
}

// Users returns the players loaded so far
func (g *Guild) Users() []*User {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return sortedByID(g.users)
}

func (g *Guild) GetArt(id api.Snowflake) *Art {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return g.arts[id]
}

func (g *Guild) GetAttack(id api.Snowflake) *Attack {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return g.attacks[id]
}

func (g *Guild) GetAbility(id api.Snowflake) *Ability {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return g.abilities[id]
}

func (g *Guild) GetFamily(id api.Snowflake) *Family {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return g.families[id]
}

// GetCachedUser returns a loaded player or nil
func (g *Guild) GetCachedUser(id api.Snowflake) *User {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return g.users[id]
}

// CreateArt creates an art and caches it
func (g *Guild) CreateArt(ctx context.Context, p api.ArtCreate) (*Art, error) {
	payload, err := g.state.http.CreateArt(ctx, g.id, p)
	if err != nil {
		return nil, err
	}
	art := newArt(g.state, g, *payload)

	g.mu.Lock()
	g.arts[art.id] = art
	g.mu.Unlock()
	return art, nil
}

// CreateAbility creates an ability and caches it
func (g *Guild) CreateAbility(ctx context.Context, p api.TraitCreate) (*Ability, error) {
	payload, err := g.state.http.CreateAbility(ctx, g.id, p)
	if err != nil {
		return nil, err
	}
	ability := newAbility(g.state, g, *payload)

	g.mu.Lock()
	g.abilities[ability.id] = ability
	g.mu.Unlock()
	return ability, nil
}

// CreateFamily creates a family and caches it
func (g *Guild) CreateFamily(ctx context.Context, p api.TraitCreate) (*Family, error) {
	payload, err := g.state.http.CreateFamily(ctx, g.id, p)
	if err != nil {
		return nil, err
	}
	family := newFamily(g.state, g, *payload)

	g.mu.Lock()
	g.families[family.id] = family
	g.mu.Unlock()
	return family, nil
}

// CreateUser registers the player with the given id and caches it
func (g *Guild) CreateUser(ctx context.Context, id api.Snowflake, p api.UserCreate) (*User, error) {
	payload, err := g.state.http.CreateUser(ctx, g.id, id, p)
	if err != nil {
		return nil, err
	}
	return g.storeUser(*payload), nil
}

// FetchUser returns the cached player or loads it. A player that does not
// exist yields an error matching *api.UserNotFoundError.
func (g *Guild) FetchUser(ctx context.Context, id api.Snowflake) (*User, error) {
	if user := g.GetCachedUser(id); user != nil {
		return user, nil
	}
	payload, err := g.state.http.FetchUser(ctx, g.id, id)
	if err != nil {
		return nil, err
	}
	return g.storeUser(*payload), nil
}

// IsUserNotFound reports whether err means the player is not registered
func IsUserNotFound(err error) bool {
	var target *api.UserNotFoundError
	return errors.As(err, &target)
}

func (g *Guild) storeUser(payload api.UserPayload) *User {
	g.mu.Lock()
	defer g.mu.Unlock()
	if user, ok := g.users[payload.ID]; ok {
		user.fromPayload(payload)
		return user
	}
	user := newUser(g.state, g, payload)
	g.users[user.id] = user
	return user
}

// removeArt drops an art and all of its attacks from the guild
func (g *Guild) removeArt(art *Art) {
	g.mu.Lock()
	defer g.mu.Unlock()
	for id := range art.attacks {
		delete(g.attacks, id)
	}
	delete(g.arts, art.id)
}

func (g *Guild) removeAttack(attack *Attack) {
	g.mu.Lock()
	defer g.mu.Unlock()
	delete(attack.art.attacks, attack.id)
	delete(g.attacks, attack.id)
}

func (g *Guild) removeAbility(id api.Snowflake) {
	g.mu.Lock()
	defer g.mu.Unlock()
	delete(g.abilities, id)
}

func (g *Guild) removeFamily(id api.Snowflake) {
	g.mu.Lock()
	defer g.mu.Unlock()
	delete(g.families, id)
}

func (g *Guild) removeUser(id api.Snowflake) {
	g.mu.Lock()
	defer g.mu.Unlock()
	delete(g.users, id)
}
