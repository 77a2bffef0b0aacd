package morkato

import (
	"context"
	"sync"
	"time"

	"github.com/morkato/morkato-bot/api"
)

// Art is a combat style grouping attacks. Its attack set is guarded by the
// owning guild's lock; the art's own fields by mu.
type Art struct {
	state *State
	guild *Guild
	id    api.Snowflake

	mu      sync.RWMutex
	payload api.ArtPayload

	attacks map[api.Snowflake]*Attack
}

func newArt(state *State, guild *Guild, payload api.ArtPayload) *Art {
	art := &Art{
		state:   state,
		guild:   guild,
		id:      payload.ID,
		attacks: make(map[api.Snowflake]*Attack),
	}
	art.fromPayload(payload)
	return art
}

func (a *Art) fromPayload(payload api.ArtPayload) {
	payload.Attacks = nil
	payload.Description = copyString(payload.Description)
	payload.Banner = copyString(payload.Banner)

	a.mu.Lock()
	a.payload = payload
	a.mu.Unlock()
}

func (a *Art) ID() api.Snowflake {
	return a.id
}

func (a *Art) Guild() *Guild {
	return a.guild
}

func (a *Art) Name() string {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.payload.Name
}

func (a *Art) Type() api.ArtType {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.payload.Type
}

// Payload returns a snapshot of the art without its attacks
func (a *Art) Payload() api.ArtPayload {
	a.mu.RLock()
	defer a.mu.RUnlock()
	p := a.payload
	p.Description = copyString(p.Description)
	p.Banner = copyString(p.Banner)
	return p
}

func (a *Art) CreatedAt() time.Time {
	return SnowflakeTime(a.id)
}

// UpdatedAt is nil when the server never recorded a modification
func (a *Art) UpdatedAt() *time.Time {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return millisTime(a.payload.UpdatedAt)
}

// BannerURL resolves the banner to a fetchable URL, or "" when unset
func (a *Art) BannerURL() (string, error) {
	a.mu.RLock()
	banner := copyString(a.payload.Banner)
	a.mu.RUnlock()
	return a.state.bannerURL(banner)
}

// Attacks returns the art's attacks ordered by id
func (a *Art) Attacks() []*Attack {
	a.guild.mu.RLock()
	defer a.guild.mu.RUnlock()
	return sortedByID(a.attacks)
}

func (a *Art) GetAttack(id api.Snowflake) *Attack {
	a.guild.mu.RLock()
	defer a.guild.mu.RUnlock()
	return a.attacks[id]
}

// Edit applies a partial update. An update with no fields set performs no
// request and returns the art unchanged.
func (a *Art) Edit(ctx context.Context, p api.ArtUpdate) (*Art, error) {
	if p.Body().Empty() {
		return a, nil
	}
	payload, err := a.state.http.UpdateArt(ctx, a.guild.id, a.id, p)
	if err != nil {
		return nil, err
	}
	a.fromPayload(*payload)
	return a, nil
}

// Delete removes the art and its attacks. The art keeps the state the
// server returned for it.
func (a *Art) Delete(ctx context.Context) error {
	payload, err := a.state.http.DeleteArt(ctx, a.guild.id, a.id)
	if err != nil {
		return err
	}
	a.fromPayload(*payload)
	a.guild.removeArt(a)
	return nil
}

// CreateAttack creates an attack under this art. The attack becomes visible
// from the art and from the guild at the same time.
func (a *Art) CreateAttack(ctx context.Context, p api.AttackCreate) (*Attack, error) {
	payload, err := a.state.http.CreateAttack(ctx, a.guild.id, a.id, p)
	if err != nil {
		return nil, err
	}
	attack := newAttack(a.state, a.guild, a, *payload)

	a.guild.mu.Lock()
	a.attacks[attack.id] = attack
	// a deleted art no longer contributes attacks to the guild
	if a.guild.arts[a.id] == a {
		a.guild.attacks[attack.id] = attack
	}
	a.guild.mu.Unlock()
	return attack, nil
}
