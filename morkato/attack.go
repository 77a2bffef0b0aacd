package morkato

import (
	"context"
	"sync"
	"time"

	"github.com/morkato/morkato-bot/api"
)

// Attack belongs to exactly one art and is reachable from both the art and
// the guild.
type Attack struct {
	state *State
	guild *Guild
	art   *Art
	id    api.Snowflake

	mu      sync.RWMutex
	payload api.AttackPayload
}

func newAttack(state *State, guild *Guild, art *Art, payload api.AttackPayload) *Attack {
	attack := &Attack{state: state, guild: guild, art: art, id: payload.ID}
	attack.fromPayload(payload)
	return attack
}

func (a *Attack) fromPayload(payload api.AttackPayload) {
	payload.NamePrefixArt = copyString(payload.NamePrefixArt)
	payload.Description = copyString(payload.Description)
	payload.Banner = copyString(payload.Banner)

	a.mu.Lock()
	a.payload = payload
	a.mu.Unlock()
}

func (a *Attack) ID() api.Snowflake {
	return a.id
}

func (a *Attack) Guild() *Guild {
	return a.guild
}

func (a *Attack) Art() *Art {
	return a.art
}

func (a *Attack) Name() string {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.payload.Name
}

// Title is the display name: the name prefixed by the art's prefix, if any
func (a *Attack) Title() string {
	a.mu.RLock()
	defer a.mu.RUnlock()
	if a.payload.NamePrefixArt == nil || *a.payload.NamePrefixArt == "" {
		return a.payload.Name
	}
	return *a.payload.NamePrefixArt + " " + a.payload.Name
}

func (a *Attack) Flags() AttackFlags {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return AttackFlags(a.payload.Flags)
}

// Payload returns a snapshot of the attack
func (a *Attack) Payload() api.AttackPayload {
	a.mu.RLock()
	defer a.mu.RUnlock()
	p := a.payload
	p.NamePrefixArt = copyString(p.NamePrefixArt)
	p.Description = copyString(p.Description)
	p.Banner = copyString(p.Banner)
	return p
}

func (a *Attack) CreatedAt() time.Time {
	return SnowflakeTime(a.id)
}

func (a *Attack) UpdatedAt() *time.Time {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return millisTime(a.payload.UpdatedAt)
}

// BannerURL resolves the banner to a fetchable URL, or "" when unset
func (a *Attack) BannerURL() (string, error) {
	a.mu.RLock()
	banner := copyString(a.payload.Banner)
	a.mu.RUnlock()
	return a.state.bannerURL(banner)
}

// Edit applies a partial update; an empty update sends nothing
func (a *Attack) Edit(ctx context.Context, p api.AttackUpdate) (*Attack, error) {
	if p.Body().Empty() {
		return a, nil
	}
	payload, err := a.state.http.UpdateAttack(ctx, a.guild.id, a.id, p)
	if err != nil {
		return nil, err
	}
	a.fromPayload(*payload)
	return a, nil
}

// Delete removes the attack from both its art and its guild
func (a *Attack) Delete(ctx context.Context) error {
	payload, err := a.state.http.DeleteAttack(ctx, a.guild.id, a.id)
	if err != nil {
		return err
	}
	a.fromPayload(*payload)
	a.guild.removeAttack(a)
	return nil
}
