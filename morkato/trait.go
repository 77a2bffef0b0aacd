package morkato

import (
	"context"
	"sync"
	"time"

	"github.com/morkato/morkato-bot/api"
)

// Ability is a trait a player can be granted
type Ability struct {
	state *State
	guild *Guild
	id    api.Snowflake

	mu      sync.RWMutex
	payload api.AbilityPayload
}

func newAbility(state *State, guild *Guild, payload api.AbilityPayload) *Ability {
	ability := &Ability{state: state, guild: guild, id: payload.ID}
	ability.fromPayload(payload)
	return ability
}

func (a *Ability) fromPayload(payload api.AbilityPayload) {
	payload.Description = copyString(payload.Description)
	payload.Banner = copyString(payload.Banner)
	a.mu.Lock()
	a.payload = payload
	a.mu.Unlock()
}

func (a *Ability) ID() api.Snowflake { return a.id }
func (a *Ability) Guild() *Guild     { return a.guild }

func (a *Ability) Name() string {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.payload.Name
}

func (a *Ability) Payload() api.AbilityPayload {
	a.mu.RLock()
	defer a.mu.RUnlock()
	p := a.payload
	p.Description = copyString(p.Description)
	p.Banner = copyString(p.Banner)
	return p
}

func (a *Ability) CreatedAt() time.Time {
	return SnowflakeTime(a.id)
}

func (a *Ability) BannerURL() (string, error) {
	a.mu.RLock()
	banner := copyString(a.payload.Banner)
	a.mu.RUnlock()
	return a.state.bannerURL(banner)
}

// Edit applies a partial update; an empty update sends nothing
func (a *Ability) Edit(ctx context.Context, p api.TraitUpdate) (*Ability, error) {
	if p.Body().Empty() {
		return a, nil
	}
	payload, err := a.state.http.UpdateAbility(ctx, a.guild.id, a.id, p)
	if err != nil {
		return nil, err
	}
	a.fromPayload(*payload)
	return a, nil
}

func (a *Ability) Delete(ctx context.Context) error {
	payload, err := a.state.http.DeleteAbility(ctx, a.guild.id, a.id)
	if err != nil {
		return err
	}
	a.fromPayload(*payload)
	a.guild.removeAbility(a.id)
	return nil
}

// Family is a lineage a player belongs to
type Family struct {
	state *State
	guild *Guild
	id    api.Snowflake

	mu      sync.RWMutex
	payload api.FamilyPayload
}

func newFamily(state *State, guild *Guild, payload api.FamilyPayload) *Family {
	family := &Family{state: state, guild: guild, id: payload.ID}
	family.fromPayload(payload)
	return family
}

func (f *Family) fromPayload(payload api.FamilyPayload) {
	payload.Description = copyString(payload.Description)
	payload.Banner = copyString(payload.Banner)
	f.mu.Lock()
	f.payload = payload
	f.mu.Unlock()
}

func (f *Family) ID() api.Snowflake { return f.id }
func (f *Family) Guild() *Guild     { return f.guild }

func (f *Family) Name() string {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return f.payload.Name
}

func (f *Family) Payload() api.FamilyPayload {
	f.mu.RLock()
	defer f.mu.RUnlock()
	p := f.payload
	p.Description = copyString(p.Description)
	p.Banner = copyString(p.Banner)
	return p
}

func (f *Family) CreatedAt() time.Time {
	return SnowflakeTime(f.id)
}

func (f *Family) BannerURL() (string, error) {
	f.mu.RLock()
	banner := copyString(f.payload.Banner)
	f.mu.RUnlock()
	return f.state.bannerURL(banner)
}

// Edit applies a partial update; an empty update sends nothing
func (f *Family) Edit(ctx context.Context, p api.TraitUpdate) (*Family, error) {
	if p.Body().Empty() {
		return f, nil
	}
	payload, err := f.state.http.UpdateFamily(ctx, f.guild.id, f.id, p)
	if err != nil {
		return nil, err
	}
	f.fromPayload(*payload)
	return f, nil
}

func (f *Family) Delete(ctx context.Context) error {
	payload, err := f.state.http.DeleteFamily(ctx, f.guild.id, f.id)
	if err != nil {
		return err
	}
	f.fromPayload(*payload)
	f.guild.removeFamily(f.id)
	return nil
}
