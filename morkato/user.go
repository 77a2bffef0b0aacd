package morkato

import (
	"context"
	"slices"
	"sync"

	"github.com/morkato/morkato-bot/api"
)

// User is a registered player of a guild
type User struct {
	state *State
	guild *Guild
	id    api.Snowflake

	mu      sync.RWMutex
	payload api.UserPayload
}

func newUser(state *State, guild *Guild, payload api.UserPayload) *User {
	user := &User{state: state, guild: guild, id: payload.ID}
	user.fromPayload(payload)
	return user
}

func (u *User) fromPayload(payload api.UserPayload) {
	payload.Abilities = slices.Clone(payload.Abilities)
	payload.Families = slices.Clone(payload.Families)
	u.mu.Lock()
	u.payload = payload
	u.mu.Unlock()
}

func (u *User) ID() api.Snowflake { return u.id }
func (u *User) Guild() *Guild     { return u.guild }

func (u *User) Type() api.UserType {
	u.mu.RLock()
	defer u.mu.RUnlock()
	return u.payload.Type
}

// Payload returns a snapshot of the player
func (u *User) Payload() api.UserPayload {
	u.mu.RLock()
	defer u.mu.RUnlock()
	p := u.payload
	p.Abilities = slices.Clone(p.Abilities)
	p.Families = slices.Clone(p.Families)
	return p
}

// Abilities returns the granted abilities the guild has cached. Ids the
// guild does not know are skipped.
func (u *User) Abilities() []*Ability {
	ids := u.Payload().Abilities
	out := make([]*Ability, 0, len(ids))
	for _, id := range ids {
		if ability := u.guild.GetAbility(id); ability != nil {
			out = append(out, ability)
		}
	}
	return out
}

// Families returns the player's cached families
func (u *User) Families() []*Family {
	ids := u.Payload().Families
	out := make([]*Family, 0, len(ids))
	for _, id := range ids {
		if family := u.guild.GetFamily(id); family != nil {
			out = append(out, family)
		}
	}
	return out
}

// Edit applies a partial update; an empty update sends nothing
func (u *User) Edit(ctx context.Context, p api.UserUpdate) (*User, error) {
	if p.Body().Empty() {
		return u, nil
	}
	payload, err := u.state.http.UpdateUser(ctx, u.guild.id, u.id, p)
	if err != nil {
		return nil, err
	}
	u.fromPayload(*payload)
	return u, nil
}

func (u *User) Delete(ctx context.Context) error {
	payload, err := u.state.http.DeleteUser(ctx, u.guild.id, u.id)
	if err != nil {
		return err
	}
	u.fromPayload(*payload)
	u.guild.removeUser(u.id)
	return nil
}

// RegistryAbility grants ability to the player
func (u *User) RegistryAbility(ctx context.Context, ability *Ability) error {
	payload, err := u.state.http.RegistryUserAbility(ctx, u.guild.id, u.id, ability.id)
	if err != nil {
		return err
	}
	u.fromPayload(*payload)
	return nil
}

// RegistryFamily assigns family to the player
func (u *User) RegistryFamily(ctx context.Context, family *Family) error {
	payload, err := u.state.http.RegistryUserFamily(ctx, u.guild.id, u.id, family.id)
	if err != nil {
		return err
	}
	u.fromPayload(*payload)
	return nil
}
