package api

import (
	"context"
	"encoding/binary"
	"fmt"
	"math"
	"net/http"
)

// call builds a route, sends payload and decodes into a fresh T
func call[T any](ctx context.Context, c *Client, method, path string, params Params, payload any) (*T, error) {
	route, err := c.Route(method, path, params)
	if err != nil {
		return nil, err
	}
	var out T
	if err := c.Request(ctx, route, payload, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func list[T any](ctx context.Context, c *Client, path string, params Params) ([]T, error) {
	out, err := call[[]T](ctx, c, http.MethodGet, path, params, nil)
	if err != nil {
		return nil, err
	}
	return *out, nil
}

// FetchGuild retrieves a guild
func (c *Client) FetchGuild(ctx context.Context, id Snowflake) (*GuildPayload, error) {
	return call[GuildPayload](ctx, c, http.MethodGet, "/guilds/{id}", Params{"id": id}, nil)
}

// FetchArts retrieves every art of a guild, each with its attacks embedded
func (c *Client) FetchArts(ctx context.Context, guildID Snowflake) ([]ArtPayload, error) {
	arts, err := list[ArtPayload](ctx, c, "/arts/{gid}", Params{"gid": guildID})
	if err != nil {
		return nil, err
	}
	c.logger.Debug().Stringer("guild", guildID).Int("count", len(arts)).Msg("Retrieved arts")
	return arts, nil
}

// FetchArt retrieves a single art with its attacks embedded
func (c *Client) FetchArt(ctx context.Context, guildID, id Snowflake) (*ArtPayload, error) {
	return call[ArtPayload](ctx, c, http.MethodGet, "/arts/{guild_id}/{id}", Params{"guild_id": guildID, "id": id}, nil)
}

// CreateArt creates an art in a guild
func (c *Client) CreateArt(ctx context.Context, guildID Snowflake, p ArtCreate) (*ArtPayload, error) {
	return call[ArtPayload](ctx, c, http.MethodPost, "/arts/{gid}", Params{"gid": guildID}, p.Body())
}

// UpdateArt applies a partial update to an art
func (c *Client) UpdateArt(ctx context.Context, guildID, id Snowflake, p ArtUpdate) (*ArtPayload, error) {
	return call[ArtPayload](ctx, c, http.MethodPut, "/arts/{guild_id}/{id}", Params{"guild_id": guildID, "id": id}, p.Body())
}

// DeleteArt deletes an art and returns its last known state
func (c *Client) DeleteArt(ctx context.Context, guildID, id Snowflake) (*ArtPayload, error) {
	return call[ArtPayload](ctx, c, http.MethodDelete, "/arts/{guild_id}/{id}", Params{"guild_id": guildID, "id": id}, nil)
}

// FetchAttacks retrieves every attack of a guild
func (c *Client) FetchAttacks(ctx context.Context, guildID Snowflake) ([]AttackPayload, error) {
	return list[AttackPayload](ctx, c, "/attacks/{guild_id}", Params{"guild_id": guildID})
}

// FetchAttack retrieves a single attack
func (c *Client) FetchAttack(ctx context.Context, guildID, id Snowflake) (*AttackPayload, error) {
	return call[AttackPayload](ctx, c, http.MethodGet, "/attacks/{guild_id}/{id}", Params{"guild_id": guildID, "id": id}, nil)
}

// CreateAttack creates an attack under an art
func (c *Client) CreateAttack(ctx context.Context, guildID, artID Snowflake, p AttackCreate) (*AttackPayload, error) {
	return call[AttackPayload](ctx, c, http.MethodPost, "/attacks/{guild_id}/{art_id}", Params{"guild_id": guildID, "art_id": artID}, p.Body())
}

// UpdateAttack applies a partial update to an attack
func (c *Client) UpdateAttack(ctx context.Context, guildID, id Snowflake, p AttackUpdate) (*AttackPayload, error) {
	return call[AttackPayload](ctx, c, http.MethodPut, "/attacks/{guild_id}/{id}", Params{"guild_id": guildID, "id": id}, p.Body())
}

// DeleteAttack deletes an attack and returns its last known state
func (c *Client) DeleteAttack(ctx context.Context, guildID, id Snowflake) (*AttackPayload, error) {
	return call[AttackPayload](ctx, c, http.MethodDelete, "/attacks/{guild_id}/{id}", Params{"guild_id": guildID, "id": id}, nil)
}

// FetchUser retrieves a player
func (c *Client) FetchUser(ctx context.Context, guildID, id Snowflake) (*UserPayload, error) {
	return call[UserPayload](ctx, c, http.MethodGet, "/users/{guild_id}/{id}", Params{"guild_id": guildID, "id": id}, nil)
}

// CreateUser registers a player
func (c *Client) CreateUser(ctx context.Context, guildID, id Snowflake, p UserCreate) (*UserPayload, error) {
	return call[UserPayload](ctx, c, http.MethodPost, "/users/{guild_id}/{id}", Params{"guild_id": guildID, "id": id}, p.Body())
}

// UpdateUser applies a partial update to a player
func (c *Client) UpdateUser(ctx context.Context, guildID, id Snowflake, p UserUpdate) (*UserPayload, error) {
	return call[UserPayload](ctx, c, http.MethodPut, "/users/{guild_id}/{id}", Params{"guild_id": guildID, "id": id}, p.Body())
}

// DeleteUser removes a player
func (c *Client) DeleteUser(ctx context.Context, guildID, id Snowflake) (*UserPayload, error) {
	return call[UserPayload](ctx, c, http.MethodDelete, "/users/{guild_id}/{id}", Params{"guild_id": guildID, "id": id}, nil)
}

// RegistryUserAbility grants an ability to a player
func (c *Client) RegistryUserAbility(ctx context.Context, guildID, userID, abilityID Snowflake) (*UserPayload, error) {
	return call[UserPayload](ctx, c, http.MethodPost, "/users/{guild_id}/{user_id}/abilities/{ability_id}",
		Params{"guild_id": guildID, "user_id": userID, "ability_id": abilityID}, nil)
}

// RegistryUserFamily assigns a family to a player
func (c *Client) RegistryUserFamily(ctx context.Context, guildID, userID, familyID Snowflake) (*UserPayload, error) {
	return call[UserPayload](ctx, c, http.MethodPost, "/users/{guild_id}/{user_id}/families/{family_id}",
		Params{"guild_id": guildID, "user_id": userID, "family_id": familyID}, nil)
}

// FetchAbilities retrieves every ability of a guild
func (c *Client) FetchAbilities(ctx context.Context, guildID Snowflake) ([]AbilityPayload, error) {
	return list[AbilityPayload](ctx, c, "/abilities/{guild_id}", Params{"guild_id": guildID})
}

// CreateAbility creates an ability
func (c *Client) CreateAbility(ctx context.Context, guildID Snowflake, p TraitCreate) (*AbilityPayload, error) {
	return call[AbilityPayload](ctx, c, http.MethodPost, "/abilities/{guild_id}", Params{"guild_id": guildID}, p.Body())
}

// UpdateAbility applies a partial update to an ability
func (c *Client) UpdateAbility(ctx context.Context, guildID, id Snowflake, p TraitUpdate) (*AbilityPayload, error) {
	return call[AbilityPayload](ctx, c, http.MethodPut, "/abilities/{guild_id}/{id}", Params{"guild_id": guildID, "id": id}, p.Body())
}

// DeleteAbility deletes an ability
func (c *Client) DeleteAbility(ctx context.Context, guildID, id Snowflake) (*AbilityPayload, error) {
	return call[AbilityPayload](ctx, c, http.MethodDelete, "/abilities/{guild_id}/{id}", Params{"guild_id": guildID, "id": id}, nil)
}

// FetchFamilies retrieves every family of a guild
func (c *Client) FetchFamilies(ctx context.Context, guildID Snowflake) ([]FamilyPayload, error) {
	return list[FamilyPayload](ctx, c, "/families/{guild_id}", Params{"guild_id": guildID})
}

// CreateFamily creates a family
func (c *Client) CreateFamily(ctx context.Context, guildID Snowflake, p TraitCreate) (*FamilyPayload, error) {
	return call[FamilyPayload](ctx, c, http.MethodPost, "/families/{guild_id}", Params{"guild_id": guildID}, p.Body())
}

// UpdateFamily applies a partial update to a family
func (c *Client) UpdateFamily(ctx context.Context, guildID, id Snowflake, p TraitUpdate) (*FamilyPayload, error) {
	return call[FamilyPayload](ctx, c, http.MethodPut, "/families/{guild_id}/{id}", Params{"guild_id": guildID, "id": id}, p.Body())
}

// DeleteFamily deletes a family
func (c *Client) DeleteFamily(ctx context.Context, guildID, id Snowflake) (*FamilyPayload, error) {
	return call[FamilyPayload](ctx, c, http.MethodDelete, "/families/{guild_id}/{id}", Params{"guild_id": guildID, "id": id}, nil)
}

// EncodeUpload frames an image for the CDN: 8-byte big-endian author id,
// 4-byte big-endian name length, the UTF-8 name, then the raw image bytes.
func EncodeUpload(authorID Snowflake, name string, image []byte) ([]byte, error) {
	if uint64(len(name)) > math.MaxUint32 {
		return nil, fmt.Errorf("upload name too long: %d bytes", len(name))
	}
	frame := make([]byte, 0, 12+len(name)+len(image))
	frame = binary.BigEndian.AppendUint64(frame, uint64(authorID))
	frame = binary.BigEndian.AppendUint32(frame, uint32(len(name)))
	frame = append(frame, name...)
	frame = append(frame, image...)
	return frame, nil
}

// UploadImage stores image on the CDN under authorID/name. The stored file
// is then addressable as cdn://<authorID>/<name>.
func (c *Client) UploadImage(ctx context.Context, image []byte, authorID Snowflake, name string) error {
	if _, err := CDNReference(authorID, name); err != nil {
		return err
	}
	frame, err := EncodeUpload(authorID, name, image)
	if err != nil {
		return err
	}
	route, err := c.Route(http.MethodPost, "/cdn/upload", nil)
	if err != nil {
		return err
	}
	if err := c.RequestRaw(ctx, route, frame, "application/octet-stream", nil); err != nil {
		return fmt.Errorf("failed to upload %q: %w", name, err)
	}
	c.logger.Info().Stringer("author", authorID).Str("name", name).Int("bytes", len(image)).Msg("Uploaded image")
	return nil
}
