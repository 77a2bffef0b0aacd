package api

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
)

// Snowflake is a numeric identifier. The backend sends it as a JSON string;
// plain numbers are accepted too.
type Snowflake int64

// MarshalJSON encodes the id as a JSON string
func (s Snowflake) MarshalJSON() ([]byte, error) {
	return json.Marshal(strconv.FormatInt(int64(s), 10))
}

// UnmarshalJSON accepts both "123" and 123
func (s *Snowflake) UnmarshalJSON(data []byte) error {
	data = bytes.Trim(data, `"`)
	if len(data) == 0 || string(data) == "null" {
		*s = 0
		return nil
	}
	v, err := strconv.ParseInt(string(data), 10, 64)
	if err != nil {
		return fmt.Errorf("invalid snowflake %q: %w", string(data), err)
	}
	*s = Snowflake(v)
	return nil
}

func (s Snowflake) String() string {
	return strconv.FormatInt(int64(s), 10)
}

// ParseSnowflake parses a decimal id.
func ParseSnowflake(s string) (Snowflake, error) {
	v, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid id %q: %w", s, err)
	}
	return Snowflake(v), nil
}

// ArtType is the kind of an art
type ArtType string

const (
	ArtRespiration   ArtType = "RESPIRATION"
	ArtKekkijutsu    ArtType = "KEKKIJUTSU"
	ArtFightingStyle ArtType = "FIGHTING_STYLE"
)

// Valid reports whether t is one of the known art types
func (t ArtType) Valid() bool {
	switch t {
	case ArtRespiration, ArtKekkijutsu, ArtFightingStyle:
		return true
	}
	return false
}

// UserType is the race of a player
type UserType string

const (
	UserHuman  UserType = "HUMAN"
	UserOni    UserType = "ONI"
	UserHybrid UserType = "HYBRID"
)

// Valid reports whether t is one of the known user types
func (t UserType) Valid() bool {
	switch t {
	case UserHuman, UserOni, UserHybrid:
		return true
	}
	return false
}

// GuildPayload is the server representation of a guild
type GuildPayload struct {
	ID                Snowflake  `json:"id"`
	HumanInitialLife  int64      `json:"human_initial_life"`
	OniInitialLife    int64      `json:"oni_initial_life"`
	HybridInitialLife int64      `json:"hybrid_initial_life"`
	BreathInitial     int64      `json:"breath_initial"`
	BloodInitial      int64      `json:"blood_initial"`
	FamilyRoll        int64      `json:"family_roll"`
	AbilityRoll       int64      `json:"ability_roll"`
	RollCategoryID    *Snowflake `json:"roll_category_id"`
	OffCategoryID     *Snowflake `json:"off_category_id"`
}

// ArtPayload is the server representation of an art. Attacks is only
// populated by endpoints that embed them.
type ArtPayload struct {
	ID          Snowflake       `json:"id"`
	GuildID     Snowflake       `json:"guild_id"`
	Name        string          `json:"name"`
	Type        ArtType         `json:"type"`
	Description *string         `json:"description"`
	Banner      *string         `json:"banner"`
	Energy      int64           `json:"energy"`
	Life        int64           `json:"life"`
	Breath      int64           `json:"breath"`
	Blood       int64           `json:"blood"`
	UpdatedAt   *int64          `json:"updated_at"`
	Attacks     []AttackPayload `json:"attacks,omitempty"`
}

// AttackPayload is the server representation of an attack
type AttackPayload struct {
	ID            Snowflake `json:"id"`
	GuildID       Snowflake `json:"guild_id"`
	ArtID         Snowflake `json:"art_id"`
	Name          string    `json:"name"`
	NamePrefixArt *string   `json:"name_prefix_art"`
	Description   *string   `json:"description"`
	Banner        *string   `json:"banner"`
	Damage        int64     `json:"damage"`
	Breath        int64     `json:"breath"`
	Blood         int64     `json:"blood"`
	Stun          int64     `json:"stun"`
	Bleed         int64     `json:"bleed"`
	Burn          int64     `json:"burn"`
	Poison        int64     `json:"poison"`
	Wisteria      int64     `json:"wisteria"`
	BleedTurn     int64     `json:"bleed_turn"`
	BurnTurn      int64     `json:"burn_turn"`
	PoisonTurn    int64     `json:"poison_turn"`
	WisteriaTurn  int64     `json:"wisteria_turn"`
	Flags         int64     `json:"flags"`
	UpdatedAt     *int64    `json:"updated_at"`
}

// AbilityPayload is the server representation of an ability
type AbilityPayload struct {
	ID          Snowflake `json:"id"`
	GuildID     Snowflake `json:"guild_id"`
	Name        string    `json:"name"`
	Percent     int64     `json:"percent"`
	UserType    int64     `json:"user_type"`
	Description *string   `json:"description"`
	Banner      *string   `json:"banner"`
	UpdatedAt   *int64    `json:"updated_at"`
}

// FamilyPayload is the server representation of a family
type FamilyPayload struct {
	ID          Snowflake `json:"id"`
	GuildID     Snowflake `json:"guild_id"`
	Name        string    `json:"name"`
	Percent     int64     `json:"percent"`
	UserType    int64     `json:"user_type"`
	Description *string   `json:"description"`
	Banner      *string   `json:"banner"`
	UpdatedAt   *int64    `json:"updated_at"`
}

// UserPayload is the server representation of a player
type UserPayload struct {
	ID          Snowflake   `json:"id"`
	GuildID     Snowflake   `json:"guild_id"`
	Type        UserType    `json:"type"`
	Flags       int64       `json:"flags"`
	AbilityRoll int64       `json:"ability_roll"`
	FamilyRoll  int64       `json:"family_roll"`
	ProdigyRoll int64       `json:"prodigy_roll"`
	MarkRoll    int64       `json:"mark_roll"`
	BerserkRoll int64       `json:"berserk_roll"`
	Abilities   []Snowflake `json:"abilities"`
	Families    []Snowflake `json:"families"`
}

// errorEnvelope is the body the backend sends with non-2xx responses
type errorEnvelope struct {
	Model *string        `json:"model"`
	Extra map[string]any `json:"extra"`
}
