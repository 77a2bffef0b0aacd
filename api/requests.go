package api

// ArtCreate holds the fields for creating an art. Name and Type are required.
type ArtCreate struct {
	Name        string
	Type        ArtType
	Energy      Optional[int64]
	Life        Optional[int64]
	Breath      Optional[int64]
	Blood       Optional[int64]
	Description Optional[string]
	Banner      Optional[string]
}

// Body builds the request body
func (p ArtCreate) Body() NoNullDict {
	return NoNull(Fields{
		"name":        Some(p.Name),
		"type":        Some(p.Type),
		"energy":      p.Energy,
		"life":        p.Life,
		"breath":      p.Breath,
		"blood":       p.Blood,
		"description": p.Description,
		"banner":      p.Banner,
	})
}

// ArtUpdate is a partial update; absent fields are left unchanged server side.
type ArtUpdate struct {
	Name        Optional[string]
	Type        Optional[ArtType]
	Energy      Optional[int64]
	Life        Optional[int64]
	Breath      Optional[int64]
	Blood       Optional[int64]
	Description Optional[string]
	Banner      Optional[string]
}

// Body builds the request body
func (p ArtUpdate) Body() NoNullDict {
	return NoNull(Fields{
		"name":        p.Name,
		"type":        p.Type,
		"energy":      p.Energy,
		"life":        p.Life,
		"breath":      p.Breath,
		"blood":       p.Blood,
		"description": p.Description,
		"banner":      p.Banner,
	})
}

// AttackFields are the optional stat fields shared by attack create and update.
type AttackFields struct {
	NamePrefixArt Optional[string]
	Description   Optional[string]
	Banner        Optional[string]
	Damage        Optional[int64]
	Breath        Optional[int64]
	Blood         Optional[int64]
	Stun          Optional[int64]
	Bleed         Optional[int64]
	Burn          Optional[int64]
	Poison        Optional[int64]
	Wisteria      Optional[int64]
	BleedTurn     Optional[int64]
	BurnTurn      Optional[int64]
	PoisonTurn    Optional[int64]
	WisteriaTurn  Optional[int64]
	Flags         Optional[int64]
}

func (p AttackFields) fields() Fields {
	return Fields{
		"name_prefix_art": p.NamePrefixArt,
		"description":     p.Description,
		"banner":          p.Banner,
		"damage":          p.Damage,
		"breath":          p.Breath,
		"blood":           p.Blood,
		"stun":            p.Stun,
		"bleed":           p.Bleed,
		"burn":            p.Burn,
		"poison":          p.Poison,
		"wisteria":        p.Wisteria,
		"bleed_turn":      p.BleedTurn,
		"burn_turn":       p.BurnTurn,
		"poison_turn":     p.PoisonTurn,
		"wisteria_turn":   p.WisteriaTurn,
		"flags":           p.Flags,
	}
}

// AttackCreate holds the fields for creating an attack under an art.
type AttackCreate struct {
	Name string
	AttackFields
}

// Body builds the request body
func (p AttackCreate) Body() NoNullDict {
	f := p.fields()
	f["name"] = Some(p.Name)
	return NoNull(f)
}

// AttackUpdate is a partial update of an attack.
type AttackUpdate struct {
	Name Optional[string]
	AttackFields
}

// Body builds the request body
func (p AttackUpdate) Body() NoNullDict {
	f := p.fields()
	f["name"] = p.Name
	return NoNull(f)
}

// UserRolls are the optional roll counters of a player.
type UserRolls struct {
	Flags       Optional[int64]
	AbilityRoll Optional[int64]
	FamilyRoll  Optional[int64]
	ProdigyRoll Optional[int64]
	MarkRoll    Optional[int64]
	BerserkRoll Optional[int64]
}

func (p UserRolls) fields() Fields {
	return Fields{
		"flags":        p.Flags,
		"ability_roll": p.AbilityRoll,
		"family_roll":  p.FamilyRoll,
		"prodigy_roll": p.ProdigyRoll,
		"mark_roll":    p.MarkRoll,
		"berserk_roll": p.BerserkRoll,
	}
}

// UserCreate registers a player in a guild.
type UserCreate struct {
	Type UserType
	UserRolls
}

// Body builds the request body
func (p UserCreate) Body() NoNullDict {
	f := p.fields()
	f["type"] = Some(p.Type)
	return NoNull(f)
}

// UserUpdate is a partial update of a player. The type cannot change.
type UserUpdate struct {
	UserRolls
}

// Body builds the request body
func (p UserUpdate) Body() NoNullDict {
	return NoNull(p.fields())
}

// TraitCreate creates an ability or a family; both share the same shape.
type TraitCreate struct {
	Name        string
	Percent     Optional[int64]
	UserType    Optional[int64]
	Description Optional[string]
	Banner      Optional[string]
}

// Body builds the request body
func (p TraitCreate) Body() NoNullDict {
	return NoNull(Fields{
		"name":        Some(p.Name),
		"percent":     p.Percent,
		"user_type":   p.UserType,
		"description": p.Description,
		"banner":      p.Banner,
	})
}

// TraitUpdate is a partial update of an ability or family.
type TraitUpdate struct {
	Name        Optional[string]
	Percent     Optional[int64]
	UserType    Optional[int64]
	Description Optional[string]
	Banner      Optional[string]
}

// Body builds the request body
func (p TraitUpdate) Body() NoNullDict {
	return NoNull(Fields{
		"name":        p.Name,
		"percent":     p.Percent,
		"user_type":   p.UserType,
		"description": p.Description,
		"banner":      p.Banner,
	})
}
