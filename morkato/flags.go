package morkato

import "strings"

// AttackFlags is a set of independent attack properties
type AttackFlags int64

const (
	FlagDefensive AttackFlags = 1 << iota
	FlagNotCounterAttackable
	FlagIndefensible
	FlagUnavoidable
	FlagCounterAttackable
	FlagArea
)

var flagNames = []struct {
	flag AttackFlags
	name string
}{
	{FlagDefensive, "DEFENSIVE"},
	{FlagNotCounterAttackable, "NOT_COUNTER_ATTACKABLE"},
	{FlagIndefensible, "INDEFENSIBLE"},
	{FlagUnavoidable, "UNAVOIDABLE"},
	{FlagCounterAttackable, "COUNTER_ATTACKABLE"},
	{FlagArea, "AREA"},
}

// Has reports whether every bit of flag is set
func (f AttackFlags) Has(flag AttackFlags) bool {
	return f&flag == flag
}

// With returns f with flag set
func (f AttackFlags) With(flag AttackFlags) AttackFlags {
	return f | flag
}

// Without returns f with flag cleared
func (f AttackFlags) Without(flag AttackFlags) AttackFlags {
	return f &^ flag
}

// Names returns the names of the set flags in declaration order
func (f AttackFlags) Names() []string {
	var names []string
	for _, fn := range flagNames {
		if f.Has(fn.flag) {
			names = append(names, fn.name)
		}
	}
	return names
}

func (f AttackFlags) String() string {
	if f == 0 {
		return "NONE"
	}
	return strings.Join(f.Names(), "|")
}

// ParseAttackFlag resolves a single flag name, case-insensitively
func ParseAttackFlag(name string) (AttackFlags, bool) {
	name = strings.ToUpper(strings.TrimSpace(name))
	for _, fn := range flagNames {
		if fn.name == name {
			return fn.flag, true
		}
	}
	return 0, false
}
