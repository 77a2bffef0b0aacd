package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/morkato/morkato-bot/api"
	"github.com/morkato/morkato-bot/morkato"
)

// optString reads a string flag only when the user passed it
func optString(cmd *cobra.Command, name string) api.Optional[string] {
	if !cmd.Flags().Changed(name) {
		return api.Optional[string]{}
	}
	v, _ := cmd.Flags().GetString(name)
	return api.Some(v)
}

func optInt(cmd *cobra.Command, name string) api.Optional[int64] {
	if !cmd.Flags().Changed(name) {
		return api.Optional[int64]{}
	}
	v, _ := cmd.Flags().GetInt64(name)
	return api.Some(v)
}

func addStatFlags(fs *pflag.FlagSet, names ...string) {
	for _, name := range names {
		fs.Int64(name, 0, strings.ReplaceAll(name, "-", " "))
	}
}

var attackStats = []string{
	"damage", "breath", "blood", "stun", "bleed", "burn", "poison", "wisteria",
	"bleed-turn", "burn-turn", "poison-turn", "wisteria-turn",
}

// attackFields collects the attack flags that were set. --flag names are
// combined into the bitset; --flags sets the raw value.
func attackFields(cmd *cobra.Command) (api.AttackFields, error) {
	fields := api.AttackFields{
		NamePrefixArt: optString(cmd, "prefix"),
		Description:   optString(cmd, "description"),
		Banner:        optString(cmd, "banner"),
		Damage:        optInt(cmd, "damage"),
		Breath:        optInt(cmd, "breath"),
		Blood:         optInt(cmd, "blood"),
		Stun:          optInt(cmd, "stun"),
		Bleed:         optInt(cmd, "bleed"),
		Burn:          optInt(cmd, "burn"),
		Poison:        optInt(cmd, "poison"),
		Wisteria:      optInt(cmd, "wisteria"),
		BleedTurn:     optInt(cmd, "bleed-turn"),
		BurnTurn:      optInt(cmd, "burn-turn"),
		PoisonTurn:    optInt(cmd, "poison-turn"),
		WisteriaTurn:  optInt(cmd, "wisteria-turn"),
		Flags:         optInt(cmd, "flags"),
	}

	if cmd.Flags().Changed("flag") {
		names, _ := cmd.Flags().GetStringSlice("flag")
		flags := morkato.AttackFlags(fields.Flags.Or(0))
		for _, name := range names {
			flag, ok := morkato.ParseAttackFlag(name)
			if !ok {
				return fields, fmt.Errorf("unknown attack flag %q", name)
			}
			flags = flags.With(flag)
		}
		fields.Flags = api.Some(int64(flags))
	}
	return fields, nil
}

func addAttackFlags(fs *pflag.FlagSet) {
	fs.String("prefix", "", "name prefix shown before the attack name")
	fs.String("description", "", "description")
	fs.String("banner", "", "banner URL or cdn:// reference")
	addStatFlags(fs, attackStats...)
	fs.Int64("flags", 0, "raw attack flag bits")
	fs.StringSlice("flag", nil, "attack flag name (DEFENSIVE, AREA, ...), repeatable")
}

func parseID(arg string) (api.Snowflake, error) {
	return api.ParseSnowflake(arg)
}
