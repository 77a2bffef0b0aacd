package cmd

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/morkato/morkato-bot/morkato"
)

func newGuildCmd(a *app) *cobra.Command {
	guildCmd := &cobra.Command{
		Use:   "guild",
		Short: "Inspect guilds",
	}

	guildCmd.AddCommand(&cobra.Command{
		Use:   "show <guild>",
		Short: "Show guild settings and a summary of its content",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			guild, err := a.guild(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			printGuild(cmd.OutOrStdout(), guild)
			return nil
		},
	})
	return guildCmd
}

func printGuild(w io.Writer, guild *morkato.Guild) {
	p := guild.Payload()
	fmt.Fprintf(w, "Guild %s (created %s)\n", guild.ID(), guild.CreatedAt().Format("2006-01-02"))
	fmt.Fprintln(w, strings.Repeat("-", 60))
	fmt.Fprintf(w, "Initial life:   human %d, oni %d, hybrid %d\n", p.HumanInitialLife, p.OniInitialLife, p.HybridInitialLife)
	fmt.Fprintf(w, "Initial breath: %d, blood: %d\n", p.BreathInitial, p.BloodInitial)
	fmt.Fprintf(w, "Rolls:          ability %d, family %d\n", p.AbilityRoll, p.FamilyRoll)
	if p.RollCategoryID != nil {
		fmt.Fprintf(w, "Roll category:  %s\n", *p.RollCategoryID)
	}
	if p.OffCategoryID != nil {
		fmt.Fprintf(w, "Off category:   %s\n", *p.OffCategoryID)
	}
	fmt.Fprintf(w, "\nArts: %d  Attacks: %d  Abilities: %d  Families: %d\n",
		len(guild.Arts()), len(guild.Attacks()), len(guild.Abilities()), len(guild.Families()))
}
