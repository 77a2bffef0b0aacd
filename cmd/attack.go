package cmd

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/morkato/morkato-bot/api"
	"github.com/morkato/morkato-bot/morkato"
)

func newAttackCmd(a *app) *cobra.Command {
	attackCmd := &cobra.Command{
		Use:   "attack",
		Short: "List and edit attacks",
	}

	listCmd := &cobra.Command{
		Use:   "list <guild>",
		Short: "List attacks, optionally restricted to one art or a filter",
		Long: `List the attacks of a guild.

Examples:
  morkato attack list 971803172056219728 --art 1234
  morkato attack list 971803172056219728 -f 'Damage >= 100 and hasFlag("AREA")'`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			guild, err := a.guild(cmd.Context(), args[0])
			if err != nil {
				return err
			}

			attacks := guild.Attacks()
			if cmd.Flags().Changed("art") {
				raw, _ := cmd.Flags().GetString("art")
				id, err := parseID(raw)
				if err != nil {
					return err
				}
				art := guild.GetArt(id)
				if art == nil {
					return fmt.Errorf("art %s not found in guild %s", id, guild.ID())
				}
				attacks = art.Attacks()
			}

			expr, _ := cmd.Flags().GetString("filter")
			preset, _ := cmd.Flags().GetString("preset")
			f, err := a.compileFilter(expr, preset)
			if err != nil {
				return err
			}
			if f != nil {
				a.logger.Debug().Str("filter", f.Expression()).Int("candidates", len(attacks)).Msg("Filtering attacks")
				if attacks, err = f.SelectAttacks(attacks); err != nil {
					return err
				}
			}

			out := cmd.OutOrStdout()
			if len(attacks) == 0 {
				fmt.Fprintln(out, "No attacks found.")
				return nil
			}
			fmt.Fprintf(out, "Found %d attacks:\n", len(attacks))
			fmt.Fprintln(out, strings.Repeat("-", 60))
			for _, attack := range attacks {
				printAttack(out, attack)
			}
			return nil
		},
	}
	listCmd.Flags().String("art", "", "only list attacks of this art")
	listCmd.Flags().StringP("filter", "f", "", "filter expression")
	listCmd.Flags().StringP("preset", "p", "", "use a preset filter from config")

	createCmd := &cobra.Command{
		Use:   "create <guild> <art>",
		Short: "Create an attack under an art",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			art, err := a.art(cmd, args)
			if err != nil {
				return err
			}
			fields, err := attackFields(cmd)
			if err != nil {
				return err
			}
			name, _ := cmd.Flags().GetString("name")

			attack, err := art.CreateAttack(cmd.Context(), api.AttackCreate{Name: name, AttackFields: fields})
			if err != nil {
				return err
			}
			a.logger.Info().Stringer("attack", attack.ID()).Str("art", art.Name()).Msg("Created attack")
			printAttack(cmd.OutOrStdout(), attack)
			return nil
		},
	}
	createCmd.Flags().String("name", "", "attack name")
	addAttackFlags(createCmd.Flags())
	createCmd.MarkFlagRequired("name")

	editCmd := &cobra.Command{
		Use:   "edit <guild> <attack>",
		Short: "Update the given fields of an attack",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			attack, err := a.attack(cmd, args)
			if err != nil {
				return err
			}
			fields, err := attackFields(cmd)
			if err != nil {
				return err
			}

			update := api.AttackUpdate{Name: optString(cmd, "name"), AttackFields: fields}
			if update.Body().Empty() {
				fmt.Fprintln(cmd.OutOrStdout(), "Nothing to update.")
				return nil
			}
			if _, err := attack.Edit(cmd.Context(), update); err != nil {
				return err
			}
			printAttack(cmd.OutOrStdout(), attack)
			return nil
		},
	}
	editCmd.Flags().String("name", "", "attack name")
	addAttackFlags(editCmd.Flags())

	deleteCmd := &cobra.Command{
		Use:   "delete <guild> <attack>",
		Short: "Delete an attack",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			attack, err := a.attack(cmd, args)
			if err != nil {
				return err
			}
			if err := attack.Delete(cmd.Context()); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Deleted attack %s (%s) from %s\n", attack.Name(), attack.ID(), attack.Art().Name())
			return nil
		},
	}

	attackCmd.AddCommand(listCmd, createCmd, editCmd, deleteCmd)
	return attackCmd
}

func (a *app) attack(cmd *cobra.Command, args []string) (*morkato.Attack, error) {
	guild, err := a.guild(cmd.Context(), args[0])
	if err != nil {
		return nil, err
	}
	id, err := parseID(args[1])
	if err != nil {
		return nil, err
	}
	attack := guild.GetAttack(id)
	if attack == nil {
		return nil, fmt.Errorf("attack %s not found in guild %s", id, guild.ID())
	}
	return attack, nil
}

func printAttack(w io.Writer, attack *morkato.Attack) {
	p := attack.Payload()
	fmt.Fprintf(w, "• %s (%s) from %s\n", attack.Title(), p.ID, attack.Art().Name())

	stats := []struct {
		name  string
		value int64
		turns int64
	}{
		{"Damage", p.Damage, 0},
		{"Breath", p.Breath, 0},
		{"Blood", p.Blood, 0},
		{"Stun", p.Stun, 0},
		{"Bleed", p.Bleed, p.BleedTurn},
		{"Burn", p.Burn, p.BurnTurn},
		{"Poison", p.Poison, p.PoisonTurn},
		{"Wisteria", p.Wisteria, p.WisteriaTurn},
	}
	var parts []string
	for _, s := range stats {
		switch {
		case s.value == 0:
		case s.turns > 0:
			parts = append(parts, fmt.Sprintf("%s: %d (%d turns)", s.name, s.value, s.turns))
		default:
			parts = append(parts, fmt.Sprintf("%s: %d", s.name, s.value))
		}
	}
	if len(parts) > 0 {
		fmt.Fprintf(w, "  %s\n", strings.Join(parts, "  "))
	}
	if flags := attack.Flags(); flags != 0 {
		fmt.Fprintf(w, "  Flags: %s\n", flags)
	}
	if p.Description != nil && *p.Description != "" {
		fmt.Fprintf(w, "  %s\n", *p.Description)
	}
	if banner, err := attack.BannerURL(); err == nil && banner != "" {
		fmt.Fprintf(w, "  Banner: %s\n", banner)
	}
}
