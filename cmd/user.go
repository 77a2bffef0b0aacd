package cmd

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/morkato/morkato-bot/api"
	"github.com/morkato/morkato-bot/morkato"
)

func newUserCmd(a *app) *cobra.Command {
	userCmd := &cobra.Command{
		Use:   "user",
		Short: "Manage registered players",
	}

	showCmd := &cobra.Command{
		Use:   "show <guild> <user>",
		Short: "Show a player",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			user, err := a.user(cmd, args)
			if err != nil {
				return err
			}
			printUser(cmd.OutOrStdout(), user)
			return nil
		},
	}

	createCmd := &cobra.Command{
		Use:   "create <guild> <user>",
		Short: "Register a player",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			guild, err := a.guild(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			id, err := parseID(args[1])
			if err != nil {
				return err
			}
			raw, _ := cmd.Flags().GetString("type")
			userType := api.UserType(strings.ToUpper(raw))
			if !userType.Valid() {
				return fmt.Errorf("invalid user type %q", raw)
			}

			user, err := guild.CreateUser(cmd.Context(), id, api.UserCreate{Type: userType, UserRolls: userRolls(cmd)})
			if err != nil {
				return err
			}
			a.logger.Info().Stringer("user", user.ID()).Str("type", string(user.Type())).Msg("Registered player")
			printUser(cmd.OutOrStdout(), user)
			return nil
		},
	}
	createCmd.Flags().String("type", "", "player type: HUMAN, ONI or HYBRID")
	addRollFlags(createCmd)
	createCmd.MarkFlagRequired("type")

	editCmd := &cobra.Command{
		Use:   "edit <guild> <user>",
		Short: "Update the rolls and flags of a player",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			user, err := a.user(cmd, args)
			if err != nil {
				return err
			}
			update := api.UserUpdate{UserRolls: userRolls(cmd)}
			if update.Body().Empty() {
				fmt.Fprintln(cmd.OutOrStdout(), "Nothing to update.")
				return nil
			}
			if _, err := user.Edit(cmd.Context(), update); err != nil {
				return err
			}
			printUser(cmd.OutOrStdout(), user)
			return nil
		},
	}
	addRollFlags(editCmd)

	deleteCmd := &cobra.Command{
		Use:   "delete <guild> <user>",
		Short: "Remove a player",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			user, err := a.user(cmd, args)
			if err != nil {
				return err
			}
			if err := user.Delete(cmd.Context()); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Deleted player %s\n", user.ID())
			return nil
		},
	}

	addAbilityCmd := &cobra.Command{
		Use:   "add-ability <guild> <user> <ability>",
		Short: "Grant an ability to a player",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			user, err := a.user(cmd, args)
			if err != nil {
				return err
			}
			id, err := parseID(args[2])
			if err != nil {
				return err
			}
			ability := user.Guild().GetAbility(id)
			if ability == nil {
				return fmt.Errorf("ability %s not found in guild %s", id, user.Guild().ID())
			}
			if err := user.RegistryAbility(cmd.Context(), ability); err != nil {
				return err
			}
			printUser(cmd.OutOrStdout(), user)
			return nil
		},
	}

	addFamilyCmd := &cobra.Command{
		Use:   "add-family <guild> <user> <family>",
		Short: "Assign a family to a player",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			user, err := a.user(cmd, args)
			if err != nil {
				return err
			}
			id, err := parseID(args[2])
			if err != nil {
				return err
			}
			family := user.Guild().GetFamily(id)
			if family == nil {
				return fmt.Errorf("family %s not found in guild %s", id, user.Guild().ID())
			}
			if err := user.RegistryFamily(cmd.Context(), family); err != nil {
				return err
			}
			printUser(cmd.OutOrStdout(), user)
			return nil
		},
	}

	userCmd.AddCommand(showCmd, createCmd, editCmd, deleteCmd, addAbilityCmd, addFamilyCmd)
	return userCmd
}

func addRollFlags(cmd *cobra.Command) {
	cmd.Flags().Int64("flags", 0, "raw player flag bits")
	addStatFlags(cmd.Flags(), "ability-roll", "family-roll", "prodigy-roll", "mark-roll", "berserk-roll")
}

func userRolls(cmd *cobra.Command) api.UserRolls {
	return api.UserRolls{
		Flags:       optInt(cmd, "flags"),
		AbilityRoll: optInt(cmd, "ability-roll"),
		FamilyRoll:  optInt(cmd, "family-roll"),
		ProdigyRoll: optInt(cmd, "prodigy-roll"),
		MarkRoll:    optInt(cmd, "mark-roll"),
		BerserkRoll: optInt(cmd, "berserk-roll"),
	}
}

// user resolves <guild> <user>; an unregistered player gets a friendlier error
func (a *app) user(cmd *cobra.Command, args []string) (*morkato.User, error) {
	guild, err := a.guild(cmd.Context(), args[0])
	if err != nil {
		return nil, err
	}
	id, err := parseID(args[1])
	if err != nil {
		return nil, err
	}
	user, err := guild.FetchUser(cmd.Context(), id)
	if morkato.IsUserNotFound(err) {
		return nil, fmt.Errorf("player %s is not registered in guild %s: %w", id, guild.ID(), err)
	}
	return user, err
}

func printUser(w io.Writer, user *morkato.User) {
	p := user.Payload()
	fmt.Fprintf(w, "Player %s [%s]\n", p.ID, p.Type)
	fmt.Fprintf(w, "  Rolls: ability %d  family %d  prodigy %d  mark %d  berserk %d\n",
		p.AbilityRoll, p.FamilyRoll, p.ProdigyRoll, p.MarkRoll, p.BerserkRoll)

	var abilities []string
	for _, ability := range user.Abilities() {
		abilities = append(abilities, ability.Name())
	}
	if len(abilities) > 0 {
		fmt.Fprintf(w, "  Abilities: %s\n", strings.Join(abilities, ", "))
	}
	var families []string
	for _, family := range user.Families() {
		families = append(families, family.Name())
	}
	if len(families) > 0 {
		fmt.Fprintf(w, "  Families: %s\n", strings.Join(families, ", "))
	}
}
