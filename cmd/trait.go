package cmd

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/morkato/morkato-bot/api"
	"github.com/morkato/morkato-bot/morkato"
)

// traitKind adapts the ability and family collections, which share one
// request shape, to a single set of commands
type traitKind struct {
	name   string
	plural string
	list   func(g *morkato.Guild) []traitView
	get    func(g *morkato.Guild, id api.Snowflake) (traitView, bool)
	create func(ctx context.Context, g *morkato.Guild, p api.TraitCreate) (traitView, error)
}

type traitView struct {
	id      api.Snowflake
	payload traitPayload
	delete  func(ctx context.Context) error
}

type traitPayload struct {
	Name        string
	Percent     int64
	UserType    int64
	Description *string
}

func abilityView(a *morkato.Ability) traitView {
	p := a.Payload()
	return traitView{
		id:      a.ID(),
		payload: traitPayload{Name: p.Name, Percent: p.Percent, UserType: p.UserType, Description: p.Description},
		delete:  a.Delete,
	}
}

func familyView(f *morkato.Family) traitView {
	p := f.Payload()
	return traitView{
		id:      f.ID(),
		payload: traitPayload{Name: p.Name, Percent: p.Percent, UserType: p.UserType, Description: p.Description},
		delete:  f.Delete,
	}
}

var abilityKind = traitKind{
	name:   "ability",
	plural: "abilities",
	list: func(g *morkato.Guild) []traitView {
		var out []traitView
		for _, a := range g.Abilities() {
			out = append(out, abilityView(a))
		}
		return out
	},
	get: func(g *morkato.Guild, id api.Snowflake) (traitView, bool) {
		a := g.GetAbility(id)
		if a == nil {
			return traitView{}, false
		}
		return abilityView(a), true
	},
	create: func(ctx context.Context, g *morkato.Guild, p api.TraitCreate) (traitView, error) {
		a, err := g.CreateAbility(ctx, p)
		if err != nil {
			return traitView{}, err
		}
		return abilityView(a), nil
	},
}

var familyKind = traitKind{
	name:   "family",
	plural: "families",
	list: func(g *morkato.Guild) []traitView {
		var out []traitView
		for _, f := range g.Families() {
			out = append(out, familyView(f))
		}
		return out
	},
	get: func(g *morkato.Guild, id api.Snowflake) (traitView, bool) {
		f := g.GetFamily(id)
		if f == nil {
			return traitView{}, false
		}
		return familyView(f), true
	},
	create: func(ctx context.Context, g *morkato.Guild, p api.TraitCreate) (traitView, error) {
		f, err := g.CreateFamily(ctx, p)
		if err != nil {
			return traitView{}, err
		}
		return familyView(f), nil
	},
}

func newTraitCmd(a *app, kind traitKind) *cobra.Command {
	traitCmd := &cobra.Command{
		Use:   kind.name,
		Short: fmt.Sprintf("List and edit %s", kind.plural),
	}

	listCmd := &cobra.Command{
		Use:   "list <guild>",
		Short: fmt.Sprintf("List the %s of a guild", kind.plural),
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			guild, err := a.guild(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			items := kind.list(guild)
			if len(items) == 0 {
				fmt.Fprintf(out, "No %s found.\n", kind.plural)
				return nil
			}
			fmt.Fprintf(out, "Found %d %s:\n", len(items), kind.plural)
			fmt.Fprintln(out, strings.Repeat("-", 60))
			for _, item := range items {
				fmt.Fprintf(out, "• %s (%s) %d%%\n", item.payload.Name, item.id, item.payload.Percent)
				if d := item.payload.Description; d != nil && *d != "" {
					fmt.Fprintf(out, "  %s\n", *d)
				}
			}
			return nil
		},
	}

	createCmd := &cobra.Command{
		Use:   "create <guild>",
		Short: fmt.Sprintf("Create a %s", kind.name),
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			guild, err := a.guild(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			name, _ := cmd.Flags().GetString("name")
			item, err := kind.create(cmd.Context(), guild, api.TraitCreate{
				Name:        name,
				Percent:     optInt(cmd, "percent"),
				UserType:    optInt(cmd, "user-type"),
				Description: optString(cmd, "description"),
				Banner:      optString(cmd, "banner"),
			})
			if err != nil {
				return err
			}
			a.logger.Info().Stringer(kind.name, item.id).Str("name", item.payload.Name).Msgf("Created %s", kind.name)
			fmt.Fprintf(cmd.OutOrStdout(), "Created %s %s (%s)\n", kind.name, item.payload.Name, item.id)
			return nil
		},
	}
	createCmd.Flags().String("name", "", kind.name+" name")
	createCmd.Flags().Int64("percent", 0, "roll chance in percent")
	createCmd.Flags().Int64("user-type", 0, "bitset of player types allowed to roll it")
	createCmd.Flags().String("description", "", "description")
	createCmd.Flags().String("banner", "", "banner URL or cdn:// reference")
	createCmd.MarkFlagRequired("name")

	deleteCmd := &cobra.Command{
		Use:   fmt.Sprintf("delete <guild> <%s>", kind.name),
		Short: fmt.Sprintf("Delete a %s", kind.name),
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
			item, ok := kind.get(guild, id)
			if !ok {
				return fmt.Errorf("%s %s not found in guild %s", kind.name, id, guild.ID())
			}
			if err := item.delete(cmd.Context()); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Deleted %s %s (%s)\n", kind.name, item.payload.Name, item.id)
			return nil
		},
	}

	traitCmd.AddCommand(listCmd, createCmd, deleteCmd)
	return traitCmd
}
