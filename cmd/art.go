package cmd

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/morkato/morkato-bot/api"
	"github.com/morkato/morkato-bot/morkato"
)

func newArtCmd(a *app) *cobra.Command {
	artCmd := &cobra.Command{
		Use:   "art",
		Short: "List and edit arts",
	}

	listCmd := &cobra.Command{
		Use:   "list <guild>",
		Short: "List the arts of a guild",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			guild, err := a.guild(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			expr, _ := cmd.Flags().GetString("filter")
			preset, _ := cmd.Flags().GetString("preset")
			f, err := a.compileFilter(expr, preset)
			if err != nil {
				return err
			}

			arts := guild.Arts()
			if f != nil {
				a.logger.Debug().Str("filter", f.Expression()).Msg("Filtering arts")
				if arts, err = f.SelectArts(arts); err != nil {
					return err
				}
			}

			out := cmd.OutOrStdout()
			if len(arts) == 0 {
				fmt.Fprintln(out, "No arts found.")
				return nil
			}
			fmt.Fprintf(out, "Found %d arts:\n", len(arts))
			fmt.Fprintln(out, strings.Repeat("-", 60))
			for _, art := range arts {
				printArt(out, art)
			}
			return nil
		},
	}
	listCmd.Flags().StringP("filter", "f", "", "filter expression")
	listCmd.Flags().StringP("preset", "p", "", "use a preset filter from config")

	createCmd := &cobra.Command{
		Use:   "create <guild>",
		Short: "Create an art",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			guild, err := a.guild(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			name, _ := cmd.Flags().GetString("name")
			artType, err := parseArtType(cmd)
			if err != nil {
				return err
			}

			art, err := guild.CreateArt(cmd.Context(), api.ArtCreate{
				Name:        name,
				Type:        artType.Or(""),
				Energy:      optInt(cmd, "energy"),
				Life:        optInt(cmd, "life"),
				Breath:      optInt(cmd, "breath"),
				Blood:       optInt(cmd, "blood"),
				Description: optString(cmd, "description"),
				Banner:      optString(cmd, "banner"),
			})
			if err != nil {
				return err
			}
			a.logger.Info().Stringer("art", art.ID()).Str("name", art.Name()).Msg("Created art")
			printArt(cmd.OutOrStdout(), art)
			return nil
		},
	}
	addArtFlags(createCmd)
	createCmd.MarkFlagRequired("name")
	createCmd.MarkFlagRequired("type")

	editCmd := &cobra.Command{
		Use:   "edit <guild> <art>",
		Short: "Update the given fields of an art",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			art, err := a.art(cmd, args)
			if err != nil {
				return err
			}
			artType, err := parseArtType(cmd)
			if err != nil {
				return err
			}

			update := api.ArtUpdate{
				Name:        optString(cmd, "name"),
				Type:        artType,
				Energy:      optInt(cmd, "energy"),
				Life:        optInt(cmd, "life"),
				Breath:      optInt(cmd, "breath"),
				Blood:       optInt(cmd, "blood"),
				Description: optString(cmd, "description"),
				Banner:      optString(cmd, "banner"),
			}
			if update.Body().Empty() {
				fmt.Fprintln(cmd.OutOrStdout(), "Nothing to update.")
				return nil
			}
			if _, err := art.Edit(cmd.Context(), update); err != nil {
				return err
			}
			printArt(cmd.OutOrStdout(), art)
			return nil
		},
	}
	addArtFlags(editCmd)

	deleteCmd := &cobra.Command{
		Use:   "delete <guild> <art>",
		Short: "Delete an art and all of its attacks",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			art, err := a.art(cmd, args)
			if err != nil {
				return err
			}
			attacks := len(art.Attacks())
			if err := art.Delete(cmd.Context()); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Deleted art %s (%s) and %d attacks\n", art.Name(), art.ID(), attacks)
			return nil
		},
	}

	artCmd.AddCommand(listCmd, createCmd, editCmd, deleteCmd)
	return artCmd
}

func addArtFlags(cmd *cobra.Command) {
	fs := cmd.Flags()
	fs.String("name", "", "art name")
	fs.String("type", "", "art type: RESPIRATION, KEKKIJUTSU or FIGHTING_STYLE")
	fs.String("description", "", "description")
	fs.String("banner", "", "banner URL or cdn:// reference")
	addStatFlags(fs, "energy", "life", "breath", "blood")
}

func parseArtType(cmd *cobra.Command) (api.Optional[api.ArtType], error) {
	raw := optString(cmd, "type")
	v, ok := raw.Get()
	if !ok {
		return api.Optional[api.ArtType]{}, nil
	}
	t := api.ArtType(strings.ToUpper(v))
	if !t.Valid() {
		return api.Optional[api.ArtType]{}, fmt.Errorf("invalid art type %q", v)
	}
	return api.Some(t), nil
}

// art resolves <guild> <art> arguments
func (a *app) art(cmd *cobra.Command, args []string) (*morkato.Art, error) {
	guild, err := a.guild(cmd.Context(), args[0])
	if err != nil {
		return nil, err
	}
	id, err := parseID(args[1])
	if err != nil {
		return nil, err
	}
	art := guild.GetArt(id)
	if art == nil {
		return nil, fmt.Errorf("art %s not found in guild %s", id, guild.ID())
	}
	return art, nil
}

func printArt(w io.Writer, art *morkato.Art) {
	p := art.Payload()
	fmt.Fprintf(w, "• %s [%s] (%s)\n", p.Name, p.Type, p.ID)
	fmt.Fprintf(w, "  Energy: %d  Life: %d  Breath: %d  Blood: %d\n", p.Energy, p.Life, p.Breath, p.Blood)
	if p.Description != nil && *p.Description != "" {
		fmt.Fprintf(w, "  %s\n", *p.Description)
	}
	if banner, err := art.BannerURL(); err == nil && banner != "" {
		fmt.Fprintf(w, "  Banner: %s\n", banner)
	}
	if attacks := art.Attacks(); len(attacks) > 0 {
		names := make([]string, 0, len(attacks))
		for _, attack := range attacks {
			names = append(names, attack.Name())
		}
		fmt.Fprintf(w, "  Attacks: %s\n", strings.Join(names, ", "))
	}
}
