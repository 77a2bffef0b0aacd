package cmd

import (
	"fmt"

	"github.com/blang/semver"
	"github.com/creativeprojects/go-selfupdate"
	"github.com/spf13/cobra"
)

func newUpdateCmd(a *app) *cobra.Command {
	updateCmd := &cobra.Command{
		Use:   "update",
		Short: "Update morkato to the latest release",
		RunE: func(cmd *cobra.Command, args []string) error {
			current, err := semver.ParseTolerant(version)
			if err != nil {
				return fmt.Errorf("cannot self-update a %q build, install a release instead", version)
			}
			checkOnly, _ := cmd.Flags().GetBool("check")

			ctx := cmd.Context()
			latest, found, err := selfupdate.DetectLatest(ctx, selfupdate.ParseSlug(a.cfg.Update.Repository))
			if err != nil {
				return fmt.Errorf("failed to detect latest version: %w", err)
			}
			if !found {
				return fmt.Errorf("no release found for %s", a.cfg.Update.Repository)
			}

			latestVersion, err := semver.ParseTolerant(latest.Version())
			if err != nil {
				return fmt.Errorf("invalid release version %q: %w", latest.Version(), err)
			}
			out := cmd.OutOrStdout()
			if latestVersion.LTE(current) {
				fmt.Fprintf(out, "Already up to date (%s)\n", current)
				return nil
			}
			if checkOnly {
				fmt.Fprintf(out, "Update available: %s -> %s\n", current, latestVersion)
				return nil
			}

			exe, err := selfupdate.ExecutablePath()
			if err != nil {
				return fmt.Errorf("could not locate executable path: %w", err)
			}
			a.logger.Info().Str("from", current.String()).Str("to", latestVersion.String()).Msg("Updating")
			if err := selfupdate.UpdateTo(ctx, latest.AssetURL, latest.AssetName, exe); err != nil {
				return fmt.Errorf("failed to update binary: %w", err)
			}

			fmt.Fprintf(out, "Updated to %s\n", latestVersion)
			return nil
		},
	}
	updateCmd.Flags().Bool("check", false, "only report whether an update is available")
	return updateCmd
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Args:  cobra.NoArgs,
		// needs neither config nor a backend
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error { return nil },
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "morkato %s (built %s)\n", version, buildTime)
		},
	}
}
