package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/morkato/morkato-bot/api"
)

func newUploadCmd(a *app) *cobra.Command {
	uploadCmd := &cobra.Command{
		Use:   "upload <file>",
		Short: "Upload an image to the CDN",
		Long: `Upload an image to the CDN under the author's id.

The stored file can then be used as a banner with cdn://<author>/<name>.
Names may not contain digits, ':' , '/' or whitespace.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			rawAuthor, _ := cmd.Flags().GetString("author")
			author, err := parseID(rawAuthor)
			if err != nil {
				return err
			}
			name, _ := cmd.Flags().GetString("name")
			if name == "" {
				name = strings.TrimSuffix(filepath.Base(args[0]), filepath.Ext(args[0]))
			}

			ref, err := api.CDNReference(author, name)
			if err != nil {
				return fmt.Errorf("%q cannot be used as an upload name: %w", name, err)
			}

			image, err := os.ReadFile(args[0])
			if err != nil {
				return fmt.Errorf("failed to read image: %w", err)
			}
			if err := a.client.UploadImage(cmd.Context(), image, author, name); err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Uploaded %s (%d bytes) as %s\n", args[0], len(image), ref)
			return nil
		},
	}
	uploadCmd.Flags().String("author", "", "id of the uploading user")
	uploadCmd.Flags().String("name", "", "stored name (defaults to the file name without extension)")
	uploadCmd.MarkFlagRequired("author")
	return uploadCmd
}

func newCDNCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "cdn <reference>",
		Short: "Resolve a cdn:// reference to its URL",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			url, err := a.client.ResolveCDN(args[0])
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), url)
			return nil
		},
	}
}
