package cli

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"colorcapture/internal/config"

	"github.com/spf13/cobra"
)

func newConfigCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Show or create the settings file",
	}
	cmd.AddCommand(newConfigShowCmd(a), newConfigInitCmd(a), newConfigPathCmd(a))
	return cmd
}

func newConfigShowCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Print the effective settings as YAML",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			data, err := a.settings.Marshal()
			if err != nil {
				return err
			}
			_, err = cmd.OutOrStdout().Write(data)
			return err
		},
	}
}

func newConfigInitCmd(a *app) *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Write the default settings to the user settings file",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			path := a.paths.SettingsPath
			if !force {
				if _, err := os.Stat(path); err == nil {
					return fmt.Errorf("%s already exists, pass --force to overwrite it", path)
				} else if !errors.Is(err, fs.ErrNotExist) {
					return fmt.Errorf("check settings file: %w", err)
				}
			}

			if err := config.DefaultSettings().Save(path); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "wrote %s\n", path)
			return nil
		},
	}

	cmd.Flags().BoolVar(&force, "force", false, "overwrite an existing settings file")
	return cmd
}

func newConfigPathCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "path",
		Short: "Print where settings, cache and logs live",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "settings:   %s\n", a.paths.SettingsPath)
			fmt.Fprintf(out, "cache:      %s\n", a.paths.DBPath)
			fmt.Fprintf(out, "thumbnails: %s\n", a.paths.ThumbnailDir)
			fmt.Fprintf(out, "log:        %s\n", a.paths.LogPath)
			return nil
		},
	}
}
