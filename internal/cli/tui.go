package cli

import (
	"context"
	"fmt"

	"colorcapture/internal/extract"
	"colorcapture/internal/logging"
	"colorcapture/internal/palette"
	"colorcapture/internal/session"
	"colorcapture/internal/tui"
	"colorcapture/internal/watcher"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
)

func newTUICmd(a *app) *cobra.Command {
	var (
		flags extractionFlags
		watch bool
	)

	cmd := &cobra.Command{
		Use:   "tui <image>",
		Short: "Pick colors and build gradients interactively",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			level, err := logging.ParseLevel(a.settings.Log.Level)
			if err != nil {
				return err
			}
			// The terminal belongs to the UI, so logs go to a file.
			logger, closeLog, err := logging.OpenFile(a.paths.LogPath, level)
			if err != nil {
				return err
			}
			defer closeLog()
			a.logger = logger

			ctx, cancel := context.WithCancel(cmd.Context())
			defer cancel()

			options := flags.apply(cmd, a.settings.Extraction)
			extractor := a.extractor(ctx)
			result, err := extractor.FromPath(ctx, args[0], options)
			if err != nil {
				return err
			}

			service := session.NewService(session.Config{
				Clipboard:     a.options.Clipboard,
				GradientSteps: a.settings.Gradient.Steps,
				GradientSpace: palette.Space(a.settings.Gradient.Space),
				GradientAngle: a.settings.Gradient.Angle,
				AckDuration:   a.settings.AckDuration,
			})
			service.Load(result)

			program := tui.NewProgram(tui.New(service, a.settings.Gradient.Steps))

			if watch {
				w, err := watcher.New(args[0], 0, logger)
				if err != nil {
					return err
				}
				go func() {
					err := w.Run(ctx, func() {
						program.Send(reload(ctx, extractor, service, w.Path(), options))
					})
					if err != nil {
						logger.Error("watch stopped", "error", err)
					}
				}()
			}

			if _, err := program.Run(); err != nil {
				return fmt.Errorf("run tui: %w", err)
			}
			return nil
		},
	}

	flags.register(cmd)
	cmd.Flags().BoolVar(&watch, "watch", false, "reload the palette when the image changes")
	return cmd
}

func reload(ctx context.Context, extractor *extract.Service, service *session.Service, path string, options palette.Options) tea.Msg {
	result, err := extractor.FromPath(ctx, path, options)
	if err != nil {
		return tui.ReloadFailedMsg{Err: err}
	}
	return tui.ReloadedMsg{State: service.Load(result)}
}
