package cli

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"

	"colorcapture/internal/watcher"

	"github.com/spf13/cobra"
)

func newWatchCmd(a *app) *cobra.Command {
	var (
		flags      extractionFlags
		jsonOutput bool
	)

	cmd := &cobra.Command{
		Use:   "watch <image>",
		Short: "Print the palette again whenever the image changes",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			options := flags.apply(cmd, a.settings.Extraction)
			extractor := a.extractor(ctx)
			w, err := watcher.New(args[0], 0, a.logger)
			if err != nil {
				return err
			}

			show := func() error {
				result, err := extractor.FromPath(ctx, w.Path(), options)
				if err != nil {
					return err
				}
				if jsonOutput {
					return writeJSON(cmd.OutOrStdout(), newExtractOutput(result))
				}
				printExtraction(cmd.OutOrStdout(), result)
				return nil
			}
			if err := show(); err != nil {
				return err
			}

			err = w.Run(ctx, func() {
				if err := show(); err != nil {
					a.logger.Error("re-extract failed", "path", w.Path(), "error", err)
				}
			})
			if errors.Is(err, context.Canceled) {
				return nil
			}
			return err
		},
	}

	flags.register(cmd)
	cmd.Flags().BoolVar(&jsonOutput, "json", false, "print each palette as JSON")
	return cmd
}
