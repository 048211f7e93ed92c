package cli

import (
	"context"
	"database/sql"
	"fmt"
	"io"
	"log/slog"
	"os"

	"colorcapture/internal/clipboardx"
	"colorcapture/internal/config"
	"colorcapture/internal/db"
	"colorcapture/internal/extract"
	"colorcapture/internal/logging"
	"colorcapture/internal/store"

	"github.com/spf13/cobra"
)

// Options lets callers and tests replace the process-wide collaborators.
type Options struct {
	Version      string
	Out          io.Writer
	Err          io.Writer
	ResolvePaths func() (config.Paths, error)
	Clipboard    clipboardx.Writer
}

type globalFlags struct {
	configPath string
	logLevel   string
	logFormat  string
	noCache    bool
}

// app carries what every subcommand needs once flags are parsed.
type app struct {
	options  Options
	flags    globalFlags
	paths    config.Paths
	settings config.Settings
	logger   *slog.Logger

	database *sql.DB
	repo     *store.PaletteRepository
}

func NewRootCmd(options Options) *cobra.Command {
	if options.Out == nil {
		options.Out = os.Stdout
	}
	if options.Err == nil {
		options.Err = os.Stderr
	}
	if options.ResolvePaths == nil {
		options.ResolvePaths = func() (config.Paths, error) {
			return config.ResolvePaths(config.AppSlug)
		}
	}
	if options.Clipboard == nil {
		options.Clipboard = clipboardx.System{}
	}
	if options.Version == "" {
		options.Version = "dev"
	}

	a := &app{options: options}

	rootCmd := &cobra.Command{
		Use:   "colorcapture",
		Short: "Extract color palettes and gradients from images",
		Long: `colorcapture reduces an image to a small palette with median cut,
lets you pick up to five of its colors and blends them into a gradient
you can copy as hex values or CSS.`,
		Version:      options.Version,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return a.setup(cmd)
		},
		PersistentPostRunE: func(*cobra.Command, []string) error {
			return a.close()
		},
	}
	rootCmd.SetOut(options.Out)
	rootCmd.SetErr(options.Err)
	rootCmd.SetVersionTemplate(`{{printf "colorcapture version %s\n" .Version}}`)

	flags := rootCmd.PersistentFlags()
	flags.StringVar(&a.flags.configPath, "config", "", "settings file layered over the user settings")
	flags.StringVar(&a.flags.logLevel, "log-level", "", "log level: debug, info, warn, error")
	flags.StringVar(&a.flags.logFormat, "log-format", "", "log format: text, json")
	flags.BoolVar(&a.flags.noCache, "no-cache", false, "skip the palette cache")

	rootCmd.AddCommand(
		newExtractCmd(a),
		newGradientCmd(a),
		newWatchCmd(a),
		newTUICmd(a),
		newCacheCmd(a),
		newConfigCmd(a),
		newVersionCmd(a),
	)

	return rootCmd
}

func (a *app) setup(cmd *cobra.Command) error {
	paths, err := a.options.ResolvePaths()
	if err != nil {
		return err
	}
	a.paths = paths

	settings, err := config.LoadSettings(paths.SettingsPath, a.flags.configPath)
	if err != nil {
		return err
	}
	if a.flags.logLevel != "" {
		settings.Log.Level = a.flags.logLevel
	}
	if a.flags.logFormat != "" {
		settings.Log.Format = a.flags.logFormat
	}
	if a.flags.noCache {
		settings.Cache.Enabled = false
	}
	a.settings = settings

	level, err := logging.ParseLevel(settings.Log.Level)
	if err != nil {
		return err
	}
	format, err := logging.ParseFormat(settings.Log.Format)
	if err != nil {
		return err
	}
	a.logger = logging.New(cmd.ErrOrStderr(), level, format)

	return nil
}

func (a *app) close() error {
	if a.database == nil {
		return nil
	}
	err := a.database.Close()
	a.database = nil
	a.repo = nil
	return err
}

// openStore opens the palette cache on first use.
func (a *app) openStore(ctx context.Context) (*store.PaletteRepository, error) {
	if a.repo != nil {
		return a.repo, nil
	}

	database, err := db.Bootstrap(ctx, a.paths.DBPath)
	if err != nil {
		return nil, fmt.Errorf("open palette cache: %w", err)
	}
	a.database = database
	a.repo = store.NewPaletteRepository(database)
	return a.repo, nil
}

func (a *app) extractor(ctx context.Context) *extract.Service {
	cfg := extract.Config{
		Logger:        a.logger,
		MemoryEntries: a.settings.Cache.MemoryEntries,
	}
	if a.settings.Cache.Enabled {
		repo, err := a.openStore(ctx)
		if err != nil {
			a.logger.Warn("palette cache unavailable, continuing without it", "error", err)
		} else {
			cfg.Store = repo
		}
	}
	return extract.NewService(cfg)
}
