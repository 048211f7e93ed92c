package cli

import (
	"fmt"
	"strings"
	"text/tabwriter"

	"colorcapture/internal/palette"
	"colorcapture/internal/store"

	"github.com/dustin/go-humanize"
	"github.com/samber/lo"
	"github.com/spf13/cobra"
)

func newCacheCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cache",
		Short: "Inspect or clear the palette cache",
	}
	cmd.AddCommand(newCacheListCmd(a), newCacheClearCmd(a))
	return cmd
}

func newCacheListCmd(a *app) *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List recently used palettes",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			repo, err := a.openStore(cmd.Context())
			if err != nil {
				return err
			}
			records, err := repo.ListRecent(cmd.Context(), limit)
			if err != nil {
				return err
			}
			if len(records) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "cache is empty")
				return nil
			}

			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
			fmt.Fprintln(tw, "HASH\tSOURCE\tCOLORS\tUSED")
			for _, record := range records {
				fmt.Fprintf(
					tw,
					"%s\t%s\t%s\t%s\n",
					shortHash(record.ImageHash),
					record.SourcePath,
					colorSummary(record),
					humanize.Time(record.AccessedAt),
				)
			}
			return tw.Flush()
		},
	}

	cmd.Flags().IntVar(&limit, "limit", 20, "maximum number of palettes to list")
	return cmd
}

func newCacheClearCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "clear",
		Short: "Remove every cached palette",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			repo, err := a.openStore(cmd.Context())
			if err != nil {
				return err
			}
			removed, err := repo.Clear(cmd.Context())
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "removed %d cached %s\n", removed, pluralize(removed, "palette", "palettes"))
			return nil
		},
	}
}

func shortHash(hash string) string {
	if len(hash) > 12 {
		return hash[:12]
	}
	return hash
}

func colorSummary(record store.PaletteRecord) string {
	hexes := lo.Map(record.Colors, func(entry palette.Entry, _ int) string { return entry.Hex })
	if len(hexes) > 4 {
		return fmt.Sprintf("%d: %s …", len(hexes), strings.Join(hexes[:4], " "))
	}
	return fmt.Sprintf("%d: %s", len(hexes), strings.Join(hexes, " "))
}

func pluralize(count int64, singular string, plural string) string {
	if count == 1 {
		return singular
	}
	return plural
}
