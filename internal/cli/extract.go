package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"image/gif"
	"io"
	"os"
	"path/filepath"

	"colorcapture/internal/extract"
	"colorcapture/internal/imagesource"
	"colorcapture/internal/palette"

	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"
	"golang.org/x/image/draw"
)

type extractionFlags struct {
	colors int
	alpha  int
	stride int
	budget int
}

func (f *extractionFlags) register(cmd *cobra.Command) {
	cmd.Flags().IntVarP(&f.colors, "colors", "n", 0, "palette size (1-256)")
	cmd.Flags().IntVar(&f.alpha, "alpha", 0, "minimum alpha for a pixel to count; -1 keeps all")
	cmd.Flags().IntVar(&f.stride, "stride", 0, "sample every Nth pixel instead of the automatic stride")
	cmd.Flags().IntVar(&f.budget, "budget", 0, "maximum number of sampled pixels")
}

// apply overrides the configured options with the flags the user set.
func (f *extractionFlags) apply(cmd *cobra.Command, base palette.Options) palette.Options {
	options := base
	if cmd.Flags().Changed("colors") {
		options.PaletteSize = f.colors
	}
	if cmd.Flags().Changed("alpha") {
		options.AlphaThreshold = f.alpha
	}
	if cmd.Flags().Changed("stride") {
		options.Stride = f.stride
	}
	if cmd.Flags().Changed("budget") {
		options.SampleBudget = f.budget
	}
	return palette.NormalizeOptions(options)
}

type extractOutput struct {
	Path    string          `json:"path"`
	Format  string          `json:"format"`
	Hash    string          `json:"hash"`
	Width   int             `json:"width"`
	Height  int             `json:"height"`
	Sampled int             `json:"sampled"`
	Stride  int             `json:"stride"`
	Cached  bool            `json:"cached"`
	Options palette.Options `json:"options"`
	Colors  []palette.Entry `json:"colors"`
}

func newExtractOutput(result extract.Result) extractOutput {
	return extractOutput{
		Path:    result.Source.Path,
		Format:  result.Source.Format,
		Hash:    result.Source.Hash,
		Width:   result.Source.Width,
		Height:  result.Source.Height,
		Sampled: result.Palette.Sampled,
		Stride:  result.Palette.Stride,
		Cached:  result.Cached,
		Options: result.Palette.Options,
		Colors:  result.Palette.Colors,
	}
}

func newExtractCmd(a *app) *cobra.Command {
	var (
		flags       extractionFlags
		jsonOutput  bool
		previewPath string
	)

	cmd := &cobra.Command{
		Use:   "extract <image>",
		Short: "Print the palette of an image",
		Long: `Extract samples the image, reduces it to a palette with median cut and
prints the colors ordered by how many sampled pixels they stand for.
Audio files contribute their embedded cover art.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			options := flags.apply(cmd, a.settings.Extraction)
			result, err := a.extractor(cmd.Context()).FromPath(cmd.Context(), args[0], options)
			if err != nil {
				return err
			}

			if previewPath != "" {
				if err := writePreview(cmd.Context(), previewPath, result); err != nil {
					return err
				}
				a.logger.Info("preview written", "path", previewPath)
			}

			if jsonOutput {
				return writeJSON(cmd.OutOrStdout(), newExtractOutput(result))
			}
			printExtraction(cmd.OutOrStdout(), result)
			return nil
		},
	}

	flags.register(cmd)
	cmd.Flags().BoolVar(&jsonOutput, "json", false, "print the palette as JSON")
	cmd.Flags().StringVar(&previewPath, "preview", "", "write a GIF posterized with the palette to this path")
	return cmd
}

func writeJSON(w io.Writer, value any) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(value)
}

func printExtraction(w io.Writer, result extract.Result) {
	source := result.Source
	extraction := result.Palette

	header := fmt.Sprintf(
		"%s  %dx%d %s · %s · %s sampled (stride %d)",
		filepath.Base(source.Path),
		source.Width,
		source.Height,
		source.Format,
		humanize.Bytes(uint64(source.Size)),
		humanize.Comma(int64(extraction.Sampled)),
		extraction.Stride,
	)
	if result.Cached {
		header += " · cached"
	}
	fmt.Fprintln(w, header)

	for index, entry := range extraction.Colors {
		share := 0.0
		if extraction.Sampled > 0 {
			share = float64(entry.Population) * 100 / float64(extraction.Sampled)
		}
		fmt.Fprintf(
			w,
			"%2d %s %s  %-18s %8s  %5.1f%%\n",
			index+1,
			swatch(entry.Hex),
			entry.Hex,
			entry.CSS(),
			humanize.Comma(int64(entry.Population)),
			share,
		)
	}
}

func swatch(hex string) string {
	return lipgloss.NewStyle().Background(lipgloss.Color(hex)).Render("    ")
}

// writePreview renders the image with only its palette colors, dithered.
func writePreview(ctx context.Context, path string, result extract.Result) error {
	source, err := result.Source.WithImage(ctx)
	if err != nil {
		return fmt.Errorf("write preview: %w", err)
	}

	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create preview: %w", err)
	}
	defer file.Close()

	options := result.Palette.Options
	err = gif.Encode(file, imagesource.Scale(source.Image, 768), &gif.Options{
		NumColors: options.PaletteSize,
		Quantizer: palette.Quantizer{Options: options},
		Drawer:    draw.FloydSteinberg,
	})
	if err != nil {
		return fmt.Errorf("encode preview: %w", err)
	}
	return file.Close()
}
