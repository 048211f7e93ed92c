package cli

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"colorcapture/internal/extract"
	"colorcapture/internal/imagesource"
	"colorcapture/internal/palette"
	"colorcapture/internal/session"

	"github.com/samber/lo"
	"github.com/spf13/cobra"
)

type gradientOutput struct {
	Stops  []string      `json:"stops"`
	Space  palette.Space `json:"space"`
	Colors []string      `json:"colors"`
	CSS    string        `json:"css"`
}

func newGradientCmd(a *app) *cobra.Command {
	var (
		flags      extractionFlags
		picks      []int
		hexFlag    []string
		steps      int
		spaceFlag  string
		angle      int
		cssOnly    bool
		copyCSS    bool
		jsonOutput bool
	)

	cmd := &cobra.Command{
		Use:   "gradient [image]",
		Short: "Blend selected colors into a gradient",
		Long: `Gradient blends 2 to 5 colors, in the order given, into evenly spaced
steps. Pick colors from an image's palette by their 1-based rank with
--pick, or pass hex colors directly with --hex.`,
		Example: `  colorcapture gradient cover.jpg --pick 1,3,2 --steps 6
  colorcapture gradient --hex "#000000,#ffffff" --steps 3 --css`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			space := palette.Space(a.settings.Gradient.Space)
			if cmd.Flags().Changed("space") {
				parsed, err := palette.ParseSpace(spaceFlag)
				if err != nil {
					return err
				}
				space = parsed
			}
			if !cmd.Flags().Changed("steps") {
				steps = a.settings.Gradient.Steps
			}
			if !cmd.Flags().Changed("angle") {
				angle = a.settings.Gradient.Angle
			}

			service := session.NewService(session.Config{
				Clipboard:     a.options.Clipboard,
				GradientSteps: a.settings.Gradient.Steps,
				GradientSpace: space,
				GradientAngle: angle,
				AckDuration:   a.settings.AckDuration,
			})

			var stops []string
			switch {
			case len(hexFlag) > 0 && len(picks) > 0:
				return errors.New("use either --pick or --hex, not both")
			case len(hexFlag) > 0:
				stops = hexFlag
			case len(args) == 1 && len(picks) > 0:
				options := flags.apply(cmd, a.settings.Extraction)
				result, err := a.extractor(cmd.Context()).FromPath(cmd.Context(), args[0], options)
				if err != nil {
					return err
				}
				state := service.Load(result)
				for _, pick := range picks {
					if pick < 1 || pick > len(state.Palette) {
						return fmt.Errorf("--pick %d is out of range: the palette has %d colors", pick, len(state.Palette))
					}
					stops = append(stops, state.Palette[pick-1].Hex)
				}
			default:
				return errors.New("pass an image with --pick, or --hex")
			}

			state, err := selectStops(service, stops)
			if err != nil {
				return err
			}
			state, err = service.GenerateGradient(steps)
			if err != nil {
				return err
			}

			if copyCSS {
				if _, _, err := service.Copy(session.TargetGradientCSS); err != nil {
					return err
				}
				a.logger.Info("gradient css copied to clipboard")
			}

			output := gradientOutput{Stops: state.Selection, Space: state.Space, CSS: state.GradientCSS}
			for _, swatch := range state.Gradient {
				output.Colors = append(output.Colors, swatch.Hex)
			}

			switch {
			case jsonOutput:
				return writeJSON(cmd.OutOrStdout(), output)
			case cssOnly:
				fmt.Fprintln(cmd.OutOrStdout(), output.CSS)
			default:
				printGradient(cmd.OutOrStdout(), output)
			}
			return nil
		},
	}

	flags.register(cmd)
	cmd.Flags().IntSliceVar(&picks, "pick", nil, "1-based palette ranks to blend, in order")
	cmd.Flags().StringSliceVar(&hexFlag, "hex", nil, "hex colors to blend, in order")
	cmd.Flags().IntVar(&steps, "steps", palette.DefaultGradientSteps, "number of colors to generate")
	cmd.Flags().StringVar(&spaceFlag, "space", "rgb", "blend space: rgb, lab, hcl")
	cmd.Flags().IntVar(&angle, "angle", 90, "CSS gradient angle in degrees")
	cmd.Flags().BoolVar(&cssOnly, "css", false, "print only the CSS linear-gradient()")
	cmd.Flags().BoolVar(&copyCSS, "copy", false, "copy the CSS to the clipboard")
	cmd.Flags().BoolVar(&jsonOutput, "json", false, "print the gradient as JSON")
	return cmd
}

// selectStops loads ad-hoc colors into the session when no image palette is
// loaded, then selects them in order.
func selectStops(service *session.Service, stops []string) (session.State, error) {
	state := service.State()
	if !state.Loaded {
		state = service.Load(adHocResult(stops))
	}

	for _, hex := range stops {
		normalized, err := palette.NormalizeHex(hex)
		if err != nil {
			return state, err
		}
		if lo.Contains(state.Selection, normalized) {
			continue
		}
		state, err = service.Toggle(normalized)
		if err != nil {
			return state, err
		}
	}
	return state, nil
}

// adHocResult wraps hex colors given on the command line as a palette so
// the session can select them.
func adHocResult(hexes []string) extract.Result {
	colors := lo.FilterMap(hexes, func(hex string, _ int) (palette.Entry, bool) {
		c, err := palette.ParseHex(hex)
		if err != nil {
			return palette.Entry{}, false
		}
		return palette.Entry{Color: c, Hex: c.Hex()}, true
	})
	return extract.Result{
		Source:  imagesource.Source{Path: "command line"},
		Palette: palette.Extraction{Colors: lo.UniqBy(colors, func(entry palette.Entry) string { return entry.Hex })},
	}
}

func printGradient(w io.Writer, output gradientOutput) {
	fmt.Fprintf(w, "stops: %s (%s)\n", strings.Join(output.Stops, " → "), output.Space)
	for index, hex := range output.Colors {
		fmt.Fprintf(w, "%2d %s %s\n", index+1, swatch(hex), hex)
	}
	fmt.Fprintln(w, output.CSS)
}
