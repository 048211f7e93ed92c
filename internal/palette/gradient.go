package palette

import (
	"fmt"
	"strings"
)

const DefaultGradientSteps = 8

// Space selects the color space gradients are blended in.
type Space string

const (
	SpaceRGB Space = "rgb"
	SpaceLab Space = "lab"
	SpaceHCL Space = "hcl"
)

func ParseSpace(value string) (Space, error) {
	switch Space(strings.ToLower(strings.TrimSpace(value))) {
	case "", SpaceRGB:
		return SpaceRGB, nil
	case SpaceLab:
		return SpaceLab, nil
	case SpaceHCL:
		return SpaceHCL, nil
	default:
		return "", fmt.Errorf("unknown gradient space %q (valid: rgb, lab, hcl)", value)
	}
}

type GradientStop struct {
	Position float64 `json:"position"`
	Color    Color   `json:"color"`
}

// Stops places colors evenly on [0,1].
func Stops(colors []Color) []GradientStop {
	stops := make([]GradientStop, len(colors))
	for index, c := range colors {
		position := 0.0
		if len(colors) > 1 {
			position = float64(index) / float64(len(colors)-1)
		}
		stops[index] = GradientStop{Position: position, Color: c}
	}
	return stops
}

// Synthesize samples n colors along the piecewise-linear RGB path through
// colors, which sit at evenly spaced stops. Channels are interpolated
// independently in gamma-encoded RGB and rounded half up, so a 127.5 midpoint
// becomes 128.
func Synthesize(colors []Color, n int) ([]Color, error) {
	if len(colors) < 2 {
		return nil, &InsufficientStopsError{Have: len(colors)}
	}
	if n <= 0 {
		n = DefaultGradientSteps
	}
	if n == 1 {
		return []Color{colors[0]}, nil
	}

	// Sample j lies at j*(k-1)/(n-1) stop units; integer arithmetic keeps the
	// rounding exact.
	segments := int64(len(colors) - 1)
	span := int64(n - 1)
	result := make([]Color, n)
	for j := int64(0); j < int64(n); j++ {
		scaled := j * segments
		interval := scaled / span
		remainder := scaled % span
		if interval >= segments {
			result[j] = colors[len(colors)-1]
			continue
		}

		from := colors[interval]
		to := colors[interval+1]
		var channels [channelCount]uint8
		for channel := 0; channel < channelCount; channel++ {
			start := int64(from.channel(channel))
			delta := int64(to.channel(channel)) - start
			channels[channel] = uint8(clamp(roundHalfUp(start*span+delta*remainder, span), 0, 255))
		}
		result[j] = Color{R: channels[channelRed], G: channels[channelGreen], B: channels[channelBlue]}
	}

	return result, nil
}

// SynthesizeIn is Synthesize with a selectable blend space. SpaceRGB matches
// Synthesize exactly; SpaceLab and SpaceHCL blend perceptually.
func SynthesizeIn(space Space, colors []Color, n int) ([]Color, error) {
	if space == "" || space == SpaceRGB {
		return Synthesize(colors, n)
	}
	if len(colors) < 2 {
		return nil, &InsufficientStopsError{Have: len(colors)}
	}
	if n <= 0 {
		n = DefaultGradientSteps
	}
	if n == 1 {
		return []Color{colors[0]}, nil
	}

	segments := len(colors) - 1
	result := make([]Color, n)
	for j := 0; j < n; j++ {
		scaled := float64(j*segments) / float64(n-1)
		interval := int(scaled)
		if interval >= segments {
			result[j] = colors[segments]
			continue
		}

		t := scaled - float64(interval)
		from := colors[interval].colorful()
		to := colors[interval+1].colorful()
		switch space {
		case SpaceLab:
			result[j] = fromColorful(from.BlendLab(to, t))
		case SpaceHCL:
			result[j] = fromColorful(from.BlendHcl(to, t))
		default:
			return nil, fmt.Errorf("unknown gradient space %q", space)
		}
	}

	return result, nil
}

// CSSLinearGradient renders colors as a CSS linear-gradient() with explicit
// stop percentages.
func CSSLinearGradient(colors []Color, angleDegrees int) string {
	if len(colors) == 0 {
		return ""
	}
	if len(colors) == 1 {
		return fmt.Sprintf("linear-gradient(%ddeg, %s, %s)", angleDegrees, colors[0].Hex(), colors[0].Hex())
	}

	parts := make([]string, 0, len(colors))
	for _, stop := range Stops(colors) {
		parts = append(parts, fmt.Sprintf("%s %s%%", stop.Color.Hex(), formatPercent(stop.Position*100)))
	}
	return fmt.Sprintf("linear-gradient(%ddeg, %s)", angleDegrees, strings.Join(parts, ", "))
}

func formatPercent(value float64) string {
	formatted := fmt.Sprintf("%.2f", value)
	formatted = strings.TrimRight(formatted, "0")
	return strings.TrimSuffix(formatted, ".")
}

func Hexes(colors []Color) []string {
	hexes := make([]string, len(colors))
	for index, c := range colors {
		hexes[index] = c.Hex()
	}
	return hexes
}
