package palette

import (
	"fmt"
	"image/color"
	"strings"

	"github.com/lucasb-eyer/go-colorful"
	"golang.org/x/exp/constraints"
)

type Color struct {
	R uint8 `json:"r"`
	G uint8 `json:"g"`
	B uint8 `json:"b"`
}

// Hex formats the color as lowercase #rrggbb.
func (c Color) Hex() string {
	return fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B)
}

// CSS formats the color as an rgb() functional notation.
func (c Color) CSS() string {
	return fmt.Sprintf("rgb(%d, %d, %d)", c.R, c.G, c.B)
}

func (c Color) RGBA() (uint32, uint32, uint32, uint32) {
	return color.NRGBA{R: c.R, G: c.G, B: c.B, A: 255}.RGBA()
}

func (c Color) channel(index int) uint8 {
	switch index {
	case channelRed:
		return c.R
	case channelGreen:
		return c.G
	default:
		return c.B
	}
}

func (c Color) colorful() colorful.Color {
	return colorful.Color{R: float64(c.R) / 255, G: float64(c.G) / 255, B: float64(c.B) / 255}
}

func fromColorful(value colorful.Color) Color {
	r, g, b := value.Clamped().RGB255()
	return Color{R: r, G: g, B: b}
}

// ParseHex accepts #rrggbb or #rgb, with or without the leading hash, in any
// letter case.
func ParseHex(value string) (Color, error) {
	trimmed := strings.ToLower(strings.TrimSpace(value))
	if !strings.HasPrefix(trimmed, "#") {
		trimmed = "#" + trimmed
	}
	if len(trimmed) != 7 && len(trimmed) != 4 {
		return Color{}, &InvalidColorError{Value: value}
	}
	for _, char := range trimmed[1:] {
		if (char < '0' || char > '9') && (char < 'a' || char > 'f') {
			return Color{}, &InvalidColorError{Value: value}
		}
	}

	parsed, err := colorful.Hex(trimmed)
	if err != nil {
		return Color{}, &InvalidColorError{Value: value}
	}

	return fromColorful(parsed), nil
}

// NormalizeHex returns the canonical lowercase #rrggbb form of value.
func NormalizeHex(value string) (string, error) {
	parsed, err := ParseHex(value)
	if err != nil {
		return "", err
	}
	return parsed.Hex(), nil
}

func MustParseHex(value string) Color {
	parsed, err := ParseHex(value)
	if err != nil {
		panic("MustParseHex: " + err.Error())
	}
	return parsed
}

func clamp[T constraints.Integer | constraints.Float](value T, minimum T, maximum T) T {
	if value < minimum {
		return minimum
	}
	if value > maximum {
		return maximum
	}
	return value
}

// roundHalfUp divides num by den rounding halves away from zero. Both
// arguments must be non-negative and den positive.
func roundHalfUp(num int64, den int64) int64 {
	return (2*num + den) / (2 * den)
}
