package palette

import (
	"image"
	"image/color"
	"image/draw"
)

var _ draw.Quantizer = Quantizer{}

// Quantizer adapts median cut to image/draw.Quantizer so the extracted palette
// can drive image/gif encoding and paletted previews.
type Quantizer struct {
	Options Options
}

// Quantize appends up to cap(p)-len(p) colors extracted from m. The palette is
// returned unchanged when m yields no eligible pixels.
func (q Quantizer) Quantize(p color.Palette, m image.Image) color.Palette {
	room := cap(p) - len(p)
	if room <= 0 {
		return p
	}

	options := q.Options
	if options.PaletteSize <= 0 || options.PaletteSize > room {
		options.PaletteSize = room
	}

	extraction, err := ExtractFromImage(m, options)
	if err != nil {
		return p
	}

	for _, entry := range extraction.Colors {
		p = append(p, color.NRGBA{R: entry.R, G: entry.G, B: entry.B, A: 255})
	}
	return p
}
