package palette

import (
	"image"
)

// Extraction is the result of running the sampler and the quantizer over one
// image.
type Extraction struct {
	Colors  []Entry `json:"colors"`
	Width   int     `json:"width"`
	Height  int     `json:"height"`
	Sampled int     `json:"sampled"`
	Stride  int     `json:"stride"`
	Options Options `json:"options"`
}

func (e Extraction) Hexes() []string {
	hexes := make([]string, 0, len(e.Colors))
	for _, entry := range e.Colors {
		hexes = append(hexes, entry.Hex)
	}
	return hexes
}

func Extract(data PixelData, options Options) (Extraction, error) {
	normalized := options.normalized()

	pixels, stride, err := sample(data, normalized)
	if err != nil {
		return Extraction{}, err
	}
	if len(pixels) == 0 {
		total := data.Width * data.Height
		return Extraction{}, &EmptyPaletteError{Considered: (total + stride - 1) / stride}
	}

	colors, err := Quantize(pixels, normalized.PaletteSize)
	if err != nil {
		return Extraction{}, err
	}

	return Extraction{
		Colors:  colors,
		Width:   data.Width,
		Height:  data.Height,
		Sampled: len(pixels),
		Stride:  stride,
		Options: normalized,
	}, nil
}

func ExtractFromImage(img image.Image, options Options) (Extraction, error) {
	return Extract(FromImage(img), options)
}
