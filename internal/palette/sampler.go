package palette

import (
	"image"

	"golang.org/x/image/draw"
)

// Pixel is a single opaque sample fed to the quantizer.
type Pixel struct {
	R uint8
	G uint8
	B uint8
}

func (p Pixel) channel(index int) uint8 {
	switch index {
	case channelRed:
		return p.R
	case channelGreen:
		return p.G
	default:
		return p.B
	}
}

// PixelData is a decoded, row-major pixel buffer. Channels is 3 (RGB) or 4
// (non-premultiplied RGBA); zero means 4.
type PixelData struct {
	Width    int
	Height   int
	Channels int
	Pix      []byte
}

func (d PixelData) channels() int {
	if d.Channels == 0 {
		return 4
	}
	return d.Channels
}

func (d PixelData) validate() error {
	if d.Width <= 0 || d.Height <= 0 {
		return &InvalidImageError{Width: d.Width, Height: d.Height, Reason: "dimensions must be positive"}
	}
	if len(d.Pix) == 0 {
		return &InvalidImageError{Width: d.Width, Height: d.Height, Reason: "pixel buffer is empty"}
	}
	channels := d.channels()
	if channels != 3 && channels != 4 {
		return &InvalidImageError{Width: d.Width, Height: d.Height, Reason: "channel count must be 3 or 4"}
	}
	if len(d.Pix) < d.Width*d.Height*channels {
		return &InvalidImageError{Width: d.Width, Height: d.Height, Reason: "pixel buffer is shorter than width*height*channels"}
	}
	return nil
}

// FromImage converts any decoded image into a tightly packed NRGBA buffer.
func FromImage(img image.Image) PixelData {
	bounds := img.Bounds()
	if bounds.Empty() {
		return PixelData{Width: bounds.Dx(), Height: bounds.Dy(), Channels: 4}
	}

	if nrgba, ok := img.(*image.NRGBA); ok && nrgba.Stride == bounds.Dx()*4 && nrgba.Rect.Min == (image.Point{}) {
		return PixelData{Width: bounds.Dx(), Height: bounds.Dy(), Channels: 4, Pix: nrgba.Pix}
	}

	dst := image.NewNRGBA(image.Rect(0, 0, bounds.Dx(), bounds.Dy()))
	draw.Draw(dst, dst.Bounds(), img, bounds.Min, draw.Src)
	return PixelData{Width: bounds.Dx(), Height: bounds.Dy(), Channels: 4, Pix: dst.Pix}
}

// SampleStride returns the step between sampled pixels for an image holding
// pixelCount pixels so that at most budget pixels are visited.
func SampleStride(pixelCount int, budget int) int {
	if pixelCount <= 0 || budget <= 0 || pixelCount <= budget {
		return 1
	}
	return (pixelCount + budget - 1) / budget
}

// Sample walks the buffer in row-major order every stride pixels and keeps the
// pixels whose alpha reaches the threshold.
func Sample(data PixelData, options Options) ([]Pixel, error) {
	pixels, _, err := sample(data, options.normalized())
	return pixels, err
}

func sample(data PixelData, options Options) ([]Pixel, int, error) {
	if err := data.validate(); err != nil {
		return nil, 0, err
	}

	total := data.Width * data.Height
	stride := options.Stride
	if stride <= 0 {
		stride = SampleStride(total, options.SampleBudget)
	}

	channels := data.channels()
	pixels := make([]Pixel, 0, (total+stride-1)/stride)
	for index := 0; index < total; index += stride {
		offset := index * channels
		if channels == 4 && int(data.Pix[offset+3]) < options.AlphaThreshold {
			continue
		}
		pixels = append(pixels, Pixel{
			R: data.Pix[offset],
			G: data.Pix[offset+1],
			B: data.Pix[offset+2],
		})
	}

	return pixels, stride, nil
}
