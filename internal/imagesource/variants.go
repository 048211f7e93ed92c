package imagesource

import (
	"fmt"
	"image"
	"os"
	"path/filepath"
	"strings"

	"github.com/gen2brain/avif"
	"golang.org/x/image/draw"
)

const (
	VariantOriginal = "original"
	VariantThumb    = "thumb"
	VariantPreview  = "preview"
)

const ThumbnailExtension = ".avif"

type ThumbnailSpec struct {
	Variant string
	Size    int
}

var thumbnailSpecs = map[string]ThumbnailSpec{
	VariantThumb:   {Variant: VariantThumb, Size: 96},
	VariantPreview: {Variant: VariantPreview, Size: 768},
}

func NormalizeVariant(value string) string {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case VariantThumb:
		return VariantThumb
	case VariantPreview:
		return VariantPreview
	default:
		return VariantOriginal
	}
}

func ThumbnailPath(cacheDir string, hash string, variant string) string {
	return filepath.Join(cacheDir, fmt.Sprintf("%s__%s%s", strings.ToLower(strings.TrimSpace(hash)), NormalizeVariant(variant), ThumbnailExtension))
}

// HashFromThumbnailFilename returns the content hash encoded in a thumbnail
// filename, or "" when the name is not one of ours.
func HashFromThumbnailFilename(filename string) string {
	name := strings.TrimSpace(filepath.Base(filename))
	base := strings.TrimSuffix(name, filepath.Ext(name))
	if separator := strings.Index(base, "__"); separator >= 0 {
		base = base[:separator]
	}
	if !IsValidHash(base) {
		return ""
	}
	return strings.ToLower(base)
}

// IsValidHash reports whether value looks like a sha256 hex digest.
func IsValidHash(value string) bool {
	if len(value) != 64 {
		return false
	}

	for _, char := range value {
		if (char < '0' || char > '9') && (char < 'a' || char > 'f') && (char < 'A' || char > 'F') {
			return false
		}
	}

	return true
}

// Scale fits img inside a size x size square, keeping its aspect ratio.
// Images already small enough are returned as is.
func Scale(img image.Image, size int) image.Image {
	bounds := img.Bounds()
	width, height := bounds.Dx(), bounds.Dy()
	if size <= 0 || (width <= size && height <= size) {
		return img
	}

	if width >= height {
		height = max(1, height*size/width)
		width = size
	} else {
		width = max(1, width*size/height)
		height = size
	}

	dst := image.NewNRGBA(image.Rect(0, 0, width, height))
	draw.CatmullRom.Scale(dst, dst.Bounds(), img, bounds, draw.Src, nil)
	return dst
}

// EnsureThumbnail writes the AVIF thumbnail for source into cacheDir unless
// it already exists, and returns its path.
func EnsureThumbnail(cacheDir string, source Source, variant string) (string, error) {
	spec, ok := thumbnailSpecs[NormalizeVariant(variant)]
	if !ok {
		return "", fmt.Errorf("variant %q has no thumbnail", variant)
	}
	if !IsValidHash(source.Hash) || source.Image == nil {
		return "", ErrNoImage
	}

	path := ThumbnailPath(cacheDir, source.Hash, spec.Variant)
	if info, err := os.Stat(path); err == nil && !info.IsDir() {
		return path, nil
	}

	if err := os.MkdirAll(cacheDir, 0o755); err != nil {
		return "", fmt.Errorf("create thumbnail dir: %w", err)
	}

	tmp, err := os.CreateTemp(cacheDir, "thumb-*.tmp")
	if err != nil {
		return "", fmt.Errorf("create thumbnail: %w", err)
	}
	defer os.Remove(tmp.Name())

	if err := avif.Encode(tmp, Scale(source.Image, spec.Size), avif.Options{Quality: 70, Speed: 8}); err != nil {
		tmp.Close()
		return "", fmt.Errorf("encode thumbnail: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return "", fmt.Errorf("close thumbnail: %w", err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return "", fmt.Errorf("store thumbnail: %w", err)
	}

	return path, nil
}
