package imagesource

import (
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/gen2brain/avif"
	"go.senan.xyz/taglib"
	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"
)

var ErrNoImage = errors.New("no image data")

var audioExtensions = map[string]struct{}{
	".mp3":  {},
	".flac": {},
	".m4a":  {},
	".ogg":  {},
	".opus": {},
	".wav":  {},
	".aiff": {},
	".wma":  {},
	".aac":  {},
	".alac": {},
}

// SourceKind says where the pixels came from.
type SourceKind string

const (
	KindFile     SourceKind = "file"
	KindEmbedded SourceKind = "embedded"
	// KindUpload images exist only in memory; Path is the name they were
	// uploaded under.
	KindUpload SourceKind = "upload"
)

// Source is a decoded image plus what the presentation layers show next to
// its palette.
type Source struct {
	Path    string      `json:"path"`
	Kind    SourceKind  `json:"kind"`
	Hash    string      `json:"hash"`
	Format  string      `json:"format"`
	Width   int         `json:"width"`
	Height  int         `json:"height"`
	Size    int64       `json:"size"`
	ModTime time.Time   `json:"modTime"`
	Title   string      `json:"title,omitempty"`
	Artist  string      `json:"artist,omitempty"`
	Album   string      `json:"album,omitempty"`
	Image   image.Image `json:"-"`
}

func IsAudioPath(path string) bool {
	_, ok := audioExtensions[strings.ToLower(filepath.Ext(path))]
	return ok
}

// Load reads and decodes path. Audio files contribute their embedded cover
// art and tags.
func Load(ctx context.Context, path string) (Source, error) {
	trimmed := strings.TrimSpace(path)
	if trimmed == "" {
		return Source{}, errors.New("image path is required")
	}

	info, err := os.Stat(trimmed)
	if err != nil {
		return Source{}, fmt.Errorf("open image: %w", err)
	}
	if info.IsDir() {
		return Source{}, fmt.Errorf("open image: %s is a directory", trimmed)
	}
	if err := ctx.Err(); err != nil {
		return Source{}, err
	}

	var data []byte
	kind := KindFile
	if IsAudioPath(trimmed) {
		kind = KindEmbedded
		data, err = taglib.ReadImage(trimmed)
		if err != nil {
			return Source{}, fmt.Errorf("read embedded cover from %s: %w", trimmed, err)
		}
		if len(data) == 0 {
			return Source{}, fmt.Errorf("read embedded cover from %s: %w", trimmed, ErrNoImage)
		}
	} else {
		data, err = os.ReadFile(trimmed)
		if err != nil {
			return Source{}, fmt.Errorf("open image: %w", err)
		}
	}
	if err := ctx.Err(); err != nil {
		return Source{}, err
	}

	source, err := Decode(data, filepath.Ext(trimmed))
	if err != nil {
		return Source{}, fmt.Errorf("decode %s: %w", trimmed, err)
	}

	source.Path = trimmed
	source.Kind = kind
	source.ModTime = info.ModTime()
	if kind == KindEmbedded {
		applyTags(&source, trimmed)
	}

	return source, nil
}

// Decode decodes an in-memory image. extHint may be empty; ".avif" forces the
// AVIF decoder.
func Decode(data []byte, extHint string) (Source, error) {
	if len(data) == 0 {
		return Source{}, ErrNoImage
	}

	var (
		decoded image.Image
		format  string
		err     error
	)
	if strings.EqualFold(extHint, ".avif") {
		decoded, err = avif.Decode(bytes.NewReader(data))
		format = "avif"
	} else {
		decoded, format, err = image.Decode(bytes.NewReader(data))
	}
	if err != nil {
		return Source{}, fmt.Errorf("decode image: %w", err)
	}

	bounds := decoded.Bounds()
	return Source{
		Hash:   HashBytes(data),
		Format: format,
		Width:  bounds.Dx(),
		Height: bounds.Dy(),
		Size:   int64(len(data)),
		Image:  decoded,
	}, nil
}

// WithImage returns source with its pixels, decoding the file again when a
// cached result dropped them. The file must still hash to source.Hash.
func (s Source) WithImage(ctx context.Context) (Source, error) {
	if s.Image != nil {
		return s, nil
	}
	if s.Kind == KindUpload || !filepath.IsAbs(s.Path) {
		return s, ErrNoImage
	}

	reloaded, err := Load(ctx, s.Path)
	if err != nil {
		return s, err
	}
	if s.Hash != "" && !strings.EqualFold(reloaded.Hash, s.Hash) {
		return s, fmt.Errorf("%s changed since it was loaded: %w", s.Path, ErrNoImage)
	}
	return reloaded, nil
}

func HashBytes(data []byte) string {
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}

func applyTags(source *Source, path string) {
	tags, err := taglib.ReadTags(path)
	if err != nil {
		return
	}
	source.Title = firstTagValue(tags, taglib.Title, "TITLE")
	source.Artist = firstTagValue(tags, taglib.AlbumArtist, taglib.Artist, "ARTIST")
	source.Album = firstTagValue(tags, taglib.Album, "ALBUM")
}

func firstTagValue(tags map[string][]string, keys ...string) string {
	for _, key := range keys {
		for _, value := range tags[key] {
			if trimmed := strings.TrimSpace(value); trimmed != "" {
				return trimmed
			}
		}
	}
	return ""
}
