package palette

import (
	"errors"
	"fmt"
)

var (
	ErrInvalidImage      = errors.New("invalid image")
	ErrEmptyPalette      = errors.New("empty palette")
	ErrSelectionLimit    = errors.New("selection limit reached")
	ErrInsufficientStops = errors.New("insufficient gradient stops")
	ErrInvalidColor      = errors.New("invalid color")
)

// InvalidImageError reports pixel input that cannot be sampled.
type InvalidImageError struct {
	Width  int
	Height int
	Reason string
}

func (e *InvalidImageError) Error() string {
	return fmt.Sprintf("invalid image %dx%d: %s", e.Width, e.Height, e.Reason)
}

func (e *InvalidImageError) Is(target error) bool {
	return target == ErrInvalidImage
}

// EmptyPaletteError reports that no pixel survived sampling.
type EmptyPaletteError struct {
	Considered int
}

func (e *EmptyPaletteError) Error() string {
	return fmt.Sprintf("no eligible pixels after filtering %d samples", e.Considered)
}

func (e *EmptyPaletteError) Is(target error) bool {
	return target == ErrEmptyPalette
}

type SelectionLimitError struct {
	Limit int
	Hex   string
}

func (e *SelectionLimitError) Error() string {
	return fmt.Sprintf("cannot select %s: at most %d colors can be selected", e.Hex, e.Limit)
}

func (e *SelectionLimitError) Is(target error) bool {
	return target == ErrSelectionLimit
}

type InsufficientStopsError struct {
	Have int
}

func (e *InsufficientStopsError) Error() string {
	return fmt.Sprintf("gradient needs at least 2 colors, got %d", e.Have)
}

func (e *InsufficientStopsError) Is(target error) bool {
	return target == ErrInsufficientStops
}

type InvalidColorError struct {
	Value string
}

func (e *InvalidColorError) Error() string {
	return fmt.Sprintf("invalid color %q: expected #rrggbb", e.Value)
}

func (e *InvalidColorError) Is(target error) bool {
	return target == ErrInvalidColor
}
