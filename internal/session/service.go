package session

import (
	"errors"
	"fmt"
	"path/filepath"
	"strconv"
	"strings"
	"sync"
	"time"

	"colorcapture/internal/clipboardx"
	"colorcapture/internal/extract"
	"colorcapture/internal/palette"

	"github.com/google/uuid"
)

const EventStateChanged = "session:state"

const (
	targetPalettePrefix  = "palette:"
	targetGradientPrefix = "gradient:"
	TargetGradientCSS    = "gradient-css"
)

var (
	ErrNoPalette     = errors.New("no palette loaded")
	ErrUnknownColor  = errors.New("color is not in the palette")
	ErrUnknownTarget = errors.New("unknown copy target")
)

type Emitter func(eventName string, payload any)

type ChangeListener func(state State)

// PaletteTarget names the copy target of a palette swatch.
func PaletteTarget(hex string) string {
	normalized, err := palette.NormalizeHex(hex)
	if err != nil {
		normalized = strings.ToLower(strings.TrimSpace(hex))
	}
	return targetPalettePrefix + normalized
}

// GradientTarget names the copy target of the gradient swatch at index.
func GradientTarget(index int) string {
	return targetGradientPrefix + strconv.Itoa(index)
}

type SourceInfo struct {
	Path   string `json:"path"`
	Name   string `json:"name"`
	Kind   string `json:"kind"`
	Format string `json:"format"`
	Hash   string `json:"hash"`
	Width  int    `json:"width"`
	Height int    `json:"height"`
	Title  string `json:"title,omitempty"`
	Artist string `json:"artist,omitempty"`
	Album  string `json:"album,omitempty"`
}

type Swatch struct {
	Hex        string `json:"hex"`
	CSS        string `json:"css"`
	Population int    `json:"population"`
	Selected   bool   `json:"selected"`
	Position   int    `json:"position"`
	Copied     bool   `json:"copied"`
}

type GradientSwatch struct {
	Hex    string `json:"hex"`
	Copied bool   `json:"copied"`
}

type State struct {
	ID            string           `json:"id"`
	Loaded        bool             `json:"loaded"`
	Source        SourceInfo       `json:"source"`
	Sampled       int              `json:"sampled"`
	Cached        bool             `json:"cached"`
	Palette       []Swatch         `json:"palette"`
	Selection     []string         `json:"selection"`
	SelectionFull bool             `json:"selectionFull"`
	CanGenerate   bool             `json:"canGenerate"`
	Gradient      []GradientSwatch `json:"gradient"`
	GradientCSS   string           `json:"gradientCss"`
	CSSCopied     bool             `json:"cssCopied"`
	Space         palette.Space    `json:"space"`
	Notice        string           `json:"notice,omitempty"`
	UpdatedAt     string           `json:"updatedAt"`
}

type Config struct {
	Clipboard     clipboardx.Writer
	Clock         func() time.Time
	GradientSteps int
	GradientSpace palette.Space
	GradientAngle int
	// AckDuration overrides palette.AckDuration when set.
	AckDuration func(kind palette.CopyKind) time.Duration
}

// Service holds one image's palette, the user's selection, the generated
// gradient and copy acknowledgements. Loading an image starts a new session.
type Service struct {
	mu          sync.Mutex
	id          string
	result      *extract.Result
	selection   palette.Selection
	gradient    []palette.Color
	acks        palette.Acknowledgements
	notice      string
	updatedAt   time.Time
	clipboard   clipboardx.Writer
	now         func() time.Time
	newID       func() string
	steps       int
	space       palette.Space
	angle       int
	ackDuration func(kind palette.CopyKind) time.Duration
	emit        Emitter
	onChange    ChangeListener
}

func NewService(cfg Config) *Service {
	service := &Service{
		clipboard:   cfg.Clipboard,
		now:         cfg.Clock,
		newID:       uuid.NewString,
		steps:       cfg.GradientSteps,
		space:       cfg.GradientSpace,
		angle:       cfg.GradientAngle,
		ackDuration: cfg.AckDuration,
		acks:        palette.Acknowledgements{},
	}
	if service.now == nil {
		service.now = time.Now
	}
	if service.steps <= 0 {
		service.steps = palette.DefaultGradientSteps
	}
	if service.space == "" {
		service.space = palette.SpaceRGB
	}
	if service.ackDuration == nil {
		service.ackDuration = palette.AckDuration
	}
	return service
}

func (s *Service) SetEmitter(emitter Emitter) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.emit = emitter
}

func (s *Service) SetOnChange(listener ChangeListener) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.onChange = listener
}

func (s *Service) SetClipboard(writer clipboardx.Writer) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.clipboard = writer
}

func (s *Service) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshotLocked()
}

// Result returns the loaded extraction, including the decoded image.
func (s *Service) Result() (extract.Result, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.result == nil {
		return extract.Result{}, false
	}
	return *s.result, true
}

// Refresh re-emits the current state. Callers use it once an
// acknowledgement has expired so listeners drop the "copied" indicator.
func (s *Service) Refresh() State {
	state := s.State()
	s.afterMutation(state)
	return state
}

// Load replaces the palette and starts a fresh session: the selection,
// gradient and acknowledgements of the previous image are dropped.
func (s *Service) Load(result extract.Result) State {
	s.mu.Lock()
	s.id = s.newID()
	s.result = &result
	s.selection.Clear()
	s.gradient = nil
	s.acks = palette.Acknowledgements{}
	s.notice = ""
	s.touchLocked()
	state := s.snapshotLocked()
	s.mu.Unlock()

	s.afterMutation(state)
	return state
}

// Toggle adds hex to the selection or removes it. The sixth color is
// refused with palette.ErrSelectionLimit and a notice in the state.
func (s *Service) Toggle(hex string) (State, error) {
	s.mu.Lock()
	if s.result == nil {
		state := s.snapshotLocked()
		s.mu.Unlock()
		return state, ErrNoPalette
	}

	normalized, err := palette.NormalizeHex(hex)
	if err != nil {
		state := s.snapshotLocked()
		s.mu.Unlock()
		return state, err
	}
	if !s.inPaletteLocked(normalized) {
		state := s.snapshotLocked()
		s.mu.Unlock()
		return state, fmt.Errorf("toggle %s: %w", normalized, ErrUnknownColor)
	}

	_, toggleErr := s.selection.Toggle(normalized)
	if errors.Is(toggleErr, palette.ErrSelectionLimit) {
		s.notice = fmt.Sprintf("You can select up to %d colors", palette.MaxSelection)
	} else {
		s.notice = ""
	}
	s.touchLocked()
	state := s.snapshotLocked()
	s.mu.Unlock()

	s.afterMutation(state)
	return state, toggleErr
}

func (s *Service) ClearSelection() State {
	s.mu.Lock()
	s.selection.Clear()
	s.notice = ""
	s.touchLocked()
	state := s.snapshotLocked()
	s.mu.Unlock()

	s.afterMutation(state)
	return state
}

func (s *Service) SetSpace(space palette.Space) State {
	s.mu.Lock()
	if space == "" {
		space = palette.SpaceRGB
	}
	s.space = space
	s.touchLocked()
	state := s.snapshotLocked()
	s.mu.Unlock()

	s.afterMutation(state)
	return state
}

// GenerateGradient synthesizes steps colors through the selection in click
// order. steps <= 0 uses the configured default.
func (s *Service) GenerateGradient(steps int) (State, error) {
	s.mu.Lock()
	if steps <= 0 {
		steps = s.steps
	}

	colors, err := palette.SynthesizeIn(s.space, s.selection.Colors(), steps)
	if err != nil {
		state := s.snapshotLocked()
		s.mu.Unlock()
		return state, err
	}

	s.gradient = colors
	s.notice = ""
	s.touchLocked()
	state := s.snapshotLocked()
	s.mu.Unlock()

	s.afterMutation(state)
	return state, nil
}

// Copy writes the text behind target to the clipboard and starts its
// acknowledgement window. A failed write leaves the acknowledgements alone.
func (s *Service) Copy(target string) (palette.CopyRequest, State, error) {
	target = canonicalTarget(target)

	s.mu.Lock()
	request, err := s.copyRequestLocked(target)
	if err != nil {
		state := s.snapshotLocked()
		s.mu.Unlock()
		return palette.CopyRequest{}, state, err
	}
	writer := s.clipboard
	s.mu.Unlock()

	if writer != nil {
		if err := writer.WriteText(request.Text); err != nil {
			return request, s.State(), fmt.Errorf("copy %s: %w", target, err)
		}
	}

	s.mu.Lock()
	s.acks = s.acks.Acknowledge(target, s.now(), request.AckDuration)
	s.touchLocked()
	state := s.snapshotLocked()
	s.mu.Unlock()

	s.afterMutation(state)
	return request, state, nil
}

func (s *Service) IsCopied(target string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.acks.IsCopied(canonicalTarget(target), s.now())
}

func canonicalTarget(target string) string {
	trimmed := strings.TrimSpace(target)
	if strings.HasPrefix(trimmed, targetPalettePrefix) {
		return PaletteTarget(strings.TrimPrefix(trimmed, targetPalettePrefix))
	}
	return trimmed
}

// NextExpiry reports when the next "copied" indicator turns off, so callers
// can schedule a refresh.
func (s *Service) NextExpiry() (time.Time, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.acks.NextExpiry(s.now())
}

func (s *Service) copyRequestLocked(target string) (palette.CopyRequest, error) {
	var (
		text string
		kind palette.CopyKind
	)

	switch {
	case strings.HasPrefix(target, targetPalettePrefix):
		hex := strings.TrimPrefix(target, targetPalettePrefix)
		if s.result == nil {
			return palette.CopyRequest{}, ErrNoPalette
		}
		if !s.inPaletteLocked(hex) {
			return palette.CopyRequest{}, fmt.Errorf("copy %s: %w", hex, ErrUnknownColor)
		}
		text, kind = hex, palette.CopyPaletteHex
	case strings.HasPrefix(target, targetGradientPrefix):
		index, err := strconv.Atoi(strings.TrimPrefix(target, targetGradientPrefix))
		if err != nil || index < 0 || index >= len(s.gradient) {
			return palette.CopyRequest{}, fmt.Errorf("copy %s: %w", target, ErrUnknownTarget)
		}
		text, kind = s.gradient[index].Hex(), palette.CopyGradientColor
	case target == TargetGradientCSS:
		if len(s.gradient) == 0 {
			return palette.CopyRequest{}, fmt.Errorf("copy %s: %w", target, palette.ErrInsufficientStops)
		}
		text, kind = palette.CSSLinearGradient(s.gradient, s.angle), palette.CopyGradientCSS
	default:
		return palette.CopyRequest{}, fmt.Errorf("copy %q: %w", target, ErrUnknownTarget)
	}

	request := palette.NewCopyRequest(text, kind)
	request.AckDuration = s.ackDuration(kind)
	return request, nil
}

func (s *Service) inPaletteLocked(hex string) bool {
	if s.result == nil {
		return false
	}
	for _, entry := range s.result.Palette.Colors {
		if entry.Hex == hex {
			return true
		}
	}
	return false
}

func (s *Service) afterMutation(state State) {
	s.emitState(state)
	s.notifyChange(state)
}

func (s *Service) emitState(state State) {
	s.mu.Lock()
	emitter := s.emit
	s.mu.Unlock()

	if emitter != nil {
		emitter(EventStateChanged, state)
	}
}

func (s *Service) notifyChange(state State) {
	s.mu.Lock()
	listener := s.onChange
	s.mu.Unlock()

	if listener != nil {
		listener(state)
	}
}

func (s *Service) snapshotLocked() State {
	now := s.now()
	s.acks = s.acks.Prune(now)

	state := State{
		ID:            s.id,
		Selection:     s.selection.Hexes(),
		SelectionFull: s.selection.Full(),
		CanGenerate:   s.selection.Len() >= 2,
		Space:         s.space,
		Notice:        s.notice,
		Palette:       []Swatch{},
		Gradient:      []GradientSwatch{},
	}

	if s.result != nil {
		source := s.result.Source
		state.Loaded = true
		state.Cached = s.result.Cached
		state.Sampled = s.result.Palette.Sampled
		state.Source = SourceInfo{
			Path:   source.Path,
			Name:   filepath.Base(source.Path),
			Kind:   string(source.Kind),
			Format: source.Format,
			Hash:   source.Hash,
			Width:  source.Width,
			Height: source.Height,
			Title:  source.Title,
			Artist: source.Artist,
			Album:  source.Album,
		}
		for _, entry := range s.result.Palette.Colors {
			state.Palette = append(state.Palette, Swatch{
				Hex:        entry.Hex,
				CSS:        entry.CSS(),
				Population: entry.Population,
				Selected:   s.selection.Contains(entry.Hex),
				Position:   s.selection.Position(entry.Hex),
				Copied:     s.acks.IsCopied(PaletteTarget(entry.Hex), now),
			})
		}
	}

	for index, c := range s.gradient {
		state.Gradient = append(state.Gradient, GradientSwatch{
			Hex:    c.Hex(),
			Copied: s.acks.IsCopied(GradientTarget(index), now),
		})
	}
	if len(s.gradient) > 0 {
		state.GradientCSS = palette.CSSLinearGradient(s.gradient, s.angle)
		state.CSSCopied = s.acks.IsCopied(TargetGradientCSS, now)
	}

	if !s.updatedAt.IsZero() {
		state.UpdatedAt = s.updatedAt.UTC().Format(time.RFC3339)
	}

	return state
}

func (s *Service) touchLocked() {
	s.updatedAt = s.now().UTC()
}
