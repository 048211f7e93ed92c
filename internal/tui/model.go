package tui

import (
	"errors"
	"fmt"
	"time"

	"colorcapture/internal/palette"
	"colorcapture/internal/session"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
)

type focusArea int

const (
	focusPalette focusArea = iota
	focusGradient
)

// ReloadedMsg carries the state of a freshly loaded image, e.g. after the
// watched file changed.
type ReloadedMsg struct {
	State session.State
}

// ReloadFailedMsg reports that the image could not be reloaded.
type ReloadFailedMsg struct {
	Err error
}

type ackTickMsg struct{}

var blendSpaces = []palette.Space{palette.SpaceRGB, palette.SpaceLab, palette.SpaceHCL}

type Model struct {
	session        *session.Service
	state          session.State
	keys           KeyMap
	help           help.Model
	focus          focusArea
	cursor         int
	gradientCursor int
	status         string
	width          int
	steps          int
}

func New(service *session.Service, steps int) Model {
	return Model{
		session: service,
		state:   service.State(),
		keys:    DefaultKeyMap(),
		help:    help.New(),
		steps:   steps,
	}
}

func NewProgram(model Model) *tea.Program {
	return tea.NewProgram(model, tea.WithAltScreen())
}

func (m Model) Init() tea.Cmd {
	return nil
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.help.Width = msg.Width
		return m, nil
	case ReloadedMsg:
		m.state = msg.State
		m.cursor = 0
		m.gradientCursor = 0
		m.focus = focusPalette
		m.status = "Image reloaded"
		return m, nil
	case ReloadFailedMsg:
		m.status = fmt.Sprintf("Reload failed: %v", msg.Err)
		return m, nil
	case ackTickMsg:
		m.state = m.session.State()
		return m, m.scheduleAckTick()
	case tea.KeyMsg:
		return m.handleKey(msg)
	}
	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit
	case key.Matches(msg, m.keys.Help):
		m.help.ShowAll = !m.help.ShowAll
	case key.Matches(msg, m.keys.Left):
		m.move(-1)
	case key.Matches(msg, m.keys.Right):
		m.move(1)
	case key.Matches(msg, m.keys.Focus):
		if m.focus == focusPalette && len(m.state.Gradient) > 0 {
			m.focus = focusGradient
		} else {
			m.focus = focusPalette
		}
	case key.Matches(msg, m.keys.Toggle):
		if m.focus != focusPalette || len(m.state.Palette) == 0 {
			return m, nil
		}
		state, err := m.session.Toggle(m.state.Palette[m.cursor].Hex)
		m.state = state
		m.status = ""
		if err != nil && !errors.Is(err, palette.ErrSelectionLimit) {
			m.status = err.Error()
		}
	case key.Matches(msg, m.keys.Clear):
		m.state = m.session.ClearSelection()
		m.status = "Selection cleared"
	case key.Matches(msg, m.keys.Generate):
		state, err := m.session.GenerateGradient(m.steps)
		m.state = state
		if err != nil {
			m.status = "Select at least 2 colors to build a gradient"
			return m, nil
		}
		m.status = fmt.Sprintf("Generated %d colors", len(state.Gradient))
		m.gradientCursor = 0
	case key.Matches(msg, m.keys.Space):
		m.state = m.session.SetSpace(nextSpace(m.state.Space))
		m.status = fmt.Sprintf("Blending in %s", m.state.Space)
	case key.Matches(msg, m.keys.Copy):
		return m.copy(m.focusedTarget())
	case key.Matches(msg, m.keys.CopyCSS):
		return m.copy(session.TargetGradientCSS)
	}
	return m, nil
}

func (m *Model) move(delta int) {
	if m.focus == focusGradient {
		m.gradientCursor = wrap(m.gradientCursor+delta, len(m.state.Gradient))
		return
	}
	m.cursor = wrap(m.cursor+delta, len(m.state.Palette))
}

func (m Model) focusedTarget() string {
	if m.focus == focusGradient && len(m.state.Gradient) > 0 {
		return session.GradientTarget(m.gradientCursor)
	}
	if len(m.state.Palette) == 0 {
		return ""
	}
	return session.PaletteTarget(m.state.Palette[m.cursor].Hex)
}

func (m Model) copy(target string) (tea.Model, tea.Cmd) {
	if target == "" {
		return m, nil
	}
	request, state, err := m.session.Copy(target)
	m.state = state
	if err != nil {
		m.status = fmt.Sprintf("Copy failed: %v", err)
		return m, nil
	}
	m.status = fmt.Sprintf("Copied %s", truncate(request.Text, 48))
	return m, m.scheduleAckTick()
}

func (m Model) scheduleAckTick() tea.Cmd {
	next, ok := m.session.NextExpiry()
	if !ok {
		return nil
	}
	return tea.Tick(time.Until(next), func(time.Time) tea.Msg {
		return ackTickMsg{}
	})
}

func nextSpace(current palette.Space) palette.Space {
	for index, space := range blendSpaces {
		if space == current {
			return blendSpaces[(index+1)%len(blendSpaces)]
		}
	}
	return palette.SpaceRGB
}

func wrap(value int, length int) int {
	if length <= 0 {
		return 0
	}
	return ((value % length) + length) % length
}

func truncate(value string, limit int) string {
	if len(value) <= limit {
		return value
	}
	return value[:limit-1] + "…"
}
