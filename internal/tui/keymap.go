package tui

import "github.com/charmbracelet/bubbles/key"

type KeyMap struct {
	Left     key.Binding
	Right    key.Binding
	Focus    key.Binding
	Toggle   key.Binding
	Generate key.Binding
	Copy     key.Binding
	CopyCSS  key.Binding
	Clear    key.Binding
	Space    key.Binding
	Help     key.Binding
	Quit     key.Binding
}

func DefaultKeyMap() KeyMap {
	return KeyMap{
		Left: key.NewBinding(
			key.WithKeys("left", "h"),
			key.WithHelp("←/h", "previous color"),
		),
		Right: key.NewBinding(
			key.WithKeys("right", "l"),
			key.WithHelp("→/l", "next color"),
		),
		Focus: key.NewBinding(
			key.WithKeys("tab"),
			key.WithHelp("tab", "palette/gradient"),
		),
		Toggle: key.NewBinding(
			key.WithKeys(" ", "space", "enter"),
			key.WithHelp("space", "select color"),
		),
		Generate: key.NewBinding(
			key.WithKeys("g"),
			key.WithHelp("g", "generate gradient"),
		),
		Copy: key.NewBinding(
			key.WithKeys("c"),
			key.WithHelp("c", "copy hex"),
		),
		CopyCSS: key.NewBinding(
			key.WithKeys("C"),
			key.WithHelp("C", "copy css"),
		),
		Clear: key.NewBinding(
			key.WithKeys("x"),
			key.WithHelp("x", "clear selection"),
		),
		Space: key.NewBinding(
			key.WithKeys("s"),
			key.WithHelp("s", "blend space"),
		),
		Help: key.NewBinding(
			key.WithKeys("?"),
			key.WithHelp("?", "toggle help"),
		),
		Quit: key.NewBinding(
			key.WithKeys("q", "ctrl+c"),
			key.WithHelp("q/ctrl+c", "quit"),
		),
	}
}

func (k KeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Toggle, k.Generate, k.Copy, k.Help, k.Quit}
}

func (k KeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Left, k.Right, k.Focus},
		{k.Toggle, k.Clear, k.Generate, k.Space},
		{k.Copy, k.CopyCSS, k.Help, k.Quit},
	}
}
