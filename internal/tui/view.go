package tui

import (
	"fmt"
	"strings"

	"colorcapture/internal/palette"
	"colorcapture/internal/session"

	"github.com/charmbracelet/lipgloss"
)

var (
	titleStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#FAFAFA")).Background(lipgloss.Color("#5A4FCF")).Padding(0, 1)
	metaStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#9A9A9A"))
	labelStyle  = lipgloss.NewStyle().Bold(true).MarginTop(1)
	noticeStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#FFB86C"))
	statusStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#50FA7B"))
	cssStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#8BE9FD"))
)

func (m Model) View() string {
	var b strings.Builder

	b.WriteString(titleStyle.Render("colorcapture"))
	b.WriteString("\n")

	if !m.state.Loaded {
		b.WriteString(metaStyle.Render("No image loaded"))
		b.WriteString("\n\n")
		b.WriteString(m.help.View(m.keys))
		return b.String()
	}

	b.WriteString(renderSource(m.state))
	b.WriteString("\n")

	b.WriteString(labelStyle.Render(fmt.Sprintf("Palette (%d/%d selected)", len(m.state.Selection), palette.MaxSelection)))
	b.WriteString("\n")
	b.WriteString(renderPalette(m.state.Palette, m.cursor, m.focus == focusPalette))
	b.WriteString("\n")

	if len(m.state.Gradient) > 0 {
		b.WriteString(labelStyle.Render(fmt.Sprintf("Gradient (%s)", m.state.Space)))
		b.WriteString("\n")
		b.WriteString(renderGradient(m.state.Gradient, m.gradientCursor, m.focus == focusGradient))
		b.WriteString("\n")
		css := m.state.GradientCSS
		if m.state.CSSCopied {
			css += "  copied!"
		}
		b.WriteString(cssStyle.Render(css))
		b.WriteString("\n")
	} else if !m.state.CanGenerate {
		b.WriteString(metaStyle.Render("Select at least 2 colors, then press g"))
		b.WriteString("\n")
	}

	if m.state.Notice != "" {
		b.WriteString(noticeStyle.Render(m.state.Notice))
		b.WriteString("\n")
	}
	if m.status != "" {
		b.WriteString(statusStyle.Render(m.status))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(m.help.View(m.keys))
	return b.String()
}

func renderSource(state session.State) string {
	source := state.Source
	parts := []string{source.Name, fmt.Sprintf("%dx%d", source.Width, source.Height)}
	if source.Format != "" {
		parts = append(parts, source.Format)
	}
	if source.Title != "" {
		parts = append(parts, strings.TrimSpace(source.Artist+" - "+source.Title))
	}
	parts = append(parts, fmt.Sprintf("%d samples", state.Sampled))
	if state.Cached {
		parts = append(parts, "cached")
	}
	return metaStyle.Render(strings.Join(parts, " · "))
}

func renderPalette(swatches []session.Swatch, cursor int, focused bool) string {
	cells := make([]string, 0, len(swatches))
	for index, swatch := range swatches {
		marker := " "
		if swatch.Selected {
			marker = fmt.Sprintf("%d", swatch.Position)
		}
		label := fmt.Sprintf("%s %s", marker, swatch.Hex)
		if swatch.Copied {
			label = fmt.Sprintf("%s copied!", marker)
		}
		cells = append(cells, renderCell(swatch.Hex, label, focused && index == cursor, swatch.Selected))
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, cells...)
}

func renderGradient(swatches []session.GradientSwatch, cursor int, focused bool) string {
	cells := make([]string, 0, len(swatches))
	for index, swatch := range swatches {
		label := swatch.Hex
		if swatch.Copied {
			label = "copied!"
		}
		cells = append(cells, renderCell(swatch.Hex, label, focused && index == cursor, false))
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, cells...)
}

func renderCell(hex string, label string, active bool, selected bool) string {
	style := lipgloss.NewStyle().
		Background(lipgloss.Color(hex)).
		Foreground(lipgloss.Color(contrastText(hex))).
		Width(12).
		Align(lipgloss.Center)
	if selected {
		style = style.Bold(true)
	}

	border := lipgloss.HiddenBorder()
	if active {
		border = lipgloss.ThickBorder()
	}
	return lipgloss.NewStyle().Border(border).Render(style.Render(label))
}

// contrastText picks black or white text for a swatch background.
func contrastText(hex string) string {
	c, err := palette.ParseHex(hex)
	if err != nil {
		return "#FFFFFF"
	}
	if 299*int(c.R)+587*int(c.G)+114*int(c.B) >= 128000 {
		return "#000000"
	}
	return "#FFFFFF"
}
