package ui

import (
	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/lipgloss"
	"github.com/desertthunder/villagedex/internal/models"
	"github.com/desertthunder/villagedex/internal/villagers"
)

var (
	lightPalette = NewPalette(Colors{
		Title: "#2E7D32", Accent: "#00897B", OK: "#2E7D32", Err: "#C62828",
		Warn: "#E65100", Help: "#757575", Have: "#1B5E20", Want: "#AD1457",
	})
	darkPalette = NewPalette(Colors{
		Title: "#8BC34A", Accent: "#4DD0E1", OK: "#04B575", Err: "#FF5252",
		Warn: "#FFA500", Help: "#626262", Have: "#A5D6A7", Want: "#F48FB1",
	})
)

// Colors names the hex values a [Palette] is built from.
type Colors struct {
	Title, Accent, OK, Err, Warn, Help, Have, Want string
}

// struct Palette is a simple stylesheet built with named [lipgloss.Style] fields
type Palette struct {
	colors Colors
	title  lipgloss.Style
	accent lipgloss.Style
	ok     lipgloss.Style
	err    lipgloss.Style
	warn   lipgloss.Style
	help   lipgloss.Style
	have   lipgloss.Style
	want   lipgloss.Style
	panel  lipgloss.Style
}

func NewPalette(c Colors) *Palette {
	return &Palette{
		colors: c,
		title:  NewBold(c.Title).MarginBottom(1),
		accent: NewBold(c.Accent),
		ok:     NewBold(c.OK),
		err:    NewBold(c.Err),
		warn:   NewStyle(c.Warn),
		help:   NewEm(c.Help),
		have:   NewBold(c.Have),
		want:   NewBold(c.Want),
		panel: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color(c.Accent)).
			Padding(0, 1),
	}
}

// paletteFor returns the stylesheet for theme.
func paletteFor(theme models.Theme) *Palette {
	if theme == models.ThemeDark {
		return darkPalette
	}
	return lightPalette
}

// delegate styles list rows with the palette accent.
func (p *Palette) delegate() list.DefaultDelegate {
	d := list.NewDefaultDelegate()
	d.Styles.SelectedTitle = d.Styles.SelectedTitle.
		Foreground(lipgloss.Color(p.colors.Accent)).
		BorderForeground(lipgloss.Color(p.colors.Accent))
	d.Styles.SelectedDesc = d.Styles.SelectedDesc.
		Foreground(lipgloss.Color(p.colors.Accent)).
		BorderForeground(lipgloss.Color(p.colors.Accent))
	return d
}

// badge renders a collection marker.
func (p *Palette) badge(status models.CollectionStatus) string {
	switch status {
	case models.StatusHave:
		return p.have.Render("✓ have")
	case models.StatusWant:
		return p.want.Render("♥ want")
	}
	return ""
}

func NewStyle(fg string) lipgloss.Style {
	return lipgloss.NewStyle().Foreground(lipgloss.Color(fg))
}

func NewBold(fg string) lipgloss.Style {
	return NewStyle(fg).Bold(true)
}

func NewEm(fg string) lipgloss.Style {
	return NewStyle(fg).Italic(true)
}

// cardStyle paints the detail header in the villager's favourite colours.
func cardStyle(r models.Record) lipgloss.Style {
	bg, fg := villagers.CardColors(r)
	return lipgloss.NewStyle().
		Bold(true).
		Padding(0, 1).
		Background(lipgloss.Color(bg)).
		Foreground(lipgloss.Color(fg))
}

// bubbleStyle is the speech bubble for the villager's saying.
func bubbleStyle(r models.Record) lipgloss.Style {
	return lipgloss.NewStyle().
		Italic(true).
		Padding(0, 1).
		Background(lipgloss.Color(villagers.BubbleColor(r))).
		Foreground(lipgloss.Color(villagers.TextColor(r)))
}
