package tui

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/tturner/pclscope/internal/pstream/rowtype"
)

// Theme is the viewer palette (Tokyo Night).
type Theme struct {
	BgDark   lipgloss.Color
	BgPanel  lipgloss.Color
	BgAccent lipgloss.Color

	TextPrimary lipgloss.Color
	TextDim     lipgloss.Color
	TextMuted   lipgloss.Color

	Border        lipgloss.Color
	BorderFocused lipgloss.Color

	Accent  lipgloss.Color
	Success lipgloss.Color
	Warning lipgloss.Color
	Error   lipgloss.Color
}

// DefaultTheme matches the row type colours in rowtype.
var DefaultTheme = Theme{
	BgDark:   lipgloss.Color("#1a1b26"),
	BgPanel:  lipgloss.Color("#24283b"),
	BgAccent: lipgloss.Color("#414868"),

	TextPrimary: lipgloss.Color("#c0caf5"),
	TextDim:     lipgloss.Color("#565f89"),
	TextMuted:   lipgloss.Color("#414868"),

	Border:        lipgloss.Color("#414868"),
	BorderFocused: lipgloss.Color("#7aa2f7"),

	Accent:  lipgloss.Color("#7aa2f7"),
	Success: lipgloss.Color("#9ece6a"),
	Warning: lipgloss.Color("#e0af68"),
	Error:   lipgloss.Color("#f7768e"),
}

// Styles are the lipgloss styles derived from a Theme.
type Styles struct {
	Base   lipgloss.Style
	Dim    lipgloss.Style
	Muted  lipgloss.Style
	Bold   lipgloss.Style
	Header lipgloss.Style
	Title  lipgloss.Style

	Success lipgloss.Style
	Warning lipgloss.Style
	Error   lipgloss.Style

	// Cursor highlights the selected grid row.
	Cursor     lipgloss.Style
	KeyBinding lipgloss.Style
	KeyHint    lipgloss.Style

	Box        lipgloss.Style
	BoxFocused lipgloss.Style
	Input      lipgloss.Style
	Footer     lipgloss.Style

	theme Theme
	rows  map[rowtype.Type]lipgloss.Style
}

// NewStyles builds the styles for t, including one style per row type.
func NewStyles(t Theme) Styles {
	s := Styles{
		Base:   lipgloss.NewStyle().Foreground(t.TextPrimary),
		Dim:    lipgloss.NewStyle().Foreground(t.TextDim),
		Muted:  lipgloss.NewStyle().Foreground(t.TextMuted),
		Bold:   lipgloss.NewStyle().Foreground(t.TextPrimary).Bold(true),
		Header: lipgloss.NewStyle().Foreground(t.Accent).Bold(true),
		Title: lipgloss.NewStyle().
			Foreground(t.Accent).
			Bold(true).
			Padding(0, 1),

		Success: lipgloss.NewStyle().Foreground(t.Success),
		Warning: lipgloss.NewStyle().Foreground(t.Warning),
		Error:   lipgloss.NewStyle().Foreground(t.Error),

		Cursor: lipgloss.NewStyle().
			Foreground(t.BgDark).
			Background(t.Accent),
		KeyBinding: lipgloss.NewStyle().
			Foreground(t.Accent).
			Bold(true),
		KeyHint: lipgloss.NewStyle().Foreground(t.TextDim),

		Box: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(t.Border).
			Padding(0, 1),
		BoxFocused: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(t.BorderFocused).
			Padding(0, 1),
		Input:  lipgloss.NewStyle().Foreground(t.Accent),
		Footer: lipgloss.NewStyle().Foreground(t.TextDim),

		theme: t,
		rows:  make(map[rowtype.Type]lipgloss.Style),
	}
	for _, typ := range rowtype.All() {
		s.rows[typ] = lipgloss.NewStyle().Foreground(typ.Color())
	}
	return s
}

// DefaultStyles uses DefaultTheme.
var DefaultStyles = NewStyles(DefaultTheme)

// Row returns the grid style for a row type.
func (s Styles) Row(t rowtype.Type) lipgloss.Style {
	if st, ok := s.rows[t]; ok {
		return st
	}
	return s.Dim
}

// Swatch renders a coloured block used as a legend marker.
func (s Styles) Swatch(t rowtype.Type) string {
	return s.Row(t).Render("■")
}
