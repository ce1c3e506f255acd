package display

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/hammamikhairi/recipeplus/internal/settings"
)

// swatch is one palette entry in its light and dark variants.
type swatch struct{ light, dark lipgloss.Color }

var palette = map[settings.ColorTag]swatch{
	settings.ColorGray:   {"#52525b", "#a1a1aa"},
	settings.ColorRed:    {"#b91c1c", "#fca5a5"},
	settings.ColorOrange: {"#c2410c", "#fdba74"},
	settings.ColorYellow: {"#a16207", "#fde68a"},
	settings.ColorGreen:  {"#15803d", "#bbf7d0"},
	settings.ColorBlue:   {"#1d4ed8", "#bae6fd"},
	settings.ColorPurple: {"#7e22ce", "#e9d5ff"},
}

// Color returns the lipgloss color for tag in the given appearance.
// Unknown tags are gray.
func Color(tag settings.ColorTag, a settings.Appearance) lipgloss.Color {
	sw, ok := palette[tag]
	if !ok {
		sw = palette[settings.ColorGray]
	}
	if a == settings.Dark {
		return sw.dark
	}
	return sw.light
}

// Theme is the set of styles derived from one settings snapshot.
type Theme struct {
	Appearance settings.Appearance
	Primary    lipgloss.Color
	Secondary  lipgloss.Color

	Body     lipgloss.Style
	Timer    lipgloss.Style
	Title    lipgloss.Style
	Section  lipgloss.Style
	Muted    lipgloss.Style
	Hint     lipgloss.Style
	Favorite lipgloss.Style
	Urgent   lipgloss.Style
	Banner   lipgloss.Style
}

// NewTheme builds styles for s. r selects the color profile; nil uses
// lipgloss's default renderer for stdout.
func NewTheme(s settings.Settings, r *lipgloss.Renderer) Theme {
	if r == nil {
		r = lipgloss.DefaultRenderer()
	}
	a := s.Appearance
	body := lipgloss.Color("#27272a")
	muted := lipgloss.Color("#71717a")
	if a == settings.Dark {
		body = lipgloss.Color("#d4d4d8")
		muted = lipgloss.Color("#a1a1aa")
	}
	primary := Color(s.PrimaryColor, a)
	secondary := Color(s.SecondaryColor, a)

	plain := func() lipgloss.Style {
		return r.NewStyle().TabWidth(lipgloss.NoTabConversion)
	}

	return Theme{
		Appearance: a,
		Primary:    primary,
		Secondary:  secondary,

		Body:     plain().Foreground(body),
		Timer:    plain().Foreground(primary).Bold(true),
		Title:    plain().Foreground(primary).Bold(true),
		Section:  plain().Foreground(secondary).Bold(true).Underline(true),
		Muted:    plain().Foreground(muted),
		Hint:     plain().Foreground(secondary).Italic(true),
		Favorite: plain().Foreground(Color(settings.ColorYellow, a)),
		Urgent:   plain().Foreground(Color(settings.ColorRed, a)).Bold(true),
		Banner:   plain().Foreground(muted),
	}
}

// MarkdownStyle is the glamour standard style matching the appearance.
func (t Theme) MarkdownStyle() string {
	if t.Appearance == settings.Dark {
		return "dark"
	}
	return "light"
}
