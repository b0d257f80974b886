package viz

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/san-kum/meshsim/internal/field"
)

// Theme defines the colors of the canvas and side panel.
type Theme struct {
	Name       string
	Primary    lipgloss.Color
	Secondary  lipgloss.Color
	Accent     lipgloss.Color
	Text       lipgloss.Color
	Muted      lipgloss.Color
	Background field.Color
	// Gain multiplies effect alpha before blending. Terminals show faint
	// strokes poorly, so most themes boost them.
	Gain float64
	// Mono draws every lit cell in Ink instead of the effect's colors.
	Mono bool
	Ink  field.Color
}

// Available themes
var (
	ThemeMidnight = Theme{
		Name:       "midnight",
		Primary:    lipgloss.Color("#22d3ee"),
		Secondary:  lipgloss.Color("#a855f7"),
		Accent:     lipgloss.Color("#06b6d4"),
		Text:       lipgloss.Color("#e2e8f0"),
		Muted:      lipgloss.Color("#64748b"),
		Background: field.RGB(2, 6, 23),
		Gain:       4,
	}

	ThemeEmber = Theme{
		Name:       "ember",
		Primary:    lipgloss.Color("#ff6b6b"),
		Secondary:  lipgloss.Color("#feca57"),
		Accent:     lipgloss.Color("#ff9ff3"),
		Text:       lipgloss.Color("#fff5f5"),
		Muted:      lipgloss.Color("#8b6b8c"),
		Background: field.RGB(45, 27, 46),
		Gain:       3,
	}

	ThemeOcean = Theme{
		Name:       "ocean",
		Primary:    lipgloss.Color("#0077be"),
		Secondary:  lipgloss.Color("#00a8cc"),
		Accent:     lipgloss.Color("#ffd700"),
		Text:       lipgloss.Color("#e0f0ff"),
		Muted:      lipgloss.Color("#4488aa"),
		Background: field.RGB(0, 26, 51),
		Gain:       3,
	}

	ThemeRetroGreen = Theme{
		Name:       "retro",
		Primary:    lipgloss.Color("#00ff00"),
		Secondary:  lipgloss.Color("#00cc00"),
		Accent:     lipgloss.Color("#88ff88"),
		Text:       lipgloss.Color("#00ff00"),
		Muted:      lipgloss.Color("#005500"),
		Background: field.RGB(0, 17, 0),
		Gain:       4,
		Mono:       true,
		Ink:        field.RGB(0, 255, 0),
	}

	ThemeRaw = Theme{
		Name:       "raw",
		Primary:    lipgloss.Color("#ffffff"),
		Secondary:  lipgloss.Color("#cccccc"),
		Accent:     lipgloss.Color("#0088ff"),
		Text:       lipgloss.Color("#ffffff"),
		Muted:      lipgloss.Color("#888888"),
		Background: field.RGB(0, 0, 0),
		Gain:       1,
	}

	// Default theme
	CurrentTheme = ThemeMidnight

	// All available themes
	Themes = []Theme{
		ThemeMidnight,
		ThemeEmber,
		ThemeOcean,
		ThemeRetroGreen,
		ThemeRaw,
	}
)

// GetTheme returns a theme by name, falling back to midnight.
func GetTheme(name string) Theme {
	for _, t := range Themes {
		if t.Name == name {
			return t
		}
	}
	return ThemeMidnight
}

// SetTheme changes the current theme
func SetTheme(name string) {
	CurrentTheme = GetTheme(name)
}

// NextTheme returns the name of the theme after name, wrapping around.
func NextTheme(name string) string {
	for i, t := range Themes {
		if t.Name == name {
			return Themes[(i+1)%len(Themes)].Name
		}
	}
	return Themes[0].Name
}

// ThemeNames returns list of available theme names
func ThemeNames() []string {
	names := make([]string, len(Themes))
	for i, t := range Themes {
		names[i] = t.Name
	}
	return names
}

// RenderCanvas draws c with the theme's background and gain.
func (t Theme) RenderCanvas(c *Canvas) string {
	if t.Mono {
		for i := range c.Colors {
			for j := range c.Colors[i] {
				c.Colors[i][j] = t.Ink
			}
		}
	}
	gain := t.Gain
	if gain <= 0 {
		gain = 1
	}
	return c.Render(t.Background, gain)
}
