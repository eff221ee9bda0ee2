package viz

import (
	"fmt"
	"image/color"

	"github.com/charmbracelet/lipgloss"
)

// Theme colours the live view. Every colour is a #rrggbb hex string so the
// same theme can drive both the terminal and recorded GIFs.
type Theme struct {
	Name    string
	Wall    lipgloss.Color
	Divider lipgloss.Color
	GasA    lipgloss.Color
	GasB    lipgloss.Color
}

var (
	// ThemeClassic matches the SVG export: blue A, red B.
	ThemeClassic = Theme{
		Name:    "classic",
		Wall:    lipgloss.Color("#999999"),
		Divider: lipgloss.Color("#d8c83b"),
		GasA:    lipgloss.Color("#3b6fd8"),
		GasB:    lipgloss.Color("#d83b3b"),
	}

	ThemeThermal = Theme{
		Name:    "thermal",
		Wall:    lipgloss.Color("#5a5a7a"),
		Divider: lipgloss.Color("#ffffff"),
		GasA:    lipgloss.Color("#4cc9f0"),
		GasB:    lipgloss.Color("#f72585"),
	}

	ThemePhosphor = Theme{
		Name:    "phosphor",
		Wall:    lipgloss.Color("#005500"),
		Divider: lipgloss.Color("#88ff88"),
		GasA:    lipgloss.Color("#00ff00"),
		GasB:    lipgloss.Color("#00aa00"),
	}

	ThemeMono = Theme{
		Name:    "mono",
		Wall:    lipgloss.Color("#888888"),
		Divider: lipgloss.Color("#cccccc"),
		GasA:    lipgloss.Color("#ffffff"),
		GasB:    lipgloss.Color("#aaaaaa"),
	}

	CurrentTheme = ThemeClassic

	Themes = []Theme{ThemeClassic, ThemeThermal, ThemePhosphor, ThemeMono}
)

// NextTheme switches CurrentTheme to the one after it in Themes.
func NextTheme() {
	for i, t := range Themes {
		if t.Name == CurrentTheme.Name {
			CurrentTheme = Themes[(i+1)%len(Themes)]
			return
		}
	}
	CurrentTheme = Themes[0]
}

// penColors lists the theme colours in pen order.
func (t Theme) penColors() [4]lipgloss.Color {
	return [4]lipgloss.Color{
		penWall:    t.Wall,
		penDivider: t.Divider,
		penA:       t.GasA,
		penB:       t.GasB,
	}
}

// Palette returns a GIF palette: black background at index 0, then the pen
// colours so that pen p maps to index p+1.
func (t Theme) Palette() color.Palette {
	p := color.Palette{color.Black}
	for _, c := range t.penColors() {
		p = append(p, rgb(c))
	}
	return p
}

func rgb(c lipgloss.Color) color.RGBA {
	var r, g, b uint8
	if _, err := fmt.Sscanf(string(c), "#%02x%02x%02x", &r, &g, &b); err != nil {
		return color.RGBA{A: 0xff}
	}
	return color.RGBA{R: r, G: g, B: b, A: 0xff}
}
