package viz

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

var (
	// Subtle muted text
	Subtle = lipgloss.NewStyle().
		Foreground(lipgloss.Color("#666688"))

	// Key hint style
	KeyHint = lipgloss.NewStyle().
		Foreground(lipgloss.Color("#00aaaa")).
		Bold(true)
)

var sparkChars = []rune{'▁', '▂', '▃', '▄', '▅', '▆', '▇', '█'}

// MixingBar shows how far the two gases have mixed. mixing is the fraction of
// A on the right half, so 0.5 fills the bar.
func MixingBar(mixing float64, width int) string {
	filled := int(2 * mixing * float64(width))
	filled = max(0, min(filled, width))

	a := lipgloss.NewStyle().Foreground(CurrentTheme.GasA)
	b := lipgloss.NewStyle().Foreground(CurrentTheme.GasB)
	return a.Render(strings.Repeat("█", filled)) + b.Render(strings.Repeat("░", width-filled))
}

// Sparkline draws the most recent width values, scaled to their own range.
func Sparkline(values []float64, width int, fg lipgloss.Color) string {
	if len(values) == 0 || width <= 0 {
		return strings.Repeat("─", max(width, 0))
	}
	if len(values) > width {
		values = values[len(values)-width:]
	}

	lo, hi := values[0], values[0]
	for _, v := range values {
		lo, hi = min(lo, v), max(hi, v)
	}
	span := hi - lo

	runes := make([]rune, len(values))
	for i, v := range values {
		idx := 0
		if span > 0 {
			idx = int((v - lo) / span * float64(len(sparkChars)-1))
		}
		runes[i] = sparkChars[max(0, min(idx, len(sparkChars)-1))]
	}
	return lipgloss.NewStyle().Foreground(fg).Render(string(runes))
}
