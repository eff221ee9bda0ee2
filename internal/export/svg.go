package export

import (
	"fmt"
	"math"
	"strings"

	"github.com/san-kum/gassim/internal/dynamo"
	"github.com/san-kum/gassim/internal/physics"
	"github.com/san-kum/gassim/internal/viz"
)

const (
	ColorA       = "#3b6fd8"
	ColorB       = "#d83b3b"
	background   = "#0a0a0a"
	outlineColor = "#cccccc"
)

// FrameToSVG draws one frame of the gas as a px×px image: species A in blue,
// species B in red, the box outline, the divider while it is present, and a
// legend.
func FrameToSVG(s dynamo.State, px int) string {
	size := s.Box.Size()
	if size <= 0 || px <= 0 {
		return ""
	}
	scale := float64(px) / size
	toX := func(x float64) float64 { return (x - s.Box.Min) * scale }
	toY := func(y float64) float64 { return float64(px) - (y-s.Box.Min)*scale }

	var sb strings.Builder

	sb.WriteString(fmt.Sprintf(`<?xml version="1.0" encoding="UTF-8"?>
<svg xmlns="http://www.w3.org/2000/svg" width="%d" height="%d" viewBox="0 0 %d %d">
<rect width="100%%" height="100%%" fill="%s"/>
<rect x="0.5" y="0.5" width="%d" height="%d" fill="none" stroke="%s"/>
`, px, px, px, px, background, px-1, px-1, outlineColor))

	if s.Divider {
		cx := toX(s.Box.Center())
		sb.WriteString(fmt.Sprintf(`<line x1="%.2f" y1="0" x2="%.2f" y2="%d" stroke="%s" stroke-width="2"/>
`, cx, cx, px, outlineColor))
	}

	for _, species := range []int{physics.SpeciesA, physics.SpeciesB} {
		color := ColorA
		if species == physics.SpeciesB {
			color = ColorB
		}
		sb.WriteString(fmt.Sprintf("<g fill=\"%s\">\n", color))
		for _, p := range s.Particles {
			if p.Species() != species {
				continue
			}
			sb.WriteString(fmt.Sprintf(`<circle cx="%.2f" cy="%.2f" r="%.2f"/>
`, toX(p.Position.X), toY(p.Position.Y), p.Radius()*scale))
		}
		sb.WriteString("</g>\n")
	}

	sb.WriteString(fmt.Sprintf(`<g font-family="monospace" font-size="12" fill="%s">
<circle cx="12" cy="12" r="5" fill="%s"/><text x="22" y="16">A (%d)</text>
<circle cx="12" cy="28" r="5" fill="%s"/><text x="22" y="32">B (%d)</text>
<text x="%d" y="16" text-anchor="end">t=%.3f</text>
</g>
`, outlineColor, ColorA, s.Count(physics.SpeciesA), ColorB, s.Count(physics.SpeciesB), px-8, s.Time))

	sb.WriteString("</svg>")
	return sb.String()
}

// SeriesToSVG plots values against times as a polyline. NaN samples break the
// line.
func SeriesToSVG(times, values []float64, width, height int, strokeColor string) string {
	n := len(times)
	if len(values) < n {
		n = len(values)
	}

	first := true
	var minX, maxX, minY, maxY float64
	for i := 0; i < n; i++ {
		if math.IsNaN(values[i]) {
			continue
		}
		if first {
			minX, maxX, minY, maxY = times[i], times[i], values[i], values[i]
			first = false
			continue
		}
		minX, maxX = min(minX, times[i]), max(maxX, times[i])
		minY, maxY = min(minY, values[i]), max(maxY, values[i])
	}
	if first {
		return ""
	}

	// Add padding
	rangeX := maxX - minX
	rangeY := maxY - minY
	if rangeX == 0 {
		rangeX = 1
	}
	if rangeY == 0 {
		rangeY = 1
	}
	minY -= rangeY * 0.1
	rangeY *= 1.2

	var sb strings.Builder

	sb.WriteString(fmt.Sprintf(`<?xml version="1.0" encoding="UTF-8"?>
<svg xmlns="http://www.w3.org/2000/svg" width="%d" height="%d" viewBox="0 0 %d %d">
<rect width="100%%" height="100%%" fill="%s"/>
<path fill="none" stroke="%s" stroke-width="1.5" d="`,
		width, height, width, height, background, strokeColor))

	move := true
	for i := 0; i < n; i++ {
		if math.IsNaN(values[i]) {
			move = true
			continue
		}
		x := (times[i] - minX) / rangeX * float64(width)
		y := float64(height) - (values[i]-minY)/rangeY*float64(height)

		if move {
			sb.WriteString(fmt.Sprintf("M%.1f,%.1f", x, y))
			move = false
		} else {
			sb.WriteString(fmt.Sprintf(" L%.1f,%.1f", x, y))
		}
	}

	sb.WriteString(`"/>
</svg>`)
	return sb.String()
}

// CanvasToSVG converts a Braille canvas to SVG format
func CanvasToSVG(canvas *viz.Canvas, scale float64) string {
	if canvas == nil {
		return ""
	}

	width := float64(canvas.Width) * scale * 2   // 2 sub-pixels per char
	height := float64(canvas.Height) * scale * 4 // 4 sub-pixels per char

	var sb strings.Builder

	sb.WriteString(fmt.Sprintf(`<?xml version="1.0" encoding="UTF-8"?>
<svg xmlns="http://www.w3.org/2000/svg" width="%.0f" height="%.0f" viewBox="0 0 %.0f %.0f">
<rect width="100%%" height="100%%" fill="%s"/>
<g fill="%s">
`, width, height, width, height, background, outlineColor))

	dotRadius := scale * 0.4
	for y := 0; y < canvas.Height*4; y++ {
		for x := 0; x < canvas.Width*2; x++ {
			if !canvas.IsSet(x, y) {
				continue
			}
			cx := float64(x)*scale + scale/2
			cy := float64(y)*scale + scale/2
			sb.WriteString(fmt.Sprintf(`<circle cx="%.1f" cy="%.1f" r="%.1f"/>
`, cx, cy, dotRadius))
		}
	}

	sb.WriteString("</g>\n</svg>")
	return sb.String()
}
