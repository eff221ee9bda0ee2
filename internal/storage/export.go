package storage

import (
	"encoding/json"
	"io"
	"math"

	"github.com/san-kum/gassim/internal/dynamo"
)

type ExportParticle struct {
	Species int     `json:"species"`
	X       float64 `json:"x"`
	Y       float64 `json:"y"`
	VX      float64 `json:"vx"`
	VY      float64 `json:"vy"`
	Radius  float64 `json:"radius"`
	Mass    float64 `json:"mass"`
}

type ExportFrame struct {
	Step      int              `json:"step"`
	Time      float64          `json:"time"`
	Divider   bool             `json:"divider"`
	Particles []ExportParticle `json:"particles"`
}

type ExportData struct {
	Run    RunMetadata           `json:"run"`
	Frames []ExportFrame         `json:"frames"`
	Times  []float64             `json:"times"`
	Series map[string][]*float64 `json:"series"`
}

func exportFrames(frames []dynamo.State) []ExportFrame {
	out := make([]ExportFrame, len(frames))
	for i, f := range frames {
		out[i] = ExportFrame{
			Step:      f.Step,
			Time:      f.Time,
			Divider:   f.Divider,
			Particles: make([]ExportParticle, len(f.Particles)),
		}
		for j, p := range f.Particles {
			out[i].Particles[j] = ExportParticle{
				Species: p.Species(),
				X:       p.Position.X,
				Y:       p.Position.Y,
				VX:      p.Velocity.X,
				VY:      p.Velocity.Y,
				Radius:  p.Radius(),
				Mass:    p.Mass(),
			}
		}
	}
	return out
}

// ExportJSON writes run metadata, frames and metric series as one JSON
// document. NaN series samples are written as null.
func ExportJSON(w io.Writer, meta RunMetadata, frames []dynamo.State, times []float64, series map[string][]float64) error {
	data := ExportData{
		Run:    meta,
		Frames: exportFrames(frames),
		Times:  times,
		Series: make(map[string][]*float64, len(series)),
	}
	for name, vals := range series {
		col := make([]*float64, len(vals))
		for i := range vals {
			if !math.IsNaN(vals[i]) && !math.IsInf(vals[i], 0) {
				col[i] = &vals[i]
			}
		}
		data.Series[name] = col
	}

	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(data)
}
