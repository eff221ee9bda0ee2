package storage

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/san-kum/gassim/internal/config"
	"github.com/san-kum/gassim/internal/dynamo"
)

const (
	metadataFile = "metadata.json"
	framesFile   = "frames.csv"
	seriesFile   = "series.csv"
)

var frameHeader = []string{"step", "time", "particle", "species", "x", "y", "vx", "vy", "radius", "mass", "divider"}

type Store struct {
	baseDir string
}

func New(baseDir string) *Store {
	return &Store{baseDir: baseDir}
}

func (s *Store) Init() error {
	return os.MkdirAll(s.baseDir, 0755)
}

type RunMetadata struct {
	ID          string             `json:"id"`
	Name        string             `json:"name"`
	Timestamp   time.Time          `json:"timestamp"`
	Seed        int64              `json:"seed"`
	Particles   int                `json:"particles"`
	StepsTaken  int                `json:"steps_taken"`
	EnergyDrift float64            `json:"energy_drift"`
	Config      *config.Config     `json:"config"`
	Metrics     map[string]float64 `json:"metrics"`
	Errors      []string           `json:"errors,omitempty"`
}

func newRunID(name string, now time.Time) string {
	return fmt.Sprintf("%s_%d_%s", name, now.Unix(), uuid.NewString()[:8])
}

// Save writes a run directory holding metadata, sampled frames and metric
// series, and returns the run id.
func (s *Store) Save(cfg *config.Config, result *dynamo.Result) (string, error) {
	name := cfg.Name
	if name == "" {
		name = "gas"
	}
	now := time.Now()
	runID := newRunID(name, now)
	runDir := filepath.Join(s.baseDir, runID)

	if err := os.MkdirAll(runDir, 0755); err != nil {
		return "", err
	}

	meta := NewMetadata(runID, cfg, result)
	meta.Timestamp = now

	if err := writeJSON(filepath.Join(runDir, metadataFile), meta); err != nil {
		return "", err
	}
	if err := writeFrames(filepath.Join(runDir, framesFile), result.Frames); err != nil {
		return "", err
	}
	if err := writeSeries(filepath.Join(runDir, seriesFile), result); err != nil {
		return "", err
	}

	return runID, nil
}

func NewMetadata(runID string, cfg *config.Config, result *dynamo.Result) RunMetadata {
	meta := RunMetadata{
		ID:          runID,
		Name:        cfg.Name,
		Seed:        cfg.Seed,
		Particles:   cfg.ParticleNumbers.A + cfg.ParticleNumbers.B,
		StepsTaken:  result.StepsTaken,
		EnergyDrift: result.EnergyDrift,
		Config:      cfg,
		Metrics:     finite(result.Metrics),
	}
	for _, err := range result.Errors {
		meta.Errors = append(meta.Errors, err.Error())
	}
	return meta
}

// finite drops NaN and Inf values, which encoding/json rejects.
func finite(m map[string]float64) map[string]float64 {
	out := make(map[string]float64, len(m))
	for k, v := range m {
		if !math.IsNaN(v) && !math.IsInf(v, 0) {
			out[k] = v
		}
	}
	return out
}

func writeJSON(path string, v any) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	enc := json.NewEncoder(f)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}

func writeFrames(path string, frames []dynamo.State) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write(frameHeader); err != nil {
		return err
	}

	for _, frame := range frames {
		divider := "0"
		if frame.Divider {
			divider = "1"
		}
		for i, p := range frame.Particles {
			row := []string{
				strconv.Itoa(frame.Step),
				formatFloat(frame.Time),
				strconv.Itoa(i),
				strconv.Itoa(p.Species()),
				formatFloat(p.Position.X),
				formatFloat(p.Position.Y),
				formatFloat(p.Velocity.X),
				formatFloat(p.Velocity.Y),
				formatFloat(p.Radius()),
				formatFloat(p.Mass()),
				divider,
			}
			if err := w.Write(row); err != nil {
				return err
			}
		}
	}

	w.Flush()
	return w.Error()
}

func seriesNames(series map[string][]float64) []string {
	names := make([]string, 0, len(series))
	for name := range series {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func writeSeries(path string, result *dynamo.Result) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	w := csv.NewWriter(f)
	names := seriesNames(result.Series)
	if err := w.Write(append([]string{"step", "time"}, names...)); err != nil {
		return err
	}

	for i, t := range result.SeriesTimes {
		step := ""
		if i < len(result.Frames) {
			step = strconv.Itoa(result.Frames[i].Step)
		}
		row := []string{step, formatFloat(t)}
		for _, name := range names {
			val := ""
			if s := result.Series[name]; i < len(s) {
				val = formatFloat(s[i])
			}
			row = append(row, val)
		}
		if err := w.Write(row); err != nil {
			return err
		}
	}

	w.Flush()
	return w.Error()
}

func (s *Store) List() ([]RunMetadata, error) {
	entries, err := os.ReadDir(s.baseDir)
	if err != nil {
		if os.IsNotExist(err) {
			return []RunMetadata{}, nil
		}
		return nil, err
	}

	runs := make([]RunMetadata, 0)
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}

		meta, err := s.Load(entry.Name())
		if err != nil {
			continue
		}
		runs = append(runs, *meta)
	}

	sort.Slice(runs, func(i, j int) bool { return runs[i].Timestamp.Before(runs[j].Timestamp) })
	return runs, nil
}

func (s *Store) Load(runID string) (*RunMetadata, error) {
	data, err := os.ReadFile(filepath.Join(s.baseDir, runID, metadataFile))
	if err != nil {
		return nil, err
	}

	var meta RunMetadata
	if err := json.Unmarshal(data, &meta); err != nil {
		return nil, err
	}

	return &meta, nil
}

func readCSV(path string) ([][]string, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	r := csv.NewReader(file)
	r.FieldsPerRecord = -1
	return r.ReadAll()
}

// LoadFrames rebuilds the sampled frames of a run.
func (s *Store) LoadFrames(runID string) ([]dynamo.State, error) {
	meta, err := s.Load(runID)
	if err != nil {
		return nil, err
	}
	box := dynamo.Box{Min: config.DefaultBoxMin, Max: config.DefaultBoxMax}
	if meta.Config != nil {
		box = dynamo.Box{Min: meta.Config.BoxDimensions.Min, Max: meta.Config.BoxDimensions.Max}
	}

	records, err := readCSV(filepath.Join(s.baseDir, runID, framesFile))
	if err != nil {
		return nil, err
	}

	frames := make([]dynamo.State, 0)
	for i := 1; i < len(records); i++ {
		rec := records[i]
		if len(rec) < len(frameHeader) {
			return nil, fmt.Errorf("%s line %d: expected %d fields, got %d", framesFile, i+1, len(frameHeader), len(rec))
		}

		step, err := strconv.Atoi(rec[0])
		if err != nil {
			return nil, fmt.Errorf("%s line %d: %w", framesFile, i+1, err)
		}
		species, err := strconv.Atoi(rec[3])
		if err != nil {
			return nil, fmt.Errorf("%s line %d: %w", framesFile, i+1, err)
		}
		vals := make([]float64, 7)
		for j, col := range []int{1, 4, 5, 6, 7, 8, 9} {
			vals[j], err = strconv.ParseFloat(rec[col], 64)
			if err != nil {
				return nil, fmt.Errorf("%s line %d: %w", framesFile, i+1, err)
			}
		}

		p, err := dynamo.NewParticle(dynamo.Vec2{X: vals[1], Y: vals[2]}, dynamo.Vec2{X: vals[3], Y: vals[4]}, vals[6], vals[5], species)
		if err != nil {
			return nil, fmt.Errorf("%s line %d: %w", framesFile, i+1, err)
		}

		if n := len(frames); n == 0 || frames[n-1].Step != step {
			frames = append(frames, dynamo.State{Box: box, Time: vals[0], Step: step, Divider: rec[10] == "1"})
		}
		last := &frames[len(frames)-1]
		last.Particles = append(last.Particles, p)
	}

	return frames, nil
}

// LoadSeries returns the sample times and the metric series of a run.
func (s *Store) LoadSeries(runID string) ([]float64, map[string][]float64, error) {
	records, err := readCSV(filepath.Join(s.baseDir, runID, seriesFile))
	if err != nil {
		return nil, nil, err
	}
	if len(records) < 1 {
		return []float64{}, map[string][]float64{}, nil
	}

	header := records[0]
	series := make(map[string][]float64, len(header)-2)
	times := make([]float64, 0, len(records)-1)

	for i := 1; i < len(records); i++ {
		rec := records[i]
		if len(rec) < 2 {
			continue
		}
		t, err := strconv.ParseFloat(rec[1], 64)
		if err != nil {
			continue
		}
		times = append(times, t)

		for j := 2; j < len(header) && j < len(rec); j++ {
			val, err := strconv.ParseFloat(rec[j], 64)
			if err != nil {
				val = math.NaN()
			}
			series[header[j]] = append(series[header[j]], val)
		}
	}

	return times, series, nil
}
