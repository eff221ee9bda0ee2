package dynamo

import (
	"context"
	"fmt"
	"math"
)

type Simulator struct {
	sys       System
	metrics   []Metric
	observers []Observer
}

func New(sys System) *Simulator {
	return &Simulator{
		sys:       sys,
		metrics:   make([]Metric, 0),
		observers: make([]Observer, 0),
	}
}

func (s *Simulator) AddMetric(m Metric)     { s.metrics = append(s.metrics, m) }
func (s *Simulator) AddObserver(o Observer) { s.observers = append(s.observers, o) }

// System returns the system driven by the simulator.
func (s *Simulator) System() System { return s.sys }

// Run advances the system cfg.Steps times. Frames and metric series are
// sampled every cfg.SampleEvery steps; the initial and final states are always
// recorded. A canceled context returns the partial result with ctx.Err().
func (s *Simulator) Run(ctx context.Context, cfg Config) (*Result, error) {
	if err := s.validateConfig(cfg); err != nil {
		return nil, err
	}

	samples := 2
	if cfg.SampleEvery > 0 {
		samples += cfg.Steps / cfg.SampleEvery
	}
	result := &Result{
		Frames:      make([]State, 0, samples),
		Times:       make([]float64, 0, samples),
		Series:      make(map[string][]float64, len(s.metrics)),
		SeriesTimes: make([]float64, 0, samples),
		Metrics:     make(map[string]float64, len(s.metrics)),
		Errors:      make([]error, 0),
	}

	for _, m := range s.metrics {
		m.Reset()
	}

	x := s.sys.State()
	initialEnergy := s.computeEnergy(x)
	s.observe(x)
	s.sample(result, x)

	lastSampled := 0
	for i := 0; i < cfg.Steps; i++ {
		select {
		case <-ctx.Done():
			return result, ctx.Err()
		default:
		}

		if i == cfg.RemoveDividerAt {
			if r, ok := s.sys.(DividerRemover); ok {
				r.RemoveDivider()
			}
		}

		s.sys.Step()
		next := s.sys.State()

		if cfg.ValidateState && !next.IsValid() {
			result.Errors = append(result.Errors, invalidStateError(next, i))
			break
		}

		x = next
		s.observe(x)
		result.StepsTaken++

		if cfg.SampleEvery > 0 && result.StepsTaken%cfg.SampleEvery == 0 {
			s.sample(result, x)
			lastSampled = result.StepsTaken
		}
	}

	if lastSampled != result.StepsTaken {
		s.sample(result, x)
	}

	finalEnergy := s.computeEnergy(x)
	if initialEnergy != 0 {
		result.EnergyDrift = math.Abs(finalEnergy-initialEnergy) / math.Abs(initialEnergy)
	}

	for _, m := range s.metrics {
		result.Metrics[m.Name()] = m.Value()
	}

	return result, nil
}

func (s *Simulator) observe(x State) {
	for _, m := range s.metrics {
		m.Observe(x)
	}
	for _, obs := range s.observers {
		obs.OnStep(x)
	}
}

func (s *Simulator) sample(result *Result, x State) {
	result.Frames = append(result.Frames, x)
	result.Times = append(result.Times, x.Time)
	result.SeriesTimes = append(result.SeriesTimes, x.Time)
	for _, m := range s.metrics {
		result.Series[m.Name()] = append(result.Series[m.Name()], m.Value())
	}
}

func (s *Simulator) validateConfig(cfg Config) error {
	if s.sys == nil {
		return fmt.Errorf("simulator has no system")
	}
	if dt := s.sys.Dt(); !(dt > 0) {
		return fmt.Errorf("dt must be positive, got %f: %w", dt, ErrParameterBounds)
	}
	if cfg.Steps <= 0 {
		return fmt.Errorf("steps must be positive, got %d: %w", cfg.Steps, ErrParameterBounds)
	}
	if cfg.SampleEvery < 0 {
		return fmt.Errorf("sample interval must not be negative, got %d: %w", cfg.SampleEvery, ErrParameterBounds)
	}
	return nil
}

func (s *Simulator) computeEnergy(x State) float64 {
	if h, ok := s.sys.(Hamiltonian); ok {
		return h.Energy()
	}
	return x.KineticEnergy()
}

// RunWithCallback steps the system until cfg.Steps is reached, the context is
// canceled, or callback returns false. The callback sees the state before
// each step. A non-finite state stops the run with the same SimError that Run
// records.
func (s *Simulator) RunWithCallback(ctx context.Context, cfg Config, callback func(State) bool) error {
	if err := s.validateConfig(cfg); err != nil {
		return err
	}

	for i := 0; i < cfg.Steps; i++ {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		x := s.sys.State()
		if !callback(x) {
			return nil
		}

		if i == cfg.RemoveDividerAt {
			if r, ok := s.sys.(DividerRemover); ok {
				r.RemoveDivider()
			}
		}
		s.sys.Step()

		if cfg.ValidateState {
			if x := s.sys.State(); !x.IsValid() {
				return invalidStateError(x, i)
			}
		}
	}

	return nil
}
