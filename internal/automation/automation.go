package automation

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/san-kum/gassim/internal/config"
	"github.com/san-kum/gassim/internal/dynamo"
	"github.com/san-kum/gassim/internal/experiment"
	"github.com/san-kum/gassim/internal/storage"
	"gopkg.in/yaml.v3"
)

// Scenario defines a scripted simulation sequence
type Scenario struct {
	Name        string         `yaml:"name"`
	Description string         `yaml:"description"`
	Steps       []ScenarioStep `yaml:"steps"`
}

// ScenarioStep is a single run in a scenario. It starts from a preset or a
// config file (the file wins when both are set) and applies the overrides.
type ScenarioStep struct {
	Preset          string             `yaml:"preset"`
	Config          string             `yaml:"config"`
	Seed            *int64             `yaml:"seed"`
	Steps           int                `yaml:"steps"`
	RemoveDividerAt *int               `yaml:"remove_divider_at"`
	Params          map[string]float64 `yaml:"params"`
	Metrics         []string           `yaml:"metrics"`
	SaveAs          string             `yaml:"save_as"`
}

// LoadScenario loads a scenario from a YAML file
func LoadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var scenario Scenario
	if err := yaml.Unmarshal(data, &scenario); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	if len(scenario.Steps) == 0 {
		return nil, fmt.Errorf("scenario %s has no steps", path)
	}

	return &scenario, nil
}

// StepConfig resolves the configuration a step runs with.
func (s ScenarioStep) StepConfig() (*config.Config, error) {
	var cfg *config.Config
	switch {
	case s.Config != "":
		loaded, err := config.Load(s.Config)
		if err != nil {
			return nil, err
		}
		cfg = loaded
	case s.Preset != "":
		cfg = config.GetPreset(s.Preset)
		if cfg == nil {
			return nil, fmt.Errorf("unknown preset: %s", s.Preset)
		}
	default:
		cfg = config.DefaultConfig()
	}

	for k, v := range s.Params {
		if err := cfg.SetParam(k, v); err != nil {
			return nil, err
		}
	}
	if s.Seed != nil {
		cfg.Seed = *s.Seed
	}
	if s.Steps > 0 {
		cfg.Simulation.Steps = s.Steps
	}
	if s.RemoveDividerAt != nil {
		cfg.RemoveDividerAt = *s.RemoveDividerAt
	}
	if s.SaveAs != "" {
		cfg.Name = s.SaveAs
	}
	return cfg, nil
}

func metricsFor(names []string, registry *experiment.Registry) ([]dynamo.Metric, error) {
	if len(names) == 0 {
		return registry.DefaultMetrics(), nil
	}
	ms := make([]dynamo.Metric, 0, len(names))
	for _, name := range names {
		m, err := registry.GetMetric(name)
		if err != nil {
			return nil, err
		}
		ms = append(ms, m)
	}
	return ms, nil
}

// RunScenario executes all steps in a scenario. Steps with save_as are
// persisted to store when it is not nil. Progress goes to out.
func RunScenario(ctx context.Context, scenario *Scenario, registry *experiment.Registry, store *storage.Store, out io.Writer) ([]*dynamo.Result, error) {
	results := make([]*dynamo.Result, 0, len(scenario.Steps))

	for i, step := range scenario.Steps {
		cfg, err := step.StepConfig()
		if err != nil {
			return results, fmt.Errorf("step %d: %w", i+1, err)
		}
		fmt.Fprintf(out, "Running step %d/%d: %s (%d+%d particles, %d steps)\n",
			i+1, len(scenario.Steps), cfg.Name, cfg.ParticleNumbers.A, cfg.ParticleNumbers.B, cfg.Simulation.Steps)

		ms, err := metricsFor(step.Metrics, registry)
		if err != nil {
			return results, fmt.Errorf("step %d: %w", i+1, err)
		}

		exp := experiment.New(cfg)
		if err := exp.Setup(ms); err != nil {
			return results, fmt.Errorf("step %d setup: %w", i+1, err)
		}

		result, err := exp.Run(ctx)
		if err != nil {
			return results, fmt.Errorf("step %d run: %w", i+1, err)
		}
		results = append(results, result)

		if step.SaveAs != "" && store != nil {
			runID, err := store.Save(cfg, result)
			if err != nil {
				return results, fmt.Errorf("step %d save: %w", i+1, err)
			}
			fmt.Fprintf(out, "  saved %s\n", runID)
		}
	}

	return results, nil
}

// ParameterSweep runs simulations across a range of parameter values
type ParameterSweep struct {
	Base      *config.Config
	ParamName string
	ParamMin  float64
	ParamMax  float64
	NumSteps  int
	Metrics   []string
}

// SweepResult holds results from a parameter sweep
type SweepResult struct {
	ParamValue  float64
	Metrics     map[string]float64
	EnergyDrift float64
	StepsTaken  int
	Errors      int
}

// RunSweep executes a parameter sweep. Every point starts from the same seed.
func RunSweep(ctx context.Context, sweep *ParameterSweep, registry *experiment.Registry, out io.Writer) ([]SweepResult, error) {
	if sweep.NumSteps < 1 {
		return nil, fmt.Errorf("sweep needs at least one point, got %d: %w", sweep.NumSteps, dynamo.ErrParameterBounds)
	}
	if _, ok := sweep.Base.GetParams()[sweep.ParamName]; !ok {
		return nil, fmt.Errorf("unknown parameter: %s", sweep.ParamName)
	}

	results := make([]SweepResult, 0, sweep.NumSteps)

	paramStep := 0.0
	if sweep.NumSteps > 1 {
		paramStep = (sweep.ParamMax - sweep.ParamMin) / float64(sweep.NumSteps-1)
	}

	for i := 0; i < sweep.NumSteps; i++ {
		paramVal := sweep.ParamMin + float64(i)*paramStep

		cfg := sweep.Base.Clone()
		if err := cfg.SetParam(sweep.ParamName, paramVal); err != nil {
			return nil, err
		}

		ms, err := metricsFor(sweep.Metrics, registry)
		if err != nil {
			return nil, err
		}

		exp := experiment.New(cfg)
		if err := exp.Setup(ms); err != nil {
			return nil, fmt.Errorf("%s=%g: %w", sweep.ParamName, paramVal, err)
		}

		result, err := exp.Run(ctx)
		if err != nil {
			return nil, err
		}

		results = append(results, SweepResult{
			ParamValue:  paramVal,
			Metrics:     result.Metrics,
			EnergyDrift: result.EnergyDrift,
			StepsTaken:  result.StepsTaken,
			Errors:      len(result.Errors),
		})

		fmt.Fprintf(out, "Sweep %d/%d: %s=%.4f\n", i+1, sweep.NumSteps, sweep.ParamName, paramVal)
	}

	return results, nil
}
