package experiment

import (
	"context"
	"fmt"
	"math/rand"

	"github.com/san-kum/gassim/internal/config"
	"github.com/san-kum/gassim/internal/dynamo"
	"github.com/san-kum/gassim/internal/physics"
)

type Experiment struct {
	cfg        *config.Config
	gas        *physics.Gas
	simulator  *dynamo.Simulator
	randSource *rand.Rand
}

func New(cfg *config.Config) *Experiment {
	return &Experiment{
		cfg:        cfg,
		randSource: rand.New(rand.NewSource(cfg.Seed)),
	}
}

// Build constructs the initial gas for a config and seed.
func Build(cfg *config.Config, seed int64) (*physics.Gas, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return physics.NewRandomGas(cfg.Setup(), rand.New(rand.NewSource(seed)))
}

// Setup samples the initial gas and attaches the given metrics.
func (e *Experiment) Setup(metrics []dynamo.Metric) error {
	if err := e.cfg.Validate(); err != nil {
		return err
	}
	gas, err := physics.NewRandomGas(e.cfg.Setup(), e.randSource)
	if err != nil {
		return err
	}
	e.gas = gas
	e.simulator = dynamo.New(gas)
	for _, m := range metrics {
		e.simulator.AddMetric(m)
	}
	return nil
}

func (e *Experiment) Run(ctx context.Context) (*dynamo.Result, error) {
	if e.simulator == nil {
		return nil, fmt.Errorf("experiment not setup")
	}
	return e.simulator.Run(ctx, e.cfg.SimConfig())
}

func (e *Experiment) Config() *config.Config { return e.cfg }

// System returns the gas being simulated.
func (e *Experiment) System() *physics.Gas { return e.gas }

// GetSimulator returns the underlying simulator for adding observers
func (e *Experiment) GetSimulator() *dynamo.Simulator {
	return e.simulator
}

// NewEnsemble prepares numRuns copies of the experiment with seeds starting
// at the config seed.
func NewEnsemble(cfg *config.Config, reg *Registry, numRuns int) *dynamo.Ensemble {
	build := func(seed int64) (dynamo.System, error) {
		return Build(cfg, seed)
	}
	return dynamo.NewEnsemble(build, reg.DefaultMetrics, numRuns, cfg.Seed)
}
