package experiment

import (
	"fmt"
	"sort"

	"github.com/san-kum/gassim/internal/dynamo"
	"github.com/san-kum/gassim/internal/metrics"
	"github.com/san-kum/gassim/internal/physics"
)

type Registry struct {
	metrics map[string]func() dynamo.Metric
}

func NewRegistry() *Registry {
	r := &Registry{
		metrics: make(map[string]func() dynamo.Metric),
	}

	r.metrics["energy"] = func() dynamo.Metric { return metrics.NewEnergy() }
	r.metrics["energy_drift"] = func() dynamo.Metric { return metrics.NewEnergyDrift() }
	r.metrics["momentum"] = func() dynamo.Metric { return metrics.NewMomentum() }
	r.metrics["temperature_a"] = func() dynamo.Metric { return metrics.NewTemperature(physics.SpeciesA) }
	r.metrics["temperature_b"] = func() dynamo.Metric { return metrics.NewTemperature(physics.SpeciesB) }
	r.metrics["mixing"] = func() dynamo.Metric { return metrics.NewMixing() }
	r.metrics["containment"] = func() dynamo.Metric { return metrics.NewContainment() }
	r.metrics["collisions"] = func() dynamo.Metric { return metrics.NewCollisions() }

	return r
}

func (r *Registry) GetMetric(name string) (dynamo.Metric, error) {
	fn, ok := r.metrics[name]
	if !ok {
		return nil, fmt.Errorf("unknown metric: %s", name)
	}
	return fn(), nil
}

func (r *Registry) ListMetrics() []string {
	names := make([]string, 0, len(r.metrics))
	for name := range r.metrics {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// DefaultMetrics returns fresh instances of the metrics recorded for every run.
// The pair count is O(N²) per sample and is left to explicit requests.
func (r *Registry) DefaultMetrics() []dynamo.Metric {
	return []dynamo.Metric{
		metrics.NewEnergy(),
		metrics.NewEnergyDrift(),
		metrics.NewMomentum(),
		metrics.NewTemperature(physics.SpeciesA),
		metrics.NewTemperature(physics.SpeciesB),
		metrics.NewMixing(),
		metrics.NewContainment(),
	}
}
