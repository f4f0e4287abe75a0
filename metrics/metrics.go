// Package metrics exposes a population's per-generation state as
// Prometheus gauges, for a host that wants to scrape run progress
// without parsing log lines.
package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/corewave/neat/neat"
)

var (
	registerOnce sync.Once

	generation = prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "neat_generation",
		Help: "Current generation number.",
	})
	bestFitness = prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "neat_best_fitness",
		Help: "All-time best genome fitness observed so far.",
	})
	meanFitness = prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "neat_mean_fitness",
		Help: "Mean fitness across the current generation.",
	})
	speciesCount = prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "neat_species_count",
		Help: "Number of live species in the current generation.",
	})
	compatThreshold = prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "neat_compat_threshold",
		Help: "Current compatibility-distance threshold used for speciation.",
	})
	maxStagnation = prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "neat_max_species_stagnation",
		Help: "Highest per-species stagnation counter in the current generation.",
	})
)

// Register adds this package's gauges to the default registry. Safe to
// call more than once; registration happens exactly once.
func Register() {
	registerOnce.Do(func() {
		prometheus.MustRegister(generation, bestFitness, meanFitness, speciesCount, compatThreshold, maxStagnation)
	})
}

// Observe copies a population's stats snapshot onto this package's
// gauges. It is safe to call before Register, but the gauges are only
// exported through the default registry once Register has been called.
func Observe(stats neat.Stats) {
	generation.Set(float64(stats.Generation))
	bestFitness.Set(stats.BestFitness)
	meanFitness.Set(stats.MeanFitness)
	speciesCount.Set(float64(stats.SpeciesCount))
	compatThreshold.Set(stats.CompatThreshold)
	maxStagnation.Set(float64(stats.MaxStagnation))
}
