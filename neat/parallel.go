package neat

import (
	"github.com/sourcegraph/conc/pool"
)

// Evaluator scores a single genome, typically by building its phenotype
// network and running it against a task's fixture inputs. It is the
// host's responsibility; this package only calls it.
type Evaluator func(genome *Genome) float64

// EvaluatePopulation runs fn over every genome with at most maxGoroutines
// concurrent calls, writes each genome's Fitness field, and returns once
// every genome has been scored. fn must not mutate shared state outside
// of its own genome argument — EvaluatePopulation makes no guarantee
// about which goroutine scores which genome, only that every genome is
// scored exactly once before it returns.
func (p *Population) EvaluatePopulation(fn Evaluator, maxGoroutines int) {
	EvaluateGenomes(p.Genomes, fn, maxGoroutines)
}

// EvaluateGenomes is the free-function form of
// Population.EvaluatePopulation, usable directly on any genome slice
// (e.g. a single species, or a checkpoint's backfill pool) without a
// surrounding Population.
func EvaluateGenomes(genomes []*Genome, fn Evaluator, maxGoroutines int) {
	if maxGoroutines <= 0 {
		maxGoroutines = 1
	}
	p := pool.New().WithMaxGoroutines(maxGoroutines)

	for _, g := range genomes {
		g := g
		p.Go(func() {
			g.Fitness = fn(g)
		})
	}
	p.Wait()
}
