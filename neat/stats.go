package neat

// Stats is a snapshot of a population's reportable state after an Epoch
// call, intended for logging and for the metrics package's gauges.
type Stats struct {
	Generation      int
	SpeciesCount    int
	BestFitness     float64
	MeanFitness     float64
	CompatThreshold float64
	MaxStagnation   int
}

// Stats summarizes the population's current generation. aggregate picks
// the named statistic (see StatFunctions) used for MeanFitness; an
// unrecognized name falls back to Mean.
func (p *Population) Stats(aggregate string) Stats {
	fitnesses := make([]float64, len(p.Genomes))
	for i, g := range p.Genomes {
		fitnesses[i] = g.Fitness
	}

	fn, ok := StatFunctions[aggregate]
	if !ok {
		fn = Mean
	}

	maxStale := 0
	for _, s := range p.Species {
		if s.Stale > maxStale {
			maxStale = s.Stale
		}
	}

	return Stats{
		Generation:      p.Generation,
		SpeciesCount:    len(p.Species),
		BestFitness:     p.BestFitnessEver,
		MeanFitness:     fn(fitnesses),
		CompatThreshold: p.Rates.CompatThreshold,
		MaxStagnation:   maxStale,
	}
}
