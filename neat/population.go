package neat

import (
	"fmt"
	"math"
	"math/rand"
	"sort"
)

// Rates is the mutable "current rate" state Epoch adjusts over the life
// of a run. It starts as a copy of Config's base values; the stagnation
// ratchet raises the three structural rates and the compat-threshold
// homeostasis scales CompatThreshold. mutationRateAmplifiers reads Rates
// but never writes it. WeightPerturbStrength is not part of Rates: the
// ratchet raises it in Population.Cfg directly.
type Rates struct {
	CompatThreshold float64
	AddNodeRate     float64
	AddConnRate     float64
	RemoveConnRate  float64
}

// Population owns a run's full evolutionary state: the innovation
// registry, the current species partition, the current genome pool, and
// the generation counter and best-ever tracking needed by Epoch's
// stagnation ratchet.
type Population struct {
	Cfg   Config
	Rates Rates

	Innovation *InnovationRegistry
	Species    []*Species
	Genomes    []*Genome

	Generation                   int
	Best                         *Genome
	BestFitnessEver              float64
	GenerationsWithoutImprovement int

	nextSpeciesID int
}

// fixedHiddenLayerSizes reports whether cfg names an explicit, shared
// hidden-layer shape (cfg.HiddenLayers), as opposed to leaving hidden
// topology to be drawn per genome from the Min/Max ranges.
func fixedHiddenLayerSizes(cfg Config) ([]int, bool) {
	if len(cfg.HiddenLayers) > 0 {
		return cfg.HiddenLayers, true
	}
	return nil, false
}

// randomHiddenLayerSizes draws a hidden-layer shape for one genome from
// cfg's Min/Max ranges: a layer count in [MinHiddenLayers,
// MaxHiddenLayers] (inclusive), each layer sized in [MinNodesPerLayer,
// MaxNodesPerLayer] (inclusive). Returns nil if cfg asks for no hidden
// layers at all.
func randomHiddenLayerSizes(cfg Config, rng *rand.Rand) []int {
	if cfg.MaxHiddenLayers <= 0 {
		return nil
	}
	minL, maxL := cfg.MinHiddenLayers, cfg.MaxHiddenLayers
	if maxL < minL {
		maxL = minL
	}
	numLayers := minL
	if maxL > minL {
		numLayers = minL + rng.Intn(maxL-minL+1)
	}
	if numLayers <= 0 {
		return nil
	}

	minN, maxN := cfg.MinNodesPerLayer, cfg.MaxNodesPerLayer
	if minN <= 0 {
		minN = 1
	}
	if maxN < minN {
		maxN = minN
	}

	sizes := make([]int, numLayers)
	for i := range sizes {
		n := minN
		if maxN > minN {
			n = minN + rng.Intn(maxN-minN+1)
		}
		sizes[i] = n
	}
	return sizes
}

// wireLayeredTopology connects every node in layer i to every node in
// every later layer j>i (dense layer-to-layer wiring plus skip
// connections to non-adjacent later layers), subject to cfg's
// connectivity options: a Bernoulli draw per candidate edge when
// SparseConnectivity is set, and — for the final (output) layer only —
// a guaranteed fallback edge from a uniformly chosen earlier node when
// every Bernoulli draw for a given output came up empty.
func wireLayeredTopology(g *Genome, layers [][]int, cfg Config, rng *rand.Rand, innovation *InnovationRegistry) {
	outputLayerIdx := len(layers) - 1
	for li := 1; li < len(layers); li++ {
		var sources []int
		for pli := 0; pli < li; pli++ {
			sources = append(sources, layers[pli]...)
		}

		for _, dst := range layers[li] {
			connected := false
			for _, src := range sources {
				if cfg.SparseConnectivity && rng.Float64() >= cfg.ConnectionProbability {
					continue
				}
				g.AddConnection(&ConnectionGene{
					From:       src,
					To:         dst,
					Weight:     (rng.Float64()*2 - 1) * cfg.WeightInitRange,
					Enabled:    true,
					Innovation: innovation.NextConnID(src, dst),
				})
				connected = true
			}
			if !connected && li == outputLayerIdx && cfg.GuaranteedOutputConnections && len(sources) > 0 {
				src := sources[rng.Intn(len(sources))]
				g.AddConnection(&ConnectionGene{
					From:       src,
					To:         dst,
					Weight:     (rng.Float64()*2 - 1) * cfg.WeightInitRange,
					Enabled:    true,
					Innovation: innovation.NextConnID(src, dst),
				})
			}
		}
	}
}

// NewPopulation builds an initial generation of cfg.PopulationSize
// genomes, each sharing the same input/bias/output node ids (assigned
// once, up front, from a fresh innovation registry) and each wired
// according to cfg's connectivity options. No genome is a duplicate
// object: every genome in the returned population is independently
// allocated, even though they start out structurally identical (or, if
// cfg leaves hidden topology to be drawn per genome, structurally
// diverse from the first generation onward). Hidden nodes named by a
// fixed cfg.HiddenLayers shape are allocated once and shared across the
// population, the same as input/output nodes; hidden nodes drawn
// randomly per genome are allocated independently for each genome, so
// sibling genomes may disagree on both hidden-node count and id.
func NewPopulation(cfg Config, rng *rand.Rand) (*Population, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	innovation := NewInnovationRegistry()

	inputIDs := make([]int, cfg.InputCount)
	for i := range inputIDs {
		inputIDs[i] = innovation.NextNode()
	}
	var biasID int
	hasBias := cfg.Bias
	if hasBias {
		biasID = innovation.NextNode()
	}
	outputIDs := make([]int, cfg.OutputCount)
	for i := range outputIDs {
		outputIDs[i] = innovation.NextNode()
	}

	fixedSizes, hasFixedHidden := fixedHiddenLayerSizes(cfg)
	var sharedHiddenLayers [][]int
	if hasFixedHidden {
		sharedHiddenLayers = make([][]int, len(fixedSizes))
		for li, size := range fixedSizes {
			ids := make([]int, size)
			for i := range ids {
				ids[i] = innovation.NextNode()
			}
			sharedHiddenLayers[li] = ids
		}
	}

	inputLayer := append(append([]int{}, inputIDs...), func() []int {
		if hasBias {
			return []int{biasID}
		}
		return nil
	}()...)

	genomes := make([]*Genome, cfg.PopulationSize)
	for i := 0; i < cfg.PopulationSize; i++ {
		g := NewGenome()
		for _, id := range inputIDs {
			g.AddNode(&NodeGene{ID: id, Kind: NodeInput})
		}
		if hasBias {
			g.AddNode(&NodeGene{ID: biasID, Kind: NodeBias})
		}
		for _, id := range outputIDs {
			g.AddNode(&NodeGene{ID: id, Kind: NodeOutput})
		}

		var hiddenLayers [][]int
		if hasFixedHidden {
			hiddenLayers = sharedHiddenLayers
			for _, layer := range hiddenLayers {
				for _, id := range layer {
					g.AddNode(&NodeGene{ID: id, Kind: NodeHidden})
				}
			}
		} else if sizes := randomHiddenLayerSizes(cfg, rng); len(sizes) > 0 {
			hiddenLayers = make([][]int, len(sizes))
			for li, size := range sizes {
				ids := make([]int, size)
				for n := range ids {
					id := innovation.NextNode()
					g.AddNode(&NodeGene{ID: id, Kind: NodeHidden})
					ids[n] = id
				}
				hiddenLayers[li] = ids
			}
		}

		layers := append([][]int{inputLayer}, hiddenLayers...)
		layers = append(layers, outputIDs)
		wireLayeredTopology(g, layers, cfg, rng, innovation)

		genomes[i] = g
	}

	return &Population{
		Cfg: cfg,
		Rates: Rates{
			CompatThreshold: cfg.CompatThreshold,
			AddNodeRate:     cfg.AddNodeRate,
			AddConnRate:     cfg.AddConnRate,
			RemoveConnRate:  cfg.RemoveConnRate,
		},
		Innovation:      innovation,
		Genomes:         genomes,
		BestFitnessEver: 0,
	}, nil
}

// speciate clears every existing species' member list, assigns each
// genome to the first species whose representative it is compatible
// with under the current compat threshold, and creates a fresh species
// (with itself as representative) for any genome that fits none. Empty
// species (no genome matched their old representative this round) are
// dropped. Every surviving species then has its representative reset to
// its current fittest member, so the next call compares against this
// generation's champion rather than a stale genome from when the
// species was founded.
func (p *Population) speciate() {
	for _, s := range p.Species {
		s.Clear()
	}

	for _, g := range p.Genomes {
		placed := false
		for _, s := range p.Species {
			if g.Compatibility(s.Representative, p.Cfg.C1, p.Cfg.C2, p.Cfg.C3) < p.Rates.CompatThreshold {
				s.AddMember(g)
				placed = true
				break
			}
		}
		if !placed {
			p.nextSpeciesID++
			p.Species = append(p.Species, NewSpecies(p.nextSpeciesID, g))
		}
	}

	live := p.Species[:0]
	for _, s := range p.Species {
		if len(s.Members) > 0 {
			live = append(live, s)
		}
	}
	p.Species = live

	for _, s := range p.Species {
		s.Representative = s.FittestMember()
	}
}

// Early-generation exploration multiplier and its steady-state floor for
// mutationRateAmplifiers' A·(1−p)+B·p schedule.
const (
	mutationAmplifierHigh = 22.0
	mutationAmplifierLow  = 0.75

	// connectionAmplifierBoost multiplies AddConnRate while the current
	// generation falls in [ConnectionAmplifierFrom, ConnectionAmplifierTo),
	// on top of the generation-based schedule above.
	connectionAmplifierBoost = 2.0
)

// mutationRateAmplifiers computes a schedule of structural-mutation-rate
// multipliers keyed on elapsed run length (p.Generation), independent of
// the stagnation ratchet Epoch applies to Rates in step 3. Every rate is
// scaled by the same factor, which interpolates linearly from
// mutationAmplifierHigh at generation 0 down to mutationAmplifierLow once
// p.Generation reaches MutationAmplifierOverGenerations, then holds
// there — an explicit early-run exploration boost that decays to a small
// steady-state multiplier as the run matures, regardless of whether the
// run has been stagnant. AddConnRate additionally receives
// connectionAmplifierBoost while the generation falls inside
// [ConnectionAmplifierFrom, ConnectionAmplifierTo), a separate window a
// host can use to schedule a burst of topological exploration (e.g.
// right after a curriculum change) independent of both the stagnation
// ratchet and the generation-based schedule above.
func (p *Population) mutationRateAmplifiers() (addNode, addConn, removeConn float64) {
	horizon := p.Cfg.MutationAmplifierOverGenerations
	multiplier := 1.0
	if horizon > 0 {
		progress := float64(p.Generation) / float64(horizon)
		if progress > 1 {
			progress = 1
		}
		multiplier = mutationAmplifierHigh*(1-progress) + mutationAmplifierLow*progress
	}

	addNode = p.Rates.AddNodeRate * multiplier
	addConn = p.Rates.AddConnRate * multiplier
	removeConn = p.Rates.RemoveConnRate * multiplier

	if p.Cfg.ConnectionAmplifierTo > p.Cfg.ConnectionAmplifierFrom &&
		p.Generation >= p.Cfg.ConnectionAmplifierFrom && p.Generation < p.Cfg.ConnectionAmplifierTo {
		addConn *= connectionAmplifierBoost
	}
	return addNode, addConn, removeConn
}

// Epoch advances the population by one generation, implementing the
// ordered nine-step procedure: sort by fitness, track the all-time best
// and ratchet Rates on prolonged stagnation, re-speciate against a
// homeostatic compat threshold, cull stagnant species, allocate offspring
// by shared fitness with elitism, reproduce via crossover or clone-and-
// mutate, backfill short generations from the prior top genomes, and
// finally advance the generation counter.
func (p *Population) Epoch(rng *rand.Rand) error {
	if len(p.Genomes) == 0 {
		return fmt.Errorf("epoch: population has no genomes")
	}

	// Step 1: sort by fitness, descending.
	sort.SliceStable(p.Genomes, func(i, j int) bool {
		return p.Genomes[i].Fitness > p.Genomes[j].Fitness
	})
	previousGeneration := make([]*Genome, len(p.Genomes))
	copy(previousGeneration, p.Genomes)

	// Step 2: best-ever tracking.
	champion := p.Genomes[0]
	if p.Best == nil || champion.Fitness > p.BestFitnessEver {
		p.Best = champion.Copy()
		p.BestFitnessEver = champion.Fitness
		p.GenerationsWithoutImprovement = 0
	} else {
		p.GenerationsWithoutImprovement++
	}

	// Step 3: ratchet mutation intensity on prolonged stagnation. This is
	// a permanent inflation of Rates, not a per-generation override.
	if p.GenerationsWithoutImprovement > 5 {
		p.Rates.AddNodeRate = minFloat(p.Rates.AddNodeRate*1.1, 0.2)
		p.Rates.AddConnRate = minFloat(p.Rates.AddConnRate*1.1, 0.3)
		p.Rates.RemoveConnRate = minFloat(p.Rates.RemoveConnRate*1.1, 0.3)
		p.Cfg.WeightPerturbStrength = minFloat(p.Cfg.WeightPerturbStrength*1.1, 3.0)
	}

	// Step 4: adaptive compat-threshold homeostasis, then speciate.
	target := clampInt(p.Cfg.PopulationSize/10, 5, 20)
	switch {
	case len(p.Species) > target:
		p.Rates.CompatThreshold *= 1.05
	case len(p.Species) > 0:
		p.Rates.CompatThreshold *= 0.95
	}
	p.Rates.CompatThreshold = clamp(p.Rates.CompatThreshold, 0.5, 5.0)
	p.speciate()

	// Step 5: cull species that are stale beyond the configured threshold,
	// unless they currently hold the all-time best genome.
	survivors := p.Species[:0]
	for _, s := range p.Species {
		if s.Stale >= p.Cfg.StagnationThreshold && !s.ContainsBest(p.Best) {
			continue
		}
		survivors = append(survivors, s)
	}
	p.Species = survivors
	if len(p.Species) == 0 {
		p.nextSpeciesID++
		p.Species = append(p.Species, NewSpecies(p.nextSpeciesID, champion))
		p.Species[0].Members = append([]*Genome{}, p.Genomes...)
	}

	for _, s := range p.Species {
		s.ComputeAdjustedFitnesses()
		s.UpdateStagnation()
	}

	// Elites are placed first, before the remaining slots are divided
	// proportionally, so the offspring counts below only need to cover
	// what elitism hasn't already claimed.
	for _, s := range p.Species {
		sort.SliceStable(s.Members, func(i, j int) bool {
			return s.Members[i].Fitness > s.Members[j].Fitness
		})
	}

	var next []*Genome
	for _, s := range p.Species {
		elites := p.Cfg.Elitism
		if elites > len(s.Members) {
			elites = len(s.Members)
		}
		for e := 0; e < elites; e++ {
			next = append(next, s.Members[e].Copy())
		}
	}

	// Step 6: allocate remaining offspring slots proportional to each
	// species' total adjusted fitness share.
	totalAdjusted := 0.0
	for _, s := range p.Species {
		for _, m := range s.Members {
			totalAdjusted += m.AdjustedFitness
		}
	}
	remaining := p.Cfg.PopulationSize - len(next)
	if remaining < 0 {
		remaining = 0
	}

	offspringCounts := make([]int, len(p.Species))
	for i, s := range p.Species {
		share := 0.0
		for _, m := range s.Members {
			share += m.AdjustedFitness
		}
		if totalAdjusted > 0 {
			offspringCounts[i] = int(math.Round(share / totalAdjusted * float64(remaining)))
		} else if len(p.Species) > 0 {
			offspringCounts[i] = remaining / len(p.Species)
		}
	}

	addNodeRate, addConnRate, removeConnRate := p.mutationRateAmplifiers()
	weightCfg := WeightMutationConfig{
		WeightPerturbRate:     p.Cfg.WeightPerturbRate,
		WeightPerturbStrength: p.Cfg.WeightPerturbStrength,
		WeightInitRange:       p.Cfg.WeightInitRange,
	}

	// Step 7: reproduce within each species.
	for si, s := range p.Species {

		survivorCount := int(float64(len(s.Members)) * p.Cfg.SurvivalThreshold)
		if survivorCount < 1 {
			survivorCount = 1
		}
		if survivorCount > len(s.Members) {
			survivorCount = len(s.Members)
		}
		pool := s.Members[:survivorCount]

		want := offspringCounts[si]
		for n := 0; n < want; n++ {
			var child *Genome
			if rng.Float64() < p.Cfg.CrossoverRate && len(pool) > 1 {
				parentA := pool[rng.Intn(len(pool))]
				parentB := pool[rng.Intn(len(pool))]
				if parentA.Fitness >= parentB.Fitness {
					child = parentA.Crossover(rng, parentB)
				} else {
					child = parentB.Crossover(rng, parentA)
				}
			} else {
				// No crossover this draw: clone the species' current best
				// (s.Members is sorted descending by fitness above) rather
				// than a uniformly-drawn survivor.
				child = s.Members[0].Copy()
			}

			for attempt := 0; attempt < p.Cfg.MaxMutationAttempts; attempt++ {
				child.MutateWeights(rng, weightCfg)
				if rng.Float64() < addConnRate {
					child.MutateAddConnection(rng, p.Innovation, p.Cfg.MaxMutationAttempts)
				}
				if rng.Float64() < addNodeRate {
					child.MutateAddNode(rng, p.Innovation)
				}
				if rng.Float64() < removeConnRate {
					child.MutateRemoveConnection(rng)
				}
			}

			next = append(next, child)
		}
	}

	// Step 8: backfill from the previous generation's top 10 if the
	// species-proportional allocation came up short of PopulationSize.
	backfillIdx := 0
	for len(next) < p.Cfg.PopulationSize && backfillIdx < len(previousGeneration) && backfillIdx < 10 {
		next = append(next, previousGeneration[backfillIdx].Copy())
		backfillIdx++
	}
	if len(next) > p.Cfg.PopulationSize {
		next = next[:p.Cfg.PopulationSize]
	}

	p.Genomes = next

	// Step 9: advance the generation counter.
	p.Generation++

	return nil
}

func minFloat(a, b float64) float64 {
	if a < b {
		return a
	}
	return b
}

func clampInt(value, minVal, maxVal int) int {
	if value < minVal {
		return minVal
	}
	if value > maxVal {
		return maxVal
	}
	return value
}
