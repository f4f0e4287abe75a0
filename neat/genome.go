package neat

import (
	"math"
	"math/rand"
)

// Genome is the genotype: an unordered collection of nodes and an
// unordered collection of connection genes keyed by innovation id. It
// owns its own graph and carries a fitness scalar set by the host.
type Genome struct {
	Nodes           map[int]*NodeGene
	Connections     map[int]*ConnectionGene // keyed by innovation id
	Fitness         float64
	AdjustedFitness float64
}

// NewGenome returns an empty genome with no nodes or connections.
func NewGenome() *Genome {
	return &Genome{
		Nodes:       make(map[int]*NodeGene),
		Connections: make(map[int]*ConnectionGene),
	}
}

// AddNode inserts a node gene.
func (g *Genome) AddNode(node *NodeGene) {
	g.Nodes[node.ID] = node
}

// AddConnection inserts a connection gene, keyed by its innovation id.
func (g *Genome) AddConnection(conn *ConnectionGene) {
	g.Connections[conn.Innovation] = conn
}

// HasConnection reports whether a connection gene with this (from, to)
// pair already exists in the genome, enabled or not.
func (g *Genome) HasConnection(from, to int) bool {
	for _, c := range g.Connections {
		if c.From == from && c.To == to {
			return true
		}
	}
	return false
}

// Copy returns a deep copy of the genome, including its fitness fields.
// Used for elites and for the all-time best, which must not be disturbed
// by a later mutation or species cull.
func (g *Genome) Copy() *Genome {
	cp := NewGenome()
	for id, n := range g.Nodes {
		cp.Nodes[id] = n.Copy()
	}
	for innov, c := range g.Connections {
		cp.Connections[innov] = c.Copy()
	}
	cp.Fitness = g.Fitness
	cp.AdjustedFitness = g.AdjustedFitness
	return cp
}

// createsCycle reports whether adding a from->to edge would close a
// directed cycle over the genome's currently enabled connections, i.e.
// whether to can already reach from.
func (g *Genome) createsCycle(from, to int) bool {
	if from == to {
		return true
	}
	visited := make(map[int]bool)
	queue := []int{to}
	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]
		if cur == from {
			return true
		}
		if visited[cur] {
			continue
		}
		visited[cur] = true
		for _, c := range g.Connections {
			if c.Enabled && c.From == cur {
				queue = append(queue, c.To)
			}
		}
	}
	return false
}

// MutateAddConnection repeatedly draws two distinct node ids and, on
// first acceptance, wires them with a fresh connection gene. It rejects
// an output->input pairing, a self-loop, an already-existing connection,
// and — per spec.md §9's open question about the source's incomplete
// cycle check — any pairing that would close a cycle over the enabled
// connections, which Network construction's acyclicity invariant
// requires. Returns false after maxAttempts failures.
func (g *Genome) MutateAddConnection(rng *rand.Rand, innovation *InnovationRegistry, maxAttempts int) bool {
	ids := make([]int, 0, len(g.Nodes))
	for id := range g.Nodes {
		ids = append(ids, id)
	}
	if len(ids) < 2 {
		return false
	}

	for attempt := 0; attempt < maxAttempts; attempt++ {
		a := ids[rng.Intn(len(ids))]
		b := ids[rng.Intn(len(ids))]

		if a == b {
			continue
		}
		if g.Nodes[a].Kind == NodeOutput && g.Nodes[b].Kind == NodeInput {
			continue
		}
		if g.HasConnection(a, b) {
			continue
		}
		if g.createsCycle(a, b) {
			continue
		}

		conn := &ConnectionGene{
			From:       a,
			To:         b,
			Weight:     (rng.Float64()*2 - 1), // [-1, +1]
			Enabled:    true,
			Innovation: innovation.NextConnID(a, b),
		}
		g.AddConnection(conn)
		return true
	}
	return false
}

// MutateAddNode splits a uniformly random enabled connection: the
// original is disabled, a new hidden node is spliced in, and two new
// connections (original-from -> new, weight 1.0; new -> original-to,
// weight = original weight) replace it. The new node id and both new
// connections' innovation ids come from the registry's SplitConnection,
// so any genome that later splits the same original edge receives
// exactly the same triple. Returns false if no enabled connection
// exists.
func (g *Genome) MutateAddNode(rng *rand.Rand, innovation *InnovationRegistry) bool {
	enabled := make([]*ConnectionGene, 0, len(g.Connections))
	for _, c := range g.Connections {
		if c.Enabled {
			enabled = append(enabled, c)
		}
	}
	if len(enabled) == 0 {
		return false
	}

	target := enabled[rng.Intn(len(enabled))]
	target.Enabled = false

	newID, fromToNewInnov, newToToInnov := innovation.SplitConnection(target.From, target.To)
	g.AddNode(&NodeGene{ID: newID, Kind: NodeHidden})

	g.AddConnection(&ConnectionGene{
		From:       target.From,
		To:         newID,
		Weight:     1.0,
		Enabled:    true,
		Innovation: fromToNewInnov,
	})
	g.AddConnection(&ConnectionGene{
		From:       newID,
		To:         target.To,
		Weight:     target.Weight,
		Enabled:    true,
		Innovation: newToToInnov,
	})
	return true
}

// MutateRemoveConnection deletes a uniformly random connection gene
// entirely (not merely disables it). Returns false if the genome has no
// connections.
func (g *Genome) MutateRemoveConnection(rng *rand.Rand) bool {
	if len(g.Connections) == 0 {
		return false
	}
	innovs := make([]int, 0, len(g.Connections))
	for innov := range g.Connections {
		innovs = append(innovs, innov)
	}
	pick := innovs[rng.Intn(len(innovs))]
	delete(g.Connections, pick)
	return true
}

// WeightMutationConfig controls Genome.MutateWeights.
type WeightMutationConfig struct {
	WeightPerturbRate     float64
	WeightPerturbStrength float64
	WeightInitRange       float64
}

// MutateWeights visits every connection gene and, with probability
// WeightPerturbRate, perturbs its weight by a uniform value in
// [-WeightPerturbStrength, +WeightPerturbStrength]; otherwise it
// replaces the weight with a fresh uniform draw in
// [-WeightInitRange, +WeightInitRange]. Never fails.
func (g *Genome) MutateWeights(rng *rand.Rand, cfg WeightMutationConfig) {
	bound := cfg.WeightInitRange * 5
	for _, c := range g.Connections {
		if rng.Float64() < cfg.WeightPerturbRate {
			delta := (rng.Float64()*2 - 1) * cfg.WeightPerturbStrength
			c.Weight = clamp(c.Weight+delta, -bound, bound)
		} else {
			c.Weight = (rng.Float64()*2 - 1) * cfg.WeightInitRange
		}
	}
}

// Crossover produces a child genome from g and other. g must be the
// fitter parent — enforced by the caller (the population), not by this
// method. The child inherits g's node set (adding any node referenced by
// a retained connection that g's node set is missing, as a plain hidden
// node — necessary because a crossover-inherited connection can
// reference a node that mutateAddNode only added to one parent). For
// every connection in g: if other has a gene with the same innovation
// id, one of the two is chosen uniformly at random; otherwise g's gene
// (disjoint or excess) is copied. Genes unique to other are discarded.
func (g *Genome) Crossover(rng *rand.Rand, other *Genome) *Genome {
	child := NewGenome()
	for id, n := range g.Nodes {
		child.Nodes[id] = n.Copy()
	}

	for innov, c1 := range g.Connections {
		var chosen *ConnectionGene
		if c2, ok := other.Connections[innov]; ok {
			if rng.Float64() < 0.5 {
				chosen = c1.Copy()
			} else {
				chosen = c2.Copy()
			}
		} else {
			chosen = c1.Copy()
		}
		child.AddConnection(chosen)

		for _, nodeID := range [2]int{chosen.From, chosen.To} {
			if _, ok := child.Nodes[nodeID]; !ok {
				child.Nodes[nodeID] = &NodeGene{ID: nodeID, Kind: NodeHidden}
			}
		}
	}

	return child
}

// Compatibility computes the NEAT compatibility distance between g and
// other: c1*E/N + c2*D/N + c3*W, where E is excess genes, D is disjoint
// genes, W is the mean absolute weight difference over matching genes,
// and N = max(1, max(|g.Connections|, |other.Connections|)).
func (g *Genome) Compatibility(other *Genome, c1, c2, c3 float64) float64 {
	maxInnovG, maxInnovOther := maxInnovation(g), maxInnovation(other)

	var excess, disjoint int
	var weightDiffSum float64
	var matching int

	for innov, gc := range g.Connections {
		if oc, ok := other.Connections[innov]; ok {
			weightDiffSum += math.Abs(gc.Weight - oc.Weight)
			matching++
			continue
		}
		if innov > maxInnovOther {
			excess++
		} else {
			disjoint++
		}
	}
	for innov := range other.Connections {
		if _, ok := g.Connections[innov]; ok {
			continue
		}
		if innov > maxInnovG {
			excess++
		} else {
			disjoint++
		}
	}

	n := float64(len(g.Connections))
	if on := float64(len(other.Connections)); on > n {
		n = on
	}
	if n < 1 {
		n = 1
	}

	var w float64
	if matching > 0 {
		w = weightDiffSum / float64(matching)
	}

	return c1*float64(excess)/n + c2*float64(disjoint)/n + c3*w
}

func maxInnovation(g *Genome) int {
	max := 0
	for innov := range g.Connections {
		if innov > max {
			max = innov
		}
	}
	return max
}
