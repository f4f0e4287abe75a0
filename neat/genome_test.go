package neat

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func twoInputOneOutputGenome(innovation *InnovationRegistry) *Genome {
	g := NewGenome()
	in1, in2, out := innovation.NextNode(), innovation.NextNode(), innovation.NextNode()
	g.AddNode(&NodeGene{ID: in1, Kind: NodeInput})
	g.AddNode(&NodeGene{ID: in2, Kind: NodeInput})
	g.AddNode(&NodeGene{ID: out, Kind: NodeOutput})
	g.AddConnection(&ConnectionGene{From: in1, To: out, Weight: 1.0, Enabled: true, Innovation: innovation.NextConnID(in1, out)})
	g.AddConnection(&ConnectionGene{From: in2, To: out, Weight: 1.0, Enabled: true, Innovation: innovation.NextConnID(in2, out)})
	return g
}

func TestGenomeAddAndHasConnection(t *testing.T) {
	innovation := NewInnovationRegistry()
	g := twoInputOneOutputGenome(innovation)

	assert.True(t, g.HasConnection(1, 3))
	assert.False(t, g.HasConnection(3, 1))
	assert.False(t, g.HasConnection(1, 2))
}

func TestGenomeCopyIsDeep(t *testing.T) {
	innovation := NewInnovationRegistry()
	g := twoInputOneOutputGenome(innovation)
	g.Fitness = 4.2

	cp := g.Copy()
	require.Equal(t, len(g.Nodes), len(cp.Nodes))
	require.Equal(t, len(g.Connections), len(cp.Connections))
	assert.Equal(t, g.Fitness, cp.Fitness)

	for innov, c := range cp.Connections {
		c.Weight = 999
		assert.NotEqual(t, g.Connections[innov].Weight, cp.Connections[innov].Weight)
	}
}

func TestMutateAddConnectionRejectsOutputToInput(t *testing.T) {
	innovation := NewInnovationRegistry()
	g := NewGenome()
	in, out := innovation.NextNode(), innovation.NextNode()
	g.AddNode(&NodeGene{ID: in, Kind: NodeInput})
	g.AddNode(&NodeGene{ID: out, Kind: NodeOutput})

	rng := rand.New(rand.NewSource(1))
	for i := 0; i < 50; i++ {
		g.MutateAddConnection(rng, innovation, 1)
	}
	for _, c := range g.Connections {
		assert.False(t, g.Nodes[c.From].Kind == NodeOutput && g.Nodes[c.To].Kind == NodeInput)
	}
}

func TestMutateAddConnectionRejectsCycles(t *testing.T) {
	innovation := NewInnovationRegistry()
	g := NewGenome()
	a, b, c := innovation.NextNode(), innovation.NextNode(), innovation.NextNode()
	g.AddNode(&NodeGene{ID: a, Kind: NodeInput})
	g.AddNode(&NodeGene{ID: b, Kind: NodeHidden})
	g.AddNode(&NodeGene{ID: c, Kind: NodeOutput})
	g.AddConnection(&ConnectionGene{From: a, To: b, Weight: 1, Enabled: true, Innovation: innovation.NextConnID(a, b)})
	g.AddConnection(&ConnectionGene{From: b, To: c, Weight: 1, Enabled: true, Innovation: innovation.NextConnID(b, c)})

	assert.True(t, g.createsCycle(c, a))
	assert.True(t, g.createsCycle(c, b))
	assert.False(t, g.createsCycle(a, c))
}

func TestMutateAddNodeSplitsConnection(t *testing.T) {
	innovation := NewInnovationRegistry()
	g := twoInputOneOutputGenome(innovation)
	originalNodeCount := len(g.Nodes)

	rng := rand.New(rand.NewSource(2))
	ok := g.MutateAddNode(rng, innovation)
	require.True(t, ok)

	assert.Equal(t, originalNodeCount+1, len(g.Nodes))

	disabledCount := 0
	for _, c := range g.Connections {
		if !c.Enabled {
			disabledCount++
		}
	}
	assert.Equal(t, 1, disabledCount, "splitting must disable exactly the original connection")
	assert.Equal(t, 4, len(g.Connections), "two original plus two new connections")
}

func TestMutateAddNodeSameSplitSharesInnovation(t *testing.T) {
	innovation := NewInnovationRegistry()
	g1 := twoInputOneOutputGenome(innovation)
	g2 := g1.Copy()

	rng := rand.New(rand.NewSource(3))
	// Force both genomes to split the same (deterministic, single) connection
	// by giving each only one enabled connection to choose from.
	for innov, c := range g1.Connections {
		if innov != 1 {
			c.Enabled = false
		}
	}
	for innov, c := range g2.Connections {
		if innov != 1 {
			c.Enabled = false
		}
	}

	require.True(t, g1.MutateAddNode(rng, innovation))
	require.True(t, g2.MutateAddNode(rng, innovation))

	newNodeG1 := maxNodeID(g1)
	newNodeG2 := maxNodeID(g2)
	assert.Equal(t, newNodeG1, newNodeG2, "splitting the same original edge from two genomes must allocate the same new node id")

	innovsG1 := connInnovationSet(g1, newNodeG1)
	innovsG2 := connInnovationSet(g2, newNodeG2)
	assert.ElementsMatch(t, innovsG1, innovsG2, "splitting the same edge from two genomes shares innovation ids")
}

func maxNodeID(g *Genome) int {
	max := 0
	for id := range g.Nodes {
		if id > max {
			max = id
		}
	}
	return max
}

func connInnovationSet(g *Genome, nodeID int) []int {
	var out []int
	for _, c := range g.Connections {
		if c.From == nodeID || c.To == nodeID {
			out = append(out, c.Innovation)
		}
	}
	return out
}

func TestMutateRemoveConnectionDeletesEntirely(t *testing.T) {
	innovation := NewInnovationRegistry()
	g := twoInputOneOutputGenome(innovation)
	before := len(g.Connections)

	rng := rand.New(rand.NewSource(4))
	require.True(t, g.MutateRemoveConnection(rng))
	assert.Equal(t, before-1, len(g.Connections))
}

func TestMutateWeightsAlwaysTouchesEveryConnection(t *testing.T) {
	innovation := NewInnovationRegistry()
	g := twoInputOneOutputGenome(innovation)
	original := make(map[int]float64, len(g.Connections))
	for innov, c := range g.Connections {
		original[innov] = c.Weight
	}

	rng := rand.New(rand.NewSource(5))
	cfg := WeightMutationConfig{WeightPerturbRate: 1.0, WeightPerturbStrength: 0.5, WeightInitRange: 2.0}
	g.MutateWeights(rng, cfg)

	changed := 0
	for innov, c := range g.Connections {
		if c.Weight != original[innov] {
			changed++
		}
	}
	assert.Equal(t, len(g.Connections), changed)
}

func TestCompatibilityScenario3(t *testing.T) {
	innovation := NewInnovationRegistry()
	a, b := innovation.NextNode(), innovation.NextNode()
	innov := innovation.NextConnID(a, b)

	g1 := NewGenome()
	g1.AddNode(&NodeGene{ID: a, Kind: NodeInput})
	g1.AddNode(&NodeGene{ID: b, Kind: NodeOutput})
	g1.AddConnection(&ConnectionGene{From: a, To: b, Weight: 1.0, Enabled: true, Innovation: innov})

	g2 := NewGenome()
	g2.AddNode(&NodeGene{ID: a, Kind: NodeInput})
	g2.AddNode(&NodeGene{ID: b, Kind: NodeOutput})
	g2.AddConnection(&ConnectionGene{From: a, To: b, Weight: 2.0, Enabled: true, Innovation: innov})

	c1, c2, c3 := 1.0, 1.0, 0.4
	dist := g1.Compatibility(g2, c1, c2, c3)
	assert.InDelta(t, c3*1.0, dist, 1e-9)

	c := innovation.NextNode()
	freshInnov := innovation.NextConnID(a, c)
	g1.AddNode(&NodeGene{ID: c, Kind: NodeHidden})
	g1.AddConnection(&ConnectionGene{From: a, To: c, Weight: 0.5, Enabled: true, Innovation: freshInnov})

	dist2 := g1.Compatibility(g2, c1, c2, c3)
	assert.InDelta(t, c1/2+c3*1.0, dist2, 1e-9)
}

func TestCrossoverInheritsFitterParentsNodes(t *testing.T) {
	innovation := NewInnovationRegistry()
	fitter := twoInputOneOutputGenome(innovation)
	fitter.Fitness = 10

	lessFit := fitter.Copy()
	lessFit.Fitness = 1
	rng := rand.New(rand.NewSource(6))
	lessFit.MutateAddNode(rng, innovation)

	child := fitter.Crossover(rng, lessFit)
	assert.Equal(t, len(fitter.Nodes), len(child.Nodes), "child inherits exactly the fitter parent's original node set plus any nodes its own connections reference")
}
