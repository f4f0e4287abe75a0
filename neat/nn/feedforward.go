// Package nn builds and evaluates the phenotype network for a genome.
package nn

import (
	"fmt"
	"math"
	"sort"

	"gonum.org/v1/gonum/graph"
	"gonum.org/v1/gonum/graph/simple"
	"gonum.org/v1/gonum/graph/topo"

	"github.com/corewave/neat/neat"
)

// sigmoidSteepness is the steepening factor of the default activation
// function, part of the evaluate contract: σ(x) = 1/(1+exp(-4.9x)).
const sigmoidSteepness = 4.9

// ActivationFunc squashes a node's aggregated input.
type ActivationFunc func(x float64) float64

// AggregationFunc combines a node's incoming weighted values into one.
type AggregationFunc func(values []float64) float64

// Sigmoid is the default, steepened activation function mandated by the
// evaluate contract.
func Sigmoid(x float64) float64 {
	return 1.0 / (1.0 + math.Exp(-sigmoidSteepness*x))
}

// Sum is the default aggregation function.
func Sum(values []float64) float64 {
	total := 0.0
	for _, v := range values {
		total += v
	}
	return total
}

type incoming struct {
	from   int
	weight float64
}

// Network is the phenotype: an immutable, already topologically ordered
// view of a genome's enabled connections. Built once; Evaluate may be
// called any number of times and is pure with respect to the network
// (activations are transient, held in a map local to each call).
type Network struct {
	nodes      map[int]neat.NodeKind
	order      []int // non-input, non-bias nodes, in evaluation order
	incoming   map[int][]incoming
	outputIDs  []int
	activation ActivationFunc
	aggregate  AggregationFunc
}

// BuildOption configures Build.
type BuildOption func(*Network)

// WithActivation overrides the default steepened-sigmoid activation.
func WithActivation(fn ActivationFunc) BuildOption {
	return func(n *Network) { n.activation = fn }
}

// WithAggregation overrides the default sum aggregation.
func WithAggregation(fn AggregationFunc) BuildOption {
	return func(n *Network) { n.aggregate = fn }
}

// Build constructs a Network from a genome snapshot. It copies the node
// set, appends every enabled connection whose endpoints both exist to
// the destination node's incoming list, and computes a topological order
// over the enabled-connection graph using gonum's stabilized topological
// sort. A cycle — which the genome's mutation rules should never
// produce, but which Build defends against rather than assumes away —
// is reported as an error instead of silently leaving nodes
// uninitialized.
func Build(g *neat.Genome, opts ...BuildOption) (*Network, error) {
	dg := simple.NewDirectedGraph()
	for id := range g.Nodes {
		dg.AddNode(simple.Node(id))
	}

	inc := make(map[int][]incoming)
	for _, c := range g.Connections {
		if !c.Enabled {
			continue
		}
		if _, ok := g.Nodes[c.From]; !ok {
			continue
		}
		if _, ok := g.Nodes[c.To]; !ok {
			continue
		}
		dg.SetEdge(simple.Edge{F: simple.Node(c.From), T: simple.Node(c.To)})
		inc[c.To] = append(inc[c.To], incoming{from: c.From, weight: c.Weight})
	}

	sorted, err := topo.SortStabilized(dg, stableByID)
	if err != nil {
		return nil, fmt.Errorf("build network: genome is not acyclic: %w", err)
	}
	if len(sorted) != len(g.Nodes) {
		return nil, fmt.Errorf("build network: topological order covers %d of %d nodes", len(sorted), len(g.Nodes))
	}

	nodes := make(map[int]neat.NodeKind, len(g.Nodes))
	for id, nd := range g.Nodes {
		nodes[id] = nd.Kind
	}

	order := make([]int, 0, len(sorted))
	var outputs []int
	for _, gn := range sorted {
		id := int(gn.ID())
		switch nodes[id] {
		case neat.NodeInput, neat.NodeBias:
			// excluded from the evaluation walk; seeded directly in Evaluate.
		default:
			order = append(order, id)
		}
		if nodes[id] == neat.NodeOutput {
			outputs = append(outputs, id)
		}
	}
	sort.Ints(outputs)

	net := &Network{
		nodes:      nodes,
		order:      order,
		incoming:   inc,
		outputIDs:  outputs,
		activation: Sigmoid,
		aggregate:  Sum,
	}
	for _, opt := range opts {
		opt(net)
	}
	return net, nil
}

// stableByID breaks topological-sort ties by ascending node id, so that
// Build (and therefore Evaluate) is deterministic for a given genome.
func stableByID(nodes []graph.Node) {
	sort.Slice(nodes, func(i, j int) bool { return nodes[i].ID() < nodes[j].ID() })
}

// Output pairs an output node's id with its activation.
type Output struct {
	NodeID     int
	Activation float64
}

// Evaluate computes the network's output for an input vector addressed
// by input-node id. Missing input ids default to 0. Outputs are
// returned sorted by node id ascending. Given the same genome and the
// same inputs, Evaluate returns identical outputs every call — no
// randomness, no reordering beyond the fixed topological sort and the
// id-sorted output.
func (n *Network) Evaluate(inputs map[int]float64) []Output {
	activation := make(map[int]float64, len(n.nodes))
	for id, kind := range n.nodes {
		switch kind {
		case neat.NodeInput:
			activation[id] = inputs[id]
		case neat.NodeBias:
			activation[id] = 1.0
		default:
			activation[id] = 0.0
		}
	}

	for _, id := range n.order {
		edges := n.incoming[id]
		values := make([]float64, len(edges))
		for i, e := range edges {
			values[i] = activation[e.from] * e.weight
		}
		activation[id] = n.activation(n.aggregate(values))
	}

	outputs := make([]Output, len(n.outputIDs))
	for i, id := range n.outputIDs {
		outputs[i] = Output{NodeID: id, Activation: activation[id]}
	}
	return outputs
}
