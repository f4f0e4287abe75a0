package neat

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNodeGeneCopyIsIndependent(t *testing.T) {
	n := &NodeGene{ID: 3, Kind: NodeHidden}
	cp := n.Copy()

	require.Equal(t, n.ID, cp.ID)
	require.Equal(t, n.Kind, cp.Kind)

	cp.Kind = NodeOutput
	assert.Equal(t, NodeHidden, n.Kind, "mutating the copy must not affect the original")
}

func TestConnectionGeneCopyIsIndependent(t *testing.T) {
	c := &ConnectionGene{From: 1, To: 2, Weight: 0.5, Enabled: true, Innovation: 7}
	cp := c.Copy()

	cp.Weight = -9.0
	cp.Enabled = false

	assert.Equal(t, 0.5, c.Weight)
	assert.True(t, c.Enabled)
}

func TestNodeKindString(t *testing.T) {
	cases := map[NodeKind]string{
		NodeInput:  "input",
		NodeBias:   "bias",
		NodeHidden: "hidden",
		NodeOutput: "output",
	}
	for kind, want := range cases {
		assert.Equal(t, want, kind.String())
	}
}
