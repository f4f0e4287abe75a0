package neat

import (
	"math/rand"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSaveAndLoadCheckpointRoundTrips(t *testing.T) {
	cfg := testConfig()
	rng := rand.New(rand.NewSource(42))
	pop, err := NewPopulation(cfg, rng)
	require.NoError(t, err)

	for i, g := range pop.Genomes {
		g.Fitness = float64(i)
	}
	require.NoError(t, pop.Epoch(rng))

	dir := t.TempDir()
	path := filepath.Join(dir, "run.ckpt")
	require.NoError(t, pop.SaveCheckpoint(path))

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Greater(t, info.Size(), int64(0))

	loaded, err := LoadCheckpoint(path, cfg)
	require.NoError(t, err)

	assert.Equal(t, pop.Generation, loaded.Generation)
	assert.Equal(t, len(pop.Genomes), len(loaded.Genomes))
	assert.InDelta(t, pop.BestFitnessEver, loaded.BestFitnessEver, 1e-9)
	require.NotNil(t, loaded.Best)
	assert.InDelta(t, pop.Best.Fitness, loaded.Best.Fitness, 1e-9)

	// The innovation registry must resume from the same counters, so the
	// next node id handed out after loading is the one the saved registry
	// would have handed out.
	newNode := loaded.Innovation.NextNode()
	assert.Equal(t, pop.Innovation.NextNode(), newNode)
}

func TestNewCheckpointUUIDIsNonEmptyAndUnique(t *testing.T) {
	a := NewCheckpointUUID()
	b := NewCheckpointUUID()
	assert.NotEmpty(t, a)
	assert.NotEqual(t, a, b)
}
