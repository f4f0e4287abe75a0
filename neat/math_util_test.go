package neat

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStatFunctions(t *testing.T) {
	values := []float64{1, 2, 3, 4}

	assert.InDelta(t, 2.5, Mean(values), 1e-9)
	assert.InDelta(t, 10.0, Sum(values), 1e-9)
	assert.InDelta(t, 1.0, MinFloat(values), 1e-9)
	assert.InDelta(t, 4.0, MaxFloat(values), 1e-9)
	assert.InDelta(t, 2.5, Median(values), 1e-9)
	assert.InDelta(t, 1.290994449, Stdev(values), 1e-6)
}

func TestStatFunctionsEmptySlices(t *testing.T) {
	assert.Equal(t, 0.0, Mean(nil))
	assert.Equal(t, 0.0, Stdev([]float64{1}))
	assert.True(t, math.IsInf(MaxFloat(nil), -1))
	assert.True(t, math.IsInf(MinFloat(nil), 1))
	assert.True(t, math.IsNaN(Median(nil)))
}

func TestClamp(t *testing.T) {
	assert.Equal(t, 1.0, clamp(5, -1, 1))
	assert.Equal(t, -1.0, clamp(-5, -1, 1))
	assert.Equal(t, 0.0, clamp(0, -1, 1))
}

func TestStatFunctionsRegistryMatchesNamedLookup(t *testing.T) {
	fn, ok := StatFunctions["mean"]
	assert.True(t, ok)
	assert.InDelta(t, Mean([]float64{2, 4}), fn([]float64{2, 4}), 1e-9)
}
