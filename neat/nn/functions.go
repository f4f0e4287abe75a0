package nn

import (
	"fmt"
	"math"
)

// The name-keyed registries below adapt the teacher's per-name
// activation/aggregation registries to this package's
// ActivationFunc/AggregationFunc types: since Node carries no per-gene
// function choice in the genotype, the registries live here at the
// phenotype boundary instead, for use with WithActivation/WithAggregation.

// ActivationFunctions maps a name to an ActivationFunc. Sigmoid (the
// evaluate contract's default) is named "sigmoid".
var ActivationFunctions = map[string]ActivationFunc{
	"sigmoid":  Sigmoid,
	"tanh":     Tanh,
	"relu":     ReLU,
	"identity": Identity,
	"clamped":  Clamped,
	"gaussian": Gaussian,
	"absolute": Absolute,
	"sine":     Sine,
}

// GetActivation looks up a named activation function.
func GetActivation(name string) (ActivationFunc, error) {
	if fn, ok := ActivationFunctions[name]; ok {
		return fn, nil
	}
	return nil, fmt.Errorf("unknown activation function: %s", name)
}

// Tanh activation function.
func Tanh(x float64) float64 { return math.Tanh(x) }

// ReLU activation function.
func ReLU(x float64) float64 { return math.Max(0, x) }

// Identity is the linear activation function.
func Identity(x float64) float64 { return x }

// Clamped restricts x to [-1, 1].
func Clamped(x float64) float64 {
	if x < -1 {
		return -1
	}
	if x > 1 {
		return 1
	}
	return x
}

// Gaussian activation function.
func Gaussian(x float64) float64 { return math.Exp(-x * x / 2.0) }

// Absolute activation function.
func Absolute(x float64) float64 { return math.Abs(x) }

// Sine activation function.
func Sine(x float64) float64 { return math.Sin(x) }

// AggregationFunctions maps a name to an AggregationFunc. Sum (the
// evaluate contract's default) is named "sum".
var AggregationFunctions = map[string]AggregationFunc{
	"sum":     Sum,
	"product": Product,
	"min":     Min,
	"max":     Max,
	"mean":    Mean,
}

// GetAggregation looks up a named aggregation function.
func GetAggregation(name string) (AggregationFunc, error) {
	if fn, ok := AggregationFunctions[name]; ok {
		return fn, nil
	}
	return nil, fmt.Errorf("unknown aggregation function: %s", name)
}

// Product multiplies every incoming value; the empty product is 1.
func Product(values []float64) float64 {
	p := 1.0
	for _, v := range values {
		p *= v
	}
	return p
}

// Min returns the smallest incoming value, or 0 if there are none.
func Min(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	m := values[0]
	for _, v := range values[1:] {
		if v < m {
			m = v
		}
	}
	return m
}

// Max returns the largest incoming value, or 0 if there are none.
func Max(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	m := values[0]
	for _, v := range values[1:] {
		if v > m {
			m = v
		}
	}
	return m
}

// Mean returns the arithmetic mean of the incoming values, or 0 if there
// are none.
func Mean(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	return Sum(values) / float64(len(values))
}
