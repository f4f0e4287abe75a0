package neat

import (
	"fmt"
	"strings"

	"gopkg.in/ini.v1"
)

// Config is the population's flat, host-supplied configuration bag.
// Epoch's stagnation ratchet raises the structural mutation rates in a
// separate "current rate" structure (see Rates) and leaves those fields
// of Config as the host supplied them. WeightPerturbStrength is the
// exception: the ratchet raises it in Population.Cfg itself.
type Config struct {
	PopulationSize int `ini:"population_size"`

	InputCount  int  `ini:"input_count"`
	OutputCount int  `ini:"output_count"`
	Bias        bool `ini:"bias"`

	HiddenLayers     []int `ini:"hidden_layers" delim:","`
	MinHiddenLayers  int   `ini:"min_hidden_layers"`
	MaxHiddenLayers  int   `ini:"max_hidden_layers"`
	MinNodesPerLayer int   `ini:"min_nodes_per_layer"`
	MaxNodesPerLayer int   `ini:"max_nodes_per_layer"`

	SparseConnectivity          bool    `ini:"sparse_connectivity"`
	ConnectionProbability       float64 `ini:"connection_probability"`
	GuaranteedOutputConnections bool    `ini:"guaranteed_output_connections"`

	CompatThreshold float64 `ini:"compat_threshold"`
	C1              float64 `ini:"c1"`
	C2              float64 `ini:"c2"`
	C3              float64 `ini:"c3"`

	WeightPerturbRate     float64 `ini:"weight_perturb_rate"`
	WeightPerturbStrength float64 `ini:"weight_perturb_strength"`
	UniformWeightRate     float64 `ini:"uniform_weight_rate"`
	WeightInitRange       float64 `ini:"weight_init_range"`
	WeightMutationRate    float64 `ini:"weight_mutation_rate"`

	AddNodeRate    float64 `ini:"add_node_rate"`
	AddConnRate    float64 `ini:"add_conn_rate"`
	RemoveConnRate float64 `ini:"remove_conn_rate"`

	Elitism              int     `ini:"elitism"`
	SurvivalThreshold    float64 `ini:"survival_threshold"`
	StagnationThreshold  int     `ini:"stagnation_threshold"`
	CrossoverRate        float64 `ini:"crossover_rate"`
	MaxMutationAttempts  int     `ini:"max_mutation_attempts"`

	MutationAmplifierOverGenerations int `ini:"mutation_amplifier_over_generations"`
	ConnectionAmplifierFrom          int `ini:"connection_amplifier_from"`
	ConnectionAmplifierTo            int `ini:"connection_amplifier_to"`
}

// DefaultConfig returns the spec's baseline values: dense initial wiring
// of every input and the bias to every output with no hidden layers,
// conservative stagnation handling,
// and the amplifier ranges documented in spec.md §4.5.
func DefaultConfig() Config {
	return Config{
		PopulationSize:                   150,
		InputCount:                       2,
		OutputCount:                      1,
		Bias:                             true,
		MinNodesPerLayer:                 1,
		MaxNodesPerLayer:                 1,
		ConnectionProbability:            0.5,
		GuaranteedOutputConnections:      true,
		CompatThreshold:                  3.0,
		C1:                               1.0,
		C2:                               1.0,
		C3:                               0.4,
		WeightPerturbRate:                0.8,
		WeightPerturbStrength:            0.5,
		UniformWeightRate:                0.1,
		WeightInitRange:                  2.0,
		WeightMutationRate:               0.9,
		AddNodeRate:                      0.03,
		AddConnRate:                      0.05,
		RemoveConnRate:                   0.01,
		Elitism:                          1,
		SurvivalThreshold:                0.2,
		StagnationThreshold:              15,
		CrossoverRate:                    0.75,
		MaxMutationAttempts:              1,
		MutationAmplifierOverGenerations: 30,
		ConnectionAmplifierFrom:          0,
		ConnectionAmplifierTo:            0,
	}
}

// LoadConfig loads a Config from an INI file under a single [NEAT]
// section, starting from DefaultConfig and overwriting whatever keys the
// file provides — mirroring the teacher's LoadConfig, including its
// practice of re-parsing bool keys by hand afterward to work
// around ini's struct-tag mapping being fragile for inline comments.
func LoadConfig(filePath string) (Config, error) {
	cfg := DefaultConfig()

	src, err := ini.LoadSources(ini.LoadOptions{
		IgnoreInlineComment:         true,
		UnescapeValueCommentSymbols: true,
	}, filePath)
	if err != nil {
		return Config{}, fmt.Errorf("failed to load config file %q: %w", filePath, err)
	}

	section := src.Section("NEAT")
	if err := section.MapTo(&cfg); err != nil {
		return Config{}, fmt.Errorf("failed to map [NEAT] section: %w", err)
	}

	for _, boolKey := range []string{"bias", "sparse_connectivity", "guaranteed_output_connections"} {
		if key, err := section.GetKey(boolKey); err == nil && key.String() != "" {
			v, berr := key.Bool()
			if berr == nil {
				switch boolKey {
				case "bias":
					cfg.Bias = v
				case "sparse_connectivity":
					cfg.SparseConnectivity = v
				case "guaranteed_output_connections":
					cfg.GuaranteedOutputConnections = v
				}
			}
		}
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate rejects a Config with self-contradictory numeric ranges.
func (c Config) Validate() error {
	if c.PopulationSize <= 0 {
		return fmt.Errorf("config error: population_size must be positive")
	}
	if c.InputCount <= 0 {
		return fmt.Errorf("config error: input_count must be positive")
	}
	if c.OutputCount <= 0 {
		return fmt.Errorf("config error: output_count must be positive")
	}
	if c.SurvivalThreshold < 0 || c.SurvivalThreshold > 1 {
		return fmt.Errorf("config error: survival_threshold must be between 0 and 1")
	}
	if c.CrossoverRate < 0 || c.CrossoverRate > 1 {
		return fmt.Errorf("config error: crossover_rate must be between 0 and 1")
	}
	if c.StagnationThreshold <= 0 {
		return fmt.Errorf("config error: stagnation_threshold must be positive")
	}
	if c.CompatThreshold <= 0 {
		return fmt.Errorf("config error: compat_threshold must be positive")
	}
	if c.MaxMutationAttempts <= 0 {
		return fmt.Errorf("config error: max_mutation_attempts must be positive")
	}
	return nil
}

// cleanIniString removes inline comments and trims whitespace, kept from
// the teacher's config.go for any future string-valued keys.
func cleanIniString(s string) string {
	if idx := strings.IndexAny(s, "#;"); idx != -1 {
		s = s[:idx]
	}
	return strings.TrimSpace(s)
}
