package neat

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDefaultConfigValidates(t *testing.T) {
	assert.NoError(t, DefaultConfig().Validate())
}

func TestValidateRejectsBadRanges(t *testing.T) {
	cases := []func(*Config){
		func(c *Config) { c.PopulationSize = 0 },
		func(c *Config) { c.InputCount = 0 },
		func(c *Config) { c.OutputCount = 0 },
		func(c *Config) { c.SurvivalThreshold = 1.5 },
		func(c *Config) { c.CrossoverRate = -0.1 },
		func(c *Config) { c.StagnationThreshold = 0 },
		func(c *Config) { c.CompatThreshold = 0 },
		func(c *Config) { c.MaxMutationAttempts = 0 },
	}
	for _, mutate := range cases {
		cfg := DefaultConfig()
		mutate(&cfg)
		assert.Error(t, cfg.Validate())
	}
}
