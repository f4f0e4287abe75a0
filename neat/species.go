package neat

import "math"

// Species is a bucket of genomes deemed compatible under the
// compatibility-distance metric. It tracks a representative (used only
// for distance comparison during the current generation's speciation
// pass), a best-fitness watermark, and a stagnation counter.
type Species struct {
	ID             int
	Representative *Genome
	Members        []*Genome
	BestFitness    float64
	Stale          int
	Average        float64
}

// NewSpecies creates a species with the given id and representative. The
// representative is also the species' sole initial member.
func NewSpecies(id int, representative *Genome) *Species {
	return &Species{
		ID:             id,
		Representative: representative,
		Members:        []*Genome{representative},
		BestFitness:    math.Inf(-1),
	}
}

// AddMember appends a genome to the species. Species never deduplicate
// members.
func (s *Species) AddMember(g *Genome) {
	s.Members = append(s.Members, g)
}

// Clear empties the member list, keeping id, representative, and
// stagnation/fitness history intact for the next speciation pass.
func (s *Species) Clear() {
	s.Members = nil
}

// ComputeAdjustedFitnesses applies explicit fitness sharing: every
// member's AdjustedFitness becomes Fitness / |Members|. This is the only
// place fitness sharing is applied. It also records the species' mean
// raw fitness in Average.
func (s *Species) ComputeAdjustedFitnesses() {
	if len(s.Members) == 0 {
		s.Average = 0
		return
	}
	n := float64(len(s.Members))
	sum := 0.0
	for _, m := range s.Members {
		m.AdjustedFitness = m.Fitness / n
		sum += m.Fitness
	}
	s.Average = sum / n
}

// UpdateStagnation finds the current best member fitness; if it strictly
// exceeds BestFitness, BestFitness is updated and Stale resets to 0,
// otherwise Stale increments.
func (s *Species) UpdateStagnation() {
	best := math.Inf(-1)
	for _, m := range s.Members {
		if m.Fitness > best {
			best = m.Fitness
		}
	}
	if best > s.BestFitness {
		s.BestFitness = best
		s.Stale = 0
	} else {
		s.Stale++
	}
}

// ContainsBest reports whether any member's fitness is at least the
// all-time best genome's fitness. Behavioural equivalence by fitness is
// used deliberately instead of identity, so that a species whose best
// member merely ties the all-time best is still exempt from stagnation
// culling.
func (s *Species) ContainsBest(best *Genome) bool {
	if best == nil {
		return false
	}
	for _, m := range s.Members {
		if m.Fitness >= best.Fitness {
			return true
		}
	}
	return false
}

// FittestMember returns the member with the highest fitness. Members
// must be non-empty.
func (s *Species) FittestMember() *Genome {
	best := s.Members[0]
	for _, m := range s.Members[1:] {
		if m.Fitness > best.Fitness {
			best = m
		}
	}
	return best
}
