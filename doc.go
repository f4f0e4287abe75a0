// Package neat provides a Go implementation of the NeuroEvolution of Augmenting Topologies (NEAT) algorithm.
//
// NEAT is a genetic algorithm for the generation of evolving artificial neural networks.
// It alters both the weighting parameters and structures of networks, attempting to find
// a balance between the fitness of evolved solutions and their diversity.
//
// This implementation is based on the original paper by Kenneth O. Stanley and Risto Miikkulainen.
// The real package lives at github.com/corewave/neat/neat; this root package only holds this
// overview doc comment.
//
// Basic usage:
//
//	rng := rand.New(rand.NewSource(1))
//
//	cfg := neat.DefaultConfig()
//	pop, err := neat.NewPopulation(cfg, rng)
//	if err != nil {
//		log.Fatalf("Error creating population: %v", err)
//	}
//
//	for i := 0; i < 100; i++ {
//		pop.EvaluatePopulation(evalGenome, 4)
//		if pop.Best != nil && pop.Best.Fitness >= target {
//			fmt.Println("Solution found!")
//			break
//		}
//		if err := pop.Epoch(rng); err != nil {
//			log.Fatalf("Error running epoch: %v", err)
//		}
//	}
package neat
