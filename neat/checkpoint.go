package neat

import (
	"compress/gzip"
	"encoding/gob"
	"fmt"
	"os"

	"github.com/google/uuid"
)

// checkpointData holds everything a run needs to resume: the genome
// pool, species partition, innovation registry, generation counter,
// current rates, and all-time best genome. Config is not saved — it is
// reloaded from the original INI file, exactly as the teacher's
// checkpointing does, so a host can tweak rates between runs without
// editing a binary blob.
type checkpointData struct {
	Genomes         []*Genome
	Species         []*Species
	Innovation      *InnovationRegistry
	Generation      int
	Best            *Genome
	BestFitnessEver float64
	GenerationsWithoutImprovement int
	Rates           Rates
	NextSpeciesID   int
}

func registerCheckpointTypes() {
	gob.Register(map[int]*NodeGene{})
	gob.Register(map[int]*ConnectionGene{})
	gob.Register([]*Genome{})
	gob.Register([]*Species{})
}

// SaveCheckpoint writes the population's full state to filePath, gob
// encoded and gzip compressed. The innovation registry's unexported
// fields ride along via a checkpointSnapshot shim rather than relying on
// InnovationRegistry's own gob encoding, since gob cannot serialize
// unexported struct fields directly; NewCheckpointUUID gives a host a
// collision-resistant default filename stem if it wants one.
func (p *Population) SaveCheckpoint(filePath string) error {
	file, err := os.Create(filePath)
	if err != nil {
		return fmt.Errorf("failed to create checkpoint file %q: %w", filePath, err)
	}
	defer file.Close()

	gzWriter := gzip.NewWriter(file)
	defer gzWriter.Close()

	registerCheckpointTypes()

	data := checkpointData{
		Genomes:                       p.Genomes,
		Species:                       p.Species,
		Innovation:                    p.Innovation,
		Generation:                    p.Generation,
		Best:                          p.Best,
		BestFitnessEver:               p.BestFitnessEver,
		GenerationsWithoutImprovement: p.GenerationsWithoutImprovement,
		Rates:                         p.Rates,
		NextSpeciesID:                 p.nextSpeciesID,
	}

	if err := gob.NewEncoder(gzWriter).Encode(innovationSnapshot(data)); err != nil {
		return fmt.Errorf("failed to encode population checkpoint: %w", err)
	}
	return nil
}

// LoadCheckpoint reads a checkpoint previously written by SaveCheckpoint
// and reconstructs a Population using cfg as the (freshly loaded) base
// configuration.
func LoadCheckpoint(filePath string, cfg Config) (*Population, error) {
	file, err := os.Open(filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to open checkpoint file %q: %w", filePath, err)
	}
	defer file.Close()

	gzReader, err := gzip.NewReader(file)
	if err != nil {
		return nil, fmt.Errorf("failed to create gzip reader for checkpoint: %w", err)
	}
	defer gzReader.Close()

	registerCheckpointTypes()

	var snap checkpointSnapshot
	if err := gob.NewDecoder(gzReader).Decode(&snap); err != nil {
		return nil, fmt.Errorf("failed to decode population checkpoint: %w", err)
	}

	return &Population{
		Cfg:                           cfg,
		Rates:                         snap.Rates,
		Innovation:                    snap.restoreInnovation(),
		Species:                       snap.Species,
		Genomes:                       snap.Genomes,
		Generation:                    snap.Generation,
		Best:                          snap.Best,
		BestFitnessEver:               snap.BestFitnessEver,
		GenerationsWithoutImprovement: snap.GenerationsWithoutImprovement,
		nextSpeciesID:                 snap.NextSpeciesID,
	}, nil
}

// checkpointSnapshot mirrors checkpointData but with the innovation
// registry flattened to its exported counters and map, since
// InnovationRegistry itself has no exported fields for gob to walk.
type checkpointSnapshot struct {
	Genomes                       []*Genome
	Species                       []*Species
	NextInnovation                int
	NextNodeID                    int
	ConnInnovations               map[connPairSnapshot]int
	Splits                        map[connPairSnapshot]splitSnapshot
	Generation                    int
	Best                          *Genome
	BestFitnessEver               float64
	GenerationsWithoutImprovement int
	Rates                         Rates
	NextSpeciesID                 int
}

type connPairSnapshot struct {
	From, To int
}

type splitSnapshot struct {
	NewNode   int
	FromToNew int
	NewToTo   int
}

func innovationSnapshot(data checkpointData) checkpointSnapshot {
	conns := make(map[connPairSnapshot]int, len(data.Innovation.conns))
	for k, v := range data.Innovation.conns {
		conns[connPairSnapshot{From: k.from, To: k.to}] = v
	}
	splits := make(map[connPairSnapshot]splitSnapshot, len(data.Innovation.splits))
	for k, v := range data.Innovation.splits {
		splits[connPairSnapshot{From: k.from, To: k.to}] = splitSnapshot{NewNode: v.newNode, FromToNew: v.fromToNew, NewToTo: v.newToTo}
	}
	return checkpointSnapshot{
		Genomes:                       data.Genomes,
		Species:                       data.Species,
		NextInnovation:                data.Innovation.nextInnovation,
		NextNodeID:                    data.Innovation.nextNodeID,
		ConnInnovations:               conns,
		Splits:                        splits,
		Generation:                    data.Generation,
		Best:                          data.Best,
		BestFitnessEver:               data.BestFitnessEver,
		GenerationsWithoutImprovement: data.GenerationsWithoutImprovement,
		Rates:                         data.Rates,
		NextSpeciesID:                 data.NextSpeciesID,
	}
}

func (s checkpointSnapshot) restoreInnovation() *InnovationRegistry {
	r := &InnovationRegistry{
		nextInnovation: s.NextInnovation,
		nextNodeID:     s.NextNodeID,
		conns:          make(map[connPair]int, len(s.ConnInnovations)),
		splits:         make(map[connPair]split, len(s.Splits)),
	}
	for k, v := range s.ConnInnovations {
		r.conns[connPair{from: k.From, to: k.To}] = v
	}
	for k, v := range s.Splits {
		r.splits[connPair{from: k.From, to: k.To}] = split{newNode: v.NewNode, fromToNew: v.FromToNew, newToTo: v.NewToTo}
	}
	return r
}

// NewCheckpointUUID returns a fresh, collision-resistant identifier a
// host can use to name a checkpoint file, e.g. "run-<uuid>-gen42.ckpt".
func NewCheckpointUUID() string {
	return uuid.NewString()
}
