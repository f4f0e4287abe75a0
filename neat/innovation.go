package neat

// InnovationRegistry assigns stable historical markings to structural
// changes. Every (from, to) node pair is assigned an innovation id the
// first time it is requested, by any genome, in any generation; every
// later request for the same pair returns that same id. This is what
// lets crossover align genes between topologically different genomes.
//
// A registry is created once per Population and lives for the whole run.
// It is not safe for concurrent use: the population is single-writer,
// and a host that parallelises mutation across genomes must serialise
// calls to NextConnID, NextNode and SplitConnection itself (one coarse
// mutex around all three is sufficient).
type InnovationRegistry struct {
	nextInnovation int
	nextNodeID     int
	conns          map[connPair]int
	splits         map[connPair]split
}

type connPair struct {
	from, to int
}

// split records the outcome of a prior add-node mutation that split the
// (from, to) edge: the new hidden node id and the innovation ids of the
// two replacement connections it introduced.
type split struct {
	newNode    int
	fromToNew  int
	newToTo    int
}

// NewInnovationRegistry creates a registry with counters starting at 1.
func NewInnovationRegistry() *InnovationRegistry {
	return &InnovationRegistry{
		nextInnovation: 1,
		nextNodeID:     1,
		conns:          make(map[connPair]int),
		splits:         make(map[connPair]split),
	}
}

// NextConnID returns the innovation id for the (from, to) pair, assigning
// a fresh one on first request and returning the same id on every
// subsequent request for that pair.
func (r *InnovationRegistry) NextConnID(from, to int) int {
	key := connPair{from, to}
	if id, ok := r.conns[key]; ok {
		return id
	}
	id := r.nextInnovation
	r.conns[key] = id
	r.nextInnovation++
	return id
}

// NextNode returns a fresh node id. Unlike NextConnID, calls are never
// deduplicated — every call yields a new id.
func (r *InnovationRegistry) NextNode() int {
	id := r.nextNodeID
	r.nextNodeID++
	return id
}

// SplitConnection returns the hidden node id and the two connection
// innovation ids (from->newNode, newNode->to) for an add-node mutation
// that splits the (from, to) edge. The first genome to split a given
// edge allocates a fresh node id and two fresh connection innovation
// ids; every later split of that same edge, by any genome in any
// generation, receives the identical triple, so that independently
// discovered splits of the same original connection stay alignable
// during crossover.
func (r *InnovationRegistry) SplitConnection(from, to int) (newNode, fromToNewID, newToToID int) {
	key := connPair{from, to}
	if s, ok := r.splits[key]; ok {
		return s.newNode, s.fromToNew, s.newToTo
	}

	newNode = r.NextNode()
	fromToNewID = r.NextConnID(from, newNode)
	newToToID = r.NextConnID(newNode, to)

	r.splits[key] = split{newNode: newNode, fromToNew: fromToNewID, newToTo: newToToID}
	return newNode, fromToNewID, newToToID
}
