// Package constraining defines the ConstrainingDomain interface: the
// opt-in extension a Domain can implement to let subgame-resolving
// algorithms enumerate the world-states consistent with an
// information set directly, instead of paying for a full tree walk from
// root every time a resolving step needs a summary.
package constraining

import (
	"sync"
	"time"

	"github.com/aicenter/gtlib2/pkg/efg"
	"github.com/aicenter/gtlib2/pkg/efgdomain"
	"github.com/aicenter/gtlib2/pkg/efgid"
)

// BudgetKind selects which resource a GenerateNodes call is bounded by.
type BudgetKind uint8

const (
	BudgetNodes BudgetKind = iota
	BudgetTime
)

// Budget bounds one GenerateNodes call, either by a maximum node count or a
// wall-clock deadline; GenerateNodes implementations must stop enumerating
// and return whatever they have as soon as the relevant field is exceeded.
type Budget struct {
	Kind     BudgetKind
	MaxNodes int
	MaxTime  time.Duration
}

// Exceeded reports whether, given elapsed time and nodes produced so far, b
// has been used up.
func (b Budget) Exceeded(nodesSoFar int, elapsed time.Duration) bool {
	switch b.Kind {
	case BudgetNodes:
		return nodesSoFar >= b.MaxNodes
	case BudgetTime:
		return elapsed >= b.MaxTime
	default:
		return false
	}
}

type constraintEntry struct {
	aoh   efgid.AOH
	nodes []*efg.Node
}

// ConstraintsMap accumulates, per augmented information set, the set of
// efg.Node world-states known to be consistent with it. A
// ConstrainingDomain populates this map incrementally as the resolving
// algorithm advances, rather than recomputing consistency from scratch at
// every step.
type ConstraintsMap struct {
	mu      sync.Mutex
	buckets map[uint64][]*constraintEntry
}

// NewConstraintsMap creates an empty map.
func NewConstraintsMap() *ConstraintsMap {
	return &ConstraintsMap{buckets: make(map[uint64][]*constraintEntry)}
}

// Add records n as consistent with aoh. Safe to call more than once for the
// same (aoh, n) pair.
func (m *ConstraintsMap) Add(aoh efgid.AOH, n *efg.Node) {
	m.mu.Lock()
	defer m.mu.Unlock()
	bucket := m.buckets[aoh.Hash()]
	var entry *constraintEntry
	for _, e := range bucket {
		if e.aoh.Equal(aoh) {
			entry = e
			break
		}
	}
	if entry == nil {
		entry = &constraintEntry{aoh: aoh}
		bucket = append(bucket, entry)
		m.buckets[aoh.Hash()] = bucket
	}
	for _, existing := range entry.nodes {
		if existing.Equal(n) {
			return
		}
	}
	entry.nodes = append(entry.nodes, n)
}

// NodesConsistentWith returns every node recorded as consistent with aoh.
func (m *ConstraintsMap) NodesConsistentWith(aoh efgid.AOH) []*efg.Node {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, e := range m.buckets[aoh.Hash()] {
		if e.aoh.Equal(aoh) {
			return append([]*efg.Node(nil), e.nodes...)
		}
	}
	return nil
}

// Count is len(NodesConsistentWith(aoh)) without materializing the slice.
func (m *ConstraintsMap) Count(aoh efgid.AOH) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, e := range m.buckets[aoh.Hash()] {
		if e.aoh.Equal(aoh) {
			return len(e.nodes)
		}
	}
	return 0
}

// ConstrainingDomain is implemented by domains that can enumerate the
// world-states consistent with a given information set directly, so a
// subgame-resolving step can bound how much of the tree it must
// materialize for its summary. Package gadget does not call it; a gadget is
// built from a caller-supplied summary.
type ConstrainingDomain interface {
	efgdomain.Domain

	// InitializeEnumerativeConstraints seeds m with the world-states
	// consistent with the empty (root) information set of every player,
	// before any action has been taken.
	InitializeEnumerativeConstraints(m *ConstraintsMap)

	// UpdateConstraints advances m's entries for aoh's information set up
	// to aoh's full history, treating *startIndex as how many of aoh's
	// history entries m already accounts for. It must process only the
	// entries from *startIndex onward (not recompute from the root) and
	// leave *startIndex at len(aoh.History) when it returns, so a second
	// call with the same aoh and startIndex is a no-op rather than
	// repeated work. It reports whether aoh is still realizable: once the
	// constraint set for a prefix of aoh's history is provably empty,
	// UpdateConstraints returns false and may leave *startIndex short of
	// the full history.
	UpdateConstraints(m *ConstraintsMap, aoh efgid.AOH, startIndex *int64) bool

	// GenerateNodes streams the nodes consistent with aoh to emit, up to
	// budget, stopping as soon as emit returns false (the caller's
	// early-termination sentinel) or budget is exceeded. It returns an
	// error only for genuine enumeration failures, never to signal early
	// stop.
	GenerateNodes(m *ConstraintsMap, aoh efgid.AOH, budget Budget, emit func(*efg.Node) bool) error
}
