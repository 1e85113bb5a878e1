package cache

import (
	"sync"

	"github.com/aicenter/gtlib2/pkg/efg"
	"github.com/aicenter/gtlib2/pkg/efgdomain"
	"github.com/aicenter/gtlib2/pkg/efgid"
)

type publicStateBucketEntry struct {
	ps    efgid.PublicState
	nodes []*efg.Node
}

type nodePsEntry struct {
	node *efg.Node
	ps   efgid.PublicState
}

type aohPsEntry struct {
	aoh efgid.AOH
	ps  efgid.PublicState
}

type psAohsEntry struct {
	ps   efgid.PublicState
	aohs []efgid.AOH
}

// PublicStateCache indexes nodes by their PublicState key and tracks the
// prefix lattice those keys form (spec.md §4.3): which public state is the
// immediate parent of which, what the direct children of a public state
// are, and which public states occur at a given depth. It also keeps the
// spec.md §4.4 bipartite maps between nodes/AOHs and public states, which
// are what let a caller confirm that the information sets within a public
// state actually partition its nodes.
type PublicStateCache struct {
	mu sync.Mutex

	nodesByPS  map[uint64][]*publicStateBucketEntry
	parentOfPS map[uint64]efgid.PublicState
	childrenOf map[uint64][]efgid.PublicState
	atDepth    map[int][]efgid.PublicState

	nodeToPS map[uint64][]*nodePsEntry
	aohToPS  map[uint64][]*aohPsEntry
	psToAohs map[uint64][]*psAohsEntry
}

// NewPublicStateCache creates an empty cache.
func NewPublicStateCache() *PublicStateCache {
	return &PublicStateCache{
		nodesByPS:  make(map[uint64][]*publicStateBucketEntry),
		parentOfPS: make(map[uint64]efgid.PublicState),
		childrenOf: make(map[uint64][]efgid.PublicState),
		atDepth:    make(map[int][]efgid.PublicState),
		nodeToPS:   make(map[uint64][]*nodePsEntry),
		aohToPS:    make(map[uint64][]*aohPsEntry),
		psToAohs:   make(map[uint64][]*psAohsEntry),
	}
}

// AttachTo registers ps as a node-creation observer of tree.
func (psc *PublicStateCache) AttachTo(tree *TreeCache) {
	tree.OnNodeCreated(psc.AddNode)
}

// AddNode indexes n under its PublicState, and, the first time that public
// state is seen, links it into the lattice relative to its node's parent's
// public state. Safe to call more than once for the same node.
func (psc *PublicStateCache) AddNode(n *efg.Node) {
	ps := n.PublicState()

	psc.mu.Lock()
	defer psc.mu.Unlock()

	bucket := psc.nodesByPS[ps.Hash()]
	entry := findOrAppendPublicState(&bucket, ps)
	if !containsNode(entry.nodes, n) {
		entry.nodes = append(entry.nodes, n)
	}
	psc.nodesByPS[ps.Hash()] = bucket

	nodeBucket := psc.nodeToPS[n.Hash()]
	hasNodeEntry := false
	for _, e := range nodeBucket {
		if e.node.Equal(n) {
			hasNodeEntry = true
			break
		}
	}
	if !hasNodeEntry {
		psc.nodeToPS[n.Hash()] = append(nodeBucket, &nodePsEntry{node: n, ps: ps})
	}

	for p := efgdomain.Player(0); int(p) < efgdomain.NumPlayers; p++ {
		aoh := n.AOHInfoset(p)
		aohBucket := psc.aohToPS[aoh.Hash()]
		hasAohEntry := false
		for _, e := range aohBucket {
			if e.aoh.Equal(aoh) {
				hasAohEntry = true
				break
			}
		}
		if !hasAohEntry {
			psc.aohToPS[aoh.Hash()] = append(aohBucket, &aohPsEntry{aoh: aoh, ps: ps})
		}

		psAohs := findOrAppendPsAohs(psc.psToAohs, ps)
		hasAoh := false
		for _, existing := range psAohs.aohs {
			if existing.Equal(aoh) {
				hasAoh = true
				break
			}
		}
		if !hasAoh {
			psAohs.aohs = append(psAohs.aohs, aoh)
		}
	}

	if _, known := psc.parentOfPS[ps.Hash()]; !known {
		psc.atDepth[ps.Depth()] = appendUniquePS(psc.atDepth[ps.Depth()], ps)

		if parent, ok := n.Parent(); ok {
			parentPS := parent.PublicState()
			if !parentPS.Equal(ps) {
				psc.parentOfPS[ps.Hash()] = parentPS
				psc.childrenOf[parentPS.Hash()] = appendUniquePS(psc.childrenOf[parentPS.Hash()], ps)
			}
		}
	}
}

func findOrAppendPublicState(bucket *[]*publicStateBucketEntry, ps efgid.PublicState) *publicStateBucketEntry {
	for _, e := range *bucket {
		if e.ps.Equal(ps) {
			return e
		}
	}
	e := &publicStateBucketEntry{ps: ps}
	*bucket = append(*bucket, e)
	return e
}

func findOrAppendPsAohs(m map[uint64][]*psAohsEntry, ps efgid.PublicState) *psAohsEntry {
	bucket := m[ps.Hash()]
	for _, e := range bucket {
		if e.ps.Equal(ps) {
			return e
		}
	}
	e := &psAohsEntry{ps: ps}
	m[ps.Hash()] = append(bucket, e)
	return e
}

func appendUniquePS(list []efgid.PublicState, ps efgid.PublicState) []efgid.PublicState {
	for _, existing := range list {
		if existing.Equal(ps) {
			return list
		}
	}
	return append(list, ps)
}

// NodesAt returns every node in public state ps.
func (psc *PublicStateCache) NodesAt(ps efgid.PublicState) []*efg.Node {
	psc.mu.Lock()
	defer psc.mu.Unlock()
	for _, e := range psc.nodesByPS[ps.Hash()] {
		if e.ps.Equal(ps) {
			return append([]*efg.Node(nil), e.nodes...)
		}
	}
	return nil
}

// PublicStateOf returns the public state n was indexed under.
func (psc *PublicStateCache) PublicStateOf(n *efg.Node) (efgid.PublicState, bool) {
	psc.mu.Lock()
	defer psc.mu.Unlock()
	for _, e := range psc.nodeToPS[n.Hash()] {
		if e.node.Equal(n) {
			return e.ps, true
		}
	}
	return efgid.PublicState{}, false
}

// PublicStateOfAOH returns the public state that information set aoh
// belongs to.
func (psc *PublicStateCache) PublicStateOfAOH(aoh efgid.AOH) (efgid.PublicState, bool) {
	psc.mu.Lock()
	defer psc.mu.Unlock()
	for _, e := range psc.aohToPS[aoh.Hash()] {
		if e.aoh.Equal(aoh) {
			return e.ps, true
		}
	}
	return efgid.PublicState{}, false
}

// AOHsAt returns every distinct information set (across both players) known
// to live inside public state ps -- the partition spec.md §3/§8 requires:
// every node in ps belongs to exactly one of these AOHs per player.
func (psc *PublicStateCache) AOHsAt(ps efgid.PublicState) []efgid.AOH {
	psc.mu.Lock()
	defer psc.mu.Unlock()
	for _, e := range psc.psToAohs[ps.Hash()] {
		if e.ps.Equal(ps) {
			return append([]efgid.AOH(nil), e.aohs...)
		}
	}
	return nil
}

// Parent returns the immediate parent public state of ps in the prefix
// lattice, if ps is not the empty (root) public state.
func (psc *PublicStateCache) Parent(ps efgid.PublicState) (efgid.PublicState, bool) {
	psc.mu.Lock()
	defer psc.mu.Unlock()
	parent, ok := psc.parentOfPS[ps.Hash()]
	return parent, ok
}

// Children returns the public states immediately below ps in the prefix
// lattice.
func (psc *PublicStateCache) Children(ps efgid.PublicState) []efgid.PublicState {
	psc.mu.Lock()
	defer psc.mu.Unlock()
	return append([]efgid.PublicState(nil), psc.childrenOf[ps.Hash()]...)
}

// AtDepth returns every distinct public state seen at the given depth.
func (psc *PublicStateCache) AtDepth(depth int) []efgid.PublicState {
	psc.mu.Lock()
	defer psc.mu.Unlock()
	return append([]efgid.PublicState(nil), psc.atDepth[depth]...)
}

// Count is the number of distinct public states indexed so far.
func (psc *PublicStateCache) Count() int {
	psc.mu.Lock()
	defer psc.mu.Unlock()
	return len(psc.nodesByPS)
}

// Clear discards every memoized public-state entry (the lattice and all
// four bipartite maps). Like InfosetCache, it has no root entry to
// preserve -- it re-learns everything the next time TreeCache fires
// AddNode.
func (psc *PublicStateCache) Clear() {
	psc.mu.Lock()
	defer psc.mu.Unlock()
	psc.nodesByPS = make(map[uint64][]*publicStateBucketEntry)
	psc.parentOfPS = make(map[uint64]efgid.PublicState)
	psc.childrenOf = make(map[uint64][]efgid.PublicState)
	psc.atDepth = make(map[int][]efgid.PublicState)
	psc.nodeToPS = make(map[uint64][]*nodePsEntry)
	psc.aohToPS = make(map[uint64][]*aohPsEntry)
	psc.psToAohs = make(map[uint64][]*psAohsEntry)
}
