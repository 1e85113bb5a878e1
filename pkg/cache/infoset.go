package cache

import (
	"sync"

	"github.com/gomlx/exceptions"

	"github.com/aicenter/gtlib2/pkg/efg"
	"github.com/aicenter/gtlib2/pkg/efgdomain"
	"github.com/aicenter/gtlib2/pkg/efgid"
)

type infosetBucketEntry struct {
	aoh   efgid.AOH
	nodes []*efg.Node
}

type nodeAohEntry struct {
	node *efg.Node
	aohs [efgdomain.NumPlayers]efgid.AOH
}

// InfosetCache indexes nodes by their per-player AOH information-set key
// (spec.md §4.3). It is a derived cache: attach it to a TreeCache via
// AttachTo so it hears about every node as the tree is built, rather than
// re-walking the tree itself.
//
// It maintains both directions of the bipartite node<->AOH relation spec.md
// §4.4 requires: AOH -> Vec<Node> (buckets) and node -> [AOH; num_players]
// (nodeToAoh).
type InfosetCache struct {
	mu        sync.Mutex
	buckets   [efgdomain.NumPlayers]map[uint64][]*infosetBucketEntry
	nodeToAoh map[uint64][]*nodeAohEntry
}

// NewInfosetCache creates an empty cache.
func NewInfosetCache() *InfosetCache {
	ic := &InfosetCache{nodeToAoh: make(map[uint64][]*nodeAohEntry)}
	for p := range ic.buckets {
		ic.buckets[p] = make(map[uint64][]*infosetBucketEntry)
	}
	return ic
}

// AttachTo registers ic as a node-creation observer of tree, so every node
// tree canonicalizes from now on is indexed automatically.
func (ic *InfosetCache) AttachTo(tree *TreeCache) {
	tree.OnNodeCreated(ic.AddNode)
}

// AddNode indexes n under its AOH for every player, and indexes its full
// per-player AOH array under n in turn. Safe to call more than once for the
// same node (idempotent).
func (ic *InfosetCache) AddNode(n *efg.Node) {
	ic.mu.Lock()
	defer ic.mu.Unlock()

	var aohs [efgdomain.NumPlayers]efgid.AOH
	for p := efgdomain.Player(0); int(p) < efgdomain.NumPlayers; p++ {
		aoh := n.AOHInfoset(p)
		aohs[p] = aoh
		bucket := ic.buckets[p][aoh.Hash()]
		entry := findOrAppendInfoset(&bucket, aoh)
		if !containsNode(entry.nodes, n) {
			entry.nodes = append(entry.nodes, n)
		}
		ic.buckets[p][aoh.Hash()] = bucket
	}

	nodeBucket := ic.nodeToAoh[n.Hash()]
	for _, e := range nodeBucket {
		if e.node.Equal(n) {
			return
		}
	}
	ic.nodeToAoh[n.Hash()] = append(nodeBucket, &nodeAohEntry{node: n, aohs: aohs})
}

func findOrAppendInfoset(bucket *[]*infosetBucketEntry, aoh efgid.AOH) *infosetBucketEntry {
	for _, e := range *bucket {
		if e.aoh.Equal(aoh) {
			return e
		}
	}
	e := &infosetBucketEntry{aoh: aoh}
	*bucket = append(*bucket, e)
	return e
}

func containsNode(nodes []*efg.Node, n *efg.Node) bool {
	for _, existing := range nodes {
		if existing.Equal(n) {
			return true
		}
	}
	return false
}

// NodesAt returns every node indexed to aoh for its player, i.e. the
// members of the information set.
func (ic *InfosetCache) NodesAt(aoh efgid.AOH) []*efg.Node {
	ic.mu.Lock()
	defer ic.mu.Unlock()
	for _, e := range ic.buckets[aoh.Player][aoh.Hash()] {
		if e.aoh.Equal(aoh) {
			return append([]*efg.Node(nil), e.nodes...)
		}
	}
	return nil
}

// Infosets returns every distinct AOH indexed so far for player.
func (ic *InfosetCache) Infosets(player efgdomain.Player) []efgid.AOH {
	ic.mu.Lock()
	defer ic.mu.Unlock()
	var all []efgid.AOH
	for _, bucket := range ic.buckets[player] {
		for _, e := range bucket {
			all = append(all, e.aoh)
		}
	}
	return all
}

// CountInfosets is len(Infosets(player)) without materializing the slice.
func (ic *InfosetCache) CountInfosets(player efgdomain.Player) int {
	ic.mu.Lock()
	defer ic.mu.Unlock()
	count := 0
	for _, bucket := range ic.buckets[player] {
		count += len(bucket)
	}
	return count
}

// AugInfosetFor returns n's augmented information set (spec.md §4.3's AOH)
// for player, reading it back from the node->AOH index rather than
// recomputing it from n's history. Panics if n was never indexed (AddNode
// was never called for it, directly or via AttachTo).
func (ic *InfosetCache) AugInfosetFor(n *efg.Node, player efgdomain.Player) efgid.AOH {
	ic.mu.Lock()
	defer ic.mu.Unlock()
	for _, e := range ic.nodeToAoh[n.Hash()] {
		if e.node.Equal(n) {
			return e.aohs[player]
		}
	}
	exceptions.Panicf("cache: node with hash %d was never indexed by InfosetCache", n.Hash())
	return efgid.AOH{}
}

// InfosetFor returns the ordinary information set n belongs to: the
// augmented infoset of whichever player is acting at n. Valid only for
// Player nodes (efg.Node.ActingPlayer's own restriction).
func (ic *InfosetCache) InfosetFor(n *efg.Node) efgid.AOH {
	return ic.AugInfosetFor(n, n.ActingPlayer())
}

// Clear discards every memoized AOH index. It does not restore anything: an
// InfosetCache has no root-like entry of its own, it simply re-learns
// everything the next time TreeCache fires AddNode again.
func (ic *InfosetCache) Clear() {
	ic.mu.Lock()
	defer ic.mu.Unlock()
	for p := range ic.buckets {
		ic.buckets[p] = make(map[uint64][]*infosetBucketEntry)
	}
	ic.nodeToAoh = make(map[uint64][]*nodeAohEntry)
}
