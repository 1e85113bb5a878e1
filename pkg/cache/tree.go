// Package cache provides the memoizing caches spec.md §5 builds the rest of
// the library on: a TreeCache that turns the lazily-unfolded efg.Node tree
// into a canonicalized, revisitable structure, and the derived InfosetCache
// and PublicStateCache that index nodes by their information-set and
// public-state identity. All three key by the Hash() of the value type they
// index and resolve collisions with a linear Equal() scan of the bucket --
// the same bucketed hash-map discipline the teacher's board cache uses,
// generalized because AOH/PublicState/ActionSequence carry slice fields and
// so cannot be Go map keys directly.
package cache

import (
	"context"
	"sync"

	"golang.org/x/sync/errgroup"
	"k8s.io/klog/v2"

	"github.com/aicenter/gtlib2/pkg/efg"
	"github.com/aicenter/gtlib2/pkg/efgdomain"
)

// NodeCreationCallback is invoked exactly once per canonical node, the first
// time TreeCache materializes it. Derived caches (InfosetCache,
// PublicStateCache) register themselves this way instead of re-walking the
// tree on their own.
type NodeCreationCallback func(n *efg.Node)

// TreeCache canonicalizes and memoizes the nodes of one domain's EFG, so
// repeated traversals (by different algorithms, or by BuildTree and a later
// caller) reuse the same *efg.Node instances rather than rebuilding them.
type TreeCache struct {
	domain efgdomain.Domain

	mu         sync.Mutex
	root       *efg.Node
	canon      map[uint64][]*efg.Node
	children   map[uint64][]*efg.Node
	fullyBuilt map[uint64]bool
	callbacks  []NodeCreationCallback
}

// NewTreeCache creates an empty cache over domain; the root is materialized
// and canonicalized lazily on first Root() call.
func NewTreeCache(domain efgdomain.Domain) *TreeCache {
	return &TreeCache{
		domain:     domain,
		canon:      make(map[uint64][]*efg.Node),
		children:   make(map[uint64][]*efg.Node),
		fullyBuilt: make(map[uint64]bool),
	}
}

// OnNodeCreated registers cb to run for every canonical node the cache
// produces from now on, including the root if it has not been materialized
// yet. It does not retroactively fire for already-canonicalized nodes.
func (c *TreeCache) OnNodeCreated(cb NodeCreationCallback) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.callbacks = append(c.callbacks, cb)
}

// Root returns the domain's canonical root node, materializing it on first
// call.
func (c *TreeCache) Root() *efg.Node {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.root == nil {
		c.root = c.canonicalizeLocked(efg.Root(c.domain))
	}
	return c.root
}

// canonicalizeLocked returns the stored node equal to n, registering n as
// canonical (and firing creation callbacks) the first time it is seen. c.mu
// must be held.
func (c *TreeCache) canonicalizeLocked(n *efg.Node) *efg.Node {
	bucket := c.canon[n.Hash()]
	for _, existing := range bucket {
		if existing.Equal(n) {
			return existing
		}
	}
	c.canon[n.Hash()] = append(bucket, n)
	for _, cb := range c.callbacks {
		cb(n)
	}
	return n
}

// HasNode reports whether n (or a node Equal to it) has already been
// canonicalized by this cache.
func (c *TreeCache) HasNode(n *efg.Node) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, existing := range c.canon[n.Hash()] {
		if existing.Equal(n) {
			return true
		}
	}
	return false
}

// Child returns the canonical child of parent reachable via edgeID,
// building and canonicalizing it if this is the first time it's requested.
func (c *TreeCache) Child(parent *efg.Node, edgeID efgdomain.ID) (*efg.Node, error) {
	if parent.Kind() == efg.Terminal {
		return nil, errNoChildren(parent)
	}

	var action efgdomain.Action
	found := false
	for _, a := range parent.AvailableActions() {
		if a.Id == edgeID {
			action, found = a, true
			break
		}
	}
	if !found {
		return nil, errUnknownEdge(parent, edgeID)
	}

	raw, err := parent.PerformAction(action)
	if err != nil {
		return nil, err
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	return c.canonicalizeLocked(raw), nil
}

// Children returns every canonical child of parent, in the order
// parent.AvailableActions() enumerates them, building and caching any that
// have not been visited yet. It marks parent fully built.
func (c *TreeCache) Children(parent *efg.Node) ([]*efg.Node, error) {
	if parent.Kind() == efg.Terminal {
		return nil, nil
	}

	actions := parent.AvailableActions()
	kids := make([]*efg.Node, 0, len(actions))
	for _, a := range actions {
		raw, err := parent.PerformAction(a)
		if err != nil {
			return nil, err
		}
		c.mu.Lock()
		kids = append(kids, c.canonicalizeLocked(raw))
		c.mu.Unlock()
	}

	c.mu.Lock()
	c.children[parent.Hash()] = kids
	c.fullyBuilt[parent.Hash()] = true
	c.mu.Unlock()
	return kids, nil
}

// HasChildren reports whether Children(parent) has already run.
func (c *TreeCache) HasChildren(parent *efg.Node) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	_, ok := c.children[parent.Hash()]
	return ok
}

// HasAllChildren reports whether parent has been fully expanded (equivalent
// to HasChildren here: Children always materializes every child, there is
// no partial-expansion path).
func (c *TreeCache) HasAllChildren(parent *efg.Node) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.fullyBuilt[parent.Hash()]
}

// IsFullyBuilt reports whether BuildTree has walked the entire subtree
// rooted at n to completion (every descendant down to a Terminal node).
func (c *TreeCache) IsFullyBuilt(n *efg.Node) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.fullyBuilt[n.Hash()] && c.subtreeFullyBuiltLocked(n)
}

func (c *TreeCache) subtreeFullyBuiltLocked(n *efg.Node) bool {
	if n.Kind() == efg.Terminal {
		return true
	}
	kids, ok := c.children[n.Hash()]
	if !ok {
		return false
	}
	for _, k := range kids {
		if !c.subtreeFullyBuiltLocked(k) {
			return false
		}
	}
	return true
}

// BuildTree eagerly materializes every descendant of n down to maxDepth
// relative node-tree levels below n (maxDepth < 0 means unbounded, i.e.
// build to every Terminal node).
func (c *TreeCache) BuildTree(n *efg.Node, maxDepth int) error {
	if maxDepth == 0 {
		return nil
	}
	kids, err := c.Children(n)
	if err != nil {
		return err
	}
	for _, k := range kids {
		if err := c.BuildTree(k, maxDepth-1); err != nil {
			return err
		}
	}
	return nil
}

// BuildTreeParallel is BuildTree's concurrent counterpart, fanning the
// per-child recursion out across an errgroup; useful for domains whose
// PerformActions does real work (e.g. constraint enumeration). It stops and
// returns the first error encountered.
func (c *TreeCache) BuildTreeParallel(ctx context.Context, n *efg.Node, maxDepth int) error {
	if maxDepth == 0 {
		return nil
	}
	kids, err := c.Children(n)
	if err != nil {
		return err
	}
	g, ctx := errgroup.WithContext(ctx)
	for _, k := range kids {
		k := k
		g.Go(func() error {
			select {
			case <-ctx.Done():
				return ctx.Err()
			default:
			}
			return c.BuildTreeParallel(ctx, k, maxDepth-1)
		})
	}
	if err := g.Wait(); err != nil {
		klog.V(2).Infof("cache: BuildTreeParallel aborted below node depth=%d: %v", n.Depth(), err)
		return err
	}
	return nil
}

// Clear discards every memoized tree entry except the root: canon,
// children and fullyBuilt are reset, and if Root() had already been
// called, the root node is reinserted as the sole canonical entry so
// c.Root() keeps returning the same *efg.Node identity instead of
// re-materializing a fresh one.
func (c *TreeCache) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.canon = make(map[uint64][]*efg.Node)
	c.children = make(map[uint64][]*efg.Node)
	c.fullyBuilt = make(map[uint64]bool)
	if c.root != nil {
		c.canon[c.root.Hash()] = []*efg.Node{c.root}
	}
}

// GetNodes returns every canonical node materialized so far, in no
// particular order.
func (c *TreeCache) GetNodes() []*efg.Node {
	c.mu.Lock()
	defer c.mu.Unlock()
	var all []*efg.Node
	for _, bucket := range c.canon {
		all = append(all, bucket...)
	}
	return all
}
