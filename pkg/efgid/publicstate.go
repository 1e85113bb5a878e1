package efgid

import (
	"fmt"

	"github.com/aicenter/gtlib2/pkg/efgdomain"
)

// PublicState is the sequence of public-observation ids from root to a
// node. Two nodes are in the same public state iff this sequence is equal.
type PublicState struct {
	History []efgdomain.ID

	hash uint64
}

// NewPublicState builds a PublicState and eagerly computes its hash.
func NewPublicState(history []efgdomain.ID) PublicState {
	ps := PublicState{History: history}
	ps.hash = ps.computeHash()
	return ps
}

func (ps PublicState) computeHash() uint64 {
	ids := make([]uint32, len(ps.History))
	for i, id := range ps.History {
		ids[i] = uint32(id)
	}
	return FixedSeedHash(ids)
}

// Hash returns the fixed-seed hash of the history.
func (ps PublicState) Hash() uint64 { return ps.hash }

// Depth is the length of the history, i.e. how many public observations
// have occurred on the path from root.
func (ps PublicState) Depth() int { return len(ps.History) }

// Equal reports structural equality of the public observation histories.
func (ps PublicState) Equal(other PublicState) bool {
	if len(ps.History) != len(other.History) {
		return false
	}
	for i := range ps.History {
		if ps.History[i] != other.History[i] {
			return false
		}
	}
	return true
}

// IsPrefixOf reports whether ps.History is a (possibly equal, possibly
// strict) prefix of other.History -- the strict partial order
// "parent_ps < child_ps" of spec.md §4.3, with equality allowed so callers
// can test "ancestor-or-self" directly.
func (ps PublicState) IsPrefixOf(other PublicState) bool {
	if len(ps.History) > len(other.History) {
		return false
	}
	for i := range ps.History {
		if ps.History[i] != other.History[i] {
			return false
		}
	}
	return true
}

// IsStrictAncestorOf is IsPrefixOf with the equal-length case excluded,
// giving the strict partial order spec.md §4.3 names.
func (ps PublicState) IsStrictAncestorOf(other PublicState) bool {
	return len(ps.History) < len(other.History) && ps.IsPrefixOf(other)
}

// String renders the PublicState for logging/debugging.
func (ps PublicState) String() string {
	return fmt.Sprintf("PublicState{history=%v, depth=%d, hash=%x}", ps.History, ps.Depth(), ps.hash)
}
