package efgid

import (
	"fmt"

	"github.com/aicenter/gtlib2/pkg/efgdomain"
)

// ActionSequenceEntry pairs the AOH at which an action was chosen with the
// action itself -- one entry per turn a player actually acted.
type ActionSequenceEntry struct {
	Aoh    AOH
	Action efgdomain.Action
}

// ActionSequence is, for a player at a node, the subsequence of that
// player's own actions paired with the AOH key in force when each action
// was chosen. Two sequences are equal iff they have equal length and equal
// (aoh, action) pairs pointwise.
type ActionSequence struct {
	Entries []ActionSequenceEntry

	hash uint64
}

// NewActionSequence builds an ActionSequence and eagerly computes its hash.
func NewActionSequence(entries []ActionSequenceEntry) ActionSequence {
	as := ActionSequence{Entries: entries}
	as.hash = as.computeHash()
	return as
}

func (as ActionSequence) computeHash() uint64 {
	ids := make([]uint32, 0, 2*len(as.Entries))
	for _, e := range as.Entries {
		ids = append(ids, uint32(e.Aoh.Hash()), uint32(e.Action.Id))
	}
	return FixedSeedHash(ids)
}

// Hash returns the fixed-seed hash of the sequence.
func (as ActionSequence) Hash() uint64 { return as.hash }

// Equal reports structural equality: same length, same (aoh, action) pairs
// pointwise, ignoring which node produced the sequence.
func (as ActionSequence) Equal(other ActionSequence) bool {
	if len(as.Entries) != len(other.Entries) {
		return false
	}
	for i := range as.Entries {
		a, b := as.Entries[i], other.Entries[i]
		if a.Action.Id != b.Action.Id || !a.Aoh.Equal(b.Aoh) {
			return false
		}
	}
	return true
}

// Extend returns a new ActionSequence with (aoh, action) appended. The
// receiver's backing array is never mutated.
func (as ActionSequence) Extend(aoh AOH, action efgdomain.Action) ActionSequence {
	entries := make([]ActionSequenceEntry, len(as.Entries), len(as.Entries)+1)
	copy(entries, as.Entries)
	entries = append(entries, ActionSequenceEntry{Aoh: aoh, Action: action})
	return NewActionSequence(entries)
}

// String renders the ActionSequence for logging/debugging.
func (as ActionSequence) String() string {
	return fmt.Sprintf("ActionSequence{len=%d, hash=%x}", len(as.Entries), as.hash)
}
