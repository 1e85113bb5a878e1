package efgid

import (
	"fmt"

	"github.com/aicenter/gtlib2/pkg/efgdomain"
)

// ActionObservationIds is the per-player, per-turn pair spec.md §3 defines:
// the action id the player took on a turn (efgdomain.NoActionID if the
// player wasn't acting) paired with the observation id the player saw on
// the edge into the next node.
type ActionObservationIds struct {
	ActionId      efgdomain.ID
	ObservationId efgdomain.ID
}

// AOH is the information-set key: a player, the observation that player saw
// before the first decision (the "initial observation"), and the sequence
// of ActionObservationIds from root to the node in question. Two EFG nodes
// are in the same information set for a player iff their AOH is equal.
//
// The same key is well-defined at every node for every player, including
// nodes where that player is not acting -- used that way it is called an
// augmented information set (spec.md §3).
type AOH struct {
	Player            efgdomain.Player
	InitialObservation efgdomain.ID
	History            []ActionObservationIds

	hash uint64
}

// NewAOH builds an AOH and computes its hash eagerly so equality checks and
// map lookups never recompute it.
func NewAOH(player efgdomain.Player, initialObservation efgdomain.ID, history []ActionObservationIds) AOH {
	a := AOH{Player: player, InitialObservation: initialObservation, History: history}
	a.hash = a.computeHash()
	return a
}

func (a AOH) computeHash() uint64 {
	ids := make([]uint32, 0, 2+2*len(a.History))
	ids = append(ids, uint32(a.Player), uint32(a.InitialObservation))
	for _, aoId := range a.History {
		ids = append(ids, uint32(aoId.ActionId), uint32(aoId.ObservationId))
	}
	return FixedSeedHash(ids)
}

// Hash returns the fixed-seed hash of the AOH's identifier sequence.
func (a AOH) Hash() uint64 { return a.hash }

// Equal reports structural equality, ignoring which node produced the AOH.
func (a AOH) Equal(other AOH) bool {
	if a.Player != other.Player || a.InitialObservation != other.InitialObservation {
		return false
	}
	if len(a.History) != len(other.History) {
		return false
	}
	for i := range a.History {
		if a.History[i] != other.History[i] {
			return false
		}
	}
	return true
}

// String renders the AOH for logging/debugging.
func (a AOH) String() string {
	return fmt.Sprintf("AOH{player=%s, initObs=%d, history=%v, hash=%x}", a.Player, a.InitialObservation, a.History, a.hash)
}
