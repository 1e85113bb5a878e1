package testdomains

import (
	"time"

	"github.com/aicenter/gtlib2/pkg/constraining"
	"github.com/aicenter/gtlib2/pkg/efg"
	"github.com/aicenter/gtlib2/pkg/efgdomain"
	"github.com/aicenter/gtlib2/pkg/efgid"
)

// InitializeEnumerativeConstraints seeds m with the root node under both
// players' empty augmented infoset, making *ThreeCardPoker satisfy
// constraining.ConstrainingDomain.
func (d *ThreeCardPoker) InitializeEnumerativeConstraints(m *constraining.ConstraintsMap) {
	root := efg.Root(d)
	for p := efgdomain.Player(0); int(p) < efgdomain.NumPlayers; p++ {
		m.Add(root.AOHInfoset(p), root)
	}
}

// UpdateConstraints extends m one history entry at a time, from
// *startIndex up to len(aoh.History), deriving each new frontier from the
// nodes already recorded for the shorter prefix instead of recomputing from
// the root. It returns whether aoh remains realizable given everything
// processed so far.
func (d *ThreeCardPoker) UpdateConstraints(m *constraining.ConstraintsMap, aoh efgid.AOH, startIndex *int64) bool {
	prefix := truncatedAOH(aoh, int(*startIndex))
	frontier := m.NodesConsistentWith(prefix)

	for depth := int(*startIndex); depth < len(aoh.History); depth++ {
		next := truncatedAOH(aoh, depth+1)
		var extended []*efg.Node
		for _, n := range frontier {
			if n.Kind() == efg.Terminal {
				continue
			}
			for _, a := range n.AvailableActions() {
				child, err := n.PerformAction(a)
				if err != nil {
					continue
				}
				if child.AOHInfoset(aoh.Player).Equal(next) {
					extended = append(extended, child)
				}
			}
		}
		for _, n := range extended {
			m.Add(next, n)
		}
		frontier = m.NodesConsistentWith(next)
		*startIndex = int64(depth + 1)
		if len(frontier) == 0 {
			return false
		}
	}
	return len(frontier) > 0
}

// GenerateNodes streams the nodes m already has recorded as consistent with
// aoh to emit, stopping at budget or at emit's request.
func (d *ThreeCardPoker) GenerateNodes(m *constraining.ConstraintsMap, aoh efgid.AOH, budget constraining.Budget, emit func(*efg.Node) bool) error {
	start := time.Now()
	count := 0
	for _, n := range m.NodesConsistentWith(aoh) {
		if budget.Exceeded(count, time.Since(start)) {
			break
		}
		count++
		if !emit(n) {
			break
		}
	}
	return nil
}

// truncatedAOH returns aoh with its history cut down to its first n
// entries, recomputing the hash so it is a valid ConstraintsMap key on its
// own.
func truncatedAOH(aoh efgid.AOH, n int) efgid.AOH {
	return efgid.NewAOH(aoh.Player, aoh.InitialObservation, aoh.History[:n])
}
