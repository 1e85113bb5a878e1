package efg_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/aicenter/gtlib2/internal/testdomains"
	"github.com/aicenter/gtlib2/pkg/efg"
	"github.com/aicenter/gtlib2/pkg/efgdomain"
)

func collectNodes(n *efg.Node, out *[]*efg.Node) {
	*out = append(*out, n)
	if n.Kind() == efg.Terminal {
		return
	}
	for _, a := range n.AvailableActions() {
		child, err := n.PerformAction(a)
		if err != nil {
			continue
		}
		collectNodes(child, out)
	}
}

func TestAlternatingMatchingPenniesShape(t *testing.T) {
	domain := &testdomains.MatchingPennies{Simultaneous: false}
	root := efg.Root(domain)

	require.Equal(t, efg.Player, root.Kind())
	require.Equal(t, 0, root.Depth())
	require.Equal(t, efgdomain.Player0, root.ActingPlayer())

	var all []*efg.Node
	collectNodes(root, &all)

	var playerNodes, terminalNodes int
	for _, n := range all {
		switch n.Kind() {
		case efg.Player:
			playerNodes++
		case efg.Terminal:
			terminalNodes++
		}
	}
	require.Equal(t, 7, len(all))
	require.Equal(t, 3, playerNodes)
	require.Equal(t, 4, terminalNodes)
}

func TestSimultaneousMatchingPenniesSameShapeSharedPlayer1Infoset(t *testing.T) {
	domain := &testdomains.MatchingPennies{Simultaneous: true}
	root := efg.Root(domain)

	var all []*efg.Node
	collectNodes(root, &all)
	require.Equal(t, 7, len(all))

	// player1's two depth-1 nodes must be in the same infoset: the
	// intermediate round edge carries no_observation for everyone,
	// including the acting player0 whose own choice isn't revealed.
	heads, err := root.PerformAction(efgdomain.Action{Id: 0})
	require.NoError(t, err)
	tails, err := root.PerformAction(efgdomain.Action{Id: 1})
	require.NoError(t, err)
	require.Equal(t, efg.Player, heads.Kind())
	require.Equal(t, efgdomain.Player1, heads.ActingPlayer())
	require.True(t, heads.IsSimultaneousRound() == false)
	require.True(t, heads.AOHInfoset(efgdomain.Player1).Equal(tails.AOHInfoset(efgdomain.Player1)))
}

func TestDeterministicHashing(t *testing.T) {
	domain := &testdomains.MatchingPennies{Simultaneous: false}
	r1 := efg.Root(domain)
	r2 := efg.Root(domain)
	require.Equal(t, r1.Hash(), r2.Hash())

	c1, err := r1.PerformAction(efgdomain.Action{Id: 0})
	require.NoError(t, err)
	c2, err := r2.PerformAction(efgdomain.Action{Id: 0})
	require.NoError(t, err)
	require.Equal(t, c1.Hash(), c2.Hash())
	require.True(t, c1.Equal(c2))
}

func TestCumulativeUtilityZeroSum(t *testing.T) {
	domain := &testdomains.MatchingPennies{Simultaneous: false}
	root := efg.Root(domain)
	h, err := root.PerformAction(efgdomain.Action{Id: 0})
	require.NoError(t, err)
	term, err := h.PerformAction(efgdomain.Action{Id: 0})
	require.NoError(t, err)
	require.Equal(t, efg.Terminal, term.Kind())

	u := term.TerminalUtility()
	require.InDelta(t, 0.0, u[efgdomain.Player0]+u[efgdomain.Player1], 1e-12)
	require.InDelta(t, 1.0, u[efgdomain.Player0], 1e-12)
}

func TestThreeCardPokerRootBranches(t *testing.T) {
	domain := &testdomains.ThreeCardPoker{}
	root := efg.Root(domain)
	require.Equal(t, efg.Chance, root.Kind())
	require.Equal(t, 6, root.CountAvailableActions())

	probs := root.ChanceProbs()
	sum := 0.0
	for _, p := range probs {
		sum += p
	}
	require.InDelta(t, 1.0, sum, 1e-12)

	child, err := root.PerformAction(efgdomain.Action{Id: 0})
	require.NoError(t, err)
	require.Equal(t, efg.Player, child.Kind())
	require.Equal(t, efgdomain.Player0, child.ActingPlayer())
	require.InDelta(t, probs[0], child.ChanceReach(), 1e-12)
}

func TestActionSequenceExtendsOnlyOwnActions(t *testing.T) {
	domain := &testdomains.MatchingPennies{Simultaneous: false}
	root := efg.Root(domain)
	afterP0, err := root.PerformAction(efgdomain.Action{Id: 0})
	require.NoError(t, err)
	term, err := afterP0.PerformAction(efgdomain.Action{Id: 1})
	require.NoError(t, err)

	seq0 := term.ActionSequence(efgdomain.Player0)
	seq1 := term.ActionSequence(efgdomain.Player1)
	require.Len(t, seq0.Entries, 1)
	require.Len(t, seq1.Entries, 1)
	require.Equal(t, efgdomain.ID(0), seq0.Entries[0].Action.Id)
	require.Equal(t, efgdomain.ID(1), seq1.Entries[0].Action.Id)
}
