package constraining_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/aicenter/gtlib2/internal/testdomains"
	"github.com/aicenter/gtlib2/pkg/constraining"
	"github.com/aicenter/gtlib2/pkg/efg"
	"github.com/aicenter/gtlib2/pkg/efgdomain"
)

func TestBudgetExceeded(t *testing.T) {
	nodes := constraining.Budget{Kind: constraining.BudgetNodes, MaxNodes: 3}
	require.False(t, nodes.Exceeded(2, 0))
	require.True(t, nodes.Exceeded(3, 0))

	wallClock := constraining.Budget{Kind: constraining.BudgetTime, MaxTime: 10 * time.Millisecond}
	require.False(t, wallClock.Exceeded(0, 5*time.Millisecond))
	require.True(t, wallClock.Exceeded(0, 11*time.Millisecond))
}

func TestConstraintsMapAccumulatesPerAOHWithoutDuplicates(t *testing.T) {
	domain := &testdomains.MatchingPennies{Simultaneous: false}
	root := efg.Root(domain)
	child, err := root.PerformAction(root.AvailableActions()[0])
	require.NoError(t, err)

	aoh := root.AOHInfoset(root.ActingPlayer())
	m := constraining.NewConstraintsMap()

	m.Add(aoh, root)
	m.Add(aoh, child)
	m.Add(aoh, root) // duplicate, must not double-count

	require.Equal(t, 2, m.Count(aoh))
	require.ElementsMatch(t, []*efg.Node{root, child}, m.NodesConsistentWith(aoh))
}

func TestConstraintsMapUnknownAOHIsEmpty(t *testing.T) {
	domain := &testdomains.MatchingPennies{Simultaneous: false}
	root := efg.Root(domain)
	unknown := root.AOHInfoset(root.ActingPlayer().Opponent())

	m := constraining.NewConstraintsMap()
	require.Equal(t, 0, m.Count(unknown))
	require.Nil(t, m.NodesConsistentWith(unknown))
}

// TestGenerateNodesEmitsAllConsistentNodesUnderSlackBudget is spec.md §8's
// seed scenario 6: generate_nodes(I, budget=|I|+1) must emit exactly
// nodes_in(I), once, each.
func TestGenerateNodesEmitsAllConsistentNodesUnderSlackBudget(t *testing.T) {
	domain := &testdomains.ThreeCardPoker{}
	root := efg.Root(domain)

	// Deal index 0 is cards (player0=0, player1=1); after player0 checks,
	// player1's augmented infoset (own card 1, saw "check") is also
	// consistent with the deal (player0=2, player1=1) -- two nodes.
	dealt, err := root.PerformAction(root.AvailableActions()[0])
	require.NoError(t, err)
	afterCheck, err := dealt.PerformAction(dealt.AvailableActions()[0])
	require.NoError(t, err)
	target := afterCheck.AOHInfoset(efgdomain.Player1)

	m := constraining.NewConstraintsMap()
	domain.InitializeEnumerativeConstraints(m)
	var startIndex int64
	require.True(t, domain.UpdateConstraints(m, target, &startIndex))

	want := m.NodesConsistentWith(target)
	require.Len(t, want, 2)

	budget := constraining.Budget{Kind: constraining.BudgetNodes, MaxNodes: len(want) + 1}
	var emitted []*efg.Node
	require.NoError(t, domain.GenerateNodes(m, target, budget, func(n *efg.Node) bool {
		emitted = append(emitted, n)
		return true
	}))

	require.ElementsMatch(t, want, emitted)
}

// TestGenerateNodesStopsEarlyWhenEmitDeclines checks the streaming
// early-termination contract: emit returning false must stop enumeration
// before the budget is reached.
func TestGenerateNodesStopsEarlyWhenEmitDeclines(t *testing.T) {
	domain := &testdomains.ThreeCardPoker{}
	root := efg.Root(domain)
	dealt, err := root.PerformAction(root.AvailableActions()[0])
	require.NoError(t, err)
	afterCheck, err := dealt.PerformAction(dealt.AvailableActions()[0])
	require.NoError(t, err)
	target := afterCheck.AOHInfoset(efgdomain.Player1)

	m := constraining.NewConstraintsMap()
	domain.InitializeEnumerativeConstraints(m)
	var startIndex int64
	require.True(t, domain.UpdateConstraints(m, target, &startIndex))

	budget := constraining.Budget{Kind: constraining.BudgetNodes, MaxNodes: 100}
	count := 0
	require.NoError(t, domain.GenerateNodes(m, target, budget, func(n *efg.Node) bool {
		count++
		return false
	}))
	require.Equal(t, 1, count)
}
