// Package gadget builds the resolving gadget game of spec.md §6: given a
// summary of an opponent's counterfactual values at the boundary of a
// subgame, it constructs the small auxiliary game a resolving algorithm
// actually optimizes over -- one chance pick among the nodes at the
// boundary of the subgame, followed (under SafeResolving) by the
// opponent's choice to Follow into the original subgame or Terminate for a
// fixed baseline payoff.
//
// The gadget tree is its own tagged union, mirroring efg.Node's Kind
// vocabulary (efg.FirstGadgetSpecialization is reserved for anyone who
// later wants to drive a gadget tree through the shared efg/cache
// machinery instead); it is deliberately not an
// efg.Node itself because it has no backing efgdomain.State -- its values
// come from the caller's summary, not from replaying a domain.
package gadget

import (
	"github.com/gomlx/exceptions"

	"github.com/aicenter/gtlib2/pkg/efg"
	"github.com/aicenter/gtlib2/pkg/efgdomain"
	"github.com/aicenter/gtlib2/pkg/efgid"
)

// Variant selects how the gadget root's chance distribution over the
// nodes at the subgame boundary is derived from the summary.
type Variant uint8

const (
	// SafeResolving weights each node by the resolving player's own reach
	// times the chance reach, so the resolving player can never do worse
	// than the baseline regardless of how the rest of the game is played.
	// A GadgetInner (Follow/Terminate) is built for every node.
	SafeResolving Variant = iota

	// UnsafeResolving (also called optimistic resolving) weights each node
	// by both players' reach times the chance reach, and collapses the
	// gadget: the root edge leads directly to the underlying node, with no
	// Follow/Terminate choice in between (original_source/base/gadget.cpp's
	// GadgetRootNode::performAction, UNSAFE_RESOLVING case).
	UnsafeResolving

	// MaxMargin additionally optimizes the Terminate payoffs themselves to
	// maximize the resolving player's worst-case margin over the
	// baseline. Left unimplemented: it requires an embedded LP/optimizer,
	// which spec.md places out of scope for this library.
	MaxMargin
)

// NodeValue is one data point the caller supplies about a node at the
// subgame boundary (one of the "topmost histories" of the public state
// being resolved): the original-game node, its reach triple
// (resolving player, opponent, chance), and the expected utility for
// player 0 there. Computing these is an algorithm's job (CFR, out of scope
// here); grouping them into a gadget is this package's.
type NodeValue struct {
	Node               *efg.Node
	ReachResolving     float64 // reach_r(i): resolving player's own reach
	ReachOpponent      float64 // reach_o(i): opponent's reach
	ReachChance        float64 // reach_chance(i): chance's reach
	ExpectedUtilityPl0 float64 // expected utility for player 0 at this node
}

// Summary is everything BuildGadget needs: the boundary node values for one
// public state / subgame, in the order its chance edges should be indexed.
type Summary struct {
	Values []NodeValue
}

// GadgetTerminal is a leaf of the gadget game: either Follow, which hands
// control back to the original subgame at OriginalNodes, or Terminate,
// which fixes player 0's payoff at BaselineCfv (a player-0 value) and
// player 1's at its zero-sum negation.
type GadgetTerminal struct {
	IsFollow      bool
	OriginalNodes []*efg.Node
	Utility       [efgdomain.NumPlayers]float64
}

// GadgetInner is the opponent's decision point for one boundary node: follow
// into the original game, or bank the baseline. Built only under
// SafeResolving.
type GadgetInner struct {
	Aoh         efgid.AOH
	BaselineCfv float64
	Follow      *GadgetTerminal
	Terminate   *GadgetTerminal
}

// GadgetEdge is one root chance edge, corresponding to one node in the
// summary. Under SafeResolving it leads to Inner; under UnsafeResolving
// Inner is nil and the edge leads directly to UnderlyingNode (the gadget
// collapse spec.md §4.6 describes).
type GadgetEdge struct {
	UnderlyingNode *efg.Node
	ChanceProb     float64
	Inner          *GadgetInner
}

// GadgetRoot is the chance node at the top of the gadget game, branching
// over the nodes at the boundary of the subgame being resolved, indexed
// 0..len(summary.Values)-1.
type GadgetRoot struct {
	ResolvingPlayer efgdomain.Player
	Variant         Variant
	// TargetAOH is the specific infoset this gadget was built to resolve,
	// if the caller has one in mind; nil if there isn't one
	// (original_source/base/gadget.h's targetAOH_, "can be nullptr if
	// there's none").
	TargetAOH *efgid.AOH
	Edges     []*GadgetEdge
}

// BuildGadget builds the gadget game rooted at a chance pick over
// summary's boundary nodes. targetAOH records which infoset this gadget
// is being built to resolve, if any; it does not affect the construction
// (spec.md §4.6's formulas never reference it), it is only carried through
// to GadgetRoot for callers that need to know.
func BuildGadget(summary Summary, resolvingPlayer efgdomain.Player, targetAOH *efgid.AOH, variant Variant) (*GadgetRoot, error) {
	if variant == MaxMargin {
		exceptions.Panicf("gadget: MaxMargin resolving is not implemented")
	}
	if len(summary.Values) == 0 {
		return nil, errEmptySummary()
	}

	opponent := resolvingPlayer.Opponent()

	total := 0.0
	for _, v := range summary.Values {
		total += chanceWeight(v, variant)
	}
	if total <= 0 {
		return nil, errZeroReach()
	}

	var baselines []float64
	if variant == SafeResolving {
		baselines = terminateBaselines(summary.Values, opponent)
	}

	root := &GadgetRoot{ResolvingPlayer: resolvingPlayer, Variant: variant, TargetAOH: targetAOH}
	for i, v := range summary.Values {
		edge := &GadgetEdge{
			UnderlyingNode: v.Node,
			ChanceProb:     chanceWeight(v, variant) / total,
		}

		if variant == SafeResolving {
			baseline := baselines[i]
			edge.Inner = &GadgetInner{
				Aoh:         v.Node.AOHInfoset(opponent),
				BaselineCfv: baseline,
				Follow: &GadgetTerminal{
					IsFollow:      true,
					OriginalNodes: []*efg.Node{v.Node},
				},
				Terminate: &GadgetTerminal{
					IsFollow: false,
					Utility:  zeroSumUtility(efgdomain.Player0, baseline),
				},
			}
		}
		// UnsafeResolving: edge.Inner stays nil, the gadget collapses and
		// the edge leads directly to UnderlyingNode.

		root.Edges = append(root.Edges, edge)
	}
	return root, nil
}

// chanceWeight is the (unnormalized) numerator of the root chance
// probability for one boundary node, per spec.md §4.6 /
// original_source/base/gadget.cpp's chanceProbForAction: the resolving
// player's reach times chance reach under SafeResolving, or both players'
// reach times chance reach under UnsafeResolving.
func chanceWeight(v NodeValue, variant Variant) float64 {
	switch variant {
	case SafeResolving:
		return v.ReachResolving * v.ReachChance
	case UnsafeResolving:
		return v.ReachResolving * v.ReachOpponent * v.ReachChance
	default:
		exceptions.Panicf("gadget: unrecognized variant %v", variant)
		return 0
	}
}

// zeroSumUtility builds the per-player utility array for a fixed payoff v
// awarded to player, with the opponent receiving -v (spec.md's zero-sum
// core).
func zeroSumUtility(player efgdomain.Player, v float64) [efgdomain.NumPlayers]float64 {
	var u [efgdomain.NumPlayers]float64
	u[player] = v
	u[player.Opponent()] = -v
	return u
}

type cfvGroup struct {
	reach        float64
	weightedUtil float64
}

// terminateBaselines computes, for every boundary node (in summary order),
// the cfv baseline v_i of spec.md §4.6: group nodes by the viewing
// (opponent's) augmented infoset, weight each by reach_r(i)*reach_chance(i)
// (always the resolving player's own reach, regardless of variant -- see
// original_source/base/gadget.cpp's computeTerminateCFVValues, which uses
// reachProbs[i][resolvingPlayer] unconditionally), and assign every node in
// a group the group's reach-weighted average utility.
func terminateBaselines(values []NodeValue, viewingPlayer efgdomain.Player) []float64 {
	groups := make(map[uint64]*cfvGroup)
	aohOf := make([]efgid.AOH, len(values))

	for i, v := range values {
		aoh := v.Node.AOHInfoset(viewingPlayer)
		aohOf[i] = aoh
		g, ok := groups[aoh.Hash()]
		if !ok {
			g = &cfvGroup{}
			groups[aoh.Hash()] = g
		}
		reach := v.ReachResolving * v.ReachChance
		g.reach += reach
		g.weightedUtil += reach * v.ExpectedUtilityPl0
	}

	baselines := make([]float64, len(values))
	for i := range values {
		g := groups[aohOf[i].Hash()]
		baselines[i] = g.weightedUtil / g.reach
	}
	return baselines
}
