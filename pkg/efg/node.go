// Package efg implements the lazy extensive-form game tree built on top of
// package efgdomain: the tagged Chance/Player/Terminal node variant of
// spec.md §4.2, its deterministic turn ordering for simultaneous-move
// rounds, and the derived getters (AOH, public state, chance reach,
// cumulative utility) every downstream algorithm reads off a node.
package efg

import (
	"sort"

	"github.com/gomlx/exceptions"

	"github.com/aicenter/gtlib2/pkg/efgdomain"
	"github.com/aicenter/gtlib2/pkg/efgid"
)

// Kind tags which of the three EFG node variants a Node is.
type Kind uint8

const (
	Chance Kind = iota
	Player
	Terminal
)

func (k Kind) String() string {
	switch k {
	case Chance:
		return "Chance"
	case Player:
		return "Player"
	case Terminal:
		return "Terminal"
	default:
		return "Unknown"
	}
}

// Specialization distinguishes an ordinary tree node from one built by an
// auxiliary construction (the gadget game, package gadget). Equality and
// hashing of a Node always include its Specialization so ordinary and
// gadget nodes never collide even if their histories coincide.
type Specialization uint8

// Ordinary is the default specialization of every node built by this
// package. Package gadget reserves the range starting at
// FirstGadgetSpecialization for its own tags.
const Ordinary Specialization = 0

// FirstGadgetSpecialization is the first tag value packages outside efg may
// use for their own specializations, leaving 1..15 free for other future
// non-ordinary tree constructions without colliding with package gadget.
const FirstGadgetSpecialization Specialization = 16

const numPlayers = efgdomain.NumPlayers

// Node is one node of the lazily-unfolded extensive-form tree. It is
// immutable once constructed; PerformAction builds and returns a new child,
// it never mutates the receiver.
type Node struct {
	domain         efgdomain.Domain
	parent         *Node
	hasEdge        bool
	edgeID         efgdomain.ID
	history        []efgdomain.ID
	depth          int
	hash           uint64
	kind           Kind
	specialization Specialization

	state efgdomain.State

	// Data recorded on the edge from parent to this node. Meaningless
	// (zero value) when hasEdge is false, i.e. at the root.
	edgeActions           [numPlayers]efgdomain.ID
	edgeObservations       [numPlayers]efgdomain.ID
	edgePublicObservation  efgdomain.ID
	edgeReward             [numPlayers]float64
	edgeChanceProb         float64

	// Chance-node-only data.
	distribution efgdomain.OutcomeDistribution

	// Player-node-only data. roundRemaining holds the players still to act
	// in the current simultaneous-move round, in ascending player-id
	// order, not including actingPlayer; it is empty for an ordinary
	// single-actor turn and for the last actor of a round. roundActions
	// accumulates the ids chosen so far this round, keyed by player,
	// defaulting to efgdomain.NoActionID.
	actingPlayer   efgdomain.Player
	roundRemaining []efgdomain.Player
	roundActions   [numPlayers]efgdomain.ID

	// Lazily computed and memoized from the parent chain.
	cumulativeUtility *[numPlayers]float64
	chanceReach       *float64
	aoIdsCache        [numPlayers][]efgid.ActionObservationIds
	aoIdsComputed     [numPlayers]bool
	publicObsCache    []efgdomain.ID
	publicObsComputed bool
}

var noActionVector = [numPlayers]efgdomain.ID{efgdomain.NoActionID, efgdomain.NoActionID}
var noObservationVector = [numPlayers]efgdomain.ID{efgdomain.NoObservationID, efgdomain.NoObservationID}

// Root builds the root node of domain's EFG, applying the single-atom
// collapse rule of spec.md §4.2 uniformly: if the root outcome distribution
// has exactly one atom, the root is directly whatever node kind fits that
// atom's resultant state (no redundant one-edge chance node); only a
// genuinely branching root distribution materializes as an explicit
// Chance-kind root.
func Root(domain efgdomain.Domain) *Node {
	return materialize(domain, nil, 0, false, noActionVector, domain.RootOutcomeDistribution())
}

// materialize resolves dist into exactly one child of parent (or, when
// parent is nil, the root itself), applying the chain of direct-advances
// spec.md §4.2 describes for states with no acting players: every
// single-atom distribution encountered along the way is absorbed into the
// accumulated reward/observation of the one edge being built, until either
// a terminal state, a real decision point, or a genuinely branching
// distribution is reached.
func materialize(
	domain efgdomain.Domain,
	parent *Node,
	edgeID efgdomain.ID,
	hasEdge bool,
	edgeActions [numPlayers]efgdomain.ID,
	dist efgdomain.OutcomeDistribution,
) *Node {
	var accReward [numPlayers]float64
	accObs := noObservationVector
	accPublic := efgdomain.NoObservationID
	// The edge's probability is that of the atom the chain starts from;
	// every atom absorbed after it is the sole atom of its distribution.
	edgeProb := 1.0
	if len(dist) == 1 {
		edgeProb = dist[0].Probability
	}

	for {
		if len(dist) != 1 {
			return newNode(domain, parent, edgeID, hasEdge, edgeActions, accObs, accPublic, accReward, edgeProb,
				nodeFields{kind: Chance, distribution: dist})
		}
		atom := dist[0]
		for p := 0; p < numPlayers; p++ {
			accReward[p] += atom.Outcome.Rewards[p]
			if !atom.Outcome.PrivateObservations[p].IsNoObservation() {
				accObs[p] = atom.Outcome.PrivateObservations[p].Id
			}
		}
		if !atom.Outcome.PublicObservation.IsNoObservation() {
			accPublic = atom.Outcome.PublicObservation.Id
		}

		state := atom.Outcome.NextState
		if state.IsTerminal() {
			return newNode(domain, parent, edgeID, hasEdge, edgeActions, accObs, accPublic, accReward, edgeProb,
				nodeFields{kind: Terminal, state: state})
		}

		actingPlayers := append([]efgdomain.Player(nil), state.ActingPlayers()...)
		if len(actingPlayers) == 0 {
			// A no-op-between-rounds state: resolve one more transition at
			// the same tree depth (spec.md §4.2), accumulating onward.
			dist = state.PerformActions(decodeActionVector(state, noActionVector))
			continue
		}

		sort.Slice(actingPlayers, func(i, j int) bool { return actingPlayers[i] < actingPlayers[j] })
		fields := nodeFields{
			kind:         Player,
			state:        state,
			actingPlayer: actingPlayers[0],
		}
		if len(actingPlayers) > 1 {
			fields.roundRemaining = actingPlayers[1:]
		}
		fields.roundActions = noActionVector
		return newNode(domain, parent, edgeID, hasEdge, edgeActions, accObs, accPublic, accReward, edgeProb,
			fields)
	}
}

// nodeFields bundles the kind-specific fields newNode needs, so the
// function signature doesn't grow a parameter per node kind.
type nodeFields struct {
	kind         Kind
	state        efgdomain.State
	distribution efgdomain.OutcomeDistribution
	actingPlayer efgdomain.Player
	roundRemaining []efgdomain.Player
	roundActions [numPlayers]efgdomain.ID
}

func newNode(
	domain efgdomain.Domain,
	parent *Node,
	edgeID efgdomain.ID,
	hasEdge bool,
	edgeActions [numPlayers]efgdomain.ID,
	edgeObservations [numPlayers]efgdomain.ID,
	edgePublicObservation efgdomain.ID,
	edgeReward [numPlayers]float64,
	edgeChanceProb float64,
	f nodeFields,
) *Node {
	n := &Node{
		domain:                domain,
		parent:                parent,
		hasEdge:               hasEdge,
		edgeID:                edgeID,
		kind:                  f.kind,
		specialization:        Ordinary,
		state:                 f.state,
		edgeActions:           edgeActions,
		edgeObservations:      edgeObservations,
		edgePublicObservation: edgePublicObservation,
		edgeReward:            edgeReward,
		edgeChanceProb:        edgeChanceProb,
		distribution:          f.distribution,
		actingPlayer:          f.actingPlayer,
		roundRemaining:        f.roundRemaining,
		roundActions:          f.roundActions,
	}
	if parent == nil {
		n.history = nil
		n.depth = 0
	} else {
		n.history = append(append([]efgdomain.ID(nil), parent.history...), edgeID)
		n.depth = parent.depth + 1
	}
	n.hash = computeNodeHash(n.specialization, n.history)
	return n
}

func computeNodeHash(specialization Specialization, history []efgdomain.ID) uint64 {
	ids := make([]uint32, 0, 1+len(history))
	ids = append(ids, uint32(specialization))
	for _, id := range history {
		ids = append(ids, uint32(id))
	}
	return efgid.FixedSeedHash(ids)
}

// decodeActionVector turns a per-player id vector into the Action values
// PerformActions expects, resolving real ids via the state's ActionByID and
// leaving efgdomain.NoAction in place for non-acting players.
func decodeActionVector(state efgdomain.State, ids [numPlayers]efgdomain.ID) [numPlayers]efgdomain.Action {
	var actions [numPlayers]efgdomain.Action
	for p := 0; p < numPlayers; p++ {
		if ids[p] == efgdomain.NoActionID {
			actions[p] = efgdomain.NoAction
		} else {
			actions[p] = state.ActionByID(efgdomain.Player(p), ids[p])
		}
	}
	return actions
}

// --- Basic accessors -------------------------------------------------------

// Kind reports which tagged variant n is.
func (n *Node) Kind() Kind { return n.kind }

// Specialization reports n's specialization tag (Ordinary unless n was
// built by an auxiliary construction such as the gadget game).
func (n *Node) Specialization() Specialization { return n.specialization }

// Depth is len(History()); the root has depth 0.
func (n *Node) Depth() int { return n.depth }

// History returns a copy of the sequence of edge identifiers from the root
// to n.
func (n *Node) History() []efgdomain.ID {
	return append([]efgdomain.ID(nil), n.history...)
}

// Hash is derived from n's specialization and history with a fixed seed, so
// it is stable across runs (spec.md §4.3).
func (n *Node) Hash() uint64 { return n.hash }

// Parent returns n's parent and whether n has one (false only for the root).
func (n *Node) Parent() (*Node, bool) {
	if n.parent == nil {
		return nil, false
	}
	return n.parent, true
}

// IsRoot reports whether n has no parent.
func (n *Node) IsRoot() bool { return n.parent == nil }

// State returns the domain state n wraps: the final state for a Terminal
// node, or the state the acting player's choices are computed from for a
// Player node. A Chance node has no single backing state -- it represents
// the distribution over next states directly -- so State returns nil.
func (n *Node) State() efgdomain.State { return n.state }

// Equal reports whether two nodes have the same specialization and history;
// per spec.md §4.2 this is the entire identity contract -- it does not
// compare domains or pointers.
func (n *Node) Equal(other *Node) bool {
	if other == nil {
		return false
	}
	if n.specialization != other.specialization {
		return false
	}
	if len(n.history) != len(other.history) {
		return false
	}
	for i := range n.history {
		if n.history[i] != other.history[i] {
			return false
		}
	}
	return true
}

// --- Kind-specific getters --------------------------------------------------

// ActingPlayer returns the player that must act at n. Valid only for Player
// nodes.
func (n *Node) ActingPlayer() efgdomain.Player {
	n.requireKind(Player, "ActingPlayer")
	return n.actingPlayer
}

// IsSimultaneousRound reports whether other players still have to act in
// the current round before the domain state actually advances. Valid only
// for Player nodes.
func (n *Node) IsSimultaneousRound() bool {
	n.requireKind(Player, "IsSimultaneousRound")
	return len(n.roundRemaining) > 0
}

// AvailableActions delegates to the state for Player nodes; for Chance
// nodes it synthesizes one Action per edge of the stored distribution
// (Id = index into the distribution).
func (n *Node) AvailableActions() []efgdomain.Action {
	switch n.kind {
	case Player:
		return n.state.AvailableActions(n.actingPlayer)
	case Chance:
		actions := make([]efgdomain.Action, len(n.distribution))
		for i := range n.distribution {
			actions[i] = efgdomain.Action{Id: efgdomain.ID(i)}
		}
		return actions
	default:
		exceptions.Panicf("efg: AvailableActions is undefined on a %s node", n.kind)
		return nil
	}
}

// CountAvailableActions is AvailableActions without materializing the
// slice; see efgdomain.State.CountAvailableActions for the Player case.
func (n *Node) CountAvailableActions() int {
	switch n.kind {
	case Player:
		return n.state.CountAvailableActions(n.actingPlayer)
	case Chance:
		return len(n.distribution)
	default:
		exceptions.Panicf("efg: CountAvailableActions is undefined on a %s node", n.kind)
		return 0
	}
}

// ChanceProb returns the probability of the edge=edgeID choice. Valid only
// for Chance nodes.
func (n *Node) ChanceProb(edgeID efgdomain.ID) float64 {
	n.requireKind(Chance, "ChanceProb")
	if int(edgeID) >= len(n.distribution) {
		exceptions.Panicf("efg: ChanceProb: edge id %d out of range [0,%d)", edgeID, len(n.distribution))
	}
	return n.distribution[edgeID].Probability
}

// ChanceProbs returns the probability of every edge, in edge-id order.
// Valid only for Chance nodes.
func (n *Node) ChanceProbs() []float64 {
	n.requireKind(Chance, "ChanceProbs")
	probs := make([]float64, len(n.distribution))
	for i, atom := range n.distribution {
		probs[i] = atom.Probability
	}
	return probs
}

// TerminalUtility returns n's cumulative utility. Valid only for Terminal
// nodes.
func (n *Node) TerminalUtility() [numPlayers]float64 {
	n.requireKind(Terminal, "TerminalUtility")
	return n.CumulativeUtility()
}

func (n *Node) requireKind(want Kind, method string) {
	if n.kind != want {
		exceptions.Panicf("efg: %s is undefined on a %s node (requires %s)", method, n.kind, want)
	}
}

// --- Traversal ---------------------------------------------------------------

// PerformAction applies action at n and returns the resulting child. It is
// an error to call PerformAction on a Terminal node.
func (n *Node) PerformAction(action efgdomain.Action) (*Node, error) {
	switch n.kind {
	case Chance:
		if int(action.Id) >= len(n.distribution) {
			return nil, errInvalidEdge(action.Id, len(n.distribution))
		}
		return materialize(n.domain, n, action.Id, true, noActionVector,
			efgdomain.OutcomeDistribution{n.distribution[action.Id]}), nil

	case Player:
		newRoundActions := n.roundActions
		newRoundActions[n.actingPlayer] = action.Id

		if len(n.roundRemaining) > 0 {
			// Mid-round: record the choice and hand off to the next actor,
			// with no_observation on this intermediate edge for everyone
			// (spec.md §4.2's deterministic simultaneous-move ordering).
			edgeActions := noActionVector
			edgeActions[n.actingPlayer] = action.Id
			child := &Node{
				domain:           n.domain,
				parent:           n,
				hasEdge:          true,
				edgeID:           action.Id,
				kind:             Player,
				specialization:   Ordinary,
				state:            n.state,
				edgeActions:      edgeActions,
				edgeObservations: noObservationVector,
				edgePublicObservation: efgdomain.NoObservationID,
				edgeChanceProb:   1.0,
				actingPlayer:     n.roundRemaining[0],
				roundRemaining:   n.roundRemaining[1:],
				roundActions:     newRoundActions,
			}
			child.history = append(append([]efgdomain.ID(nil), n.history...), action.Id)
			child.depth = n.depth + 1
			child.hash = computeNodeHash(child.specialization, child.history)
			return child, nil
		}

		// Last (or only) actor of the round: the state genuinely advances.
		// newRoundActions (every round member's choice) feeds the domain
		// transition, but the edge being built here belongs solely to n's
		// own actor -- round-mates already had their own action attributed
		// on their own earlier edge into n.
		dist := n.state.PerformActions(decodeActionVector(n.state, newRoundActions))
		finalEdgeActions := noActionVector
		finalEdgeActions[n.actingPlayer] = action.Id
		return materialize(n.domain, n, action.Id, true, finalEdgeActions, dist), nil

	default:
		return nil, errPerformOnTerminal()
	}
}

// --- AOH / public-state derivation --------------------------------------------

// AOIds walks the parent chain collecting one ActionObservationIds per
// ancestor edge for player, memoizing the result the first time it is
// computed.
func (n *Node) AOIds(player efgdomain.Player) []efgid.ActionObservationIds {
	if n.aoIdsComputed[player] {
		return n.aoIdsCache[player]
	}
	var result []efgid.ActionObservationIds
	if n.parent != nil {
		parentAO := n.parent.AOIds(player)
		result = make([]efgid.ActionObservationIds, len(parentAO), len(parentAO)+1)
		copy(result, parentAO)
		result = append(result, efgid.ActionObservationIds{
			ActionId:      n.edgeActions[player],
			ObservationId: n.edgeObservations[player],
		})
	}
	n.aoIdsCache[player] = result
	n.aoIdsComputed[player] = true
	return result
}

// AOHInfoset builds the information-set key for player at n (spec.md §4.3).
// The per-player initial observation is always efgdomain.NoObservationID:
// the Domain/State contract has no channel for information revealed before
// the very first transition, so any a-priori private information a domain
// wants to encode belongs in the root distribution's PrivateObservations,
// which already becomes this player's first AOIds entry (see DESIGN.md).
func (n *Node) AOHInfoset(player efgdomain.Player) efgid.AOH {
	return efgid.NewAOH(player, efgdomain.NoObservationID, n.AOIds(player))
}

// PublicObservationIds walks the parent chain collecting the public
// observation id of every ancestor edge, memoizing the result.
func (n *Node) PublicObservationIds() []efgdomain.ID {
	if n.publicObsComputed {
		return n.publicObsCache
	}
	var result []efgdomain.ID
	if n.parent != nil {
		parentObs := n.parent.PublicObservationIds()
		result = make([]efgdomain.ID, len(parentObs), len(parentObs)+1)
		copy(result, parentObs)
		result = append(result, n.edgePublicObservation)
	}
	n.publicObsCache = result
	n.publicObsComputed = true
	return result
}

// PublicState builds n's public-state key (spec.md §4.3).
func (n *Node) PublicState() efgid.PublicState {
	return efgid.NewPublicState(n.PublicObservationIds())
}

// ActionSequence builds player's action sequence at n (spec.md §4.3): the
// subsequence of player's own actions, each paired with the AOH in force
// when it was chosen.
func (n *Node) ActionSequence(player efgdomain.Player) efgid.ActionSequence {
	if n.parent == nil {
		return efgid.NewActionSequence(nil)
	}
	parentSeq := n.parent.ActionSequence(player)
	if n.parent.kind != Player || n.parent.actingPlayer != player {
		return parentSeq
	}
	action := efgdomain.Action{Id: n.edgeActions[player]}
	return parentSeq.Extend(n.parent.AOHInfoset(player), action)
}

// --- Cumulative quantities -----------------------------------------------------

// CumulativeUtility is the per-player sum of the per-turn reward recorded
// on every ancestor edge, computed lazily from the parent chain and
// memoized (spec.md §3).
func (n *Node) CumulativeUtility() [numPlayers]float64 {
	if n.cumulativeUtility != nil {
		return *n.cumulativeUtility
	}
	var total [numPlayers]float64
	if n.parent != nil {
		total = n.parent.CumulativeUtility()
	}
	for p := 0; p < numPlayers; p++ {
		total[p] += n.edgeReward[p]
	}
	n.cumulativeUtility = &total
	return total
}

// ChanceReach is the product of chance probabilities along the path from
// root to n, computed lazily from the parent chain and memoized.
func (n *Node) ChanceReach() float64 {
	if n.chanceReach != nil {
		return *n.chanceReach
	}
	reach := 1.0
	if n.parent != nil {
		reach = n.parent.ChanceReach()
		if n.parent.kind == Chance {
			reach *= n.edgeChanceProb
		}
	}
	n.chanceReach = &reach
	return reach
}
