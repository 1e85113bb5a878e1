package efgdomain

// Outcome is one atom of a state transition: the resulting world-state, the
// per-player private observations, the shared public observation, and the
// per-turn (not cumulative) reward each player collects on this transition.
//
// Domains must set PrivateObservations/PublicObservation explicitly to
// NoObservation when nothing is revealed -- the zero Observation{} is a
// real observation with Id 0, not the sentinel (NoObservationID is the
// maximum ID value, matching NoActionID), so leaving these fields unset
// silently fabricates a spurious observation.
type Outcome struct {
	NextState           State
	PrivateObservations [NumPlayers]Observation
	PublicObservation   Observation
	Rewards             [NumPlayers]float64
}

// OutcomeAtom pairs an Outcome with its probability. A OutcomeDistribution is
// a slice of these; probabilities must sum to exactly 1 under the domain's
// own normalization (spec.md's domain contract).
type OutcomeAtom struct {
	Outcome     Outcome
	Probability float64
}

// OutcomeDistribution is the return type of both the domain's root factory
// and a state's PerformActions: a finite support over Outcome atoms.
type OutcomeDistribution []OutcomeAtom

// State is an immutable world-state, the "W" of a factored-observation
// game. States are conceptually shared by every EFG node that references
// them; nothing in this package mutates a State in place.
type State interface {
	// ActingPlayers lists who acts next. Empty means this is a turn with no
	// decision -- either the game is over (IsTerminal reports true) or the
	// transition is purely environmental and must be represented by a
	// chance-node insertion (if PerformActions([no_action...]) is
	// stochastic) or a direct advance (if it is deterministic).
	ActingPlayers() []Player

	// IsTerminal reports whether no further transitions are possible. Per
	// spec.md §3, cumulative utility at a terminal node is derived by the
	// tree layer (package efg) from the per-turn Outcome.Rewards recorded
	// on each edge from root, not read back off the state.
	IsTerminal() bool

	// AvailableActions lists the actions player may choose from. Only
	// valid for a player that is currently acting (see ActingPlayers).
	AvailableActions(player Player) []Action

	// CountAvailableActions must agree with len(AvailableActions(player));
	// provided separately so callers can size buffers without
	// materializing the action list.
	CountAvailableActions(player Player) int

	// ActionByID looks up a single action by its dense id without
	// materializing the full AvailableActions slice. Optional: domains that
	// cannot do this cheaper than enumerating may implement it by scanning
	// AvailableActions.
	ActionByID(player Player, id ID) Action

	// PerformActions is the transition operator: given one chosen action
	// per acting player (non-acting players carry efgdomain.NoAction), it
	// returns the resulting OutcomeDistribution. It must be pure: the same
	// joint action vector always produces the same distribution, byte-equal,
	// every time -- callers (the cache, the gadget) rely on this for
	// determinism across rebuilds.
	PerformActions(actions [NumPlayers]Action) OutcomeDistribution
}

// Domain is a factory for the root OutcomeDistribution together with the
// fixed facts every algorithm needs about the game: depth bound, player
// count, zero-sumness, utility range, and the two sentinel values.
type Domain interface {
	// RootOutcomeDistribution is the distribution over the game's opening
	// moves (chance deals, or a single deterministic atom if the game has
	// no chance move at the root).
	RootOutcomeDistribution() OutcomeDistribution

	// MaxStateDepth bounds how many state transitions (not EFG node depth,
	// which also counts inserted chance/simultaneous-move nodes) the game
	// can take.
	MaxStateDepth() int

	// NumPlayers is always efgdomain.NumPlayers (2) for the zero-sum core.
	NumPlayers() int

	// IsZeroSum reports whether per-player utilities always sum to zero.
	IsZeroSum() bool

	// MaxAbsUtility is an upper bound on the absolute value of any
	// cumulative per-player utility this domain can produce.
	MaxAbsUtility() float64

	// NoAction and NoObservation are the domain's sentinel values; they are
	// always efgdomain.NoAction / efgdomain.NoObservation, exposed here so
	// callers never have to special-case the identifiers themselves.
	NoAction() Action
	NoObservation() Observation

	// Info is a human-readable one-line descriptor of the domain, used only
	// for logging.
	Info() string
}

// MaxUtility and MinUtility are convenience derivations from
// Domain.MaxAbsUtility, useful wherever a signed range (not just the
// absolute bound) is needed, e.g. clamping gadget-terminal utilities.
func MaxUtility(d Domain) float64 { return d.MaxAbsUtility() }
func MinUtility(d Domain) float64 { return -d.MaxAbsUtility() }
