package efgdomain

import (
	"github.com/gomlx/exceptions"
)

// CheckContract validates one of the domain-contract invariants spec.md §7
// classifies as "domain contract violations": that CountAvailableActions
// agrees with len(AvailableActions). The other one, that a distribution's
// probabilities sum to 1, is checked by CheckDistribution. It is a debug-mode assertion:
// callers gate it behind their own debug flag (e.g. a build tag or a
// verbosity check) rather than paying for it on every node expansion.
func CheckContract(state State, player Player) {
	n := state.CountAvailableActions(player)
	actions := state.AvailableActions(player)
	if n != len(actions) {
		exceptions.Panicf(
			"domain contract violation: CountAvailableActions(%s)=%d but AvailableActions(%s) has %d elements",
			player, n, player, len(actions))
	}
}

const probabilitySumTolerance = 1e-9

// CheckDistribution validates that dist's probabilities sum to 1.
func CheckDistribution(dist OutcomeDistribution) {
	var sum float64
	for _, atom := range dist {
		sum += atom.Probability
	}
	if sum < 1-probabilitySumTolerance || sum > 1+probabilitySumTolerance {
		exceptions.Panicf("domain contract violation: outcome distribution probabilities sum to %.9g, want 1", sum)
	}
}
