package testdomains

import "github.com/aicenter/gtlib2/pkg/efgdomain"

// ThreeWayChance is a single chance node with three outcomes at fixed
// probabilities 0.2/0.3/0.5, each immediately terminal with a distinct
// zero-sum payoff. No player ever acts. It exists to exercise a gadget
// built over an exact, hand-checkable chance distribution (spec.md §8's
// seed scenario 5), where the root's chance probabilities must reappear
// unchanged as the gadget's reach-weighted edge probabilities.
type ThreeWayChance struct{}

type threeWayState struct {
	outcome int
}

func (d *ThreeWayChance) RootOutcomeDistribution() efgdomain.OutcomeDistribution {
	probs := []float64{0.2, 0.3, 0.5}
	var dist efgdomain.OutcomeDistribution
	for i, p := range probs {
		dist = append(dist, efgdomain.OutcomeAtom{
			Outcome: efgdomain.Outcome{
				NextState:           &threeWayState{outcome: i},
				PrivateObservations: [efgdomain.NumPlayers]efgdomain.Observation{efgdomain.NoObservation, efgdomain.NoObservation},
				PublicObservation:   efgdomain.Observation{Id: efgdomain.ID(i), Label: "outcome"},
				Rewards:             outcomeUtility(i),
			},
			Probability: p,
		})
	}
	return dist
}

func (d *ThreeWayChance) MaxStateDepth() int     { return 1 }
func (d *ThreeWayChance) NumPlayers() int        { return efgdomain.NumPlayers }
func (d *ThreeWayChance) IsZeroSum() bool        { return true }
func (d *ThreeWayChance) MaxAbsUtility() float64 { return 1.0 }
func (d *ThreeWayChance) NoAction() efgdomain.Action           { return efgdomain.NoAction }
func (d *ThreeWayChance) NoObservation() efgdomain.Observation { return efgdomain.NoObservation }
func (d *ThreeWayChance) Info() string                         { return "three-way-chance" }

func (s *threeWayState) ActingPlayers() []efgdomain.Player { return nil }
func (s *threeWayState) IsTerminal() bool                  { return true }

func (s *threeWayState) AvailableActions(player efgdomain.Player) []efgdomain.Action { return nil }
func (s *threeWayState) CountAvailableActions(player efgdomain.Player) int           { return 0 }
func (s *threeWayState) ActionByID(player efgdomain.Player, id efgdomain.ID) efgdomain.Action {
	return efgdomain.NoAction
}

func (s *threeWayState) PerformActions(actions [efgdomain.NumPlayers]efgdomain.Action) efgdomain.OutcomeDistribution {
	return nil
}

// outcomeUtility returns the zero-sum payoff for a terminal outcome, distinct
// per branch so the three branches are never confused in an assertion.
func outcomeUtility(outcome int) [efgdomain.NumPlayers]float64 {
	v := float64(outcome + 1)
	return [efgdomain.NumPlayers]float64{v, -v}
}
