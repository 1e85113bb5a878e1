// Package testdomains provides small, fully deterministic efgdomain.Domain
// implementations used only by this module's own tests to exercise the
// tree/cache/gadget invariants spec.md §8 describes -- never imported by
// library code.
package testdomains

import "github.com/aicenter/gtlib2/pkg/efgdomain"

const (
	heads efgdomain.ID = 0
	tails efgdomain.ID = 1
)

var pennyActions = []efgdomain.Action{
	{Id: heads, Label: "heads"},
	{Id: tails, Label: "tails"},
}

// MatchingPennies is the textbook 2-action zero-sum game: player0 wins 1
// (player1 loses 1) if the two choices match, loses 1 otherwise. Simultaneous
// selects whether the two players choose within one simultaneous round
// (ActingPlayers returns both at once) or player0 moves first with
// player0's choice hidden from player1's observation either way -- in both
// modes player1 never observes player0's action before choosing, so the two
// variants differ only in tree construction path (the efg package's
// simultaneous-round machinery vs. its plain sequential-turn path), not in
// the resulting information structure.
type MatchingPennies struct {
	Simultaneous bool
}

type penniesState struct {
	domain          *MatchingPennies
	player0Chose    bool
	player0Action   efgdomain.ID
	player1Chose    bool
	player1Action   efgdomain.ID
}

func (d *MatchingPennies) RootOutcomeDistribution() efgdomain.OutcomeDistribution {
	return efgdomain.OutcomeDistribution{{
		Outcome: efgdomain.Outcome{
			NextState: &penniesState{domain: d},
			PrivateObservations: [efgdomain.NumPlayers]efgdomain.Observation{
				efgdomain.NoObservation, efgdomain.NoObservation,
			},
			PublicObservation: efgdomain.NoObservation,
		},
		Probability: 1.0,
	}}
}

func (d *MatchingPennies) MaxStateDepth() int     { return 2 }
func (d *MatchingPennies) NumPlayers() int        { return efgdomain.NumPlayers }
func (d *MatchingPennies) IsZeroSum() bool        { return true }
func (d *MatchingPennies) MaxAbsUtility() float64 { return 1.0 }
func (d *MatchingPennies) NoAction() efgdomain.Action           { return efgdomain.NoAction }
func (d *MatchingPennies) NoObservation() efgdomain.Observation { return efgdomain.NoObservation }
func (d *MatchingPennies) Info() string {
	if d.Simultaneous {
		return "matching-pennies(simultaneous)"
	}
	return "matching-pennies(alternating)"
}

func (s *penniesState) ActingPlayers() []efgdomain.Player {
	if s.player0Chose && s.player1Chose {
		return nil
	}
	if s.domain.Simultaneous && !s.player0Chose && !s.player1Chose {
		return []efgdomain.Player{efgdomain.Player0, efgdomain.Player1}
	}
	if !s.player0Chose {
		return []efgdomain.Player{efgdomain.Player0}
	}
	return []efgdomain.Player{efgdomain.Player1}
}

func (s *penniesState) IsTerminal() bool { return s.player0Chose && s.player1Chose }

func (s *penniesState) AvailableActions(efgdomain.Player) []efgdomain.Action { return pennyActions }

func (s *penniesState) CountAvailableActions(efgdomain.Player) int { return len(pennyActions) }

func (s *penniesState) ActionByID(_ efgdomain.Player, id efgdomain.ID) efgdomain.Action {
	return pennyActions[id]
}

func (s *penniesState) PerformActions(actions [efgdomain.NumPlayers]efgdomain.Action) efgdomain.OutcomeDistribution {
	next := *s
	if !actions[efgdomain.Player0].IsNoAction() {
		next.player0Chose = true
		next.player0Action = actions[efgdomain.Player0].Id
	}
	if !actions[efgdomain.Player1].IsNoAction() {
		next.player1Chose = true
		next.player1Action = actions[efgdomain.Player1].Id
	}

	var rewards [efgdomain.NumPlayers]float64
	if next.player0Chose && next.player1Chose {
		if next.player0Action == next.player1Action {
			rewards[efgdomain.Player0], rewards[efgdomain.Player1] = 1, -1
		} else {
			rewards[efgdomain.Player0], rewards[efgdomain.Player1] = -1, 1
		}
	}

	return efgdomain.OutcomeDistribution{{
		Outcome: efgdomain.Outcome{
			NextState: &next,
			PrivateObservations: [efgdomain.NumPlayers]efgdomain.Observation{
				efgdomain.NoObservation, efgdomain.NoObservation,
			},
			PublicObservation: efgdomain.NoObservation,
			Rewards:           rewards,
		},
		Probability: 1.0,
	}}
}
