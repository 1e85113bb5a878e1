package testdomains

import (
	"strconv"

	"github.com/aicenter/gtlib2/pkg/efgdomain"
)

const (
	outcomeTie  efgdomain.ID = 0
	outcomeWin0 efgdomain.ID = 1
	outcomeWin1 efgdomain.ID = 2
)

// IIGS is incomplete-information Goofspiel: a fixed ascending sequence of
// prize cards 1..Cards is auctioned off one per round, each player
// simultaneously bidding one card from their own private hand {1..Cards}
// (without replacement); the prize's value goes to whoever bid higher, split
// 0-0 on a tie. The public observation each round is only which player won
// (or that it tied) -- the bid values stay private, so neither player can
// be sure what the other still holds. Prize order is fixed rather than
// chance-dealt, keeping the tree hand-enumerable; see DESIGN.md for why.
// It exists to exercise PublicStateCache's lattice over a genuinely
// branching public-state tree (spec.md §8's seed scenario 4).
type IIGS struct {
	Cards int
}

type iigsState struct {
	domain *IIGS
	hand   [efgdomain.NumPlayers][]efgdomain.ID
	round  int
}

func (d *IIGS) RootOutcomeDistribution() efgdomain.OutcomeDistribution {
	hand := make([]efgdomain.ID, d.Cards)
	for i := range hand {
		hand[i] = efgdomain.ID(i + 1)
	}
	return efgdomain.OutcomeDistribution{{
		Outcome: efgdomain.Outcome{
			NextState: &iigsState{
				domain: d,
				hand: [efgdomain.NumPlayers][]efgdomain.ID{
					append([]efgdomain.ID(nil), hand...),
					append([]efgdomain.ID(nil), hand...),
				},
			},
			PrivateObservations: [efgdomain.NumPlayers]efgdomain.Observation{efgdomain.NoObservation, efgdomain.NoObservation},
			PublicObservation:   efgdomain.NoObservation,
		},
		Probability: 1.0,
	}}
}

func (d *IIGS) MaxStateDepth() int     { return d.Cards }
func (d *IIGS) NumPlayers() int        { return efgdomain.NumPlayers }
func (d *IIGS) IsZeroSum() bool        { return true }
func (d *IIGS) MaxAbsUtility() float64 { return float64(d.Cards * (d.Cards + 1) / 2) }
func (d *IIGS) NoAction() efgdomain.Action           { return efgdomain.NoAction }
func (d *IIGS) NoObservation() efgdomain.Observation { return efgdomain.NoObservation }
func (d *IIGS) Info() string                         { return "iigs" }

func (s *iigsState) ActingPlayers() []efgdomain.Player {
	if s.round >= s.domain.Cards {
		return nil
	}
	return []efgdomain.Player{efgdomain.Player0, efgdomain.Player1}
}

func (s *iigsState) IsTerminal() bool { return s.round >= s.domain.Cards }

func (s *iigsState) AvailableActions(player efgdomain.Player) []efgdomain.Action {
	hand := s.hand[player]
	actions := make([]efgdomain.Action, len(hand))
	for i, card := range hand {
		actions[i] = efgdomain.Action{Id: card, Label: "card-" + strconv.Itoa(int(card))}
	}
	return actions
}

func (s *iigsState) CountAvailableActions(player efgdomain.Player) int {
	return len(s.hand[player])
}

func (s *iigsState) ActionByID(player efgdomain.Player, id efgdomain.ID) efgdomain.Action {
	for _, a := range s.AvailableActions(player) {
		if a.Id == id {
			return a
		}
	}
	return efgdomain.NoAction
}

func (s *iigsState) PerformActions(actions [efgdomain.NumPlayers]efgdomain.Action) efgdomain.OutcomeDistribution {
	prize := float64(s.round + 1)
	bid0, bid1 := actions[efgdomain.Player0].Id, actions[efgdomain.Player1].Id

	next := &iigsState{
		domain: s.domain,
		round:  s.round + 1,
		hand: [efgdomain.NumPlayers][]efgdomain.ID{
			removeCard(s.hand[efgdomain.Player0], bid0),
			removeCard(s.hand[efgdomain.Player1], bid1),
		},
	}

	var rewards [efgdomain.NumPlayers]float64
	var outcome efgdomain.ID
	switch {
	case bid0 > bid1:
		rewards[efgdomain.Player0], rewards[efgdomain.Player1] = prize, -prize
		outcome = outcomeWin0
	case bid1 > bid0:
		rewards[efgdomain.Player0], rewards[efgdomain.Player1] = -prize, prize
		outcome = outcomeWin1
	default:
		outcome = outcomeTie
	}

	return efgdomain.OutcomeDistribution{{
		Outcome: efgdomain.Outcome{
			NextState:           next,
			PrivateObservations: [efgdomain.NumPlayers]efgdomain.Observation{efgdomain.NoObservation, efgdomain.NoObservation},
			PublicObservation:   efgdomain.Observation{Id: outcome, Label: "round-outcome"},
			Rewards:             rewards,
		},
		Probability: 1.0,
	}}
}

func removeCard(hand []efgdomain.ID, card efgdomain.ID) []efgdomain.ID {
	out := make([]efgdomain.ID, 0, len(hand)-1)
	for _, c := range hand {
		if c != card {
			out = append(out, c)
		}
	}
	return out
}
