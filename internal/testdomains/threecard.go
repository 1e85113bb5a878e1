package testdomains

import "github.com/aicenter/gtlib2/pkg/efgdomain"

// ThreeCardPoker is a minimal Kuhn-poker-shaped domain: three cards ranked
// 0 < 1 < 2 are dealt one each to player0 and player1 (the third stays
// hidden), then a single betting round is played with actions Check/Bet
// and, where applicable, Fold/Call. Bet/check/fold/call are public; the
// dealt card is each player's only private information. It exists to
// exercise a genuinely branching chance node (six ordered deals), a mix of
// player-then-player sequential play, and both Fold and Call/showdown
// terminal shapes.
type ThreeCardPoker struct{}

const (
	actCheck efgdomain.ID = 0
	actBet   efgdomain.ID = 1
	actFold  efgdomain.ID = 0
	actCall  efgdomain.ID = 1
)

var checkBetActions = []efgdomain.Action{
	{Id: actCheck, Label: "check"},
	{Id: actBet, Label: "bet"},
}

var foldCallActions = []efgdomain.Action{
	{Id: actFold, Label: "fold"},
	{Id: actCall, Label: "call"},
}

type threeCardStage uint8

const (
	stageDeal threeCardStage = iota
	stageP0First
	stageP1AfterCheck
	stageP1AfterBet
	stageP0AfterCheckBet
	stageDone
)

type threeCardState struct {
	stage        threeCardStage
	card         [efgdomain.NumPlayers]efgdomain.ID
	folded       bool
	folder       efgdomain.Player
	contribution [efgdomain.NumPlayers]float64
}

func (d *ThreeCardPoker) RootOutcomeDistribution() efgdomain.OutcomeDistribution {
	var dist efgdomain.OutcomeDistribution
	deals := [][2]efgdomain.ID{{0, 1}, {0, 2}, {1, 0}, {1, 2}, {2, 0}, {2, 1}}
	for _, deal := range deals {
		st := &threeCardState{stage: stageP0First, card: [efgdomain.NumPlayers]efgdomain.ID{deal[0], deal[1]}}
		dist = append(dist, efgdomain.OutcomeAtom{
			Outcome: efgdomain.Outcome{
				NextState: st,
				PrivateObservations: [efgdomain.NumPlayers]efgdomain.Observation{
					{Id: deal[0], Label: "own-card"},
					{Id: deal[1], Label: "own-card"},
				},
				PublicObservation: efgdomain.NoObservation,
			},
			Probability: 1.0 / float64(len(deals)),
		})
	}
	return dist
}

func (d *ThreeCardPoker) MaxStateDepth() int     { return 4 }
func (d *ThreeCardPoker) NumPlayers() int        { return efgdomain.NumPlayers }
func (d *ThreeCardPoker) IsZeroSum() bool        { return true }
func (d *ThreeCardPoker) MaxAbsUtility() float64 { return 3.0 }
func (d *ThreeCardPoker) NoAction() efgdomain.Action           { return efgdomain.NoAction }
func (d *ThreeCardPoker) NoObservation() efgdomain.Observation { return efgdomain.NoObservation }
func (d *ThreeCardPoker) Info() string                         { return "three-card-poker" }

func (s *threeCardState) ActingPlayers() []efgdomain.Player {
	switch s.stage {
	case stageP0First, stageP0AfterCheckBet:
		return []efgdomain.Player{efgdomain.Player0}
	case stageP1AfterCheck, stageP1AfterBet:
		return []efgdomain.Player{efgdomain.Player1}
	default:
		return nil
	}
}

func (s *threeCardState) IsTerminal() bool { return s.stage == stageDone }

func (s *threeCardState) AvailableActions(player efgdomain.Player) []efgdomain.Action {
	switch s.stage {
	case stageP0First, stageP1AfterCheck:
		return checkBetActions
	case stageP1AfterBet, stageP0AfterCheckBet:
		return foldCallActions
	default:
		return nil
	}
}

func (s *threeCardState) CountAvailableActions(player efgdomain.Player) int {
	return len(s.AvailableActions(player))
}

func (s *threeCardState) ActionByID(player efgdomain.Player, id efgdomain.ID) efgdomain.Action {
	for _, a := range s.AvailableActions(player) {
		if a.Id == id {
			return a
		}
	}
	return efgdomain.NoAction
}

func (s *threeCardState) PerformActions(actions [efgdomain.NumPlayers]efgdomain.Action) efgdomain.OutcomeDistribution {
	next := *s
	var publicObs efgdomain.Observation
	var rewards [efgdomain.NumPlayers]float64

	switch s.stage {
	case stageP0First:
		a := actions[efgdomain.Player0]
		publicObs = efgdomain.Observation{Id: a.Id, Label: a.Label}
		if a.Id == actCheck {
			next.stage = stageP1AfterCheck
		} else {
			next.contribution[efgdomain.Player0] = 1
			next.stage = stageP1AfterBet
		}

	case stageP1AfterCheck:
		a := actions[efgdomain.Player1]
		publicObs = efgdomain.Observation{Id: a.Id, Label: a.Label}
		if a.Id == actCheck {
			next.stage = stageDone
			rewards = showdownRewards(next.card)
		} else {
			next.contribution[efgdomain.Player1] = 1
			next.stage = stageP0AfterCheckBet
		}

	case stageP1AfterBet:
		a := actions[efgdomain.Player1]
		publicObs = efgdomain.Observation{Id: a.Id, Label: a.Label}
		if a.Id == actFold {
			next.stage = stageDone
			next.folded, next.folder = true, efgdomain.Player1
			rewards[efgdomain.Player0] = 1
			rewards[efgdomain.Player1] = -1
		} else {
			next.contribution[efgdomain.Player1] = 1
			next.stage = stageDone
			rewards = showdownRewards(next.card)
		}

	case stageP0AfterCheckBet:
		a := actions[efgdomain.Player0]
		publicObs = efgdomain.Observation{Id: a.Id, Label: a.Label}
		if a.Id == actFold {
			next.stage = stageDone
			next.folded, next.folder = true, efgdomain.Player0
			rewards[efgdomain.Player0] = -1
			rewards[efgdomain.Player1] = 1
		} else {
			next.contribution[efgdomain.Player0] = 1
			next.stage = stageDone
			rewards = showdownRewards(next.card)
		}
	}

	return efgdomain.OutcomeDistribution{{
		Outcome: efgdomain.Outcome{
			NextState: &next,
			// Every action here is public, so both players' private
			// channel carries the same observation as the public one --
			// the factored-observations tuple degenerates to a single
			// broadcast value, but it must still reach both AOHs or a
			// non-acting player's infoset never advances past "no action
			// seen yet" even on branches where something public happened.
			PrivateObservations: [efgdomain.NumPlayers]efgdomain.Observation{
				publicObs, publicObs,
			},
			PublicObservation: publicObs,
			Rewards:           rewards,
		},
		Probability: 1.0,
	}}
}

func showdownRewards(card [efgdomain.NumPlayers]efgdomain.ID) [efgdomain.NumPlayers]float64 {
	if card[efgdomain.Player0] > card[efgdomain.Player1] {
		return [efgdomain.NumPlayers]float64{1, -1}
	}
	return [efgdomain.NumPlayers]float64{-1, 1}
}
