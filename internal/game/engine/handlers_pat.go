package engine

import (
	"github.com/louisbranch/rspfootball/internal/game"
)

// patChoiceHandler spots the ball at the 95 and selects the conversion
// attempt: a two-die kick for one point or an RSP contest for two.
func patChoiceHandler() *handler {
	return &handler{
		name:    "patChoice",
		states:  []game.State{game.StatePatChoice},
		actions: []game.ActionName{game.ActionNamePatChoice},
		handle: func(e *Engine, g *game.Game, player game.Player, action game.Action) error {
			choice := action.(game.PatChoiceAction)

			g.Ballpos = 95
			if choice.Choice == game.PatOnePoint {
				g.State = game.StateExtraPoint
				g.Actions[player] = []game.ActionName{game.ActionNameRoll}
			} else {
				g.State = game.StateExtraPoint2
				bothPlayersRsp(g)
			}
			return nil
		},
	}
}

// extraPointKickHandler resolves the one-point kick: two dice, good from a
// total of four.
func extraPointKickHandler() *handler {
	return rollHandler("extraPointKick", []game.State{game.StateExtraPoint}, []int{2},
		func(e *Engine, g *game.Game, roll []int) error {
			if sumRoll(roll) >= 4 {
				g.Score[*g.Possession]++
				g.Result = append(g.Result, game.ScoreResult{Type: game.ScorePat1})
			}

			endPat(g)
			return nil
		})
}

// twoPointConversionHandler resolves the two-point RSP contest; only an
// outright offensive win converts.
func twoPointConversionHandler() *handler {
	return rspHandler("twoPointConversion", []game.State{game.StateExtraPoint2},
		func(e *Engine, g *game.Game, winner *game.Player) error {
			if winner != nil && *winner == *g.Possession {
				g.Score[*g.Possession] += 2
				g.Result = append(g.Result, game.ScoreResult{Type: game.ScorePat2})
			}

			endPat(g)
			return nil
		})
}

// handlers enumerates every registered handler. New returns an error when
// two entries claim the same (state, action kind) pair.
func handlers() []*handler {
	return []*handler{
		coinTossHandler(),
		kickoffElectionHandler(),
		kickoffChoiceHandler(),
		kickoffHandler(),
		onsideKickHandler(),
		kickReturnHandler(),
		kickReturn6Handler(),
		kickReturn1Handler(),
		touchbackChoiceHandler(),
		playCallHandler(),
		shortRunHandler(),
		longRunHandler(),
		longRunRollHandler(),
		shortPassHandler(),
		longPassHandler(),
		longPassRollHandler(),
		bombHandler(),
		bombRollHandler(),
		bombChoiceHandler(),
		sackRollHandler(),
		fumbleHandler(),
		sackChoiceHandler(),
		pickRollHandler(),
		distanceRollHandler(),
		pickReturnHandler(),
		pickReturn6Handler(),
		pickTouchbackChoiceHandler(),
		patChoiceHandler(),
		extraPointKickHandler(),
		twoPointConversionHandler(),
	}
}
