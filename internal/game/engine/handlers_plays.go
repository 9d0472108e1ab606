package engine

import (
	"fmt"

	"github.com/louisbranch/rspfootball/internal/game"
	"github.com/louisbranch/rspfootball/internal/game/dice"
)

func playCallHandler() *handler {
	return &handler{
		name:    "playCall",
		states:  []game.State{game.StatePlayCall},
		actions: []game.ActionName{game.ActionNameCallPlay},
		handle: func(e *Engine, g *game.Game, player game.Player, action game.Action) error {
			call := action.(game.CallPlayAction)
			play := call.Play
			g.Play = &play

			switch play {
			case game.PlayShortRun:
				g.State = game.StateShortRun
			case game.PlayLongRun:
				g.State = game.StateLongRun
			case game.PlayShortPass:
				g.State = game.StateShortPass
			case game.PlayLongPass:
				g.State = game.StateLongPass
			case game.PlayBomb:
				g.State = game.StateBomb
			default:
				return illegalActionf("unexpected play %q", play)
			}

			bothPlayersRsp(g)
			return nil
		},
	}
}

// shortRunHandler resolves both the initial short run and its continuation.
// In the continuation a defensive win degrades to a tie: the play ends with
// the yards already banked.
func shortRunHandler() *handler {
	return rspHandler("shortRun", []game.State{game.StateShortRun, game.StateShortRunCont},
		func(e *Engine, g *game.Game, winner *game.Player) error {
			opponent := g.Possession.Opponent()

			if g.State == game.StateShortRunCont && winner != nil && *winner == opponent {
				winner = nil
			}

			switch {
			case winner != nil && *winner == *g.Possession:
				g.Ballpos += 5
				g.Result = append(g.Result, game.GainResult{
					Play:   game.PlayShortRun,
					Player: *g.Possession,
					Yards:  5,
				})

				if g.Ballpos >= 100 {
					endPlay(g)
				} else {
					g.State = game.StateShortRunCont
					bothPlayersRsp(g)
				}
			case winner != nil && *winner == opponent:
				g.State = game.StateSackRoll
				g.Actions[opponent] = []game.ActionName{game.ActionNameRoll}
			default:
				endPlay(g)
			}
			return nil
		})
}

func longRunHandler() *handler {
	return rspHandler("longRun", []game.State{game.StateLongRun},
		func(e *Engine, g *game.Game, winner *game.Player) error {
			switch {
			case winner != nil && *winner == *g.Possession:
				g.State = game.StateLongRunRoll
				g.Actions[*g.Possession] = []game.ActionName{game.ActionNameRoll}
			case winner != nil && *winner == g.Possession.Opponent():
				g.State = game.StateSackRoll
				g.Actions[g.Possession.Opponent()] = []game.ActionName{game.ActionNameRoll}
			default:
				endPlay(g)
			}
			return nil
		})
}

// longRunRollHandler resolves the breakaway roll: five yards per pip, with a
// one putting the ball on the ground.
func longRunRollHandler() *handler {
	return rollHandler("longRunRoll", []game.State{game.StateLongRunRoll}, []int{1},
		func(e *Engine, g *game.Game, roll []int) error {
			face := roll[0]
			distance := face * 5
			g.Ballpos += distance
			g.Result = append(g.Result, game.GainResult{
				Play:   game.PlayLongRun,
				Player: *g.Possession,
				Yards:  distance,
			})

			if face == 1 {
				g.State = game.StateFumble
				bothPlayersRsp(g)
			} else {
				endPlay(g)
			}
			return nil
		})
}

// shortPassHandler mirrors the short run at twice the gain; a defensive win
// opens the sack-or-pick choice instead of a straight sack roll.
func shortPassHandler() *handler {
	return rspHandler("shortPass", []game.State{game.StateShortPass, game.StateShortPassCont},
		func(e *Engine, g *game.Game, winner *game.Player) error {
			opponent := g.Possession.Opponent()

			if g.State == game.StateShortPassCont && winner != nil && *winner == opponent {
				winner = nil
			}

			switch {
			case winner != nil && *winner == *g.Possession:
				g.Ballpos += 10
				g.Result = append(g.Result, game.GainResult{
					Play:   game.PlayShortPass,
					Player: *g.Possession,
					Yards:  10,
				})

				if g.Ballpos >= 100 {
					endPlay(g)
				} else {
					g.State = game.StateShortPassCont
					bothPlayersRsp(g)
				}
			case winner != nil && *winner == opponent:
				g.State = game.StateSackChoice
				g.Actions[opponent] = []game.ActionName{game.ActionNameSackChoice}
			default:
				g.Result = append(g.Result, game.IncompletePassResult{})
				endPlay(g)
			}
			return nil
		})
}

func longPassHandler() *handler {
	return rspHandler("longPass", []game.State{game.StateLongPass},
		func(e *Engine, g *game.Game, winner *game.Player) error {
			switch {
			case winner != nil && *winner == *g.Possession:
				g.State = game.StateLongPassRoll
				g.Actions[*g.Possession] = []game.ActionName{game.ActionNameRoll}
			case winner != nil && *winner == g.Possession.Opponent():
				g.State = game.StateSackChoice
				g.Actions[g.Possession.Opponent()] = []game.ActionName{game.ActionNameSackChoice}
			default:
				g.Result = append(g.Result, game.IncompletePassResult{})
				endPlay(g)
			}
			return nil
		})
}

func longPassRollHandler() *handler {
	return rollHandler("longPassRoll", []game.State{game.StateLongPassRoll}, []int{1},
		func(e *Engine, g *game.Game, roll []int) error {
			distance := 10 + roll[0]*5

			if g.Ballpos+distance >= 110 {
				g.Result = append(g.Result, game.OutOfBoundsPassResult{})
			} else {
				g.Ballpos += distance
				g.Result = append(g.Result, game.GainResult{
					Play:   game.PlayLongPass,
					Player: *g.Possession,
					Yards:  distance,
				})
			}

			endPlay(g)
			return nil
		})
}

func bombHandler() *handler {
	return rspHandler("bomb", []game.State{game.StateBomb},
		func(e *Engine, g *game.Game, winner *game.Player) error {
			opponent := g.Possession.Opponent()

			switch {
			case winner != nil && *winner == *g.Possession:
				g.State = game.StateBombRoll
				g.Actions[*g.Possession] = []game.ActionName{game.ActionNameRoll}
				g.Roll = []int{}
			case winner != nil && *winner == opponent:
				g.State = game.StateSackChoice
				g.Actions[opponent] = []game.ActionName{game.ActionNameSackChoice}
			default:
				g.Result = append(g.Result, game.IncompletePassResult{})
				endPlay(g)
			}
			return nil
		})
}

// processBombRoll accumulates one die onto the bomb sequence. Three dice
// always end the throw; an even running total forces another roll, an odd
// one offers the choice to hold.
func (e *Engine) processBombRoll(g *game.Game) {
	// Bomb rolls accumulate on the game instead of replacing the last roll.
	roll := dice.Roll(e.roll, 1)
	g.Roll = append(g.Roll, roll...)
	g.Result = append(g.Result, game.RollResult{Player: *g.Possession, Roll: roll})

	switch {
	case len(g.Roll) == 3:
		endBomb(g)
	case sumRoll(g.Roll)%2 == 0:
		g.State = game.StateBombRoll
		g.Actions[*g.Possession] = []game.ActionName{game.ActionNameRoll}
	default:
		g.State = game.StateBombChoice
		g.Actions[*g.Possession] = []game.ActionName{game.ActionNameRollAgainChoice}
	}
}

func bombRollHandler() *handler {
	return &handler{
		name:    "bombRoll",
		states:  []game.State{game.StateBombRoll},
		actions: []game.ActionName{game.ActionNameRoll},
		handle: func(e *Engine, g *game.Game, player game.Player, action game.Action) error {
			roll := action.(game.RollAction)
			if roll.Count != 1 {
				return illegalActionf("bomb roll must have count=1")
			}

			e.processBombRoll(g)
			return nil
		},
	}
}

func bombChoiceHandler() *handler {
	return &handler{
		name:    "bombChoice",
		states:  []game.State{game.StateBombChoice},
		actions: []game.ActionName{game.ActionNameRollAgainChoice},
		handle: func(e *Engine, g *game.Game, player game.Player, action game.Action) error {
			choice := action.(game.RollAgainChoiceAction)

			if choice.Choice == game.RollAgainRoll {
				e.processBombRoll(g)
			} else {
				endBomb(g)
			}
			return nil
		},
	}
}

// sackRollHandler resolves the defensive roll after winning a running play.
func sackRollHandler() *handler {
	return rollHandler("sackRoll", []game.State{game.StateSackRoll}, []int{1},
		func(e *Engine, g *game.Game, roll []int) error {
			distance, err := sackRollDistance(*g.Play, roll[0])
			if err != nil {
				return err
			}

			g.Ballpos -= distance
			g.Result = append(g.Result, game.LossResult{
				Play:   *g.Play,
				Player: *g.Possession,
				Yards:  distance,
			})

			endPlay(g)
			return nil
		})
}

func sackRollDistance(play game.Play, face int) (int, error) {
	switch play {
	case game.PlayShortRun:
		if face >= 5 {
			return 5, nil
		}
		return 0, nil
	case game.PlayLongRun:
		if face == 6 {
			return 10, nil
		}
		return 5, nil
	}
	return 0, fmt.Errorf("unexpected play %q for sack roll", play)
}

// fumbleHandler resolves the scramble after a long-run fumble. Possession
// has the advantage: a win or a tie retains the ball. Kickoff and punt
// return fumbles never reach this handler; the kicking team recovers those
// immediately.
func fumbleHandler() *handler {
	return rspHandler("fumble", []game.State{game.StateFumble},
		func(e *Engine, g *game.Game, winner *game.Player) error {
			if winner != nil && *winner == g.Possession.Opponent() {
				switchPossession(g)
				g.Result = append(g.Result, game.TurnoverResult{Type: game.TurnoverFumble})

				// A fumble can be recovered behind the recoverer's own
				// goal line.
				if g.Ballpos <= 0 {
					g.Ballpos = 20
				}

				setFirstDown(g)
				// Zero the down so endPlay's increment yields first down.
				g.Down = 0
			}

			setCallPlayState(g)
			endPlay(g)
			return nil
		})
}
