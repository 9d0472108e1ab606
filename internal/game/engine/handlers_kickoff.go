package engine

import (
	"github.com/louisbranch/rspfootball/internal/game"
)

// coinTossHandler resolves the opening rock-paper-scissors contest. A tie is
// a redo; the winner elects to kick or receive.
func coinTossHandler() *handler {
	return rspHandler("coinToss", []game.State{game.StateCoinToss},
		func(e *Engine, g *game.Game, winner *game.Player) error {
			if winner == nil {
				bothPlayersRsp(g)
				return nil
			}
			g.State = game.StateKickoffElection
			g.Actions[*winner] = []game.ActionName{game.ActionNameKickoffElection}
			g.Actions[winner.Opponent()] = []game.ActionName{game.ActionNamePoll}
			return nil
		})
}

func kickoffElectionHandler() *handler {
	return &handler{
		name:    "kickoffElection",
		states:  []game.State{game.StateKickoffElection},
		actions: []game.ActionName{game.ActionNameKickoffElection},
		handle: func(e *Engine, g *game.Game, player game.Player, action game.Action) error {
			election := action.(game.KickoffElectionAction)

			kicker := player
			if election.Choice == game.ElectionRecieve {
				kicker = player.Opponent()
			}

			g.FirstKick = &kicker
			possession := kicker
			g.Possession = &possession
			g.Result = append(g.Result, game.KickoffElectionResult{Choice: election.Choice})

			setKickoffState(g, 35)
			return nil
		},
	}
}

func kickoffChoiceHandler() *handler {
	return &handler{
		name:    "kickoffChoice",
		states:  []game.State{game.StateKickoffChoice},
		actions: []game.ActionName{game.ActionNameKickoffChoice},
		handle: func(e *Engine, g *game.Game, player game.Player, action game.Action) error {
			choice := action.(game.KickoffChoiceAction)

			if choice.Choice == game.KickoffRegular {
				g.State = game.StateKickoff
			} else {
				g.State = game.StateOnsideKick
			}

			g.Actions[player] = []game.ActionName{game.ActionNameRoll}
			return nil
		},
	}
}

// kickoffHandler resolves a regular three-die kickoff. A short kick is out
// of bounds; a deep kick becomes a touchback or a live return.
func kickoffHandler() *handler {
	return rollHandler("kickoff", []game.State{game.StateKickoff}, []int{3},
		func(e *Engine, g *game.Game, roll []int) error {
			// A punt can also reach TOUCHBACK_CHOICE; clearing the play
			// here marks that the eventual return does not end a play.
			g.Play = nil

			g.Ballpos += 5 * sumRoll(roll)

			switchPossession(g)

			switch {
			case sumRoll(roll) <= 8:
				g.Result = append(g.Result, game.OutOfBoundsKickResult{})
				g.Ballpos = 40
				setFirstDown(g)
				setCallPlayState(g)
			case g.Ballpos <= -10:
				g.Ballpos = 20
				setFirstDown(g)
				setCallPlayState(g)
			case g.Ballpos <= 0:
				g.State = game.StateTouchbackChoice
				g.Actions[*g.Possession] = []game.ActionName{game.ActionNameTouchbackChoice}
			default:
				g.State = game.StateKickReturn
				g.Actions[*g.Possession] = []game.ActionName{game.ActionNameRoll}
			}
			return nil
		})
}

// onsideKickHandler resolves a two-die onside kick; a total over 5 keeps the
// ball with the receiving team.
func onsideKickHandler() *handler {
	return rollHandler("onsideKick", []game.State{game.StateOnsideKick}, []int{2},
		func(e *Engine, g *game.Game, roll []int) error {
			g.Ballpos += 10

			if sumRoll(roll) > 5 {
				switchPossession(g)
			}

			setCallPlayState(g)
			setFirstDown(g)
			return nil
		})
}

func kickReturnHandler() *handler {
	return rollHandler("kickReturn", []game.State{game.StateKickReturn}, []int{1},
		func(e *Engine, g *game.Game, roll []int) error {
			face := roll[0]

			g.Ballpos += 5 * face

			switch face {
			case 1:
				g.State = game.StateKickReturn1
				g.Actions[*g.Possession] = []game.ActionName{game.ActionNameRollAgainChoice}
			case 6:
				g.State = game.StateKickReturn6
				g.Actions[*g.Possession] = []game.ActionName{game.ActionNameRoll}
			default:
				setCallPlayState(g)
				setFirstDown(g)
			}
			return nil
		})
}

// kickReturn6Handler gives a returner who rolled a six a shot at the house:
// a second six is a touchdown.
func kickReturn6Handler() *handler {
	return rollHandler("kickReturn6", []game.State{game.StateKickReturn6}, []int{1},
		func(e *Engine, g *game.Game, roll []int) error {
			face := roll[0]

			if face == 6 {
				touchdown(g)
				return nil
			}

			g.Ballpos += 5 * face
			setFirstDown(g)
			setCallPlayState(g)
			return nil
		})
}

// kickReturn1Handler lets a returner who rolled a one press their luck: a
// second one is a fumble recovered by the kicking team.
func kickReturn1Handler() *handler {
	return &handler{
		name:    "kickReturn1",
		states:  []game.State{game.StateKickReturn1},
		actions: []game.ActionName{game.ActionNameRollAgainChoice},
		handle: func(e *Engine, g *game.Game, player game.Player, action game.Action) error {
			choice := action.(game.RollAgainChoiceAction)

			if choice.Choice == game.RollAgainHold {
				setCallPlayState(g)
				setFirstDown(g)
				return nil
			}

			roll := e.rollDice(g, player, 1)
			face := roll[0]
			g.Ballpos += 5 * face

			if face == 1 {
				switchPossession(g)
				g.Result = append(g.Result, game.TurnoverResult{Type: game.TurnoverFumble})
			}

			setCallPlayState(g)
			setFirstDown(g)
			return nil
		},
	}
}

func touchbackChoiceHandler() *handler {
	return &handler{
		name:    "touchbackChoice",
		states:  []game.State{game.StateTouchbackChoice},
		actions: []game.ActionName{game.ActionNameTouchbackChoice},
		handle: func(e *Engine, g *game.Game, player game.Player, action game.Action) error {
			choice := action.(game.TouchbackChoiceAction)

			if choice.Choice == game.TouchbackAccept {
				g.Ballpos = 20
				setFirstDown(g)
				setCallPlayState(g)
				return nil
			}

			// A punt can end with a kick return; clear the play so the
			// return does not close one out.
			g.Play = nil
			g.State = game.StateKickReturn
			g.Actions[player] = []game.ActionName{game.ActionNameRoll}
			return nil
		},
	}
}
