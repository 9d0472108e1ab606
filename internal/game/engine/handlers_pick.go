package engine

import (
	"fmt"

	"github.com/louisbranch/rspfootball/internal/game"
)

// sackChoiceHandler lets the defense take a guaranteed sack or gamble on an
// interception after winning a passing play.
func sackChoiceHandler() *handler {
	return &handler{
		name:    "sackChoice",
		states:  []game.State{game.StateSackChoice},
		actions: []game.ActionName{game.ActionNameSackChoice},
		handle: func(e *Engine, g *game.Game, player game.Player, action game.Action) error {
			choice := action.(game.SackChoiceAction)

			if choice.Choice == game.SackChoicePick {
				g.State = game.StatePickRoll
				g.Actions[player] = []game.ActionName{game.ActionNameRoll}
				return nil
			}

			yards, err := sackChoiceYards(*g.Play)
			if err != nil {
				return err
			}

			g.Ballpos -= yards
			g.Result = append(g.Result, game.LossResult{
				Play:   *g.Play,
				Player: *g.Possession,
				Yards:  yards,
			})

			endPlay(g)
			return nil
		},
	}
}

func sackChoiceYards(play game.Play) (int, error) {
	switch play {
	case game.PlayShortPass:
		return 5, nil
	case game.PlayLongPass:
		return 10, nil
	case game.PlayBomb:
		return 15, nil
	}
	return 0, fmt.Errorf("unexpected play %q for sack choice", play)
}

// pickRollHandler resolves the interception attempt. Deeper throws are
// easier to pick: a short pass needs a six, a long pass five or better, a
// bomb any even face.
func pickRollHandler() *handler {
	return rollHandler("pickRoll", []game.State{game.StatePickRoll}, []int{1},
		func(e *Engine, g *game.Game, roll []int) error {
			success, err := pickSuccessful(*g.Play, roll[0])
			if err != nil {
				return err
			}

			if !success {
				endPlay(g)
				g.Result = append(g.Result, game.IncompletePassResult{})
				return nil
			}

			if *g.Play == game.PlayShortPass {
				completeInterception(g, 10)
				return nil
			}

			g.State = game.StateDistanceRoll
			g.Actions[*g.Possession] = []game.ActionName{game.ActionNameRoll}
			return nil
		})
}

func pickSuccessful(play game.Play, face int) (bool, error) {
	switch play {
	case game.PlayShortPass:
		return face == 6, nil
	case game.PlayLongPass:
		return face >= 5, nil
	case game.PlayBomb:
		return face%2 == 0, nil
	}
	return false, fmt.Errorf("unexpected play %q for pick roll", play)
}

// distanceRollHandler has the offense roll how far the intercepted throw
// travelled: one die for a long pass, three for a bomb.
func distanceRollHandler() *handler {
	return rollHandler("distanceRoll", []game.State{game.StateDistanceRoll}, []int{1, 3},
		func(e *Engine, g *game.Game, roll []int) error {
			distance, err := throwDistance(*g.Play, roll)
			if err != nil {
				return err
			}
			completeInterception(g, distance)
			return nil
		})
}

func throwDistance(play game.Play, roll []int) (int, error) {
	switch play {
	case game.PlayLongPass:
		if len(roll) != 1 {
			return 0, illegalActionf("distance roll for a long pass must be 1 die")
		}
		return 10 + 5*sumRoll(roll), nil
	case game.PlayBomb:
		if len(roll) != 3 {
			return 0, illegalActionf("distance roll for a bomb must be 3 dice")
		}
		return 5 * sumRoll(roll), nil
	}
	return 0, fmt.Errorf("unexpected play %q for distance roll", play)
}

func pickReturnHandler() *handler {
	return rollHandler("pickReturn", []game.State{game.StatePickReturn}, []int{1},
		func(e *Engine, g *game.Game, roll []int) error {
			face := roll[0]

			g.Ballpos += 5 * face

			if face == 6 {
				g.State = game.StatePickReturn6
				g.Actions[*g.Possession] = []game.ActionName{game.ActionNameRoll}
				return nil
			}

			completePickReturn(g)
			return nil
		})
}

// pickReturn6Handler resolves the bonus return roll: a second six takes it
// to the house through endPlay's touchdown branch.
func pickReturn6Handler() *handler {
	return rollHandler("pickReturn6", []game.State{game.StatePickReturn6}, []int{1},
		func(e *Engine, g *game.Game, roll []int) error {
			if roll[0] == 6 {
				g.Ballpos = 100
				endPlay(g)
				return nil
			}

			completePickReturn(g)
			return nil
		})
}

func pickTouchbackChoiceHandler() *handler {
	return &handler{
		name:    "pickTouchbackChoice",
		states:  []game.State{game.StatePickTouchbackChoice},
		actions: []game.ActionName{game.ActionNameTouchbackChoice},
		handle: func(e *Engine, g *game.Game, player game.Player, action game.Action) error {
			choice := action.(game.TouchbackChoiceAction)

			if choice.Choice == game.TouchbackAccept {
				g.Result = append(g.Result, game.TouchbackResult{})
				g.Ballpos = 20
				completePickReturn(g)
				return nil
			}

			g.State = game.StatePickReturn
			g.Actions[player] = []game.ActionName{game.ActionNameRoll}
			return nil
		},
	}
}
