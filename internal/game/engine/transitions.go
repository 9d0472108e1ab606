package engine

import (
	"github.com/louisbranch/rspfootball/internal/game"
)

// Shared transition primitives. Every handler funnels play boundaries
// through these so the ordering of possession, position, down, and log
// updates stays in one place.

// switchPossession swaps the offense and mirrors the ball position, which is
// always measured from the possessing team's own goal.
func switchPossession(g *game.Game) {
	opponent := g.Possession.Opponent()
	g.Possession = &opponent
	g.Ballpos = 100 - g.Ballpos
}

// setFirstDown grants a fresh set of downs from the current spot.
func setFirstDown(g *game.Game) {
	g.Down = 1
	firstDown := min(g.Ballpos+10, 100)
	g.FirstDown = &firstDown
}

// setCallPlayState returns the game to the play-call boundary.
func setCallPlayState(g *game.Game) {
	g.State = game.StatePlayCall
	g.Actions[*g.Possession] = []game.ActionName{game.ActionNameCallPlay, game.ActionNamePenalty}
	g.Actions[g.Possession.Opponent()] = []game.ActionName{game.ActionNamePoll, game.ActionNamePenalty}
	g.Play = nil
}

// setKickoffState spots the ball for a kickoff by the possessing team.
func setKickoffState(g *game.Game, yardline int) {
	g.Ballpos = yardline
	g.FirstDown = nil

	g.State = game.StateKickoffChoice
	g.Actions[*g.Possession] = []game.ActionName{game.ActionNameKickoffChoice}
}

func touchdown(g *game.Game) {
	g.Score[*g.Possession] += 6
	g.State = game.StatePatChoice
	g.Actions[*g.Possession] = []game.ActionName{game.ActionNamePatChoice}
	g.Actions[g.Possession.Opponent()] = []game.ActionName{game.ActionNamePoll}
	g.Result = append(g.Result, game.ScoreResult{Type: game.ScoreTouchdown})
}

func safety(g *game.Game) {
	g.Score[g.Possession.Opponent()] += 2
	g.Result = append(g.Result, game.ScoreResult{Type: game.ScoreSafety})

	if g.Ballpos <= -10 {
		g.Ballpos = -5
	}

	if g.PlayCount > game.GameLength {
		setGameOver(g)
	} else {
		// The scored-on team keeps possession: they kick from their 20.
		setKickoffState(g, 20)
	}
}

// endPlay closes out the current play: advance the counters, then resolve
// scores, game termination, and down bookkeeping in that order.
func endPlay(g *game.Game) {
	g.Play = nil
	g.PlayCount++
	g.Down++

	if g.Ballpos >= 100 {
		touchdown(g)
		return
	}

	if g.Ballpos <= 0 {
		safety(g)
		return
	}

	if g.PlayCount > game.GameLength {
		setGameOver(g)
		return
	}

	if g.FirstDown != nil && g.Ballpos >= *g.FirstDown {
		setFirstDown(g)
	} else if g.Down > 4 {
		switchPossession(g)
		setFirstDown(g)
		g.Result = append(g.Result, game.TurnoverResult{Type: game.TurnoverDowns})
	}

	setCallPlayState(g)
}

func setGameOver(g *game.Game) {
	g.State = game.StateGameOver
	g.Actions = map[game.Player][]game.ActionName{
		game.PlayerHome: {},
		game.PlayerAway: {},
	}
}

// endPat concludes a point-after attempt; the scoring team kicks off next
// unless the game is over.
func endPat(g *game.Game) {
	if g.PlayCount > game.GameLength {
		setGameOver(g)
	} else {
		setKickoffState(g, 35)
	}
}

// completeInterception advances the thrown ball to the interception spot and
// hands it to the defense. The throw can still sail out of the back of the
// end zone, in which case the pass is simply dead.
func completeInterception(g *game.Game, throwDistance int) {
	pickingPlayer := g.Possession.Opponent()

	if g.Ballpos+throwDistance >= 110 {
		g.Result = append(g.Result, game.OutOfBoundsPassResult{})
		endPlay(g)
		return
	}

	g.Ballpos += throwDistance
	if g.Ballpos >= 100 {
		g.State = game.StatePickTouchbackChoice
		g.Actions[pickingPlayer] = []game.ActionName{game.ActionNameTouchbackChoice}
	} else {
		g.State = game.StatePickReturn
		g.Actions[pickingPlayer] = []game.ActionName{game.ActionNameRoll}
	}

	g.Result = append(g.Result, game.TurnoverResult{Type: game.TurnoverPick})
	switchPossession(g)
	g.FirstDown = nil
}

// completePickReturn spots the ball after an interception return. Down is
// zeroed so endPlay's increment yields a fresh first down without charging
// the intercepting team for the play.
func completePickReturn(g *game.Game) {
	setFirstDown(g)
	g.Down = 0
	endPlay(g)
}

// endBomb resolves an accumulated bomb roll sequence: an even total is an
// incomplete pass, an odd total travels at least 35 yards.
func endBomb(g *game.Game) {
	roll := sumRoll(g.Roll)

	if roll%2 == 0 {
		g.Result = append(g.Result, game.IncompletePassResult{})
		endPlay(g)
		return
	}

	distance := max(35, 5*roll)

	if g.Ballpos+distance >= 110 {
		g.Result = append(g.Result, game.OutOfBoundsPassResult{})
	} else {
		g.Ballpos += distance
		g.Result = append(g.Result, game.GainResult{
			Play:   game.PlayBomb,
			Player: *g.Possession,
			Yards:  distance,
		})
	}

	endPlay(g)
}

func sumRoll(roll []int) int {
	total := 0
	for _, face := range roll {
		total += face
	}
	return total
}
