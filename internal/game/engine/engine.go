package engine

import (
	"fmt"
	"slices"

	"github.com/louisbranch/rspfootball/internal/game"
	"github.com/louisbranch/rspfootball/internal/game/dice"
)

// handler couples the states and action kinds it serves with the mutation it
// performs. Handlers are registered once at startup; the registry rejects two
// handlers claiming the same (state, action kind) pair.
type handler struct {
	name    string
	states  []game.State
	actions []game.ActionName
	handle  func(e *Engine, g *game.Game, player game.Player, action game.Action) error
}

type registryKey struct {
	state  game.State
	action game.ActionName
}

// Engine dispatches submitted actions to their handler and rolls dice
// through the injected roller.
type Engine struct {
	roll     dice.Roller
	registry map[registryKey]*handler
}

// New builds the dispatch registry. A duplicate (state, action kind)
// registration is a programming error and fails startup.
func New(roll dice.Roller) (*Engine, error) {
	e := &Engine{
		roll:     roll,
		registry: make(map[registryKey]*handler),
	}

	for _, h := range handlers() {
		for _, state := range h.states {
			for _, action := range h.actions {
				key := registryKey{state: state, action: action}
				if existing, ok := e.registry[key]; ok {
					return nil, fmt.Errorf("handlers %s and %s both claim state %s action %s",
						existing.name, h.name, state, action)
				}
				e.registry[key] = h
			}
		}
	}

	return e, nil
}

// Dispatch routes the action to the handler registered for the game's
// current state. The caller has already verified the action is in the
// player's permitted set, so a missing handler is a server fault.
func (e *Engine) Dispatch(g *game.Game, player game.Player, action game.Action) error {
	h, ok := e.registry[registryKey{state: g.State, action: action.Name()}]
	if !ok {
		return fmt.Errorf("%w: state %s, action %s", ErrNoHandler, g.State, action.Name())
	}
	return h.handle(e, g, player, action)
}

// rollDice rolls count dice, records them as the game's current roll, and
// logs a ROLL result for the acting player.
func (e *Engine) rollDice(g *game.Game, player game.Player, count int) []int {
	roll := dice.Roll(e.roll, count)
	g.Roll = roll
	g.Result = append(g.Result, game.RollResult{Player: player, Roll: roll})
	return roll
}

// resolveRsp records the submitter's throw. The first throw of a pair parks
// the game until the opponent responds; the second consumes both throws,
// logs them, and hands the winner (nil on a tie) to resolved.
func (e *Engine) resolveRsp(g *game.Game, player game.Player, choice game.RspChoice, resolved func(winner *game.Player) error) error {
	g.Rsp[player] = &choice

	opponent := player.Opponent()
	if g.Rsp[opponent] == nil {
		g.Actions[opponent] = []game.ActionName{game.ActionNameRsp}
		return nil
	}

	home, away := *g.Rsp[game.PlayerHome], *g.Rsp[game.PlayerAway]
	g.Result = append(g.Result, game.RspResult{Home: home, Away: away})
	g.Rsp[game.PlayerHome] = nil
	g.Rsp[game.PlayerAway] = nil

	return resolved(rspWinner(home, away))
}

// rspWinner returns the winning seat, or nil on a tie.
func rspWinner(home, away game.RspChoice) *game.Player {
	if home == away {
		return nil
	}
	winner := game.PlayerAway
	if home.Beats(away) {
		winner = game.PlayerHome
	}
	return &winner
}

// rspHandler adapts a winner-resolution function into a handler for states
// resolved by a rock-paper-scissors contest.
func rspHandler(name string, states []game.State, resolve func(e *Engine, g *game.Game, winner *game.Player) error) *handler {
	return &handler{
		name:    name,
		states:  states,
		actions: []game.ActionName{game.ActionNameRsp},
		handle: func(e *Engine, g *game.Game, player game.Player, action game.Action) error {
			rsp := action.(game.RspAction)
			return e.resolveRsp(g, player, rsp.Choice, func(winner *game.Player) error {
				return resolve(e, g, winner)
			})
		},
	}
}

// rollHandler adapts a roll-resolution function into a handler that
// validates the requested die count before rolling.
func rollHandler(name string, states []game.State, allowedCounts []int, resolve func(e *Engine, g *game.Game, roll []int) error) *handler {
	return &handler{
		name:    name,
		states:  states,
		actions: []game.ActionName{game.ActionNameRoll},
		handle: func(e *Engine, g *game.Game, player game.Player, action game.Action) error {
			rollAction := action.(game.RollAction)
			if !slices.Contains(allowedCounts, rollAction.Count) {
				return illegalActionf("must roll %v dice in state %s", allowedCounts, g.State)
			}
			roll := e.rollDice(g, player, rollAction.Count)
			return resolve(e, g, roll)
		},
	}
}

func bothPlayersRsp(g *game.Game) {
	g.Actions = map[game.Player][]game.ActionName{
		game.PlayerHome: {game.ActionNameRsp},
		game.PlayerAway: {game.ActionNameRsp},
	}
}
