package game

// GameLength is the number of plays in a full game. The play counter is
// checked at end-of-play and end-of-PAT boundaries.
const GameLength = 80

// Player identifies a seat in a game.
type Player string

const (
	PlayerHome Player = "home"
	PlayerAway Player = "away"
)

// Opponent returns the other seat.
func (p Player) Opponent() Player {
	if p == PlayerHome {
		return PlayerAway
	}
	return PlayerHome
}

// Valid reports whether p names a real seat.
func (p Player) Valid() bool {
	return p == PlayerHome || p == PlayerAway
}

// Play enumerates the offensive play calls.
type Play string

const (
	PlayShortRun  Play = "SHORT_RUN"
	PlayLongRun   Play = "LONG_RUN"
	PlayShortPass Play = "SHORT_PASS"
	PlayLongPass  Play = "LONG_PASS"
	PlayBomb      Play = "BOMB"
)

// RspChoice is a rock-paper-scissors throw.
type RspChoice string

const (
	RspRock     RspChoice = "ROCK"
	RspPaper    RspChoice = "PAPER"
	RspScissors RspChoice = "SCISSORS"
)

// Beats reports whether c defeats other.
func (c RspChoice) Beats(other RspChoice) bool {
	switch c {
	case RspRock:
		return other == RspScissors
	case RspScissors:
		return other == RspPaper
	case RspPaper:
		return other == RspRock
	}
	return false
}

// Game is the authoritative record for a single match, keyed by ID.
//
// Optional fields use pointers so the JSON encoding preserves null for open
// seats, pending elections, and cleared play context, matching what clients
// consume.
type Game struct {
	ID      string             `json:"gameId"`
	Version int                `json:"version"`
	Players map[Player]*string `json:"players"`

	State      State   `json:"state"`
	Play       *Play   `json:"play"`
	Possession *Player `json:"possession"`
	FirstKick  *Player `json:"firstKick"`

	// Ballpos is the yard line measured from the possessing team's own
	// goal: 0 is the own goal line, 100 the opponent's. Values outside
	// [0, 100] occur transiently inside a transition.
	Ballpos   int  `json:"ballpos"`
	FirstDown *int `json:"firstDown"`
	PlayCount int  `json:"playCount"`
	Down      int  `json:"down"`

	Rsp       map[Player]*RspChoice `json:"rsp"`
	Roll      []int                 `json:"roll"`
	Score     map[Player]int        `json:"score"`
	Penalties map[Player]int        `json:"penalties"`

	Actions map[Player][]ActionName `json:"actions"`
	Result  ResultList              `json:"result"`
}

// PlayerFor resolves which seat the given user occupies, if any.
func (g *Game) PlayerFor(user string) (Player, bool) {
	for _, player := range []Player{PlayerHome, PlayerAway} {
		if seat := g.Players[player]; seat != nil && *seat == user {
			return player, true
		}
	}
	return "", false
}

// ActionAllowed reports whether the named action is in the player's
// currently permitted vocabulary.
func (g *Game) ActionAllowed(player Player, name ActionName) bool {
	for _, allowed := range g.Actions[player] {
		if allowed == name {
			return true
		}
	}
	return false
}

// New returns a fresh game in the coin-toss state with the home seat filled.
func New(id, homeUser string) *Game {
	return &Game{
		ID:      id,
		Version: 0,
		Players: map[Player]*string{
			PlayerHome: &homeUser,
			PlayerAway: nil,
		},
		State:     StateCoinToss,
		Ballpos:   35,
		PlayCount: 1,
		Down:      1,
		Rsp: map[Player]*RspChoice{
			PlayerHome: nil,
			PlayerAway: nil,
		},
		Roll: []int{},
		Score: map[Player]int{
			PlayerHome: 0,
			PlayerAway: 0,
		},
		Penalties: map[Player]int{
			PlayerHome: 2,
			PlayerAway: 2,
		},
		Actions: map[Player][]ActionName{
			PlayerHome: {ActionNameRsp},
			PlayerAway: {ActionNameRsp},
		},
		Result: ResultList{},
	}
}
