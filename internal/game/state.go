package game

// State is a node in the game state machine.
//
// The initial state is StateCoinToss and the terminal state is StateGameOver.
// Transitions are owned by the engine package; no other code assigns State.
type State string

const (
	StateCoinToss            State = "COIN_TOSS"
	StateKickoffElection     State = "KICKOFF_ELECTION"
	StateKickoffChoice       State = "KICKOFF_CHOICE"
	StateKickoff             State = "KICKOFF"
	StateOnsideKick          State = "ONSIDE_KICK"
	StateTouchbackChoice     State = "TOUCHBACK_CHOICE"
	StateKickReturn          State = "KICK_RETURN"
	StateKickReturn1         State = "KICK_RETURN_1"
	StateKickReturn6         State = "KICK_RETURN_6"
	StateFumble              State = "FUMBLE"
	StatePatChoice           State = "PAT_CHOICE"
	StateExtraPoint          State = "EXTRA_POINT"
	StateExtraPoint2         State = "EXTRA_POINT_2"
	StatePlayCall            State = "PLAY_CALL"
	StateShortRun            State = "SHORT_RUN"
	StateShortRunCont        State = "SHORT_RUN_CONT"
	StateLongRun             State = "LONG_RUN"
	StateLongRunRoll         State = "LONG_RUN_ROLL"
	StateShortPass           State = "SHORT_PASS"
	StateShortPassCont       State = "SHORT_PASS_CONT"
	StateLongPass            State = "LONG_PASS"
	StateLongPassRoll        State = "LONG_PASS_ROLL"
	StateBomb                State = "BOMB"
	StateBombRoll            State = "BOMB_ROLL"
	StateBombChoice          State = "BOMB_CHOICE"
	StateSackRoll            State = "SACK_ROLL"
	StateSackChoice          State = "SACK_CHOICE"
	StatePickRoll            State = "PICK_ROLL"
	StateDistanceRoll        State = "DISTANCE_ROLL"
	StatePickReturn          State = "PICK_RETURN"
	StatePickReturn6         State = "PICK_RETURN_6"
	StatePickTouchbackChoice State = "PICK_TOUCHBACK_CHOICE"
	StateGameOver            State = "GAME_OVER"
)
