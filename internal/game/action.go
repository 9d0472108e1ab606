package game

import (
	"encoding/json"
	"fmt"
)

// ActionName is the discriminator tag carried by every submitted action. It
// doubles as the token stored in a game's permitted-action sets.
type ActionName string

const (
	ActionNameRsp             ActionName = "RSP"
	ActionNameRoll            ActionName = "ROLL"
	ActionNameKickoffElection ActionName = "KICKOFF_ELECTION"
	ActionNameKickoffChoice   ActionName = "KICKOFF_CHOICE"
	ActionNameCallPlay        ActionName = "CALL_PLAY"
	ActionNameTouchbackChoice ActionName = "TOUCHBACK_CHOICE"
	ActionNameRollAgainChoice ActionName = "ROLL_AGAIN_CHOICE"
	ActionNameSackChoice      ActionName = "SACK_CHOICE"
	ActionNamePatChoice       ActionName = "PAT_CHOICE"

	// ActionNamePoll appears in permitted sets so clients know they may
	// only observe; the polling endpoint never routes through the action
	// pipeline.
	ActionNamePoll ActionName = "POLL"
	// ActionNamePenalty is reserved in the permitted sets at play-call
	// boundaries. No action type carries it, so submitting it fails to
	// decode and is rejected as a client error.
	ActionNamePenalty ActionName = "PENALTY"
)

// Action is one submitted move in the game. Concrete types carry the payload
// for their discriminator.
type Action interface {
	// Name returns the discriminator used for permitted-action checks and
	// handler dispatch.
	Name() ActionName
}

// KickoffElectionChoice selects kicking or receiving after the coin toss.
type KickoffElectionChoice string

const (
	ElectionKick KickoffElectionChoice = "KICK"
	// ElectionRecieve carries the original wire spelling; clients depend
	// on it.
	ElectionRecieve KickoffElectionChoice = "RECIEVE"
)

// KickoffChoice selects the kind of kickoff.
type KickoffChoice string

const (
	KickoffRegular KickoffChoice = "REGULAR"
	KickoffOnside  KickoffChoice = "ONSIDE"
)

// TouchbackChoice accepts the touchback spot or elects a live return.
type TouchbackChoice string

const (
	TouchbackAccept TouchbackChoice = "TOUCHBACK"
	TouchbackReturn TouchbackChoice = "RETURN"
)

// RollAgainChoice continues or stops an optional roll sequence.
type RollAgainChoice string

const (
	RollAgainRoll RollAgainChoice = "ROLL"
	RollAgainHold RollAgainChoice = "HOLD"
)

// SackChoice lets the defense take the sack or attempt an interception.
type SackChoice string

const (
	SackChoiceSack SackChoice = "SACK"
	SackChoicePick SackChoice = "PICK"
)

// PatChoice selects the point-after attempt.
type PatChoice string

const (
	PatOnePoint PatChoice = "ONE_POINT"
	PatTwoPoint PatChoice = "TWO_POINT"
)

// RspAction throws rock, paper, or scissors.
type RspAction struct {
	Choice RspChoice `json:"choice"`
}

func (RspAction) Name() ActionName { return ActionNameRsp }

// RollAction rolls the requested number of dice.
type RollAction struct {
	Count int `json:"count"`
}

func (RollAction) Name() ActionName { return ActionNameRoll }

// KickoffElectionAction is the coin-toss winner's kick-or-receive election.
type KickoffElectionAction struct {
	Choice KickoffElectionChoice `json:"choice"`
}

func (KickoffElectionAction) Name() ActionName { return ActionNameKickoffElection }

// KickoffChoiceAction picks a regular or onside kickoff.
type KickoffChoiceAction struct {
	Choice KickoffChoice `json:"choice"`
}

func (KickoffChoiceAction) Name() ActionName { return ActionNameKickoffChoice }

// CallPlayAction calls the next offensive play.
type CallPlayAction struct {
	Play Play `json:"play"`
}

func (CallPlayAction) Name() ActionName { return ActionNameCallPlay }

// TouchbackChoiceAction resolves a touchback election.
type TouchbackChoiceAction struct {
	Choice TouchbackChoice `json:"choice"`
}

func (TouchbackChoiceAction) Name() ActionName { return ActionNameTouchbackChoice }

// RollAgainChoiceAction resolves an optional re-roll.
type RollAgainChoiceAction struct {
	Choice RollAgainChoice `json:"choice"`
}

func (RollAgainChoiceAction) Name() ActionName { return ActionNameRollAgainChoice }

// SackChoiceAction resolves the defense's sack-or-pick decision.
type SackChoiceAction struct {
	Choice SackChoice `json:"choice"`
}

func (SackChoiceAction) Name() ActionName { return ActionNameSackChoice }

// PatChoiceAction selects the one- or two-point conversion attempt.
type PatChoiceAction struct {
	Choice PatChoice `json:"choice"`
}

func (PatChoiceAction) Name() ActionName { return ActionNamePatChoice }

// ParseAction decodes the JSON encoding of an action, dispatching on the
// "name" tag. Unknown names and invalid payload values are rejected.
func ParseAction(data []byte) (Action, error) {
	var tag struct {
		Name ActionName `json:"name"`
	}
	if err := json.Unmarshal(data, &tag); err != nil {
		return nil, fmt.Errorf("decode action: %w", err)
	}

	switch tag.Name {
	case ActionNameRsp:
		var action RspAction
		if err := json.Unmarshal(data, &action); err != nil {
			return nil, fmt.Errorf("decode RSP action: %w", err)
		}
		switch action.Choice {
		case RspRock, RspPaper, RspScissors:
		default:
			return nil, fmt.Errorf("invalid rsp choice %q", action.Choice)
		}
		return action, nil
	case ActionNameRoll:
		var action RollAction
		if err := json.Unmarshal(data, &action); err != nil {
			return nil, fmt.Errorf("decode ROLL action: %w", err)
		}
		if action.Count < 1 || action.Count > 3 {
			return nil, fmt.Errorf("invalid roll count %d", action.Count)
		}
		return action, nil
	case ActionNameKickoffElection:
		var action KickoffElectionAction
		if err := json.Unmarshal(data, &action); err != nil {
			return nil, fmt.Errorf("decode KICKOFF_ELECTION action: %w", err)
		}
		if action.Choice != ElectionKick && action.Choice != ElectionRecieve {
			return nil, fmt.Errorf("invalid kickoff election choice %q", action.Choice)
		}
		return action, nil
	case ActionNameKickoffChoice:
		var action KickoffChoiceAction
		if err := json.Unmarshal(data, &action); err != nil {
			return nil, fmt.Errorf("decode KICKOFF_CHOICE action: %w", err)
		}
		if action.Choice != KickoffRegular && action.Choice != KickoffOnside {
			return nil, fmt.Errorf("invalid kickoff choice %q", action.Choice)
		}
		return action, nil
	case ActionNameCallPlay:
		var action CallPlayAction
		if err := json.Unmarshal(data, &action); err != nil {
			return nil, fmt.Errorf("decode CALL_PLAY action: %w", err)
		}
		switch action.Play {
		case PlayShortRun, PlayLongRun, PlayShortPass, PlayLongPass, PlayBomb:
		default:
			return nil, fmt.Errorf("invalid play %q", action.Play)
		}
		return action, nil
	case ActionNameTouchbackChoice:
		var action TouchbackChoiceAction
		if err := json.Unmarshal(data, &action); err != nil {
			return nil, fmt.Errorf("decode TOUCHBACK_CHOICE action: %w", err)
		}
		if action.Choice != TouchbackAccept && action.Choice != TouchbackReturn {
			return nil, fmt.Errorf("invalid touchback choice %q", action.Choice)
		}
		return action, nil
	case ActionNameRollAgainChoice:
		var action RollAgainChoiceAction
		if err := json.Unmarshal(data, &action); err != nil {
			return nil, fmt.Errorf("decode ROLL_AGAIN_CHOICE action: %w", err)
		}
		if action.Choice != RollAgainRoll && action.Choice != RollAgainHold {
			return nil, fmt.Errorf("invalid roll again choice %q", action.Choice)
		}
		return action, nil
	case ActionNameSackChoice:
		var action SackChoiceAction
		if err := json.Unmarshal(data, &action); err != nil {
			return nil, fmt.Errorf("decode SACK_CHOICE action: %w", err)
		}
		if action.Choice != SackChoiceSack && action.Choice != SackChoicePick {
			return nil, fmt.Errorf("invalid sack choice %q", action.Choice)
		}
		return action, nil
	case ActionNamePatChoice:
		var action PatChoiceAction
		if err := json.Unmarshal(data, &action); err != nil {
			return nil, fmt.Errorf("decode PAT_CHOICE action: %w", err)
		}
		if action.Choice != PatOnePoint && action.Choice != PatTwoPoint {
			return nil, fmt.Errorf("invalid pat choice %q", action.Choice)
		}
		return action, nil
	}

	return nil, fmt.Errorf("unknown action name %q", tag.Name)
}
