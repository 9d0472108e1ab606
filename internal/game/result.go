package game

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// TurnoverType classifies a change of possession.
type TurnoverType string

const (
	TurnoverDowns  TurnoverType = "DOWNS"
	TurnoverFumble TurnoverType = "FUMBLE"
	TurnoverPick   TurnoverType = "PICK"
)

// ScoreType classifies a scoring event.
type ScoreType string

const (
	ScoreTouchdown ScoreType = "TOUCHDOWN"
	ScoreSafety    ScoreType = "SAFETY"
	ScorePat1      ScoreType = "PAT_1"
	ScorePat2      ScoreType = "PAT_2"
)

// Result is one event produced by an accepted action. The per-turn result
// log carries the events clients render for the turn.
type Result interface {
	// ResultName returns the discriminator emitted as the "name" field.
	ResultName() string
}

// RspResult reports both players' resolved rock-paper-scissors throws.
type RspResult struct {
	Home RspChoice `json:"home"`
	Away RspChoice `json:"away"`
}

func (RspResult) ResultName() string { return "RSP" }

// RollResult reports the dice a player rolled.
type RollResult struct {
	Player Player `json:"player"`
	Roll   []int  `json:"roll"`
}

func (RollResult) ResultName() string { return "ROLL" }

// GainResult reports yards gained on a play.
type GainResult struct {
	Play   Play   `json:"play"`
	Player Player `json:"player"`
	Yards  int    `json:"yards"`
}

func (GainResult) ResultName() string { return "GAIN" }

// LossResult reports yards lost on a play.
type LossResult struct {
	Play   Play   `json:"play"`
	Player Player `json:"player"`
	Yards  int    `json:"yards"`
}

func (LossResult) ResultName() string { return "LOSS" }

// IncompletePassResult reports a pass that fell incomplete.
type IncompletePassResult struct{}

func (IncompletePassResult) ResultName() string { return "INCOMPLETE_PASS" }

// OutOfBoundsPassResult reports a throw past the back of the end zone.
type OutOfBoundsPassResult struct{}

func (OutOfBoundsPassResult) ResultName() string { return "OUT_OF_BOUNDS_PASS" }

// OutOfBoundsKickResult reports a kickoff that went out of bounds.
type OutOfBoundsKickResult struct{}

func (OutOfBoundsKickResult) ResultName() string { return "OUT_OF_BOUNDS_KICK" }

// TouchbackResult reports an accepted touchback.
type TouchbackResult struct{}

func (TouchbackResult) ResultName() string { return "TOUCHBACK" }

// TurnoverResult reports a change of possession.
type TurnoverResult struct {
	Type TurnoverType `json:"type"`
}

func (TurnoverResult) ResultName() string { return "TURNOVER" }

// KickoffElectionResult reports the coin-toss winner's election.
type KickoffElectionResult struct {
	Choice KickoffElectionChoice `json:"choice"`
}

func (KickoffElectionResult) ResultName() string { return "KICKOFF_ELECTION" }

// ScoreResult reports points going on the board.
type ScoreResult struct {
	Type ScoreType `json:"type"`
}

func (ScoreResult) ResultName() string { return "SCORE" }

// ResultList is the ordered per-turn event log. It marshals each entry with
// its "name" discriminator and decodes entries back into concrete types, so
// a Game survives a round trip through the store.
type ResultList []Result

// MarshalJSON encodes each result with its discriminator injected as the
// leading "name" field.
func (l ResultList) MarshalJSON() ([]byte, error) {
	entries := make([]json.RawMessage, 0, len(l))
	for _, result := range l {
		body, err := json.Marshal(result)
		if err != nil {
			return nil, err
		}
		entries = append(entries, taggedBody(result.ResultName(), body))
	}
	return json.Marshal(entries)
}

// taggedBody splices {"name": name} into an already-marshalled JSON object.
func taggedBody(name string, body []byte) []byte {
	tag := fmt.Appendf(nil, `{"name":%q`, name)
	body = bytes.TrimSpace(body)
	if len(body) <= 2 {
		return append(tag, '}')
	}
	tag = append(tag, ',')
	return append(tag, body[1:]...)
}

// UnmarshalJSON decodes a tagged result array.
func (l *ResultList) UnmarshalJSON(data []byte) error {
	var entries []json.RawMessage
	if err := json.Unmarshal(data, &entries); err != nil {
		return fmt.Errorf("decode result list: %w", err)
	}

	results := make(ResultList, 0, len(entries))
	for _, entry := range entries {
		result, err := parseResult(entry)
		if err != nil {
			return err
		}
		results = append(results, result)
	}
	*l = results
	return nil
}

func parseResult(data []byte) (Result, error) {
	var tag struct {
		Name string `json:"name"`
	}
	if err := json.Unmarshal(data, &tag); err != nil {
		return nil, fmt.Errorf("decode result tag: %w", err)
	}

	decode := func(target Result) (Result, error) {
		if err := json.Unmarshal(data, target); err != nil {
			return nil, fmt.Errorf("decode %s result: %w", tag.Name, err)
		}
		return target, nil
	}

	switch tag.Name {
	case "RSP":
		result, err := decode(&RspResult{})
		if err != nil {
			return nil, err
		}
		return *result.(*RspResult), nil
	case "ROLL":
		result, err := decode(&RollResult{})
		if err != nil {
			return nil, err
		}
		return *result.(*RollResult), nil
	case "GAIN":
		result, err := decode(&GainResult{})
		if err != nil {
			return nil, err
		}
		return *result.(*GainResult), nil
	case "LOSS":
		result, err := decode(&LossResult{})
		if err != nil {
			return nil, err
		}
		return *result.(*LossResult), nil
	case "INCOMPLETE_PASS":
		return IncompletePassResult{}, nil
	case "OUT_OF_BOUNDS_PASS":
		return OutOfBoundsPassResult{}, nil
	case "OUT_OF_BOUNDS_KICK":
		return OutOfBoundsKickResult{}, nil
	case "TOUCHBACK":
		return TouchbackResult{}, nil
	case "TURNOVER":
		result, err := decode(&TurnoverResult{})
		if err != nil {
			return nil, err
		}
		return *result.(*TurnoverResult), nil
	case "KICKOFF_ELECTION":
		result, err := decode(&KickoffElectionResult{})
		if err != nil {
			return nil, err
		}
		return *result.(*KickoffElectionResult), nil
	case "SCORE":
		result, err := decode(&ScoreResult{})
		if err != nil {
			return nil, err
		}
		return *result.(*ScoreResult), nil
	}

	return nil, fmt.Errorf("unknown result name %q", tag.Name)
}
