package protocol

import (
	"encoding/json"
	"errors"
	"fmt"
)

type StateTag int

const (
	StateWaitingForPlayers StateTag = iota
	StateStartingSoon
	StateRoundBegin
	StateWordSelection
	StateDrawing
	StateTurnResults
	StateGameResults
	StateWaitingRoom
)

func (t StateTag) String() string {
	switch t {
	case StateWaitingForPlayers:
		return "waiting-for-players"
	case StateStartingSoon:
		return "starting-soon"
	case StateRoundBegin:
		return "round-begin"
	case StateWordSelection:
		return "word-selection"
	case StateDrawing:
		return "drawing"
	case StateTurnResults:
		return "turn-results"
	case StateGameResults:
		return "game-results"
	case StateWaitingRoom:
		return "waiting-room"
	}
	return fmt.Sprintf("state(%d)", int(t))
}

// State is the per-tag payload of a room state as a given participant sees it.
// Implementations are limited to this package; switch on the concrete type.
type State interface {
	Tag() StateTag
	isState()
}

type WaitingForPlayers struct{}

type StartingSoon struct{}

type RoundBegin struct {
	Round int
}

type WordSelection struct {
	Drawer int      `json:"id"`
	Words  []string `json:"words,omitempty"`
}

// Drawing carries Word only for the drawer; everyone else gets the masks.
type Drawing struct {
	Drawer  int       `json:"id"`
	Word    string    `json:"word,omitempty"`
	Lengths []int     `json:"lengths,omitempty"`
	Hints   []Hint    `json:"hints,omitempty"`
	Canvas  []Command `json:"drawCommands,omitempty"`
}

type ScoreDelta struct {
	PlayerID int `json:"id"`
	Score    int `json:"score"`
	Delta    int `json:"delta"`
}

type TurnResults struct {
	Reason TurnEndReason `json:"reason"`
	Word   string        `json:"word"`
	Scores []ScoreDelta  `json:"scores"`
}

type Rank struct {
	PlayerID int `json:"id"`
	Place    int `json:"place"`
}

type GameResults struct {
	Ranking []Rank `json:"ranking"`
}

type WaitingRoom struct{}

func (WaitingForPlayers) Tag() StateTag { return StateWaitingForPlayers }
func (StartingSoon) Tag() StateTag      { return StateStartingSoon }
func (RoundBegin) Tag() StateTag        { return StateRoundBegin }
func (WordSelection) Tag() StateTag     { return StateWordSelection }
func (Drawing) Tag() StateTag           { return StateDrawing }
func (TurnResults) Tag() StateTag       { return StateTurnResults }
func (GameResults) Tag() StateTag       { return StateGameResults }
func (WaitingRoom) Tag() StateTag       { return StateWaitingRoom }

func (WaitingForPlayers) isState() {}
func (StartingSoon) isState()      {}
func (RoundBegin) isState()        {}
func (WordSelection) isState()     {}
func (Drawing) isState()           {}
func (TurnResults) isState()       {}
func (GameResults) isState()       {}
func (WaitingRoom) isState()       {}

// StateUpdate is the state-update packet and the state part of a full snapshot.
type StateUpdate struct {
	Time  int
	State State
}

type stateWire struct {
	Tag  StateTag        `json:"id"`
	Time int             `json:"time"`
	Data json.RawMessage `json:"data,omitempty"`
}

func (u StateUpdate) MarshalJSON() ([]byte, error) {
	if u.State == nil {
		return nil, fmt.Errorf("%w: state update without state", ErrMalformedPacket)
	}
	w := stateWire{Tag: u.State.Tag(), Time: u.Time}

	var data any
	switch s := u.State.(type) {
	case RoundBegin:
		data = s.Round
	case WordSelection, Drawing, TurnResults, GameResults:
		data = s
	}

	if data != nil {
		raw, err := json.Marshal(data)
		if err != nil {
			return nil, err
		}
		w.Data = raw
	}
	return json.Marshal(w)
}

func (u *StateUpdate) UnmarshalJSON(b []byte) error {
	var w stateWire
	if err := json.Unmarshal(b, &w); err != nil {
		return err
	}
	u.Time = w.Time

	switch w.Tag {
	case StateWaitingForPlayers:
		u.State = WaitingForPlayers{}
	case StateStartingSoon:
		u.State = StartingSoon{}
	case StateWaitingRoom:
		u.State = WaitingRoom{}
	case StateRoundBegin:
		var s RoundBegin
		if err := unmarshalStateData(w.Data, &s.Round); err != nil {
			return err
		}
		u.State = s
	case StateWordSelection:
		var s WordSelection
		if err := unmarshalStateData(w.Data, &s); err != nil {
			return err
		}
		u.State = s
	case StateDrawing:
		var s Drawing
		if err := unmarshalStateData(w.Data, &s); err != nil {
			return err
		}
		u.State = s
	case StateTurnResults:
		var s TurnResults
		if err := unmarshalStateData(w.Data, &s); err != nil {
			return err
		}
		u.State = s
	case StateGameResults:
		var s GameResults
		if err := unmarshalStateData(w.Data, &s); err != nil {
			return err
		}
		u.State = s
	default:
		return fmt.Errorf("unknown state tag %d", w.Tag)
	}
	return nil
}

func unmarshalStateData(data json.RawMessage, v any) error {
	if len(data) == 0 {
		return errors.New("state data missing")
	}
	return json.Unmarshal(data, v)
}
