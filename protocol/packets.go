package protocol

import "encoding/json"

// Packet is the typed form of an envelope. Every catalog entry has exactly one
// implementation per direction; the set is closed to this package.
type Packet interface {
	ID() PacketID
	payload() any
}

// Command is one canvas stroke: [tool, color, x, y] for fills and
// [tool, color, size, x1, y1, x2, y2] for pencil segments.
type Command []int

type PlayerInfo struct {
	ID      int    `json:"id"`
	Name    string `json:"name"`
	Avatar  [4]int `json:"avatar"`
	Score   int    `json:"score"`
	Guessed bool   `json:"guessed"`
	Flags   int    `json:"flags"`
}

type Hint struct {
	Pos  int    `json:"pos"`
	Char string `json:"char"`
}

// --- participant -> authority ---

type Login struct {
	Join   string `json:"join" validate:"max=32"`
	Create int    `json:"create" validate:"oneof=0 1"`
	Name   string `json:"name" validate:"max=64"`
	Lang   int    `json:"lang" validate:"min=0,max=27"`
	Avatar [4]int `json:"avatar" validate:"dive,min=-1,max=255"`
}

type HostKick struct {
	Target int
}

type HostBan struct {
	Target int
}

type VoteKick struct {
	Target int
}

type Report struct {
	Target  int `json:"id"`
	Reasons int `json:"reasons" validate:"min=1,max=7"`
}

type Vote struct {
	Value int `validate:"oneof=0 1"`
}

type SelectWord struct {
	Index int
}

type RequestGameStart struct {
	CustomWords string `validate:"max=20000"`
}

type EndGame struct{}

type Text struct {
	Message string `validate:"min=1,max=1000"`
}

type NameChange struct {
	Name string `validate:"max=64"`
}

// --- shared ---

type SettingsUpdate struct {
	Index int `json:"id"`
	Value int `json:"val"`
}

type Draw struct {
	Commands []Command `validate:"min=1,dive,len=4|len=7"`
}

type ClearCanvas struct{}

type Undo struct {
	Index int `validate:"min=0"`
}

// --- authority -> participant ---

type PlayerJoin struct {
	Player PlayerInfo
}

type PlayerLeave struct {
	PlayerID int         `json:"id"`
	Reason   LeaveReason `json:"reason"`
}

type VoteKickTally struct {
	Voter    int
	Target   int
	Votes    int
	Required int
}

type VoteCast struct {
	PlayerID int `json:"id"`
	Vote     int `json:"vote"`
}

type LobbyData struct {
	Settings Settings     `json:"settings"`
	RoomID   string       `json:"id"`
	Type     RoomType     `json:"type"`
	Me       int          `json:"me"`
	Owner    int          `json:"owner"`
	Users    []PlayerInfo `json:"users"`
	Round    int          `json:"round"`
	State    StateUpdate  `json:"state"`
}

type RevealHint struct {
	Hints []Hint
}

type UpdateTime struct {
	Seconds int
}

type PlayerGuessed struct {
	PlayerID int    `json:"id"`
	Word     string `json:"word,omitempty"`
}

type CloseWord struct {
	Guess string
}

type SetOwner struct {
	PlayerID int
}

type ChatMessage struct {
	PlayerID int    `json:"id"`
	Message  string `json:"msg"`
}

type GameStartError struct {
	Code int
}

type SpamDetected struct{}

type NameChanged struct {
	PlayerID int    `json:"id"`
	Name     string `json:"name"`
}

func (Login) ID() PacketID            { return PacketLogin }
func (HostKick) ID() PacketID         { return PacketHostKick }
func (HostBan) ID() PacketID          { return PacketHostBan }
func (VoteKick) ID() PacketID         { return PacketVoteKick }
func (Report) ID() PacketID           { return PacketReport }
func (Vote) ID() PacketID             { return PacketVote }
func (SelectWord) ID() PacketID       { return PacketSelectWord }
func (RequestGameStart) ID() PacketID { return PacketRequestGameStart }
func (EndGame) ID() PacketID          { return PacketEndGame }
func (Text) ID() PacketID             { return PacketText }
func (NameChange) ID() PacketID       { return PacketUpdateName }
func (SettingsUpdate) ID() PacketID   { return PacketUpdateSettings }
func (Draw) ID() PacketID             { return PacketDraw }
func (ClearCanvas) ID() PacketID      { return PacketClearCanvas }
func (Undo) ID() PacketID             { return PacketUndo }
func (PlayerJoin) ID() PacketID       { return PacketPlayerJoin }
func (PlayerLeave) ID() PacketID      { return PacketPlayerLeave }
func (VoteKickTally) ID() PacketID    { return PacketVoteKick }
func (VoteCast) ID() PacketID         { return PacketVote }
func (LobbyData) ID() PacketID        { return PacketLobbyData }
func (StateUpdate) ID() PacketID      { return PacketUpdateGameData }
func (RevealHint) ID() PacketID       { return PacketRevealHint }
func (UpdateTime) ID() PacketID       { return PacketUpdateTime }
func (PlayerGuessed) ID() PacketID    { return PacketPlayerGuessed }
func (CloseWord) ID() PacketID        { return PacketCloseWord }
func (SetOwner) ID() PacketID         { return PacketSetOwner }
func (ChatMessage) ID() PacketID      { return PacketText }
func (GameStartError) ID() PacketID   { return PacketGameStartError }
func (SpamDetected) ID() PacketID     { return PacketSpamDetected }
func (NameChanged) ID() PacketID      { return PacketUpdateName }

func (p Login) payload() any            { return p }
func (p HostKick) payload() any         { return p.Target }
func (p HostBan) payload() any          { return p.Target }
func (p VoteKick) payload() any         { return p.Target }
func (p Report) payload() any           { return p }
func (p Vote) payload() any             { return p.Value }
func (p SelectWord) payload() any       { return p.Index }
func (p RequestGameStart) payload() any { return p.CustomWords }
func (EndGame) payload() any            { return nil }
func (p Text) payload() any             { return p.Message }
func (p NameChange) payload() any       { return p.Name }
func (p SettingsUpdate) payload() any   { return p }
func (p Draw) payload() any             { return p.Commands }
func (ClearCanvas) payload() any        { return nil }
func (p Undo) payload() any             { return p.Index }
func (p PlayerJoin) payload() any       { return p.Player }
func (p PlayerLeave) payload() any      { return p }
func (p VoteKickTally) payload() any {
	return [4]int{p.Voter, p.Target, p.Votes, p.Required}
}
func (p VoteCast) payload() any       { return p }
func (p LobbyData) payload() any      { return p }
func (p StateUpdate) payload() any    { return p }
func (p RevealHint) payload() any     { return p.Hints }
func (p UpdateTime) payload() any     { return p.Seconds }
func (p PlayerGuessed) payload() any  { return p }
func (p CloseWord) payload() any      { return p.Guess }
func (p SetOwner) payload() any       { return p.PlayerID }
func (p ChatMessage) payload() any    { return p }
func (p GameStartError) payload() any { return p.Code }
func (SpamDetected) payload() any     { return nil }
func (p NameChanged) payload() any    { return p }

// Scalar payloads unmarshal straight into their single field.

func (p *HostKick) UnmarshalJSON(b []byte) error   { return json.Unmarshal(b, &p.Target) }
func (p *HostBan) UnmarshalJSON(b []byte) error    { return json.Unmarshal(b, &p.Target) }
func (p *VoteKick) UnmarshalJSON(b []byte) error   { return json.Unmarshal(b, &p.Target) }
func (p *Vote) UnmarshalJSON(b []byte) error       { return json.Unmarshal(b, &p.Value) }
func (p *SelectWord) UnmarshalJSON(b []byte) error { return json.Unmarshal(b, &p.Index) }
func (p *RequestGameStart) UnmarshalJSON(b []byte) error {
	return json.Unmarshal(b, &p.CustomWords)
}
func (p *Text) UnmarshalJSON(b []byte) error           { return json.Unmarshal(b, &p.Message) }
func (p *NameChange) UnmarshalJSON(b []byte) error     { return json.Unmarshal(b, &p.Name) }
func (p *Draw) UnmarshalJSON(b []byte) error           { return json.Unmarshal(b, &p.Commands) }
func (p *Undo) UnmarshalJSON(b []byte) error           { return json.Unmarshal(b, &p.Index) }
func (p *PlayerJoin) UnmarshalJSON(b []byte) error     { return json.Unmarshal(b, &p.Player) }
func (p *RevealHint) UnmarshalJSON(b []byte) error     { return json.Unmarshal(b, &p.Hints) }
func (p *UpdateTime) UnmarshalJSON(b []byte) error     { return json.Unmarshal(b, &p.Seconds) }
func (p *CloseWord) UnmarshalJSON(b []byte) error      { return json.Unmarshal(b, &p.Guess) }
func (p *SetOwner) UnmarshalJSON(b []byte) error       { return json.Unmarshal(b, &p.PlayerID) }
func (p *GameStartError) UnmarshalJSON(b []byte) error { return json.Unmarshal(b, &p.Code) }

func (p *VoteKickTally) UnmarshalJSON(b []byte) error {
	var tally [4]int
	if err := json.Unmarshal(b, &tally); err != nil {
		return err
	}
	p.Voter, p.Target, p.Votes, p.Required = tally[0], tally[1], tally[2], tally[3]
	return nil
}
