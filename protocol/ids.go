package protocol

type PacketID int

const (
	PacketLogin            PacketID = 0
	PacketPlayerJoin       PacketID = 1
	PacketPlayerLeave      PacketID = 2
	PacketHostKick         PacketID = 3
	PacketHostBan          PacketID = 4
	PacketVoteKick         PacketID = 5
	PacketReport           PacketID = 6
	PacketVote             PacketID = 8
	PacketLobbyData        PacketID = 10
	PacketUpdateGameData   PacketID = 11
	PacketUpdateSettings   PacketID = 12
	PacketRevealHint       PacketID = 13
	PacketUpdateTime       PacketID = 14
	PacketPlayerGuessed    PacketID = 15
	PacketCloseWord        PacketID = 16
	PacketSetOwner         PacketID = 17
	PacketSelectWord       PacketID = 18
	PacketDraw             PacketID = 19
	PacketClearCanvas      PacketID = 20
	PacketUndo             PacketID = 21
	PacketRequestGameStart PacketID = 22
	PacketEndGame          PacketID = 23
	PacketText             PacketID = 30
	PacketGameStartError   PacketID = 31
	PacketSpamDetected     PacketID = 32
	PacketUpdateName       PacketID = 90
)

func (id PacketID) String() string {
	switch id {
	case PacketLogin:
		return "login"
	case PacketPlayerJoin:
		return "roster-join"
	case PacketPlayerLeave:
		return "roster-leave"
	case PacketHostKick:
		return "kick"
	case PacketHostBan:
		return "ban"
	case PacketVoteKick:
		return "votekick"
	case PacketReport:
		return "report"
	case PacketVote:
		return "vote"
	case PacketLobbyData:
		return "full-snapshot"
	case PacketUpdateGameData:
		return "state-update"
	case PacketUpdateSettings:
		return "settings-update"
	case PacketRevealHint:
		return "hint-reveal"
	case PacketUpdateTime:
		return "countdown-tick"
	case PacketPlayerGuessed:
		return "guess-correct"
	case PacketCloseWord:
		return "near-guess"
	case PacketSetOwner:
		return "owner-changed"
	case PacketSelectWord:
		return "word-selected"
	case PacketDraw:
		return "draw-append"
	case PacketClearCanvas:
		return "canvas-clear"
	case PacketUndo:
		return "canvas-undo"
	case PacketRequestGameStart:
		return "turn-start-request"
	case PacketEndGame:
		return "turn-end-request"
	case PacketText:
		return "text"
	case PacketGameStartError:
		return "turn-start-error"
	case PacketSpamDetected:
		return "spam-detected"
	case PacketUpdateName:
		return "name-change"
	}
	return "unknown"
}

type RoomType int

const (
	RoomPublic RoomType = iota
	RoomPrivate
)

type LeaveReason int

const (
	LeaveDisconnect LeaveReason = iota
	LeaveKicked
	LeaveBanned
)

type TurnEndReason int

const (
	TurnEveryoneGuessed TurnEndReason = iota
	TurnTimeUp
	TurnDrawerLeft
)

const (
	GameStartNotEnoughPlayers = 0
)

// Report reason bits.
const (
	ReportInappropriateBehavior = 1 << iota
	ReportSpam
	ReportCheating
)

// NoOwner marks public rooms, which never have an owner.
const NoOwner = -1
