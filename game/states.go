package game

import "github.com/Skribblers/skribbler/protocol"

// roomState is the authority side of a room state. Unlike the projections in
// protocol it holds the secret word and the drawer's identity.
type roomState interface {
	tag() protocol.StateTag
}

type waitingForPlayers struct{}

type startingSoon struct{}

type roundBegin struct{}

type wordSelection struct {
	drawer     *member
	candidates []string
}

type drawing struct {
	drawer     *member
	word       string
	lengths    []int
	hints      []protocol.Hint
	canvas     []protocol.Command
	total      int
	guessOrder int
	points     map[int]int
}

type turnResults struct {
	reason protocol.TurnEndReason
	word   string
	scores []protocol.ScoreDelta
}

type gameResults struct {
	ranking []protocol.Rank
}

type waitingRoom struct{}

func (*waitingForPlayers) tag() protocol.StateTag { return protocol.StateWaitingForPlayers }
func (*startingSoon) tag() protocol.StateTag      { return protocol.StateStartingSoon }
func (*roundBegin) tag() protocol.StateTag        { return protocol.StateRoundBegin }
func (*wordSelection) tag() protocol.StateTag     { return protocol.StateWordSelection }
func (*drawing) tag() protocol.StateTag           { return protocol.StateDrawing }
func (*turnResults) tag() protocol.StateTag       { return protocol.StateTurnResults }
func (*gameResults) tag() protocol.StateTag       { return protocol.StateGameResults }
func (*waitingRoom) tag() protocol.StateTag       { return protocol.StateWaitingRoom }

func hasCountdown(s roomState) bool {
	switch s.(type) {
	case *waitingForPlayers, *waitingRoom:
		return false
	}
	return true
}

func isPreGame(s roomState) bool {
	return !hasCountdown(s)
}
