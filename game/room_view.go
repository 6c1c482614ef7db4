package game

import (
	"slices"

	"github.com/Skribblers/skribbler/protocol"
)

func (r *room) sendTo(m *member, p protocol.Packet) {
	data, err := protocol.EncodeFrame(p)
	if err != nil {
		r.logger.Error().Err(err).Int("packet", int(p.ID())).Msg("encoding failed")
		return
	}
	r.sendTasks = append(r.sendTasks, dataSendTask{to: m.player, data: data})
}

func (r *room) broadcast(p protocol.Packet) {
	r.broadcastExcept(nil, p)
}

func (r *room) broadcastExcept(except *member, p protocol.Packet) {
	data, err := protocol.EncodeFrame(p)
	if err != nil {
		r.logger.Error().Err(err).Int("packet", int(p.ID())).Msg("encoding failed")
		return
	}
	for _, m := range r.members {
		if m == except {
			continue
		}
		r.sendTasks = append(r.sendTasks, dataSendTask{to: m.player, data: data})
	}
}

// broadcastState sends every member its own view of the current state.
func (r *room) broadcastState() {
	for _, m := range r.members {
		r.sendTo(m, protocol.StateUpdate{Time: r.timer, State: r.projectionFor(m)})
	}
}

// projectionFor is the state as m is allowed to see it. The secret word only
// reaches the drawer and those who already guessed it.
func (r *room) projectionFor(m *member) protocol.State {
	switch s := r.state.(type) {
	case *waitingForPlayers:
		return protocol.WaitingForPlayers{}
	case *startingSoon:
		return protocol.StartingSoon{}
	case *roundBegin:
		return protocol.RoundBegin{Round: r.round}
	case *wordSelection:
		ws := protocol.WordSelection{Drawer: s.drawer.id}
		if m == s.drawer {
			ws.Words = slices.Clone(s.candidates)
		}
		return ws
	case *drawing:
		d := protocol.Drawing{Drawer: s.drawer.id, Canvas: slices.Clone(s.canvas)}
		if m == s.drawer || m.guessed {
			d.Word = s.word
		}
		if m != s.drawer {
			d.Lengths = slices.Clone(s.lengths)
			d.Hints = slices.Clone(s.hints)
		}
		return d
	case *turnResults:
		return protocol.TurnResults{Reason: s.reason, Word: s.word, Scores: slices.Clone(s.scores)}
	case *gameResults:
		return protocol.GameResults{Ranking: slices.Clone(s.ranking)}
	case *waitingRoom:
		return protocol.WaitingRoom{}
	}
	return protocol.WaitingForPlayers{}
}

func (r *room) snapshotFor(m *member) protocol.LobbyData {
	users := make([]protocol.PlayerInfo, 0, len(r.members))
	for _, other := range r.members {
		users = append(users, other.info())
	}
	return protocol.LobbyData{
		Settings: r.settings,
		RoomID:   r.id,
		Type:     r.roomType,
		Me:       m.id,
		Owner:    r.owner,
		Users:    users,
		Round:    r.round,
		State:    protocol.StateUpdate{Time: r.timer, State: r.projectionFor(m)},
	}
}
