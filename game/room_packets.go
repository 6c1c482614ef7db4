package game

import (
	"github.com/Skribblers/skribbler/policy"
	"github.com/Skribblers/skribbler/protocol"
)

// handleEnvelope validates a packet against the sender's role and the current
// state. Anything that does not fit is dropped without a reply.
func (r *room) handleEnvelope(e ClientPacketEnvelope) {
	m := r.memberOf(e.from)
	if m == nil || r.closing {
		return
	}

	switch p := e.packet.(type) {
	case protocol.Text:
		r.handleText(m, p)
	case protocol.Draw:
		r.handleDraw(m, p)
	case protocol.ClearCanvas:
		r.handleClearCanvas(m)
	case protocol.Undo:
		r.handleUndo(m, p)
	case protocol.SelectWord:
		r.handleSelectWord(m, p)
	case protocol.SettingsUpdate:
		r.handleSettingsUpdate(m, p)
	case protocol.RequestGameStart:
		r.handleRequestGameStart(m, p)
	case protocol.EndGame:
		r.handleEndGame(m)
	case protocol.Vote:
		r.handleVote(m, p)
	case protocol.VoteKick:
		r.handleVoteKick(m, p)
	case protocol.HostKick:
		r.handleHostKick(m, p.Target, protocol.LeaveKicked)
	case protocol.HostBan:
		r.handleHostKick(m, p.Target, protocol.LeaveBanned)
	case protocol.Report:
		r.handleReport(m, p)
	case protocol.NameChange:
		r.handleNameChange(m, p)
	default:
		r.logger.Debug().Int("player", m.id).Int("packet", int(e.packet.ID())).Msg("unexpected packet")
	}
}

func (r *room) handleText(m *member, p protocol.Text) {
	msg := policy.TruncateText(p.Message)
	d, isDrawing := r.state.(*drawing)

	if isDrawing && d.drawer != m && !m.guessed {
		switch policy.MatchGuess(msg, d.word) {
		case policy.GuessExact:
			r.acceptGuess(m, d)
			return
		case policy.GuessNear:
			r.sendTo(m, protocol.CloseWord{Guess: msg})
		}
	}

	chat := protocol.ChatMessage{PlayerID: m.id, Message: msg}
	if isDrawing && (d.drawer == m || m.guessed) {
		for _, other := range r.members {
			if other == d.drawer || other.guessed {
				r.sendTo(other, chat)
			}
		}
		return
	}
	r.broadcast(chat)
}

func (r *room) acceptGuess(m *member, d *drawing) {
	m.guessed = true
	d.points[m.id] = policy.GuessPoints(d.guessOrder, r.timer, d.total)
	d.guessOrder++

	r.sendTo(m, protocol.PlayerGuessed{PlayerID: m.id, Word: d.word})
	r.broadcastExcept(m, protocol.PlayerGuessed{PlayerID: m.id})

	if r.everyoneGuessed() {
		r.endTurn(protocol.TurnEveryoneGuessed)
	}
}

func (r *room) drawingBy(m *member) (*drawing, bool) {
	d, ok := r.state.(*drawing)
	if !ok || d.drawer != m {
		return nil, false
	}
	return d, true
}

func (r *room) handleDraw(m *member, p protocol.Draw) {
	d, ok := r.drawingBy(m)
	if !ok {
		return
	}
	if err := policy.CheckDrawBatch(len(p.Commands)); err != nil {
		r.logger.Debug().Err(err).Int("player", m.id).Msg("dropping draw batch")
		return
	}
	d.canvas = append(d.canvas, p.Commands...)
	r.broadcastExcept(m, p)
}

func (r *room) handleClearCanvas(m *member) {
	d, ok := r.drawingBy(m)
	if !ok || len(d.canvas) == 0 {
		return
	}
	d.canvas = nil
	r.broadcastExcept(m, protocol.ClearCanvas{})
}

// handleUndo truncates the canvas at the given index. Truncating to nothing
// is announced as a clear.
func (r *room) handleUndo(m *member, p protocol.Undo) {
	d, ok := r.drawingBy(m)
	if !ok || p.Index >= len(d.canvas) {
		return
	}
	d.canvas = d.canvas[:p.Index]
	if len(d.canvas) == 0 {
		d.canvas = nil
		r.broadcastExcept(m, protocol.ClearCanvas{})
		return
	}
	r.broadcastExcept(m, p)
}

func (r *room) handleSelectWord(m *member, p protocol.SelectWord) {
	s, ok := r.state.(*wordSelection)
	if !ok || s.drawer != m {
		return
	}
	if p.Index < 0 || p.Index >= len(s.candidates) {
		r.sendTo(m, protocol.StateUpdate{Time: r.timer, State: r.projectionFor(m)})
		return
	}
	r.startDrawing(s, p.Index)
}

func (r *room) handleSettingsUpdate(m *member, p protocol.SettingsUpdate) {
	if !r.isOwner(m) || !isPreGame(r.state) || policy.CheckSetting(p.Index, p.Value) != nil {
		if p.Index >= 0 && p.Index < protocol.SettingsCount {
			r.sendTo(m, protocol.SettingsUpdate{Index: p.Index, Value: r.settings[p.Index]})
		}
		return
	}
	r.settings[p.Index] = p.Value
	r.broadcast(p)
	r.updateDescription()
}

func (r *room) handleRequestGameStart(m *member, p protocol.RequestGameStart) {
	if !r.isOwner(m) || !isPreGame(r.state) {
		return
	}
	if err := policy.CanStart(len(r.members)); err != nil {
		r.sendTo(m, protocol.GameStartError{Code: protocol.GameStartNotEnoughPlayers})
		return
	}
	r.customWords = policy.ParseCustomWords(p.CustomWords)
	r.enter(&startingSoon{}, startingSoonSeconds)
}

func (r *room) handleEndGame(m *member) {
	if !r.isOwner(m) {
		return
	}
	switch r.state.(type) {
	case *waitingForPlayers, *waitingRoom, *gameResults:
		return
	}
	r.enterGameResults()
}

func (r *room) handleVote(m *member, p protocol.Vote) {
	d, ok := r.state.(*drawing)
	if !ok || d.drawer == m || m.voted {
		return
	}
	m.voted = true
	r.broadcast(protocol.VoteCast{PlayerID: m.id, Vote: p.Value})
}
