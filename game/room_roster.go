package game

import (
	"slices"

	"github.com/Skribblers/skribbler/policy"
	"github.com/Skribblers/skribbler/protocol"
)

func (r *room) handleJoinRequest(jreq roomJoinRequest) {
	if jreq.ctx != nil && jreq.ctx.Err() != nil {
		jreq.errChan <- ErrJoinTimeout
		return
	}
	if r.closing {
		r.bounce(jreq)
		return
	}
	if _, banned := r.blockedAddrs[jreq.player.RemoteAddr()]; banned {
		jreq.errChan <- ErrBanned
		r.updateDescription()
		return
	}
	if len(r.members) >= r.settings[protocol.SettingMaxPlayers] {
		jreq.errChan <- ErrRoomFull
		r.updateDescription()
		return
	}

	m := &member{
		id:     r.nextId,
		player: jreq.player,
		name:   jreq.player.Name(),
		avatar: jreq.player.Avatar(),
	}
	r.nextId++
	if r.isPrivate() && r.owner == protocol.NoOwner {
		r.owner = m.id
	}
	r.members = append(r.members, m)
	jreq.player.SetRoom(r)

	r.sendTo(m, r.snapshotFor(m))
	r.broadcastExcept(m, protocol.PlayerJoin{Player: m.info()})
	jreq.errChan <- nil

	r.logger.Info().Int("player", m.id).Str("name", m.name).Msg("player joined")
	r.updateDescription()

	if _, waiting := r.state.(*waitingForPlayers); waiting && len(r.members) >= policy.MinPlayersToStart {
		r.beginNewGame()
	}
}

// bounce turns away a join that reached a room on its way out. Public joins
// go back to the lobby to find another room.
func (r *room) bounce(jreq roomJoinRequest) {
	if jreq.mode == joinPublic && r.parentLobby != nil {
		r.parentLobby.Rematch(r.id, jreq)
		return
	}
	jreq.errChan <- ErrRoomNotFound
}

func (r *room) handlePlayerLeft(p Player) {
	m := r.memberOf(p)
	if m == nil {
		return
	}
	r.removeMember(m, protocol.LeaveDisconnect)
}

func (r *room) removeMember(m *member, reason protocol.LeaveReason) {
	idx := slices.Index(r.members, m)
	if idx < 0 {
		return
	}
	r.members = slices.Delete(r.members, idx, idx+1)

	delete(r.kickVotes, m.id)
	for _, voters := range r.kickVotes {
		delete(voters, m.id)
	}

	switch reason {
	case protocol.LeaveKicked:
		m.player.CancelAndRelease(ReasonKicked)
	case protocol.LeaveBanned:
		m.player.CancelAndRelease(ReasonBanned)
	default:
		m.player.CancelAndRelease("")
	}
	r.logger.Info().Int("player", m.id).Int("reason", int(reason)).Msg("player left")

	if len(r.members) == 0 {
		r.closing = true
		r.sendTasks = nil
		if r.parentLobby != nil {
			r.parentLobby.RemoveRoom(r.id)
		}
		return
	}

	r.broadcast(protocol.PlayerLeave{PlayerID: m.id, Reason: reason})
	if m.id == r.owner {
		r.owner = r.members[0].id
		r.broadcast(protocol.SetOwner{PlayerID: r.owner})
	}
	r.updateDescription()

	switch s := r.state.(type) {
	case *drawing:
		switch {
		case s.drawer == m:
			r.endTurn(protocol.TurnDrawerLeft)
		case len(r.members) < policy.MinPlayersToStart:
			r.enter(&roundBegin{}, 0)
		case r.everyoneGuessed():
			r.endTurn(protocol.TurnEveryoneGuessed)
		}
	case *wordSelection:
		if s.drawer == m || len(r.members) < policy.MinPlayersToStart {
			r.enter(&roundBegin{}, 0)
		}
	}
}

func (r *room) handleVoteKick(voter *member, p protocol.VoteKick) {
	target := r.memberById(p.Target)
	if target == nil || target == voter {
		return
	}
	voters, ok := r.kickVotes[target.id]
	if !ok {
		voters = map[int]bool{}
		r.kickVotes[target.id] = voters
	}
	if voters[voter.id] {
		return
	}
	voters[voter.id] = true

	votes := len(voters)
	required := policy.VotesRequired(len(r.members))
	r.broadcastExcept(target, protocol.VoteKickTally{Voter: voter.id, Target: target.id, Votes: votes, Required: required})

	if votes >= required {
		r.removeMember(target, protocol.LeaveKicked)
	}
}

func (r *room) handleHostKick(sender *member, targetId int, reason protocol.LeaveReason) {
	if !r.isOwner(sender) {
		return
	}
	target := r.memberById(targetId)
	if target == nil || target == sender {
		return
	}
	if reason == protocol.LeaveBanned {
		r.blockedAddrs[target.player.RemoteAddr()] = struct{}{}
	}
	r.removeMember(target, reason)
}

func (r *room) handleReport(sender *member, p protocol.Report) {
	target := r.memberById(p.Target)
	if target == nil || target == sender {
		return
	}
	r.logger.Warn().
		Int("reporter", sender.id).
		Int("target", target.id).
		Str("target_name", target.name).
		Bool("inappropriate", p.Reasons&protocol.ReportInappropriateBehavior != 0).
		Bool("spam", p.Reasons&protocol.ReportSpam != 0).
		Bool("cheating", p.Reasons&protocol.ReportCheating != 0).
		Msg("player reported")
}

func (r *room) handleNameChange(m *member, p protocol.NameChange) {
	name := policy.SanitizeName(p.Name)
	if name == "" || name == m.name {
		return
	}
	m.name = name
	r.broadcast(protocol.NameChanged{PlayerID: m.id, Name: name})
}
