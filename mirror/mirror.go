package mirror

import (
	"slices"
	"sync"

	"github.com/Skribblers/skribbler/protocol"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

type Player struct {
	ID      int
	Name    string
	Avatar  [4]int
	Score   int
	Guessed bool
	Flags   int
}

func playerFromInfo(info protocol.PlayerInfo) Player {
	return Player{
		ID:      info.ID,
		Name:    info.Name,
		Avatar:  info.Avatar,
		Score:   info.Score,
		Guessed: info.Guessed,
		Flags:   info.Flags,
	}
}

func (p Player) info() protocol.PlayerInfo {
	return protocol.PlayerInfo{
		ID:      p.ID,
		Name:    p.Name,
		Avatar:  p.Avatar,
		Score:   p.Score,
		Guessed: p.Guessed,
		Flags:   p.Flags,
	}
}

// Mirror is a participant's copy of one room, rebuilt from the snapshot and
// kept current by applying every packet the authority sends. It is safe for
// concurrent use.
type Mirror struct {
	mu sync.RWMutex

	synced   bool
	settings protocol.Settings
	roomID   string
	roomType protocol.RoomType
	me       int
	owner    int
	players  []Player
	round    int
	time     int
	state    protocol.State

	// live parts of the current turn, folded back into state by Snapshot
	canvas    []protocol.Command
	hints     []protocol.Hint
	word      string
	kickVotes map[int]int

	logger zerolog.Logger
}

func New() *Mirror {
	return &Mirror{
		owner:     protocol.NoOwner,
		state:     protocol.WaitingForPlayers{},
		kickVotes: map[int]int{},
		logger:    log.Logger,
	}
}

// Apply folds one authority packet into the mirror. Packets that arrive
// before the snapshot are ignored and reported as ErrNotSynchronized.
func (m *Mirror) Apply(p protocol.Packet) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if snap, ok := p.(protocol.LobbyData); ok {
		m.applySnapshot(snap)
		return nil
	}
	if !m.synced {
		return ErrNotSynchronized
	}

	switch p := p.(type) {
	case protocol.PlayerJoin:
		m.players = append(m.players, playerFromInfo(p.Player))
	case protocol.PlayerLeave:
		m.players = slices.DeleteFunc(m.players, func(pl Player) bool { return pl.ID == p.PlayerID })
		delete(m.kickVotes, p.PlayerID)
	case protocol.VoteKickTally:
		m.kickVotes[p.Target] = p.Votes
	case protocol.SettingsUpdate:
		if p.Index >= 0 && p.Index < protocol.SettingsCount {
			m.settings[p.Index] = p.Value
		}
	case protocol.StateUpdate:
		m.applyState(p)
	case protocol.RevealHint:
		m.hints = append(m.hints, p.Hints...)
	case protocol.UpdateTime:
		m.time = p.Seconds
	case protocol.PlayerGuessed:
		if pl := m.player(p.PlayerID); pl != nil {
			pl.Guessed = true
		}
		if p.PlayerID == m.me && p.Word != "" {
			m.word = p.Word
		}
	case protocol.SetOwner:
		m.owner = p.PlayerID
	case protocol.Draw:
		m.canvas = append(m.canvas, p.Commands...)
	case protocol.ClearCanvas:
		m.canvas = nil
	case protocol.Undo:
		m.undo(p.Index)
	case protocol.NameChanged:
		if pl := m.player(p.PlayerID); pl != nil {
			pl.Name = p.Name
		}
	case protocol.VoteCast, protocol.CloseWord, protocol.ChatMessage, protocol.GameStartError, protocol.SpamDetected:
		// events only, nothing to keep
	default:
		m.logger.Debug().Int("packet", int(p.ID())).Msg("mirror ignored packet")
	}
	return nil
}

func (m *Mirror) applySnapshot(snap protocol.LobbyData) {
	m.synced = true
	m.settings = snap.Settings
	m.roomID = snap.RoomID
	m.roomType = snap.Type
	m.me = snap.Me
	m.owner = snap.Owner
	clear(m.kickVotes)
	m.state = nil
	m.applyState(snap.State)
	m.round = snap.Round
	m.players = make([]Player, 0, len(snap.Users))
	for _, u := range snap.Users {
		m.players = append(m.players, playerFromInfo(u))
	}
	m.logger = log.With().Str("room", snap.RoomID).Int("me", snap.Me).Logger()
}

// applyState replaces the state. Entering a new game or the waiting room
// resets scores the same way the authority does.
func (m *Mirror) applyState(su protocol.StateUpdate) {
	prev := m.state
	m.state = su.State
	m.time = su.Time

	switch s := su.State.(type) {
	case protocol.RoundBegin:
		m.round = s.Round
		if startsNewGame(prev) {
			m.resetScores()
		}
	case protocol.WordSelection:
		m.resetTurn()
		m.clearGuesses()
		clear(m.kickVotes)
	case protocol.Drawing:
		m.canvas = slices.Clone(s.Canvas)
		m.hints = slices.Clone(s.Hints)
		m.word = s.Word
	case protocol.TurnResults:
		m.resetTurn()
		m.word = s.Word
		m.clearGuesses()
		for _, d := range s.Scores {
			if pl := m.player(d.PlayerID); pl != nil {
				pl.Score = d.Score
			}
		}
	case protocol.WaitingRoom:
		m.round = 0
		m.resetScores()
		m.resetTurn()
	default:
		m.resetTurn()
	}
}

func startsNewGame(prev protocol.State) bool {
	switch prev.(type) {
	case protocol.WaitingForPlayers, protocol.StartingSoon, protocol.GameResults, protocol.WaitingRoom:
		return true
	}
	return false
}

func (m *Mirror) resetScores() {
	for i := range m.players {
		m.players[i].Score = 0
		m.players[i].Guessed = false
	}
}

func (m *Mirror) clearGuesses() {
	for i := range m.players {
		m.players[i].Guessed = false
	}
}

func (m *Mirror) resetTurn() {
	m.canvas = nil
	m.hints = nil
	m.word = ""
}

func (m *Mirror) undo(index int) {
	if index < 0 || index >= len(m.canvas) {
		return
	}
	m.canvas = m.canvas[:index]
	if len(m.canvas) == 0 {
		m.canvas = nil
	}
}

func (m *Mirror) player(id int) *Player {
	for i := range m.players {
		if m.players[i].ID == id {
			return &m.players[i]
		}
	}
	return nil
}

// Snapshot renders the mirror in the same shape the authority uses for a
// joining participant.
func (m *Mirror) Snapshot() protocol.LobbyData {
	m.mu.RLock()
	defer m.mu.RUnlock()

	users := make([]protocol.PlayerInfo, 0, len(m.players))
	for _, p := range m.players {
		users = append(users, p.info())
	}
	return protocol.LobbyData{
		Settings: m.settings,
		RoomID:   m.roomID,
		Type:     m.roomType,
		Me:       m.me,
		Owner:    m.owner,
		Users:    users,
		Round:    m.round,
		State:    protocol.StateUpdate{Time: m.time, State: m.currentState()},
	}
}

func (m *Mirror) currentState() protocol.State {
	d, ok := m.state.(protocol.Drawing)
	if !ok {
		return m.state
	}
	d.Canvas = slices.Clone(m.canvas)
	d.Word = m.word
	if d.Drawer != m.me {
		d.Hints = slices.Clone(m.hints)
	}
	return d
}
