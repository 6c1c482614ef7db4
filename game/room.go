package game

import (
	"context"
	"math/rand/v2"
	"slices"
	"sync"
	"time"

	"github.com/Skribblers/skribbler/protocol"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

const (
	startingSoonSeconds  = 3
	roundBeginSeconds    = 2
	wordSelectionSeconds = 15
	turnResultsSeconds   = 3
	gameResultsSeconds   = 5
)

type RoomConfig struct {
	Defaults         protocol.Settings
	ReverseDrawOrder bool
}

type room struct {
	id           string
	roomType     protocol.RoomType
	settings     protocol.Settings
	reverseOrder bool
	owner        int
	nextId       int
	members      []*member
	round        int
	state        roomState
	timer        int
	customWords  []string
	blockedAddrs map[string]struct{}
	kickVotes    map[int]map[int]bool
	closing      bool

	wordsGenerator RandomWordsGenerator
	rng            *rand.Rand
	parentLobby    Lobby
	logger         zerolog.Logger

	sendTasks []dataSendTask

	inbox        chan ClientPacketEnvelope
	removals     chan Player
	joinRequests chan roomJoinRequest
	ticks        chan time.Time
	pingPlayers  chan struct{}
	done         chan struct{}
	closeOnce    sync.Once
}

func NewRoom(config RoomConfig, words RandomWordsGenerator, private bool, lang int) *room {
	settings := config.Defaults
	settings[protocol.SettingLanguage] = lang
	roomType := protocol.RoomPublic
	if private {
		roomType = protocol.RoomPrivate
	}

	return &room{
		roomType:       roomType,
		settings:       settings,
		reverseOrder:   config.ReverseDrawOrder,
		owner:          protocol.NoOwner,
		nextId:         1,
		members:        make([]*member, 0, settings[protocol.SettingMaxPlayers]),
		state:          &waitingForPlayers{},
		blockedAddrs:   map[string]struct{}{},
		kickVotes:      map[int]map[int]bool{},
		wordsGenerator: words,
		rng:            rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64())),
		logger:         log.Logger,
		inbox:          make(chan ClientPacketEnvelope, 1024),
		removals:       make(chan Player, 64),
		joinRequests:   make(chan roomJoinRequest, 64),
		ticks:          make(chan time.Time, 24),
		pingPlayers:    make(chan struct{}, 1),
		done:           make(chan struct{}),
	}
}

func (r *room) SetId(id string) {
	r.id = id
	r.logger = log.With().Str("room", id).Logger()
}

func (r *room) SetParentLobby(l Lobby) {
	r.parentLobby = l
}

func (r *room) Send(ctx context.Context, e ClientPacketEnvelope) {
	select {
	case r.inbox <- e:
	case <-ctx.Done():
	case <-r.done:
	}
}

func (r *room) RemoveMe(p Player) {
	select {
	case r.removals <- p:
	case <-r.done:
	}
}

// RequestJoin never blocks the caller; a saturated join queue reads as a full room.
func (r *room) RequestJoin(jreq roomJoinRequest) {
	select {
	case r.joinRequests <- jreq:
	default:
		jreq.errChan <- ErrRoomFull
	}
}

func (r *room) Tick(now time.Time) {
	select {
	case r.ticks <- now:
	default:
	}
}

func (r *room) PingPlayers() {
	select {
	case r.pingPlayers <- struct{}{}:
	default:
	}
}

func (r *room) CloseAndRelease() {
	r.closeOnce.Do(func() { close(r.done) })
}

// Description is only safe to call before GameLoop starts; afterwards the room
// pushes descriptions to its lobby.
func (r *room) Description() roomDescription {
	_, waiting := r.state.(*waitingForPlayers)
	_, waitingRoom := r.state.(*waitingRoom)
	return roomDescription{
		id:           r.id,
		private:      r.roomType == protocol.RoomPrivate,
		lang:         r.settings[protocol.SettingLanguage],
		playersCount: len(r.members),
		maxPlayers:   r.settings[protocol.SettingMaxPlayers],
		started:      !waiting && !waitingRoom,
	}
}

func (r *room) updateDescription() {
	if r.parentLobby == nil {
		return
	}
	r.parentLobby.RequestUpdateDescription(r.Description())
}

func (r *room) GameLoop() {
	defer r.release()

	for {
		select {
		case <-r.done:
			return
		case e := <-r.inbox:
			r.handleEnvelope(e)
		case jreq := <-r.joinRequests:
			r.handleJoinRequest(jreq)
		case p := <-r.removals:
			r.handlePlayerLeft(p)
		case <-r.ticks:
			r.handleTick()
		case <-r.pingPlayers:
			r.handlePing()
		}
		r.flush()
	}
}

func (r *room) release() {
	for _, m := range r.members {
		m.player.CancelAndRelease(ErrShuttingDown.Error())
	}
	r.members = nil
	for {
		select {
		case jreq := <-r.joinRequests:
			r.bounce(jreq)
		default:
			return
		}
	}
}

func (r *room) handlePing() {
	for _, m := range r.members {
		m.player.Ping()
	}
}

// flush hands queued packets to the players. A player that cannot keep up is
// dropped, which may queue further packets for the others.
func (r *room) flush() {
	for len(r.sendTasks) > 0 {
		tasks := r.sendTasks
		r.sendTasks = nil
		var lagging []Player
		for _, task := range tasks {
			if slices.Contains(lagging, task.to) {
				continue
			}
			if err := task.to.Send(task.data); err != nil {
				lagging = append(lagging, task.to)
			}
		}
		for _, p := range lagging {
			if m := r.memberOf(p); m != nil {
				r.logger.Info().Str("player", m.name).Msg("dropping player with full send buffer")
				r.removeMember(m, protocol.LeaveDisconnect)
			}
		}
	}
}

func (r *room) memberOf(p Player) *member {
	for _, m := range r.members {
		if m.player == p {
			return m
		}
	}
	return nil
}

func (r *room) memberById(id int) *member {
	for _, m := range r.members {
		if m.id == id {
			return m
		}
	}
	return nil
}

func (r *room) isPrivate() bool {
	return r.roomType == protocol.RoomPrivate
}

func (r *room) isOwner(m *member) bool {
	return r.isPrivate() && m.id == r.owner
}
