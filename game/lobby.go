package game

import (
	"context"
	"time"

	"github.com/rs/zerolog/log"
)

type roomLookup struct {
	roomId string
	resp   chan roomDescription
}

// rematch is a public join bounced by a room that closed before handling it.
type rematch struct {
	roomId string
	jreq   roomJoinRequest
}

type lobby struct {
	rooms                map[string]Room
	pubRoomsDescriptions map[string]roomDescription
	allDescriptions      map[string]roomDescription
	addRoomChan          chan Room
	removeRoomChan       chan string
	pubGamesReq          chan chan []roomDescription
	lookupReq            chan roomLookup
	roomDescUpdate       chan roomDescription
	roomJoinReqs         chan roomJoinRequest
	rematchReqs          chan rematch
	done                 chan struct{}
	idGenerator          UniqueIdGenerator
	tickerCreator        PeriodicTickerChannelCreator
	newRoom              RoomFactory
}

func NewLobby(idgen UniqueIdGenerator, tickerCreator PeriodicTickerChannelCreator, newRoom RoomFactory) *lobby {
	return &lobby{
		rooms:                map[string]Room{},
		pubRoomsDescriptions: map[string]roomDescription{},
		allDescriptions:      map[string]roomDescription{},
		addRoomChan:          make(chan Room, 32),
		removeRoomChan:       make(chan string, 32),
		pubGamesReq:          make(chan chan []roomDescription, 256),
		lookupReq:            make(chan roomLookup, 256),
		roomDescUpdate:       make(chan roomDescription, 256),
		roomJoinReqs:         make(chan roomJoinRequest, 256),
		rematchReqs:          make(chan rematch, 64),
		done:                 make(chan struct{}),
		idGenerator:          idgen,
		tickerCreator:        tickerCreator,
		newRoom:              newRoom,
	}
}

func (l *lobby) RequestUpdateDescription(desc roomDescription) {
	select {
	case l.roomDescUpdate <- desc:
	case <-l.done:
	}
}

// Rematch routes a public join again, skipping the room that bounced it.
func (l *lobby) Rematch(roomId string, jreq roomJoinRequest) {
	select {
	case <-l.done:
		jreq.errChan <- ErrShuttingDown
		return
	default:
	}
	select {
	case l.rematchReqs <- rematch{roomId: roomId, jreq: jreq}:
	case <-l.done:
		jreq.errChan <- ErrShuttingDown
	}
}

func (l *lobby) RemoveRoom(roomId string) {
	select {
	case l.removeRoomChan <- roomId:
	case <-l.done:
	}
}

func (l *lobby) RequestJoin(ctx context.Context, jreq roomJoinRequest) error {
	select {
	case <-l.done:
		return ErrShuttingDown
	default:
	}
	select {
	case l.roomJoinReqs <- jreq:
		return nil
	case <-l.done:
		return ErrShuttingDown
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (l *lobby) GetPublicGames(ctx context.Context) []roomDescription {
	respChan := make(chan []roomDescription, 1)
	select {
	case l.pubGamesReq <- respChan:
	case <-ctx.Done():
		return nil
	case <-l.done:
		return nil
	}
	select {
	case resp := <-respChan:
		return resp
	case <-ctx.Done():
	case <-l.done:
	}
	return nil
}

func (l *lobby) LookupRoom(ctx context.Context, roomId string) (roomDescription, bool) {
	req := roomLookup{roomId: roomId, resp: make(chan roomDescription, 1)}
	select {
	case l.lookupReq <- req:
	case <-ctx.Done():
		return roomDescription{}, false
	case <-l.done:
		return roomDescription{}, false
	}
	select {
	case desc, ok := <-req.resp:
		return desc, ok
	case <-ctx.Done():
	case <-l.done:
	}
	return roomDescription{}, false
}

// LobbyActor owns the room map. It returns, closing every room, once ctx is done.
func (l *lobby) LobbyActor(ctx context.Context, started chan struct{}) {
	ticker := l.tickerCreator.Create(time.Second)
	pingTicker := l.tickerCreator.Create(time.Second * 30)

	close(started)

	for {
		select {
		case <-ctx.Done():
			l.shutdown()
			return

		case now := <-ticker:
			for _, r := range l.rooms {
				r.Tick(now)
			}

		case <-pingTicker:
			for _, r := range l.rooms {
				r.PingPlayers()
			}

		case room := <-l.addRoomChan:
			l.handleAddAndRunRoom(room)

		case roomId := <-l.removeRoomChan:
			l.handleRemoveRoom(roomId)

		case desc := <-l.roomDescUpdate:
			l.handleDescriptionUpdate(desc)

		case pubGamesReq := <-l.pubGamesReq:
			l.handleGetPublicRoomsDescription(pubGamesReq)

		case req := <-l.lookupReq:
			l.handleLookup(req)

		case joinReq := <-l.roomJoinReqs:
			l.handleJoinReq(joinReq)

		case m := <-l.rematchReqs:
			l.handleRematch(m)
		}
	}
}

func (l *lobby) shutdown() {
	close(l.done)
	for id, r := range l.rooms {
		r.CloseAndRelease()
		l.idGenerator.Dispose(id)
	}
	clear(l.rooms)
	clear(l.pubRoomsDescriptions)
	clear(l.allDescriptions)
	for {
		select {
		case jreq := <-l.roomJoinReqs:
			jreq.errChan <- ErrShuttingDown
		case m := <-l.rematchReqs:
			m.jreq.errChan <- ErrShuttingDown
		default:
			return
		}
	}
}

func (l *lobby) handleAddAndRunRoom(r Room) string {
	id := l.idGenerator.Generate()
	r.SetParentLobby(l)
	r.SetId(id)

	l.rooms[id] = r
	rDesc := r.Description()
	l.allDescriptions[id] = rDesc
	if !rDesc.private {
		l.pubRoomsDescriptions[id] = rDesc
	}
	go r.GameLoop()
	log.Debug().Str("room", id).Bool("private", rDesc.private).Msg("room created")
	return id
}

func (l *lobby) handleRemoveRoom(toRemoveId string) {
	room, ok := l.rooms[toRemoveId]
	if !ok {
		return
	}
	delete(l.rooms, toRemoveId)
	delete(l.pubRoomsDescriptions, toRemoveId)
	delete(l.allDescriptions, toRemoveId)
	room.CloseAndRelease()
	l.idGenerator.Dispose(toRemoveId)
	log.Debug().Str("room", toRemoveId).Msg("room removed")
}

func (l *lobby) handleDescriptionUpdate(desc roomDescription) {
	if _, ok := l.rooms[desc.id]; !ok {
		return
	}
	l.allDescriptions[desc.id] = desc
	if !desc.private {
		l.pubRoomsDescriptions[desc.id] = desc
	}
}

func (l *lobby) handleGetPublicRoomsDescription(req chan []roomDescription) {
	x := make([]roomDescription, 0, len(l.pubRoomsDescriptions))
	for _, description := range l.pubRoomsDescriptions {
		x = append(x, description)
	}
	req <- x
}

func (l *lobby) handleLookup(req roomLookup) {
	if desc, ok := l.allDescriptions[req.roomId]; ok {
		req.resp <- desc
	}
	close(req.resp)
}

func (l *lobby) handleJoinReq(joinReq roomJoinRequest) {
	switch joinReq.mode {
	case joinByCode:
		room, ok := l.rooms[joinReq.roomId]
		if !ok {
			joinReq.errChan <- ErrRoomNotFound
			return
		}
		room.RequestJoin(joinReq)

	case joinCreate:
		id := l.handleAddAndRunRoom(l.newRoom(true, joinReq.lang))
		l.rooms[id].RequestJoin(joinReq)

	default:
		id, ok := l.findPublicRoom(joinReq.lang)
		if !ok {
			id = l.handleAddAndRunRoom(l.newRoom(false, joinReq.lang))
		}
		desc := l.pubRoomsDescriptions[id]
		desc.playersCount++
		l.pubRoomsDescriptions[id] = desc
		l.rooms[id].RequestJoin(joinReq)
	}
}

func (l *lobby) handleRematch(m rematch) {
	delete(l.pubRoomsDescriptions, m.roomId)
	l.handleJoinReq(m.jreq)
}

// findPublicRoom prefers the fullest public room that still has space, so
// players end up together instead of spread across empty rooms.
func (l *lobby) findPublicRoom(lang int) (string, bool) {
	bestId, bestCount := "", -1
	for id, desc := range l.pubRoomsDescriptions {
		if desc.lang != lang || desc.playersCount >= desc.maxPlayers {
			continue
		}
		if desc.playersCount > bestCount || (desc.playersCount == bestCount && id < bestId) {
			bestId, bestCount = id, desc.playersCount
		}
	}
	return bestId, bestCount >= 0
}
