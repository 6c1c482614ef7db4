package game

import (
	"context"
	"time"

	"github.com/Skribblers/skribbler/crypto"
	"github.com/Skribblers/skribbler/transport"
)

type Player interface {
	Send(data []byte) error
	Ping() error
	SetRoom(r Room)
	CancelAndRelease(reason string)
	Name() string
	Avatar() [4]int
	RemoteAddr() string
}

type Room interface {
	Send(ctx context.Context, e ClientPacketEnvelope)
	RemoveMe(p Player)
	RequestJoin(jreq roomJoinRequest)
	Tick(now time.Time)
	PingPlayers()
	GameLoop()
	CloseAndRelease()
	Description() roomDescription
	SetParentLobby(l Lobby)
	SetId(id string)
}

type Lobby interface {
	RequestUpdateDescription(desc roomDescription)
	RemoveRoom(roomId string)
	Rematch(roomId string, jreq roomJoinRequest)
}

// RoomDirectory is what the HTTP handlers need from the lobby.
type RoomDirectory interface {
	RequestJoin(ctx context.Context, jreq roomJoinRequest) error
	GetPublicGames(ctx context.Context) []roomDescription
	LookupRoom(ctx context.Context, roomId string) (roomDescription, bool)
}

type UniqueIdGenerator interface {
	Generate() string
	Dispose(id string)
}

type PeriodicTickerChannelCreator interface {
	Create(duration time.Duration) <-chan time.Time
}

// RandomWordsGenerator returns up to count random dictionary words for a language.
type RandomWordsGenerator interface {
	Generate(lang, count int) []string
}

type TicketIssuer interface {
	Generate(t crypto.Ticket, now time.Time) (string, error)
	Verify(token string) (crypto.Ticket, error)
}

type NetworkSession = transport.Conn

// RoomFactory builds a room that is not yet registered with the lobby.
type RoomFactory func(private bool, lang int) Room
