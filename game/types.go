package game

import (
	"context"

	"github.com/Skribblers/skribbler/protocol"
)

type ClientPacketEnvelope struct {
	packet protocol.Packet
	from   Player
}

type joinMode int

const (
	joinPublic joinMode = iota
	joinByCode
	joinCreate
)

type roomJoinRequest struct {
	// ctx bounds how long the participant waits; a room drops requests
	// whose ctx is already done.
	ctx     context.Context
	player  Player
	mode    joinMode
	roomId  string
	lang    int
	errChan chan error
}

type roomDescription struct {
	id           string
	private      bool
	lang         int
	playersCount int
	maxPlayers   int
	started      bool
}

type RoomSummary struct {
	Id         string `json:"id"`
	Lang       int    `json:"lang"`
	Players    int    `json:"players"`
	MaxPlayers int    `json:"maxPlayers"`
	Started    bool   `json:"started"`
}

func (d roomDescription) summary() RoomSummary {
	return RoomSummary{
		Id:         d.id,
		Lang:       d.lang,
		Players:    d.playersCount,
		MaxPlayers: d.maxPlayers,
		Started:    d.started,
	}
}

type dataSendTask struct {
	to   Player
	data []byte
}

type member struct {
	id       int
	player   Player
	name     string
	avatar   [4]int
	score    int
	guessed  bool
	hasDrawn bool
	voted    bool
}

func (m *member) info() protocol.PlayerInfo {
	return protocol.PlayerInfo{
		ID:      m.id,
		Name:    m.name,
		Avatar:  m.avatar,
		Score:   m.score,
		Guessed: m.guessed,
	}
}
