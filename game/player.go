package game

import (
	"context"
	"sync"

	"github.com/Skribblers/skribbler/protocol"
	"github.com/rs/zerolog/log"
	"golang.org/x/time/rate"
)

const (
	inboxSize      = 256
	chatRatePerSec = 1
	chatBurst      = 5
)

var spamDetectedFrame, _ = protocol.EncodeFrame(protocol.SpamDetected{})

type player struct {
	name        string
	avatar      [4]int
	addr        string
	rateLimiter *rate.Limiter
	inbox       chan []byte
	pingChan    chan struct{}
	room        Room
	ctx         context.Context
	cancelCtx   context.CancelFunc
	reasonLock  sync.Mutex
	closeReason string
}

func NewPlayer(name string, avatar [4]int, addr string) *player {
	ctx, cancel := context.WithCancel(context.Background())
	return &player{
		name:        name,
		avatar:      avatar,
		addr:        addr,
		rateLimiter: rate.NewLimiter(chatRatePerSec, chatBurst),
		inbox:       make(chan []byte, inboxSize),
		pingChan:    make(chan struct{}, 1),
		ctx:         ctx,
		cancelCtx:   cancel,
	}
}

func (p *player) Name() string       { return p.name }
func (p *player) Avatar() [4]int     { return p.avatar }
func (p *player) RemoteAddr() string { return p.addr }

func (p *player) SetRoom(r Room) {
	p.room = r
}

func (p *player) Send(data []byte) error {
	select {
	case p.inbox <- data:
		return nil
	default:
		return ErrSendBufferFull
	}
}

func (p *player) Ping() error {
	select {
	case p.pingChan <- struct{}{}:
	default:
	}
	return nil
}

// CancelAndRelease stops both pumps. The first reason given is the one the
// participant sees in the close frame.
func (p *player) CancelAndRelease(reason string) {
	p.reasonLock.Lock()
	if p.ctx.Err() == nil && p.closeReason == "" {
		p.closeReason = reason
	}
	p.reasonLock.Unlock()
	p.cancelCtx()
}

func (p *player) reason() string {
	p.reasonLock.Lock()
	defer p.reasonLock.Unlock()
	return p.closeReason
}

// disconnect reports a dead transport to the room and releases the player.
// A player the room already released is not reported again.
func (p *player) disconnect() {
	if p.ctx.Err() == nil && p.room != nil {
		p.room.RemoveMe(p)
	}
	p.CancelAndRelease("")
}

func (p *player) ReadPump(socket NetworkSession) {
	defer p.CancelAndRelease("")

	for {
		data, err := socket.Read()
		if err != nil {
			log.Debug().Err(err).Str("player", p.name).Msg("read pump stopped")
			break
		}

		env, err := protocol.Unmarshal(data)
		if err != nil {
			log.Debug().Err(err).Str("player", p.name).Msg("dropping frame")
			continue
		}
		packet, err := protocol.DecodeClient(env)
		if err != nil {
			log.Debug().Err(err).Str("player", p.name).Int("packet", int(env.ID)).Msg("dropping packet")
			continue
		}

		if _, isChat := packet.(protocol.Text); isChat && !p.rateLimiter.Allow() {
			p.Send(spamDetectedFrame)
			continue
		}

		p.room.Send(p.ctx, ClientPacketEnvelope{packet: packet, from: p})
		if p.ctx.Err() != nil {
			return
		}
	}

	p.disconnect()
}

func (p *player) WritePump(socket NetworkSession) {
	defer func() {
		socket.Close(p.reason())
	}()

	for {
		select {
		case data := <-p.inbox:
			if err := socket.Write(data); err != nil {
				log.Debug().Err(err).Str("player", p.name).Msg("write pump stopped")
				p.disconnect()
				return
			}
		case <-p.pingChan:
			if err := socket.Ping(); err != nil {
				log.Debug().Err(err).Str("player", p.name).Msg("ping failed")
				p.disconnect()
				return
			}
		case <-p.ctx.Done():
			p.drain(socket)
			return
		}
	}
}

// drain flushes whatever the room queued before releasing the player, so a
// kicked participant still receives the packets that explain why.
func (p *player) drain(socket NetworkSession) {
	for {
		select {
		case data := <-p.inbox:
			if socket.Write(data) != nil {
				return
			}
		default:
			return
		}
	}
}
