package relay

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/Skribblers/skribbler/transport"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

var pingInterval = 30 * time.Second

// Pairing couples one participant connection (downstream) with one authority
// connection (upstream). Both live and die together.
type Pairing struct {
	id         string
	downstream transport.Conn
	upstream   transport.Conn
	intercept  func(*Message) Verdict
	connected  atomic.Bool
	logger     zerolog.Logger
}

func NewPairing(downstream, upstream transport.Conn) *Pairing {
	id := uuid.NewString()
	return &Pairing{
		id:         id,
		downstream: downstream,
		upstream:   upstream,
		logger:     log.With().Str("pairing", id).Logger(),
	}
}

func (p *Pairing) ID() string {
	return p.id
}

// Intercept installs fn, called for every frame in either direction before
// it is forwarded. It must be set before Run. fn runs on the goroutine of
// the frame's source side, so both directions may call it concurrently.
func (p *Pairing) Intercept(fn func(*Message) Verdict) {
	p.intercept = fn
}

func (p *Pairing) Connected() bool {
	return p.connected.Load()
}

func (p *Pairing) SendUpstream(data []byte) error {
	if !p.Connected() {
		return ErrNotConnected
	}
	return p.upstream.Write(data)
}

func (p *Pairing) SendDownstream(data []byte) error {
	if !p.Connected() {
		return ErrNotConnected
	}
	return p.downstream.Write(data)
}

type pumpEnd struct {
	side   error
	reason string
	err    error
}

// Run forwards frames both ways until either side ends or ctx is cancelled.
// Both connections are closed on return; the downstream sees the upstream's
// close reason.
func (p *Pairing) Run(ctx context.Context) error {
	p.connected.Store(true)
	defer p.connected.Store(false)
	p.logger.Debug().Msg("pairing started")

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	ends := make(chan pumpEnd, 2)
	wg := sync.WaitGroup{}
	wg.Go(func() {
		ends <- p.pump(ToUpstream)
	})
	wg.Go(func() {
		ends <- p.pump(ToDownstream)
	})
	wg.Go(func() {
		p.pingDownstream(ctx)
	})

	var first pumpEnd
	select {
	case first = <-ends:
	case <-ctx.Done():
		first = pumpEnd{side: ctx.Err(), err: ctx.Err()}
	}
	p.connected.Store(false)
	cancel()

	p.upstream.Close(first.reason)
	p.downstream.Close(first.reason)
	wg.Wait()

	p.logger.Debug().Str("reason", first.reason).Err(first.err).Msg("pairing ended")
	if first.reason != "" {
		return fmt.Errorf("%w: %s", first.side, first.reason)
	}
	return first.side
}

func (p *Pairing) pump(dir Direction) pumpEnd {
	from, to := p.downstream, p.upstream
	fromSide, toSide := ErrDownstreamClosed, ErrUpstreamClosed
	if dir == ToDownstream {
		from, to = to, from
		fromSide, toSide = toSide, fromSide
	}

	for {
		data, err := from.Read()
		if err != nil {
			return pumpEnd{side: fromSide, reason: transport.CloseReason(err), err: err}
		}

		msg := &Message{Direction: dir, Data: data}
		if p.intercept != nil && p.intercept(msg) == Drop {
			continue
		}
		if err := to.Write(msg.Data); err != nil {
			p.logger.Debug().Err(err).Stringer("direction", dir).Msg("forwarding failed")
			return pumpEnd{side: toSide, err: err}
		}
	}
}

func (p *Pairing) pingDownstream(ctx context.Context) {
	ticker := time.NewTicker(pingInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if err := p.downstream.Ping(); err != nil {
				p.logger.Debug().Err(err).Msg("ping failed")
			}
		}
	}
}
