package mirror

import (
	"context"
	"errors"
	"fmt"

	"github.com/Skribblers/skribbler/protocol"
	"github.com/Skribblers/skribbler/transport"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// Client keeps a Mirror in sync with one authority connection.
type Client struct {
	conn    transport.Conn
	mirror  *Mirror
	handler func(protocol.Packet)
	logger  zerolog.Logger
}

func NewClient(conn transport.Conn) *Client {
	return &Client{
		conn:    conn,
		mirror:  New(),
		handler: func(protocol.Packet) {},
		logger:  log.With().Str("component", "mirror").Logger(),
	}
}

// Connect dials the authority's socket URL and sends the login frame.
func Connect(ctx context.Context, url string, login protocol.Login) (*Client, error) {
	conn, err := transport.Dial(ctx, url, nil)
	if err != nil {
		return nil, err
	}
	c := NewClient(conn)
	if err := c.Send(login); err != nil {
		conn.Close("")
		return nil, err
	}
	return c, nil
}

func (c *Client) Mirror() *Mirror {
	return c.mirror
}

// OnPacket installs a callback run after each authority packet has been
// applied. It must be set before Run.
func (c *Client) OnPacket(fn func(protocol.Packet)) {
	c.handler = fn
}

func (c *Client) Send(p protocol.Packet) error {
	frame, err := protocol.EncodeFrame(p)
	if err != nil {
		return err
	}
	return c.conn.Write(frame)
}

// Submit sends the result of one of the Mirror's builders, e.g.
// c.Submit(c.Mirror().Draw(cmds...)).
func (c *Client) Submit(p protocol.Packet, err error) error {
	if err != nil {
		return err
	}
	return c.Send(p)
}

// Run reads until the connection ends or ctx is cancelled. It always returns
// a *DisconnectedError.
func (c *Client) Run(ctx context.Context) error {
	stop := context.AfterFunc(ctx, func() {
		c.conn.Close("")
	})
	defer stop()

	for {
		frame, err := c.conn.Read()
		if err != nil {
			if ctx.Err() != nil {
				return &DisconnectedError{Err: ctx.Err()}
			}
			return &DisconnectedError{Reason: transport.CloseReason(err), Err: err}
		}

		p, err := decode(frame)
		if err != nil {
			c.logger.Debug().Err(err).Msg("dropping malformed packet")
			continue
		}
		if err := c.mirror.Apply(p); err != nil {
			c.logger.Debug().Err(err).Stringer("packet", p.ID()).Msg("packet before snapshot")
			continue
		}
		c.handler(p)
	}
}

func (c *Client) Close() {
	c.conn.Close("")
}

func decode(frame []byte) (protocol.Packet, error) {
	env, err := protocol.Unmarshal(frame)
	if err != nil {
		return nil, err
	}
	p, err := protocol.DecodeServer(env)
	if err != nil {
		return nil, fmt.Errorf("packet %v: %w", env.ID, err)
	}
	return p, nil
}

// IsKicked reports whether err ended a session because of a kick or ban.
func IsKicked(err error) bool {
	var de *DisconnectedError
	if !errors.As(err, &de) {
		return false
	}
	return de.Reason == "kicked" || de.Reason == "banned"
}
