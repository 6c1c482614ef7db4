package relay

import (
	"context"
	"net/http"
	"net/url"

	"github.com/Skribblers/skribbler/transport"
	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"
)

type Dialer func(ctx context.Context, url string, header http.Header) (transport.Conn, error)

// Server accepts participant websockets and pairs each with a fresh
// connection to the upstream authority.
type Server struct {
	ctx         context.Context
	upstreamURL *url.URL
	upgrader    *websocket.Upgrader
	dial        Dialer
	// OnPairing runs before a pairing starts, typically to install an
	// interceptor.
	OnPairing func(*Pairing)
}

// NewServer serves until ctx is cancelled; live pairings end with it.
func NewServer(ctx context.Context, upstreamURL string, upgrader *websocket.Upgrader) (*Server, error) {
	u, err := url.Parse(upstreamURL)
	if err != nil {
		return nil, err
	}
	return &Server{
		ctx:         ctx,
		upstreamURL: u,
		upgrader:    upgrader,
		dial:        transport.Dial,
	}, nil
}

func (s *Server) RegisterRoutes(r gin.IRoutes) {
	r.GET("/socket", s.SocketHandler)
}

// upstreamFor keeps the upstream's path and adds the participant's query,
// which carries the join ticket.
func (s *Server) upstreamFor(r *http.Request) string {
	u := *s.upstreamURL
	q := u.Query()
	for k, vs := range r.URL.Query() {
		for _, v := range vs {
			q.Add(k, v)
		}
	}
	u.RawQuery = q.Encode()
	return u.String()
}

func (s *Server) SocketHandler(ctx *gin.Context) {
	header := http.Header{}
	header.Set("X-Forwarded-For", ctx.ClientIP())

	upstream, err := s.dial(ctx.Request.Context(), s.upstreamFor(ctx.Request), header)
	if err != nil {
		log.Warn().Err(err).Str("upstream", s.upstreamURL.Host).Msg("upstream dial failed")
		ctx.AbortWithStatusJSON(http.StatusBadGateway, gin.H{"error": ErrUpstreamDial.Error()})
		return
	}

	downstream, err := transport.Upgrade(s.upgrader, ctx.Writer, ctx.Request)
	if err != nil {
		log.Debug().Err(err).Str("ip", ctx.ClientIP()).Msg("websocket upgrade failed")
		upstream.Close("")
		return
	}

	p := NewPairing(downstream, upstream)
	if s.OnPairing != nil {
		s.OnPairing(p)
	}
	log.Info().Str("pairing", p.ID()).Str("ip", ctx.ClientIP()).Msg("pairing accepted")
	go p.Run(s.ctx)
}
