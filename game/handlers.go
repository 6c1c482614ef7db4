package game

import (
	"context"
	"errors"
	"fmt"
	"math/rand/v2"
	"net/http"
	"net/url"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/Skribblers/skribbler/crypto"
	"github.com/Skribblers/skribbler/policy"
	"github.com/Skribblers/skribbler/protocol"
	"github.com/Skribblers/skribbler/transport"
	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"
	"github.com/skip2/go-qrcode"
)

const (
	defaultLoginTimeout  = 10 * time.Second
	defaultJoinTimeout   = 10 * time.Second
	defaultLateJoinGrace = time.Minute
	inviteQRSize         = 256
)

type GameHandler struct {
	lobby         RoomDirectory
	tickets       TicketIssuer
	upgrader      *websocket.Upgrader
	publicURL     string
	socketURL     string
	loginTimeout  time.Duration
	joinTimeout   time.Duration
	lateJoinGrace time.Duration
	now           func() time.Time
}

// NewGameHandler wires the HTTP surface to a lobby. A nil tickets disables
// join tickets, so /socket accepts any login.
func NewGameHandler(lobby RoomDirectory, tickets TicketIssuer, upgrader *websocket.Upgrader, publicURL string) *GameHandler {
	publicURL = strings.TrimSuffix(publicURL, "/")
	return &GameHandler{
		lobby:         lobby,
		tickets:       tickets,
		upgrader:      upgrader,
		publicURL:     publicURL,
		socketURL:     "ws" + strings.TrimPrefix(publicURL, "http") + "/socket",
		loginTimeout:  defaultLoginTimeout,
		joinTimeout:   defaultJoinTimeout,
		lateJoinGrace: defaultLateJoinGrace,
		now:           time.Now,
	}
}

func (h *GameHandler) RegisterRoutes(r gin.IRoutes) {
	r.POST("/play", h.PlayHandler)
	r.GET("/socket", h.SocketHandler)
	r.GET("/rooms", h.PublicRoomsHandler)
	r.GET("/rooms/:code/invite.png", h.InviteHandler)
}

// PlayHandler resolves a room code or a language into the socket address the
// participant should connect to.
func (h *GameHandler) PlayHandler(ctx *gin.Context) {
	lang, err := strconv.Atoi(ctx.DefaultPostForm("lang", "0"))
	if err != nil || policy.CheckSetting(protocol.SettingLanguage, lang) != nil {
		ctx.String(http.StatusBadRequest, "invalid-lang")
		return
	}

	ticket := crypto.Ticket{Lang: lang}
	if code := ctx.PostForm("id"); code != "" {
		desc, ok := h.lobby.LookupRoom(ctx.Request.Context(), code)
		if !ok {
			ctx.String(http.StatusNotFound, ErrRoomNotFound.Error())
			return
		}
		ticket.Room = code
		ticket.Lang = desc.lang
	} else {
		ticket.Create = ctx.PostForm("create") == "1"
	}

	if h.tickets == nil {
		ctx.String(http.StatusOK, h.socketURL)
		return
	}
	token, err := h.tickets.Generate(ticket, h.now())
	if err != nil {
		log.Error().Err(err).Msg("ticket generation failed")
		ctx.String(http.StatusInternalServerError, "unknown-error")
		return
	}
	ctx.String(http.StatusOK, h.socketURL+"?ticket="+url.QueryEscape(token))
}

func (h *GameHandler) SocketHandler(ctx *gin.Context) {
	var ticket *crypto.Ticket
	if h.tickets != nil {
		t, err := h.tickets.Verify(ctx.Query("ticket"))
		if err != nil {
			log.Info().Err(err).Str("ip", ctx.ClientIP()).Msg("rejected ticket")
			ctx.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": ErrInvalidTicket.Error()})
			return
		}
		ticket = &t
	}

	socket, err := transport.Upgrade(h.upgrader, ctx.Writer, ctx.Request)
	if err != nil {
		log.Debug().Err(err).Str("ip", ctx.ClientIP()).Msg("websocket upgrade failed")
		return
	}

	login, err := h.readLogin(socket)
	if err != nil {
		log.Debug().Err(err).Str("ip", ctx.ClientIP()).Msg("login failed")
		socket.Close(err.Error())
		return
	}

	player := NewPlayer(playerName(login.Name), login.Avatar, ctx.ClientIP())
	jreq := joinRequestFor(login, ticket)
	jreq.player = player

	joinCtx, cancel := context.WithTimeout(context.Background(), h.joinTimeout)
	defer cancel()
	jreq.ctx = joinCtx

	if err := h.lobby.RequestJoin(joinCtx, jreq); err != nil {
		socket.Close(joinFailure(err).Error())
		return
	}

	select {
	case err := <-jreq.errChan:
		if err != nil {
			log.Info().Err(err).Str("ip", ctx.ClientIP()).Str("room", jreq.roomId).Msg("join rejected")
			socket.Close(err.Error())
			return
		}
	case <-joinCtx.Done():
		player.CancelAndRelease(ErrJoinTimeout.Error())
		socket.Close(ErrJoinTimeout.Error())
		h.abandonJoin(jreq, player)
		return
	}

	go player.WritePump(socket)
	go player.ReadPump(socket)
}

func (h *GameHandler) PublicRoomsHandler(ctx *gin.Context) {
	descriptions := h.lobby.GetPublicGames(ctx.Request.Context())
	rooms := make([]RoomSummary, 0, len(descriptions))
	for _, d := range descriptions {
		rooms = append(rooms, d.summary())
	}
	slices.SortFunc(rooms, func(a, b RoomSummary) int {
		return strings.Compare(a.Id, b.Id)
	})
	ctx.JSON(http.StatusOK, rooms)
}

func (h *GameHandler) InviteHandler(ctx *gin.Context) {
	code := ctx.Param("code")
	if _, ok := h.lobby.LookupRoom(ctx.Request.Context(), code); !ok {
		ctx.String(http.StatusNotFound, ErrRoomNotFound.Error())
		return
	}
	png, err := qrcode.Encode(h.publicURL+"/?"+code, qrcode.Medium, inviteQRSize)
	if err != nil {
		log.Error().Err(err).Str("room", code).Msg("qr encoding failed")
		ctx.String(http.StatusInternalServerError, "unknown-error")
		return
	}
	ctx.Data(http.StatusOK, "image/png", png)
}

// abandonJoin waits for the answer to a join the participant gave up on. A
// room that admitted the player anyway is told to drop it again.
func (h *GameHandler) abandonJoin(jreq roomJoinRequest, p *player) {
	timer := time.NewTimer(h.lateJoinGrace)
	defer timer.Stop()
	select {
	case err := <-jreq.errChan:
		if err == nil && p.room != nil {
			p.room.RemoveMe(p)
		}
	case <-timer.C:
		log.Warn().Str("room", jreq.roomId).Msg("no answer for an abandoned join")
	}
}

// readLogin waits for the first frame, which must be a login packet.
func (h *GameHandler) readLogin(socket NetworkSession) (protocol.Login, error) {
	type result struct {
		login protocol.Login
		err   error
	}
	res := make(chan result, 1)

	go func() {
		data, err := socket.Read()
		if err != nil {
			res <- result{err: err}
			return
		}
		env, err := protocol.Unmarshal(data)
		if err != nil {
			res <- result{err: ErrMalformedLogin}
			return
		}
		packet, err := protocol.DecodeClient(env)
		if err != nil {
			res <- result{err: ErrMalformedLogin}
			return
		}
		login, ok := packet.(protocol.Login)
		if !ok {
			res <- result{err: ErrMalformedLogin}
			return
		}
		res <- result{login: login}
	}()

	timer := time.NewTimer(h.loginTimeout)
	defer timer.Stop()
	select {
	case r := <-res:
		return r.login, r.err
	case <-timer.C:
		return protocol.Login{}, ErrLoginTimeout
	}
}

// joinRequestFor routes a login. A verified ticket takes precedence over
// whatever the login frame asks for.
func joinRequestFor(login protocol.Login, ticket *crypto.Ticket) roomJoinRequest {
	jreq := roomJoinRequest{
		mode:    joinPublic,
		lang:    login.Lang,
		errChan: make(chan error, 1),
	}

	code, create := login.Join, login.Create == 1
	if ticket != nil {
		code, create, jreq.lang = ticket.Room, ticket.Create, ticket.Lang
	}

	switch {
	case code != "":
		jreq.mode = joinByCode
		jreq.roomId = code
	case create:
		jreq.mode = joinCreate
	}
	return jreq
}

func playerName(requested string) string {
	if name := policy.SanitizeName(requested); name != "" {
		return name
	}
	return fmt.Sprintf("Guest%04d", rand.IntN(10000))
}

func joinFailure(err error) error {
	if errors.Is(err, context.DeadlineExceeded) {
		return ErrJoinTimeout
	}
	return err
}
