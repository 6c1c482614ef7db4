package game

import "errors"

var (
	ErrRoomNotFound   = errors.New("room-not-found")
	ErrRoomFull       = errors.New("room-full")
	ErrBanned         = errors.New("banned")
	ErrSendBufferFull = errors.New("send-buffer-full")
	ErrShuttingDown   = errors.New("server-shutting-down")
	ErrJoinTimeout    = errors.New("join-timeout")
	ErrLoginTimeout   = errors.New("login-timeout")
	ErrMalformedLogin = errors.New("malformed-login")
	ErrInvalidTicket  = errors.New("invalid-ticket")
)

// Close reasons sent to participants removed by moderation.
const (
	ReasonKicked = "kicked"
	ReasonBanned = "banned"
)
