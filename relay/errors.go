package relay

import "errors"

var (
	ErrDownstreamClosed = errors.New("downstream-closed")
	ErrUpstreamClosed   = errors.New("upstream-closed")
	ErrNotConnected     = errors.New("not-connected")
	ErrUpstreamDial     = errors.New("upstream-unavailable")
)
