package protocol

import "errors"

var (
	ErrMalformedPacket = errors.New("malformed-packet")
	ErrUnknownPacket   = errors.New("unknown-packet")
)
