package policy

import "errors"

var (
	ErrOutOfBounds      = errors.New("out-of-bounds")
	ErrUnknownSetting   = errors.New("unknown-setting")
	ErrCapacityExceeded = errors.New("capacity-exceeded")
	ErrNotEnoughPlayers = errors.New("not-enough-players")
)
