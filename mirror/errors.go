package mirror

import (
	"errors"
	"fmt"

	"github.com/Skribblers/skribbler/policy"
)

var (
	ErrNotSynchronized  = errors.New("not-synchronized")
	ErrNotDrawer        = errors.New("not-drawer")
	ErrNotOwner         = errors.New("not-owner")
	ErrCapacityExceeded = policy.ErrCapacityExceeded
	ErrOutOfBounds      = policy.ErrOutOfBounds
	ErrRoomNotFound     = errors.New("room-not-found")
)

// DisconnectedError ends a client session. Reason is the text of the
// authority's close frame, empty when the stream simply broke.
type DisconnectedError struct {
	Reason string
	Err    error
}

func (e *DisconnectedError) Error() string {
	if e.Reason == "" {
		return fmt.Sprintf("disconnected: %v", e.Err)
	}
	return "disconnected: " + e.Reason
}

func (e *DisconnectedError) Unwrap() error {
	return e.Err
}
