package policy

import "fmt"

// MaxDrawBatch caps the number of stroke commands in one draw-append packet.
const MaxDrawBatch = 8

func CheckDrawBatch(size int) error {
	if size > MaxDrawBatch {
		return fmt.Errorf("%w: %d commands, at most %d", ErrCapacityExceeded, size, MaxDrawBatch)
	}
	return nil
}
