package repositories

import (
	"errors"
	"fmt"
)

var (
	ErrDuplicate        = errors.New("duplicate record")
	ErrServiceInactive  = errors.New("travel service is not active")
	ErrAlreadyCancelled = errors.New("booking already cancelled")
)

// SeatShortageError is returned by a reservation whose conditional seat
// decrement matched no row because capacity was too low.
type SeatShortageError struct {
	Available int
	Requested int
}

func (e SeatShortageError) Error() string {
	return fmt.Sprintf("seat shortage: requested %d, available %d", e.Requested, e.Available)
}
