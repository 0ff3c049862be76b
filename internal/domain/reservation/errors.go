package reservation

import "errors"

var (
	ErrReservationNotFound = errors.New("reservation not found")
	ErrSeatAlreadyBooked   = errors.New("seat already booked")
	ErrAlreadyReleased     = errors.New("reservation already released")
	ErrNotOwner            = errors.New("reservation belongs to another user")
	ErrShowIDRequired      = errors.New("show id is required")
	ErrUserIDRequired      = errors.New("user id is required")
	ErrInvalidSeatNumber   = errors.New("seat number must be at least 1")

	// ErrStoreContention marks a transient store failure: a unique
	// violation, serialization failure, deadlock or lock timeout.
	ErrStoreContention = errors.New("reservation store contention")
	// ErrSeatBusy means another booking currently holds the seat gate.
	ErrSeatBusy = errors.New("seat is being booked by another request")
	// ErrRetryBudgetExhausted is returned once every attempt hit contention.
	ErrRetryBudgetExhausted = errors.New("retry budget exhausted")
)

// IsTransient reports whether err is worth another booking attempt.
func IsTransient(err error) bool {
	return errors.Is(err, ErrStoreContention) || errors.Is(err, ErrSeatBusy)
}
