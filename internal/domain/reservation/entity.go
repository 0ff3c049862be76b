package reservation

import "time"

// Status is the lifecycle state of a reservation. The only transition is
// active to released.
type Status string

const (
	StatusActive   Status = "active"
	StatusReleased Status = "released"
)

// Reservation binds one seat of one show to one user. Records are never
// deleted; releasing keeps the row and rebooking creates a new one.
type Reservation struct {
	ID         string
	UserID     string
	ShowID     string
	SeatNumber int
	Status     Status
	CreatedAt  time.Time
	ReleasedAt *time.Time
}

// NewReservation creates an active reservation. The ID is assigned when it
// is persisted.
func NewReservation(userID, showID string, seatNumber int) *Reservation {
	return &Reservation{
		UserID:     userID,
		ShowID:     showID,
		SeatNumber: seatNumber,
		Status:     StatusActive,
		CreatedAt:  time.Now(),
	}
}

// IsActive reports whether the reservation still holds its seat.
func (r *Reservation) IsActive() bool {
	return r.Status == StatusActive
}

// IsOwnedBy reports whether userID made the reservation.
func (r *Reservation) IsOwnedBy(userID string) bool {
	return userID != "" && r.UserID == userID
}

// Release frees the seat. A released reservation cannot be released again.
func (r *Reservation) Release(now time.Time) error {
	if r.Status == StatusReleased {
		return ErrAlreadyReleased
	}
	r.Status = StatusReleased
	r.ReleasedAt = &now
	return nil
}

// Validate checks the reservation fields.
func (r *Reservation) Validate() error {
	if r.ShowID == "" {
		return ErrShowIDRequired
	}
	if r.UserID == "" {
		return ErrUserIDRequired
	}
	if r.SeatNumber < 1 {
		return ErrInvalidSeatNumber
	}
	return nil
}
