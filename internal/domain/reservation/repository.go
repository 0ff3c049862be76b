package reservation

import (
	"context"

	"github.com/nikhil8615/movie-booking/internal/domain/transaction"
)

// Repository is the reservation store. Methods taking a transaction.Tx must
// be called inside a unit of work; their locks last until it ends.
type Repository interface {
	// LockSeat serializes writers of one (show, seat) pair until the
	// transaction ends. It works whether or not a row exists yet.
	LockSeat(ctx context.Context, tx transaction.Tx, showID string, seatNumber int) error

	// FindActiveBySeat returns the active reservation of a seat with a row
	// lock, or ErrReservationNotFound.
	FindActiveBySeat(ctx context.Context, tx transaction.Tx, showID string, seatNumber int) (*Reservation, error)

	// Create inserts r and assigns its ID.
	Create(ctx context.Context, tx transaction.Tx, r *Reservation) error

	// GetByIDForUpdate returns a reservation with a row lock.
	GetByIDForUpdate(ctx context.Context, tx transaction.Tx, id string) (*Reservation, error)

	// Update persists status changes of r.
	Update(ctx context.Context, tx transaction.Tx, r *Reservation) error

	GetByID(ctx context.Context, id string) (*Reservation, error)

	// ListByUser returns the user's reservations newest first. A limit of
	// zero or less returns all of them.
	ListByUser(ctx context.Context, userID string, limit, offset int) ([]*Reservation, error)

	// ListActiveSeatNumbers returns the occupied seats of a show in a single
	// snapshot.
	ListActiveSeatNumbers(ctx context.Context, showID string) ([]int, error)

	CountActive(ctx context.Context) (int, error)
}
