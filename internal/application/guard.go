package application

import (
	"github.com/nikhil8615/movie-booking/internal/domain/identity"
	"github.com/nikhil8615/movie-booking/internal/domain/reservation"
	"github.com/nikhil8615/movie-booking/internal/pkg/apperr"
)

func requireCaller(caller identity.Caller) error {
	if !caller.Authenticated() {
		return apperr.Unauthenticated("authentication credentials were not provided")
	}
	return nil
}

// authorizeOwner allows only the user who made r to act on it.
func authorizeOwner(caller identity.Caller, r *reservation.Reservation) error {
	if !r.IsOwnedBy(caller.UserID) {
		return apperr.Forbidden("you cannot cancel someone else's booking", reservation.ErrNotOwner).
			With("reservation_id", r.ID)
	}
	return nil
}
