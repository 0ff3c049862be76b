package handler

import (
	"context"

	"github.com/nikhil8615/movie-booking/internal/application"
	"github.com/nikhil8615/movie-booking/internal/domain/identity"
	"github.com/nikhil8615/movie-booking/internal/domain/reservation"
	"github.com/nikhil8615/movie-booking/internal/domain/seat"
	"github.com/nikhil8615/movie-booking/internal/domain/show"
)

type CatalogServiceInterface interface {
	ListMovies(ctx context.Context) ([]*show.Movie, error)
	ListShowsByMovie(ctx context.Context, movieID string) ([]*show.Show, error)
	GetShow(ctx context.Context, id string) (*show.Show, error)
}

type SeatServiceInterface interface {
	GetAvailability(ctx context.Context, showID string) (*seat.Availability, error)
}

type ReservationServiceInterface interface {
	BookSeat(ctx context.Context, caller identity.Caller, input application.BookSeatInput) (*reservation.Reservation, error)
	CancelReservation(ctx context.Context, caller identity.Caller, id string) (*reservation.Reservation, error)
	ListMyReservations(ctx context.Context, caller identity.Caller, limit, offset int) ([]*reservation.Reservation, error)
}

// Pinger reports whether a backing store is reachable.
type Pinger interface {
	Ping(ctx context.Context) error
}

// PingFunc adapts a function to Pinger.
type PingFunc func(ctx context.Context) error

func (f PingFunc) Ping(ctx context.Context) error { return f(ctx) }
