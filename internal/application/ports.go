package application

import (
	"context"
	"time"

	"github.com/nikhil8615/movie-booking/internal/domain/seat"
)

// SeatGate is an optional shared lock taken before the database seat lock.
// Acquire returns reservation.ErrSeatBusy when another request holds it.
type SeatGate interface {
	Acquire(ctx context.Context, showID string, seatNumber int) (release func(), err error)
}

// AvailabilityCache stores availability snapshots. Get returns
// seat.ErrAvailabilityNotCached when nothing is cached.
//
// Fills are conditional: a reader takes Generation before reading the
// store and passes it to Set. An Invalidate in between makes Set fail with
// seat.ErrAvailabilityStale instead of caching the older snapshot.
type AvailabilityCache interface {
	Get(ctx context.Context, showID string) (*seat.Availability, error)
	Generation(ctx context.Context, showID string) (int64, error)
	Set(ctx context.Context, a *seat.Availability, gen int64, ttl time.Duration) error
	Invalidate(ctx context.Context, showID string) error
}
