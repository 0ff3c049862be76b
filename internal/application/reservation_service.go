package application

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/nikhil8615/movie-booking/internal/domain/identity"
	"github.com/nikhil8615/movie-booking/internal/domain/reservation"
	"github.com/nikhil8615/movie-booking/internal/domain/show"
	"github.com/nikhil8615/movie-booking/internal/domain/transaction"
	"github.com/nikhil8615/movie-booking/internal/pkg/apperr"
	"github.com/nikhil8615/movie-booking/internal/pkg/logger"
	"github.com/nikhil8615/movie-booking/internal/pkg/metrics"
	"github.com/nikhil8615/movie-booking/internal/pkg/retry"
)

// ReservationService books and releases seats.
type ReservationService struct {
	txManager       transaction.Manager
	reservationRepo reservation.Repository
	showRepo        show.Repository
	gate            SeatGate
	cache           AvailabilityCache
	policy          retry.Policy
	sleep           func(time.Duration)
	jitter          func(time.Duration) time.Duration
	metrics         *metrics.Metrics
	now             func() time.Time
}

type ReservationOption func(*ReservationService)

// WithSeatGate puts a shared gate in front of the database seat lock.
func WithSeatGate(g SeatGate) ReservationOption {
	return func(s *ReservationService) { s.gate = g }
}

// WithCacheInvalidation drops cached availability after every commit.
func WithCacheInvalidation(c AvailabilityCache) ReservationOption {
	return func(s *ReservationService) { s.cache = c }
}

func WithRetryPolicy(p retry.Policy) ReservationOption {
	return func(s *ReservationService) { s.policy = p.Normalize() }
}

// WithBackoff replaces the sleep and jitter used between attempts.
func WithBackoff(sleep func(time.Duration), jitter func(time.Duration) time.Duration) ReservationOption {
	return func(s *ReservationService) {
		s.sleep = sleep
		s.jitter = jitter
	}
}

func WithMetrics(m *metrics.Metrics) ReservationOption {
	return func(s *ReservationService) { s.metrics = m }
}

func WithClock(now func() time.Time) ReservationOption {
	return func(s *ReservationService) { s.now = now }
}

func NewReservationService(txm transaction.Manager, rr reservation.Repository, sr show.Repository, opts ...ReservationOption) *ReservationService {
	s := &ReservationService{
		txManager:       txm,
		reservationRepo: rr,
		showRepo:        sr,
		policy:          retry.DefaultPolicy(),
		sleep:           time.Sleep,
		jitter:          retry.UniformJitter,
		now:             time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// CancelReservation releases the caller's reservation. Ownership is checked
// before state, so other users get Forbidden even for released bookings.
func (s *ReservationService) CancelReservation(ctx context.Context, caller identity.Caller, id string) (*reservation.Reservation, error) {
	if err := requireCaller(caller); err != nil {
		return nil, err
	}

	res, err := s.cancel(ctx, caller, id)
	s.recordCancellation(err)
	if err != nil {
		return nil, err
	}

	s.invalidateAvailability(ctx, res.ShowID)
	logger.Info("reservation cancelled",
		zap.String("reservation_id", res.ID),
		zap.String("show_id", res.ShowID),
		zap.Int("seat_number", res.SeatNumber),
		zap.String("user_id", caller.UserID),
	)
	return res, nil
}

func (s *ReservationService) cancel(ctx context.Context, caller identity.Caller, id string) (*reservation.Reservation, error) {
	tx, err := s.txManager.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	res, err := s.reservationRepo.GetByIDForUpdate(ctx, tx, id)
	if err != nil {
		if errors.Is(err, reservation.ErrReservationNotFound) {
			return nil, apperr.NotFound("booking not found", err).With("reservation_id", id)
		}
		return nil, fmt.Errorf("failed to load reservation: %w", err)
	}

	if err := authorizeOwner(caller, res); err != nil {
		return nil, err
	}

	if err := res.Release(s.now()); err != nil {
		if errors.Is(err, reservation.ErrAlreadyReleased) {
			return nil, apperr.InvalidState("booking is already cancelled", err).With("reservation_id", id)
		}
		return nil, err
	}

	if err := s.reservationRepo.Update(ctx, tx, res); err != nil {
		return nil, fmt.Errorf("failed to update reservation: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit cancellation: %w", err)
	}
	return res, nil
}

// ListMyReservations returns every reservation of the caller, newest first.
// A limit of zero returns all of them.
func (s *ReservationService) ListMyReservations(ctx context.Context, caller identity.Caller, limit, offset int) ([]*reservation.Reservation, error) {
	if err := requireCaller(caller); err != nil {
		return nil, err
	}
	if limit < 0 {
		limit = 0
	}
	if offset < 0 {
		offset = 0
	}
	return s.reservationRepo.ListByUser(ctx, caller.UserID, limit, offset)
}

func (s *ReservationService) CountActiveReservations(ctx context.Context) (int, error) {
	return s.reservationRepo.CountActive(ctx)
}

func (s *ReservationService) invalidateAvailability(ctx context.Context, showID string) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Invalidate(context.WithoutCancel(ctx), showID); err != nil {
		logger.Warn("failed to invalidate availability cache", zap.String("show_id", showID), zap.Error(err))
	}
}

func (s *ReservationService) recordCancellation(err error) {
	if s.metrics == nil {
		return
	}
	outcome := "success"
	if err != nil {
		switch apperr.KindOf(err) {
		case apperr.KindForbidden:
			outcome = "forbidden"
		case apperr.KindInvalidState:
			outcome = "invalid_state"
		case apperr.KindNotFound:
			outcome = "not_found"
		default:
			outcome = metrics.OutcomeError
		}
	}
	s.metrics.CancellationsTotal.WithLabelValues(outcome).Inc()
}
