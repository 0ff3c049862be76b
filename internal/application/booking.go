package application

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/nikhil8615/movie-booking/internal/domain/identity"
	"github.com/nikhil8615/movie-booking/internal/domain/reservation"
	"github.com/nikhil8615/movie-booking/internal/domain/seat"
	"github.com/nikhil8615/movie-booking/internal/domain/show"
	"github.com/nikhil8615/movie-booking/internal/pkg/apperr"
	"github.com/nikhil8615/movie-booking/internal/pkg/logger"
	"github.com/nikhil8615/movie-booking/internal/pkg/metrics"
	"github.com/nikhil8615/movie-booking/internal/pkg/retry"
)

// BookSeatInput is a booking request. SeatNumber is the raw client value.
type BookSeatInput struct {
	ShowID     string
	SeatNumber string
}

// seatTakenError reports the active reservation found under the seat lock.
type seatTakenError struct {
	heldByCaller bool
}

func (e *seatTakenError) Error() string { return reservation.ErrSeatAlreadyBooked.Error() }
func (e *seatTakenError) Unwrap() error { return reservation.ErrSeatAlreadyBooked }

// BookSeat reserves one seat for the caller. Requests are validated before
// any lock is taken; each attempt then runs in its own transaction under
// the seat lock, and contention is retried with backoff until the policy's
// attempt budget is spent.
func (s *ReservationService) BookSeat(ctx context.Context, caller identity.Caller, input BookSeatInput) (*reservation.Reservation, error) {
	if err := requireCaller(caller); err != nil {
		return nil, err
	}

	sh, seatNumber, err := s.validateBooking(ctx, input)
	if err != nil {
		if apperr.KindOf(err) == apperr.KindInternal {
			s.recordBooking(metrics.OutcomeError)
		} else {
			s.recordBooking(metrics.OutcomeInvalid)
		}
		return nil, err
	}

	log := logger.With(
		zap.String("show_id", sh.ID),
		zap.Int("seat_number", seatNumber),
		zap.String("user_id", caller.UserID),
	)

	runner := retry.NewRunner(s.policy)
	runner.Sleep = s.sleep
	runner.Jitter = s.jitter
	runner.OnRetry = func(attempt int, delay time.Duration, err error) {
		log.Info("booking contention, retrying",
			zap.Int("attempt", attempt),
			zap.Duration("delay", delay),
			zap.Error(err),
		)
		s.recordRetry(err)
	}

	var booked *reservation.Reservation
	result := runner.Run(reservation.IsTransient, func(int) error {
		r, err := s.attemptBooking(ctx, caller, sh.ID, seatNumber)
		if err == nil {
			booked = r
		}
		return err
	})
	if s.metrics != nil {
		s.metrics.BookingAttempts.Observe(float64(result.Attempts))
	}

	switch result.Outcome {
	case retry.Success:
		s.recordBooking(metrics.OutcomeSuccess)
		s.invalidateAvailability(ctx, sh.ID)
		log.Info("seat booked", zap.String("reservation_id", booked.ID), zap.Int("attempts", result.Attempts))
		return booked, nil

	case retry.Exhausted:
		s.recordBooking(metrics.OutcomeExhausted)
		log.Warn("booking retry budget exhausted", zap.Int("attempts", result.Attempts), zap.Error(result.Err))
		return nil, apperr.Conflict(
			"booking failed due to concurrent access, retry the request",
			fmt.Errorf("%w: %w", reservation.ErrRetryBudgetExhausted, result.Err),
		).With("seat_number", seatNumber).With("attempts", result.Attempts)
	}

	var taken *seatTakenError
	if errors.As(result.Err, &taken) {
		s.recordBooking(metrics.OutcomeConflict)
		conflict := apperr.Conflict("seat already booked", result.Err).
			With("seat_number", seatNumber).
			With("show_id", sh.ID)
		if taken.heldByCaller {
			conflict = conflict.With("held_by_caller", true)
		}
		return nil, conflict
	}

	s.recordBooking(metrics.OutcomeError)
	log.Error("booking failed", zap.Error(result.Err))
	return nil, apperr.Internal(fmt.Errorf("failed to book seat: %w", result.Err)).
		With("show_id", sh.ID).
		With("attempts", result.Attempts)
}

// validateBooking checks the request without taking locks: presence and
// format of the seat number, its lower bound, the show and its capacity.
func (s *ReservationService) validateBooking(ctx context.Context, input BookSeatInput) (*show.Show, int, error) {
	seatNumber, err := seat.ParseNumber(input.SeatNumber)
	if err != nil {
		return nil, 0, apperr.InvalidInput(err.Error(), "seat_number", err)
	}
	if seatNumber < 1 {
		return nil, 0, apperr.InvalidInput("seat out of range", "seat_number", seat.ErrSeatOutOfRange).
			With("seat_number", seatNumber)
	}

	sh, err := s.showRepo.GetByID(ctx, input.ShowID)
	if err != nil {
		if errors.Is(err, show.ErrShowNotFound) {
			return nil, 0, apperr.NotFound("show not found", err).With("show_id", input.ShowID)
		}
		return nil, 0, fmt.Errorf("failed to load show: %w", err)
	}

	if !sh.HasSeat(seatNumber) {
		return nil, 0, apperr.InvalidInput(
			fmt.Sprintf("seat number must be between 1 and %d", sh.TotalSeats), "seat_number", seat.ErrSeatOutOfRange,
		).With("seat_number", seatNumber).With("max_seat", sh.TotalSeats)
	}
	return sh, seatNumber, nil
}

// attemptBooking runs one booking transaction.
func (s *ReservationService) attemptBooking(ctx context.Context, caller identity.Caller, showID string, seatNumber int) (*reservation.Reservation, error) {
	if s.gate != nil {
		release, err := s.gate.Acquire(ctx, showID, seatNumber)
		switch {
		case err == nil:
			defer release()
		case errors.Is(err, reservation.ErrSeatBusy):
			return nil, err
		default:
			logger.Warn("seat gate unavailable, relying on database lock",
				zap.String("show_id", showID),
				zap.Int("seat_number", seatNumber),
				zap.Error(err),
			)
		}
	}

	tx, err := s.txManager.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	start := time.Now()
	err = s.reservationRepo.LockSeat(ctx, tx, showID, seatNumber)
	s.observeSeatLock(start, err)
	if err != nil {
		return nil, err
	}

	existing, err := s.reservationRepo.FindActiveBySeat(ctx, tx, showID, seatNumber)
	if err == nil {
		return nil, &seatTakenError{heldByCaller: existing.IsOwnedBy(caller.UserID)}
	}
	if !errors.Is(err, reservation.ErrReservationNotFound) {
		return nil, err
	}

	res := reservation.NewReservation(caller.UserID, showID, seatNumber)
	res.CreatedAt = s.now()
	if err := res.Validate(); err != nil {
		return nil, err
	}
	if err := s.reservationRepo.Create(ctx, tx, res); err != nil {
		return nil, err
	}
	if err := tx.Commit(); err != nil {
		return nil, err
	}
	return res, nil
}

func (s *ReservationService) recordBooking(outcome string) {
	if s.metrics != nil {
		s.metrics.BookingsTotal.WithLabelValues(outcome).Inc()
	}
}

func (s *ReservationService) recordRetry(err error) {
	if s.metrics == nil {
		return
	}
	reason := "store_contention"
	if errors.Is(err, reservation.ErrSeatBusy) {
		reason = "seat_busy"
	}
	s.metrics.BookingRetriesTotal.WithLabelValues(reason).Inc()
}

func (s *ReservationService) observeSeatLock(start time.Time, err error) {
	if s.metrics == nil {
		return
	}
	status := "success"
	if err != nil {
		status = "failed"
	}
	s.metrics.SeatLockDuration.WithLabelValues("advisory", status).Observe(time.Since(start).Seconds())
}
