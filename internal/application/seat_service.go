package application

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/nikhil8615/movie-booking/internal/domain/reservation"
	"github.com/nikhil8615/movie-booking/internal/domain/seat"
	"github.com/nikhil8615/movie-booking/internal/domain/show"
	"github.com/nikhil8615/movie-booking/internal/pkg/apperr"
	"github.com/nikhil8615/movie-booking/internal/pkg/logger"
)

// SeatService answers which seats of a show are free.
type SeatService struct {
	showRepo        show.Repository
	reservationRepo reservation.Repository
	cache           AvailabilityCache
	cacheTTL        time.Duration
}

// NewSeatService creates the service. cache may be nil; a zero ttl
// disables caching.
func NewSeatService(sr show.Repository, rr reservation.Repository, cache AvailabilityCache, ttl time.Duration) *SeatService {
	if ttl <= 0 {
		cache = nil
	}
	return &SeatService{showRepo: sr, reservationRepo: rr, cache: cache, cacheTTL: ttl}
}

// GetAvailability returns the booked and free seats of a show. The
// occupied set is read in one statement so the result is a consistent
// snapshot.
func (s *SeatService) GetAvailability(ctx context.Context, showID string) (*seat.Availability, error) {
	fill := s.cache != nil
	var gen int64
	if s.cache != nil {
		a, err := s.cache.Get(ctx, showID)
		if err == nil {
			logger.Debug("availability cache hit", zap.String("show_id", showID))
			return a, nil
		}
		if !errors.Is(err, seat.ErrAvailabilityNotCached) {
			logger.Warn("availability cache read failed", zap.Error(err))
		}

		// The generation must be taken before the store read.
		if gen, err = s.cache.Generation(ctx, showID); err != nil {
			logger.Warn("availability cache generation read failed", zap.Error(err))
			fill = false
		}
	}

	sh, err := s.showRepo.GetByID(ctx, showID)
	if err != nil {
		if errors.Is(err, show.ErrShowNotFound) {
			return nil, apperr.NotFound("show not found", err).With("show_id", showID)
		}
		return nil, fmt.Errorf("failed to load show: %w", err)
	}

	occupied, err := s.reservationRepo.ListActiveSeatNumbers(ctx, sh.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to load booked seats: %w", err)
	}
	a := seat.ComputeAvailability(sh.ID, sh.TotalSeats, occupied)

	if fill {
		err := s.cache.Set(ctx, a, gen, s.cacheTTL)
		if errors.Is(err, seat.ErrAvailabilityStale) {
			logger.Debug("availability changed during read, not caching", zap.String("show_id", showID))
		} else if err != nil {
			logger.Warn("availability cache write failed", zap.Error(err))
		}
	}
	return a, nil
}
