package redis

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/nikhil8615/movie-booking/internal/domain/reservation"
	"github.com/nikhil8615/movie-booking/internal/pkg/logger"
	"github.com/nikhil8615/movie-booking/internal/pkg/metrics"
)

// releaseTimeout bounds the release call, which runs after the request
// context may already be done.
const releaseTimeout = time.Second

// SeatGate is a shared fast-path lock in front of the database seat lock.
// It lets concurrent bookers of one seat back off without opening a
// transaction. The database lock stays authoritative.
type SeatGate struct {
	locks   *LockManager
	ttl     time.Duration
	metrics *metrics.Metrics
}

func NewSeatGate(locks *LockManager, ttl time.Duration, m *metrics.Metrics) *SeatGate {
	return &SeatGate{locks: locks, ttl: ttl, metrics: m}
}

func SeatGateKey(showID string, seatNumber int) string {
	return fmt.Sprintf("seat:%s:%d", showID, seatNumber)
}

// Acquire takes the gate of one seat. A gate held elsewhere yields
// reservation.ErrSeatBusy; Redis failures are returned wrapped.
func (g *SeatGate) Acquire(ctx context.Context, showID string, seatNumber int) (func(), error) {
	start := time.Now()
	lock, err := g.locks.AcquireLock(ctx, SeatGateKey(showID, seatNumber), g.ttl)
	g.observe(start, err)

	if err != nil {
		if errors.Is(err, ErrLockNotAcquired) {
			return nil, reservation.ErrSeatBusy
		}
		return nil, err
	}

	return func() {
		releaseCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), releaseTimeout)
		defer cancel()
		if err := lock.Release(releaseCtx); err != nil {
			logger.Warn("failed to release seat gate",
				zap.String("show_id", showID),
				zap.Int("seat_number", seatNumber),
				zap.Error(err),
			)
		}
	}, nil
}

func (g *SeatGate) observe(start time.Time, err error) {
	if g.metrics == nil {
		return
	}
	status := "success"
	if err != nil {
		status = "failed"
	}
	g.metrics.SeatLockDuration.WithLabelValues("redis", status).Observe(time.Since(start).Seconds())
}
