package worker

import (
	"context"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"github.com/nikhil8615/movie-booking/internal/pkg/logger"
)

// ActiveReservationCounter counts reservations that currently hold a seat.
type ActiveReservationCounter interface {
	CountActiveReservations(ctx context.Context) (int, error)
}

// ActiveReservationGauge periodically publishes the number of active
// reservations. The gauge is refreshed from the store so every replica
// reports the same value.
type ActiveReservationGauge struct {
	counter  ActiveReservationCounter
	gauge    prometheus.Gauge
	interval time.Duration
	stopCh   chan struct{}
	doneCh   chan struct{}
}

// DefaultGaugeInterval replaces non-positive refresh intervals.
const DefaultGaugeInterval = 30 * time.Second

func NewActiveReservationGauge(counter ActiveReservationCounter, gauge prometheus.Gauge, interval time.Duration) *ActiveReservationGauge {
	if interval <= 0 {
		interval = DefaultGaugeInterval
	}
	return &ActiveReservationGauge{
		counter:  counter,
		gauge:    gauge,
		interval: interval,
		stopCh:   make(chan struct{}),
		doneCh:   make(chan struct{}),
	}
}

// Start refreshes once immediately and then on every tick until ctx is
// done or Stop is called. It blocks.
func (g *ActiveReservationGauge) Start(ctx context.Context) {
	logger.Info("active reservation gauge started", zap.Duration("interval", g.interval))

	ticker := time.NewTicker(g.interval)
	defer ticker.Stop()
	defer close(g.doneCh)

	g.refresh(ctx)
	for {
		select {
		case <-ctx.Done():
			logger.Info("active reservation gauge stopped (context cancelled)")
			return
		case <-g.stopCh:
			logger.Info("active reservation gauge stopped")
			return
		case <-ticker.C:
			g.refresh(ctx)
		}
	}
}

// Stop ends Start and waits for it to return.
func (g *ActiveReservationGauge) Stop() {
	close(g.stopCh)
	<-g.doneCh
}

func (g *ActiveReservationGauge) refresh(ctx context.Context) {
	n, err := g.counter.CountActiveReservations(ctx)
	if err != nil {
		if ctx.Err() == nil {
			logger.Error("failed to count active reservations", zap.Error(err))
		}
		return
	}
	g.gauge.Set(float64(n))
	logger.Debug("active reservations refreshed", zap.Int("count", n))
}
