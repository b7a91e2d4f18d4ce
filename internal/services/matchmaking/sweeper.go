package matchmaking

import (
	"context"
	"log/slog"
	"time"

	"github.com/mport/typeduel/internal/model"
)

// DefaultSweepInterval is how often the anonymous queue is drained
const DefaultSweepInterval = 5 * time.Second

// NotifyFunc is called once per match formed by a sweep, outside the
// registry lock, so the transport can announce it to both players
type NotifyFunc func(match model.Match)

// Sweeper periodically drains the anonymous queue. Queued players are not
// matched the instant a partner appears; they wait for the next tick, which
// keeps pairing strictly FIFO across a burst of joins.
type Sweeper struct {
	controller *Controller
	interval   time.Duration
	notify     NotifyFunc
	logger     *slog.Logger
}

// NewSweeper creates a sweeper over the given controller
func NewSweeper(controller *Controller, interval time.Duration, notify NotifyFunc, logger *slog.Logger) *Sweeper {
	if interval <= 0 {
		interval = DefaultSweepInterval
	}
	return &Sweeper{
		controller: controller,
		interval:   interval,
		notify:     notify,
		logger:     logger.With(slog.String("component", "sweeper")),
	}
}

// Run sweeps on every tick until the context is cancelled
func (s *Sweeper) Run(ctx context.Context) {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	s.logger.Info("sweeper started", slog.Duration("interval", s.interval))
	for {
		select {
		case <-ctx.Done():
			s.logger.Info("sweeper stopped")
			return
		case <-ticker.C:
			s.Sweep()
		}
	}
}

// Sweep runs a single matching pass and notifies each formed match
func (s *Sweeper) Sweep() {
	for _, match := range s.controller.MatchAllPlayers() {
		if s.notify != nil {
			s.notify(match)
		}
	}
}
