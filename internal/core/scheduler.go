package core

// scheduler.go runs the background sweep that drops expired sessions.
//
// Sessions are small but hold a whole file in memory, so abandoned browser
// tabs must not accumulate. The sweeper is context-aware and stops on
// shutdown.

import (
	"context"
	"log/slog"
	"time"
)

// DefaultSweepInterval is used when a non-positive interval is given.
const DefaultSweepInterval = time.Minute

// StartSessionSweeper removes expired sessions every interval until ctx is
// cancelled. It blocks; run it in its own goroutine.
func (s *Service) StartSessionSweeper(ctx context.Context, interval time.Duration) {
	if interval <= 0 {
		interval = DefaultSweepInterval
	}
	slog.Info("session sweeper started", "interval", interval)

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			slog.Info("session sweeper stopped")
			return
		case <-ticker.C:
			s.sweepSessions()
		}
	}
}

func (s *Service) sweepSessions() {
	removed := s.sessions.Sweep()
	activeSessions.Set(float64(s.sessions.Len()))
	if removed > 0 {
		slog.Debug("expired sessions removed", "count", removed, "remaining", s.sessions.Len())
	}
}
