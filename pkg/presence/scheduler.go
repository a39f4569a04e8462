package presence

import (
	"context"
	"errors"
	"time"

	"github.com/rs/zerolog"
)

// DefaultInterval is the time between reports.
const DefaultInterval = 60 * time.Second

// SettingsFunc returns the current target URL and token.
type SettingsFunc func() (url, token string)

// Scheduler invokes ReportPresence on a fixed interval.
type Scheduler struct {
	reporter *Reporter
	settings SettingsFunc
	interval time.Duration
	logger   zerolog.Logger
}

// NewScheduler creates a scheduler. A non-positive interval uses DefaultInterval.
func NewScheduler(reporter *Reporter, settings SettingsFunc, interval time.Duration, logger zerolog.Logger) *Scheduler {
	if interval <= 0 {
		interval = DefaultInterval
	}
	return &Scheduler{
		reporter: reporter,
		settings: settings,
		interval: interval,
		logger:   logger,
	}
}

// Interval returns the time between reports.
func (s *Scheduler) Interval() time.Duration {
	return s.interval
}

// Run reports once per interval until ctx is cancelled. The first report
// happens after one full interval. Settings are read on every tick.
func (s *Scheduler) Run(ctx context.Context) error {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	s.logger.Info().Dur("interval", s.interval).Msg("Scheduler started")

	for {
		select {
		case <-ctx.Done():
			s.logger.Info().Msg("Scheduler stopped")
			if errors.Is(ctx.Err(), context.Canceled) {
				return nil
			}
			return ctx.Err()
		case <-ticker.C:
			s.Tick(ctx)
		}
	}
}

// Tick performs a single scheduled report using the current settings.
// An empty URL still goes through the reporter so the window shows the
// failure.
func (s *Scheduler) Tick(ctx context.Context) {
	url, token := s.settings()
	_ = s.reporter.ReportPresence(ctx, url, token)
}
