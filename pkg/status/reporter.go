package status

import (
	"sync"

	"github.com/rs/zerolog"

	"github.com/Veraticus/online-check/pkg/interfaces"
)

// FailureStreakWarning is the number of consecutive failed reports after
// which a warning is logged.
const FailureStreakWarning = 3

// Reporter feeds report progress into an Indicator and keeps delivery
// totals. It logs once when reports start failing repeatedly and once
// when delivery recovers.
type Reporter struct {
	indicator *Indicator
	logger    zerolog.Logger

	mu     sync.Mutex
	sent   int
	failed int
	streak int
}

var _ interfaces.StatusReporter = (*Reporter)(nil)

// NewReporter creates a reporter. indicator may be nil.
func NewReporter(indicator *Indicator, logger zerolog.Logger) *Reporter {
	return &Reporter{
		indicator: indicator,
		logger:    logger,
	}
}

func (r *Reporter) ReportSending() {
	if r.indicator != nil {
		r.indicator.SetStatus(StatusSending)
	}
}

func (r *Reporter) ReportSuccess() {
	r.mu.Lock()
	r.sent++
	streak := r.streak
	r.streak = 0
	r.mu.Unlock()

	if streak >= FailureStreakWarning {
		r.logger.Info().Int("failures", streak).Msg("Presence delivery recovered")
	}
	if r.indicator != nil {
		r.indicator.SetStatus(StatusSuccess)
	}
}

func (r *Reporter) ReportFailure() {
	r.mu.Lock()
	r.failed++
	r.streak++
	streak := r.streak
	r.mu.Unlock()

	if streak == FailureStreakWarning {
		r.logger.Warn().Int("failures", streak).Msg("Presence reports keep failing")
	}
	if r.indicator != nil {
		r.indicator.SetStatus(StatusFailed)
	}
}

// ReportIdle records whether the user was idle at the last check.
func (r *Reporter) ReportIdle(idle bool) {
	if r.indicator != nil {
		r.indicator.SetIdleState(idle)
	}
}

// Totals returns the number of delivered and failed reports.
func (r *Reporter) Totals() (sent, failed int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.sent, r.failed
}

// FailureStreak returns the number of failures since the last success.
func (r *Reporter) FailureStreak() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.streak
}
