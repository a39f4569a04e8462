// Package presence reports user presence to a remote endpoint while the user is active.
package presence

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"time"

	"github.com/rs/zerolog"

	"github.com/Veraticus/online-check/pkg/interfaces"
)

// IdleThreshold is the idle time at or above which no report is sent.
const IdleThreshold = 2 * time.Minute

// maxDrain bounds how much of a response body is read before closing.
const maxDrain = 64 << 10

// Reporter performs presence reports.
type Reporter struct {
	idle    interfaces.IdleDetector
	client  interfaces.HTTPDoer
	emitter interfaces.Emitter
	status  interfaces.StatusReporter
	logger  zerolog.Logger
	now     func() time.Time
}

// Option configures a Reporter.
type Option func(*Reporter)

// WithStatusReporter attaches a status reporter notified of each report's progress.
func WithStatusReporter(s interfaces.StatusReporter) Option {
	return func(r *Reporter) { r.status = s }
}

// WithLogger sets the logger.
func WithLogger(l zerolog.Logger) Option {
	return func(r *Reporter) { r.logger = l }
}

// WithClock overrides the time source.
func WithClock(now func() time.Time) Option {
	return func(r *Reporter) { r.now = now }
}

// NewReporter creates a reporter.
func NewReporter(idle interfaces.IdleDetector, client interfaces.HTTPDoer, emitter interfaces.Emitter, opts ...Option) *Reporter {
	r := &Reporter{
		idle:    idle,
		client:  client,
		emitter: emitter,
		logger:  zerolog.Nop(),
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// ReportPresence posts the current local time to url when the user is active
// and emits the outcome as an online-check event.
//
// The returned error is always nil. Delivery failures are reported only
// through the emitted event; idle-time and emit failures are logged.
func (r *Reporter) ReportPresence(ctx context.Context, url, token string) error {
	idle, err := r.idle.IdleTime()
	if err != nil {
		r.logger.Warn().Err(err).Msg("Could not read idle time, skipping report")
		return nil
	}

	if r.status != nil {
		r.status.ReportIdle(idle >= IdleThreshold)
	}

	if idle >= IdleThreshold {
		r.logger.Debug().Dur("idle", idle).Msg("User idle, skipping report")
		return nil
	}

	now := r.now()
	if r.status != nil {
		r.status.ReportSending()
	}

	outcome := r.send(ctx, url, token, NewPresencePayload(now))

	if r.status != nil {
		if outcome == Delivered {
			r.status.ReportSuccess()
		} else {
			r.status.ReportFailure()
		}
	}

	if err := r.emitter.Emit(EventName, NewNotificationPayload(outcome, now)); err != nil {
		r.logger.Error().Err(err).Str("event", EventName).Msg("Failed to emit event")
	}

	return nil
}

// send issues the POST and classifies the result.
func (r *Reporter) send(ctx context.Context, url, token string, payload PresencePayload) Outcome {
	if url == "" {
		r.logger.Warn().Msg("No server URL configured")
		return DeliveryFailed
	}

	body, err := json.Marshal(payload)
	if err != nil {
		r.logger.Error().Err(err).Msg("Failed to encode payload")
		return DeliveryFailed
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		r.logger.Warn().Err(err).Str("url", url).Msg("Invalid report request")
		return DeliveryFailed
	}
	req.Header.Set("Authorization", token)
	req.Header.Set("Content-Type", "application/json")

	resp, err := r.client.Do(req)
	if err != nil {
		r.logger.Warn().Err(err).Str("url", url).Msg("Report failed")
		return DeliveryFailed
	}
	defer func() {
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, maxDrain))
		_ = resp.Body.Close()
	}()

	if resp.StatusCode != http.StatusOK {
		r.logger.Warn().Int("status", resp.StatusCode).Str("url", url).Msg("Report rejected")
		return DeliveryFailed
	}

	r.logger.Debug().Str("url", url).Msg("Report delivered")
	return Delivered
}
