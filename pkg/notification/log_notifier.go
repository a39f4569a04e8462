package notification

import (
	"github.com/Veraticus/online-check/pkg/presence"
	"github.com/rs/zerolog"
)

// LogNotifier writes notifications to a logger.
type LogNotifier struct {
	logger zerolog.Logger
}

// NewLogNotifier creates a notifier logging through l.
func NewLogNotifier(l zerolog.Logger) *LogNotifier {
	return &LogNotifier{logger: l}
}

// Send logs the notification at info level, or warn for failed reports.
func (n *LogNotifier) Send(notification Notification) error {
	ev := n.logger.Info()
	if outcome, ok := OutcomeOf(notification.Data); ok && outcome == presence.DeliveryFailed {
		ev = n.logger.Warn()
	}
	ev.Str("event", notification.Name).Msg(PlainText(notification.Data))
	return nil
}
