package presence

import (
	"fmt"
	"time"
)

// EventName is the UI event carrying report outcomes.
const EventName = "online-check"

// Time layouts used in reports.
const (
	// LocalTimestampLayout is the human-readable local time sent to the server.
	LocalTimestampLayout = "2006-01-02 15:04:05.999999999 -07:00"
	// FragmentTimestampLayout is RFC 3339 with a numeric zone offset, even for UTC.
	// Fractional seconds are added by fragmentTime when non-zero.
	FragmentTimestampLayout = "2006-01-02T15:04:05-07:00"
)

// fragmentTime formats t with FragmentTimestampLayout. A non-zero
// fraction is written with 3, 6 or 9 digits, the shortest that is exact.
func fragmentTime(t time.Time) string {
	layout := FragmentTimestampLayout
	switch ns := t.Nanosecond(); {
	case ns == 0:
	case ns%int(time.Millisecond) == 0:
		layout = "2006-01-02T15:04:05.000-07:00"
	case ns%int(time.Microsecond) == 0:
		layout = "2006-01-02T15:04:05.000000-07:00"
	default:
		layout = "2006-01-02T15:04:05.000000000-07:00"
	}
	return t.Format(layout)
}

// Status style markers embedded in notification fragments.
const (
	SuccessClass = "time-success"
	ErrorClass   = "time-error"
)

// Status messages shown next to the timestamp.
const (
	SuccessMessage = "Data sent to server"
	ErrorMessage   = "Error sending data to server"
)

// Outcome is the result of a single report.
type Outcome int

const (
	// Delivered means the server answered 200.
	Delivered Outcome = iota
	// DeliveryFailed covers transport errors and any other status.
	DeliveryFailed
)

func (o Outcome) String() string {
	switch o {
	case Delivered:
		return "delivered"
	case DeliveryFailed:
		return "delivery_failed"
	default:
		return "unknown"
	}
}

// PresencePayload is the JSON body posted to the server.
type PresencePayload struct {
	Timestamp string `json:"timestamp"`
}

// NewPresencePayload builds the request body for the given instant.
func NewPresencePayload(now time.Time) PresencePayload {
	return PresencePayload{Timestamp: now.Format(LocalTimestampLayout)}
}

// NotificationPayload is the UI event payload.
type NotificationPayload struct {
	Message string `json:"data"`
}

// NewNotificationPayload builds the HTML fragment describing an outcome at the given instant.
func NewNotificationPayload(outcome Outcome, now time.Time) NotificationPayload {
	class, text := SuccessClass, SuccessMessage
	if outcome != Delivered {
		class, text = ErrorClass, ErrorMessage
	}

	return NotificationPayload{
		Message: fmt.Sprintf("<span class='%s'>%s</span> <span>%s</span>",
			class, fragmentTime(now), text),
	}
}
