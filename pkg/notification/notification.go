// Package notification delivers UI events to subscribed notifiers.
package notification

import (
	"bytes"
	"encoding/json"
	"fmt"
	"time"
)

// Notification is a single UI event.
type Notification struct {
	Name string
	Data string
	Time time.Time
	// Payload is the JSON encoding of the emitted payload.
	Payload json.RawMessage
}

// Notifier receives notifications.
type Notifier interface {
	Send(notification Notification) error
}

// NotifierFunc adapts a function to the Notifier interface.
type NotifierFunc func(Notification) error

// Send calls f(n).
func (f NotifierFunc) Send(n Notification) error {
	return f(n)
}

// dataField is the shape of payloads carrying a display fragment.
type dataField struct {
	Data *string `json:"data"`
}

// newNotification encodes payload and extracts its "data" field when present.
func newNotification(event string, payload any, at time.Time) (Notification, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(payload); err != nil {
		return Notification{}, fmt.Errorf("encoding %s payload: %w", event, err)
	}
	raw := json.RawMessage(bytes.TrimRight(buf.Bytes(), "\n"))

	n := Notification{Name: event, Time: at, Payload: raw}

	var d dataField
	if err := json.Unmarshal(raw, &d); err == nil && d.Data != nil {
		n.Data = *d.Data
	} else if s, ok := payload.(string); ok {
		n.Data = s
	}

	return n, nil
}
