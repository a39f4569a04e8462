package notification

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"sync"
)

// WriterNotifier writes each notification as a JSON line of the form
// {"event": <name>, "payload": <payload>}.
type WriterNotifier struct {
	mu sync.Mutex
	w  io.Writer
}

// NewWriterNotifier creates a notifier writing to w.
func NewWriterNotifier(w io.Writer) *WriterNotifier {
	return &WriterNotifier{w: w}
}

type line struct {
	Event   string          `json:"event"`
	Payload json.RawMessage `json:"payload"`
}

// Send writes the notification.
func (n *WriterNotifier) Send(notification Notification) error {
	payload := notification.Payload
	if len(payload) == 0 {
		payload = json.RawMessage("null")
	}

	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(line{Event: notification.Name, Payload: payload}); err != nil {
		return fmt.Errorf("encoding notification: %w", err)
	}

	n.mu.Lock()
	defer n.mu.Unlock()
	if _, err := n.w.Write(buf.Bytes()); err != nil {
		return fmt.Errorf("writing notification: %w", err)
	}
	return nil
}
