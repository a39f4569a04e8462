package notification

import "sync"

// DefaultHistorySize is the number of entries kept when no size is given.
const DefaultHistorySize = 50

// History keeps the most recent notifications, newest first.
type History struct {
	mu      sync.RWMutex
	size    int
	entries []Notification
	onAdd   []func(Notification)
}

// NewHistory creates a history holding at most size entries.
func NewHistory(size int) *History {
	if size <= 0 {
		size = DefaultHistorySize
	}
	return &History{size: size}
}

// Send records the notification.
func (h *History) Send(n Notification) error {
	h.mu.Lock()
	h.entries = append([]Notification{n}, h.entries...)
	if len(h.entries) > h.size {
		h.entries = h.entries[:h.size]
	}
	listeners := h.onAdd
	h.mu.Unlock()

	for _, fn := range listeners {
		fn(n)
	}
	return nil
}

// OnAdd registers a callback run after each recorded notification.
func (h *History) OnAdd(fn func(Notification)) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.onAdd = append(h.onAdd, fn)
}

// Entries returns a copy of the recorded notifications, newest first.
func (h *History) Entries() []Notification {
	h.mu.RLock()
	defer h.mu.RUnlock()
	out := make([]Notification, len(h.entries))
	copy(out, h.entries)
	return out
}

// Latest returns the newest notification.
func (h *History) Latest() (Notification, bool) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	if len(h.entries) == 0 {
		return Notification{}, false
	}
	return h.entries[0], true
}

// Len returns the number of recorded notifications.
func (h *History) Len() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.entries)
}

// Clear drops all entries.
func (h *History) Clear() {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.entries = nil
}
