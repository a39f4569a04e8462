package notification

import (
	"errors"
	"fmt"
	"sync"
	"time"
)

// Bus fans emitted events out to subscribed notifiers. It implements
// interfaces.Emitter.
type Bus struct {
	mu          sync.RWMutex
	subscribers []subscription
	nextID      int
	now         func() time.Time
}

type subscription struct {
	id       int
	notifier Notifier
}

// NewBus creates an empty bus.
func NewBus() *Bus {
	return &Bus{now: time.Now}
}

// Subscribe adds a notifier and returns a function removing it.
func (b *Bus) Subscribe(n Notifier) (unsubscribe func()) {
	b.mu.Lock()
	b.nextID++
	id := b.nextID
	b.subscribers = append(b.subscribers, subscription{id: id, notifier: n})
	b.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			b.mu.Lock()
			defer b.mu.Unlock()
			for i, s := range b.subscribers {
				if s.id == id {
					b.subscribers = append(b.subscribers[:i:i], b.subscribers[i+1:]...)
					return
				}
			}
		})
	}
}

// Emit delivers the event to every subscriber. All subscribers are tried;
// their errors are joined.
func (b *Bus) Emit(event string, payload any) error {
	n, err := newNotification(event, payload, b.now())
	if err != nil {
		return err
	}

	b.mu.RLock()
	subs := make([]subscription, len(b.subscribers))
	copy(subs, b.subscribers)
	b.mu.RUnlock()

	var errs []error
	for _, s := range subs {
		if err := s.notifier.Send(n); err != nil {
			errs = append(errs, fmt.Errorf("delivering %s: %w", event, err))
		}
	}
	return errors.Join(errs...)
}

// Len returns the number of subscribers.
func (b *Bus) Len() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.subscribers)
}
