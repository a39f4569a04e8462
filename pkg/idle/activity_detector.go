package idle

import (
	"sync"
	"time"
)

// ActivityDetector measures idle time from activity recorded by the application itself.
// It is the fallback when no system-wide idle source is available.
type ActivityDetector struct {
	mu           sync.RWMutex
	lastActivity time.Time
}

// NewActivityDetector creates a new activity detector starting at the current time.
func NewActivityDetector() *ActivityDetector {
	return &ActivityDetector{
		lastActivity: time.Now(),
	}
}

// IdleTime returns the time elapsed since the last recorded activity.
func (d *ActivityDetector) IdleTime() (time.Duration, error) {
	d.mu.RLock()
	defer d.mu.RUnlock()

	elapsed := time.Since(d.lastActivity)
	if elapsed < 0 {
		return 0, nil
	}
	return elapsed, nil
}

// LastActivity returns the last recorded activity time.
func (d *ActivityDetector) LastActivity() time.Time {
	d.mu.RLock()
	defer d.mu.RUnlock()

	return d.lastActivity
}

// UpdateActivity records activity now. Tray actions and console
// commands call this.
func (d *ActivityDetector) UpdateActivity() {
	d.UpdateActivityTime(time.Now())
}

// UpdateActivityTime records activity at the specified time.
func (d *ActivityDetector) UpdateActivityTime(t time.Time) {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.lastActivity = t
}
