package idle

import "time"

// StaticDetector reports a fixed idle time.
type StaticDetector struct {
	idle time.Duration
}

// NewStaticDetector creates a detector that always reports the given idle time.
func NewStaticDetector(idle time.Duration) *StaticDetector {
	return &StaticDetector{idle: idle}
}

// IdleTime returns the configured idle time.
func (d *StaticDetector) IdleTime() (time.Duration, error) {
	return d.idle, nil
}
