//go:build linux
// +build linux

package idle

import (
	"time"

	"github.com/Veraticus/online-check/pkg/interfaces"
)

// LinuxIdleDetector implements idle detection for Linux systems.
// It asks the desktop over D-Bus first, then tmux when running inside a
// session, and finally falls back to activity recorded by the application.
type LinuxIdleDetector struct {
	dbusDetector *DBusIdleDetector
	tmuxDetector *TmuxIdleDetector
	fallback     *ActivityDetector
	useTmux      bool
	fallbackNotice
}

// NewLinuxIdleDetector creates a new Linux idle detector.
func NewLinuxIdleDetector() *LinuxIdleDetector {
	tmuxDetector := NewTmuxIdleDetector()

	return &LinuxIdleDetector{
		dbusDetector: NewDBusIdleDetector(),
		tmuxDetector: tmuxDetector,
		fallback:     NewActivityDetector(),
		useTmux:      tmuxDetector.IsAvailable(),
	}
}

// IdleTime returns the idle time from the best available source.
func (d *LinuxIdleDetector) IdleTime() (time.Duration, error) {
	var lastErr error
	if d.dbusDetector != nil {
		idle, err := d.dbusDetector.IdleTime()
		if err == nil {
			return idle, nil
		}
		lastErr = err
	}

	if d.useTmux {
		idle, err := d.tmuxDetector.IdleTime()
		if err == nil {
			return idle, nil
		}
		lastErr = err
	}

	d.noteFallback(lastErr)
	return d.fallback.IdleTime()
}

// UpdateActivity records activity in the fallback detector.
func (d *LinuxIdleDetector) UpdateActivity() {
	d.fallback.UpdateActivity()
}

// IsUsingTmux returns true if tmux detection is being used.
func (d *LinuxIdleDetector) IsUsingTmux() bool {
	return d.useTmux
}

// SetUseTmux allows enabling or disabling tmux detection.
// This is primarily useful for testing.
func (d *LinuxIdleDetector) SetUseTmux(use bool) {
	d.useTmux = use
}

func newPlatformDetector() interfaces.IdleDetector {
	return NewLinuxIdleDetector()
}
