// Package status tracks and renders the state of presence reporting.
package status

import (
	"fmt"
	"io"
	"strings"
	"sync"
	"time"
)

// Status represents the outcome of the latest report
type Status int

const (
	StatusIdle Status = iota
	StatusSending
	StatusSuccess
	StatusFailed
)

func (s Status) String() string {
	switch s {
	case StatusSending:
		return "sending"
	case StatusSuccess:
		return "sent"
	case StatusFailed:
		return "failed"
	default:
		return "waiting"
	}
}

// State is a snapshot of the indicator.
type State struct {
	Status   Status
	Idle     bool
	LastSent time.Time
}

// Summary is a plain-text description suitable for menus and tooltips.
func (s State) Summary() string {
	activity := "Active"
	if s.Idle {
		activity = "Idle"
	}
	if s.LastSent.IsZero() {
		return fmt.Sprintf("%s, %s", activity, s.Status)
	}
	return fmt.Sprintf("%s, %s, last sent %s", activity, s.Status, s.LastSent.Format("15:04:05"))
}

// Indicator tracks report state and renders it as a terminal status line
type Indicator struct {
	mu       sync.Mutex
	status   Status
	lastSent time.Time
	isIdle   bool
	enabled  bool
	writer   io.Writer
	now      func() time.Time

	listeners []func(State)
}

// NewIndicator creates a new status indicator. When enabled is false the
// state is still tracked but nothing is written.
func NewIndicator(writer io.Writer, enabled bool) *Indicator {
	return &Indicator{
		status:  StatusIdle,
		writer:  writer,
		enabled: enabled,
		now:     time.Now,
	}
}

// OnChange registers a callback invoked after every state change.
func (i *Indicator) OnChange(fn func(State)) {
	i.mu.Lock()
	defer i.mu.Unlock()
	i.listeners = append(i.listeners, fn)
}

// State returns the current state.
func (i *Indicator) State() State {
	i.mu.Lock()
	defer i.mu.Unlock()
	return i.stateLocked()
}

func (i *Indicator) stateLocked() State {
	return State{Status: i.status, Idle: i.isIdle, LastSent: i.lastSent}
}

// SetStatus updates the current status
func (i *Indicator) SetStatus(status Status) {
	i.update(func() {
		i.status = status
		if status == StatusSuccess {
			i.lastSent = i.now()
		}
	})
}

// SetIdleState updates the idle state
func (i *Indicator) SetIdleState(isIdle bool) {
	i.update(func() { i.isIdle = isIdle })
}

func (i *Indicator) update(change func()) {
	i.mu.Lock()
	change()
	state := i.stateLocked()
	listeners := i.listeners
	// Best effort - don't fail if we can't update the display
	_ = i.draw()
	i.mu.Unlock()

	for _, fn := range listeners {
		fn(state)
	}
}

// draw renders the status line. Callers hold i.mu.
func (i *Indicator) draw() error {
	if !i.enabled || i.writer == nil {
		return nil
	}

	// \r returns to column 0, \033[2K clears the line.
	if _, err := fmt.Fprintf(i.writer, "\r\033[2K%s", i.getStatusText()); err != nil {
		return err
	}
	return nil
}

// getStatusText returns the status text with color
func (i *Indicator) getStatusText() string {
	var parts []string

	if i.isIdle {
		parts = append(parts, "\033[33mⓏ idle\033[0m")
	} else {
		parts = append(parts, "\033[32m▶ active\033[0m")
	}

	switch i.status {
	case StatusSending:
		parts = append(parts, "\033[33m⟳ sending\033[0m")
	case StatusSuccess:
		parts = append(parts, fmt.Sprintf("\033[32m✓ sent (%s)\033[0m", formatAge(i.now().Sub(i.lastSent))))
	case StatusFailed:
		parts = append(parts, "\033[31m✗ failed\033[0m")
	}

	return strings.Join(parts, " ")
}

// formatAge renders d compactly: 42s, 5m, 3h.
func formatAge(d time.Duration) string {
	switch {
	case d < time.Minute:
		return fmt.Sprintf("%ds", int(d.Seconds()))
	case d < time.Hour:
		return fmt.Sprintf("%dm", int(d.Minutes()))
	default:
		return fmt.Sprintf("%dh", int(d.Hours()))
	}
}

// Clear removes the status line
func (i *Indicator) Clear() error {
	i.mu.Lock()
	defer i.mu.Unlock()

	if !i.enabled || i.writer == nil {
		return nil
	}

	if _, err := fmt.Fprint(i.writer, "\r\033[2K"); err != nil {
		return err
	}
	return nil
}

// StartAutoRefresh redraws periodically so the age of the last report stays
// current. The line is cleared when stopChan closes.
func (i *Indicator) StartAutoRefresh(interval time.Duration, stopChan <-chan struct{}) {
	if interval <= 0 {
		interval = 2 * time.Second
	}
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()

		for {
			select {
			case <-ticker.C:
				i.mu.Lock()
				_ = i.draw() // Best effort
				i.mu.Unlock()
			case <-stopChan:
				_ = i.Clear() // Best effort
				return
			}
		}
	}()
}
