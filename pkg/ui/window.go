// Package ui provides the console window and its lifecycle.
package ui

import (
	"fmt"
	"io"
	"sync"

	"github.com/Veraticus/online-check/pkg/interfaces"
	"github.com/Veraticus/online-check/pkg/notification"
	"github.com/Veraticus/online-check/pkg/presence"
)

// ConsoleWindow renders the activity log as plain text while visible.
type ConsoleWindow struct {
	mu      sync.Mutex
	w       io.Writer
	history *notification.History
	visible bool
}

var (
	_ interfaces.Window     = (*ConsoleWindow)(nil)
	_ notification.Notifier = (*ConsoleWindow)(nil)
)

// NewConsoleWindow creates a hidden window writing to w.
func NewConsoleWindow(w io.Writer, history *notification.History) *ConsoleWindow {
	return &ConsoleWindow{w: w, history: history}
}

// Show makes the window visible and renders the log, newest first.
func (c *ConsoleWindow) Show() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.visible {
		return nil
	}
	c.visible = true

	if c.history == nil {
		return nil
	}
	entries := c.history.Entries()
	if len(entries) == 0 {
		_, err := fmt.Fprintln(c.w, "No activity yet")
		return err
	}
	for _, n := range entries {
		if err := c.writeLine(n); err != nil {
			return err
		}
	}
	return nil
}

// Hide stops rendering.
func (c *ConsoleWindow) Hide() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.visible = false
	return nil
}

// Visible reports whether the window is shown.
func (c *ConsoleWindow) Visible() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.visible
}

// Send renders n when the window is visible.
func (c *ConsoleWindow) Send(n notification.Notification) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.visible {
		return nil
	}
	return c.writeLine(n)
}

func (c *ConsoleWindow) writeLine(n notification.Notification) error {
	marker := " "
	if outcome, ok := notification.OutcomeOf(n.Data); ok {
		marker = "✓"
		if outcome == presence.DeliveryFailed {
			marker = "✗"
		}
	}
	_, err := fmt.Fprintf(c.w, "%s %s\n", marker, notification.PlainText(n.Data))
	return err
}
