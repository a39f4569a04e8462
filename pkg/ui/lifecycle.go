package ui

import (
	"github.com/rs/zerolog"

	"github.com/Veraticus/online-check/pkg/interfaces"
)

// Lifecycle applies window actions. Closing the window hides it; the
// process keeps running until Quit is chosen from the tray.
type Lifecycle struct {
	window interfaces.Window
	logger zerolog.Logger
}

// NewLifecycle wraps window.
func NewLifecycle(window interfaces.Window, logger zerolog.Logger) *Lifecycle {
	return &Lifecycle{window: window, logger: logger}
}

// RequestClose handles a close request by hiding the window.
func (l *Lifecycle) RequestClose() {
	l.Hide()
}

// Show shows the window. Errors are logged.
func (l *Lifecycle) Show() {
	if l.window == nil {
		l.logger.Warn().Msg("No window to show")
		return
	}
	if err := l.window.Show(); err != nil {
		l.logger.Error().Err(err).Msg("Failed to show window")
	}
}

// Hide hides the window. Errors are logged.
func (l *Lifecycle) Hide() {
	if l.window == nil {
		l.logger.Warn().Msg("No window to hide")
		return
	}
	if err := l.window.Hide(); err != nil {
		l.logger.Error().Err(err).Msg("Failed to hide window")
	}
}

// Toggle shows a hidden window and hides a visible one.
func (l *Lifecycle) Toggle() {
	if l.window != nil && l.window.Visible() {
		l.Hide()
		return
	}
	l.Show()
}

// Visible reports whether the window is shown.
func (l *Lifecycle) Visible() bool {
	return l.window != nil && l.window.Visible()
}
