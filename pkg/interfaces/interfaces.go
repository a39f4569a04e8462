// Package interfaces defines the core interfaces used throughout the application.
package interfaces

import (
	"net/http"
	"time"
)

// IdleDetector reports how long the user has been away from keyboard and mouse.
type IdleDetector interface {
	IdleTime() (time.Duration, error)
}

// HTTPDoer issues a single HTTP request.
type HTTPDoer interface {
	Do(req *http.Request) (*http.Response, error)
}

// Emitter delivers a named event to the UI layer.
type Emitter interface {
	Emit(event string, payload any) error
}

// StatusReporter reports the progress of a presence report.
type StatusReporter interface {
	ReportSending()
	ReportSuccess()
	ReportFailure()
	ReportIdle(idle bool)
}

// Window is the application window as seen by the tray and lifecycle code.
type Window interface {
	Show() error
	Hide() error
	Visible() bool
}
