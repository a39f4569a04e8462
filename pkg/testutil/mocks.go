// Package testutil provides thread-safe mocks of the interfaces package for tests.
package testutil

import (
	"bytes"
	"errors"
	"io"
	"net/http"
	"sync"
	"time"
)

// MockIdleDetector is a mock implementation of interfaces.IdleDetector for testing
type MockIdleDetector struct {
	mu        sync.Mutex
	idle      time.Duration
	err       error
	callCount int
}

// NewMockIdleDetector creates a new mock idle detector
func NewMockIdleDetector(idle time.Duration) *MockIdleDetector {
	return &MockIdleDetector{idle: idle}
}

// IdleTime implements the IdleDetector interface
func (m *MockIdleDetector) IdleTime() (time.Duration, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.callCount++
	if m.err != nil {
		return 0, m.err
	}
	return m.idle, nil
}

// SetIdle sets the idle duration
func (m *MockIdleDetector) SetIdle(idle time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.idle = idle
}

// SetError sets the error to return from IdleTime
func (m *MockIdleDetector) SetError(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.err = err
}

// GetCallCount returns how many times IdleTime was called
func (m *MockIdleDetector) GetCallCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.callCount
}

// EmittedEvent is one call recorded by MockEmitter.
type EmittedEvent struct {
	Name    string
	Payload any
}

// MockEmitter is a mock implementation of interfaces.Emitter for testing
type MockEmitter struct {
	mu      sync.Mutex
	events  []EmittedEvent
	emitErr error
}

// NewMockEmitter creates a new mock emitter
func NewMockEmitter() *MockEmitter {
	return &MockEmitter{}
}

// Emit implements the Emitter interface. Calls are recorded even when an
// error is configured.
func (m *MockEmitter) Emit(event string, payload any) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.events = append(m.events, EmittedEvent{Name: event, Payload: payload})
	return m.emitErr
}

// GetEvents returns a copy of the recorded events
func (m *MockEmitter) GetEvents() []EmittedEvent {
	m.mu.Lock()
	defer m.mu.Unlock()
	result := make([]EmittedEvent, len(m.events))
	copy(result, m.events)
	return result
}

// SetError sets the error to return on Emit calls
func (m *MockEmitter) SetError(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.emitErr = err
}

// Clear resets the mock state
func (m *MockEmitter) Clear() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.events = nil
	m.emitErr = nil
}

// MockStatusReporter is a mock implementation of interfaces.StatusReporter for testing
type MockStatusReporter struct {
	mu    sync.Mutex
	calls []string
}

// NewMockStatusReporter creates a new mock status reporter
func NewMockStatusReporter() *MockStatusReporter {
	return &MockStatusReporter{}
}

func (m *MockStatusReporter) record(call string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls = append(m.calls, call)
}

// ReportSending implements the StatusReporter interface
func (m *MockStatusReporter) ReportSending() { m.record("sending") }

// ReportSuccess implements the StatusReporter interface
func (m *MockStatusReporter) ReportSuccess() { m.record("success") }

// ReportFailure implements the StatusReporter interface
func (m *MockStatusReporter) ReportFailure() { m.record("failure") }

// ReportIdle implements the StatusReporter interface
func (m *MockStatusReporter) ReportIdle(idle bool) {
	if idle {
		m.record("idle")
		return
	}
	m.record("active")
}

// GetCalls returns the recorded calls in order
func (m *MockStatusReporter) GetCalls() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	result := make([]string, len(m.calls))
	copy(result, m.calls)
	return result
}

// ErrNoResponse is returned by MockHTTPDoer when no response is configured.
var ErrNoResponse = errors.New("testutil: no response configured")

// MockHTTPDoer is a mock implementation of interfaces.HTTPDoer for testing
type MockHTTPDoer struct {
	mu         sync.Mutex
	statusCode int
	err        error
	requests   []*http.Request
	bodies     [][]byte
}

// NewMockHTTPDoer creates a mock answering every request with statusCode
func NewMockHTTPDoer(statusCode int) *MockHTTPDoer {
	return &MockHTTPDoer{statusCode: statusCode}
}

// Do implements the HTTPDoer interface
func (m *MockHTTPDoer) Do(req *http.Request) (*http.Response, error) {
	var body []byte
	if req.Body != nil {
		body, _ = io.ReadAll(req.Body)
		_ = req.Body.Close()
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	m.requests = append(m.requests, req)
	m.bodies = append(m.bodies, body)

	if m.err != nil {
		return nil, m.err
	}
	if m.statusCode == 0 {
		return nil, ErrNoResponse
	}
	return &http.Response{
		StatusCode: m.statusCode,
		Status:     http.StatusText(m.statusCode),
		Body:       io.NopCloser(bytes.NewReader(nil)),
		Header:     make(http.Header),
		Request:    req,
	}, nil
}

// SetError makes every request fail with err
func (m *MockHTTPDoer) SetError(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.err = err
}

// GetRequests returns the recorded requests
func (m *MockHTTPDoer) GetRequests() []*http.Request {
	m.mu.Lock()
	defer m.mu.Unlock()
	result := make([]*http.Request, len(m.requests))
	copy(result, m.requests)
	return result
}

// GetBodies returns the recorded request bodies
func (m *MockHTTPDoer) GetBodies() [][]byte {
	m.mu.Lock()
	defer m.mu.Unlock()
	result := make([][]byte, len(m.bodies))
	copy(result, m.bodies)
	return result
}

// MockWindow is a mock implementation of interfaces.Window for testing
type MockWindow struct {
	mu        sync.Mutex
	visible   bool
	err       error
	showCount int
	hideCount int
}

// NewMockWindow creates a new mock window
func NewMockWindow(visible bool) *MockWindow {
	return &MockWindow{visible: visible}
}

// Show implements the Window interface
func (m *MockWindow) Show() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.showCount++
	if m.err != nil {
		return m.err
	}
	m.visible = true
	return nil
}

// Hide implements the Window interface
func (m *MockWindow) Hide() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.hideCount++
	if m.err != nil {
		return m.err
	}
	m.visible = false
	return nil
}

// Visible implements the Window interface
func (m *MockWindow) Visible() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.visible
}

// SetError makes Show and Hide fail with err
func (m *MockWindow) SetError(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.err = err
}

// GetShowCount returns how many times Show was called
func (m *MockWindow) GetShowCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.showCount
}

// GetHideCount returns how many times Hide was called
func (m *MockWindow) GetHideCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.hideCount
}
