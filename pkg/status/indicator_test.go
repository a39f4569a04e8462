package status

import (
	"bytes"
	"strings"
	"sync"
	"testing"
	"time"
)

func TestNewIndicator(t *testing.T) {
	buf := &bytes.Buffer{}
	indicator := NewIndicator(buf, true)

	if indicator.status != StatusIdle {
		t.Errorf("expected initial status to be StatusIdle, got %v", indicator.status)
	}

	if indicator.writer != buf {
		t.Errorf("expected writer to be set")
	}

	if !indicator.enabled {
		t.Errorf("expected indicator to be enabled")
	}
}

func TestIndicatorSetStatus(t *testing.T) {
	tests := []struct {
		name           string
		status         Status
		expectedOutput string
		enabled        bool
	}{
		{
			name:           "sending status",
			status:         StatusSending,
			expectedOutput: "⟳ sending",
			enabled:        true,
		},
		{
			name:           "success status",
			status:         StatusSuccess,
			expectedOutput: "✓ sent (0s)",
			enabled:        true,
		},
		{
			name:           "failed status",
			status:         StatusFailed,
			expectedOutput: "✗ failed",
			enabled:        true,
		},
		{
			name:           "waiting shows only activity",
			status:         StatusIdle,
			expectedOutput: "▶ active",
			enabled:        true,
		},
		{
			name:    "disabled indicator shows nothing",
			status:  StatusSuccess,
			enabled: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			buf := &bytes.Buffer{}
			indicator := NewIndicator(buf, tt.enabled)
			fixed := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
			indicator.now = func() time.Time { return fixed }

			indicator.SetStatus(tt.status)

			output := buf.String()
			if !tt.enabled {
				if output != "" {
					t.Errorf("expected no output for disabled indicator, got %q", output)
				}
				return
			}
			if !strings.Contains(output, tt.expectedOutput) {
				t.Errorf("expected output to contain %q, got %q", tt.expectedOutput, output)
			}
			if !strings.HasPrefix(output, "\r\033[2K") {
				t.Errorf("expected line reset prefix, got %q", output)
			}
		})
	}
}

func TestIndicatorSuccessAge(t *testing.T) {
	buf := &bytes.Buffer{}
	indicator := NewIndicator(buf, true)
	now := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	indicator.now = func() time.Time { return now }

	indicator.SetStatus(StatusSuccess)

	for _, tc := range []struct {
		elapsed time.Duration
		want    string
	}{
		{10 * time.Second, "✓ sent (10s)"},
		{5 * time.Minute, "✓ sent (5m)"},
		{3 * time.Hour, "✓ sent (3h)"},
	} {
		now = time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC).Add(tc.elapsed)
		buf.Reset()
		indicator.mu.Lock()
		_ = indicator.draw()
		indicator.mu.Unlock()

		if !strings.Contains(buf.String(), tc.want) {
			t.Errorf("after %v expected %q, got %q", tc.elapsed, tc.want, buf.String())
		}
	}
}

func TestIndicatorIdleState(t *testing.T) {
	buf := &bytes.Buffer{}
	indicator := NewIndicator(buf, true)

	indicator.SetIdleState(true)
	if !strings.Contains(buf.String(), "Ⓩ idle") {
		t.Errorf("expected idle marker, got %q", buf.String())
	}

	buf.Reset()
	indicator.SetIdleState(false)
	if !strings.Contains(buf.String(), "▶ active") {
		t.Errorf("expected active marker, got %q", buf.String())
	}
}

func TestIndicatorStateAndListeners(t *testing.T) {
	indicator := NewIndicator(nil, false)
	sent := time.Date(2024, 1, 1, 9, 30, 15, 0, time.UTC)
	indicator.now = func() time.Time { return sent }

	var states []State
	indicator.OnChange(func(s State) { states = append(states, s) })

	indicator.SetIdleState(false)
	indicator.SetStatus(StatusSuccess)
	indicator.SetIdleState(true)

	if len(states) != 3 {
		t.Fatalf("expected 3 state changes, got %d", len(states))
	}
	got := indicator.State()
	if got.Status != StatusSuccess || !got.Idle || !got.LastSent.Equal(sent) {
		t.Errorf("unexpected state %+v", got)
	}
	if got.Summary() != "Idle, sent, last sent 09:30:15" {
		t.Errorf("Summary() = %q", got.Summary())
	}
	if s := (State{}).Summary(); s != "Active, waiting" {
		t.Errorf("zero Summary() = %q", s)
	}
}

func TestIndicatorClear(t *testing.T) {
	buf := &bytes.Buffer{}
	indicator := NewIndicator(buf, true)

	indicator.SetStatus(StatusSuccess)

	buf.Reset()
	if err := indicator.Clear(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if buf.String() != "\r\033[2K" {
		t.Errorf("expected bare line reset, got %q", buf.String())
	}
}

func TestIndicatorAutoRefresh(t *testing.T) {
	// Use a thread-safe wrapper for the buffer
	type safeBuffer struct {
		mu  sync.Mutex
		buf bytes.Buffer
	}

	sb := &safeBuffer{}

	writer := writerFunc(func(p []byte) (n int, err error) {
		sb.mu.Lock()
		defer sb.mu.Unlock()
		return sb.buf.Write(p)
	})

	indicator := NewIndicator(writer, true)
	indicator.SetStatus(StatusSuccess)

	stopChan := make(chan struct{})
	indicator.StartAutoRefresh(20*time.Millisecond, stopChan)

	time.Sleep(150 * time.Millisecond)
	close(stopChan)
	time.Sleep(50 * time.Millisecond)

	sb.mu.Lock()
	output := sb.buf.String()
	sb.mu.Unlock()

	// Initial draw plus at least one refresh
	if draws := strings.Count(output, "✓ sent"); draws < 2 {
		t.Errorf("expected at least 2 draws, got %d", draws)
	}
	if !strings.HasSuffix(output, "\r\033[2K") {
		t.Errorf("expected line cleared on stop, got %q", output)
	}
}

// writerFunc is an adapter to allow functions to implement io.Writer
type writerFunc func([]byte) (int, error)

func (f writerFunc) Write(p []byte) (int, error) {
	return f(p)
}
