package presence

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/Veraticus/online-check/pkg/testutil"
)

var fixedNow = time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

func fixedClock() time.Time { return fixedNow }

type recordedRequest struct {
	method        string
	authorization string
	contentType   string
	body          []byte
}

func newRecordingServer(t *testing.T, status int) (*httptest.Server, func() []recordedRequest) {
	t.Helper()
	var mu sync.Mutex
	var reqs []recordedRequest

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		mu.Lock()
		reqs = append(reqs, recordedRequest{
			method:        r.Method,
			authorization: r.Header.Get("Authorization"),
			contentType:   r.Header.Get("Content-Type"),
			body:          body,
		})
		mu.Unlock()
		w.WriteHeader(status)
	}))
	t.Cleanup(srv.Close)

	return srv, func() []recordedRequest {
		mu.Lock()
		defer mu.Unlock()
		out := make([]recordedRequest, len(reqs))
		copy(out, reqs)
		return out
	}
}

func TestReportPresence(t *testing.T) {
	tests := []struct {
		name         string
		idle         time.Duration
		status       int
		wantRequests int
		wantMessage  string
	}{
		{
			name:         "active user, server ok",
			idle:         0,
			status:       http.StatusOK,
			wantRequests: 1,
			wantMessage:  "<span class='time-success'>2024-01-01T00:00:00+00:00</span> <span>Data sent to server</span>",
		},
		{
			name:         "idle user",
			idle:         150 * time.Second,
			status:       http.StatusOK,
			wantRequests: 0,
		},
		{
			name:         "exactly at threshold counts as idle",
			idle:         IdleThreshold,
			status:       http.StatusOK,
			wantRequests: 0,
		},
		{
			name:         "just under threshold",
			idle:         IdleThreshold - time.Millisecond,
			status:       http.StatusOK,
			wantRequests: 1,
			wantMessage:  "<span class='time-success'>2024-01-01T00:00:00+00:00</span> <span>Data sent to server</span>",
		},
		{
			name:         "server unavailable",
			idle:         5 * time.Second,
			status:       http.StatusServiceUnavailable,
			wantRequests: 1,
			wantMessage:  "<span class='time-error'>2024-01-01T00:00:00+00:00</span> <span>Error sending data to server</span>",
		},
		{
			name:         "server error",
			idle:         time.Second,
			status:       http.StatusInternalServerError,
			wantRequests: 1,
			wantMessage:  "<span class='time-error'>2024-01-01T00:00:00+00:00</span> <span>Error sending data to server</span>",
		},
		{
			name:         "other 2xx is a failure",
			idle:         time.Second,
			status:       http.StatusNoContent,
			wantRequests: 1,
			wantMessage:  "<span class='time-error'>2024-01-01T00:00:00+00:00</span> <span>Error sending data to server</span>",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv, requests := newRecordingServer(t, tt.status)
			emitter := testutil.NewMockEmitter()
			r := NewReporter(testutil.NewMockIdleDetector(tt.idle), NewHTTPClient(), emitter, WithClock(fixedClock))

			if err := r.ReportPresence(context.Background(), srv.URL, "secret-token"); err != nil {
				t.Fatalf("ReportPresence() error = %v, want nil", err)
			}

			reqs := requests()
			if len(reqs) != tt.wantRequests {
				t.Fatalf("got %d requests, want %d", len(reqs), tt.wantRequests)
			}

			events := emitter.GetEvents()
			if tt.wantRequests == 0 {
				if len(events) != 0 {
					t.Errorf("got %d events, want 0", len(events))
				}
				return
			}

			req := reqs[0]
			if req.method != http.MethodPost {
				t.Errorf("method = %s, want POST", req.method)
			}
			if req.authorization != "secret-token" {
				t.Errorf("Authorization = %q, want raw token", req.authorization)
			}
			if req.contentType != "application/json" {
				t.Errorf("Content-Type = %q", req.contentType)
			}
			var body map[string]string
			if err := json.Unmarshal(req.body, &body); err != nil {
				t.Fatalf("body is not JSON: %v", err)
			}
			if body["timestamp"] != "2024-01-01 00:00:00 +00:00" {
				t.Errorf("timestamp = %q", body["timestamp"])
			}

			if len(events) != 1 {
				t.Fatalf("got %d events, want 1", len(events))
			}
			if events[0].Name != EventName {
				t.Errorf("event = %q, want %q", events[0].Name, EventName)
			}
			payload, ok := events[0].Payload.(NotificationPayload)
			if !ok {
				t.Fatalf("payload type = %T", events[0].Payload)
			}
			if payload.Message != tt.wantMessage {
				t.Errorf("message = %q, want %q", payload.Message, tt.wantMessage)
			}
		})
	}
}

func TestReportPresenceTransportError(t *testing.T) {
	emitter := testutil.NewMockEmitter()
	client := testutil.NewMockHTTPDoer(http.StatusOK)
	client.SetError(errors.New("connection refused"))
	status := testutil.NewMockStatusReporter()

	r := NewReporter(testutil.NewMockIdleDetector(0), client, emitter,
		WithClock(fixedClock), WithStatusReporter(status))

	if err := r.ReportPresence(context.Background(), "http://127.0.0.1:1/presence", "t"); err != nil {
		t.Fatalf("ReportPresence() error = %v, want nil", err)
	}

	events := emitter.GetEvents()
	if len(events) != 1 {
		t.Fatalf("got %d events, want 1", len(events))
	}
	if msg := events[0].Payload.(NotificationPayload).Message; !strings.Contains(msg, "time-error") {
		t.Errorf("message = %q, want error marker", msg)
	}
	if got := strings.Join(status.GetCalls(), ","); got != "active,sending,failure" {
		t.Errorf("status calls = %s", got)
	}
}

func TestReportPresenceInvalidURL(t *testing.T) {
	emitter := testutil.NewMockEmitter()
	client := testutil.NewMockHTTPDoer(http.StatusOK)
	r := NewReporter(testutil.NewMockIdleDetector(0), client, emitter, WithClock(fixedClock))

	_ = r.ReportPresence(context.Background(), "://bad", "t")

	if len(client.GetRequests()) != 0 {
		t.Error("request sent for invalid URL")
	}
	events := emitter.GetEvents()
	if len(events) != 1 || !strings.Contains(events[0].Payload.(NotificationPayload).Message, "time-error") {
		t.Errorf("events = %+v, want one error event", events)
	}
}

func TestReportPresenceCancelledContext(t *testing.T) {
	srv, _ := newRecordingServer(t, http.StatusOK)
	emitter := testutil.NewMockEmitter()
	r := NewReporter(testutil.NewMockIdleDetector(0), NewHTTPClient(), emitter, WithClock(fixedClock))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_ = r.ReportPresence(ctx, srv.URL, "t")

	events := emitter.GetEvents()
	if len(events) != 1 || !strings.Contains(events[0].Payload.(NotificationPayload).Message, "time-error") {
		t.Errorf("events = %+v, want one error event", events)
	}
}

func TestReportPresenceIdleError(t *testing.T) {
	idle := testutil.NewMockIdleDetector(0)
	idle.SetError(errors.New("no display"))
	client := testutil.NewMockHTTPDoer(http.StatusOK)
	emitter := testutil.NewMockEmitter()

	r := NewReporter(idle, client, emitter)
	if err := r.ReportPresence(context.Background(), "http://example.invalid", "t"); err != nil {
		t.Fatalf("ReportPresence() error = %v, want nil", err)
	}
	if len(client.GetRequests()) != 0 {
		t.Error("request sent despite idle-time failure")
	}
	if len(emitter.GetEvents()) != 0 {
		t.Error("event emitted despite idle-time failure")
	}
}

func TestReportPresenceEmitError(t *testing.T) {
	client := testutil.NewMockHTTPDoer(http.StatusOK)
	emitter := testutil.NewMockEmitter()
	emitter.SetError(errors.New("window closed"))

	r := NewReporter(testutil.NewMockIdleDetector(0), client, emitter)
	if err := r.ReportPresence(context.Background(), "http://example.invalid", "t"); err != nil {
		t.Errorf("ReportPresence() error = %v, want nil", err)
	}
	if len(emitter.GetEvents()) != 1 {
		t.Errorf("got %d emit attempts, want 1", len(emitter.GetEvents()))
	}
}

func TestReportPresenceStatus(t *testing.T) {
	tests := []struct {
		name   string
		idle   time.Duration
		status int
		want   string
	}{
		{"delivered", 0, http.StatusOK, "active,sending,success"},
		{"rejected", 0, http.StatusUnauthorized, "active,sending,failure"},
		{"idle", 3 * time.Minute, http.StatusOK, "idle"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			status := testutil.NewMockStatusReporter()
			r := NewReporter(testutil.NewMockIdleDetector(tt.idle), testutil.NewMockHTTPDoer(tt.status),
				testutil.NewMockEmitter(), WithStatusReporter(status))

			_ = r.ReportPresence(context.Background(), "http://example.invalid", "t")

			if got := strings.Join(status.GetCalls(), ","); got != tt.want {
				t.Errorf("status calls = %s, want %s", got, tt.want)
			}
		})
	}
}

func TestReportPresenceTimestampIsAttemptTime(t *testing.T) {
	client := testutil.NewMockHTTPDoer(http.StatusOK)
	emitter := testutil.NewMockEmitter()
	r := NewReporter(testutil.NewMockIdleDetector(0), client, emitter)

	before := time.Now().Truncate(time.Second)
	_ = r.ReportPresence(context.Background(), "http://example.invalid", "t")
	after := time.Now()

	msg := emitter.GetEvents()[0].Payload.(NotificationPayload).Message
	start := strings.Index(msg, ">") + 1
	end := strings.Index(msg, "</span>")
	ts, err := time.Parse(time.RFC3339, msg[start:end])
	if err != nil {
		t.Fatalf("embedded timestamp %q is not RFC3339: %v", msg[start:end], err)
	}
	if ts.Before(before) || ts.After(after) {
		t.Errorf("timestamp %v outside [%v, %v]", ts, before, after)
	}
}
