package presence

import (
	"context"
	"net/http"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/Veraticus/online-check/pkg/testutil"
)

func TestSchedulerTick(t *testing.T) {
	t.Run("reports with current settings", func(t *testing.T) {
		client := testutil.NewMockHTTPDoer(http.StatusOK)
		r := NewReporter(testutil.NewMockIdleDetector(0), client, testutil.NewMockEmitter())

		var mu sync.Mutex
		url, token := "http://a.invalid/presence", "one"
		s := NewScheduler(r, func() (string, string) {
			mu.Lock()
			defer mu.Unlock()
			return url, token
		}, time.Minute, zerolog.Nop())

		s.Tick(context.Background())
		mu.Lock()
		url, token = "http://b.invalid/presence", "two"
		mu.Unlock()
		s.Tick(context.Background())

		reqs := client.GetRequests()
		if len(reqs) != 2 {
			t.Fatalf("got %d requests, want 2", len(reqs))
		}
		if reqs[1].URL.Host != "b.invalid" || reqs[1].Header.Get("Authorization") != "two" {
			t.Errorf("second request used %s / %s", reqs[1].URL.Host, reqs[1].Header.Get("Authorization"))
		}
	})

	t.Run("empty url emits error", func(t *testing.T) {
		client := testutil.NewMockHTTPDoer(http.StatusOK)
		emitter := testutil.NewMockEmitter()
		r := NewReporter(testutil.NewMockIdleDetector(0), client, emitter)
		s := NewScheduler(r, func() (string, string) { return "", "token" }, time.Minute, zerolog.Nop())

		s.Tick(context.Background())

		if len(client.GetRequests()) != 0 {
			t.Error("request sent without a URL")
		}
		events := emitter.GetEvents()
		if len(events) != 1 || !strings.Contains(events[0].Payload.(NotificationPayload).Message, ErrorClass) {
			t.Errorf("events = %+v, want one error event", events)
		}
	})

	t.Run("empty url while idle stays silent", func(t *testing.T) {
		emitter := testutil.NewMockEmitter()
		r := NewReporter(testutil.NewMockIdleDetector(IdleThreshold), testutil.NewMockHTTPDoer(http.StatusOK), emitter)
		s := NewScheduler(r, func() (string, string) { return "", "" }, time.Minute, zerolog.Nop())

		s.Tick(context.Background())

		if n := len(emitter.GetEvents()); n != 0 {
			t.Errorf("got %d events while idle, want 0", n)
		}
	})
}

func TestSchedulerDefaultInterval(t *testing.T) {
	s := NewScheduler(nil, nil, 0, zerolog.Nop())
	if s.Interval() != DefaultInterval {
		t.Errorf("Interval() = %v, want %v", s.Interval(), DefaultInterval)
	}
}

func TestSchedulerRun(t *testing.T) {
	client := testutil.NewMockHTTPDoer(http.StatusOK)
	r := NewReporter(testutil.NewMockIdleDetector(0), client, testutil.NewMockEmitter())
	s := NewScheduler(r, func() (string, string) { return "http://example.invalid", "t" }, 10*time.Millisecond, zerolog.Nop())

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- s.Run(ctx) }()

	deadline := time.After(2 * time.Second)
	for len(client.GetRequests()) < 2 {
		select {
		case <-deadline:
			t.Fatal("scheduler did not report twice")
		case <-time.After(5 * time.Millisecond):
		}
	}

	cancel()
	select {
	case err := <-done:
		if err != nil {
			t.Errorf("Run() error = %v, want nil on cancel", err)
		}
	case <-time.After(time.Second):
		t.Fatal("Run() did not return after cancel")
	}
}

func TestSchedulerRunDeadline(t *testing.T) {
	s := NewScheduler(nil, nil, time.Hour, zerolog.Nop())
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()

	if err := s.Run(ctx); err != context.DeadlineExceeded {
		t.Errorf("Run() error = %v, want DeadlineExceeded", err)
	}
}
