package notification

import (
	"testing"

	"github.com/Veraticus/online-check/pkg/presence"
)

const (
	successFragment = "<span class='time-success'>2024-01-01T00:00:00+00:00</span> <span>Data sent to server</span>"
	errorFragment   = "<span class='time-error'>2024-01-01T00:00:05+00:00</span> <span>Error sending data to server</span>"
)

func TestPlainText(t *testing.T) {
	tests := []struct {
		name     string
		fragment string
		want     string
	}{
		{"success", successFragment, "2024-01-01T00:00:00+00:00 Data sent to server"},
		{"error", errorFragment, "2024-01-01T00:00:05+00:00 Error sending data to server"},
		{"plain text", "just text", "just text"},
		{"whitespace collapsed", "<p>  a \n b </p>", "a b"},
		{"entities decoded", "<b>a &amp; b</b>", "a & b"},
		{"empty", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := PlainText(tt.fragment); got != tt.want {
				t.Errorf("PlainText() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestOutcomeOf(t *testing.T) {
	tests := []struct {
		name     string
		fragment string
		want     presence.Outcome
		wantOK   bool
	}{
		{"success", successFragment, presence.Delivered, true},
		{"error", errorFragment, presence.DeliveryFailed, true},
		{"multiple classes", `<span class="big time-error">x</span>`, presence.DeliveryFailed, true},
		{"unmarked", "<span>x</span>", 0, false},
		{"empty", "", 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := OutcomeOf(tt.fragment)
			if ok != tt.wantOK {
				t.Fatalf("OutcomeOf() ok = %v, want %v", ok, tt.wantOK)
			}
			if ok && got != tt.want {
				t.Errorf("OutcomeOf() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestTimestamp(t *testing.T) {
	if got := Timestamp(successFragment); got != "2024-01-01T00:00:00+00:00" {
		t.Errorf("Timestamp() = %q", got)
	}
	if got := Timestamp("<span>x</span>"); got != "" {
		t.Errorf("Timestamp() = %q, want empty", got)
	}
}
