package notification

import (
	"testing"
	"time"
)

func TestNewNotification(t *testing.T) {
	at := time.Unix(1234567890, 0)

	tests := []struct {
		name        string
		payload     any
		wantData    string
		wantPayload string
		wantErr     bool
	}{
		{
			name:        "struct with data field",
			payload:     struct {
				Message string `json:"data"`
			}{Message: "<span>hi</span>"},
			wantData:    "<span>hi</span>",
			wantPayload: `{"data":"<span>hi</span>"}`,
		},
		{
			name:        "map with data field",
			payload:     map[string]string{"data": "plain"},
			wantData:    "plain",
			wantPayload: `{"data":"plain"}`,
		},
		{
			name:        "bare string",
			payload:     "text",
			wantData:    "text",
			wantPayload: `"text"`,
		},
		{
			name:        "payload without data",
			payload:     map[string]int{"count": 3},
			wantData:    "",
			wantPayload: `{"count":3}`,
		},
		{
			name:    "unencodable payload",
			payload: make(chan int),
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			n, err := newNotification("online-check", tt.payload, at)
			if (err != nil) != tt.wantErr {
				t.Fatalf("newNotification() error = %v, wantErr %v", err, tt.wantErr)
			}
			if tt.wantErr {
				return
			}
			if n.Name != "online-check" {
				t.Errorf("Name = %q, want %q", n.Name, "online-check")
			}
			if n.Data != tt.wantData {
				t.Errorf("Data = %q, want %q", n.Data, tt.wantData)
			}
			if string(n.Payload) != tt.wantPayload {
				t.Errorf("Payload = %s, want %s", n.Payload, tt.wantPayload)
			}
			if !n.Time.Equal(at) {
				t.Errorf("Time = %v, want %v", n.Time, at)
			}
		})
	}
}
