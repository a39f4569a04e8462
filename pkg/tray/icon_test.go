package tray

import (
	"bytes"
	"image/color"
	"image/png"
	"testing"

	"github.com/Veraticus/online-check/pkg/status"
)

func TestColorFor(t *testing.T) {
	tests := []struct {
		name  string
		state status.State
		want  color.RGBA
	}{
		{"waiting", status.State{}, colorWaiting},
		{"sending", status.State{Status: status.StatusSending}, colorSending},
		{"success", status.State{Status: status.StatusSuccess}, colorSuccess},
		{"failed", status.State{Status: status.StatusFailed}, colorFailed},
		{"idle overrides result", status.State{Status: status.StatusFailed, Idle: true}, colorWaiting},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ColorFor(tt.state); got != tt.want {
				t.Errorf("ColorFor() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestDot(t *testing.T) {
	data := Dot(colorSuccess)

	img, err := png.Decode(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("icon is not a PNG: %v", err)
	}
	if b := img.Bounds(); b.Dx() != IconSize || b.Dy() != IconSize {
		t.Fatalf("icon size = %dx%d", b.Dx(), b.Dy())
	}

	r, g, b, a := img.At(IconSize/2, IconSize/2).RGBA()
	if uint8(r>>8) != colorSuccess.R || uint8(g>>8) != colorSuccess.G || uint8(b>>8) != colorSuccess.B || a != 0xffff {
		t.Errorf("center pixel = %v %v %v %v", r>>8, g>>8, b>>8, a>>8)
	}
	if _, _, _, a := img.At(0, 0).RGBA(); a != 0 {
		t.Errorf("corner pixel alpha = %d, want transparent", a)
	}

	if !bytes.Equal(Dot(colorSuccess), data) {
		t.Error("Dot() not stable for the same colour")
	}
	if bytes.Equal(IconFor(status.State{Status: status.StatusFailed}), data) {
		t.Error("failed icon should differ from success icon")
	}
}
