package tray

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"sync"

	"github.com/Veraticus/online-check/pkg/status"
)

// IconSize is the edge length of generated icons in pixels.
const IconSize = 32

var (
	colorWaiting = color.RGBA{R: 0x9e, G: 0x9e, B: 0x9e, A: 0xff}
	colorSending = color.RGBA{R: 0xf5, G: 0xa6, B: 0x23, A: 0xff}
	colorSuccess = color.RGBA{R: 0x2e, G: 0xb8, B: 0x4b, A: 0xff}
	colorFailed  = color.RGBA{R: 0xd9, G: 0x3b, B: 0x3b, A: 0xff}
)

var (
	iconMu    sync.Mutex
	iconCache = map[color.RGBA][]byte{}
)

// ColorFor picks the icon colour for a state. Idle users get the
// waiting colour regardless of the last result.
func ColorFor(s status.State) color.RGBA {
	if s.Idle {
		return colorWaiting
	}
	switch s.Status {
	case status.StatusSending:
		return colorSending
	case status.StatusSuccess:
		return colorSuccess
	case status.StatusFailed:
		return colorFailed
	default:
		return colorWaiting
	}
}

// IconFor returns the PNG icon for a state.
func IconFor(s status.State) []byte {
	return Dot(ColorFor(s))
}

// Dot returns a PNG of a filled circle on a transparent background.
func Dot(c color.RGBA) []byte {
	iconMu.Lock()
	defer iconMu.Unlock()
	if b, ok := iconCache[c]; ok {
		return b
	}

	img := image.NewNRGBA(image.Rect(0, 0, IconSize, IconSize))
	center := float64(IconSize-1) / 2
	radius := float64(IconSize)/2 - 2
	for y := 0; y < IconSize; y++ {
		for x := 0; x < IconSize; x++ {
			dx, dy := float64(x)-center, float64(y)-center
			if dx*dx+dy*dy <= radius*radius {
				img.Set(x, y, c)
			}
		}
	}

	var buf bytes.Buffer
	// Encoding an in-memory NRGBA image cannot fail.
	_ = png.Encode(&buf, img)
	iconCache[c] = buf.Bytes()
	return iconCache[c]
}
