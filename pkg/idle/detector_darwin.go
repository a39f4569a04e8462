//go:build darwin
// +build darwin

package idle

import (
	"bufio"
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strconv"
	"strings"
	"time"

	"github.com/Veraticus/online-check/pkg/interfaces"
)

const ioregTimeout = 2 * time.Second

// DarwinIdleDetector reads HIDIdleTime from the IOHIDSystem registry
// entry, which counts nanoseconds since the last keyboard or mouse event.
// Activity recorded by the application is used when ioreg fails.
type DarwinIdleDetector struct {
	fallback *ActivityDetector
	run      commandRunner
	fallbackNotice
}

// NewDarwinIdleDetector creates a new macOS idle detector.
func NewDarwinIdleDetector() *DarwinIdleDetector {
	return &DarwinIdleDetector{
		fallback: NewActivityDetector(),
		run:      runCommand,
	}
}

// IdleTime returns the HID idle time.
func (d *DarwinIdleDetector) IdleTime() (time.Duration, error) {
	idle, err := d.hidIdleTime()
	if err != nil {
		d.noteFallback(err)
		return d.fallback.IdleTime()
	}
	return idle, nil
}

func (d *DarwinIdleDetector) hidIdleTime() (time.Duration, error) {
	ctx, cancel := context.WithTimeout(context.Background(), ioregTimeout)
	defer cancel()

	out, err := d.run(ctx, "ioreg", "-c", "IOHIDSystem", "-d", "4")
	if err != nil {
		return 0, fmt.Errorf("ioreg: %w", err)
	}
	return parseHIDIdleTime(out)
}

// parseHIDIdleTime finds the first `"HIDIdleTime" = <nanos>` line.
func parseHIDIdleTime(out []byte) (time.Duration, error) {
	scanner := bufio.NewScanner(bytes.NewReader(out))
	for scanner.Scan() {
		line := scanner.Text()
		if !strings.Contains(line, `"HIDIdleTime"`) {
			continue
		}
		_, value, ok := strings.Cut(line, "=")
		if !ok {
			continue
		}
		nanos, err := strconv.ParseInt(strings.Trim(strings.TrimSpace(value), `"`), 10, 64)
		if err != nil {
			return 0, fmt.Errorf("invalid HIDIdleTime %q: %w", strings.TrimSpace(value), err)
		}
		return time.Duration(nanos), nil
	}
	return 0, errors.New("HIDIdleTime not found in ioreg output")
}

// UpdateActivity records activity in the fallback detector.
func (d *DarwinIdleDetector) UpdateActivity() {
	d.fallback.UpdateActivity()
}

// IsAvailable reports whether ioreg is on PATH.
func (d *DarwinIdleDetector) IsAvailable() bool {
	_, err := exec.LookPath("ioreg")
	return err == nil
}

func newPlatformDetector() interfaces.IdleDetector {
	return NewDarwinIdleDetector()
}
