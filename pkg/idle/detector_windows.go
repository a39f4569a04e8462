//go:build windows

package idle

import (
	"fmt"
	"time"
	"unsafe"

	"golang.org/x/sys/windows"

	"github.com/Veraticus/online-check/pkg/interfaces"
)

var (
	user32               = windows.NewLazySystemDLL("user32.dll")
	kernel32             = windows.NewLazySystemDLL("kernel32.dll")
	procGetLastInputInfo = user32.NewProc("GetLastInputInfo")
	procGetTickCount     = kernel32.NewProc("GetTickCount")
)

// lastInputInfo mirrors the Win32 LASTINPUTINFO structure.
type lastInputInfo struct {
	cbSize uint32
	dwTime uint32
}

// WindowsIdleDetector implements idle detection using GetLastInputInfo.
type WindowsIdleDetector struct {
	fallback *ActivityDetector
	// ticks returns the current tick count and the tick count of the last input.
	ticks func() (now uint32, last uint32, err error)
	fallbackNotice
}

// NewWindowsIdleDetector creates a new Windows idle detector.
func NewWindowsIdleDetector() *WindowsIdleDetector {
	return &WindowsIdleDetector{
		fallback: NewActivityDetector(),
		ticks:    systemTicks,
	}
}

// systemTicks reads the tick counters from user32 and kernel32.
func systemTicks() (uint32, uint32, error) {
	info := lastInputInfo{cbSize: uint32(unsafe.Sizeof(lastInputInfo{}))}
	ret, _, err := procGetLastInputInfo.Call(uintptr(unsafe.Pointer(&info))) // #nosec G103 -- Win32 API requires pointer
	if ret == 0 {
		return 0, 0, fmt.Errorf("GetLastInputInfo: %w", err)
	}

	now, _, _ := procGetTickCount.Call()
	return uint32(now), info.dwTime, nil
}

// IdleTime returns the time since the last keyboard or mouse input.
func (d *WindowsIdleDetector) IdleTime() (time.Duration, error) {
	now, last, err := d.ticks()
	if err != nil {
		d.noteFallback(err)
		return d.fallback.IdleTime()
	}

	// Unsigned subtraction handles the 49.7 day tick wraparound.
	return time.Duration(now-last) * time.Millisecond, nil
}

// UpdateActivity records activity in the fallback detector.
func (d *WindowsIdleDetector) UpdateActivity() {
	d.fallback.UpdateActivity()
}

func newPlatformDetector() interfaces.IdleDetector {
	return NewWindowsIdleDetector()
}
