//go:build !linux && !darwin && !windows
// +build !linux,!darwin,!windows

package idle

import "github.com/Veraticus/online-check/pkg/interfaces"

// Without a system idle source only activity seen by the application counts.
func newPlatformDetector() interfaces.IdleDetector {
	return NewActivityDetector()
}
