// Package idle provides idle detection for determining how long the user has been away.
package idle

import (
	"fmt"

	"github.com/Veraticus/online-check/pkg/interfaces"
)

// Source names accepted by NewIdleDetectorForSource.
const (
	SourceAuto   = "auto"
	SourceStatic = "static"
)

// NewIdleDetector creates a platform-appropriate idle detector.
// It returns:
// - LinuxIdleDetector on Linux systems (D-Bus, then tmux, then activity tracking)
// - DarwinIdleDetector on macOS systems (using ioreg)
// - WindowsIdleDetector on Windows (using GetLastInputInfo)
// - ActivityDetector on other platforms as a fallback.
func NewIdleDetector() interfaces.IdleDetector {
	return newPlatformDetector()
}

// NewIdleDetectorForSource creates the detector named by a configuration value.
// The static source always reports the user as active, which keeps reports
// flowing on machines without a desktop session.
func NewIdleDetectorForSource(source string) (interfaces.IdleDetector, error) {
	switch source {
	case "", SourceAuto:
		return NewIdleDetector(), nil
	case SourceStatic:
		return NewStaticDetector(0), nil
	default:
		return nil, fmt.Errorf("unknown idle source %q", source)
	}
}
